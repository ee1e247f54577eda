package storage

import (
	"context"
)

// Entity is one indexed declaration.
type Entity struct {
	// ID is unique within the index: the file, the qualified name, the kind
	// and the line.
	ID        string `json:"id"`
	File      string `json:"file"`
	Name      string `json:"name"`
	Qualified string `json:"qualified"`
	Kind      string `json:"kind"`
	Parent    string `json:"parent,omitempty"`
	Line      int    `json:"line"`
	EndLine   int    `json:"end_line"`
	// Documented is set when the entity has its own comment.
	Documented bool   `json:"documented"`
	Brief      string `json:"brief,omitempty"`
	// Synopsis is the declaration as the synopsis generator writes it.
	Synopsis string `json:"synopsis"`
}

// File is an indexed header.
type File struct {
	Path string
	// Hash is the content hash of the header when it was indexed.
	Hash string
}

// Store persists the entity index.
type Store interface {
	EntityStore
	Close() error
}

// EntityStore defines operations on indexed headers and their entities.
type EntityStore interface {
	// SaveFile replaces the entities of a header.
	SaveFile(ctx context.Context, file File, entities []Entity) error

	// DeleteFile drops a header and its entities.
	DeleteFile(ctx context.Context, path string) error

	// GetFile returns the indexed header at path, and false when it is not
	// indexed.
	GetFile(ctx context.Context, path string) (File, bool, error)

	// ListFiles returns all indexed headers ordered by path.
	ListFiles(ctx context.Context) ([]File, error)

	// FindByName returns the entities whose name or qualified name is name.
	FindByName(ctx context.Context, name string) ([]Entity, error)

	// FindByFile returns the entities of a header in source order.
	FindByFile(ctx context.Context, path string) ([]Entity, error)
}
