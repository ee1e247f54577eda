// Package extractor parses C++ headers with tree-sitter and builds their
// entity trees.
package extractor

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	tscpp "github.com/smacker/go-tree-sitter/cpp"

	"cppdoc/internal/cpp"
)

// Extractor turns header files into cpp.File trees. It is safe for
// concurrent use: every call parses with its own parser.
type Extractor struct {
	lang *sitter.Language
}

// New creates an extractor for C++.
func New() *Extractor {
	return &Extractor{lang: tscpp.GetLanguage()}
}

// ExtractFile reads and parses a single header. name is recorded as the
// file entity's name and in every location; it is usually the path relative
// to the project root.
func (e *Extractor) ExtractFile(ctx context.Context, path, name string) (*cpp.File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.Extract(ctx, name, source)
}

// Extract parses source and returns its entity tree.
func (e *Extractor) Extract(ctx context.Context, name string, source []byte) (*cpp.File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.lang)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", name, err)
	}
	defer tree.Close()

	b := &builder{src: source, path: name}
	file := &cpp.File{Base: cpp.Base{Ident: name, Loc: cpp.Location{File: name}}}
	b.addAll(file, tree.RootNode(), nil)
	return file, nil
}
