// Package index keeps the SQLite entity index in sync with the headers of a
// project.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cppdoc/internal/comment"
	"cppdoc/internal/cpp"
	"cppdoc/internal/crawler"
	"cppdoc/internal/extractor"
	"cppdoc/internal/generator"
	"cppdoc/internal/logging"
	"cppdoc/internal/markup"
	"cppdoc/internal/storage"
	"cppdoc/internal/synopsis"
)

var log = logging.Log()

// Indexer orchestrates header indexing.
type Indexer struct {
	crawler   *crawler.Crawler
	extractor *extractor.Extractor
	store     storage.EntityStore
	policy    generator.Policy
	opts      synopsis.Options
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler, ext *extractor.Extractor, store storage.EntityStore, policy generator.Policy, opts synopsis.Options) *Indexer {
	return &Indexer{
		crawler:   c,
		extractor: ext,
		store:     store,
		policy:    policy,
		opts:      opts,
	}
}

// Stats counts what an indexing run did.
type Stats struct {
	Files    int
	Entities int
	Removed  int
}

// Build indexes every header under root and drops headers that are gone.
// It returns the extracted files for further processing.
func (i *Indexer) Build(ctx context.Context, root string) ([]*cpp.File, Stats, error) {
	var stats Stats
	var files []*cpp.File
	seen := map[string]bool{}

	err := i.crawler.ScanProject(ctx, root, func(f *cpp.File) error {
		n, err := i.save(ctx, root, f)
		if err != nil {
			return err
		}
		files = append(files, f)
		seen[f.Name()] = true
		stats.Files++
		stats.Entities += n
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("scan failed: %w", err)
	}

	indexed, err := i.store.ListFiles(ctx)
	if err != nil {
		return nil, stats, err
	}
	for _, f := range indexed {
		if seen[f.Path] {
			continue
		}
		if err := i.store.DeleteFile(ctx, f.Path); err != nil {
			return nil, stats, err
		}
		stats.Removed++
	}
	return files, stats, nil
}

// Update re-indexes the given headers, relative to root. Headers that no
// longer exist are removed from the index. Headers whose content did not
// change since they were indexed are skipped.
func (i *Indexer) Update(ctx context.Context, root string, headers []string) ([]*cpp.File, Stats, error) {
	var stats Stats
	var files []*cpp.File
	for _, rel := range headers {
		path := filepath.Join(root, filepath.FromSlash(rel))
		source, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			if err := i.store.DeleteFile(ctx, rel); err != nil {
				return nil, stats, err
			}
			stats.Removed++
			continue
		}
		if err != nil {
			return nil, stats, err
		}

		prev, ok, err := i.store.GetFile(ctx, rel)
		if err != nil {
			return nil, stats, err
		}
		if ok && prev.Hash == hash(source) {
			log.V(1).Info("Unchanged header", "file", rel)
			continue
		}

		f, err := i.extractor.Extract(ctx, rel, source)
		if err != nil {
			return nil, stats, err
		}
		n, err := i.saveSource(ctx, f, source)
		if err != nil {
			return nil, stats, err
		}
		files = append(files, f)
		stats.Files++
		stats.Entities += n
	}
	return files, stats, nil
}

func (i *Indexer) save(ctx context.Context, root string, f *cpp.File) (int, error) {
	source, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Name())))
	if err != nil {
		return 0, err
	}
	return i.saveSource(ctx, f, source)
}

func (i *Indexer) saveSource(ctx context.Context, f *cpp.File, source []byte) (int, error) {
	records, err := Records(f, i.policy, i.opts)
	if err != nil {
		return 0, err
	}
	if err := i.store.SaveFile(ctx, storage.File{Path: f.Name(), Hash: hash(source)}, records); err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", f.Name(), err)
	}
	return len(records), nil
}

// Records converts the entries of a file into index rows.
func Records(f *cpp.File, policy generator.Policy, opts synopsis.Options) ([]storage.Entity, error) {
	entries, excluded, err := generator.Collect(f, policy, opts.ExtractPrivate)
	if err != nil {
		return nil, err
	}
	if len(excluded) > 0 {
		opts.Exclude = func(e cpp.Entity) bool { return excluded[e] }
	}

	records := make([]storage.Entity, 0, len(entries))
	seen := map[string]int{}
	for _, entry := range entries {
		e := entry.Entity
		text, err := synopsis.String(e, policy, opts)
		if err != nil {
			return nil, err
		}
		qualified := cpp.QualifiedName(e)
		// overloads declared on one line share everything but their ordinal
		id := fmt.Sprintf("%s:%d:%s:%s", f.Name(), e.Location().Line, e.Kind(), qualified)
		n := seen[id]
		seen[id]++
		if n > 0 {
			id = fmt.Sprintf("%s#%d", id, n)
		}
		rec := storage.Entity{
			ID:         id,
			File:       f.Name(),
			Name:       e.Name(),
			Qualified:  qualified,
			Kind:       e.Kind().String(),
			Line:       e.Location().Line,
			EndLine:    e.Location().EndLine,
			Documented: true,
			Brief:      brief(entry.Comment),
			Synopsis:   OneLine(text),
		}
		if p := e.SemanticParent(); p != nil && p.Kind() != cpp.FileKind {
			rec.Parent = cpp.QualifiedName(p)
		}
		records = append(records, rec)
	}
	return records, nil
}

func brief(c *comment.Comment) string {
	if p := c.Brief(); p != nil {
		return markup.PlainText(p)
	}
	return ""
}

// OneLine collapses a synopsis onto a single line.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}
