package crawler

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"cppdoc/internal/cpp"
	"cppdoc/internal/extractor"
	"cppdoc/internal/logging"
)

var log = logging.Log()

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"build":        true,
	"node_modules": true,
	"third_party":  true,
	"vendor":       true,
	"testdata":     true,
}

// Crawler scans a directory for header files.
type Crawler struct {
	extractor  *extractor.Extractor
	extensions map[string]bool
}

// NewCrawler creates a new crawler that extracts files with one of the given
// extensions.
func NewCrawler(ext *extractor.Extractor, extensions []string) *Crawler {
	c := &Crawler{extractor: ext, extensions: make(map[string]bool, len(extensions))}
	for _, e := range extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		c.extensions[strings.ToLower(e)] = true
	}
	return c
}

// Headers lists the header paths under root, relative to root and using
// forward slashes, in walk order.
func (c *Crawler) Headers(root string) ([]string, error) {
	gi := loadGitignore(root)
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if c.extensions[strings.ToLower(filepath.Ext(rel))] {
			out = append(out, rel)
		}
		return nil
	})
	return out, err
}

// ScanProject walks root and extracts every header it finds. Files are
// streamed to onFile one at a time; a file that fails to parse is logged and
// skipped. An error from onFile stops the scan.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(*cpp.File) error) error {
	headers, err := c.Headers(root)
	if err != nil {
		return err
	}
	for _, rel := range headers {
		if err := ctx.Err(); err != nil {
			return err
		}
		file, err := c.extractor.ExtractFile(ctx, filepath.Join(root, filepath.FromSlash(rel)), rel)
		if err != nil {
			log.Error(err, "Skipping header", "file", rel)
			continue
		}
		if err := onFile(file); err != nil {
			return err
		}
	}
	return nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
