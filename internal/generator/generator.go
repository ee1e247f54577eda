// Package generator builds documentation pages from extracted headers and
// writes them as Markdown or HTML.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"cppdoc/internal/cpp"
	"cppdoc/internal/logging"
	"cppdoc/internal/markup"
	"cppdoc/internal/synopsis"
)

var log = logging.Log()

type Format string

const (
	Markdown Format = "markdown"
	HTML     Format = "html"
)

// Ext is the file extension of pages in this format.
func (f Format) Ext() string {
	if f == HTML {
		return ".html"
	}
	return ".md"
}

// Render writes doc in this format.
func (f Format) Render(buf *bytes.Buffer, doc markup.Node) error {
	if f == HTML {
		return markup.RenderHTML(buf, doc)
	}
	return markup.WriteMarkdown(buf, doc)
}

// Generator writes documentation pages.
type Generator struct {
	policy  Policy
	opts    synopsis.Options
	format  Format
	workers int
}

// New creates a generator. workers bounds the number of pages built at once.
func New(policy Policy, opts synopsis.Options, format Format, workers int) *Generator {
	if format == "" {
		format = Markdown
	}
	if workers <= 0 {
		workers = 1
	}
	return &Generator{policy: policy, opts: opts, format: format, workers: workers}
}

// PagePath is the path of the page for header, relative to the output
// directory.
func (g *Generator) PagePath(header string) string {
	return header + g.format.Ext()
}

// IndexPath is the path of the index page, relative to the output directory.
func (g *Generator) IndexPath() string {
	return "index" + g.format.Ext()
}

// Generate writes the pages of files, the index page listing every file and
// the generation report.
func (g *Generator) Generate(ctx context.Context, files []*cpp.File, outputDir string) (*Report, error) {
	headers := make([]string, len(files))
	for i, f := range files {
		headers[i] = f.Name()
	}
	return g.Update(ctx, "generate", files, headers, outputDir)
}

// Update writes the pages of files and an index page listing headers. mode
// names the run in the report.
func (g *Generator) Update(ctx context.Context, mode string, files []*cpp.File, headers []string, outputDir string) (report *Report, retErr error) {
	report = NewReport(mode, string(g.format), outputDir)
	defer func() {
		if retErr != nil {
			report.AddSignal("generation_failed", "generator", "critical", "", retErr.Error())
		}
		if err := report.Save(filepath.Join(outputDir, ReportFile)); err != nil {
			fmt.Printf("⚠️  Failed to write generation report: %v\n", err)
		}
	}()

	stage := report.BeginStage("init_output_dir")
	err := os.MkdirAll(outputDir, 0755)
	report.EndStage(stage, nil, err)
	if err != nil {
		return report, err
	}

	stage = report.BeginStage("write_pages")
	err = g.WritePages(ctx, files, outputDir, report)
	report.EndStage(stage, map[string]float64{"pages": float64(len(files))}, err)
	if err != nil {
		return report, err
	}

	stage = report.BeginStage("write_index")
	err = g.WriteIndex(headers, outputDir)
	report.EndStage(stage, map[string]float64{"headers": float64(len(headers))}, err)
	return report, err
}

// WritePages builds and writes the pages of files in parallel. Every page
// is built from its own markup tree, so the passes share nothing but the
// read-only policy.
func (g *Generator) WritePages(ctx context.Context, files []*cpp.File, outputDir string, report *Report) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	var mu sync.Mutex
	for _, file := range files {
		file := file
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			metric, err := g.writePage(file, outputDir)
			if err != nil {
				return fmt.Errorf("%s: %w", file.Name(), err)
			}
			mu.Lock()
			report.AddFile(metric)
			if metric.Documented == 0 && metric.Entities > 0 {
				report.AddSignal("no_documentation", "write_pages", "info", file.Name(), "Header has no documented entities.")
			}
			mu.Unlock()
			log.V(1).Info("Wrote page", "header", file.Name(), "entries", metric.Documented)
			return nil
		})
	}
	return eg.Wait()
}

func (g *Generator) writePage(file *cpp.File, outputDir string) (FileMetric, error) {
	page, err := BuildPage(file, g.policy, g.opts)
	if err != nil {
		return FileMetric{}, err
	}
	rel := g.PagePath(file.Name())
	if err := g.write(page.Document, filepath.Join(outputDir, filepath.FromSlash(rel))); err != nil {
		return FileMetric{}, err
	}

	metric := FileMetric{Header: file.Name(), Page: rel, Documented: len(page.Entries)}
	cpp.Walk(file, func(e cpp.Entity) bool {
		if e == cpp.Entity(file) || inlineKinds[e.Kind()] || e.Kind() == cpp.InclusionDirectiveKind || e.Kind() == cpp.InvalidKind {
			return true
		}
		if w := e.SemanticParent(); w != nil && cpp.Wrapped(w) == e {
			return true
		}
		metric.Entities++
		if !cpp.HasDocumentation(e) {
			metric.Undocumented++
		}
		return true
	})
	return metric, nil
}

// BuildIndex builds the index page: a list linking the page of every header.
func (g *Generator) BuildIndex(headers []string) (*markup.Document, error) {
	sorted := append([]string(nil), headers...)
	sort.Strings(sorted)

	doc := markup.NewDocument()
	h, err := markup.MakeHeading(doc, 1)
	if err != nil {
		return nil, err
	}
	if _, err := markup.MakeText(h, "Project index"); err != nil {
		return nil, err
	}
	if len(sorted) == 0 {
		return doc, nil
	}

	list, err := markup.MakeList(doc, markup.BulletList, markup.NoDelimiter, 0, true)
	if err != nil {
		return nil, err
	}
	for _, header := range sorted {
		para, err := markup.MakeListItemParagraph(list)
		if err != nil {
			return nil, err
		}
		link, err := markup.MakeLink(para, g.PagePath(header), "")
		if err != nil {
			return nil, err
		}
		if _, err := markup.MakeInlineCode(link, header); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// WriteIndex writes the index page.
func (g *Generator) WriteIndex(headers []string, outputDir string) error {
	doc, err := g.BuildIndex(headers)
	if err != nil {
		return err
	}
	return g.write(doc, filepath.Join(outputDir, g.IndexPath()))
}

func (g *Generator) write(doc markup.Node, path string) error {
	var buf bytes.Buffer
	if err := g.format.Render(&buf, doc); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ParseFormat checks a configured format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Markdown, HTML:
		return f, nil
	case "":
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}
