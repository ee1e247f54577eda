// Package pipeline regenerates documentation for the headers changed since
// a git revision.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cppdoc/internal/analysis"
	"cppdoc/internal/cpp"
	"cppdoc/internal/generator"
	"cppdoc/internal/git"
	"cppdoc/internal/index"
	"cppdoc/internal/logging"
	"cppdoc/internal/storage"
)

var log = logging.Log()

// ChangeSource lists the files changed in a project.
type ChangeSource func(ctx context.Context, root, baseRef string) ([]git.ChangedFile, error)

type IncrementalSync struct {
	ProjectRoot string
	OutputDir   string
	BaseRef     string
	Extensions  []string

	Indexer   *index.Indexer
	Store     storage.EntityStore
	Generator *generator.Generator

	// Changes defaults to git.ChangedFiles.
	Changes ChangeSource
}

type updatePlan struct {
	Changes    []git.ChangedFile
	FullResync bool
}

// Result is what a sync run did.
type Result struct {
	Stats  index.Stats
	Impact *analysis.ImpactReport
	Report *generator.Report
	Pages  int
}

// Run updates the index and the pages. With force and no changed header the
// whole project is re-indexed and regenerated.
func (s *IncrementalSync) Run(ctx context.Context, force bool) (*Result, error) {
	plan, err := s.detectChangesStage(ctx, force)
	if err != nil {
		return nil, err
	}
	if len(plan.Changes) == 0 && !plan.FullResync {
		fmt.Println("✅ No header changed.")
		return &Result{}, nil
	}

	files, stats, err := s.indexStage(ctx, plan)
	if err != nil {
		return nil, err
	}
	result := &Result{Stats: stats, Pages: len(files)}

	if len(plan.Changes) > 0 {
		if result.Impact, err = s.impactAnalysisStage(ctx, plan.Changes); err != nil {
			return nil, err
		}
	}

	if result.Report, err = s.documentationStage(ctx, files, plan); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *IncrementalSync) detectChangesStage(ctx context.Context, force bool) (*updatePlan, error) {
	source := s.Changes
	if source == nil {
		source = git.ChangedFiles
	}
	changes, err := source(ctx, s.ProjectRoot, s.BaseRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get git changes: %w", err)
	}
	changes = git.Filter(changes, s.Extensions)

	fullResync := force && len(changes) == 0
	if fullResync {
		fmt.Println("🧭 No changed header. Running full sync from current headers (--force).")
	} else if len(changes) > 0 {
		fmt.Printf("📝 Detected %d changed headers.\n", len(changes))
	}

	return &updatePlan{
		Changes:    changes,
		FullResync: fullResync,
	}, nil
}

func (s *IncrementalSync) indexStage(ctx context.Context, plan *updatePlan) ([]*cpp.File, index.Stats, error) {
	if plan.FullResync {
		files, stats, err := s.Indexer.Build(ctx, s.ProjectRoot)
		if err != nil {
			return nil, stats, fmt.Errorf("full sync failed: %w", err)
		}
		fmt.Printf("📊 Index: full rebuild, %d headers, %d entities.\n", stats.Files, stats.Entities)
		return files, stats, nil
	}

	headers := make([]string, len(plan.Changes))
	for i, c := range plan.Changes {
		headers[i] = c.Path
		log.V(1).Info("Changed header", "file", c.Path, "lines", len(c.ChangedLines), "deleted", c.Deleted)
	}
	files, stats, err := s.Indexer.Update(ctx, s.ProjectRoot, headers)
	if err != nil {
		return nil, stats, fmt.Errorf("index update failed: %w", err)
	}
	fmt.Printf("📊 Index: %d headers re-indexed, %d removed.\n", stats.Files, stats.Removed)
	return files, stats, nil
}

func (s *IncrementalSync) impactAnalysisStage(ctx context.Context, changes []git.ChangedFile) (*analysis.ImpactReport, error) {
	fmt.Println("🔍 Analyzing impact...")
	report, err := analysis.NewAnalyzer(s.Store).AnalyzeImpact(ctx, changes)
	if err != nil {
		return nil, err
	}
	for _, e := range report.DirectlyAffected {
		log.V(1).Info("Entity changed", "entity", e.Qualified, "file", e.File, "line", e.Line)
	}
	fmt.Printf("  -> %d entities directly affected\n", len(report.DirectlyAffected))
	fmt.Printf("  -> %d enclosing entities affected\n", len(report.IndirectlyAffected))
	return report, nil
}

func (s *IncrementalSync) documentationStage(ctx context.Context, files []*cpp.File, plan *updatePlan) (*generator.Report, error) {
	for _, c := range plan.Changes {
		if !c.Deleted {
			continue
		}
		page := filepath.Join(s.OutputDir, filepath.FromSlash(s.Generator.PagePath(c.Path)))
		if err := os.Remove(page); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	indexed, err := s.Store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	headers := make([]string, len(indexed))
	for i, f := range indexed {
		headers[i] = f.Path
	}

	mode := "update"
	if plan.FullResync {
		mode = "full_sync"
	}
	fmt.Printf("✍️  Regenerating %d pages...\n", len(files))
	report, err := s.Generator.Update(ctx, mode, files, headers, s.OutputDir)
	if err != nil {
		return report, fmt.Errorf("generation failed: %w", err)
	}
	return report, nil
}
