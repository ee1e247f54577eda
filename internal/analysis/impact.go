// Package analysis maps source changes onto indexed entities.
package analysis

import (
	"context"

	"cppdoc/internal/git"
	"cppdoc/internal/storage"
)

// ImpactReport summarizes the entities affected by changes.
type ImpactReport struct {
	// DirectlyAffected are the entities whose declaration covers a changed
	// line.
	DirectlyAffected []storage.Entity
	// IndirectlyAffected are the enclosing entities of the direct ones; their
	// synopsis shows the changed declaration.
	IndirectlyAffected []storage.Entity
	DeletedFiles       []string
}

// Analyzer performs impact analysis on the entity index.
type Analyzer struct {
	store storage.EntityStore
}

// NewAnalyzer creates a new analyzer. The index must already reflect the
// changed files, since diff line numbers refer to their new version.
func NewAnalyzer(store storage.EntityStore) *Analyzer {
	return &Analyzer{store: store}
}

// AnalyzeImpact identifies which entities are affected by the given changes.
func (a *Analyzer) AnalyzeImpact(ctx context.Context, changes []git.ChangedFile) (*ImpactReport, error) {
	report := &ImpactReport{
		DirectlyAffected:   []storage.Entity{},
		IndirectlyAffected: []storage.Entity{},
	}

	seenDirect := make(map[string]bool)
	seenIndirect := make(map[string]bool)

	for _, change := range changes {
		if change.Deleted {
			report.DeletedFiles = append(report.DeletedFiles, change.Path)
			continue
		}
		entities, err := a.store.FindByFile(ctx, change.Path)
		if err != nil {
			return nil, err
		}
		byQualified := make(map[string]storage.Entity, len(entities))
		for _, e := range entities {
			byQualified[e.Qualified] = e
		}

		// 1. Direct impacts
		var direct []storage.Entity
		for _, e := range entities {
			if isAffected(e, change.ChangedLines) && !seenDirect[e.ID] {
				seenDirect[e.ID] = true
				direct = append(direct, e)
			}
		}
		report.DirectlyAffected = append(report.DirectlyAffected, direct...)

		// 2. Indirect impacts: enclosing scopes
		for _, e := range direct {
			for parent, ok := byQualified[e.Parent]; ok; parent, ok = byQualified[parent.Parent] {
				if seenDirect[parent.ID] || seenIndirect[parent.ID] {
					break
				}
				seenIndirect[parent.ID] = true
				report.IndirectlyAffected = append(report.IndirectlyAffected, parent)
			}
		}
	}

	return report, nil
}

func isAffected(e storage.Entity, lines []int) bool {
	end := e.EndLine
	if end < e.Line {
		end = e.Line
	}
	for _, line := range lines {
		if line >= e.Line && line <= end {
			return true
		}
	}
	return false
}
