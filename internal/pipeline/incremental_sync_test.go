package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cppdoc/internal/blacklist"
	"cppdoc/internal/crawler"
	"cppdoc/internal/extractor"
	"cppdoc/internal/generator"
	"cppdoc/internal/git"
	"cppdoc/internal/index"
	"cppdoc/internal/storage"
	"cppdoc/internal/synopsis"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
}

func newSync(t *testing.T, changes []git.ChangedFile) (*IncrementalSync, string, string) {
	t.Helper()
	root, out := t.TempDir(), t.TempDir()
	write(t, root, "a.hpp", "/// A.\nint a();\n")
	write(t, root, "b.hpp", "/// B.\nint b();\n")

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ext := extractor.New()
	policy := blacklist.New()
	opts := synopsis.DefaultOptions()
	idx := index.NewIndexer(crawler.NewCrawler(ext, []string{".hpp"}), ext, store, policy, opts)
	gen := generator.New(policy, opts, generator.Markdown, 2)

	files, _, err := idx.Build(context.Background(), root)
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), files, out)
	require.NoError(t, err)

	return &IncrementalSync{
		ProjectRoot: root,
		OutputDir:   out,
		BaseRef:     "HEAD",
		Extensions:  []string{".hpp"},
		Indexer:     idx,
		Store:       store,
		Generator:   gen,
		Changes: func(context.Context, string, string) ([]git.ChangedFile, error) {
			return changes, nil
		},
	}, root, out
}

func TestIncrementalSync_Run(t *testing.T) {
	s, root, out := newSync(t, []git.ChangedFile{
		{Path: "a.hpp", ChangedLines: []int{2}},
		{Path: "b.hpp", Deleted: true},
		{Path: "main.cpp", ChangedLines: []int{1}},
	})
	write(t, root, "a.hpp", "/// A, now with an argument.\nint a(int x);\n")
	require.NoError(t, os.Remove(filepath.Join(root, "b.hpp")))

	result, err := s.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 1, result.Stats.Removed)
	require.NotNil(t, result.Impact)
	require.Len(t, result.Impact.DirectlyAffected, 1)
	assert.Equal(t, "a", result.Impact.DirectlyAffected[0].Name)
	assert.Equal(t, []string{"b.hpp"}, result.Impact.DeletedFiles)
	assert.Equal(t, "update", result.Report.Mode)

	page, err := os.ReadFile(filepath.Join(out, "a.hpp.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "int a(int x);")

	_, err = os.Stat(filepath.Join(out, "b.hpp.md"))
	assert.True(t, os.IsNotExist(err))

	index, err := os.ReadFile(filepath.Join(out, "index.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(index), "b.hpp")
}

func TestIncrementalSync_NoChanges(t *testing.T) {
	s, _, _ := newSync(t, nil)

	result, err := s.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Nil(t, result.Report)

	t.Run("force", func(t *testing.T) {
		result, err := s.Run(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Pages)
		assert.Nil(t, result.Impact)
		assert.Equal(t, "full_sync", result.Report.Mode)
	})
}
