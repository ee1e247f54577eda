package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveFile_ReplacesSnapshot(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := []Entity{
		testEntity("a.hpp", "ns::f", "function", 3),
		testEntity("a.hpp", "ns::g", "function", 5),
	}
	require.NoError(t, store.SaveFile(ctx, File{Path: "a.hpp", Hash: "h1"}, first))

	second := []Entity{testEntity("a.hpp", "ns::h", "function", 4)}
	require.NoError(t, store.SaveFile(ctx, File{Path: "a.hpp", Hash: "h2"}, second))

	got, err := store.FindByFile(ctx, "a.hpp")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "h", got[0].Name)
	assert.Equal(t, "ns::h", got[0].Qualified)
	assert.Equal(t, 4, got[0].Line)
	assert.True(t, got[0].Documented)

	f, ok, err := store.GetFile(ctx, "a.hpp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "h2", f.Hash)
}

func TestSQLiteStore_FindByName(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveFile(ctx, File{Path: "a.hpp"}, []Entity{testEntity("a.hpp", "a::widget", "class", 1)}))
	require.NoError(t, store.SaveFile(ctx, File{Path: "b.hpp"}, []Entity{testEntity("b.hpp", "b::widget", "class", 9)}))

	byName, err := store.FindByName(ctx, "widget")
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "a.hpp", byName[0].File)
	assert.Equal(t, "b.hpp", byName[1].File)

	byQualified, err := store.FindByName(ctx, "b::widget")
	require.NoError(t, err)
	require.Len(t, byQualified, 1)
	assert.Equal(t, "class b::widget;", byQualified[0].Synopsis)

	none, err := store.FindByName(ctx, "gadget")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_DeleteFile(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveFile(ctx, File{Path: "a.hpp"}, []Entity{testEntity("a.hpp", "f", "function", 1)}))
	require.NoError(t, store.SaveFile(ctx, File{Path: "b.hpp"}, []Entity{testEntity("b.hpp", "g", "function", 1)}))
	require.NoError(t, store.DeleteFile(ctx, "a.hpp"))

	entities, err := store.FindByFile(ctx, "a.hpp")
	require.NoError(t, err)
	assert.Empty(t, entities)

	_, ok, err := store.GetFile(ctx, "a.hpp")
	require.NoError(t, err)
	assert.False(t, ok)

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []File{{Path: "b.hpp"}}, files)
}

func testEntity(file, qualified, kind string, line int) Entity {
	name := qualified
	if i := lastScope(qualified); i >= 0 {
		name = qualified[i+2:]
	}
	return Entity{
		ID:         file + "#" + qualified,
		File:       file,
		Name:       name,
		Qualified:  qualified,
		Kind:       kind,
		Line:       line,
		EndLine:    line + 2,
		Documented: true,
		Synopsis:   kind + " " + qualified + ";",
	}
}

func lastScope(s string) int {
	for i := len(s) - 2; i >= 0; i-- {
		if s[i] == ':' && s[i+1] == ':' {
			return i
		}
	}
	return -1
}
