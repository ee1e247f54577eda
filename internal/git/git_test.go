package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/include/a.hpp b/include/a.hpp
index 1111111..2222222 100644
--- a/include/a.hpp
+++ b/include/a.hpp
@@ -3,0 +4,2 @@ namespace a
+/// New.
+int added();
@@ -10 +12 @@ int f();
-int g();
+int g(int);
@@ -20,3 +23,0 @@ int h();
-int x;
-int y;
-int z;
diff --git a/include/gone.hpp b/include/gone.hpp
deleted file mode 100644
index 3333333..0000000
--- a/include/gone.hpp
+++ /dev/null
@@ -1,2 +0,0 @@
-#pragma once
-int gone();
diff --git a/src/main.cpp b/src/main.cpp
index 4444444..5555555 100644
--- a/src/main.cpp
+++ b/src/main.cpp
@@ -1 +1 @@
-int main() {}
+int main() { return 0; }
`

func TestParseDiff(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, ChangedFile{Path: "include/a.hpp", ChangedLines: []int{4, 5, 12}}, changes[0])
	assert.Equal(t, "include/gone.hpp", changes[1].Path)
	assert.True(t, changes[1].Deleted)
	assert.Empty(t, changes[1].ChangedLines)
	assert.Equal(t, []int{1}, changes[2].ChangedLines)
}

func TestParseDiff_Rename(t *testing.T) {
	diff := "diff --git a/old.hpp b/new.hpp\nsimilarity index 90%\nrename from old.hpp\nrename to new.hpp\n"
	changes, err := parseDiff([]byte(diff))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "new.hpp", changes[0].Path)
}

func TestParseDiff_Empty(t *testing.T) {
	changes, err := parseDiff(nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestFilter(t *testing.T) {
	changes := []ChangedFile{{Path: "a.hpp"}, {Path: "b.cpp"}, {Path: "C.H"}}
	got := Filter(changes, []string{".hpp", ".h"})
	require.Len(t, got, 2)
	assert.Equal(t, "a.hpp", got[0].Path)
	assert.Equal(t, "C.H", got[1].Path)
}
