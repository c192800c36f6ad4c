package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeBuildDirIsEmptyAndIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws := New(root)

	dir, err := ws.MakeBuildDir("a")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "log"), []byte("first"), 0o644))

	dir2, err := ws.MakeBuildDir("a")
	require.NoError(t, err)
	require.Equal(t, dir, dir2)

	entries, err := os.ReadDir(dir2)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestMakeBuildOutputDirNeverClears(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws := New(root)

	dir, err := ws.MakeBuildOutputDir("a")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "output.json"), []byte("{}"), 0o644))

	dir2, err := ws.MakeBuildOutputDir("a")
	require.NoError(t, err)
	require.Equal(t, dir, dir2)

	data, err := os.ReadFile(filepath.Join(dir2, "output.json"))
	require.NoError(t, err)
	require.Equal(t, "{}", string(data))
}

func TestMakeDestroyDirClearsBetweenCalls(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws := New(root)

	dir, err := ws.MakeDestroyDir("a")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644))

	dir2, err := ws.MakeDestroyDir("a")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir2)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestClearBuildOutputRemovesDirAndIsIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws := New(root)

	dir, err := ws.MakeBuildOutputDir("a")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "output.hash"), []byte("deadbeef"), 0o644))

	require.NoError(t, ws.ClearBuildOutput("a"))
	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))

	// destroy-then-destroy is a no-op
	require.NoError(t, ws.ClearBuildOutput("a"))
}

func TestEnsureDirReplacesFileWithDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "build", "a")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("not a dir"), 0o644))

	ws := New(root)
	dir, err := ws.MakeBuildDir("a")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestBuildOutputDirDoesNotCreate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws := New(root)

	path := ws.BuildOutputDir("a")
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
