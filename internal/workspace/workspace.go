// Package workspace owns the per-target filesystem layout rooted at a
// project's temp directory: a transient build dir, a persistent
// build-output dir, and a transient destroy dir, with the clear/preserve
// semantics the orchestrator relies on.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	buildDirName       = "build"
	buildOutputDirName = "build-output"
	destroyDirName     = "destroy"
)

// Workspace produces per-target directory paths under a single project temp
// root.
type Workspace struct {
	root string
}

// New returns a Workspace rooted at root (typically "<project_dir>/tmp").
func New(root string) *Workspace {
	return &Workspace{root: root}
}

// Root returns the project temp root this workspace is rooted at.
func (w *Workspace) Root() string {
	return w.root
}

// MakeBuildDir ensures the build dir for target exists and is empty,
// returning its path. Called at the start of each build of target.
func (w *Workspace) MakeBuildDir(target string) (string, error) {
	return ensureEmptyDir(filepath.Join(w.root, buildDirName, target))
}

// MakeBuildOutputDir ensures the persistent output dir for target exists,
// without clearing any prior contents, returning its path.
func (w *Workspace) MakeBuildOutputDir(target string) (string, error) {
	return ensureDir(filepath.Join(w.root, buildOutputDirName, target))
}

// MakeDestroyDir ensures the destroy dir for target exists and is empty,
// returning its path. Called at the start of each destroy of target.
func (w *Workspace) MakeDestroyDir(target string) (string, error) {
	return ensureEmptyDir(filepath.Join(w.root, destroyDirName, target))
}

// ClearBuildOutput recursively removes the output dir for target. Called
// after a successful destroy of target.
func (w *Workspace) ClearBuildOutput(target string) error {
	return os.RemoveAll(filepath.Join(w.root, buildOutputDirName, target))
}

// BuildOutputDir returns the path MakeBuildOutputDir would produce, without
// creating it. Used by the destroyer to re-derive a successor's output dir
// without re-running its build.
func (w *Workspace) BuildOutputDir(target string) string {
	return filepath.Join(w.root, buildOutputDirName, target)
}

// ensureDir creates path (and parents) if absent. If path exists as a
// regular file, it is removed first so a directory can take its place.
func ensureDir(path string) (string, error) {
	info, err := os.Lstat(path)
	switch {
	case err == nil && !info.IsDir():
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("workspace: replacing file at %s: %w", path, err)
		}
	case err != nil && !os.IsNotExist(err):
		return "", fmt.Errorf("workspace: stat %s: %w", path, err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("workspace: create %s: %w", path, err)
	}
	return path, nil
}

// ensureEmptyDir creates path fresh and empty, removing any prior contents.
func ensureEmptyDir(path string) (string, error) {
	if err := os.RemoveAll(path); err != nil {
		return "", fmt.Errorf("workspace: clear %s: %w", path, err)
	}
	return ensureDir(path)
}
