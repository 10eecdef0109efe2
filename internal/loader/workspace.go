// Package loader implements the Module/Package Loader Hook: ensuring
// every source file in the target module passes through
// internal/instrument exactly once before compilation, without any
// dynamic import hook (Go has none). It builds an overlay of
// instrumented sources and hands that overlay to the Go toolchain.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is a scratch directory holding instrumented copies of the
// target module's source files. It preserves the original package
// directory layout rather than flattening everything into one
// directory, since overlays require stable, addressable file paths per
// package.
type Workspace struct {
	Dir string // root scratch directory
}

// NewWorkspace creates a temporary directory to hold instrumented
// sources.
func NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "racemop-build-*")
	if err != nil {
		return nil, fmt.Errorf("loader: failed to create workspace: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// Cleanup removes the workspace directory. Best-effort: removal errors
// are ignored since there is nothing more useful to do with them at
// process exit.
func (w *Workspace) Cleanup() {
	if w.Dir != "" {
		_ = os.RemoveAll(w.Dir)
	}
}

// WritePath returns where an instrumented copy of originalPath should be
// written within the workspace, preserving the original file's base name
// under a directory keyed by its package directory's hash-free relative
// layout. Since overlays reference absolute paths directly rather than a
// reconstructed module tree, callers only need a unique destination per
// source file; PackageDir is used to keep files from same-named packages
// in different directories from colliding.
func (w *Workspace) WritePath(packageDir, filename string) string {
	rel := filepath.Base(packageDir)
	return filepath.Join(w.Dir, rel, filepath.Base(filename))
}

// WriteFile writes instrumented source code to dest, creating parent
// directories as needed.
func (w *Workspace) WriteFile(dest string, code []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("loader: failed to create directory for %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, code, 0o644); err != nil {
		return fmt.Errorf("loader: failed to write %s: %w", dest, err)
	}
	return nil
}
