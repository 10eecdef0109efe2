package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ModulePath reads the module import path declared in dir's go.mod (or
// the nearest ancestor directory's go.mod). ExclusionRules.Excluded needs
// a real module path to compare import paths against, so this parses the
// file with golang.org/x/mod/modfile rather than guessing from directory
// layout.
func ModulePath(dir string) (string, error) {
	path, err := findGoMod(dir)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("loader: failed to read %s: %w", path, err)
	}
	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		return "", fmt.Errorf("loader: failed to parse %s: %w", path, err)
	}
	if mf.Module == nil {
		return "", fmt.Errorf("loader: %s declares no module", path)
	}
	return mf.Module.Mod.Path, nil
}

// findGoMod walks up from dir looking for go.mod.
func findGoMod(dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("loader: failed to resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(cur, "go.mod")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("loader: no go.mod found above %s", dir)
		}
		cur = parent
	}
}
