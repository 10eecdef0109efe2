package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModulePathReadsDeclaredModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module github.com/example/app\n\ngo 1.24\n"), 0o644))

	path, err := ModulePath(dir)
	require.NoError(t, err)
	require.Equal(t, "github.com/example/app", path)
}

func TestModulePathWalksUpToAncestorGoMod(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module github.com/example/nested\n\ngo 1.24\n"), 0o644))
	sub := filepath.Join(dir, "cmd", "tool")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	path, err := ModulePath(sub)
	require.NoError(t, err)
	require.Equal(t, "github.com/example/nested", path)
}

func TestModulePathErrorsWithNoGoMod(t *testing.T) {
	_, err := ModulePath(t.TempDir())
	require.Error(t, err)
}
