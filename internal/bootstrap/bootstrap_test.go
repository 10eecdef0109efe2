package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartReturnsCleanupThatWritesStatisticsOnce(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RACEMOP_STATISTICS_FILE", filepath.Join(dir, "mop"))
	t.Setenv("RACEMOP_SPEC_FOLDER", filepath.Join(dir, "nonexistent-specs"))

	cleanup := Start()
	require.NotNil(t, cleanup)

	cleanup()
	cleanup() // must be safe to call a second time (sync.Once inside Coordinator.Shutdown)

	data, err := os.ReadFile(filepath.Join(dir, "mop-time.txt"))
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
