package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/racemop/racemop/internal/monitor"
)

func TestParseArgsDefaults(t *testing.T) {
	cfg, err := ParseArgs(nil)
	require.NoError(t, err)
	require.Equal(t, "specs", cfg.SpecFolder)
	require.Equal(t, monitor.AlgorithmB, cfg.Algorithm)
	require.True(t, cfg.GarbageCollection)
	require.Equal(t, []string{"."}, cfg.Sources)
}

func TestParseArgsOwnFlags(t *testing.T) {
	cfg, err := ParseArgs([]string{
		"-spec-folder", "myspecs",
		"-specs", "Foo, Bar",
		"-algorithm=C+",
		"-no-gc",
		"-detailed",
		"./cmd/app",
	})
	require.NoError(t, err)
	require.Equal(t, "myspecs", cfg.SpecFolder)
	require.Equal(t, []string{"Foo", "Bar"}, cfg.ActiveSpecs)
	require.Equal(t, monitor.AlgorithmCPlus, cfg.Algorithm)
	require.False(t, cfg.GarbageCollection)
	require.True(t, cfg.DetailedMessages)
	require.Equal(t, []string{"./cmd/app"}, cfg.Sources)
}

func TestParseArgsForwardsUnknownFlags(t *testing.T) {
	cfg, err := ParseArgs([]string{"-ldflags", "-s -w", "-race", "main.go"})
	require.NoError(t, err)
	require.Equal(t, []string{"-ldflags", "-s -w", "-race"}, cfg.ForwardedArgs)
	require.Equal(t, []string{"main.go"}, cfg.Sources)
}

func TestParseArgsRejectsUnknownAlgorithm(t *testing.T) {
	_, err := ParseArgs([]string{"-algorithm", "Z"})
	require.Error(t, err)
}

func TestSpecSelected(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.SpecSelected("Anything"))

	cfg.ActiveSpecs = []string{"Foo"}
	require.True(t, cfg.SpecSelected("Foo"))
	require.False(t, cfg.SpecSelected("Bar"))

	cfg.ActiveSpecs = []string{AllSpecs}
	require.True(t, cfg.SpecSelected("Bar"))
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	t.Setenv("RACEMOP_SPEC_FOLDER", "env-specs")
	t.Setenv("RACEMOP_GC", "false")
	t.Setenv("RACEMOP_ALGORITHM", "d")

	cfg := Default()
	ApplyEnv(cfg)
	require.Equal(t, "env-specs", cfg.SpecFolder)
	require.False(t, cfg.GarbageCollection)
	require.Equal(t, monitor.AlgorithmD, cfg.Algorithm)
}

func TestParseArgsFlagOverridesEnv(t *testing.T) {
	t.Setenv("RACEMOP_SPEC_FOLDER", "env-specs")

	cfg, err := ParseArgs([]string{"-spec-folder", "flag-specs"})
	require.NoError(t, err)
	require.Equal(t, "flag-specs", cfg.SpecFolder)
}

func TestToEnvRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.SpecFolder = "myspecs"
	cfg.ActiveSpecs = []string{"Foo", "Bar"}
	cfg.Algorithm = monitor.AlgorithmCPlus
	cfg.GarbageCollection = false
	cfg.DetailedMessages = true

	env := cfg.ToEnv()

	restored := Default()
	for _, kv := range env {
		name, value, ok := splitEnvPair(kv)
		require.True(t, ok, "malformed env pair %q", kv)
		t.Setenv(name, value)
	}
	ApplyEnv(restored)

	require.Equal(t, cfg.SpecFolder, restored.SpecFolder)
	require.Equal(t, cfg.ActiveSpecs, restored.ActiveSpecs)
	require.Equal(t, cfg.Algorithm, restored.Algorithm)
	require.Equal(t, cfg.GarbageCollection, restored.GarbageCollection)
	require.Equal(t, cfg.DetailedMessages, restored.DetailedMessages)
}

func splitEnvPair(kv string) (name, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}
