package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/racemop/racemop/internal/config"
	"github.com/racemop/racemop/internal/lifecycle"
	"github.com/racemop/racemop/internal/loader"
)

// prepareOverlay instruments the module rooted at workDir through the
// Loader Hook and writes the resulting overlay to a JSON file inside the
// returned Result's workspace, ready to pass to `go build/run/test
// -overlay=`. Callers must call result.Workspace.Cleanup() once the
// underlying go command has finished reading the overlay.
func prepareOverlay(cfg *config.Config, workDir string, patterns []string, includeTests bool) (*loader.Result, string, error) {
	coord := lifecycle.NewCoordinator(cfg, nil)
	result, err := coord.PrepareOverlay(workDir, patterns, includeTests)
	if err != nil {
		return nil, "", err
	}
	if result == nil {
		return nil, "", fmt.Errorf("racemop: -strategy=%s has no build-time overlay to run", cfg.InstrumentationStrategy)
	}

	overlayPath := filepath.Join(result.Workspace.Dir, "overlay.json")
	if err := result.Overlay.WriteFile(overlayPath); err != nil {
		result.Workspace.Cleanup()
		return nil, "", err
	}
	return result, overlayPath, nil
}

// childEnv augments the current environment with cfg's RACEMOP_*
// settings, so a flag given to racemop itself (which runs in this
// process) still reaches internal/bootstrap.Start inside the
// instrumented binary (which runs in a child process spawned by `go
// build`/`go run`/`go test` or directly by us).
func childEnv(cfg *config.Config) []string {
	return append(os.Environ(), cfg.ToEnv()...)
}

// exitCodeOf extracts a child process's exit code from the error
// returned by exec.Cmd.Run/Wait.
func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	fmt.Fprintln(os.Stderr, "racemop:", err)
	return 1
}

func parseOwnFlagsOrExit(args []string) *config.Config {
	cfg, err := config.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	return cfg
}

func workingDirOrExit() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	return dir
}
