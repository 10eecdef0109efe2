// build.go implements the 'racemop build' command.
package main

import (
	"fmt"
	"os"
	"os/exec"
)

// buildCommand implements the 'racemop build' command: it acts as a
// drop-in replacement for 'go build', instrumenting the target module
// before compiling it.
//
// Flow:
//  1. Parse racemop's own flags, leaving the rest for `go build`
//  2. Build the instrumentation overlay (internal/loader)
//  3. Call `go build -overlay=...` with the forwarded flags and patterns
//  4. Clean up the overlay workspace
func buildCommand(args []string) {
	cfg := parseOwnFlagsOrExit(args)
	workDir := workingDirOrExit()

	result, overlayPath, err := prepareOverlay(cfg, workDir, cfg.Sources, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer result.Workspace.Cleanup()

	goArgs := []string{"build", "-overlay=" + overlayPath}
	goArgs = append(goArgs, cfg.ForwardedArgs...)
	goArgs = append(goArgs, cfg.Sources...)

	cmd := exec.Command("go", goArgs...)
	cmd.Dir = workDir
	cmd.Env = childEnv(cfg)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		os.Exit(exitCodeOf(err))
	}
}
