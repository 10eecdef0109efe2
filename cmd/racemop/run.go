// run.go implements the 'racemop run' command.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// runCommand implements the 'racemop run' command: instrument, build to
// a temporary binary, then execute it, forwarding stdio and exit code.
func runCommand(args []string) {
	buildArgs, target, programArgs := splitRunArgs(args)
	cfg := parseOwnFlagsOrExit(buildArgs)
	if target != "" {
		cfg.Sources = []string{target}
	}
	workDir := workingDirOrExit()

	result, overlayPath, err := prepareOverlay(cfg, workDir, cfg.Sources, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer result.Workspace.Cleanup()

	tempBinary, err := os.CreateTemp("", "racemop-run-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	tempPath := tempBinary.Name()
	_ = tempBinary.Close()
	defer func() { _ = os.Remove(tempPath) }()

	buildCmdArgs := []string{"build", "-overlay=" + overlayPath, "-o", tempPath}
	buildCmdArgs = append(buildCmdArgs, cfg.ForwardedArgs...)
	buildCmdArgs = append(buildCmdArgs, cfg.Sources...)

	build := exec.Command("go", buildCmdArgs...)
	build.Dir = workDir
	build.Env = childEnv(cfg)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		os.Exit(exitCodeOf(err))
	}

	run := exec.Command(tempPath, programArgs...)
	run.Dir = workDir
	run.Env = childEnv(cfg)
	run.Stdin = os.Stdin
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	if err := run.Run(); err != nil {
		os.Exit(exitCodeOf(err))
	}
}

// splitRunArgs separates racemop's own/go build flags from the target
// package pattern and the arguments meant for the program itself,
// mirroring `go run [build flags] package [program args...]`: the
// first non-flag token is the target, everything after it belongs to
// the program being run. This does not special-case build flags that
// consume a following value before the target is seen.
func splitRunArgs(args []string) (buildArgs []string, target string, programArgs []string) {
	for _, arg := range args {
		switch {
		case target != "":
			programArgs = append(programArgs, arg)
		case strings.HasPrefix(arg, "-"):
			buildArgs = append(buildArgs, arg)
		default:
			target = arg
		}
	}
	return buildArgs, target, programArgs
}
