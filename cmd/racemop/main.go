// Package main implements the racemop CLI tool.
//
// racemop provides Monitoring-Oriented Programming for Go programs: it
// rewrites a target module's source through internal/instrument, wires
// the result to a parametric monitor via internal/bootstrap, and drives
// the instrumented code through the standard Go toolchain. It works by:
//
//  1. Loading the target module's package graph (golang.org/x/tools/go/packages)
//  2. Instrumenting event-producing statements with monitor calls
//  3. Injecting the Lifecycle Coordinator into the program's own main()
//  4. Building/running/testing the instrumented code via `go build -overlay=`
//
// Usage:
//
//	racemop build ./...      # Build with monitoring instrumentation
//	racemop run main.go      # Run with monitoring instrumentation
//	racemop test ./...       # Test with monitoring instrumentation
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		buildCommand(os.Args[2:])
	case "run":
		runCommand(os.Args[2:])
	case "test":
		testCommand(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("racemop version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`racemop - Monitoring-Oriented Programming for Go

USAGE:
    racemop <command> [arguments]

COMMANDS:
    build      Build a Go program with monitor instrumentation
    run        Run a Go program with monitor instrumentation
    test       Test Go packages with monitor instrumentation
    version    Show version information
    help       Show this help message

EXAMPLES:
    racemop build -o myapp ./cmd/myapp
    racemop run ./cmd/myapp --flag=value
    racemop test -v ./internal/...

FLAGS (own to racemop, consumed before forwarding the rest to go):
    -spec-folder <dir>      directory scanned (diagnostics only) for registered spec.Register calls
    -specs <a,b,...>        comma-separated list of specs to activate (default: all)
    -algorithm <A|B|C|C+|D> parametric monitoring algorithm (default: B)
    -strategy <ast|builtin> instrumentation strategy (default: ast)
    -statistics-file <path> base path for statistics output
    -instrument-site-packages, -instrument-stdlib, -instrument-test-files, -instrument-self
    -no-gc, -no-print-violations, -no-print, -debug, -detailed, -statistics, -spec-info, -convert-specs

ABOUT:
    racemop instruments your Go code at the AST level, inserting monitor
    event calls and wiring a parametric specification runtime into your
    program's own entry point, so the resulting binary runs its own
    monitors with no separate supervisor process required.
`)
}
