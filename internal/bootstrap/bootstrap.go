// Package bootstrap wires the Lifecycle Coordinator into an instrumented
// program's entry point. internal/instrument injects
// `defer racemopbootstrap.Start()()` as the first statement of the
// program's func main() (see instrument.injectMainBootstrap), since Go
// has no hook to run arbitrary code automatically before a program's
// entry point other than func main() itself.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/racemop/racemop/internal/config"
	"github.com/racemop/racemop/internal/lifecycle"
	"github.com/racemop/racemop/internal/track"
)

// Start loads every registered specification against the process-wide
// Tracker (track.Shared) and returns the cleanup closure the injected
// defer calls on the way out: it stops the signal watcher and runs the
// Coordinator's end-of-execution sweep/GC/statistics-emission sequence
// exactly once, whether main returns normally, panics, or is interrupted.
//
// Configuration comes from RACEMOP_* environment variables only
// (config.ApplyEnv) — flags belong to cmd/racemop, which runs in a
// separate process from the eventually-compiled instrumented binary and
// has no way to forward its own flags into that binary's argv without
// colliding with the target program's own flag parsing.
func Start() func() {
	cfg := config.Default()
	config.ApplyEnv(cfg)

	coord := lifecycle.NewCoordinator(cfg, track.Shared().Dispatcher)
	if err := coord.LoadSpecs(); err != nil {
		fmt.Fprintln(os.Stderr, "racemop: failed to load specifications:", err)
	}

	stopSignals := coord.RegisterShutdown()
	return func() {
		stopSignals()
		coord.Shutdown()
	}
}
