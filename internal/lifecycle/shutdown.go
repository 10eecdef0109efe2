package lifecycle

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Shutdown runs every end-of-execution phase exactly once: terminal-condition
// sweeps, garbage collection, and statistics emission. Safe to call more
// than once — the sync.Once guard lets Shutdown be invoked from both the
// normal exit path and the signal handler RegisterShutdown installs.
func (c *Coordinator) Shutdown() {
	c.shutdownOnce.Do(c.shutdown)
}

func (c *Coordinator) shutdown() {
	for _, ls := range c.loaded {
		for _, v := range ls.Sweep() {
			if c.Config.PrintViolationsToConsole {
				c.Store.PrintViolation(v)
			}
		}
	}

	if c.Config.GarbageCollection {
		for _, ls := range c.loaded {
			removed := ls.Engine.GC()
			c.Store.Logger.Debug("garbage collection swept instances", "spec", ls.Name, "removed", removed)
		}
	}

	if err := c.Store.PrintStatistics(c.collectSpecViolations()); err != nil {
		c.Store.Logger.Warn("failed to write statistics", "error", err)
	}
}

// RegisterShutdown arranges for c.Shutdown to run when the process receives
// SIGINT or SIGTERM, on top of whatever defer chain the caller uses for the
// normal-exit path. Without it a monitored run loses its statistics on
// Ctrl-C, so this adds the signal.Notify plumbing idiomatic Go CLIs use
// for that case. The returned stop function
// releases the signal channel and is itself idempotent (a caller may end
// up on both the normal-exit defer path and the signal path racing to
// call it; only the first call tears anything down).
func (c *Coordinator) RegisterShutdown() (stop func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sig:
			c.Shutdown()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sig)
			close(done)
		})
	}
}
