// Package lifecycle implements the Lifecycle Coordinator: phase
// sequencing from configuration parsing through statistics emission,
// with defer-based teardown covering the monitored run's full lifecycle.
package lifecycle

import (
	"fmt"
	"sync"
	"time"

	"github.com/racemop/racemop/internal/config"
	"github.com/racemop/racemop/internal/loader"
	"github.com/racemop/racemop/internal/monitor"
	"github.com/racemop/racemop/internal/report"
	"github.com/racemop/racemop/internal/spec"
	"github.com/racemop/racemop/internal/track"
)

// Coordinator owns every phase of one monitored run: the overlay build
// (if requested), specification loading, monitor creation, and the
// eventual end-of-execution sweep and statistics emission.
type Coordinator struct {
	Config     *config.Config
	Dispatcher *track.Dispatcher
	Store      *report.Store

	loaded  []*spec.LoadedSpec
	skipped []spec.SkippedSpec

	shutdownOnce sync.Once
}

// NewCoordinator constructs a Coordinator for the given configuration. A
// fresh Dispatcher is created if dispatcher is nil, mirroring how
// track.NewTracker() bundles its own fresh Dispatcher when the caller has
// no pre-existing one to share.
func NewCoordinator(cfg *config.Config, dispatcher *track.Dispatcher) *Coordinator {
	if dispatcher == nil {
		dispatcher = track.NewDispatcher()
	}
	store := report.NewStore(cfg.DebugMessages, cfg.DetailedMessages)
	store.FullStatistics = cfg.Statistics
	store.FileName = cfg.StatisticsFile
	return &Coordinator{Config: cfg, Dispatcher: dispatcher, Store: store}
}

// PrepareOverlay runs the Loader Hook over dir when the configuration
// selects the "ast" instrumentation strategy, returning nil (no error,
// nil result) for "builtin" — a strategy this module does not implement;
// the only Go-idiomatic implementation is the build-time overlay
// pipeline ("ast"), so "builtin" is accepted as a config value but
// logged and treated as a no-op rather than rejected outright.
//
// includeTests is false for build/run (which never compile test files)
// and true for cmd/racemop's test subcommand, which also needs
// specification-invoking test bodies instrumented.
func (c *Coordinator) PrepareOverlay(dir string, patterns []string, includeTests bool) (*loader.Result, error) {
	if c.Config.InstrumentationStrategy != "ast" {
		c.Store.Logger.Warn("instrumentation strategy has no Go-native implementation, skipping", "strategy", c.Config.InstrumentationStrategy)
		return nil, nil
	}

	modulePath, err := loader.ModulePath(dir)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}
	rules := loader.DefaultExclusionRules(modulePath)
	rules.InstrumentSitePackages = c.Config.InstrumentSitePackages

	start := time.Now()
	result, err := loader.Load(dir, patterns, rules, includeTests)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: overlay build failed: %w", err)
	}
	c.Store.AddInstrumentationDuration(time.Now(), time.Since(start))
	return result, nil
}

// LoadSpecs discovers (diagnostics only) and instantiates every
// registered specification whose name is selected by
// Config.ActiveSpecs, wiring each into c.Dispatcher.
func (c *Coordinator) LoadSpecs() error {
	discovery, err := spec.Discover(c.Config.SpecFolder)
	if err != nil {
		c.Store.Logger.Warn("spec folder discovery failed", "folder", c.Config.SpecFolder, "error", err)
	} else if discovery != nil {
		for _, missing := range discovery.MissingRegistered {
			c.Store.Logger.Debug("registered spec not found in any folder file", "spec", missing)
		}
	}

	var onMatch func(string, monitor.Violation)
	if c.Config.PrintViolationsToConsole {
		onMatch = func(_ string, v monitor.Violation) { c.Store.PrintViolation(v) }
	}

	start := time.Now()
	loaded, skipped := spec.CreateMonitor(c.Dispatcher, c.Config.Algorithm, c.Config.DetailedMessages, c.Config.GarbageCollection, onMatch)
	c.Store.AddCreateMonitorDuration(time.Now(), time.Since(start))

	for _, sk := range skipped {
		c.Store.Logger.Warn("SKIPPED", "spec", sk.Name, "reason", sk.Reason)
	}
	c.skipped = skipped

	for _, ls := range loaded {
		if !c.Config.SpecSelected(ls.Name) {
			continue
		}
		c.loaded = append(c.loaded, ls)
		c.Store.AddMonitorCreation(ls.Name)
	}
	return nil
}

// LoadedSpecs returns the specifications actually running under this
// configuration's ActiveSpecs selection.
func (c *Coordinator) LoadedSpecs() []*spec.LoadedSpec {
	return c.loaded
}

// Skipped returns every registered specification that failed to load.
func (c *Coordinator) Skipped() []spec.SkippedSpec {
	return c.skipped
}

// collectSpecViolations snapshots every loaded spec's violation store for
// report.PrintStatistics.
func (c *Coordinator) collectSpecViolations() []report.SpecViolations {
	out := make([]report.SpecViolations, 0, len(c.loaded))
	for _, ls := range c.loaded {
		out = append(out, report.SpecViolations{Name: ls.Name, Violations: ls.Engine.Violations.Snapshot()})
	}
	return out
}
