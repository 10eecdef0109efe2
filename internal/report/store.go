// Package report implements statistics collection and violation/timing
// artifact emission: time measurements, per-spec monitor/event counts
// (when full statistics is requested), and a violations table
// deduplicated by spec + location.
//
// Store is an ordinary value the Lifecycle Coordinator owns and threads
// through, rather than a process-wide singleton.
package report

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

// TimeMeasurements holds the instrumentation and monitor-creation timing
// fields reported at shutdown.
type TimeMeasurements struct {
	StartTime               time.Time
	InstrumentationEndTime  time.Time
	InstrumentationDuration time.Duration
	CreateMonitorEndTime    time.Time
	CreateMonitorDuration   time.Duration
}

// specStats is the full-statistics accumulator for one specification:
// its monitor count and a per-event-name firing count.
type specStats struct {
	Monitors int
	Events   map[string]int
}

// Store accumulates statistics across a monitored run and renders them
// into the time, violations, and full-statistics artifacts.
type Store struct {
	mu sync.Mutex

	FullStatistics bool
	FileName       string // base name; extension decides txt vs json, empty means "print to console"
	CurrentTest    string

	times TimeMeasurements
	full  map[string]*specStats

	Logger *slog.Logger
}

// NewStore constructs an empty Store. debug/detailed select the slog
// level so -debug/-detailed CLI flags (internal/config) control verbosity
// without a separate logging dependency.
func NewStore(debug, detailed bool) *Store {
	level := slog.LevelWarn
	if detailed {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Store{
		full:   map[string]*specStats{},
		Logger: slog.New(handler),
	}
}

// AddStartTime records the lifecycle's process start time.
func (s *Store) AddStartTime(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.times.StartTime = t
}

// AddInstrumentationDuration records the AST Rewriter's elapsed time.
func (s *Store) AddInstrumentationDuration(end time.Time, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.times.InstrumentationEndTime = end
	s.times.InstrumentationDuration = d
}

// AddCreateMonitorDuration records CreateMonitor's elapsed time.
func (s *Store) AddCreateMonitorDuration(end time.Time, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.times.CreateMonitorEndTime = end
	s.times.CreateMonitorDuration = d
}

// AddMonitorCreation bumps spec_name's monitor-instance counter, a no-op
// unless FullStatistics is set.
func (s *Store) AddMonitorCreation(specName string) {
	if !s.FullStatistics {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specStats(specName).Monitors++
}

// AddEvent bumps spec_name's per-event-name counter, a no-op unless
// FullStatistics is set.
func (s *Store) AddEvent(specName, eventName string) {
	if !s.FullStatistics {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.specStats(specName)
	st.Events[eventName]++
}

// specStats returns (creating if absent) the accumulator for specName.
// Callers must hold s.mu.
func (s *Store) specStats(specName string) *specStats {
	st, ok := s.full[specName]
	if !ok {
		st = &specStats{Events: map[string]int{}}
		s.full[specName] = st
	}
	return st
}

// SetCurrentTest records the host test harness's currently running test
// name in s.CurrentTest. Nothing in this module calls it, and the value is
// not copied into any monitor.Engine's CurrentTest callback.
func (s *Store) SetCurrentTest(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CurrentTest = name
}
