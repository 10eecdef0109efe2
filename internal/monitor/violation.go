package monitor

import (
	"fmt"
	"sync"
)

// SourceLocation is the immutable file/line/column hint attached to every
// event. Grounded on instrument.InstrumentationError's
// position fields.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Violation is a ViolationRecord: one occurrence of a
// specification entering a match state.
type Violation struct {
	SpecName        string
	LastEvent       string
	Binding         Binding
	Location        SourceLocation
	Message         string
	FirstOccurrence bool
	TestName        string
}

// Line renders the canonical violation text:
// "Spec - <Name>: <custom-message>. file <F>, line <L>."
func (v Violation) Line() string {
	return fmt.Sprintf("Spec - %s: %s. file %s, line %d.", v.SpecName, v.Message, v.Location.File, v.Location.Line)
}

// violationRecord aggregates repeated occurrences of the same violation
// location: a message, an occurrence count, and the set of test names
// it was observed under.
type violationRecord struct {
	Message string
	Count   int
	Tests   map[string]bool
}

// ViolationStore deduplicates violations by spec name + source location
// ("{spec}@{file}:{line}"). The first occurrence at a given location is reported once; subsequent
// occurrences bump a counter and record the current test name.
type ViolationStore struct {
	mu      sync.Mutex
	records map[string]*violationRecord
	// order preserves first-seen order for deterministic statistics output.
	order []string
}

// NewViolationStore constructs an empty store.
func NewViolationStore() *ViolationStore {
	return &ViolationStore{records: map[string]*violationRecord{}}
}

func dedupKey(specName string, loc SourceLocation) string {
	return fmt.Sprintf("%s@%s:%d", specName, loc.File, loc.Line)
}

// Record adds an occurrence, returning a Violation with FirstOccurrence set
// correctly and TestName filled in from the currently-running test (if
// any).
func (s *ViolationStore) Record(specName, lastEvent string, binding Binding, loc SourceLocation, message, testName string) Violation {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dedupKey(specName, loc)
	rec, ok := s.records[key]
	first := !ok
	if !ok {
		rec = &violationRecord{Message: message, Tests: map[string]bool{}}
		s.records[key] = rec
		s.order = append(s.order, key)
	}
	rec.Count++
	if testName != "" {
		rec.Tests[testName] = true
	}

	return Violation{
		SpecName:        specName,
		LastEvent:       lastEvent,
		Binding:         binding,
		Location:        loc,
		Message:         message,
		FirstOccurrence: first,
		TestName:        testName,
	}
}

// UpdateMessage rewrites a violation's stored message, used when a
// specification's match-action supplies a custom message only known
// after the first dedup-key insertion.
func (s *ViolationStore) UpdateMessage(specName string, loc SourceLocation, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[dedupKey(specName, loc)]; ok {
		rec.Message = message
	}
}

// Snapshot returns violations in first-seen order for statistics emission.
func (s *ViolationStore) Snapshot() []ViolationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ViolationSummary, 0, len(s.order))
	for _, key := range s.order {
		rec := s.records[key]
		tests := make([]string, 0, len(rec.Tests))
		for t := range rec.Tests {
			tests = append(tests, t)
		}
		out = append(out, ViolationSummary{
			Key:     key,
			Message: rec.Message,
			Count:   rec.Count,
			Tests:   tests,
		})
	}
	return out
}

// ViolationSummary is a read-only view of one deduplicated violation
// location, used by internal/report for statistics emission.
type ViolationSummary struct {
	Key     string
	Message string
	Count   int
	Tests   []string
}
