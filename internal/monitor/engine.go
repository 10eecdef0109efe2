package monitor

import (
	"fmt"

	"github.com/racemop/racemop/internal/automaton"
)

// Algorithm selects one of the five parametric-trace-slicing strategies.
type Algorithm string

const (
	AlgorithmA     Algorithm = "A"
	AlgorithmB     Algorithm = "B"
	AlgorithmC     Algorithm = "C"
	AlgorithmCPlus Algorithm = "C+"
	AlgorithmD     Algorithm = "D"
)

// NewIndexTree builds the IndexTree implementation for the requested
// slicing algorithm.
func NewIndexTree(algo Algorithm) (IndexTree, error) {
	switch algo {
	case AlgorithmA:
		return NewAlgoA(), nil
	case AlgorithmB, "":
		return NewAlgoB(), nil
	case AlgorithmC:
		return NewAlgoC(), nil
	case AlgorithmCPlus:
		return NewAlgoCPlus(), nil
	case AlgorithmD:
		return NewAlgoD(), nil
	default:
		return nil, fmt.Errorf("monitor: unknown algorithm %q", algo)
	}
}

// Engine runs one specification's automaton over its IndexTree. It is the
// unit the Lifecycle Coordinator creates once per loaded Specification
//.
type Engine struct {
	SpecName       string
	Automaton      *automaton.Automaton
	Tree           IndexTree
	CreationEvents map[string]bool
	Violations     *ViolationStore

	// CurrentTest, when non-nil, supplies the test name attached to every
	// violation recorded while it is set. Nothing in this module assigns
	// it, so violations carry an empty test name unless a caller sets it.
	CurrentTest func() string
}

// NewEngine constructs an Engine for one specification.
func NewEngine(specName string, auto *automaton.Automaton, algo Algorithm, creationEvents []string, store *ViolationStore) (*Engine, error) {
	tree, err := NewIndexTree(algo)
	if err != nil {
		return nil, err
	}
	ce := make(map[string]bool, len(creationEvents))
	for _, e := range creationEvents {
		ce[e] = true
	}
	return &Engine{
		SpecName:       specName,
		Automaton:      auto,
		Tree:           tree,
		CreationEvents: ce,
		Violations:     store,
	}, nil
}

// HandleEvent implements the three-step per-event algorithm:
//  1. the caller has already computed `binding` from the event's operands;
//  2. if `event` is a creation event and no compatible instance exists yet,
//     create one in the automaton's initial state;
//  3. advance every instance compatible with `binding`, emitting a
//     Violation for each that enters a match state.
func (e *Engine) HandleEvent(event string, binding Binding, loc SourceLocation, message string) []Violation {
	if e.CreationEvents[event] {
		e.Tree.CreateIfAbsent(binding, e.Automaton.Initial)
	}

	var violations []Violation
	for _, inst := range e.Tree.Lookup(binding) {
		if inst.Advance(e.Automaton, event) {
			testName := ""
			if e.CurrentTest != nil {
				testName = e.CurrentTest()
			}
			violations = append(violations, e.Violations.Record(e.SpecName, event, inst.Binding, loc, message, testName))
		}
	}
	return violations
}

// Sweep runs end-of-execution terminal-condition evaluation: it advances
// every instance in the tree on endEvent directly (not through
// HandleEvent) and records a violation for each that enters a match
// state. It does nothing when endEvent is empty and does not run garbage
// collection (see GC). Exposed for the Lifecycle Coordinator; Engine
// itself does not decide when "end of execution" is.
func (e *Engine) Sweep(endEvent string, locate func(Binding) SourceLocation, message string) []Violation {
	if endEvent == "" {
		return nil
	}
	var violations []Violation
	for _, inst := range e.Tree.All() {
		if inst.Advance(e.Automaton, endEvent) {
			testName := ""
			if e.CurrentTest != nil {
				testName = e.CurrentTest()
			}
			loc := locate(inst.Binding)
			violations = append(violations, e.Violations.Record(e.SpecName, endEvent, inst.Binding, loc, message, testName))
		}
	}
	return violations
}

// GC runs a garbage-collection sweep over the engine's IndexTree.
func (e *Engine) GC() int {
	return Sweep(e.Tree)
}
