// Package automaton compiles specifications into deterministic automata and
// advances per-binding monitor state as events arrive.
//
// Two source forms are supported: a regular expression over an event-name
// alphabet (compiled via Thompson construction followed by subset
// construction, see regex.go/nfa.go/dfa.go) and an explicit finite-state
// machine described as a textual state table (see fsm.go). Both forms
// compile down to the same Automaton representation so the Monitor Engine
// never needs to know which surface syntax produced it.
package automaton

import "fmt"

// StateID indexes into Automaton.States. IDs start at 0 (the first state
// created); Initial always points at a real index.
type StateID int

// Automaton is a deterministic finite automaton over event-name symbols.
//
// Transitions are keyed by event name per state. A state missing an explicit
// transition for an observed event either falls back to State.Default (if the
// FSM declared a `default` self-loop) or the automaton treats the event as a
// no-op for that instance: the instance simply holds its current state, it
// is never destroyed by an unrecognized event name.
type Automaton struct {
	// States lists every reachable state by index; State.ID == its index.
	States []State

	// Initial is the state every newly created MonitorInstance starts in.
	Initial StateID

	// Alphabet is the full set of event names this automaton was compiled
	// against. Used to validate that a Specification's event descriptors
	// cover everything the automaton references.
	Alphabet map[string]bool
}

// State is one automaton state.
type State struct {
	ID StateID

	// Name is a human-readable label (FSM state name, or a synthetic
	// "q<N>" name for regex-derived states).
	Name string

	// Match marks this as a violating state: entering it produces a
	// ViolationRecord.
	Match bool

	// Transitions maps event name to destination state.
	Transitions map[string]StateID

	// Default, when non-nil, is the destination for any event name not
	// present in Transitions (the FSM DSL's `default` self-loop clause).
	Default *StateID
}

// Step advances from state `from` on event `name`, returning the next state
// and whether a transition was found (as opposed to the "hold" fallback).
func (a *Automaton) Step(from StateID, name string) (StateID, bool) {
	st := a.States[from]
	if next, ok := st.Transitions[name]; ok {
		return next, true
	}
	if st.Default != nil {
		return *st.Default, true
	}
	return from, false
}

// IsMatch reports whether the given state is a match (violating) state.
func (a *Automaton) IsMatch(s StateID) bool {
	return a.States[s].Match
}

// Validate checks that every event name appearing in any transition
// table is present in declaredEvents.
func (a *Automaton) Validate(declaredEvents map[string]bool) error {
	for _, st := range a.States {
		for name := range st.Transitions {
			if !declaredEvents[name] {
				return fmt.Errorf("automaton: state %q transitions on undeclared event %q", st.Name, name)
			}
		}
	}
	return nil
}
