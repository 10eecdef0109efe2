package automaton

import (
	"fmt"
	"strings"
)

// CompileFSM parses a textual finite-state-machine description into an
// Automaton.
//
// Grammar, one clause per line (blank lines and lines starting with '#'
// ignored):
//
//	initial <state>
//	match <state> [<state> ...]
//	<state> -> <event> <state>
//	<state> default <state>
//
// Example (a file-close property: opened and never closed before `end`):
//
//	initial s0
//	match s2
//	s0 -> open s1
//	s1 -> close s0
//	s1 -> end s2
//
// Every state referenced by a `->` or `default` clause is created lazily;
// states only ever reachable as a `match` target but never transitioned
// into are still registered so Automaton.Validate can see them.
func CompileFSM(description string) (*Automaton, error) {
	names := map[string]StateID{}
	var states []State

	ensure := func(name string) StateID {
		if id, ok := names[name]; ok {
			return id
		}
		id := StateID(len(states))
		names[name] = id
		states = append(states, State{ID: id, Name: name, Transitions: map[string]StateID{}})
		return id
	}

	var initial StateID
	haveInitial := false
	matchNames := map[string]bool{}
	alphabet := map[string]bool{}

	lines := strings.Split(description, "\n")
	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch {
		case fields[0] == "initial":
			if len(fields) != 2 {
				return nil, fmt.Errorf("automaton: line %d: expected %q", lineNo+1, "initial <state>")
			}
			initial = ensure(fields[1])
			haveInitial = true

		case fields[0] == "match":
			if len(fields) < 2 {
				return nil, fmt.Errorf("automaton: line %d: expected %q", lineNo+1, "match <state>...")
			}
			for _, n := range fields[1:] {
				ensure(n)
				matchNames[n] = true
			}

		case len(fields) == 4 && fields[1] == "->":
			from, event, to := fields[0], fields[2], fields[3]
			fromID := ensure(from)
			ensure(to)
			alphabet[event] = true
			states[fromID].Transitions[event] = names[to]

		case len(fields) == 3 && fields[1] == "default":
			from, to := fields[0], fields[2]
			fromID := ensure(from)
			toID := ensure(to)
			d := toID
			states[fromID].Default = &d

		default:
			return nil, fmt.Errorf("automaton: line %d: unrecognized clause %q", lineNo+1, line)
		}
	}

	if !haveInitial {
		return nil, fmt.Errorf("automaton: FSM description missing %q clause", "initial")
	}
	for name := range matchNames {
		states[names[name]].Match = true
	}

	return &Automaton{
		States:   states,
		Initial:  initial,
		Alphabet: alphabet,
	}, nil
}
