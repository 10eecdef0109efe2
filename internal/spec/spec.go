// Package spec implements the Specification Registry: the
// layer that bridges internal/track (trackers and raw events) to
// internal/monitor (automata and per-binding monitor instances).
//
// internal/track and internal/monitor intentionally never import each
// other — track only knows about raw operand values and hook kinds,
// monitor only knows about automata and bindings. A Specification
// supplies the glue: which track events matter, how to turn their
// operands into a monitor.Binding, and what automaton to advance.
package spec

import (
	"reflect"
	"regexp"

	"github.com/racemop/racemop/internal/automaton"
	"github.com/racemop/racemop/internal/monitor"
	"github.com/racemop/racemop/internal/track"
)

// EventPredicate decides whether a raw tracker Event counts as an
// occurrence of a specification's named event.
type EventPredicate func(track.Event) bool

// BindingFunc extracts a monitor.Binding from a track Event's operands.
// A specification states this rule explicitly as Go code, since Go has
// no runtime parameter-name introspection that would let the engine
// derive a binding from a naming convention instead.
type BindingFunc func(track.Event) monitor.Binding

// EventDescriptor is one named event a specification's automaton
// transitions on.
type EventDescriptor struct {
	// Name is the automaton alphabet symbol this descriptor produces.
	Name string

	// Hook selects which tracker callback this descriptor listens on.
	Hook track.HookKind

	// TargetType restricts matching to events whose Receiver is of this
	// type, nil meaning "any receiver".
	TargetType reflect.Type

	// MethodPattern restricts matching to before/after-call events whose
	// method name matches, nil meaning "any method".
	MethodPattern *regexp.Regexp

	// CallSiteFilters are evaluated by the Dispatcher before Predicate.
	CallSiteFilters []track.CallSiteFilter

	// Predicate does the final, specification-specific accept/reject
	// decision once target/method/filters have already passed.
	Predicate EventPredicate

	// Bind computes this event's parameter binding from its operands.
	// Required; CreateMonitor rejects a descriptor with a nil Bind.
	Bind BindingFunc

	// Message is the violation text recorded when this event drives an
	// instance into a match state.
	Message string
}

// Spec is what a registered factory returns: everything CreateMonitor
// needs to compile an automaton and start dispatching events into it.
type Spec interface {
	// Events lists every event descriptor this specification declares,
	// in declaration order.
	Events() []EventDescriptor

	// Automaton compiles (or returns a pre-compiled) automaton. Returning
	// an error here is how a specification reports a malformed regex or
	// FSM description.
	Automaton() (*automaton.Automaton, error)

	// CreationEvents names the subset of event Names that create a fresh
	// monitor instance when no compatible one exists yet.
	CreationEvents() []string

	// Describe returns a human-readable summary, surfaced by the
	// -spec-info CLI flag.
	Describe() string
}

// TerminalSpec is an optional interface a Spec may implement to declare an
// "end of execution" event, fired once by the Lifecycle Coordinator's
// final sweep against every still-live instance. Most
// specifications have no terminal condition and don't implement this.
type TerminalSpec interface {
	EndEvent() (name string, message string)
}

// MatchHandler is an optional interface a Spec may additionally implement
// to run custom logic when one of its events drives an instance into a
// match state. Most specifications don't need this: the default behavior
// (record to the ViolationStore, format via Violation.Line) is enough.
type MatchHandler interface {
	OnMatch(monitor.Violation)
}
