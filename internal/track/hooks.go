// Package track implements the Trackers and Event Dispatcher: the join
// point between AST-rewritten code and the Parametric Monitor Engine.
// Every exported Tracker method is a hook the rewriter (internal/instrument)
// routes an original operation through; each hook consults the
// Dispatcher's subscription registry and forwards matching events to
// every interested specification.
package track

import "fmt"

// SourceLocation carries the file/line/column hint threaded into every
// event. Mirrors monitor.SourceLocation; kept as a distinct type here so
// internal/track has no import-time dependency on internal/monitor,
// which depends on automaton but never on track — internal/spec is the
// layer that bridges the two.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// HookKind enumerates the tracker join points the rewriter can route
// operations through.
type HookKind string

const (
	HookBeforeCall   HookKind = "before_call"
	HookAfterCall    HookKind = "after_call"
	HookForLoopStart HookKind = "for_loop_start"
	HookForLoopEnd   HookKind = "for_loop_end"
	HookCompare      HookKind = "compare"
	HookArith        HookKind = "arith"
	HookStrOp        HookKind = "str_op"
	HookIterNew      HookKind = "iter_new"
	HookIterNext     HookKind = "iter_next"
)

// Event is what a tracker hands the Dispatcher: a candidate occurrence of
// some event name, still subject to each subscriber's predicate.
type Event struct {
	Hook     HookKind
	Location SourceLocation

	// Receiver is the operand the event is "about" — the called function's
	// receiver, the compared/operated-on left-hand value, the iterator's
	// underlying container, etc. Used for target-type filtering.
	Receiver any

	// Args are the full positional operand list (e.g. [left, right] for a
	// comparison, the call's argument list for a call).
	Args []any

	// Result is filled in for after_call/arith/compare/str_op hooks, where
	// a result value exists before the dispatcher runs.
	Result any
}
