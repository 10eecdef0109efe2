package track

import "github.com/racemop/racemop/internal/track/goid"

// Tracker is the instrumented program's single entry point into this
// package: the rewriter (internal/instrument) emits calls to its methods
// in place of the original operations. Tracker bundles the Dispatcher,
// the call-site stash, and the reentrancy guard behind one exported API
// surface.
type Tracker struct {
	Dispatcher *Dispatcher
	calls      *CallStash
	guard      *reentrancyGuard
}

// NewTracker constructs a Tracker with a fresh dispatcher, call stash, and
// reentrancy guard.
func NewTracker() *Tracker {
	return &Tracker{
		Dispatcher: NewDispatcher(),
		calls:      NewCallStash(),
		guard:      newReentrancyGuard(),
	}
}

// dispatch runs release/ok bookkeeping around Dispatcher.Dispatch so a
// predicate that (directly or transitively) invokes instrumented code does
// not recurse into dispatch for that nested call.
func (t *Tracker) dispatch(methodName string, ev Event) {
	release, ok := t.guard.Enter()
	if !ok {
		return
	}
	defer release()
	t.Dispatcher.Dispatch(methodName, ev)
}

// BeforeCall stashes the call's operands and returns a depth token the
// rewriter must thread into the matching AfterCall call, then dispatches
// the before_call hook.
func (t *Tracker) BeforeCall(staticKey, methodName string, loc SourceLocation, receiver any, args []any) int {
	gid := goid.Current()
	depth := t.calls.Push(staticKey, gid, receiver, args, loc)
	t.dispatch(methodName, Event{Hook: HookBeforeCall, Location: loc, Receiver: receiver, Args: args})
	return depth
}

// AfterCall retrieves the stashed operands for this activation and
// dispatches the after_call hook with the call's result attached.
func (t *Tracker) AfterCall(staticKey, methodName string, depth int, loc SourceLocation, result any) {
	gid := goid.Current()
	rec, ok := t.calls.Pop(staticKey, gid, depth)
	if !ok {
		// Pop with no matching Push means BeforeCall's dispatch was
		// suppressed by the reentrancy guard; AfterCall must follow suit.
		return
	}
	t.dispatch(methodName, Event{
		Hook:     HookAfterCall,
		Location: loc,
		Receiver: rec.Receiver,
		Args:     rec.Args,
		Result:   result,
	})
}
