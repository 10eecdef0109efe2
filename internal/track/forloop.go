package track

// ForLoopStart dispatches the for_loop_start hook for a range loop the
// rewriter instrumented. Returns the iterable unchanged; the rewriter
// assigns the result to a fresh local variable declared just before the
// loop and ranges over that variable, so no stash is needed to carry the
// iterable to ForLoopEnd.
func (t *Tracker) ForLoopStart(loc SourceLocation, iterable any) any {
	t.dispatch("for_loop_start", Event{Hook: HookForLoopStart, Location: loc, Receiver: iterable})
	return iterable
}

// ForLoopEnd dispatches the for_loop_end hook. The rewriter places the
// call right after the range statement, so it fires when the loop ends
// normally or through a break, and not on a return or panic out of the
// loop body.
func (t *Tracker) ForLoopEnd(loc SourceLocation, iterable any) {
	t.dispatch("for_loop_end", Event{Hook: HookForLoopEnd, Location: loc, Receiver: iterable})
}
