package track

// StrOp names a string-level operation the rewriter can route through
// Tracker.StrOp: the small set of strings-package-shaped operations a
// specification is likely to constrain — trimming, splitting, and
// joining.
type StrOp string

const (
	StrOpTrim  StrOp = "trim"
	StrOpSplit StrOp = "split"
	StrOpJoin  StrOp = "join"
)

// StrOp dispatches the str_op hook for a rewritten string operation and
// returns result unchanged.
func (t *Tracker) StrOp(loc SourceLocation, op StrOp, receiver any, args []any, result any) any {
	t.dispatch(string(op), Event{
		Hook:     HookStrOp,
		Location: loc,
		Receiver: receiver,
		Args:     args,
		Result:   result,
	})
	return result
}
