package track

// CompareOp enumerates the comparison operators the rewriter can route
// through Tracker.Compare, one per single-operator comparison token.
type CompareOp string

const (
	CompareEQ CompareOp = "=="
	CompareNE CompareOp = "!="
	CompareLT CompareOp = "<"
	CompareLE CompareOp = "<="
	CompareGT CompareOp = ">"
	CompareGE CompareOp = ">="
)

// Compare dispatches the compare hook for a rewritten binary comparison
// and returns the boolean result the rewriter must substitute for the
// original expression's value. The comparison itself is evaluated by the
// rewriter (Go has no operator-overload hook point to intercept); Tracker
// only observes the operands and result.
func (t *Tracker) Compare(loc SourceLocation, op CompareOp, left, right any, result bool) bool {
	t.dispatch(string(op), Event{
		Hook:     HookCompare,
		Location: loc,
		Receiver: left,
		Args:     []any{left, right},
		Result:   result,
	})
	return result
}
