package track

// ArithOp enumerates the arithmetic and bitwise operators the rewriter
// routes through Tracker.Arith: one entry per binary arithmetic/bitwise
// operator (add/sub/mul/quo/rem/and/or/xor/shl/shr/andnot).
type ArithOp string

const (
	ArithAdd    ArithOp = "+"
	ArithSub    ArithOp = "-"
	ArithMul    ArithOp = "*"
	ArithQuo    ArithOp = "/"
	ArithRem    ArithOp = "%"
	ArithAnd    ArithOp = "&"
	ArithOr     ArithOp = "|"
	ArithXor    ArithOp = "^"
	ArithShl    ArithOp = "<<"
	ArithShr    ArithOp = ">>"
	ArithAndNot ArithOp = "&^"
)

// Arith dispatches the arith hook for a rewritten binary arithmetic
// expression and returns result unchanged, mirroring Compare: Go has no
// operator-overload seam, so the rewriter computes the value and Tracker
// only observes it.
func (t *Tracker) Arith(loc SourceLocation, op ArithOp, left, right, result any) any {
	t.dispatch(string(op), Event{
		Hook:     HookArith,
		Location: loc,
		Receiver: left,
		Args:     []any{left, right},
		Result:   result,
	})
	return result
}

// CompoundAssignOp enumerates augmented-assignment operators, one per
// Go compound-assignment token (+=, -=, *=, /=, %=, &=, |=, ^=, <<=, >>=).
type CompoundAssignOp string

const (
	CompoundAdd CompoundAssignOp = "+="
	CompoundSub CompoundAssignOp = "-="
	CompoundMul CompoundAssignOp = "*="
	CompoundQuo CompoundAssignOp = "/="
	CompoundRem CompoundAssignOp = "%="
	CompoundAnd CompoundAssignOp = "&="
	CompoundOr  CompoundAssignOp = "|="
	CompoundXor CompoundAssignOp = "^="
	CompoundShl CompoundAssignOp = "<<="
	CompoundShr CompoundAssignOp = ">>="
)

// CompoundAssign dispatches the arith hook for a rewritten compound
// assignment statement (`target op= value`). The rewriter only emits this
// for simple, side-effect-free assignment targets (a bare identifier, or a
// single field/index selector or pointer dereference with no
// function-call subexpression), per
// the Open Question resolution recorded for augmented assignment: a
// target whose evaluation could itself have side effects is left
// uninstrumented rather than risk evaluating it twice.
func (t *Tracker) CompoundAssign(loc SourceLocation, op CompoundAssignOp, target, value, result any) any {
	t.dispatch(string(op), Event{
		Hook:     HookArith,
		Location: loc,
		Receiver: target,
		Args:     []any{target, value},
		Result:   result,
	})
	return result
}
