package instrument

import "go/ast"

// builtinNames lists identifiers the rewriter never wraps as ordinary
// calls, mirroring the rewrite-rules table's separate row for
// len/append/make/new: these get dedicated (currently pass-through)
// handling rather than the generic BeforeCall/AfterCall wrap, since
// wrapping them identically to user calls would require knowing their
// result arity and mutability rules the Go spec bakes into the builtin
// itself.
var builtinNames = map[string]bool{
	"len": true, "cap": true, "append": true, "make": true, "new": true,
	"copy": true, "delete": true, "close": true, "panic": true,
	"recover": true, "print": true, "println": true, "real": true,
	"imag": true, "complex": true, "min": true, "max": true, "clear": true,
}

// skipTargetIdent reports whether an Ident is a rewritten-program
// artifact that must never be treated as a user call target: the
// injected tracker variable/package alias itself, which would otherwise
// recurse forever (rewrite-rules table's last row, "prevents infinite
// recursion").
func skipTargetIdent(name string) bool {
	return name == TrackPackageAlias || name == TrackerVarName
}

// isAlreadyTrackCall reports whether call already targets the injected
// track package or tracker variable, so a second instrumentation pass
// (or code mistakenly run through the rewriter twice) does not
// double-wrap it.
func isAlreadyTrackCall(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	return skipTargetIdent(ident.Name)
}

// callTargetName extracts a user-facing call target name for builtin and
// already-tracked detection: "f" for f(...), "recv.Method" intent
// collapses to just "Method" since only the bare name matters for the
// builtin-name and track-call checks above.
func callTargetName(call *ast.CallExpr) (string, bool) {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name, true
	case *ast.SelectorExpr:
		return fn.Sel.Name, true
	default:
		return "", false
	}
}

// isSimpleAssignTarget reports whether e is a compound-assignment target
// the rewriter instruments: a named identifier, or a selector, index or
// pointer-dereference expression with no direct call subexpression.
func isSimpleAssignTarget(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name != "_"
	case *ast.SelectorExpr:
		_, isCall := t.X.(*ast.CallExpr)
		return !isCall
	case *ast.StarExpr:
		_, isCall := t.X.(*ast.CallExpr)
		return !isCall
	case *ast.IndexExpr:
		_, indexIsCall := t.Index.(*ast.CallExpr)
		_, xIsCall := t.X.(*ast.CallExpr)
		return !indexIsCall && !xIsCall
	default:
		return false
	}
}
