// Package instrument implements AST-level instrumentation for
// Monitoring-Oriented Programming event emission.
//
// This rewrites Go source so that comparisons, arithmetic, augmented
// assignment, range loops, and ordinary calls are routed through
// internal/track's Tracker, which forwards matching operations to the
// Parametric Monitor Engine. Built around
// golang.org/x/tools/go/ast/astutil's cursor-based single-pass rewriting:
// a cursor rewrite lets InsertBefore/InsertAfter/Replace happen during
// the same walk, which this package's statement-level call wrapping
// needs, rather than a two-pass record-then-apply strategy.
//
// Thread Safety: NOT thread-safe. Each call to RewriteFile must own its
// *ast.File.
package instrument

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/tools/go/ast/astutil"
)

// uniqueSuffix mints a fresh per-instrumentation-site identifier suffix,
// keyed by a fresh per-loop uniqueness id. A plain incrementing counter
// would also be unique within one file, but a package can be rewritten
// file-by-file across separate Workspace runs (internal/loader rewrites one file at a
// time); a UUID-derived suffix guarantees no collision across files
// without the rewriter needing any cross-file counter state.
func uniqueSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Stats tracks what the rewriter touched in one file.
type Stats struct {
	ComparisonsWrapped  int
	ArithWrapped        int
	CompoundAssignments int
	RangeLoopsWrapped   int
	CallsWrapped        int
	CallsSkipped        int // builtins, type conversions, already-tracked calls

	// MainBootstrapped is true when this file declared func main() and
	// got the Lifecycle Coordinator startup/shutdown defer injected. It
	// does not count toward Total(): a file can need the bootstrap defer
	// without containing a single comparison/arith/call rewrite (an
	// empty main wrapping nothing but library calls in other files), and
	// callers that decide whether a file is worth emitting (internal/loader)
	// must check this separately from the rewrite counters.
	MainBootstrapped bool
}

func (s *Stats) Total() int {
	return s.ComparisonsWrapped + s.ArithWrapped + s.CompoundAssignments + s.RangeLoopsWrapped + s.CallsWrapped
}

// rewriter carries the per-file state threaded through the astutil.Apply
// pre/post callbacks. No package-level state: a fresh rewriter is built
// per file.
type rewriter struct {
	fset      *token.FileSet
	file      *ast.File
	stats     Stats
	loopCount int
	callCount int
}

// RewriteFile instruments file in place and returns instrumentation
// statistics. file must already be parsed with parser.ParseComments so
// printer.Fprint preserves comments.
func RewriteFile(fset *token.FileSet, file *ast.File) (*Stats, error) {
	r := &rewriter{fset: fset, file: file}

	astutil.Apply(file, r.pre, r.post)

	if r.stats.Total() > 0 {
		injectImport(file)
	}
	if injectMainBootstrap(file) {
		r.stats.MainBootstrapped = true
	}
	return &r.stats, nil
}

// pre exists for the cursor-based Apply signature; the rewrite-rules
// table's excluded contexts (assignment L-values, short-var-decl targets,
// struct tags, type-switch guards, generic type arguments) need no
// explicit skip logic here, because none of those positions can ever
// hold a *ast.BinaryExpr, compound *ast.AssignStmt, *ast.RangeStmt, or
// bare-call *ast.ExprStmt — the only node shapes post rewrites. A target
// position holds an Ident/SelectorExpr/IndexExpr, which post's switch
// does not match.
func (r *rewriter) pre(c *astutil.Cursor) bool {
	return true
}

// post performs the actual rewrites, bottom-up, so nested expressions
// are already rewritten by the time an enclosing statement is visited.
func (r *rewriter) post(c *astutil.Cursor) bool {
	switch n := c.Node().(type) {
	case *ast.BinaryExpr:
		r.rewriteBinary(c, n)
	case *ast.AssignStmt:
		r.rewriteCompoundAssign(c, n)
	case *ast.RangeStmt:
		r.rewriteRange(c, n)
	case *ast.ExprStmt:
		r.rewriteCallStmt(c, n)
	}
	return true
}

var comparisonTokens = map[token.Token]string{
	token.EQL: "==", token.NEQ: "!=", token.LSS: "<", token.LEQ: "<=", token.GTR: ">", token.GEQ: ">=",
}

var arithTokens = map[token.Token]string{
	token.ADD: "+", token.SUB: "-", token.MUL: "*", token.QUO: "/", token.REM: "%",
	token.AND: "&", token.OR: "|", token.XOR: "^", token.SHL: "<<", token.SHR: ">>", token.AND_NOT: "&^",
}

// rewriteBinary replaces `l op r` with a call capturing the operands and
// the already-computed result. Go has no operator-overload seam to hook
// into, so the rewritten form keeps the original BinaryExpr as the
// Result argument rather than replacing the computation itself.
func (r *rewriter) rewriteBinary(c *astutil.Cursor, n *ast.BinaryExpr) {
	loc := locationArgs(r.fset, n.Pos())
	if opName, ok := comparisonTokens[n.Op]; ok {
		call := &ast.CallExpr{
			Fun: selectTrack("Compare"),
			Args: []ast.Expr{
				loc,
				&ast.SelectorExpr{X: ast.NewIdent(TrackPackageAlias), Sel: ast.NewIdent(compareConstName(opName))},
				n.X, n.Y, n,
			},
		}
		c.Replace(call)
		r.stats.ComparisonsWrapped++
		return
	}
	if opName, ok := arithTokens[n.Op]; ok {
		call := &ast.CallExpr{
			Fun: selectTrack("Arith"),
			Args: []ast.Expr{
				loc,
				&ast.SelectorExpr{X: ast.NewIdent(TrackPackageAlias), Sel: ast.NewIdent(arithConstName(opName))},
				n.X, n.Y, n,
			},
		}
		c.Replace(call)
		r.stats.ArithWrapped++
	}
}

func compareConstName(op string) string {
	names := map[string]string{"==": "CompareEQ", "!=": "CompareNE", "<": "CompareLT", "<=": "CompareLE", ">": "CompareGT", ">=": "CompareGE"}
	return names[op]
}

func arithConstName(op string) string {
	names := map[string]string{
		"+": "ArithAdd", "-": "ArithSub", "*": "ArithMul", "/": "ArithQuo", "%": "ArithRem",
		"&": "ArithAnd", "|": "ArithOr", "^": "ArithXor", "<<": "ArithShl", ">>": "ArithShr", "&^": "ArithAndNot",
	}
	return names[op]
}

var compoundTokens = map[token.Token]string{
	token.ADD_ASSIGN: "CompoundAdd", token.SUB_ASSIGN: "CompoundSub", token.MUL_ASSIGN: "CompoundMul",
	token.QUO_ASSIGN: "CompoundQuo", token.REM_ASSIGN: "CompoundRem",
	token.AND_ASSIGN: "CompoundAnd", token.OR_ASSIGN: "CompoundOr", token.XOR_ASSIGN: "CompoundXor",
	token.SHL_ASSIGN: "CompoundShl", token.SHR_ASSIGN: "CompoundShr",
}

// rewriteCompoundAssign rewrites `t op= v` into `t = track.CompoundAssign(loc, op, t, v, t op v)`,
// but only for simple, side-effect-free targets (a bare identifier or a
// selector/index/pointer-dereference expression with no call
// subexpression) per the Open
// Question resolution: a target whose own evaluation could have side
// effects is left uninstrumented rather than risk evaluating it twice.
func (r *rewriter) rewriteCompoundAssign(c *astutil.Cursor, n *ast.AssignStmt) {
	constName, ok := compoundTokens[n.Tok]
	if !ok || len(n.Lhs) != 1 || len(n.Rhs) != 1 {
		return
	}
	target := n.Lhs[0]
	if !isSimpleAssignTarget(target) {
		return
	}

	baseOp := token.Token(int(n.Tok) - (int(token.ADD_ASSIGN) - int(token.ADD)))
	original := &ast.BinaryExpr{X: target, Op: baseOp, Y: n.Rhs[0]}

	call := &ast.CallExpr{
		Fun: selectTrack("CompoundAssign"),
		Args: []ast.Expr{
			locationArgs(r.fset, n.Pos()),
			&ast.SelectorExpr{X: ast.NewIdent(TrackPackageAlias), Sel: ast.NewIdent(constName)},
			target, n.Rhs[0], original,
		},
	}
	n.Tok = token.ASSIGN
	n.Rhs = []ast.Expr{call}
	r.stats.CompoundAssignments++
}

// rewriteRange wraps a range loop's iterable with ForLoopStart/ForLoopEnd
// when the statement sits in a position InsertBefore/InsertAfter can
// target (canInsertStmt).
//
// Known gap: ForLoopEnd fires after the loop statement regardless of
// whether it exited via break or normal completion, since Go gives both
// the same control-flow successor. Distinguishing them would require
// wrapping every break in the loop body, which is out of scope here.
func (r *rewriter) rewriteRange(c *astutil.Cursor, n *ast.RangeStmt) {
	if !canInsertStmt(c) {
		return
	}
	r.loopCount++
	iterVar := ast.NewIdent(fmt.Sprintf("__racemop_iter_%s", uniqueSuffix()))
	loc := locationArgs(r.fset, n.Pos())

	startAssign := &ast.AssignStmt{
		Lhs: []ast.Expr{iterVar},
		Tok: token.DEFINE,
		Rhs: []ast.Expr{&ast.CallExpr{
			Fun:  selectTrack("ForLoopStart"),
			Args: []ast.Expr{loc, n.X},
		}},
	}
	n.X = iterVar

	endCall := &ast.ExprStmt{X: &ast.CallExpr{
		Fun:  selectTrack("ForLoopEnd"),
		Args: []ast.Expr{loc, iterVar},
	}}

	c.InsertBefore(startAssign)
	c.InsertAfter(endCall)
	r.stats.RangeLoopsWrapped++
}

// rewriteCallStmt wraps a bare call statement (`f(args)` used as a
// statement, not assigned) with BeforeCall/AfterCall, the simplest call
// form to rewrite safely. Assignment-form calls (`y := f(args)`) are left
// alone: only statement-position calls are wrapped here; expression-
// embedded calls would require hoisting through a temporary, which risks
// changing evaluation order of sibling expressions and is out of scope.
//
// Known gap: BeforeCall's args slice literal re-evaluates each argument
// expression, separately from the original call immediately following
// it; an argument expression with side effects (e.g. a nested call)
// therefore runs twice. Acceptable for specification argument-shape
// predicates, which only read values, but specifications must not be
// written assuming argument expressions are pure if they rely on side
// effects - documented further in DESIGN.md.
func (r *rewriter) rewriteCallStmt(c *astutil.Cursor, n *ast.ExprStmt) {
	call, ok := n.X.(*ast.CallExpr)
	if !ok {
		return
	}
	if !canInsertStmt(c) {
		return
	}
	name, ok := callTargetName(call)
	if !ok || builtinNames[name] || isAlreadyTrackCall(call) {
		r.stats.CallsSkipped++
		return
	}
	if _, isFuncLit := call.Fun.(*ast.FuncLit); isFuncLit {
		return
	}

	r.callCount++
	staticKey := fmt.Sprintf("%s:%d", r.fset.Position(n.Pos()).Filename, r.fset.Position(n.Pos()).Line)
	depthVar := ast.NewIdent(fmt.Sprintf("__racemop_depth_%s", uniqueSuffix()))
	loc := locationArgs(r.fset, n.Pos())

	receiver, args := splitCallOperands(call)

	before := &ast.AssignStmt{
		Lhs: []ast.Expr{depthVar},
		Tok: token.DEFINE,
		Rhs: []ast.Expr{&ast.CallExpr{
			Fun: selectTrack("BeforeCall"),
			Args: []ast.Expr{
				&ast.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", staticKey)},
				&ast.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", name)},
				loc, receiver, args,
			},
		}},
	}
	after := &ast.ExprStmt{X: &ast.CallExpr{
		Fun: selectTrack("AfterCall"),
		Args: []ast.Expr{
			&ast.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", staticKey)},
			&ast.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", name)},
			depthVar, loc, ast.NewIdent("nil"),
		},
	}}

	c.InsertBefore(before)
	c.InsertAfter(after)
	r.stats.CallsWrapped++
}

// splitCallOperands builds the receiver expression (nil for a bare
// function call) and an args-slice literal for BeforeCall's signature.
func splitCallOperands(call *ast.CallExpr) (receiver ast.Expr, args ast.Expr) {
	receiver = ast.NewIdent("nil")
	if sel, ok := call.Fun.(*ast.SelectorExpr); ok {
		receiver = sel.X
	}
	elts := make([]ast.Expr, len(call.Args))
	copy(elts, call.Args)
	args = &ast.CompositeLit{
		Type: &ast.ArrayType{Elt: ast.NewIdent("any")},
		Elts: elts,
	}
	return receiver, args
}

// canInsertStmt reports whether InsertBefore/InsertAfter will succeed at
// this cursor: only true when the current node sits in a slice field
// (e.g. a block's Body) rather than a single-value field.
func canInsertStmt(c *astutil.Cursor) bool {
	return c.Index() >= 0
}
