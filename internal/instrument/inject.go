package instrument

import (
	"go/ast"
	"go/token"
	"strconv"
)

// TrackPackageImportPath is the import path injected into every
// instrumented file, holding the tracker package.
const TrackPackageImportPath = "github.com/racemop/racemop/internal/track"

// TrackPackageAlias is the local identifier instrumented code uses to
// refer to the injected package.
const TrackPackageAlias = "racemoptrack"

// TrackerVarName is the package-level variable the rewriter assumes
// exists in every instrumented package, holding that package's
// *track.Tracker. internal/loader materializes this declaration once per
// package (see loader's prelude injection), so this package can assume
// the variable is reachable rather than re-declaring it per file.
const TrackerVarName = "__racemop_tracker__"

// BootstrapPackageImportPath is injected into the file declaring func
// main(), wiring the Lifecycle Coordinator into the instrumented
// program's entry point so statistics are emitted when the instrumented
// program exits.
const BootstrapPackageImportPath = "github.com/racemop/racemop/internal/bootstrap"

// BootstrapPackageAlias is the local identifier the injected defer
// statement calls.
const BootstrapPackageAlias = "racemopbootstrap"

// injectImport adds the track package import to file if not already
// present.
func injectImport(file *ast.File) {
	injectNamedImport(file, TrackPackageImportPath, TrackPackageAlias)
}

// injectNamedImport adds a named import to file if no import of path is
// already present, handling both grouped and single-import declarations
// and skipping the insert entirely if the import already exists.
func injectNamedImport(file *ast.File, path, alias string) {
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err == nil && p == path {
			return
		}
	}

	var importDecl *ast.GenDecl
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if ok && genDecl.Tok == token.IMPORT {
			importDecl = genDecl
			break
		}
	}
	if importDecl == nil {
		importDecl = &ast.GenDecl{Tok: token.IMPORT, Lparen: 1}
		file.Decls = append([]ast.Decl{importDecl}, file.Decls...)
	}

	spec := &ast.ImportSpec{
		Name: &ast.Ident{Name: alias},
		Path: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(path)},
	}
	importDecl.Specs = append(importDecl.Specs, spec)
	if importDecl.Lparen == 0 && len(importDecl.Specs) > 1 {
		importDecl.Lparen = 1
	}

	file.Imports = nil
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.IMPORT {
			continue
		}
		for _, s := range genDecl.Specs {
			if is, ok := s.(*ast.ImportSpec); ok {
				file.Imports = append(file.Imports, is)
			}
		}
	}
}

// locationArgs builds the SourceLocation literal passed to every
// track.* call, from an AST position.
func locationArgs(fset *token.FileSet, pos token.Pos) ast.Expr {
	p := fset.Position(pos)
	return &ast.CompositeLit{
		Type: &ast.SelectorExpr{X: ast.NewIdent(TrackPackageAlias), Sel: ast.NewIdent("SourceLocation")},
		Elts: []ast.Expr{
			&ast.KeyValueExpr{Key: ast.NewIdent("File"), Value: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(p.Filename)}},
			&ast.KeyValueExpr{Key: ast.NewIdent("Line"), Value: &ast.BasicLit{Kind: token.INT, Value: strconv.Itoa(p.Line)}},
			&ast.KeyValueExpr{Key: ast.NewIdent("Column"), Value: &ast.BasicLit{Kind: token.INT, Value: strconv.Itoa(p.Column)}},
		},
	}
}

// injectMainBootstrap finds `func main()` in a package-main file and
// prepends `defer racemopbootstrap.Start()()` to its body, wiring the
// Lifecycle Coordinator's startup (spec loading) and shutdown (sweep, GC,
// statistics emission) around the instrumented program's actual
// execution. Reports whether it found and rewrote a main function.
//
// `defer racemopbootstrap.Start()()` runs Start() immediately — defer
// only postpones evaluating the outer call — so specifications are loaded
// before main's body runs, and the returned cleanup closure fires however
// main returns (including via os.Exit-free early returns or a panic that
// unwinds past this defer).
func injectMainBootstrap(file *ast.File) bool {
	if file.Name == nil || file.Name.Name != "main" {
		return false
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != "main" || fn.Body == nil {
			continue
		}
		injectNamedImport(file, BootstrapPackageImportPath, BootstrapPackageAlias)
		startCall := &ast.CallExpr{
			Fun: &ast.SelectorExpr{X: ast.NewIdent(BootstrapPackageAlias), Sel: ast.NewIdent("Start")},
		}
		deferStmt := &ast.DeferStmt{Call: &ast.CallExpr{Fun: startCall}}
		fn.Body.List = append([]ast.Stmt{deferStmt}, fn.Body.List...)
		return true
	}
	return false
}

func trackerIdent() ast.Expr {
	return ast.NewIdent(TrackerVarName)
}

func selectTrack(method string) ast.Expr {
	return &ast.SelectorExpr{X: trackerIdent(), Sel: ast.NewIdent(method)}
}

func selectPkg(method string) ast.Expr {
	return &ast.SelectorExpr{X: ast.NewIdent(TrackPackageAlias), Sel: ast.NewIdent(method)}
}
