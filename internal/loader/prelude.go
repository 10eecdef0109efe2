package loader

import "fmt"

// preludeFileName is the virtual source file materialized once per
// instrumented package directory: internal/instrument's rewriter
// assumes a package-level `__racemop_tracker__` variable already exists
// (see instrument.TrackerVarName's doc comment), and Go has no hook to
// inject a bare package-level var into an existing file without
// reparsing it, so the loader instead contributes one small additional
// file per package through the same overlay that carries the rewritten
// ones.
const preludeFileName = "zz_racemop_prelude.go"

// preludeSource generates the package-level tracker declaration for
// packageName, pointing it at the process-wide shared Tracker so that
// every instrumented package's calls route through the same Dispatcher.
func preludeSource(packageName string) []byte {
	return []byte(fmt.Sprintf(`// Code generated by racemop's Module Loader Hook. DO NOT EDIT.
package %s

import racemoptrack "github.com/racemop/racemop/internal/track"

var __racemop_tracker__ = racemoptrack.Shared()
`, packageName))
}
