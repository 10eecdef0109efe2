package loader

import (
	"go/build"
	"strings"
)

// ExclusionRules decides which packages the loader skips rewriting:
// standard library packages, a
// configurable list of blocked import-path fragments, this module's own
// import path (prevents recursively instrumenting the instrumentation
// engine), and — when InstrumentSitePackages is false — any package
// outside the main module.
type ExclusionRules struct {
	MainModulePath         string
	OwnModulePath          string
	BlockedFragments       []string
	InstrumentSitePackages bool
}

// DefaultExclusionRules returns the Open Question resolution recorded in
// DESIGN.md: the blocked-fragment list defaults to empty, and site
// packages (non-main-module dependencies) are not instrumented by
// default.
func DefaultExclusionRules(mainModulePath string) ExclusionRules {
	return ExclusionRules{
		MainModulePath:         mainModulePath,
		OwnModulePath:          "github.com/racemop/racemop",
		BlockedFragments:       nil,
		InstrumentSitePackages: false,
	}
}

// Excluded reports whether importPath must not be rewritten.
func (r ExclusionRules) Excluded(importPath string) bool {
	if isStdlib(importPath) {
		return true
	}
	if strings.HasPrefix(importPath, r.OwnModulePath) {
		return true
	}
	for _, frag := range r.BlockedFragments {
		if frag != "" && strings.Contains(importPath, frag) {
			return true
		}
	}
	if !r.InstrumentSitePackages && r.MainModulePath != "" && !strings.HasPrefix(importPath, r.MainModulePath) {
		return true
	}
	return false
}

// isStdlib reports whether importPath names a standard library package,
// using the same heuristic go/build's Default context applies: no dot in
// the first path element (stdlib import paths are never domain-qualified).
func isStdlib(importPath string) bool {
	if importPath == "" {
		return true
	}
	first := importPath
	if i := strings.IndexByte(importPath, '/'); i >= 0 {
		first = importPath[:i]
	}
	if !strings.Contains(first, ".") {
		return true
	}
	// A dot in the first element is taken as non-stdlib; no GOROOT
	// directory lookup is made.
	return false
}

// buildContext is exposed for callers that need the host's default build
// context (GOOS/GOARCH/GOROOT).
var buildContext = build.Default
