package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/tools/go/packages"

	"github.com/racemop/racemop/internal/instrument"
)

// Stats aggregates instrumentation totals across every rewritten file in
// a load, rolling up instrument.Stats to module scope.
type Stats struct {
	FilesRewritten int
	FilesSkipped   int
	TotalRewrites  int
	InstrumentTime time.Duration // only top-level, non-nested loads count
}

// Result is what Load returns: a ready-to-use overlay plus the workspace
// that must be cleaned up by the caller once the build/run/test
// invocation finishes.
type Result struct {
	Workspace *Workspace
	Overlay   *Overlay
	Stats     Stats
}

// Load discovers every package reachable from patterns (typically ["./..."]),
// rewrites every non-excluded file through internal/instrument, and
// returns an overlay ready to pass to `go build -overlay=`. includeTests
// additionally rewrites `_test.go` files — cmd/racemop's `test`
// subcommand needs this so specification-invoking test bodies themselves
// get instrumented, but `build`/`run` do not, since `go build`/`go run`
// never compile test files in the first place.
//
// Failure model: a rewrite error for any one file aborts
// the whole load — Go's static compilation model has no notion of
// "reload one file, leave the rest running", so there is no point
// producing a partial overlay.
func Load(dir string, patterns []string, rules ExclusionRules, includeTests bool) (*Result, error) {
	cfg := &packages.Config{
		Mode:  packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedModule,
		Dir:   dir,
		Tests: includeTests,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load packages: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("loader: errors while loading package graph under %s", dir)
	}

	ws, err := NewWorkspace()
	if err != nil {
		return nil, err
	}
	overlay := NewOverlay()
	stats := Stats{}

	start := time.Now()
	for _, pkg := range pkgs {
		if rules.Excluded(pkg.PkgPath) {
			stats.FilesSkipped += len(pkg.GoFiles)
			continue
		}
		packageName := ""
		rewroteAny := false
		packageDir := ""
		for _, file := range pkg.GoFiles {
			if strings.HasSuffix(file, "_test.go") && !includeTests {
				continue
			}
			packageDir = filepath.Dir(file)
			code, fileStats, name, err := rewriteOne(file)
			if err != nil {
				ws.Cleanup()
				return nil, err
			}
			packageName = name
			if fileStats.Total() == 0 && !fileStats.MainBootstrapped {
				stats.FilesSkipped++
				continue
			}
			dest := ws.WritePath(packageDir, file)
			if err := ws.WriteFile(dest, code); err != nil {
				ws.Cleanup()
				return nil, err
			}
			overlay.Add(file, dest)
			stats.FilesRewritten++
			stats.TotalRewrites += fileStats.Total()
			if fileStats.Total() > 0 {
				rewroteAny = true
			}
		}
		if rewroteAny {
			if err := addPrelude(ws, overlay, packageDir, packageName); err != nil {
				ws.Cleanup()
				return nil, err
			}
		}
	}
	stats.InstrumentTime = time.Since(start)

	return &Result{Workspace: ws, Overlay: overlay, Stats: stats}, nil
}

// rewriteOne instruments a single file and returns its formatted source,
// propagating instrument.InstrumentationError unchanged so the caller's
// error message keeps file:line:column context.
func rewriteOne(path string) ([]byte, *instrument.Stats, string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("loader: failed to read %s: %w", path, err)
	}

	result, err := instrument.InstrumentFile(path, src)
	if err != nil {
		return nil, nil, "", err
	}
	return []byte(result.Code), &result.Stats, result.PackageName, nil
}

// addPrelude writes the package-level tracker declaration for one
// instrumented package directory and records it in overlay under a
// virtual original path (one that need not exist on disk — go build's
// -overlay mechanism treats any Replace key as present regardless).
func addPrelude(ws *Workspace, overlay *Overlay, packageDir, packageName string) error {
	virtualOriginal := filepath.Join(packageDir, preludeFileName)
	dest := ws.WritePath(packageDir, virtualOriginal)
	if err := ws.WriteFile(dest, preludeSource(packageName)); err != nil {
		return err
	}
	overlay.Add(virtualOriginal, dest)
	return nil
}
