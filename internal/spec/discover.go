package spec

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryReport is a diagnostics-only comparison between the .go files
// present under a spec folder and the specification names actually
// registered by the time discovery runs.
//
// Go cannot dynamically import a folder's contents at runtime the way a
// dynamic-language loader would; specification packages must already be
// import-reachable
// from the program being instrumented (typically via a blank import in
// the spec folder's own entry file, or by being compiled directly into
// cmd/racemop's spec-folder build). Discover never loads anything itself —
// it only reports whether the files on disk and the registry agree, so a
// forgotten `spec.Register` call or a typo'd folder path surfaces as a
// warning instead of silent non-monitoring.
type DiscoveryReport struct {
	Folder            string
	GoFilesFound      []string
	RegisteredNames   []string
	UnmatchedGoFiles  []string
	MissingRegistered []string
}

// Discover walks dir for .go files and cross-references them against the
// registry, returning a report for the Lifecycle Coordinator to log.
// Matching is best-effort: a registered name is considered "found" if any
// .go file under dir contains a spec.Register call mentioning that name as
// a string literal. This is purely informational; it never drives which
// specifications actually run.
func Discover(dir string) (*DiscoveryReport, error) {
	report := &DiscoveryReport{Folder: dir}

	registered := Registered()
	seen := map[string]bool{}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		report.GoFilesFound = append(report.GoFilesFound, path)

		src, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		text := string(src)
		if !strings.Contains(text, "spec.Register(") {
			report.UnmatchedGoFiles = append(report.UnmatchedGoFiles, path)
			return nil
		}
		for _, name := range registered {
			if strings.Contains(text, `"`+name+`"`) {
				seen[name] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, name := range registered {
		if !seen[name] {
			report.MissingRegistered = append(report.MissingRegistered, name)
		}
	}

	report.RegisteredNames = sortedNames(registered)
	return report, nil
}
