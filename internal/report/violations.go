package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/racemop/racemop/internal/monitor"
)

// SpecViolations pairs a specification name with its deduplicated
// violation summaries (monitor.ViolationStore.Snapshot), the input
// RenderViolations needs. report deliberately does not import
// internal/spec — it only knows about monitor.ViolationSummary, so
// whatever layer owns the loaded specifications (internal/lifecycle)
// assembles this slice itself.
type SpecViolations struct {
	Name       string
	Violations []monitor.ViolationSummary
}

// violationText renders one violation's printed line: message, the set
// of tests it was observed under, and an occurrence count.
func violationText(v monitor.ViolationSummary) string {
	tests := append([]string{}, v.Tests...)
	sort.Strings(tests)
	return fmt.Sprintf("    %s, (Tests: %s): %d times", v.Message, formatTestSet(tests), v.Count)
}

func formatTestSet(tests []string) string {
	if len(tests) == 0 {
		return "{}"
	}
	return "{" + strings.Join(tests, ", ") + "}"
}

// RenderViolationsText renders the violations artifact as fixed-header text.
func RenderViolationsText(specs []SpecViolations) string {
	var b strings.Builder
	fmt.Fprintf(&b, "============================== Violations ==============================\n")

	total := 0
	for _, sv := range specs {
		specTotal := 0
		for _, v := range sv.Violations {
			specTotal += v.Count
		}
		total += specTotal
		fmt.Fprintf(&b, "Spec - %s: %d violations\n", sv.Name, specTotal)
	}
	fmt.Fprintf(&b, "Total Violations: %d violations\n", total)
	fmt.Fprintf(&b, "------------\n")

	for _, sv := range specs {
		fmt.Fprintf(&b, "Spec - %s:\n", sv.Name)
		for _, v := range sv.Violations {
			fmt.Fprintln(&b, violationText(v))
		}
		fmt.Fprintf(&b, "------------\n")
	}
	return b.String()
}

// violationsJSON builds the JSON shape for the violations artifact:
// {spec_name: {violation_text: {count, test: [sorted]}}}.
func violationsJSON(specs []SpecViolations) map[string]map[string]violationJSONEntry {
	out := make(map[string]map[string]violationJSONEntry, len(specs))
	for _, sv := range specs {
		entries := make(map[string]violationJSONEntry, len(sv.Violations))
		for _, v := range sv.Violations {
			tests := append([]string{}, v.Tests...)
			sort.Strings(tests)
			entries[v.Message] = violationJSONEntry{Count: v.Count, Test: tests}
		}
		out[sv.Name] = entries
	}
	return out
}

type violationJSONEntry struct {
	Count int      `json:"count"`
	Test  []string `json:"test"`
}

// PrintViolation writes one violation's canonical line to
// stderr, the Lifecycle Coordinator's hook for PrintViolationsToConsole.
func (s *Store) PrintViolation(v monitor.Violation) {
	s.Logger.Warn(v.Line())
}
