package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/racemop/racemop/internal/monitor"
)

func TestRenderTimeText(t *testing.T) {
	s := NewStore(false, false)
	now := time.Now()
	s.AddStartTime(now)
	s.AddInstrumentationDuration(now.Add(time.Second), 250*time.Millisecond)
	s.AddCreateMonitorDuration(now.Add(2*time.Second), 10*time.Millisecond)

	text := s.RenderTimeText()
	require.Contains(t, text, "Time Measurements")
	require.Contains(t, text, "0.25000 seconds")
}

func TestAddEventAndMonitorCreationNoOpWithoutFullStatistics(t *testing.T) {
	s := NewStore(false, false)
	s.AddMonitorCreation("Spec1")
	s.AddEvent("Spec1", "open")
	require.Empty(t, s.RenderFullStatisticsText())
}

func TestAddEventAndMonitorCreationWithFullStatistics(t *testing.T) {
	s := NewStore(false, false)
	s.FullStatistics = true
	s.AddMonitorCreation("Spec1")
	s.AddMonitorCreation("Spec1")
	s.AddEvent("Spec1", "open")
	s.AddEvent("Spec1", "open")
	s.AddEvent("Spec1", "close")

	text := s.RenderFullStatisticsText()
	require.Contains(t, text, "Spec - Spec1: 2 monitors")
	require.Contains(t, text, "open: 2 times")
	require.Contains(t, text, "close: 1 times")
}

func TestRenderViolationsText(t *testing.T) {
	specs := []SpecViolations{
		{
			Name: "DoubleOpen",
			Violations: []monitor.ViolationSummary{
				{Key: "k1", Message: "opened twice", Count: 3, Tests: []string{"TestB", "TestA"}},
			},
		},
	}
	text := RenderViolationsText(specs)
	require.Contains(t, text, "Spec - DoubleOpen: 3 violations")
	require.Contains(t, text, "Total Violations: 3 violations")
	require.Contains(t, text, "opened twice, (Tests: {TestA, TestB}): 3 times")
}

func TestPrintStatisticsWritesJSONFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(false, false)
	s.FileName = filepath.Join(dir, "mop.json")
	s.FullStatistics = true
	s.AddMonitorCreation("Spec1")
	s.AddEvent("Spec1", "open")

	specs := []SpecViolations{
		{Name: "Spec1", Violations: []monitor.ViolationSummary{{Key: "k", Message: "bad", Count: 1, Tests: []string{"T"}}}},
	}
	require.NoError(t, s.PrintStatistics(specs))

	for _, section := range []string{"time", "violations", "full"} {
		path := filepath.Join(dir, "mop-"+section+".json")
		data, err := os.ReadFile(path)
		require.NoError(t, err, section)
		var v any
		require.NoError(t, json.Unmarshal(data, &v), section)
	}
}

func TestPrintStatisticsWritesTextFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(false, false)
	s.FileName = filepath.Join(dir, "mop.txt")

	require.NoError(t, s.PrintStatistics(nil))

	data, err := os.ReadFile(filepath.Join(dir, "mop-time.txt"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Time Measurements")
}
