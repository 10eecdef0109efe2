package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PrintStatistics renders and emits every statistics artifact: timing,
// violations, and (when enabled) full per-spec statistics. When
// s.FileName is empty, every section prints to stdout; otherwise each
// section is written to its own `<base>-<section>.<ext>` file.
func (s *Store) PrintStatistics(specs []SpecViolations) error {
	if err := s.writeSection("time", s.RenderTimeText(), s.timeJSON()); err != nil {
		return err
	}
	if err := s.writeSection("violations", RenderViolationsText(specs), violationsJSON(specs)); err != nil {
		return err
	}
	if s.FullStatistics {
		if err := s.writeSection("full", s.RenderFullStatisticsText(), s.fullStatisticsJSON()); err != nil {
			return err
		}
	}
	return nil
}

// writeSection writes one artifact, choosing JSON or text rendering by
// s.FileName's extension (a name without one is written as ".txt"). Go's
// static typing means every value handed to
// json.Marshal is already JSON-friendly, so callers simply build
// slice/map-shaped values up front (see violationsJSON, fullStatsJSONEntry).
func (s *Store) writeSection(section, text string, jsonValue any) error {
	if s.FileName == "" {
		fmt.Print(text)
		return nil
	}

	ext := filepath.Ext(s.FileName)
	base := strings.TrimSuffix(s.FileName, ext)
	if ext == "" {
		ext = ".txt"
	}
	path := fmt.Sprintf("%s-%s%s", base, section, ext)

	var out []byte
	var err error
	if ext == ".json" {
		out, err = json.MarshalIndent(jsonValue, "", "  ")
		if err != nil {
			return fmt.Errorf("report: failed to marshal %s: %w", section, err)
		}
	} else {
		out = []byte(text)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("report: failed to write %s: %w", path, err)
	}
	s.Logger.Info("statistics section written", "section", section, "path", path)
	return nil
}
