package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Overlay is the JSON document `go build -overlay=...` reads: a map from
// original absolute file path to the path of the file that should be
// compiled in its place. This is the idiomatic Go substitute for a
// dynamic module-loader hook — Go's compiler has no hook to intercept
// at import time, but `-overlay` lets the loader redirect specific files
// without touching the original module tree on disk.
type Overlay struct {
	Replace map[string]string `json:"Replace"`
}

// NewOverlay constructs an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{Replace: map[string]string{}}
}

// Add records that originalPath should be compiled from instrumentedPath
// instead.
func (o *Overlay) Add(originalPath, instrumentedPath string) {
	o.Replace[originalPath] = instrumentedPath
}

// WriteFile serializes the overlay to path as JSON, materializing a
// generated file for `go build -overlay` to consume via a flag.
func (o *Overlay) WriteFile(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("loader: failed to marshal overlay: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("loader: failed to create overlay directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("loader: failed to write overlay file: %w", err)
	}
	return nil
}
