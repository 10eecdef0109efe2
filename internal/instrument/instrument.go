package instrument

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/printer"
	"go/token"
)

// Result holds one file's instrumented source and rewrite statistics.
type Result struct {
	Code        string
	Stats       Stats
	PackageName string
}

// InstrumentFile parses, rewrites, and re-prints a single Go source
// file, following a parse/inject/walk/print pipeline.
func InstrumentFile(filename string, src any) (*Result, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("instrument: failed to parse %s: %w", filename, err)
	}

	stats, err := RewriteFile(fset, file)
	if err != nil {
		return nil, fmt.Errorf("instrument: failed to rewrite %s: %w", filename, err)
	}

	var buf bytes.Buffer
	cfg := &printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	if err := cfg.Fprint(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("instrument: failed to print %s: %w", filename, err)
	}

	return &Result{Code: buf.String(), Stats: *stats, PackageName: file.Name.Name}, nil
}
