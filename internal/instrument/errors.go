// Package instrument - custom error types for instrumentation.
//
// Errors carry file:line:column context so a rewrite failure can be
// reported at the exact source position that triggered it.
package instrument

import (
	"fmt"
	"go/token"
)

// InstrumentationError reports a rewrite failure with source position.
type InstrumentationError struct {
	File       string
	Line       int
	Column     int
	Message    string
	Suggestion string
}

func (e *InstrumentationError) Error() string {
	result := fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	if e.Suggestion != "" {
		result += fmt.Sprintf("\n\nSuggestion: %s", e.Suggestion)
	}
	return result
}

// NewInstrumentationError builds an error from an AST position.
func NewInstrumentationError(fset *token.FileSet, pos token.Pos, msg string) *InstrumentationError {
	position := fset.Position(pos)
	return &InstrumentationError{
		File:    position.Filename,
		Line:    position.Line,
		Column:  position.Column,
		Message: msg,
	}
}

// NewInstrumentationErrorWithSuggestion adds a remediation hint.
func NewInstrumentationErrorWithSuggestion(fset *token.FileSet, pos token.Pos, msg, suggestion string) *InstrumentationError {
	err := NewInstrumentationError(fset, pos, msg)
	err.Suggestion = suggestion
	return err
}
