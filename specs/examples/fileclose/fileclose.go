// Package fileclose registers a specification detecting a handle opened
// twice, or never closed by end of execution.
package fileclose

import (
	"regexp"

	"github.com/racemop/racemop/internal/automaton"
	"github.com/racemop/racemop/internal/monitor"
	"github.com/racemop/racemop/internal/spec"
	"github.com/racemop/racemop/internal/track"
)

func init() {
	spec.Register("FileClose", func() (spec.Spec, error) { return &fileCloseSpec{}, nil })
}

type fileCloseSpec struct{}

func (s *fileCloseSpec) Events() []spec.EventDescriptor {
	bind := func(ev track.Event) monitor.Binding {
		return monitor.NewBinding(monitor.BindingEntry{Pos: 0, Value: monitor.IdentityValue(ev.Receiver)})
	}
	return []spec.EventDescriptor{
		{
			Name:          "open",
			Hook:          track.HookBeforeCall,
			MethodPattern: regexp.MustCompile(`^Open$`),
			Bind:          bind,
			Message:       "handle opened a second time before being closed",
		},
		{
			Name:          "close",
			Hook:          track.HookBeforeCall,
			MethodPattern: regexp.MustCompile(`^Close$`),
			Bind:          bind,
			Message:       "handle closed",
		},
		{
			// "end" is never produced by the Dispatcher — only
			// EndEvent's Sweep call advances instances on it directly —
			// but Automaton.Validate requires every transition symbol to
			// be a declared event, so it needs a descriptor here too.
			// The never-true predicate keeps it from ever actually
			// subscribing to real call traffic.
			Name:      "end",
			Hook:      track.HookBeforeCall,
			Predicate: func(track.Event) bool { return false },
			Bind:      bind,
		},
	}
}

// Automaton matches s0 -open-> s1 -open-> s2 (double open) and also s1
// -end-> s2 (never closed), both the match state.
func (s *fileCloseSpec) Automaton() (*automaton.Automaton, error) {
	return automaton.CompileFSM(`
initial s0
match s2
s0 -> open s1
s1 -> open s2
s1 -> close s0
s1 -> end s2
`)
}

func (s *fileCloseSpec) CreationEvents() []string { return []string{"open"} }

func (s *fileCloseSpec) Describe() string {
	return "flags a handle opened twice, or left open at end of execution, before it is closed"
}

// EndEvent implements spec.TerminalSpec: the Lifecycle Coordinator's
// end-of-execution sweep fires this against every instance still
// sitting in s1 (opened, never closed).
func (s *fileCloseSpec) EndEvent() (string, string) {
	return "end", "handle never closed before end of execution"
}
