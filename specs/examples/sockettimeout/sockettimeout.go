// Package sockettimeout registers a specification flagging a
// negative-valued timeout passed to a connection's timeout setter.
package sockettimeout

import (
	"regexp"
	"time"

	"github.com/racemop/racemop/internal/automaton"
	"github.com/racemop/racemop/internal/monitor"
	"github.com/racemop/racemop/internal/spec"
	"github.com/racemop/racemop/internal/track"
)

func init() {
	spec.Register("SocketTimeout", func() (spec.Spec, error) { return &socketTimeoutSpec{}, nil })
}

type socketTimeoutSpec struct{}

func (s *socketTimeoutSpec) Events() []spec.EventDescriptor {
	return []spec.EventDescriptor{
		{
			Name:          "settimeout",
			Hook:          track.HookBeforeCall,
			MethodPattern: regexp.MustCompile(`^SetTimeout$`),
			Predicate:     negativeFirstArg,
			Bind: func(ev track.Event) monitor.Binding {
				return monitor.NewBinding(monitor.BindingEntry{Pos: 0, Value: monitor.IdentityValue(ev.Receiver)})
			},
			Message: "SetTimeout called with a negative duration",
		},
	}
}

// negativeFirstArg accepts a connection's SetTimeout(d time.Duration)
// call whose argument is negative.
func negativeFirstArg(ev track.Event) bool {
	if len(ev.Args) == 0 {
		return false
	}
	d, ok := ev.Args[0].(time.Duration)
	return ok && d < 0
}

func (s *socketTimeoutSpec) Automaton() (*automaton.Automaton, error) {
	return automaton.CompileFSM(`
initial s0
match s1
s0 -> settimeout s1
`)
}

func (s *socketTimeoutSpec) CreationEvents() []string { return []string{"settimeout"} }

func (s *socketTimeoutSpec) Describe() string {
	return "flags a connection timeout set to a negative duration"
}
