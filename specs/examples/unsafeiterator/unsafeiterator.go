// Package unsafeiterator registers a specification detecting iteration
// over a container mutated since the iterator was constructed.
package unsafeiterator

import (
	"regexp"

	"github.com/racemop/racemop/internal/automaton"
	"github.com/racemop/racemop/internal/monitor"
	"github.com/racemop/racemop/internal/spec"
	"github.com/racemop/racemop/internal/track"
)

func init() {
	spec.Register("UnsafeIterator", func() (spec.Spec, error) { return &unsafeIteratorSpec{}, nil })
}

type unsafeIteratorSpec struct{}

// The container being iterated is the parameter every event binds to.
// track.NewIterator dispatches both iter_new and iter_next with
// Receiver set to the container the iterator wraps (not the iterator
// itself), so createList/updateList/createIter/next all bind on the
// same position-0 identity.
func (s *unsafeIteratorSpec) Events() []spec.EventDescriptor {
	bindContainer := func(ev track.Event) monitor.Binding {
		return monitor.NewBinding(monitor.BindingEntry{Pos: 0, Value: monitor.IdentityValue(ev.Receiver)})
	}
	return []spec.EventDescriptor{
		{
			Name:          "createList",
			Hook:          track.HookBeforeCall,
			MethodPattern: regexp.MustCompile(`^NewList$`),
			Bind:          bindContainer,
			Message:       "list created",
		},
		{
			Name:          "updateList",
			Hook:          track.HookBeforeCall,
			MethodPattern: regexp.MustCompile(`^Append$|^Remove$|^Set$`),
			Bind:          bindContainer,
			Message:       "list mutated",
		},
		{
			Name:    "createIter",
			Hook:    track.HookIterNew,
			Bind:    bindContainer,
			Message: "iterator constructed",
		},
		{
			Name:    "next",
			Hook:    track.HookIterNext,
			Bind:    bindContainer,
			Message: "iterator advanced over a list mutated since its construction",
		},
	}
}

// createList updateList* createIter next* updateList+ next
func (s *unsafeIteratorSpec) Automaton() (*automaton.Automaton, error) {
	return automaton.CompileRegex("createList updateList* createIter next* updateList+ next")
}

func (s *unsafeIteratorSpec) CreationEvents() []string { return []string{"createList"} }

func (s *unsafeIteratorSpec) Describe() string {
	return "detects iterating a list that was mutated after the iterator was constructed"
}
