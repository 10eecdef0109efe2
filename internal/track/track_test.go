package track

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct{}

func TestDispatchMatchesTypeAndMethod(t *testing.T) {
	tr := NewTracker()
	var delivered []Event
	tr.Dispatcher.Subscribe(Target{TypeName: "track.widget", MethodPattern: regexp.MustCompile("^Do$")}, Subscription{
		SpecName:  "Spec",
		EventName: "did",
		Hook:      HookBeforeCall,
		Deliver:   func(name string, ev Event) { delivered = append(delivered, ev) },
	})

	w := widget{}
	tr.BeforeCall("site1", "Do", SourceLocation{File: "a.go", Line: 1}, w, nil)
	require.Len(t, delivered, 1)

	tr.BeforeCall("site2", "Other", SourceLocation{File: "a.go", Line: 2}, w, nil)
	require.Len(t, delivered, 1, "non-matching method must not dispatch")
}

func TestBeforeAfterCallStashRoundTrip(t *testing.T) {
	tr := NewTracker()
	var before, after []Event
	tr.Dispatcher.Subscribe(Target{TypeName: "", MethodPattern: regexp.MustCompile(".*")}, Subscription{
		Hook:    HookBeforeCall,
		Deliver: func(_ string, ev Event) { before = append(before, ev) },
	})
	tr.Dispatcher.Subscribe(Target{TypeName: "", MethodPattern: regexp.MustCompile(".*")}, Subscription{
		Hook:    HookAfterCall,
		Deliver: func(_ string, ev Event) { after = append(after, ev) },
	})

	loc := SourceLocation{File: "b.go", Line: 7}
	depth := tr.BeforeCall("site", "Method", loc, "recv", []any{1, 2})
	tr.AfterCall("site", "Method", depth, loc, "result")

	require.Len(t, before, 1)
	require.Len(t, after, 1)
	require.Equal(t, "recv", after[0].Receiver)
	require.Equal(t, []any{1, 2}, after[0].Args)
	require.Equal(t, "result", after[0].Result)
}

func TestCallStashHandlesRecursionDepth(t *testing.T) {
	stash := NewCallStash()
	d1 := stash.Push("site", 1, "r1", nil, SourceLocation{})
	d2 := stash.Push("site", 1, "r2", nil, SourceLocation{})
	require.Equal(t, 1, d1)
	require.Equal(t, 2, d2)

	rec2, ok := stash.Pop("site", 1, d2)
	require.True(t, ok)
	require.Equal(t, "r2", rec2.Receiver)

	rec1, ok := stash.Pop("site", 1, d1)
	require.True(t, ok)
	require.Equal(t, "r1", rec1.Receiver)
}

func TestCallFilterByArgPosition(t *testing.T) {
	tr := NewTracker()
	var delivered int
	tr.Dispatcher.Subscribe(Target{MethodPattern: regexp.MustCompile(".*")}, Subscription{
		Hook: HookBeforeCall,
		Filters: []CallSiteFilter{
			{Position: 0, Type: reflect.TypeOf("")},
		},
		Deliver: func(_ string, _ Event) { delivered++ },
	})

	tr.BeforeCall("s1", "M", SourceLocation{}, nil, []any{"a string"})
	tr.BeforeCall("s2", "M", SourceLocation{}, nil, []any{42})
	require.Equal(t, 1, delivered)
}
