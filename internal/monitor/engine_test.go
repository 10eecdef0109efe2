package monitor

import (
	"testing"

	"github.com/racemop/racemop/internal/automaton"
	"github.com/stretchr/testify/require"
)

func fileCloseAutomaton(t *testing.T) *automaton.Automaton {
	t.Helper()
	a, err := automaton.CompileFSM(`
		initial s0
		match s2
		s0 -> open s1
		s1 -> close s0
		s1 -> end s2
	`)
	require.NoError(t, err)
	return a
}

// TestFileCloseScenario covers opening a handle without a matching close,
// followed by an end-of-execution sweep: it produces exactly one
// violation referencing the file.
func TestFileCloseScenario(t *testing.T) {
	auto := fileCloseAutomaton(t)
	store := NewViolationStore()
	eng, err := NewEngine("FileClosedAnalysis", auto, AlgorithmB, []string{"open"}, store)
	require.NoError(t, err)

	file := NewBinding(BindingEntry{Pos: 0, Value: ScalarValue("a.txt")})
	openLoc := SourceLocation{File: "main.go", Line: 10}

	violations := eng.HandleEvent("open", file, openLoc, "file not closed")
	require.Empty(t, violations)

	violations = eng.Sweep("end", func(Binding) SourceLocation { return openLoc }, "file not closed")
	require.Len(t, violations, 1)
	require.True(t, violations[0].FirstOccurrence)
	require.Equal(t, "Spec - FileClosedAnalysis: file not closed. file main.go, line 10.", violations[0].Line())
}

// TestAlgorithmBParametricSlicing covers parametric slicing under
// algorithm B: both iterators advance, but mutating only d1 must not
// affect the (d2, i2) instance.
func TestAlgorithmBParametricSlicing(t *testing.T) {
	auto, err := automaton.CompileRegex("createList updateList* createIter next* updateList+ next")
	require.NoError(t, err)

	store := NewViolationStore()
	eng, err := NewEngine("UnsafeListIterator", auto, AlgorithmB, []string{"createList"}, store)
	require.NoError(t, err)

	d1, d2 := map[string]int{}, map[string]int{}
	i1, i2 := new(int), new(int)

	b1 := NewBinding(BindingEntry{Pos: 0, Value: IdentityValue(d1)}, BindingEntry{Pos: 1, Value: IdentityValue(i1)})
	b2 := NewBinding(BindingEntry{Pos: 0, Value: IdentityValue(d2)}, BindingEntry{Pos: 1, Value: IdentityValue(i2)})

	loc := SourceLocation{File: "main.go", Line: 1}
	eng.HandleEvent("createList", b1, loc, "unsafe iteration")
	eng.HandleEvent("createList", b2, loc, "unsafe iteration")
	eng.HandleEvent("createIter", b1, loc, "unsafe iteration")
	eng.HandleEvent("createIter", b2, loc, "unsafe iteration")
	eng.HandleEvent("next", b1, loc, "unsafe iteration")
	eng.HandleEvent("next", b2, loc, "unsafe iteration")
	eng.HandleEvent("updateList", b1, loc, "unsafe iteration")

	v2 := eng.HandleEvent("next", b2, loc, "unsafe iteration")
	require.Empty(t, v2, "mutating only d1 must not affect i2's instance")

	v1 := eng.HandleEvent("next", b1, loc, "unsafe iteration")
	require.Len(t, v1, 1)
	require.True(t, v1[0].Binding.Equal(b1))
}

// TestCreationDiscipline covers Testable Property 2: no instance exists
// whose creation was not triggered by a declared creation event.
func TestCreationDiscipline(t *testing.T) {
	auto := fileCloseAutomaton(t)
	store := NewViolationStore()
	eng, err := NewEngine("FileClosedAnalysis", auto, AlgorithmB, []string{"open"}, store)
	require.NoError(t, err)

	b := NewBinding(BindingEntry{Pos: 0, Value: ScalarValue("a.txt")})
	loc := SourceLocation{File: "main.go", Line: 1}

	// "close" is not a creation event; firing it first must not create an
	// instance.
	eng.HandleEvent("close", b, loc, "msg")
	require.Empty(t, eng.Tree.All())

	eng.HandleEvent("open", b, loc, "msg")
	require.Len(t, eng.Tree.All(), 1)
}

// TestDeterministicViolationDedup checks that one end-of-execution sweep
// over a single open instance records exactly one violation, marked as
// the first occurrence, and that the store holds one entry with count 1.
func TestDeterministicViolationDedup(t *testing.T) {
	auto := fileCloseAutomaton(t)
	store := NewViolationStore()
	eng, err := NewEngine("FileClosedAnalysis", auto, AlgorithmB, []string{"open"}, store)
	require.NoError(t, err)

	loc := SourceLocation{File: "main.go", Line: 5}
	b := NewBinding(BindingEntry{Pos: 0, Value: ScalarValue("a.txt")})
	eng.HandleEvent("open", b, loc, "msg")

	first := eng.Sweep("end", func(Binding) SourceLocation { return loc }, "msg")
	require.Len(t, first, 1)
	require.True(t, first[0].FirstOccurrence)

	snap := store.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, 1, snap[0].Count)
}

func TestGCRemovesUnreachableBindings(t *testing.T) {
	tree := NewAlgoB()
	obj := new(int)
	b := NewBinding(BindingEntry{Pos: 0, Value: IdentityValue(obj)})
	inst, created := tree.CreateIfAbsent(b, 0)
	require.True(t, created)
	require.NotNil(t, inst)
	require.Len(t, tree.All(), 1)

	removed := Sweep(tree)
	require.Equal(t, 0, removed, "a live pointer must not be collected")

	// Simulate the operand becoming unreachable: a fresh binding built
	// from a nil pointer of the same type is never reachable.
	var nilPtr *int
	b2 := NewBinding(BindingEntry{Pos: 0, Value: IdentityValue(nilPtr)})
	tree.CreateIfAbsent(b2, 0)
	removed = Sweep(tree)
	require.Equal(t, 1, removed)
}
