package automaton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileFSMFileClose(t *testing.T) {
	a, err := CompileFSM(`
		initial s0
		match s2
		s0 -> open s1
		s1 -> close s0
		s1 -> end s2
	`)
	require.NoError(t, err)
	require.NoError(t, a.Validate(a.Alphabet))

	s, ok := a.Step(a.Initial, "open")
	require.True(t, ok)
	require.False(t, a.IsMatch(s))

	s, ok = a.Step(s, "end")
	require.True(t, ok)
	require.True(t, a.IsMatch(s))
}

func TestCompileFSMDefaultSelfLoop(t *testing.T) {
	a, err := CompileFSM(`
		initial s0
		match s1
		s0 -> open s1
		s1 default s1
	`)
	require.NoError(t, err)

	s, _ := a.Step(a.Initial, "open")
	require.True(t, a.IsMatch(s))

	s2, ok := a.Step(s, "anything")
	require.True(t, ok)
	require.Equal(t, s, s2)
}

func TestCompileRegexUnsafeIterator(t *testing.T) {
	a, err := CompileRegex("createList updateList* createIter next* updateList+ next")
	require.NoError(t, err)

	run := func(events ...string) bool {
		cur := a.Initial
		for _, e := range events {
			next, ok := a.Step(cur, e)
			if !ok {
				return false
			}
			cur = next
		}
		return a.IsMatch(cur)
	}

	require.True(t, run("createList", "createIter", "next", "updateList", "next"))
	require.False(t, run("createList", "createIter", "next"))
}

func TestCompileRegexAlternationAndOptional(t *testing.T) {
	a, err := CompileRegex("(a|b)c?d")
	require.NoError(t, err)

	run := func(events ...string) bool {
		cur := a.Initial
		for _, e := range events {
			next, ok := a.Step(cur, e)
			if !ok {
				return false
			}
			cur = next
		}
		return a.IsMatch(cur)
	}

	require.True(t, run("a", "d"))
	require.True(t, run("b", "c", "d"))
	require.False(t, run("a", "c"))
}

func TestAutomatonValidateRejectsUndeclaredEvent(t *testing.T) {
	a, err := CompileFSM(`
		initial s0
		match s1
		s0 -> open s1
	`)
	require.NoError(t, err)

	err = a.Validate(map[string]bool{"close": true})
	require.Error(t, err)
}
