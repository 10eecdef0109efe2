package spec

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/racemop/racemop/internal/automaton"
	"github.com/racemop/racemop/internal/monitor"
	"github.com/racemop/racemop/internal/track"
)

// doubleOpenSpec models the file-close property, simplified to its
// violating half: opening a handle a second time before it is closed.
type doubleOpenSpec struct {
	matches []monitor.Violation
}

func (s *doubleOpenSpec) Events() []EventDescriptor {
	bind := func(ev track.Event) monitor.Binding {
		return monitor.NewBinding(monitor.BindingEntry{Pos: 0, Value: monitor.IdentityValue(ev.Receiver)})
	}
	return []EventDescriptor{
		{
			Name:          "open",
			Hook:          track.HookBeforeCall,
			MethodPattern: regexp.MustCompile(`^Open$`),
			Bind:          bind,
			Message:       "handle opened twice before close",
		},
		{
			Name:          "close",
			Hook:          track.HookBeforeCall,
			MethodPattern: regexp.MustCompile(`^Close$`),
			Bind:          bind,
			Message:       "handle closed",
		},
	}
}

func (s *doubleOpenSpec) Automaton() (*automaton.Automaton, error) {
	return automaton.CompileFSM(`
initial s0
match s2
s0 -> open s1
s1 -> open s2
s1 -> close s0
`)
}

func (s *doubleOpenSpec) CreationEvents() []string { return []string{"open"} }

func (s *doubleOpenSpec) Describe() string { return "detects opening a handle twice before close" }

func (s *doubleOpenSpec) OnMatch(v monitor.Violation) {
	s.matches = append(s.matches, v)
}

func TestRegisterAndRegistered(t *testing.T) {
	reset()
	defer reset()

	Register("Alpha", func() (Spec, error) { return &doubleOpenSpec{}, nil })
	Register("Beta", func() (Spec, error) { return &doubleOpenSpec{}, nil })

	require.Equal(t, []string{"Alpha", "Beta"}, Registered())
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	reset()
	defer reset()

	Register("Dup", func() (Spec, error) { return &doubleOpenSpec{}, nil })
	require.Panics(t, func() {
		Register("Dup", func() (Spec, error) { return &doubleOpenSpec{}, nil })
	})
}

func TestCreateMonitorDetectsDoubleOpen(t *testing.T) {
	reset()
	defer reset()

	spec := &doubleOpenSpec{}
	Register("DoubleOpen", func() (Spec, error) { return spec, nil })

	dispatcher := track.NewDispatcher()
	loaded, skipped := CreateMonitor(dispatcher, monitor.AlgorithmB, false, false, nil)
	require.Empty(t, skipped)
	require.Len(t, loaded, 1)

	handle := &struct{ name string }{name: "f.txt"}
	loc := track.SourceLocation{File: "main.go", Line: 10}

	dispatcher.Dispatch("Open", track.Event{Hook: track.HookBeforeCall, Location: loc, Receiver: handle})
	require.Empty(t, spec.matches)

	dispatcher.Dispatch("Open", track.Event{Hook: track.HookBeforeCall, Location: loc, Receiver: handle})
	require.Len(t, spec.matches, 1)
	require.Equal(t, "DoubleOpen", spec.matches[0].SpecName)

	snap := loaded[0].Engine.Violations.Snapshot()
	require.Len(t, snap, 1)
}

func TestCreateMonitorSkipsFailingFactory(t *testing.T) {
	reset()
	defer reset()

	Register("Bad", func() (Spec, error) { return nil, os.ErrInvalid })

	dispatcher := track.NewDispatcher()
	loaded, skipped := CreateMonitor(dispatcher, monitor.AlgorithmB, false, false, nil)
	require.Empty(t, loaded)
	require.Len(t, skipped, 1)
	require.Equal(t, "Bad", skipped[0].Name)
}

func TestDiscoverReportsUnregisteredFiles(t *testing.T) {
	reset()
	defer reset()
	Register("Known", func() (Spec, error) { return &doubleOpenSpec{}, nil })

	dir := t.TempDir()
	registered := filepath.Join(dir, "known_spec.go")
	require.NoError(t, os.WriteFile(registered, []byte(`package specs

func init() { spec.Register("Known", nil) }
`), 0o644))
	plain := filepath.Join(dir, "helper.go")
	require.NoError(t, os.WriteFile(plain, []byte(`package specs

func helper() {}
`), 0o644))

	report, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, report.GoFilesFound, 2)
	require.Contains(t, report.UnmatchedGoFiles, plain)
	require.Empty(t, report.MissingRegistered)
}
