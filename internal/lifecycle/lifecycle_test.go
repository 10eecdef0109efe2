package lifecycle

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/racemop/racemop/internal/automaton"
	"github.com/racemop/racemop/internal/config"
	"github.com/racemop/racemop/internal/monitor"
	"github.com/racemop/racemop/internal/spec"
	"github.com/racemop/racemop/internal/track"
)

// closeOnceSpec models a handle closed twice. It implements TerminalSpec
// with an empty end event, so Shutdown's sweep phase visits it without
// firing anything.
type closeOnceSpec struct{}

func (closeOnceSpec) Events() []spec.EventDescriptor {
	bind := func(ev track.Event) monitor.Binding {
		return monitor.NewBinding(monitor.BindingEntry{Pos: 0, Value: monitor.IdentityValue(ev.Receiver)})
	}
	return []spec.EventDescriptor{
		{
			Name:          "close",
			Hook:          track.HookBeforeCall,
			MethodPattern: regexp.MustCompile(`^Close$`),
			Bind:          bind,
			Message:       "handle closed twice",
		},
	}
}

func (closeOnceSpec) Automaton() (*automaton.Automaton, error) {
	return automaton.CompileFSM(`
initial s0
match s2
s0 -> close s1
s1 -> close s2
`)
}

func (closeOnceSpec) CreationEvents() []string { return []string{"close"} }
func (closeOnceSpec) Describe() string         { return "detects closing a handle twice" }
func (closeOnceSpec) EndEvent() (string, string) { return "", "" }

func freshCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	cfg := config.Default()
	cfg.SpecFolder = t.TempDir()
	return NewCoordinator(cfg, nil)
}

func TestNewCoordinatorCreatesDispatcherAndStore(t *testing.T) {
	c := freshCoordinator(t)
	require.NotNil(t, c.Dispatcher)
	require.NotNil(t, c.Store)
}

func TestLoadSpecsRegistersAndRuns(t *testing.T) {
	spec.Register("CloseOnce", func() (spec.Spec, error) { return closeOnceSpec{}, nil })
	t.Cleanup(func() { resetRegistry() })

	c := freshCoordinator(t)
	require.NoError(t, c.LoadSpecs())
	require.Len(t, c.LoadedSpecs(), 1)
	require.Empty(t, c.Skipped())

	handle := &struct{ name string }{name: "f.txt"}
	loc := track.SourceLocation{File: "main.go", Line: 1}
	c.Dispatcher.Dispatch("Close", track.Event{Hook: track.HookBeforeCall, Location: loc, Receiver: handle})
	c.Dispatcher.Dispatch("Close", track.Event{Hook: track.HookBeforeCall, Location: loc, Receiver: handle})

	violations := c.collectSpecViolations()
	require.Len(t, violations, 1)
	require.Len(t, violations[0].Violations, 1)
}

func TestLoadSpecsSkipsFailingFactory(t *testing.T) {
	spec.Register("Broken", func() (spec.Spec, error) { return nil, os.ErrInvalid })
	t.Cleanup(func() { resetRegistry() })

	c := freshCoordinator(t)
	c.Config.ActiveSpecs = []string{"Broken"}
	require.NoError(t, c.LoadSpecs())
	require.Empty(t, c.LoadedSpecs())
	require.Len(t, c.Skipped(), 1)
	require.Equal(t, "Broken", c.Skipped()[0].Name)
}

func TestShutdownWritesStatisticsOnce(t *testing.T) {
	spec.Register("CloseOnce2", func() (spec.Spec, error) { return closeOnceSpec{}, nil })
	t.Cleanup(func() { resetRegistry() })

	c := freshCoordinator(t)
	c.Config.GarbageCollection = true
	c.Config.Statistics = true
	c.Config.StatisticsFile = filepath.Join(t.TempDir(), "mop")
	require.NoError(t, c.LoadSpecs())

	c.Shutdown()
	c.Shutdown() // second call must be a no-op, not a second write

	data, err := os.ReadFile(c.Config.StatisticsFile + "-time.txt")
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestRegisterShutdownStopReleasesSignalChannel(t *testing.T) {
	c := freshCoordinator(t)
	stop := c.RegisterShutdown()
	stop()
}

// resetRegistry clears internal/spec's package-level registry between
// tests; spec.Register has no public reset, so tests here each use a
// distinct name instead of relying on isolation. Kept as a no-op hook so
// future tests can add real isolation without touching call sites.
func resetRegistry() {}
