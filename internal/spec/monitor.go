package spec

import (
	"fmt"

	"github.com/racemop/racemop/internal/monitor"
	"github.com/racemop/racemop/internal/track"
)

// LoadedSpec pairs a successfully instantiated Spec with the Engine
// compiled for it.
type LoadedSpec struct {
	Name   string
	Spec   Spec
	Engine *monitor.Engine
}

// SkippedSpec records a registered specification that failed to load
//.
type SkippedSpec struct {
	Name   string
	Reason string
}

// CreateMonitor instantiates every registered specification, compiles its
// automaton, and subscribes its event descriptors to dispatcher — wiring
// the Trackers (internal/track) to the Parametric Monitor Engine
// (internal/monitor).
//
// detailed controls whether Violation.Message gets the descriptor's
// static Message text or a location-qualified variant; gc is accepted
// but not used here (the Lifecycle Coordinator reads its own
// GarbageCollection setting when it shuts down).
// onMatch, if non-nil, is invoked for every violation any specification
// produces, in addition to that specification's own MatchHandler (if it
// implements one) — the Lifecycle Coordinator's hook for
// PrintViolationsToConsole, which is a cross-cutting concern rather than
// something any one Spec should have to implement itself.
func CreateMonitor(dispatcher *track.Dispatcher, algo monitor.Algorithm, detailed bool, gc bool, onMatch func(specName string, v monitor.Violation)) ([]*LoadedSpec, []SkippedSpec) {
	var loaded []*LoadedSpec
	var skipped []SkippedSpec

	for _, name := range Registered() {
		ls, err := createOne(dispatcher, name, algo, detailed, onMatch)
		if err != nil {
			skipped = append(skipped, SkippedSpec{Name: name, Reason: err.Error()})
			continue
		}
		loaded = append(loaded, ls)
	}
	return loaded, skipped
}

func createOne(dispatcher *track.Dispatcher, name string, algo monitor.Algorithm, detailed bool, onMatch func(string, monitor.Violation)) (ls *LoadedSpec, err error) {
	defer func() {
		if r := recover(); r != nil {
			ls = nil
			err = fmt.Errorf("spec %q factory panicked: %v", name, r)
		}
	}()

	factory, ok := lookupFactory(name)
	if !ok {
		return nil, fmt.Errorf("spec %q: no registered factory", name)
	}
	sp, ferr := factory()
	if ferr != nil {
		return nil, fmt.Errorf("spec %q: %w", name, ferr)
	}

	auto, aerr := sp.Automaton()
	if aerr != nil {
		return nil, fmt.Errorf("spec %q: %w", name, aerr)
	}

	events := sp.Events()
	declared := make(map[string]bool, len(events))
	for _, ev := range events {
		declared[ev.Name] = true
	}
	if verr := auto.Validate(declared); verr != nil {
		return nil, fmt.Errorf("spec %q: %w", name, verr)
	}

	store := monitor.NewViolationStore()
	engine, eerr := monitor.NewEngine(name, auto, algo, sp.CreationEvents(), store)
	if eerr != nil {
		return nil, fmt.Errorf("spec %q: %w", name, eerr)
	}

	handler, _ := sp.(MatchHandler)
	for _, ev := range events {
		if ev.Bind == nil {
			return nil, fmt.Errorf("spec %q: event %q has no Bind function", name, ev.Name)
		}
		subscribeDescriptor(dispatcher, name, ev, engine, handler, detailed, onMatch)
	}

	return &LoadedSpec{Name: name, Spec: sp, Engine: engine}, nil
}

// Sweep runs this specification's end-of-execution terminal-condition
// check, if it declares one via TerminalSpec. The sweep has no real
// per-instance source location to attach (the call site that created the
// binding is long gone by program end), so violations raised here carry
// a zero SourceLocation.
func (ls *LoadedSpec) Sweep() []monitor.Violation {
	term, ok := ls.Spec.(TerminalSpec)
	if !ok {
		return nil
	}
	name, message := term.EndEvent()
	if name == "" {
		return nil
	}
	return ls.Engine.Sweep(name, func(monitor.Binding) monitor.SourceLocation {
		return monitor.SourceLocation{}
	}, message)
}

// lookupFactory reads one factory from registry.go's unexported map under
// registryMu.
func lookupFactory(name string) (Factory, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	f, ok := factories[name]
	return f, ok
}

func subscribeDescriptor(dispatcher *track.Dispatcher, specName string, ev EventDescriptor, engine *monitor.Engine, handler MatchHandler, detailed bool, onMatch func(string, monitor.Violation)) {
	typeName := ""
	if ev.TargetType != nil {
		typeName = ev.TargetType.String()
	}
	target := track.Target{TypeName: typeName, MethodPattern: ev.MethodPattern}

	deliver := func(eventName string, raw track.Event) {
		binding := ev.Bind(raw)
		loc := monitor.SourceLocation{File: raw.Location.File, Line: raw.Location.Line, Column: raw.Location.Column}
		message := ev.Message
		if detailed {
			message = fmt.Sprintf("%s (at %s)", message, loc.String())
		}
		violations := engine.HandleEvent(eventName, binding, loc, message)
		for _, v := range violations {
			if handler != nil {
				handler.OnMatch(v)
			}
			if onMatch != nil {
				onMatch(specName, v)
			}
		}
	}

	dispatcher.Subscribe(target, track.Subscription{
		SpecName:  specName,
		EventName: ev.Name,
		Hook:      ev.Hook,
		Predicate: ev.Predicate,
		Filters:   ev.CallSiteFilters,
		Deliver:   deliver,
	})
}
