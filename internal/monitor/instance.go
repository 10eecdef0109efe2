package monitor

import (
	"sync"

	"github.com/racemop/racemop/internal/automaton"
)

// Instance is a MonitorInstance: one automaton run bound to a
// single parameter binding. Instances are only ever mutated through
// Advance, under their owning IndexTree's lock.
type Instance struct {
	mu      sync.Mutex
	Binding Binding
	State   automaton.StateID
}

// Advance steps the instance's automaton state on the given event and
// reports whether the new state is a match state.
func (in *Instance) Advance(a *automaton.Automaton, event string) (matched bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	next, _ := a.Step(in.State, event)
	in.State = next
	return a.IsMatch(next)
}

// CurrentState returns the instance's state under lock.
func (in *Instance) CurrentState() automaton.StateID {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.State
}

// IndexTree is the per-specification structure mapping (partial) bindings
// to the set of monitor instances that binding is compatible with.
// Implementations trade memory for precision; see algo_*.go.
type IndexTree interface {
	// Lookup returns every instance whose binding the algorithm considers
	// compatible with the observed binding.
	Lookup(observed Binding) []*Instance

	// CreateIfAbsent creates (and registers) a fresh instance in the
	// automaton's initial state for `observed`, unless the algorithm
	// already has a compatible instance and creation is unneeded. Returns
	// the instance and whether it was newly created.
	CreateIfAbsent(observed Binding, initial automaton.StateID) (inst *Instance, created bool)

	// All returns every live instance, for end-of-execution sweeps and
	// garbage collection.
	All() []*Instance

	// Remove deletes the given instance's binding entry from the tree.
	// Used by the garbage collector (gc.go).
	Remove(inst *Instance)
}
