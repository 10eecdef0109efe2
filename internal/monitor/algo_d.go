package monitor

import (
	"sync"

	"github.com/racemop/racemop/internal/automaton"
)

// AlgoD implements parametric algorithm D: like C, but with
// stricter creation conditions — a new joined instance is only created
// when the triggering event is a declared creation event. The engine
// (engine.go) enforces this by only calling CreateIfAbsent for creation
// events. AlgoD applies the same Lookup and join rules as AlgoC (AlgoC
// also forms joins only inside CreateIfAbsent), so for the same event
// sequence the two trees hold the same instances.
type AlgoD struct {
	mu        sync.Mutex
	instances map[string]*Instance
}

// NewAlgoD constructs an empty IndexTree using algorithm D's creation
// discipline.
func NewAlgoD() *AlgoD {
	return &AlgoD{instances: map[string]*Instance{}}
}

func (d *AlgoD) Lookup(observed Binding) []*Instance {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*Instance
	for _, inst := range d.instances {
		if inst.Binding.IsSubsetOf(observed) || observed.IsSubsetOf(inst.Binding) {
			out = append(out, inst)
		}
	}
	return out
}

// CreateIfAbsent is only ever invoked by the engine on creation events;
// joins are therefore only ever formed here, never from a bare
// advance-only Lookup.
func (d *AlgoD) CreateIfAbsent(observed Binding, initial automaton.StateID) (*Instance, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := observed.Key()
	if inst, ok := d.instances[key]; ok {
		return inst, false
	}
	inst := &Instance{Binding: observed, State: initial}
	d.instances[key] = inst

	for ikey, other := range d.instances {
		if other == inst {
			continue
		}
		if inst.Binding.IsSubsetOf(other.Binding) || other.Binding.IsSubsetOf(inst.Binding) {
			continue
		}
		if !shareEntry(inst.Binding, other.Binding) {
			continue
		}
		joined, ok := tryJoin(inst.Binding, other.Binding)
		if !ok {
			continue
		}
		jk := joined.Key()
		if jk == ikey || jk == key {
			continue
		}
		if _, exists := d.instances[jk]; !exists {
			d.instances[jk] = &Instance{Binding: joined, State: initial}
		}
	}

	return inst, true
}

func (d *AlgoD) All() []*Instance {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Instance, 0, len(d.instances))
	for _, inst := range d.instances {
		out = append(out, inst)
	}
	return out
}

func (d *AlgoD) Remove(inst *Instance) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.instances, inst.Binding.Key())
}
