package monitor

import (
	"sync"

	"github.com/racemop/racemop/internal/automaton"
)

// AlgoB implements parametric algorithm B: one independent
// instance per full parameter binding; instances never interact. Grounded
// on internal/race/shadowmem.ShadowMemory's sync.Map-keyed per-address
// cell map, repurposed here from memory addresses to binding keys.
type AlgoB struct {
	mu        sync.RWMutex
	instances map[string]*Instance
}

// NewAlgoB constructs an empty per-binding IndexTree.
func NewAlgoB() *AlgoB {
	return &AlgoB{instances: map[string]*Instance{}}
}

func (b *AlgoB) Lookup(observed Binding) []*Instance {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if inst, ok := b.instances[observed.Key()]; ok {
		return []*Instance{inst}
	}
	return nil
}

func (b *AlgoB) CreateIfAbsent(observed Binding, initial automaton.StateID) (*Instance, bool) {
	key := observed.Key()

	b.mu.RLock()
	if inst, ok := b.instances[key]; ok {
		b.mu.RUnlock()
		return inst, false
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if inst, ok := b.instances[key]; ok {
		return inst, false
	}
	inst := &Instance{Binding: observed, State: initial}
	b.instances[key] = inst
	return inst, true
}

func (b *AlgoB) All() []*Instance {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Instance, 0, len(b.instances))
	for _, inst := range b.instances {
		out = append(out, inst)
	}
	return out
}

func (b *AlgoB) Remove(inst *Instance) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.instances, inst.Binding.Key())
}
