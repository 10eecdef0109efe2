package monitor

import (
	"sync"

	"github.com/racemop/racemop/internal/automaton"
)

// AlgoCPlus implements parametric algorithm C+: the same
// lattice-join semantics as AlgoC, with an additional set of "disabled
// joins" — pairs of bindings already proven unjoinable or redundant — so
// repeated events over the same pair of partial bindings don't redo the
// same join computation. Per DESIGN.md's Open Question resolution, the
// distinction from C is a performance optimization only: Lookup and
// CreateIfAbsent return exactly the same instances/violations C would,
// just without recomputing disabled joins.
type AlgoCPlus struct {
	mu            sync.Mutex
	instances     map[string]*Instance
	disabledJoins map[[2]string]bool
}

// NewAlgoCPlus constructs an empty lattice-joining IndexTree with join
// memoization.
func NewAlgoCPlus() *AlgoCPlus {
	return &AlgoCPlus{
		instances:     map[string]*Instance{},
		disabledJoins: map[[2]string]bool{},
	}
}

func (c *AlgoCPlus) Lookup(observed Binding) []*Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Instance
	for _, inst := range c.instances {
		if inst.Binding.IsSubsetOf(observed) || observed.IsSubsetOf(inst.Binding) {
			out = append(out, inst)
		}
	}
	return out
}

func (c *AlgoCPlus) CreateIfAbsent(observed Binding, initial automaton.StateID) (*Instance, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := observed.Key()
	if inst, ok := c.instances[key]; ok {
		return inst, false
	}

	inst := &Instance{Binding: observed, State: initial}
	c.instances[key] = inst
	c.joinWithExisting(inst, initial)
	return inst, true
}

func (c *AlgoCPlus) joinWithExisting(fresh *Instance, initial automaton.StateID) {
	for key, other := range c.instances {
		if other == fresh {
			continue
		}
		pairKey := disabledKey(key, fresh.Binding.Key())
		if c.disabledJoins[pairKey] {
			continue
		}
		if fresh.Binding.IsSubsetOf(other.Binding) || other.Binding.IsSubsetOf(fresh.Binding) {
			c.disabledJoins[pairKey] = true
			continue
		}
		if !shareEntry(fresh.Binding, other.Binding) {
			c.disabledJoins[pairKey] = true
			continue
		}
		joined, ok := tryJoin(fresh.Binding, other.Binding)
		if !ok {
			c.disabledJoins[pairKey] = true
			continue
		}
		joinedKey := joined.Key()
		if joinedKey == key || joinedKey == fresh.Binding.Key() {
			c.disabledJoins[pairKey] = true
			continue
		}
		if _, exists := c.instances[joinedKey]; !exists {
			c.instances[joinedKey] = &Instance{Binding: joined, State: initial}
		}
		c.disabledJoins[pairKey] = true
	}
}

func disabledKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

func (c *AlgoCPlus) All() []*Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Instance, 0, len(c.instances))
	for _, inst := range c.instances {
		out = append(out, inst)
	}
	return out
}

func (c *AlgoCPlus) Remove(inst *Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, inst.Binding.Key())
}
