package monitor

import (
	"sync"

	"github.com/racemop/racemop/internal/automaton"
)

// AlgoC implements parametric algorithm C: bindings form a
// lattice ordered by Binding.IsSubsetOf. An event carrying binding β
// advances every existing instance whose binding is a subset of β, and
// lazily materializes a "joined" instance — one tracking the union of β
// with a previously seen, still-live, mergeable partial binding — so that
// later events naming only a subset of β can still find a instance that
// has observed the fuller picture.
//
// Grounded on internal/race/shadowmem.VarState's adaptive promotion
// (Epoch fast path -> VectorClock on conflict): algorithm B's exact-match
// map is the fast path here; joining on a lattice is the "promotion" that
// happens only when a richer binding is actually observed.
type AlgoC struct {
	mu        sync.Mutex
	instances map[string]*Instance
}

// NewAlgoC constructs an empty lattice-joining IndexTree.
func NewAlgoC() *AlgoC {
	return &AlgoC{instances: map[string]*Instance{}}
}

// Lookup returns every instance compatible with observed: an instance is
// compatible if its binding is a subset of observed (so it can legally be
// advanced by this event) or observed is a subset of its binding (the
// instance already knows more than this event reveals).
func (c *AlgoC) Lookup(observed Binding) []*Instance {
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

func (c *AlgoC) CreateIfAbsent(observed Binding, initial automaton.StateID) (*Instance, bool) {
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

// joinWithExisting materializes a joined instance for every pre-existing
// binding that shares at least one entry with the new binding without
// conflicting (a mergeable but incomparable pair). Conflicting or
// already-comparable pairs are skipped: a conflict cannot be joined, and
// a comparable pair (one already a subset of the other) needs no new
// instance since Lookup already treats them as compatible.
func (c *AlgoC) joinWithExisting(fresh *Instance, initial automaton.StateID) {
	for key, other := range c.instances {
		if other == fresh {
			continue
		}
		if fresh.Binding.IsSubsetOf(other.Binding) || other.Binding.IsSubsetOf(fresh.Binding) {
			continue
		}
		if !shareEntry(fresh.Binding, other.Binding) {
			continue
		}
		joined, ok := tryJoin(fresh.Binding, other.Binding)
		if !ok {
			continue
		}
		joinedKey := joined.Key()
		if joinedKey == key || joinedKey == fresh.Binding.Key() {
			continue
		}
		if _, exists := c.instances[joinedKey]; exists {
			continue
		}
		c.instances[joinedKey] = &Instance{Binding: joined, State: initial}
	}
}

// shareEntry reports whether two bindings agree on at least one position.
func shareEntry(a, b Binding) bool {
	for _, ea := range a.Entries() {
		for _, eb := range b.Entries() {
			if ea.Pos == eb.Pos && ea.Value.Equal(eb.Value) {
				return true
			}
		}
	}
	return false
}

// tryJoin attempts Binding.Join, reporting false instead of panicking when
// the two bindings disagree on a shared position.
func tryJoin(a, b Binding) (joined Binding, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return a.Join(b), true
}

func (c *AlgoC) All() []*Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Instance, 0, len(c.instances))
	for _, inst := range c.instances {
		out = append(out, inst)
	}
	return out
}

func (c *AlgoC) Remove(inst *Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, inst.Binding.Key())
}
