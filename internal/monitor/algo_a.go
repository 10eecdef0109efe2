package monitor

import (
	"sync"

	"github.com/racemop/racemop/internal/automaton"
)

// AlgoA implements parametric algorithm A: no parametric
// slicing at all. A single global instance tracks the whole event trace
// regardless of binding. Fastest, imprecise for properties quantified over
// multiple objects; the simplest member of a dispatch-selectable family
// of IndexTree implementations.
type AlgoA struct {
	mu   sync.Mutex
	inst *Instance
}

// NewAlgoA constructs an empty global-trace IndexTree.
func NewAlgoA() *AlgoA {
	return &AlgoA{}
}

func (a *AlgoA) Lookup(_ Binding) []*Instance {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inst == nil {
		return nil
	}
	return []*Instance{a.inst}
}

func (a *AlgoA) CreateIfAbsent(observed Binding, initial automaton.StateID) (*Instance, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inst != nil {
		return a.inst, false
	}
	a.inst = &Instance{Binding: observed, State: initial}
	return a.inst, true
}

func (a *AlgoA) All() []*Instance {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inst == nil {
		return nil
	}
	return []*Instance{a.inst}
}

func (a *AlgoA) Remove(inst *Instance) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inst == inst {
		a.inst = nil
	}
}
