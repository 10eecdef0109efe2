package automaton

// nfaStateBuilder is a single NFA state used only during construction; epsilon
// transitions are represented by the empty string key.
const epsilon = ""

type nfaStateBuilder struct {
	transitions map[string][]StateID // symbol -> destinations (epsilon uses "")
}

// nfaBuilder accumulates states for Thompson construction. It is discarded
// once subsetConstruct has produced the final DFA-shaped Automaton.
type nfaBuilder struct {
	states []nfaStateBuilder
	start  StateID
	accept StateID
}

func newNFA() *nfaBuilder {
	return &nfaBuilder{}
}

func (b *nfaBuilder) newState() StateID {
	b.states = append(b.states, nfaStateBuilder{transitions: map[string][]StateID{}})
	return StateID(len(b.states) - 1)
}

func (b *nfaBuilder) addEdge(from StateID, symbol string, to StateID) {
	b.states[from].transitions[symbol] = append(b.states[from].transitions[symbol], to)
}

// nfaFragment is a sub-NFA with one entry state and a list of dangling
// "out" edges (sources whose destination has not been decided yet).
// out entries are (state, symbol) pairs pointing at edges already created
// with a placeholder destination that patch() rewires.
type nfaFragment struct {
	start StateID
	out   []danglingEdge
}

type danglingEdge struct {
	from   StateID
	symbol string
}

// patch rewires every dangling edge in `out` to point at `to`.
func (b *nfaBuilder) patch(out []danglingEdge, to StateID) {
	for _, d := range out {
		ids := b.states[d.from].transitions[d.symbol]
		for i, id := range ids {
			if id == pendingState {
				ids[i] = to
			}
		}
		b.states[d.from].transitions[d.symbol] = ids
	}
}

// pendingState is a sentinel destination used for edges not yet patched.
const pendingState = StateID(-1)

func (b *nfaBuilder) symbol(name string) *nfaFragment {
	from := b.newState()
	b.addEdge(from, name, pendingState)
	return &nfaFragment{start: from, out: []danglingEdge{{from: from, symbol: name}}}
}

func (b *nfaBuilder) concat(a, c *nfaFragment) *nfaFragment {
	b.patch(a.out, c.start)
	return &nfaFragment{start: a.start, out: c.out}
}

func (b *nfaBuilder) alternate(a, c *nfaFragment) *nfaFragment {
	start := b.newState()
	b.addEdge(start, epsilon, a.start)
	b.addEdge(start, epsilon, c.start)
	out := append(append([]danglingEdge{}, a.out...), c.out...)
	return &nfaFragment{start: start, out: out}
}

func (b *nfaBuilder) star(a *nfaFragment) *nfaFragment {
	start := b.newState()
	b.addEdge(start, epsilon, a.start) // enter the loop body
	b.patch(a.out, start)              // loop back after one pass
	b.addEdge(start, epsilon, pendingState) // exit placeholder (zero passes allowed)
	return &nfaFragment{start: start, out: []danglingEdge{{from: start, symbol: epsilon}}}
}

func (b *nfaBuilder) plus(a *nfaFragment) *nfaFragment {
	loop := b.newState()
	b.patch(a.out, loop)
	b.addEdge(loop, epsilon, a.start)       // loop back for another pass
	b.addEdge(loop, epsilon, pendingState)  // exit placeholder (after >=1 pass)
	return &nfaFragment{start: a.start, out: []danglingEdge{{from: loop, symbol: epsilon}}}
}

func (b *nfaBuilder) optional(a *nfaFragment) *nfaFragment {
	start := b.newState()
	b.addEdge(start, epsilon, a.start)
	b.addEdge(start, epsilon, pendingState) // skip placeholder (zero passes allowed)
	out := append([]danglingEdge{{from: start, symbol: epsilon}}, a.out...)
	return &nfaFragment{start: start, out: out}
}
