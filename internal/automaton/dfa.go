package automaton

import "sort"

// epsilonClosure returns every state reachable from the given set via zero
// or more epsilon transitions, including the set itself.
func epsilonClosure(b *nfaBuilder, set map[StateID]bool) map[StateID]bool {
	closure := map[StateID]bool{}
	var stack []StateID
	for s := range set {
		closure[s] = true
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range b.states[s].transitions[epsilon] {
			if !closure[next] {
				closure[next] = true
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// move returns the set of states reachable from `set` by consuming a single
// occurrence of the given symbol (no epsilon transitions involved).
func move(b *nfaBuilder, set map[StateID]bool, symbol string) map[StateID]bool {
	result := map[StateID]bool{}
	for s := range set {
		for _, next := range b.states[s].transitions[symbol] {
			result[next] = true
		}
	}
	return result
}

// alphabetOf collects every non-epsilon symbol used anywhere in the NFA.
func alphabetOf(b *nfaBuilder) []string {
	seen := map[string]bool{}
	for _, st := range b.states {
		for sym := range st.transitions {
			if sym != epsilon {
				seen[sym] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for sym := range seen {
		names = append(names, sym)
	}
	sort.Strings(names)
	return names
}

func setKey(set map[StateID]bool) string {
	ids := make([]int, 0, len(set))
	for s := range set {
		ids = append(ids, int(s))
	}
	sort.Ints(ids)
	key := make([]byte, 0, len(ids)*4)
	for _, id := range ids {
		key = append(key, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
	}
	return string(key)
}

// subsetConstruct converts an NFA (built via nfaBuilder/Thompson
// construction) into a deterministic Automaton using the classic
// subset-construction algorithm.
func subsetConstruct(b *nfaBuilder) *Automaton {
	alphabet := alphabetOf(b)
	alphaSet := map[string]bool{}
	for _, s := range alphabet {
		alphaSet[s] = true
	}

	startSet := epsilonClosure(b, map[StateID]bool{b.start: true})
	startKey := setKey(startSet)

	dfaStates := []State{}
	keyToID := map[string]StateID{}
	var queue []map[StateID]bool

	register := func(set map[StateID]bool) StateID {
		key := setKey(set)
		if id, ok := keyToID[key]; ok {
			return id
		}
		id := StateID(len(dfaStates))
		keyToID[key] = id
		dfaStates = append(dfaStates, State{
			ID:          id,
			Name:        syntheticName(id),
			Match:       set[b.accept],
			Transitions: map[string]StateID{},
		})
		queue = append(queue, set)
		return id
	}

	initial := register(startSet)
	_ = startKey

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curID := keyToID[setKey(cur)]

		for _, sym := range alphabet {
			moved := move(b, cur, sym)
			if len(moved) == 0 {
				continue
			}
			closure := epsilonClosure(b, moved)
			destID := register(closure)
			dfaStates[curID].Transitions[sym] = destID
		}
	}

	return &Automaton{
		States:   dfaStates,
		Initial:  initial,
		Alphabet: alphaSet,
	}
}

func syntheticName(id StateID) string {
	const digits = "0123456789"
	if id == 0 {
		return "q0"
	}
	n := int(id)
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "q" + string(buf)
}
