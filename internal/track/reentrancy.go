package track

import (
	"sync"

	"github.com/racemop/racemop/internal/track/goid"
)

// reentrancyGuard prevents a tracker hook from re-triggering itself when a
// specification's predicate or the dispatcher's own bookkeeping calls back
// into instrumented code (e.g. a predicate that calls a tracked method on
// its own operand). The flag is kept per goroutine id in a
// mutex-guarded map.
type reentrancyGuard struct {
	mu     sync.Mutex
	inside map[int64]bool
}

func newReentrancyGuard() *reentrancyGuard {
	return &reentrancyGuard{inside: map[int64]bool{}}
}

// Enter returns false if the calling goroutine is already inside a hook
// (in which case the caller must skip dispatch entirely), otherwise marks
// it entered and returns a release function the caller must defer.
func (g *reentrancyGuard) Enter() (release func(), ok bool) {
	id := goid.Current()
	g.mu.Lock()
	if g.inside[id] {
		g.mu.Unlock()
		return func() {}, false
	}
	g.inside[id] = true
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.inside, id)
		g.mu.Unlock()
	}, true
}
