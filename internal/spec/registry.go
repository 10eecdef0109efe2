package spec

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a Spec. Registered once per specification package,
// invoked once per CreateMonitor call.
type Factory func() (Spec, error)

var (
	registryMu sync.Mutex
	factories  = map[string]Factory{}
	order      []string
)

// Register records a specification factory under name, to be invoked by
// CreateMonitor. Specification packages call this from an init() function
// — the Go idiom for plugin-style registration,
// grounded on database/sql's driver-registration pattern, since Go has no
// way to dynamically import an arbitrary .go file at runtime.
//
// Register panics on a duplicate name; this happens at package-init time,
// so a naming collision is a build-time programming error, not a runtime
// condition to recover from.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("spec: %q already registered", name))
	}
	factories[name] = factory
	order = append(order, name)
}

// Registered returns every registered specification name, in registration
// order.
func Registered() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// reset clears the registry. Unexported: only the test suite needs it, to
// avoid cross-test duplicate-registration panics.
func reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories = map[string]Factory{}
	order = nil
}

// sortedNames is a small helper used by discover.go's diagnostics output.
func sortedNames(names []string) []string {
	out := append([]string{}, names...)
	sort.Strings(out)
	return out
}
