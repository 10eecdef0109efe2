package track

import (
	"reflect"
	"regexp"
	"sync"
)

// Target identifies the (class-or-module, method-name-pattern) a
// specification subscribes an event to. TypeName is matched against reflect.TypeOf(event.Receiver)'s
// string form; MethodPattern is matched against the method/function name
// recorded at rewrite time.
type Target struct {
	TypeName      string
	MethodPattern *regexp.Regexp
}

// CallSiteFilter further constrains an event to call sites where the
// argument at Position is an instance of Type: `target = [positions]`.
type CallSiteFilter struct {
	Position int
	Type     reflect.Type
}

// Subscription is one specification's interest in one (Target, Hook) pair.
type Subscription struct {
	SpecName    string
	EventName   string
	Hook        HookKind
	Predicate   func(Event) bool
	Filters     []CallSiteFilter
	Deliver     func(eventName string, ev Event)
}

// Dispatcher routes tracker-fired Events to every subscribed specification
// whose predicate returns true. Subscription order is preserved per
// target, and every predicate is evaluated in that order.
type Dispatcher struct {
	mu   sync.RWMutex
	subs map[string][]Subscription // keyed by Target.TypeName + "#" + method name pattern source
}

// NewDispatcher constructs an empty registry.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: map[string][]Subscription{}}
}

func targetKey(t Target) string {
	pattern := ""
	if t.MethodPattern != nil {
		pattern = t.MethodPattern.String()
	}
	return t.TypeName + "#" + pattern
}

// Subscribe registers a subscription against a target. Registration order
// is preserved and is significant.
func (d *Dispatcher) Subscribe(target Target, sub Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := targetKey(target)
	d.subs[key] = append(d.subs[key], sub)
}

// Dispatch delivers ev to every subscription registered against a target
// matching ev's receiver type and method name, in subscription order,
// filtering by predicate and call-site filters.
func (d *Dispatcher) Dispatch(methodName string, ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	typeName := ""
	if ev.Receiver != nil {
		typeName = reflect.TypeOf(ev.Receiver).String()
	}

	for key, subs := range d.subs {
		tname, patternSrc := splitTargetKey(key)
		if tname != "" && tname != typeName {
			continue
		}
		if patternSrc != "" {
			re, err := regexp.Compile(patternSrc)
			if err != nil || !re.MatchString(methodName) {
				continue
			}
		}
		for _, sub := range subs {
			if sub.Hook != ev.Hook {
				continue
			}
			if !passesFilters(sub.Filters, ev) {
				continue
			}
			if sub.Predicate != nil && !sub.Predicate(ev) {
				continue
			}
			sub.Deliver(sub.EventName, ev)
		}
	}
}

func passesFilters(filters []CallSiteFilter, ev Event) bool {
	for _, f := range filters {
		if f.Position < 0 || f.Position >= len(ev.Args) {
			return false
		}
		arg := ev.Args[f.Position]
		if arg == nil {
			return false
		}
		if !reflect.TypeOf(arg).AssignableTo(f.Type) {
			return false
		}
	}
	return true
}

func splitTargetKey(key string) (typeName, pattern string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '#' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
