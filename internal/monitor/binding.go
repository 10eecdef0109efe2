// Package monitor implements the Parametric Monitor Engine:
// per-specification maps from parameter bindings to monitor instances,
// advanced as events fire, under a selectable parametric-trace-slicing
// algorithm (A, B, C, C+, D).
package monitor

import (
	"fmt"
	"sort"
	"strings"
)

// BoundValue is a tagged union over the two operand categories a parameter
// binding can hold: a reference-type operand (compared by identity) or a
// value-type operand (compared by equality).
type BoundValue struct {
	// identity is non-nil for reference-type operands; bindings compare
	// these by pointer identity.
	identity any

	// value is set for value-type (comparable) operands; bindings compare
	// these with ==.
	value    any
	isValue  bool
}

// IdentityValue wraps a reference-type operand for identity-based binding.
func IdentityValue(obj any) BoundValue {
	return BoundValue{identity: obj}
}

// ScalarValue wraps a comparable operand for value-based binding.
func ScalarValue(v any) BoundValue {
	return BoundValue{value: v, isValue: true}
}

// Equal reports whether two BoundValues represent the same binding entry.
func (v BoundValue) Equal(other BoundValue) bool {
	if v.isValue != other.isValue {
		return false
	}
	if v.isValue {
		return v.value == other.value
	}
	return identityKey(v.identity) == identityKey(other.identity)
}

func (v BoundValue) String() string {
	if v.isValue {
		return fmt.Sprintf("%v", v.value)
	}
	return identityKey(v.identity)
}

// BindingEntry is one (parameter position, operand) pair.
type BindingEntry struct {
	Pos   int
	Value BoundValue
}

// Binding is an ordered parameter binding: a mapping from parameter
// positions to observed operands. Entries are kept sorted by Pos so
// Equal and the map Key are order independent of construction order.
type Binding struct {
	entries []BindingEntry
}

// NewBinding builds a Binding from entries, sorting by position.
func NewBinding(entries ...BindingEntry) Binding {
	cp := append([]BindingEntry{}, entries...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Pos < cp[j].Pos })
	return Binding{entries: cp}
}

// Entries returns the binding's entries in position order.
func (b Binding) Entries() []BindingEntry {
	return b.entries
}

// Equal reports whether two bindings contain equal entries at every
// position.
func (b Binding) Equal(other Binding) bool {
	if len(b.entries) != len(other.entries) {
		return false
	}
	for i, e := range b.entries {
		o := other.entries[i]
		if e.Pos != o.Pos || !e.Value.Equal(o.Value) {
			return false
		}
	}
	return true
}

// IsSubsetOf reports whether every entry in b also appears (same position,
// equal value) in other. Used by algorithms C/C+/D to find joinable
// bindings: an event with binding β updates every instance whose
// binding is a subset of β.
func (b Binding) IsSubsetOf(other Binding) bool {
	for _, e := range b.entries {
		found := false
		for _, o := range other.entries {
			if o.Pos == e.Pos && o.Value.Equal(e.Value) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Join merges two bindings, keeping all entries of both. Positions present
// in both must agree; Join panics on conflicting entries. Algorithms C,
// C+ and D call it through tryJoin, which recovers that panic and skips
// the pair.
func (b Binding) Join(other Binding) Binding {
	merged := map[int]BoundValue{}
	for _, e := range b.entries {
		merged[e.Pos] = e.Value
	}
	for _, e := range other.entries {
		if existing, ok := merged[e.Pos]; ok && !existing.Equal(e.Value) {
			panic("monitor: Join called on bindings with conflicting entries")
		}
		merged[e.Pos] = e.Value
	}
	out := make([]BindingEntry, 0, len(merged))
	for pos, v := range merged {
		out = append(out, BindingEntry{Pos: pos, Value: v})
	}
	return NewBinding(out...)
}

// Key returns a stable string suitable for use as a Go map key, so Binding
// (which contains a slice) can back an IndexTree keyed on an ordinary map.
func (b Binding) Key() string {
	parts := make([]string, len(b.entries))
	for i, e := range b.entries {
		parts[i] = fmt.Sprintf("%d=%s", e.Pos, e.Value.String())
	}
	return strings.Join(parts, "&")
}

func (b Binding) String() string {
	return "{" + b.Key() + "}"
}
