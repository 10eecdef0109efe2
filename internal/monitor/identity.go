package monitor

import (
	"fmt"
	"reflect"
)

// identityKey derives a stable identity string for a reference-type
// operand. For pointers, maps, slices, channels and funcs we use the
// underlying runtime address (for slices, together with the length);
// everything else falls back to a
// type+value key, since the host program may hand us a non-reference
// value through an `any` that was never meant to be identity-compared
// (the binding then behaves like ScalarValue).
func identityKey(obj any) string {
	if obj == nil {
		return "<nil>"
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if v.IsNil() {
			return fmt.Sprintf("%s:<nil>", v.Type())
		}
		return fmt.Sprintf("%s:0x%x", v.Type(), v.Pointer())
	case reflect.Slice:
		if v.IsNil() {
			return fmt.Sprintf("%s:<nil>", v.Type())
		}
		return fmt.Sprintf("%s:0x%x+%d", v.Type(), v.Pointer(), v.Len())
	default:
		return fmt.Sprintf("%s:%v", v.Type(), obj)
	}
}

// IsReachable reports whether the operand behind a BoundValue still has a
// live, non-nil reference. Used by the garbage collector (gc.go) to decide
// whether a binding's operands are still externally reachable. Value-typed
// entries are always considered reachable (they carry no external
// reference to go stale).
func (v BoundValue) IsReachable() bool {
	if v.isValue {
		return true
	}
	if v.identity == nil {
		return false
	}
	rv := reflect.ValueOf(v.identity)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.UnsafePointer:
		return !rv.IsNil()
	default:
		return true
	}
}
