// Package evaluator implements Clay's concrete tree-walking evaluator
// (spec.md §4.6), its value model (spec.md §3 "Value"), and the ~60
// primitive operators of spec.md §4.7.
//
// Value's payload is represented as a tagged Go value (Raw) rather than a
// literal byte buffer: Raw holds a bool/int64/uint64/float64 for scalars, a
// []*Value for arrays/tuples, a map[string]*Value for records, a *Value for
// pointers, and an object.Handle for compiler-object values. The original
// compiler models this as a raw memory buffer because it targets an LLVM
// ABI directly; a Go tree-walker has no such ABI to match except at the
// external-procedure boundary, and even there internal/ffi hands each
// Value's Raw payload to the registered Go function unchanged. This keeps the evaluator itself idiomatic Go instead
// of simulating a C memory layout it never needs.
package evaluator

import (
	"fmt"

	"github.com/clayscript/clay/internal/object"
	"github.com/clayscript/clay/internal/types"
)

// Value is a type plus a payload, plus an Owned flag (spec.md §3).
type Value struct {
	Type  types.Type
	Owned bool
	Raw   any
}

// NewOwned builds a fresh owning value.
func NewOwned(t types.Type, raw any) *Value {
	return &Value{Type: t, Owned: true, Raw: raw}
}

// View builds a non-owning alias into v's payload. Reference bindings
// produce aliases like this (spec.md §3, "Reference bindings produce
// non-owning aliases").
func (v *Value) View() *Value {
	return &Value{Type: v.Type, Owned: false, Raw: v.Raw}
}

// Clone produces an owning copy of v, used whenever a non-owned value must
// escape its current scope (spec.md §8, "clone(v) produces an owning value
// w with valueEquals(v, w) and distinct buffer identity").
func (v *Value) Clone() *Value {
	return &Value{Type: v.Type, Owned: true, Raw: cloneRaw(v.Type, v.Raw)}
}

func cloneRaw(t types.Type, raw any) any {
	switch t.Kind {
	case types.KArray, types.KTuple:
		elems := raw.([]*Value)
		out := make([]*Value, len(elems))
		for i, e := range elems {
			out[i] = e.Clone()
		}
		return out
	case types.KRecord:
		fields := raw.(map[string]*Value)
		out := make(map[string]*Value, len(fields))
		for k, f := range fields {
			out[k] = f.Clone()
		}
		return out
	default:
		return raw // scalars, pointers, and compiler-object handles are copied by value
	}
}

// Destroy runs the type-directed destructor. Called exactly once per
// owning value, never for a non-owning view (spec.md §8 property #2).
func (v *Value) Destroy() {
	if !v.Owned {
		return
	}
	switch v.Type.Kind {
	case types.KArray, types.KTuple:
		for _, e := range v.Raw.([]*Value) {
			e.Destroy()
		}
	case types.KRecord:
		for _, f := range v.Raw.(map[string]*Value) {
			f.Destroy()
		}
	}
	v.Owned = false
	v.Raw = nil
}

// Equal implements structural value equality (spec.md §8: valueHash(x) ==
// valueHash(y) whenever valueEquals(x, y)); it is also the hook
// internal/pattern and internal/invocation use via the `equatable`
// interface they declare locally.
func (v *Value) Equal(other any) bool {
	ov, ok := other.(*Value)
	if !ok {
		return false
	}
	if !types.Identical(v.Type, ov.Type) {
		return false
	}
	return rawEqual(v.Type, v.Raw, ov.Raw)
}

func rawEqual(t types.Type, a, b any) bool {
	switch t.Kind {
	case types.KArray, types.KTuple:
		ea, eb := a.([]*Value), b.([]*Value)
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !ea[i].Equal(eb[i]) {
				return false
			}
		}
		return true
	case types.KRecord:
		fa, fb := a.(map[string]*Value), b.(map[string]*Value)
		if len(fa) != len(fb) {
			return false
		}
		for k, va := range fa {
			vb, ok := fb[k]
			if !ok || !va.Equal(vb) {
				return false
			}
		}
		return true
	case types.KPointer:
		return a.(*Value) == b.(*Value)
	default:
		return a == b
	}
}

// Hash computes a structural hash consistent with Equal.
func (v *Value) Hash() uint32 {
	return hashRaw(v.Type, v.Raw)
}

func hashRaw(t types.Type, raw any) uint32 {
	h := fnv32Seed
	mix := func(b byte) { h = (h ^ uint32(b)) * 16777619 }
	switch t.Kind {
	case types.KArray, types.KTuple:
		for _, e := range raw.([]*Value) {
			eh := e.Hash()
			mix(byte(eh))
			mix(byte(eh >> 8))
			mix(byte(eh >> 16))
			mix(byte(eh >> 24))
		}
	case types.KRecord:
		// Summed, so the result does not depend on map iteration order.
		var sum uint32
		for _, f := range raw.(map[string]*Value) {
			sum += f.Hash()
		}
		mix(byte(sum))
		mix(byte(sum >> 8))
		mix(byte(sum >> 16))
		mix(byte(sum >> 24))
	default:
		s := fmt.Sprint(raw)
		for i := 0; i < len(s); i++ {
			mix(s[i])
		}
	}
	return h
}

const fnv32Seed uint32 = 2166136261

// AsHandle returns raw as an object.Handle for KCompilerObject values.
func (v *Value) AsHandle() object.Handle {
	return v.Raw.(object.Handle)
}
