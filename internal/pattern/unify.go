package pattern

import (
	"fmt"

	"github.com/clayscript/clay/internal/types"
)

// UnifyType tests a pattern against a concrete type, one-way. Cell binds on
// first sight; a Cell with an existing Bound value succeeds only if the
// bound value is structurally equal to t (spec.md §4.1).
func UnifyType(p Pattern, t types.Type) error {
	switch pp := p.(type) {
	case *Cell:
		if pp.Bound == nil {
			pp.Bound = t
			return nil
		}
		bound, ok := pp.Bound.(types.Type)
		if !ok || !types.Identical(bound, t) {
			return fmt.Errorf("pattern cell %q already bound to a different object", pp.Name)
		}
		return nil
	case *ArrayPattern:
		if t.Kind != types.KArray {
			return fmt.Errorf("expected an array type, got %s", t)
		}
		if err := UnifyType(pp.Elem, t.Elem); err != nil {
			return err
		}
		return unifySize(pp.Size, t.Size)
	case *TuplePattern:
		if t.Kind != types.KTuple || len(t.Elems) != len(pp.Elems) {
			return fmt.Errorf("expected a %d-tuple type, got %s", len(pp.Elems), t)
		}
		for i, ep := range pp.Elems {
			if err := UnifyType(ep, t.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case *PointerPattern:
		if t.Kind != types.KPointer {
			return fmt.Errorf("expected a pointer type, got %s", t)
		}
		return UnifyType(pp.Pointee, t.Pointee)
	case *RecordPattern:
		if t.Kind != types.KRecord || t.Record != pp.Record {
			return fmt.Errorf("expected record %s, got %s", pp.Record.Name, t)
		}
		if len(pp.Params) != len(t.Params) {
			return fmt.Errorf("record %s: parameter count mismatch", pp.Record.Name)
		}
		for i, parPat := range pp.Params {
			if err := UnifyValue(parPat, t.Params[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported pattern kind %T", p)
	}
}

// unifySize unifies a pattern for an array's size against a known int.
// Array sizes are static (value) parameters, so this goes through
// UnifyValue rather than UnifyType.
func unifySize(p Pattern, size int) error {
	return UnifyValue(p, size)
}

// UnifyValue tests a pattern against a concrete value (used for static
// arguments, and for record value-parameters). A Cell compares by
// structural value equality; any other pattern variant requires the value
// to be a compiler-object handle naming a type, then recurses as UnifyType
// (spec.md §4.1, "For unifying against a value... other patterns require
// the value to be a compiler-object handle to a type, then recurse").
func UnifyValue(p Pattern, v any) error {
	switch pp := p.(type) {
	case *Cell:
		if pp.Bound == nil {
			pp.Bound = v
			return nil
		}
		if !valueEqual(pp.Bound, v) {
			return fmt.Errorf("pattern cell %q already bound to a different value", pp.Name)
		}
		return nil
	default:
		t, ok := v.(types.Type)
		if !ok {
			return fmt.Errorf("expected a type-valued compiler object, got %T", v)
		}
		return UnifyType(p, t)
	}
}

// valueEqual is structural value equality over the small set of Go values
// that flow through static-argument matching (bools, ints and types).
// Records/arrays/pointers arrive as *evaluator.Value and are compared with
// their own Equal method, found through a local interface since
// internal/pattern cannot import internal/evaluator without a cycle; any
// other value falls back to Go's ==.
func valueEqual(a, b any) bool {
	type equatable interface{ Equal(any) bool }
	if ea, ok := a.(equatable); ok {
		return ea.Equal(b)
	}
	if ta, ok := a.(types.Type); ok {
		tb, ok := b.(types.Type)
		return ok && types.Identical(ta, tb)
	}
	return a == b
}
