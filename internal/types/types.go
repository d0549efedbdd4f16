// Package types implements Clay's hash-consed type model: composite types
// are interned in a Table keyed by their structure, and two Types are the
// same type iff Identical reports them structurally equal, matching spec.md's invariant "arrayType(T,N) returns the same type
// object for the same (T,N)".
package types

import (
	"fmt"
	"sync"
)

// Kind discriminates the Type variant. Clay's type set is closed — there is
// no inference, only pattern-driven specialization — so Type is a plain
// tagged union, not an interface hierarchy with a Unify method.
type Kind int

const (
	KBool Kind = iota
	KInt8
	KInt16
	KInt32
	KInt64
	KUInt8
	KUInt16
	KUInt32
	KUInt64
	KFloat32
	KFloat64
	KArray
	KTuple
	KPointer
	KRecord
	KCompilerObject
	KVoid
)

// Type is a type object, held by value. Two Types are the same type iff
// Identical reports so; Table.Array/Tuple/Pointer/Record intern composite
// types by their structure.
type Type struct {
	Kind Kind

	// KArray
	Elem Type
	Size int

	// KTuple
	Elems []Type

	// KPointer
	Pointee Type

	// KRecord
	Record *RecordDef
	Params []Value // value parameters the record was specialized with
}

// Value is declared here only as a forward reference used by record value
// parameters (Clay records can carry both type and value pattern
// variables); the concrete definition lives in internal/evaluator, which
// imports this package. To avoid an import cycle we keep Params as `any`
// at the storage level and let evaluator wrap/unwrap it.
type Value = any

// RecordDef describes a declared record. fieldTypes is populated lazily:
// spec.md §3 requires "Record fields are lazily initialized the first time
// their types are asked for."
type RecordDef struct {
	Name        string
	PatternVars []string

	fieldsOnce  sync.Once
	FieldNames  []string
	computeOnce func() []Type
	fieldTypes  []Type
}

// Fields returns the record's field types, computing them on first call via
// the closure installed by SetFieldComputer and caching the result
// thereafter (the "one-shot guard" DESIGN.md/spec.md Design Notes call for).
func (r *RecordDef) Fields() []Type {
	r.fieldsOnce.Do(func() {
		if r.computeOnce != nil {
			r.fieldTypes = r.computeOnce()
		}
	})
	return r.fieldTypes
}

// SetFieldComputer installs the lazy field-type thunk. Must be called once,
// before the first Fields() call, typically right after the record's
// top-level item is registered.
func (r *RecordDef) SetFieldComputer(f func() []Type) {
	r.computeOnce = f
}

func (t Type) String() string {
	switch t.Kind {
	case KBool:
		return "Bool"
	case KInt8, KInt16, KInt32, KInt64:
		return fmt.Sprintf("Int%d", intWidth(t.Kind))
	case KUInt8, KUInt16, KUInt32, KUInt64:
		return fmt.Sprintf("UInt%d", intWidth(t.Kind))
	case KFloat32:
		return "Float32"
	case KFloat64:
		return "Float64"
	case KArray:
		return fmt.Sprintf("Array(%s, %d)", t.Elem, t.Size)
	case KTuple:
		return fmt.Sprintf("Tuple%v", t.Elems)
	case KPointer:
		return fmt.Sprintf("Pointer(%s)", t.Pointee)
	case KRecord:
		return t.Record.Name
	case KCompilerObject:
		return "CompilerObject"
	case KVoid:
		return "Void"
	default:
		return "?"
	}
}

func intWidth(k Kind) int {
	switch k {
	case KInt8, KUInt8:
		return 8
	case KInt16, KUInt16:
		return 16
	case KInt32, KUInt32:
		return 32
	case KInt64, KUInt64:
		return 64
	}
	return 0
}

// IsInteger reports whether t is any signed or unsigned integer type.
func (t Type) IsInteger() bool {
	switch t.Kind {
	case KInt8, KInt16, KInt32, KInt64, KUInt8, KUInt16, KUInt32, KUInt64:
		return true
	}
	return false
}

// IsSignedInteger reports whether t is a signed integer type.
func (t Type) IsSignedInteger() bool {
	switch t.Kind {
	case KInt8, KInt16, KInt32, KInt64:
		return true
	}
	return false
}

// IsFloat reports whether t is Float32 or Float64.
func (t Type) IsFloat() bool {
	return t.Kind == KFloat32 || t.Kind == KFloat64
}

// IntWidth returns the bit width of an integer type, or 0 if t is not one.
func (t Type) IntWidth() int { return intWidth(t.Kind) }
