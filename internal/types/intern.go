package types

import (
	"fmt"
	"strings"
	"sync"
)

// Table is the process-global hash-cons table for structural types.
// Primitive types (Bool, the integer/float family, Void, CompilerObject)
// are singletons allocated once at package init; Array/Tuple/Pointer/Record
// are interned here keyed on their structural content.
type Table struct {
	mu       sync.Mutex
	arrays   map[string]*Type
	tuples   map[string]*Type
	pointers map[string]*Type
	records  map[string]*Type
}

// NewTable creates a fresh hash-cons table. One Table is shared by an
// entire process/run; spec.md §5 notes the type hash-cons tables are
// process-global and mutated by the main thread only (single-threaded).
func NewTable() *Table {
	return &Table{
		arrays:   make(map[string]*Type),
		tuples:   make(map[string]*Type),
		pointers: make(map[string]*Type),
		records:  make(map[string]*Type),
	}
}

var (
	boolType    = Type{Kind: KBool}
	int8Type    = Type{Kind: KInt8}
	int16Type   = Type{Kind: KInt16}
	int32Type   = Type{Kind: KInt32}
	int64Type   = Type{Kind: KInt64}
	uint8Type   = Type{Kind: KUInt8}
	uint16Type  = Type{Kind: KUInt16}
	uint32Type  = Type{Kind: KUInt32}
	uint64Type  = Type{Kind: KUInt64}
	float32Type = Type{Kind: KFloat32}
	float64Type = Type{Kind: KFloat64}
	voidType    = Type{Kind: KVoid}
	cobjType    = Type{Kind: KCompilerObject}
)

func Bool() Type          { return boolType }
func Int8() Type          { return int8Type }
func Int16() Type         { return int16Type }
func Int32() Type         { return int32Type }
func Int64() Type         { return int64Type }
func UInt8() Type         { return uint8Type }
func UInt16() Type        { return uint16Type }
func UInt32() Type        { return uint32Type }
func UInt64() Type        { return uint64Type }
func Float32() Type       { return float32Type }
func Float64() Type       { return float64Type }
func Void() Type          { return voidType }
func CompilerObject() Type { return cobjType }

// ByName resolves a __primitives__ base type name to its Type. Used by the
// loader when synthesizing the implicit primitives module (spec.md §6).
func ByName(name string) (Type, bool) {
	switch name {
	case "Bool":
		return Bool(), true
	case "Int8":
		return Int8(), true
	case "Int16":
		return Int16(), true
	case "Int32":
		return Int32(), true
	case "Int64":
		return Int64(), true
	case "UInt8":
		return UInt8(), true
	case "UInt16":
		return UInt16(), true
	case "UInt32":
		return UInt32(), true
	case "UInt64":
		return UInt64(), true
	case "Float32":
		return Float32(), true
	case "Float64":
		return Float64(), true
	case "Void":
		return Void(), true
	}
	return Type{}, false
}

// Array returns the unique Array(elem, size) type, interning it on first
// construction.
func (t *Table) Array(elem Type, size int) Type {
	key := fmt.Sprintf("%s[%d]", elem, size)
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.arrays[key]; ok {
		return *existing
	}
	ty := Type{Kind: KArray, Elem: elem, Size: size}
	t.arrays[key] = &ty
	return ty
}

// Tuple returns the unique Tuple(elems...) type.
func (t *Table) Tuple(elems []Type) Type {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	key := strings.Join(parts, ",")
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.tuples[key]; ok {
		return *existing
	}
	ty := Type{Kind: KTuple, Elems: append([]Type(nil), elems...)}
	t.tuples[key] = &ty
	return ty
}

// Pointer returns the unique Pointer(pointee) type.
func (t *Table) Pointer(pointee Type) Type {
	key := pointee.String()
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.pointers[key]; ok {
		return *existing
	}
	ty := Type{Kind: KPointer, Pointee: pointee}
	t.pointers[key] = &ty
	return ty
}

// Record returns the unique Record(def, params...) type for the given
// record definition specialized with params (value/type pattern-variable
// bindings). Two calls with the same def and structurally-equal params
// observe the same identity.
func (t *Table) Record(def *RecordDef, params []Value) Type {
	key := fmt.Sprintf("%s<%v>", def.Name, params)
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.records[key]; ok {
		return *existing
	}
	ty := Type{Kind: KRecord, Record: def, Params: append([]Value(nil), params...)}
	t.records[key] = &ty
	return ty
}

// Identical reports structural/pointer identity. Because every constructed
// type funnels through the hash-cons tables above (or is one of the package-
// level singletons), plain Go equality on the variant-distinguishing fields
// is sufficient — this helper exists mainly for readability at call sites.
func Identical(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KArray:
		return a.Size == b.Size && Identical(a.Elem, b.Elem)
	case KPointer:
		return Identical(a.Pointee, b.Pointee)
	case KTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Identical(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case KRecord:
		return a.Record == b.Record && fmt.Sprint(a.Params) == fmt.Sprint(b.Params)
	default:
		return true
	}
}
