package evaluator

import (
	"fmt"
	"math"

	"github.com/clayscript/clay/internal/object"
	"github.com/clayscript/clay/internal/types"
)

// PrimFunc implements one primitive operator's concrete semantics. tt is
// the shared hash-cons table (needed by type-constructor primitives);
// index is the compiler-object index (needed by primitives that lower/
// raise handles).
type PrimFunc func(tt *types.Table, index *object.Index, args []*Value) (*Value, error)

// Primitives is the closed set of spec.md §4.7's ~60 primitive operators.
// Each entry's arity and operand types are checked by the function itself;
// the analyzer (internal/analyzer) encodes the same contracts at the type
// level via Analyzer.primitiveReturnType.
var Primitives = map[string]PrimFunc{
	// ---- type predicates ----
	"TypeP":        primTypeP,
	"IntegerTypeP": primIntegerTypeP,
	"FloatTypeP":   primFloatTypeP,
	"PointerTypeP": primPointerTypeP,
	"ArrayTypeP":   primArrayTypeP,
	"TupleTypeP":   primTupleTypeP,
	"RecordTypeP":  primRecordTypeP,

	// ---- introspection ----
	"TypeSize":         primTypeSize,
	"ArrayElementType":  primArrayElementType,
	"RecordFieldCount":  primRecordFieldCount,
	"RecordFieldType":   primRecordFieldType,
	"RecordFieldOffset": primRecordFieldOffset,
	"RecordFieldIndex":  primRecordFieldIndex,

	// ---- type constructors ----
	"PointerType": primPointerType,
	"ArrayType":   primArrayType,
	"TupleType":   primTupleType,

	// ---- value primitives ----
	"array":                 primArrayCtor,
	"tuple":                 primTupleCtor,
	"addressOf":              primAddressOf,
	"pointerDereference":     primPointerDereference,
	"pointerToInt":           primPointerToInt,
	"intToPointer":           primIntToPointer,
	"pointerCast":            primPointerCast,
	"allocateMemory":         primAllocateMemory,
	"freeMemory":             primFreeMemory,
	"arrayRef":               primArrayRef,
	"tupleRef":               primTupleRef,
	"recordFieldRef":         primRecordFieldRef,
	"recordFieldRefByName":   primRecordFieldRefByName,

	// ---- boolean ----
	"boolNot":   primBoolNot,
	"boolTruth": primBoolTruth,

	// ---- arithmetic / bitwise / compare ----
	"numericAdd":       primArith(func(a, b int64) int64 { return a + b }, func(a, b uint64) uint64 { return a + b }, func(a, b float64) float64 { return a + b }),
	"numericSubtract":  primArith(func(a, b int64) int64 { return a - b }, func(a, b uint64) uint64 { return a - b }, func(a, b float64) float64 { return a - b }),
	"numericMultiply":  primArith(func(a, b int64) int64 { return a * b }, func(a, b uint64) uint64 { return a * b }, func(a, b float64) float64 { return a * b }),
	"numericDivide":    primArith(func(a, b int64) int64 { return a / b }, func(a, b uint64) uint64 { return a / b }, func(a, b float64) float64 { return a / b }),
	"numericRemainder": primArith(func(a, b int64) int64 { return a % b }, func(a, b uint64) uint64 { return a % b }, math.Mod),
	"numericNegate":    primNegate,
	"numericEquals":    primCompare(func(a, b int64) bool { return a == b }, func(a, b uint64) bool { return a == b }, func(a, b float64) bool { return a == b }),
	"numericLesser":    primCompare(func(a, b int64) bool { return a < b }, func(a, b uint64) bool { return a < b }, func(a, b float64) bool { return a < b }),
	"numericLesserEquals":  primCompare(func(a, b int64) bool { return a <= b }, func(a, b uint64) bool { return a <= b }, func(a, b float64) bool { return a <= b }),
	"numericGreater":       primCompare(func(a, b int64) bool { return a > b }, func(a, b uint64) bool { return a > b }, func(a, b float64) bool { return a > b }),
	"numericGreaterEquals": primCompare(func(a, b int64) bool { return a >= b }, func(a, b uint64) bool { return a >= b }, func(a, b float64) bool { return a >= b }),

	"bitwiseAnd": primBitwise(func(a, b int64) int64 { return a & b }, func(a, b uint64) uint64 { return a & b }),
	"bitwiseOr":  primBitwise(func(a, b int64) int64 { return a | b }, func(a, b uint64) uint64 { return a | b }),
	"bitwiseXor": primBitwise(func(a, b int64) int64 { return a ^ b }, func(a, b uint64) uint64 { return a ^ b }),
	"bitwiseNot": primBitwiseNot,

	// numericConvert derives its target type from the first argument's
	// *value* (interpreted as a type) -- preserved exactly per spec.md §9
	// rather than regularized against the other conversion primitives
	// below, some of which take the target type second (pointerToInt).
	"numericConvert": primNumericConvert,

	// ---- structural init/destroy/copy/assign/equals/hash ----
	"init":     primInit,
	"destroy":  primDestroy,
	"copy":     primCopy,
	"assign":   primAssign,
	"equals?":  primEquals,
	"hash":     primHash,
}

func argErr(name string, want int, got int) error {
	return fmt.Errorf("primitive %s: expected %d argument(s), got %d", name, want, got)
}

// ---- type predicates ----

func primTypeP(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	if len(args) != 1 {
		return nil, argErr("TypeP", 1, len(args))
	}
	_, isType := handleType(ix, args[0])
	return NewOwned(types.Bool(), isType), nil
}

func handleType(ix *object.Index, v *Value) (types.Type, bool) {
	if v.Type.Kind != types.KCompilerObject {
		return types.Type{}, false
	}
	obj, kind, err := ix.Raise(v.AsHandle())
	if err != nil || kind != object.KindType {
		return types.Type{}, false
	}
	t, ok := obj.(types.Type)
	return t, ok
}

func primIntegerTypeP(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	return NewOwned(types.Bool(), ok && t.IsInteger()), nil
}

func primFloatTypeP(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	return NewOwned(types.Bool(), ok && t.IsFloat()), nil
}

func primPointerTypeP(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	return NewOwned(types.Bool(), ok && t.Kind == types.KPointer), nil
}

func primArrayTypeP(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	return NewOwned(types.Bool(), ok && t.Kind == types.KArray), nil
}

func primTupleTypeP(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	return NewOwned(types.Bool(), ok && t.Kind == types.KTuple), nil
}

func primRecordTypeP(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	return NewOwned(types.Bool(), ok && t.Kind == types.KRecord), nil
}

// ---- introspection ----

func primTypeSize(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok {
		return nil, fmt.Errorf("TypeSize: argument is not a type")
	}
	return NewOwned(types.UInt64(), uint64(types.SizeOf(t))), nil
}

func primArrayElementType(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok || t.Kind != types.KArray {
		return nil, fmt.Errorf("ArrayElementType: argument is not an array type")
	}
	return wrapType(ix, t.Elem), nil
}

func primRecordFieldCount(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok || t.Kind != types.KRecord {
		return nil, fmt.Errorf("RecordFieldCount: argument is not a record type")
	}
	return NewOwned(types.UInt64(), uint64(len(t.Record.Fields()))), nil
}

func primRecordFieldType(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok || t.Kind != types.KRecord {
		return nil, fmt.Errorf("RecordFieldType: argument is not a record type")
	}
	idx := int(asUint(args[1]))
	fields := t.Record.Fields()
	if idx < 0 || idx >= len(fields) {
		return nil, fmt.Errorf("RecordFieldType: index out of range")
	}
	return wrapType(ix, fields[idx]), nil
}

func primRecordFieldOffset(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok || t.Kind != types.KRecord {
		return nil, fmt.Errorf("RecordFieldOffset: argument is not a record type")
	}
	idx := int(asUint(args[1]))
	off := 0
	for i := 0; i < idx; i++ {
		off += types.SizeOf(t.Record.Fields()[i])
	}
	return NewOwned(types.UInt64(), uint64(off)), nil
}

func primRecordFieldIndex(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok || t.Kind != types.KRecord {
		return nil, fmt.Errorf("RecordFieldIndex: argument is not a record type")
	}
	name := args[1].Raw.(string)
	for i, n := range t.Record.FieldNames {
		if n == name {
			return NewOwned(types.UInt64(), uint64(i)), nil
		}
	}
	return nil, fmt.Errorf("record %s has no field %q", t.Record.Name, name)
}

// ---- type constructors ----

func wrapType(ix *object.Index, t types.Type) *Value {
	h := ix.Lower(object.KindType, t)
	return NewOwned(types.CompilerObject(), h)
}

func primPointerType(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok {
		return nil, fmt.Errorf("PointerType: argument is not a type")
	}
	return wrapType(ix, tt.Pointer(t)), nil
}

func primArrayType(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok {
		return nil, fmt.Errorf("ArrayType: first argument is not a type")
	}
	size := int(asUint(args[1]))
	return wrapType(ix, tt.Array(t, size)), nil
}

func primTupleType(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	elems := make([]types.Type, len(args))
	for i, a := range args {
		t, ok := handleType(ix, a)
		if !ok {
			return nil, fmt.Errorf("TupleType: argument %d is not a type", i)
		}
		elems[i] = t
	}
	return wrapType(ix, tt.Tuple(elems)), nil
}

// ---- value primitives ----

func primArrayCtor(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("array(): need at least one element")
	}
	elemType := args[0].Type
	elems := make([]*Value, len(args))
	for i, a := range args {
		elems[i] = a.Clone()
	}
	return NewOwned(tt.Array(elemType, len(args)), elems), nil
}

func primTupleCtor(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	types_ := make([]types.Type, len(args))
	elems := make([]*Value, len(args))
	for i, a := range args {
		types_[i] = a.Type
		elems[i] = a.Clone()
	}
	return NewOwned(tt.Tuple(types_), elems), nil
}

func primAddressOf(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	return NewOwned(tt.Pointer(args[0].Type), args[0]), nil
}

func primPointerDereference(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	if args[0].Type.Kind != types.KPointer {
		return nil, fmt.Errorf("pointerDereference: argument is not a pointer")
	}
	target := args[0].Raw.(*Value)
	return target.View(), nil
}

// pointerIdentities hands out stable integer identities for pointer values
// so pointerToInt/intToPointer can round-trip without depending on Go's GC
// not moving memory (Go pointers are not stable integers the way a native
// ABI's addresses are).
var pointerIdentities = map[*Value]uint64{}
var pointersByIdentity = map[uint64]*Value{}
var nextPointerIdentity uint64 = 1

func identityOf(p *Value) uint64 {
	if p == nil {
		return 0
	}
	if id, ok := pointerIdentities[p]; ok {
		return id
	}
	id := nextPointerIdentity
	nextPointerIdentity++
	pointerIdentities[p] = id
	pointersByIdentity[id] = p
	return id
}

func primPointerToInt(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	// pointerToInt takes the target integer type second (spec.md §9).
	target, ok := handleType(ix, args[1])
	if !ok {
		return nil, fmt.Errorf("pointerToInt: second argument is not a type")
	}
	ptr, _ := args[0].Raw.(*Value)
	return NewOwned(target, identityOf(ptr)), nil
}

func primIntToPointer(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	// intToPointer takes target type first, then value (spec.md §9).
	t, ok := handleType(ix, args[0])
	if !ok {
		return nil, fmt.Errorf("intToPointer: first argument is not a type")
	}
	id := asUint(args[1])
	return NewOwned(tt.Pointer(t), pointersByIdentity[id]), nil
}

func primPointerCast(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	// pointerCast takes target type first, then the pointer value.
	t, ok := handleType(ix, args[0])
	if !ok {
		return nil, fmt.Errorf("pointerCast: first argument is not a type")
	}
	return NewOwned(tt.Pointer(t), args[1].Raw), nil
}

func primAllocateMemory(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	// allocateMemory takes target type first, then the element count.
	t, ok := handleType(ix, args[0])
	if !ok {
		return nil, fmt.Errorf("allocateMemory: first argument is not a type")
	}
	// The element count beyond the first is accepted for signature
	// compatibility with the source primitive but not tracked further:
	// spec.md's primitive set has no pointer-arithmetic primitive, so only
	// a pointer to the first element is ever observable.
	return NewOwned(tt.Pointer(t), zeroValue(t)), nil
}

func primFreeMemory(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	if v, ok := args[0].Raw.(*Value); ok && v != nil {
		v.Destroy()
	}
	return NewOwned(types.Void(), nil), nil
}

func primArrayRef(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	if args[0].Type.Kind != types.KArray {
		return nil, fmt.Errorf("arrayRef: first argument is not an array")
	}
	idx := int(asUint(args[1]))
	elems := args[0].Raw.([]*Value)
	if idx < 0 || idx >= len(elems) {
		return nil, fmt.Errorf("arrayRef: index out of range")
	}
	return elems[idx].View(), nil
}

func primTupleRef(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	if args[0].Type.Kind != types.KTuple {
		return nil, fmt.Errorf("tupleRef: first argument is not a tuple")
	}
	idx := int(asUint(args[1]))
	elems := args[0].Raw.([]*Value)
	if idx < 0 || idx >= len(elems) {
		return nil, fmt.Errorf("tupleRef: index out of range")
	}
	return elems[idx].View(), nil
}

func primRecordFieldRef(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	if args[0].Type.Kind != types.KRecord {
		return nil, fmt.Errorf("recordFieldRef: first argument is not a record")
	}
	idx := int(asUint(args[1]))
	names := args[0].Type.Record.FieldNames
	if idx < 0 || idx >= len(names) {
		return nil, fmt.Errorf("recordFieldRef: index out of range")
	}
	fields := args[0].Raw.(map[string]*Value)
	return fields[names[idx]].View(), nil
}

func primRecordFieldRefByName(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	if args[0].Type.Kind != types.KRecord {
		return nil, fmt.Errorf("recordFieldRefByName: first argument is not a record")
	}
	name := args[1].Raw.(string)
	fields := args[0].Raw.(map[string]*Value)
	f, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("record %s has no field %q", args[0].Type.Record.Name, name)
	}
	return f.View(), nil
}

// ---- boolean ----

func primBoolNot(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	return NewOwned(types.Bool(), !args[0].Raw.(bool)), nil
}

func primBoolTruth(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	return NewOwned(types.Bool(), args[0].Raw.(bool)), nil
}

// ---- arithmetic helpers ----

func asInt(v *Value) int64 {
	switch r := v.Raw.(type) {
	case int64:
		return r
	case uint64:
		return int64(r)
	case float64:
		return int64(r)
	}
	return 0
}

func asUint(v *Value) uint64 {
	switch r := v.Raw.(type) {
	case int64:
		return uint64(r)
	case uint64:
		return r
	case float64:
		return uint64(r)
	}
	return 0
}

func asFloat(v *Value) float64 {
	switch r := v.Raw.(type) {
	case int64:
		return float64(r)
	case uint64:
		return float64(r)
	case float64:
		return r
	}
	return 0
}

func rangeCheck(t types.Type, raw any) error {
	if !t.IsInteger() {
		return nil
	}
	w := t.IntWidth()
	if t.IsSignedInteger() {
		v := raw.(int64)
		lo, hi := -(int64(1) << (w - 1)), (int64(1)<<(w-1))-1
		if v < lo || v > hi {
			return fmt.Errorf("value %d out of range for %s", v, t)
		}
	} else {
		v := raw.(uint64)
		var hi uint64
		if w == 64 {
			hi = math.MaxUint64
		} else {
			hi = (uint64(1) << w) - 1
		}
		if v > hi {
			return fmt.Errorf("value %d out of range for %s", v, t)
		}
	}
	return nil
}

func primArith(signed func(a, b int64) int64, unsigned func(a, b uint64) uint64, float func(a, b float64) float64) PrimFunc {
	return func(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
		if len(args) != 2 {
			return nil, argErr("numeric arithmetic", 2, len(args))
		}
		a, b := args[0], args[1]
		if !types.Identical(a.Type, b.Type) {
			return nil, fmt.Errorf("numeric arithmetic: operand type mismatch (%s vs %s)", a.Type, b.Type)
		}
		switch {
		case a.Type.IsFloat():
			return NewOwned(a.Type, float(asFloat(a), asFloat(b))), nil
		case a.Type.IsSignedInteger():
			if signed == nil {
				return nil, fmt.Errorf("operator not defined for signed integers")
			}
			v := signed(asInt(a), asInt(b))
			if err := rangeCheck(a.Type, v); err != nil {
				return nil, err
			}
			return NewOwned(a.Type, v), nil
		case a.Type.IsInteger():
			if unsigned == nil {
				return nil, fmt.Errorf("operator not defined for unsigned integers")
			}
			v := unsigned(asUint(a), asUint(b))
			if err := rangeCheck(a.Type, v); err != nil {
				return nil, err
			}
			return NewOwned(a.Type, v), nil
		default:
			return nil, fmt.Errorf("numeric arithmetic: non-numeric operand type %s", a.Type)
		}
	}
}

func primCompare(signed func(a, b int64) bool, unsigned func(a, b uint64) bool, float func(a, b float64) bool) PrimFunc {
	return func(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
		a, b := args[0], args[1]
		if !types.Identical(a.Type, b.Type) {
			return nil, fmt.Errorf("numeric compare: operand type mismatch")
		}
		switch {
		case a.Type.IsFloat():
			return NewOwned(types.Bool(), float(asFloat(a), asFloat(b))), nil
		case a.Type.IsSignedInteger():
			return NewOwned(types.Bool(), signed(asInt(a), asInt(b))), nil
		default:
			return NewOwned(types.Bool(), unsigned(asUint(a), asUint(b))), nil
		}
	}
}

func primBitwise(signed func(a, b int64) int64, unsigned func(a, b uint64) uint64) PrimFunc {
	return func(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
		a, b := args[0], args[1]
		if !a.Type.IsInteger() || !types.Identical(a.Type, b.Type) {
			return nil, fmt.Errorf("bitwise operator: operands must be identical integer types")
		}
		if a.Type.IsSignedInteger() {
			return NewOwned(a.Type, signed(asInt(a), asInt(b))), nil
		}
		return NewOwned(a.Type, unsigned(asUint(a), asUint(b))), nil
	}
}

func primBitwiseNot(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	a := args[0]
	if !a.Type.IsInteger() {
		return nil, fmt.Errorf("bitwiseNot: operand must be an integer")
	}
	if a.Type.IsSignedInteger() {
		return NewOwned(a.Type, ^asInt(a)), nil
	}
	return NewOwned(a.Type, ^asUint(a)), nil
}

func primNegate(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	a := args[0]
	switch {
	case a.Type.IsFloat():
		return NewOwned(a.Type, -asFloat(a)), nil
	case a.Type.IsSignedInteger():
		v := -asInt(a)
		if err := rangeCheck(a.Type, v); err != nil {
			return nil, err
		}
		return NewOwned(a.Type, v), nil
	default:
		return nil, fmt.Errorf("numericNegate: operand must be signed integer or float")
	}
}

// primNumericConvert derives its target type from the first argument's
// value (interpreted as a type), converting the second argument into it --
// preserved exactly per spec.md §9's Open Question rather than regularized
// against pointerCast/intToPointer/allocateMemory's "type first" order,
// since it is itself "type first, value second" and spec.md singles out
// pointerToInt as the one that differs.
func primNumericConvert(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	target, ok := handleType(ix, args[0])
	if !ok {
		return nil, fmt.Errorf("numericConvert: first argument is not a type")
	}
	src := args[1]
	switch {
	case target.IsFloat():
		return NewOwned(target, asFloat(src)), nil
	case target.IsSignedInteger():
		return NewOwned(target, asInt(src)), nil
	case target.IsInteger():
		return NewOwned(target, asUint(src)), nil
	default:
		return nil, fmt.Errorf("numericConvert: target is not numeric")
	}
}

// ---- structural init/destroy/copy/assign/equals/hash ----

func zeroValue(t types.Type) *Value {
	switch {
	case t.Kind == types.KBool:
		return NewOwned(t, false)
	case t.IsSignedInteger():
		return NewOwned(t, int64(0))
	case t.IsInteger():
		return NewOwned(t, uint64(0))
	case t.IsFloat():
		return NewOwned(t, float64(0))
	case t.Kind == types.KPointer:
		return NewOwned(t, (*Value)(nil))
	case t.Kind == types.KArray:
		elems := make([]*Value, t.Size)
		for i := range elems {
			elems[i] = zeroValue(t.Elem)
		}
		return NewOwned(t, elems)
	case t.Kind == types.KTuple:
		elems := make([]*Value, len(t.Elems))
		for i := range elems {
			elems[i] = zeroValue(t.Elems[i])
		}
		return NewOwned(t, elems)
	case t.Kind == types.KRecord:
		fields := make(map[string]*Value, len(t.Record.FieldNames))
		for i, n := range t.Record.FieldNames {
			fields[n] = zeroValue(t.Record.Fields()[i])
		}
		return NewOwned(t, fields)
	default:
		return NewOwned(t, nil)
	}
}

func primInit(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	t, ok := handleType(ix, args[0])
	if !ok {
		return nil, fmt.Errorf("init: first argument is not a type")
	}
	return zeroValue(t), nil
}

func primDestroy(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	args[0].Destroy()
	return NewOwned(types.Void(), nil), nil
}

func primCopy(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	return args[0].Clone(), nil
}

func primAssign(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	dst, src := args[0], args[1]
	dst.Raw = cloneRaw(src.Type, src.Raw)
	return NewOwned(types.Void(), nil), nil
}

func primEquals(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	return NewOwned(types.Bool(), args[0].Equal(args[1])), nil
}

func primHash(tt *types.Table, ix *object.Index, args []*Value) (*Value, error) {
	return NewOwned(types.UInt64(), uint64(args[0].Hash())), nil
}
