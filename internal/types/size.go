package types

// SizeOf returns t's in-memory size in bytes, the collaborator API
// spec.md §6 says the core consumes from the FFI bridge ("for any type:
// in-memory size"). Layout here is packed: a tuple's or record's size is
// the sum of its members' sizes, with no alignment padding.
func SizeOf(t Type) int {
	switch t.Kind {
	case KBool, KInt8, KUInt8:
		return 1
	case KInt16, KUInt16:
		return 2
	case KInt32, KUInt32, KFloat32:
		return 4
	case KInt64, KUInt64, KFloat64:
		return 8
	case KPointer, KCompilerObject:
		return 8
	case KVoid:
		return 0
	case KArray:
		return SizeOf(t.Elem) * t.Size
	case KTuple:
		n := 0
		for _, e := range t.Elems {
			n += SizeOf(e)
		}
		return n
	case KRecord:
		n := 0
		for _, f := range t.Record.Fields() {
			n += SizeOf(f)
		}
		return n
	}
	return 0
}

// Layout maps each element index of a structured type to its byte offset,
// the other collaborator API spec.md §6 requires ("for structured types a
// struct-layout object mapping element index -> byte offset").
func Layout(t Type) []int {
	var elems []Type
	switch t.Kind {
	case KArray:
		elems = make([]Type, t.Size)
		for i := range elems {
			elems[i] = t.Elem
		}
	case KTuple:
		elems = t.Elems
	case KRecord:
		elems = t.Record.Fields()
	default:
		return nil
	}
	offsets := make([]int, len(elems))
	off := 0
	for i, e := range elems {
		offsets[i] = off
		off += SizeOf(e)
	}
	return offsets
}
