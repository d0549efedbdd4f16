package types

import "testing"

func TestArrayInterningIsHashConsed(t *testing.T) {
	tbl := NewTable()
	a := tbl.Array(Int32(), 4)
	b := tbl.Array(Int32(), 4)
	if !Identical(a, b) {
		t.Fatalf("expected Array(Int32, 4) to be identical across calls")
	}
	c := tbl.Array(Int32(), 5)
	if Identical(a, c) {
		t.Fatalf("arrays of different size should not be identical")
	}
}

func TestTupleInterning(t *testing.T) {
	tbl := NewTable()
	a := tbl.Tuple([]Type{Bool(), Int32()})
	b := tbl.Tuple([]Type{Bool(), Int32()})
	if !Identical(a, b) {
		t.Fatalf("expected structurally equal tuples to be identical")
	}
	c := tbl.Tuple([]Type{Int32(), Bool()})
	if Identical(a, c) {
		t.Fatalf("tuples with reordered elements should not be identical")
	}
}

func TestPointerInterning(t *testing.T) {
	tbl := NewTable()
	a := tbl.Pointer(Float64())
	b := tbl.Pointer(Float64())
	if !Identical(a, b) {
		t.Fatalf("expected Pointer(Float64) to be identical across calls")
	}
}

func TestRecordInterningByDefAndParams(t *testing.T) {
	tbl := NewTable()
	def := &RecordDef{Name: "Pair"}
	a := tbl.Record(def, []Value{Int32(), Bool()})
	b := tbl.Record(def, []Value{Int32(), Bool()})
	if !Identical(a, b) {
		t.Fatalf("expected Record(Pair, Int32, Bool) to be identical across calls")
	}
	c := tbl.Record(def, []Value{Bool(), Int32()})
	if Identical(a, c) {
		t.Fatalf("records specialized with different params should not be identical")
	}
}

func TestByNameResolvesBaseTypes(t *testing.T) {
	cases := []struct {
		name string
		want Type
	}{
		{"Bool", Bool()},
		{"Int32", Int32()},
		{"Float64", Float64()},
		{"Void", Void()},
	}
	for _, c := range cases {
		got, ok := ByName(c.name)
		if !ok {
			t.Fatalf("ByName(%q): not found", c.name)
		}
		if !Identical(got, c.want) {
			t.Fatalf("ByName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
	if _, ok := ByName("NotAType"); ok {
		t.Fatalf("expected ByName to reject an unknown type name")
	}
}

func TestRecordFieldsLazyComputer(t *testing.T) {
	def := &RecordDef{Name: "Pair", FieldNames: []string{"first", "second"}}
	def.SetFieldComputer(func() []Type { return []Type{Int32(), Bool()} })

	fields := def.Fields()
	if len(fields) != 2 || !Identical(fields[0], Int32()) || !Identical(fields[1], Bool()) {
		t.Fatalf("got %v", fields)
	}
}
