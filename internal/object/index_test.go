package object

import "testing"

func TestLowerRaiseRoundTrip(t *testing.T) {
	ix := NewIndex()
	rec := &struct{ Name string }{Name: "Pair"}

	h := ix.Lower(KindRecord, rec)

	got, kind, err := ix.Raise(h)
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if kind != KindRecord {
		t.Fatalf("got kind %v, want %v", kind, KindRecord)
	}
	if got != rec {
		t.Fatalf("Raise did not return the original object")
	}
}

func TestLowerIsIdempotentByIdentity(t *testing.T) {
	ix := NewIndex()
	rec := &struct{ Name string }{Name: "Pair"}

	h1 := ix.Lower(KindRecord, rec)
	h2 := ix.Lower(KindRecord, rec)
	if h1 != h2 {
		t.Fatalf("lowering the same object twice gave different handles: %d vs %d", h1, h2)
	}
	if ix.Len() != 1 {
		t.Fatalf("got %d entries, want 1", ix.Len())
	}
}

func TestLowerDistinctPointersGetDistinctHandles(t *testing.T) {
	ix := NewIndex()
	a := &struct{ Name string }{Name: "Pair"}
	b := &struct{ Name string }{Name: "Pair"}

	h1 := ix.Lower(KindRecord, a)
	h2 := ix.Lower(KindRecord, b)
	if h1 == h2 {
		t.Fatalf("distinct pointer objects collapsed to the same handle")
	}
}

func TestRaiseOutOfRange(t *testing.T) {
	ix := NewIndex()
	if _, _, err := ix.Raise(Handle(0)); err == nil {
		t.Fatalf("expected an error raising from an empty index")
	}
}

func TestSnapshotGroupsByKind(t *testing.T) {
	ix := NewIndex()
	ix.Lower(KindRecord, &struct{ A int }{A: 1})
	ix.Lower(KindRecord, &struct{ A int }{A: 2})
	ix.Lower(KindProcedure, &struct{ A int }{A: 3})

	snap := ix.Snapshot()
	if snap["record"] != 2 {
		t.Fatalf("got %d records, want 2", snap["record"])
	}
	if snap["procedure"] != 1 {
		t.Fatalf("got %d procedures, want 1", snap["procedure"])
	}
}
