package invocation

import (
	"testing"

	"github.com/clayscript/clay/internal/types"
)

func TestInstallAndLookupRoundTrip(t *testing.T) {
	tbl := NewTable(0)
	key := []ArgKey{{Dynamic: true, Type: types.Int32()}}

	entry := tbl.Install(key)
	entry.State = Resolved
	entry.ReturnType = types.Bool()

	got, ok := tbl.Lookup(key)
	if !ok {
		t.Fatalf("Lookup: expected to find the installed entry")
	}
	if got != entry {
		t.Fatalf("Lookup returned a different entry than Install")
	}
	if got.State != Resolved {
		t.Fatalf("got state %v, want Resolved", got.State)
	}
}

func TestInstallIsIdempotentForEqualKeys(t *testing.T) {
	tbl := NewTable(0)
	key1 := []ArgKey{{Dynamic: true, Type: types.Int32()}}
	key2 := []ArgKey{{Dynamic: true, Type: types.Int32()}}

	a := tbl.Install(key1)
	b := tbl.Install(key2)
	if a != b {
		t.Fatalf("Install with structurally-equal keys should return the same entry")
	}
	count, _ := tbl.Occupancy()
	if count != 1 {
		t.Fatalf("got occupancy %d, want 1", count)
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	tbl := NewTable(0)
	if _, ok := tbl.Lookup([]ArgKey{{Dynamic: true, Type: types.Bool()}}); ok {
		t.Fatalf("expected Lookup to miss on an empty table")
	}
}

func TestDestroyRemovesEntry(t *testing.T) {
	tbl := NewTable(0)
	key := []ArgKey{{Dynamic: true, Type: types.Int32()}}
	entry := tbl.Install(key)

	tbl.Destroy(entry)

	if _, ok := tbl.Lookup(key); ok {
		t.Fatalf("expected Lookup to miss after Destroy")
	}
	count, _ := tbl.Occupancy()
	if count != 0 {
		t.Fatalf("got occupancy %d, want 0", count)
	}
}

func TestStaticFlagsFixedOnFirstCallThenMustMatch(t *testing.T) {
	tbl := NewTable(0)
	if err := tbl.SetStaticFlags([]bool{true, false}); err != nil {
		t.Fatalf("SetStaticFlags: %v", err)
	}
	if err := tbl.SetStaticFlags([]bool{true, false}); err != nil {
		t.Fatalf("SetStaticFlags (repeat, matching): %v", err)
	}
	if err := tbl.SetStaticFlags([]bool{false, false}); err == nil {
		t.Fatalf("expected an error when overloads disagree on static vs. dynamic")
	}
	if err := tbl.SetStaticFlags([]bool{true}); err == nil {
		t.Fatalf("expected an error on arity mismatch")
	}
}

func TestOccupancyCountsAcrossBuckets(t *testing.T) {
	tbl := NewTable(4)
	tbl.Install([]ArgKey{{Dynamic: true, Type: types.Int32()}})
	tbl.Install([]ArgKey{{Dynamic: true, Type: types.Bool()}})
	tbl.Install([]ArgKey{{Dynamic: true, Type: types.Float64()}})

	count, maxDepth := tbl.Occupancy()
	if count != 3 {
		t.Fatalf("got count %d, want 3", count)
	}
	if maxDepth < 1 {
		t.Fatalf("got maxDepth %d, want >= 1", maxDepth)
	}
}
