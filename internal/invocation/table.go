// Package invocation implements the per-callable memoization table
// described in spec.md §4.3 and grounded on the original compiler's
// src/invoketables.cpp (see SPEC_FULL.md §12): a fixed-size, power-of-two
// open-hash bucket array with linear probing and no resize.
package invocation

import (
	"fmt"

	"github.com/clayscript/clay/internal/types"
	"github.com/google/uuid"
)

// EntryState is the invocation-entry state machine (spec.md §4.10):
// Fresh -> Analyzing -> Resolved, one-way except for the recursion-guard
// release on a non-recursive failure (the caller destroys the entry rather
// than leaving it in Analyzing).
type EntryState int

const (
	Fresh EntryState = iota
	Analyzing
	Resolved
)

// ArgKey is one position of an argument vector's key: exactly one of Type
// (dynamic position) or Value (static position) is set, per the static-flag
// vector fixed for this callable+arity.
type ArgKey struct {
	Dynamic bool
	Type    types.Type
	Value   any // cloned static value; compared via reflect.DeepEqual-ish Equal
}

// Entry is one memoized specialization.
type Entry struct {
	Key []ArgKey

	State      EntryState
	ReturnType types.Type
	// ReturnTypeCommitted reports whether ReturnType has actually been
	// set, since the zero Type (Kind: KBool) is indistinguishable from a
	// real Bool return type -- callers must not infer "no type yet" from
	// a zero-valued ReturnType.
	ReturnTypeCommitted bool
	ByRef               bool

	// Env/Code hold the resolved specialization (kept as `any` here to
	// avoid an import cycle with internal/env and internal/ast; callers
	// type-assert).
	Env  any
	Code any

	// BuildID is a slot for a JIT thunk's build-id. No code in this
	// repository sets it, so it is always the zero UUID: external-procedure
	// calls do not go through invocation tables, and internal/ffi keeps
	// each thunk's build-id on the thunk itself.
	BuildID uuid.UUID
}

const defaultBucketCount = 16384 // matches the original compiler's fixed table size

// Table is one callable's invocation table (or one arity-slot of an
// overloadable's per-arity tables).
type Table struct {
	StaticFlags []bool // fixed by the first overload registered at this arity
	buckets     [][]*Entry
	size        uint32
}

// NewTable creates an invocation table sized to bucketCount (rounded up to
// a power of two); pass 0 to use the original compiler's default of 16384.
func NewTable(bucketCount int) *Table {
	if bucketCount <= 0 {
		bucketCount = defaultBucketCount
	}
	size := nextPow2(uint32(bucketCount))
	return &Table{buckets: make([][]*Entry, size), size: size}
}

func nextPow2(n uint32) uint32 {
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}

// SetStaticFlags fixes the static-flag vector for this (callable, arity) on
// the first overload registered; subsequent calls must match exactly
// (spec.md §4.3, §3 invariant "Static-flag vectors... are stable").
func (t *Table) SetStaticFlags(flags []bool) error {
	if t.StaticFlags == nil {
		t.StaticFlags = append([]bool(nil), flags...)
		return nil
	}
	if len(t.StaticFlags) != len(flags) {
		return fmt.Errorf("static-flag vector arity mismatch: have %d, got %d", len(t.StaticFlags), len(flags))
	}
	for i := range flags {
		if t.StaticFlags[i] != flags[i] {
			return fmt.Errorf("static-flag mismatch at position %d: overloads disagree on static vs. dynamic", i)
		}
	}
	return nil
}

// objectHash hashes a dynamic (type) key position via the compiler-object
// index's handle identity -- approximated here by the type's hash-consed
// identity, since types.Type structs are small enough to hash directly
// without going through a separate handle lookup.
func objectHash(k ArgKey) uint32 {
	if k.Dynamic {
		return fnv32(k.Type.String())
	}
	return fnv32(fmt.Sprint(k.Value))
}

// objectVectorHash combines per-position hashes across the whole key. The
// callable itself is not hashed: each callable (or overloadable arity) has
// its own Table, and the bucket index is objectVectorHash(key) & (size-1).
func objectVectorHash(key []ArgKey) uint32 {
	var h uint32 = 2166136261
	for _, k := range key {
		h = h*16777619 ^ objectHash(k)
	}
	return h
}

func fnv32(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h = h*16777619 ^ uint32(s[i])
	}
	return h
}

func keysEqual(a, b []ArgKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Dynamic != b[i].Dynamic {
			return false
		}
		if a[i].Dynamic {
			if !types.Identical(a[i].Type, b[i].Type) {
				return false
			}
			continue
		}
		type equatable interface{ Equal(any) bool }
		if ea, ok := a[i].Value.(equatable); ok {
			if !ea.Equal(b[i].Value) {
				return false
			}
			continue
		}
		if fmt.Sprint(a[i].Value) != fmt.Sprint(b[i].Value) {
			return false
		}
	}
	return true
}

// Lookup finds the entry whose key equals argKey, or (nil, false).
func (t *Table) Lookup(argKey []ArgKey) (*Entry, bool) {
	bucket := objectVectorHash(argKey) & (t.size - 1)
	for _, e := range t.buckets[bucket] {
		if keysEqual(e.Key, argKey) {
			return e, true
		}
	}
	return nil, false
}

// Install creates and inserts a Fresh entry for argKey, or returns the
// existing one if a concurrent lookup already installed it (single-
// threaded per spec.md §5, so this is a plain check-then-insert).
func (t *Table) Install(argKey []ArgKey) *Entry {
	if e, ok := t.Lookup(argKey); ok {
		return e
	}
	e := &Entry{Key: argKey, State: Fresh}
	bucket := objectVectorHash(argKey) & (t.size - 1)
	t.buckets[bucket] = append(t.buckets[bucket], e)
	return e
}

// Destroy removes entry from the table. Called when body analysis fails
// with a non-recursive error: the entry must not be left in Analyzing
// (spec.md §4.10).
func (t *Table) Destroy(entry *Entry) {
	bucket := objectVectorHash(entry.Key) & (t.size - 1)
	slice := t.buckets[bucket]
	for i, e := range slice {
		if e == entry {
			t.buckets[bucket] = append(slice[:i], slice[i+1:]...)
			return
		}
	}
}

// Occupancy reports (entryCount, maxBucketDepth) for the introspection
// service's collision statistics.
func (t *Table) Occupancy() (count, maxDepth int) {
	for _, b := range t.buckets {
		count += len(b)
		if len(b) > maxDepth {
			maxDepth = len(b)
		}
	}
	return
}
