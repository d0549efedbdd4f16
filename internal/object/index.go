package object

import (
	"fmt"
	"reflect"
)

// Kind tags what a Handle refers to in the compiler-object table.
type Kind int

const (
	KindRecord Kind = iota
	KindProcedure
	KindOverloadable
	KindExternalProcedure
	KindPrimitiveOp
	KindType
	KindIdent
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindProcedure:
		return "procedure"
	case KindOverloadable:
		return "overloadable"
	case KindExternalProcedure:
		return "external procedure"
	case KindPrimitiveOp:
		return "primitive operator"
	case KindType:
		return "type"
	case KindIdent:
		return "identifier"
	default:
		return "unknown"
	}
}

// Handle is a 32-bit index into the process-wide compiler-object table.
// Values of compiler-object type carry a Handle instead of a language-level
// reference, so "types and procedures as values" never forces a universal
// root trace: only the table itself needs scanning, and entries are never
// removed.
type Handle uint32

// Index is the process-wide compiler-object table. It is a push-only slice:
// objects are never removed, so a Handle remains valid for the life of the
// process. Lowering (obtaining a Handle for an object) consults a reverse
// map so the same object always yields the same Handle; raising (obtaining
// the object for a Handle) is a direct slice index.
type Index struct {
	entries []entry
	reverse map[string]Handle
}

type entry struct {
	kind Kind
	obj  any
}

// NewIndex creates an empty compiler-object table.
func NewIndex() *Index {
	return &Index{reverse: make(map[string]Handle)}
}

// Lower interns obj under kind and returns its stable Handle. The reverse
// map is keyed on a derived string rather than obj itself: pointer-typed
// objects (records/procedures/overloadables/external procedures) key on
// their address, preserving identity; value-typed objects (types.Type,
// which carries slice fields for Array/Tuple/Record and so is not
// comparable as a bare map key) key on their formatted content, which is
// exactly right since the hash-cons tables in internal/types already
// guarantee structurally-equal types carry equal field values.
func (ix *Index) Lower(kind Kind, obj any) Handle {
	key := lowerKey(kind, obj)
	if h, ok := ix.reverse[key]; ok {
		return h
	}
	h := Handle(len(ix.entries))
	ix.entries = append(ix.entries, entry{kind: kind, obj: obj})
	ix.reverse[key] = h
	return h
}

func lowerKey(kind Kind, obj any) string {
	if reflect.ValueOf(obj).Kind() == reflect.Ptr {
		return fmt.Sprintf("%d:%p", kind, obj)
	}
	return fmt.Sprintf("%d:%v", kind, obj)
}

// Raise returns the object and kind originally lowered under h.
func (ix *Index) Raise(h Handle) (any, Kind, error) {
	if int(h) >= len(ix.entries) {
		return nil, 0, fmt.Errorf("compiler-object index: handle %d out of range", h)
	}
	e := ix.entries[h]
	return e.obj, e.kind, nil
}

// Len reports how many objects have been interned. The introspection
// snapshot (internal/introspect) uses Snapshot, not Len.
func (ix *Index) Len() int { return len(ix.entries) }

// Snapshot returns a read-only, kind-grouped count of table occupancy for
// the introspection service. It never exposes the objects themselves.
func (ix *Index) Snapshot() map[string]int {
	counts := make(map[string]int)
	for _, e := range ix.entries {
		counts[e.kind.String()]++
	}
	return counts
}
