// Package pattern implements Clay's pattern trees and one-way unification,
// grounded on the original compiler's src/patterns.cpp (see
// SPEC_FULL.md §12 and DESIGN.md).
package pattern

import "github.com/clayscript/clay/internal/types"

// Pattern is the marker interface for the Pattern variant (spec.md §3).
type Pattern interface {
	patternNode()
}

// Cell is a logic variable: a name plus an optional bound value. Cells are
// transient -- created fresh for one match attempt and discarded on
// failure (spec.md §4.1).
type Cell struct {
	Name  string
	Bound any // nil if unbound; otherwise a types.Type or a bound value
}

func (*Cell) patternNode() {}

// ArrayPattern matches Array(elem, size) types.
type ArrayPattern struct {
	Elem Pattern
	Size Pattern
}

func (*ArrayPattern) patternNode() {}

// TuplePattern matches Tuple(elems...) types.
type TuplePattern struct {
	Elems []Pattern
}

func (*TuplePattern) patternNode() {}

// PointerPattern matches Pointer(pointee) types.
type PointerPattern struct {
	Pointee Pattern
}

func (*PointerPattern) patternNode() {}

// RecordPattern matches a specific record definition, recursing into its
// value/type parameters.
type RecordPattern struct {
	Record *types.RecordDef
	Params []Pattern
}

func (*RecordPattern) patternNode() {}

// Deref follows a Cell to its bound value, or returns the pattern itself if
// it is not a Cell (or is an unbound Cell). Called exactly once per cell
// when a successful match is committed (spec.md §4.1).
func Deref(p Pattern) any {
	if c, ok := p.(*Cell); ok && c.Bound != nil {
		return c.Bound
	}
	return p
}
