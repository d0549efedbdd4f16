package match

import (
	"fmt"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/pattern"
	"github.com/clayscript/clay/internal/types"
)

// BuildPattern evaluates expr (a type annotation or a static-argument
// pattern expression) into a Pattern, resolving NameRef against scope.
// This construction is identical whether driven by the analyzer or by the
// concrete evaluator -- only what the resulting Pattern is later unified
// against (a type, or a value) differs by mode -- so both call this one
// implementation instead of duplicating it (spec.md Design Notes §9).
func BuildPattern(expr ast.Expression, scope *env.Environment) (pattern.Pattern, error) {
	switch e := expr.(type) {
	case *ast.NameRef:
		obj, ok := scope.Lookup(e.Name)
		if !ok {
			return nil, fmt.Errorf("undefined name %q in pattern position", e.Name)
		}
		switch v := obj.(type) {
		case *pattern.Cell:
			return v, nil
		case types.Type:
			return &pattern.Cell{Bound: v}, nil
		case *ast.RecordItem:
			if len(v.PatternVars) != 0 {
				return nil, fmt.Errorf("record %s requires %d parameter(s)", v.Name, len(v.PatternVars))
			}
			return &pattern.RecordPattern{Record: v.Def}, nil
		default:
			return nil, fmt.Errorf("name %q is not usable in pattern position", e.Name)
		}

	case *ast.IndexExpr:
		callee, ok := e.Callee.(*ast.NameRef)
		if !ok {
			return nil, fmt.Errorf("unsupported pattern indexing expression")
		}
		// Primitive indexing-pattern constructors, grounded on the
		// original compiler's evaluateIndexingPattern (src/patterns.cpp,
		// see SPEC_FULL.md §12). Only the constructors whose Type variant
		// survives into spec.md §3 are implemented: Pointer, Array,
		// Tuple, and the record fallback. The original's CodePointer/
		// RefCodePointer/CCodePointer cases have no counterpart in
		// spec.md's Type variant list and are intentionally not ported.
		switch callee.Name {
		case "Pointer":
			if len(e.Args) != 1 {
				return nil, fmt.Errorf("Pointer pattern takes exactly one argument")
			}
			pointee, err := BuildPattern(e.Args[0], scope)
			if err != nil {
				return nil, err
			}
			return &pattern.PointerPattern{Pointee: pointee}, nil

		case "Array":
			if len(e.Args) != 2 {
				return nil, fmt.Errorf("Array pattern takes exactly two arguments")
			}
			elem, err := BuildPattern(e.Args[0], scope)
			if err != nil {
				return nil, err
			}
			size, err := BuildPattern(e.Args[1], scope)
			if err != nil {
				return nil, err
			}
			return &pattern.ArrayPattern{Elem: elem, Size: size}, nil

		case "Tuple":
			elems := make([]pattern.Pattern, len(e.Args))
			for i, a := range e.Args {
				p, err := BuildPattern(a, scope)
				if err != nil {
					return nil, err
				}
				elems[i] = p
			}
			return &pattern.TuplePattern{Elems: elems}, nil

		default:
			// Record-fallback case: callee must name a record definition.
			obj, ok := scope.Lookup(callee.Name)
			if !ok {
				return nil, fmt.Errorf("undefined name %q in pattern position", callee.Name)
			}
			rec, ok := obj.(*ast.RecordItem)
			if !ok {
				return nil, fmt.Errorf("%q does not name a record", callee.Name)
			}
			def := rec.Def
			if len(e.Args) != len(def.PatternVars) {
				return nil, fmt.Errorf("record %s: expected %d parameter(s), got %d", def.Name, len(def.PatternVars), len(e.Args))
			}
			params := make([]pattern.Pattern, len(e.Args))
			for i, a := range e.Args {
				p, err := BuildPattern(a, scope)
				if err != nil {
					return nil, err
				}
				params[i] = p
			}
			return &pattern.RecordPattern{Record: def, Params: params}, nil
		}

	default:
		return nil, fmt.Errorf("expression of type %T is not valid in pattern position", expr)
	}
}
