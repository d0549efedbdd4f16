package analyzer

import (
	"fmt"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/evaluator"
	"github.com/clayscript/clay/internal/match"
	"github.com/clayscript/clay/internal/object"
	"github.com/clayscript/clay/internal/pattern"
	"github.com/clayscript/clay/internal/types"
)

// primitiveReturnType encodes, at the type level, the same ~60 primitive
// contracts internal/evaluator.Primitives implements at the value level
// (spec.md §4.7). Most primitives' return type follows from their operand
// types alone; a handful (the type constructors, tupleRef/recordFieldRef,
// numericConvert) need a static argument's actual compile-time *value* --
// for those this re-evaluates that one argument via a.AnalyzeExpr and
// requires it be statically known, exactly as the concrete evaluator will
// require at call time.
func (a *Analyzer) primitiveReturnType(name string, argExprs []ast.Expression, scope *env.Environment) (types.Type, error) {
	argTypes := make([]types.Type, len(argExprs))
	argOut := make([]Outcome, len(argExprs))
	for i, ae := range argExprs {
		out, err := a.AnalyzeExpr(ae, scope)
		if err != nil {
			return types.Type{}, err
		}
		if !out.Known {
			return types.Type{}, fmt.Errorf("%s: argument %d depends on a not-yet-resolved recursive call", name, i)
		}
		argOut[i] = out
		argTypes[i] = out.Result.Type
	}

	staticType := func(i int) (types.Type, error) {
		if i >= len(argOut) || !argOut[i].Result.IsStatic {
			return types.Type{}, fmt.Errorf("%s: argument %d must be a compile-time type value", name, i)
		}
		t, err := a.evalStaticTypeArg(argExprs[i], scope)
		if err != nil {
			return types.Type{}, err
		}
		return t, nil
	}

	switch name {
	case "TypeP", "IntegerTypeP", "FloatTypeP", "PointerTypeP", "ArrayTypeP", "TupleTypeP", "RecordTypeP":
		return types.Bool(), nil

	case "TypeSize", "RecordFieldCount", "RecordFieldOffset", "RecordFieldIndex":
		return types.UInt64(), nil

	case "ArrayElementType", "RecordFieldType", "PointerType", "ArrayType", "TupleType":
		return types.CompilerObject(), nil

	case "array":
		if len(argTypes) == 0 {
			return types.Type{}, fmt.Errorf("array(): need at least one element")
		}
		return a.Types.Array(argTypes[0], len(argTypes)), nil

	case "tuple":
		return a.Types.Tuple(argTypes), nil

	case "addressOf":
		if len(argTypes) != 1 {
			return types.Type{}, argErrT(name, 1, len(argTypes))
		}
		return a.Types.Pointer(argTypes[0]), nil

	case "pointerDereference":
		if len(argTypes) != 1 || argTypes[0].Kind != types.KPointer {
			return types.Type{}, fmt.Errorf("pointerDereference: argument must be a pointer")
		}
		return argTypes[0].Pointee, nil

	case "pointerToInt":
		if len(argTypes) != 2 {
			return types.Type{}, argErrT(name, 2, len(argTypes))
		}
		return staticType(1)

	case "intToPointer", "pointerCast", "allocateMemory":
		t, err := staticType(0)
		if err != nil {
			return types.Type{}, err
		}
		return a.Types.Pointer(t), nil

	case "freeMemory":
		return types.Void(), nil

	case "arrayRef":
		if len(argTypes) != 2 || argTypes[0].Kind != types.KArray {
			return types.Type{}, fmt.Errorf("arrayRef: first argument must be an array")
		}
		return argTypes[0].Elem, nil

	case "tupleRef":
		if len(argTypes) != 2 || argTypes[0].Kind != types.KTuple {
			return types.Type{}, fmt.Errorf("tupleRef: first argument must be a tuple")
		}
		idx, ok := literalInt(argExprs[1])
		if !ok || idx < 0 || idx >= len(argTypes[0].Elems) {
			return types.Type{}, fmt.Errorf("tupleRef: index must be a compile-time integer literal in range")
		}
		return argTypes[0].Elems[idx], nil

	case "recordFieldRef":
		if len(argTypes) != 2 || argTypes[0].Kind != types.KRecord {
			return types.Type{}, fmt.Errorf("recordFieldRef: first argument must be a record")
		}
		idx, ok := literalInt(argExprs[1])
		fields := argTypes[0].Record.Fields()
		if !ok || idx < 0 || idx >= len(fields) {
			return types.Type{}, fmt.Errorf("recordFieldRef: index must be a compile-time integer literal in range")
		}
		return fields[idx], nil

	case "recordFieldRefByName":
		if len(argTypes) != 2 || argTypes[0].Kind != types.KRecord {
			return types.Type{}, fmt.Errorf("recordFieldRefByName: first argument must be a record")
		}
		fieldName, ok := literalString(argExprs[1])
		if !ok {
			return types.Type{}, fmt.Errorf("recordFieldRefByName: field name must be a compile-time string literal")
		}
		fields := argTypes[0].Record.Fields()
		for i, n := range argTypes[0].Record.FieldNames {
			if n == fieldName {
				return fields[i], nil
			}
		}
		return types.Type{}, fmt.Errorf("record %s has no field %q", argTypes[0].Record.Name, fieldName)

	case "boolNot", "boolTruth":
		return types.Bool(), nil

	case "numericAdd", "numericSubtract", "numericMultiply", "numericDivide", "numericRemainder",
		"bitwiseAnd", "bitwiseOr", "bitwiseXor":
		if len(argTypes) != 2 {
			return types.Type{}, argErrT(name, 2, len(argTypes))
		}
		if !types.Identical(argTypes[0], argTypes[1]) {
			return types.Type{}, fmt.Errorf("%s: operand type mismatch (%s vs %s)", name, argTypes[0], argTypes[1])
		}
		return argTypes[0], nil

	case "numericNegate", "bitwiseNot":
		if len(argTypes) != 1 {
			return types.Type{}, argErrT(name, 1, len(argTypes))
		}
		return argTypes[0], nil

	case "numericEquals", "numericLesser", "numericLesserEquals", "numericGreater", "numericGreaterEquals":
		if len(argTypes) != 2 {
			return types.Type{}, argErrT(name, 2, len(argTypes))
		}
		return types.Bool(), nil

	case "numericConvert":
		return staticType(0)

	case "init", "copy":
		if len(argTypes) < 1 {
			return types.Type{}, argErrT(name, 1, len(argTypes))
		}
		if name == "copy" {
			return argTypes[0], nil
		}
		return staticType(0)

	case "destroy", "assign":
		return types.Void(), nil

	case "equals?":
		return types.Bool(), nil

	case "hash":
		return types.UInt64(), nil
	}
	return types.Type{}, fmt.Errorf("unknown primitive %q", name)
}

// evalStaticTypeArg re-evaluates a pattern-position expression that names a
// type (a NameRef bound to a types.Type, or an IndexExpr type constructor
// such as Pointer(Int32)) to its concrete types.Type. It reuses
// match.BuildPattern -- the same construction the match engine uses for
// type-annotation patterns -- then derefs the resulting (already-bound)
// Cell, exactly as analyzeRecordConstruction derives a record's field types.
func (a *Analyzer) evalStaticTypeArg(expr ast.Expression, scope *env.Environment) (types.Type, error) {
	if ve, ok := expr.(*ast.ValueExpr); ok {
		if v, ok := ve.Value.(*evaluator.Value); ok && v.Type.Kind == types.KCompilerObject {
			if h, ok := v.Raw.(object.Handle); ok {
				obj, kind, err := a.Objects.Raise(h)
				if err == nil && kind == object.KindType {
					if t, ok := obj.(types.Type); ok {
						return t, nil
					}
				}
			}
		}
	}
	pat, err := match.BuildPattern(expr, scope)
	if err != nil {
		return types.Type{}, err
	}
	if t, ok := pattern.Deref(pat).(types.Type); ok {
		return t, nil
	}
	return types.Type{}, fmt.Errorf("unsupported static type expression %T", expr)
}

func literalInt(e ast.Expression) (int, bool) {
	switch n := e.(type) {
	case *ast.IntLit:
		var v int
		_, err := fmt.Sscanf(n.Text, "%d", &v)
		return v, err == nil
	case *ast.ValueExpr:
		if v, ok := n.Value.(*evaluator.Value); ok {
			switch r := v.Raw.(type) {
			case int64:
				return int(r), true
			case uint64:
				return int(r), true
			}
		}
	}
	return 0, false
}

func literalString(e ast.Expression) (string, bool) {
	if s, ok := e.(*ast.StringLit); ok {
		return s.Value, true
	}
	return "", false
}

func argErrT(name string, want, got int) error {
	return fmt.Errorf("primitive %s: expected %d argument(s), got %d", name, want, got)
}
