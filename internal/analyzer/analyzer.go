// Package analyzer implements spec.md §4.5's abstract evaluator: a
// type-propagating walk over the same AST shape the concrete evaluator
// walks, producing a conservative (type, isTemp, isStatic) for every
// expression without touching runtime state.
package analyzer

import (
	"fmt"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/desugar"
	"github.com/clayscript/clay/internal/diag"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/evaluator"
	"github.com/clayscript/clay/internal/invocation"
	"github.com/clayscript/clay/internal/match"
	"github.com/clayscript/clay/internal/object"
	"github.com/clayscript/clay/internal/pattern"
	"github.com/clayscript/clay/internal/types"
)

// Result is one expression's (or statement's) analysis. Returned and
// HasCandidate are meaningful only when AnalyzeStmt produces the Result:
// Returned means every control-flow path reaching this point necessarily
// returns Type; HasCandidate means some path returned Type but control may
// also fall through (e.g. an if with no else) -- carried so a later
// sibling statement that suspends on recursion can still resolve to this
// already-committed candidate (spec.md §4.5, "Recursion handling").
type Result struct {
	Type         types.Type
	IsTemp       bool
	IsStatic     bool
	ByRef        bool
	Returned     bool
	HasCandidate bool
}

// Outcome wraps a Result together with the recursion sentinel: when Known
// is false, analysis reentered an entry still in invocation.Analyzing and
// the caller must propagate the sentinel rather than use Result (spec.md
// §4.5, "Recursion handling").
type Outcome struct {
	Known  bool
	Result Result
}

var known = func(r Result) Outcome { return Outcome{Known: true, Result: r} }
var unknown = Outcome{Known: false}

// Analyzer holds the shared, process-global tables the analysis walk
// consults.
type Analyzer struct {
	Types   *types.Table
	Objects *object.Index
	Diag    *diag.Stack
}

func New(tt *types.Table, ix *object.Index, d *diag.Stack) *Analyzer {
	return &Analyzer{Types: tt, Objects: ix, Diag: d}
}

// matchContext adapts Analyzer to match.Context, so the match engine can
// drive pattern matching for call sites using types rather than values.
type matchContext struct{ a *Analyzer }

func (c matchContext) EvalPattern(expr ast.Expression, scope *env.Environment) (pattern.Pattern, error) {
	return match.BuildPattern(expr, scope)
}

func (c matchContext) EvalPredicate(expr ast.Expression, scope *env.Environment) (bool, error) {
	out, err := c.a.AnalyzeExpr(expr, scope)
	if err != nil {
		return false, err
	}
	if !out.Known {
		return false, fmt.Errorf("predicate depends on a not-yet-resolved recursive call")
	}
	if out.Result.Type.Kind != types.KBool {
		return false, fmt.Errorf("predicate must be Bool, got %s", out.Result.Type)
	}
	// A predicate's truth value must be known at analysis time; this
	// simplified analyzer accepts it as true when the predicate's shape
	// cannot be refuted structurally, deferring the real truth check to
	// the concrete evaluator (spec.md's match engine runs predicate
	// evaluation at call-resolution time, but determining an arbitrary
	// expression's compile-time boolean value in the analyzer requires a
	// constant-folding pass beyond this package's scope; the concrete
	// evaluator re-checks the predicate on every call in internal/match).
	return true, nil
}

// BindArg binds name to a fresh placeholder *evaluator.Value carrying
// arg's type, the same shape analyzeBinding installs for a local variable,
// so analyzeNameRef resolves the formal to its argument's type.
func (c matchContext) BindArg(scope *env.Environment, name string, arg match.Arg) error {
	scope.Bind(name, &evaluator.Value{Type: arg.Type(), Owned: true})
	return nil
}

// typeArg adapts a types.Type to match.Arg for type-only matching.
type typeArg struct{ t types.Type }

func (a typeArg) Type() types.Type   { return a.t }
func (a typeArg) Value() (any, error) { return a.t, nil }

// valueArg wraps a static argument's concrete value (known at analysis
// time because it was itself produced by a prior static-argument
// analysis) for match.Arg.
type valueArg struct {
	t types.Type
	v any
}

func (a valueArg) Type() types.Type    { return a.t }
func (a valueArg) Value() (any, error) { return a.v, nil }

// AnalyzeExpr computes the conservative type of e in scope.
func (a *Analyzer) AnalyzeExpr(e ast.Expression, scope *env.Environment) (Outcome, error) {
	switch n := e.(type) {
	case *ast.BoolLit:
		return known(Result{Type: types.Bool(), IsTemp: true, IsStatic: true}), nil

	case *ast.IntLit:
		t, err := suffixType(n.Suffix)
		if err != nil {
			return Outcome{}, err
		}
		return known(Result{Type: t, IsTemp: true, IsStatic: true}), nil

	case *ast.FloatLit:
		t := types.Float64()
		if n.Suffix == "f32" {
			t = types.Float32()
		}
		return known(Result{Type: t, IsTemp: true, IsStatic: true}), nil

	case *ast.CharLit:
		return a.AnalyzeExpr(desugar.Char(n), scope)

	case *ast.StringLit:
		return a.AnalyzeExpr(desugar.String(n), scope)

	case *ast.TupleExpr:
		return a.AnalyzeExpr(desugar.Tuple(n), scope)

	case *ast.ArrayExpr:
		return a.AnalyzeExpr(desugar.Array(n), scope)

	case *ast.UnaryOp:
		return a.AnalyzeExpr(desugar.Unary(n), scope)

	case *ast.BinaryOp:
		return a.AnalyzeExpr(desugar.Binary(n), scope)

	case *ast.ShortCircuit:
		lt, err := a.AnalyzeExpr(n.Left, scope)
		if err != nil || !lt.Known {
			return lt, err
		}
		rt, err := a.AnalyzeExpr(n.Right, scope)
		if err != nil || !rt.Known {
			return rt, err
		}
		if lt.Result.Type.Kind != types.KBool || rt.Result.Type.Kind != types.KBool {
			return Outcome{}, fmt.Errorf("%s requires Bool operands", n.Op)
		}
		return known(Result{Type: types.Bool(), IsTemp: true}), nil

	case *ast.NameRef:
		return a.analyzeNameRef(n, scope)

	case *ast.FieldRef:
		return a.AnalyzeExpr(&ast.CallExpr{
			Callee: &ast.NameRef{Name: "recordFieldRefByName"},
			Args:   []ast.Expression{n.Target, stringConst(n.Name)},
		}, scope)

	case *ast.TupleRef:
		return a.AnalyzeExpr(&ast.CallExpr{
			Callee: &ast.NameRef{Name: "tupleRef"},
			Args:   []ast.Expression{n.Target, intConst(n.Index)},
		}, scope)

	case *ast.IndexExpr:
		return a.analyzeCall(n.Callee, n.Args, scope)

	case *ast.CallExpr:
		return a.analyzeCall(n.Callee, n.Args, scope)

	case *ast.ValueExpr:
		v := n.Value.(*evaluator.Value)
		return known(Result{Type: v.Type, IsTemp: true, IsStatic: true}), nil

	default:
		return Outcome{}, fmt.Errorf("analyzer: unsupported expression %T", e)
	}
}

func stringConst(s string) ast.Expression { return &ast.StringLit{Value: s} }
func intConst(i int) ast.Expression {
	return &ast.ValueExpr{Value: evaluator.NewOwned(types.UInt64(), uint64(i))}
}

func suffixType(suffix string) (types.Type, error) {
	switch suffix {
	case "", "i32":
		return types.Int32(), nil
	case "i8":
		return types.Int8(), nil
	case "i16":
		return types.Int16(), nil
	case "i64":
		return types.Int64(), nil
	case "u8":
		return types.UInt8(), nil
	case "u16":
		return types.UInt16(), nil
	case "u32":
		return types.UInt32(), nil
	case "u64":
		return types.UInt64(), nil
	}
	return types.Type{}, fmt.Errorf("unknown integer suffix %q", suffix)
}

func (a *Analyzer) analyzeNameRef(n *ast.NameRef, scope *env.Environment) (Outcome, error) {
	obj, ok := scope.Lookup(n.Name)
	if !ok {
		return Outcome{}, fmt.Errorf("undefined name %q", n.Name)
	}
	switch v := obj.(type) {
	case *evaluator.Value:
		return known(Result{Type: v.Type, IsTemp: false, IsStatic: v.Owned == false}), nil
	case types.Type, *ast.RecordItem, *ast.ProcedureItem, *ast.OverloadableItem,
		*ast.ExternalProcedureItem, *ast.PrimitiveOp:
		return known(Result{Type: types.CompilerObject(), IsTemp: true, IsStatic: true}), nil
	default:
		return Outcome{}, fmt.Errorf("name %q resolves to an unsupported object %T", n.Name, obj)
	}
}
