// Package match implements the match engine of spec.md §4.4: given a code
// template, its defining environment, and an argument vector, bind pattern
// variables, check formal-argument patterns, and evaluate the predicate.
//
// The engine is mode-agnostic: it is driven by both the analyzer (matching
// against argument *types*) and the concrete evaluator (matching against
// argument *values*) through the small Context interface below, so the
// pattern-matching logic itself is never duplicated between the two modes
// (spec.md Design Notes §9, "Two evaluators in one shape").
package match

import (
	"fmt"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/pattern"
	"github.com/clayscript/clay/internal/types"
)

// Arg is one actual argument: it always exposes a Type, and can evaluate a
// Value on demand (spec.md §4.4: "each argument exposes a type and can
// evaluate a value").
type Arg interface {
	Type() types.Type
	Value() (any, error)
}

// Context abstracts the mode-specific parts of matching: evaluating an
// expression as a pattern, evaluating the predicate to a bool, and binding
// a non-static formal's name to its argument. The analyzer and the
// concrete evaluator each supply a Context.
type Context interface {
	// EvalPattern interprets expr (a type annotation or static-argument
	// pattern expression) in scopeEnv, producing a Pattern to unify
	// against either a type or a value.
	EvalPattern(expr ast.Expression, scopeEnv *env.Environment) (pattern.Pattern, error)
	// EvalPredicate evaluates expr in scopeEnv and reports its truth value.
	EvalPredicate(expr ast.Expression, scopeEnv *env.Environment) (bool, error)
	// BindArg binds name to arg's mode-specific representation (a
	// *evaluator.Value in both modes) in scopeEnv, so the formal is
	// resolvable by name for the rest of the match and the body.
	BindArg(scopeEnv *env.Environment, name string, arg Arg) error
}

// FailKind distinguishes the three ways a match can fail (spec.md §4.4).
type FailKind int

const (
	FailArgCount FailKind = iota
	FailArgMismatch
	FailPredicate
)

// Failure carries enough detail for the caller to build a diagnostic with
// the original argument's location stack.
type Failure struct {
	Kind     FailKind
	Position int // meaningful for FailArgMismatch
	Err      error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailArgCount:
		return "argument count mismatch"
	case FailArgMismatch:
		return fmt.Sprintf("argument %d: %v", f.Position, f.Err)
	case FailPredicate:
		return "predicate failed"
	default:
		return "match failed"
	}
}

// Match runs the six-step algorithm of spec.md §4.4 and returns the scope
// environment on success.
func Match(ctx Context, code *ast.Code, defEnv *env.Environment, args []Arg) (*env.Environment, *Failure) {
	// 1. Arity check.
	if len(code.Formals) != len(args) {
		return nil, &Failure{Kind: FailArgCount}
	}

	// 2. Fresh environment extended with one fresh pattern cell per
	// pattern variable.
	scope := env.New(defEnv)
	cells := make(map[string]*pattern.Cell, len(code.PatternVars))
	for _, pv := range code.PatternVars {
		c := &pattern.Cell{Name: pv}
		cells[pv] = c
		scope.Bind(pv, c)
	}

	// 3. Per-formal unification, then bind the formal's name to its
	// argument so the body (and any later formal's pattern) can resolve
	// it (spec.md §4.4 step 3; mirrors the original compiler's
	// bindValueArgs called right after a successful matchInvoke).
	for i, formal := range code.Formals {
		arg := args[i]
		if !formal.Static {
			if formal.Type != nil {
				pat, err := ctx.EvalPattern(formal.Type, scope)
				if err != nil {
					return nil, &Failure{Kind: FailArgMismatch, Position: i, Err: err}
				}
				if err := pattern.UnifyType(pat, arg.Type()); err != nil {
					return nil, &Failure{Kind: FailArgMismatch, Position: i, Err: err}
				}
			}
			if err := ctx.BindArg(scope, formal.Name, arg); err != nil {
				return nil, &Failure{Kind: FailArgMismatch, Position: i, Err: err}
			}
			continue
		}
		pat, err := ctx.EvalPattern(formal.Pattern, scope)
		if err != nil {
			return nil, &Failure{Kind: FailArgMismatch, Position: i, Err: err}
		}
		v, err := arg.Value()
		if err != nil {
			return nil, &Failure{Kind: FailArgMismatch, Position: i, Err: err}
		}
		if err := pattern.UnifyValue(pat, v); err != nil {
			return nil, &Failure{Kind: FailArgMismatch, Position: i, Err: err}
		}
	}

	// 4. Dereference cells into the scope environment. Each cell is
	// dereferenced exactly once and its bound value is placed in the scope
	// as is: neither Match nor its callers in internal/evaluator clone a
	// non-owned bound value.
	for name, c := range cells {
		scope.Bind(name, pattern.Deref(c))
	}

	// 5. Predicate.
	if code.Predicate != nil {
		ok, err := ctx.EvalPredicate(code.Predicate, scope)
		if err != nil {
			return nil, &Failure{Kind: FailPredicate, Err: err}
		}
		if !ok {
			return nil, &Failure{Kind: FailPredicate}
		}
	}

	// 6. Success.
	return scope, nil
}
