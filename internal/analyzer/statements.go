package analyzer

import (
	"fmt"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/desugar"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/evaluator"
	"github.com/clayscript/clay/internal/types"
)

// AnalyzeStmt walks a statement, propagating the recursion sentinel the
// same way AnalyzeExpr does, and aggregates the return type(s) it commits
// to along the way (spec.md §4.5/§4.6). A statement that never reaches a
// return yields Outcome{Known: true, Result: Result{}}; one that always
// returns yields Result.Returned == true.
func (a *Analyzer) AnalyzeStmt(s ast.Statement, scope *env.Environment) (Outcome, error) {
	switch n := s.(type) {
	case *ast.Block:
		return a.analyzeBlock(n, scope)
	case *ast.If:
		return a.analyzeIf(n, scope)
	case *ast.While:
		return a.analyzeWhile(n, scope)
	case *ast.Binding:
		return a.analyzeBinding(n, scope)
	case *ast.Assign:
		return a.analyzeAssign(n, scope)
	case *ast.Goto, *ast.Label, *ast.Break, *ast.Continue:
		return known(Result{}), nil
	case *ast.Return:
		return a.analyzeReturn(n, scope)
	case *ast.ReturnRef:
		return a.analyzeReturnRef(n, scope)
	case *ast.ExprStmt:
		out, err := a.AnalyzeExpr(n.Expr, scope)
		if err != nil || !out.Known {
			return Outcome{Known: out.Known}, err
		}
		return known(Result{}), nil
	case *ast.For:
		return a.AnalyzeStmt(desugar.For(n), scope)
	default:
		return Outcome{}, fmt.Errorf("analyzer: unsupported statement %T", s)
	}
}

func (a *Analyzer) analyzeBlock(n *ast.Block, scope *env.Environment) (Outcome, error) {
	var committed *Result
	for _, stmt := range n.Stmts {
		out, err := a.AnalyzeStmt(stmt, scope)
		if err != nil {
			return Outcome{}, err
		}
		if !out.Known {
			if committed != nil {
				return known(*committed), nil
			}
			return unknown, nil
		}
		if out.Result.Returned {
			return out, nil
		}
		if out.Result.HasCandidate {
			r := out.Result
			committed = &r
		}
	}
	if committed != nil {
		return known(Result{Type: committed.Type, HasCandidate: true}), nil
	}
	return known(Result{}), nil
}

func (a *Analyzer) analyzeIf(n *ast.If, scope *env.Environment) (Outcome, error) {
	condOut, err := a.AnalyzeExpr(n.Cond, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !condOut.Known {
		return unknown, nil
	}
	if condOut.Result.Type.Kind != types.KBool {
		return Outcome{}, fmt.Errorf("if condition must be Bool, got %s", condOut.Result.Type)
	}

	// Both branches are analyzed before either Known check: an else-branch
	// base case must still be surfaced as a HasCandidate result even when
	// the then-branch is a not-yet-resolved recursive call, mirroring
	// analyzeBlock's "a later unresolved statement doesn't erase an
	// earlier committed candidate" rule one level up (spec.md §4.5, "if
	// either branch succeeded, statement analysis succeeds").
	thenOut, err := a.AnalyzeStmt(n.Then, scope)
	if err != nil {
		return Outcome{}, err
	}

	var elseOut Outcome
	if n.Else != nil {
		elseOut, err = a.AnalyzeStmt(n.Else, scope)
		if err != nil {
			return Outcome{}, err
		}
	} else {
		elseOut = known(Result{})
	}

	if thenOut.Known && elseOut.Known {
		switch {
		case thenOut.Result.Returned && elseOut.Result.Returned:
			if !types.Identical(thenOut.Result.Type, elseOut.Result.Type) {
				return Outcome{}, fmt.Errorf("if branches disagree on return type (%s vs %s)", thenOut.Result.Type, elseOut.Result.Type)
			}
			return known(Result{Type: thenOut.Result.Type, ByRef: thenOut.Result.ByRef && elseOut.Result.ByRef, Returned: true}), nil
		case thenOut.Result.Returned:
			return known(Result{Type: thenOut.Result.Type, HasCandidate: true}), nil
		case elseOut.Result.Returned:
			return known(Result{Type: elseOut.Result.Type, HasCandidate: true}), nil
		default:
			return known(Result{}), nil
		}
	}

	// Exactly one branch is unresolved: fall back to whichever branch is
	// known, same as analyzeBlock falling back to its last committed
	// candidate instead of propagating unknown outright.
	if thenOut.Known && (thenOut.Result.Returned || thenOut.Result.HasCandidate) {
		return known(Result{Type: thenOut.Result.Type, HasCandidate: true}), nil
	}
	if elseOut.Known && (elseOut.Result.Returned || elseOut.Result.HasCandidate) {
		return known(Result{Type: elseOut.Result.Type, HasCandidate: true}), nil
	}
	return unknown, nil
}

func (a *Analyzer) analyzeWhile(n *ast.While, scope *env.Environment) (Outcome, error) {
	condOut, err := a.AnalyzeExpr(n.Cond, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !condOut.Known {
		return unknown, nil
	}
	if condOut.Result.Type.Kind != types.KBool {
		return Outcome{}, fmt.Errorf("while condition must be Bool, got %s", condOut.Result.Type)
	}
	bodyOut, err := a.AnalyzeStmt(n.Body, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !bodyOut.Known {
		return unknown, nil
	}
	// A loop may execute zero times, so it never guarantees a return on its
	// own; a return inside the body is only ever a candidate.
	if bodyOut.Result.Returned || bodyOut.Result.HasCandidate {
		return known(Result{Type: bodyOut.Result.Type, HasCandidate: true}), nil
	}
	return known(Result{}), nil
}

func (a *Analyzer) analyzeBinding(n *ast.Binding, scope *env.Environment) (Outcome, error) {
	out, err := a.AnalyzeExpr(n.Init, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !out.Known {
		return unknown, nil
	}
	if n.Kind == ast.BindStatic && !out.Result.IsStatic {
		return Outcome{}, fmt.Errorf("static binding %q requires a compile-time value", n.Name)
	}
	placeholder := &evaluator.Value{Type: out.Result.Type, Owned: n.Kind != ast.BindStatic}
	if err := scope.BindChecked(n.Name, placeholder); err != nil {
		return Outcome{}, err
	}
	return known(Result{}), nil
}

func (a *Analyzer) analyzeAssign(n *ast.Assign, scope *env.Environment) (Outcome, error) {
	lOut, err := a.AnalyzeExpr(n.Left, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !lOut.Known {
		return unknown, nil
	}
	rOut, err := a.AnalyzeExpr(n.Right, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !rOut.Known {
		return unknown, nil
	}
	if !types.Identical(lOut.Result.Type, rOut.Result.Type) {
		return Outcome{}, fmt.Errorf("assignment type mismatch: %s := %s", lOut.Result.Type, rOut.Result.Type)
	}
	return known(Result{}), nil
}

func (a *Analyzer) analyzeReturn(n *ast.Return, scope *env.Environment) (Outcome, error) {
	if n.Value == nil {
		return known(Result{Type: types.Void(), Returned: true}), nil
	}
	out, err := a.AnalyzeExpr(n.Value, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !out.Known {
		return unknown, nil
	}
	return known(Result{Type: out.Result.Type, Returned: true}), nil
}

func (a *Analyzer) analyzeReturnRef(n *ast.ReturnRef, scope *env.Environment) (Outcome, error) {
	out, err := a.AnalyzeExpr(n.Value, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !out.Known {
		return unknown, nil
	}
	return known(Result{Type: out.Result.Type, ByRef: true, Returned: true}), nil
}
