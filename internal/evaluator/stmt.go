package evaluator

import (
	"fmt"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/desugar"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/types"
)

// ctrl signals the control-flow effect a statement produced, mirroring the
// analyzer's Result.Returned/HasCandidate split but driving real transfer
// of control instead of type aggregation (spec.md §4.6).
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlReturn
	ctrlReturnRef
	ctrlBreak
	ctrlContinue
	ctrlGoto
)

// execStmt executes s, returning any value it produced (for return/return
// ref), the control signal, and an error. A goto signal carries its target
// label in label; the nearest enclosing Block that declares that label
// resumes execution there, matching the lexical label/goto pre-pass of
// spec.md §4.6.
func (e *Evaluator) execStmt(s ast.Statement, scope *env.Environment, ts *Stack) (*Value, ctrl, error) {
	switch n := s.(type) {
	case *ast.Block:
		return e.execBlock(n, scope, ts)
	case *ast.If:
		return e.execIf(n, scope, ts)
	case *ast.While:
		return e.execWhile(n, scope, ts)
	case *ast.Binding:
		return nil, ctrlNone, e.execBinding(n, scope, ts)
	case *ast.Assign:
		return nil, ctrlNone, e.execAssign(n, scope, ts)
	case *ast.Goto:
		return nil, ctrlGoto, labelSignal(n.Label)
	case *ast.Label:
		return nil, ctrlNone, nil
	case *ast.Break:
		return nil, ctrlBreak, nil
	case *ast.Continue:
		return nil, ctrlContinue, nil
	case *ast.Return:
		if n.Value == nil {
			return NewOwned(types.Void(), nil), ctrlReturn, nil
		}
		v, err := e.Eval(n.Value, scope, ts)
		if err != nil {
			return nil, ctrlNone, err
		}
		return v, ctrlReturn, nil
	case *ast.ReturnRef:
		v, err := e.Eval(n.Value, scope, ts)
		if err != nil {
			return nil, ctrlNone, err
		}
		return v, ctrlReturnRef, nil
	case *ast.ExprStmt:
		_, err := e.Eval(n.Expr, scope, ts)
		return nil, ctrlNone, err
	case *ast.For:
		return e.execStmt(desugar.For(n), scope, ts)
	default:
		return nil, ctrlNone, fmt.Errorf("evaluator: unsupported statement %T", s)
	}
}

// gotoErr carries a goto's target label through the ctrlGoto signal; it is
// never surfaced as a real error, only used as label storage since execStmt
// returns (value, ctrl, error) and ctrlGoto needs a fourth piece of data.
type gotoErr struct{ label string }

func (g *gotoErr) Error() string { return "goto " + g.label }

func labelSignal(label string) error { return &gotoErr{label} }

func (e *Evaluator) execBlock(n *ast.Block, scope *env.Environment, ts *Stack) (*Value, ctrl, error) {
	blockScope := env.New(scope)
	tb := ts.Push()
	v, c, err := e.runStmts(n.Stmts, blockScope, ts)
	if v != nil {
		tb.Release(v)
	}
	ts.Pop()
	return v, c, err
}

// runStmts executes stmts in order, resolving any goto whose label is
// declared directly in this statement list by jumping to it; a goto for a
// label not found here propagates to the caller (an enclosing block).
func (e *Evaluator) runStmts(stmts []ast.Statement, scope *env.Environment, ts *Stack) (*Value, ctrl, error) {
	i := 0
	for i < len(stmts) {
		v, c, err := e.execStmt(stmts[i], scope, ts)
		if c == ctrlGoto {
			ge, _ := err.(*gotoErr)
			if ge != nil {
				if idx, ok := findLabel(stmts, ge.label); ok {
					i = idx
					continue
				}
			}
			return v, c, err
		}
		if err != nil {
			return nil, ctrlNone, err
		}
		if c != ctrlNone {
			return v, c, nil
		}
		i++
	}
	return nil, ctrlNone, nil
}

func findLabel(stmts []ast.Statement, name string) (int, bool) {
	for i, s := range stmts {
		if lbl, ok := s.(*ast.Label); ok && lbl.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (e *Evaluator) execIf(n *ast.If, scope *env.Environment, ts *Stack) (*Value, ctrl, error) {
	cond, err := e.Eval(n.Cond, scope, ts)
	if err != nil {
		return nil, ctrlNone, err
	}
	if cond.Type.Kind != types.KBool {
		return nil, ctrlNone, fmt.Errorf("if condition must be Bool, got %s", cond.Type)
	}
	if cond.Raw.(bool) {
		return e.execStmt(n.Then, scope, ts)
	}
	if n.Else != nil {
		return e.execStmt(n.Else, scope, ts)
	}
	return nil, ctrlNone, nil
}

func (e *Evaluator) execWhile(n *ast.While, scope *env.Environment, ts *Stack) (*Value, ctrl, error) {
	for {
		cb := ts.Push()
		cond, err := e.Eval(n.Cond, scope, ts)
		if err != nil {
			ts.Pop()
			return nil, ctrlNone, err
		}
		if cond.Type.Kind != types.KBool {
			ts.Pop()
			return nil, ctrlNone, fmt.Errorf("while condition must be Bool, got %s", cond.Type)
		}
		truth := cond.Raw.(bool)
		_ = cb
		ts.Pop()
		if !truth {
			return nil, ctrlNone, nil
		}

		v, c, err := e.execStmt(n.Body, scope, ts)
		if err != nil && c != ctrlGoto {
			return nil, ctrlNone, err
		}
		switch c {
		case ctrlBreak:
			return nil, ctrlNone, nil
		case ctrlReturn, ctrlReturnRef, ctrlGoto:
			return v, c, err
		case ctrlContinue, ctrlNone:
			// loop again
		}
	}
}

func (e *Evaluator) execBinding(n *ast.Binding, scope *env.Environment, ts *Stack) error {
	v, err := e.Eval(n.Init, scope, ts)
	if err != nil {
		return err
	}
	if len(ts.blocks) > 0 {
		ts.Top().Release(v)
	}
	var stored *Value
	if n.Kind == ast.BindRef {
		stored = v
	} else {
		stored = v.Clone()
	}
	return scope.BindChecked(n.Name, stored)
}

func (e *Evaluator) execAssign(n *ast.Assign, scope *env.Environment, ts *Stack) error {
	target, err := e.lvalue(n.Left, scope, ts)
	if err != nil {
		return err
	}
	v, err := e.Eval(n.Right, scope, ts)
	if err != nil {
		return err
	}
	if !types.Identical(target.Type, v.Type) {
		return fmt.Errorf("assignment type mismatch: %s := %s", target.Type, v.Type)
	}
	if target.Owned {
		target.Destroy()
	}
	cloned := v.Clone()
	target.Type = cloned.Type
	target.Raw = cloned.Raw
	target.Owned = cloned.Owned
	return nil
}

// lvalue locates the mutable *Value storage an assignment target
// denotes: a bound name, a record field, a tuple element, or a pointer
// dereference -- the forms accepted on the left of `=`.
func (e *Evaluator) lvalue(expr ast.Expression, scope *env.Environment, ts *Stack) (*Value, error) {
	switch n := expr.(type) {
	case *ast.NameRef:
		obj, ok := scope.Lookup(n.Name)
		if !ok {
			return nil, fmt.Errorf("undefined name %q", n.Name)
		}
		v, ok := obj.(*Value)
		if !ok {
			return nil, fmt.Errorf("%q is not an assignable binding", n.Name)
		}
		return v, nil

	case *ast.FieldRef:
		rec, err := e.Eval(n.Target, scope, ts)
		if err != nil {
			return nil, err
		}
		fields, ok := rec.Raw.(map[string]*Value)
		if !ok {
			return nil, fmt.Errorf("field access on a non-record value")
		}
		fv, ok := fields[n.Name]
		if !ok {
			return nil, fmt.Errorf("record %s has no field %q", rec.Type, n.Name)
		}
		return fv, nil

	case *ast.TupleRef:
		tup, err := e.Eval(n.Target, scope, ts)
		if err != nil {
			return nil, err
		}
		elems, ok := tup.Raw.([]*Value)
		if !ok || n.Index < 0 || n.Index >= len(elems) {
			return nil, fmt.Errorf("tuple index %d out of range", n.Index)
		}
		return elems[n.Index], nil

	case *ast.CallExpr:
		if name, ok := n.Callee.(*ast.NameRef); ok && name.Name == "pointerDereference" {
			ptr, err := e.Eval(n.Args[0], scope, ts)
			if err != nil {
				return nil, err
			}
			cell, ok := ptr.Raw.(*Value)
			if !ok {
				return nil, fmt.Errorf("pointerDereference: not a valid pointer")
			}
			return cell, nil
		}
		return nil, fmt.Errorf("unsupported assignment target %T", expr)

	default:
		return nil, fmt.Errorf("unsupported assignment target %T", expr)
	}
}
