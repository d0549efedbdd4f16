package analyzer

import (
	"fmt"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/invocation"
	"github.com/clayscript/clay/internal/match"
	"github.com/clayscript/clay/internal/pattern"
	"github.com/clayscript/clay/internal/types"
)

// analyzeCall implements spec.md §4.5's "Indexing and call" contract: if
// the callee expression is static, lower it to a compiler object and
// analyze as indexing-construction or invocation; otherwise raise
// "invalid indexing/call operation".
func (a *Analyzer) analyzeCall(calleeExpr ast.Expression, argExprs []ast.Expression, scope *env.Environment) (Outcome, error) {
	calleeOut, err := a.AnalyzeExpr(calleeExpr, scope)
	if err != nil {
		return Outcome{}, err
	}
	if !calleeOut.Known {
		return unknown, nil
	}
	if !calleeOut.Result.IsStatic {
		return Outcome{}, fmt.Errorf("invalid indexing/call operation: callee is not statically known")
	}

	name, ok := calleeExpr.(*ast.NameRef)
	if !ok {
		return Outcome{}, fmt.Errorf("invalid indexing/call operation: unsupported callee expression %T", calleeExpr)
	}
	obj, ok := scope.Lookup(name.Name)
	if !ok {
		return Outcome{}, fmt.Errorf("undefined name %q", name.Name)
	}

	switch callable := obj.(type) {
	case *ast.PrimitiveOp:
		rt, err := a.primitiveReturnType(callable.Name, argExprs, scope)
		if err != nil {
			return Outcome{}, err
		}
		return known(Result{Type: rt, IsTemp: true}), nil

	case *ast.RecordItem:
		return a.analyzeRecordConstruction(callable, argExprs, scope)

	case *ast.ProcedureItem:
		table, ok := callable.InvocationTable.(*invocation.Table)
		if !ok {
			table = invocation.NewTable(0)
			callable.InvocationTable = table
		}
		return a.analyzeInvocation(&callable.Code, table, argExprs, scope)

	case *ast.OverloadableItem:
		return a.analyzeOverloadable(callable, argExprs, scope)

	case *ast.ExternalProcedureItem:
		if callable.ReturnType == nil {
			return known(Result{Type: types.Void(), IsTemp: true}), nil
		}
		rt, err := a.evalStaticTypeArg(callable.ReturnType, scope)
		if err != nil {
			return Outcome{}, err
		}
		return known(Result{Type: rt, IsTemp: true}), nil

	default:
		return Outcome{}, fmt.Errorf("%q is not callable", name.Name)
	}
}

// analyzeRecordConstruction matches the constructor call's arguments
// against the record's fields-as-formal-arguments, exactly as a procedure
// call would (spec.md §4.4), then lazily computes the record's field
// types from the matched scope the first time they are asked for
// (spec.md §3: "Record fields are lazily initialized the first time their
// types are asked for").
func (a *Analyzer) analyzeRecordConstruction(rec *ast.RecordItem, argExprs []ast.Expression, scope *env.Environment) (Outcome, error) {
	def := rec.Def
	code := &ast.Code{PatternVars: rec.PatternVars, Formals: rec.Fields}

	argTypes := make([]types.Type, len(argExprs))
	margs := make([]match.Arg, len(argExprs))
	for i, ae := range argExprs {
		out, err := a.AnalyzeExpr(ae, scope)
		if err != nil {
			return Outcome{}, err
		}
		if !out.Known {
			return unknown, nil
		}
		argTypes[i] = out.Result.Type
		margs[i] = typeArg{out.Result.Type}
	}

	scopeEnv, fail := match.Match(matchContext{a}, code, scope, margs)
	if fail != nil {
		return Outcome{}, fail
	}

	if def.FieldNames == nil {
		names := make([]string, len(rec.Fields))
		for i, f := range rec.Fields {
			names[i] = f.Name
		}
		def.FieldNames = names
		def.SetFieldComputer(func() []types.Type {
			fts := make([]types.Type, len(rec.Fields))
			for i, f := range rec.Fields {
				if f.Type == nil {
					fts[i] = argTypes[i]
					continue
				}
				pat, err := match.BuildPattern(f.Type, scopeEnv)
				if err != nil {
					fts[i] = argTypes[i]
					continue
				}
				if t, ok := pattern.Deref(pat).(types.Type); ok {
					fts[i] = t
				} else {
					fts[i] = argTypes[i]
				}
			}
			return fts
		})
	}

	params := make([]any, len(rec.PatternVars))
	for i, pv := range rec.PatternVars {
		v, _ := scopeEnv.Lookup(pv)
		params[i] = v
	}
	rt := a.Types.Record(def, params)
	return known(Result{Type: rt, IsTemp: true}), nil
}

// analyzeInvocation resolves a single Code template (a plain procedure)
// against argExprs, driving the invocation table and the recursion
// sentinel per spec.md §4.5/§4.10.
func (a *Analyzer) analyzeInvocation(code *ast.Code, table *invocation.Table, argExprs []ast.Expression, scope *env.Environment) (Outcome, error) {
	if table.StaticFlags == nil {
		flags := make([]bool, len(code.Formals))
		for i, f := range code.Formals {
			flags[i] = f.Static
		}
		if err := table.SetStaticFlags(flags); err != nil {
			return Outcome{}, err
		}
	}

	key, matchArgs, err := a.buildArgKey(table.StaticFlags, argExprs, scope)
	if err != nil {
		return Outcome{}, err
	}
	if key == nil {
		return unknown, nil // a static argument depends on an unresolved recursive call
	}

	entry := table.Install(key)
	switch entry.State {
	case invocation.Resolved:
		return known(Result{Type: entry.ReturnType, IsTemp: !entry.ByRef, ByRef: entry.ByRef}), nil
	case invocation.Analyzing:
		return unknown, nil
	}

	entry.State = invocation.Analyzing
	scopeEnv, fail := match.Match(matchContext{a}, code, scope, matchArgs)
	if fail != nil {
		table.Destroy(entry)
		return Outcome{}, fail
	}
	entry.Env = scopeEnv
	entry.Code = code

	bodyOut, err := a.AnalyzeStmt(code.Body, scopeEnv)
	if err != nil {
		table.Destroy(entry)
		return Outcome{}, err
	}
	if !bodyOut.Known {
		// Recursive and no committed type: fail per spec.md §4.5.
		if !entry.ReturnTypeCommitted && entry.State == invocation.Analyzing {
			table.Destroy(entry)
			return Outcome{}, fmt.Errorf("recursive type propagation")
		}
		return unknown, nil
	}

	entry.ReturnType = bodyOut.Result.Type
	entry.ReturnTypeCommitted = true
	entry.ByRef = bodyOut.Result.ByRef
	entry.State = invocation.Resolved
	return known(Result{Type: entry.ReturnType, IsTemp: !entry.ByRef, ByRef: entry.ByRef}), nil
}

func (a *Analyzer) analyzeOverloadable(ov *ast.OverloadableItem, argExprs []ast.Expression, scope *env.Environment) (Outcome, error) {
	arity := len(argExprs)
	raw, ok := ov.InvocationTables[arity]
	table, ok2 := raw.(*invocation.Table)
	if !ok || !ok2 {
		table = invocation.NewTable(0)
		ov.InvocationTables[arity] = table
	}
	var lastErr error
	for i := range ov.Overloads {
		code := &ov.Overloads[i]
		if len(code.Formals) != arity {
			continue
		}
		out, err := a.analyzeInvocation(code, table, argExprs, scope)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no matching overload for %s/%d", ov.Name, arity)
	}
	return Outcome{}, lastErr
}

// buildArgKey analyzes each argument and builds the invocation-table key:
// every position, dynamic or static, is keyed by the argument's Type. A
// static position is checked to be a compile-time value but is not keyed
// by that value, so calls that differ only in a static argument's value of
// the same type share one entry.
// Returns (nil, nil, nil) if a static position's value is not yet known
// because it depends on an unresolved recursive call.
func (a *Analyzer) buildArgKey(staticFlags []bool, argExprs []ast.Expression, scope *env.Environment) ([]invocation.ArgKey, []match.Arg, error) {
	key := make([]invocation.ArgKey, len(argExprs))
	margs := make([]match.Arg, len(argExprs))
	for i, ae := range argExprs {
		out, err := a.AnalyzeExpr(ae, scope)
		if err != nil {
			return nil, nil, err
		}
		if !out.Known {
			return nil, nil, nil
		}
		if i < len(staticFlags) && staticFlags[i] {
			if !out.Result.IsStatic {
				return nil, nil, fmt.Errorf("argument %d must be a compile-time value", i)
			}
			key[i] = invocation.ArgKey{Dynamic: false, Value: out.Result.Type}
			margs[i] = typeArg{out.Result.Type}
		} else {
			key[i] = invocation.ArgKey{Dynamic: true, Type: out.Result.Type}
			margs[i] = typeArg{out.Result.Type}
		}
	}
	return key, margs, nil
}
