package evaluator

import (
	"fmt"
	"strconv"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/desugar"
	"github.com/clayscript/clay/internal/diag"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/invocation"
	"github.com/clayscript/clay/internal/match"
	"github.com/clayscript/clay/internal/object"
	"github.com/clayscript/clay/internal/pattern"
	"github.com/clayscript/clay/internal/types"
)

// Evaluator holds the shared, process-global tables the concrete walk
// consults -- the same tables internal/analyzer consults, so a procedure
// resolved during analysis is evaluated against the very same invocation
// table entry (spec.md's "analyze, then evaluate, reusing one invocation
// table" flow).
type Evaluator struct {
	Types   *types.Table
	Objects *object.Index
	Diag    *diag.Stack
	// JIT is consulted only for external-procedure calls (spec.md §4.8);
	// left nil, a program with no `external` declarations never touches
	// it. Declared as a narrow interface here, in the consumer's package,
	// so internal/ffi's concrete backend can be swapped without this
	// package depending on it (spec.md Design Notes §9, "JIT coupling").
	JIT JIT
}

// JIT is the evaluator's view of the external-procedure bridge: build a
// callable thunk for a declared external procedure once, then invoke it
// with already-evaluated argument Values.
type JIT interface {
	BuildExternal(item *ast.ExternalProcedureItem, tt *types.Table) (any, error)
	Invoke(handle any, tt *types.Table, args []*Value) (*Value, error)
}

func New(tt *types.Table, ix *object.Index, d *diag.Stack) *Evaluator {
	return &Evaluator{Types: tt, Objects: ix, Diag: d}
}

// matchContext adapts Evaluator to match.Context for concrete matching:
// patterns are built the same way the analyzer builds them (match.BuildPattern
// is mode-agnostic), but the predicate is actually executed to a Bool value
// rather than approximated (spec.md Design Notes §9).
type matchContext struct{ e *Evaluator }

func (c matchContext) EvalPattern(expr ast.Expression, scope *env.Environment) (pattern.Pattern, error) {
	return match.BuildPattern(expr, scope)
}

func (c matchContext) EvalPredicate(expr ast.Expression, scope *env.Environment) (bool, error) {
	ts := &Stack{}
	ts.Push()
	defer ts.Pop()
	v, err := c.e.Eval(expr, scope, ts)
	if err != nil {
		return false, err
	}
	if v.Type.Kind != types.KBool {
		return false, fmt.Errorf("predicate must be Bool, got %s", v.Type)
	}
	return v.Raw.(bool), nil
}

// BindArg binds name to the argument's already-evaluated *Value so the
// body can resolve it by name (evalNameRef's *Value case).
func (c matchContext) BindArg(scope *env.Environment, name string, arg match.Arg) error {
	v, err := arg.Value()
	if err != nil {
		return err
	}
	val, ok := v.(*Value)
	if !ok {
		return fmt.Errorf("internal: expected *Value for %q, got %T", name, v)
	}
	scope.Bind(name, val)
	return nil
}

// valueArg adapts a *Value to match.Arg.
type valueArg struct{ v *Value }

func (a valueArg) Type() types.Type    { return a.v.Type }
func (a valueArg) Value() (any, error) { return a.v, nil }

// Eval evaluates e in scope, installing any freshly-constructed owning
// temporary into ts's current block (spec.md §5).
func (e *Evaluator) Eval(expr ast.Expression, scope *env.Environment, ts *Stack) (*Value, error) {
	switch n := expr.(type) {
	case *ast.BoolLit:
		return e.install(ts, NewOwned(types.Bool(), n.Value)), nil

	case *ast.IntLit:
		return e.evalIntLit(n, ts)

	case *ast.FloatLit:
		t := types.Float64()
		if n.Suffix == "f32" {
			t = types.Float32()
		}
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed float literal %q: %w", n.Text, err)
		}
		return e.install(ts, NewOwned(t, f)), nil

	case *ast.CharLit:
		return e.Eval(desugar.Char(n), scope, ts)

	case *ast.StringLit:
		return e.Eval(desugar.String(n), scope, ts)

	case *ast.TupleExpr:
		return e.Eval(desugar.Tuple(n), scope, ts)

	case *ast.ArrayExpr:
		return e.Eval(desugar.Array(n), scope, ts)

	case *ast.UnaryOp:
		return e.Eval(desugar.Unary(n), scope, ts)

	case *ast.BinaryOp:
		return e.Eval(desugar.Binary(n), scope, ts)

	case *ast.ShortCircuit:
		l, err := e.Eval(n.Left, scope, ts)
		if err != nil {
			return nil, err
		}
		if l.Type.Kind != types.KBool {
			return nil, fmt.Errorf("%s requires Bool operands", n.Op)
		}
		lb := l.Raw.(bool)
		if n.Op == "and" && !lb {
			return e.install(ts, NewOwned(types.Bool(), false)), nil
		}
		if n.Op == "or" && lb {
			return e.install(ts, NewOwned(types.Bool(), true)), nil
		}
		r, err := e.Eval(n.Right, scope, ts)
		if err != nil {
			return nil, err
		}
		if r.Type.Kind != types.KBool {
			return nil, fmt.Errorf("%s requires Bool operands", n.Op)
		}
		return e.install(ts, NewOwned(types.Bool(), r.Raw.(bool))), nil

	case *ast.NameRef:
		return e.evalNameRef(n, scope)

	case *ast.FieldRef:
		rec, err := e.Eval(n.Target, scope, ts)
		if err != nil {
			return nil, err
		}
		if rec.Type.Kind != types.KRecord {
			return nil, fmt.Errorf("field access on a non-record value")
		}
		fields := rec.Raw.(map[string]*Value)
		f, ok := fields[n.Name]
		if !ok {
			return nil, fmt.Errorf("record %s has no field %q", rec.Type.Record.Name, n.Name)
		}
		return e.install(ts, f.View()), nil

	case *ast.TupleRef:
		tup, err := e.Eval(n.Target, scope, ts)
		if err != nil {
			return nil, err
		}
		if tup.Type.Kind != types.KTuple {
			return nil, fmt.Errorf("tuple access on a non-tuple value")
		}
		elems := tup.Raw.([]*Value)
		if n.Index < 0 || n.Index >= len(elems) {
			return nil, fmt.Errorf("tuple index %d out of range", n.Index)
		}
		return e.install(ts, elems[n.Index].View()), nil

	case *ast.IndexExpr:
		return e.evalCall(n.Callee, n.Args, scope, ts)

	case *ast.CallExpr:
		return e.evalCall(n.Callee, n.Args, scope, ts)

	case *ast.ValueExpr:
		return n.Value.(*Value), nil

	case *ast.EnvExpr:
		capturedEnv := n.Env.(*env.Environment)
		return e.Eval(n.Inner, capturedEnv, ts)

	default:
		return nil, fmt.Errorf("evaluator: unsupported expression %T", expr)
	}
}

// install records v in ts's current temp block if it is owning, then
// returns it -- the point at which a freshly-constructed value becomes
// subject to the block's destroy-on-pop discipline (spec.md §5).
func (e *Evaluator) install(ts *Stack, v *Value) *Value {
	if len(ts.blocks) > 0 {
		ts.Top().Install(v)
	}
	return v
}

func (e *Evaluator) evalIntLit(n *ast.IntLit, ts *Stack) (*Value, error) {
	suffix := n.Suffix
	if suffix == "" {
		suffix = "i32"
	}
	t, err := suffixType(suffix)
	if err != nil {
		return nil, err
	}
	if t.IsSignedInteger() {
		v, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed integer literal %q: %w", n.Text, err)
		}
		if err := rangeCheck(t, v); err != nil {
			return nil, err
		}
		return e.install(ts, NewOwned(t, v)), nil
	}
	v, err := strconv.ParseUint(n.Text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed integer literal %q: %w", n.Text, err)
	}
	if err := rangeCheck(t, v); err != nil {
		return nil, err
	}
	return e.install(ts, NewOwned(t, v)), nil
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

func (e *Evaluator) evalNameRef(n *ast.NameRef, scope *env.Environment) (*Value, error) {
	obj, ok := scope.Lookup(n.Name)
	if !ok {
		return nil, fmt.Errorf("undefined name %q", n.Name)
	}
	switch v := obj.(type) {
	case *Value:
		return v, nil
	case types.Type:
		return NewOwned(types.CompilerObject(), e.Objects.Lower(object.KindType, v)), nil
	case *ast.RecordItem:
		return NewOwned(types.CompilerObject(), e.Objects.Lower(object.KindRecord, v)), nil
	case *ast.ProcedureItem:
		return NewOwned(types.CompilerObject(), e.Objects.Lower(object.KindProcedure, v)), nil
	case *ast.OverloadableItem:
		return NewOwned(types.CompilerObject(), e.Objects.Lower(object.KindOverloadable, v)), nil
	case *ast.ExternalProcedureItem:
		return NewOwned(types.CompilerObject(), e.Objects.Lower(object.KindExternalProcedure, v)), nil
	case *ast.PrimitiveOp:
		return NewOwned(types.CompilerObject(), e.Objects.Lower(object.KindPrimitiveOp, v)), nil
	default:
		return nil, fmt.Errorf("name %q resolves to an unsupported object %T", n.Name, obj)
	}
}

// evalCall implements spec.md §4.6's call/indexing evaluation: resolve the
// (necessarily static) callee to a compiler object, then dispatch on its
// kind.
func (e *Evaluator) evalCall(calleeExpr ast.Expression, argExprs []ast.Expression, scope *env.Environment, ts *Stack) (*Value, error) {
	name, ok := calleeExpr.(*ast.NameRef)
	if !ok {
		return nil, fmt.Errorf("invalid indexing/call operation: unsupported callee expression %T", calleeExpr)
	}
	obj, ok := scope.Lookup(name.Name)
	if !ok {
		return nil, fmt.Errorf("undefined name %q", name.Name)
	}

	switch callable := obj.(type) {
	case *ast.PrimitiveOp:
		args := make([]*Value, len(argExprs))
		for i, ae := range argExprs {
			v, err := e.Eval(ae, scope, ts)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		fn, ok := Primitives[callable.Name]
		if !ok {
			return nil, fmt.Errorf("unknown primitive %q", callable.Name)
		}
		v, err := fn(e.Types, e.Objects, args)
		if err != nil {
			return nil, err
		}
		return e.install(ts, v), nil

	case *ast.RecordItem:
		return e.evalRecordConstruction(callable, argExprs, scope, ts)

	case *ast.ProcedureItem:
		table, ok := callable.InvocationTable.(*invocation.Table)
		if !ok {
			table = invocation.NewTable(0)
			callable.InvocationTable = table
		}
		return e.evalInvocation(&callable.Code, table, argExprs, scope, ts)

	case *ast.OverloadableItem:
		return e.evalOverloadable(callable, argExprs, scope, ts)

	case *ast.ExternalProcedureItem:
		return e.evalExternalCall(callable, argExprs, scope, ts)

	default:
		return nil, fmt.Errorf("%q is not callable", name.Name)
	}
}

// evalExternalCall implements spec.md §4.8: an external procedure lazily
// builds its JIT thunk on first call, cached on the item itself, then
// marshals already-evaluated argument Values through it.
func (e *Evaluator) evalExternalCall(item *ast.ExternalProcedureItem, argExprs []ast.Expression, scope *env.Environment, ts *Stack) (*Value, error) {
	if e.JIT == nil {
		return nil, fmt.Errorf("external procedure %q called with no JIT backend configured", item.Name)
	}
	if item.JITHandle == nil {
		h, err := e.JIT.BuildExternal(item, e.Types)
		if err != nil {
			return nil, fmt.Errorf("building external procedure %q: %w", item.Name, err)
		}
		item.JITHandle = h
	}
	args := make([]*Value, len(argExprs))
	for i, ae := range argExprs {
		v, err := e.Eval(ae, scope, ts)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := e.JIT.Invoke(item.JITHandle, e.Types, args)
	if err != nil {
		return nil, fmt.Errorf("invoking external procedure %q: %w", item.Name, err)
	}
	return e.install(ts, v), nil
}

func (e *Evaluator) evalRecordConstruction(rec *ast.RecordItem, argExprs []ast.Expression, scope *env.Environment, ts *Stack) (*Value, error) {
	code := &ast.Code{PatternVars: rec.PatternVars, Formals: rec.Fields}
	args := make([]*Value, len(argExprs))
	margs := make([]match.Arg, len(argExprs))
	for i, ae := range argExprs {
		v, err := e.Eval(ae, scope, ts)
		if err != nil {
			return nil, err
		}
		args[i] = v
		margs[i] = valueArg{v}
	}

	scopeEnv, fail := match.Match(matchContext{e}, code, scope, margs)
	if fail != nil {
		return nil, fail
	}

	params := make([]any, len(rec.PatternVars))
	for i, pv := range rec.PatternVars {
		v, _ := scopeEnv.Lookup(pv)
		params[i] = v
	}
	rt := e.Types.Record(rec.Def, params)

	fields := make(map[string]*Value, len(rec.Fields))
	for i, f := range rec.Fields {
		fields[f.Name] = args[i].Clone()
	}
	return e.install(ts, NewOwned(rt, fields)), nil
}

// evalInvocation locates the invocation-table entry the analyzer already
// resolved for this exact argument key (spec.md's analyze-then-evaluate
// flow reuses one table) and executes its body with fresh concrete
// bindings. If no Resolved entry exists yet (a call path the analyzer's
// conservative walk never reached, e.g. inside an unreachable branch) it
// is resolved here, matching analyzeInvocation's own match-then-run shape.
func (e *Evaluator) evalInvocation(code *ast.Code, table *invocation.Table, argExprs []ast.Expression, scope *env.Environment, ts *Stack) (*Value, error) {
	if table.StaticFlags == nil {
		flags := make([]bool, len(code.Formals))
		for i, f := range code.Formals {
			flags[i] = f.Static
		}
		if err := table.SetStaticFlags(flags); err != nil {
			return nil, err
		}
	}

	args := make([]*Value, len(argExprs))
	margs := make([]match.Arg, len(argExprs))
	key := make([]invocation.ArgKey, len(argExprs))
	for i, ae := range argExprs {
		v, err := e.Eval(ae, scope, ts)
		if err != nil {
			return nil, err
		}
		args[i] = v
		margs[i] = valueArg{v}
		if i < len(table.StaticFlags) && table.StaticFlags[i] {
			// Mirrors analyzer.buildArgKey: the invocation table specializes
			// on a static position's *type*, not its runtime value, so an
			// entry resolved during analysis is found again here unchanged.
			key[i] = invocation.ArgKey{Dynamic: false, Value: v.Type}
		} else {
			key[i] = invocation.ArgKey{Dynamic: true, Type: v.Type}
		}
	}

	entry := table.Install(key)
	entryEnv, _ := entry.Env.(*env.Environment)
	entryCode, _ := entry.Code.(*ast.Code)
	if entryCode == nil {
		entryCode = code
	}

	bodyScope, fail := match.Match(matchContext{e}, entryCode, scope, margs)
	if fail != nil {
		return nil, fail
	}
	_ = entryEnv // the analyzer's scope is type-only; evaluation always rebuilds concrete bindings

	btb := &Stack{}
	btb.Push()
	result, sig, err := e.execStmt(entryCode.Body, bodyScope, btb)
	btb.Pop()
	if err != nil {
		return nil, err
	}
	if sig != ctrlReturn && sig != ctrlReturnRef {
		return nil, fmt.Errorf("procedure body fell through without returning")
	}
	if entry.State == invocation.Fresh {
		entry.ReturnType = result.Type
		entry.ReturnTypeCommitted = true
		entry.ByRef = sig == ctrlReturnRef
		entry.State = invocation.Resolved
	}
	return e.install(ts, result), nil
}

func (e *Evaluator) evalOverloadable(ov *ast.OverloadableItem, argExprs []ast.Expression, scope *env.Environment, ts *Stack) (*Value, error) {
	arity := len(argExprs)
	raw, ok := ov.InvocationTables[arity]
	table, ok2 := raw.(*invocation.Table)
	if !ok || !ok2 {
		table = invocation.NewTable(0)
		ov.InvocationTables[arity] = table
	}

	args := make([]*Value, len(argExprs))
	for i, ae := range argExprs {
		v, err := e.Eval(ae, scope, ts)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	var lastErr error
	for i := range ov.Overloads {
		code := &ov.Overloads[i]
		if len(code.Formals) != arity {
			continue
		}
		v, err := e.evalInvocationWithArgs(code, table, args, scope, ts)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no matching overload for %s/%d", ov.Name, arity)
	}
	return nil, lastErr
}

// evalInvocationWithArgs is evalInvocation's body, factored out so
// evalOverloadable can try each overload against already-evaluated
// arguments instead of re-evaluating argExprs once per candidate overload.
func (e *Evaluator) evalInvocationWithArgs(code *ast.Code, table *invocation.Table, args []*Value, scope *env.Environment, ts *Stack) (*Value, error) {
	if table.StaticFlags == nil {
		flags := make([]bool, len(code.Formals))
		for i, f := range code.Formals {
			flags[i] = f.Static
		}
		if err := table.SetStaticFlags(flags); err != nil {
			return nil, err
		}
	}
	margs := make([]match.Arg, len(args))
	for i, v := range args {
		margs[i] = valueArg{v}
	}

	bodyScope, fail := match.Match(matchContext{e}, code, scope, margs)
	if fail != nil {
		return nil, fail
	}

	btb := &Stack{}
	btb.Push()
	result, sig, err := e.execStmt(code.Body, bodyScope, btb)
	btb.Pop()
	if err != nil {
		return nil, err
	}
	if sig != ctrlReturn && sig != ctrlReturnRef {
		return nil, fmt.Errorf("procedure body fell through without returning")
	}
	return e.install(ts, result), nil
}
