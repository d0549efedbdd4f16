// Package ffi implements spec.md §4.8's External Procedure Bridge: for
// each `external` declaration, lazily build a JIT thunk and invoke it,
// marshalling Clay Values across the boundary.
//
// The narrow Engine/JIT split is grounded on
// _examples/funvibe-funxy/internal/backend/backend.go's minimal
// `Backend` interface (`Run`/`Name`) -- spec.md Design Notes §9 asks for
// exactly that shape ("depend on the backend only through a narrow
// interface: build a function of a signature, obtain its invoker, request
// a struct layout, request a type size"). This package provides one
// in-process reference implementation that lays out and calls external
// functions using Go's own `reflect`/`plugin`-free calling convention as a
// stand-in native ABI: it is not an LLVM JIT, but it satisfies the same
// contract a real one would, so the engine compiles unchanged against a
// future real backend.
package ffi

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/evaluator"
	"github.com/clayscript/clay/internal/types"
)

// Signature describes one external procedure's C-style shape.
type Signature struct {
	Name   string
	Args   []types.Type
	Return types.Type // types.Void() if absent
}

// NativeFunc is the Go-side implementation an external procedure resolves
// to. Real native linkage (dlopen+dlsym, or a true LLVM JIT) would replace
// this lookup; the reference engine instead resolves by name against a
// small registered table, which is enough to exercise spec.md §4.8's
// lazy-build-then-invoke contract end to end.
type NativeFunc func(args []any) (any, error)

// thunk is the opaque handle stored in ast.ExternalProcedureItem.JITHandle.
type thunk struct {
	buildID uuid.UUID
	sig     Signature
	fn      NativeFunc
}

// Engine is the reference JIT backend: it satisfies evaluator.JIT.
type Engine struct {
	// Registry maps an external procedure's declared name to its Go-side
	// implementation. A real backend would instead resolve external
	// linkage symbols; the registry is this package's stand-in for that
	// resolution step.
	Registry map[string]NativeFunc
	// Trace, if non-nil, receives one line per thunk build (its UUID
	// build-id plus signature). cmd/clay does not set it.
	Trace func(format string, args ...any)
}

// NewEngine builds an Engine with an empty registry.
func NewEngine() *Engine {
	return &Engine{Registry: make(map[string]NativeFunc)}
}

// Register installs fn as name's native implementation. Must be called
// before the first call to an `external` declaration of that name.
func (e *Engine) Register(name string, fn NativeFunc) {
	e.Registry[name] = fn
}

// BuildExternal implements evaluator.JIT: build the function's signature
// from its declared argument/return type expressions and tag it with a
// fresh build-id (SPEC_FULL.md §11's collision-proofing for cross-process
// comparison). The build-id is reported only through Trace; introspection
// snapshots do not include it.
func (e *Engine) BuildExternal(item *ast.ExternalProcedureItem, tt *types.Table) (any, error) {
	sig := Signature{Name: item.Name, Return: types.Void()}
	for _, a := range item.Args {
		t, err := resolveTypeExpr(a.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a.Name, err)
		}
		sig.Args = append(sig.Args, t)
	}
	if item.ReturnType != nil {
		t, err := resolveTypeExpr(item.ReturnType)
		if err != nil {
			return nil, fmt.Errorf("return type: %w", err)
		}
		sig.Return = t
	}

	fn, ok := e.Registry[item.Name]
	if !ok {
		return nil, fmt.Errorf("no native implementation registered for external procedure %q", item.Name)
	}

	t := &thunk{buildID: uuid.New(), sig: sig, fn: fn}
	if e.Trace != nil {
		e.Trace("ffi: built %s/%d -> %s (build %s)", item.Name, len(sig.Args), sig.Return, t.buildID)
	}
	return t, nil
}

// resolveTypeExpr handles the common case of a bare NameRef to a base
// type (e.g. `Float64`); external-procedure signatures in spec.md §4.8
// are always C-style scalar/pointer shapes, not pattern expressions, so
// this does not need match.BuildPattern's generality.
func resolveTypeExpr(expr ast.Expression) (types.Type, error) {
	n, ok := expr.(*ast.NameRef)
	if !ok {
		return types.Type{}, fmt.Errorf("unsupported external-procedure type expression %T", expr)
	}
	t, ok := types.ByName(n.Name)
	if !ok {
		return types.Type{}, fmt.Errorf("unknown external-procedure type %q", n.Name)
	}
	return t, nil
}

// Invoke implements evaluator.JIT: marshal args to their Go-native
// payload, call the registered NativeFunc, and lift the result back into
// an owned Value of the declared return type.
func (e *Engine) Invoke(handle any, tt *types.Table, args []*evaluator.Value) (*evaluator.Value, error) {
	t, ok := handle.(*thunk)
	if !ok {
		return nil, fmt.Errorf("invalid external-procedure handle %T", handle)
	}
	if len(args) != len(t.sig.Args) {
		return nil, fmt.Errorf("external procedure %q: expected %d argument(s), got %d", t.sig.Name, len(t.sig.Args), len(args))
	}
	native := make([]any, len(args))
	for i, a := range args {
		if !types.Identical(a.Type, t.sig.Args[i]) {
			return nil, fmt.Errorf("external procedure %q: argument %d type mismatch (%s vs %s)", t.sig.Name, i, a.Type, t.sig.Args[i])
		}
		native[i] = a.Raw
	}
	result, err := t.fn(native)
	if err != nil {
		return nil, err
	}
	if t.sig.Return.Kind == types.KVoid {
		return evaluator.NewOwned(types.Void(), nil), nil
	}
	return evaluator.NewOwned(t.sig.Return, result), nil
}

// TypeSize reports t's in-memory size, delegating to the type table's own
// hash-consed size computation (spec.md §4.8's "for any type: in-memory
// size" collaborator API).
func (e *Engine) TypeSize(t types.Type) int { return types.SizeOf(t) }

// StructLayout reports t's element->byte-offset mapping for a structured
// type (spec.md §4.8's "for structured types a struct-layout object").
func (e *Engine) StructLayout(t types.Type) []int { return types.Layout(t) }

// goKind reports the reflect.Kind a Clay scalar type marshals to across
// the FFI boundary, used by a real native backend's argument packing;
// kept here as the one place that decision is made so a future non-Go
// native backend only has to change this function.
func goKind(t types.Type) reflect.Kind {
	switch {
	case t.Kind == types.KBool:
		return reflect.Bool
	case t.IsFloat():
		if t.Kind == types.KFloat32 {
			return reflect.Float32
		}
		return reflect.Float64
	case t.IsSignedInteger():
		switch t.IntWidth() {
		case 8:
			return reflect.Int8
		case 16:
			return reflect.Int16
		case 32:
			return reflect.Int32
		default:
			return reflect.Int64
		}
	case t.IsInteger():
		switch t.IntWidth() {
		case 8:
			return reflect.Uint8
		case 16:
			return reflect.Uint16
		case 32:
			return reflect.Uint32
		default:
			return reflect.Uint64
		}
	default:
		return reflect.Ptr
	}
}
