package ffi

import (
	"testing"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/evaluator"
	"github.com/clayscript/clay/internal/types"
)

func TestEngineBuildAndInvoke(t *testing.T) {
	e := NewEngine()
	e.Register("doubleIt", func(args []any) (any, error) {
		return args[0].(int64) * 2, nil
	})

	item := &ast.ExternalProcedureItem{
		Name:       "doubleIt",
		Args:       []ast.FormalArg{{Name: "x", Type: &ast.NameRef{Name: "Int32"}}},
		ReturnType: &ast.NameRef{Name: "Int32"},
	}

	handle, err := e.BuildExternal(item, nil)
	if err != nil {
		t.Fatalf("BuildExternal: %v", err)
	}

	in := evaluator.NewOwned(types.Int32(), int64(21))
	out, err := e.Invoke(handle, nil, []*evaluator.Value{in})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !types.Identical(out.Type, types.Int32()) {
		t.Fatalf("got return type %s, want Int32", out.Type)
	}
	if got := out.Raw.(int64); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestEngineBuildUnregistered(t *testing.T) {
	e := NewEngine()
	item := &ast.ExternalProcedureItem{Name: "missing"}
	if _, err := e.BuildExternal(item, nil); err == nil {
		t.Fatalf("expected an error for an unregistered external procedure")
	}
}

func TestEngineArgumentCountMismatch(t *testing.T) {
	e := NewEngine()
	e.Register("needsOne", func(args []any) (any, error) { return nil, nil })
	item := &ast.ExternalProcedureItem{
		Name: "needsOne",
		Args: []ast.FormalArg{{Name: "x", Type: &ast.NameRef{Name: "Int32"}}},
	}
	handle, err := e.BuildExternal(item, nil)
	if err != nil {
		t.Fatalf("BuildExternal: %v", err)
	}
	if _, err := e.Invoke(handle, nil, nil); err == nil {
		t.Fatalf("expected an argument-count mismatch error")
	}
}
