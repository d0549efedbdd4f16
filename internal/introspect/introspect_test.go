package introspect

import (
	"testing"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/invocation"
	"github.com/clayscript/clay/internal/object"
)

func TestNewServerParsesEmbeddedDescriptor(t *testing.T) {
	srv, err := NewServer(object.NewIndex())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if srv.sd == nil || srv.sd.GetFullyQualifiedName() != "clay.introspect.Introspect" {
		t.Fatalf("service descriptor not resolved: %+v", srv.sd)
	}
	if len(srv.sd.GetMethods()) != 1 {
		t.Fatalf("got %d methods, want 1", len(srv.sd.GetMethods()))
	}
}

func TestRegisterModuleCollectsProceduresAndOverloadables(t *testing.T) {
	srv, err := NewServer(object.NewIndex())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	m := env.NewModule("main")

	proc := &ast.ProcedureItem{Code: ast.Code{Formals: []ast.FormalArg{{Name: "x"}}}}
	table := invocation.NewTable(0)
	table.Install([]invocation.ArgKey{{Dynamic: false, Value: 1}})
	proc.InvocationTable = table
	m.Globals["double"] = proc

	ov := &ast.OverloadableItem{InvocationTables: map[int]any{1: invocation.NewTable(0)}}
	m.Globals["describe"] = ov

	unexercised := &ast.OverloadableItem{InvocationTables: map[int]any{}}
	m.Globals["never called"] = unexercised

	srv.RegisterModule(m)

	byName := make(map[string]Source, len(srv.Sources))
	for _, s := range srv.Sources {
		byName[s.Name] = s
	}

	d, ok := byName["double"]
	if !ok {
		t.Fatalf("expected a Source for %q", "double")
	}
	if d.Arity != 1 {
		t.Fatalf("got arity %d, want 1", d.Arity)
	}
	count, _ := d.Table.Occupancy()
	if count != 1 {
		t.Fatalf("got occupancy %d, want 1", count)
	}

	desc, ok := byName["describe"]
	if !ok {
		t.Fatalf("expected a Source for %q", "describe")
	}
	if desc.Arity != 1 || desc.Table == nil {
		t.Fatalf("got %+v", desc)
	}

	never, ok := byName["never called"]
	if !ok {
		t.Fatalf("expected a placeholder Source for %q", "never called")
	}
	if never.Arity != -1 || never.Table != nil {
		t.Fatalf("got %+v, want placeholder", never)
	}
}
