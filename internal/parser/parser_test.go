package parser

import (
	"testing"

	"github.com/clayscript/clay/internal/ast"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, err := ParseFile("test.clay", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return f
}

func TestParseRecord(t *testing.T) {
	f := mustParse(t, "record Pair[A, B](first: A, second: B);")
	if len(f.Items) != 1 {
		t.Fatalf("got %d items", len(f.Items))
	}
	rec, ok := f.Items[0].(*ast.RecordItem)
	if !ok {
		t.Fatalf("got %T", f.Items[0])
	}
	if rec.Name != "Pair" || len(rec.PatternVars) != 2 || len(rec.Fields) != 2 {
		t.Fatalf("got %+v", rec)
	}
	if rec.Fields[0].Name != "first" || rec.Fields[1].Name != "second" {
		t.Fatalf("got fields %+v", rec.Fields)
	}
}

func TestParseProcedure(t *testing.T) {
	f := mustParse(t, "add(a, b) { return a + b; }")
	proc, ok := f.Items[0].(*ast.ProcedureItem)
	if !ok {
		t.Fatalf("got %T", f.Items[0])
	}
	if proc.Name != "add" || len(proc.Code.Formals) != 2 {
		t.Fatalf("got %+v", proc)
	}
	block, ok := proc.Code.Body.(*ast.Block)
	if !ok || len(block.Stmts) != 1 {
		t.Fatalf("got body %+v", proc.Code.Body)
	}
	ret, ok := block.Stmts[0].(*ast.Return)
	if !ok {
		t.Fatalf("got %T", block.Stmts[0])
	}
	bin, ok := ret.Value.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("got %+v", ret.Value)
	}
}

func TestParseProcedureWithPredicate(t *testing.T) {
	f := mustParse(t, "abs(x) if x < 0 { return 0 - x; }")
	proc := f.Items[0].(*ast.ProcedureItem)
	if proc.Code.Predicate == nil {
		t.Fatalf("expected predicate")
	}
}

func TestParseOverloadable(t *testing.T) {
	f := mustParse(t, "overloadable area;\noverload area(shape: Circle) { return 0; }")
	if len(f.Items) != 2 {
		t.Fatalf("got %d items", len(f.Items))
	}
	decl, ok := f.Items[0].(*ast.OverloadableItem)
	if !ok || decl.Name != "area" {
		t.Fatalf("got %+v", f.Items[0])
	}
	impl, ok := f.Items[1].(*ast.OverloadableItem)
	if !ok || impl.Name != "area" || len(impl.Overloads) != 1 {
		t.Fatalf("got %+v", f.Items[1])
	}
}

func TestParseExternal(t *testing.T) {
	f := mustParse(t, "external sqrt(x: Float64) Float64;")
	ext, ok := f.Items[0].(*ast.ExternalProcedureItem)
	if !ok || ext.Name != "sqrt" || len(ext.Args) != 1 || ext.ReturnType == nil {
		t.Fatalf("got %+v", f.Items[0])
	}
}

func TestParseStaticFormal(t *testing.T) {
	f := mustParse(t, "make[N](static size: N) { return size; }")
	proc := f.Items[0].(*ast.ProcedureItem)
	if len(proc.Code.Formals) != 1 || !proc.Code.Formals[0].Static || proc.Code.Formals[0].Pattern == nil {
		t.Fatalf("got %+v", proc.Code.Formals)
	}
}

func TestParseControlFlow(t *testing.T) {
	f := mustParse(t, `main() {
		var i = 0;
		while (i < 10) {
			if (i == 5) {
				break;
			}
			i = i + 1;
		}
		for (x in xs) {
			continue;
		}
		return i;
	}`)
	proc := f.Items[0].(*ast.ProcedureItem)
	block := proc.Code.Body.(*ast.Block)
	if len(block.Stmts) != 4 {
		t.Fatalf("got %d stmts", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*ast.Binding); !ok {
		t.Fatalf("stmt 0: got %T", block.Stmts[0])
	}
	if _, ok := block.Stmts[1].(*ast.While); !ok {
		t.Fatalf("stmt 1: got %T", block.Stmts[1])
	}
	if _, ok := block.Stmts[2].(*ast.For); !ok {
		t.Fatalf("stmt 2: got %T", block.Stmts[2])
	}
	if _, ok := block.Stmts[3].(*ast.Return); !ok {
		t.Fatalf("stmt 3: got %T", block.Stmts[3])
	}
}

func TestParseGotoLabel(t *testing.T) {
	f := mustParse(t, `main() {
		goto done;
		done:
		return 0;
	}`)
	block := f.Items[0].(*ast.ProcedureItem).Code.Body.(*ast.Block)
	if _, ok := block.Stmts[0].(*ast.Goto); !ok {
		t.Fatalf("stmt 0: got %T", block.Stmts[0])
	}
	if lbl, ok := block.Stmts[1].(*ast.Label); !ok || lbl.Name != "done" {
		t.Fatalf("stmt 1: got %+v", block.Stmts[1])
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	f := mustParse(t, "main() { return 1 + 2 * 3 == 7 and not false; }")
	ret := f.Items[0].(*ast.ProcedureItem).Code.Body.(*ast.Block).Stmts[0].(*ast.Return)
	sc, ok := ret.Value.(*ast.ShortCircuit)
	if !ok || sc.Op != "and" {
		t.Fatalf("got %+v", ret.Value)
	}
	eq, ok := sc.Left.(*ast.BinaryOp)
	if !ok || eq.Op != "==" {
		t.Fatalf("got %+v", sc.Left)
	}
	add, ok := eq.Left.(*ast.BinaryOp)
	if !ok || add.Op != "+" {
		t.Fatalf("got %+v", eq.Left)
	}
	mul, ok := add.Right.(*ast.BinaryOp)
	if !ok || mul.Op != "*" {
		t.Fatalf("got %+v", add.Right)
	}
}

func TestParseCallIndexFieldTuple(t *testing.T) {
	f := mustParse(t, "main() { return p.x.0(3)[1]; }")
	ret := f.Items[0].(*ast.ProcedureItem).Code.Body.(*ast.Block).Stmts[0].(*ast.Return)
	idx, ok := ret.Value.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("got %T", ret.Value)
	}
	call, ok := idx.Callee.(*ast.CallExpr)
	if !ok {
		t.Fatalf("got %T", idx.Callee)
	}
	tref, ok := call.Callee.(*ast.TupleRef)
	if !ok || tref.Index != 0 {
		t.Fatalf("got %+v", call.Callee)
	}
	fref, ok := tref.Target.(*ast.FieldRef)
	if !ok || fref.Name != "x" {
		t.Fatalf("got %+v", tref.Target)
	}
}

func TestParseImportExport(t *testing.T) {
	f := mustParse(t, `import "core/math" as math;
export area;
main() { return 0; }`)
	if len(f.Imports) != 1 || f.Imports[0].Path != "core/math" || f.Imports[0].Alias != "math" {
		t.Fatalf("got imports %+v", f.Imports)
	}
	if len(f.Exports) != 1 || f.Exports[0] != "area" {
		t.Fatalf("got exports %+v", f.Exports)
	}
}

func TestParseRefAndAssign(t *testing.T) {
	f := mustParse(t, `main() {
		ref r = x;
		r = r + 1;
		static s = T;
	}`)
	block := f.Items[0].(*ast.ProcedureItem).Code.Body.(*ast.Block)
	b0, ok := block.Stmts[0].(*ast.Binding)
	if !ok || b0.Kind != ast.BindRef {
		t.Fatalf("stmt 0: got %+v", block.Stmts[0])
	}
	if _, ok := block.Stmts[1].(*ast.Assign); !ok {
		t.Fatalf("stmt 1: got %T", block.Stmts[1])
	}
	b2, ok := block.Stmts[2].(*ast.Binding)
	if !ok || b2.Kind != ast.BindStatic {
		t.Fatalf("stmt 2: got %+v", block.Stmts[2])
	}
}
