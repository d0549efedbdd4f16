// Package driver implements spec.md §6's loader: it turns a dotted module
// name or a file path into a fully linked env.Module -- parsing, merging
// overload declarations, wiring the implicit __primitives__/core imports
// every module gets without a source-level import statement -- and runs a
// loaded program's main() through the analyze-then-evaluate flow spec.md
// line 34 describes (the analyzer and the concrete evaluator share one
// invocation table per callable).
//
// Grounded on the teacher's pkg/cli/entry.go (evaluateModule's per-module
// cache, import processing, and runModule's load/analyze/evaluate phases),
// pruned of the bytecode-bundle, self-contained-binary, and ext-host
// machinery that dominates that file: spec.md's CLI contract is just
// `clay <file>` (spec.md §6), not a multi-command toolchain.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clayscript/clay/internal/analyzer"
	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/diag"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/evaluator"
	"github.com/clayscript/clay/internal/ffi"
	"github.com/clayscript/clay/internal/object"
	"github.com/clayscript/clay/internal/parser"
	"github.com/clayscript/clay/internal/types"
)

// Loader resolves module paths to parsed, linked env.Modules, sharing one
// set of process-global tables across every module it loads (spec.md §4.1:
// the object index and type table are process-wide, not per-module).
type Loader struct {
	Types   *types.Table
	Objects *object.Index
	Diag    *diag.Stack

	SearchPath []string // directories searched for a dotted import, in order

	modules map[string]*env.Module // cache, keyed by resolved dotted path
	prims   *env.Module
	core    *env.Module
}

// NewLoader builds a Loader with fresh process-global tables and a search
// path of searchPath plus "<exeDir>/lib-clay" (spec.md §6's default).
func NewLoader(searchPath []string) *Loader {
	l := &Loader{
		Types:      types.NewTable(),
		Objects:    object.NewIndex(),
		Diag:       &diag.Stack{},
		SearchPath: searchPath,
		modules:    make(map[string]*env.Module),
	}
	if exe, err := os.Executable(); err == nil {
		l.SearchPath = append(l.SearchPath, filepath.Join(filepath.Dir(exe), "lib-clay"))
	}
	return l
}

// resolvePath turns a dotted module name ("a.b.c") into a candidate file
// path under one of l.SearchPath's directories (spec.md §6).
func (l *Loader) resolvePath(dotted string) (string, error) {
	rel := strings.ReplaceAll(dotted, ".", string(filepath.Separator)) + ".clay"
	for _, dir := range l.SearchPath {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("module %q not found on search path %v", dotted, l.SearchPath)
}

// LoadFile loads and links the module at the given file path, using
// modulePath as its cache key and dotted identity (spec.md §4.2: a
// module's Path is its dotted name).
func (l *Loader) LoadFile(path, modulePath string) (*env.Module, error) {
	if m, ok := l.modules[modulePath]; ok {
		return m, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return l.loadSource(path, modulePath, string(src))
}

// LoadModule resolves and loads a dotted module name, e.g. an import
// directive's path (spec.md §6).
func (l *Loader) LoadModule(dotted string) (*env.Module, error) {
	if m, ok := l.modules[dotted]; ok {
		return m, nil
	}
	path, err := l.resolvePath(dotted)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(path, dotted)
}

func (l *Loader) loadSource(file, modulePath, src string) (*env.Module, error) {
	f, err := parser.ParseFile(file, src)
	if err != nil {
		return nil, err
	}

	m := env.NewModule(modulePath)
	l.modules[modulePath] = m // install before recursing, so import cycles see a partial module rather than reloading

	prims, err := l.primitivesModule()
	if err != nil {
		return nil, err
	}
	core, err := l.coreModule()
	if err != nil {
		return nil, err
	}
	if m != prims && m != core {
		m.Imports = append(m.Imports, prims, core)
	}

	for _, imp := range f.Imports {
		dep, err := l.LoadModule(imp.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		m.Imports = append(m.Imports, dep)
	}

	installTopLevel(m, f.Items)
	for _, name := range f.Exports {
		m.Export(name)
	}
	return m, nil
}

// installTopLevel installs f's top-level items into m's globals, folding
// every standalone `overload name(...)` item produced by the parser into
// the single canonical OverloadableItem its `overloadable name;`
// declaration already installed (spec.md §6; see internal/parser's
// documented split of this responsibility out of the parser itself).
func installTopLevel(m *env.Module, items []ast.TopLevel) {
	for _, item := range items {
		ov, ok := item.(*ast.OverloadableItem)
		if !ok {
			switch it := item.(type) {
			case *ast.RecordItem:
				m.Globals[it.Name] = it
			case *ast.ProcedureItem:
				m.Globals[it.Name] = it
			case *ast.ExternalProcedureItem:
				m.Globals[it.Name] = it
			}
			continue
		}
		existing, ok := m.Globals[ov.Name].(*ast.OverloadableItem)
		if !ok {
			if ov.InvocationTables == nil {
				ov.InvocationTables = map[int]any{}
			}
			m.Globals[ov.Name] = ov
			continue
		}
		existing.Overloads = append(existing.Overloads, ov.Overloads...)
	}
}

// primitivesModule lazily builds the synthesized __primitives__ module
// (spec.md §4.7): one ast.PrimitiveOp binding per closed-set primitive
// operator, plus the base type names every module needs without an
// explicit import.
func (l *Loader) primitivesModule() (*env.Module, error) {
	if l.prims != nil {
		return l.prims, nil
	}
	m := env.NewModule("__primitives__")
	l.prims = m // set before populating: primitivesModule never imports itself, but keeps the cache shape uniform

	for name := range evaluator.Primitives {
		m.Globals[name] = &ast.PrimitiveOp{Name: name}
		m.Export(name)
	}
	for _, name := range []string{
		"Bool", "Int8", "Int16", "Int32", "Int64",
		"UInt8", "UInt16", "UInt32", "UInt64",
		"Float32", "Float64", "Void",
	} {
		t, ok := types.ByName(name)
		if !ok {
			return nil, fmt.Errorf("__primitives__: unknown base type %q", name)
		}
		m.Globals[name] = t
		m.Export(name)
	}
	return m, nil
}

// coreModule lazily parses and installs the small Clay-source "core"
// library (core.go's coreSource): spec.md line 245's `add` and friends,
// implemented as plain non-overloaded procedures over the numeric
// primitives (see core.go's doc comment for why no per-type overload set
// is needed). It imports only __primitives__, never itself or "core".
func (l *Loader) coreModule() (*env.Module, error) {
	if l.core != nil {
		return l.core, nil
	}
	prims, err := l.primitivesModule()
	if err != nil {
		return nil, err
	}
	f, err := parser.ParseFile("<core>", coreSource)
	if err != nil {
		return nil, fmt.Errorf("internal error parsing core library: %w", err)
	}
	m := env.NewModule("core")
	m.Imports = append(m.Imports, prims)
	installTopLevel(m, f.Items)
	for name := range m.Globals {
		m.Export(name)
	}
	l.core = m
	return m, nil
}

// Program is a fully loaded entry-point module ready to run.
type Program struct {
	Module    *env.Module
	Analyzer  *analyzer.Analyzer
	Evaluator *evaluator.Evaluator
}

// LoadProgram loads path as the entry-point module (spec.md §6: `clay
// <file>` loads that file as the program's main module).
func (l *Loader) LoadProgram(path string) (*Program, error) {
	m, err := l.LoadFile(path, entryModulePath(path))
	if err != nil {
		return nil, err
	}
	ev := evaluator.New(l.Types, l.Objects, l.Diag)
	ev.JIT = ffi.NewEngine() // empty native registry: touched only if the program declares `external` procedures
	return &Program{
		Module:    m,
		Analyzer:  analyzer.New(l.Types, l.Objects, l.Diag),
		Evaluator: ev,
	}, nil
}

func entryModulePath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Run resolves main/0 in p's module and executes it, following spec.md
// line 34's "analyze, then evaluate, reusing one invocation table" flow:
// the analyzer walks the call first (installing/committing the
// invocation-table entry main's ProcedureItem lazily acquires on first
// use), then the concrete evaluator walks the identical call expression
// against the same table entry.
func (p *Program) Run() (*evaluator.Value, error) {
	scope := p.Module.Root()
	call := &ast.CallExpr{Callee: &ast.NameRef{Name: "main"}}

	if _, err := p.Analyzer.AnalyzeExpr(call, scope); err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	ts := &evaluator.Stack{}
	ts.Push()
	v, err := p.Evaluator.Eval(call, scope, ts)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return v, nil
}

// FormatValue renders a Value the way spec.md §8's end-to-end scenarios
// print a program's result: scalars in their natural Go syntax, composites
// structurally.
func FormatValue(v *evaluator.Value) string {
	return formatRaw(v.Type, v.Raw)
}

func formatRaw(t types.Type, raw any) string {
	switch t.Kind {
	case types.KBool:
		return fmt.Sprintf("%v", raw)
	case types.KInt8, types.KInt16, types.KInt32, types.KInt64:
		return fmt.Sprintf("%d", raw)
	case types.KUInt8, types.KUInt16, types.KUInt32, types.KUInt64:
		return fmt.Sprintf("%d", raw)
	case types.KFloat32, types.KFloat64:
		return fmt.Sprintf("%v", raw)
	case types.KVoid:
		return "void"
	case types.KArray, types.KTuple:
		elems := raw.([]*evaluator.Value)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case types.KRecord:
		fields := raw.(map[string]*evaluator.Value)
		parts := make([]string, 0, len(fields))
		for _, name := range t.Record.FieldNames {
			parts = append(parts, fmt.Sprintf("%s: %s", name, FormatValue(fields[name])))
		}
		return t.Record.Name + "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprintf("%v", raw)
	}
}
