// Package env implements Clay's lexical environments and module globals,
// per spec.md §4.2. Lookups walk a parent chain; entering a module switches
// to global lookup, which additionally consults imported modules' globals,
// guarded against import cycles by a per-module lookupBusy flag.
package env

import (
	"fmt"

	"github.com/clayscript/clay/internal/object"
)

// Environment is a single lexical frame: a name->object map plus a parent.
// The parent is either another Environment (nested scope) or nil, in which
// case Module supplies the next link in the chain.
type Environment struct {
	Parent *Environment
	Module *Module // non-nil only for a frame that is a module's root scope
	vars   map[string]any
}

// New creates a child frame of parent (parent may be nil for a module root,
// in which case Module must be set separately).
func New(parent *Environment) *Environment {
	return &Environment{Parent: parent, vars: make(map[string]any)}
}

// Bind installs name -> obj in this frame. name starting with the reserved
// '%' prefix is accepted here (internal desugaring temporaries); user-facing
// binding statements must reject it before calling Bind -- see
// internal/evaluator's binding-statement handling.
func (e *Environment) Bind(name string, obj any) {
	e.vars[name] = obj
}

// Lookup walks the parent chain, switching to module-global lookup when the
// chain bottoms out at a module root.
func (e *Environment) Lookup(name string) (any, bool) {
	for f := e; f != nil; f = f.Parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
		if f.Module != nil {
			return f.Module.lookupGlobal(name, f.Module)
		}
	}
	return nil, false
}

// Module represents one loaded Clay source file's globals plus its import
// list. spec.md §4.2: "a module's own lookupBusy flag breaks import cycles
// during name resolution."
type Module struct {
	Path       string // dotted module name, e.g. "a.b.c"
	Globals    map[string]any
	Exports    map[string]bool // public names; absent/false => private
	Imports    []*Module
	lookupBusy bool
}

// NewModule creates an empty module ready to have its globals installed.
func NewModule(path string) *Module {
	return &Module{Path: path, Globals: make(map[string]any), Exports: make(map[string]bool)}
}

// Export marks name as part of m's public interface.
func (m *Module) Export(name string) { m.Exports[name] = true }

// lookupGlobal resolves name against m's own globals, then recursively
// against its imports' *public* globals, using lookupBusy to avoid
// recursing into an import cycle.
func (m *Module) lookupGlobal(name string, from *Module) (any, bool) {
	if m.lookupBusy {
		return nil, false
	}
	m.lookupBusy = true
	defer func() { m.lookupBusy = false }()

	if v, ok := m.Globals[name]; ok {
		return v, true
	}
	for _, imp := range m.Imports {
		if v, ok := imp.lookupPublic(name); ok {
			return v, true
		}
	}
	return nil, false
}

// lookupPublic consults only a module's export list -- used when resolving
// a name through an import, as opposed to within the module itself.
func (m *Module) lookupPublic(name string) (any, bool) {
	if m.lookupBusy {
		return nil, false
	}
	if !m.Exports[name] {
		return nil, false
	}
	m.lookupBusy = true
	defer func() { m.lookupBusy = false }()

	if v, ok := m.Globals[name]; ok {
		return v, true
	}
	for _, imp := range m.Imports {
		if v, ok := imp.lookupPublic(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Root builds the module's root environment, the frame at which further
// lexical lookups bottom out into the module's globals.
func (m *Module) Root() *Environment {
	return &Environment{Module: m, vars: make(map[string]any)}
}

// BindChecked is the user-facing binding path (statement-level var/ref/
// static): it rejects the '%' reserved prefix, unlike Bind used internally
// by the for-loop desugaring.
func (e *Environment) BindChecked(name string, obj any) error {
	if object.IsReserved(name) {
		return fmt.Errorf("identifier %q uses the reserved '%%' prefix", name)
	}
	e.Bind(name, obj)
	return nil
}
