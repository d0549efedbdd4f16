// Package object implements the process-wide compiler-object index: a
// push-only table that hands out stable 32-bit handles for records,
// procedures, overloadables, external procedures, primitive operators,
// types, and interned identifiers.
package object

import "sync"

// Ident is an interned identifier. Two Idents are identical iff they were
// interned from the same string. Comparison is case-sensitive: "X" and "x"
// intern to distinct Idents, unlike case-folding symbol tables.
type Ident struct {
	name string
}

func (id Ident) String() string { return id.name }

// Name returns the underlying string.
func (id Ident) Name() string { return id.name }

var internMu sync.Mutex
var internTable = map[string]Ident{}

// Intern returns the unique Ident for name, creating it on first use.
func Intern(name string) Ident {
	internMu.Lock()
	defer internMu.Unlock()
	if id, ok := internTable[name]; ok {
		return id
	}
	id := Ident{name: name}
	internTable[name] = id
	return id
}

// ReservedPrefix marks names synthesized by the evaluator's own desugaring
// (convertForStatement's "%e"/"%i" temporaries). The prefix is illegal in
// user-written identifiers but accepted when the environment binds it
// internally. See Open Question #2 in DESIGN.md.
const ReservedPrefix = '%'

// IsReserved reports whether name uses the internal-only reserved prefix.
func IsReserved(name string) bool {
	return len(name) > 0 && name[0] == ReservedPrefix
}
