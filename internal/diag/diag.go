// Package diag implements Clay's diagnostic rendering (spec.md §7): a
// single fatal-error primitive surfaces every error kind through one
// formatted message of the shape `<file>(<line>,<col>): error: <message>`
// plus a ±2-line source context window with a caret.
//
// Grounded on go-dws's caret-diagnostic formatting approach (adapted to
// spec.md's parens-not-colon convention) and the teacher's go-isatty usage
// for TTY-gated coloring.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
)

// Kind is one of spec.md §7's abstract error kinds.
type Kind string

const (
	Lexical    Kind = "lexical"
	Syntactic  Kind = "syntactic"
	Resolution Kind = "resolution"
	Match      Kind = "match"
	TypeError  Kind = "type"
	Inference  Kind = "inference"
	Primitive  Kind = "primitive"
	External   Kind = "external"
)

// Diagnostic is one fatal error.
type Diagnostic struct {
	File    string
	Line    int
	Col     int
	Kind    Kind
	Message string
	Source  []string // the file's lines, for the context window; may be nil
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s(%d,%d): error: %s", d.File, d.Line, d.Col, d.Message)
}

// Render writes the one-line diagnostic followed by a ±2-line context
// window with a caret under the offending column. color forces ANSI
// coloring on/off; use ColorForStream to derive it from a stream.
func (d *Diagnostic) Render(w io.Writer, color bool) {
	if color {
		fmt.Fprintf(w, "\x1b[1;31m%s\x1b[0m\n", d.Error())
	} else {
		fmt.Fprintln(w, d.Error())
	}
	if d.Source == nil || d.Line-1 >= len(d.Source) || d.Line-1 < 0 {
		return
	}
	start := d.Line - 3
	if start < 0 {
		start = 0
	}
	end := d.Line + 2
	if end > len(d.Source) {
		end = len(d.Source)
	}
	for i := start; i < end; i++ {
		fmt.Fprintf(w, "  %4d | %s\n", i+1, d.Source[i])
		if i == d.Line-1 {
			col := d.Col
			if col < 1 {
				col = 1
			}
			fmt.Fprintf(w, "       | %s^\n", strings.Repeat(" ", col-1))
		}
	}
}

// ColorForStream reports whether the file descriptor fd is a terminal,
// mirroring the teacher's go-isatty-gated coloring decision.
func ColorForStream(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Location is one frame of the location stack (spec.md §5): pushed/popped
// by a scoped context object for every AST node whose location enters
// evaluation. Errors read the top non-empty location.
type Location struct {
	File string
	Line int
	Col  int
}

// Stack is a LIFO of Locations, push/pop nested by AST traversal.
type Stack struct {
	frames []Location
}

// Push enters a new location frame; the returned func pops it -- callers
// are expected to `defer stack.Push(loc)()`.
func (s *Stack) Push(loc Location) func() {
	s.frames = append(s.frames, loc)
	return func() {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Top returns the innermost (most recently pushed) location, or the zero
// Location if the stack is empty.
func (s *Stack) Top() Location {
	if len(s.frames) == 0 {
		return Location{}
	}
	return s.frames[len(s.frames)-1]
}

// New builds a Diagnostic anchored at the stack's current top location.
func (s *Stack) New(kind Kind, format string, args ...any) *Diagnostic {
	loc := s.Top()
	return &Diagnostic{File: loc.File, Line: loc.Line, Col: loc.Col, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
