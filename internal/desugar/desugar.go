// Package desugar implements spec.md §4.9's cached desugarings, shared
// between the analyzer and the concrete evaluator so the rewriting logic
// itself is never duplicated (spec.md Design Notes §9).
package desugar

import "github.com/clayscript/clay/internal/ast"

var binaryCoreName = map[string]string{
	"+":  "add",
	"-":  "subtract",
	"*":  "multiply",
	"/":  "divide",
	"%":  "remainder",
	"==": "equals?",
	"!=": "notEquals?",
	"<":  "lesser?",
	"<=": "lesserEquals?",
	">":  "greater?",
	">=": "greaterEquals?",
}

var unaryCoreName = map[string]string{
	"+": "plus",
	"-": "minus",
	"!": "boolNot",
}

// primitive (not core-function) unary forms: `*p` and `&x`.
var unaryPrimitiveName = map[string]string{
	"*": "pointerDereference",
	"&": "addressOf",
}

// Char rewrites a char literal to a call to the module-provided Char
// constructor, caching the result on the node.
func Char(n *ast.CharLit) ast.Expression {
	if n.Converted == nil {
		n.Converted = &ast.CallExpr{
			Callee: &ast.NameRef{Name: "Char"},
			Args:   []ast.Expression{&ast.IntLit{Text: itoa(int(n.Value)), Suffix: "u8"}},
		}
	}
	return n.Converted
}

// String rewrites a string literal to a call to the module-provided string
// constructor over an array of Char constructions.
func String(n *ast.StringLit) ast.Expression {
	if n.Converted == nil {
		elems := make([]ast.Expression, len(n.Value))
		for i := 0; i < len(n.Value); i++ {
			elems[i] = &ast.CallExpr{
				Callee: &ast.NameRef{Name: "Char"},
				Args:   []ast.Expression{&ast.IntLit{Text: itoa(int(n.Value[i])), Suffix: "u8"}},
			}
		}
		n.Converted = &ast.CallExpr{
			Callee: &ast.NameRef{Name: "string"},
			Args:   []ast.Expression{&ast.ArrayExpr{Elems: elems}},
		}
	}
	return n.Converted
}

// Tuple rewrites a tuple expression: one element desugars to the element
// itself; two-or-more desugars to a call `tuple(...)`.
func Tuple(n *ast.TupleExpr) ast.Expression {
	if n.Converted == nil {
		if len(n.Elems) == 1 {
			n.Converted = n.Elems[0]
		} else {
			n.Converted = &ast.CallExpr{Callee: &ast.NameRef{Name: "tuple"}, Args: n.Elems}
		}
	}
	return n.Converted
}

// Array rewrites an array expression to a call `array(...)`.
func Array(n *ast.ArrayExpr) ast.Expression {
	if n.Converted == nil {
		n.Converted = &ast.CallExpr{Callee: &ast.NameRef{Name: "array"}, Args: n.Elems}
	}
	return n.Converted
}

// Unary rewrites a unary operator to a call to its named core function or
// primitive.
func Unary(n *ast.UnaryOp) ast.Expression {
	if n.Converted == nil {
		if name, ok := unaryPrimitiveName[n.Op]; ok {
			n.Converted = &ast.CallExpr{Callee: &ast.NameRef{Name: name}, Args: []ast.Expression{n.Operand}}
		} else if name, ok := unaryCoreName[n.Op]; ok {
			n.Converted = &ast.CallExpr{Callee: &ast.NameRef{Name: name}, Args: []ast.Expression{n.Operand}}
		}
	}
	return n.Converted
}

// Binary rewrites a binary operator to a call to its named core function.
func Binary(n *ast.BinaryOp) ast.Expression {
	if n.Converted == nil {
		name := binaryCoreName[n.Op]
		n.Converted = &ast.CallExpr{Callee: &ast.NameRef{Name: name}, Args: []ast.Expression{n.Left, n.Right}}
	}
	return n.Converted
}

// forIterTemp and forIterName name the synthesized temporaries a for-loop
// rewrite introduces.
// They use the '%'-reserved prefix (spec.md §9 Open Questions) so they can
// never collide with a user identifier.
const (
	forIterTemp = "%e"
	forIterName = "%i"
)

// For rewrites `for (v in iterable) body` once to:
//
//	{ ref %e = iterable; var %i = iterator(%e);
//	  while (hasNext?(%i)) { ref v = next(%i); body } }
//
// caching the rewritten block on the node (spec.md §4.6).
func For(n *ast.For) ast.Statement {
	if n.Converted == nil {
		inner := &ast.Block{Stmts: []ast.Statement{
			&ast.Binding{Kind: ast.BindRef, Name: n.Var, Init: &ast.CallExpr{
				Callee: &ast.NameRef{Name: "next"},
				Args:   []ast.Expression{&ast.NameRef{Name: forIterName}},
			}},
			n.Body,
		}}
		whileLoop := &ast.While{
			Cond: &ast.CallExpr{Callee: &ast.NameRef{Name: "hasNext?"}, Args: []ast.Expression{&ast.NameRef{Name: forIterName}}},
			Body: inner,
		}
		n.Converted = &ast.Block{Stmts: []ast.Statement{
			&ast.Binding{Kind: ast.BindRef, Name: forIterTemp, Init: n.Iterable},
			&ast.Binding{Kind: ast.BindVar, Name: forIterName, Init: &ast.CallExpr{
				Callee: &ast.NameRef{Name: "iterator"},
				Args:   []ast.Expression{&ast.NameRef{Name: forIterTemp}},
			}},
			whileLoop,
		}}
	}
	return n.Converted
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
