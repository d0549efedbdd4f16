package parser

import (
	"strconv"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/lexer"
)

// Precedence levels, lowest to highest (spec.md §6).
const (
	precLowest = iota
	precOr
	precAnd
	precCompare
	precAdd
	precMul
	precUnary
	precPostfix
)

var binaryPrec = map[lexer.Kind]int{
	lexer.EQ:      precCompare,
	lexer.NOT_EQ:  precCompare,
	lexer.LT:      precCompare,
	lexer.LE:      precCompare,
	lexer.GT:      precCompare,
	lexer.GE:      precCompare,
	lexer.PLUS:    precAdd,
	lexer.MINUS:   precAdd,
	lexer.STAR:    precMul,
	lexer.SLASH:   precMul,
	lexer.PERCENT: precMul,
}

var binaryOpText = map[lexer.Kind]string{
	lexer.EQ:      "==",
	lexer.NOT_EQ:  "!=",
	lexer.LT:      "<",
	lexer.LE:      "<=",
	lexer.GT:      ">",
	lexer.GE:      ">=",
	lexer.PLUS:    "+",
	lexer.MINUS:   "-",
	lexer.STAR:    "*",
	lexer.SLASH:   "/",
	lexer.PERCENT: "%",
}

// parseExpr is a precedence-climbing parser over Clay's small expression
// grammar (spec.md §6), grounded on the teacher's own Pratt-style
// expression parser but with a fixed, closed operator table rather than
// user-definable infix traits.
func (p *Parser) parseExpr(prec int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		left, err = p.parsePostfix(left)
		if err != nil {
			return nil, err
		}
		if p.cur.Kind == lexer.AND && precAnd > prec {
			left, err = p.parseShortCircuit(left, "and", precAnd)
		} else if p.cur.Kind == lexer.OR && precOr > prec {
			left, err = p.parseShortCircuit(left, "or", precOr)
		} else if bp, ok := binaryPrec[p.cur.Kind]; ok && bp > prec {
			left, err = p.parseBinary(left, bp)
		} else {
			return left, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseShortCircuit(left ast.Expression, op string, bp int) (ast.Expression, error) {
	pos := p.pos()
	p.next()
	right, err := p.parseExpr(bp)
	if err != nil {
		return nil, err
	}
	n := &ast.ShortCircuit{Op: op, Left: left, Right: right}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseBinary(left ast.Expression, bp int) (ast.Expression, error) {
	pos := p.pos()
	op := binaryOpText[p.cur.Kind]
	p.next()
	right, err := p.parseExpr(bp)
	if err != nil {
		return nil, err
	}
	n := &ast.BinaryOp{Op: op, Left: left, Right: right}
	n.Pos = pos
	return n, nil
}

// parseUnary handles the prefix operators `-`, `not`, `*` (dereference) and
// `&` (address-of), falling through to a primary expression otherwise.
func (p *Parser) parseUnary() (ast.Expression, error) {
	pos := p.pos()
	switch p.cur.Kind {
	case lexer.MINUS:
		p.next()
		operand, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		n := &ast.UnaryOp{Op: "-", Operand: operand}
		n.Pos = pos
		return n, nil
	case lexer.NOT:
		p.next()
		operand, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		n := &ast.UnaryOp{Op: "!", Operand: operand}
		n.Pos = pos
		return n, nil
	case lexer.STAR:
		p.next()
		operand, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		n := &ast.UnaryOp{Op: "*", Operand: operand}
		n.Pos = pos
		return n, nil
	case lexer.AMP:
		p.next()
		operand, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		n := &ast.UnaryOp{Op: "&", Operand: operand}
		n.Pos = pos
		return n, nil
	}
	return p.parsePrimary()
}

// parsePostfix chains call `(...)`, index `[...]`, field `.name`, and
// tuple-index `.N` suffixes onto an already-parsed expression.
func (p *Parser) parsePostfix(left ast.Expression) (ast.Expression, error) {
	for {
		pos := p.pos()
		switch p.cur.Kind {
		case lexer.LPAREN:
			args, err := p.parseArgList(lexer.LPAREN, lexer.RPAREN)
			if err != nil {
				return nil, err
			}
			n := &ast.CallExpr{Callee: left, Args: args}
			n.Pos = pos
			left = n
		case lexer.LBRACKET:
			args, err := p.parseArgList(lexer.LBRACKET, lexer.RBRACKET)
			if err != nil {
				return nil, err
			}
			n := &ast.IndexExpr{Callee: left, Args: args}
			n.Pos = pos
			left = n
		case lexer.DOT:
			p.next()
			if p.cur.Kind == lexer.INT {
				idx, err := strconv.Atoi(p.cur.Text)
				if err != nil {
					return nil, p.errf("invalid tuple index %q", p.cur.Text)
				}
				p.next()
				n := &ast.TupleRef{Target: left, Index: idx}
				n.Pos = pos
				left = n
				continue
			}
			name, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			n := &ast.FieldRef{Target: left, Name: name.Text}
			n.Pos = pos
			left = n
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseArgList(open, close lexer.Kind) ([]ast.Expression, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.cur.Kind != close {
		arg, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Kind == lexer.COMMA {
			p.next()
		}
	}
	p.next() // close
	return args, nil
}

// parsePrimary parses literals, name references, parenthesized/tuple
// expressions, and array literals.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	pos := p.pos()
	switch p.cur.Kind {
	case lexer.TRUE:
		p.next()
		n := &ast.BoolLit{Value: true}
		n.Pos = pos
		return n, nil
	case lexer.FALSE:
		p.next()
		n := &ast.BoolLit{Value: false}
		n.Pos = pos
		return n, nil
	case lexer.INT:
		tok := p.cur
		p.next()
		suffix := tok.Suffix
		if suffix == "" {
			suffix = "i32"
		}
		n := &ast.IntLit{Text: tok.Text, Suffix: suffix}
		n.Pos = pos
		return n, nil
	case lexer.FLOAT:
		tok := p.cur
		p.next()
		suffix := tok.Suffix
		if suffix == "" {
			suffix = "f64"
		}
		n := &ast.FloatLit{Text: tok.Text, Suffix: suffix}
		n.Pos = pos
		return n, nil
	case lexer.CHAR:
		tok := p.cur
		p.next()
		n := &ast.CharLit{Value: tok.Str[0]}
		n.Pos = pos
		return n, nil
	case lexer.STRING:
		tok := p.cur
		p.next()
		n := &ast.StringLit{Value: tok.Str}
		n.Pos = pos
		return n, nil
	case lexer.IDENT:
		tok := p.cur
		p.next()
		n := &ast.NameRef{Name: tok.Text}
		n.Pos = pos
		return n, nil
	case lexer.LBRACKET:
		elems, err := p.parseArgList(lexer.LBRACKET, lexer.RBRACKET)
		if err != nil {
			return nil, err
		}
		n := &ast.ArrayExpr{Elems: elems}
		n.Pos = pos
		return n, nil
	case lexer.LPAREN:
		p.next()
		if p.cur.Kind == lexer.RPAREN {
			p.next()
			n := &ast.TupleExpr{}
			n.Pos = pos
			return n, nil
		}
		first, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != lexer.COMMA {
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			return first, nil
		}
		elems := []ast.Expression{first}
		for p.cur.Kind == lexer.COMMA {
			p.next()
			if p.cur.Kind == lexer.RPAREN {
				break
			}
			e, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		n := &ast.TupleExpr{Elems: elems}
		n.Pos = pos
		return n, nil
	}
	return nil, p.errf("unexpected token in expression: %q", p.cur.Text)
}
