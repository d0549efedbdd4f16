package parser

import (
	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/lexer"
)

// parseBlock parses `{ stmt... }`.
func (p *Parser) parseBlock() (*ast.Block, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for p.cur.Kind != lexer.RBRACE {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.next() // }
	n := &ast.Block{Stmts: stmts}
	n.Pos = pos
	return n, nil
}

// parseStmt parses one statement (spec.md §6).
func (p *Parser) parseStmt() (ast.Statement, error) {
	pos := p.pos()
	switch p.cur.Kind {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.VAR:
		return p.parseBinding(ast.BindVar)
	case lexer.REF:
		return p.parseBinding(ast.BindRef)
	case lexer.STATIC:
		return p.parseBinding(ast.BindStatic)
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.GOTO:
		p.next()
		label, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		n := &ast.Goto{Label: label.Text}
		n.Pos = pos
		return n, nil
	case lexer.RETURN:
		p.next()
		var val ast.Expression
		if p.cur.Kind != lexer.SEMI {
			v, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			val = v
		}
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		n := &ast.Return{Value: val}
		n.Pos = pos
		return n, nil
	case lexer.RETURNREF:
		p.next()
		val, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		n := &ast.ReturnRef{Value: val}
		n.Pos = pos
		return n, nil
	case lexer.BREAK:
		p.next()
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		n := &ast.Break{}
		n.Pos = pos
		return n, nil
	case lexer.CONTINUE:
		p.next()
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		n := &ast.Continue{}
		n.Pos = pos
		return n, nil
	case lexer.IDENT:
		if p.pk.Kind == lexer.COLON {
			name := p.cur.Text
			p.next()
			p.next() // :
			n := &ast.Label{Name: name}
			n.Pos = pos
			return n, nil
		}
		return p.parseSimpleStmt(pos)
	default:
		return p.parseSimpleStmt(pos)
	}
}

// parseSimpleStmt parses an assignment or a bare expression statement,
// distinguished only by a following `=` (spec.md §6).
func (p *Parser) parseSimpleStmt(pos ast.Pos) (ast.Statement, error) {
	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == lexer.ASSIGN {
		p.next()
		right, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		n := &ast.Assign{Left: expr, Right: right}
		n.Pos = pos
		return n, nil
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	n := &ast.ExprStmt{Expr: expr}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseBinding(kind ast.BindingKind) (*ast.Binding, error) {
	pos := p.pos()
	p.next() // var/ref/static
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	n := &ast.Binding{Kind: kind, Name: name.Text, Init: init}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	pos := p.pos()
	p.next() // if
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var els ast.Statement
	if p.cur.Kind == lexer.ELSE {
		p.next()
		els, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	n := &ast.If{Cond: cond, Then: then, Else: els}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	pos := p.pos()
	p.next() // while
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	n := &ast.While{Cond: cond, Body: body}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseFor() (*ast.For, error) {
	pos := p.pos()
	p.next() // for
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	n := &ast.For{Var: name.Text, Iterable: iterable, Body: body}
	n.Pos = pos
	return n, nil
}
