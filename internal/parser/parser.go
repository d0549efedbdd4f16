// Package parser turns a token stream into the AST of spec.md §3: a
// recursive-descent/precedence-climbing parser, grounded on the teacher's
// own split-by-concern parser (internal/parser/expressions_*.go,
// statements_*.go) but scaled to Clay's much smaller, keyword-driven
// grammar (spec.md §6) rather than Funxy's pattern-match/trait surface.
package parser

import (
	"fmt"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/lexer"
	"github.com/clayscript/clay/internal/types"
)

// File is one parsed module: its import directives, exported names, and
// top-level items in declaration order.
type File struct {
	Imports []Import
	Exports []string
	Items   []ast.TopLevel
}

type Import struct {
	Path  string
	Alias string
}

type Parser struct {
	l       *lexer.Lexer
	file    string
	cur, pk lexer.Token
	err     error
}

func New(file, input string) *Parser {
	p := &Parser{l: lexer.New(input), file: file}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.pk
	tok, err := p.l.NextToken()
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s(%d,%d): error: %v", p.file, p.cur.Line, p.cur.Col, err)
	}
	p.pk = tok
}

func (p *Parser) pos() ast.Pos { return ast.Pos{File: p.file, Line: p.cur.Line, Col: p.cur.Col} }

func (p *Parser) errf(format string, args ...any) error {
	return fmt.Errorf("%s(%d,%d): error: %s", p.file, p.cur.Line, p.cur.Col, fmt.Sprintf(format, args...))
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.cur.Kind != k {
		return lexer.Token{}, p.errf("unexpected token (want kind %d, got %d %q)", k, p.cur.Kind, p.cur.Text)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

// ParseFile parses a complete module per spec.md §6.
func ParseFile(file, input string) (*File, error) {
	p := New(file, input)
	f := &File{}
	for p.cur.Kind != lexer.EOF {
		if p.err != nil {
			return nil, p.err
		}
		switch p.cur.Kind {
		case lexer.IMPORT:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			f.Imports = append(f.Imports, imp)
		case lexer.EXPORT:
			p.next()
			name, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			f.Exports = append(f.Exports, name.Text)
			if _, err := p.expect(lexer.SEMI); err != nil {
				return nil, err
			}
		default:
			item, err := p.parseTopLevel()
			if err != nil {
				return nil, err
			}
			f.Items = append(f.Items, item)
		}
	}
	return f, p.err
}

func (p *Parser) parseImport() (Import, error) {
	p.next() // consume import
	path, err := p.expect(lexer.STRING)
	if err != nil {
		return Import{}, err
	}
	imp := Import{Path: path.Str}
	if p.cur.Kind == lexer.IDENT && p.cur.Text == "as" {
		p.next()
		alias, err := p.expect(lexer.IDENT)
		if err != nil {
			return Import{}, err
		}
		imp.Alias = alias.Text
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return Import{}, err
	}
	return imp, nil
}

func (p *Parser) parseTopLevel() (ast.TopLevel, error) {
	switch p.cur.Kind {
	case lexer.RECORD:
		return p.parseRecord()
	case lexer.OVERLOADABLE:
		return p.parseOverloadableDecl()
	case lexer.OVERLOAD:
		return p.parseOverload()
	case lexer.EXTERNAL:
		return p.parseExternal()
	case lexer.IDENT:
		return p.parseProcedure()
	default:
		return nil, p.errf("expected a top-level declaration, got %q", p.cur.Text)
	}
}

// parseRecord: `record Name[patternVars](field: Type, ...);`
func (p *Parser) parseRecord() (*ast.RecordItem, error) {
	pos := p.pos()
	p.next() // record
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	patternVars, err := p.parsePatternVars()
	if err != nil {
		return nil, err
	}
	fields, err := p.parseFormals()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	item := &ast.RecordItem{
		Name:        name.Text,
		PatternVars: patternVars,
		Fields:      fields,
		Def:         &types.RecordDef{Name: name.Text, PatternVars: patternVars},
	}
	item.Pos = pos
	return item, nil
}

// parsePatternVars parses an optional `[A, B, ...]` pattern-variable list.
func (p *Parser) parsePatternVars() ([]string, error) {
	if p.cur.Kind != lexer.LBRACKET {
		return nil, nil
	}
	p.next()
	var vars []string
	for p.cur.Kind != lexer.RBRACKET {
		id, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		vars = append(vars, id.Text)
		if p.cur.Kind == lexer.COMMA {
			p.next()
		}
	}
	p.next() // ]
	return vars, nil
}

// parseFormals parses `(arg, arg, ...)` where each arg is either
// `name: Type` (value argument, Type optional) or `static name: Pattern`
// (static argument).
func (p *Parser) parseFormals() ([]ast.FormalArg, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var formals []ast.FormalArg
	for p.cur.Kind != lexer.RPAREN {
		var f ast.FormalArg
		if p.cur.Kind == lexer.STATIC {
			p.next()
			f.Static = true
		}
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		f.Name = name.Text
		if p.cur.Kind == lexer.COLON {
			p.next()
			annot, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			if f.Static {
				f.Pattern = annot
			} else {
				f.Type = annot
			}
		}
		formals = append(formals, f)
		if p.cur.Kind == lexer.COMMA {
			p.next()
		}
	}
	p.next() // )
	return formals, nil
}

// parseOverloadableDecl: `overloadable name;`
func (p *Parser) parseOverloadableDecl() (*ast.OverloadableItem, error) {
	pos := p.pos()
	p.next()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	item := &ast.OverloadableItem{Name: name.Text, InvocationTables: map[int]any{}}
	item.Pos = pos
	return item, nil
}

// parseOverload: `overload name(formals) [if predicate] { body }`. The
// caller (the loader) is responsible for appending this Code to the
// OverloadableItem already declared under the same name.
func (p *Parser) parseOverload() (*ast.OverloadableItem, error) {
	p.next() // overload
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	code, err := p.parseCode(nil)
	if err != nil {
		return nil, err
	}
	return &ast.OverloadableItem{Name: name.Text, Overloads: []ast.Code{*code}}, nil
}

// parseProcedure: `name[patternVars](formals) [if predicate] { body }`.
func (p *Parser) parseProcedure() (*ast.ProcedureItem, error) {
	pos := p.pos()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	patternVars, err := p.parsePatternVars()
	if err != nil {
		return nil, err
	}
	code, err := p.parseCode(patternVars)
	if err != nil {
		return nil, err
	}
	item := &ast.ProcedureItem{Name: name.Text, Code: *code}
	item.Pos = pos
	return item, nil
}

func (p *Parser) parseCode(patternVars []string) (*ast.Code, error) {
	formals, err := p.parseFormals()
	if err != nil {
		return nil, err
	}
	var pred ast.Expression
	if p.cur.Kind == lexer.IF {
		p.next()
		pred, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Code{PatternVars: patternVars, Predicate: pred, Formals: formals, Body: body}, nil
}

// parseExternal: `external name(formals) ReturnType;`
func (p *Parser) parseExternal() (*ast.ExternalProcedureItem, error) {
	pos := p.pos()
	p.next()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	args, err := p.parseFormals()
	if err != nil {
		return nil, err
	}
	var rt ast.Expression
	if p.cur.Kind != lexer.SEMI {
		rt, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	item := &ast.ExternalProcedureItem{Name: name.Text, Args: args, ReturnType: rt}
	item.Pos = pos
	return item, nil
}
