package lexer

import "testing"

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	l := New(input)
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func TestKeywordsAndSymbols(t *testing.T) {
	toks := tokenize(t, "record Pair(first: Int32, second: Int32) { return first; }")
	want := []Kind{RECORD, IDENT, LPAREN, IDENT, COLON, IDENT, COMMA, IDENT, COLON, IDENT, RPAREN,
		LBRACE, RETURN, IDENT, SEMI, RBRACE, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got kind %d, want %d (%+v)", i, toks[i].Kind, k, toks[i])
		}
	}
}

func TestIntSuffix(t *testing.T) {
	toks := tokenize(t, "42#u64")
	if toks[0].Kind != INT || toks[0].Text != "42" || toks[0].Suffix != "u64" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestHexInt(t *testing.T) {
	toks := tokenize(t, "0xFF")
	if toks[0].Kind != INT || toks[0].Text != "0xFF" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestFloatSuffix(t *testing.T) {
	toks := tokenize(t, "3.5#f32")
	if toks[0].Kind != FLOAT || toks[0].Text != "3.5" || toks[0].Suffix != "f32" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestCharEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want byte
	}{
		{`'a'`, 'a'},
		{`'\n'`, '\n'},
		{`'\x41'`, 'A'},
		{`'\101'`, 'A'}, // octal
	}
	for _, c := range cases {
		toks := tokenize(t, c.in)
		if toks[0].Kind != CHAR || toks[0].Str[0] != c.want {
			t.Errorf("%s: got %+v, want byte %d", c.in, toks[0], c.want)
		}
	}
}

func TestString(t *testing.T) {
	toks := tokenize(t, `"hi\n\"there\""`)
	if toks[0].Kind != STRING || toks[0].Str != "hi\n\"there\"" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestComments(t *testing.T) {
	toks := tokenize(t, "a // line comment\n/* block\ncomment */ b")
	if len(toks) != 3 || toks[0].Kind != IDENT || toks[1].Kind != IDENT || toks[2].Kind != EOF {
		t.Fatalf("got %+v", toks)
	}
}

func TestOperators(t *testing.T) {
	toks := tokenize(t, "== != <= >= < > + - * / % = & ^ |")
	want := []Kind{EQ, NOT_EQ, LE, GE, LT, GT, PLUS, MINUS, STAR, SLASH, PERCENT, ASSIGN, AMP, CARET, PIPE, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %d want %d", i, toks[i].Kind, k)
		}
	}
}
