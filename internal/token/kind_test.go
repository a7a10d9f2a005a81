package token_test

import (
	"testing"

	"lazuli/internal/source"
	"lazuli/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.KwFn, token.Plus, token.LParen} {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestClassification(t *testing.T) {
	if !tok(token.RBracket).IsPunctOrOp() || tok(token.StringLit).IsPunctOrOp() {
		t.Fatal("IsPunctOrOp misclassifies")
	}
	if !tok(token.KwUsing).IsKeyword() || tok(token.Ident).IsKeyword() {
		t.Fatal("IsKeyword misclassifies")
	}
	for _, k := range []token.Kind{token.Assign, token.PlusAssign, token.PercentAssign} {
		if !tok(k).IsAssign() {
			t.Fatalf("%v should be assignment", k)
		}
	}
	if tok(token.EqEq).IsAssign() {
		t.Fatal("== is not an assignment")
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.EOF:       "EOF",
		token.KwWhile:   "while",
		token.LtEq:      "<=",
		token.StringLit: "StringLit",
		token.RBracket:  "]",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
	if got := token.Kind(250).String(); got != "Kind(?)" {
		t.Errorf("unknown kind string = %q", got)
	}
}

func TestLookupKeyword(t *testing.T) {
	if k, ok := token.LookupKeyword("using"); !ok || k != token.KwUsing {
		t.Fatalf("using -> %v,%v", k, ok)
	}
	if _, ok := token.LookupKeyword("Using"); ok {
		t.Fatal("keywords are case sensitive")
	}
	if _, ok := token.LookupKeyword("println"); ok {
		t.Fatal("println is an identifier")
	}
}

func TestAfterNewline(t *testing.T) {
	plain := token.Token{Kind: token.LParen, Leading: []token.Trivia{{Kind: token.TriviaSpace, Text: " "}}}
	if plain.AfterNewline() {
		t.Fatal("space only must not count as newline")
	}
	nl := token.Token{Kind: token.LParen, Leading: []token.Trivia{{Kind: token.TriviaNewline, Text: "\n"}}}
	if !nl.AfterNewline() {
		t.Fatal("expected newline")
	}
	block := token.Token{Kind: token.LParen, Leading: []token.Trivia{{Kind: token.TriviaBlockComment, Text: "/*\n*/"}}}
	if !block.AfterNewline() {
		t.Fatal("multi-line block comment separates lines")
	}
}
