package testkit

import (
	"testing"

	"lazuli/internal/source"
	"lazuli/internal/token"
)

func TestReconstruct(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Ident, Text: "a", Leading: []token.Trivia{{Kind: token.TriviaSpace, Text: "  "}}},
		{Kind: token.EOF, Leading: []token.Trivia{{Kind: token.TriviaNewline, Text: "\n"}}},
	}
	if got := Reconstruct(toks); got != "  a\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSameTokens(t *testing.T) {
	a := []token.Token{{Kind: token.Ident, Span: source.Span{Start: 0, End: 1}, Text: "a"}}
	b := []token.Token{{Kind: token.Ident, Span: source.Span{Start: 0, End: 1}, Text: "a"}}
	if err := SameTokens(a, b); err != nil {
		t.Fatal(err)
	}
	b[0].Span.End = 2
	if SameTokens(a, b) == nil {
		t.Fatal("span change not detected")
	}
	if SameTokens(a, nil) == nil {
		t.Fatal("length change not detected")
	}
}
