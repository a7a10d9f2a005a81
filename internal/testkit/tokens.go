package testkit

import (
	"fmt"
	"strings"

	"lazuli/internal/token"
)

// Reconstruct склеивает leading trivia и текст каждого токена обратно в исходник.
func Reconstruct(toks []token.Token) string {
	var sb strings.Builder
	for _, tok := range toks {
		for _, tr := range tok.Leading {
			sb.WriteString(tr.Text)
		}
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// SameTokens reports the first position where two streams differ in kind,
// span or text.
func SameTokens(a, b []token.Token) error {
	if len(a) != len(b) {
		return fmt.Errorf("length differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Span != b[i].Span || a[i].Text != b[i].Text {
			return fmt.Errorf("token %d differs: %v %v %q vs %v %v %q",
				i, a[i].Kind, a[i].Span, a[i].Text, b[i].Kind, b[i].Span, b[i].Text)
		}
	}
	return nil
}
