package lexer

import (
	"lazuli/internal/diag"
	"lazuli/internal/token"
)

// "..." с escape \n \t \r \0 \\ \" \xNN \u{...}. Перевод строки внутри литерала: ошибка.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	bad := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			if bad {
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\\':
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if !lx.scanEscape() {
				bad = true
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid escape sequence")
			}
			continue
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanEscape съедает тело escape-последовательности после '\'.
func (lx *Lexer) scanEscape() bool {
	switch lx.cursor.Peek() {
	case 'n', 't', 'r', '0', '\\', '"':
		lx.cursor.Bump()
		return true
	case 'x':
		lx.cursor.Bump()
		for range 2 {
			if !isHex(lx.cursor.Peek()) {
				return false
			}
			lx.cursor.Bump()
		}
		return true
	case 'u':
		lx.cursor.Bump()
		if !lx.cursor.Eat('{') {
			return false
		}
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		return lx.cursor.Eat('}') && n > 0 && n <= 6
	case '\n', 0:
		return false
	default:
		lx.bumpRune()
		return false
	}
}
