package parser

import (
	"strconv"
	"strings"

	"lazuli/internal/ast"
	"lazuli/internal/diag"
	"lazuli/internal/lexer"
	"lazuli/internal/token"
)

func (p *Parser) parseLiteral() (ast.ExprID, bool) {
	tok := p.advance()
	var lit ast.ExprLiteralData
	switch tok.Kind {
	case token.KwNull:
		lit.Kind = ast.ExprLitNull
	case token.KwTrue, token.KwFalse:
		lit.Kind = ast.ExprLitBool
		lit.Bool = tok.Kind == token.KwTrue
	case token.IntLit:
		v, err := parseIntLiteral(tok.Text)
		if err != nil {
			p.report(diag.LexBadNumber, tok.Span, "integer literal "+tok.Text+" out of range")
			return ast.NoExprID, false
		}
		lit.Kind = ast.ExprLitInt
		lit.Int = v
	case token.FloatLit:
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""), 64)
		if err != nil {
			p.report(diag.LexBadNumber, tok.Span, "invalid float literal "+tok.Text)
			return ast.NoExprID, false
		}
		lit.Kind = ast.ExprLitFloat
		lit.Float = v
	case token.StringLit:
		s, err := lexer.Unquote(tok.Text)
		if err != nil {
			p.report(diag.LexBadEscape, tok.Span, err.Error())
			return ast.NoExprID, false
		}
		lit.Kind = ast.ExprLitString
		lit.Str = s
	}
	return p.arenas.Exprs.NewLiteral(tok.Span, lit), true
}

// parseIntLiteral: десятичные без восьмеричной трактовки ведущего нуля,
// плюс 0x/0b/0o.
func parseIntLiteral(text string) (int64, error) {
	text = strings.ReplaceAll(text, "_", "")
	base := 10
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 10 {
			text = text[2:]
		}
	}
	return strconv.ParseInt(text, base, 64)
}
