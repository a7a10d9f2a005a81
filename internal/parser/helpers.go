package parser

import (
	"lazuli/internal/diag"
	"lazuli/internal/source"
	"lazuli/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance: съедает следующий токен и обновляет lastSpan. EOF не съедается.
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// getDiagnosticSpan: для EOF указываем сразу за последним токеном
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.ZeroideToEnd()
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	p.report(code, sp, msg+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// err репортит ошибку на текущем токене
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.emit(diag.ReportError(p.reporter, code, sp, msg))
}

func (p *Parser) emit(b *diag.ReportBuilder) {
	if p.enough() {
		return
	}
	// неизвестный символ уже описан лексером
	if p.peek().Kind == token.Invalid {
		if _, ok := p.lexErrAt[p.peek().Span.Start]; ok {
			return
		}
	}
	p.errors++
	b.Emit()
}

// enough: достигнут ли лимит ошибок
func (p *Parser) enough() bool {
	return p.opts.MaxErrors != 0 && p.errors >= p.opts.MaxErrors
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.Invalid:
		return "\"" + tok.Text + "\""
	default:
		return "'" + tok.Kind.String() + "'"
	}
}
