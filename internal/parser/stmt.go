package parser

import (
	"lazuli/internal/ast"
	"lazuli/internal/diag"
	"lazuli/internal/lexer"
	"lazuli/internal/token"
)

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	switch p.peek().Kind {
	case token.KwUsing:
		return p.parseUsingStmt()
	case token.KwFn:
		// fn name(...): объявление; fn (...): литерал функции в выражении
		if p.peekN(1).Kind == token.Ident {
			return p.parseFnDecl()
		}
		return p.parseExprStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwBreak:
		tok := p.advance()
		return p.finishSimple(p.arenas.Stmts.NewBreak(tok.Span))
	case token.KwContinue:
		tok := p.advance()
		return p.finishSimple(p.arenas.Stmts.NewContinue(tok.Span))
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		// пустое утверждение
		tok := p.advance()
		return p.arenas.Stmts.NewBlock(tok.Span, nil), true
	default:
		return p.parseExprStmt()
	}
}

// finishSimple проверяет конец простого утверждения: ';', перевод строки, '}' или EOF.
func (p *Parser) finishSimple(id ast.StmtID) (ast.StmtID, bool) {
	if _, ok := p.eat(token.Semicolon); ok {
		return id, true
	}
	tok := p.peek()
	if tok.Kind == token.EOF || tok.Kind == token.RBrace || tok.AfterNewline() {
		return id, true
	}
	p.err(diag.SynExpectStmtEnd, "expected ';' or newline after statement, got "+describe(tok))
	return id, false
}

// atStmtEnd: начинается ли здесь новое утверждение (для голого return).
func (p *Parser) atStmtEnd() bool {
	tok := p.peek()
	return tok.Kind == token.Semicolon || tok.Kind == token.RBrace || tok.Kind == token.EOF || tok.AfterNewline()
}

func (p *Parser) parseUsingStmt() (ast.StmtID, bool) {
	kw := p.advance()
	pathTok, ok := p.expect(token.StringLit, diag.SynExpectString, "expected module path string after 'using'")
	if !ok {
		return ast.NoStmtID, false
	}
	path, err := lexer.Unquote(pathTok.Text)
	if err != nil {
		p.report(diag.SynExpectString, pathTok.Span, err.Error())
		return ast.NoStmtID, false
	}
	return p.finishSimple(p.arenas.Stmts.NewUsing(kw.Span.Cover(pathTok.Span), path, pathTok.Span))
}

func (p *Parser) parseFnDecl() (ast.StmtID, bool) {
	kw := p.advance()
	name := p.advance() // Ident проверен в parseStmt
	params, ok := p.parseParams()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlockExpected("function body")
	if !ok {
		return ast.NoStmtID, false
	}
	span := kw.Span.Cover(p.arenas.Stmts.Get(body).Span)
	return p.arenas.Stmts.NewFn(span, ast.StmtFnData{
		Name:     name.Text,
		NameSpan: name.Span,
		Params:   params,
		Body:     body,
	}), true
}

// parseParams разбирает "(a, b, c)".
func (p *Parser) parseParams() ([]ast.Param, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to start parameter list")
	if !ok {
		return nil, false
	}
	var params []ast.Param
	seen := make(map[string]struct{})
	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			p.emit(diag.ReportError(p.reporter, diag.SynUnclosedParen, p.getDiagnosticSpan(), "expected ')' to close parameter list").
				WithNote(open.Span, "parameter list opened here"))
			return nil, false
		}
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return nil, false
		}
		if _, dup := seen[name.Text]; dup {
			p.report(diag.SynDuplicateParam, name.Span, "duplicate parameter \""+name.Text+"\"")
		}
		seen[name.Text] = struct{}{}
		params = append(params, ast.Param{Name: name.Text, Span: name.Span})
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	kw := p.advance()
	value := ast.NoExprID
	span := kw.Span
	if !p.atStmtEnd() {
		expr, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		value = expr
		span = span.Cover(p.arenas.Exprs.Get(expr).Span)
	}
	return p.finishSimple(p.arenas.Stmts.NewReturn(span, value))
}

func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseBlockExpected("'if' body")
	if !ok {
		return ast.NoStmtID, false
	}
	span := kw.Span.Cover(p.arenas.Stmts.Get(then).Span)
	els := ast.NoStmtID
	if _, ok := p.eat(token.KwElse); ok {
		if p.at(token.KwIf) {
			els, ok = p.parseIfStmt()
		} else {
			els, ok = p.parseBlockExpected("'else' body")
		}
		if !ok {
			return ast.NoStmtID, false
		}
		span = span.Cover(p.arenas.Stmts.Get(els).Span)
	}
	return p.arenas.Stmts.NewIf(span, cond, then, els), true
}

func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlockExpected("'while' body")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(kw.Span.Cover(p.arenas.Stmts.Get(body).Span), cond, body), true
}

func (p *Parser) parseForStmt() (ast.StmtID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected loop variable after 'for'")
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' after loop variable"); !ok {
		return ast.NoStmtID, false
	}
	iter, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlockExpected("'for' body")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFor(kw.Span.Cover(p.arenas.Stmts.Get(body).Span), ast.StmtForData{
		Var:     name.Text,
		VarSpan: name.Span,
		Iter:    iter,
		Body:    body,
	}), true
}

func (p *Parser) parseBlockExpected(what string) (ast.StmtID, bool) {
	if !p.at(token.LBrace) {
		p.err(diag.SynExpectBlock, "expected '{' to start "+what+", got "+describe(p.peek()))
		return ast.NoStmtID, false
	}
	return p.parseBlock()
}

// parseBlock разбирает "{ stmt* }". Ошибки внутри восстанавливаются локально,
// блок остаётся целым.
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open := p.advance()
	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.enough() {
		p.parseStmtInto(func(id ast.StmtID) { stmts = append(stmts, id) })
	}
	closeTok, ok := p.eat(token.RBrace)
	if !ok {
		p.emit(diag.ReportError(p.reporter, diag.SynUnclosedBrace, p.getDiagnosticSpan(), "expected '}' to close block").
			WithNote(open.Span, "block opened here"))
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(open.Span.Cover(closeTok.Span), stmts), true
}

func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.finishSimple(p.arenas.Stmts.NewExpr(p.arenas.Exprs.Get(expr).Span, expr))
}
