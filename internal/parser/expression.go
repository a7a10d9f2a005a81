package parser

import (
	"lazuli/internal/ast"
	"lazuli/internal/diag"
	"lazuli/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precAssignment)
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		tok := p.peek()
		prec, rightAssoc := binaryPrec(tok.Kind)
		if prec < minPrec {
			break
		}
		opTok := p.advance()
		op := binaryOps[opTok.Kind]
		if op.IsAssign() && !p.isAssignable(left) {
			p.report(diag.SynInvalidAssignment, p.arenas.Exprs.Get(left).Span,
				"cannot assign to this expression; expected a name, index or member")
		}

		nextMinPrec := prec + 1
		if rightAssoc {
			nextMinPrec = prec
		}
		right, ok := p.parseBinaryExpr(nextMinPrec)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(span, op, left, right)
	}
	return left, true
}

func (p *Parser) isAssignable(id ast.ExprID) bool {
	switch p.arenas.Exprs.Get(id).Kind {
	case ast.ExprIdent, ast.ExprIndex, ast.ExprMember:
		return true
	default:
		return false
	}
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы)
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	if op, ok := unaryOp(p.peek().Kind); ok {
		opTok := p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		span := opTok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
		return p.arenas.Exprs.NewUnary(span, op, operand), true
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr обрабатывает вызовы, индексацию и доступ к членам.
// '(' и '[' после перевода строки начинают новое утверждение.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.LParen && !tok.AfterNewline():
			expr, ok = p.parseCallExpr(expr)
		case tok.Kind == token.LBracket && !tok.AfterNewline():
			expr, ok = p.parseIndexExpr(expr)
		case tok.Kind == token.Dot:
			expr, ok = p.parseMemberExpr(expr)
		default:
			return expr, true
		}
		if !ok {
			return ast.NoExprID, false
		}
	}
}

func (p *Parser) parseCallExpr(target ast.ExprID) (ast.ExprID, bool) {
	open := p.advance()
	args, closeTok, ok := p.parseExprList(open, token.RParen, diag.SynUnclosedParen, "call arguments")
	if !ok {
		return ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(target).Span.Cover(closeTok.Span)
	return p.arenas.Exprs.NewCall(span, target, args), true
}

func (p *Parser) parseIndexExpr(target ast.ExprID) (ast.ExprID, bool) {
	open := p.advance()
	index, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	closeTok, ok := p.eat(token.RBracket)
	if !ok {
		p.emit(diag.ReportError(p.reporter, diag.SynUnclosedBracket, p.getDiagnosticSpan(), "expected ']' after index, got "+describe(p.peek())).
			WithNote(open.Span, "index opened here"))
		return ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(target).Span.Cover(closeTok.Span)
	return p.arenas.Exprs.NewIndex(span, target, index), true
}

func (p *Parser) parseMemberExpr(target ast.ExprID) (ast.ExprID, bool) {
	p.advance() // '.'
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name after '.'")
	if !ok {
		return ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(target).Span.Cover(name.Span)
	return p.arenas.Exprs.NewMember(span, target, name.Text, name.Span), true
}

// parseExprList разбирает "e1, e2, ...<close>" после открывающей скобки.
// Допускается висячая запятая.
func (p *Parser) parseExprList(open token.Token, closeKind token.Kind, code diag.Code, what string) ([]ast.ExprID, token.Token, bool) {
	var out []ast.ExprID
	for !p.at(closeKind) {
		if p.at(token.EOF) {
			p.emit(diag.ReportError(p.reporter, code, p.getDiagnosticSpan(), "unterminated "+what+": expected '"+closeKind.String()+"'").
				WithNote(open.Span, "opened here"))
			return nil, token.Token{}, false
		}
		expr, ok := p.parseExpr()
		if !ok {
			return nil, token.Token{}, false
		}
		out = append(out, expr)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.eat(closeKind)
	if !ok {
		p.emit(diag.ReportError(p.reporter, code, p.getDiagnosticSpan(), "expected ',' or '"+closeKind.String()+"' in "+what+", got "+describe(p.peek())).
			WithNote(open.Span, "opened here"))
		return nil, token.Token{}, false
	}
	return out, closeTok, true
}

// parsePrimaryExpr парсит основные (атомарные) выражения
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, tok.Text), true
	case token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull:
		return p.parseLiteral()
	case token.LParen:
		open := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.eat(token.RParen); !ok {
			p.emit(diag.ReportError(p.reporter, diag.SynUnclosedParen, p.getDiagnosticSpan(), "expected ')', got "+describe(p.peek())).
				WithNote(open.Span, "parenthesis opened here"))
			return ast.NoExprID, false
		}
		return inner, true
	case token.LBracket:
		open := p.advance()
		elems, closeTok, ok := p.parseExprList(open, token.RBracket, diag.SynUnclosedBracket, "array literal")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewArray(open.Span.Cover(closeTok.Span), elems), true
	case token.LBrace:
		return p.parseMapLiteral()
	case token.KwFn:
		return p.parseFnLiteral()
	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
		return ast.NoExprID, false
	}
}

// parseMapLiteral: {key: value, ...}. Голый идентификатор перед ':': строковый ключ.
func (p *Parser) parseMapLiteral() (ast.ExprID, bool) {
	open := p.advance()
	var entries []ast.ExprMapEntry
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.emit(diag.ReportError(p.reporter, diag.SynUnclosedBrace, p.getDiagnosticSpan(), "unterminated map literal").
				WithNote(open.Span, "map literal opened here"))
			return ast.NoExprID, false
		}
		var key ast.ExprID
		if tok := p.peek(); tok.Kind == token.Ident && p.peekN(1).Kind == token.Colon {
			p.advance()
			key = p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLiteralData{Kind: ast.ExprLitString, Str: tok.Text})
		} else {
			k, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			key = k
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after map key"); !ok {
			return ast.NoExprID, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		entries = append(entries, ast.ExprMapEntry{Key: key, Value: value})
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected ',' or '}' in map literal")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewMap(open.Span.Cover(closeTok.Span), entries), true
}

func (p *Parser) parseFnLiteral() (ast.ExprID, bool) {
	kw := p.advance()
	params, ok := p.parseParams()
	if !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseBlockExpected("function body")
	if !ok {
		return ast.NoExprID, false
	}
	span := kw.Span.Cover(p.arenas.Stmts.Get(body).Span)
	return p.arenas.Exprs.NewFn(span, params, body), true
}
