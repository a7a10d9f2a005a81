// Package parser builds an ast.Program from a token slice.
//
// Syntax errors never stop the parser: each one is reported into the
// result Bag and the parser resynchronises at the next statement boundary,
// so a single run collects every error it can find.
package parser

import (
	"slices"

	"lazuli/internal/ast"
	"lazuli/internal/diag"
	"lazuli/internal/source"
	"lazuli/internal/token"
)

type Options struct {
	// MaxErrors caps reported errors; 0: без лимита.
	MaxErrors uint
	// Bag receives diagnostics. It may already hold lexer diagnostics,
	// in which case Invalid tokens at those positions are not reported twice.
	Bag *diag.Bag
	// Builder lets several programs share arenas; nil: новый.
	Builder *ast.Builder
}

type Result struct {
	Program ast.ProgramID
	Builder *ast.Builder
	Bag     *diag.Bag
}

// Parser: состояние парсера на один поток токенов
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	prog     ast.ProgramID
	fs       *source.FileSet
	opts     Options
	reporter diag.Reporter
	errors   uint
	lexErrAt map[uint32]struct{} // позиции, где лексер уже сообщил об ошибке
	lastSpan source.Span         // span последнего съеденного токена
}

// Parse разбирает tokens в программу. context: метка источника ("local",
// путь файла), больше ни на что не влияет. Bag результата заморожен.
func Parse(fs *source.FileSet, tokens []token.Token, context string, opts Options) Result {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		var sp source.Span
		if len(tokens) > 0 {
			sp = tokens[len(tokens)-1].Span.ZeroideToEnd()
		}
		tokens = append(slices.Clip(tokens), token.Token{Kind: token.EOF, Span: sp})
	}
	bag := opts.Bag
	if bag == nil {
		bag = diag.NewBag(0)
	}
	arenas := opts.Builder
	if arenas == nil {
		arenas = ast.NewBuilder(ast.Hints{Exprs: uint(len(tokens))})
	}
	p := &Parser{
		toks:     tokens,
		arenas:   arenas,
		fs:       fs,
		opts:     opts,
		reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		lexErrAt: make(map[uint32]struct{}),
	}
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			p.errors++
			p.lexErrAt[d.Primary.Start] = struct{}{}
		}
	}
	p.prog = arenas.NewProgram(tokens[0].Span, context)
	p.parseProgram()
	bag.Freeze()
	return Result{Program: p.prog, Builder: arenas, Bag: bag}
}

// parseProgram: основной цикл верхнего уровня: пока не EOF: parseStmt.
func (p *Parser) parseProgram() {
	startSpan := p.peek().Span
	for !p.at(token.EOF) && !p.enough() {
		if p.at(token.RBrace) {
			p.err(diag.SynUnexpectedToken, "unexpected '}' at top level")
			p.advance()
			continue
		}
		p.parseStmtInto(func(id ast.StmtID) { p.arenas.PushStmt(p.prog, id) })
	}
	prog := p.arenas.Program(p.prog)
	prog.Span = startSpan.Cover(p.peek().Span)
}

// parseStmtInto разбирает одно утверждение; при ошибке: resync.
func (p *Parser) parseStmtInto(push func(ast.StmtID)) {
	start := p.pos
	id, ok := p.parseStmt()
	if ok {
		push(id)
		return
	}
	if p.pos == start {
		// гарантируем прогресс
		p.advance()
	}
	p.resyncStatement()
}

// resyncStatement прокручивает до начала следующего утверждения:
// ';' (съедается), '}', EOF, ключевое слово-стартер или токен после перевода строки.
func (p *Parser) resyncStatement() {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF || tok.Kind == token.RBrace:
			return
		case tok.Kind == token.Semicolon:
			p.advance()
			return
		case isStmtStarter(tok.Kind), tok.AfterNewline():
			return
		}
		p.advance()
	}
}

func isStmtStarter(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwIf, token.KwWhile, token.KwFor, token.KwReturn,
		token.KwBreak, token.KwContinue, token.KwUsing:
		return true
	default:
		return false
	}
}
