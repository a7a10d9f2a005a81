package ast

import (
	"lazuli/internal/source"
)

type Hints struct{ Stmts, Exprs uint }

// Builder owns every node of one or more parsed programs.
type Builder struct {
	Programs *Arena[Program]
	Stmts    *Stmts
	Exprs    *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 6
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Programs: NewArena[Program](1),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewProgram(sp source.Span, context string) ProgramID {
	return ProgramID(b.Programs.Allocate(Program{Span: sp, Context: context}))
}

func (b *Builder) Program(id ProgramID) *Program {
	return b.Programs.Get(uint32(id))
}

func (b *Builder) PushStmt(prog ProgramID, stmt StmtID) {
	p := b.Program(prog)
	p.Stmts = append(p.Stmts, stmt)
}
