package ast

import (
	"lazuli/internal/source"
)

type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtBlock
	StmtUsing
	StmtFn
	StmtBuiltin
	StmtReturn
	StmtBreak
	StmtContinue
	StmtIf
	StmtWhile
	StmtFor

	stmtKindCount
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "Expr"
	case StmtBlock:
		return "Block"
	case StmtUsing:
		return "Using"
	case StmtFn:
		return "Fn"
	case StmtBuiltin:
		return "Builtin"
	case StmtReturn:
		return "Return"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtFor:
		return "For"
	}
	return "Stmt(?)"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtExprData struct{ Expr ExprID }

type StmtBlockData struct{ Stmts []StmtID }

// StmtUsingData: using "lzr.lang.system"
type StmtUsingData struct {
	Path     string
	PathSpan source.Span
}

type StmtFnData struct {
	Name     string
	NameSpan source.Span
	Params   []Param
	Body     StmtID // StmtBlock
}

// StmtBuiltinData declares a host-provided function. It has no source text.
type StmtBuiltinData struct{ Name string }

type StmtReturnData struct{ Value ExprID } // NoExprID: голый return

type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID // NoStmtID, StmtBlock или вложенный StmtIf
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

type StmtForData struct {
	Var     string
	VarSpan source.Span
	Iter    ExprID
	Body    StmtID
}

type Param struct {
	Name string
	Span source.Span
}

type Stmts struct {
	Arena    *Arena[Stmt]
	Exprs    *Arena[StmtExprData]
	Blocks   *Arena[StmtBlockData]
	Usings   *Arena[StmtUsingData]
	Fns      *Arena[StmtFnData]
	Builtins *Arena[StmtBuiltinData]
	Returns  *Arena[StmtReturnData]
	Ifs      *Arena[StmtIfData]
	Whiles   *Arena[StmtWhileData]
	Fors     *Arena[StmtForData]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Exprs:    NewArena[StmtExprData](capHint),
		Blocks:   NewArena[StmtBlockData](capHint / 4),
		Usings:   NewArena[StmtUsingData](2),
		Fns:      NewArena[StmtFnData](capHint / 8),
		Builtins: NewArena[StmtBuiltinData](16),
		Returns:  NewArena[StmtReturnData](capHint / 8),
		Ifs:      NewArena[StmtIfData](capHint / 8),
		Whiles:   NewArena[StmtWhileData](capHint / 16),
		Fors:     NewArena[StmtForData](capHint / 16),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return 0, false
	}
	return uint32(st.Payload), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

func (s *Stmts) Expr(id StmtID) *StmtExprData {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil
	}
	return s.Exprs.Get(p)
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(StmtBlockData{Stmts: stmts}))
}

func (s *Stmts) Block(id StmtID) *StmtBlockData {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil
	}
	return s.Blocks.Get(p)
}

func (s *Stmts) NewUsing(span source.Span, path string, pathSpan source.Span) StmtID {
	return s.new(StmtUsing, span, s.Usings.Allocate(StmtUsingData{Path: path, PathSpan: pathSpan}))
}

func (s *Stmts) Using(id StmtID) *StmtUsingData {
	p, ok := s.payload(id, StmtUsing)
	if !ok {
		return nil
	}
	return s.Usings.Get(p)
}

func (s *Stmts) NewFn(span source.Span, data StmtFnData) StmtID {
	return s.new(StmtFn, span, s.Fns.Allocate(data))
}

func (s *Stmts) Fn(id StmtID) *StmtFnData {
	p, ok := s.payload(id, StmtFn)
	if !ok {
		return nil
	}
	return s.Fns.Get(p)
}

func (s *Stmts) NewBuiltin(name string) StmtID {
	return s.new(StmtBuiltin, source.Span{}, s.Builtins.Allocate(StmtBuiltinData{Name: name}))
}

func (s *Stmts) Builtin(id StmtID) *StmtBuiltinData {
	p, ok := s.payload(id, StmtBuiltin)
	if !ok {
		return nil
	}
	return s.Builtins.Get(p)
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(StmtReturnData{Value: value}))
}

func (s *Stmts) Return(id StmtID) *StmtReturnData {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil
	}
	return s.Returns.Get(p)
}

func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.new(StmtBreak, span, 0)
}

func (s *Stmts) NewContinue(span source.Span) StmtID {
	return s.new(StmtContinue, span, 0)
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) *StmtIfData {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil
	}
	return s.Ifs.Get(p)
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body}))
}

func (s *Stmts) While(id StmtID) *StmtWhileData {
	p, ok := s.payload(id, StmtWhile)
	if !ok {
		return nil
	}
	return s.Whiles.Get(p)
}

func (s *Stmts) NewFor(span source.Span, data StmtForData) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(data))
}

func (s *Stmts) For(id StmtID) *StmtForData {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil
	}
	return s.Fors.Get(p)
}
