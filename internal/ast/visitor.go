package ast

import "fmt"

// StmtVisitor has one method per statement kind. DispatchStmt picks the
// method by Kind, so adding a kind without a method breaks the build.
type StmtVisitor interface {
	VisitExprStmt(id StmtID, data *StmtExprData)
	VisitBlock(id StmtID, data *StmtBlockData)
	VisitUsing(id StmtID, data *StmtUsingData)
	VisitFn(id StmtID, data *StmtFnData)
	VisitBuiltin(id StmtID, data *StmtBuiltinData)
	VisitReturn(id StmtID, data *StmtReturnData)
	VisitBreak(id StmtID)
	VisitContinue(id StmtID)
	VisitIf(id StmtID, data *StmtIfData)
	VisitWhile(id StmtID, data *StmtWhileData)
	VisitFor(id StmtID, data *StmtForData)
}

// ExprVisitor mirrors StmtVisitor for expressions.
type ExprVisitor interface {
	VisitIdent(id ExprID, data *ExprIdentData)
	VisitLiteral(id ExprID, data *ExprLiteralData)
	VisitBinary(id ExprID, data *ExprBinaryData)
	VisitUnary(id ExprID, data *ExprUnaryData)
	VisitCall(id ExprID, data *ExprCallData)
	VisitIndex(id ExprID, data *ExprIndexData)
	VisitMember(id ExprID, data *ExprMemberData)
	VisitArray(id ExprID, data *ExprArrayData)
	VisitMap(id ExprID, data *ExprMapData)
	VisitFnLit(id ExprID, data *ExprFnData)
}

func _() {
	// число методов в визиторах должно совпадать с числом видов узлов
	var x [1]struct{}
	_ = x[stmtKindCount-11]
	_ = x[exprKindCount-10]
}

// DispatchStmt calls the visitor method matching the statement kind.
func DispatchStmt(b *Builder, v StmtVisitor, id StmtID) {
	st := b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case StmtExpr:
		v.VisitExprStmt(id, b.Stmts.Expr(id))
	case StmtBlock:
		v.VisitBlock(id, b.Stmts.Block(id))
	case StmtUsing:
		v.VisitUsing(id, b.Stmts.Using(id))
	case StmtFn:
		v.VisitFn(id, b.Stmts.Fn(id))
	case StmtBuiltin:
		v.VisitBuiltin(id, b.Stmts.Builtin(id))
	case StmtReturn:
		v.VisitReturn(id, b.Stmts.Return(id))
	case StmtBreak:
		v.VisitBreak(id)
	case StmtContinue:
		v.VisitContinue(id)
	case StmtIf:
		v.VisitIf(id, b.Stmts.If(id))
	case StmtWhile:
		v.VisitWhile(id, b.Stmts.While(id))
	case StmtFor:
		v.VisitFor(id, b.Stmts.For(id))
	default:
		panic(fmt.Sprintf("ast: unknown statement kind %d", st.Kind))
	}
}

// DispatchExpr calls the visitor method matching the expression kind.
func DispatchExpr(b *Builder, v ExprVisitor, id ExprID) {
	e := b.Exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case ExprIdent:
		data, _ := b.Exprs.Ident(id)
		v.VisitIdent(id, data)
	case ExprLit:
		data, _ := b.Exprs.Literal(id)
		v.VisitLiteral(id, data)
	case ExprBinary:
		data, _ := b.Exprs.Binary(id)
		v.VisitBinary(id, data)
	case ExprUnary:
		data, _ := b.Exprs.Unary(id)
		v.VisitUnary(id, data)
	case ExprCall:
		data, _ := b.Exprs.Call(id)
		v.VisitCall(id, data)
	case ExprIndex:
		data, _ := b.Exprs.Index(id)
		v.VisitIndex(id, data)
	case ExprMember:
		data, _ := b.Exprs.Member(id)
		v.VisitMember(id, data)
	case ExprArray:
		data, _ := b.Exprs.Array(id)
		v.VisitArray(id, data)
	case ExprMap:
		data, _ := b.Exprs.Map(id)
		v.VisitMap(id, data)
	case ExprFn:
		data, _ := b.Exprs.Fn(id)
		v.VisitFnLit(id, data)
	default:
		panic(fmt.Sprintf("ast: unknown expression kind %d", e.Kind))
	}
}

// Accept walks the top-level statements of a program in source order.
func Accept(b *Builder, prog ProgramID, v StmtVisitor) {
	p := b.Program(prog)
	if p == nil {
		return
	}
	for _, id := range p.Stmts {
		DispatchStmt(b, v, id)
	}
}

// NopStmtVisitor ignores every statement; embed it to override a few methods.
type NopStmtVisitor struct{}

func (NopStmtVisitor) VisitExprStmt(StmtID, *StmtExprData)   {}
func (NopStmtVisitor) VisitBlock(StmtID, *StmtBlockData)     {}
func (NopStmtVisitor) VisitUsing(StmtID, *StmtUsingData)     {}
func (NopStmtVisitor) VisitFn(StmtID, *StmtFnData)           {}
func (NopStmtVisitor) VisitBuiltin(StmtID, *StmtBuiltinData) {}
func (NopStmtVisitor) VisitReturn(StmtID, *StmtReturnData)   {}
func (NopStmtVisitor) VisitBreak(StmtID)                     {}
func (NopStmtVisitor) VisitContinue(StmtID)                  {}
func (NopStmtVisitor) VisitIf(StmtID, *StmtIfData)           {}
func (NopStmtVisitor) VisitWhile(StmtID, *StmtWhileData)     {}
func (NopStmtVisitor) VisitFor(StmtID, *StmtForData)         {}
