package ast

import (
	"testing"

	"lazuli/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatal("empty arena must return nil")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("Allocate = %d, Get = %v", id, a.Get(id))
	}
}

func TestPayloadAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	id := b.Exprs.NewIdent(source.Span{}, "x")
	if _, ok := b.Exprs.Call(id); ok {
		t.Fatal("ident must not read as call")
	}
	data, ok := b.Exprs.Ident(id)
	if !ok || data.Name != "x" {
		t.Fatalf("Ident = %v, %v", data, ok)
	}
	ret := b.Stmts.NewReturn(source.Span{}, id)
	if b.Stmts.If(ret) != nil || b.Stmts.Return(ret).Value != id {
		t.Fatal("statement payload mismatch")
	}
}

type countingVisitor struct {
	NopStmtVisitor
	fns      []string
	builtins int
}

func (v *countingVisitor) VisitFn(_ StmtID, d *StmtFnData)           { v.fns = append(v.fns, d.Name) }
func (v *countingVisitor) VisitBuiltin(_ StmtID, _ *StmtBuiltinData) { v.builtins++ }

func TestAcceptVisitsTopLevelInOrder(t *testing.T) {
	b := NewBuilder(Hints{})
	prog := b.NewProgram(source.Span{}, "local")
	body := b.Stmts.NewBlock(source.Span{}, nil)
	b.PushStmt(prog, b.Stmts.NewBuiltin("println"))
	b.PushStmt(prog, b.Stmts.NewFn(source.Span{}, StmtFnData{Name: "a", Body: body}))
	b.PushStmt(prog, b.Stmts.NewExpr(source.Span{}, b.Exprs.NewIdent(source.Span{}, "a")))
	b.PushStmt(prog, b.Stmts.NewFn(source.Span{}, StmtFnData{Name: "b", Body: body}))

	v := &countingVisitor{}
	Accept(b, prog, v)
	if v.builtins != 1 || len(v.fns) != 2 || v.fns[0] != "a" || v.fns[1] != "b" {
		t.Fatalf("visited builtins=%d fns=%v", v.builtins, v.fns)
	}
}

func TestCompoundAssignArith(t *testing.T) {
	if op, ok := ExprBinaryModAssign.Arith(); !ok || op != ExprBinaryMod {
		t.Fatalf("Arith = %v,%v", op, ok)
	}
	if _, ok := ExprBinaryAssign.Arith(); ok {
		t.Fatal("plain assign has no arithmetic part")
	}
	if !ExprBinaryAssign.IsAssign() || ExprBinaryEq.IsAssign() {
		t.Fatal("IsAssign misclassifies")
	}
}
