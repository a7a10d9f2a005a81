package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"lazuli/internal/ast"
	"lazuli/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// treeBuilder превращает AST в дерево подписей, обходя его визиторами.
type treeBuilder struct {
	b    *ast.Builder
	fs   *source.FileSet
	last *treeNode // результат последнего Visit*
}

func (t *treeBuilder) node(label string, sp source.Span, children ...*treeNode) *treeNode {
	return &treeNode{label: fmt.Sprintf("%s (%s)", label, formatSpan(sp, t.fs)), children: children}
}

func (t *treeBuilder) stmt(id ast.StmtID) *treeNode {
	if !id.IsValid() {
		return &treeNode{label: "<none>"}
	}
	t.last = nil
	ast.DispatchStmt(t.b, t, id)
	if t.last == nil {
		return &treeNode{label: "<nil>"}
	}
	return t.last
}

func (t *treeBuilder) expr(id ast.ExprID) *treeNode {
	if !id.IsValid() {
		return &treeNode{label: "<none>"}
	}
	t.last = nil
	ast.DispatchExpr(t.b, t, id)
	if t.last == nil {
		return &treeNode{label: "<nil>"}
	}
	return t.last
}

func (t *treeBuilder) stmtSpan(id ast.StmtID) source.Span { return t.b.Stmts.Get(id).Span }
func (t *treeBuilder) exprSpan(id ast.ExprID) source.Span { return t.b.Exprs.Get(id).Span }

func labeled(label string, n *treeNode) *treeNode {
	return &treeNode{label: label, children: []*treeNode{n}}
}

func paramsLabel(params []ast.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "Params: (" + strings.Join(names, ", ") + ")"
}

func (t *treeBuilder) VisitExprStmt(id ast.StmtID, data *ast.StmtExprData) {
	t.last = t.node("ExprStmt", t.stmtSpan(id), t.expr(data.Expr))
}

func (t *treeBuilder) VisitBlock(id ast.StmtID, data *ast.StmtBlockData) {
	n := t.node("Block", t.stmtSpan(id))
	for _, s := range data.Stmts {
		n.children = append(n.children, t.stmt(s))
	}
	t.last = n
}

func (t *treeBuilder) VisitUsing(id ast.StmtID, data *ast.StmtUsingData) {
	t.last = t.node("Using "+strconv.Quote(data.Path), t.stmtSpan(id))
}

func (t *treeBuilder) VisitFn(id ast.StmtID, data *ast.StmtFnData) {
	t.last = t.node("Fn "+data.Name, t.stmtSpan(id),
		&treeNode{label: paramsLabel(data.Params)},
		t.stmt(data.Body))
}

func (t *treeBuilder) VisitBuiltin(_ ast.StmtID, data *ast.StmtBuiltinData) {
	t.last = &treeNode{label: "Builtin " + data.Name}
}

func (t *treeBuilder) VisitReturn(id ast.StmtID, data *ast.StmtReturnData) {
	n := t.node("Return", t.stmtSpan(id))
	if data.Value.IsValid() {
		n.children = append(n.children, t.expr(data.Value))
	}
	t.last = n
}

func (t *treeBuilder) VisitBreak(id ast.StmtID)    { t.last = t.node("Break", t.stmtSpan(id)) }
func (t *treeBuilder) VisitContinue(id ast.StmtID) { t.last = t.node("Continue", t.stmtSpan(id)) }

func (t *treeBuilder) VisitIf(id ast.StmtID, data *ast.StmtIfData) {
	n := t.node("If", t.stmtSpan(id),
		labeled("Cond", t.expr(data.Cond)),
		labeled("Then", t.stmt(data.Then)))
	if data.Else.IsValid() {
		n.children = append(n.children, labeled("Else", t.stmt(data.Else)))
	}
	t.last = n
}

func (t *treeBuilder) VisitWhile(id ast.StmtID, data *ast.StmtWhileData) {
	t.last = t.node("While", t.stmtSpan(id),
		labeled("Cond", t.expr(data.Cond)),
		t.stmt(data.Body))
}

func (t *treeBuilder) VisitFor(id ast.StmtID, data *ast.StmtForData) {
	t.last = t.node("For "+data.Var, t.stmtSpan(id),
		labeled("In", t.expr(data.Iter)),
		t.stmt(data.Body))
}

func (t *treeBuilder) VisitIdent(id ast.ExprID, data *ast.ExprIdentData) {
	t.last = t.node("Ident "+data.Name, t.exprSpan(id))
}

func (t *treeBuilder) VisitLiteral(id ast.ExprID, data *ast.ExprLiteralData) {
	var text string
	switch data.Kind {
	case ast.ExprLitNull:
		text = "null"
	case ast.ExprLitBool:
		text = strconv.FormatBool(data.Bool)
	case ast.ExprLitInt:
		text = strconv.FormatInt(data.Int, 10)
	case ast.ExprLitFloat:
		text = strconv.FormatFloat(data.Float, 'g', -1, 64)
	case ast.ExprLitString:
		text = strconv.Quote(data.Str)
	}
	t.last = t.node("Lit "+data.Kind.String()+" "+text, t.exprSpan(id))
}

func (t *treeBuilder) VisitBinary(id ast.ExprID, data *ast.ExprBinaryData) {
	t.last = t.node("Binary "+data.Op.String(), t.exprSpan(id), t.expr(data.Left), t.expr(data.Right))
}

func (t *treeBuilder) VisitUnary(id ast.ExprID, data *ast.ExprUnaryData) {
	t.last = t.node("Unary "+data.Op.String(), t.exprSpan(id), t.expr(data.Operand))
}

func (t *treeBuilder) VisitCall(id ast.ExprID, data *ast.ExprCallData) {
	args := &treeNode{label: fmt.Sprintf("Args[%d]", len(data.Args))}
	for _, a := range data.Args {
		args.children = append(args.children, t.expr(a))
	}
	t.last = t.node("Call", t.exprSpan(id), labeled("Target", t.expr(data.Target)), args)
}

func (t *treeBuilder) VisitIndex(id ast.ExprID, data *ast.ExprIndexData) {
	t.last = t.node("Index", t.exprSpan(id), t.expr(data.Target), t.expr(data.Index))
}

func (t *treeBuilder) VisitMember(id ast.ExprID, data *ast.ExprMemberData) {
	t.last = t.node("Member ."+data.Field, t.exprSpan(id), t.expr(data.Target))
}

func (t *treeBuilder) VisitArray(id ast.ExprID, data *ast.ExprArrayData) {
	n := t.node(fmt.Sprintf("Array[%d]", len(data.Elems)), t.exprSpan(id))
	for _, e := range data.Elems {
		n.children = append(n.children, t.expr(e))
	}
	t.last = n
}

func (t *treeBuilder) VisitMap(id ast.ExprID, data *ast.ExprMapData) {
	n := t.node(fmt.Sprintf("Map[%d]", len(data.Entries)), t.exprSpan(id))
	for _, e := range data.Entries {
		n.children = append(n.children, &treeNode{label: "Entry", children: []*treeNode{t.expr(e.Key), t.expr(e.Value)}})
	}
	t.last = n
}

func (t *treeBuilder) VisitFnLit(id ast.ExprID, data *ast.ExprFnData) {
	t.last = t.node("FnLit", t.exprSpan(id), &treeNode{label: paramsLabel(data.Params)}, t.stmt(data.Body))
}

// FormatAST prints the program as an indented tree:
//
//	Program "main.lzr" (1:1-3:2)
//	├── Using "lzr.lang.system" (1:1-1:24)
//	└── ExprStmt (2:1-2:15)
//	    └── Call (2:1-2:15)
func FormatAST(w io.Writer, b *ast.Builder, prog ast.ProgramID, fs *source.FileSet) error {
	p := b.Program(prog)
	if p == nil {
		return fmt.Errorf("program %d not found", prog)
	}
	t := &treeBuilder{b: b, fs: fs}
	root := &treeNode{label: fmt.Sprintf("Program %q (%s)", p.Context, formatSpan(p.Span, fs))}
	for _, id := range p.Stmts {
		root.children = append(root.children, t.stmt(id))
	}
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	renderChildren(&sb, root.children, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func renderChildren(sb *strings.Builder, children []*treeNode, prefix string) {
	for i, c := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(c.label)
		sb.WriteByte('\n')
		renderChildren(sb, c.children, prefix+next)
	}
}
