package parser

import (
	"strings"
	"testing"

	"lazuli/internal/ast"
	"lazuli/internal/diag"
	"lazuli/internal/lexer"
	"lazuli/internal/source"
)

func parseSource(t *testing.T, input string, opts Options) (Result, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lzr", []byte(input)))
	if opts.Bag == nil {
		opts.Bag = diag.NewBag(0)
	}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: opts.Bag}})
	return Parse(fs, toks, "test", opts), fs
}

func mustParse(t *testing.T, input string) (*ast.Builder, *ast.Program) {
	t.Helper()
	res, fs := parseSource(t, input, Options{})
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShortDiagnostics(res.Bag.Pointers(), fs, false))
	}
	return res.Builder, res.Builder.Program(res.Program)
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestParseSampleProgram(t *testing.T) {
	src := `using "lzr.lang.system"

fn fib(n) {
	if n < 2 { return n }
	return fib(n - 1) + fib(n - 2)
}

let = [1, 2, 3]
total = 0
for x in let {
	total += x
}
m = {name: "lzr", "ver": 1.5}
println(fib(10), m.name, let[0])
while false { break }
`
	b, prog := mustParse(t, src)
	if len(prog.Stmts) != 8 {
		t.Fatalf("top-level statements: got %d, want 8", len(prog.Stmts))
	}
	want := []ast.StmtKind{
		ast.StmtUsing, ast.StmtFn, ast.StmtExpr, ast.StmtExpr,
		ast.StmtFor, ast.StmtExpr, ast.StmtExpr, ast.StmtWhile,
	}
	for i, id := range prog.Stmts {
		if got := b.Stmts.Get(id).Kind; got != want[i] {
			t.Errorf("stmt %d: got %v, want %v", i, got, want[i])
		}
	}
	if u := b.Stmts.Using(prog.Stmts[0]); u == nil || u.Path != "lzr.lang.system" {
		t.Fatalf("using path: %+v", u)
	}
	fn := b.Stmts.Fn(prog.Stmts[1])
	if fn == nil || fn.Name != "fib" || len(fn.Params) != 1 || fn.Params[0].Name != "n" {
		t.Fatalf("fn decl: %+v", fn)
	}
}

func TestPrecedence(t *testing.T) {
	b, prog := mustParse(t, "a = 1 + 2 * 3")
	st := b.Stmts.Expr(prog.Stmts[0])
	assign, ok := b.Exprs.Binary(st.Expr)
	if !ok || assign.Op != ast.ExprBinaryAssign {
		t.Fatalf("expected assignment at root")
	}
	add, ok := b.Exprs.Binary(assign.Right)
	if !ok || add.Op != ast.ExprBinaryAdd {
		t.Fatalf("expected '+' under '='")
	}
	mul, ok := b.Exprs.Binary(add.Right)
	if !ok || mul.Op != ast.ExprBinaryMul {
		t.Fatalf("expected '*' on the right of '+'")
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	b, prog := mustParse(t, "a = b = 1")
	outer, _ := b.Exprs.Binary(b.Stmts.Expr(prog.Stmts[0]).Expr)
	if _, ok := b.Exprs.Ident(outer.Left); !ok {
		t.Fatalf("left of outer '=' must be ident")
	}
	inner, ok := b.Exprs.Binary(outer.Right)
	if !ok || inner.Op != ast.ExprBinaryAssign {
		t.Fatalf("right of outer '=' must be another assignment")
	}
}

func TestMapLiteralIdentKeys(t *testing.T) {
	b, prog := mustParse(t, `m = {a: 1, "b": 2,}`)
	assign, _ := b.Exprs.Binary(b.Stmts.Expr(prog.Stmts[0]).Expr)
	m, ok := b.Exprs.Map(assign.Right)
	if !ok || len(m.Entries) != 2 {
		t.Fatalf("map entries: %+v", m)
	}
	key, ok := b.Exprs.Literal(m.Entries[0].Key)
	if !ok || key.Kind != ast.ExprLitString || key.Str != "a" {
		t.Fatalf("bare key must become a string literal, got %+v", key)
	}
}

func TestNewlineTerminatesStatements(t *testing.T) {
	_, prog := mustParse(t, "a = 1\nb = 2")
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}
	_, prog = mustParse(t, "a = 1; b = 2;")
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}

	res, _ := parseSource(t, "a = 1 b = 2", Options{})
	got := codes(res.Bag)
	if len(got) == 0 || got[0] != diag.SynExpectStmtEnd {
		t.Fatalf("got %v, want SynExpectStmtEnd first", got)
	}
}

func TestCallDoesNotContinueAfterNewline(t *testing.T) {
	b, prog := mustParse(t, "f\n(1)")
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}
	if _, ok := b.Exprs.Ident(b.Stmts.Expr(prog.Stmts[0]).Expr); !ok {
		t.Fatalf("first statement must be a bare identifier")
	}

	b, prog = mustParse(t, "obj\n  .field")
	if _, ok := b.Exprs.Member(b.Stmts.Expr(prog.Stmts[0]).Expr); !ok || len(prog.Stmts) != 1 {
		t.Fatalf("'.' after newline must continue the chain")
	}
}

func TestUnclosedFnReportsError(t *testing.T) {
	res, _ := parseSource(t, "fn (", Options{})
	if !res.Bag.HasErrors() {
		t.Fatal("expected at least one error for 'fn ('")
	}
}

func TestCollectsSeveralErrors(t *testing.T) {
	res, _ := parseSource(t, "x = ;\ny = )\nz = 1\n", Options{})
	got := codes(res.Bag)
	if len(got) != 2 {
		t.Fatalf("got %v, want two errors", got)
	}
	for _, c := range got {
		if c != diag.SynExpectExpression {
			t.Fatalf("got %v, want SynExpectExpression only", got)
		}
	}
	prog := res.Builder.Program(res.Program)
	if len(prog.Stmts) != 1 {
		t.Fatalf("parser must recover and keep 'z = 1', got %d statements", len(prog.Stmts))
	}
}

func TestBagIsFrozen(t *testing.T) {
	res, _ := parseSource(t, "x = ;", Options{})
	if !res.Bag.Frozen() {
		t.Fatal("bag must be frozen after Parse")
	}
	if res.Bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{}, "late")) {
		t.Fatal("frozen bag accepted a diagnostic")
	}
}

func TestMaxErrors(t *testing.T) {
	src := strings.Repeat("x = ;\n", 5)
	res, _ := parseSource(t, src, Options{MaxErrors: 2})
	if n := res.Bag.ErrorCount(); n != 2 {
		t.Fatalf("got %d errors, want 2", n)
	}
}

func TestLexerErrorNotReportedTwice(t *testing.T) {
	res, _ := parseSource(t, "x = @\n", Options{})
	got := codes(res.Bag)
	if len(got) != 1 || got[0] != diag.LexUnknownChar {
		t.Fatalf("got %v, want exactly one LexUnknownChar", got)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	res, _ := parseSource(t, "1 = 2", Options{})
	got := codes(res.Bag)
	if len(got) != 1 || got[0] != diag.SynInvalidAssignment {
		t.Fatalf("got %v, want SynInvalidAssignment", got)
	}
}

func TestUnclosedBlockHasNote(t *testing.T) {
	res, _ := parseSource(t, "while true {\n  x = 1\n", Options{})
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynUnclosedBrace {
		t.Fatalf("got %v, want SynUnclosedBrace", codes(res.Bag))
	}
	if len(items[0].Notes) != 1 {
		t.Fatalf("expected a note pointing at '{'")
	}
}

func TestDuplicateParam(t *testing.T) {
	res, _ := parseSource(t, "fn f(a, a) {}", Options{})
	got := codes(res.Bag)
	if len(got) != 1 || got[0] != diag.SynDuplicateParam {
		t.Fatalf("got %v, want SynDuplicateParam", got)
	}
}

func TestIntLiteralBases(t *testing.T) {
	cases := map[string]int64{"0x1F": 31, "0b101": 5, "0o17": 15, "1_000": 1000, "010": 10}
	for text, want := range cases {
		got, err := parseIntLiteral(text)
		if err != nil || got != want {
			t.Errorf("%s: got %d, %v; want %d", text, got, err, want)
		}
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{"", "}", "{", "((((", "fn", "fn f(", "for in", "if", "[1,", "{a:", "a.", "using 1", "else {}"}
	for _, in := range inputs {
		res, _ := parseSource(t, in, Options{})
		if res.Builder.Program(res.Program) == nil {
			t.Fatalf("%q: no program", in)
		}
	}
}
