package testkit

import (
	"testing"

	"lazuli/internal/ast"
	"lazuli/internal/diag"
	"lazuli/internal/lexer"
	"lazuli/internal/parser"
	"lazuli/internal/source"
)

func parse(t *testing.T, src string) (parser.Result, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lzr", []byte(src)))
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := parser.Parse(fs, toks, "test", parser.Options{Bag: bag})
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", res.Bag.Items())
	}
	return res, file
}

func TestCheckSpanInvariants(t *testing.T) {
	for _, src := range []string{
		"",
		"println(1)\n",
		"fn f(a) { return a }\nx = f(2)\nprintln(x)\n",
		"// comment\nwhile true { break }\n",
	} {
		res, file := parse(t, src)
		if err := CheckSpanInvariants(res.Builder, res.Program, file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestCheckSpanInvariantsDetectsBadSpan(t *testing.T) {
	res, file := parse(t, "x = 1\ny = 2\n")
	p := res.Builder.Program(res.Program)
	st := res.Builder.Stmts.Get(p.Stmts[1])
	st.Span.End = uint32(len(file.Content)) + 10
	if err := CheckSpanInvariants(res.Builder, res.Program, file); err == nil {
		t.Fatal("expected span error")
	}
}

func TestCheckSpanInvariantsNil(t *testing.T) {
	if err := CheckSpanInvariants(nil, ast.ProgramID(0), nil); err == nil {
		t.Fatal("expected error")
	}
}
