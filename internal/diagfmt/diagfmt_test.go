package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"lazuli/internal/diag"
	"lazuli/internal/lexer"
	"lazuli/internal/parser"
	"lazuli/internal/source"
)

func virtualFile(t *testing.T, src string) (*source.FileSet, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddVirtual("test.lzr", []byte(src)))
}

func TestPrettyPlain(t *testing.T) {
	fs, f := virtualFile(t, "x = ;\n")
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynExpectExpression, source.Span{File: f.ID, Start: 4, End: 5}, "expected expression"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "test.lzr:1:5: ERROR SYN2006: expected expression\n" +
		"1 | x = ;\n" +
		"  |     ^\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyNotesAndMax(t *testing.T) {
	fs, f := virtualFile(t, "fn a() {\n  x\n")
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynUnclosedBrace, source.Span{File: f.ID, Start: 13, End: 13}, "expected '}'").
		WithNote(source.Span{File: f.ID, Start: 7, End: 8}, "block opened here"))
	bag.Add(diag.NewError(diag.SynExpectStmtEnd, source.Span{File: f.ID, Start: 0, End: 2}, "second"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, Max: 1}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "test.lzr:1:8: note block opened here") {
		t.Fatalf("note missing:\n%s", out)
	}
	if strings.Contains(out, "second") {
		t.Fatalf("Max not honoured:\n%s", out)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs, f := virtualFile(t, "a\nb\nc\nd\n")
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: f.ID, Start: 4, End: 5}, "bad"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: 1}); err != nil {
		t.Fatal(err)
	}
	want := "test.lzr:3:1: ERROR SYN2001: bad\n" +
		"2 | b\n" +
		"3 | c\n" +
		"  | ^\n" +
		"4 | d\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestUnderline(t *testing.T) {
	tests := []struct {
		line     string
		from, to int
		pad      string
		marks    string
	}{
		{"abcdef", 1, 4, " ", "^~~"},
		{"\tx", 1, 2, "\t", "^"},
		{"日本x", 6, 7, "    ", "^"},
		{"ab", 2, 2, "  ", "^"},
		{"ab", 5, 9, "  ", "^"},
	}
	for _, tt := range tests {
		pad, marks := underline(tt.line, tt.from, tt.to)
		if pad != tt.pad || marks != tt.marks {
			t.Errorf("underline(%q, %d, %d) = %q, %q; want %q, %q", tt.line, tt.from, tt.to, pad, marks, tt.pad, tt.marks)
		}
	}
}

func TestJSONDiagnostics(t *testing.T) {
	fs, f := virtualFile(t, "x = ;\n")
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynExpectExpression, source.Span{File: f.ID, Start: 4, End: 5}, "expected expression").
		WithNote(source.Span{File: f.ID, Start: 0, End: 1}, "here"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2006" || d.Severity != "ERROR" || d.Title != "Expected expression" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Location.File != "test.lzr" || d.Location.StartLine != 1 || d.Location.StartCol != 5 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestFormatTokens(t *testing.T) {
	fs, f := virtualFile(t, "x = 1\n")
	toks := lexer.Tokenize(f, lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasPrefix(first, "  1: Ident") || !strings.Contains(first, `"x" at 1:1-1:2`) {
		t.Fatalf("first line = %q", first)
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 || out[len(out)-1].Kind != "EOF" {
		t.Fatalf("tokens = %+v", out)
	}
}

func TestFormatAST(t *testing.T) {
	fs, f := virtualFile(t, "fn add(a, b) { return a + b }\nadd(1, 2)\n")
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(f, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := parser.Parse(fs, toks, "test", parser.Options{Bag: bag})
	if res.Bag.HasErrors() {
		t.Fatalf("parse errors: %s", diag.FormatShortDiagnostics(res.Bag.Pointers(), fs, false))
	}

	var buf bytes.Buffer
	if err := FormatAST(&buf, res.Builder, res.Program, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`Program "test"`,
		"├── Fn add",
		"│   ├── Params: (a, b)",
		"Binary +",
		"└── ExprStmt",
		"Args[2]",
		"Lit int 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestParsePathMode(t *testing.T) {
	if m, ok := ParsePathMode("basename"); !ok || m != PathModeBasename {
		t.Fatalf("basename -> %v %v", m, ok)
	}
	if _, ok := ParsePathMode("weird"); ok {
		t.Fatal("weird accepted")
	}
}
