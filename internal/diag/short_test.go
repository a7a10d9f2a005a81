package diag

import (
	"testing"

	"lazuli/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("testdata/sample.lzr", []byte("a\nb\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 2, End: 3},
			Notes:    []Note{{Span: source.Span{File: file, Start: 0, End: 1}, Msg: "opened here"}},
		},
		{
			Severity: SevWarning,
			Code:     LexUnknownChar,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 0, End: 1},
		},
	}

	want := "error SYN2001 testdata/sample.lzr:2:1 first line second\n" +
		"note SYN2001 testdata/sample.lzr:1:1 opened here\n" +
		"warning LEX1001 testdata/sample.lzr:1:1 another"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
	if got := FormatShortDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("empty input must render empty, got %q", got)
	}
}
