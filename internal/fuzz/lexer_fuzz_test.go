package fuzztests

import (
	"testing"
	"testing/fstest"

	"lazuli/internal/diag"
	"lazuli/internal/lexer"
	"lazuli/internal/preprocess"
	"lazuli/internal/source"
	"lazuli/internal/testkit"
	"lazuli/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		text := preprocess.Preprocess(string(input), preprocess.Options{})
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.lzr", []byte(text)))

		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream must end with EOF")
		}
		for i := 1; i < len(toks); i++ {
			if toks[i].Span.Start < toks[i-1].Span.Start {
				t.Fatalf("token %d starts at %d before token %d at %d", i, toks[i].Span.Start, i-1, toks[i-1].Span.Start)
			}
		}
		if got := testkit.Reconstruct(toks); got != string(file.Content) {
			t.Fatalf("trivia + token text does not rebuild input:\n got %q\nwant %q", got, file.Content)
		}
		again := lexer.Tokenize(file, lexer.Options{})
		if err := testkit.SameTokens(toks, again); err != nil {
			t.Fatalf("second tokenize differs: %v", err)
		}
	})
}

func FuzzPreprocessTotal(f *testing.F) {
	addCorpusSeeds(f)
	lib := fstest.MapFS{
		"lib.lzr":  {Data: []byte("#include \"self.lzr\"\nfn lib() { return 1 }\n")},
		"self.lzr": {Data: []byte("#include \"self.lzr\"\n")},
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		opts := preprocess.Options{
			FS:      lib,
			Defines: map[string]string{"N": "10", "M": "N", "K": "\"k\""},
		}
		first := preprocess.Run(string(input), opts)
		second := preprocess.Run(string(input), opts)
		if first.Text != second.Text || first.Summary() != second.Summary() {
			t.Fatalf("preprocess not deterministic:\n%q\n%q", first.Text, second.Text)
		}
	})
}
