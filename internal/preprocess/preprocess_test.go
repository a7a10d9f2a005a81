package preprocess

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestPassThrough(t *testing.T) {
	src := "println(\"x\")"
	if got := Preprocess(src, Options{}); got != src {
		t.Fatalf("got %q, want %q", got, src)
	}
}

func TestCanonicalization(t *testing.T) {
	// BOM, CRLF и разложенная "й" (и + U+0306)
	src := "\xEF\xBB\xBFa = \"\u0438\u0306\"\r\nb"
	got := Preprocess(src, Options{})
	want := "a = \"\u0439\"\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDefines(t *testing.T) {
	src := strings.Join([]string{
		"#define GREETING \"hi\"",
		"#define N 3",
		"println(GREETING, N, \"N stays\", N_1) // N in comment",
		"/* N",
		"N */ N",
		"#undef N",
		"N",
	}, "\n")
	got := Preprocess(src, Options{Defines: map[string]string{"N_1": "7"}})
	want := strings.Join([]string{
		"",
		"",
		"println(\"hi\", 3, \"N stays\", 7) // N in comment",
		"/* N",
		"N */ 3",
		"",
		"N",
	}, "\n")
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"lib/util.lzr":   {Data: []byte("#include \"common.lzr\"\nfn util() { return K }\n")},
		"lib/common.lzr": {Data: []byte("#define K 42\nfn common() {}\n")},
		"lib/loop.lzr":   {Data: []byte("#include \"loop.lzr\"\nfn loop() {}")},
	}
	src := strings.Join([]string{
		"#include \"lib/util.lzr\"",
		"#include \"lib/common.lzr\"",
		"#include \"lib/loop.lzr\"",
		"#include \"missing.lzr\"",
		"#include <bad>",
		"println(K)",
	}, "\n")
	res := Run(src, Options{FS: fsys})

	want := strings.Join([]string{
		"\nfn common() {}\nfn util() { return 42 }",
		"",
		"\nfn loop() {}",
		"",
		"",
		"println(42)",
	}, "\n")
	if res.Text != want {
		t.Fatalf("got:\n%q\nwant:\n%q", res.Text, want)
	}
	if len(res.Included) != 3 || res.Included[0] != "lib/util.lzr" || res.Included[1] != "lib/common.lzr" {
		t.Fatalf("Included = %v", res.Included)
	}
	if len(res.Cycles) != 1 || res.Cycles[0] != "lib/loop.lzr" {
		t.Fatalf("Cycles = %v", res.Cycles)
	}
	if len(res.Missing) != 2 {
		t.Fatalf("Missing = %v", res.Missing)
	}
	if !strings.Contains(res.Summary(), "missing: <bad>, missing.lzr") {
		t.Fatalf("Summary = %q", res.Summary())
	}
}

func TestIncludeWithoutFS(t *testing.T) {
	res := Run("#include \"a.lzr\"\nx", Options{})
	if res.Text != "\nx" || len(res.Missing) != 1 {
		t.Fatalf("got %q missing=%v", res.Text, res.Missing)
	}
}

func TestUnknownDirectivePassesThrough(t *testing.T) {
	src := "#pragma once\nx"
	if got := Preprocess(src, Options{}); got != src {
		t.Fatalf("got %q", got)
	}
}

func TestNumbersAreNotMacroTargets(t *testing.T) {
	got := Preprocess("x = 1e5 + e5", Options{Defines: map[string]string{"e5": "0"}})
	if got != "x = 1e5 + 0" {
		t.Fatalf("got %q", got)
	}
}

func TestDefinesSkipNestedBlockComments(t *testing.T) {
	src := strings.Join([]string{
		"#define N 3",
		"/* a /* b */ N */ N",
		"/* a",
		"/* b */ N",
		"#define N 9",
		"*/ N",
	}, "\n")
	got := Preprocess(src, Options{})
	want := strings.Join([]string{
		"",
		"/* a /* b */ N */ 3",
		"/* a",
		"/* b */ N",
		"#define N 9",
		"*/ 3",
	}, "\n")
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBlockDepthAfter(t *testing.T) {
	cases := []struct {
		line  string
		depth int
		want  int
	}{
		{"x", 0, 0},
		{"/* a /* b */", 0, 1},
		{"/* a /* b */ */", 0, 0},
		{"*/", 2, 1},
		{"\"/*\" x", 0, 0},
		{"// /*", 0, 0},
		{"/* // */ x", 0, 0},
	}
	for _, tc := range cases {
		if got := blockDepthAfter(tc.line, tc.depth); got != tc.want {
			t.Errorf("blockDepthAfter(%q, %d) = %d, want %d", tc.line, tc.depth, got, tc.want)
		}
	}
}

func TestPreprocessIsDeterministic(t *testing.T) {
	fsys := fstest.MapFS{
		"a.lzr": {Data: []byte("#define A 1\n#define B 2\n#define C 3\n")},
	}
	src := "#include \"a.lzr\"\n#include \"b.lzr\"\nprintln(A, B, C, D)"
	opts := Options{FS: fsys, Defines: map[string]string{"D": "4", "E": "5", "F": "6"}}
	first := Run(src, opts)
	for i := 0; i < 20; i++ {
		again := Run(src, opts)
		if again.Text != first.Text || again.Summary() != first.Summary() {
			t.Fatalf("run %d differs: %q vs %q", i, again.Text, first.Text)
		}
	}
}

func FuzzPreprocessIsTotal(f *testing.F) {
	f.Add("#define A B\nA\n#include \"x\"")
	f.Add("\"unterminated \\")
	f.Add("/* open\n#define X 1")
	f.Add("#define N 1\n/* a /* b */ N */ N")
	f.Fuzz(func(t *testing.T, src string) {
		opts := Options{FS: fstest.MapFS{"x": {Data: []byte(src)}}}
		first := Preprocess(src, opts)
		if second := Preprocess(src, opts); second != first {
			t.Fatalf("preprocess not deterministic: %q vs %q", first, second)
		}
	})
}
