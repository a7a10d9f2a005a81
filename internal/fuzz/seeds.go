package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var languageSeeds = []string{
	"",
	"println(\"hello\")\n",
	"using \"lzr.lang.system\"\nprintln(system.getProperty(\"os.name\"))\n",
	"fn fib(n) { if n < 2 { return n } return fib(n - 1) + fib(n - 2) }\nprintln(fib(10))\n",
	"xs = [1, 2, 3,]\nfor x in xs { total += x }\n",
	"m = {a: 1, \"b\": [2, {c: 3}]}\nm.a = m[\"b\"][0]\n",
	"while true { break }\n",
	"f = fn(a, b) { return a * b }\nprintln(f(2, 3))\n",
	"#define N 10\n#include \"lib.lzr\"\nprintln(N)\n",
	"x = ;\ny = (1 +\n",
	"/* unterminated",
	"\"unterminated",
	"0x 1e 0b102 1_000",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.lzr файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".lzr" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
