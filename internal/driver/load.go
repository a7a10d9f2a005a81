package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"lazuli/internal/ast"
	"lazuli/internal/diag"
	"lazuli/internal/lexer"
	"lazuli/internal/parser"
	"lazuli/internal/preprocess"
	"lazuli/internal/source"
	"lazuli/internal/token"
)

// LoadOptions controls how Tokenize and Parse read a script file.
type LoadOptions struct {
	MaxDiagnostics int
	// Raw skips the preprocessor; spans then match the file on disk.
	Raw        bool
	Defines    map[string]string
	IncludeDir string // "": каталог файла
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	Program ast.ProgramID
	Bag     *diag.Bag
}

func load(path string, opts LoadOptions) (*source.FileSet, *source.File, error) {
	fs := source.NewFileSet()
	if opts.Raw {
		id, err := fs.Load(path)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs.Get(id), nil
	}

	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	dir := opts.IncludeDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	text := preprocess.Preprocess(string(data), preprocess.Options{
		FS:      os.DirFS(dir),
		Defines: opts.Defines,
	})
	content, flags := source.NormalizeText([]byte(text))
	return fs, fs.Get(fs.Add(path, content, flags)), nil
}

// Tokenize reads a file and lexes it.
func Tokenize(path string, opts LoadOptions) (*TokenizeResult, error) {
	fs, file, err := load(path, opts)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  toks,
		Bag:     bag,
	}, nil
}

// Parse reads a file, lexes and parses it. Lexer and parser diagnostics
// share one Bag.
func Parse(path string, opts LoadOptions) (*ParseResult, error) {
	tr, err := Tokenize(path, opts)
	if err != nil {
		return nil, err
	}
	res := parser.Parse(tr.FileSet, tr.Tokens, path, parser.Options{
		Bag:       tr.Bag,
		MaxErrors: uint(max(opts.MaxDiagnostics, 0)),
	})
	return &ParseResult{
		FileSet: tr.FileSet,
		File:    tr.File,
		Builder: res.Builder,
		Program: res.Program,
		Bag:     res.Bag,
	}, nil
}
