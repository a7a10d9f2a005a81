// Package preprocess rewrites script text before lexing.
//
// Supported directives, one per line:
//
//	#include "path"   inline another file from Options.FS (once per run)
//	#define NAME text  substitute NAME as a whole word outside strings and comments
//	#undef NAME
//
// Preprocessing is total: a missing, unreadable or circular include expands
// to an empty line and is recorded in Result, never returned as an error.
package preprocess

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"lazuli/internal/source"
)

// DefaultMaxDepth bounds include nesting.
const DefaultMaxDepth = 32

type Options struct {
	FS       fs.FS             // источник #include; nil: include всегда пустой
	Defines  map[string]string // начальные макросы
	MaxDepth int
}

// Result is the expanded text plus what happened to each include.
type Result struct {
	Text     string
	Included []string // в порядке первого включения
	Missing  []string
	Cycles   []string
}

// Preprocess returns the expanded text of src.
func Preprocess(src string, opts Options) string {
	return Run(src, opts).Text
}

// Run expands src and reports include bookkeeping.
func Run(src string, opts Options) Result {
	st := &state{
		opts:    opts,
		defines: make(map[string]string, len(opts.Defines)),
		done:    make(map[string]bool),
		stack:   make(map[string]bool),
	}
	if st.opts.MaxDepth <= 0 {
		st.opts.MaxDepth = DefaultMaxDepth
	}
	for name, val := range opts.Defines {
		if isIdent(name) {
			st.defines[name] = val
		}
	}
	text := st.expand(canonical(src), ".", 0)
	return Result{
		Text:     text,
		Included: st.included,
		Missing:  st.missing,
		Cycles:   st.cycles,
	}
}

// canonical убирает BOM, \r\n и приводит текст к NFC.
func canonical(src string) string {
	b, _ := source.NormalizeText([]byte(src))
	if norm.NFC.IsNormal(b) {
		return string(b)
	}
	return norm.NFC.String(string(b))
}

type state struct {
	opts     Options
	defines  map[string]string
	done     map[string]bool // уже включённые файлы (diamond include)
	stack    map[string]bool // текущая цепочка include
	included []string
	missing  []string
	cycles   []string
}

func (st *state) expand(src, dir string, depth int) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	blockDepth := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if blockDepth == 0 && strings.HasPrefix(trimmed, "#") {
			if expanded, ok := st.directive(trimmed, dir, depth); ok {
				out = append(out, expanded)
				continue
			}
		}
		var replaced string
		replaced, blockDepth = applyDefines(line, st.defines, blockDepth)
		out = append(out, replaced)
	}
	return strings.Join(out, "\n")
}

// directive обрабатывает строку-директиву. ok=false: строка не директива
// и уходит в лексер как есть.
func (st *state) directive(line, dir string, depth int) (string, bool) {
	name, rest := splitDirective(line)
	switch name {
	case "define":
		macro, body := splitWord(rest)
		if isIdent(macro) {
			body, _ = applyDefines(strings.TrimSpace(body), st.defines, 0)
			st.defines[macro] = body
		}
		return "", true
	case "undef":
		macro, _ := splitWord(rest)
		delete(st.defines, macro)
		return "", true
	case "include":
		target, ok := includeTarget(rest)
		if !ok {
			st.missing = append(st.missing, strings.TrimSpace(rest))
			return "", true
		}
		return st.include(target, dir, depth), true
	}
	return "", false
}

func (st *state) include(target, dir string, depth int) string {
	p := target
	if !path.IsAbs(p) {
		p = path.Join(dir, p)
	}
	p = strings.TrimPrefix(path.Clean(p), "/")
	if st.stack[p] || depth >= st.opts.MaxDepth {
		st.cycles = append(st.cycles, p)
		return ""
	}
	if st.done[p] {
		return ""
	}
	if st.opts.FS == nil || !fs.ValidPath(p) {
		st.missing = append(st.missing, p)
		return ""
	}
	data, err := fs.ReadFile(st.opts.FS, p)
	if err != nil {
		st.missing = append(st.missing, p)
		return ""
	}
	st.done[p] = true
	st.included = append(st.included, p)

	st.stack[p] = true
	body := st.expand(canonical(string(data)), path.Dir(p), depth+1)
	delete(st.stack, p)
	return strings.TrimSuffix(body, "\n")
}

// Summary renders the include bookkeeping, one sorted list per line.
func (r Result) Summary() string {
	var b strings.Builder
	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		sorted := append([]string(nil), items...)
		sort.Strings(sorted)
		b.WriteString(title)
		b.WriteString(": ")
		b.WriteString(strings.Join(sorted, ", "))
		b.WriteByte('\n')
	}
	list("included", r.Included)
	list("missing", r.Missing)
	list("cycles", r.Cycles)
	return b.String()
}

func splitDirective(line string) (name, rest string) {
	line = strings.TrimPrefix(line, "#")
	line = strings.TrimLeft(line, " \t")
	return splitWord(line)
}

func splitWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

func includeTarget(rest string) (string, bool) {
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], '"')
	if end <= 0 {
		return "", false
	}
	return rest[1 : end+1], true
}
