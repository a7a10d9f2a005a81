package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lazuli/internal/diag"
	"lazuli/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке bag.Items().
// Для каждой диагностики:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   3 | x = ;
//	     |     ^
//
// затем заметки в том же формате. Подчёркивание выравнивается по ширине
// символов на экране (широкие символы, табы).
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	var sb strings.Builder
	for i, d := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeHeader(&sb, fs, d.Primary, opts, pal.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID()+": "+d.Message)
		writeSnippet(&sb, fs, d.Primary, opts, pal)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			writeHeader(&sb, fs, n.Span, opts, pal.note.Sprint("note"), n.Msg)
			writeSnippet(&sb, fs, n.Span, opts, pal)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeHeader(sb *strings.Builder, fs *source.FileSet, sp source.Span, opts PrettyOpts, label, msg string) {
	start, _ := fs.Resolve(sp)
	fmt.Fprintf(sb, "%s:%d:%d: %s %s\n", formatPath(fs.Get(sp.File), opts.PathMode, opts.BaseDir), start.Line, start.Col, label, msg)
}

func writeSnippet(sb *strings.Builder, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, f.LineCount())
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		line := f.GetLine(ln)
		fmt.Fprintf(sb, "%s %s %s\n", pal.gutter.Sprint(fmt.Sprintf("%*d", width, ln)), pal.gutter.Sprint("|"), line)
		if ln != start.Line {
			continue
		}
		endCol := uint32(len(line)) + 1
		if end.Line == start.Line {
			endCol = end.Col
		}
		pad, marks := underline(line, int(start.Col)-1, int(endCol)-1)
		fmt.Fprintf(sb, "%s %s %s%s\n", strings.Repeat(" ", width), pal.gutter.Sprint("|"), pad, pal.caret.Sprint(marks))
	}
}

// underline строит отступ и маркеры ^~~ для байтового диапазона [from, to)
// строки line. Отступ копирует табы, чтобы совпасть с выводом терминала.
func underline(line string, from, to int) (pad, marks string) {
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))

	var pb strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			pb.WriteByte('\t')
			continue
		}
		pb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	n := runewidth.StringWidth(line[from:to])
	if n < 1 {
		n = 1
	}
	return pb.String(), "^" + strings.Repeat("~", n-1)
}
