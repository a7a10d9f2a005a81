package diag

import (
	"fmt"
	"strings"

	"lazuli/internal/source"
)

// FormatShortDiagnostics renders diagnostics one per line as
// "<severity> <code> <path>:<line>:<col> <message>", in report order.
// Notes follow their diagnostic when includeNotes is set.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, formatLine(d.Severity.Label(), d.Code, d.Primary, d.Message, fs))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, formatLine("note", d.Code, n.Span, n.Msg, fs))
		}
	}
	return strings.Join(lines, "\n")
}

func formatLine(label string, code Code, sp source.Span, msg string, fs *source.FileSet) string {
	path := "?"
	if f := fs.Get(sp.File); f != nil {
		path = f.Path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s %s %s:%d:%d %s", label, code.ID(), path, start.Line, start.Col, sanitizeMessage(msg))
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
