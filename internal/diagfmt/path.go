package diagfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lazuli/internal/source"
)

// formatPath renders the path of f according to mode. Virtual files keep
// their label as is.
func formatPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return "?"
	}
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	switch mode {
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
		return f.Path
	case PathModeRelative, PathModeAuto:
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		abs, err := filepath.Abs(f.Path)
		if err != nil || baseDir == "" {
			return f.Path
		}
		rel, err := filepath.Rel(baseDir, abs)
		if err != nil {
			return f.Path
		}
		// auto: вне baseDir показываем абсолютный путь
		if mode == PathModeAuto && strings.HasPrefix(rel, "..") {
			return abs
		}
		return filepath.ToSlash(rel)
	}
	return f.Path
}

// formatSpan formats a span as "startLine:startCol-endLine:endCol".
// Without a FileSet it falls back to "span(start-end)".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
