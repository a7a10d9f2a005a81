package ast

import (
	"lazuli/internal/source"
)

// Program is the root of a parsed script.
type Program struct {
	Span source.Span
	// Context labels where the source came from ("local", a file path, ...).
	Context string
	Stmts   []StmtID
	// Hoisted holds top-level fn declarations, filled by the decorator.
	Hoisted []StmtID
	// Decorated is set once builtins were injected.
	Decorated bool
}
