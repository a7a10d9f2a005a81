// Package testkit holds structural checks shared by parser and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lazuli/internal/ast"
	"lazuli/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed program:
// 1) the program span is ordered, points at sf and stays within its content
// 2) every top-level statement span is ordered and inside the program span
// 3) top-level statements appear in source order
func CheckSpanInvariants(b *ast.Builder, prog ast.ProgramID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	p := b.Program(prog)
	if p == nil {
		return fmt.Errorf("program node not found")
	}

	if p.Span.End < p.Span.Start {
		return fmt.Errorf("program span is reversed: %v", p.Span)
	}
	if p.Span.File != sf.ID {
		return fmt.Errorf("program span points to different file id: got=%d want=%d", p.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if p.Span.End > lenContent {
		return fmt.Errorf("program span end beyond content: %d > %d", p.Span.End, lenContent)
	}

	var prevEnd uint32
	for i, id := range p.Stmts {
		st := b.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("stmt[%d]: node %d not found", i, id)
		}
		sp := st.Span
		if sp.End < sp.Start {
			return fmt.Errorf("stmt[%d] span is reversed: %v", i, sp)
		}
		if sp.File != p.Span.File || sp.Start < p.Span.Start || sp.End > p.Span.End {
			return fmt.Errorf("stmt[%d] span %v outside program span %v", i, sp, p.Span)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("stmt[%d] starts at %d before previous end %d", i, sp.Start, prevEnd)
		}
		prevEnd = sp.End
	}
	return nil
}
