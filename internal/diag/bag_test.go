package diag

import (
	"testing"

	"lazuli/internal/source"
)

func TestBagLimitAndFreeze(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(NewError(SynUnexpectedToken, source.Span{Start: uint32(i)}, "x"))
	}
	if b.Len() != 2 || !b.Full() {
		t.Fatalf("Len = %d, Full = %v", b.Len(), b.Full())
	}

	unlimited := NewBag(0)
	for i := 0; i < 100; i++ {
		unlimited.Add(NewError(SynUnexpectedToken, source.Span{}, "x"))
	}
	if unlimited.Len() != 100 || unlimited.Full() {
		t.Fatalf("unlimited bag stopped at %d", unlimited.Len())
	}

	unlimited.Freeze()
	if unlimited.Add(NewError(SynUnexpectedToken, source.Span{}, "late")) {
		t.Fatal("frozen bag accepted a diagnostic")
	}
	if unlimited.Len() != 100 {
		t.Fatalf("frozen bag changed: %d", unlimited.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, LexUnknownChar, source.Span{}, "w"))
	if b.HasErrors() {
		t.Fatal("warnings only")
	}
	b.Add(NewError(SynExpectExpression, source.Span{}, "e"))
	if !b.HasErrors() || b.ErrorCount() != 1 {
		t.Fatalf("HasErrors = %v, ErrorCount = %d", b.HasErrors(), b.ErrorCount())
	}
	var nilBag *Bag
	if nilBag.HasErrors() || nilBag.Len() != 0 {
		t.Fatal("nil bag must be empty")
	}
}

func TestBagSortIsStable(t *testing.T) {
	b := NewBag(0)
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 9, End: 10}, "late"))
	b.Add(NewError(SynExpectColon, source.Span{Start: 1, End: 2}, "early"))
	b.Add(New(SevWarning, LexUnknownChar, source.Span{Start: 1, End: 2}, "warn"))
	b.Sort()
	got := []string{b.Items()[0].Message, b.Items()[1].Message, b.Items()[2].Message}
	want := []string{"early", "warn", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	sp := source.Span{Start: 4, End: 5}
	r.Report(SynUnexpectedToken, SevError, sp, "a", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "b", nil)
	r.Report(SynExpectExpression, SevError, sp, "c", nil)
	if b.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", b.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	rb := ReportError(BagReporter{Bag: b}, SynUnclosedParen, source.Span{Start: 3}, "unclosed").
		WithNote(source.Span{Start: 0}, "opened here")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 || len(b.Items()[0].Notes) != 1 {
		t.Fatalf("builder emitted %d diagnostics", b.Len())
	}
	if SynUnclosedParen.ID() != "SYN2002" || LexBadNumber.ID() != "LEX1004" {
		t.Fatal("unexpected code ids")
	}
}
