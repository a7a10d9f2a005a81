package diag

import "lazuli/internal/source"

type dedupKey struct {
	code  Code
	file  source.FileID
	start uint32
}

// DedupReporter wraps another Reporter and keeps only the first diagnostic
// reported for a given code at a given position. Error recovery tends to
// hit the same broken token more than once.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, file: primary.File, start: primary.Start}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
