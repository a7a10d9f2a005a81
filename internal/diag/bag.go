package diag

import (
	"sort"
)

// Bag is an ordered, append-only diagnostic list.
type Bag struct {
	items  []Diagnostic
	max    int // 0: без лимита
	frozen bool
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (лимит или Bag заморожен).
func (b *Bag) Add(d Diagnostic) bool {
	if b.frozen {
		return false
	}
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Full reports whether the limit was reached.
func (b *Bag) Full() bool {
	return b.max > 0 && len(b.items) >= b.max
}

func (b *Bag) Cap() int {
	return b.max
}

// Freeze makes the bag read-only.
func (b *Bag) Freeze() {
	b.frozen = true
}

func (b *Bag) Frozen() bool {
	return b.frozen
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	if b == nil {
		return false
	}
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of diagnostics with Severity >= Error.
func (b *Bag) ErrorCount() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Pointers returns the diagnostics as pointers for the formatting helpers.
func (b *Bag) Pointers() []*Diagnostic {
	out := make([]*Diagnostic, 0, b.Len())
	for i := range b.items {
		out = append(out, &b.items[i])
	}
	return out
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc).
func (b *Bag) Sort() {
	if b.frozen {
		return
	}
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
