package crash

import (
	"fmt"
	"strings"
	"sync"
)

// ReportHeader opens every report text.
const ReportHeader = "lazuli crash report"

// Section is the output of one processor.
type Section struct {
	Name string
	Body string
}

// Report is assembled once and never changes afterwards.
type Report struct {
	Sections []Section
	Text     string
}

// Section returns the body of the first section called name.
func (r *Report) Section(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, s := range r.Sections {
		if s.Name == name {
			return s.Body, true
		}
	}
	return "", false
}

// Processor contributes one section to a report.
type Processor interface {
	Name() string
	Section(f *Fault) (string, error)
}

// Reporter owns the processor chain.
type Reporter interface {
	AddProcessor(p Processor)
	Report(f *Fault) *Report
	Reset()
}

// SimpleReporter runs processors in attachment order.
type SimpleReporter struct {
	mu         sync.Mutex
	processors []Processor
}

func NewSimpleReporter(procs ...Processor) *SimpleReporter {
	return &SimpleReporter{processors: append([]Processor(nil), procs...)}
}

func (r *SimpleReporter) AddProcessor(p Processor) {
	if p == nil {
		return
	}
	r.mu.Lock()
	r.processors = append(r.processors, p)
	r.mu.Unlock()
}

func (r *SimpleReporter) Reset() {
	r.mu.Lock()
	r.processors = nil
	r.mu.Unlock()
}

// Len returns the number of attached processors.
func (r *SimpleReporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.processors)
}

// Report runs every processor exactly once. A failing processor yields a
// placeholder section and the chain goes on.
func (r *SimpleReporter) Report(f *Fault) *Report {
	r.mu.Lock()
	chain := append([]Processor(nil), r.processors...)
	r.mu.Unlock()

	rep := &Report{Sections: make([]Section, 0, len(chain))}
	for _, p := range chain {
		rep.Sections = append(rep.Sections, runProcessor(p, f))
	}
	rep.Text = render(rep.Sections)
	return rep
}

func runProcessor(p Processor, f *Fault) (sec Section) {
	sec.Name = processorName(p)
	defer func() {
		if v := recover(); v != nil {
			sec.Body = fmt.Sprintf("<processor failed: panic: %v>", v)
		}
	}()
	body, err := p.Section(f)
	if err != nil {
		sec.Body = fmt.Sprintf("<processor failed: %v>", err)
		return sec
	}
	sec.Body = body
	return sec
}

func processorName(p Processor) (name string) {
	defer func() {
		if recover() != nil {
			name = fmt.Sprintf("%T", p)
		}
	}()
	name = p.Name()
	if name == "" {
		name = fmt.Sprintf("%T", p)
	}
	return name
}

func render(sections []Section) string {
	var sb strings.Builder
	sb.WriteString(ReportHeader)
	sb.WriteByte('\n')
	for _, s := range sections {
		sb.WriteString("\n=== ")
		sb.WriteString(s.Name)
		sb.WriteString(" ===\n")
		sb.WriteString(strings.TrimRight(s.Body, "\n"))
		sb.WriteByte('\n')
	}
	return sb.String()
}
