package crash

import (
	"fmt"
	"sync"
)

// Handler builds a report for a fault and dispatches it to every sink.
// One Handler per run session; nothing here is global.
type Handler struct {
	mu       sync.Mutex
	reporter Reporter
	sinks    []Sink
	lastErrs []error
}

// NewHandler returns a handler with an empty SimpleReporter and no sinks.
func NewHandler() *Handler {
	return &Handler{reporter: NewSimpleReporter()}
}

// Register replaces the reporter and the sinks wholesale.
func (h *Handler) Register(r Reporter, sinks ...Sink) {
	if r == nil {
		r = NewSimpleReporter()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reporter = r
	h.sinks = append([]Sink(nil), sinks...)
	h.lastErrs = nil
}

func (h *Handler) Reporter() Reporter {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reporter
}

// Sinks returns a copy of the registered sinks, so a per-file handler can
// deliver to the same places with its own reporter.
func (h *Handler) Sinks() []Sink {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Sink(nil), h.sinks...)
}

// Proceed assembles one report for f and attempts delivery to all sinks.
// It never panics; sink failures are available from LastErrors.
// Sinks run without the lock held and may call back into the handler.
func (h *Handler) Proceed(f *Fault) *Report {
	if f == nil {
		return nil
	}
	h.mu.Lock()
	reporter := h.reporter
	sinks := append([]Sink(nil), h.sinks...)
	h.mu.Unlock()

	rep := build(reporter, f)
	var errs []error
	for i, s := range sinks {
		if err := deliver(s, f, rep); err != nil {
			errs = append(errs, fmt.Errorf("sink %d (%T): %w", i, s, err))
		}
	}

	h.mu.Lock()
	h.lastErrs = errs
	h.mu.Unlock()
	return rep
}

// build вызывает reporter; если он паникует или вернул nil, отчёт
// собирается только из FaultProcessor.
func build(r Reporter, f *Fault) (rep *Report) {
	defer func() {
		if v := recover(); v != nil {
			rep = fallbackReport(f, fmt.Sprintf("reporter panic: %v", v))
		}
	}()
	if rep = r.Report(f); rep == nil {
		rep = fallbackReport(f, "reporter returned no report")
	}
	return rep
}

func fallbackReport(f *Fault, why string) *Report {
	rep := NewSimpleReporter(FaultProcessor{}).Report(f)
	rep.Sections = append(rep.Sections, Section{Name: "reporter", Body: why})
	rep.Text = render(rep.Sections)
	return rep
}

func deliver(s Sink, f *Fault, rep *Report) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	if rs, ok := s.(ReportSink); ok {
		return rs.DeliverReport(f, rep)
	}
	return s.Deliver(rep.Text)
}

// LastErrors returns the sink errors of the latest Proceed.
func (h *Handler) LastErrors() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.lastErrs...)
}
