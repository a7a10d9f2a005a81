package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the newest events in a fixed buffer. The driver gives
// every run its own ring and hands it to the crash report.
type RingTracer struct {
	gate
	mu    sync.Mutex
	buf   []Event
	total int // сколько событий записано с последнего Reset
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{gate: gate{level}, buf: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.accepts(ev) {
		return
	}
	t.mu.Lock()
	t.buf[t.total%len(t.buf)] = *ev
	t.total++
	t.mu.Unlock()
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	return t.Tail(0)
}

// Tail returns at most n newest events (n <= 0: all), oldest first.
func (t *RingTracer) Tail(n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := min(t.total, len(t.buf))
	if n <= 0 || n > size {
		n = size
	}
	out := make([]Event, n)
	for i := range out {
		out[i] = t.buf[(t.total-n+i)%len(t.buf)]
	}
	return out
}

// Dump writes the stored events in format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Reset() {
	t.mu.Lock()
	clear(t.buf)
	t.total = 0
	t.mu.Unlock()
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
