package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a ScopeRun event every interval, so a script stuck in a
// loop still shows up in a streamed trace.
type Heartbeat struct {
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval <= 0.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{done: make(chan struct{})}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				t.Emit(newEvent(KindHeartbeat, ScopeRun, "heartbeat", "#"+strconv.Itoa(n), 0, 0))
			}
		}
	}()
	return h
}

// Stop ends the goroutine and waits for it. Safe on nil and repeated calls.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	h.wg.Wait()
}
