package trace

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func names(events []Event) []string {
	out := make([]string, len(events))
	for i := range events {
		out[i] = events[i].Name
	}
	return out
}

func TestRingTracerWrapsAndKeepsOrder(t *testing.T) {
	ring := NewRingTracer(3, LevelPhase)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(ring, ScopeStage, name, "", 0)
	}
	if got := strings.Join(names(ring.Snapshot()), ","); got != "b,c,d" {
		t.Fatalf("snapshot = %s", got)
	}
	if got := strings.Join(names(ring.Tail(2)), ","); got != "c,d" {
		t.Fatalf("tail = %s", got)
	}
	if got := len(ring.Tail(10)); got != 3 {
		t.Fatalf("tail beyond size = %d", got)
	}
	ring.Reset()
	if n := len(ring.Snapshot()); n != 0 {
		t.Fatalf("after reset: %d events", n)
	}
	Point(ring, ScopeStage, "e", "", 0)
	if got := strings.Join(names(ring.Snapshot()), ","); got != "e" {
		t.Fatalf("after reset and emit = %s", got)
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		want  string
	}{
		{LevelError, ""},
		{LevelPhase, "run,stage"},
		{LevelDetail, "run,stage,script"},
		{LevelDebug, "run,stage,script,call"},
	}
	for _, tc := range cases {
		ring := NewRingTracer(8, tc.level)
		for _, sc := range []Scope{ScopeRun, ScopeStage, ScopeScript, ScopeCall} {
			Point(ring, sc, sc.String(), "", 0)
		}
		if got := strings.Join(names(ring.Snapshot()), ","); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestSpanBeginEnd(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	sp := Begin(ring, ScopeStage, "execute", 0)
	sp.WithExtra("outcome", "ok").End("done")
	got := ring.Snapshot()
	if len(got) != 2 || got[0].Kind != KindSpanBegin || got[1].Kind != KindSpanEnd {
		t.Fatalf("unexpected events: %+v", got)
	}
	if got[1].Extra["outcome"] != "ok" || got[1].SpanID != sp.ID() || got[0].SpanID != sp.ID() {
		t.Fatalf("end event lost span data: %+v", got[1])
	}
	if got[1].Seq <= got[0].Seq {
		t.Fatalf("seq not increasing: %d then %d", got[0].Seq, got[1].Seq)
	}
}

func TestBeginOnDisabledIsInert(t *testing.T) {
	sp := Begin(Nop, ScopeStage, "parse", 0)
	if d := sp.WithExtra("k", "v").End(""); d != 0 || sp.ID() != 0 {
		t.Fatalf("nop span: duration %v id %d", d, sp.ID())
	}
	Begin(nil, ScopeStage, "parse", 0).End("")

	ring := NewRingTracer(4, LevelPhase)
	Begin(ring, ScopeCall, "call:f", 0).End("")
	if n := len(ring.Snapshot()); n != 0 {
		t.Fatalf("filtered scope recorded %d events", n)
	}
}

func TestFormatLine(t *testing.T) {
	ev := &Event{Seq: 7, Kind: KindPoint, Scope: ScopeStage, Name: "sink", Detail: "file",
		Extra: map[string]string{"z": "1", "a": "2"}}
	if got, want := FormatLine(ev), "#7 stage * sink: file [a=2 z=1]"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	ev = &Event{Seq: 8, Kind: KindSpanBegin, Scope: ScopeRun, Name: "run"}
	if got, want := FormatLine(ev), "#8 run > run"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Point(st, ScopeStage, "lex", "", 0)
	Point(st, ScopeCall, "call:f", "", 0)
	line := buf.String()
	if strings.Count(line, "\n") != 1 || !strings.Contains(line, `"name":"lex"`) || !strings.Contains(line, `"scope":"stage"`) {
		t.Fatalf("unexpected output %q", line)
	}
}

type failingTracer struct {
	nopTracer
	err error
}

func (f failingTracer) Flush() error { return f.err }

func TestMultiTracer(t *testing.T) {
	a := NewRingTracer(4, LevelPhase)
	b := NewRingTracer(4, LevelDebug)
	m := NewMultiTracer(LevelDebug, a, b)
	Point(m, ScopeCall, "call:f", "", 0)
	Point(m, ScopeStage, "parse", "", 0)
	if len(a.Snapshot()) != 1 || len(b.Snapshot()) != 2 {
		t.Fatalf("children must filter by their own level: %d %d", len(a.Snapshot()), len(b.Snapshot()))
	}
	boom := errors.New("boom")
	m = NewMultiTracer(LevelPhase, a, failingTracer{err: boom})
	if err := m.Flush(); !errors.Is(err, boom) {
		t.Fatalf("Flush = %v", err)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	ring := NewRingTracer(1, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
	if CurrentSpan(ctx).SpanID != 0 {
		t.Fatal("unexpected span")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 42})
	if CurrentSpan(ctx).SpanID != 42 {
		t.Fatal("span not propagated")
	}
}

func TestParseLevelModeFormat(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth || m.String() != "both" {
		t.Fatalf("ParseMode: %v %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat: %v %v", f, err)
	}
	if FormatForPath("t.jsonl") != FormatNDJSON || FormatForPath("t.log") != FormatText {
		t.Fatal("FormatForPath")
	}
}

func TestNew(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off config: %v, enabled=%v", err, tr.Enabled())
	}
	ring := NewRingTracer(4, LevelPhase)
	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing, Ring: ring})
	if err != nil || tr != Tracer(ring) {
		t.Fatalf("ring mode must reuse the given ring: %v", err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, Ring: ring})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeStage, "both", "", 0)
	if !strings.Contains(buf.String(), "both") || ring.Tail(1)[0].Name != "both" {
		t.Fatalf("both mode: %q", buf.String())
	}
	if _, err := New(Config{Level: LevelPhase, Mode: 9}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat on disabled tracer")
	}
	ring := NewRingTracer(16, LevelError)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	got := ring.Snapshot()
	if len(got) == 0 || got[0].Kind != KindHeartbeat {
		t.Fatalf("no heartbeat recorded: %+v", got)
	}
}
