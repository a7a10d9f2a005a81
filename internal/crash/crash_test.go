package crash

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lazuli/internal/diag"
	"lazuli/internal/source"
	"lazuli/internal/trace"
)

type staticProc struct {
	name, body string
	err        error
	panicV     any
}

func (p staticProc) Name() string { return p.name }

func (p staticProc) Section(*Fault) (string, error) {
	if p.panicV != nil {
		panic(p.panicV)
	}
	return p.body, p.err
}

func testFault() *Fault {
	return &Fault{Stage: StageExecute, Value: "boom", Context: "local", Time: time.Unix(10, 0)}
}

func TestReporterOrderAndText(t *testing.T) {
	r := NewSimpleReporter()
	r.AddProcessor(staticProc{name: "first", body: "one\n"})
	r.AddProcessor(staticProc{name: "second", body: "two"})

	rep := r.Report(testFault())
	want := "lazuli crash report\n\n=== first ===\none\n\n=== second ===\ntwo\n"
	if rep.Text != want {
		t.Fatalf("text:\n%q\nwant:\n%q", rep.Text, want)
	}
	if len(rep.Sections) != 2 || rep.Sections[0].Name != "first" {
		t.Fatalf("sections = %+v", rep.Sections)
	}
	if again := r.Report(testFault()); again.Text != rep.Text {
		t.Fatal("equal inputs must give identical text")
	}
}

func TestReporterIsolatesFailingProcessors(t *testing.T) {
	r := NewSimpleReporter(
		staticProc{name: "err", err: errors.New("no data")},
		staticProc{name: "panic", panicV: "kaboom"},
		staticProc{name: "ok", body: "fine"},
	)
	rep := r.Report(testFault())
	if body, _ := rep.Section("err"); body != "<processor failed: no data>" {
		t.Fatalf("err section = %q", body)
	}
	if body, _ := rep.Section("panic"); body != "<processor failed: panic: kaboom>" {
		t.Fatalf("panic section = %q", body)
	}
	if body, ok := rep.Section("ok"); !ok || body != "fine" {
		t.Fatalf("ok section = %q", body)
	}
}

func TestReporterReset(t *testing.T) {
	r := NewSimpleReporter(staticProc{name: "a"})
	r.Reset()
	if r.Len() != 0 {
		t.Fatalf("Len after Reset = %d", r.Len())
	}
	if rep := r.Report(testFault()); rep.Text != ReportHeader+"\n" {
		t.Fatalf("empty chain text = %q", rep.Text)
	}
}

func TestHandlerDispatchesToAllSinks(t *testing.T) {
	var got []string
	record := func(tag string) Sink {
		return SinkFunc(func(report string) error {
			got = append(got, tag)
			return nil
		})
	}
	h := NewHandler()
	h.Register(NewSimpleReporter(staticProc{name: "x", body: "y"}),
		record("a"),
		SinkFunc(func(string) error { return errors.New("disk full") }),
		SinkFunc(func(string) error { panic("sink exploded") }),
		record("b"),
	)

	rep := h.Proceed(testFault())
	if rep == nil || !strings.Contains(rep.Text, "=== x ===") {
		t.Fatalf("report = %+v", rep)
	}
	if strings.Join(got, ",") != "a,b" {
		t.Fatalf("delivered to %v", got)
	}
	errs := h.LastErrors()
	if len(errs) != 2 {
		t.Fatalf("LastErrors = %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "disk full") || !strings.Contains(errs[1].Error(), "sink exploded") {
		t.Fatalf("LastErrors = %v", errs)
	}
}

func TestHandlerRegisterReplaces(t *testing.T) {
	h := NewHandler()
	var first, second int
	h.Register(nil, SinkFunc(func(string) error { first++; return nil }))
	h.Register(NewSimpleReporter(), SinkFunc(func(string) error { second++; return nil }))
	h.Proceed(testFault())
	if first != 0 || second != 1 {
		t.Fatalf("first=%d second=%d", first, second)
	}
	if h.Proceed(nil) != nil {
		t.Fatal("nil fault must not produce a report")
	}
}

type panickyReporter struct{ SimpleReporter }

func (*panickyReporter) Report(*Fault) *Report { panic("reporter broke") }

func TestHandlerSurvivesPanickingReporter(t *testing.T) {
	var delivered string
	h := NewHandler()
	h.Register(&panickyReporter{}, SinkFunc(func(report string) error {
		delivered = report
		return nil
	}))
	rep := h.Proceed(testFault())
	if rep == nil {
		t.Fatal("expected fallback report")
	}
	if body, ok := rep.Section("fault"); !ok || !strings.Contains(body, "boom") {
		t.Fatalf("fault section = %q", body)
	}
	if body, _ := rep.Section("reporter"); !strings.Contains(body, "reporter broke") {
		t.Fatalf("reporter section = %q", body)
	}
	if delivered != rep.Text {
		t.Fatal("fallback report must still reach sinks")
	}
}

func TestSinkMayCallBackIntoHandler(t *testing.T) {
	h := NewHandler()
	var seen []error
	h.Register(nil,
		SinkFunc(func(string) error { return errors.New("first fails") }),
		SinkFunc(func(string) error {
			seen = h.LastErrors()
			_ = h.Sinks()
			return nil
		}),
	)
	done := make(chan struct{})
	go func() {
		h.Proceed(testFault())
		h.Proceed(testFault())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Proceed deadlocked on a sink calling LastErrors")
	}
	// второй Proceed видит ошибки первого
	if len(seen) != 1 || !strings.Contains(seen[0].Error(), "first fails") {
		t.Fatalf("seen = %v", seen)
	}
	if len(h.LastErrors()) != 1 {
		t.Fatalf("LastErrors = %v", h.LastErrors())
	}
}

func TestSinksReturnsCopy(t *testing.T) {
	h := NewHandler()
	h.Register(nil, SinkFunc(func(string) error { return nil }))
	sinks := h.Sinks()
	sinks[0] = nil
	if h.Sinks()[0] == nil {
		t.Fatal("Sinks must not expose internal slice")
	}
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	if err := NewConsoleSink(&buf).Deliver("report\n"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "report\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "crashes")
	s := NewFileSink(dir)
	s.Now = func() time.Time { return time.Unix(0, 1234) }

	if err := s.Deliver("hello"); err != nil {
		t.Fatal(err)
	}
	path := s.LastPath()
	if !strings.HasPrefix(filepath.Base(path), "crash-1234-") || filepath.Ext(path) != ".txt" {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Fatalf("content = %q", data)
	}

	if err := s.Deliver("again"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 files without temp leftovers, got %d", len(entries))
	}
}

func TestArchiveSinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewArchiveSink(dir)
	f := testFault()
	rep := &Report{Text: "full text"}

	if err := s.DeliverReport(f, rep); err != nil {
		t.Fatal(err)
	}
	if err := s.Deliver("plain"); err != nil {
		t.Fatal(err)
	}

	recs, err := ReadArchive(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d", len(recs))
	}
	if recs[0].Stage != "execute" || recs[0].Context != "local" || recs[0].Message != "boom" || recs[0].Text != "full text" {
		t.Fatalf("first record = %+v", recs[0])
	}
	if !recs[0].Time.Equal(f.Time) {
		t.Fatalf("time = %v", recs[0].Time)
	}
	if recs[1].Text != "plain" || recs[1].Stage != "" {
		t.Fatalf("second record = %+v", recs[1])
	}
}

func TestReadArchiveMissing(t *testing.T) {
	recs, err := ReadArchive(t.TempDir())
	if err != nil || recs != nil {
		t.Fatalf("got %v, %v", recs, err)
	}
}

func TestHandlerPrefersReportSink(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler()
	h.Register(NewSimpleReporter(FaultProcessor{}), NewArchiveSink(dir))
	h.Proceed(testFault())

	recs, err := ReadArchive(dir)
	if err != nil || len(recs) != 1 {
		t.Fatalf("records = %v, err = %v", recs, err)
	}
	if recs[0].Stage != "execute" || !strings.Contains(recs[0].Text, "=== fault ===") {
		t.Fatalf("record = %+v", recs[0])
	}
}

var errInner = errors.New("inner")

func TestFaultProcessor(t *testing.T) {
	f := &Fault{Stage: StageParse, Value: fmt.Errorf("outer: %w", errInner)}
	body, err := FaultProcessor{}.Section(f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body, "stage:   parse") || !strings.Contains(body, "caused by: inner") {
		t.Fatalf("body:\n%s", body)
	}
	if !errors.Is(f, errInner) {
		t.Fatal("Fault must unwrap to the recovered error")
	}
	if (&Fault{Value: 42}).Unwrap() != nil {
		t.Fatal("non-error value must not unwrap")
	}
}

func TestSourceProcessor(t *testing.T) {
	body, _ := SourceProcessor{Text: "a\nb\n"}.Section(nil)
	if body != "   1 | a\n   2 | b\n" {
		t.Fatalf("body = %q", body)
	}
	if body, _ := (SourceProcessor{}).Section(nil); body != "(empty)" {
		t.Fatalf("empty body = %q", body)
	}
}

func TestTraceProcessor(t *testing.T) {
	ring := trace.NewRingTracer(4, trace.LevelDebug)
	for i := range 6 {
		trace.Point(ring, trace.ScopeStage, fmt.Sprintf("ev%d", i), "", 0)
	}
	body, _ := TraceProcessor{Ring: ring, Limit: 2}.Section(nil)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "ev4") || !strings.Contains(lines[1], "ev5") {
		t.Fatalf("body:\n%s", body)
	}
	if body, _ := (TraceProcessor{}).Section(nil); body != "(tracing disabled)" {
		t.Fatalf("nil ring body = %q", body)
	}
}

func TestParseErrorsProcessor(t *testing.T) {
	if body, _ := (ParseErrorsProcessor{}).Section(nil); body != "(none)" {
		t.Fatalf("body = %q", body)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("local", []byte("x = ;"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynExpectExpression, source.Span{File: id, Start: 4, End: 5}, "expected expression"))
	body, _ := ParseErrorsProcessor{Bag: bag, FS: fs}.Section(nil)
	if body != "error SYN2006 local:1:5 expected expression" {
		t.Fatalf("body = %q", body)
	}
}

func TestEnvProcessor(t *testing.T) {
	body, err := EnvProcessor{}.Section(nil)
	if err != nil || !strings.Contains(body, "platform:") {
		t.Fatalf("body = %q, err = %v", body, err)
	}
}
