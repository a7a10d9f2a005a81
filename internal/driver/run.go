// Package driver wires the pipeline stages into one run: preprocess, lex,
// parse, decorate and execute. Unexpected failures of any stage become a
// crash.Fault and go through the run's crash.Handler.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"

	"lazuli/internal/ast"
	"lazuli/internal/crash"
	"lazuli/internal/decorate"
	"lazuli/internal/diag"
	"lazuli/internal/lexer"
	"lazuli/internal/observ"
	"lazuli/internal/parser"
	"lazuli/internal/preprocess"
	"lazuli/internal/source"
	"lazuli/internal/token"
	"lazuli/internal/trace"
	"lazuli/internal/version"
	"lazuli/internal/vm"
)

const defaultReportTokens = 200

type run struct {
	opts     RunOptions
	label    string
	handler  *crash.Handler
	reporter crash.Reporter
	ring     *trace.RingTracer
	tracer   trace.Tracer
	rootSpan uint64
	timer    *observ.Timer
	out      *bytes.Buffer
	w        io.Writer
}

// RunCode runs src through the whole pipeline.
//
// The returned error is non-nil only when ctx is done (or the timeout hit)
// before the run finished; the outcome then holds whatever was produced so
// far and no crash report is dispatched. Script errors and crashes are
// described by the Outcome, not by the error.
func RunCode(ctx context.Context, src string, opts RunOptions) (*Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	r := newRun(ctx, opts)
	ctx = trace.WithTracer(ctx, r.tracer)
	root := trace.Begin(r.tracer, trace.ScopeRun, "run", trace.CurrentSpan(ctx).SpanID).
		WithExtra("context", r.label)
	r.rootSpan = root.ID()
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: root.ID()})

	out, err := r.pipeline(ctx, src)
	out.Output = r.out.String()
	out.Timings = r.timer.Report()
	root.End(out.Kind.String())
	return out, err
}

func newRun(ctx context.Context, opts RunOptions) *run {
	r := &run{
		opts:    opts,
		label:   opts.label(),
		handler: opts.Handler,
		ring:    opts.Ring,
		timer:   observ.NewTimer(),
		out:     &bytes.Buffer{},
	}
	if r.handler == nil {
		r.handler = crash.NewHandler()
	}
	r.reporter = r.handler.Reporter()
	if r.ring == nil {
		size := opts.RingSize
		if size <= 0 {
			size = DefaultRingSize
		}
		r.ring = trace.NewRingTracer(size, trace.LevelPhase)
	}

	// внешний трейсер (если есть) получает те же события, что и кольцо
	r.tracer = r.ring
	if outer := trace.FromContext(ctx); outer.Enabled() {
		r.tracer = trace.NewMultiTracer(max(outer.Level(), r.ring.Level()), outer, r.ring)
	}

	r.w = r.out
	if opts.Stream != nil {
		r.w = io.MultiWriter(r.out, opts.Stream)
	}
	return r
}

func (r *run) pipeline(ctx context.Context, src string) (*Outcome, error) {
	out := &Outcome{Kind: OutcomeExecuted, Context: r.label}

	r.reporter.Reset()
	r.reporter.AddProcessor(crash.FaultProcessor{})

	var text string
	if f := r.stage(crash.StagePreprocess, func() {
		text = preprocess.Preprocess(src, r.opts.Preprocess)
	}); f != nil {
		return r.crashed(ctx, out, f)
	}
	r.reporter.AddProcessor(crash.SourceProcessor{Text: text})

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(r.label, []byte(text)))
	bag := diag.NewBag(r.opts.MaxDiagnostics)
	out.FileSet = fs
	out.Diagnostics = bag

	var toks []token.Token
	if f := r.stage(crash.StageLex, func() {
		toks = lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	}); f != nil {
		return r.crashed(ctx, out, f)
	}
	maxToks := r.opts.MaxReportTokens
	if maxToks <= 0 {
		maxToks = defaultReportTokens
	}
	r.reporter.AddProcessor(crash.TokensProcessor{Tokens: toks, FS: fs, Max: maxToks})
	if err := ctx.Err(); err != nil {
		return out, err
	}

	var res parser.Result
	if f := r.stage(crash.StageParse, func() {
		res = parser.Parse(fs, toks, r.label, parser.Options{Bag: bag, MaxErrors: uint(max(r.opts.MaxDiagnostics, 0))})
	}); f != nil {
		return r.crashed(ctx, out, f)
	}
	r.reporter.AddProcessor(crash.ParseErrorsProcessor{Bag: bag, FS: fs})
	if res.Bag.HasErrors() {
		out.Kind = OutcomeParseErrors
		fmt.Fprintln(r.w, diag.FormatShortDiagnostics(res.Bag.Pointers(), fs, false))
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	var prog ast.ProgramID
	if f := r.stage(crash.StageDecorate, func() {
		prog = decorate.Decorate(res.Builder, res.Program, decorate.DefaultBuiltins)
	}); f != nil {
		return r.crashed(ctx, out, f)
	}

	var execErr error
	if f := r.stage(crash.StageExecute, func() {
		execErr = vm.Execute(ctx, res.Builder, prog, vm.Options{
			Output:       r.w,
			MaxCallDepth: r.opts.MaxCallDepth,
			Properties:   r.properties(),
		})
	}); f != nil {
		return r.crashed(ctx, out, f)
	}

	var fault *vm.Fault
	switch {
	case execErr == nil:
		return out, nil
	case errors.As(execErr, &fault):
		out.Kind = OutcomeLanguageFault
		out.Fault = fault
		fmt.Fprintln(r.w, fault.Error())
		return out, nil
	case errors.Is(execErr, vm.ErrCanceled):
		return out, execErr
	default:
		// Execute обещает только *Fault или отмену
		return r.crashed(ctx, out, crash.NewFault(crash.StageExecute, r.label, execErr))
	}
}

// stage runs fn inside a trace span and a timer phase. A panic in fn is
// recovered into a crash.Fault with the stack of the panicking goroutine.
func (r *run) stage(stage crash.Stage, fn func()) (f *crash.Fault) {
	span := trace.Begin(r.tracer, trace.ScopeStage, string(stage), r.rootSpan)
	idx := r.timer.Begin(string(stage))
	defer func() {
		if v := recover(); v != nil {
			f = crash.NewFault(stage, r.label, v)
			r.timer.End(idx, "panic")
			span.End("panic")
			return
		}
		r.timer.End(idx, "")
		span.End("")
	}()
	fn()
	return nil
}

func (r *run) crashed(ctx context.Context, out *Outcome, f *crash.Fault) (*Outcome, error) {
	out.Crash = f
	// отмена никогда не даёт отчёта
	if err := ctx.Err(); err != nil {
		return out, err
	}
	trace.Point(r.tracer, trace.ScopeStage, "crash", string(f.Stage), r.rootSpan)
	r.reporter.AddProcessor(crash.StackProcessor{})
	r.reporter.AddProcessor(crash.TraceProcessor{Ring: r.ring})
	r.reporter.AddProcessor(crash.EnvProcessor{})

	out.Kind = OutcomeCrashed
	out.Report = r.handler.Proceed(f)
	out.SinkErrors = r.handler.LastErrors()
	if r.opts.ReportToOutput && out.Report != nil {
		// отчёт идёт следом за выводом программы, как parse errors
		_, _ = io.WriteString(r.w, out.Report.Text)
	}
	return out, nil
}

func (r *run) properties() map[string]string {
	props := vm.DefaultProperties()
	props["lzr.version"] = version.Version
	maps.Copy(props, r.opts.Properties)
	return props
}
