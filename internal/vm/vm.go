package vm

import (
	"context"
	"fmt"
	"io"
	"time"

	"lazuli/internal/ast"
	"lazuli/internal/source"
	"lazuli/internal/trace"
)

// DefaultMaxCallDepth bounds script recursion when Options.MaxCallDepth is 0.
const DefaultMaxCallDepth = 512

// Options configures one Execute call.
type Options struct {
	// Output receives everything print/println write; nil discards it.
	Output io.Writer
	// MaxCallDepth: 0: DefaultMaxCallDepth.
	MaxCallDepth int
	// Properties backs system.getProperty.
	Properties map[string]string
	// Now backs system.time; nil: time.Now.
	Now func() time.Time
}

type frame struct {
	name     string
	callSite source.Span
}

type interp struct {
	ctx      context.Context
	b        *ast.Builder
	opts     Options
	out      io.Writer
	globals  *Env
	frames   []frame
	maxDepth int
	modules  map[string]*Module
	tracer   trace.Tracer
	parent   uint64
}

// Execute runs a decorated program. It returns nil, a *Fault raised by the
// script, or an error wrapping ErrCanceled when ctx is done. The context is
// polled on every loop iteration and every call.
func Execute(ctx context.Context, b *ast.Builder, prog ast.ProgramID, opts Options) error {
	p := b.Program(prog)
	if p == nil {
		panic(fmt.Sprintf("vm: program %d does not exist", prog))
	}
	in := newInterp(ctx, b, opts)

	// объявленные функции видны до своей строки
	for _, id := range p.Hoisted {
		in.declareFn(id, in.globals)
	}
	for _, id := range p.Stmts {
		c, _, err := in.exec(id, in.globals)
		if err != nil {
			return err
		}
		switch c {
		case ctrlReturn:
			return nil
		case ctrlBreak, ctrlContinue:
			return in.fault(FaultStrayControl, in.b.Stmts.Get(id).Span, "%s outside of a loop", c)
		}
	}
	return nil
}

func newInterp(ctx context.Context, b *ast.Builder, opts Options) *interp {
	if ctx == nil {
		ctx = context.Background()
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	depth := opts.MaxCallDepth
	if depth <= 0 {
		depth = DefaultMaxCallDepth
	}
	return &interp{
		ctx:      ctx,
		b:        b,
		opts:     opts,
		out:      out,
		globals:  newEnv(nil),
		maxDepth: depth,
		modules:  make(map[string]*Module),
		tracer:   trace.FromContext(ctx),
		parent:   trace.CurrentSpan(ctx).SpanID,
	}
}

func (in *interp) checkCtx() error {
	if err := in.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return nil
}

func (in *interp) declareFn(id ast.StmtID, env *Env) {
	fn := in.b.Stmts.Fn(id)
	env.Define(fn.Name, Value{Kind: KindFunc, Func: &Closure{
		Name:   fn.Name,
		Params: fn.Params,
		Body:   fn.Body,
		Env:    env,
		Span:   in.b.Stmts.Get(id).Span,
	}})
}

// Call describes one builtin invocation.
type Call struct {
	in   *interp
	Name string
	Span source.Span
}

// Output is the writer print/println use.
func (c *Call) Output() io.Writer { return c.in.out }

// Fault builds a fault located at the call site.
func (c *Call) Fault(code FaultCode, format string, args ...any) *Fault {
	return c.in.fault(code, c.Span, format, args...)
}

// TypeMismatch reports a bad argument type for argument n (1-based).
func (c *Call) TypeMismatch(n int, expected string, got Value) *Fault {
	return c.in.fault(FaultTypeMismatch, c.Span, "%s: argument %d: expected %s, got %s", c.Name, n, expected, got.TypeName())
}

// callValue invokes a function value with already evaluated arguments.
func (in *interp) callValue(callee Value, args []Value, site source.Span) (Value, error) {
	if err := in.checkCtx(); err != nil {
		return Null(), err
	}
	switch callee.Kind {
	case KindFunc:
		return in.callClosure(callee.Func, args, site)
	case KindBuiltin:
		bi := callee.Builtin
		if len(args) < bi.MinArgs || (bi.MaxArgs >= 0 && len(args) > bi.MaxArgs) {
			return Null(), in.fault(FaultArity, site, "%s: %s", bi.Name, arityText(bi.MinArgs, bi.MaxArgs, len(args)))
		}
		return bi.Fn(&Call{in: in, Name: bi.Name, Span: site}, args)
	default:
		return Null(), in.fault(FaultNotCallable, site, "value of type %s is not callable", callee.TypeName())
	}
}

func (in *interp) callClosure(fn *Closure, args []Value, site source.Span) (Value, error) {
	if len(args) != len(fn.Params) {
		name := fn.Name
		if name == "" {
			name = "anonymous function"
		}
		return Null(), in.fault(FaultArity, site, "%s: %s", name, arityText(len(fn.Params), len(fn.Params), len(args)))
	}
	if len(in.frames) >= in.maxDepth {
		panic(fmt.Errorf("%w: depth %d exceeded calling %q", ErrStackExhausted, in.maxDepth, fn.Name))
	}

	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	span := trace.Begin(in.tracer, trace.ScopeCall, "call:"+name, in.parent)
	in.frames = append(in.frames, frame{name: name, callSite: site})
	defer func() {
		in.frames = in.frames[:len(in.frames)-1]
		span.End("")
	}()

	env := newEnv(fn.Env)
	for i, p := range fn.Params {
		env.Define(p.Name, args[i])
	}
	body := in.b.Stmts.Block(fn.Body)
	if body == nil {
		panic(fmt.Sprintf("vm: function %q has no block body", fn.Name))
	}
	for _, id := range body.Stmts {
		c, v, err := in.exec(id, env)
		if err != nil {
			return Null(), err
		}
		switch c {
		case ctrlReturn:
			return v, nil
		case ctrlBreak, ctrlContinue:
			return Null(), in.fault(FaultStrayControl, in.b.Stmts.Get(id).Span, "%s outside of a loop", c)
		}
	}
	return Null(), nil
}

func arityText(minArgs, maxArgs, got int) string {
	switch {
	case minArgs == maxArgs:
		return fmt.Sprintf("expected %d argument(s), got %d", minArgs, got)
	case maxArgs < 0:
		return fmt.Sprintf("expected at least %d argument(s), got %d", minArgs, got)
	default:
		return fmt.Sprintf("expected %d to %d arguments, got %d", minArgs, maxArgs, got)
	}
}
