package crash

import (
	"errors"
	"fmt"
	"strings"

	"lazuli/internal/diag"
	"lazuli/internal/diagfmt"
	"lazuli/internal/source"
	"lazuli/internal/token"
	"lazuli/internal/trace"
	"lazuli/internal/version"
)

// FaultProcessor describes the fault itself: stage, run context, value and
// the error chain when the value is an error.
type FaultProcessor struct{}

func (FaultProcessor) Name() string { return "fault" }

func (FaultProcessor) Section(f *Fault) (string, error) {
	if f == nil {
		return "", errors.New("no fault")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "stage:   %s\n", f.Stage)
	if f.Context != "" {
		fmt.Fprintf(&sb, "context: %s\n", f.Context)
	}
	fmt.Fprintf(&sb, "value:   %v (%T)\n", f.Value, f.Value)
	if err, ok := f.Value.(error); ok {
		for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintf(&sb, "  caused by: %v\n", cause)
		}
	}
	return sb.String(), nil
}

// SourceProcessor dumps the preprocessed text with line numbers.
type SourceProcessor struct {
	Text string
}

func (SourceProcessor) Name() string { return "source" }

func (p SourceProcessor) Section(*Fault) (string, error) {
	if p.Text == "" {
		return "(empty)", nil
	}
	lines := strings.Split(strings.TrimSuffix(p.Text, "\n"), "\n")
	var sb strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&sb, "%4d | %s\n", i+1, line)
	}
	return sb.String(), nil
}

// TokensProcessor dumps the token stream. Max > 0 truncates it.
type TokensProcessor struct {
	Tokens []token.Token
	FS     *source.FileSet
	Max    int
}

func (TokensProcessor) Name() string { return "tokens" }

func (p TokensProcessor) Section(*Fault) (string, error) {
	toks := p.Tokens
	more := 0
	if p.Max > 0 && len(toks) > p.Max {
		more = len(toks) - p.Max
		toks = toks[:p.Max]
	}
	var sb strings.Builder
	if err := diagfmt.FormatTokensPretty(&sb, toks, p.FS); err != nil {
		return "", err
	}
	if more > 0 {
		fmt.Fprintf(&sb, "... %d more\n", more)
	}
	return sb.String(), nil
}

// StackProcessor prints the goroutine stack captured at recovery.
type StackProcessor struct{}

func (StackProcessor) Name() string { return "stack" }

func (StackProcessor) Section(f *Fault) (string, error) {
	if f == nil || len(f.Stack) == 0 {
		return "(not captured)", nil
	}
	return string(f.Stack), nil
}

// TraceProcessor prints the newest Limit events of a ring tracer.
type TraceProcessor struct {
	Ring  *trace.RingTracer
	Limit int // 0: весь буфер
}

func (TraceProcessor) Name() string { return "trace" }

func (p TraceProcessor) Section(*Fault) (string, error) {
	if p.Ring == nil {
		return "(tracing disabled)", nil
	}
	var events []trace.Event
	if p.Limit > 0 {
		events = p.Ring.Tail(p.Limit)
	} else {
		events = p.Ring.Snapshot()
	}
	if len(events) == 0 {
		return "(no events)", nil
	}
	var sb strings.Builder
	for i := range events {
		sb.WriteString(trace.FormatLine(&events[i]))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// EnvProcessor records the tool and runtime versions.
type EnvProcessor struct{}

func (EnvProcessor) Name() string { return "environment" }

func (EnvProcessor) Section(*Fault) (string, error) {
	info := version.Current()
	var sb strings.Builder
	fmt.Fprintf(&sb, "lazuli:   %s\n", info.Version)
	if info.GitCommit != "" {
		fmt.Fprintf(&sb, "commit:   %s\n", info.GitCommit)
	}
	fmt.Fprintf(&sb, "go:       %s\n", info.GoVersion)
	fmt.Fprintf(&sb, "platform: %s\n", info.Platform)
	return sb.String(), nil
}

// ParseErrorsProcessor lists the diagnostics collected before the fault.
type ParseErrorsProcessor struct {
	Bag *diag.Bag
	FS  *source.FileSet
}

func (ParseErrorsProcessor) Name() string { return "parse errors" }

func (p ParseErrorsProcessor) Section(*Fault) (string, error) {
	if p.Bag == nil || p.Bag.Len() == 0 {
		return "(none)", nil
	}
	return diag.FormatShortDiagnostics(p.Bag.Pointers(), p.FS, true), nil
}
