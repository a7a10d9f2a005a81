package vm

import (
	"errors"
	"fmt"
	"strings"

	"lazuli/internal/source"
)

// FaultCode identifies the kind of language fault.
type FaultCode int

// Stable fault codes - do not change values.
const (
	FaultUndefined     FaultCode = 1001 // VM1001: undefined symbol
	FaultTypeMismatch  FaultCode = 1002 // VM1002: type mismatch
	FaultDivByZero     FaultCode = 1003 // VM1003: division by zero
	FaultOutOfBounds   FaultCode = 1004 // VM1004: index out of range
	FaultNotCallable   FaultCode = 1005 // VM1005: value is not callable
	FaultArity         FaultCode = 1006 // VM1006: wrong number of arguments
	FaultRaised        FaultCode = 1007 // VM1007: error(msg) called by the script
	FaultUnknownModule FaultCode = 1008 // VM1008: using of an unknown module
	FaultBadArgument   FaultCode = 1009 // VM1009: argument has the right type but a bad value
	FaultStrayControl  FaultCode = 1010 // VM1010: break/continue/return outside their scope
)

// String returns the code as "VM1001" format.
func (c FaultCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

var (
	// ErrCanceled wraps ctx.Err() when a run is stopped by its context.
	ErrCanceled = errors.New("vm: execution canceled")
	// ErrStackExhausted is panicked (not returned) when call depth exceeds
	// Options.MaxCallDepth.
	ErrStackExhausted = errors.New("vm: call stack exhausted")
)

// BacktraceFrame represents one frame in the fault backtrace.
type BacktraceFrame struct {
	FuncName string
	Span     source.Span // место вызова
}

// Fault is a language-level error raised by the running script.
type Fault struct {
	Code      FaultCode
	Message   string
	Span      source.Span
	Backtrace []BacktraceFrame // top to bottom
}

func (f *Fault) Error() string {
	return fmt.Sprintf("error %s: %s", f.Code, f.Message)
}

// FormatWithFiles formats the fault with resolved file:line:col information.
func (f *Fault) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error %s: %s\n", f.Code, f.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(f.Span, files))
	sb.WriteString("\n")
	if len(f.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range f.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, frame.FuncName, formatSpan(frame.Span, files))
		}
	}
	return sb.String()
}

// formatSpan formats a span as "file:line:col" or "<no-span>".
func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0) {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

// fault builds a Fault at sp with the current call stack.
func (in *interp) fault(code FaultCode, sp source.Span, format string, args ...any) *Fault {
	f := &Fault{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    sp,
	}
	f.Backtrace = make([]BacktraceFrame, len(in.frames))
	for i := len(in.frames) - 1; i >= 0; i-- {
		f.Backtrace[len(in.frames)-1-i] = BacktraceFrame{
			FuncName: in.frames[i].name,
			Span:     in.frames[i].callSite,
		}
	}
	return f
}

func (in *interp) typeMismatch(sp source.Span, expected string, got Value) *Fault {
	return in.fault(FaultTypeMismatch, sp, "expected %s, got %s", expected, got.TypeName())
}
