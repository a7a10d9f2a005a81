package driver

import (
	"io"
	"time"

	"lazuli/internal/crash"
	"lazuli/internal/preprocess"
	"lazuli/internal/trace"
)

// DefaultContext labels a run whose source did not come from a file.
const DefaultContext = "local"

// DefaultRingSize is the number of trace events kept for crash reports.
const DefaultRingSize = 256

// RunOptions configures RunCode and RunFiles.
type RunOptions struct {
	// Context labels the source in diagnostics and reports; "": "local".
	Context string
	// Handler receives unexpected faults; nil: a fresh handler without sinks.
	Handler *crash.Handler
	// NewSession builds a handler per file in RunFiles. nil: every file
	// gets its own handler with a fresh reporter and Handler's sinks, so
	// sinks must tolerate concurrent delivery.
	NewSession func(path string) *crash.Handler

	Preprocess preprocess.Options
	Timeout    time.Duration
	// Stream gets a live copy of the program output.
	Stream io.Writer

	MaxCallDepth   int
	MaxDiagnostics int
	// Properties are added on top of the defaults for system.getProperty.
	Properties map[string]string

	// Ring keeps recent trace events for the crash report; nil: a new
	// ring of RingSize events at phase level per run.
	Ring     *trace.RingTracer
	RingSize int
	// ReportToOutput appends the crash report text to the run output
	// (Outcome.Output and Stream) after delivery to the sinks.
	ReportToOutput bool
	// MaxReportTokens truncates the tokens section; 0: 200.
	MaxReportTokens int

	// OnFileStart/OnFileDone are called from RunFiles workers.
	OnFileStart func(index int, path string)
	OnFileDone  func(index int, res FileResult)
}

func (o RunOptions) label() string {
	if o.Context == "" {
		return DefaultContext
	}
	return o.Context
}
