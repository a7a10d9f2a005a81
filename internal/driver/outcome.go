package driver

import (
	"lazuli/internal/crash"
	"lazuli/internal/diag"
	"lazuli/internal/observ"
	"lazuli/internal/source"
	"lazuli/internal/vm"
)

// OutcomeKind tells how a run ended.
type OutcomeKind uint8

const (
	// OutcomeExecuted: the program ran to completion.
	OutcomeExecuted OutcomeKind = iota
	// OutcomeParseErrors: syntax errors were found, nothing was executed.
	OutcomeParseErrors
	// OutcomeLanguageFault: the script raised a runtime error.
	OutcomeLanguageFault
	// OutcomeCrashed: a stage failed unexpectedly and a report was dispatched.
	OutcomeCrashed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeExecuted:
		return "executed"
	case OutcomeParseErrors:
		return "parse errors"
	case OutcomeLanguageFault:
		return "language fault"
	case OutcomeCrashed:
		return "crashed"
	}
	return "unknown"
}

// Outcome is everything one run produced.
type Outcome struct {
	Kind    OutcomeKind
	Context string
	// Output is the captured program output. For parse errors and language
	// faults the error text is appended to it, for crashes the report text
	// when RunOptions.ReportToOutput is set.
	Output string

	FileSet     *source.FileSet
	Diagnostics *diag.Bag
	Fault       *vm.Fault    // OutcomeLanguageFault
	Crash       *crash.Fault // OutcomeCrashed
	Report      *crash.Report
	SinkErrors  []error
	Timings     observ.Report
}

// Failed reports whether the run did not complete normally.
func (o *Outcome) Failed() bool {
	return o == nil || o.Kind != OutcomeExecuted
}
