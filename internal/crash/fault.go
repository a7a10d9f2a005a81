// Package crash assembles reports for unexpected failures and hands them to
// output sinks.
//
// A Fault is built by the driver when a stage panics. The Handler asks its
// Reporter to run every attached Processor over the fault, joins the
// sections into one immutable text and delivers it to each Sink. Processor
// and sink failures are isolated: they end up in the report or in
// Handler.LastErrors, never in the caller.
package crash

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StagePreprocess Stage = "preprocess"
	StageLex        Stage = "lex"
	StageParse      Stage = "parse"
	StageDecorate   Stage = "decorate"
	StageExecute    Stage = "execute"
)

// Fault describes an unexpected failure: a recovered panic or an internal
// error at a stage boundary.
type Fault struct {
	Stage   Stage
	Value   any    // значение из recover() или ошибка
	Stack   []byte // стек горутины в момент recover
	Time    time.Time
	Context string // метка запуска ("local", путь файла)
}

// NewFault captures the current goroutine stack. Call it from the deferred
// function that recovered v.
func NewFault(stage Stage, context string, v any) *Fault {
	return &Fault{
		Stage:   stage,
		Value:   v,
		Stack:   debug.Stack(),
		Time:    time.Now(),
		Context: context,
	}
}

func (f *Fault) Error() string {
	return fmt.Sprintf("unexpected failure in %s: %v", f.Stage, f.Value)
}

// Unwrap exposes the recovered value when it is an error, so errors.Is
// sees through the fault (vm.ErrStackExhausted и т.п.).
func (f *Fault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}
