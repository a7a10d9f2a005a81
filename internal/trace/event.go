package trace

import (
	"sync/atomic"
	"time"
)

// Kind is what happened: a span opened or closed, or a single point.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

var kindMarks = [...]string{
	KindSpanBegin: ">",
	KindSpanEnd:   "<",
	KindPoint:     "*",
	KindHeartbeat: "~",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) mark() string {
	if int(k) < len(kindMarks) && kindMarks[k] != "" {
		return kindMarks[k]
	}
	return "?"
}

// Scope orders events from coarse to fine; levels cut at a scope.
type Scope uint8

const (
	ScopeRun    Scope = iota + 1 // один вызов RunCode
	ScopeStage                   // preprocess, lex, parse, decorate, execute
	ScopeScript                  // файл или подключённый модуль
	ScopeCall                    // вызов функции в интерпретаторе
)

var scopeNames = [...]string{
	ScopeRun:    "run",
	ScopeStage:  "stage",
	ScopeScript: "script",
	ScopeCall:   "call",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Seq is assigned when the event is created
// and is unique for the process.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "parse", "call:fib", ...
	Detail   string
	Extra    map[string]string
}

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func newEvent(kind Kind, scope Scope, name, detail string, span, parent uint64) *Event {
	return &Event{
		Time:     time.Now(),
		Seq:      seqCounter.Add(1),
		Kind:     kind,
		Scope:    scope,
		SpanID:   span,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	}
}
