package ast

import (
	"lazuli/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent represents an identifier expression.
	ExprIdent ExprKind = iota
	// ExprLit represents a literal expression.
	ExprLit
	// ExprBinary covers arithmetic, comparison, logic and assignment.
	ExprBinary
	// ExprUnary represents a prefix expression.
	ExprUnary
	// ExprCall represents a function call expression.
	ExprCall
	ExprIndex
	ExprMember
	ExprArray
	ExprMap
	// ExprFn is an anonymous function literal.
	ExprFn

	exprKindCount
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "Ident"
	case ExprLit:
		return "Lit"
	case ExprBinary:
		return "Binary"
	case ExprUnary:
		return "Unary"
	case ExprCall:
		return "Call"
	case ExprIndex:
		return "Index"
	case ExprMember:
		return "Member"
	case ExprArray:
		return "Array"
	case ExprMap:
		return "Map"
	case ExprFn:
		return "Fn"
	}
	return "Expr(?)"
}

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitKind uint8

const (
	ExprLitNull ExprLitKind = iota
	ExprLitBool
	ExprLitInt
	ExprLitFloat
	ExprLitString
)

func (k ExprLitKind) String() string {
	switch k {
	case ExprLitNull:
		return "null"
	case ExprLitBool:
		return "bool"
	case ExprLitInt:
		return "int"
	case ExprLitFloat:
		return "float"
	case ExprLitString:
		return "string"
	}
	return "lit(?)"
}

// ExprLiteralData хранит уже разобранное значение литерала.
type ExprLiteralData struct {
	Kind  ExprLitKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

type ExprIdentData struct{ Name string }

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

type ExprMemberData struct {
	Target    ExprID
	Field     string
	FieldSpan source.Span
}

type ExprArrayData struct{ Elems []ExprID }

type ExprMapEntry struct {
	Key   ExprID
	Value ExprID
}

type ExprMapData struct{ Entries []ExprMapEntry }

type ExprFnData struct {
	Params []Param
	Body   StmtID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLiteralData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Calls    *Arena[ExprCallData]
	Indices  *Arena[ExprIndexData]
	Members  *Arena[ExprMemberData]
	Arrays   *Arena[ExprArrayData]
	Maps     *Arena[ExprMapData]
	Fns      *Arena[ExprFnData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint / 2),
		Unaries:  NewArena[ExprUnaryData](capHint / 8),
		Calls:    NewArena[ExprCallData](capHint / 2),
		Indices:  NewArena[ExprIndexData](capHint / 8),
		Members:  NewArena[ExprMemberData](capHint / 8),
		Arrays:   NewArena[ExprArrayData](capHint / 8),
		Maps:     NewArena[ExprMapData](capHint / 16),
		Fns:      NewArena[ExprFnData](capHint / 16),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewLiteral(span source.Span, lit ExprLiteralData) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(lit))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Target: target, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Target: target, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

func (e *Exprs) NewMember(span source.Span, target ExprID, field string, fieldSpan source.Span) ExprID {
	return e.new(ExprMember, span, e.Members.Allocate(ExprMemberData{Target: target, Field: field, FieldSpan: fieldSpan}))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(ExprArrayData{Elems: elems}))
}

func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	p, ok := e.payload(id, ExprArray)
	if !ok {
		return nil, false
	}
	return e.Arrays.Get(p), true
}

func (e *Exprs) NewMap(span source.Span, entries []ExprMapEntry) ExprID {
	return e.new(ExprMap, span, e.Maps.Allocate(ExprMapData{Entries: entries}))
}

func (e *Exprs) Map(id ExprID) (*ExprMapData, bool) {
	p, ok := e.payload(id, ExprMap)
	if !ok {
		return nil, false
	}
	return e.Maps.Get(p), true
}

func (e *Exprs) NewFn(span source.Span, params []Param, body StmtID) ExprID {
	return e.new(ExprFn, span, e.Fns.Allocate(ExprFnData{Params: params, Body: body}))
}

func (e *Exprs) Fn(id ExprID) (*ExprFnData, bool) {
	p, ok := e.payload(id, ExprFn)
	if !ok {
		return nil, false
	}
	return e.Fns.Get(p), true
}
