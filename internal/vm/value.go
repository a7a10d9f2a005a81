// Package vm is the tree-walking interpreter for lazuli scripts.
//
// Execute runs a decorated program against an output writer. Script
// errors come back as *Fault; cancellation comes back wrapped in
// ErrCanceled. Anything else that goes wrong inside the interpreter is a
// Go panic and is left to the caller.
package vm

import (
	"math"
	"strconv"
	"strings"

	"lazuli/internal/ast"
	"lazuli/internal/source"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind uint8

const (
	// KindNull is the zero Value.
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindMap
	KindFunc
	KindBuiltin
	KindModule
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindFunc:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindModule:
		return "module"
	default:
		return "invalid"
	}
}

// Value is a tagged union; only the field matching Kind is meaningful.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Arr     *Array
	Map     *Map
	Func    *Closure
	Builtin *Builtin
	Module  *Module
}

// Closure is a script function together with the scope it was created in.
type Closure struct {
	Name   string
	Params []ast.Param
	Body   ast.StmtID
	Env    *Env
	Span   source.Span
}

// Builtin is a host function callable from scripts.
type Builtin struct {
	Name string
	// Arity: -1: любое число аргументов.
	MinArgs, MaxArgs int
	Fn               func(c *Call, args []Value) (Value, error)
}

// Module groups builtins and constants imported with `using`.
type Module struct {
	Name    string
	Members map[string]Value
}

var nullValue = Value{}

func Null() Value                  { return nullValue }
func Bool(b bool) Value            { return Value{Kind: KindBool, Bool: b} }
func Int(n int64) Value            { return Value{Kind: KindInt, Int: n} }
func Float(f float64) Value        { return Value{Kind: KindFloat, Float: f} }
func String(s string) Value        { return Value{Kind: KindString, Str: s} }
func ArrayOf(elems ...Value) Value { return Value{Kind: KindArray, Arr: &Array{Elems: elems}} }
func MapValue(m *Map) Value        { return Value{Kind: KindMap, Map: m} }

// TypeName returns the name used by the type() builtin and in fault messages.
func (v Value) TypeName() string {
	return v.Kind.String()
}

// Truthy: null, false, 0, 0.0 и "" ложны; всё остальное истинно.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindString:
		return v.Str != ""
	default:
		return true
	}
}

// Equal compares scalars by value and containers, functions and modules
// by identity. An int equals a float with the same numeric value.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		if isNumber(v) && isNumber(o) {
			return toFloat(v) == toFloat(o)
		}
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindString:
		return v.Str == o.Str
	case KindArray:
		return v.Arr == o.Arr
	case KindMap:
		return v.Map == o.Map
	case KindFunc:
		return v.Func == o.Func
	case KindBuiltin:
		return v.Builtin == o.Builtin
	case KindModule:
		return v.Module == o.Module
	}
	return false
}

// String renders the value the way println prints it.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb, false, 0)
	return sb.String()
}

// maxRenderDepth ограничивает печать циклических контейнеров.
const maxRenderDepth = 32

func (v Value) write(sb *strings.Builder, quoted bool, depth int) {
	if depth > maxRenderDepth {
		sb.WriteString("...")
		return
	}
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		sb.WriteString(formatFloat(v.Float))
	case KindString:
		if quoted {
			sb.WriteString(strconv.Quote(v.Str))
		} else {
			sb.WriteString(v.Str)
		}
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.Arr.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb, true, depth+1)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, k := range v.Map.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			k.value().write(sb, true, depth+1)
			sb.WriteString(": ")
			v.Map.vals[i].write(sb, true, depth+1)
		}
		sb.WriteByte('}')
	case KindFunc:
		name := v.Func.Name
		if name == "" {
			name = "anonymous"
		}
		sb.WriteString("<fn " + name + ">")
	case KindBuiltin:
		sb.WriteString("<builtin " + v.Builtin.Name + ">")
	case KindModule:
		sb.WriteString("<module " + v.Module.Name + ">")
	}
}

// formatFloat всегда оставляет признак дробного числа: 3.0, а не 3.
func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func toFloat(v Value) float64 {
	if v.Kind == KindInt {
		return float64(v.Int)
	}
	return v.Float
}
