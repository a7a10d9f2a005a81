package vm

import (
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxRangeLen ограничивает range(), чтобы скрипт не съел всю память одним вызовом.
const maxRangeLen = 1 << 24

var builtins = make(map[string]*Builtin)

func register(name string, minArgs, maxArgs int, fn func(c *Call, args []Value) (Value, error)) {
	builtins[name] = &Builtin{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, Fn: fn}
}

// BuiltinNames returns every name a StmtBuiltin may declare.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

func init() {
	register("println", 0, -1, func(c *Call, args []Value) (Value, error) {
		_, _ = io.WriteString(c.Output(), joinArgs(args)+"\n") //nolint:errcheck
		return Null(), nil
	})
	register("print", 0, -1, func(c *Call, args []Value) (Value, error) {
		_, _ = io.WriteString(c.Output(), joinArgs(args)) //nolint:errcheck
		return Null(), nil
	})
	register("len", 1, 1, builtinLen)
	register("str", 1, 1, func(_ *Call, args []Value) (Value, error) {
		return String(args[0].String()), nil
	})
	register("int", 1, 1, builtinInt)
	register("float", 1, 1, builtinFloat)
	register("type", 1, 1, func(_ *Call, args []Value) (Value, error) {
		return String(args[0].TypeName()), nil
	})
	register("push", 2, -1, func(c *Call, args []Value) (Value, error) {
		if args[0].Kind != KindArray {
			return Null(), c.TypeMismatch(1, "array", args[0])
		}
		args[0].Arr.Elems = append(args[0].Arr.Elems, args[1:]...)
		return args[0], nil
	})
	register("keys", 1, 1, func(c *Call, args []Value) (Value, error) {
		if args[0].Kind != KindMap {
			return Null(), c.TypeMismatch(1, "map", args[0])
		}
		return ArrayOf(args[0].Map.Keys()...), nil
	})
	register("range", 1, 2, builtinRange)
	register("error", 1, 1, func(c *Call, args []Value) (Value, error) {
		return Null(), c.Fault(FaultRaised, "%s", args[0].String())
	})
}

func joinArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func builtinLen(c *Call, args []Value) (Value, error) {
	v := args[0]
	switch v.Kind {
	case KindString:
		return Int(int64(utf8.RuneCountInString(v.Str))), nil
	case KindArray:
		return Int(int64(len(v.Arr.Elems))), nil
	case KindMap:
		return Int(int64(v.Map.Len())), nil
	}
	return Null(), c.TypeMismatch(1, "string, array or map", v)
}

func builtinInt(c *Call, args []Value) (Value, error) {
	v := args[0]
	switch v.Kind {
	case KindInt:
		return v, nil
	case KindBool:
		if v.Bool {
			return Int(1), nil
		}
		return Int(0), nil
	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) || v.Float >= math.MaxInt64 || v.Float < math.MinInt64 {
			return Null(), c.Fault(FaultBadArgument, "int: %s does not fit in int", formatFloat(v.Float))
		}
		return Int(int64(v.Float)), nil
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return Null(), c.Fault(FaultBadArgument, "int: cannot parse %q", v.Str)
		}
		return Int(n), nil
	}
	return Null(), c.TypeMismatch(1, "int, float, bool or string", v)
}

func builtinFloat(c *Call, args []Value) (Value, error) {
	v := args[0]
	switch v.Kind {
	case KindFloat:
		return v, nil
	case KindInt:
		return Float(float64(v.Int)), nil
	case KindBool:
		if v.Bool {
			return Float(1), nil
		}
		return Float(0), nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return Null(), c.Fault(FaultBadArgument, "float: cannot parse %q", v.Str)
		}
		return Float(f), nil
	}
	return Null(), c.TypeMismatch(1, "int, float, bool or string", v)
}

// builtinRange: range(n): 0..n-1, range(a, b): a..b-1.
func builtinRange(c *Call, args []Value) (Value, error) {
	var lo, hi int64
	for i, a := range args {
		if a.Kind != KindInt {
			return Null(), c.TypeMismatch(i+1, "int", a)
		}
	}
	if len(args) == 1 {
		hi = args[0].Int
	} else {
		lo, hi = args[0].Int, args[1].Int
	}
	if hi <= lo {
		return ArrayOf(), nil
	}
	// hi-lo может переполниться на крайних значениях
	if n := hi - lo; n < 0 || n > maxRangeLen {
		return Null(), c.Fault(FaultBadArgument, "range: too many elements (limit %d)", maxRangeLen)
	}
	elems := make([]Value, 0, hi-lo)
	for i := lo; i < hi; i++ {
		elems = append(elems, Int(i))
	}
	return ArrayOf(elems...), nil
}
