package vm

import (
	"math"
	"runtime"
	"strings"
	"time"
)

// DefaultProperties are visible through system.getProperty unless
// Options.Properties overrides them.
func DefaultProperties() map[string]string {
	return map[string]string{
		"os.name":    runtime.GOOS,
		"os.arch":    runtime.GOARCH,
		"go.version": runtime.Version(),
	}
}

// ModuleNames lists the modules `using "lzr.lang.<name>"` accepts.
func ModuleNames() []string {
	return []string{"math", "string", "system"}
}

func (in *interp) module(name string) *Module {
	if m, ok := in.modules[name]; ok {
		return m
	}
	var m *Module
	switch name {
	case "system":
		m = in.systemModule()
	case "math":
		m = mathModule()
	case "string":
		m = stringModule()
	default:
		return nil
	}
	in.modules[name] = m
	return m
}

func fnMember(module, name string, minArgs, maxArgs int, fn func(c *Call, args []Value) (Value, error)) Value {
	return Value{Kind: KindBuiltin, Builtin: &Builtin{Name: module + "." + name, MinArgs: minArgs, MaxArgs: maxArgs, Fn: fn}}
}

func (in *interp) systemModule() *Module {
	props := DefaultProperties()
	for k, v := range in.opts.Properties {
		props[k] = v
	}
	now := in.opts.Now
	if now == nil {
		now = time.Now
	}
	return &Module{Name: "system", Members: map[string]Value{
		"getProperty": fnMember("system", "getProperty", 1, 1, func(c *Call, args []Value) (Value, error) {
			if args[0].Kind != KindString {
				return Null(), c.TypeMismatch(1, "string", args[0])
			}
			if v, ok := props[args[0].Str]; ok {
				return String(v), nil
			}
			return Null(), nil
		}),
		// time(): миллисекунды Unix
		"time": fnMember("system", "time", 0, 0, func(*Call, []Value) (Value, error) {
			return Int(now().UnixMilli()), nil
		}),
	}}
}

func numberArg(c *Call, args []Value, i int) (float64, error) {
	if !isNumber(args[i]) {
		return 0, c.TypeMismatch(i+1, "number", args[i])
	}
	return toFloat(args[i]), nil
}

func mathModule() *Module {
	unary := func(name string, f func(float64) float64) Value {
		return fnMember("math", name, 1, 1, func(c *Call, args []Value) (Value, error) {
			x, err := numberArg(c, args, 0)
			if err != nil {
				return Null(), err
			}
			return Float(f(x)), nil
		})
	}
	// min/max сохраняют int, если все аргументы int
	extremum := func(name string, better func(a, b float64) bool) Value {
		return fnMember("math", name, 1, -1, func(c *Call, args []Value) (Value, error) {
			best := args[0]
			for i := range args {
				if _, err := numberArg(c, args, i); err != nil {
					return Null(), err
				}
				if better(toFloat(args[i]), toFloat(best)) {
					best = args[i]
				}
			}
			return best, nil
		})
	}
	return &Module{Name: "math", Members: map[string]Value{
		"pi": Float(math.Pi),
		"abs": fnMember("math", "abs", 1, 1, func(c *Call, args []Value) (Value, error) {
			if args[0].Kind == KindInt {
				if args[0].Int < 0 {
					return Int(-args[0].Int), nil
				}
				return args[0], nil
			}
			x, err := numberArg(c, args, 0)
			if err != nil {
				return Null(), err
			}
			return Float(math.Abs(x)), nil
		}),
		"sqrt":  unary("sqrt", math.Sqrt),
		"floor": unary("floor", math.Floor),
		"max":   extremum("max", func(a, b float64) bool { return a > b }),
		"min":   extremum("min", func(a, b float64) bool { return a < b }),
	}}
}

func stringArg(c *Call, args []Value, i int) (string, error) {
	if args[i].Kind != KindString {
		return "", c.TypeMismatch(i+1, "string", args[i])
	}
	return args[i].Str, nil
}

func stringModule() *Module {
	unary := func(name string, f func(string) string) Value {
		return fnMember("string", name, 1, 1, func(c *Call, args []Value) (Value, error) {
			s, err := stringArg(c, args, 0)
			if err != nil {
				return Null(), err
			}
			return String(f(s)), nil
		})
	}
	return &Module{Name: "string", Members: map[string]Value{
		"upper": unary("upper", strings.ToUpper),
		"lower": unary("lower", strings.ToLower),
		"trim":  unary("trim", strings.TrimSpace),
		"split": fnMember("string", "split", 2, 2, func(c *Call, args []Value) (Value, error) {
			s, err := stringArg(c, args, 0)
			if err != nil {
				return Null(), err
			}
			sep, err := stringArg(c, args, 1)
			if err != nil {
				return Null(), err
			}
			parts := strings.Split(s, sep)
			out := make([]Value, len(parts))
			for i, p := range parts {
				out[i] = String(p)
			}
			return ArrayOf(out...), nil
		}),
		"join": fnMember("string", "join", 2, 2, func(c *Call, args []Value) (Value, error) {
			if args[0].Kind != KindArray {
				return Null(), c.TypeMismatch(1, "array", args[0])
			}
			sep, err := stringArg(c, args, 1)
			if err != nil {
				return Null(), err
			}
			parts := make([]string, len(args[0].Arr.Elems))
			for i, e := range args[0].Arr.Elems {
				parts[i] = e.String()
			}
			return String(strings.Join(parts, sep)), nil
		}),
		"contains": fnMember("string", "contains", 2, 2, func(c *Call, args []Value) (Value, error) {
			s, err := stringArg(c, args, 0)
			if err != nil {
				return Null(), err
			}
			sub, err := stringArg(c, args, 1)
			if err != nil {
				return Null(), err
			}
			return Bool(strings.Contains(s, sub)), nil
		}),
	}}
}
