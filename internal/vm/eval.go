package vm

import (
	"fmt"

	"lazuli/internal/ast"
	"lazuli/internal/source"
)

func (in *interp) eval(id ast.ExprID, env *Env) (Value, error) {
	e := in.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprIdent:
		data, _ := in.b.Exprs.Ident(id)
		v, ok := env.Lookup(data.Name)
		if !ok {
			return Null(), in.fault(FaultUndefined, e.Span, "undefined symbol %q", data.Name)
		}
		return v, nil

	case ast.ExprLit:
		data, _ := in.b.Exprs.Literal(id)
		return literalValue(data), nil

	case ast.ExprBinary:
		data, _ := in.b.Exprs.Binary(id)
		return in.evalBinary(data, e.Span, env)

	case ast.ExprUnary:
		data, _ := in.b.Exprs.Unary(id)
		v, err := in.eval(data.Operand, env)
		if err != nil {
			return Null(), err
		}
		return in.unaryOp(data.Op, v, e.Span)

	case ast.ExprCall:
		data, _ := in.b.Exprs.Call(id)
		callee, err := in.eval(data.Target, env)
		if err != nil {
			return Null(), err
		}
		args, err := in.evalList(data.Args, env)
		if err != nil {
			return Null(), err
		}
		return in.callValue(callee, args, e.Span)

	case ast.ExprIndex:
		data, _ := in.b.Exprs.Index(id)
		target, err := in.eval(data.Target, env)
		if err != nil {
			return Null(), err
		}
		idx, err := in.eval(data.Index, env)
		if err != nil {
			return Null(), err
		}
		return in.index(target, idx, e.Span)

	case ast.ExprMember:
		data, _ := in.b.Exprs.Member(id)
		target, err := in.eval(data.Target, env)
		if err != nil {
			return Null(), err
		}
		return in.member(target, data.Field, data.FieldSpan)

	case ast.ExprArray:
		data, _ := in.b.Exprs.Array(id)
		elems, err := in.evalList(data.Elems, env)
		if err != nil {
			return Null(), err
		}
		return ArrayOf(elems...), nil

	case ast.ExprMap:
		data, _ := in.b.Exprs.Map(id)
		m := NewMap()
		for _, entry := range data.Entries {
			k, err := in.eval(entry.Key, env)
			if err != nil {
				return Null(), err
			}
			v, err := in.eval(entry.Value, env)
			if err != nil {
				return Null(), err
			}
			if !m.Set(k, v) {
				return Null(), in.typeMismatch(in.b.Exprs.Get(entry.Key).Span, "null, bool, int or string map key", k)
			}
		}
		return MapValue(m), nil

	case ast.ExprFn:
		data, _ := in.b.Exprs.Fn(id)
		return Value{Kind: KindFunc, Func: &Closure{
			Params: data.Params,
			Body:   data.Body,
			Env:    env,
			Span:   e.Span,
		}}, nil

	default:
		panic(fmt.Sprintf("vm: unknown expression kind %v", e.Kind))
	}
}

func (in *interp) evalList(ids []ast.ExprID, env *Env) ([]Value, error) {
	out := make([]Value, 0, len(ids))
	for _, id := range ids {
		v, err := in.eval(id, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func literalValue(lit *ast.ExprLiteralData) Value {
	switch lit.Kind {
	case ast.ExprLitBool:
		return Bool(lit.Bool)
	case ast.ExprLitInt:
		return Int(lit.Int)
	case ast.ExprLitFloat:
		return Float(lit.Float)
	case ast.ExprLitString:
		return String(lit.Str)
	default:
		return Null()
	}
}

func (in *interp) evalBinary(data *ast.ExprBinaryData, sp source.Span, env *Env) (Value, error) {
	switch {
	case data.Op == ast.ExprBinaryLogicalAnd || data.Op == ast.ExprBinaryLogicalOr:
		l, err := in.eval(data.Left, env)
		if err != nil {
			return Null(), err
		}
		// ленивое вычисление правой части
		if l.Truthy() == (data.Op == ast.ExprBinaryLogicalOr) {
			return Bool(l.Truthy()), nil
		}
		r, err := in.eval(data.Right, env)
		if err != nil {
			return Null(), err
		}
		return Bool(r.Truthy()), nil

	case data.Op.IsAssign():
		return in.assign(data, sp, env)
	}

	l, err := in.eval(data.Left, env)
	if err != nil {
		return Null(), err
	}
	r, err := in.eval(data.Right, env)
	if err != nil {
		return Null(), err
	}
	return in.binaryOp(data.Op, l, r, sp)
}

// assign handles '=' and compound assignments to a name, index or member.
func (in *interp) assign(data *ast.ExprBinaryData, sp source.Span, env *Env) (Value, error) {
	target := in.b.Exprs.Get(data.Left)
	arith, compound := data.Op.Arith()

	// combine применяет составной оператор к старому значению
	combine := func(old Value) (Value, error) {
		v, err := in.eval(data.Right, env)
		if err != nil || !compound {
			return v, err
		}
		return in.binaryOp(arith, old, v, sp)
	}

	switch target.Kind {
	case ast.ExprIdent:
		ident, _ := in.b.Exprs.Ident(data.Left)
		var old Value
		if compound {
			var ok bool
			if old, ok = env.Lookup(ident.Name); !ok {
				return Null(), in.fault(FaultUndefined, target.Span, "undefined symbol %q", ident.Name)
			}
		}
		v, err := combine(old)
		if err != nil {
			return Null(), err
		}
		env.Assign(ident.Name, v)
		return v, nil

	case ast.ExprIndex:
		idx, _ := in.b.Exprs.Index(data.Left)
		container, err := in.eval(idx.Target, env)
		if err != nil {
			return Null(), err
		}
		key, err := in.eval(idx.Index, env)
		if err != nil {
			return Null(), err
		}
		var old Value
		if compound {
			if old, err = in.index(container, key, target.Span); err != nil {
				return Null(), err
			}
		}
		v, err := combine(old)
		if err != nil {
			return Null(), err
		}
		return v, in.store(container, key, v, target.Span)

	case ast.ExprMember:
		mem, _ := in.b.Exprs.Member(data.Left)
		container, err := in.eval(mem.Target, env)
		if err != nil {
			return Null(), err
		}
		if container.Kind != KindMap {
			return Null(), in.fault(FaultTypeMismatch, target.Span, "cannot assign field %q of %s", mem.Field, container.TypeName())
		}
		key := String(mem.Field)
		old, _ := container.Map.Get(key)
		v, err := combine(old)
		if err != nil {
			return Null(), err
		}
		container.Map.Set(key, v)
		return v, nil

	default:
		// парсер уже сообщил об ошибке; сюда попадаем только при обходе Bag
		panic(fmt.Sprintf("vm: invalid assignment target %v", target.Kind))
	}
}

func (in *interp) index(target, idx Value, sp source.Span) (Value, error) {
	switch target.Kind {
	case KindArray:
		i, err := in.checkIndex(idx, len(target.Arr.Elems), sp)
		if err != nil {
			return Null(), err
		}
		return target.Arr.Elems[i], nil
	case KindString:
		runes := []rune(target.Str)
		i, err := in.checkIndex(idx, len(runes), sp)
		if err != nil {
			return Null(), err
		}
		return String(string(runes[i])), nil
	case KindMap:
		if _, ok := keyOf(idx); !ok {
			return Null(), in.typeMismatch(sp, "null, bool, int or string map key", idx)
		}
		v, _ := target.Map.Get(idx)
		return v, nil
	default:
		return Null(), in.fault(FaultTypeMismatch, sp, "cannot index %s", target.TypeName())
	}
}

func (in *interp) store(target, idx, v Value, sp source.Span) error {
	switch target.Kind {
	case KindArray:
		i, err := in.checkIndex(idx, len(target.Arr.Elems), sp)
		if err != nil {
			return err
		}
		target.Arr.Elems[i] = v
		return nil
	case KindMap:
		if !target.Map.Set(idx, v) {
			return in.typeMismatch(sp, "null, bool, int or string map key", idx)
		}
		return nil
	default:
		return in.fault(FaultTypeMismatch, sp, "cannot assign into %s", target.TypeName())
	}
}

func (in *interp) checkIndex(idx Value, n int, sp source.Span) (int, error) {
	if idx.Kind != KindInt {
		return 0, in.typeMismatch(sp, "int index", idx)
	}
	if idx.Int < 0 || idx.Int >= int64(n) {
		return 0, in.fault(FaultOutOfBounds, sp, "index %d out of range for length %d", idx.Int, n)
	}
	return int(idx.Int), nil
}

func (in *interp) member(target Value, field string, sp source.Span) (Value, error) {
	switch target.Kind {
	case KindModule:
		v, ok := target.Module.Members[field]
		if !ok {
			return Null(), in.fault(FaultUndefined, sp, "module %s has no member %q", target.Module.Name, field)
		}
		return v, nil
	case KindMap:
		v, _ := target.Map.Get(String(field))
		return v, nil
	default:
		return Null(), in.fault(FaultTypeMismatch, sp, "%s has no field %q", target.TypeName(), field)
	}
}
