package vm

import (
	"math"
	"strings"

	"lazuli/internal/ast"
	"lazuli/internal/source"
)

func (in *interp) unaryOp(op ast.ExprUnaryOp, v Value, sp source.Span) (Value, error) {
	switch op {
	case ast.ExprUnaryNot:
		return Bool(!v.Truthy()), nil
	case ast.ExprUnaryNeg:
		switch v.Kind {
		case KindInt:
			return Int(-v.Int), nil
		case KindFloat:
			return Float(-v.Float), nil
		}
		return Null(), in.fault(FaultTypeMismatch, sp, "cannot negate %s", v.TypeName())
	}
	return Null(), in.fault(FaultTypeMismatch, sp, "unknown unary operator %s", op)
}

// binaryOp evaluates a non-lazy, non-assigning operator.
// Целочисленная арифметика переполняется по правилам Go (wraparound).
func (in *interp) binaryOp(op ast.ExprBinaryOp, l, r Value, sp source.Span) (Value, error) {
	switch op {
	case ast.ExprBinaryEq:
		return Bool(l.Equal(r)), nil
	case ast.ExprBinaryNotEq:
		return Bool(!l.Equal(r)), nil
	case ast.ExprBinaryLess, ast.ExprBinaryLessEq, ast.ExprBinaryGreater, ast.ExprBinaryGreaterEq:
		return in.compare(op, l, r, sp)
	case ast.ExprBinaryAdd:
		if l.Kind == KindString || r.Kind == KindString {
			return String(l.String() + r.String()), nil
		}
		if l.Kind == KindArray && r.Kind == KindArray {
			elems := make([]Value, 0, len(l.Arr.Elems)+len(r.Arr.Elems))
			elems = append(elems, l.Arr.Elems...)
			elems = append(elems, r.Arr.Elems...)
			return ArrayOf(elems...), nil
		}
	case ast.ExprBinaryMul:
		if l.Kind == KindString && r.Kind == KindInt {
			if r.Int < 0 {
				return Null(), in.fault(FaultBadArgument, sp, "negative repeat count %d", r.Int)
			}
			return String(strings.Repeat(l.Str, int(r.Int))), nil
		}
	}

	if !isNumber(l) || !isNumber(r) {
		return Null(), in.fault(FaultTypeMismatch, sp, "operator %s not defined for %s and %s", op, l.TypeName(), r.TypeName())
	}
	if l.Kind == KindInt && r.Kind == KindInt {
		return in.intArith(op, l.Int, r.Int, sp)
	}
	return in.floatArith(op, toFloat(l), toFloat(r), sp)
}

func (in *interp) intArith(op ast.ExprBinaryOp, a, b int64, sp source.Span) (Value, error) {
	switch op {
	case ast.ExprBinaryAdd:
		return Int(a + b), nil
	case ast.ExprBinarySub:
		return Int(a - b), nil
	case ast.ExprBinaryMul:
		return Int(a * b), nil
	case ast.ExprBinaryDiv:
		if b == 0 {
			return Null(), in.fault(FaultDivByZero, sp, "division by zero")
		}
		return Int(a / b), nil
	case ast.ExprBinaryMod:
		if b == 0 {
			return Null(), in.fault(FaultDivByZero, sp, "modulo by zero")
		}
		return Int(a % b), nil
	}
	return Null(), in.fault(FaultTypeMismatch, sp, "operator %s not defined for int", op)
}

func (in *interp) floatArith(op ast.ExprBinaryOp, a, b float64, sp source.Span) (Value, error) {
	switch op {
	case ast.ExprBinaryAdd:
		return Float(a + b), nil
	case ast.ExprBinarySub:
		return Float(a - b), nil
	case ast.ExprBinaryMul:
		return Float(a * b), nil
	case ast.ExprBinaryDiv:
		if b == 0 {
			return Null(), in.fault(FaultDivByZero, sp, "division by zero")
		}
		return Float(a / b), nil
	case ast.ExprBinaryMod:
		if b == 0 {
			return Null(), in.fault(FaultDivByZero, sp, "modulo by zero")
		}
		return Float(math.Mod(a, b)), nil
	}
	return Null(), in.fault(FaultTypeMismatch, sp, "operator %s not defined for float", op)
}

func (in *interp) compare(op ast.ExprBinaryOp, l, r Value, sp source.Span) (Value, error) {
	var c int
	switch {
	case l.Kind == KindInt && r.Kind == KindInt:
		c = cmpOrdered(l.Int, r.Int)
	case isNumber(l) && isNumber(r):
		c = cmpOrdered(toFloat(l), toFloat(r))
	case l.Kind == KindString && r.Kind == KindString:
		c = strings.Compare(l.Str, r.Str)
	default:
		return Null(), in.fault(FaultTypeMismatch, sp, "cannot compare %s and %s", l.TypeName(), r.TypeName())
	}
	switch op {
	case ast.ExprBinaryLess:
		return Bool(c < 0), nil
	case ast.ExprBinaryLessEq:
		return Bool(c <= 0), nil
	case ast.ExprBinaryGreater:
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
