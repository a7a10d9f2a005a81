package ast

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// Арифметические
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod

	// Логические (ленивые)
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr

	// Сравнения
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq

	// Присваивание
	ExprBinaryAssign
	ExprBinaryAddAssign
	ExprBinarySubAssign
	ExprBinaryMulAssign
	ExprBinaryDivAssign
	ExprBinaryModAssign
)

// String returns the symbol representation of a binary operator.
func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryMod:
		return "%"
	case ExprBinaryLogicalAnd:
		return "&&"
	case ExprBinaryLogicalOr:
		return "||"
	case ExprBinaryEq:
		return "=="
	case ExprBinaryNotEq:
		return "!="
	case ExprBinaryLess:
		return "<"
	case ExprBinaryLessEq:
		return "<="
	case ExprBinaryGreater:
		return ">"
	case ExprBinaryGreaterEq:
		return ">="
	case ExprBinaryAssign:
		return "="
	case ExprBinaryAddAssign:
		return "+="
	case ExprBinarySubAssign:
		return "-="
	case ExprBinaryMulAssign:
		return "*="
	case ExprBinaryDivAssign:
		return "/="
	case ExprBinaryModAssign:
		return "%="
	}
	return "?"
}

// IsAssign reports whether op stores into its left operand.
func (op ExprBinaryOp) IsAssign() bool {
	return op >= ExprBinaryAssign && op <= ExprBinaryModAssign
}

// Arith returns the arithmetic operator behind a compound assignment.
func (op ExprBinaryOp) Arith() (ExprBinaryOp, bool) {
	switch op {
	case ExprBinaryAddAssign:
		return ExprBinaryAdd, true
	case ExprBinarySubAssign:
		return ExprBinarySub, true
	case ExprBinaryMulAssign:
		return ExprBinaryMul, true
	case ExprBinaryDivAssign:
		return ExprBinaryDiv, true
	case ExprBinaryModAssign:
		return ExprBinaryMod, true
	}
	return op, false
}

type ExprUnaryOp uint8

const (
	ExprUnaryNeg ExprUnaryOp = iota // -x
	ExprUnaryNot                    // !x
)

func (op ExprUnaryOp) String() string {
	if op == ExprUnaryNot {
		return "!"
	}
	return "-"
}
