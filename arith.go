package formula

import (
	"strconv"
	"strings"
)

// number promotes a non-null value to Int or Float for arithmetic. Bools and
// dates are integers. Text parses as an integer if possible, otherwise as a
// real.
func number(v Value) (Value, error) {
	switch v.kind {
	case KindInt, KindFloat:
		return v, nil
	case KindBool, KindDate:
		n, err := v.AsInt()
		return Int(n), err
	case KindText:
		if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return Int(n), nil
		}
		f, err := v.AsFloat()
		return Float(f), err
	default:
		return Value{}, v.convErr(KindFloat, nil)
	}
}

// truth converts an operand of a logical operator.
func truth(op string, arg int, v Value) (bool, error) {
	if v.IsNull() {
		return false, &NullOperandError{Op: op, Arg: arg}
	}
	b, err := v.AsBool()
	if err != nil {
		te := err.(*TypeError)
		te.Func, te.Arg = op, arg
		return false, te
	}
	return b, nil
}

func unary(kind nodeKind, x Value) (Value, error) {
	op := "+"
	if kind == nodeNeg {
		op = "-"
	}
	if x.IsNull() {
		return Value{}, &NullOperandError{Op: op, Arg: 1}
	}
	v, err := number(x)
	if err != nil {
		return Value{}, operandErr(err, op, 1)
	}
	if kind == nodeNop {
		return v, nil
	}
	if v.kind == KindInt {
		return Int(-v.n), nil
	}
	return Float(-v.f), nil
}

func operandErr(err error, op string, arg int) error {
	if te, ok := err.(*TypeError); ok {
		te.Func, te.Arg = op, arg
	}
	return err
}

// binary applies an arithmetic or comparison operator. Null operands are
// errors. + concatenates when either operand is text that is not a number.
func binary(kind nodeKind, l, r Value) (Value, error) {
	op := opstrs[kind]
	if l.IsNull() {
		return Value{}, &NullOperandError{Op: op, Arg: 1}
	}
	if r.IsNull() {
		return Value{}, &NullOperandError{Op: op, Arg: 2}
	}
	switch kind {
	case nodeEq, nodeNe, nodeGt, nodeLt, nodeGe, nodeLe:
		return compare(kind, l, r)
	}
	a, aerr := number(l)
	b, berr := number(r)
	if kind == nodeAdd && (aerr != nil || berr != nil) && (l.kind == KindText || r.kind == KindText) {
		return Text(l.AsText() + r.AsText()), nil
	}
	if aerr != nil {
		return Value{}, operandErr(aerr, op, 1)
	}
	if berr != nil {
		return Value{}, operandErr(berr, op, 2)
	}
	if a.kind == KindInt && b.kind == KindInt {
		return intArith(kind, a.n, b.n), nil
	}
	x, _ := a.AsFloat()
	y, _ := b.AsFloat()
	switch kind {
	case nodeAdd:
		return Float(x + y), nil
	case nodeSub:
		return Float(x - y), nil
	case nodeMul:
		return Float(x * y), nil
	case nodeDiv:
		return Float(x / y), nil
	default:
		panic("formula: invalid arithmetic node " + kind.String())
	}
}

// intArith applies integer arithmetic. Division is exact when possible and
// real otherwise.
func intArith(kind nodeKind, x, y int64) Value {
	switch kind {
	case nodeAdd:
		return Int(x + y)
	case nodeSub:
		return Int(x - y)
	case nodeMul:
		return Int(x * y)
	case nodeDiv:
		if y != 0 && x%y == 0 {
			return Int(x / y)
		}
		return Float(float64(x) / float64(y))
	default:
		panic("formula: invalid arithmetic node " + kind.String())
	}
}

// compare applies a comparison operator. Two texts compare as strings and
// two dates as times. Otherwise operands compare as numbers, falling back to
// text comparison when either is text that is not a number.
func compare(kind nodeKind, l, r Value) (Value, error) {
	var c int
	switch {
	case l.kind == KindText && r.kind == KindText:
		c = strings.Compare(l.s, r.s)
	case l.kind == KindDate && r.kind == KindDate:
		c = l.t.Compare(r.t)
	default:
		a, aerr := number(l)
		b, berr := number(r)
		switch {
		case aerr == nil && berr == nil:
			if a.kind == KindInt && b.kind == KindInt {
				c = cmpInt(a.n, b.n)
				break
			}
			x, _ := a.AsFloat()
			y, _ := b.AsFloat()
			if x != x || y != y {
				// NaN is unordered: only <> holds.
				return Bool(kind == nodeNe), nil
			}
			c = cmpFloat(x, y)
		case l.kind == KindText || r.kind == KindText:
			c = strings.Compare(l.AsText(), r.AsText())
		case aerr != nil:
			return Value{}, operandErr(aerr, opstrs[kind], 1)
		default:
			return Value{}, operandErr(berr, opstrs[kind], 2)
		}
	}
	switch kind {
	case nodeEq:
		return Bool(c == 0), nil
	case nodeNe:
		return Bool(c != 0), nil
	case nodeGt:
		return Bool(c > 0), nil
	case nodeLt:
		return Bool(c < 0), nil
	case nodeGe:
		return Bool(c >= 0), nil
	case nodeLe:
		return Bool(c <= 0), nil
	default:
		panic("formula: invalid comparison node " + kind.String())
	}
}

func cmpInt(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
