package formula

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// decimalArg parses an argument's text as an exact decimal.
func decimalArg(argv []Value, k int) (*apd.Decimal, error) {
	s := argv[k].AsText()
	d, _, err := apd.NewFromString(s)
	if err == nil && d.Form != apd.Finite {
		err = &strconv.NumError{Func: "NewFromString", Num: s, Err: strconv.ErrSyntax}
	}
	if err != nil {
		return nil, &TypeError{Arg: k + 1, Text: s, From: argv[k].Kind(), To: KindFloat, Err: err}
	}
	return d, nil
}

// quantize rounds x to the given number of fractional digits. places may be
// negative to round to tens, hundreds, and so on.
func quantize(x *apd.Decimal, places int32, mode apd.Rounder) (*apd.Decimal, error) {
	// Enough precision for every integer digit plus the fractional digits
	// plus a carry.
	prec := x.NumDigits() + int64(x.Exponent) + int64(places) + 1
	if prec < 1 {
		prec = 1
	}
	ctx := apd.BaseContext.WithPrecision(uint32(prec))
	ctx.Rounding = mode
	var r apd.Decimal
	if _, err := ctx.Quantize(&r, x, -places); err != nil {
		return nil, err
	}
	return &r, nil
}

// decimalFloat converts d to the nearest real.
func decimalFloat(d *apd.Decimal) (Value, error) {
	f, err := d.Float64()
	if err != nil {
		return Value{}, &DomainError{X: d.String(), Err: err}
	}
	return Float(f), nil
}

func scaleArg(argv []Value, k int) (int32, error) {
	n, err := intArg(argv, k)
	if err != nil {
		return 0, err
	}
	if n < -apd.MaxExponent || n > apd.MaxExponent {
		return 0, &DomainError{X: argv[k].AsText(), Arg: k + 1}
	}
	return int32(n), nil
}

// rounding implements ROUND and ROUNDUP.
func rounding(argv []Value, mode apd.Rounder) (*apd.Decimal, error) {
	x, err := decimalArg(argv, 0)
	if err != nil {
		return nil, err
	}
	places, err := scaleArg(argv, 1)
	if err != nil {
		return nil, err
	}
	r, err := quantize(x, places, mode)
	if err != nil {
		return nil, &DomainError{X: argv[0].AsText(), Arg: 1, Err: err}
	}
	return r, nil
}

func round(ctx *Context, argv []Value) (Value, error) {
	r, err := rounding(argv, apd.RoundHalfUp)
	if err != nil {
		return Value{}, err
	}
	return decimalFloat(r)
}

// roundup rounds away from zero, then passes the result through single
// precision.
func roundup(ctx *Context, argv []Value) (Value, error) {
	r, err := rounding(argv, apd.RoundUp)
	if err != nil {
		return Value{}, err
	}
	f, err := strconv.ParseFloat(r.String(), 32)
	if err != nil {
		return Value{}, &DomainError{X: r.String(), Arg: 1, Err: err}
	}
	// Go through the shortest single-precision text so that e.g. 0.1 stays
	// 0.1 rather than becoming 0.10000000149011612.
	f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, 32), 64)
	return Float(f), nil
}

// devideScale is the number of fractional digits DEVIDE keeps.
const devideScale = 10

// devide divides with rounding toward positive infinity at devideScale
// fractional digits.
func devide(ctx *Context, argv []Value) (Value, error) {
	a, err := decimalArg(argv, 0)
	if err != nil {
		return Value{}, err
	}
	b, err := decimalArg(argv, 1)
	if err != nil {
		return Value{}, err
	}
	if b.IsZero() {
		return Value{}, &DomainError{X: argv[1].AsText(), Arg: 2}
	}
	// Rounding the quotient toward +Inf at a finer scale and then again at
	// the final scale gives the same result as rounding the exact quotient.
	digits := (a.NumDigits() + int64(a.Exponent)) - (b.NumDigits() + int64(b.Exponent)) + 1
	if digits < 1 {
		digits = 1
	}
	qc := apd.BaseContext.WithPrecision(uint32(digits + devideScale + 5))
	qc.Rounding = apd.RoundCeiling
	var q apd.Decimal
	if _, err := qc.Quo(&q, a, b); err != nil {
		return Value{}, &DomainError{X: argv[1].AsText(), Arg: 2, Err: err}
	}
	r, err := quantize(&q, devideScale, apd.RoundCeiling)
	if err != nil {
		return Value{}, &DomainError{X: q.String(), Err: err}
	}
	return decimalFloat(r)
}

// twoPlaces rounds half up to two fractional digits.
func twoPlaces(argv []Value, k int) (Value, error) {
	x, err := decimalArg(argv, k)
	if err != nil {
		return Value{}, err
	}
	r, err := quantize(x, 2, apd.RoundHalfUp)
	if err != nil {
		return Value{}, &DomainError{X: argv[k].AsText(), Arg: k + 1, Err: err}
	}
	return decimalFloat(r)
}

func toDouble(ctx *Context, argv []Value) (Value, error) {
	return twoPlaces(argv, 0)
}

func numdigit(ctx *Context, argv []Value) (Value, error) {
	return twoPlaces(argv, 0)
}

func toInt(ctx *Context, argv []Value) (Value, error) {
	n, err := intArg(argv, 0)
	if err != nil {
		return Value{}, err
	}
	return Int(n), nil
}

// enumber expands scientific notation into plain decimal text and parses
// the result.
func enumber(ctx *Context, argv []Value) (Value, error) {
	x, err := decimalArg(argv, 0)
	if err != nil {
		return Value{}, err
	}
	s := x.Text('f')
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, &TypeError{Arg: 1, Text: s, From: KindText, To: KindFloat, Err: err}
	}
	return Float(f), nil
}

// eyushu divides in single precision and keeps two fractional digits.
func eyushu(ctx *Context, argv []Value) (Value, error) {
	var q [2]float32
	for k := range q {
		s := argv[k].AsText()
		f, err := parseReal(s, 32)
		if err != nil {
			return Value{}, &TypeError{Arg: k + 1, Text: s, From: argv[k].Kind(), To: KindFloat, Err: err}
		}
		q[k] = float32(f)
	}
	ratio := q[0] / q[1]
	r := []Value{Text(strconv.FormatFloat(float64(ratio), 'g', -1, 32))}
	v, err := twoPlaces(r, 0)
	if err != nil {
		return Value{}, &DomainError{X: r[0].AsText(), Arg: 2, Err: err}
	}
	return v, nil
}
