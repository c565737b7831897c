package formula

import (
	"github.com/zephyrtronium/formula/finance"
)

// floats converts the first n arguments to reals.
func floats(argv []Value, n int) ([]float64, error) {
	v := make([]float64, n)
	for k := range v {
		f, err := floatArg(argv, k)
		if err != nil {
			return nil, err
		}
		v[k] = f
	}
	return v, nil
}

// annuity adapts one of the annuity formulas, which share the shape
// (four reals, timing flag).
func annuity(f func(a, b, c, d float64, start bool) float64) func(*Context, []Value) (Value, error) {
	return func(ctx *Context, argv []Value) (Value, error) {
		x, err := floats(argv, 4)
		if err != nil {
			return Value{}, err
		}
		return Float(f(x[0], x[1], x[2], x[3], flagArg(argv, 4))), nil
	}
}

var (
	pmt  = annuity(finance.Payment)
	fv   = annuity(finance.FutureValue)
	nper = annuity(finance.Periods)
	pv   = annuity(finance.PresentValue)
)

// periods converts the life and period arguments of the depreciation
// functions. Each must be between 0 and finance.MaxPeriods.
func periods(argv []Value) (life, period int, err error) {
	var r [2]int
	for i := range r {
		n, err := intArg(argv, i+2)
		if err != nil {
			return 0, 0, err
		}
		if n < 0 || n > finance.MaxPeriods {
			return 0, 0, &DomainError{X: argv[i+2].AsText(), Arg: i + 3}
		}
		r[i] = int(n)
	}
	return r[0], r[1], nil
}

func db(ctx *Context, argv []Value) (Value, error) {
	x, err := floats(argv, 2)
	if err != nil {
		return Value{}, err
	}
	life, period, err := periods(argv)
	if err != nil {
		return Value{}, err
	}
	month, err := intArg(argv, 4)
	if err != nil {
		return Value{}, err
	}
	return Float(finance.DecliningBalance(x[0], x[1], life, period, int(month))), nil
}

func ddb(ctx *Context, argv []Value) (Value, error) {
	x, err := floats(argv, 2)
	if err != nil {
		return Value{}, err
	}
	life, period, err := periods(argv)
	if err != nil {
		return Value{}, err
	}
	factor, err := floatArg(argv, 4)
	if err != nil {
		return Value{}, err
	}
	return Float(finance.DoubleDecliningBalance(x[0], x[1], life, period, factor)), nil
}

func rate(ctx *Context, argv []Value) (Value, error) {
	x, err := floats(argv, 6)
	if err != nil {
		return Value{}, err
	}
	return Float(finance.Rate(x[0], x[1], x[2], x[3], x[4], x[5])), nil
}

func effect(ctx *Context, argv []Value) (Value, error) {
	x, err := floats(argv, 2)
	if err != nil {
		return Value{}, err
	}
	return Float(finance.Effect(x[0], x[1])), nil
}
