// Package finance implements annuity, depreciation, and interest rate
// calculations on float64 values.
//
// Growth factors and logarithms are computed in extended precision and
// rounded once to float64.
package finance

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// prec is the precision in bits of intermediate growth factors.
const prec = 128

// pow computes x**y. Positive finite bases use extended precision; everything
// else follows math.Pow.
func pow(x, y float64) float64 {
	r := math.Pow(x, y)
	if x <= 0 || y == 0 || math.IsInf(r, 0) || math.IsNaN(r) || r == 0 {
		return r
	}
	bx := new(big.Float).SetPrec(prec).SetFloat64(x)
	by := new(big.Float).SetPrec(prec).SetFloat64(y)
	z := bigfloat.Pow(new(big.Float).SetPrec(prec), bx, by)
	f, _ := z.Float64()
	return f
}

// ln computes the natural logarithm of x.
func ln(x float64) float64 {
	if x <= 0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return math.Log(x)
	}
	bx := new(big.Float).SetPrec(prec).SetFloat64(x)
	z := bigfloat.Log(new(big.Float).SetPrec(prec), bx)
	f, _ := z.Float64()
	return f
}

// due returns the payment timing factor: 1+r when payments are made at the
// start of each period, otherwise 1.
func due(r float64, start bool) float64 {
	if start {
		return 1 + r
	}
	return 1
}

// Payment returns the payment per period of an annuity with rate r per
// period, n periods, present value p, and future value f. start indicates
// payments at the beginning of each period rather than the end.
func Payment(r, n, p, f float64, start bool) float64 {
	if r == 0 {
		return -(f + p) / n
	}
	g := pow(1+r, n)
	return (f + p*g) * r / (due(r, start) * (1 - g))
}

// FutureValue returns the future value of an annuity with rate r per period,
// n periods, payment y per period, and present value p.
func FutureValue(r, n, y, p float64, start bool) float64 {
	if r == 0 {
		return -(p + n*y)
	}
	g := pow(1+r, n)
	return (1-g)*due(r, start)*y/r - p*g
}

// PresentValue returns the present value of an annuity with rate r per
// period, n periods, payment y per period, and future value f.
func PresentValue(r, n, y, f float64, start bool) float64 {
	if r == 0 {
		return -(n*y + f)
	}
	g := pow(1+r, n)
	return ((1-g)/r*due(r, start)*y - f) / g
}

// Periods returns the number of periods of an annuity with rate r per
// period, payment y per period, present value p, and future value f.
func Periods(r, y, p, f float64, start bool) float64 {
	if r == 0 {
		return -(f + p) / y
	}
	ryr := due(r, start) * y / r
	var a1, a2 float64
	if ryr-f < 0 {
		a1 = ln(f - ryr)
		a2 = ln(-p - ryr)
	} else {
		a1 = ln(ryr - f)
		a2 = ln(p + ryr)
	}
	return (a1 - a2) / ln(1+r)
}

// DecliningBalance returns the fixed-declining-balance depreciation of an
// asset for a period. month is the number of months in the first year. The
// depreciation rate is rounded to three decimal places.
func DecliningBalance(cost, salvage float64, life, period, month int) float64 {
	rate := 1 - pow(salvage/cost, 1/float64(life))
	rate = math.Round(rate*1000) / 1000
	var dep, total float64
	for i := 0; i < period; i++ {
		switch i {
		case 0:
			dep = cost * rate * float64(month) / 12
			total = dep
		case life:
			dep = (cost - total) * rate * float64(12-month) / 12
		default:
			dep = (cost - total) * rate
			total += dep
		}
	}
	return dep
}

// DoubleDecliningBalance returns the declining-balance depreciation of an
// asset for a period at factor times the straight-line rate.
func DoubleDecliningBalance(cost, salvage float64, life, period int, factor float64) float64 {
	rate := factor / float64(life)
	var dep, total float64
	for i := 0; i < period; i++ {
		dep = (cost - salvage - total) * rate
		total += dep
	}
	return dep
}

// MaxPeriods is the largest life or period the depreciation functions accept.
const MaxPeriods = 1 << 16

const (
	// MaxIterations is the maximum number of secant steps Rate takes.
	MaxIterations = 20
	// Precision is the residual tolerance at which Rate stops.
	Precision = 1e-7
)

// Rate returns the interest rate per period of an annuity with nper periods,
// payment pmt, present value pv, and future value fv, by secant iteration
// starting from guess. typ is 1 for payments at the start of each period
// and 0 for the end. If the iteration does not converge within MaxIterations
// steps, the result is the last estimate.
func Rate(nper, pmt, pv, fv, typ, guess float64) float64 {
	residual := func(rate float64) float64 {
		if math.Abs(rate) < Precision {
			return pv*(1+nper*rate) + pmt*(1+rate*typ)*nper + fv
		}
		f := pow(1+rate, nper)
		return pv*f + pmt*(1/rate+typ)*(f-1) + fv
	}
	x0, x1 := 0.0, guess
	y0, y1 := pv+pmt*nper+fv, residual(guess)
	rate := guess
	for i := 0; i < MaxIterations && math.Abs(y0-y1) > Precision; i++ {
		rate = (y1*x0 - y0*x1) / (y1 - y0)
		x0, x1 = x1, rate
		y0, y1 = y1, residual(rate)
	}
	return rate
}

// Effect returns the effective annual interest rate for a nominal annual rate
// compounded npery times per year.
func Effect(nominal, npery float64) float64 {
	return pow(1+nominal/npery, npery) - 1
}
