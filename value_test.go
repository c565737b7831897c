package formula_test

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/zephyrtronium/formula"
)

func TestValueKind(t *testing.T) {
	cases := []struct {
		v    formula.Value
		kind formula.Kind
		name string
	}{
		{formula.Null(), formula.KindNull, "Null"},
		{formula.Value{}, formula.KindNull, "Null"},
		{formula.Bool(true), formula.KindBool, "Bool"},
		{formula.Int(1), formula.KindInt, "Int"},
		{formula.Float(1), formula.KindFloat, "Float"},
		{formula.Text(""), formula.KindText, "Text"},
		{formula.Date(time.Unix(0, 0)), formula.KindDate, "Date"},
	}
	for _, c := range cases {
		if got := c.v.Kind(); got != c.kind {
			t.Errorf("%v: want kind %v, got %v", c.v, c.kind, got)
		}
		if got := c.kind.String(); got != c.name {
			t.Errorf("kind %d: want name %s, got %s", c.kind, c.name, got)
		}
		if c.v.IsNull() != (c.kind == formula.KindNull) {
			t.Errorf("%v: wrong IsNull", c.v)
		}
	}
}

func TestAsBool(t *testing.T) {
	cases := []struct {
		v   formula.Value
		r   bool
		err bool
	}{
		{formula.Bool(true), true, false},
		{formula.Bool(false), false, false},
		{formula.Int(0), false, false},
		{formula.Int(-3), true, false},
		{formula.Float(0), false, false},
		{formula.Float(0.5), true, false},
		{formula.Text("true"), true, false},
		{formula.Text("false"), false, false},
		{formula.Text("TRUE"), false, true},
		{formula.Text("1"), false, true},
		{formula.Text(""), false, true},
		{formula.Null(), false, true},
		{formula.Date(time.Unix(0, 0)), false, true},
	}
	for _, c := range cases {
		r, err := c.v.AsBool()
		if (err != nil) != c.err {
			t.Errorf("%v: wrong error %v", c.v, err)
		}
		if err != nil {
			var te *formula.TypeError
			if !errors.As(err, &te) || te.To != formula.KindBool {
				t.Errorf("%v: want TypeError to Bool, got %v", c.v, err)
			}
			continue
		}
		if r != c.r {
			t.Errorf("%v: want %t, got %t", c.v, c.r, r)
		}
	}
}

func TestAsInt(t *testing.T) {
	cases := []struct {
		v   formula.Value
		r   int64
		err bool
	}{
		{formula.Bool(true), 1, false},
		{formula.Bool(false), 0, false},
		{formula.Int(-7), -7, false},
		{formula.Float(2.9), 2, false},
		{formula.Float(-2.9), -2, false},
		{formula.Float(math.NaN()), 0, true},
		{formula.Float(1e300), 0, true},
		{formula.Text("42"), 42, false},
		{formula.Text("-42.7"), -42, false},
		{formula.Text("1e3"), 1000, false},
		{formula.Text("forty"), 0, true},
		{formula.Text(""), 0, true},
		{formula.Text("nan"), 0, true},
		{formula.Text("Infinity"), 0, true},
		{formula.Date(time.UnixMilli(1234567)), 1234567, false},
		{formula.Null(), 0, true},
	}
	for _, c := range cases {
		r, err := c.v.AsInt()
		if (err != nil) != c.err {
			t.Errorf("%v: wrong error %v", c.v, err)
			continue
		}
		if r != c.r {
			t.Errorf("%v: want %d, got %d", c.v, c.r, r)
		}
	}
}

func TestAsFloat(t *testing.T) {
	cases := []struct {
		v   formula.Value
		r   float64
		err bool
	}{
		{formula.Bool(true), 1, false},
		{formula.Int(-7), -7, false},
		{formula.Float(2.5), 2.5, false},
		{formula.Text("2.5"), 2.5, false},
		{formula.Text("1.536E7"), 1.536e7, false},
		{formula.Text(" 2.5"), 0, true},
		{formula.Text("x"), 0, true},
		{formula.Text("inf"), 0, true},
		{formula.Text("-Infinity"), 0, true},
		{formula.Text("NaN"), 0, true},
		{formula.Text("1e999"), 0, true},
		{formula.Date(time.UnixMilli(1000)), 1000, false},
		{formula.Null(), 0, true},
	}
	for _, c := range cases {
		r, err := c.v.AsFloat()
		if (err != nil) != c.err {
			t.Errorf("%v: wrong error %v", c.v, err)
			continue
		}
		if r != c.r {
			t.Errorf("%v: want %g, got %g", c.v, c.r, r)
		}
	}
	// Parse failures keep the cause.
	for _, s := range []string{"x", "inf", "nan"} {
		_, err := formula.Text(s).AsFloat()
		if !errors.Is(err, strconv.ErrSyntax) {
			t.Errorf("%s: want strconv.ErrSyntax cause, got %v", s, err)
		}
	}
}

func TestAsText(t *testing.T) {
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	cases := []struct {
		v formula.Value
		r string
	}{
		{formula.Null(), ""},
		{formula.Bool(true), "true"},
		{formula.Bool(false), "false"},
		{formula.Int(-12), "-12"},
		{formula.Float(0), "0.0"},
		{formula.Float(100), "100.0"},
		{formula.Float(-2.5), "-2.5"},
		{formula.Float(0.03), "0.03"},
		{formula.Float(0.001), "0.001"},
		{formula.Float(0.0001), "1.0E-4"},
		{formula.Float(1234567), "1234567.0"},
		{formula.Float(1.536e7), "1.536E7"},
		{formula.Float(1e21), "1.0E21"},
		{formula.Float(-1.5e-10), "-1.5E-10"},
		{formula.Float(math.Inf(1)), "Infinity"},
		{formula.Float(math.Inf(-1)), "-Infinity"},
		{formula.Float(math.NaN()), "NaN"},
		{formula.Text("it's"), "it's"},
		{formula.Date(date), "20240102030405"},
	}
	for _, c := range cases {
		if got := c.v.AsText(); got != c.r {
			t.Errorf("%v: want %q, got %q", c.v, c.r, got)
		}
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v formula.Value
		r string
	}{
		{formula.Null(), "null"},
		{formula.Text("a"), "'a'"},
		{formula.Text("it's"), "'it''s'"},
		{formula.Int(3), "3"},
		{formula.Float(3), "3.0"},
		{formula.Bool(false), "false"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.r {
			t.Errorf("want %s, got %s", c.r, got)
		}
	}
}

func TestAsDate(t *testing.T) {
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	cases := []struct {
		v       formula.Value
		pattern string
		r       time.Time
		err     bool
	}{
		{formula.Date(want), "", want, false},
		{formula.Text("20240102030405"), "", want, false},
		{formula.Text("2024/01/02 03:04:05"), "yyyy/MM/dd HH:mm:ss", want, false},
		{formula.Text("2024-01-02"), "", time.Time{}, true},
		{formula.Int(want.UnixMilli()), "", want, false},
		{formula.Float(float64(want.UnixMilli())), "", want, false},
		{formula.Bool(true), "", time.Time{}, true},
		{formula.Null(), "", time.Time{}, true},
	}
	for _, c := range cases {
		r, err := c.v.AsDate(c.pattern)
		if (err != nil) != c.err {
			t.Errorf("%v: wrong error %v", c.v, err)
			continue
		}
		if err != nil {
			var te *formula.TypeError
			if !errors.As(err, &te) || te.To != formula.KindDate {
				t.Errorf("%v: want TypeError to Date, got %v", c.v, err)
			}
			continue
		}
		if !r.Equal(c.r) {
			t.Errorf("%v: want %v, got %v", c.v, c.r, r)
		}
	}
}

func TestValueEqual(t *testing.T) {
	cases := []struct {
		a, b formula.Value
		eq   bool
	}{
		{formula.Null(), formula.Null(), true},
		{formula.Int(1), formula.Int(1), true},
		{formula.Int(1), formula.Float(1), false},
		{formula.Int(1), formula.Bool(true), false},
		{formula.Text("1"), formula.Int(1), false},
		{formula.Text("a"), formula.Text("a"), true},
		{formula.Float(math.NaN()), formula.Float(math.NaN()), false},
		{formula.Date(time.Unix(5, 0).UTC()), formula.Date(time.Unix(5, 0)), true},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.eq {
			t.Errorf("%v = %v: want %t, got %t", c.a, c.b, c.eq, got)
		}
	}
}
