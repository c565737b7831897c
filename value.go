package formula

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the dynamic type of a Value.
type Kind uint8

const (
	// KindNull is the kind of the zero Value, the result of looking up an
	// unresolved variable.
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindText:
		return "Text"
	case KindDate:
		return "Date"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a dynamically typed scalar produced by evaluating formulas. The
// zero Value is Null. Values are immutable.
type Value struct {
	kind Kind
	// n holds Bool (0 or 1) and Int values.
	n int64
	f float64
	s string
	t time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.n = 1
	}
	return v
}

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, n: n} }

// Float returns a real value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Date returns a date value.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool coerces v to a boolean. Numbers are true when nonzero. Text must be
// exactly "true" or "false".
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool, KindInt:
		return v.n != 0, nil
	case KindFloat:
		return v.f != 0, nil
	case KindText:
		switch v.s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, v.convErr(KindBool, nil)
	default:
		return false, v.convErr(KindBool, nil)
	}
}

// AsInt coerces v to an integer. Reals truncate toward zero. Dates convert to
// milliseconds since the Unix epoch. Text may hold an integer or a real
// literal.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindBool, KindInt:
		return v.n, nil
	case KindFloat:
		return truncate(v.f, v)
	case KindText:
		n, err := strconv.ParseInt(v.s, 10, 64)
		if err == nil {
			return n, nil
		}
		f, ferr := parseReal(v.s, 64)
		if ferr != nil {
			return 0, v.convErr(KindInt, err)
		}
		return truncate(f, v)
	case KindDate:
		return v.t.UnixMilli(), nil
	default:
		return 0, v.convErr(KindInt, nil)
	}
}

// parseReal parses a real literal. Unlike strconv.ParseFloat, it rejects
// spellings of infinity and NaN.
func parseReal(s string, bits int) (float64, error) {
	f, err := strconv.ParseFloat(s, bits)
	if err == nil && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}
	return f, err
}

func truncate(f float64, v Value) (int64, error) {
	t := math.Trunc(f)
	if math.IsNaN(t) || t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, v.convErr(KindInt, strconv.ErrRange)
	}
	return int64(t), nil
}

// AsFloat coerces v to a real.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindBool, KindInt:
		return float64(v.n), nil
	case KindFloat:
		return v.f, nil
	case KindText:
		f, err := parseReal(v.s, 64)
		if err != nil {
			return 0, v.convErr(KindFloat, err)
		}
		return f, nil
	case KindDate:
		return float64(v.t.UnixMilli()), nil
	default:
		return 0, v.convErr(KindFloat, nil)
	}
}

// AsText returns the text form of v. Null is the empty string, and dates use
// DefaultDatePattern.
func (v Value) AsText() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.n != 0)
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindText:
		return v.s
	case KindDate:
		s, err := FormatDate(v.t, DefaultDatePattern)
		if err != nil {
			// The default pattern always translates.
			panic(err)
		}
		return s
	default:
		panic("formula: invalid value kind " + v.kind.String())
	}
}

// AsDate coerces v to a date. Text is parsed using pattern, or
// DefaultDatePattern if pattern is empty. Numbers are milliseconds since the
// Unix epoch.
func (v Value) AsDate(pattern string) (time.Time, error) {
	switch v.kind {
	case KindDate:
		return v.t, nil
	case KindInt:
		return time.UnixMilli(v.n), nil
	case KindFloat:
		n, err := truncate(v.f, v)
		if err != nil {
			return time.Time{}, v.convErr(KindDate, err)
		}
		return time.UnixMilli(n), nil
	case KindText:
		if pattern == "" {
			pattern = DefaultDatePattern
		}
		t, err := ParseDate(v.s, pattern)
		if err != nil {
			return time.Time{}, v.convErr(KindDate, err)
		}
		return t, nil
	default:
		return time.Time{}, v.convErr(KindDate, nil)
	}
}

// Equal reports whether v and w have the same kind and the same value. Reals
// compare with ==, so NaN is not equal to itself.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.f == w.f
	case KindText:
		return v.s == w.s
	case KindDate:
		return v.t.Equal(w.t)
	default:
		return v.n == w.n
	}
}

// String returns the text form of v, except that Null is "null" and text is
// quoted as a formula literal.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindText:
		return quote(v.s)
	default:
		return v.AsText()
	}
}

func (v Value) convErr(to Kind, err error) error {
	return &TypeError{Text: v.AsText(), From: v.kind, To: to, Err: err}
}

// quote renders s as a single-quoted text literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// formatFloat formats f in the shortest form that parses back to f, always
// with a fractional part, switching to E notation for magnitudes outside
// [1e-3, 1e7).
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if a := math.Abs(f); a == 0 || (a >= 1e-3 && a < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'E', -1, 64)
	k := strings.IndexByte(s, 'E')
	m, e := s[:k], s[k+1:]
	if !strings.ContainsRune(m, '.') {
		m += ".0"
	}
	neg := e[0] == '-'
	e = strings.TrimLeft(e[1:], "0")
	if neg {
		e = "-" + e
	}
	return m + "E" + e
}
