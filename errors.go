package formula

import (
	"errors"
	"log/slog"
	"strconv"
)

// ErrSyntax matches every error caused by malformed formula text when used
// with errors.Is.
var ErrSyntax = errors.New("formula syntax error")

// UnknownFunctionError is an error indicating a call to a function that no
// registry in the lookup chain defines. It implements InputError.
type UnknownFunctionError struct {
	// Col is the position of the function name.
	Col int
	// Name is the unresolved function name.
	Name string
}

func (err *UnknownFunctionError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *UnknownFunctionError) Pos() int {
	return err.Col
}

// ArityError is an error indicating a function call with the wrong number of
// arguments. When it results from parsing, it implements InputError.
type ArityError struct {
	// Col is the position of the function name, or 0 if the error did not
	// arise from parsing.
	Col int
	// Func is the function name.
	Func string
	// Expected is the minimum number of arguments the function accepts.
	Expected int
	// Max is the maximum number of arguments the function accepts.
	Max int
	// Actual is the number of arguments supplied.
	Actual int
}

func (err *ArityError) Error() string {
	want := strconv.Itoa(err.Expected)
	switch {
	case err.Max < 0:
		want += " or more"
	case err.Max != err.Expected:
		want += " to " + strconv.Itoa(err.Max)
	}
	msg := err.Func + " expects " + want + " arguments, got " + strconv.Itoa(err.Actual)
	if err.Col > 0 {
		return errpos(err.Col, msg)
	}
	return msg
}

func (err *ArityError) Pos() int {
	return err.Col
}

func (err *ArityError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("func", err.Func),
		slog.Int("expected", err.Expected),
		slog.Int("max", err.Max),
		slog.Int("actual", err.Actual),
	)
}

// TypeError is an error converting a value from one kind to another.
type TypeError struct {
	// Func is the function or operator that requested the conversion, if any.
	Func string
	// Arg is the 1-based argument index, or 0 if unknown.
	Arg int
	// Text is the text form of the value that failed to convert.
	Text string
	// From and To are the kinds involved in the conversion.
	From, To Kind
	// Err is the underlying parse error, if any.
	Err error
}

func (err *TypeError) Error() string {
	msg := "cannot convert " + err.From.String() + " " + strconv.Quote(err.Text) + " to " + err.To.String()
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return prefix(err.Func, err.Arg) + msg
}

func (err *TypeError) Unwrap() error {
	return err.Err
}

func (err *TypeError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("from", err.From.String()),
		slog.String("to", err.To.String()),
		slog.String("text", err.Text),
	}
	if err.Func != "" {
		attrs = append(attrs, slog.String("func", err.Func), slog.Int("arg", err.Arg))
	}
	return slog.GroupValue(attrs...)
}

// NullOperandError is an error indicating that an operator or function that
// does not accept nulls received one, usually from an unresolved variable.
type NullOperandError struct {
	// Op is the operator or function name.
	Op string
	// Arg is the 1-based operand index.
	Arg int
}

func (err *NullOperandError) Error() string {
	return prefix(err.Op, err.Arg) + "null operand"
}

// ArgumentError is an error indicating a nil node supplied as a function
// argument.
type ArgumentError struct {
	// Func is the function name.
	Func string
	// Msg describes the problem.
	Msg string
}

func (err *ArgumentError) Error() string {
	return err.Func + ": " + err.Msg
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the text of the out-of-domain argument.
	X string
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
	// Err is the underlying error, if any.
	Err error
}

func (err *DomainError) Error() string {
	r := strconv.Quote(err.X) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	if err.Err != nil {
		r += ": " + err.Err.Error()
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return err.Err
}

func prefix(fn string, arg int) string {
	switch {
	case fn == "":
		return ""
	case arg > 0:
		return fn + ": argument " + strconv.Itoa(arg) + ": "
	default:
		return fn + ": "
	}
}

// withFunc fills in the function name of evaluation errors that don't yet
// have one. It returns err.
func withFunc(err error, fn string) error {
	var (
		te *TypeError
		ne *NullOperandError
		de *DomainError
	)
	switch {
	case errors.As(err, &te):
		if te.Func == "" {
			te.Func = fn
		}
	case errors.As(err, &ne):
		if ne.Op == "" {
			ne.Op = fn
		}
	case errors.As(err, &de):
		if de.Func == "" {
			de.Func = fn
		}
	}
	return err
}

// withArg fills in the 1-based argument index of evaluation errors that
// don't yet have one. It returns err.
func withArg(err error, arg int) error {
	var (
		te *TypeError
		ne *NullOperandError
		de *DomainError
	)
	switch {
	case errors.As(err, &te):
		if te.Arg == 0 && te.Func == "" {
			te.Arg = arg
		}
	case errors.As(err, &ne):
		if ne.Arg == 0 && ne.Op == "" {
			ne.Arg = arg
		}
	case errors.As(err, &de):
		if de.Arg == 0 && de.Func == "" {
			de.Arg = arg
		}
	}
	return err
}

var (
	_ InputError = (*UnknownFunctionError)(nil)
	_ InputError = (*ArityError)(nil)

	_ slog.LogValuer = (*ArityError)(nil)
	_ slog.LogValuer = (*TypeError)(nil)
)
