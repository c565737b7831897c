package formula

import (
	"strings"
)

// Node is a parsed subexpression. Functions receive their arguments as nodes
// so that they may evaluate them lazily or not at all.
type Node interface {
	// Eval evaluates the node.
	Eval(ctx *Context) (Value, error)
	// String renders the node as formula text which parses to an equivalent
	// node.
	String() string
}

// Func is the implementation of a formula function.
type Func interface {
	// Arity returns the minimum and maximum number of arguments the function
	// accepts. The parser rejects calls with more than max arguments, and
	// evaluation rejects calls with fewer than min.
	Arity() (min, max int)

	// Call evaluates the function. args has a length within the bounds that
	// Arity returns. The function evaluates whichever arguments it needs.
	// Errors from argument evaluation should be returned unchanged.
	Call(ctx *Context, args []Node) (Value, error)
}

// Call is a function call node. A Call starts without arguments; the parser
// appends each one as it is parsed.
type Call struct {
	name string
	fn   Func
	args []Node
	// col is the position of the call in its formula, if parsed.
	col int
}

// NewCall creates an argument-less call to fn. The name is used for rendering
// and errors.
func NewCall(name string, fn Func) *Call {
	return &Call{name: name, fn: fn}
}

// Name returns the name under which the function was called.
func (c *Call) Name() string {
	return c.name
}

// Args returns the call's arguments. The result must not be modified.
func (c *Call) Args() []Node {
	return c.args
}

// Append adds an argument to the call. It fails if arg is nil or if the call
// would have more arguments than the function accepts.
func (c *Call) Append(arg Node) error {
	if arg == nil {
		return &ArgumentError{Func: c.name, Msg: "nil argument"}
	}
	min, max := c.fn.Arity()
	if max >= 0 && len(c.args) >= max {
		return &ArityError{Col: c.col, Func: c.name, Expected: min, Max: max, Actual: len(c.args) + 1}
	}
	c.args = append(c.args, arg)
	return nil
}

// Eval checks the argument count and calls the function.
func (c *Call) Eval(ctx *Context) (Value, error) {
	min, max := c.fn.Arity()
	if len(c.args) < min || max >= 0 && len(c.args) > max {
		return Value{}, &ArityError{Func: c.name, Expected: min, Max: max, Actual: len(c.args)}
	}
	r, err := c.fn.Call(ctx, c.args)
	if err != nil {
		return Value{}, withFunc(err, c.name)
	}
	return r, nil
}

func (c *Call) String() string {
	var b strings.Builder
	c.fmt(&b)
	return b.String()
}

func (c *Call) fmt(b *strings.Builder) {
	b.WriteString(c.name)
	b.WriteByte('(')
	for i, arg := range c.args {
		if i > 0 {
			b.WriteByte(',')
		}
		if n, ok := arg.(*node); ok {
			n.fmt(b)
		} else {
			b.WriteString(arg.String())
		}
	}
	b.WriteByte(')')
}

// eager is a Func which evaluates all of its arguments before calling f.
type eager struct {
	min, max int
	nulls    bool
	f        func(ctx *Context, argv []Value) (Value, error)
}

func (e *eager) Arity() (int, int) {
	return e.min, e.max
}

func (e *eager) Call(ctx *Context, args []Node) (Value, error) {
	argv := make([]Value, len(args))
	for i, arg := range args {
		v, err := arg.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		if v.IsNull() && !e.nulls {
			return Value{}, &NullOperandError{Arg: i + 1}
		}
		argv[i] = v
	}
	return e.f(ctx, argv)
}

// FuncOf wraps a function of evaluated arguments into a Func accepting
// between min and max arguments. A negative max means no upper bound. Null
// arguments are passed to f unchanged.
func FuncOf(min, max int, f func(ctx *Context, argv []Value) (Value, error)) Func {
	return &eager{min: min, max: max, nulls: true, f: f}
}

// strict is like FuncOf, but rejects Null arguments with NullOperandError.
func strict(min, max int, f func(ctx *Context, argv []Value) (Value, error)) Func {
	return &eager{min: min, max: max, f: f}
}

// lazy is a Func which receives its argument nodes unevaluated.
type lazy struct {
	min, max int
	f        func(ctx *Context, args []Node) (Value, error)
}

func (l *lazy) Arity() (int, int) {
	return l.min, l.max
}

func (l *lazy) Call(ctx *Context, args []Node) (Value, error) {
	return l.f(ctx, args)
}
