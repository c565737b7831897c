package formula

import (
	"io"
	"strings"
)

// Context is a context for evaluating expressions. A Context is immutable
// and safe for concurrent use if its VariableSource is.
type Context struct {
	src     VariableSource
	pattern string
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type patternopt string

func (patternopt) ctxOption() {}

// DatePattern sets the date pattern used by to_date and to_char when they
// are called without one, and for coercing text to dates. The default is
// DefaultDatePattern.
func DatePattern(pattern string) ContextOption {
	return patternopt(pattern)
}

// NewContext creates a new evaluation context resolving variables from src.
// src may be nil, in which case every variable is Null.
func NewContext(src VariableSource, opts ...ContextOption) *Context {
	ctx := Context{src: src, pattern: DefaultDatePattern}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := *ctx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case patternopt:
			n.pattern = string(opt)
		default:
			panic("formula: unknown option type")
		}
	}
	return &n
}

// With returns a copy of ctx resolving variables from src.
func (ctx *Context) With(src VariableSource) *Context {
	n := *ctx
	n.src = src
	return &n
}

// DatePattern returns the context's default date pattern.
func (ctx *Context) DatePattern() string {
	return ctx.pattern
}

// Lookup resolves a variable. Unresolved variables are Null.
func (ctx *Context) Lookup(name string) Value {
	if ctx.src == nil {
		return Null()
	}
	c := ctx.src.Context(name)
	s, ok := ctx.src.Value(name, c, "")
	if !ok {
		return Null()
	}
	return Text(s)
}

// Eval evaluates an expression.
func (ctx *Context) Eval(e *Expr) (Value, error) {
	return e.n.Eval(ctx)
}

// Eval evaluates an expression with variables from src and default options.
func (e *Expr) Eval(src VariableSource) (Value, error) {
	return NewContext(src).Eval(e)
}

// Eval evaluates the node.
func (n *node) Eval(ctx *Context) (Value, error) {
	switch n.kind {
	case nodeLit:
		return n.val, nil
	case nodeVar:
		return ctx.Lookup(n.name), nil
	case nodeCall:
		return n.call.Eval(ctx)
	case nodeNeg, nodeNop:
		x, err := n.left.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return unary(n.kind, x)
	case nodeOr, nodeAnd:
		return n.logic(ctx)
	case nodeEq, nodeNe, nodeGt, nodeLt, nodeGe, nodeLe,
		nodeAdd, nodeSub, nodeMul, nodeDiv:
		l, err := n.left.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		r, err := n.right.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return binary(n.kind, l, r)
	default:
		panic("formula: invalid AST node " + n.kind.String())
	}
}

// logic evaluates && and ||. The right operand is evaluated only if the left
// does not decide the result.
func (n *node) logic(ctx *Context) (Value, error) {
	op := opstrs[n.kind]
	l, err := n.left.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	lb, err := truth(op, 1, l)
	if err != nil {
		return Value{}, err
	}
	if lb == (n.kind == nodeOr) {
		return Bool(lb), nil
	}
	r, err := n.right.Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	rb, err := truth(op, 2, r)
	if err != nil {
		return Value{}, err
	}
	return Bool(rb), nil
}

// EvalString is a shortcut to parse and evaluate a string expression using
// the built-in functions.
func EvalString(src string, vars VariableSource) (Value, error) {
	e, err := Parse(strings.NewReader(src))
	if err != nil {
		return Value{}, err
	}
	return e.Eval(vars)
}

// EvalReader is like EvalString but reads the formula from src.
func EvalReader(src io.RuneScanner, vars VariableSource) (Value, error) {
	e, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	return e.Eval(vars)
}
