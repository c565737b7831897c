package formula

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt  map[string]Func
	helperopt struct {
		h Helper
	}
)

// ParseFunc sets a function for parsing, taking precedence over any helper
// and the built-in functions. To disable parsing a function, pass nil for fn;
// calls to it then fail with UnknownFunctionError.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	p.funcs = cloneFuncs(p.funcs, 1)
	p.funcs[o.name] = o.fn
	return p
}

// ParseFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to nil.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	p.funcs = cloneFuncs(p.funcs, len(o))
	for k, v := range o {
		p.funcs[k] = v
	}
	return p
}

// cloneFuncs copies m so that options never modify maps shared between
// parses.
func cloneFuncs(m map[string]Func, extra int) map[string]Func {
	r := make(map[string]Func, len(m)+extra)
	for k, v := range m {
		r[k] = v
	}
	return r
}

// WithHelper sets the helper the parser consults to resolve function names
// before the built-in functions. A *Registry is a Helper. Applying WithHelper
// again replaces the previous helper.
func WithHelper(h Helper) ParseOption {
	return &helperopt{h}
}

func (o *helperopt) parseOption(p parsectx) parsectx {
	p.helper = o.h
	return p
}

// DisableBuiltins disables all built-in functions during parsing. Calls to
// them fail with UnknownFunctionError unless a helper or another option
// defines them.
func DisableBuiltins() ParseOption {
	m := make(funcsopt, len(builtins()))
	for k := range builtins() {
		m[k] = nil
	}
	return m
}
