package formula

import (
	"slices"
)

// Factory creates a fresh, argument-less call node.
type Factory func() *Call

// FactoryOf returns a Factory creating calls to fn under name.
func FactoryOf(name string, fn Func) Factory {
	return func() *Call { return NewCall(name, fn) }
}

// Helper customizes function resolution. The parser consults a Helper before
// the built-in functions.
type Helper interface {
	// Customize returns the factory for the named function, or false if the
	// helper does not define it.
	Customize(name string) (Factory, bool)
}

// HelperFunc adapts an ordinary function to a Helper.
type HelperFunc func(name string) (Factory, bool)

// Customize calls f(name).
func (f HelperFunc) Customize(name string) (Factory, bool) {
	return f(name)
}

// Registry is a table of functions layered over the built-in functions and
// an optional parent. A Registry is a Helper and so may be the parent of
// another Registry.
//
// Registering and unregistering functions is not safe concurrently with any
// other use of the registry. Trees already parsed are unaffected by changes.
type Registry struct {
	parent Helper
	funcs  map[string]Factory
}

// NewRegistry creates a registry. parent may be nil.
func NewRegistry(parent Helper) *Registry {
	return &Registry{parent: parent, funcs: make(map[string]Factory)}
}

// Register sets the factory for a name, overriding any built-in function or
// parent definition of the same name.
func (r *Registry) Register(name string, f Factory) {
	if f == nil {
		panic("formula: nil factory for " + name)
	}
	r.funcs[name] = f
}

// RegisterFunc registers fn under name.
func (r *Registry) RegisterFunc(name string, fn Func) {
	r.Register(name, FactoryOf(name, fn))
}

// Unregister removes a name registered with r. Built-in and parent
// definitions of the name become visible again.
func (r *Registry) Unregister(name string) {
	delete(r.funcs, name)
}

// Customize resolves a name through r's own table, then the built-in
// functions, then the parent.
func (r *Registry) Customize(name string) (Factory, bool) {
	if f, ok := r.funcs[name]; ok {
		return f, true
	}
	if fn, ok := builtins()[name]; ok {
		return FactoryOf(name, fn), true
	}
	if r.parent != nil {
		return r.parent.Customize(name)
	}
	return nil, false
}

// Resolve is like Customize, but returns an UnknownFunctionError when no
// definition exists.
func (r *Registry) Resolve(name string) (Factory, error) {
	if f, ok := r.Customize(name); ok {
		return f, nil
	}
	return nil, &UnknownFunctionError{Name: name}
}

// Names returns the sorted names registered directly with r.
func (r *Registry) Names() []string {
	v := make([]string, 0, len(r.funcs))
	for k := range r.funcs {
		v = append(v, k)
	}
	slices.Sort(v)
	return v
}

// Builtins returns the sorted names of the built-in functions.
func Builtins() []string {
	m := builtins()
	v := make([]string, 0, len(m))
	for k := range m {
		v = append(v, k)
	}
	slices.Sort(v)
	return v
}

var _ Helper = (*Registry)(nil)
