package formula

// VariableSource resolves variables for evaluation.
type VariableSource interface {
	// Context returns an opaque handle for the named variable, which is
	// passed to Value. The evaluator calls Context before Value.
	Context(name string) any
	// Value returns the raw text of the named variable. def is the text a
	// source may substitute for a missing variable. If ok is false, the
	// variable evaluates to Null.
	Value(name string, context any, def string) (value string, ok bool)
}

// MapSource is a VariableSource backed by a map. Missing names are
// unresolved.
type MapSource map[string]string

// Context returns nil.
func (MapSource) Context(name string) any {
	return nil
}

// Value returns m[name].
func (m MapSource) Value(name string, context any, def string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// SourceFunc adapts a lookup function to a VariableSource with no
// per-variable context.
type SourceFunc func(name string) (string, bool)

// Context returns nil.
func (SourceFunc) Context(name string) any {
	return nil
}

// Value returns f(name).
func (f SourceFunc) Value(name string, context any, def string) (string, bool) {
	return f(name)
}

var (
	_ VariableSource = MapSource(nil)
	_ VariableSource = SourceFunc(nil)
)
