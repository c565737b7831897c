package formula

import (
	lru "github.com/hashicorp/golang-lru"
)

// Cache holds recently parsed formulas keyed by their text. All formulas in a
// cache are parsed with the same options. A Cache is safe for concurrent use.
type Cache struct {
	exprs *lru.Cache
	opts  []ParseOption
}

// NewCache creates a cache holding up to size parsed formulas.
func NewCache(size int, opts ...ParseOption) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{exprs: c, opts: opts}, nil
}

// Parse returns the parsed form of src, parsing it if it is not cached.
// Formulas that fail to parse are not cached.
func (c *Cache) Parse(src string) (*Expr, error) {
	if e, ok := c.exprs.Get(src); ok {
		return e.(*Expr), nil
	}
	e, err := ParseString(src, c.opts...)
	if err != nil {
		return nil, err
	}
	c.exprs.Add(src, e)
	return e, nil
}

// Eval parses src through the cache and evaluates it with vars.
func (c *Cache) Eval(src string, vars VariableSource) (Value, error) {
	e, err := c.Parse(src)
	if err != nil {
		return Value{}, err
	}
	return e.Eval(vars)
}

// Len returns the number of cached formulas.
func (c *Cache) Len() int {
	return c.exprs.Len()
}

// Purge removes every cached formula.
func (c *Cache) Purge() {
	c.exprs.Purge()
}
