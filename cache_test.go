package formula_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/formula"
)

func TestCacheParse(t *testing.T) {
	c, err := formula.NewCache(2)
	if err != nil {
		t.Fatal(err)
	}
	a, err := c.Parse("1 + x")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Parse("1 + x")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("cached formula parsed again")
	}
	if _, err := c.Parse("1 +"); !errors.Is(err, formula.ErrSyntax) {
		t.Errorf("want syntax error, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("want 1 cached formula, got %d", c.Len())
	}
	c.Parse("2")
	c.Parse("3")
	if c.Len() != 2 {
		t.Errorf("want cache limited to 2, got %d", c.Len())
	}
	if d, _ := c.Parse("1 + x"); d == a {
		t.Error("evicted formula was still cached")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("want empty cache after purge, got %d", c.Len())
	}
}

func TestCacheOptions(t *testing.T) {
	c, err := formula.NewCache(4, formula.DisableBuiltins())
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Eval("strlen('abc')", nil)
	var uf *formula.UnknownFunctionError
	if !errors.As(err, &uf) {
		t.Errorf("want UnknownFunctionError, got %v", err)
	}
	v, err := c.Eval("x * 2", formula.MapSource{"x": "1.5"})
	if err != nil || !v.Equal(formula.Float(3)) {
		t.Errorf("want 3.0, got %v with error %v", v, err)
	}
}

func TestNewCacheSize(t *testing.T) {
	if _, err := formula.NewCache(0); err == nil {
		t.Error("no error for empty cache")
	}
}
