package formula

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

func TestOpPrecsExist(t *testing.T) {
	ops := []string{"||", "&&", "=", "<>", ">", "<", ">=", "<=", "+", "-", "*", "/"}
	for _, op := range ops {
		b := binop(op)
		if b.op == nodeNone {
			t.Errorf("no binary operator for %s", op)
			continue
		}
		if opstrs[b.op] != op {
			t.Errorf("operator %s renders as %q", op, opstrs[b.op])
		}
	}
	for _, op := range []string{"+", "-"} {
		if u := unop(op); u.op == nodeNone {
			t.Errorf("no unary operator for %s", op)
		}
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"parens", "((((x))))", "x"},
		{"mul-add", "1+2*3", "1+(2*3)"},
		{"add-mul", "1*2+3", "(1*2)+3"},
		{"div-sub", "a-b/c", "a-(b/c)"},
		{"left-sub", "a-b-c", "(a-b)-c"},
		{"left-div", "a/b/c", "(a/b)/c"},
		{"and-or", "a||b&&c", "a||(b&&c)"},
		{"or-and", "a&&b||c", "(a&&b)||c"},
		{"left-or", "a||b||c", "(a||b)||c"},
		{"cmp-add", "a=b+c", "a=(b+c)"},
		{"cmp-and", "a<b&&c>=d", "(a<b)&&(c>=d)"},
		{"left-cmp", "a<>b=c", "(a<>b)=c"},
		{"neg-mul", "-x*y", "(-x)*y"},
		{"neg-neg", "- -x", "-(-x)"},
		{"mul-neg", "x*-y", "x*(-y)"},
		{"sub-neg", "x--y", "x-(-y)"},
		{"plus", "+x", "(+x)"},
		{"call-args", "nvl(a+b, c*d)", "nvl((a+b),(c*d))"},
		{"call-nest", "choice(a>1,nvl(b,1),2)", "choice((a>1),(nvl(b,(1))),2)"},
		{"spaces", " 1\t+\n2 ", "1+2"},
		{"text", `"a"+'b'`, "'a'+\"b\""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.a))
			if err != nil {
				t.Fatalf("couldn't parse %q: %v", c.a, err)
			}
			b, err := Parse(strings.NewReader(c.b))
			if err != nil {
				t.Fatalf("couldn't parse %q: %v", c.b, err)
			}
			if a.String() != b.String() {
				t.Errorf("mismatched trees:\n\t%q parses %v\n\t%q parses %v", c.a, a, c.b, b)
			}
			if a.n.haskind(nodeNone) {
				t.Errorf("%q parsed to invalid tree %v", c.a, a)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"x", "x"},
		{"1", "1"},
		{"1.50", "1.5"},
		{"1.0", "1.0"},
		{"1e3", "1000.0"},
		{"2.5e10", "2.5E10"},
		{"0.0001", "1.0E-4"},
		{"9223372036854775808", "9.223372036854776E18"},
		{"true", "true"},
		{"'it''s'", "'it''s'"},
		{`"a"`, "'a'"},
		{`"it's"`, "'it''s'"},
		{"-x", "(-x)"},
		{"+x", "(+x)"},
		{"1+2*3", "(1 + (2 * 3))"},
		{"a||b&&c", "(a || (b && c))"},
		{"a <> b", "(a <> b)"},
		{"a>=b", "(a >= b)"},
		{"strlen()", "strlen()"},
		{"choice(a>1, 'y', nvl(b, 2))", "choice((a > 1),'y',nvl(b,2))"},
		{"PMT(0.00515,360,-770000,0,false)", "PMT(0.00515,360,(-770000),0,false)"},
	}
	for _, c := range cases {
		a, err := Parse(strings.NewReader(c.src))
		if err != nil {
			t.Errorf("couldn't parse %q: %v", c.src, err)
			continue
		}
		if got := a.String(); got != c.want {
			t.Errorf("%q: want %s, got %s", c.src, c.want, got)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	srcs := []string{
		"1>2 || 3<5 && 2",
		"choice(2>1,100,2000)",
		"PMT(0.00515,360,-770000,0,0)",
		"'x' + \"y\" + 1.25e-7",
		"-(-(a)) * +b / (c - d) - e",
		"to_char(to_date('20240102030405'), 'yyyy-MM-dd')",
		"IF(a = 'it''s', ROUND(b, -1), DEVIDE(c, 3))",
	}
	for _, src := range srcs {
		a, err := ParseString(src)
		if err != nil {
			t.Errorf("couldn't parse %q: %v", src, err)
			continue
		}
		s := a.String()
		b, err := ParseString(s)
		if err != nil {
			t.Errorf("couldn't reparse %q rendered from %q: %v", s, src, err)
			continue
		}
		if r := b.String(); r != s {
			t.Errorf("rendering not stable: %q renders %q, which renders %q", src, s, r)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		pos  int
		res  []string
		excl []string
	}{
		{"empty", "", new(EmptyExpressionError), 1, []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, []string{`(?i)\bend\b`}},
		{"spaces", "   ", new(EmptyExpressionError), 4, []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, nil},
		{"emptyparen", "()", new(EmptyExpressionError), 2, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyoperand", "x*", new(EmptyExpressionError), 3, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyunary", "x*-", new(EmptyExpressionError), 4, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"left", "(x", new(BracketError), 3, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"right", "x)", new(BracketError), 2, []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"nonunary", "*x", new(OperatorError), 1, []string{`(?i)\bunary\b`, `(?i)\bop`, `\*`}, nil},
		{"double-eq", "1 == 2", new(OperatorError), 4, []string{`(?i)\bunary\b`, `=`}, nil},
		{"sep", "x, y", new(SeparatorError), 2, []string{`","`}, nil},
		{"sepbrackets", "(x, y)", new(SeparatorError), 3, []string{`","`}, nil},
		{"adjacent", "x y", new(TokenError), 3, []string{`(?i)\bunexpected\b`, `"y"`}, nil},
		{"adjacent-text", "1 'a'", new(TokenError), 3, []string{`"a"`}, nil},
		{"adjacent-paren", "(1)(2)", new(TokenError), 4, []string{`"\("`}, nil},
		{"call-eof", "strlen(", new(BracketError), 8, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"call-unclosed", "strlen(x", new(BracketError), 9, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"call-trailing", "nvl(x,)", new(EmptyExpressionError), 7, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"call-leading", "nvl(,x)", new(SeparatorError), 5, []string{`","`}, nil},
		{"call-double", "nvl(x,,y)", new(SeparatorError), 7, []string{`","`}, nil},
		{"lexer", "1 + $", new(LexError), 5, []string{`\$`}, nil},
		{"bad-number", "99e999", new(LexError), 1, []string{`(?i)\bnumber\b`}, nil},
		{"unterminated", "'abc", new(LexError), 4, []string{`(?i)\btext\b`}, nil},

		// Cases identified with fuzzing.
		{"op-paren", "(b*)", new(EmptyExpressionError), 4, []string{`\)`}, nil},
		{"haskell", "(+)", new(EmptyExpressionError), 3, []string{`\)`}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src))
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T", c.src, c.err, err)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("%v is not a syntax error", err)
			}
			var ie InputError
			if !errors.As(err, &ie) {
				t.Fatalf("%v is not an InputError", err)
			}
			if ie.Pos() != c.pos {
				t.Errorf("wrong position for %q: want %d, got %d", c.src, c.pos, ie.Pos())
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
			for _, re := range c.excl {
				if regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q matches %s", msg, re)
				}
			}
		})
	}
}

func TestParseUnknownFunction(t *testing.T) {
	_, err := ParseString("1 + foo(1)")
	var uf *UnknownFunctionError
	if !errors.As(err, &uf) {
		t.Fatalf("want UnknownFunctionError, got %T (%v)", err, err)
	}
	want := UnknownFunctionError{Col: 5, Name: "foo"}
	if diff := cmp.Diff(want, *uf); diff != "" {
		t.Errorf("wrong error (-want +got):\n%s", diff)
	}
	if errors.Is(err, ErrSyntax) {
		t.Errorf("unknown function %v should not be a syntax error", err)
	}
	// Names are case-sensitive.
	if _, err := ParseString("Choice(1,2,3)"); !errors.As(err, &uf) {
		t.Errorf("want UnknownFunctionError for Choice, got %v", err)
	}
}

func TestParseArity(t *testing.T) {
	_, err := ParseString("1 + choice(1,2,3,4)")
	var ae *ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("want ArityError, got %T (%v)", err, err)
	}
	want := ArityError{Col: 5, Func: "choice", Expected: 3, Max: 3, Actual: 4}
	if diff := cmp.Diff(want, *ae); diff != "" {
		t.Errorf("wrong error (-want +got):\n%s", diff)
	}
	// Too few arguments are only detected by evaluation.
	if _, err := ParseString("choice(1,2)"); err != nil {
		t.Errorf("choice(1,2) failed to parse: %v", err)
	}
}

func TestParseVars(t *testing.T) {
	a, err := ParseString("a + b*a + nvl(c, 1) + 'd'")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, a.Vars()); diff != "" {
		t.Errorf("wrong vars (-want +got):\n%s", diff)
	}
	// Vars returns a copy.
	a.Vars()[0] = "z"
	if a.Vars()[0] != "a" {
		t.Error("modifying Vars result changed the expression")
	}
}

func TestParseOptions(t *testing.T) {
	one := FuncOf(0, 0, func(ctx *Context, argv []Value) (Value, error) {
		return Int(1), nil
	})
	t.Run("func", func(t *testing.T) {
		a, err := ParseString("one() + strlen('ab')", ParseFunc("one", one))
		if err != nil {
			t.Fatal(err)
		}
		if !a.n.haskind(nodeCall) {
			t.Errorf("no call in %v", a)
		}
	})
	t.Run("override", func(t *testing.T) {
		a, err := ParseString("strlen()", ParseFunc("strlen", one))
		if err != nil {
			t.Fatal(err)
		}
		v, err := a.Eval(nil)
		if err != nil || !v.Equal(Int(1)) {
			t.Errorf("want 1, got %v with error %v", v, err)
		}
	})
	t.Run("disable", func(t *testing.T) {
		_, err := ParseString("strlen('ab')", ParseFunc("strlen", nil))
		var uf *UnknownFunctionError
		if !errors.As(err, &uf) {
			t.Errorf("want UnknownFunctionError, got %v", err)
		}
	})
	t.Run("funcs", func(t *testing.T) {
		opt := ParseFuncs(map[string]Func{"one": one, "nvl": nil})
		if _, err := ParseString("one()", opt); err != nil {
			t.Errorf("one() failed: %v", err)
		}
		if _, err := ParseString("nvl(1,2)", opt); err == nil {
			t.Error("nvl parsed after being disabled")
		}
	})
	t.Run("builtins", func(t *testing.T) {
		for _, name := range Builtins() {
			_, err := ParseString(name+"()", DisableBuiltins())
			var uf *UnknownFunctionError
			if !errors.As(err, &uf) {
				t.Errorf("%s: want UnknownFunctionError, got %v", name, err)
			}
		}
		if _, err := ParseString("one()", DisableBuiltins(), ParseFunc("one", one)); err != nil {
			t.Errorf("one() failed: %v", err)
		}
	})
	t.Run("order", func(t *testing.T) {
		h := HelperFunc(func(name string) (Factory, bool) {
			if name == "strlen" {
				return FactoryOf(name, one), true
			}
			return nil, false
		})
		// Options win over the helper, and the helper wins over built-ins.
		a, err := ParseString("strlen()", WithHelper(h))
		if err != nil {
			t.Fatal(err)
		}
		if v, err := a.Eval(nil); err != nil || !v.Equal(Int(1)) {
			t.Errorf("helper: want 1, got %v with error %v", v, err)
		}
		_, err = ParseString("strlen()", WithHelper(h), ParseFunc("strlen", nil))
		if err == nil {
			t.Error("disabled strlen parsed through the helper")
		}
	})
}

func BenchmarkParse(b *testing.B) {
	srcs := []string{
		"1+2*3",
		"1>2 || 3<5 && 2",
		"IF(amount > 1000, ROUND(amount * rate, 2), 0)",
		"PMT(0.00515,360,-770000,0,false)",
	}
	for _, src := range srcs {
		b.Run(src, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ParseString(src)
			}
		})
	}
}
