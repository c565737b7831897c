package formula

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/grafana/regexp"
	lru "github.com/hashicorp/golang-lru"
)

// builtins returns the built-in function table. The table is built once and
// never modified.
var builtins = sync.OnceValue(func() map[string]Func {
	m := map[string]Func{
		"choice":    &lazy{3, 3, choice},
		"nvl":       &lazy{2, 2, nvl},
		"to_date":   strict(1, 2, toDate),
		"to_char":   strict(1, 2, toChar),
		"to_string": strict(1, 1, toString),
		"to_long":   strict(1, 1, toLong),
		"to_double": strict(1, 1, toDouble),
		"substr":    strict(3, 3, substr),
		"instr":     strict(2, 2, instr),
		"strlen":    strict(1, 1, strlen),
		"match":     strict(2, 2, match),

		"PMT":    strict(5, 5, pmt),
		"FV":     strict(5, 5, fv),
		"NPER":   strict(5, 5, nper),
		"PV":     strict(5, 5, pv),
		"DB":     strict(5, 5, db),
		"DDB":    strict(5, 5, ddb),
		"RATE":   strict(6, 6, rate),
		"EFFECT": strict(2, 2, effect),

		"IF":       &lazy{3, 3, ifelse},
		"DEVIDE":   strict(2, 2, devide),
		"ROUND":    strict(2, 2, round),
		"ROUNDUP":  strict(2, 2, roundup),
		"TO_INT":   strict(1, 1, toInt),
		"E_NUMBER": strict(1, 1, enumber),
		"NUMDIGIT": strict(1, 1, numdigit),
		"EYUSHU":   strict(2, 2, eyushu),
	}
	// Alternate spellings.
	m["TOINT"] = m["TO_INT"]
	m["NUM_DIGIT"] = m["NUMDIGIT"]
	m["E_YUSHU"] = m["EYUSHU"]
	return m
})

// condition evaluates a boolean argument node.
func condition(ctx *Context, n Node, arg int) (bool, error) {
	v, err := n.Eval(ctx)
	if err != nil {
		return false, err
	}
	if v.IsNull() {
		return false, &NullOperandError{Arg: arg}
	}
	b, err := v.AsBool()
	if err != nil {
		return false, withArg(err, arg)
	}
	return b, nil
}

func choice(ctx *Context, args []Node) (Value, error) {
	c, err := condition(ctx, args[0], 1)
	if err != nil {
		return Value{}, err
	}
	if c {
		return args[1].Eval(ctx)
	}
	return args[2].Eval(ctx)
}

func nvl(ctx *Context, args []Node) (Value, error) {
	v, err := args[0].Eval(ctx)
	if err != nil || !v.IsNull() {
		return v, err
	}
	return args[1].Eval(ctx)
}

// pattern returns the date pattern argument at index k, or the context's
// pattern if there is none.
func pattern(ctx *Context, argv []Value, k int) string {
	if len(argv) > k {
		return argv[k].AsText()
	}
	return ctx.DatePattern()
}

func toDate(ctx *Context, argv []Value) (Value, error) {
	p := pattern(ctx, argv, 1)
	if argv[0].Kind() == KindDate {
		return argv[0], nil
	}
	s := argv[0].AsText()
	t, err := ParseDate(s, p)
	if err != nil {
		var pe *PatternError
		if errors.As(err, &pe) {
			return Value{}, &DomainError{X: p, Arg: 2, Err: err}
		}
		return Value{}, &TypeError{Arg: 1, Text: s, From: argv[0].Kind(), To: KindDate, Err: err}
	}
	return Date(t), nil
}

func toChar(ctx *Context, argv []Value) (Value, error) {
	t, err := argv[0].AsDate(ctx.DatePattern())
	if err != nil {
		return Value{}, withArg(err, 1)
	}
	p := pattern(ctx, argv, 1)
	s, err := FormatDate(t, p)
	if err != nil {
		return Value{}, &DomainError{X: p, Arg: 2, Err: err}
	}
	return Text(s), nil
}

func toString(ctx *Context, argv []Value) (Value, error) {
	return Text(argv[0].AsText()), nil
}

func toLong(ctx *Context, argv []Value) (Value, error) {
	s := argv[0].AsText()
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, &TypeError{Arg: 1, Text: s, From: argv[0].Kind(), To: KindInt, Err: err}
	}
	return Int(n), nil
}

func strlen(ctx *Context, argv []Value) (Value, error) {
	return Int(int64(utf8.RuneCountInString(argv[0].AsText()))), nil
}

// substr clamps its offset and length to the string rather than failing.
func substr(ctx *Context, argv []Value) (Value, error) {
	s := []rune(argv[0].AsText())
	off, err := intArg(argv, 1)
	if err != nil {
		return Value{}, err
	}
	n, err := intArg(argv, 2)
	if err != nil {
		return Value{}, err
	}
	if len(s) == 0 {
		return Text(""), nil
	}
	switch {
	case off < 0:
		off = 0
	case off >= int64(len(s)):
		off = int64(len(s)) - 1
	}
	if rest := int64(len(s)) - off; rest < n {
		n = rest
	}
	if n < 0 {
		n = 0
	}
	return Text(string(s[off : off+n])), nil
}

func instr(ctx *Context, argv []Value) (Value, error) {
	s, t := argv[0].AsText(), argv[1].AsText()
	k := strings.Index(s, t)
	if k < 0 {
		return Int(-1), nil
	}
	return Int(int64(utf8.RuneCountInString(s[:k]))), nil
}

// patterns caches compiled regular expressions for match.
var patterns = func() *lru.Cache {
	c, err := lru.New(256)
	if err != nil {
		panic(err)
	}
	return c
}()

func compile(expr string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	// The whole string must match.
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, err
	}
	patterns.Add(expr, re)
	return re, nil
}

func match(ctx *Context, argv []Value) (Value, error) {
	expr := argv[1].AsText()
	re, err := compile(expr)
	if err != nil {
		return Value{}, &DomainError{X: expr, Arg: 2, Err: err}
	}
	return Bool(re.MatchString(argv[0].AsText())), nil
}

// ifelse implements IF. It evaluates only the chosen branch, as a real, so
// errors in the other branch go unreported.
func ifelse(ctx *Context, args []Node) (Value, error) {
	c, err := condition(ctx, args[0], 1)
	if err != nil {
		return Value{}, err
	}
	k := 2
	if c {
		k = 1
	}
	v, err := args[k].Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if v.IsNull() {
		return Value{}, &NullOperandError{Arg: k + 1}
	}
	f, err := v.AsFloat()
	if err != nil {
		return Value{}, withArg(err, k+1)
	}
	return Float(f), nil
}

func intArg(argv []Value, k int) (int64, error) {
	n, err := argv[k].AsInt()
	if err != nil {
		return 0, withArg(err, k+1)
	}
	return n, nil
}

func floatArg(argv []Value, k int) (float64, error) {
	f, err := argv[k].AsFloat()
	if err != nil {
		return 0, withArg(err, k+1)
	}
	return f, nil
}

// flagArg interprets an argument as a boolean flag: true if its text is
// "true" in any case, false otherwise.
func flagArg(argv []Value, k int) bool {
	return strings.EqualFold(argv[k].AsText(), "true")
}
