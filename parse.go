package formula

import (
	"errors"
	"io"
	"slices"
	"strings"
)

// Expr = Lit | name | Call | Neg | Plus | Expr binop Expr | '(' Expr ')'
// Lit = num | text | 'true' | 'false'
// Call = funcname '(' [ Expr { ',' Expr } ] ')'
// Neg = '-' Expr
// Plus = '+' Expr
// binop = '||' | '&&' | '=' | '<>' | '>' | '<' | '>=' | '<=' | '+' | '-' | '*' | '/'

// Expr is a parsed formula that can be evaluated with a context. An Expr is
// immutable and may be evaluated concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
}

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
	// funcs overrides function resolution. A nil Func disables the name.
	funcs map[string]Func
	// helper customizes function resolution after funcs.
	helper Helper
}

// resolve finds the factory for a function name: first the parse options'
// functions, then the helper, then the built-in functions.
func (p *parsectx) resolve(name string) (Factory, bool) {
	if fn, ok := p.funcs[name]; ok {
		if fn == nil {
			return nil, false
		}
		return FactoryOf(name, fn), true
	}
	if p.helper != nil {
		if f, ok := p.helper.Customize(name); ok {
			return f, true
		}
	}
	if fn, ok := builtins()[name]; ok {
		return FactoryOf(name, fn), true
	}
	return nil, false
}

// Parse parses a formula so it can be evaluated with a context. The given
// options are applied in order. If the formula is malformed, the error
// matches ErrSyntax and implements InputError.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	p := parsectx{
		names: make(map[string]bool),
	}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: tok.pos}
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	slices.Sort(ex.names)
	return &ex, nil
}

// ParseString is a shortcut to parse a formula held in a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseterm parses a sequence of operands joined by operators more binding
// than until. If there is no error, then parseterm pushes the last token it
// scans, including EOF. If the input is an empty subexpression ending at a
// close bracket, the result is nil with no error; callers must create an
// error in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.must()
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenNum, tokenText, tokenBool, tokenIdent, tokenOpen:
			// Adjacent operands need an operator between them.
			return nil, &TokenError{Col: tok.pos, Text: tok.text}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("formula: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first operand of a term. I.e., operators are unary and
// any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		v, err := number(Text(tok.text))
		if err != nil {
			return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
		}
		n = &node{kind: nodeLit, val: v}
	case tokenText:
		n = &node{kind: nodeLit, val: Text(tok.text)}
	case tokenBool:
		n = &node{kind: nodeLit, val: Bool(tok.text == "true")}
	case tokenIdent:
		next, err := scan.next()
		if err != nil {
			return nil, err
		}
		if next.kind != tokenOpen {
			scan.push(next)
			p.names[tok.text] = true
			n = &node{kind: nodeVar, name: tok.text}
			break
		}
		c, err := parsecall(scan, p, tok)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeCall, call: c}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// Just use the enclosing operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = &node{kind: prec.op, left: rhs}
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, true)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = rhs
	case tokenClose:
		// This might be part of an empty argument list, so just let the
		// caller decide what to do.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("formula: unknown token: " + tok.String())
	}
	return n, nil
}

// parsecall parses the arguments to a call of a named function. The open
// bracket has already been scanned.
func parsecall(scan *lexer, p *parsectx, name lexToken) (*Call, error) {
	f, ok := p.resolve(name.text)
	if !ok {
		return nil, &UnknownFunctionError{Col: name.pos, Name: name.text}
	}
	c := f()
	if c == nil {
		return nil, &UnknownFunctionError{Col: name.pos, Name: name.text}
	}
	c.col = name.pos
	for {
		arg, err := parseterm(scan, p, exprprec)
		if err != nil {
			// As a special case, reporting mismatched brackets is more helpful
			// than empty expression, if that's what we'd do here.
			var ee *EmptyExpressionError
			if errors.As(err, &ee) && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: "("}
			}
			return nil, err
		}
		end := scan.must()
		switch end.kind {
		case tokenClose:
			if arg == nil {
				// f() is allowed, but f(a,) isn't.
				if len(c.args) != 0 {
					return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
				}
				return c, nil
			}
			if err := c.Append(arg); err != nil {
				return nil, err
			}
			return c, nil
		case tokenSep:
			if arg == nil {
				return nil, &SeparatorError{Col: end.pos, Sep: end.text}
			}
			if err := c.Append(arg); err != nil {
				return nil, err
			}
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: "(", Right: ""}
		default:
			panic("formula: parseterm ended on non-end token " + end.String())
		}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is whether the expression is
// inside parentheses.
func itShouldNotHaveEndedThisWay(tok lexToken, open bool) error {
	left := ""
	if open {
		left = "("
	}
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: left, Right: ""}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: "", Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("formula: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String renders the parsed expression as formula text, with each operator
// application parenthesized. Parsing the result gives an equivalent
// expression.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "||":
		return operator{1, false, nodeOr}
	case "&&":
		return operator{2, false, nodeAnd}
	case "=":
		return operator{3, false, nodeEq}
	case "<>":
		return operator{3, false, nodeNe}
	case ">":
		return operator{3, false, nodeGt}
	case "<":
		return operator{3, false, nodeLt}
	case ">=":
		return operator{3, false, nodeGe}
	case "<=":
		return operator{3, false, nodeLe}
	case "+":
		return operator{4, false, nodeAdd}
	case "-":
		return operator{4, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
