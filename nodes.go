package formula

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// name is the variable name for nodeVar.
	name string
	// val is the constant for nodeLit.
	val Value
	// call is the function call for nodeCall.
	call *Call

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeLit  // val
	nodeVar  // lookup(name)
	nodeCall // call

	nodeNeg // evaluate left, then negate
	nodeNop // evaluate left as a number

	nodeOr  // evaluate left, then right if left is false
	nodeAnd // evaluate left, then right if left is true
	nodeEq  // left = right
	nodeNe  // left <> right
	nodeGt  // left > right
	nodeLt  // left < right
	nodeGe  // left >= right
	nodeLe  // left <= right
	nodeAdd // evaluate left, add or concatenate right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
)

//go:generate stringer -type=nodeKind -trimprefix=node

// opstrs maps binary node kinds to their operator text.
var opstrs = [...]string{
	nodeOr:  "||",
	nodeAnd: "&&",
	nodeEq:  "=",
	nodeNe:  "<>",
	nodeGt:  ">",
	nodeLt:  "<",
	nodeGe:  ">=",
	nodeLe:  "<=",
	nodeAdd: "+",
	nodeSub: "-",
	nodeMul: "*",
	nodeDiv: "/",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node so that parsing the result produces an equivalent
// tree. Every operator application is parenthesized.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeLit:
		b.WriteString(n.val.String())
	case nodeVar:
		b.WriteString(n.name)
	case nodeCall:
		n.call.fmt(b)
	case nodeNeg:
		b.WriteString("(-")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeNop:
		b.WriteString("(+")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeOr, nodeAnd, nodeEq, nodeNe, nodeGt, nodeLt, nodeGe, nodeLe,
		nodeAdd, nodeSub, nodeMul, nodeDiv:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(opstrs[n.kind])
		b.WriteByte(' ')
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("formula: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
