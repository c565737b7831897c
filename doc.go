// Package formula implements a small formula language for business rules.
//
// A formula is an expression over numbers, quoted text, booleans, variables,
// and function calls, such as
//
//	IF(amount > 1000, ROUND(amount * rate, 2), 0)
//
// Operators, from least to most binding, are ||, &&, the comparisons
// = <> > < >= <=, then + -, then * /, then unary - and +. && and || evaluate
// their right operand only when the left one does not decide the result.
// + concatenates when an operand is text that is not a number. Similarly, IF
// and choice evaluate only the branch their condition selects, so errors in
// the other branch are not reported.
//
// Parse a formula once and evaluate it for many variable sources, possibly
// concurrently. Variables resolve through a VariableSource to text, or to Null
// when the source does not know them. Function names resolve at parse time,
// first through parse options, then through a Helper such as a *Registry,
// then through the built-in functions listed by Builtins.
package formula
