package ast

import (
	"strconv"

	"github.com/hassan/exprlang/internal/span"
)

// Literal is a single literal value, e.g. `42` or `3.5`.
type Literal struct {
	Value LiteralValue
}

func (*Literal) Name() string { return "Literal" }
func (*Literal) exprKind()    {}

// LiteralValue is implemented by the literal forms of the language. Numbers
// are currently the only one.
type LiteralValue interface {
	String() string
	literalValue()
}

// Number is a numeric literal.
type Number float64

// String renders the literal like "Number(2.5)".
func (n Number) String() string {
	return "Number(" + strconv.FormatFloat(float64(n), 'g', -1, 64) + ")"
}

func (Number) literalValue() {}

// InfixOp is a binary operation written between its operands: lt op rt.
// The node exclusively owns both operand subtrees.
type InfixOp struct {
	Lt *Expr
	Op OpInfix
	Rt *Expr
}

func (*InfixOp) Name() string { return "InfixOp" }
func (*InfixOp) exprKind()    {}

// Error is the sentinel kind left where parsing failed. It has no children.
type Error struct{}

func (*Error) Name() string { return "Error" }
func (*Error) exprKind()    {}

// FromNumber is the conversion of a bare number into a literal node.
func FromNumber(v float64, sp span.Span) *Expr {
	return New(&Literal{Value: Number(v)}, sp)
}

// FromInfix is the conversion of a (left, operator, right) triple into an
// infix node spanning both operands.
func FromInfix(lt *Expr, op OpInfix, rt *Expr) *Expr {
	return FromInfixSpan(lt, op, rt, lt.Span().Union(rt.Span()))
}

// FromInfixSpan builds an infix node with an explicit span. The parser uses
// it when the production consumed tokens outside the operands, such as the
// parentheses of a grouped left operand. sp is widened if necessary so that
// it always encloses both operands.
//
// Parentheses only widen the infix node that contains them. A grouped
// expression with no enclosing operator keeps its own span: "(1)" is the
// literal at 1..2, and "(1 + 2)" is the Add node at 1..6.
func FromInfixSpan(lt *Expr, op OpInfix, rt *Expr, sp span.Span) *Expr {
	sp = sp.Union(lt.Span()).Union(rt.Span())
	return New(&InfixOp{Lt: lt, Op: op, Rt: rt}, sp)
}

// OpInfix is the closed set of binary operators.
type OpInfix int

const (
	Add OpInfix = iota
	Subtract
	Multiply
	Divide
	Modulus
	Less
	LessEqual
	Greater
	GreaterEqual
	Equal
	NotEqual
	LogicAnd
	LogicOr
)

var opNames = [...]string{
	Add:          "Add",
	Subtract:     "Subtract",
	Multiply:     "Multiply",
	Divide:       "Divide",
	Modulus:      "Modulus",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Equal:        "Equal",
	NotEqual:     "NotEqual",
	LogicAnd:     "LogicAnd",
	LogicOr:      "LogicOr",
}

var opSymbols = [...]string{
	Add:          "+",
	Subtract:     "-",
	Multiply:     "*",
	Divide:       "/",
	Modulus:      "%",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	Equal:        "==",
	NotEqual:     "!=",
	LogicAnd:     "&&",
	LogicOr:      "||",
}

// String returns the operator's variant name, e.g. "Multiply".
func (op OpInfix) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "OpInfix(" + strconv.Itoa(int(op)) + ")"
	}
	return opNames[op]
}

// Symbol returns the operator as written in source, e.g. "*".
func (op OpInfix) Symbol() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return "?"
	}
	return opSymbols[op]
}
