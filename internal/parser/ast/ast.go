// Package ast defines the abstract syntax tree produced by the parser.
//
// The tree is owned top-down: every Expr exclusively owns its children,
// there are no parent pointers and no node is shared between two parents.
// Nodes are built bottom-up during parsing through the constructors in this
// package and are never modified afterwards; there are no setters.
//
// Every node carries the span of source text that produced it. A composite
// node's span always encloses the spans of its children.
package ast

import (
	"strings"

	"github.com/hassan/exprlang/internal/span"
)

// Expr is one node of the tree: what kind of expression it is and where it
// came from.
type Expr struct {
	kind ExprKind
	span span.Span
}

// ExprKind is implemented by *Literal, *InfixOp and *Error.
type ExprKind interface {
	// Name is the variant name used in dumps.
	Name() string

	exprKind()
}

// New creates a node of the given kind covering sp.
func New(kind ExprKind, sp span.Span) *Expr {
	if kind == nil {
		kind = &Error{}
	}
	return &Expr{kind: kind, span: sp}
}

// NewError returns the error sentinel with an empty span at offset 0, for use
// when no real tree could be produced.
func NewError() *Expr {
	return ErrorAt(span.Point(0))
}

// ErrorAt returns the error sentinel covering the failing region sp.
func ErrorAt(sp span.Span) *Expr {
	return New(&Error{}, sp)
}

// Kind returns the node's kind.
func (e *Expr) Kind() ExprKind { return e.kind }

// Span returns the source span covered by the node.
func (e *Expr) Span() span.Span { return e.span }

// SpanStart returns the byte offset where the node begins.
func (e *Expr) SpanStart() int { return e.span.Start }

// SpanEnd returns the byte offset just past the node.
func (e *Expr) SpanEnd() int { return e.span.End }

// IsError reports whether e is the error sentinel.
func (e *Expr) IsError() bool {
	_, ok := e.kind.(*Error)
	return ok
}

// Equal reports whether e and other have equal kinds and spans, recursively.
// Two nil nodes are equal.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.span != other.span {
		return false
	}
	switch k := e.kind.(type) {
	case *Literal:
		o, ok := other.kind.(*Literal)
		return ok && k.Value == o.Value
	case *InfixOp:
		o, ok := other.kind.(*InfixOp)
		return ok && k.Op == o.Op && k.Lt.Equal(o.Lt) && k.Rt.Equal(o.Rt)
	case *Error:
		_, ok := other.kind.(*Error)
		return ok
	default:
		return false
	}
}

// Dump renders the tree in a stable, indented form, one node per line:
//
//	InfixOp @ 0..5
//	  lt: Literal(Number(1)) @ 0..1
//	  op: Add
//	  rt: Literal(Number(2)) @ 4..5
func (e *Expr) Dump() string {
	var b strings.Builder
	dump(&b, e, "", "")
	return b.String()
}

func dump(b *strings.Builder, e *Expr, indent, label string) {
	b.WriteString(indent)
	b.WriteString(label)
	if e == nil {
		b.WriteString("<nil>\n")
		return
	}
	switch k := e.kind.(type) {
	case *Literal:
		b.WriteString("Literal(" + k.Value.String() + ")")
	default:
		b.WriteString(k.Name())
	}
	b.WriteString(" @ ")
	b.WriteString(e.span.String())
	b.WriteByte('\n')

	if op, ok := e.kind.(*InfixOp); ok {
		child := indent + "  "
		dump(b, op.Lt, child, "lt: ")
		b.WriteString(child + "op: " + op.Op.String() + "\n")
		dump(b, op.Rt, child, "rt: ")
	}
}

// Inspect traverses the tree depth-first, left to right, calling f for each
// node. If f returns false, the children of that node are skipped.
func Inspect(e *Expr, f func(*Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	if op, ok := e.kind.(*InfixOp); ok {
		Inspect(op.Lt, f)
		Inspect(op.Rt, f)
	}
}
