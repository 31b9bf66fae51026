// Package exprlang is the front end of a small arithmetic expression
// language: it turns source text into a span-annotated AST and reports
// lexical and syntax errors with exact source locations.
//
//	expr, err := exprlang.Parse(source)
//	if err != nil {
//		var errs exprlang.Errors
//		errors.As(err, &errs)
//		for _, d := range exprlang.GetDiagnostics(errs, source) {
//			fmt.Println(d)
//		}
//	}
//
// The types below are the public names of the data model. Every value the
// package functions take or return can be named, built and inspected through
// them.
package exprlang

import (
	"iter"

	"github.com/hassan/exprlang/internal/diagnostic"
	"github.com/hassan/exprlang/internal/lexer"
	"github.com/hassan/exprlang/internal/parser"
	"github.com/hassan/exprlang/internal/parser/ast"
	"github.com/hassan/exprlang/internal/span"
)

// Source locations.
type (
	// Span is a half-open byte range [Start, End) into the source.
	Span = span.Span
	// Position is a resolved 1-based line and column.
	Position = span.Position
)

// Tokens.
type (
	// Result is one item of the token sequence: a token or a lexical error,
	// with its span.
	Result    = lexer.Result
	Token     = lexer.Token
	TokenType = lexer.TokenType
)

const (
	TokenLeftParen    = lexer.TokenLeftParen
	TokenRightParen   = lexer.TokenRightParen
	TokenPlus         = lexer.TokenPlus
	TokenMinus        = lexer.TokenMinus
	TokenSlash        = lexer.TokenSlash
	TokenStar         = lexer.TokenStar
	TokenPercent      = lexer.TokenPercent
	TokenLess         = lexer.TokenLess
	TokenLessEqual    = lexer.TokenLessEqual
	TokenGreater      = lexer.TokenGreater
	TokenGreaterEqual = lexer.TokenGreaterEqual
	TokenEqual        = lexer.TokenEqual
	TokenNotEqual     = lexer.TokenNotEqual
	TokenAnd          = lexer.TokenAnd
	TokenOr           = lexer.TokenOr
	TokenNumber       = lexer.TokenNumber
)

// Syntax tree. Switch on Expr.Kind() with *Literal, *InfixOp and *ErrorExpr.
type (
	Expr         = ast.Expr
	ExprKind     = ast.ExprKind
	Literal      = ast.Literal
	LiteralValue = ast.LiteralValue
	Number       = ast.Number
	InfixOp      = ast.InfixOp
	OpInfix      = ast.OpInfix
	// ErrorExpr is the kind of the sentinel node left where parsing failed.
	ErrorExpr = ast.Error
)

const (
	Add          = ast.Add
	Subtract     = ast.Subtract
	Multiply     = ast.Multiply
	Divide       = ast.Divide
	Modulus      = ast.Modulus
	Less         = ast.Less
	LessEqual    = ast.LessEqual
	Greater      = ast.Greater
	GreaterEqual = ast.GreaterEqual
	Equal        = ast.Equal
	NotEqual     = ast.NotEqual
	LogicAnd     = ast.LogicAnd
	LogicOr      = ast.LogicOr
)

// Errors and diagnostics.
type (
	// Errors is the error list a failed parse returns. Recover it from the
	// error with errors.As.
	Errors = diagnostic.List
	// Spanned is one reported error paired with its span.
	Spanned          = diagnostic.Spanned
	Error            = diagnostic.Error
	LexicalError     = diagnostic.LexicalError
	LexicalErrorKind = diagnostic.LexicalErrorKind
	SyntaxError      = diagnostic.SyntaxError
	SyntaxErrorKind  = diagnostic.SyntaxErrorKind
	Record           = diagnostic.Record
	Severity         = diagnostic.Severity
)

const (
	InvalidCharacter  = diagnostic.InvalidCharacter
	UnrecognizedToken = diagnostic.UnrecognizedToken
	UnrecognizedEOF   = diagnostic.UnrecognizedEOF
	ExtraToken        = diagnostic.ExtraToken
	InvalidToken      = diagnostic.InvalidToken

	SeverityError   = diagnostic.SeverityError
	SeverityWarning = diagnostic.SeverityWarning
)

// Options configures a parse. The zero value is the default recovering
// parser with logging discarded.
type Options = parser.Options

// Lex returns the lazy token sequence of source. Each range over the result
// scans source from the beginning.
func Lex(source string) iter.Seq[Result] {
	return lexer.Lex(source)
}

// Parse parses one expression. On failure the returned error is a
// non-empty Errors holding every error in discovery order, and the tree is
// either the ErrorExpr sentinel or, when only lexical errors occurred, the
// tree built from the remaining tokens.
//
// The root span of a successful parse covers the input with surrounding
// whitespace trimmed, except when the whole input is one parenthesized
// expression: parentheses are not nodes, so "(1)" yields the literal at 1..2
// rather than 0..3.
func Parse(source string) (*Expr, error) {
	return ParseWithOptions(source, Options{})
}

// ParseWithOptions is Parse with explicit parser options.
func ParseWithOptions(source string, opts Options) (*Expr, error) {
	expr, errs := parser.ParseWithOptions(source, opts)
	if len(errs) > 0 {
		return expr, errs
	}
	return expr, nil
}

// GetDiagnostics resolves errors against the source they came from.
func GetDiagnostics(errs []Spanned, source string) []Record {
	return diagnostic.Get(errs, source)
}
