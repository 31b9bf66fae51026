// Package parser builds an AST from the token stream of one expression.
//
// PARSING STRATEGY:
// Pratt parsing (precedence climbing) over the table in precedence.go, with
// one token of lookahead. Atoms are number literals and parenthesized
// expressions.
//
// ERROR HANDLING STRATEGY:
//   - Lexical errors in the token stream are recorded and skipped, so one
//     parse reports all of them (recovering mode, the default).
//   - The first grammar failure aborts the tree: the engine panics with an
//     engineError, Parse recovers it, translates it into the diagnostic
//     taxonomy and returns the Error sentinel in place of the tree.
//   - After a grammar failure the rest of the stream is still drained so
//     later lexical errors are reported too.
package parser

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/hassan/exprlang/internal/diagnostic"
	"github.com/hassan/exprlang/internal/lexer"
	"github.com/hassan/exprlang/internal/parser/ast"
	"github.com/hassan/exprlang/internal/span"
)

// TokenSource is the stream the parser pulls from. *lexer.Lexer implements
// it; Push must accept one item of pushback.
type TokenSource interface {
	Next() (lexer.Result, bool)
	Push(lexer.Result)
}

// Options configures a Parser. The zero value is the default recovering
// parser with logging discarded.
type Options struct {
	// Strict makes the first lexical error fatal to the parse. It is then
	// reported as a SyntaxError of kind InvalidToken instead of a
	// LexicalError, and no further tokens are read.
	Strict bool

	// Logger receives debug-level trace events. Nil discards them.
	Logger logrus.FieldLogger
}

//nolint:gochecknoglobals
var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Parser converts a stream of tokens into an Expr. A Parser is good for one
// parse; create a new one per input.
//
// DESIGN CHOICE: The parser pulls from a TokenSource instead of a token
// slice:
//   - Tokens are scanned only as far as the grammar reads them
//   - One item of pushback is all the lookahead the grammar needs
//   - Pre-lexed input can be replayed through any type with Next and Push
//
// DESIGN CHOICE: Grammar failures unwind by panic and are recovered once, in
// parseInput. The first failure ends the parse, so there is no state to
// resynchronize and no production has to thread an error return.
type Parser struct {
	source string
	tokens TokenSource
	strict bool
	log    logrus.FieldLogger

	// errors accumulates every error in discovery order.
	errors diagnostic.List

	// recovered is the accumulator for errors a grammar action chooses to
	// record without aborting the parse. No production records any yet.
	recovered diagnostic.List

	// lastEnd is the end offset of the last token consumed.
	lastEnd int

	// depth is the number of currently open parentheses.
	depth int
}

// New creates a parser over tokens scanned from source. source is only used
// to render the text of offending tokens.
func New(source string, tokens TokenSource, opts Options) *Parser {
	log := opts.Logger
	if log == nil {
		log = discardLogger
	}
	return &Parser{
		source: source,
		tokens: tokens,
		strict: opts.Strict,
		log:    log,
	}
}

// Parse lexes and parses source with default options.
//
// The span of a successful root is the input with surrounding whitespace
// trimmed, with one exception: parentheses are not nodes, so when the whole
// input is a single parenthesized expression the root keeps the span of its
// contents. "(1)" yields the literal at 1..2, not 0..3.
func Parse(source string) (*ast.Expr, diagnostic.List) {
	return ParseWithOptions(source, Options{})
}

// ParseWithOptions lexes and parses source.
func ParseWithOptions(source string, opts Options) (*ast.Expr, diagnostic.List) {
	return New(source, lexer.New(source), opts).Parse()
}

// Parse runs the parser to completion. It always returns a tree: the parsed
// expression, or the Error sentinel if the grammar failed. The error list is
// empty exactly when the parse succeeded.
func (p *Parser) Parse() (expr *ast.Expr, errs diagnostic.List) {
	expr = p.parseInput()
	errs = append(p.errors, p.recovered...)
	if len(errs) == 0 {
		return expr, nil
	}
	return expr, errs
}

// parseInput parses a whole input and converts an engine failure into the
// error sentinel.
func (p *Parser) parseInput() (expr *ast.Expr) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		f, ok := r.(engineError)
		if !ok {
			panic(r)
		}
		p.fail(f)
		expr = ast.NewError()
	}()

	root := p.parsePrecedence(PrecOr)
	if r, ok := p.next(); ok {
		panic(engineError{kind: failExtraToken, at: r.Span})
	}
	return root.expr
}

// fail records a translated engine failure and, in recovering mode, drains
// what is left of the stream so later lexical errors still surface.
func (p *Parser) fail(f engineError) {
	err := translate(f, p.source)
	p.log.WithFields(logrus.Fields{
		"span":  err.Span.String(),
		"error": err.Value.Error(),
	}).Debug("grammar failure")
	p.errors = append(p.errors, err)

	// Strict mode stops reading at the first failure.
	if p.strict {
		return
	}
	for {
		if _, ok := p.next(); !ok {
			return
		}
	}
}

// operand is a parsed subexpression together with the extent of tokens it
// consumed. The extent differs from the node's span only for parenthesized
// expressions, whose parentheses belong to the enclosing production.
type operand struct {
	expr   *ast.Expr
	extent span.Span
}

// parsePrecedence parses an expression whose binary operators bind at least
// as tightly as precedence.
func (p *Parser) parsePrecedence(precedence Precedence) operand {
	left := p.parseAtom()

	for {
		r, ok := p.peek()
		if !ok {
			return left
		}
		opPrec := getPrecedence(r.Token.Type)
		if opPrec == PrecNone || opPrec < precedence {
			if opPrec == PrecNone {
				p.checkOperandFollow(r)
			}
			return left
		}
		p.advance()

		op, _ := infixOp(r.Token.Type)
		// Left-associative: the right operand only takes tighter operators.
		right := p.parsePrecedence(opPrec + 1)

		extent := left.extent.Union(right.extent)
		left = operand{
			expr:   ast.FromInfixSpan(left.expr, op, right.expr, extent),
			extent: extent,
		}
	}
}

// checkOperandFollow rejects a token that can follow a complete operand
// nowhere in the grammar. At top level that is left to the extra token check
// in parseInput; inside parentheses only ")" or an operator may follow.
func (p *Parser) checkOperandFollow(r lexer.Result) {
	if p.depth == 0 || r.Token.Type == lexer.TokenRightParen {
		return
	}
	panic(engineError{
		kind:     failUnexpectedToken,
		at:       r.Span,
		expected: append([]lexer.TokenType{lexer.TokenRightParen}, binaryOperators...),
	})
}

// parseAtom parses a number literal or a parenthesized expression.
func (p *Parser) parseAtom() operand {
	r := p.expect(atomStarts)

	switch r.Token.Type {
	case lexer.TokenNumber:
		return operand{expr: ast.FromNumber(r.Token.Value, r.Span), extent: r.Span}

	default: // lexer.TokenLeftParen
		p.depth++
		inner := p.parsePrecedence(PrecOr)
		closing := p.expect([]lexer.TokenType{lexer.TokenRightParen})
		p.depth--
		return operand{expr: inner.expr, extent: r.Span.Union(closing.Span)}
	}
}

// expect consumes the next token if its type is one of allowed and fails the
// parse otherwise. When allowed is ")" the operators are acceptable too as
// far as the grammar is concerned, and the reported set says so.
func (p *Parser) expect(allowed []lexer.TokenType) lexer.Result {
	expected := allowed
	if len(allowed) == 1 && allowed[0] == lexer.TokenRightParen {
		expected = append([]lexer.TokenType{lexer.TokenRightParen}, binaryOperators...)
	}

	r, ok := p.next()
	if !ok {
		panic(engineError{kind: failUnexpectedEOF, at: span.Point(p.lastEnd), expected: expected})
	}
	for _, tt := range allowed {
		if r.Token.Type == tt {
			return r
		}
	}
	panic(engineError{kind: failUnexpectedToken, at: r.Span, expected: expected})
}

// Helper methods

// next returns the next token, recording and skipping lexical errors. In
// strict mode the first lexical error fails the parse instead.
func (p *Parser) next() (lexer.Result, bool) {
	for {
		r, ok := p.tokens.Next()
		if !ok {
			return lexer.Result{}, false
		}
		if !r.IsErr() {
			p.lastEnd = r.Span.End
			return r, true
		}
		if p.strict {
			panic(engineError{kind: failInvalidToken, at: r.Span})
		}
		p.log.WithFields(logrus.Fields{
			"span": r.Span.String(),
			"text": fmt.Sprintf("%q", r.Span.Slice(p.source)),
		}).Debug("lexical error")
		p.errors = append(p.errors, r.Spanned())
	}
}

// peek returns the next token without consuming it. Lexical errors before it
// are consumed and recorded.
func (p *Parser) peek() (lexer.Result, bool) {
	end := p.lastEnd
	r, ok := p.next()
	if ok {
		p.tokens.Push(r)
		p.lastEnd = end
	}
	return r, ok
}

// advance consumes the token returned by the preceding peek.
func (p *Parser) advance() {
	p.next()
}
