// Package lexer turns expression source text into a lazy sequence of spanned
// tokens.
//
// Malformed characters do not stop the scan: each one is reported as an
// error item and scanning resumes right after it, so a single pass surfaces
// every lexical error in the input.
package lexer

import (
	"errors"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hassan/exprlang/internal/diagnostic"
	"github.com/hassan/exprlang/internal/span"
)

// Result is one item of the token sequence: either a token with the span it
// was scanned from, or a lexical error with the span of the offending text.
type Result struct {
	Token Token
	Span  span.Span
	// Err is non-nil for error items, in which case Token is meaningless.
	Err diagnostic.Error
}

// Ok builds a successful item covering [start, end).
func Ok(start int, tok Token, end int) Result {
	return Result{Token: tok, Span: span.New(start, end)}
}

// Fail builds an error item.
func Fail(err diagnostic.Error, sp span.Span) Result {
	return Result{Err: err, Span: sp}
}

// IsErr reports whether r is an error item.
func (r Result) IsErr() bool {
	return r.Err != nil
}

// Spanned returns the error of an error item paired with its span.
func (r Result) Spanned() diagnostic.Spanned {
	return diagnostic.At(r.Err, r.Span)
}

// Dump renders r as "Ok(start, Token, end)" or "Err(<error> @ start..end)".
func (r Result) Dump() string {
	if r.IsErr() {
		return "Err(" + diagnostic.DumpSpanned(r.Spanned()) + ")"
	}
	return "Ok(" + strconv.Itoa(r.Span.Start) + ", " + r.Token.String() + ", " +
		strconv.Itoa(r.Span.End) + ")"
}

// DumpResults renders results one per line, each terminated by '\n'.
func DumpResults(results []Result) string {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.Dump())
		b.WriteByte('\n')
	}
	return b.String()
}

// Lex returns the token sequence of source. The sequence is lazy (each item
// is scanned when pulled) and restartable: every range over it scans from
// the beginning with a fresh Lexer.
func Lex(source string) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		l := New(source)
		for {
			r, ok := l.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}

// Collect scans all of source eagerly.
func Collect(source string) []Result {
	var results []Result
	for r := range Lex(source) {
		results = append(results, r)
	}
	return results
}

// Lexer scans one source string. It borrows the string and must not be used
// beyond it.
//
// DESIGN CHOICE: Offsets only, no line or column tracking. Every item carries
// a byte span, and line/column positions are resolved later by
// span.LineIndex when a diagnostic is built:
//   - Spans stay comparable and cheap to slice back out of the source
//   - Consumers that never report errors never pay for line bookkeeping
//   - Columns are counted in bytes, so multi-byte runes need no special case
type Lexer struct {
	// source is the complete input. Keeping all of it allows two bytes of
	// lookahead for "<=", "&&" and "1.5".
	source string

	// current is the byte offset of the next unscanned byte.
	current int

	// pending holds one item pushed back by the consumer. Next drains it
	// before scanning further.
	pending    Result
	hasPending bool
}

// New creates a Lexer positioned at the start of source.
//
// DESIGN CHOICE: No filename parameter. The lexer never formats a location;
// the filename is attached by diagnostic.GetFile when records are built.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

// Next returns the next item and true, or false once the input is
// exhausted. End of input is never reported as an error.
//
// DESIGN CHOICE: A lexical failure is an item (Result.Err set), not a
// returned error:
//   - Scanning continues after it, one error per offending character
//   - The parser decides whether to record and skip it or, in strict mode,
//     stop at it
//   - The item keeps its span in the stream, in order with the tokens
//
// A pushed-back item is returned before anything new is scanned.
func (l *Lexer) Next() (Result, bool) {
	if l.hasPending {
		r := l.pending
		l.pending, l.hasPending = Result{}, false
		return r, true
	}

	l.skipWhitespace()
	if l.isAtEnd() {
		return Result{}, false
	}

	start := l.current
	ch := l.source[l.current]
	l.current++

	if isDigit(ch) {
		return l.scanNumber(start), true
	}

	switch ch {
	case '(':
		return l.makeToken(start, TokenLeftParen), true
	case ')':
		return l.makeToken(start, TokenRightParen), true
	case '+':
		return l.makeToken(start, TokenPlus), true
	case '-':
		return l.makeToken(start, TokenMinus), true
	case '*':
		return l.makeToken(start, TokenStar), true
	case '/':
		return l.makeToken(start, TokenSlash), true
	case '%':
		return l.makeToken(start, TokenPercent), true
	case '<':
		if l.match('=') {
			return l.makeToken(start, TokenLessEqual), true
		}
		return l.makeToken(start, TokenLess), true
	case '>':
		if l.match('=') {
			return l.makeToken(start, TokenGreaterEqual), true
		}
		return l.makeToken(start, TokenGreater), true
	case '=':
		if l.match('=') {
			return l.makeToken(start, TokenEqual), true
		}
	case '!':
		if l.match('=') {
			return l.makeToken(start, TokenNotEqual), true
		}
	case '&':
		if l.match('&') {
			return l.makeToken(start, TokenAnd), true
		}
	case '|':
		if l.match('|') {
			return l.makeToken(start, TokenOr), true
		}
	default:
		// Report the whole character, not just its first byte. Invalid
		// UTF-8 decodes with size 1.
		_, size := utf8.DecodeRuneInString(l.source[start:])
		l.current = start + size
	}

	return Fail(diagnostic.NewLexicalError(), span.New(start, l.current)), true
}

// Push returns r to the lexer; the next call to Next yields it again. Only
// one item can be pending at a time.
func (l *Lexer) Push(r Result) {
	if l.hasPending {
		panic("lexer: Push called with an item already pending")
	}
	l.pending, l.hasPending = r, true
}

// Peek returns the next item without consuming it.
func (l *Lexer) Peek() (Result, bool) {
	r, ok := l.Next()
	if ok {
		l.Push(r)
	}
	return r, ok
}

// Offset returns the byte offset scanning has reached.
func (l *Lexer) Offset() int {
	return l.current
}

// Source returns the text being scanned.
func (l *Lexer) Source() string {
	return l.source
}

// scanNumber scans the rest of [0-9]+(\.[0-9]+)?. The fraction is only
// consumed when a digit follows the dot, so "1." lexes as a number followed
// by an invalid character.
func (l *Lexer) scanNumber(start int) Result {
	for !l.isAtEnd() && isDigit(l.peek()) {
		l.current++
	}

	if !l.isAtEnd() && l.peek() == '.' && isDigit(l.peekNext()) {
		l.current++
		for !l.isAtEnd() && isDigit(l.peek()) {
			l.current++
		}
	}

	return Ok(start, Number(parseNumber(l.source[start:l.current])), l.current)
}

// parseNumber converts text already matched by the number pattern. Literals
// too large for float64 become +Inf rather than failing.
func parseNumber(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		panic("lexer: number literal " + strconv.Quote(text) + " does not parse: " + err.Error())
	}
	return v
}

func (l *Lexer) makeToken(start int, tt TokenType) Result {
	return Ok(start, Simple(tt), l.current)
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\n', '\f':
			l.current++
		default:
			return
		}
	}
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) peek() byte {
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
