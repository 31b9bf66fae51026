// Package diagnostic defines the unified error taxonomy shared by the lexer
// and the parser, and renders those errors into location-anchored
// diagnostic records.
//
// Two families exist:
//   - LexicalError: a character sequence the lexer could not recognize.
//   - SyntaxError: the parser could not reduce the token stream.
//
// Both satisfy Error, and every reported error is paired with the span it
// refers to (Spanned). A parse returns its errors as a List in the order they
// were discovered; nothing here sorts or deduplicates them.
package diagnostic

import (
	"strconv"
	"strings"

	"github.com/hassan/exprlang/internal/span"
)

// Error is implemented by every error the front end reports.
type Error interface {
	error
	// Code is a stable identifier such as "E0102".
	Code() string
	// Dump renders the error in the stable debug form used by golden files.
	Dump() string

	exprError()
}

// LexicalErrorKind enumerates lexical failures.
type LexicalErrorKind int

const (
	// InvalidCharacter is a character that starts no token. It dumps as
	// "InvalidToken", the name the golden token and error dumps use.
	InvalidCharacter LexicalErrorKind = iota
)

// String returns the dump name of k. InvalidCharacter renders as
// "InvalidToken" to match the golden files.
func (k LexicalErrorKind) String() string {
	switch k {
	case InvalidCharacter:
		return "InvalidToken"
	default:
		return "LexicalErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// LexicalError is an unrecognized character sequence. The offending text is
// recovered from the source through the span it is paired with.
type LexicalError struct {
	Kind LexicalErrorKind
}

// NewLexicalError returns an InvalidCharacter error.
func NewLexicalError() *LexicalError {
	return &LexicalError{Kind: InvalidCharacter}
}

func (e *LexicalError) Error() string { return "invalid token" }
func (e *LexicalError) Code() string  { return "E0001" }
func (e *LexicalError) Dump() string  { return "LexicalError(" + e.Kind.String() + ")" }
func (e *LexicalError) exprError()    {}

// SyntaxErrorKind enumerates the failure shapes of the grammar engine.
type SyntaxErrorKind int

const (
	// UnrecognizedToken: a token arrived where the grammar expected one of
	// Expected.
	UnrecognizedToken SyntaxErrorKind = iota
	// UnrecognizedEOF: input ended where the grammar expected one of Expected.
	UnrecognizedEOF
	// ExtraToken: a complete expression was followed by another token.
	ExtraToken
	// InvalidToken: a lexical failure reached the grammar engine in strict mode.
	InvalidToken
)

func (k SyntaxErrorKind) String() string {
	switch k {
	case UnrecognizedToken:
		return "UnrecognizedToken"
	case UnrecognizedEOF:
		return "UnrecognizedEOF"
	case ExtraToken:
		return "ExtraToken"
	case InvalidToken:
		return "InvalidToken"
	default:
		return "SyntaxErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SyntaxError is a grammar failure translated out of the parser.
type SyntaxError struct {
	Kind SyntaxErrorKind
	// Token is the source text of the offending token. Empty for
	// UnrecognizedEOF and InvalidToken.
	Token string
	// Expected lists the terminals that would have been accepted, as quoted
	// grammar symbol names (`"("`) or the bare name `number`.
	Expected []string
}

func (e *SyntaxError) Error() string {
	switch e.Kind {
	case UnrecognizedToken:
		return "unexpected token " + strconv.Quote(e.Token) + expectedSuffix(e.Expected)
	case UnrecognizedEOF:
		return "unexpected end of input" + expectedSuffix(e.Expected)
	case ExtraToken:
		return "unexpected extra token " + strconv.Quote(e.Token)
	case InvalidToken:
		return "invalid token"
	default:
		return "syntax error"
	}
}

func (e *SyntaxError) Code() string {
	switch e.Kind {
	case UnrecognizedToken:
		return "E0101"
	case UnrecognizedEOF:
		return "E0102"
	case ExtraToken:
		return "E0103"
	default:
		return "E0104"
	}
}

// Dump renders e like `SyntaxError(UnrecognizedEOF { expected: ["\"(\"", "number"] })`.
func (e *SyntaxError) Dump() string {
	var b strings.Builder
	b.WriteString("SyntaxError(")
	b.WriteString(e.Kind.String())
	switch e.Kind {
	case UnrecognizedToken:
		b.WriteString(" { token: ")
		b.WriteString(strconv.Quote(e.Token))
		b.WriteString(", expected: ")
		b.WriteString(quoteList(e.Expected))
		b.WriteString(" }")
	case UnrecognizedEOF:
		b.WriteString(" { expected: ")
		b.WriteString(quoteList(e.Expected))
		b.WriteString(" }")
	case ExtraToken:
		b.WriteString(" { token: ")
		b.WriteString(strconv.Quote(e.Token))
		b.WriteString(" }")
	}
	b.WriteString(")")
	return b.String()
}

func (e *SyntaxError) exprError() {}

func expectedSuffix(expected []string) string {
	if len(expected) == 0 {
		return ""
	}
	return ", expected one of " + strings.Join(expected, ", ")
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Spanned is an Error paired with the source span it refers to.
type Spanned = span.Spanned[Error]

// At pairs err with sp.
func At(err Error, sp span.Span) Spanned {
	return span.Wrap(err, sp)
}

// DumpSpanned renders one spanned error as "<dump> @ start..end".
func DumpSpanned(s Spanned) string {
	return s.Value.Dump() + " @ " + s.Span.String()
}

// List is the ordered error channel of a parse. It satisfies error so a
// failed parse can be returned through a plain error result.
type List []Spanned

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Span.String() + ": " + l[0].Value.Error()
	default:
		return l[0].Span.String() + ": " + l[0].Value.Error() +
			" (and " + strconv.Itoa(len(l)-1) + " more errors)"
	}
}

// Dump renders the list one error per line, each terminated by '\n'.
func (l List) Dump() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(DumpSpanned(s))
		b.WriteByte('\n')
	}
	return b.String()
}
