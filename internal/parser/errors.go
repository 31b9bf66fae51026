package parser

import (
	"sort"

	"github.com/hassan/exprlang/internal/diagnostic"
	"github.com/hassan/exprlang/internal/lexer"
	"github.com/hassan/exprlang/internal/span"
)

// failKind enumerates the ways the grammar engine can fail.
type failKind int

const (
	failUnexpectedToken failKind = iota
	failUnexpectedEOF
	failExtraToken
	failInvalidToken
)

// engineError is the engine's native failure shape. It never leaves this
// package: translate turns it into a diagnostic.SyntaxError.
type engineError struct {
	kind     failKind
	at       span.Span
	expected []lexer.TokenType
}

// translate converts an engine failure into the unified taxonomy, resolving
// the offending token's text against source and rendering the expected set
// as sorted grammar symbol names.
func translate(f engineError, source string) diagnostic.Spanned {
	var err *diagnostic.SyntaxError
	switch f.kind {
	case failUnexpectedToken:
		err = &diagnostic.SyntaxError{
			Kind:     diagnostic.UnrecognizedToken,
			Token:    f.at.Slice(source),
			Expected: expectedSymbols(f.expected),
		}
	case failUnexpectedEOF:
		err = &diagnostic.SyntaxError{
			Kind:     diagnostic.UnrecognizedEOF,
			Expected: expectedSymbols(f.expected),
		}
	case failExtraToken:
		err = &diagnostic.SyntaxError{
			Kind:  diagnostic.ExtraToken,
			Token: f.at.Slice(source),
		}
	default:
		err = &diagnostic.SyntaxError{Kind: diagnostic.InvalidToken}
	}
	return diagnostic.At(err, f.at)
}

// expectedSymbols renders terminals the way the grammar names them, sorted so
// that the same failure always produces the same list.
func expectedSymbols(types []lexer.TokenType) []string {
	if len(types) == 0 {
		return nil
	}
	symbols := make([]string, len(types))
	for i, tt := range types {
		symbols[i] = tt.Symbol()
	}
	sort.Strings(symbols)
	return symbols
}
