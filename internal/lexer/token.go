package lexer

import (
	"strconv"
)

// TokenType represents the type of a token.
type TokenType int

// Token type enumeration. The set is closed: the grammar has a terminal for
// every member and nothing else.
const (
	// Delimiters
	TokenLeftParen  TokenType = iota // (
	TokenRightParen                  // )

	// Operators - Arithmetic
	TokenPlus    // +
	TokenMinus   // -
	TokenSlash   // /
	TokenStar    // *
	TokenPercent // %

	// Operators - Comparison
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenEqual        // ==
	TokenNotEqual     // !=

	// Operators - Logical
	TokenAnd // &&
	TokenOr  // ||

	// Literals

	// TokenNumber is a numeric literal matching [0-9]+(\.[0-9]+)?. The parsed
	// value travels in Token.Value.
	TokenNumber
)

// Token is a single lexical token. Where it came from is carried next to it
// in a Result, not inside it.
type Token struct {
	Type TokenType

	// Value is the literal's value for TokenNumber and zero otherwise.
	Value float64
}

// Number returns a TokenNumber carrying v.
func Number(v float64) Token {
	return Token{Type: TokenNumber, Value: v}
}

// Simple returns a token of type tt with no payload.
func Simple(tt TokenType) Token {
	return Token{Type: tt}
}

// String returns the stable debug form of the token, e.g. "Plus" or
// "Number(3.5)".
func (t Token) String() string {
	if t.Type == TokenNumber {
		return "Number(" + FormatNumber(t.Value) + ")"
	}
	return t.Type.String()
}

// Symbol returns the grammar terminal name of the token's type, as used in
// "expected one of" lists.
func (t Token) Symbol() string {
	return t.Type.Symbol()
}

// FormatNumber renders a literal value the same way everywhere: shortest
// representation that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// String returns the variant name of a token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenLeftParen:
		return "LParen"
	case TokenRightParen:
		return "RParen"
	case TokenPlus:
		return "Plus"
	case TokenMinus:
		return "Minus"
	case TokenSlash:
		return "Slash"
	case TokenStar:
		return "Asterisk"
	case TokenPercent:
		return "Percent"
	case TokenLess:
		return "Less"
	case TokenLessEqual:
		return "LessEqual"
	case TokenGreater:
		return "Greater"
	case TokenGreaterEqual:
		return "GreaterEqual"
	case TokenEqual:
		return "EqualEqual"
	case TokenNotEqual:
		return "NotEqual"
	case TokenAnd:
		return "AndAnd"
	case TokenOr:
		return "OrOr"
	case TokenNumber:
		return "Number"
	default:
		return "TokenType(" + strconv.Itoa(int(tt)) + ")"
	}
}

// Symbol returns the terminal's name as the grammar spells it: the quoted
// source text for fixed tokens and the bare word number for literals.
func (tt TokenType) Symbol() string {
	if tt == TokenNumber {
		return "number"
	}
	return strconv.Quote(tt.Text())
}

// Text returns the fixed source text of a token type, or "" for TokenNumber.
func (tt TokenType) Text() string {
	switch tt {
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenSlash:
		return "/"
	case TokenStar:
		return "*"
	case TokenPercent:
		return "%"
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenEqual:
		return "=="
	case TokenNotEqual:
		return "!="
	case TokenAnd:
		return "&&"
	case TokenOr:
		return "||"
	default:
		return ""
	}
}
