package parser

import (
	"github.com/hassan/exprlang/internal/lexer"
	"github.com/hassan/exprlang/internal/parser/ast"
)

// Precedence represents operator precedence levels. Higher binds tighter.
//
// PRECEDENCE RULES (from lowest to highest):
// 1. Logical OR (||)
// 2. Logical AND (&&)
// 3. Equality (==, !=)
// 4. Comparison (<, <=, >, >=)
// 5. Addition/Subtraction (+, -)
// 6. Multiplication/Division/Modulus (*, /, %)
// 7. Atoms: number literals and parenthesized expressions
//
// Every binary level is left-associative: 1 - 2 - 3 = (1 - 2) - 3.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecOr                    // ||
	PrecAnd                   // &&
	PrecEquality              // ==, !=
	PrecComparison            // <, <=, >, >=
	PrecTerm                  // +, -
	PrecFactor                // *, /, %
	PrecPrimary               // literals, grouping
)

// getPrecedence returns the precedence level of a binary operator token, or
// PrecNone for tokens that are not binary operators.
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenOr:
		return PrecOr

	case lexer.TokenAnd:
		return PrecAnd

	case lexer.TokenEqual, lexer.TokenNotEqual:
		return PrecEquality

	case lexer.TokenLess,
		lexer.TokenLessEqual,
		lexer.TokenGreater,
		lexer.TokenGreaterEqual:
		return PrecComparison

	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecTerm

	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return PrecFactor

	default:
		return PrecNone
	}
}

// infixOp maps a binary operator token to its AST operator.
func infixOp(tokenType lexer.TokenType) (ast.OpInfix, bool) {
	switch tokenType {
	case lexer.TokenPlus:
		return ast.Add, true
	case lexer.TokenMinus:
		return ast.Subtract, true
	case lexer.TokenStar:
		return ast.Multiply, true
	case lexer.TokenSlash:
		return ast.Divide, true
	case lexer.TokenPercent:
		return ast.Modulus, true
	case lexer.TokenLess:
		return ast.Less, true
	case lexer.TokenLessEqual:
		return ast.LessEqual, true
	case lexer.TokenGreater:
		return ast.Greater, true
	case lexer.TokenGreaterEqual:
		return ast.GreaterEqual, true
	case lexer.TokenEqual:
		return ast.Equal, true
	case lexer.TokenNotEqual:
		return ast.NotEqual, true
	case lexer.TokenAnd:
		return ast.LogicAnd, true
	case lexer.TokenOr:
		return ast.LogicOr, true
	default:
		return 0, false
	}
}

// binaryOperators lists every token that can follow a complete operand.
var binaryOperators = []lexer.TokenType{
	lexer.TokenOr,
	lexer.TokenAnd,
	lexer.TokenEqual,
	lexer.TokenNotEqual,
	lexer.TokenLess,
	lexer.TokenLessEqual,
	lexer.TokenGreater,
	lexer.TokenGreaterEqual,
	lexer.TokenPlus,
	lexer.TokenMinus,
	lexer.TokenStar,
	lexer.TokenSlash,
	lexer.TokenPercent,
}

// atomStarts lists every token that can begin an operand.
var atomStarts = []lexer.TokenType{
	lexer.TokenLeftParen,
	lexer.TokenNumber,
}
