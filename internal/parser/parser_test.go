package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/exprlang/internal/diagnostic"
	"github.com/hassan/exprlang/internal/lexer"
	"github.com/hassan/exprlang/internal/parser/ast"
	"github.com/hassan/exprlang/internal/span"
)

func num(v float64, start, end int) *ast.Expr {
	return ast.FromNumber(v, span.New(start, end))
}

func infix(lt *ast.Expr, op ast.OpInfix, rt *ast.Expr, start, end int) *ast.Expr {
	return ast.FromInfixSpan(lt, op, rt, span.New(start, end))
}

// operandFollow is what the grammar accepts after a complete operand inside
// parentheses.
var operandFollow = []string{
	`"!="`, `"%"`, `"&&"`, `")"`, `"*"`, `"+"`, `"-"`, `"/"`,
	`"<"`, `"<="`, `"=="`, `">"`, `">="`, `"||"`,
}

var atomExpected = []string{`"("`, "number"}

func mustParse(t *testing.T, source string) *ast.Expr {
	t.Helper()
	expr, errs := Parse(source)
	require.Empty(t, errs, "parse %q", source)
	require.NotNil(t, expr)
	return expr
}

func assertTree(t *testing.T, want, got *ast.Expr) {
	t.Helper()
	assert.True(t, want.Equal(got), "want:\n%s\ngot:\n%s", want.Dump(), got.Dump())
}

func TestParse_Literal(t *testing.T) {
	assertTree(t, num(42, 0, 2), mustParse(t, "42"))
	assertTree(t, num(3.5, 2, 5), mustParse(t, "  3.5\n"))
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   *ast.Expr
	}{
		{
			name:   "multiplication binds tighter than addition",
			source: "1 + 2 * 3",
			want:   infix(num(1, 0, 1), ast.Add, infix(num(2, 4, 5), ast.Multiply, num(3, 8, 9), 4, 9), 0, 9),
		},
		{
			name:   "multiplication first",
			source: "1 * 2 + 3",
			want:   infix(infix(num(1, 0, 1), ast.Multiply, num(2, 4, 5), 0, 5), ast.Add, num(3, 8, 9), 0, 9),
		},
		{
			name:   "subtraction is left associative",
			source: "1 - 2 - 3",
			want:   infix(infix(num(1, 0, 1), ast.Subtract, num(2, 4, 5), 0, 5), ast.Subtract, num(3, 8, 9), 0, 9),
		},
		{
			name:   "division and modulus are left associative",
			source: "8/4%3",
			want:   infix(infix(num(8, 0, 1), ast.Divide, num(4, 2, 3), 0, 3), ast.Modulus, num(3, 4, 5), 0, 5),
		},
		{
			name:   "comparison binds tighter than equality",
			source: "1<2==3>=4",
			want: infix(
				infix(num(1, 0, 1), ast.Less, num(2, 2, 3), 0, 3),
				ast.Equal,
				infix(num(3, 5, 6), ast.GreaterEqual, num(4, 8, 9), 5, 9),
				0, 9),
		},
		{
			name:   "and binds tighter than or",
			source: "1||2&&3",
			want:   infix(num(1, 0, 1), ast.LogicOr, infix(num(2, 3, 4), ast.LogicAnd, num(3, 6, 7), 3, 7), 0, 7),
		},
		{
			name:   "equality binds tighter than and",
			source: "1!=2&&3",
			want:   infix(infix(num(1, 0, 1), ast.NotEqual, num(2, 3, 4), 0, 4), ast.LogicAnd, num(3, 6, 7), 0, 7),
		},
		{
			name:   "addition binds tighter than comparison",
			source: "1+2<=3-4>5",
			want: infix(
				infix(
					infix(num(1, 0, 1), ast.Add, num(2, 2, 3), 0, 3),
					ast.LessEqual,
					infix(num(3, 5, 6), ast.Subtract, num(4, 7, 8), 5, 8),
					0, 8),
				ast.Greater,
				num(5, 9, 10),
				0, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTree(t, tt.want, mustParse(t, tt.source))
		})
	}
}

func TestParse_AllLevels(t *testing.T) {
	got := mustParse(t, "1 || 2 && 3 == 4 < 5 + 6 * 7")

	var ops []ast.OpInfix
	ast.Inspect(got, func(e *ast.Expr) bool {
		if op, ok := e.Kind().(*ast.InfixOp); ok {
			ops = append(ops, op.Op)
		}
		return true
	})
	assert.Equal(t, []ast.OpInfix{
		ast.LogicOr, ast.LogicAnd, ast.Equal, ast.Less, ast.Add, ast.Multiply,
	}, ops)
}

func TestParse_ParenthesizedSpans(t *testing.T) {
	source := "(1 + 2) * 3"
	got := mustParse(t, source)

	want := infix(
		infix(num(1, 1, 2), ast.Add, num(2, 5, 6), 1, 6),
		ast.Multiply,
		num(3, 10, 11),
		0, 11)
	assertTree(t, want, got)

	op := got.Kind().(*ast.InfixOp)
	assert.Equal(t, "1 + 2", op.Lt.Span().Slice(source))
	assert.Equal(t, source, got.Span().Slice(source))
}

func TestParse_GroupingOverridesPrecedence(t *testing.T) {
	got := mustParse(t, "2 * (3 + 4)")
	want := infix(
		num(2, 0, 1),
		ast.Multiply,
		infix(num(3, 5, 6), ast.Add, num(4, 9, 10), 5, 10),
		0, 11)
	assertTree(t, want, got)
}

func TestParse_NestedParentheses(t *testing.T) {
	assertTree(t, num(1, 2, 3), mustParse(t, "((1))"))
	assertTree(t, num(7, 1, 2), mustParse(t, "(7)"))

	got := mustParse(t, "((1)) - 2")
	assertTree(t, infix(num(1, 2, 3), ast.Subtract, num(2, 8, 9), 0, 9), got)
}

func TestParse_UnterminatedParen(t *testing.T) {
	expr, errs := Parse("(")

	require.Len(t, errs, 1)
	assert.Equal(t, span.New(1, 1), errs[0].Span)
	assert.Equal(t, &diagnostic.SyntaxError{
		Kind:     diagnostic.UnrecognizedEOF,
		Expected: []string{`"("`, "number"},
	}, errs[0].Value)
	assert.True(t, expr.IsError())
	assert.Equal(t, span.New(0, 0), expr.Span())
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   diagnostic.List
	}{
		{
			name:   "empty input",
			source: "",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedEOF, Expected: atomExpected,
			}, span.New(0, 0))},
		},
		{
			name:   "whitespace only",
			source: " \n\t",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedEOF, Expected: atomExpected,
			}, span.New(0, 0))},
		},
		{
			name:   "missing right operand",
			source: "1 +",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedEOF, Expected: atomExpected,
			}, span.New(3, 3))},
		},
		{
			name:   "end of input is the end of the last token",
			source: "1 +  \n",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedEOF, Expected: atomExpected,
			}, span.New(3, 3))},
		},
		{
			name:   "missing closing paren",
			source: "(1",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedEOF, Expected: operandFollow,
			}, span.New(2, 2))},
		},
		{
			name:   "leading operator",
			source: "+ 1",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedToken, Token: "+", Expected: atomExpected,
			}, span.New(0, 1))},
		},
		{
			name:   "two operators",
			source: "1 * / 2",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedToken, Token: "/", Expected: atomExpected,
			}, span.New(4, 5))},
		},
		{
			name:   "empty parentheses",
			source: "()",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedToken, Token: ")", Expected: atomExpected,
			}, span.New(1, 2))},
		},
		{
			name:   "missing operator inside parentheses",
			source: "(1 2)",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedToken, Token: "2", Expected: operandFollow,
			}, span.New(3, 4))},
		},
		{
			name:   "trailing number",
			source: "1 2",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.ExtraToken, Token: "2",
			}, span.New(2, 3))},
		},
		{
			name:   "unbalanced closing paren",
			source: "1 + 2)",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.ExtraToken, Token: ")",
			}, span.New(5, 6))},
		},
		{
			name:   "multi-character token text",
			source: "(1 <= 2",
			want: diagnostic.List{diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedEOF, Expected: operandFollow,
			}, span.New(7, 7))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, errs := Parse(tt.source)
			assert.Equal(t, tt.want, errs)
			require.NotNil(t, expr)
			assert.True(t, expr.IsError())
		})
	}
}

func TestParse_LexicalErrors(t *testing.T) {
	t.Run("lexical error alone keeps the tree", func(t *testing.T) {
		expr, errs := Parse("1 $ + 2")

		require.Len(t, errs, 1)
		assert.Equal(t, diagnostic.At(diagnostic.NewLexicalError(), span.New(2, 3)), errs[0])
		assertTree(t, infix(num(1, 0, 1), ast.Add, num(2, 6, 7), 0, 7), expr)
	})

	t.Run("lexical then syntax error in discovery order", func(t *testing.T) {
		expr, errs := Parse("1 $ 2")

		assert.Equal(t, diagnostic.List{
			diagnostic.At(diagnostic.NewLexicalError(), span.New(2, 3)),
			diagnostic.At(&diagnostic.SyntaxError{Kind: diagnostic.ExtraToken, Token: "2"}, span.New(4, 5)),
		}, errs)
		assert.True(t, expr.IsError())
	})

	t.Run("lexical errors after the failure are still reported", func(t *testing.T) {
		_, errs := Parse("1 2 $ @")

		assert.Equal(t, diagnostic.List{
			diagnostic.At(&diagnostic.SyntaxError{Kind: diagnostic.ExtraToken, Token: "2"}, span.New(2, 3)),
			diagnostic.At(diagnostic.NewLexicalError(), span.New(4, 5)),
			diagnostic.At(diagnostic.NewLexicalError(), span.New(6, 7)),
		}, errs)
	})

	t.Run("lexical error before missing operand", func(t *testing.T) {
		_, errs := Parse("(1 + #")

		assert.Equal(t, diagnostic.List{
			diagnostic.At(diagnostic.NewLexicalError(), span.New(5, 6)),
			diagnostic.At(&diagnostic.SyntaxError{
				Kind: diagnostic.UnrecognizedEOF, Expected: atomExpected,
			}, span.New(4, 4)),
		}, errs)
	})
}

func TestParse_Strict(t *testing.T) {
	expr, errs := ParseWithOptions("1 $ 2 @", Options{Strict: true})

	assert.Equal(t, diagnostic.List{
		diagnostic.At(&diagnostic.SyntaxError{Kind: diagnostic.InvalidToken}, span.New(2, 3)),
	}, errs)
	assert.True(t, expr.IsError())

	// Without lexical errors strict mode changes nothing.
	expr, errs = ParseWithOptions("1 + 2", Options{Strict: true})
	assert.Empty(t, errs)
	assertTree(t, infix(num(1, 0, 1), ast.Add, num(2, 4, 5), 0, 5), expr)

	// A grammar failure in strict mode does not read further.
	_, errs = ParseWithOptions("1 2 $", Options{Strict: true})
	assert.Equal(t, diagnostic.List{
		diagnostic.At(&diagnostic.SyntaxError{Kind: diagnostic.ExtraToken, Token: "2"}, span.New(2, 3)),
	}, errs)
}

func TestParse_Deterministic(t *testing.T) {
	inputs := []string{"1 + 2 * 3", "(1 + 2) * 3", "(", "1 $ 2", "((1 <= 2) || 3) && 4 % 5", "1 2 3"}

	for _, source := range inputs {
		t.Run(source, func(t *testing.T) {
			e1, errs1 := Parse(source)
			e2, errs2 := Parse(source)
			assert.True(t, e1.Equal(e2))
			assert.Equal(t, errs1, errs2)
			assert.Equal(t, e1.Dump(), e2.Dump())
		})
	}
}

func TestParse_Concurrent(t *testing.T) {
	for i := 0; i < 16; i++ {
		source := fmt.Sprintf("(%d + %d) * %d", i, i+1, i+2)
		t.Run(source, func(t *testing.T) {
			t.Parallel()
			for j := 0; j < 50; j++ {
				expr, errs := Parse(source)
				require.Empty(t, errs)
				require.Equal(t, span.New(0, len(source)), expr.Span())
			}
		})
	}
}

func TestParse_SpansEncloseChildren(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"((4 - 5) / (6 % 7)) == 8 || 9 && 10",
		"  1\n<\n2  ",
		"(((1)))+((2))",
	}

	for _, source := range inputs {
		t.Run(source, func(t *testing.T) {
			expr := mustParse(t, source)
			ast.Inspect(expr, func(e *ast.Expr) bool {
				require.True(t, e.Span().IsValid())
				require.LessOrEqual(t, e.SpanEnd(), len(source))
				if op, ok := e.Kind().(*ast.InfixOp); ok {
					assert.True(t, e.Span().Encloses(op.Lt.Span()), "%s encloses %s", e.Span(), op.Lt.Span())
					assert.True(t, e.Span().Encloses(op.Rt.Span()), "%s encloses %s", e.Span(), op.Rt.Span())
				}
				return true
			})
		})
	}
}

func TestParse_RootSpanIsTrimmedInput(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3",
		"  (1 + 2) * 3  ",
		"\n\t4 <= (5)\n",
		"6",
	}

	for _, source := range inputs {
		t.Run(source, func(t *testing.T) {
			expr := mustParse(t, source)
			trimmed := strings.Trim(source, " \t\n\f")
			assert.Equal(t, trimmed, expr.Span().Slice(source))
		})
	}
}

func TestParse_WholeInputParenthesizedRootSpan(t *testing.T) {
	tests := []struct {
		source string
		want   span.Span
	}{
		{"(1)", span.New(1, 2)},
		{" ((1)) ", span.New(3, 4)},
		{"(1 + 2)", span.New(1, 6)},
		{"(1) + 2", span.New(0, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.source).Span())
		})
	}
}

// sliceSource replays pre-lexed results.
type sliceSource struct {
	items   []lexer.Result
	pending []lexer.Result
}

func (s *sliceSource) Next() (lexer.Result, bool) {
	if n := len(s.pending); n > 0 {
		r := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return r, true
	}
	if len(s.items) == 0 {
		return lexer.Result{}, false
	}
	r := s.items[0]
	s.items = s.items[1:]
	return r, true
}

func (s *sliceSource) Push(r lexer.Result) {
	s.pending = append(s.pending, r)
}

func TestParser_PreLexedTokens(t *testing.T) {
	source := "3 % (4)"
	tokens := &sliceSource{items: lexer.Collect(source)}

	expr, errs := New(source, tokens, Options{}).Parse()
	require.Empty(t, errs)
	assertTree(t, infix(num(3, 0, 1), ast.Modulus, num(4, 5, 6), 0, 7), expr)
}

func TestParser_Logging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, errs := ParseWithOptions("1 $ 2", Options{Logger: logger})
	require.Len(t, errs, 2)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "lexical error", entries[0].Message)
	assert.Equal(t, "2..3", entries[0].Data["span"])
	assert.Equal(t, `"$"`, entries[0].Data["text"])
	assert.Equal(t, "grammar failure", entries[1].Message)
	assert.Equal(t, "4..5", entries[1].Data["span"])
	assert.Equal(t, logrus.DebugLevel, entries[1].Level)
}
