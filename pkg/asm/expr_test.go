package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	symbols := NewSymbolTable()
	symbols.Register("ten", &Token{Kind: KindSymbol, Text: "ten", Value: IntValue(10)})
	symbols.Register("twice", &Token{Kind: KindSymbol, Text: "twice", Value: Value{Kind: ValueExpr, Expr: "ten + ten"}})

	tests := []struct {
		expr string
		want int64
	}{
		{"1", 1},
		{"1+2", 3},
		{"7 - 2 - 1", 4},
		{"-5 + 1", -4},
		{"- -3", 3},
		{"1 + 2 << 3", 24},
		{"1 << 2 + 1", 8},
		{"0ffh & 0fh | 30h", 0x3F},
		{"6 ^ 3 & 1", 7},
		{"(1 | 2) ^ 3", 0},
		{"100h >> 4", 16},
		{"TEN - 1", 9},
		{"twice + ?", 20},
		{"((ten))", 10},
	}

	for _, tc := range tests {
		got, err := newEvaluator(symbols, false).eval(tc.expr, 1)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got.Int64(), tc.expr)
	}

	twice, _ := symbols.Lookup("twice")
	assert.Equal(t, ValueInt, twice.Value.Kind, "resolved values are memoized")
}

func TestEvalErrors(t *testing.T) {
	symbols := NewSymbolTable()
	symbols.Register("later", &Token{Kind: KindLabel, Text: "later"})
	symbols.Register("text", &Token{Kind: KindVariable, Text: "text", Value: Value{Kind: ValueString, Str: "hi"}})

	tests := []struct {
		expr string
		want error
	}{
		{"", ErrWrongParameter},
		{"1 +", ErrWrongParameter},
		{"(1", ErrWrongParameter},
		{"1 2", ErrWrongParameter},
		{"1 < 2", ErrWrongParameter},
		{"2 * 3", ErrWrongParameter},
		{"missing", ErrUndefinedName},
		{"later", ErrUndefinedName},
		{"text + 1", ErrWrongParameter},
		{"1 << -1", ErrWrongOperandValue},
		{"1 >> 129", ErrWrongOperandValue},
	}

	for _, tc := range tests {
		_, err := newEvaluator(symbols, false).eval(tc.expr, 3)
		assert.ErrorIs(t, err, tc.want, tc.expr)
	}

	_, err := newEvaluator(symbols, true).eval("later + 1", 3)
	assert.ErrorIs(t, err, errNotReady)
}

func TestEvalCircular(t *testing.T) {
	symbols := NewSymbolTable()
	symbols.Register("a1", &Token{Kind: KindSymbol, Text: "a1", Value: Value{Kind: ValueExpr, Expr: "b1 + 1"}, Line: 1})
	symbols.Register("b1", &Token{Kind: KindSymbol, Text: "b1", Value: Value{Kind: ValueExpr, Expr: "a1"}, Line: 2})

	_, err := newEvaluator(symbols, false).eval("a1", 5)
	assert.ErrorIs(t, err, ErrCircularDefinition)
}
