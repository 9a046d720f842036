package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolTable(t *testing.T) {
	st := NewSymbolTable()
	assert.Equal(t, "Names: (empty)\n", st.String())

	first := &Token{Kind: KindLabel, Text: "Loop", Allocate: 2, Line: 3, Value: IntValue(7)}
	assert.True(t, st.Register("Loop", first))
	assert.False(t, st.Register("LOOP", &Token{Kind: KindSymbol, Text: "LOOP", Line: 9}))
	assert.True(t, st.Register("count", &Token{Kind: KindSymbol, Text: "count", Allocate: 1, Line: 4, Value: IntValue(3)}))

	got, ok := st.Lookup("loop")
	assert.True(t, ok)
	assert.Same(t, first, got)

	_, ok = st.Lookup("nothing")
	assert.False(t, ok)

	assert.Equal(t, 2, st.Len())
	assert.Equal(t, []string{"loop", "count"}, st.Names())

	lines := strings.Split(strings.TrimSpace(st.String()), "\n")
	if assert.Len(t, lines, 3) {
		assert.Equal(t, "Names:", lines[0])
		assert.Contains(t, lines[1], "count")
		assert.Contains(t, lines[1], "Value: 3 (Width: 1, Line: 4)")
		assert.Contains(t, lines[2], "loop")
		assert.Contains(t, lines[2], "Label")
	}
}
