package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/graphqlintel/graphqlintel/internal/types"
)

func TestLineIndexRoundTrip(t *testing.T) {
	content := "query Q {\n  hero {\n    name\n  }\n}\n"
	li := NewLineIndex(content)

	pos := li.OffsetToPosition(12) // 'h' of "hero"
	assert.Equal(t, types.Position{Line: 1, Character: 2}, pos)

	offset, ok := li.PositionToOffset(types.Position{Line: 1, Character: 2})
	assert.True(t, ok)
	assert.Equal(t, 12, offset)
}

func TestLineIndexOutOfBounds(t *testing.T) {
	li := NewLineIndex("a\nb\n")
	_, ok := li.PositionToOffset(types.Position{Line: 99, Character: 0})
	assert.False(t, ok)
}

func TestLineIndexRange(t *testing.T) {
	li := NewLineIndex("abc\ndef\n")
	r := li.Range(types.Span{Start: 4, End: 7})
	assert.Equal(t, types.Position{Line: 1, Character: 0}, r.Start)
	assert.Equal(t, types.Position{Line: 1, Character: 3}, r.End)
}
