package syntax

import "github.com/graphqlintel/graphqlintel/internal/types"

// LineIndex translates between byte offsets and 0-indexed line/column
// positions: offset to position by binary search over line starts,
// position to offset in O(1) (spec.md §4.3 "line_index(content) →
// LineIndex").
//
// Adapted from the teacher's internal/core/line_scanner.go single-pass
// byte scanner: instead of yielding lines for iteration, NewLineIndex
// walks once to record each line's starting byte offset, then answers
// offset->position queries by binary search — the same single-pass,
// no-string-split discipline the teacher uses to avoid the allocation
// cost of strings.Split.
type LineIndex struct {
	// lineStarts[i] is the byte offset at which line i begins. Always
	// non-empty: lineStarts[0] == 0.
	lineStarts []int
	length     int
}

// NewLineIndex builds a LineIndex over content. CRLF line endings are
// tolerated: the \r is counted as part of the preceding line, matching
// how an editor reports columns.
func NewLineIndex(content string) *LineIndex {
	starts := make([]int, 1, 64)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts, length: len(content)}
}

// OffsetToPosition converts a byte offset to a 0-indexed line/column.
func (li *LineIndex) OffsetToPosition(offset int) types.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > li.length {
		offset = li.length
	}

	// Binary search for the last line start <= offset.
	lo, hi := 0, len(li.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return types.Position{Line: lo, Character: offset - li.lineStarts[lo]}
}

// PositionToOffset converts a 0-indexed line/column back to a byte
// offset, or (-1, false) if the position is out of bounds.
func (li *LineIndex) PositionToOffset(pos types.Position) (int, bool) {
	if pos.Line < 0 || pos.Line >= len(li.lineStarts) {
		return -1, false
	}
	lineStart := li.lineStarts[pos.Line]
	lineEnd := li.length
	if pos.Line+1 < len(li.lineStarts) {
		lineEnd = li.lineStarts[pos.Line+1]
	}
	offset := lineStart + pos.Character
	if offset > lineEnd || offset > li.length {
		return -1, false
	}
	return offset, true
}

// Range converts a byte Span to a Position Range.
func (li *LineIndex) Range(span types.Span) types.Range {
	return types.Range{
		Start: li.OffsetToPosition(span.Start),
		End:   li.OffsetToPosition(span.End),
	}
}

// LineCount returns the number of lines in the indexed content.
func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}
