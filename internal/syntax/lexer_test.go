package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerBasicTokens(t *testing.T) {
	lx := NewLexer([]byte(`query Hero($id: ID!) { hero(id: $id) { name } }`))
	var kinds []TokenKind
	for {
		tok := lx.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == TokEOF {
			break
		}
	}
	require.NotEmpty(t, kinds)
	assert.Equal(t, TokEOF, kinds[len(kinds)-1])
}

func TestLexerSkipsCommentsAndCommas(t *testing.T) {
	lx := NewLexer([]byte("# a comment\nquery, { hero }"))
	tok := lx.Next()
	assert.Equal(t, TokName, tok.Kind)
	assert.Equal(t, "query", tok.Value)
}

func TestLexerStringEscapes(t *testing.T) {
	lx := NewLexer([]byte(`"hello\nworld"`))
	tok := lx.Next()
	require.Equal(t, TokString, tok.Kind)
	assert.Equal(t, "hello\nworld", tok.Value)
}

func TestLexerBlockStringTrimsIndent(t *testing.T) {
	lx := NewLexer([]byte("\"\"\"\n    Hello\n    World\n    \"\"\""))
	tok := lx.Next()
	require.Equal(t, TokBlockString, tok.Kind)
	assert.Equal(t, "Hello\nWorld", tok.Value)
}

func TestLexerNumbers(t *testing.T) {
	lx := NewLexer([]byte("42 -7 3.14 1e10 2.5e-3"))
	var got []string
	var kinds []TokenKind
	for {
		tok := lx.Next()
		if tok.Kind == TokEOF {
			break
		}
		got = append(got, tok.Value)
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []string{"42", "-7", "3.14", "1e10", "2.5e-3"}, got)
	assert.Equal(t, []TokenKind{TokInt, TokInt, TokFloat, TokFloat, TokFloat}, kinds)
}
