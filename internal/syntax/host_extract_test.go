package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphqlintel/graphqlintel/internal/types"
)

func TestExtractHostBlocksFindsTaggedTemplate(t *testing.T) {
	src := []byte("import { gql } from 'graphql-tag';\n" +
		"const HERO_QUERY = gql`\n" +
		"  query Hero {\n" +
		"    hero { name }\n" +
		"  }\n" +
		"`;\n")

	blocks, err := ExtractHostBlocks(types.FileKindHostedTypeScript, src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].Content, "query Hero")
	assert.Equal(t, 0, blocks[0].Index)
}

func TestExtractHostBlocksBlanksInterpolation(t *testing.T) {
	src := []byte("const Q = gql`\n" +
		"  query Hero {\n" +
		"    ${fragmentSpread}\n" +
		"    hero { name }\n" +
		"  }\n" +
		"`;\n")

	blocks, err := ExtractHostBlocks(types.FileKindHostedTypeScript, src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.NotContains(t, blocks[0].Content, "fragmentSpread")
	assert.Equal(t, len(blocks[0].Content), blocks[0].ContentHostSpan.End-blocks[0].ContentHostSpan.Start,
		"blanking must preserve byte length so block-relative offsets stay aligned with the host source")
}

func TestExtractHostBlocksIgnoresUntaggedTemplate(t *testing.T) {
	src := []byte("const x = other`not graphql`;\n")
	blocks, err := ExtractHostBlocks(types.FileKindHostedJavaScript, src)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestLooksLikeGraphQLTagPreFilter(t *testing.T) {
	assert.True(t, looksLikeGraphQLTag([]byte("const q = gql`query {}`;")))
	assert.False(t, looksLikeGraphQLTag([]byte("const x = 1 + 2;")))
}
