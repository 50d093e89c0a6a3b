package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

func parseFor(t *testing.T, kind types.FileKind, content string) syntax.ParseResult {
	t.Helper()
	result, err := syntax.Parse(kind, content)
	require.NoError(t, err)
	return result
}

func TestBuildFileStructureExtractsTypeDefs(t *testing.T) {
	result := parseFor(t, types.FileKindSchema, `
"""A hero."""
type Hero {
  name: String!
  friends: [Hero!]!
  rank(min: Int): Int @deprecated
}
`)

	fs := BuildFileStructure(1, result)
	require.Len(t, fs.TypeDefs, 1)

	hero := fs.TypeDefs[0]
	assert.Equal(t, "Hero", hero.Name)
	assert.Equal(t, KindObject, hero.Kind)
	assert.Equal(t, "A hero.", hero.Description)
	require.Len(t, hero.Fields, 3)

	name := hero.Fields[0]
	assert.Equal(t, "name", name.Name)
	assert.Equal(t, "String", name.Type.Name)
	assert.Equal(t, []syntax.WrapperKind{syntax.WrapNonNull}, name.Type.Wrappers)

	friends := hero.Fields[1]
	assert.Equal(t, "Hero", friends.Type.Name)
	assert.Equal(t, []syntax.WrapperKind{
		syntax.WrapNonNull, syntax.WrapList, syntax.WrapNonNull,
	}, friends.Type.Wrappers, "[Hero!]! must preserve innermost-to-outermost wrapper order")

	rank := hero.Fields[2]
	assert.Equal(t, "rank", rank.Name)
	assert.Equal(t, "Int", rank.Type.Name)
	assert.Empty(t, rank.Type.Wrappers)
}

func TestBuildFileStructureDeprecatedReason(t *testing.T) {
	result := parseFor(t, types.FileKindSchema, `
enum Status {
  ACTIVE
  RETIRED @deprecated(reason: "use ARCHIVED")
  ARCHIVED @deprecated
}
`)
	fs := BuildFileStructure(1, result)
	require.Len(t, fs.TypeDefs, 1)
	values := fs.TypeDefs[0].EnumValues
	require.Len(t, values, 3)

	assert.False(t, values[0].Deprecated)

	assert.True(t, values[1].Deprecated)
	assert.Equal(t, "use ARCHIVED", values[1].DeprecationReason)

	assert.True(t, values[2].Deprecated)
	assert.Equal(t, "No longer supported", values[2].DeprecationReason)
}

func TestBuildFileStructureOperationsAndFragments(t *testing.T) {
	result := parseFor(t, types.FileKindExecutable, `
query GetHero($id: ID!) {
  hero(id: $id) { ...HeroFields }
}

fragment HeroFields on Hero {
  name
}

mutation { noop }
`)
	fs := BuildFileStructure(7, result)
	require.Len(t, fs.Operations, 2)
	require.Len(t, fs.Fragments, 1)

	getHero := fs.Operations[0]
	assert.Equal(t, "GetHero", getHero.Name)
	assert.Equal(t, OpQuery, getHero.Kind)
	assert.Equal(t, 0, getHero.Index)
	assert.Equal(t, types.FileID(7), getHero.FileID)
	require.Len(t, getHero.Variables, 1)
	assert.Equal(t, "id", getHero.Variables[0].Name)
	assert.Equal(t, "ID", getHero.Variables[0].Type.Name)

	anon := fs.Operations[1]
	assert.Empty(t, anon.Name)
	assert.Equal(t, OpMutation, anon.Kind)
	assert.Equal(t, 1, anon.Index, "operation index is contiguous in source order")

	frag := fs.Fragments[0]
	assert.Equal(t, "HeroFields", frag.Name)
	assert.Equal(t, "Hero", frag.TypeCondition)
}

func TestBuildFileStructureContiguousIndexAcrossHostedBlocks(t *testing.T) {
	result := parseFor(t, types.FileKindHostedTypeScript, "const a = graphql`query A { x }`;\nconst b = graphql`query B { y }`;\n")
	fs := BuildFileStructure(3, result)
	require.Len(t, fs.Operations, 2)
	assert.Equal(t, "A", fs.Operations[0].Name)
	assert.Equal(t, 0, fs.Operations[0].Index)
	assert.Equal(t, "B", fs.Operations[1].Name)
	assert.Equal(t, 1, fs.Operations[1].Index, "index stays contiguous across separate embedded blocks")
}
