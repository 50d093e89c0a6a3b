package ide

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

func addAndRebuild(h *AnalysisHost, uri types.FileURI, content string, kind types.FileKind) types.FileID {
	fid := h.AddFile(uri, content, kind, db.ExtractionOffset{})
	h.RebuildProjectFiles()
	return fid
}

func newHeroProject(t *testing.T) *AnalysisHost {
	t.Helper()
	h := NewAnalysisHost()
	addAndRebuild(h, "file:///schema.graphql",
		"type Query { hero: Hero }\n"+
			"type Hero { name: String, friends: [Hero] }",
		types.FileKindSchema)
	addAndRebuild(h, "file:///op.graphql",
		"query GetHero { hero { name friends { ...HeroFields } } }\n"+
			"fragment HeroFields on Hero { name }",
		types.FileKindExecutable)
	return h
}

func TestAnalysisHostTwoProjectsNeverShareFileIDs(t *testing.T) {
	h1 := newHeroProject(t)
	h2 := newHeroProject(t)

	snap1 := h1.Snapshot()
	defer snap1.Release()
	snap2 := h2.Snapshot()
	defer snap2.Release()

	diags1 := snap1.ValidationDiagnostics("file:///op.graphql")
	diags2 := snap2.ValidationDiagnostics("file:///op.graphql")
	assert.Empty(t, diags1)
	assert.Empty(t, diags2)

	// Each host registered its own schema.graphql under the same URI.
	_, ok := snap2.fileID("file:///schema.graphql")
	require.True(t, ok, "h2 has its own schema.graphql")
	snap1.Release()
	h1.RemoveFile("file:///schema.graphql")
	h1.RebuildProjectFiles()

	snap1b := h1.Snapshot()
	defer snap1b.Release()
	diagsAfterRemoval := snap1b.Diagnostics("file:///op.graphql")
	var sawInvalidTypeCondition bool
	for _, d := range diagsAfterRemoval {
		if d.Code == diag.CodeInvalidTypeCondition {
			sawInvalidTypeCondition = true
		}
	}
	assert.True(t, sawInvalidTypeCondition, "HeroFields now names a type condition (Hero) missing from h1's schema")

	diags2After := snap2.ValidationDiagnostics("file:///op.graphql")
	assert.Empty(t, diags2After, "h2's schema is untouched by h1's removal")
}

func TestHoverResolvesFieldAgainstSelectionParentType(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	// "hero" sits inside "query GetHero { hero ..." — offset of the 'h'.
	content := "query GetHero { hero { name friends { ...HeroFields } } }\nfragment HeroFields on Hero { name }"
	offset := strings.Index(content, "hero")
	pos := types.Position{Line: 0, Character: offset + 1}

	res := snap.Hover("file:///op.graphql", pos)
	require.NotNil(t, res)
	assert.Contains(t, res.Contents, "hero")
	assert.Contains(t, res.Contents, "Hero")
}

func TestHoverReturnsNilOutsideAnySymbol(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	res := snap.Hover("file:///op.graphql", types.Position{Line: 10, Character: 0})
	assert.Nil(t, res)
}

func TestGotoDefinitionOnFieldResolvesToSchemaFile(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	content := "query GetHero { hero { name friends { ...HeroFields } } }\nfragment HeroFields on Hero { name }"
	offset := strings.Index(content, "hero")
	locs := snap.GotoDefinition("file:///op.graphql", types.Position{Line: 0, Character: offset + 1})
	require.Len(t, locs, 1)
	assert.Equal(t, types.FileURI("file:///schema.graphql"), locs[0].URI)
}

func TestGotoDefinitionOnFragmentSpreadResolvesToFragmentDefinition(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	content := "query GetHero { hero { name friends { ...HeroFields } } }\nfragment HeroFields on Hero { name }"
	offset := strings.Index(content, "HeroFields")
	locs := snap.GotoDefinition("file:///op.graphql", types.Position{Line: 0, Character: offset + 1})
	require.Len(t, locs, 1)
	assert.Equal(t, types.FileURI("file:///op.graphql"), locs[0].URI)
	assert.Equal(t, 1, locs[0].Range.Start.Line, "fragment definition is on the second line")
}

func TestReferencesFindsFragmentSpreadAcrossOperations(t *testing.T) {
	h := NewAnalysisHost()
	addAndRebuild(h, "file:///schema.graphql", "type Query { hero: Hero } type Hero { name: String }", types.FileKindSchema)
	addAndRebuild(h, "file:///a.graphql",
		"query A { hero { ...F } }\nfragment F on Hero { name }",
		types.FileKindExecutable)
	addAndRebuild(h, "file:///b.graphql",
		"query B { hero { ...F } }",
		types.FileKindExecutable)

	snap := h.Snapshot()
	defer snap.Release()

	secondLine := "fragment F on Hero { name }"
	// position just after "fragment " at the F in the definition name
	defOffset := strings.Index(secondLine, "F on Hero")
	pos := types.Position{Line: 1, Character: defOffset}

	locs := snap.References("file:///a.graphql", pos)
	var uris []types.FileURI
	for _, l := range locs {
		uris = append(uris, l.URI)
	}
	assert.Contains(t, uris, types.FileURI("file:///a.graphql"))
	assert.Contains(t, uris, types.FileURI("file:///b.graphql"))
}

func TestCompletionSuggestsFieldsOnParentType(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	// Cursor right after "hero { " — inside Hero's selection set.
	content := "query GetHero { hero {  } }"
	offset := strings.Index(content, "{  }") + 1
	h2 := NewAnalysisHost()
	addAndRebuild(h2, "file:///schema.graphql", "type Query { hero: Hero } type Hero { name: String }", types.FileKindSchema)
	addAndRebuild(h2, "file:///op.graphql", content, types.FileKindExecutable)
	snap2 := h2.Snapshot()
	defer snap2.Release()

	items := snap2.Completion("file:///op.graphql", types.Position{Line: 0, Character: offset})
	var names []string
	for _, it := range items {
		names = append(names, it.Label)
	}
	assert.Contains(t, names, "name")
	_ = snap
}

func TestRankCompletionItemsPrefersPrefixMatch(t *testing.T) {
	items := []CompletionItem{
		{Label: "friends", Kind: CompletionField},
		{Label: "name", Kind: CompletionField},
		{Label: "friendCount", Kind: CompletionField},
	}
	ranked := RankCompletionItems("friend", items)
	require.Len(t, ranked, 3)
	assert.Contains(t, []string{"friends", "friendCount"}, ranked[0].Label)
	assert.NotEqual(t, "name", ranked[0].Label)
}

func TestRankCompletionItemsNoQueryReturnsOriginalOrder(t *testing.T) {
	items := []CompletionItem{{Label: "b"}, {Label: "a"}}
	ranked := RankCompletionItems("", items)
	assert.Equal(t, items, ranked)
}

func TestHostedFileDiagnosticsTranslateToHostCoordinates(t *testing.T) {
	h := NewAnalysisHost()
	addAndRebuild(h, "file:///schema.graphql", "type Query { hero: Hero } type Hero { name: String }", types.FileKindSchema)

	src := "import { gql } from 'graphql-tag';\n" +
		"const Q = gql`\n" +
		"  query Hero {\n" +
		"    hero { nickname }\n" +
		"  }\n" +
		"`;\n"
	addAndRebuild(h, "file:///component.tsx", src, types.FileKindHostedTypeScript)

	snap := h.Snapshot()
	defer snap.Release()
	diags := snap.Diagnostics("file:///component.tsx")

	require.NotEmpty(t, diags)
	li := syntax.NewLineIndex(src)
	var found bool
	for _, d := range diags {
		if d.Code != diag.CodeUnknownField {
			continue
		}
		found = true
		// "nickname" is on line 3 (0-indexed) of src, inside the
		// template, never on line 0 or at column 0 of the host file.
		rng := li.Range(d.Span)
		assert.Equal(t, 3, rng.Start.Line)
		assert.Greater(t, rng.Start.Character, 0)
	}
	assert.True(t, found, "nickname is not a field of Hero")
}

func TestHoverInHostedFileTranslatesRangeToHostCoordinates(t *testing.T) {
	h := NewAnalysisHost()
	addAndRebuild(h, "file:///schema.graphql", "type Query { hero: Hero } type Hero { name: String }", types.FileKindSchema)

	src := "const Q = gql`\n" +
		"  query Hero {\n" +
		"    hero { name }\n" +
		"  }\n" +
		"`;\n"
	addAndRebuild(h, "file:///component.tsx", src, types.FileKindHostedTypeScript)

	snap := h.Snapshot()
	defer snap.Release()

	line2 := "    hero { name }"
	offset := strings.Index(line2, "hero")
	res := snap.Hover("file:///component.tsx", types.Position{Line: 2, Character: offset + 1})
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Range.Start.Line)
}

func TestDiagnosticsForChangeOnSchemaFileRecomputesExecutableFiles(t *testing.T) {
	h := NewAnalysisHost()
	addAndRebuild(h, "file:///schema.graphql", "type Query { hero: Hero } type Hero { name: String }", types.FileKindSchema)
	addAndRebuild(h, "file:///op.graphql", "query Q { hero { name } }", types.FileKindExecutable)

	snap := h.Snapshot()
	defer snap.Release()

	out := snap.DiagnosticsForChange("file:///schema.graphql")
	_, ok := out["file:///op.graphql"]
	assert.True(t, ok, "schema-file change recomputes every executable file")
	_, ok = out["file:///schema.graphql"]
	assert.True(t, ok)
}

func TestDiagnosticsForChangeOnExecutableFileOnlyReturnsThatFile(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	out := snap.DiagnosticsForChange("file:///op.graphql")
	assert.Len(t, out, 1)
	_, ok := out["file:///op.graphql"]
	assert.True(t, ok)
}

func TestDiagnosticsWireConvertsSpanToLineCharacterRange(t *testing.T) {
	h := NewAnalysisHost()
	addAndRebuild(h, "file:///schema.graphql", "type Query { hero: Hero }\ntype Hero { name: String }", types.FileKindSchema)
	addAndRebuild(h, "file:///op.graphql", "query HeroQuery { hero { nam } }", types.FileKindExecutable)

	snap := h.Snapshot()
	defer snap.Release()

	wire := snap.DiagnosticsWire("file:///op.graphql")
	require.NotEmpty(t, wire)
	for _, w := range wire {
		assert.NotEmpty(t, w.Severity)
		assert.Equal(t, 0, w.Range.Start.Line)
		assert.GreaterOrEqual(t, w.Range.Start.Character, 0)
		assert.Contains(t, w.Message, "did you mean")
	}
}

func TestDiagnosticsWireOnCleanFileReturnsEmpty(t *testing.T) {
	h := NewAnalysisHost()
	addAndRebuild(h, "file:///schema.graphql", "type Query { hero: Hero }\ntype Hero { name: String }", types.FileKindSchema)
	addAndRebuild(h, "file:///op.graphql", "query GetHeroQuery { hero { name } }", types.FileKindExecutable)
	snap := h.Snapshot()
	defer snap.Release()

	wire := snap.DiagnosticsWire("file:///op.graphql")
	assert.Empty(t, wire)
}

func TestValidationDiagnosticsOmitsLintFindings(t *testing.T) {
	h := NewAnalysisHost()
	// no_anonymous_operations is a lint-only concern; the anonymous
	// operation below is otherwise perfectly valid.
	addAndRebuild(h, "file:///schema.graphql", "type Query { hero: String }", types.FileKindSchema)
	addAndRebuild(h, "file:///op.graphql", "{ hero }", types.FileKindExecutable)

	snap := h.Snapshot()
	defer snap.Release()

	full := snap.Diagnostics("file:///op.graphql")
	validationOnly := snap.ValidationDiagnostics("file:///op.graphql")

	assert.NotEmpty(t, full, "full diagnostics should flag the anonymous operation via lint")
	assert.Empty(t, validationOnly, "validation-only diagnostics must omit lint findings")
}

func TestVirtualFileContentReturnsFalseForPlainFile(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	_, ok := snap.VirtualFileContent("file:///op.graphql")
	assert.False(t, ok)
}

func TestVirtualFileContentJoinsEmbeddedBlocks(t *testing.T) {
	h := NewAnalysisHost()
	src := "const Q = gql`query Hero { hero { name } }`;\n"
	addAndRebuild(h, "file:///component.tsx", src, types.FileKindHostedTypeScript)

	snap := h.Snapshot()
	defer snap.Release()
	content, ok := snap.VirtualFileContent("file:///component.tsx")
	require.True(t, ok)
	assert.Contains(t, content, "query Hero")
}

func TestCodeLensCountsFragmentReferences(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	lenses := snap.CodeLens("file:///op.graphql")
	require.Len(t, lenses, 1)
	assert.Equal(t, "1 reference", lenses[0].Title)
}

func TestFoldingRangesCoverEveryTopLevelDefinition(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	ranges := snap.FoldingRanges("file:///op.graphql")
	assert.Len(t, ranges, 2, "one operation, one fragment")
}

func TestStatsReflectsSchemaAndDocumentCounts(t *testing.T) {
	h := newHeroProject(t)
	snap := h.Snapshot()
	defer snap.Release()

	stats := snap.Stats()
	assert.Equal(t, 2, stats.TypeCount, "Query and Hero")
	assert.Equal(t, 1, stats.OperationCount)
	assert.Equal(t, 1, stats.FragmentCount)
	assert.Zero(t, stats.UnusedFragmentCount, "HeroFields is spread by GetHero")
}
