package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

func newTestProject(t *testing.T) (*query.Database, *db.FileRegistry, *db.ProjectFilesInput) {
	t.Helper()
	qdb := query.NewDatabase()
	reg := db.NewFileRegistry(qdb)
	pf := db.NewProjectFilesInput()
	return qdb, reg, pf
}

func TestFileStructureOfParsesSchemaFile(t *testing.T) {
	qdb, reg, _ := newTestProject(t)

	var id types.FileID
	qdb.Write(func() {
		id = reg.AddFile("file:///schema.graphql", "type Query { hero: String }", types.FileKindSchema, db.ExtractionOffset{})
	})

	snap := qdb.Snapshot()
	defer snap.Release()
	fs := FileStructureOf.Get(snap.Ctx(), FileKey{Registry: reg, FileID: id})
	require.Len(t, fs.TypeDefs, 1)
	assert.Equal(t, "Query", fs.TypeDefs[0].Name)
}

func TestSchemaTypesMergesAcrossSchemaFilesOnly(t *testing.T) {
	qdb, reg, pf := newTestProject(t)

	qdb.Write(func() {
		reg.AddFile("file:///a.graphql", "type Query { hero: String }", types.FileKindSchema, db.ExtractionOffset{})
		reg.AddFile("file:///b.graphql", "type Hero { name: String }", types.FileKindSchema, db.ExtractionOffset{})
		reg.AddFile("file:///op.graphql", "query { hero }", types.FileKindExecutable, db.ExtractionOffset{})
		pf.RebuildProjectFiles(qdb, reg)
	})

	snap := qdb.Snapshot()
	defer snap.Release()
	ref := ProjectRef{Registry: reg, Project: pf}
	schema := SchemaTypes.Get(snap.Ctx(), ref)
	require.Len(t, schema, 2)
	assert.Contains(t, schema, "Query")
	assert.Contains(t, schema, "Hero")
}

func TestAllFragmentsAndAllOperationsAggregate(t *testing.T) {
	qdb, reg, pf := newTestProject(t)

	qdb.Write(func() {
		reg.AddFile("file:///a.graphql", "query A { hero }\nfragment F on Hero { name }", types.FileKindExecutable, db.ExtractionOffset{})
		reg.AddFile("file:///b.graphql", "query B { hero }", types.FileKindExecutable, db.ExtractionOffset{})
		pf.RebuildProjectFiles(qdb, reg)
	})

	snap := qdb.Snapshot()
	defer snap.Release()
	ref := ProjectRef{Registry: reg, Project: pf}

	frags := AllFragments.Get(snap.Ctx(), ref)
	require.Len(t, frags, 1)
	assert.Equal(t, "Hero", frags["F"].TypeCondition)

	ops := AllOperations.Get(snap.Ctx(), ref)
	require.Len(t, ops, 2)
	names := []string{ops[0].Name, ops[1].Name}
	assert.ElementsMatch(t, []string{"A", "B"}, names)
}

func TestFragmentSpreadsIndexAndTransitiveClosure(t *testing.T) {
	qdb, reg, pf := newTestProject(t)

	var opFileID types.FileID
	qdb.Write(func() {
		opFileID = reg.AddFile("file:///ops.graphql", `
query GetHero {
  hero { ...Base }
}

fragment Base on Hero {
  name
  ...Extra
}

fragment Extra on Hero {
  rank
}
`, types.FileKindExecutable, db.ExtractionOffset{})
		pf.RebuildProjectFiles(qdb, reg)
	})

	snap := qdb.Snapshot()
	defer snap.Release()
	ref := ProjectRef{Registry: reg, Project: pf}

	index := FragmentSpreadsIndex.Get(snap.Ctx(), ref)
	assert.Equal(t, []string{"Extra"}, index["Base"])

	transitive := OperationTransitiveFragments.Get(snap.Ctx(), transitiveFragmentsKey{Project: ref, FileID: opFileID, Index: 0})
	assert.Contains(t, transitive, "Base")
	assert.Contains(t, transitive, "Extra")
	assert.Len(t, transitive, 2)
}

// TestGoldenInvariantBodyEditLeavesAggregatesUnchanged is the HIR-level
// analogue of the engine's back-edge short-circuit test: editing only an
// operation's selection set must leave OperationStructure (and therefore
// all_operations) value-equal, so dependents never recompute even though
// the database revision advances (spec.md §8 "Golden invariant").
func TestGoldenInvariantBodyEditLeavesAggregatesUnchanged(t *testing.T) {
	qdb, reg, pf := newTestProject(t)

	qdb.Write(func() {
		reg.AddFile("file:///schema.graphql", "type Query { hero: String }", types.FileKindSchema, db.ExtractionOffset{})
		reg.AddFile("file:///op.graphql", "query GetHero { hero }", types.FileKindExecutable, db.ExtractionOffset{})
		pf.RebuildProjectFiles(qdb, reg)
	})

	ref := ProjectRef{Registry: reg, Project: pf}

	func() {
		snap := qdb.Snapshot()
		defer snap.Release()
		ops := AllOperations.Get(snap.Ctx(), ref)
		require.Len(t, ops, 1)
		assert.Equal(t, "GetHero", ops[0].Name)
	}()

	_, _, changedAt1, ok := AllOperations.Peek(ref)
	require.True(t, ok)
	rev1 := qdb.CurrentRevision()

	// Body-only edit: same name/kind/variables, different selection text.
	qdb.Write(func() {
		reg.AddFile("file:///op.graphql", "query GetHero { hero heroAgain: hero }", types.FileKindExecutable, db.ExtractionOffset{})
	})
	rev2 := qdb.CurrentRevision()
	require.Greater(t, rev2, rev1, "the write itself always advances the database revision")

	func() {
		snap := qdb.Snapshot()
		defer snap.Release()
		ops := AllOperations.Get(snap.Ctx(), ref)
		require.Len(t, ops, 1)
		assert.Equal(t, "GetHero", ops[0].Name)
	}()

	_, _, changedAt2, _ := AllOperations.Peek(ref)
	assert.Equal(t, changedAt1, changedAt2, "all_operations must not change identity from a body-only edit")
}

func TestOperationBodyOfRecomputesOnBodyEdit(t *testing.T) {
	qdb, reg, _ := newTestProject(t)

	var id types.FileID
	qdb.Write(func() {
		id = reg.AddFile("file:///op.graphql", "query GetHero { hero }", types.FileKindExecutable, db.ExtractionOffset{})
	})
	key := operationBodyKey{Registry: reg, FileID: id, Index: 0}

	func() {
		snap := qdb.Snapshot()
		defer snap.Release()
		body := OperationBodyOf.Get(snap.Ctx(), key)
		require.Len(t, body.Selections.Selections, 1)
	}()
	_, _, changedAt1, _ := OperationBodyOf.Peek(key)

	qdb.Write(func() {
		reg.AddFile("file:///op.graphql", "query GetHero { hero name }", types.FileKindExecutable, db.ExtractionOffset{})
	})

	func() {
		snap := qdb.Snapshot()
		defer snap.Release()
		body := OperationBodyOf.Get(snap.Ctx(), key)
		require.Len(t, body.Selections.Selections, 2)
	}()
	_, _, changedAt2, _ := OperationBodyOf.Peek(key)
	assert.Greater(t, changedAt2, changedAt1)
}

func TestFragmentBodyOfLookupByName(t *testing.T) {
	qdb, reg, _ := newTestProject(t)

	var id types.FileID
	qdb.Write(func() {
		id = reg.AddFile("file:///frags.graphql", "fragment F on Hero { name rank }", types.FileKindExecutable, db.ExtractionOffset{})
	})

	snap := qdb.Snapshot()
	defer snap.Release()
	body := FragmentBodyOf.Get(snap.Ctx(), fragmentBodyKey{Registry: reg, FileID: id, Name: "F"})
	require.Len(t, body.Selections.Selections, 2)
}
