package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

func newTestProject() (*query.Database, *FileRegistry, *ProjectFilesInput) {
	qdb := query.NewDatabase()
	reg := NewFileRegistry(qdb)
	pf := NewProjectFilesInput()
	return qdb, reg, pf
}

func TestAddFileAndRebuild(t *testing.T) {
	qdb, reg, pf := newTestProject()

	var schemaID, execID types.FileID
	qdb.Write(func() {
		schemaID = reg.AddFile("file:///schema.graphql", "type Query { hero: String }", types.FileKindSchema, ExtractionOffset{})
		execID = reg.AddFile("file:///op.graphql", "query { hero }", types.FileKindExecutable, ExtractionOffset{})
		pf.RebuildProjectFiles(qdb, reg)
	})

	snap := qdb.Snapshot()
	defer snap.Release()

	pfiles, ok := pf.Get(snap.Ctx())
	require.True(t, ok)
	assert.Equal(t, []types.FileID{schemaID}, pfiles.SchemaFileIDs)
	assert.Equal(t, []types.FileID{execID}, pfiles.ExecutableFileIDs)
}

func TestIdempotentRebuild(t *testing.T) {
	qdb, reg, pf := newTestProject()

	qdb.Write(func() {
		reg.AddFile("file:///schema.graphql", "type Query { hero: String }", types.FileKindSchema, ExtractionOffset{})
		pf.RebuildProjectFiles(qdb, reg)
	})

	rev1 := qdb.CurrentRevision()
	func() {
		snap := qdb.Snapshot()
		defer snap.Release()
		_, _ = pf.Get(snap.Ctx())
	}()

	qdb.Write(func() { pf.RebuildProjectFiles(qdb, reg) })
	rev2 := qdb.CurrentRevision()
	assert.Greater(t, rev2, rev1, "the write itself always bumps the database revision")

	// But the ProjectFiles *input value* must be identical by equality —
	// its own changedAt (observable via the underlying cell) must not
	// have advanced, which is what downstream aggregates actually depend
	// on (spec.md §8 "Idempotent rebuild").
	snap := qdb.Snapshot()
	defer snap.Release()
	before, _ := pf.Get(snap.Ctx())

	qdb.Write(func() { pf.RebuildProjectFiles(qdb, reg) })
	snap2 := qdb.Snapshot()
	defer snap2.Release()
	after, _ := pf.Get(snap2.Ctx())

	assert.Equal(t, before, after)
}

func TestRemoveFileDropsFromProject(t *testing.T) {
	qdb, reg, pf := newTestProject()

	qdb.Write(func() {
		reg.AddFile("file:///schema.graphql", "type Query { hero: String }", types.FileKindSchema, ExtractionOffset{})
		reg.AddFile("file:///op.graphql", "query { hero }", types.FileKindExecutable, ExtractionOffset{})
		pf.RebuildProjectFiles(qdb, reg)
	})

	qdb.Write(func() {
		reg.RemoveFile("file:///op.graphql")
		pf.RebuildProjectFiles(qdb, reg)
	})

	snap := qdb.Snapshot()
	defer snap.Release()
	pfiles, _ := pf.Get(snap.Ctx())
	assert.Empty(t, pfiles.ExecutableFileIDs)
	assert.Len(t, pfiles.SchemaFileIDs, 1)
}
