package db

import (
	"sort"

	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// ProjectFiles is the tracked input whose identity changes only when
// project membership changes, never when an individual file's text
// changes (spec.md §3 "Project files"). It is the argument every HIR
// aggregate (schema_types, all_fragments, ...) takes.
type ProjectFiles struct {
	SchemaFileIDs     []types.FileID
	ExecutableFileIDs []types.FileID
}

func projectFilesEqual(a, b ProjectFiles) bool {
	return equalIDSlice(a.SchemaFileIDs, b.SchemaFileIDs) && equalIDSlice(a.ExecutableFileIDs, b.ExecutableFileIDs)
}

func equalIDSlice(a, b []types.FileID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// projectFilesKey is the single-slot key ProjectFiles is stored under;
// a registry holds exactly one project at a time (per spec.md, a
// "project" maps 1:1 to an AnalysisHost/FileRegistry instance).
type projectFilesKey struct{}

// ProjectFilesInput is the Input cell backing ProjectFiles, exposed so
// RebuildProjectFiles can Set it and HIR aggregates can Get it.
type ProjectFilesInput struct {
	cell *query.Input[projectFilesKey, ProjectFiles]
}

// NewProjectFilesInput creates the ProjectFiles input cell.
func NewProjectFilesInput() *ProjectFilesInput {
	return &ProjectFilesInput{
		cell: query.NewInput[projectFilesKey, ProjectFiles]("project-files", projectFilesEqual),
	}
}

// Get reads the current ProjectFiles value, registering a dependency.
// ok is false before the first RebuildProjectFiles call.
func (p *ProjectFilesInput) Get(ctx *query.Ctx) (ProjectFiles, bool) {
	return p.cell.Get(ctx, projectFilesKey{})
}

// RebuildProjectFiles recomputes ProjectFiles from the registry's current
// metadata, partitioning live (non-removed) files into schema vs
// executable by kind (spec.md §4.2). This is the only operation that
// changes ProjectFiles' identity; callers coalesce a batch of AddFile/
// RemoveFile calls before invoking it once (spec.md §4.2 "Writes are not
// batched internally; callers coalesce before invoking
// rebuild_project_files()").
//
// Must be called from inside db.Write (typically the same Write closure
// as the AddFile/RemoveFile batch it follows, though it may also be its
// own Write).
func (p *ProjectFilesInput) RebuildProjectFiles(qdb *query.Database, reg *FileRegistry) {
	var schemaIDs, execIDs []types.FileID

	for _, uri := range reg.AllURIs() {
		id, ok := reg.FileID(uri)
		if !ok {
			continue
		}
		// Direct map read (not through reg.Metadata.Get) since rebuild runs
		// inside Write, before any Ctx exists to register a dependency
		// against — ProjectFiles itself becomes the dependency surface.
		meta, ok := reg.Metadata.Peek(id)
		if !ok {
			continue
		}
		switch meta.Kind {
		case types.FileKindSchema:
			schemaIDs = append(schemaIDs, id)
		default:
			execIDs = append(execIDs, id)
		}
	}

	sort.Slice(schemaIDs, func(i, j int) bool { return schemaIDs[i] < schemaIDs[j] })
	sort.Slice(execIDs, func(i, j int) bool { return execIDs[i] < execIDs[j] })

	p.cell.Set(qdb, projectFilesKey{}, ProjectFiles{SchemaFileIDs: schemaIDs, ExecutableFileIDs: execIDs})
}
