// Package ide implements the mutable AnalysisHost/Analysis-snapshot
// surface (spec.md §4.8): add_file/remove_file/rebuild_project_files on
// the write side, and diagnostics/hover/goto_definition/references/
// completion/folding_ranges/inlay_hints/code_lens/virtual_file_content
// on the read side.
//
// Grounded on original_source/crates/ide/src/analysis_host_isolation.rs
// for the AnalysisHost shape and its single-writer/multi-reader snapshot
// discipline, and graphql-ide/src/{diagnostics,hover}.rs for the query
// bodies themselves.
package ide

import (
	"golang.org/x/sync/singleflight"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/lint"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// Ctx aliases query.Ctx so sibling files in this package can reference
// it without importing internal/query directly, matching the alias
// internal/lint uses for the same reason.
type Ctx = query.Ctx

// AnalysisHost is the mutable driver (spec.md §4.8): one instance per
// project. Two hosts never share FileIDs, since each owns its own
// Database and FileRegistry (spec.md §3 invariant 5, exercised by
// analysis_host_isolation.rs's two-project test).
type AnalysisHost struct {
	db       *query.Database
	registry *db.FileRegistry
	project  *db.ProjectFilesInput

	// Overrides is the lint severity configuration currently in effect,
	// read fresh by every new snapshot; it is not itself a tracked Input
	// since config reloads are rare and don't need incremental reuse.
	Overrides lint.SeverityOverrides

	group singleflight.Group
}

// NewAnalysisHost creates an empty host with its own isolated database
// and file registry.
func NewAnalysisHost() *AnalysisHost {
	qdb := query.NewDatabase()
	return &AnalysisHost{
		db:       qdb,
		registry: db.NewFileRegistry(qdb),
		project:  db.NewProjectFilesInput(),
	}
}

// AddFile registers or updates uri (spec.md §6 "add_file"). Must be
// followed by RebuildProjectFiles before the change is visible to any
// snapshot's aggregates.
func (h *AnalysisHost) AddFile(uri types.FileURI, content string, kind types.FileKind, offset db.ExtractionOffset) types.FileID {
	var fid types.FileID
	h.db.Write(func() {
		fid = h.registry.AddFile(uri, content, kind, offset)
	})
	return fid
}

// RemoveFile tombstones uri (spec.md §6 "remove_file").
func (h *AnalysisHost) RemoveFile(uri types.FileURI) {
	h.db.Write(func() {
		h.registry.RemoveFile(uri)
	})
}

// URIs lists every file currently registered, live or tombstoned status
// aside (spec.md §6's "lint" surface iterates this to diagnose a whole
// project rather than one file).
func (h *AnalysisHost) URIs() []types.FileURI {
	return h.registry.AllURIs()
}

// RebuildProjectFiles recomputes project membership from the registry's
// current state (spec.md §6 "rebuild_project_files"). Callers coalesce a
// batch of AddFile/RemoveFile calls before invoking this once.
func (h *AnalysisHost) RebuildProjectFiles() {
	h.db.Write(func() {
		h.project.RebuildProjectFiles(h.db, h.registry)
	})
}

// Snapshot takes a read-locked view of the database at its current
// revision (spec.md §4.8 "A snapshot holds a shared read lock and a
// cheap handle to the current revision"). Callers must Release it before
// any subsequent AddFile/RemoveFile/RebuildProjectFiles call, or the
// mutation blocks until they do.
func (h *AnalysisHost) Snapshot() *Analysis {
	snap := h.db.Snapshot()
	return &Analysis{
		host: h,
		snap: snap,
		ref:  hir.ProjectRef{Registry: h.registry, Project: h.project},
	}
}

// Analysis is a read-only snapshot (spec.md §4.8). Every query method is
// safe to call concurrently from multiple goroutines sharing one
// Analysis, since the underlying read lock is already held for the
// snapshot's lifetime.
type Analysis struct {
	host *AnalysisHost
	snap *query.Snapshot
	ref  hir.ProjectRef
}

// Release drops the snapshot's read lock. Safe to call multiple times.
func (a *Analysis) Release() {
	a.snap.Release()
}

// Revision returns the revision this snapshot observed.
func (a *Analysis) Revision() query.Revision {
	return a.snap.Revision()
}

func (a *Analysis) ctx() *query.Ctx {
	return a.snap.Ctx()
}

func (a *Analysis) fileID(path types.FileURI) (types.FileID, bool) {
	return a.host.registry.FileID(path)
}

// withCycleRecovery runs fn and recovers a *query.CycleError into zero,
// so one query that panics on a self-dependency doesn't take down the
// caller — query.CycleError's own doc comment names this package as
// the place that recovers per top-level Analysis call, keeping the
// panic from corrupting the shared memo table for sibling queries
// (spec.md §7 "No failure is fatal to sibling computations"). Any
// other panic is re-raised; only cycle detection is a recoverable,
// expected-at-this-boundary failure.
func withCycleRecovery[T any](zero T, fn func() T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*query.CycleError); ok {
				result = zero
				return
			}
			panic(r)
		}
	}()
	return fn()
}
