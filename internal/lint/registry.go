package lint

import (
	"encoding/json"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// registry is the package-init-time dispatch table (spec.md §9 DESIGN
// NOTES: "dynamic trait-object rule registry" -> "tagged variant with a
// dispatch table"), grounded on
// original_source/crates/graphql-linter/src/registry.rs.
var registry = struct {
	standaloneDocument map[RuleID]StandaloneDocumentRule
	documentSchema     map[RuleID]DocumentSchemaRule
	standaloneSchema   map[RuleID]StandaloneSchemaRule
	project            map[RuleID]ProjectRule
}{
	standaloneDocument: make(map[RuleID]StandaloneDocumentRule),
	documentSchema:     make(map[RuleID]DocumentSchemaRule),
	standaloneSchema:   make(map[RuleID]StandaloneSchemaRule),
	project:            make(map[RuleID]ProjectRule),
}

func registerStandaloneDocument(r StandaloneDocumentRule) { registry.standaloneDocument[r.Meta().ID] = r }
func registerDocumentSchema(r DocumentSchemaRule)         { registry.documentSchema[r.Meta().ID] = r }
func registerStandaloneSchema(r StandaloneSchemaRule)     { registry.standaloneSchema[r.Meta().ID] = r }
func registerProjectRule(r ProjectRule)                   { registry.project[r.Meta().ID] = r }

// AllRuleMetas returns every registered rule's metadata, sorted by ID,
// for config validation and `graphqlintel rules` listing.
func AllRuleMetas() []RuleMeta {
	var metas []RuleMeta
	for _, r := range registry.standaloneDocument {
		metas = append(metas, r.Meta())
	}
	for _, r := range registry.documentSchema {
		metas = append(metas, r.Meta())
	}
	for _, r := range registry.standaloneSchema {
		metas = append(metas, r.Meta())
	}
	for _, r := range registry.project {
		metas = append(metas, r.Meta())
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	return metas
}

// HashOptions folds a rule's options payload into the tracked-function
// cache key (spec.md §4.7 "options_hash folded into the tracked-function
// key"), using the same xxhash the teacher's content-addressed caches
// use elsewhere in the pack.
func HashOptions(opts Options) uint64 {
	if len(opts) == 0 {
		return 0
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(b)
}

func applyOverride(d diag.Diagnostic, override types.Severity, hasOverride bool) diag.Diagnostic {
	if hasOverride {
		return d.WithSeverity(override)
	}
	return d
}

// SeverityOverrides maps a RuleID to a user-configured severity that
// replaces the rule's default, applied after the rule body runs so rule
// bodies themselves stay pure (spec.md §4.7). severityDisabled marks a
// rule fully switched off (YAML config's `rules: { <rule>: off }`,
// spec.md §6) — it suppresses the rule's diagnostics entirely rather
// than just recoloring their severity.
const severityDisabled types.Severity = -1

// Disable marks id as switched off in o.
func (o SeverityOverrides) Disable(id RuleID) {
	o[id] = severityDisabled
}

// Apply exposes apply for config-loading and test code outside this
// package that needs to confirm an override resolves as expected
// without depending on severityDisabled's internal representation.
func (o SeverityOverrides) Apply(id RuleID, diags []diag.Diagnostic) []diag.Diagnostic {
	return o.apply(id, diags)
}

func (o SeverityOverrides) apply(id RuleID, diags []diag.Diagnostic) []diag.Diagnostic {
	override, ok := o[id]
	if !ok {
		return diags
	}
	if override == severityDisabled {
		return nil
	}
	out := make([]diag.Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = applyOverride(d, override, true)
	}
	return out
}

// --- Single-file dispatch (StandaloneDocument + DocumentSchema) ---

type singleFileKey struct {
	Rule        RuleID
	Registry    *db.FileRegistry
	FileID      types.FileID
	Project     hir.ProjectRef
	OptionsHash uint64
}

func diagSliceEqual(a, b []diag.Diagnostic) bool {
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

// SingleFileDiagnostics is the tracked `(rule_id, file_id, options_hash,
// project_id) -> Vec<Diagnostic>` dispatch (spec.md §4.7). It looks up
// rule by id in the registry and calls whichever capability it
// implements.
var SingleFileDiagnostics = query.NewTracked(
	"lint-single-file",
	diagSliceEqual,
	func(ctx *query.Ctx, key singleFileKey) []diag.Diagnostic {
		file := FileInput{Registry: key.Registry, FileID: key.FileID}
		if r, ok := registry.standaloneDocument[key.Rule]; ok {
			return r.CheckDocument(ctx, file, nil)
		}
		if r, ok := registry.documentSchema[key.Rule]; ok {
			result := schema.MergedSchemaWithDiagnostics.Get(ctx, schema.ProjectRef{Registry: key.Registry, Project: key.Project.Project})
			return r.CheckDocumentSchema(ctx, file, result.Schema, nil)
		}
		return nil
	},
)

// CheckFile runs every registered single-file rule (StandaloneDocument
// and DocumentSchema) against one executable file, applying severity
// overrides.
func CheckFile(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID, ref hir.ProjectRef, overrides SeverityOverrides) []diag.Diagnostic {
	var out []diag.Diagnostic
	for id := range registry.standaloneDocument {
		diags := SingleFileDiagnostics.Get(ctx, singleFileKey{Rule: id, Registry: reg, FileID: fid, Project: ref})
		out = append(out, overrides.apply(id, diags)...)
	}
	for id := range registry.documentSchema {
		diags := SingleFileDiagnostics.Get(ctx, singleFileKey{Rule: id, Registry: reg, FileID: fid, Project: ref})
		out = append(out, overrides.apply(id, diags)...)
	}
	return out
}

// --- Project-wide dispatch (StandaloneSchema + Project) ---

type projectKey struct {
	Rule        RuleID
	Project     hir.ProjectRef
	OptionsHash uint64
}

func fileDiagMapEqual(a, b map[types.FileID][]diag.Diagnostic) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !diagSliceEqual(v, ov) {
			return false
		}
	}
	return true
}

// ProjectDiagnostics is the tracked `(rule_id, project_id, options_hash)
// -> Map<FileId, Vec<Diagnostic>>` dispatch (spec.md §4.7).
var ProjectDiagnostics = query.NewTracked(
	"lint-project",
	fileDiagMapEqual,
	func(ctx *query.Ctx, key projectKey) map[types.FileID][]diag.Diagnostic {
		if r, ok := registry.standaloneSchema[key.Rule]; ok {
			result := schema.MergedSchemaWithDiagnostics.Get(ctx, schema.ProjectRef{Registry: key.Project.Registry, Project: key.Project.Project})
			return r.CheckSchema(ctx, result.Schema, nil)
		}
		if r, ok := registry.project[key.Rule]; ok {
			result := schema.MergedSchemaWithDiagnostics.Get(ctx, schema.ProjectRef{Registry: key.Project.Registry, Project: key.Project.Project})
			p := Project{Registry: key.Project.Registry, Ref: key.Project, Schema: result.Schema}
			return r.CheckProject(ctx, p, nil)
		}
		return nil
	},
)

// ProjectWideDiagnostics runs every registered StandaloneSchema and
// Project rule, returning diagnostics grouped by file, with severity
// overrides applied.
func ProjectWideDiagnostics(ctx *query.Ctx, ref hir.ProjectRef, overrides SeverityOverrides) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	merge := func(id RuleID, byFile map[types.FileID][]diag.Diagnostic) {
		for fid, diags := range byFile {
			out[fid] = append(out[fid], overrides.apply(id, diags)...)
		}
	}
	for id := range registry.standaloneSchema {
		merge(id, ProjectDiagnostics.Get(ctx, projectKey{Rule: id, Project: ref}))
	}
	for id := range registry.project {
		merge(id, ProjectDiagnostics.Get(ctx, projectKey{Rule: id, Project: ref}))
	}
	return out
}

// DiagnosticsForFile merges CheckFile's single-file rules with whatever
// ProjectWideDiagnostics attributed to this file, the composition
// internal/analysis's file_diagnostics step 4 calls.
func DiagnosticsForFile(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID, ref hir.ProjectRef, overrides SeverityOverrides) []diag.Diagnostic {
	out := CheckFile(ctx, reg, fid, ref, overrides)
	out = append(out, ProjectWideDiagnostics(ctx, ref, overrides)[fid]...)
	return out
}
