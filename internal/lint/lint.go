// Package lint implements the rule engine (spec.md §4.7), grounded on
// original_source/crates/graphql-linter/src/traits.rs (four rule
// capability traits) restructured per spec.md §9 DESIGN NOTES into a
// dispatch table keyed by a stable RuleID string rather than a
// trait-object vtable.
package lint

import (
	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// Ctx is the engine context rules read tracked queries through; rules
// never register their own tracked functions, only call Get on
// existing ones, so the alias keeps rule files from each importing
// internal/query directly.
type Ctx = query.Ctx

// RuleID is a stable identifier for a lint rule, used both as a map key
// in the registry and as part of tracked-function cache keys.
type RuleID string

// RuleMeta is the metadata every rule capability embeds (spec.md §4.7
// "name, description, default_severity").
type RuleMeta struct {
	ID              RuleID
	Description     string
	DefaultSeverity types.Severity
}

// Options is a rule's JSON configuration payload. The registry's
// dispatchers always pass nil and leave the tracked keys' OptionsHash
// at 0, so every rule runs with its built-in defaults; LoadLintConfig
// returns only severity overrides, and per-rule options in the lint
// config do not reach any rule. Rules that take no options simply
// ignore it.
type Options map[string]any

// FileInput bundles what a single-file rule needs to inspect one file:
// its structure, body lookups happen lazily through ctx + hir queries,
// so rules hold onto the registry/file pair and call hir queries
// themselves as needed.
type FileInput struct {
	Registry *db.FileRegistry
	FileID   types.FileID
}

// StandaloneDocumentRule runs on one executable file with no schema
// access (spec.md §4.7).
type StandaloneDocumentRule interface {
	Meta() RuleMeta
	CheckDocument(ctx *Ctx, file FileInput, opts Options) []diag.Diagnostic
}

// DocumentSchemaRule runs on one executable file plus schema_types
// (spec.md §4.7).
type DocumentSchemaRule interface {
	Meta() RuleMeta
	CheckDocumentSchema(ctx *Ctx, file FileInput, sch *schema.Schema, opts Options) []diag.Diagnostic
}

// StandaloneSchemaRule runs over the merged schema only, returning
// diagnostics grouped by the file each type/field was defined in
// (spec.md §4.7).
type StandaloneSchemaRule interface {
	Meta() RuleMeta
	CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic
}

// ProjectRule runs over the whole project (schema + documents), also
// grouped by file (spec.md §4.7).
type ProjectRule interface {
	Meta() RuleMeta
	CheckProject(ctx *Ctx, p Project, opts Options) map[types.FileID][]diag.Diagnostic
}

// Project bundles everything a ProjectRule needs: the registry, the
// merged schema, and the project's file membership.
type Project struct {
	Registry *db.FileRegistry
	Ref      hir.ProjectRef
	Schema   *schema.Schema
}

