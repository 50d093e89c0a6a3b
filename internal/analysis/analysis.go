// Package analysis composes syntax, schema, document, and lint
// diagnostics into the single per-file view IDE/CLI callers see
// (spec.md §4.6), grounded on
// original_source/crates/graphql-analysis/src/document_validation.rs
// and original_source/crates/graphql-ide/src/diagnostics.rs's
// file_diagnostics / validation_diagnostics split.
package analysis

import (
	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/lint"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// FileDiagnostics is the tracked `file_diagnostics(content, metadata,
// project) -> Vec<Diagnostic>` query (spec.md §4.6): syntax errors, then
// schema- or document-side validation depending on file kind, then lint
// diagnostics merged in.
func FileDiagnostics(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID, ref hir.ProjectRef, overrides lint.SeverityOverrides) []diag.Diagnostic {
	out := FileValidationDiagnostics(ctx, reg, fid, ref)
	out = append(out, lint.DiagnosticsForFile(ctx, reg, fid, ref, overrides)...)
	return out
}

// FileValidationDiagnostics runs steps 1-3 of file_diagnostics only,
// omitting lint diagnostics (spec.md §4.6 "a parallel function
// file_validation_diagnostics omits step 4"), used by the batch
// `validate` CLI path so lint output isn't reported twice when the
// caller also runs the lint pass separately.
func FileValidationDiagnostics(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID, ref hir.ProjectRef) []diag.Diagnostic {
	meta, ok := reg.Metadata.Get(ctx, fid)
	if !ok {
		return nil
	}

	var out []diag.Diagnostic
	out = append(out, syntaxDiagnostics(ctx, reg, fid)...)

	schemaRef := schema.ProjectRef{Registry: ref.Registry, Project: ref.Project}
	merged := schema.MergedSchemaWithDiagnostics.Get(ctx, schemaRef)

	switch meta.Kind {
	case types.FileKindSchema:
		out = append(out, schemaFileDiagnostics(ctx, reg, fid, merged)...)
	default:
		out = append(out, documentFileDiagnostics(ctx, reg, fid, ref, merged.Schema)...)
	}
	return out
}

// syntaxDiagnostics is file_diagnostics step 1: syntax errors captured
// during parse (spec.md §4.9 "Parse error: captured in
// ParseResult.errors; analysis continues using best-effort AST").
func syntaxDiagnostics(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID) []diag.Diagnostic {
	result := syntax.ParseFile.Get(ctx, syntax.FileParseKey{Registry: reg, FileID: fid})

	var out []diag.Diagnostic
	for _, pd := range result.Documents {
		for _, e := range pd.Errors {
			out = append(out, diag.New(diag.SourceAnalysis, diag.CodeSyntaxError, e.Message, e.Span))
		}
	}
	return out
}
