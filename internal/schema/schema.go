// Package schema merges per-file type definitions into one project-wide
// schema (spec.md §4.5), grounded on
// original_source/crates/graphql-linter/src/schema_utils.rs
// (RootTypeNames / extract_root_type_names) and the two-tier hir.TypeDef
// signatures produced by internal/hir.
package schema

import (
	"fmt"
	"sort"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// RootTypeNames is the resolved names of the query/mutation/subscription
// root operation types, mirroring the original's RootTypeNames.
type RootTypeNames struct {
	Query        string // empty if none resolved
	Mutation     string
	Subscription string
}

// IsRootType reports whether name is one of the resolved root types.
func (r RootTypeNames) IsRootType(name string) bool {
	return (r.Query != "" && r.Query == name) ||
		(r.Mutation != "" && r.Mutation == name) ||
		(r.Subscription != "" && r.Subscription == name)
}

// builtinScalars are injected into the merged schema when absent
// (spec.md §4.5).
var builtinScalars = []string{"Int", "Float", "String", "Boolean", "ID"}

func isBuiltinScalar(name string) bool {
	for _, s := range builtinScalars {
		if s == name {
			return true
		}
	}
	return false
}

// Schema is the project-wide merged view over every schema file's
// TypeDefs (spec.md §4.5 `merged_schema_with_diagnostics`).
type Schema struct {
	Types RootTypeNames
	// Defs maps type name to its definition. For a built-in scalar that
	// is not explicitly defined anywhere, Defs holds a synthetic
	// zero-position TypeDef so callers can treat "known type" uniformly.
	Defs map[string]hir.TypeDef
}

// Lookup resolves a type name against the merged schema.
func (s *Schema) Lookup(name string) (hir.TypeDef, bool) {
	td, ok := s.Defs[name]
	return td, ok
}

func syntheticBuiltin(name string) hir.TypeDef {
	return hir.TypeDef{Name: name, Kind: hir.KindScalar}
}

func schemaEqual(a, b *Schema) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if a.Types != b.Types || len(a.Defs) != len(b.Defs) {
		return false
	}
	for k, v := range a.Defs {
		ov, ok := b.Defs[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
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

// MergedResult bundles the merged schema with the diagnostics produced
// while building it (duplicate type names, redefined built-ins).
type MergedResult struct {
	Schema      *Schema
	Diagnostics []diag.Diagnostic
}

func mergedResultEqual(a, b MergedResult) bool {
	return schemaEqual(a.Schema, b.Schema) && diagSliceEqual(a.Diagnostics, b.Diagnostics)
}

// ProjectRef identifies the project MergedSchemaWithDiagnostics runs
// over — same composite-key shape internal/hir uses, so a registry
// pointer plus its ProjectFilesInput is the comparable key.
type ProjectRef struct {
	Registry *db.FileRegistry
	Project  *db.ProjectFilesInput
}

func toHIRRef(r ProjectRef) hir.ProjectRef {
	return hir.ProjectRef{Registry: r.Registry, Project: r.Project}
}

// MergedSchemaWithDiagnostics is the tracked `merged_schema_with_diagnostics
// (project) -> (Schema, Vec<Diagnostic>)` query (spec.md §4.5). It depends
// only on hir.SchemaTypes (schema files), never on executable files.
var MergedSchemaWithDiagnostics = query.NewTracked(
	"merged-schema-with-diagnostics",
	mergedResultEqual,
	func(ctx *query.Ctx, ref ProjectRef) MergedResult {
		hirRef := toHIRRef(ref)
		byName := hir.SchemaTypes.Get(ctx, hirRef)
		return buildMergedResult(ctx, ref, byName)
	},
)

func buildMergedResult(ctx *query.Ctx, ref ProjectRef, byName map[string]hir.TypeDef) MergedResult {
	defs := make(map[string]hir.TypeDef, len(byName))
	var diags []diag.Diagnostic

	// Collision detection needs per-file TypeDefs (not the first-wins
	// merged map), so walk schema files again directly.
	pf, ok := ref.Project.Get(ctx)
	var schemaFileIDs []types.FileID
	if ok {
		schemaFileIDs = pf.SchemaFileIDs
	}

	seenIn := make(map[string]types.FileID)
	sortedFileIDs := append([]types.FileID{}, schemaFileIDs...)
	sort.Slice(sortedFileIDs, func(i, j int) bool { return sortedFileIDs[i] < sortedFileIDs[j] })

	for _, fid := range sortedFileIDs {
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(ref.Registry, fid))
		for _, td := range fs.TypeDefs {
			if isBuiltinScalar(td.Name) {
				d := diag.New(diag.SourceAnalysis, diag.CodeBuiltinRedefined,
					fmt.Sprintf("type %q redefines a built-in scalar; the built-in definition is used", td.Name),
					td.NameRange).WithSeverity(types.SeverityWarning)
				if uri, ok := ref.Registry.URI(fid); ok {
					d = d.WithFileURI(uri)
				}
				diags = append(diags, d)
				continue
			}
			if firstFid, dup := seenIn[td.Name]; dup {
				msg := fmt.Sprintf("type %q is defined more than once in this project", td.Name)
				d := diag.New(diag.SourceAnalysis, diag.CodeDuplicateType, msg, td.NameRange)
				if uri, ok := ref.Registry.URI(fid); ok {
					d = d.WithFileURI(uri)
				}
				diags = append(diags, d)
				if firstURI, ok := ref.Registry.URI(firstFid); ok {
					diags = append(diags, diag.New(diag.SourceAnalysis, diag.CodeDuplicateType, msg, defs[td.Name].NameRange).WithFileURI(firstURI))
				}
				continue
			}
			seenIn[td.Name] = fid
			defs[td.Name] = td
		}
	}

	for _, name := range builtinScalars {
		if _, exists := defs[name]; !exists {
			defs[name] = syntheticBuiltin(name)
		}
	}

	roots := resolveRootTypeNames(ctx, ref, defs)
	return MergedResult{
		Schema:      &Schema{Types: roots, Defs: defs},
		Diagnostics: diags,
	}
}

// resolveRootTypeNames honors an explicit `schema { ... }` block in any
// schema file; otherwise falls back to Query/Mutation/Subscription only
// if those type names exist (spec.md §4.5), matching
// original_source/crates/graphql-linter/src/schema_utils.rs
// extract_root_type_names.
func resolveRootTypeNames(ctx *query.Ctx, ref ProjectRef, defs map[string]hir.TypeDef) RootTypeNames {
	pf, ok := ref.Project.Get(ctx)
	if !ok {
		return defaultRootTypeNames(defs)
	}
	fids := append([]types.FileID{}, pf.SchemaFileIDs...)
	sort.Slice(fids, func(i, j int) bool { return fids[i] < fids[j] })

	for _, fid := range fids {
		result := syntax.ParseFile.Get(ctx, syntax.FileParseKey{Registry: ref.Registry, FileID: fid})
		for _, pd := range result.Documents {
			for _, d := range pd.Document.Definitions {
				if sd, ok := d.(*syntax.SchemaDefinition); ok {
					return rootTypeNamesFrom(sd)
				}
			}
		}
	}
	return defaultRootTypeNames(defs)
}

func rootTypeNamesFrom(sd *syntax.SchemaDefinition) RootTypeNames {
	var r RootTypeNames
	if sd.Query != nil {
		r.Query = sd.Query.Name
	}
	if sd.Mutation != nil {
		r.Mutation = sd.Mutation.Name
	}
	if sd.Subscription != nil {
		r.Subscription = sd.Subscription.Name
	}
	return r
}

func defaultRootTypeNames(defs map[string]hir.TypeDef) RootTypeNames {
	var r RootTypeNames
	if _, ok := defs["Query"]; ok {
		r.Query = "Query"
	}
	if _, ok := defs["Mutation"]; ok {
		r.Mutation = "Mutation"
	}
	if _, ok := defs["Subscription"]; ok {
		r.Subscription = "Subscription"
	}
	return r
}
