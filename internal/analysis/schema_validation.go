package analysis

import (
	"fmt"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// reservedEnumValueNames are the three literals the GraphQL spec
// forbids as enum value names, since they'd collide with the boolean
// and null literal grammar.
var reservedEnumValueNames = map[string]bool{"true": true, "false": true, "null": true}

// schemaFileDiagnostics is file_diagnostics step 2 (spec.md §4.6): type
// redefinition (already computed project-wide by
// merged_schema_with_diagnostics, filtered to this file), unknown type
// references inside field/argument types and interface/union
// declarations, and invalid (reserved) enum value names.
func schemaFileDiagnostics(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID, merged schema.MergedResult) []diag.Diagnostic {
	var out []diag.Diagnostic

	uri, _ := reg.URI(fid)
	for _, d := range merged.Diagnostics {
		if d.FileURI == uri {
			out = append(out, d)
		}
	}

	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(reg, fid))
	for _, td := range fs.TypeDefs {
		out = append(out, checkTypeRefsExist(td, merged.Schema)...)
		out = append(out, checkEnumValues(td)...)
	}
	return out
}

func checkTypeRefsExist(td hir.TypeDef, sch *schema.Schema) []diag.Diagnostic {
	var out []diag.Diagnostic
	checkNamed := func(name string, span types.Span) {
		if name == "" {
			return
		}
		if _, ok := sch.Lookup(name); !ok {
			out = append(out, diag.New(diag.SourceAnalysis, diag.CodeUnknownType,
				withSuggestion(fmt.Sprintf("unknown type %q", name), name, typeNames(sch)), span))
		}
	}

	for _, f := range td.Fields {
		checkNamed(f.Type.Name, f.Type.Span)
		for _, a := range f.Arguments {
			checkNamed(a.Type.Name, a.Type.Span)
		}
	}
	for _, iface := range td.Interfaces {
		checkNamed(iface, td.NameRange)
	}
	for _, member := range td.UnionMembers {
		checkNamed(member, td.NameRange)
	}
	return out
}

// typeNames lists every type the merged schema defines, as "did you
// mean" candidates for an unknown type reference.
func typeNames(sch *schema.Schema) []string {
	names := make([]string, 0, len(sch.Defs))
	for name := range sch.Defs {
		names = append(names, name)
	}
	return names
}

func checkEnumValues(td hir.TypeDef) []diag.Diagnostic {
	if td.Kind != hir.KindEnum {
		return nil
	}
	var out []diag.Diagnostic
	for _, ev := range td.EnumValues {
		if reservedEnumValueNames[ev.Name] {
			out = append(out, diag.New(diag.SourceAnalysis, diag.CodeInvalidEnumValue,
				fmt.Sprintf("enum value %q is reserved and cannot be used", ev.Name), ev.NameRange))
		}
	}
	return out
}
