package lint

import (
	"fmt"

	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// Rules in this file run on one executable file plus the merged schema
// (spec.md §4.7 DocumentSchemaRule), grounded on
// original_source/crates/graphql-linter/src/rules/deprecated_field.rs.

func init() {
	registerDocumentSchema(noDeprecatedRule{})
	registerDocumentSchema(requireIDFieldRule{})
	registerDocumentSchema(noScalarResultOnMutationRule{})
}

// --- no_deprecated ---

type noDeprecatedRule struct{}

func (noDeprecatedRule) Meta() RuleMeta {
	return RuleMeta{ID: "no_deprecated", Description: "selections should not reference deprecated fields or enum values", DefaultSeverity: types.SeverityWarning}
}

func (r noDeprecatedRule) CheckDocumentSchema(ctx *Ctx, file FileInput, sch *schema.Schema, opts Options) []diag.Diagnostic {
	if sch == nil {
		return nil
	}
	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(file.Registry, file.FileID))
	var diags []diag.Diagnostic
	walk := func(parentType string, ss syntax.SelectionSet) {
		schema.WalkFields(sch, parentType, ss, func(parentType string, field *syntax.Field, def hir.FieldDef, found bool) {
			if found && def.Deprecated {
				diags = append(diags, diag.New(diag.SourceLinter, diag.CodeDeprecatedUsage,
					fmt.Sprintf("field %q is deprecated: %s", field.Name.Name, def.DeprecationReason), field.Span).WithSeverity(r.Meta().DefaultSeverity))
			}
		})
	}
	for _, op := range fs.Operations {
		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(file.Registry, file.FileID, op.Index))
		walk(rootTypeFor(sch, op.Kind), body.Selections)
	}
	for _, frag := range fs.Fragments {
		body := hir.FragmentBodyOf.Get(ctx, hir.FragmentBodyKeyFor(file.Registry, file.FileID, frag.Name))
		walk(frag.TypeCondition, body.Selections)
	}
	return diags
}

func rootTypeFor(sch *schema.Schema, kind hir.OperationKind) string {
	switch kind {
	case hir.OpMutation:
		return sch.Types.Mutation
	case hir.OpSubscription:
		return sch.Types.Subscription
	default:
		return sch.Types.Query
	}
}

// --- require_id_field ---
//
// Any type that declares a field named `id` should have it selected
// wherever a field of that type is selected with a sub-selection, at any
// depth of an operation or fragment (inline fragments included), a
// common cache-normalization requirement.

type requireIDFieldRule struct{}

func (requireIDFieldRule) Meta() RuleMeta {
	return RuleMeta{ID: "require_id_field", Description: "selections on types with an id field should select it", DefaultSeverity: types.SeverityWarning}
}

func (r requireIDFieldRule) CheckDocumentSchema(ctx *Ctx, file FileInput, sch *schema.Schema, opts Options) []diag.Diagnostic {
	if sch == nil {
		return nil
	}
	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(file.Registry, file.FileID))
	var diags []diag.Diagnostic
	check := func(parentType string, ss syntax.SelectionSet) {
		schema.WalkFields(sch, parentType, ss, func(parentType string, field *syntax.Field, def hir.FieldDef, found bool) {
			if !found || field.SelectionSet == nil {
				return
			}
			td, ok := sch.Lookup(def.Type.Name)
			if !ok || !hasIDField(td) {
				return
			}
			if !selectsID(*field.SelectionSet) {
				diags = append(diags, diag.New(diag.SourceLinter, diag.CodeMissingIDField,
					fmt.Sprintf("selection on %q should include its id field", td.Name), field.Span).WithSeverity(r.Meta().DefaultSeverity))
			}
		})
	}
	for _, op := range fs.Operations {
		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(file.Registry, file.FileID, op.Index))
		check(rootTypeFor(sch, op.Kind), body.Selections)
	}
	for _, frag := range fs.Fragments {
		body := hir.FragmentBodyOf.Get(ctx, hir.FragmentBodyKeyFor(file.Registry, file.FileID, frag.Name))
		check(frag.TypeCondition, body.Selections)
	}
	return diags
}

func hasIDField(td hir.TypeDef) bool {
	for _, f := range td.Fields {
		if f.Name == "id" {
			return true
		}
	}
	return false
}

func selectsID(ss syntax.SelectionSet) bool {
	for _, sel := range ss.Selections {
		if f, ok := sel.(*syntax.Field); ok && f.Name.Name == "id" {
			return true
		}
	}
	return false
}

// --- no_scalar_result_type_on_mutation ---

type noScalarResultOnMutationRule struct{}

func (noScalarResultOnMutationRule) Meta() RuleMeta {
	return RuleMeta{ID: "no_scalar_result_type_on_mutation", Description: "mutation fields should not return a bare scalar", DefaultSeverity: types.SeverityWarning}
}

func (r noScalarResultOnMutationRule) CheckDocumentSchema(ctx *Ctx, file FileInput, sch *schema.Schema, opts Options) []diag.Diagnostic {
	if sch == nil || sch.Types.Mutation == "" {
		return nil
	}
	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(file.Registry, file.FileID))
	var diags []diag.Diagnostic
	for _, op := range fs.Operations {
		if op.Kind != hir.OpMutation {
			continue
		}
		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(file.Registry, file.FileID, op.Index))
		for _, sel := range body.Selections.Selections {
			f, ok := sel.(*syntax.Field)
			if !ok {
				continue
			}
			def, found := sch.FieldDef(sch.Types.Mutation, f.Name.Name)
			if !found {
				continue
			}
			td, isNamed := sch.Lookup(def.Type.Name)
			if isNamed && td.Kind == hir.KindScalar {
				diags = append(diags, diag.New(diag.SourceLinter, diag.CodeScalarMutationResult,
					fmt.Sprintf("mutation field %q returns a bare scalar; mutations should return an object", f.Name.Name), f.Span).WithSeverity(r.Meta().DefaultSeverity))
			}
		}
	}
	return diags
}
