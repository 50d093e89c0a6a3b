package lint

import (
	"fmt"
	"strings"

	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// Rules in this file run on one executable file with no schema access
// (spec.md §4.7 StandaloneDocumentRule), grounded on
// original_source/crates/graphql-linter/src/rules/operation_name_suffix.rs
// and the sibling document-shape rules it sits next to.

func init() {
	registerStandaloneDocument(noAnonymousOperationsRule{})
	registerStandaloneDocument(unusedVariablesRule{})
	registerStandaloneDocument(operationNameSuffixRule{})
	registerStandaloneDocument(noDuplicateFieldsRule{})
	registerStandaloneDocument(redundantFieldsRule{})
}

// --- no_anonymous_operations ---

type noAnonymousOperationsRule struct{}

func (noAnonymousOperationsRule) Meta() RuleMeta {
	return RuleMeta{ID: "no_anonymous_operations", Description: "operations should be named", DefaultSeverity: types.SeverityWarning}
}

func (r noAnonymousOperationsRule) CheckDocument(ctx *Ctx, file FileInput, opts Options) []diag.Diagnostic {
	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(file.Registry, file.FileID))
	var diags []diag.Diagnostic
	for _, op := range fs.Operations {
		if op.Name == "" {
			diags = append(diags, diag.New(diag.SourceLinter, diag.CodeAnonymousOperation,
				fmt.Sprintf("anonymous %s should be named", op.Kind), op.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return diags
}

// --- unused_variables ---

type unusedVariablesRule struct{}

func (unusedVariablesRule) Meta() RuleMeta {
	return RuleMeta{ID: "unused_variables", Description: "declared variables should be used in the operation body", DefaultSeverity: types.SeverityWarning}
}

func (r unusedVariablesRule) CheckDocument(ctx *Ctx, file FileInput, opts Options) []diag.Diagnostic {
	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(file.Registry, file.FileID))
	var diags []diag.Diagnostic
	for _, op := range fs.Operations {
		if len(op.Variables) == 0 {
			continue
		}
		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(file.Registry, file.FileID, op.Index))
		used := make(map[string]struct{}, len(body.VariableUsages))
		for _, v := range body.VariableUsages {
			used[v] = struct{}{}
		}
		for _, v := range op.Variables {
			if _, ok := used[v.Name]; !ok {
				diags = append(diags, diag.New(diag.SourceLinter, diag.CodeUnusedVariable,
					fmt.Sprintf("variable $%s is never used", v.Name), op.NameRange).WithSeverity(r.Meta().DefaultSeverity))
			}
		}
	}
	return diags
}

// --- operation_name_suffix ---

type operationNameSuffixRule struct{}

func (operationNameSuffixRule) Meta() RuleMeta {
	return RuleMeta{ID: "operation_name_suffix", Description: "operation names should end in Query/Mutation/Subscription", DefaultSeverity: types.SeverityWarning}
}

func suffixFor(k hir.OperationKind) string {
	switch k {
	case hir.OpMutation:
		return "Mutation"
	case hir.OpSubscription:
		return "Subscription"
	default:
		return "Query"
	}
}

func (r operationNameSuffixRule) CheckDocument(ctx *Ctx, file FileInput, opts Options) []diag.Diagnostic {
	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(file.Registry, file.FileID))
	var diags []diag.Diagnostic
	for _, op := range fs.Operations {
		if op.Name == "" {
			continue
		}
		want := suffixFor(op.Kind)
		if !strings.HasSuffix(op.Name, want) {
			diags = append(diags, diag.New(diag.SourceLinter, diag.CodeOperationNameSuffix,
				fmt.Sprintf("operation %q should be suffixed with %q", op.Name, want), op.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return diags
}

// --- no_duplicate_fields / redundant_fields ---
//
// The two rules share a selection-set walk but flag different shapes:
// no_duplicate_fields flags a response name selected twice with
// different arguments or subselections (a conflict GraphQL execution
// cannot merge); redundant_fields flags a response name selected twice
// with an identical signature (a no-op duplicate). Both walk operation
// and fragment bodies independently.

type noDuplicateFieldsRule struct{}

func (noDuplicateFieldsRule) Meta() RuleMeta {
	return RuleMeta{ID: "no_duplicate_fields", Description: "a selection set should not select the same response name twice with conflicting shapes", DefaultSeverity: types.SeverityError}
}

func (r noDuplicateFieldsRule) CheckDocument(ctx *Ctx, file FileInput, opts Options) []diag.Diagnostic {
	return walkBodiesForFieldShapes(ctx, file, r.Meta().DefaultSeverity, diag.CodeDuplicateField, false)
}

type redundantFieldsRule struct{}

func (redundantFieldsRule) Meta() RuleMeta {
	return RuleMeta{ID: "redundant_fields", Description: "a selection set should not select the exact same field twice", DefaultSeverity: types.SeverityWarning}
}

func (r redundantFieldsRule) CheckDocument(ctx *Ctx, file FileInput, opts Options) []diag.Diagnostic {
	return walkBodiesForFieldShapes(ctx, file, r.Meta().DefaultSeverity, diag.CodeRedundantField, true)
}

func walkBodiesForFieldShapes(ctx *Ctx, file FileInput, sev types.Severity, code string, exactDuplicatesOnly bool) []diag.Diagnostic {
	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(file.Registry, file.FileID))
	var diags []diag.Diagnostic
	for _, op := range fs.Operations {
		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(file.Registry, file.FileID, op.Index))
		diags = append(diags, findFieldShapeIssues(body.Selections, sev, code, exactDuplicatesOnly)...)
	}
	for _, frag := range fs.Fragments {
		body := hir.FragmentBodyOf.Get(ctx, hir.FragmentBodyKeyFor(file.Registry, file.FileID, frag.Name))
		diags = append(diags, findFieldShapeIssues(body.Selections, sev, code, exactDuplicatesOnly)...)
	}
	return diags
}

func findFieldShapeIssues(ss syntax.SelectionSet, sev types.Severity, code string, exactDuplicatesOnly bool) []diag.Diagnostic {
	var diags []diag.Diagnostic
	seen := make(map[string]*syntax.Field)
	for _, sel := range ss.Selections {
		f, ok := sel.(*syntax.Field)
		if !ok {
			if inline, ok := sel.(*syntax.InlineFragment); ok {
				diags = append(diags, findFieldShapeIssues(inline.SelectionSet, sev, code, exactDuplicatesOnly)...)
			}
			continue
		}
		if f.SelectionSet != nil {
			diags = append(diags, findFieldShapeIssues(*f.SelectionSet, sev, code, exactDuplicatesOnly)...)
		}
		rn := f.ResponseName()
		prev, dup := seen[rn]
		if !dup {
			seen[rn] = f
			continue
		}
		identical := fieldShapeEqual(prev, f)
		if exactDuplicatesOnly == identical {
			diags = append(diags, diag.New(diag.SourceLinter, code,
				fmt.Sprintf("field %q is selected more than once", rn), f.Span).WithSeverity(sev))
		}
	}
	return diags
}

func fieldShapeEqual(a, b *syntax.Field) bool {
	if a.Name.Name != b.Name.Name || len(a.Arguments) != len(b.Arguments) {
		return false
	}
	for i := range a.Arguments {
		if a.Arguments[i].Name.Name != b.Arguments[i].Name.Name {
			return false
		}
	}
	if (a.SelectionSet == nil) != (b.SelectionSet == nil) {
		return false
	}
	if a.SelectionSet == nil {
		return true
	}
	return selectionSetShapeEqual(*a.SelectionSet, *b.SelectionSet)
}

// selectionSetShapeEqual deeply compares two selection sets by field
// name/arguments/subselection shape, order-sensitive — good enough to
// tell "the exact same field selected twice" apart from "the same
// response name selected with conflicting shapes".
func selectionSetShapeEqual(a, b syntax.SelectionSet) bool {
	if len(a.Selections) != len(b.Selections) {
		return false
	}
	for i := range a.Selections {
		af, aok := a.Selections[i].(*syntax.Field)
		bf, bok := b.Selections[i].(*syntax.Field)
		if aok != bok {
			return false
		}
		if aok && !fieldShapeEqual(af, bf) {
			return false
		}
	}
	return true
}
