package analysis

import (
	"fmt"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// documentFileDiagnostics is file_diagnostics step 3 (spec.md §4.6),
// supplemented with argument validation (SPEC_FULL.md §4.6 item 3a),
// grounded on
// original_source/crates/graphql-analysis/src/document_validation.rs.
func documentFileDiagnostics(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID, ref hir.ProjectRef, sch *schema.Schema) []diag.Diagnostic {
	var out []diag.Diagnostic

	fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(reg, fid))
	allOps := hir.AllOperations.Get(ctx, ref)
	allFrags := hir.AllFragments.Get(ctx, ref)
	fragCounts := fragmentNameCounts(ctx, reg, ref)

	for _, op := range fs.Operations {
		out = append(out, checkOperationNameUnique(op, allOps)...)
		out = append(out, checkVariableUsagesDeclared(ctx, reg, fid, op)...)

		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(reg, fid, op.Index))
		out = append(out, checkFragmentSpreadsResolve(body.FragmentSpreads, allFrags, op.NameRange)...)
		if sch != nil {
			out = append(out, checkSelectionsResolve(sch, rootTypeForKind(sch, op.Kind), body.Selections)...)
		}
	}

	for _, frag := range fs.Fragments {
		out = append(out, checkFragmentNameUnique(frag, fragCounts)...)
		if sch != nil {
			if _, ok := sch.Lookup(frag.TypeCondition); !ok {
				out = append(out, diag.New(diag.SourceAnalysis, diag.CodeInvalidTypeCondition,
					fmt.Sprintf("unknown type %q in fragment %q", frag.TypeCondition, frag.Name), frag.NameRange))
			}
		}

		body := hir.FragmentBodyOf.Get(ctx, hir.FragmentBodyKeyFor(reg, fid, frag.Name))
		out = append(out, checkFragmentSpreadsResolve(body.FragmentSpreads, allFrags, frag.NameRange)...)
		if sch != nil {
			out = append(out, checkSelectionsResolve(sch, frag.TypeCondition, body.Selections)...)
		}
	}

	return out
}

// checkOperationNameUnique flags op if its name collides with another
// operation anywhere in the project, including another one in the same
// file (spec.md §4.6 "operation-name uniqueness within file and
// project").
func checkOperationNameUnique(op hir.OperationStructure, allOps []hir.OperationStructure) []diag.Diagnostic {
	if op.Name == "" {
		return nil
	}
	count := 0
	for _, o := range allOps {
		if o.Name == op.Name {
			count++
		}
	}
	if count > 1 {
		return []diag.Diagnostic{diag.New(diag.SourceAnalysis, diag.CodeDuplicateOperation,
			fmt.Sprintf("operation name %q is not unique", op.Name), op.NameRange)}
	}
	return nil
}

// checkFragmentNameUnique flags frag if another fragment anywhere in the
// project shares its name (fragment names are project-wide, spec.md
// §4.6).
func checkFragmentNameUnique(frag hir.FragmentStructure, counts map[string]int) []diag.Diagnostic {
	if counts[frag.Name] > 1 {
		return []diag.Diagnostic{diag.New(diag.SourceAnalysis, diag.CodeDuplicateFragment,
			fmt.Sprintf("fragment name %q is not unique", frag.Name), frag.NameRange)}
	}
	return nil
}

// fragmentNameCounts counts fragment-name occurrences across every
// executable file in the project. hir.AllFragments collapses same-name
// fragments to a single (first-wins) entry, so duplicate detection needs
// this raw per-file count instead.
func fragmentNameCounts(ctx *query.Ctx, reg *db.FileRegistry, ref hir.ProjectRef) map[string]int {
	counts := make(map[string]int)
	pf, ok := ref.Project.Get(ctx)
	if !ok {
		return counts
	}
	for _, fid := range pf.ExecutableFileIDs {
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(reg, fid))
		for _, frag := range fs.Fragments {
			counts[frag.Name]++
		}
	}
	return counts
}

func checkVariableUsagesDeclared(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID, op hir.OperationStructure) []diag.Diagnostic {
	body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(reg, fid, op.Index))
	declared := make(map[string]bool, len(op.Variables))
	for _, v := range op.Variables {
		declared[v.Name] = true
	}
	var out []diag.Diagnostic
	for _, v := range body.VariableUsages {
		if !declared[v] {
			out = append(out, diag.New(diag.SourceAnalysis, diag.CodeUndeclaredVariable,
				fmt.Sprintf("variable $%s is used but not declared on this operation", v), op.NameRange))
		}
	}
	return out
}

func checkFragmentSpreadsResolve(spreads []string, allFrags map[string]hir.FragmentStructure, span types.Span) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, name := range spreads {
		if _, ok := allFrags[name]; !ok {
			out = append(out, diag.New(diag.SourceAnalysis, diag.CodeUnknownFragment,
				withSuggestion(fmt.Sprintf("unknown fragment %q", name), name, fragmentNames(allFrags)), span))
		}
	}
	return out
}

// fragmentNames lists every project-wide fragment name, as "did you
// mean" candidates for an unknown fragment spread.
func fragmentNames(allFrags map[string]hir.FragmentStructure) []string {
	names := make([]string, 0, len(allFrags))
	for name := range allFrags {
		names = append(names, name)
	}
	return names
}

func rootTypeForKind(sch *schema.Schema, kind hir.OperationKind) string {
	switch kind {
	case hir.OpMutation:
		return sch.Types.Mutation
	case hir.OpSubscription:
		return sch.Types.Subscription
	default:
		return sch.Types.Query
	}
}

// checkSelectionsResolve is file_diagnostics step 3's "selection sets
// must resolve against the parent type in schema_types", extended with
// the argument validation SPEC_FULL.md §4.6 adds: every argument used
// must be declared on the field, and every required argument (non-null,
// no default) must be supplied.
func checkSelectionsResolve(sch *schema.Schema, parentType string, ss syntax.SelectionSet) []diag.Diagnostic {
	if parentType == "" {
		return nil
	}
	var out []diag.Diagnostic
	schema.WalkFields(sch, parentType, ss, func(parentType string, field *syntax.Field, def hir.FieldDef, found bool) {
		if !found {
			message := fmt.Sprintf("field %q does not exist on type %q", field.Name.Name, parentType)
			out = append(out, diag.New(diag.SourceAnalysis, diag.CodeUnknownField,
				withSuggestion(message, field.Name.Name, fieldNames(sch, parentType)), field.Span))
			return
		}
		out = append(out, checkArguments(field, def)...)
	})
	return out
}

// fieldNames lists parentType's declared field names, as "did you mean"
// candidates for a field that doesn't exist on it.
func fieldNames(sch *schema.Schema, parentType string) []string {
	td, ok := sch.Lookup(parentType)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(td.Fields))
	for _, f := range td.Fields {
		names = append(names, f.Name)
	}
	return names
}

func checkArguments(field *syntax.Field, def hir.FieldDef) []diag.Diagnostic {
	var out []diag.Diagnostic
	declared := make(map[string]hir.ArgumentDef, len(def.Arguments))
	for _, a := range def.Arguments {
		declared[a.Name] = a
	}

	supplied := make(map[string]bool, len(field.Arguments))
	for _, arg := range field.Arguments {
		supplied[arg.Name.Name] = true
		if _, ok := declared[arg.Name.Name]; !ok {
			out = append(out, diag.New(diag.SourceAnalysis, diag.CodeUnknownArgument,
				fmt.Sprintf("unknown argument %q on field %q", arg.Name.Name, field.Name.Name), arg.Name.Span))
		}
	}

	for _, a := range def.Arguments {
		if a.Type.IsNonNull() && !a.HasDefault && !supplied[a.Name] {
			out = append(out, diag.New(diag.SourceAnalysis, diag.CodeMissingArgument,
				fmt.Sprintf("missing required argument %q on field %q", a.Name, field.Name.Name), field.Span))
		}
	}
	return out
}
