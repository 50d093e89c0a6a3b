package lint

import (
	"fmt"
	"sort"

	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// Rules in this file run over the whole project (schema + documents),
// grouped by file (spec.md §4.7 ProjectRule), grounded on
// original_source/crates/graphql-linter/src/rules/unique_names.rs and
// .../rules/unused_fragments.rs.

func init() {
	registerProjectRule(uniqueNamesRule{})
	registerProjectRule(unusedFieldsRule{})
	registerProjectRule(unusedFragmentsRule{})
	registerProjectRule(noUnreachableTypesRule{})
	registerProjectRule(noOnePlaceFragmentsRule{})
	registerProjectRule(loneExecutableDefinitionRule{})
}

// --- unique_names ---

type uniqueNamesRule struct{}

func (uniqueNamesRule) Meta() RuleMeta {
	return RuleMeta{ID: "unique_names", Description: "operation and fragment names should be unique across the project", DefaultSeverity: types.SeverityError}
}

func (r uniqueNamesRule) CheckProject(ctx *Ctx, p Project, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	ops := hir.AllOperations.Get(ctx, p.Ref)

	byName := make(map[string][]hir.OperationStructure)
	for _, op := range ops {
		if op.Name == "" {
			continue
		}
		byName[op.Name] = append(byName[op.Name], op)
	}
	for name, locs := range byName {
		if len(locs) <= 1 {
			continue
		}
		for _, op := range locs {
			add(out, op.FileID, diag.New(diag.SourceLinter, diag.CodeDuplicateName,
				fmt.Sprintf("operation name %q is not unique across the project (%d definitions)", name, len(locs)), op.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}

	// Fragment uniqueness is already enforced by hir.AllFragments being a
	// first-wins map (spec.md §4.4), so duplicate fragment names need a
	// direct per-file walk the same way unique_names.rs does for
	// operations: AllFragments only keeps the winner, not every definer.
	seenFragmentFile := make(map[string][]types.FileID)
	for _, fid := range fileIDsOf(ctx, p.Ref) {
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(p.Registry, fid))
		for _, frag := range fs.Fragments {
			seenFragmentFile[frag.Name] = append(seenFragmentFile[frag.Name], fid)
		}
	}
	for name, fids := range seenFragmentFile {
		if len(fids) <= 1 {
			continue
		}
		for _, fid := range fids {
			fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(p.Registry, fid))
			for _, frag := range fs.Fragments {
				if frag.Name == name {
					add(out, fid, diag.New(diag.SourceLinter, diag.CodeDuplicateName,
						fmt.Sprintf("fragment name %q is not unique across the project (%d definitions)", name, len(fids)), frag.NameRange).WithSeverity(r.Meta().DefaultSeverity))
				}
			}
		}
	}
	return out
}

func fileIDsOf(ctx *Ctx, ref hir.ProjectRef) []types.FileID {
	pf, ok := ref.Project.Get(ctx)
	if !ok {
		return nil
	}
	return pf.ExecutableFileIDs
}

// --- unused_fields ---
//
// A schema field is unused if it is never selected by any operation or
// any fragment transitively reachable from an operation (spec.md §9
// DESIGN NOTES, authoritative algorithm: schema-field set minus the
// reachable-field union).

type unusedFieldsRule struct{}

func (unusedFieldsRule) Meta() RuleMeta {
	return RuleMeta{ID: "unused_fields", Description: "schema fields never selected by any reachable operation", DefaultSeverity: types.SeverityHint}
}

type fieldKey struct {
	Type  string
	Field string
}

func (r unusedFieldsRule) CheckProject(ctx *Ctx, p Project, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if p.Schema == nil {
		return out
	}
	used := make(map[fieldKey]struct{})
	mark := func(parentType string, field *syntax.Field, def hir.FieldDef, found bool) {
		if found {
			used[fieldKey{Type: parentType, Field: field.Name.Name}] = struct{}{}
		}
	}

	ops := hir.AllOperations.Get(ctx, p.Ref)
	for _, op := range ops {
		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(p.Registry, op.FileID, op.Index))
		schema.WalkFields(p.Schema, rootTypeFor(p.Schema, op.Kind), body.Selections, mark)
		closure := hir.OperationTransitiveFragments.Get(ctx, hir.TransitiveFragmentsKeyFor(p.Ref, op.FileID, op.Index))
		for name := range closure {
			markFragmentFields(ctx, p, name, mark)
		}
	}

	for _, td := range p.Schema.Defs {
		if td.FileID == types.InvalidFileID || (td.Kind != hir.KindObject && td.Kind != hir.KindInterface) {
			continue
		}
		for _, f := range td.Fields {
			if _, ok := used[fieldKey{Type: td.Name, Field: f.Name}]; !ok {
				add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeUnusedField,
					fmt.Sprintf("field %q on type %q is never selected by any operation", f.Name, td.Name), f.NameRange).WithSeverity(r.Meta().DefaultSeverity))
			}
		}
	}
	return out
}

func markFragmentFields(ctx *Ctx, p Project, name string, mark func(string, *syntax.Field, hir.FieldDef, bool)) {
	frags := hir.AllFragments.Get(ctx, p.Ref)
	frag, ok := frags[name]
	if !ok {
		return
	}
	body := hir.FragmentBodyOf.Get(ctx, hir.FragmentBodyKeyFor(p.Registry, frag.FileID, name))
	schema.WalkFields(p.Schema, frag.TypeCondition, body.Selections, mark)
}

// --- unused_fragments ---

type unusedFragmentsRule struct{}

func (unusedFragmentsRule) Meta() RuleMeta {
	return RuleMeta{ID: "unused_fragments", Description: "fragment definitions never spread by any operation or fragment", DefaultSeverity: types.SeverityWarning}
}

func (r unusedFragmentsRule) CheckProject(ctx *Ctx, p Project, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	frags := hir.AllFragments.Get(ctx, p.Ref)

	used := make(map[string]struct{})
	ops := hir.AllOperations.Get(ctx, p.Ref)
	for _, op := range ops {
		closure := hir.OperationTransitiveFragments.Get(ctx, hir.TransitiveFragmentsKeyFor(p.Ref, op.FileID, op.Index))
		for name := range closure {
			used[name] = struct{}{}
		}
	}

	for name, frag := range frags {
		if _, ok := used[name]; ok {
			continue
		}
		add(out, frag.FileID, diag.New(diag.SourceLinter, diag.CodeUnusedFragment,
			fmt.Sprintf("fragment %q is never used", name), frag.NameRange).WithSeverity(r.Meta().DefaultSeverity))
	}
	return out
}

// --- no_unreachable_types ---
//
// A type is reachable if it is a root type, or reachable by following
// some reachable type's field return types (unwrapped to their named
// type), or is an interface/union member of a reachable abstract type.

type noUnreachableTypesRule struct{}

func (noUnreachableTypesRule) Meta() RuleMeta {
	return RuleMeta{ID: "no_unreachable_types", Description: "types should be reachable from a root operation type", DefaultSeverity: types.SeverityWarning}
}

func (r noUnreachableTypesRule) CheckProject(ctx *Ctx, p Project, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if p.Schema == nil {
		return out
	}
	reachable := make(map[string]struct{})
	var queue []string
	for _, root := range []string{p.Schema.Types.Query, p.Schema.Types.Mutation, p.Schema.Types.Subscription} {
		if root != "" {
			queue = append(queue, root)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, seen := reachable[name]; seen {
			continue
		}
		reachable[name] = struct{}{}
		td, ok := p.Schema.Defs[name]
		if !ok {
			continue
		}
		for _, f := range td.Fields {
			queue = append(queue, f.Type.Name)
		}
		for _, iface := range td.Interfaces {
			queue = append(queue, iface)
		}
		if td.Kind == hir.KindUnion {
			queue = append(queue, td.UnionMembers...)
		}
	}
	// Interface implementors: an interface being reachable makes every
	// object implementing it reachable too, since a selection against
	// the interface can resolve to any implementor at runtime.
	changed := true
	for changed {
		changed = false
		for _, td := range p.Schema.Defs {
			if _, ok := reachable[td.Name]; ok {
				continue
			}
			for _, iface := range td.Interfaces {
				if _, ifaceReachable := reachable[iface]; ifaceReachable {
					reachable[td.Name] = struct{}{}
					changed = true
					break
				}
			}
		}
	}

	names := make([]string, 0, len(p.Schema.Defs))
	for name := range p.Schema.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		td := p.Schema.Defs[name]
		if td.FileID == types.InvalidFileID || isBuiltinScalarName(td.Name) {
			continue
		}
		if _, ok := reachable[td.Name]; !ok {
			add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeUnreachableType,
				fmt.Sprintf("type %q is not reachable from any root operation type", td.Name), td.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}

// --- no_one_place_fragments ---
//
// A fragment spread exactly once across the whole project provides no
// reuse benefit and usually indicates the selection should be inlined.

type noOnePlaceFragmentsRule struct{}

func (noOnePlaceFragmentsRule) Meta() RuleMeta {
	return RuleMeta{ID: "no_one_place_fragments", Description: "fragments spread in exactly one place provide no reuse benefit", DefaultSeverity: types.SeverityHint}
}

func (r noOnePlaceFragmentsRule) CheckProject(ctx *Ctx, p Project, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	frags := hir.AllFragments.Get(ctx, p.Ref)
	counts := make(map[string]int)

	index := hir.FragmentSpreadsIndex.Get(ctx, p.Ref)
	for _, spreads := range index {
		for _, name := range spreads {
			counts[name]++
		}
	}
	ops := hir.AllOperations.Get(ctx, p.Ref)
	for _, op := range ops {
		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(p.Registry, op.FileID, op.Index))
		for _, name := range body.FragmentSpreads {
			counts[name]++
		}
	}

	for name, frag := range frags {
		if counts[name] == 1 {
			add(out, frag.FileID, diag.New(diag.SourceLinter, diag.CodeFragmentUsedOnce,
				fmt.Sprintf("fragment %q is only used in one place; consider inlining it", name), frag.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}

// --- lone_executable_definition ---
//
// An executable file (or hosted block) mixing more than one operation
// definition makes it harder to generate one typed client function per
// file; every operation after the first gets its own diagnostic at its
// name.

type loneExecutableDefinitionRule struct{}

func (loneExecutableDefinitionRule) Meta() RuleMeta {
	return RuleMeta{ID: "lone_executable_definition", Description: "a document should contain at most one operation definition", DefaultSeverity: types.SeverityHint}
}

func (r loneExecutableDefinitionRule) CheckProject(ctx *Ctx, p Project, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	for _, fid := range fileIDsOf(ctx, p.Ref) {
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(p.Registry, fid))
		if len(fs.Operations) <= 1 {
			continue
		}
		for _, op := range fs.Operations[1:] {
			add(out, fid, diag.New(diag.SourceLinter, diag.CodeMixedExecutableDefinitions,
				"document should contain at most one operation definition", op.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}
