package ide

import (
	"sort"

	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// References is `references(path, position)` (spec.md §4.8): every
// spread/usage site of the symbol under the cursor, project-wide. A
// fragment spread resolves to every `...Name` occurrence referencing
// that fragment (plus its own definition); a field resolves to every
// selection of that field name against the same parent type.
func (a *Analysis) References(path types.FileURI, pos types.Position) []Location {
	return withCycleRecovery[[]Location](nil, func() []Location {
		fid, ok := a.fileID(path)
		if !ok {
			return nil
		}
		ctx := a.ctx()
		loc, ok := locate(ctx, a.host.registry, fid, pos)
		if !ok || len(loc.doc.Errors) > 0 {
			return nil
		}

		merged := schema.MergedSchemaWithDiagnostics.Get(ctx, schema.ProjectRef{Registry: a.ref.Registry, Project: a.ref.Project})
		sym := findSymbolAt(merged.Schema, loc.doc.Document, loc.offset)

		switch sym.kind {
		case symbolFragmentSpread:
			return a.fragmentReferences(ctx, sym.name)
		case symbolField:
			return a.fieldReferences(ctx, sym.parentType, sym.name)
		default:
			return nil
		}
	})
}

// fragmentReferences collects the fragment's own definition plus every
// spread of it across every operation and fragment body in the
// project (spec.md §4.8 "references ... fragment references").
func (a *Analysis) fragmentReferences(ctx *Ctx, name string) []Location {
	var out []Location

	frags := hir.AllFragments.Get(ctx, a.ref)
	if frag, ok := frags[name]; ok {
		out = append(out, a.locationForFile(frag.FileID, frag.NameRange)...)
	}

	pf, ok := a.ref.Project.Get(ctx)
	if !ok {
		return out
	}
	for _, fid := range pf.ExecutableFileIDs {
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(a.ref.Registry, fid))
		for _, op := range fs.Operations {
			body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(a.ref.Registry, fid, op.Index))
			out = append(out, a.spreadLocations(fid, body.Selections, name)...)
		}
		for _, frag := range fs.Fragments {
			body := hir.FragmentBodyOf.Get(ctx, hir.FragmentBodyKeyFor(a.ref.Registry, fid, frag.Name))
			out = append(out, a.spreadLocations(fid, body.Selections, name)...)
		}
	}
	return sortedLocations(out)
}

func (a *Analysis) spreadLocations(fid types.FileID, ss syntax.SelectionSet, name string) []Location {
	var out []Location
	for _, sel := range ss.Selections {
		switch s := sel.(type) {
		case *syntax.FragmentSpread:
			if s.Name.Name == name {
				out = append(out, a.locationForFile(fid, s.Name.Span)...)
			}
		case *syntax.Field:
			if s.SelectionSet != nil {
				out = append(out, a.spreadLocations(fid, *s.SelectionSet, name)...)
			}
		case *syntax.InlineFragment:
			out = append(out, a.spreadLocations(fid, s.SelectionSet, name)...)
		}
	}
	return out
}

// fieldReferences collects every selection of fieldName against
// parentType across the project's operations and fragments, walking
// each selection set's parent-type context exactly as findInSelectionSet
// does for a single offset, but visiting every field instead of
// stopping at the first match.
func (a *Analysis) fieldReferences(ctx *Ctx, parentType, fieldName string) []Location {
	if parentType == "" {
		return nil
	}
	merged := schema.MergedSchemaWithDiagnostics.Get(ctx, schema.ProjectRef{Registry: a.ref.Registry, Project: a.ref.Project})
	if merged.Schema == nil {
		return nil
	}

	var out []Location
	pf, ok := a.ref.Project.Get(ctx)
	if !ok {
		return nil
	}
	for _, fid := range pf.ExecutableFileIDs {
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(a.ref.Registry, fid))
		for _, op := range fs.Operations {
			body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(a.ref.Registry, fid, op.Index))
			root := rootTypeForDoc(merged.Schema, op.Kind)
			out = append(out, a.fieldLocations(fid, merged.Schema, root, body.Selections, parentType, fieldName)...)
		}
		for _, frag := range fs.Fragments {
			body := hir.FragmentBodyOf.Get(ctx, hir.FragmentBodyKeyFor(a.ref.Registry, fid, frag.Name))
			out = append(out, a.fieldLocations(fid, merged.Schema, frag.TypeCondition, body.Selections, parentType, fieldName)...)
		}
	}
	return sortedLocations(out)
}

func (a *Analysis) fieldLocations(fid types.FileID, sch *schema.Schema, curType string, ss syntax.SelectionSet, parentType, fieldName string) []Location {
	var out []Location
	for _, sel := range ss.Selections {
		switch s := sel.(type) {
		case *syntax.Field:
			if curType == parentType && s.Name.Name == fieldName {
				out = append(out, a.locationForFile(fid, s.Name.Span)...)
			}
			if s.SelectionSet != nil {
				if def, found := sch.FieldDef(curType, s.Name.Name); found {
					out = append(out, a.fieldLocations(fid, sch, def.Type.Name, *s.SelectionSet, parentType, fieldName)...)
				}
			}
		case *syntax.InlineFragment:
			next := curType
			if s.TypeCondition != nil {
				next = s.TypeCondition.Name
			}
			out = append(out, a.fieldLocations(fid, sch, next, s.SelectionSet, parentType, fieldName)...)
		}
	}
	return out
}

func sortedLocations(locs []Location) []Location {
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].URI != locs[j].URI {
			return locs[i].URI < locs[j].URI
		}
		return locs[i].Range.Start.Line < locs[j].Range.Start.Line
	})
	return locs
}
