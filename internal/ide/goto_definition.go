package ide

import (
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// Location is a position in a specific file, the shape both
// GotoDefinition and References return (LSP's Location).
type Location struct {
	URI   types.FileURI
	Range types.Range
}

// GotoDefinition is `goto_definition(path, position)` (spec.md §4.8):
// resolves the symbol at the cursor the same way Hover does, then
// returns where that symbol is declared — a type's definition for a
// field/type reference, a fragment's definition for a spread.
func (a *Analysis) GotoDefinition(path types.FileURI, pos types.Position) []Location {
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
		case symbolField:
			if merged.Schema == nil {
				return nil
			}
			def, found := merged.Schema.FieldDef(sym.parentType, sym.name)
			if !found {
				return nil
			}
			return a.locationsForTypeDef(ctx, sym.parentType, def.NameRange)
		case symbolType:
			if merged.Schema == nil {
				return nil
			}
			td, ok := merged.Schema.Lookup(sym.name)
			if !ok {
				return nil
			}
			return a.locationForFile(td.FileID, td.NameRange)
		case symbolFragmentSpread:
			frags := hir.AllFragments.Get(ctx, a.ref)
			frag, ok := frags[sym.name]
			if !ok {
				return nil
			}
			return a.locationForFile(frag.FileID, frag.NameRange)
		default:
			return nil
		}
	})
}

// locationsForTypeDef resolves the file a field's owning type is
// defined in, since FieldDef itself does not carry a FileID.
func (a *Analysis) locationsForTypeDef(ctx *Ctx, typeName string, span types.Span) []Location {
	merged := schema.MergedSchemaWithDiagnostics.Get(ctx, schema.ProjectRef{Registry: a.ref.Registry, Project: a.ref.Project})
	if merged.Schema == nil {
		return nil
	}
	td, ok := merged.Schema.Lookup(typeName)
	if !ok {
		return nil
	}
	return a.locationForFile(td.FileID, span)
}

func (a *Analysis) locationForFile(fid types.FileID, span types.Span) []Location {
	uri, ok := a.host.registry.URI(fid)
	if !ok {
		return nil
	}
	li := a.lineIndexFor(fid)
	if li == nil {
		return nil
	}
	return []Location{{URI: uri, Range: li.Range(span)}}
}
