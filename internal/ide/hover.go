package ide

import (
	"fmt"
	"strings"

	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// HoverResult is the markdown-formatted card returned for a cursor
// position, grounded on original_source/crates/graphql-ide/src/hover.rs.
type HoverResult struct {
	Contents string
	Range    types.Range
}

// Hover is `hover(path, position)` (spec.md §4.8): resolves parent-type
// context by walking the selection-path stack up to the enclosing
// operation's root type, using schema_types to step into field types at
// each level (the same walk checkSelectionsResolve uses in
// internal/analysis, reused here through findInSelectionSet).
func (a *Analysis) Hover(path types.FileURI, pos types.Position) *HoverResult {
	return withCycleRecovery[*HoverResult](nil, func() *HoverResult {
		fid, ok := a.fileID(path)
		if !ok {
			return nil
		}
		ctx := a.ctx()
		loc, ok := locate(ctx, a.host.registry, fid, pos)
		if !ok {
			return nil
		}

		if len(loc.doc.Errors) > 0 {
			var msgs []string
			for _, e := range loc.doc.Errors {
				msgs = append(msgs, e.Message)
			}
			return &HoverResult{Contents: fmt.Sprintf("**Syntax Errors**\n\n%s", strings.Join(msgs, "\n"))}
		}

		merged := schema.MergedSchemaWithDiagnostics.Get(ctx, schema.ProjectRef{Registry: a.ref.Registry, Project: a.ref.Project})
		sym := findSymbolAt(merged.Schema, loc.doc.Document, loc.offset)

		switch sym.kind {
		case symbolField:
			return hoverField(merged.Schema, sym, loc)
		case symbolType:
			return hoverType(merged.Schema, sym, loc)
		case symbolFragmentSpread:
			return hoverFragmentSpread(ctx, a, sym, loc)
		default:
			return nil
		}
	})
}

func hoverField(sch *schema.Schema, sym symbol, loc locatedBlock) *HoverResult {
	if sch == nil {
		return nil
	}
	def, found := sch.FieldDef(sym.parentType, sym.name)
	if !found {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Field:** `%s`\n\n", sym.name)
	fmt.Fprintf(&b, "**Type:** `%s`\n\n", def.Type.String())
	if def.Description != "" {
		fmt.Fprintf(&b, "---\n\n%s\n\n", def.Description)
	}
	if def.Deprecated {
		fmt.Fprintf(&b, "**Deprecated:** %s\n\n", def.DeprecationReason)
	}
	return &HoverResult{Contents: b.String(), Range: loc.hostRange(sym.span)}
}

func hoverType(sch *schema.Schema, sym symbol, loc locatedBlock) *HoverResult {
	if sch == nil {
		return nil
	}
	td, ok := sch.Lookup(sym.name)
	if !ok {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Type:** `%s`\n\n", sym.name)
	fmt.Fprintf(&b, "**Kind:** %s\n\n", typeDefKindLabel(td.Kind))
	if td.Description != "" {
		fmt.Fprintf(&b, "---\n\n%s\n\n", td.Description)
	}
	return &HoverResult{Contents: b.String(), Range: loc.hostRange(sym.span)}
}

func hoverFragmentSpread(ctx *Ctx, a *Analysis, sym symbol, loc locatedBlock) *HoverResult {
	frags := hir.AllFragments.Get(ctx, a.ref)
	frag, ok := frags[sym.name]
	if !ok {
		return nil
	}
	contents := fmt.Sprintf("**Fragment:** `%s`\n\n**On Type:** `%s`\n\n", sym.name, frag.TypeCondition)
	return &HoverResult{Contents: contents, Range: loc.hostRange(sym.span)}
}
