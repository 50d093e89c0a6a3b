package ide

import (
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/search"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// CompletionItemKind classifies a CompletionItem, mirroring LSP's
// CompletionItemKind enum restricted to the values this package emits.
type CompletionItemKind int

const (
	CompletionField CompletionItemKind = iota
	CompletionFragment
)

// CompletionItem is one suggestion at a cursor position (spec.md §4.8
// "CompletionItem generation"). Ranking (typo-tolerant reordering, stem
// matching against a partial identifier) is deliberately not done here
// — internal/search scores and reorders a list of these.
type CompletionItem struct {
	Label      string
	Kind       CompletionItemKind
	Detail     string // field's type, or fragment's type condition
	InsertText string
}

// Completion is `completion(path, position)` (spec.md §4.8): field
// names on the resolved parent type (the same selection-path walk
// hover uses), followed by the names of fragments whose type condition
// equals that parent type. Fragment names are offered anywhere in the
// selection set, not only after a `...`.
func (a *Analysis) Completion(path types.FileURI, pos types.Position) []CompletionItem {
	return withCycleRecovery[[]CompletionItem](nil, func() []CompletionItem {
		fid, ok := a.fileID(path)
		if !ok {
			return nil
		}
		ctx := a.ctx()
		loc, ok := locate(ctx, a.host.registry, fid, pos)
		if !ok {
			return nil
		}

		merged := schema.MergedSchemaWithDiagnostics.Get(ctx, schema.ProjectRef{Registry: a.ref.Registry, Project: a.ref.Project})
		if merged.Schema == nil {
			return nil
		}

		parentType := completionContext(merged.Schema, loc.doc.Document, loc.offset)
		if parentType == "" {
			return nil
		}

		var items []CompletionItem
		if td, ok := merged.Schema.Lookup(parentType); ok {
			for _, f := range td.Fields {
				items = append(items, CompletionItem{
					Label:      f.Name,
					Kind:       CompletionField,
					Detail:     f.Type.String(),
					InsertText: f.Name,
				})
			}
		}
		for _, frag := range hir.AllFragments.Get(ctx, a.ref) {
			if frag.TypeCondition == parentType {
				items = append(items, CompletionItem{
					Label:      frag.Name,
					Kind:       CompletionFragment,
					Detail:     frag.TypeCondition,
					InsertText: frag.Name,
				})
			}
		}
		return items
	})
}

// RankCompletionItems reorders items by their similarity to the partial
// identifier the editor has already typed at the cursor (the prefix
// before the LSP completion request's trigger position), using
// internal/search's stem-then-fuzzy ranking. Callers with a raw partial
// token — the MCP/CLI completion surface, not this package's
// position-only Completion — call this after Completion returns the
// unranked candidate set.
func RankCompletionItems(query string, items []CompletionItem) []CompletionItem {
	if query == "" {
		return items
	}
	names := make([]string, len(items))
	byName := make(map[string]CompletionItem, len(items))
	for i, it := range items {
		names[i] = it.Label
		byName[it.Label] = it
	}
	matcher := search.NewMatcher(search.DefaultThreshold)
	ranked := matcher.RankCompletions(query, names)
	out := make([]CompletionItem, len(ranked))
	for i, r := range ranked {
		out[i] = byName[r.Name]
	}
	return out
}

// completionContext walks the selection path exactly as findSymbolAt
// does, but looks for the innermost selection set enclosing offset
// (rather than a token under it), since a completion cursor usually
// sits on whitespace inside a selection set's braces rather than on an
// existing identifier.
func completionContext(sch *schema.Schema, doc *syntax.Document, offset int) string {
	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *syntax.OperationDefinition:
			root := rootTypeForDoc(sch, d.Kind)
			if t, ok := walkForCompletion(sch, root, d.SelectionSet, offset); ok {
				return t
			}
		case *syntax.FragmentDefinition:
			if t, ok := walkForCompletion(sch, d.TypeCondition.Name, d.SelectionSet, offset); ok {
				return t
			}
		}
	}
	return ""
}

func walkForCompletion(sch *schema.Schema, parentType string, ss syntax.SelectionSet, offset int) (string, bool) {
	if !contains(ss.Span, offset) {
		return "", false
	}
	for _, sel := range ss.Selections {
		switch s := sel.(type) {
		case *syntax.Field:
			if s.SelectionSet != nil && contains(s.SelectionSet.Span, offset) && sch != nil {
				if def, found := sch.FieldDef(parentType, s.Name.Name); found {
					if t, ok := walkForCompletion(sch, def.Type.Name, *s.SelectionSet, offset); ok {
						return t, true
					}
				}
			}
		case *syntax.InlineFragment:
			if contains(s.SelectionSet.Span, offset) {
				next := parentType
				if s.TypeCondition != nil {
					next = s.TypeCondition.Name
				}
				if t, ok := walkForCompletion(sch, next, s.SelectionSet, offset); ok {
					return t, true
				}
			}
		}
	}
	return parentType, true
}
