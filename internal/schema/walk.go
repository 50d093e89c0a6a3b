package schema

import (
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
)

// FieldDef resolves one field on a named type, handling the
// `__typename` introspection meta-field uniformly so callers never need
// a special case (spec.md §4.6 "selection sets must resolve against the
// parent type").
func (s *Schema) FieldDef(typeName, fieldName string) (hir.FieldDef, bool) {
	if fieldName == "__typename" {
		return hir.FieldDef{Name: "__typename", Type: syntax.TypeRef{Name: "String", Wrappers: []syntax.WrapperKind{syntax.WrapNonNull}}}, true
	}
	td, ok := s.Defs[typeName]
	if !ok {
		return hir.FieldDef{}, false
	}
	for _, f := range td.Fields {
		if f.Name == fieldName {
			return f, true
		}
	}
	return hir.FieldDef{}, false
}

// WalkFields walks a selection set's Field selections with parent-type
// context, recursing into nested selection sets and inline fragments.
// FragmentSpreads are not recursed into: a fragment's own body is
// validated independently against its own type condition elsewhere
// (spec.md §4.6 step 3), so resolving through a spread here would only
// duplicate that work without adding coverage.
//
// visit is called for every field encountered, found reporting whether
// FieldDef resolved fieldDef against parentType.
func WalkFields(sch *Schema, parentType string, ss syntax.SelectionSet, visit func(parentType string, field *syntax.Field, fieldDef hir.FieldDef, found bool)) {
	for _, sel := range ss.Selections {
		switch s := sel.(type) {
		case *syntax.Field:
			def, found := sch.FieldDef(parentType, s.Name.Name)
			visit(parentType, s, def, found)
			if s.SelectionSet != nil && found {
				WalkFields(sch, def.Type.Name, *s.SelectionSet, visit)
			}
		case *syntax.InlineFragment:
			next := parentType
			if s.TypeCondition != nil {
				next = s.TypeCondition.Name
			}
			WalkFields(sch, next, s.SelectionSet, visit)
		}
	}
}
