package ide

import (
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// symbolKind classifies what kind of identifier a cursor offset landed
// on, mirroring original_source/crates/graphql-ide/src/symbol.rs's
// Symbol enum (FieldName / TypeName / FragmentSpread / variants this
// repo doesn't need yet collapse to symbolNone).
type symbolKind int

const (
	symbolNone symbolKind = iota
	symbolField
	symbolType
	symbolFragmentSpread
	symbolVariable
	symbolArgument
)

// symbol is the identifier found at a cursor offset, plus enough context
// to resolve it: for a field, the type it was selected against.
type symbol struct {
	kind       symbolKind
	name       string
	span       types.Span
	parentType string // set only for symbolField
}

// findSymbolAt walks doc looking for the innermost named token whose
// span contains offset (spec.md §4.8 "Hover resolves parent-type context
// by walking the selection-path stack up to the enclosing operation's
// root type").
func findSymbolAt(sch *schema.Schema, doc *syntax.Document, offset int) symbol {
	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *syntax.OperationDefinition:
			root := rootTypeForDoc(sch, d.Kind)
			if s, ok := findInSelectionSet(sch, root, d.SelectionSet, offset); ok {
				return s
			}
			for _, v := range d.VariableDefinitions {
				if v.Variable.Span.Start <= offset && offset <= v.Variable.Span.End {
					return symbol{kind: symbolVariable, name: v.Variable.Name, span: v.Variable.Span}
				}
			}
		case *syntax.FragmentDefinition:
			if contains(d.Name.Span, offset) {
				return symbol{kind: symbolFragmentSpread, name: d.Name.Name, span: d.Name.Span}
			}
			if d.TypeCondition.Span.Start <= offset && offset <= d.TypeCondition.Span.End {
				return symbol{kind: symbolType, name: d.TypeCondition.Name, span: d.TypeCondition.Span}
			}
			if s, ok := findInSelectionSet(sch, d.TypeCondition.Name, d.SelectionSet, offset); ok {
				return s
			}
		case *syntax.TypeDefinition:
			if s, ok := findInTypeDefinition(d, offset); ok {
				return s
			}
		}
	}
	return symbol{}
}

func rootTypeForDoc(sch *schema.Schema, kind syntax.OperationKind) string {
	if sch == nil {
		return ""
	}
	switch kind {
	case syntax.OperationMutation:
		return sch.Types.Mutation
	case syntax.OperationSubscription:
		return sch.Types.Subscription
	default:
		return sch.Types.Query
	}
}

func contains(span types.Span, offset int) bool {
	return span.Start <= offset && offset <= span.End
}

// findInSelectionSet recurses down the selection path toward offset,
// tracking parentType at each level exactly as schema.WalkFields does,
// but stops and returns as soon as it finds the selection containing
// offset rather than visiting every field.
func findInSelectionSet(sch *schema.Schema, parentType string, ss syntax.SelectionSet, offset int) (symbol, bool) {
	for _, sel := range ss.Selections {
		switch s := sel.(type) {
		case *syntax.Field:
			if !contains(s.Span, offset) {
				continue
			}
			if contains(s.Name.Span, offset) {
				return symbol{kind: symbolField, name: s.Name.Name, span: s.Name.Span, parentType: parentType}, true
			}
			for _, arg := range s.Arguments {
				if contains(arg.Name.Span, offset) {
					return symbol{kind: symbolArgument, name: arg.Name.Name, span: arg.Name.Span, parentType: parentType}, true
				}
			}
			if s.SelectionSet != nil && sch != nil {
				if def, found := sch.FieldDef(parentType, s.Name.Name); found {
					if sym, ok := findInSelectionSet(sch, def.Type.Name, *s.SelectionSet, offset); ok {
						return sym, true
					}
				}
			}
			// Inside the field's span but not resolved further (e.g. on an
			// argument value or directive) — report the field itself.
			return symbol{kind: symbolField, name: s.Name.Name, span: s.Name.Span, parentType: parentType}, true
		case *syntax.FragmentSpread:
			if contains(s.Name.Span, offset) {
				return symbol{kind: symbolFragmentSpread, name: s.Name.Name, span: s.Name.Span}, true
			}
		case *syntax.InlineFragment:
			if !contains(s.Span, offset) {
				continue
			}
			next := parentType
			if s.TypeCondition != nil {
				if contains(s.TypeCondition.Span, offset) {
					return symbol{kind: symbolType, name: s.TypeCondition.Name, span: s.TypeCondition.Span}, true
				}
				next = s.TypeCondition.Name
			}
			if sym, ok := findInSelectionSet(sch, next, s.SelectionSet, offset); ok {
				return sym, true
			}
		}
	}
	return symbol{}, false
}

func findInTypeDefinition(d *syntax.TypeDefinition, offset int) (symbol, bool) {
	if contains(d.Name.Span, offset) {
		return symbol{kind: symbolType, name: d.Name.Name, span: d.Name.Span}, true
	}
	for _, f := range d.Fields {
		if contains(f.Name.Span, offset) {
			return symbol{kind: symbolField, name: f.Name.Name, span: f.Name.Span, parentType: d.Name.Name}, true
		}
		if contains(f.Type.Span, offset) {
			return symbol{kind: symbolType, name: f.Type.Name, span: f.Type.Span}, true
		}
	}
	for _, iface := range d.Interfaces {
		if contains(iface.Span, offset) {
			return symbol{kind: symbolType, name: iface.Name, span: iface.Span}, true
		}
	}
	for _, m := range d.UnionMembers {
		if contains(m.Span, offset) {
			return symbol{kind: symbolType, name: m.Name, span: m.Span}, true
		}
	}
	return symbol{}, false
}

// typeDefKindLabel renders a hir.TypeDefKind as the human label hover uses.
func typeDefKindLabel(k hir.TypeDefKind) string {
	switch k {
	case hir.KindObject:
		return "Object"
	case hir.KindInterface:
		return "Interface"
	case hir.KindUnion:
		return "Union"
	case hir.KindEnum:
		return "Enum"
	case hir.KindScalar:
		return "Scalar"
	case hir.KindInput:
		return "Input Object"
	default:
		return "Unknown"
	}
}
