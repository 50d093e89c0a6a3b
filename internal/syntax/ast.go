package syntax

import "github.com/graphqlintel/graphqlintel/internal/types"

// The types below form the resilient, position-annotated AST produced by
// Parse (spec.md §3 "Document shapes"). A hand-rolled parser has no
// separation of concerns between "CST" and "AST view" the way a
// generated parser does, so SPEC_FULL.md collapses the two into a single
// typed tree where every node already carries its own Span — the same
// choice graphql-js and gqlparser make for their own hand-written
// recursive-descent parsers.

// Ident is a name token paired with its span, used for type names, field
// names, argument names, variable names, and directive names alike.
type Ident struct {
	Span types.Span
	Name string
}

// Document is the top-level parse result: an ordered list of
// definitions, resilient to any individual definition failing to parse.
type Document struct {
	Span        types.Span
	Definitions []Definition
}

// Definition is implemented by every top-level production: operations,
// fragments, and the type-system definitions that make up a schema.
type Definition interface {
	definitionSpan() types.Span
}

// OperationKind distinguishes query/mutation/subscription.
type OperationKind int

const (
	OperationQuery OperationKind = iota
	OperationMutation
	OperationSubscription
)

func (k OperationKind) String() string {
	switch k {
	case OperationMutation:
		return "mutation"
	case OperationSubscription:
		return "subscription"
	default:
		return "query"
	}
}

// OperationDefinition is a query/mutation/subscription, named or
// anonymous (spec.md §3 "Operation").
type OperationDefinition struct {
	Span                types.Span
	Kind                OperationKind
	KeywordSpan         types.Span
	Name                *Ident
	VariableDefinitions []VariableDefinition
	Directives          []Directive
	SelectionSet        SelectionSet
}

func (d *OperationDefinition) definitionSpan() types.Span { return d.Span }

// FragmentDefinition is a named fragment (spec.md §3 "Fragment").
type FragmentDefinition struct {
	Span          types.Span
	Name          Ident
	TypeCondition Ident
	Directives    []Directive
	SelectionSet  SelectionSet
}

func (d *FragmentDefinition) definitionSpan() types.Span { return d.Span }

// VariableDefinition is `$name: Type = default` in an operation's
// parenthesized variable list.
type VariableDefinition struct {
	Span         types.Span
	Variable     Ident
	Type         TypeRef
	DefaultValue Value
}

// WrapperKind is a single list/non-null layer around a named type.
type WrapperKind int

const (
	WrapNonNull WrapperKind = iota
	WrapList
)

// TypeRef preserves full wrapper shape (e.g. `[[User!]]!`) rather than
// collapsing to the innermost named type, since hover and completion
// both need the exact written type (spec.md §3 "TypeRef preserves
// shape"). Wrappers is ordered innermost-to-outermost: Wrappers[0] wraps
// Name directly, Wrappers[len-1] is the outermost layer.
type TypeRef struct {
	Span     types.Span
	Name     string
	Wrappers []WrapperKind
}

// IsNonNull reports whether the outermost layer is a non-null wrapper.
func (t TypeRef) IsNonNull() bool {
	return len(t.Wrappers) > 0 && t.Wrappers[len(t.Wrappers)-1] == WrapNonNull
}

// IsList reports whether the outermost nullable layer is a list.
func (t TypeRef) IsList() bool {
	w := t.Wrappers
	if len(w) > 0 && w[len(w)-1] == WrapNonNull {
		w = w[:len(w)-1]
	}
	return len(w) > 0 && w[len(w)-1] == WrapList
}

// String renders the type back to GraphQL syntax, e.g. "[[User!]]!".
func (t TypeRef) String() string {
	s := t.Name
	for _, w := range t.Wrappers {
		switch w {
		case WrapNonNull:
			s += "!"
		case WrapList:
			s = "[" + s + "]"
		}
	}
	return s
}

// Selection is implemented by Field, FragmentSpread, and InlineFragment.
type Selection interface {
	selectionSpan() types.Span
}

// SelectionSet is a `{ ... }` block.
type SelectionSet struct {
	Span       types.Span
	Selections []Selection
}

// Field is a selected field, optionally aliased, with arguments,
// directives, and (for object/interface/union-typed fields) a nested
// selection set.
type Field struct {
	Span         types.Span
	Alias        *Ident
	Name         Ident
	Arguments    []Argument
	Directives   []Directive
	SelectionSet *SelectionSet
}

func (f *Field) selectionSpan() types.Span { return f.Span }

// ResponseName is the alias if present, else the field name — the key
// under which this selection appears in a response (spec.md §3 "Field
// selections are keyed by response name").
func (f *Field) ResponseName() string {
	if f.Alias != nil {
		return f.Alias.Name
	}
	return f.Name.Name
}

// FragmentSpread is a `...Name` selection.
type FragmentSpread struct {
	Span       types.Span
	Name       Ident
	Directives []Directive
}

func (f *FragmentSpread) selectionSpan() types.Span { return f.Span }

// InlineFragment is a `... on Type { ... }` or bare `... { ... }`
// selection.
type InlineFragment struct {
	Span          types.Span
	TypeCondition *Ident
	Directives    []Directive
	SelectionSet  SelectionSet
}

func (f *InlineFragment) selectionSpan() types.Span { return f.Span }

// Argument is a `name: value` pair, used both for field arguments and
// directive arguments.
type Argument struct {
	Span  types.Span
	Name  Ident
	Value Value
}

// Directive is a `@name(args...)` usage.
type Directive struct {
	Span      types.Span
	Name      Ident
	Arguments []Argument
}

// Value is implemented by every GraphQL value literal kind.
type Value interface {
	valueSpan() types.Span
}

type IntValue struct {
	Span types.Span
	Raw  string
}
type FloatValue struct {
	Span types.Span
	Raw  string
}
type StringValue struct {
	Span  types.Span
	Value string
	Block bool
}
type BooleanValue struct {
	Span  types.Span
	Value bool
}
type NullValue struct{ Span types.Span }
type EnumValue struct {
	Span types.Span
	Name string
}
type VariableValue struct {
	Span types.Span
	Name string
}
type ListValue struct {
	Span   types.Span
	Values []Value
}
type ObjectValue struct {
	Span   types.Span
	Fields []ObjectField
}
type ObjectField struct {
	Span  types.Span
	Name  Ident
	Value Value
}

func (v *IntValue) valueSpan() types.Span      { return v.Span }
func (v *FloatValue) valueSpan() types.Span     { return v.Span }
func (v *StringValue) valueSpan() types.Span    { return v.Span }
func (v *BooleanValue) valueSpan() types.Span   { return v.Span }
func (v *NullValue) valueSpan() types.Span      { return v.Span }
func (v *EnumValue) valueSpan() types.Span      { return v.Span }
func (v *VariableValue) valueSpan() types.Span  { return v.Span }
func (v *ListValue) valueSpan() types.Span      { return v.Span }
func (v *ObjectValue) valueSpan() types.Span    { return v.Span }

// --- Type-system definitions (spec.md §3 "Schema shapes") ---

// TypeDefKind distinguishes the six named-type-definition kinds.
type TypeDefKind int

const (
	TypeKindObject TypeDefKind = iota
	TypeKindInterface
	TypeKindUnion
	TypeKindEnum
	TypeKindScalar
	TypeKindInput
)

// TypeDefinition covers object/interface/union/enum/scalar/input type
// definitions. Not every field is meaningful for every Kind — Fields is
// used by Object/Interface/Input, EnumValues only by Enum,
// UnionMembers only by Union, Interfaces only by Object/Interface.
type TypeDefinition struct {
	Span          types.Span
	Kind          TypeDefKind
	Description   *string
	Name          Ident
	Interfaces    []Ident
	Fields        []FieldDefinition
	EnumValues    []EnumValueDefinition
	UnionMembers  []Ident
	Directives    []Directive
}

func (d *TypeDefinition) definitionSpan() types.Span { return d.Span }

// FieldDefinition is a field in an object/interface type, or an input
// value in an input object type (Arguments is empty in the latter case).
type FieldDefinition struct {
	Span        types.Span
	Description *string
	Name        Ident
	Arguments   []InputValueDefinition
	Type        TypeRef
	Directives  []Directive
}

// InputValueDefinition is an argument or input-object field.
type InputValueDefinition struct {
	Span         types.Span
	Description  *string
	Name         Ident
	Type         TypeRef
	DefaultValue Value
	Directives   []Directive
}

// EnumValueDefinition is one member of an enum type.
type EnumValueDefinition struct {
	Span        types.Span
	Description *string
	Name        Ident
	Directives  []Directive
}

// SchemaDefinition declares the root operation types explicitly
// (spec.md §3 "Root operation type resolution").
type SchemaDefinition struct {
	Span       types.Span
	Query      *Ident
	Mutation   *Ident
	Subscription *Ident
	Directives []Directive
}

func (d *SchemaDefinition) definitionSpan() types.Span { return d.Span }
