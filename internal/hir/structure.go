// Package hir implements the two-tier HIR (spec.md §4.4): file_structure
// extracts signatures only; operation_body/fragment_body extract
// selection sets separately, keyed by index/name so a body-only edit
// never invalidates a file's structural signature — the golden
// invariant.
//
// Grounded on original_source/crates/graphql-hir/src/lib.rs and
// crates/hir/src/lib.rs (TypeId/FieldId/FragmentId/OperationId as
// opaque salsa ids, schema_types/all_fragments/all_operations as
// tracked aggregates over file_structure).
package hir

import (
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// TypeDefKind mirrors syntax.TypeDefKind at the HIR layer so downstream
// packages (schema, lint) never need to import syntax.
type TypeDefKind = syntax.TypeDefKind

const (
	KindObject    = syntax.TypeKindObject
	KindInterface = syntax.TypeKindInterface
	KindUnion     = syntax.TypeKindUnion
	KindEnum      = syntax.TypeKindEnum
	KindScalar    = syntax.TypeKindScalar
	KindInput     = syntax.TypeKindInput
)

// TypeRef preserves full wrapper shape, same representation as the
// syntax layer (spec.md §3 "TypeRef preserves shape").
type TypeRef = syntax.TypeRef

// FieldDef is one field in an object/interface type, or one field of an
// input object (spec.md §3 "FieldDef").
type FieldDef struct {
	Name              string
	Type              TypeRef
	Description       string
	Arguments         []ArgumentDef
	NameRange         types.Span
	FullRange         types.Span
	Deprecated        bool
	DeprecationReason string
}

// ArgumentDef is one declared argument on a field (spec.md §3 "field
// arguments"), used by the argument-validation checks in
// internal/analysis (unknown argument, missing required argument).
type ArgumentDef struct {
	Name         string
	Type         TypeRef
	HasDefault   bool
	NameRange    types.Span
}

func argumentDefEqual(a, b ArgumentDef) bool {
	return a.Name == b.Name && typeRefEqual(a.Type, b.Type) && a.HasDefault == b.HasDefault && a.NameRange == b.NameRange
}

// EnumValueDef is one enum member.
type EnumValueDef struct {
	Name        string
	Description string
	NameRange   types.Span
	FullRange   types.Span
	Deprecated  bool
	DeprecationReason string
}

// TypeDef is the structural signature of a schema type definition
// (spec.md §3 "TypeDef"). Equality is by value (all fields comparable
// or slices of comparable structs), satisfying the golden invariant's
// back-edge check.
type TypeDef struct {
	Name        string
	Kind        TypeDefKind
	Fields      []FieldDef
	EnumValues  []EnumValueDef
	Interfaces  []string
	UnionMembers []string
	Description string
	FileID      types.FileID
	NameRange   types.Span
	FullRange   types.Span
	Deprecated  bool
	DeprecationReason string
}

// Equal implements value equality for the back-edge short-circuit
// (spec.md §4.1 step 3).
func (t TypeDef) Equal(o TypeDef) bool {
	if t.Name != o.Name || t.Kind != o.Kind || t.Description != o.Description ||
		t.FileID != o.FileID || t.NameRange != o.NameRange || t.FullRange != o.FullRange ||
		t.Deprecated != o.Deprecated || t.DeprecationReason != o.DeprecationReason {
		return false
	}
	if len(t.Fields) != len(o.Fields) || len(t.EnumValues) != len(o.EnumValues) ||
		len(t.Interfaces) != len(o.Interfaces) || len(t.UnionMembers) != len(o.UnionMembers) {
		return false
	}
	for i := range t.Fields {
		if !fieldDefEqual(t.Fields[i], o.Fields[i]) {
			return false
		}
	}
	for i := range t.EnumValues {
		if t.EnumValues[i] != o.EnumValues[i] {
			return false
		}
	}
	for i := range t.Interfaces {
		if t.Interfaces[i] != o.Interfaces[i] {
			return false
		}
	}
	for i := range t.UnionMembers {
		if t.UnionMembers[i] != o.UnionMembers[i] {
			return false
		}
	}
	return true
}

func fieldDefEqual(a, b FieldDef) bool {
	if a.Name != b.Name || !typeRefEqual(a.Type, b.Type) || a.Description != b.Description ||
		a.NameRange != b.NameRange || a.FullRange != b.FullRange ||
		a.Deprecated != b.Deprecated || a.DeprecationReason != b.DeprecationReason ||
		len(a.Arguments) != len(b.Arguments) {
		return false
	}
	for i := range a.Arguments {
		if !argumentDefEqual(a.Arguments[i], b.Arguments[i]) {
			return false
		}
	}
	return true
}

// typeRefEqual compares TypeRefs by value; TypeRef embeds a Wrappers
// slice so it is not `==`-comparable.
func typeRefEqual(a, b TypeRef) bool {
	if a.Name != b.Name || a.Span != b.Span || len(a.Wrappers) != len(b.Wrappers) {
		return false
	}
	for i := range a.Wrappers {
		if a.Wrappers[i] != b.Wrappers[i] {
			return false
		}
	}
	return true
}

func variableDefEqual(a, b VariableDef) bool {
	return a.Name == b.Name && typeRefEqual(a.Type, b.Type)
}

// VariableDef is an operation's declared `$name: Type` variable.
type VariableDef struct {
	Name string
	Type TypeRef
}

// OperationKind mirrors syntax.OperationKind at the HIR layer.
type OperationKind = syntax.OperationKind

const (
	OpQuery        = syntax.OperationQuery
	OpMutation     = syntax.OperationMutation
	OpSubscription = syntax.OperationSubscription
)

// OperationStructure is the signature of one operation definition
// (spec.md §3 "OperationStructure"): everything needed to validate
// variable usage and merge into project-wide uniqueness checks,
// without the selection set itself.
type OperationStructure struct {
	Name      string // empty for anonymous operations
	Kind      OperationKind
	Variables []VariableDef
	// Index is this operation's position among the file's operations,
	// in source order — the stable key operation_body is looked up by.
	Index     int
	FileID    types.FileID
	NameRange types.Span
	FullRange types.Span
}

// operationStructureEqual deliberately excludes FullRange: it spans the
// operation's selection set, so it shifts on every body-only edit even
// though name/kind/variables don't change. Comparing it here would
// defeat the golden invariant (spec.md §3 invariant 4) — a pure body
// edit would look like a structural change and force schema-dependent
// aggregates to recompute instead of short-circuiting. NameRange is
// included because it precedes the body and is stable under body-only
// edits.
func operationStructureEqual(a, b OperationStructure) bool {
	if a.Name != b.Name || a.Kind != b.Kind || a.Index != b.Index || a.FileID != b.FileID ||
		a.NameRange != b.NameRange || len(a.Variables) != len(b.Variables) {
		return false
	}
	for i := range a.Variables {
		if !variableDefEqual(a.Variables[i], b.Variables[i]) {
			return false
		}
	}
	return true
}

// FragmentStructure is the signature of one fragment definition
// (spec.md §3 "FragmentStructure").
type FragmentStructure struct {
	Name          string
	TypeCondition string
	FileID        types.FileID
	NameRange     types.Span
	FullRange     types.Span
}

// fragmentStructureEqual excludes FullRange for the same reason
// operationStructureEqual does: a fragment's selection set is its own
// body tier (fragment_body), so its span shifts on every body-only edit
// while the fragment's signature (name, type condition) does not.
func fragmentStructureEqual(a, b FragmentStructure) bool {
	return a.Name == b.Name && a.TypeCondition == b.TypeCondition &&
		a.FileID == b.FileID && a.NameRange == b.NameRange
}

// FileStructure holds only non-body information derived from a file
// (spec.md §3 "HIR structure"): type definitions for schema files,
// operation/fragment signatures for executable (or hosted) files. A
// hosted file may itself carry zero or more operations/fragments per
// embedded block, so Structure aggregates across every block found by
// the syntax layer.
type FileStructure struct {
	FileID     types.FileID
	TypeDefs   []TypeDef
	Operations []OperationStructure
	Fragments  []FragmentStructure
}

// Equal implements value equality for the file_structure tracked
// function's back-edge check (spec.md §4.4 "golden invariant
// enforcement").
func (fs FileStructure) Equal(o FileStructure) bool {
	if fs.FileID != o.FileID || len(fs.TypeDefs) != len(o.TypeDefs) ||
		len(fs.Operations) != len(o.Operations) || len(fs.Fragments) != len(o.Fragments) {
		return false
	}
	for i := range fs.TypeDefs {
		if !fs.TypeDefs[i].Equal(o.TypeDefs[i]) {
			return false
		}
	}
	for i := range fs.Operations {
		if !operationStructureEqual(fs.Operations[i], o.Operations[i]) {
			return false
		}
	}
	for i := range fs.Fragments {
		if !fragmentStructureEqual(fs.Fragments[i], o.Fragments[i]) {
			return false
		}
	}
	return true
}
