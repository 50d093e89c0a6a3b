package lint

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/schema"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// Rules in this file run over the merged schema only, grouped by
// defining file (spec.md §4.7 StandaloneSchemaRule), grounded on
// original_source/crates/linter/src/rules/{input_name,no_typename_prefix,
// require_description,strict_id_in_types,unique_enum_value_names}.rs and
// graphql-linter/src/rules/type_names_should_be_pascal_case.rs.

func init() {
	registerStandaloneSchema(namingConventionRule{})
	registerStandaloneSchema(inputNameRule{})
	registerStandaloneSchema(noTypenamePrefixRule{})
	registerStandaloneSchema(requireDescriptionRule{})
	registerStandaloneSchema(strictIDInTypesRule{})
	registerStandaloneSchema(uniqueEnumValueNamesRule{})
	registerStandaloneSchema(requireDeprecationReasonRule{})
	registerStandaloneSchema(alphabetizeRule{})
	registerStandaloneSchema(descriptionStyleRule{})
	registerStandaloneSchema(noHashtagDescriptionRule{})
}

func add(m map[types.FileID][]diag.Diagnostic, fid types.FileID, d diag.Diagnostic) {
	m[fid] = append(m[fid], d)
}

func isPascalCase(name string) bool {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return false
	}
	for _, r := range name {
		if r == '_' {
			return false
		}
	}
	return true
}

// --- naming_convention (type names should be PascalCase) ---

type namingConventionRule struct{}

func (namingConventionRule) Meta() RuleMeta {
	return RuleMeta{ID: "naming_convention", Description: "type names should use PascalCase", DefaultSeverity: types.SeverityWarning}
}

func (r namingConventionRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	for _, td := range sch.Defs {
		if td.FileID == types.InvalidFileID || strings.HasPrefix(td.Name, "__") {
			continue
		}
		if !isPascalCase(td.Name) {
			add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeNamingConvention,
				fmt.Sprintf("type %q should use PascalCase", td.Name), td.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}

// --- input_name ---

type inputNameRule struct{}

func (inputNameRule) Meta() RuleMeta {
	return RuleMeta{ID: "input_name", Description: "input type names should end with a configurable suffix (default Input)", DefaultSeverity: types.SeverityWarning}
}

func (r inputNameRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	suffix := "Input"
	if s, ok := opts["suffix"].(string); ok && s != "" {
		suffix = s
	}
	for _, td := range sch.Defs {
		if td.Kind != hir.KindInput || td.FileID == types.InvalidFileID {
			continue
		}
		if !strings.HasSuffix(td.Name, suffix) {
			add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeInputNameSuffix,
				fmt.Sprintf("input type %q should end with %q", td.Name, suffix), td.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}

// --- no_typename_prefix ---

type noTypenamePrefixRule struct{}

func (noTypenamePrefixRule) Meta() RuleMeta {
	return RuleMeta{ID: "no_typename_prefix", Description: "field names should not repeat their parent type's name", DefaultSeverity: types.SeverityWarning}
}

func (r noTypenamePrefixRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	for _, td := range sch.Defs {
		if td.FileID == types.InvalidFileID {
			continue
		}
		if td.Kind != hir.KindObject && td.Kind != hir.KindInterface && td.Kind != hir.KindInput {
			continue
		}
		typeLower := strings.ToLower(td.Name)
		for _, f := range td.Fields {
			fieldLower := strings.ToLower(f.Name)
			if strings.HasPrefix(fieldLower, typeLower) && len(fieldLower) > len(typeLower) {
				add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeTypenamePrefix,
					fmt.Sprintf("field %q on type %q is redundantly prefixed with the type name", f.Name, td.Name), f.NameRange).WithSeverity(r.Meta().DefaultSeverity))
			}
		}
	}
	return out
}

// --- require_description ---

type requireDescriptionRule struct{}

func (requireDescriptionRule) Meta() RuleMeta {
	return RuleMeta{ID: "require_description", Description: "type definitions should carry a description", DefaultSeverity: types.SeverityWarning}
}

func (r requireDescriptionRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	for _, td := range sch.Defs {
		if td.FileID == types.InvalidFileID {
			continue
		}
		if td.Kind == hir.KindScalar && isBuiltinScalarName(td.Name) {
			continue
		}
		if strings.TrimSpace(td.Description) == "" {
			add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeMissingDescription,
				fmt.Sprintf("%s %q is missing a description", kindName(td.Kind), td.Name), td.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}

func isBuiltinScalarName(name string) bool {
	switch name {
	case "String", "Int", "Float", "Boolean", "ID":
		return true
	}
	return false
}

func kindName(k hir.TypeDefKind) string {
	switch k {
	case hir.KindInterface:
		return "interface"
	case hir.KindUnion:
		return "union"
	case hir.KindEnum:
		return "enum"
	case hir.KindScalar:
		return "scalar"
	case hir.KindInput:
		return "input"
	default:
		return "type"
	}
}

// --- strict_id_in_types ---

type strictIDInTypesRule struct{}

func (strictIDInTypesRule) Meta() RuleMeta {
	return RuleMeta{ID: "strict_id_in_types", Description: "non-root object types should declare an id: ID field", DefaultSeverity: types.SeverityWarning}
}

func (r strictIDInTypesRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	for _, td := range sch.Defs {
		if td.Kind != hir.KindObject || td.FileID == types.InvalidFileID || sch.Types.IsRootType(td.Name) {
			continue
		}
		hasIDOfTypeID := false
		for _, f := range td.Fields {
			if f.Name == "id" && f.Type.Name == "ID" {
				hasIDOfTypeID = true
				break
			}
		}
		if !hasIDOfTypeID {
			add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeStrictIDInTypes,
				fmt.Sprintf("type %q should declare an id: ID field", td.Name), td.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}

// --- unique_enum_value_names ---

type uniqueEnumValueNamesRule struct{}

func (uniqueEnumValueNamesRule) Meta() RuleMeta {
	return RuleMeta{ID: "unique_enum_value_names", Description: "enum value names should not collide across different enums", DefaultSeverity: types.SeverityWarning}
}

type enumValueOccurrence struct {
	EnumName  string
	FileID    types.FileID
	NameRange types.Span
}

func (r uniqueEnumValueNamesRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	byValue := make(map[string][]enumValueOccurrence)
	for _, td := range sch.Defs {
		if td.Kind != hir.KindEnum {
			continue
		}
		for _, ev := range td.EnumValues {
			byValue[ev.Name] = append(byValue[ev.Name], enumValueOccurrence{EnumName: td.Name, FileID: td.FileID, NameRange: td.NameRange})
		}
	}
	for value, occurrences := range byValue {
		if len(occurrences) <= 1 {
			continue
		}
		sort.Slice(occurrences, func(i, j int) bool { return occurrences[i].EnumName < occurrences[j].EnumName })
		names := make([]string, len(occurrences))
		for i, o := range occurrences {
			names[i] = o.EnumName
		}
		for _, o := range occurrences {
			if o.FileID == types.InvalidFileID {
				continue
			}
			add(out, o.FileID, diag.New(diag.SourceLinter, diag.CodeDuplicateEnumValue,
				fmt.Sprintf("enum value %q is used by multiple enums: %s", value, strings.Join(names, ", ")), o.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}

// --- require_deprecation_reason ---

type requireDeprecationReasonRule struct{}

func (requireDeprecationReasonRule) Meta() RuleMeta {
	return RuleMeta{ID: "require_deprecation_reason", Description: "@deprecated usages should give an explicit, non-default reason", DefaultSeverity: types.SeverityWarning}
}

func (r requireDeprecationReasonRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	const defaultReason = "No longer supported"
	for _, td := range sch.Defs {
		if td.FileID == types.InvalidFileID {
			continue
		}
		for _, f := range td.Fields {
			if f.Deprecated && (f.DeprecationReason == "" || f.DeprecationReason == defaultReason) {
				add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeMissingDeprecationReason,
					fmt.Sprintf("field %q is deprecated without a specific reason", f.Name), f.NameRange).WithSeverity(r.Meta().DefaultSeverity))
			}
		}
		for _, ev := range td.EnumValues {
			if ev.Deprecated && (ev.DeprecationReason == "" || ev.DeprecationReason == defaultReason) {
				add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeMissingDeprecationReason,
					fmt.Sprintf("enum value %q is deprecated without a specific reason", ev.Name), ev.NameRange).WithSeverity(r.Meta().DefaultSeverity))
			}
		}
	}
	return out
}

// --- alphabetize ---
//
// Fields on object/interface/input types should be declared in
// alphabetical order, a style convention some schema authors enforce for
// diff-friendliness.

type alphabetizeRule struct{}

func (alphabetizeRule) Meta() RuleMeta {
	return RuleMeta{ID: "alphabetize", Description: "fields should be declared in alphabetical order", DefaultSeverity: types.SeverityHint}
}

func (r alphabetizeRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	for _, td := range sch.Defs {
		if td.FileID == types.InvalidFileID || len(td.Fields) < 2 {
			continue
		}
		for i := 1; i < len(td.Fields); i++ {
			if td.Fields[i].Name < td.Fields[i-1].Name {
				add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeNotAlphabetized,
					fmt.Sprintf("field %q on type %q is out of alphabetical order", td.Fields[i].Name, td.Name), td.Fields[i].NameRange).WithSeverity(r.Meta().DefaultSeverity))
			}
		}
	}
	return out
}

// --- description_style ---
//
// Descriptions should use block-string (`"""..."""`) form rather than a
// single-line string, matching the common style convention for
// multi-sentence schema documentation. Since internal/hir.TypeDef only
// retains the extracted text (not whether it was a block string), this
// rule instead flags descriptions that look like they should be
// block-form but aren't: starting with a capital letter and ending in a
// period yet containing no embedded newline is accepted as single-line
// style; a description containing an embedded newline without having
// been written as a block string is not representable post-parse, so
// this rule's only representable check is punctuation consistency:
// descriptions should end in terminal punctuation.

type descriptionStyleRule struct{}

func (descriptionStyleRule) Meta() RuleMeta {
	return RuleMeta{ID: "description_style", Description: "descriptions should end with terminal punctuation", DefaultSeverity: types.SeverityHint}
}

func (r descriptionStyleRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	for _, td := range sch.Defs {
		if td.FileID == types.InvalidFileID || td.Description == "" {
			continue
		}
		last := td.Description[len(td.Description)-1]
		if last != '.' && last != '!' && last != '?' {
			add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeDescriptionStyle,
				fmt.Sprintf("description for %q should end with terminal punctuation", td.Name), td.NameRange).WithSeverity(r.Meta().DefaultSeverity))
		}
	}
	return out
}

// --- no_hashtag_description ---
//
// Warns about `#`-comment lines immediately preceding a definition that
// look like they were meant as a description but weren't written as one
// (spec.md's description extraction only captures `"""..."""`/`"..."`
// forms, so a `#`-comment is invisible to internal/hir — this rule
// therefore flags the opposite-and-representable case: a description
// string that itself still contains a literal '#', suggesting a
// hashtag-style comment got pasted into a real description by mistake).

type noHashtagDescriptionRule struct{}

func (noHashtagDescriptionRule) Meta() RuleMeta {
	return RuleMeta{ID: "no_hashtag_description", Description: "descriptions should not contain a literal '#' comment marker", DefaultSeverity: types.SeverityHint}
}

func (r noHashtagDescriptionRule) CheckSchema(ctx *Ctx, sch *schema.Schema, opts Options) map[types.FileID][]diag.Diagnostic {
	out := make(map[types.FileID][]diag.Diagnostic)
	if sch == nil {
		return out
	}
	for _, td := range sch.Defs {
		if td.FileID == types.InvalidFileID || !strings.Contains(td.Description, "#") {
			continue
		}
		add(out, td.FileID, diag.New(diag.SourceLinter, diag.CodeHashtagDescription,
			fmt.Sprintf("description for %q contains a '#' comment marker", td.Name), td.NameRange).WithSeverity(r.Meta().DefaultSeverity))
	}
	return out
}
