// Package diag defines the Diagnostic value type produced throughout the
// analysis core. Diagnostics are plain values, never exceptions: every
// tracked query in internal/query that can fail returns its diagnostics
// alongside its computed artifact (spec.md §4.1 "Failure").
package diag

import "github.com/graphqlintel/graphqlintel/internal/types"

// Diagnostic is the wire-stable shape from spec.md §6.
type Diagnostic struct {
	Severity types.Severity
	Span     types.Span
	Message  string
	Source   string
	Code     string
	FileURI  types.FileURI // set when the diagnostic is pinned to a different file than the query target
}

// Source tags, matching the two producers named in spec.md §6.
const (
	SourceAnalysis = "graphql-analysis"
	SourceLinter   = "graphql-linter"
)

// Well-known diagnostic codes referenced by tests and the CLI.
const (
	CodeSyntaxError          = "syntax-error"
	CodeUnknownType          = "unknown-type"
	CodeDuplicateType        = "duplicate-type"
	CodeUnknownField         = "unknown-field"
	CodeUnknownFragment      = "unknown-fragment"
	CodeUnknownArgument      = "unknown-argument"
	CodeMissingArgument      = "missing-required-argument"
	CodeUndeclaredVariable   = "undeclared-variable"
	CodeDuplicateOperation   = "duplicate-operation-name"
	CodeDuplicateFragment    = "duplicate-fragment-name"
	CodeInvalidTypeCondition = "invalid-fragment-type-condition"
	CodeInvalidEnumValue     = "invalid-enum-value"
	CodeInvalidRootOperation = "invalid-root-operation-type"
	CodeBuiltinRedefined     = "builtin-scalar-redefined"

	// Lint codes (spec.md §4.7), one per registered rule.
	CodeAnonymousOperation     = "no-anonymous-operations"
	CodeUnusedVariable         = "unused-variable"
	CodeOperationNameSuffix    = "operation-name-suffix"
	CodeDuplicateField         = "no-duplicate-fields"
	CodeRedundantField         = "redundant-fields"
	CodeDeprecatedUsage        = "no-deprecated"
	CodeMissingIDField         = "require-id-field"
	CodeScalarMutationResult   = "no-scalar-result-type-on-mutation"
	CodeNamingConvention       = "naming-convention"
	CodeInputNameSuffix        = "input-name"
	CodeTypenamePrefix         = "no-typename-prefix"
	CodeMissingDescription     = "require-description"
	CodeStrictIDInTypes        = "strict-id-in-types"
	CodeDuplicateEnumValue     = "unique-enum-value-names"
	CodeMissingDeprecationReason = "require-deprecation-reason"
	CodeNotAlphabetized        = "alphabetize"
	CodeDescriptionStyle       = "description-style"
	CodeHashtagDescription     = "no-hashtag-description"
	CodeDuplicateName          = "unique-names"
	CodeUnusedField            = "unused-fields"
	CodeUnusedFragment         = "unused-fragments"
	CodeUnreachableType        = "no-unreachable-types"
	CodeFragmentUsedOnce       = "no-one-place-fragments"
	CodeMixedExecutableDefinitions = "lone-executable-definition"
)

// New builds an error-severity diagnostic; callers chain WithX helpers.
func New(source, code, message string, span types.Span) Diagnostic {
	return Diagnostic{
		Severity: types.SeverityError,
		Span:     span,
		Message:  message,
		Source:   source,
		Code:     code,
	}
}

// WithSeverity returns a copy of d with Severity overridden (lint severity
// overrides apply this after the rule body runs, spec.md §4.7).
func (d Diagnostic) WithSeverity(sev types.Severity) Diagnostic {
	d.Severity = sev
	return d
}

// WithFileURI pins the diagnostic to a file other than the query target
// (e.g. a duplicate-type diagnostic attached to both defining files).
func (d Diagnostic) WithFileURI(uri types.FileURI) Diagnostic {
	d.FileURI = uri
	return d
}
