// Package syntax implements lossless, resilient GraphQL parsing
// (spec.md §4.3): the lexer/recursive-descent parser for plain .graphql
// source, and the tree-sitter-backed block extractor for GraphQL
// embedded in TypeScript/JavaScript via `gql`/`graphql` tagged
// templates.
package syntax

import "github.com/graphqlintel/graphqlintel/internal/types"

// ParseResult is the fully-resolved parse of one registered file: for a
// plain .graphql file, a single Document; for a hosted TS/JS file, one
// Document per discovered embedded block (spec.md §3 "parse(file) ->
// ParseResult").
type ParseResult struct {
	// Documents holds one entry per embedded block for hosted files, or
	// exactly one entry (block-relative span equal to the whole file)
	// for plain schema/executable files.
	Documents []ParsedDocument
	// HostBlocks is empty for plain files; for hosted files it records
	// the block metadata (host spans, interpolation blanking) each
	// Documents[i] was parsed from.
	HostBlocks []ExtractedBlock
}

// ParsedDocument pairs one Document with the syntax errors recovered
// while parsing it and a LineIndex over the exact text that was parsed
// (block-relative for hosted files).
type ParsedDocument struct {
	Document *Document
	Errors   []SyntaxError
	Lines    *LineIndex
}

// Parse parses content according to kind (spec.md §4.3). For hosted
// TypeScript/JavaScript files it first runs block discovery, then
// parses each block's (interpolation-blanked) content independently;
// a host file with zero embedded blocks yields an empty ParseResult,
// not an error.
func Parse(kind types.FileKind, content string) (ParseResult, error) {
	if !kind.IsHosted() {
		doc, errs := ParseDocument([]byte(content))
		return ParseResult{
			Documents: []ParsedDocument{{Document: doc, Errors: errs, Lines: NewLineIndex(content)}},
		}, nil
	}

	raw := []byte(content)
	if !looksLikeGraphQLTag(raw) {
		return ParseResult{}, nil
	}

	blocks, err := ExtractHostBlocks(kind, raw)
	if err != nil {
		return ParseResult{}, err
	}

	result := ParseResult{HostBlocks: blocks}
	for _, b := range blocks {
		doc, errs := ParseDocument([]byte(b.Content))
		result.Documents = append(result.Documents, ParsedDocument{
			Document: doc,
			Errors:   errs,
			Lines:    NewLineIndex(b.Content),
		})
	}
	return result, nil
}
