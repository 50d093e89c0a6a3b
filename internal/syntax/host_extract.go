package syntax

import (
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/graphqlintel/graphqlintel/internal/types"
)

// ExtractedBlock is one embedded GraphQL document found inside a hosted
// TypeScript/JavaScript file (spec.md §4.3 "Block discovery").
type ExtractedBlock struct {
	// Index is the block's position among all blocks in the host file,
	// in source order; it is part of an operation/fragment's stable
	// identity (spec.md §3 "OperationStructure key").
	Index int
	// HostSpan is this block's byte range within the *host* source
	// (including the surrounding tagged-template backticks).
	HostSpan types.Span
	// ContentHostSpan is the byte range of the GraphQL text itself
	// within the host source, excluding the backticks.
	ContentHostSpan types.Span
	// Content is the GraphQL text, with every `${...}` interpolation
	// replaced by spaces of equal byte length so block-relative byte
	// offsets line up 1:1 with HostSpan (spec.md §4.3 "interpolations
	// blanked, preserving byte offsets").
	Content string
}

var tsQueryOnce, jsQueryOnce sync.Once
var tsParser, jsParser *tree_sitter.Parser
var tsQuery, jsQuery *tree_sitter.Query

// taggedTemplateQuery matches `gql`... / `graphql`... tagged templates,
// capturing the template string so its interpolation ranges can be
// found by walking its named children.
const taggedTemplateQuery = `
(call_expression
  function: (identifier) @tag.name
  arguments: (template_string) @template) @call
(tagged_template_expression
  tag: (identifier) @tag.name
  (template_string) @template) @call
`

func initJSQuery() {
	jsParser = tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	_ = jsParser.SetLanguage(lang)
	q, _ := tree_sitter.NewQuery(lang, taggedTemplateQuery)
	jsQuery = q
}

func initTSQuery() {
	tsParser = tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	_ = tsParser.SetLanguage(lang)
	q, _ := tree_sitter.NewQuery(lang, taggedTemplateQuery)
	tsQuery = q
}

// ExtractHostBlocks scans a TypeScript or JavaScript source file for
// `gql`/`graphql` tagged templates and returns each as an ExtractedBlock
// (spec.md §4.3). kind selects the grammar; any other FileKind returns
// nil, nil.
func ExtractHostBlocks(kind types.FileKind, content []byte) ([]ExtractedBlock, error) {
	var parser *tree_sitter.Parser
	var query *tree_sitter.Query

	switch kind {
	case types.FileKindHostedJavaScript:
		jsQueryOnce.Do(initJSQuery)
		parser, query = jsParser, jsQuery
	case types.FileKindHostedTypeScript:
		tsQueryOnce.Do(initTSQuery)
		parser, query = tsParser, tsQuery
	default:
		return nil, nil
	}
	if parser == nil || query == nil {
		return nil, nil
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, tree.RootNode(), content)
	captureNames := query.CaptureNames()

	var blocks []ExtractedBlock
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		var tagName string
		var templateNode *tree_sitter.Node
		for _, c := range match.Captures {
			switch captureNames[c.Index] {
			case "tag.name":
				n := c.Node
				tagName = string(content[n.StartByte():n.EndByte()])
			case "template":
				n := c.Node
				templateNode = &n
			}
		}
		if templateNode == nil || (tagName != "gql" && tagName != "graphql") {
			continue
		}
		blocks = append(blocks, buildExtractedBlock(len(blocks), templateNode, content))
	}
	return blocks, nil
}

// buildExtractedBlock turns a `template_string` node into an
// ExtractedBlock, blanking every `template_substitution` (the
// `${...}` child) so downstream byte offsets stay aligned.
func buildExtractedBlock(index int, templateNode *tree_sitter.Node, content []byte) ExtractedBlock {
	hostStart := int(templateNode.StartByte())
	hostEnd := int(templateNode.EndByte())

	// Content excludes the surrounding backticks.
	contentStart, contentEnd := hostStart, hostEnd
	if hostEnd > hostStart && content[hostStart] == '`' {
		contentStart++
	}
	if contentEnd > contentStart && content[contentEnd-1] == '`' {
		contentEnd--
	}

	buf := make([]byte, contentEnd-contentStart)
	copy(buf, content[contentStart:contentEnd])

	childCount := int(templateNode.ChildCount())
	for i := 0; i < childCount; i++ {
		child := templateNode.Child(uint(i))
		if child == nil || child.Kind() != "template_substitution" {
			continue
		}
		subStart := int(child.StartByte()) - contentStart
		subEnd := int(child.EndByte()) - contentStart
		if subStart < 0 || subEnd > len(buf) || subStart > subEnd {
			continue
		}
		for i := subStart; i < subEnd; i++ {
			if buf[i] != '\n' {
				buf[i] = ' '
			}
		}
	}

	return ExtractedBlock{
		Index:           index,
		HostSpan:        types.Span{Start: hostStart, End: hostEnd},
		ContentHostSpan: types.Span{Start: contentStart, End: contentEnd},
		Content:         string(buf),
	}
}

// ToBlockRelative converts a byte offset measured in host-source
// coordinates to block-relative coordinates (spec.md §4.3 "dual
// block-relative vs host-source tracking"). ok is false if offset
// falls outside the block's content span.
func (b ExtractedBlock) ToBlockRelative(hostOffset int) (int, bool) {
	if hostOffset < b.ContentHostSpan.Start || hostOffset > b.ContentHostSpan.End {
		return 0, false
	}
	return hostOffset - b.ContentHostSpan.Start, true
}

// ToHostOffset converts a block-relative byte offset back to host-source
// coordinates.
func (b ExtractedBlock) ToHostOffset(blockOffset int) int {
	return b.ContentHostSpan.Start + blockOffset
}

// looksLikeGraphQLTag is a cheap pre-filter used by callers that want to
// skip tree-sitter parsing entirely for files with no candidate tag,
// avoiding the grammar invocation on most TS/JS files in a project.
func looksLikeGraphQLTag(content []byte) bool {
	s := string(content)
	return strings.Contains(s, "gql`") || strings.Contains(s, "graphql`") ||
		strings.Contains(s, "gql(") || strings.Contains(s, "graphql(")
}
