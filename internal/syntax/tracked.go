package syntax

import (
	"reflect"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// parseResultEqual treats two ParseResults as equal when they'd produce
// identical diagnostics and identical HIR: same syntax errors, and
// structurally identical documents, line indexes and host blocks (spans
// included). Parse is rarely a back-edge, since almost every edit
// changes bytes that flow into the parse tree itself; the cheap length
// and error checks run first.
func parseResultEqual(a, b ParseResult) bool {
	if len(a.Documents) != len(b.Documents) {
		return false
	}
	if !reflect.DeepEqual(a.HostBlocks, b.HostBlocks) {
		return false
	}
	for i := range a.Documents {
		da, dbb := a.Documents[i], b.Documents[i]
		if len(da.Errors) != len(dbb.Errors) {
			return false
		}
		if len(da.Document.Definitions) != len(dbb.Document.Definitions) {
			return false
		}
		for j := range da.Errors {
			if da.Errors[j] != dbb.Errors[j] {
				return false
			}
		}
		if !reflect.DeepEqual(da.Document, dbb.Document) || !reflect.DeepEqual(da.Lines, dbb.Lines) {
			return false
		}
	}
	return true
}

// ParseFile is the tracked `parse(file) -> ParseResult` query (spec.md
// §4.3): it reads a file's content input and recomputes the parse only
// when that content actually changed.
var ParseFile = query.NewTracked(
	"parse-file",
	parseResultEqual,
	func(ctx *query.Ctx, fileAndReg FileParseKey) ParseResult {
		content, ok := fileAndReg.Registry.Content.Get(ctx, fileAndReg.FileID)
		if !ok {
			return ParseResult{}
		}
		meta, ok := fileAndReg.Registry.Metadata.Get(ctx, fileAndReg.FileID)
		if !ok {
			return ParseResult{}
		}
		result, err := Parse(meta.Kind, content)
		if err != nil {
			return ParseResult{}
		}
		return result
	},
)

// FileParseKey is ParseFile's key: a FileID plus the registry it lives
// in, since query.Tracked is keyed by a single comparable value and a
// FileRegistry pointer is itself comparable (pointer equality), letting
// two different projects' same-numbered FileIDs memoize independently.
type FileParseKey struct {
	Registry *db.FileRegistry
	FileID   types.FileID
}
