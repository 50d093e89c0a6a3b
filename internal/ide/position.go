package ide

import (
	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// locatedBlock is the parsed document and byte offset a cursor position
// resolves to, grounded on original_source/crates/graphql-ide/src/
// hover.rs's find_block_for_position + position_to_offset pair.
//
// All spans found inside doc are in doc's own (block-relative for a
// hosted file, whole-file otherwise) coordinate space. hostBase is the
// byte offset to add to translate such a span back to host-source
// coordinates, and hostLines converts the result to a line/character
// Position — both identity operations for a plain file.
type locatedBlock struct {
	doc       *syntax.ParsedDocument
	offset    int
	hostBase  int
	hostLines *syntax.LineIndex
}

// hostRange translates a span in doc's own coordinate space to a
// host-coordinate types.Range.
func (b locatedBlock) hostRange(span types.Span) types.Range {
	return b.hostLines.Range(types.Span{Start: span.Start + b.hostBase, End: span.End + b.hostBase})
}

// locate resolves pos (given in host-file line/character coordinates) to
// a parsed document and a byte offset within it. For a plain .graphql
// file that document is the whole file; for a hosted TS/JS file it is
// whichever embedded block's content span contains pos.
func locate(ctx *query.Ctx, reg *db.FileRegistry, fid types.FileID, pos types.Position) (locatedBlock, bool) {
	meta, ok := reg.Metadata.Get(ctx, fid)
	if !ok {
		return locatedBlock{}, false
	}
	result := syntax.ParseFile.Get(ctx, syntax.FileParseKey{Registry: reg, FileID: fid})

	if !meta.Kind.IsHosted() {
		if len(result.Documents) == 0 {
			return locatedBlock{}, false
		}
		doc := &result.Documents[0]
		offset, ok := doc.Lines.PositionToOffset(pos)
		if !ok {
			return locatedBlock{}, false
		}
		return locatedBlock{doc: doc, offset: offset, hostLines: doc.Lines}, true
	}

	content, ok := reg.Content.Get(ctx, fid)
	if !ok {
		return locatedBlock{}, false
	}
	hostLines := syntax.NewLineIndex(content)
	hostOffset, ok := hostLines.PositionToOffset(pos)
	if !ok {
		return locatedBlock{}, false
	}
	for i, block := range result.HostBlocks {
		if hostOffset < block.ContentHostSpan.Start || hostOffset > block.ContentHostSpan.End {
			continue
		}
		blockOffset, ok := block.ToBlockRelative(hostOffset)
		if !ok || i >= len(result.Documents) {
			return locatedBlock{}, false
		}
		return locatedBlock{
			doc:       &result.Documents[i],
			offset:    blockOffset,
			hostBase:  block.ContentHostSpan.Start,
			hostLines: hostLines,
		}, true
	}
	return locatedBlock{}, false
}

// lineIndexFor builds a LineIndex over fid's full content, in host-file
// coordinates. Used to translate HIR spans (already shifted to host
// coordinates by internal/hir, see body.go's shiftSelectionSet) back to
// a line/character Range for goto_definition/references targets.
func (a *Analysis) lineIndexFor(fid types.FileID) *syntax.LineIndex {
	content, ok := a.host.registry.Content.Get(a.ctx(), fid)
	if !ok {
		return nil
	}
	return syntax.NewLineIndex(content)
}
