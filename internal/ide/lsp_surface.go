package ide

import (
	"fmt"
	"strings"

	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// FoldingRange is one collapsible region (LSP's FoldingRange, reduced
// to the byte-span shape this repo's spans already carry).
type FoldingRange struct {
	Range types.Range
}

// FoldingRanges is `folding_ranges(path)` (spec.md §4.8): one region
// per type definition and per operation/fragment body, taken straight
// from file_structure's FullRange fields — no new traversal needed.
func (a *Analysis) FoldingRanges(path types.FileURI) []FoldingRange {
	return withCycleRecovery[[]FoldingRange](nil, func() []FoldingRange {
		fid, ok := a.fileID(path)
		if !ok {
			return nil
		}
		ctx := a.ctx()
		li := a.lineIndexFor(fid)
		if li == nil {
			return nil
		}
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(a.host.registry, fid))

		var out []FoldingRange
		for _, td := range fs.TypeDefs {
			out = append(out, FoldingRange{Range: li.Range(td.FullRange)})
		}
		for _, op := range fs.Operations {
			out = append(out, FoldingRange{Range: li.Range(op.FullRange)})
		}
		for _, frag := range fs.Fragments {
			out = append(out, FoldingRange{Range: li.Range(frag.FullRange)})
		}
		return out
	})
}

// InlayHint is one inline annotation (LSP's InlayHint, reduced to
// position + label).
type InlayHint struct {
	Position types.Position
	Label    string
}

// InlayHints is `inlay_hints(path, range)` (spec.md §4.8): a type
// annotation at each declared variable's `: Type` position, so an
// editor can render `$id: ID!` even when the author wrote just `$id`
// before the type checker filled in a default. Hints outside rng are
// omitted.
func (a *Analysis) InlayHints(path types.FileURI, rng types.Range) []InlayHint {
	return withCycleRecovery[[]InlayHint](nil, func() []InlayHint {
		fid, ok := a.fileID(path)
		if !ok {
			return nil
		}
		ctx := a.ctx()
		li := a.lineIndexFor(fid)
		if li == nil {
			return nil
		}
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(a.host.registry, fid))

		var out []InlayHint
		for _, op := range fs.Operations {
			for _, v := range op.Variables {
				pos := li.Range(v.Type.Span).Start
				if !rng.Contains(pos) {
					continue
				}
				out = append(out, InlayHint{Position: pos, Label: fmt.Sprintf(": %s", v.Type.String())})
			}
		}
		return out
	})
}

// CodeLens is one "N references" annotation shown above a fragment
// definition (LSP's CodeLens, reduced to position + title).
type CodeLens struct {
	Range types.Range
	Title string
}

// CodeLens is `code_lens(path)` (spec.md §4.8): a reference-count lens
// above every fragment defined in path, reusing References' spread
// search so the count always matches what References would return.
func (a *Analysis) CodeLens(path types.FileURI) []CodeLens {
	return withCycleRecovery[[]CodeLens](nil, func() []CodeLens {
		fid, ok := a.fileID(path)
		if !ok {
			return nil
		}
		ctx := a.ctx()
		li := a.lineIndexFor(fid)
		if li == nil {
			return nil
		}
		fs := hir.FileStructureOf.Get(ctx, hir.FileKeyFor(a.host.registry, fid))

		var out []CodeLens
		for _, frag := range fs.Fragments {
			refs := a.fragmentReferences(ctx, frag.Name)
			count := 0
			for _, r := range refs {
				if r.URI != path || r.Range.Start != li.Range(frag.NameRange).Start {
					count++
				}
			}
			title := fmt.Sprintf("%d references", count)
			if count == 1 {
				title = "1 reference"
			}
			out = append(out, CodeLens{Range: li.Range(frag.NameRange), Title: title})
		}
		return out
	})
}

type virtualFileResult struct {
	content string
	ok      bool
}

// VirtualFileContent is the `graphql/virtualFileContent` custom LSP
// method (spec.md §6): the concatenation of every embedded GraphQL
// block's own text, in source order, the way an editor shows a hosted
// file's GraphQL content as if it were a standalone document —
// grounded on original_source/crates/extract/src/lib.rs's virtual-file
// rendering, which joins blocks with blank-line separators so each
// block's line numbers still roughly track its position in the host
// file.
func (a *Analysis) VirtualFileContent(path types.FileURI) (string, bool) {
	res := withCycleRecovery(virtualFileResult{}, func() virtualFileResult {
		fid, ok := a.fileID(path)
		if !ok {
			return virtualFileResult{}
		}
		ctx := a.ctx()
		result := syntax.ParseFile.Get(ctx, syntax.FileParseKey{Registry: a.host.registry, FileID: fid})
		if len(result.HostBlocks) == 0 {
			return virtualFileResult{}
		}

		var b strings.Builder
		for i, block := range result.HostBlocks {
			if i > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(block.Content)
		}
		return virtualFileResult{content: b.String(), ok: true}
	})
	return res.content, res.ok
}
