package ide

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/graphqlintel/graphqlintel/internal/analysis"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// Diagnostics is `diagnostics(path) -> Vec<Diagnostic>` (spec.md §4.8):
// merged file and project-lint diagnostics visible for this file.
func (a *Analysis) Diagnostics(path types.FileURI) []diag.Diagnostic {
	return withCycleRecovery[[]diag.Diagnostic](nil, func() []diag.Diagnostic {
		fid, ok := a.fileID(path)
		if !ok {
			return nil
		}
		return analysis.FileDiagnostics(a.ctx(), a.host.registry, fid, a.ref, a.host.Overrides)
	})
}

// ValidationDiagnostics is `file_validation_diagnostics(path)` (spec.md
// §4.6): the same pipeline as Diagnostics but omitting step 4 (lint),
// used by the batch CLI `validate` path so lint output isn't reported
// twice when the caller also runs `lint` separately.
func (a *Analysis) ValidationDiagnostics(path types.FileURI) []diag.Diagnostic {
	return withCycleRecovery[[]diag.Diagnostic](nil, func() []diag.Diagnostic {
		fid, ok := a.fileID(path)
		if !ok {
			return nil
		}
		return analysis.FileValidationDiagnostics(a.ctx(), a.host.registry, fid, a.ref)
	})
}

// DiagnosticsWire is Diagnostics translated to the wire shape (spec.md
// §6), for the CLI's --format json output and MCP tool responses. A
// diagnostic pinned to a different file than path (FileURI set) is
// translated against that file's own line index.
func (a *Analysis) DiagnosticsWire(path types.FileURI) []diag.Wire {
	return a.toWire(path, a.Diagnostics(path))
}

// ValidationDiagnosticsWire is ValidationDiagnostics translated to the
// wire shape, for the CLI's `validate --format json` path.
func (a *Analysis) ValidationDiagnosticsWire(path types.FileURI) []diag.Wire {
	return a.toWire(path, a.ValidationDiagnostics(path))
}

func (a *Analysis) toWire(path types.FileURI, diags []diag.Diagnostic) []diag.Wire {
	out := make([]diag.Wire, 0, len(diags))
	for _, d := range diags {
		target := path
		if d.FileURI != "" {
			target = d.FileURI
		}
		fid, ok := a.fileID(target)
		if !ok {
			continue
		}
		li := a.lineIndexFor(fid)
		if li == nil {
			continue
		}
		rng := li.Range(d.Span)
		out = append(out, diag.Wire{
			Severity: d.Severity.String(),
			Range: diag.WireRange{
				Start: diag.WirePosition{Line: rng.Start.Line, Character: rng.Start.Character},
				End:   diag.WirePosition{Line: rng.End.Line, Character: rng.End.Character},
			},
			Message: d.Message,
			Source:  d.Source,
			Code:    d.Code,
			FileURI: string(d.FileURI),
		})
	}
	return out
}

// DiagnosticsForChange is `diagnostics_for_change(path) ->
// Map<FilePath, Vec<Diagnostic>>` (spec.md §4.8): a policy decision, not
// an incremental-engine guarantee — if path is a schema file, every
// executable file's diagnostics are recomputed and returned alongside
// the schema file's own, since a schema edit can change what any
// document resolves against; if path is an executable file, only that
// file's diagnostics are returned.
//
// The per-file recomputation fans out across goroutines with errgroup,
// each one reusing this same already-open snapshot's read lock (spec.md
// §5 "concurrent reads under one snapshot are safe").
func (a *Analysis) DiagnosticsForChange(path types.FileURI) map[types.FileURI][]diag.Diagnostic {
	fid, ok := a.fileID(path)
	if !ok {
		return nil
	}
	meta, ok := a.host.registry.Metadata.Get(a.ctx(), fid)
	if !ok {
		return nil
	}

	targets := []types.FileURI{path}
	if meta.Kind == types.FileKindSchema {
		if pf, ok := a.ref.Project.Get(a.ctx()); ok {
			for _, execFid := range pf.ExecutableFileIDs {
				if uri, ok := a.host.registry.URI(execFid); ok {
					targets = append(targets, uri)
				}
			}
		}
	}

	out := make(map[types.FileURI][]diag.Diagnostic, len(targets))
	var mu sync.Mutex
	var g errgroup.Group
	for _, uri := range targets {
		uri := uri
		g.Go(func() error {
			diags := a.Diagnostics(uri)
			mu.Lock()
			out[uri] = diags
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // every goroutine above is infallible; error is always nil

	return out
}

// DiagnosticsCoalesced wraps Snapshot+Diagnostics with singleflight
// keyed on (revision, path), collapsing duplicate concurrent requests
// for the same file at the same revision into one computation —
// realistic under an editor's keystroke-triggered request bursts, and
// consistent with "queries are expected to be short" (spec.md §5) plus
// the teacher's request-coalescing discipline elsewhere in the pack.
func (h *AnalysisHost) DiagnosticsCoalesced(path types.FileURI) ([]diag.Diagnostic, error) {
	a := h.Snapshot()
	defer a.Release()

	key := fmt.Sprintf("%d:%s", a.Revision(), path)
	v, err, _ := h.group.Do(key, func() (any, error) {
		return a.Diagnostics(path), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]diag.Diagnostic), nil
}
