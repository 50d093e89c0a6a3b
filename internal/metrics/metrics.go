// Package metrics computes project-wide schema/document statistics
// (type/field/operation counts, unused-fragment count, average
// selection depth) from the same tracked HIR aggregates the lint and
// analysis packages query, so a stats run costs nothing beyond what a
// lint pass already warmed in the cache.
//
// Grounded on the teacher's internal/metrics package (CodebaseStats)
// for the struct/formatter shape — FormatAsJSON returning a plain map
// and FormatAsText rendering aligned plain-text sections — adapted from
// the teacher's generic-indexer metrics (symbol counts, call-graph
// fan-in/fan-out) to this project's schema/document domain.
package metrics

import (
	"fmt"
	"strings"

	"github.com/graphqlintel/graphqlintel/internal/hir"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
)

// Stats is a snapshot of project-wide counts (SPEC_FULL.md "Domain-stack
// wiring": TypeCount, FieldCount, OperationCount, UnusedFragmentCount,
// AverageSelectionDepth).
type Stats struct {
	TypeCount             int
	FieldCount            int
	OperationCount        int
	FragmentCount         int
	UnusedFragmentCount   int
	AverageSelectionDepth float64
}

// Compute derives Stats for ref from the current snapshot. It never
// mutates any tracked input and is safe to call from multiple goroutines
// sharing the same query.Ctx's underlying snapshot.
func Compute(ctx *query.Ctx, ref hir.ProjectRef) Stats {
	types := hir.SchemaTypes.Get(ctx, ref)
	fragments := hir.AllFragments.Get(ctx, ref)
	operations := hir.AllOperations.Get(ctx, ref)

	fieldCount := 0
	for _, td := range types {
		fieldCount += len(td.Fields)
	}

	used := make(map[string]struct{})
	for _, op := range operations {
		closure := hir.OperationTransitiveFragments.Get(ctx, hir.TransitiveFragmentsKeyFor(ref, op.FileID, op.Index))
		for name := range closure {
			used[name] = struct{}{}
		}
	}
	unused := 0
	for name := range fragments {
		if _, ok := used[name]; !ok {
			unused++
		}
	}

	var totalDepth, sampled int
	for _, op := range operations {
		body := hir.OperationBodyOf.Get(ctx, hir.OperationBodyKeyFor(ref.Registry, op.FileID, op.Index))
		totalDepth += selectionSetDepth(body.Selections)
		sampled++
	}
	for name, frag := range fragments {
		body := hir.FragmentBodyOf.Get(ctx, hir.FragmentBodyKeyFor(ref.Registry, frag.FileID, name))
		totalDepth += selectionSetDepth(body.Selections)
		sampled++
	}

	var avgDepth float64
	if sampled > 0 {
		avgDepth = float64(totalDepth) / float64(sampled)
	}

	return Stats{
		TypeCount:             len(types),
		FieldCount:            fieldCount,
		OperationCount:        len(operations),
		FragmentCount:         len(fragments),
		UnusedFragmentCount:   unused,
		AverageSelectionDepth: avgDepth,
	}
}

// selectionSetDepth returns the deepest nesting level reached by ss,
// counting ss itself as depth 1 so a flat selection set still reports a
// meaningful depth for averaging.
func selectionSetDepth(ss syntax.SelectionSet) int {
	depth := 1
	for _, sel := range ss.Selections {
		var childDepth int
		switch s := sel.(type) {
		case *syntax.Field:
			if s.SelectionSet != nil {
				childDepth = selectionSetDepth(*s.SelectionSet)
			}
		case *syntax.InlineFragment:
			childDepth = selectionSetDepth(s.SelectionSet)
		case *syntax.FragmentSpread:
			// depth contribution of the spread target is counted
			// against the fragment's own body separately.
		}
		if 1+childDepth > depth {
			depth = 1 + childDepth
		}
	}
	return depth
}

func (s Stats) FormatAsJSON() map[string]interface{} {
	return map[string]interface{}{
		"type_count":              s.TypeCount,
		"field_count":             s.FieldCount,
		"operation_count":         s.OperationCount,
		"fragment_count":          s.FragmentCount,
		"unused_fragment_count":   s.UnusedFragmentCount,
		"average_selection_depth": s.AverageSelectionDepth,
	}
}

func (s Stats) FormatAsText() string {
	var b strings.Builder
	rows := []struct {
		label string
		value string
	}{
		{"Types", fmt.Sprintf("%d", s.TypeCount)},
		{"Fields", fmt.Sprintf("%d", s.FieldCount)},
		{"Operations", fmt.Sprintf("%d", s.OperationCount)},
		{"Fragments", fmt.Sprintf("%d", s.FragmentCount)},
		{"Unused fragments", fmt.Sprintf("%d", s.UnusedFragmentCount)},
		{"Average selection depth", fmt.Sprintf("%.2f", s.AverageSelectionDepth)},
	}
	width := 0
	for _, r := range rows {
		if len(r.label) > width {
			width = len(r.label)
		}
	}
	b.WriteString("Project statistics\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-*s %s\n", width+1, r.label+":", r.value)
	}
	return b.String()
}
