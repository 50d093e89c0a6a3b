package ide

import (
	"github.com/graphqlintel/graphqlintel/internal/metrics"
)

// Stats is `stats() -> Stats` (SPEC_FULL.md "Domain-stack wiring"):
// project-wide type/field/operation/fragment counts and average
// selection depth, exposed to the CLI's `lint --stats` flag and the
// MCP `stats` tool.
func (a *Analysis) Stats() metrics.Stats {
	return withCycleRecovery(metrics.Stats{}, func() metrics.Stats {
		return metrics.Compute(a.ctx(), a.ref)
	})
}
