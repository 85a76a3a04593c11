package meta

import "github.com/nik-kale/mcp-readiness-scanner/internal/types"

// Deduplicate removes duplicate findings by (RuleID, Location) identity,
// keeping the highest severity instance. Two providers reporting the same
// rule at the same location collapse into one finding, not an accumulation.
func Deduplicate(findings []types.Finding) []types.Finding {
	best := make(map[string]types.Finding)
	order := make(map[string]int)
	for _, f := range findings {
		k := f.Key()
		existing, ok := best[k]
		if !ok {
			order[k] = len(order)
			best[k] = f
			continue
		}
		if f.Severity > existing.Severity {
			best[k] = f
		}
	}

	result := make([]types.Finding, len(best))
	for k, f := range best {
		result[order[k]] = f
	}
	return result
}
