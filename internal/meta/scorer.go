// Package meta post-processes merged provider findings: deduplication,
// canonical ordering, and the deterministic readiness score.
package meta

import (
	"sort"

	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// penalty is the single source of truth for severity point deductions.
// Individual rule descriptions never carry their own deduction values.
var penalty = map[types.Severity]int{
	types.SeverityCritical: 25,
	types.SeverityHigh:     15,
	types.SeverityMedium:   8,
	types.SeverityLow:      3,
	types.SeverityInfo:     1,
}

// DefaultMinScore is the default production-readiness score threshold.
const DefaultMinScore = 70

// DefaultFailOn is the default severity gate for production readiness.
const DefaultFailOn = types.SeverityHigh

// Score computes the readiness score and grade from active findings.
// Starts at 100, subtracts a fixed penalty per finding, clamps to [0, 100].
func Score(active []types.Finding) (int, string) {
	score := 100
	for _, f := range active {
		score -= penalty[f.Severity]
	}
	if score < 0 {
		score = 0
	}
	return score, Grade(score)
}

// Grade maps a score onto its qualitative band (inclusive lower bounds).
func Grade(score int) string {
	switch {
	case score >= 90:
		return types.GradeExcellent
	case score >= 80:
		return types.GradeGood
	case score >= 70:
		return types.GradeAcceptable
	case score >= 50:
		return types.GradePoor
	default:
		return types.GradeCritical
	}
}

// ProductionReady applies both readiness gates independently: the score must
// meet the minimum threshold AND no active finding may reach the fail-on
// severity. Neither gate substitutes for the other.
func ProductionReady(score int, active []types.Finding, minScore int, failOn types.Severity) bool {
	if score < minScore {
		return false
	}
	for _, f := range active {
		if f.Severity >= failOn {
			return false
		}
	}
	return true
}

// Sort orders findings canonically: severity descending, then rule ID
// ascending, then location ascending. Applied after the merge step so result
// ordering never depends on provider completion order.
func Sort(findings []types.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity > findings[j].Severity
		}
		if findings[i].RuleID != findings[j].RuleID {
			return findings[i].RuleID < findings[j].RuleID
		}
		return findings[i].Location < findings[j].Location
	})
}
