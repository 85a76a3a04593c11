// Package types defines shared data structures (Severity, Category, Finding,
// ScanResult) used across provider, scanner, meta, and output packages to
// prevent import cycles.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Severity represents the severity level of a finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a string to a Severity level.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SeverityCritical, nil
	case "HIGH":
		return SeverityHigh, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	case "INFO":
		return SeverityInfo, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity: %q", s)
	}
}

// MarshalJSON serializes severity as its string name so reports stay readable
// and byte-stable across runs.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Category classifies a finding into one of the fixed operational risk
// categories. The set is closed: providers must map any internal reason code
// onto one of these values.
type Category string

const (
	CategoryMissingTimeoutGuard      Category = "missing_timeout_guard"
	CategoryUnsafeRetryLoop          Category = "unsafe_retry_loop"
	CategorySilentFailurePath        Category = "silent_failure_path"
	CategoryNonDeterministicResponse Category = "non_deterministic_response"
	CategoryNoObservabilityHooks     Category = "no_observability_hooks"
	CategoryOverloadedToolScope      Category = "overloaded_tool_scope"
	CategoryNoFallbackContract       Category = "no_fallback_contract"
	CategoryMissingErrorSchema       Category = "missing_error_schema"
)

// Categories lists all valid categories in stable order.
func Categories() []Category {
	return []Category{
		CategoryMissingTimeoutGuard,
		CategoryUnsafeRetryLoop,
		CategorySilentFailurePath,
		CategoryNonDeterministicResponse,
		CategoryNoObservabilityHooks,
		CategoryOverloadedToolScope,
		CategoryNoFallbackContract,
		CategoryMissingErrorSchema,
	}
}

// ParseCategory validates a category string against the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Finding represents a single operational readiness issue. Findings are
// immutable once produced; identity is (RuleID, Location).
type Finding struct {
	RuleID      string   `json:"rule_id"`
	RuleName    string   `json:"rule_name,omitempty"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Message     string   `json:"message"`
	Remediation string   `json:"remediation,omitempty"`
	Provider    string   `json:"provider"`
	Location    string   `json:"location,omitempty"`
	Ignored     bool     `json:"ignored,omitempty"`
}

// Key returns the identity key used for deduplication.
func (f Finding) Key() string {
	return f.RuleID + "@" + f.Location
}

// Grade bands derived from the readiness score.
const (
	GradeExcellent  = "Excellent"
	GradeGood       = "Good"
	GradeAcceptable = "Acceptable"
	GradePoor       = "Poor"
	GradeCritical   = "Critical"
)

// ScanResult holds the complete result of scanning one tool definition.
// Findings contains active and ignored findings in canonical order; the score
// is computed from active findings only.
type ScanResult struct {
	Tool             string            `json:"tool"`
	Findings         []Finding         `json:"findings"`
	Score            int               `json:"score"`
	Grade            string            `json:"grade"`
	ProductionReady  bool              `json:"production_ready"`
	ProvidersRun     []string          `json:"providers_run"`
	ProvidersSkipped map[string]string `json:"providers_skipped,omitempty"`
	StartedAt        time.Time         `json:"-"`
	Duration         time.Duration     `json:"-"`
}

// Active returns the findings that contribute to the score.
func (r *ScanResult) Active() []Finding {
	var active []Finding
	for _, f := range r.Findings {
		if !f.Ignored {
			active = append(active, f)
		}
	}
	return active
}

// IgnoredFindings returns the suppressed findings retained for transparency.
func (r *ScanResult) IgnoredFindings() []Finding {
	var ignored []Finding
	for _, f := range r.Findings {
		if f.Ignored {
			ignored = append(ignored, f)
		}
	}
	return ignored
}

// CountBySeverity tallies active findings per severity.
func (r *ScanResult) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, f := range r.Findings {
		if !f.Ignored {
			counts[f.Severity]++
		}
	}
	return counts
}

// MarshalJSON implements custom JSON marshaling so Duration serializes as
// milliseconds and StartedAt as RFC 3339.
func (r ScanResult) MarshalJSON() ([]byte, error) {
	type Alias ScanResult
	return json.Marshal(struct {
		Alias
		StartedAt  string `json:"started_at,omitempty"`
		DurationMS int64  `json:"duration_ms"`
	}{
		Alias:      Alias(r),
		StartedAt:  formatTime(r.StartedAt),
		DurationMS: r.Duration.Milliseconds(),
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ToolResult is one entry of a batch scan: either a ScanResult or a per-tool
// error (malformed definition, missing name). A failed tool never aborts the
// batch.
type ToolResult struct {
	Tool   string      `json:"tool"`
	Result *ScanResult `json:"result,omitempty"`
	Err    string      `json:"error,omitempty"`
}

// BatchResult aggregates per-tool results in input order.
type BatchResult struct {
	Results  []ToolResult  `json:"results"`
	Duration time.Duration `json:"-"`
}

// Failed returns the number of tools whose scan produced an error.
func (b *BatchResult) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Err != "" {
			n++
		}
	}
	return n
}

// AllProductionReady reports whether every successfully scanned tool passed
// both readiness gates. Tools that failed to scan count as not ready.
func (b *BatchResult) AllProductionReady() bool {
	for _, r := range b.Results {
		if r.Err != "" || r.Result == nil || !r.Result.ProductionReady {
			return false
		}
	}
	return true
}
