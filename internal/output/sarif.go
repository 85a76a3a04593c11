package output

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// SARIFFormatter renders results in SARIF 2.1.0 for code-scanning uploads.
// Output is byte-deterministic for a given finding set: struct encoding fixes
// key order, the rules catalogue is sorted by rule ID, and findings are
// already in canonical order. Only active findings are emitted, so a SARIF
// consumer sees exactly the findings that produced the score.
type SARIFFormatter struct{}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name,omitempty"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID     string                `json:"ruleId"`
	RuleIndex  int                   `json:"ruleIndex"`
	Level      string                `json:"level"`
	Message    sarifMessage          `json:"message"`
	Locations  []sarifLocation       `json:"locations"`
	Properties sarifResultProperties `json:"properties"`
}

// sarifResultProperties carries the exact severity alongside the coarse SARIF
// level; the three-valued level alone cannot distinguish CRITICAL from HIGH or
// LOW from INFO.
type sarifResultProperties struct {
	Provider string `json:"provider,omitempty"`
	Severity string `json:"severity"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

func (f *SARIFFormatter) Format(w io.Writer, result *types.ScanResult) error {
	return f.encode(w, f.run(result))
}

// FormatBatch emits one SARIF run per successfully scanned tool. Failed tools
// have no findings to report and are omitted.
func (f *SARIFFormatter) FormatBatch(w io.Writer, batch *types.BatchResult) error {
	var runs []sarifRun
	for _, entry := range batch.Results {
		if entry.Result == nil {
			continue
		}
		runs = append(runs, f.run(entry.Result))
	}
	return f.encode(w, runs...)
}

func (f *SARIFFormatter) run(result *types.ScanResult) sarifRun {
	active := result.Active()

	// Rules catalogue: one entry per distinct rule ID, sorted by ID so the
	// catalogue never depends on finding order.
	seen := map[string]sarifRule{}
	for _, finding := range active {
		if _, ok := seen[finding.RuleID]; ok {
			continue
		}
		desc := finding.RuleName
		if desc == "" {
			desc = finding.Message
		}
		seen[finding.RuleID] = sarifRule{
			ID:               finding.RuleID,
			Name:             finding.RuleName,
			ShortDescription: sarifMessage{Text: desc},
			DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(finding.Severity)},
			Properties:       sarifRuleProperties{Tags: []string{string(finding.Category)}},
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rules := make([]sarifRule, 0, len(ids))
	ruleIndex := map[string]int{}
	for i, id := range ids {
		ruleIndex[id] = i
		rules = append(rules, seen[id])
	}

	results := make([]sarifResult, 0, len(active))
	for _, finding := range active {
		uri := finding.Location
		if uri == "" {
			// Whole-definition locator when the finding names no field.
			uri = result.Tool
		}
		results = append(results, sarifResult{
			RuleID:    finding.RuleID,
			RuleIndex: ruleIndex[finding.RuleID],
			Level:     severityToLevel(finding.Severity),
			Message:   sarifMessage{Text: finding.Message},
			Locations: []sarifLocation{
				{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: uri},
					},
				},
			},
			Properties: sarifResultProperties{
				Provider: finding.Provider,
				Severity: finding.Severity.String(),
			},
		})
	}

	return sarifRun{
		Tool: sarifTool{
			Driver: sarifDriver{
				Name:           "mcpready",
				Version:        ToolVersion,
				InformationURI: "https://github.com/nik-kale/mcp-readiness-scanner",
				Rules:          rules,
			},
		},
		Results: results,
	}
}

func (f *SARIFFormatter) encode(w io.Writer, runs ...sarifRun) error {
	if runs == nil {
		runs = []sarifRun{}
	}
	log := sarifLog{
		Schema:  "https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs:    runs,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

// severityToLevel maps finding severities onto the three SARIF levels.
func severityToLevel(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical, types.SeverityHigh:
		return "error"
	case types.SeverityMedium:
		return "warning"
	case types.SeverityLow, types.SeverityInfo:
		return "note"
	default:
		return "note"
	}
}
