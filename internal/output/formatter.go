// Package output renders scan results for terminal (ANSI), JSON, SARIF,
// Markdown, and HTML output.
package output

import (
	"fmt"
	"io"

	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// ToolVersion is the scanner version reported in rendered output.
var ToolVersion = "dev"

// Formatter is the interface for rendering scan results.
type Formatter interface {
	Format(w io.Writer, result *types.ScanResult) error
	FormatBatch(w io.Writer, batch *types.BatchResult) error
}

// New returns the formatter registered under name.
func New(name string) (Formatter, error) {
	switch name {
	case "", "terminal":
		return &TerminalFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "sarif":
		return &SARIFFormatter{}, nil
	case "markdown":
		return &MarkdownFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %q", name)
	}
}

func severityOrder() []types.Severity {
	return []types.Severity{
		types.SeverityCritical,
		types.SeverityHigh,
		types.SeverityMedium,
		types.SeverityLow,
		types.SeverityInfo,
	}
}

func filterBySeverity(findings []types.Finding, sev types.Severity) []types.Finding {
	var result []types.Finding
	for _, f := range findings {
		if f.Severity == sev {
			result = append(result, f)
		}
	}
	return result
}
