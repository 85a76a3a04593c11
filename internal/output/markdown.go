package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// MarkdownFormatter renders results as GitHub-flavored markdown, designed for
// GitHub Actions Job Summaries and PR comments.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, result *types.ScanResult) error {
	f.printResult(w, result)
	f.printFooter(w)
	return nil
}

func (f *MarkdownFormatter) FormatBatch(w io.Writer, batch *types.BatchResult) error {
	ready := 0
	for _, entry := range batch.Results {
		if entry.Result != nil && entry.Result.ProductionReady {
			ready++
		}
	}
	fmt.Fprintf(w, "## MCP Readiness — %d tools, %d production ready, %d failed\n\n",
		len(batch.Results), ready, batch.Failed())

	for _, entry := range batch.Results {
		if entry.Err != "" {
			fmt.Fprintf(w, "### :x: `%s`\n\n> %s\n\n", entry.Tool, entry.Err)
			continue
		}
		f.printResult(w, entry.Result)
	}
	f.printFooter(w)
	return nil
}

func (f *MarkdownFormatter) printResult(w io.Writer, result *types.ScanResult) {
	active := result.Active()

	verdict := ":x: not production ready"
	if result.ProductionReady {
		verdict = ":white_check_mark: production ready"
	}
	fmt.Fprintf(w, "### %s `%s` — %d/100 (%s)\n\n",
		readinessEmoji(result), result.Tool, result.Score, result.Grade)
	fmt.Fprintf(w, "> %s · providers: %s\n\n",
		verdict, strings.Join(result.ProvidersRun, ", "))

	counts := result.CountBySeverity()
	var badges []string
	for _, sev := range severityOrder() {
		c := counts[sev]
		if c == 0 {
			continue
		}
		badges = append(badges, fmt.Sprintf("%s **%d %s**", severityEmoji(sev), c, sev.String()))
	}
	if len(badges) > 0 {
		fmt.Fprintf(w, "%s\n\n", strings.Join(badges, " · "))
	}

	if len(active) > 0 {
		fmt.Fprintf(w, "| Rule | Severity | Category | Location | Message |\n")
		fmt.Fprintf(w, "|------|----------|----------|----------|---------|\n")
		for _, finding := range active {
			fmt.Fprintf(w, "| `%s` | %s %s | `%s` | `%s` | %s |\n",
				finding.RuleID,
				severityEmoji(finding.Severity), finding.Severity.String(),
				finding.Category,
				finding.Location,
				escapeMarkdown(truncateMarkdown(finding.Message, 100)))
		}
		fmt.Fprintf(w, "\n")
	}

	if ignored := result.IgnoredFindings(); len(ignored) > 0 {
		fmt.Fprintf(w, "<details>\n<summary>Ignored findings (%d)</summary>\n\n", len(ignored))
		for _, finding := range ignored {
			fmt.Fprintf(w, "- `%s` — %s\n", finding.RuleID,
				escapeMarkdown(truncateMarkdown(finding.Message, 100)))
		}
		fmt.Fprintf(w, "\n</details>\n\n")
	}

	if len(result.ProvidersSkipped) > 0 {
		fmt.Fprintf(w, "**Providers skipped:**\n\n")
		for _, name := range sortedKeys(result.ProvidersSkipped) {
			fmt.Fprintf(w, "- `%s`: %s\n", name, result.ProvidersSkipped[name])
		}
		fmt.Fprintf(w, "\n")
	}
}

func (f *MarkdownFormatter) printFooter(w io.Writer) {
	fmt.Fprintf(w, "---\n")
	fmt.Fprintf(w, "*Scanned by mcpready %s*\n", ToolVersion)
}

func readinessEmoji(result *types.ScanResult) string {
	if result.ProductionReady {
		return ":white_check_mark:"
	}
	return ":rotating_light:"
}

func severityEmoji(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return ":red_circle:"
	case types.SeverityHigh:
		return ":orange_circle:"
	case types.SeverityMedium:
		return ":yellow_circle:"
	case types.SeverityLow:
		return ":blue_circle:"
	case types.SeverityInfo:
		return ":white_circle:"
	default:
		return ":black_circle:"
	}
}

func truncateMarkdown(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
