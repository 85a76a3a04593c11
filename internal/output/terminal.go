package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// ANSI color codes
const (
	reset     = "\033[0m"
	bold      = "\033[1m"
	dim       = "\033[2m"
	underline = "\033[4m"
	red       = "\033[31m"
	green     = "\033[32m"
	yellow    = "\033[33m"
	blue      = "\033[34m"
	cyan      = "\033[36m"
)

const (
	barWidth    = 40
	lineWidth   = 72
	ruleIDWidth = 12
	nameWidth   = 32
)

// TerminalFormatter renders results in a triage-optimized format.
type TerminalFormatter struct {
	NoColor bool
	Verbose bool
}

func (f *TerminalFormatter) color(code, text string) string {
	if f.NoColor {
		return text
	}
	return code + text + reset
}

func (f *TerminalFormatter) Format(w io.Writer, result *types.ScanResult) error {
	if !f.NoColor && os.Getenv("NO_COLOR") != "" {
		f.NoColor = true
	}

	f.printHeader(w, result)
	f.printScore(w, result)

	active := result.Active()
	if len(active) == 0 {
		fmt.Fprintf(w, "\n  %s No readiness issues found.\n", f.color(green, "✔"))
	} else {
		f.printDashboard(w, result.CountBySeverity())
		for _, sev := range severityOrder() {
			filtered := filterBySeverity(active, sev)
			if len(filtered) > 0 {
				f.printSeveritySection(w, sev, filtered)
			}
		}
	}

	if ignored := result.IgnoredFindings(); len(ignored) > 0 {
		header := f.sectionHeader(fmt.Sprintf("IGNORED (%d)", len(ignored)))
		fmt.Fprintf(w, "\n%s\n\n", f.color(bold, header))
		for _, finding := range ignored {
			fmt.Fprintf(w, "    %s %s %s\n",
				f.color(dim, "⊘"),
				f.color(dim, fmt.Sprintf("%-*s", ruleIDWidth, finding.RuleID)),
				f.color(dim, truncate(finding.Message, 50)))
		}
	}

	f.printProviders(w, result)
	f.printFooter(w, result)
	return nil
}

func (f *TerminalFormatter) FormatBatch(w io.Writer, batch *types.BatchResult) error {
	for i := range batch.Results {
		entry := &batch.Results[i]
		if entry.Err != "" {
			fmt.Fprintf(w, "\n  %s %s: %s\n",
				f.color(red, "✖"),
				f.color(bold, entry.Tool),
				entry.Err)
			continue
		}
		if err := f.Format(w, entry.Result); err != nil {
			return err
		}
	}

	sep := f.separator()
	ready := 0
	for _, entry := range batch.Results {
		if entry.Result != nil && entry.Result.ProductionReady {
			ready++
		}
	}
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %d tools · %d production ready · %d failed · %.2fs\n",
		len(batch.Results), ready, batch.Failed(), batch.Duration.Seconds())
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
	return nil
}

func (f *TerminalFormatter) separator() string {
	return strings.Repeat("─", lineWidth)
}

func (f *TerminalFormatter) sectionHeader(title string) string {
	prefix := "── " + title + " "
	displayLen := utf8.RuneCountInString(prefix)
	remaining := max(lineWidth-displayLen, 0)
	return prefix + strings.Repeat("─", remaining)
}

func (f *TerminalFormatter) printHeader(w io.Writer, result *types.ScanResult) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %s\n", f.color(bold, "MCP READINESS SCAN"))

	parts := []string{fmt.Sprintf("Tool: %s", result.Tool)}
	if result.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", result.Duration.Seconds()))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ·  "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) printScore(w io.Writer, result *types.ScanResult) {
	verdict := f.color(red+bold, "NOT PRODUCTION READY")
	if result.ProductionReady {
		verdict = f.color(green+bold, "PRODUCTION READY")
	}
	scoreStr := fmt.Sprintf("%d/100", result.Score)
	fmt.Fprintf(w, "\n  %s %s  %s  %s\n",
		f.color(bold, "Score:"),
		f.color(f.gradeColor(result.Grade)+bold, scoreStr),
		f.color(f.gradeColor(result.Grade), result.Grade),
		verdict)
}

func (f *TerminalFormatter) gradeColor(grade string) string {
	switch grade {
	case types.GradeExcellent, types.GradeGood:
		return green
	case types.GradeAcceptable:
		return yellow
	default:
		return red
	}
}

func (f *TerminalFormatter) printDashboard(w io.Writer, counts map[types.Severity]int) {
	highest := 0
	for _, c := range counts {
		if c > highest {
			highest = c
		}
	}
	if highest == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, sev := range severityOrder() {
		c := counts[sev]
		if c == 0 {
			continue
		}
		label := fmt.Sprintf("  %-10s", sev.String())
		bar := f.renderBar(c, highest, barWidth, sev)
		fmt.Fprintf(w, "%s %s %4d\n", f.color(bold, label), bar, c)
	}
}

func (f *TerminalFormatter) printSeveritySection(w io.Writer, sev types.Severity, findings []types.Finding) {
	title := fmt.Sprintf("%s (%d)", sev.String(), len(findings))
	header := f.sectionHeader(title)
	fmt.Fprintf(w, "\n%s\n", f.color(bold, header))

	for _, group := range groupByLocation(findings) {
		fmt.Fprintf(w, "\n  %s\n", f.color(bold+underline, group.location))
		for _, finding := range group.findings {
			f.printFinding(w, finding)
		}
	}
}

func (f *TerminalFormatter) printFinding(w io.Writer, finding types.Finding) {
	icon := f.severityIcon(finding.Severity)
	ruleID := fmt.Sprintf("%-*s", ruleIDWidth, finding.RuleID)
	name := fmt.Sprintf("%-*s", nameWidth, truncate(finding.RuleName, nameWidth))

	fmt.Fprintf(w, "    %s %s %s %s\n",
		icon,
		f.color(bold, ruleID),
		name,
		f.color(cyan, finding.Provider))
	fmt.Fprintf(w, "      %s %s\n", f.color(dim, "│"), truncate(finding.Message, 64))
	if f.Verbose && finding.Remediation != "" {
		fmt.Fprintf(w, "      %s %s\n", f.color(dim, "│"), f.color(yellow, finding.Remediation))
	}
}

func (f *TerminalFormatter) printProviders(w io.Writer, result *types.ScanResult) {
	if len(result.ProvidersSkipped) == 0 {
		return
	}
	names := make([]string, 0, len(result.ProvidersSkipped))
	for name := range result.ProvidersSkipped {
		names = append(names, name)
	}
	sort.Strings(names)

	header := f.sectionHeader("PROVIDERS SKIPPED")
	fmt.Fprintf(w, "\n%s\n\n", f.color(bold, header))
	for _, name := range names {
		fmt.Fprintf(w, "  %s %s: %s\n",
			f.color(yellow, "⚠"), name, result.ProvidersSkipped[name])
	}
}

func (f *TerminalFormatter) printFooter(w io.Writer, result *types.ScanResult) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))

	parts := []string{
		fmt.Sprintf("%d findings", len(result.Active())),
		fmt.Sprintf("providers: %s", strings.Join(result.ProvidersRun, ", ")),
	}
	if n := len(result.IgnoredFindings()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d ignored", n))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, " · "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) severityIcon(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return f.color(red+bold, "✖")
	case types.SeverityHigh:
		return f.color(red, "▲")
	case types.SeverityMedium:
		return f.color(yellow, "■")
	case types.SeverityLow:
		return f.color(blue, "●")
	case types.SeverityInfo:
		return f.color(cyan, "○")
	default:
		return "?"
	}
}

func (f *TerminalFormatter) severityColor(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return red + bold
	case types.SeverityHigh:
		return red
	case types.SeverityMedium:
		return yellow
	case types.SeverityLow:
		return blue
	case types.SeverityInfo:
		return cyan
	default:
		return ""
	}
}

func (f *TerminalFormatter) renderBar(count, highest, width int, sev types.Severity) string {
	filled := count * width / highest
	if filled == 0 && count > 0 {
		filled = 1
	}
	if filled >= width {
		filled = width - 1
	}
	empty := width - filled

	filledStr := strings.Repeat("█", filled)
	emptyStr := strings.Repeat("░", empty)
	return f.color(f.severityColor(sev), filledStr) + f.color(dim, emptyStr)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

type locationGroup struct {
	location string
	findings []types.Finding
}

func groupByLocation(findings []types.Finding) []locationGroup {
	order := make(map[string]int)
	grouped := make(map[string][]types.Finding)
	for _, f := range findings {
		loc := f.Location
		if loc == "" {
			loc = "(definition)"
		}
		if _, ok := order[loc]; !ok {
			order[loc] = len(order)
		}
		grouped[loc] = append(grouped[loc], f)
	}
	result := make([]locationGroup, 0, len(grouped))
	for loc, list := range grouped {
		result = append(result, locationGroup{location: loc, findings: list})
	}
	sort.Slice(result, func(i, j int) bool {
		return order[result[i].location] < order[result[j].location]
	})
	return result
}
