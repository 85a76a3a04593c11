package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	mcpready "github.com/nik-kale/mcp-readiness-scanner"
)

var explainCmd = &cobra.Command{
	Use:   "explain <RULE_ID>",
	Short: "Show detailed information about a rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	var opts []mcpready.Option
	if flagRules != "" {
		opts = append(opts, mcpready.WithCustomRules(flagRules))
	}
	if flagPolicies != "" {
		opts = append(opts, mcpready.WithCustomPolicies(flagPolicies))
	}

	detail, err := mcpready.ExplainRule(args[0], opts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	color := func(code, text string) string {
		if flagNoColor {
			return text
		}
		return code + text + "\033[0m"
	}

	bold := "\033[1m"
	dim := "\033[2m"
	yellow := "\033[33m"
	cyan := "\033[36m"
	red := "\033[31m"
	green := "\033[32m"

	sevColor := cyan
	switch detail.Severity {
	case "CRITICAL":
		sevColor = red + bold
	case "HIGH":
		sevColor = red
	case "MEDIUM":
		sevColor = yellow
	}

	fmt.Fprintf(w, "\n%s %s\n", color(dim, "Rule:"), color(bold, detail.ID))
	fmt.Fprintf(w, "%s %s\n", color(dim, "Name:"), detail.Name)
	fmt.Fprintf(w, "%s %s\n", color(dim, "Severity:"), color(sevColor, detail.Severity))
	fmt.Fprintf(w, "%s %s\n", color(dim, "Category:"), detail.Category)
	fmt.Fprintf(w, "%s %s\n", color(dim, "Provider:"), detail.Provider)

	if detail.Description != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", color(bold, "Description:"), detail.Description)
	}
	if detail.Remediation != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", color(bold, "Remediation:"), detail.Remediation)
	}

	if len(detail.Patterns) > 0 {
		fmt.Fprintf(w, "\n%s\n", color(bold, "Patterns:"))
		for i, p := range detail.Patterns {
			fmt.Fprintf(w, "  %d. %s\n", i+1, color(dim, p))
		}
	}

	if len(detail.TruePositives) > 0 {
		fmt.Fprintf(w, "\n%s\n", color(bold, "True Positives:"))
		for _, ex := range detail.TruePositives {
			fmt.Fprintf(w, "  %s %s\n", color(red, "✖"), ex)
		}
	}

	if len(detail.FalsePositives) > 0 {
		fmt.Fprintf(w, "\n%s\n", color(bold, "False Positives:"))
		for _, ex := range detail.FalsePositives {
			fmt.Fprintf(w, "  %s %s\n", color(green, "✔"), ex)
		}
	}

	fmt.Fprintln(w)
	return nil
}
