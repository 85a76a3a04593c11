package commands

import (
	"github.com/spf13/cobra"
)

var (
	flagFormat       string
	flagOutput       string
	flagNoColor      bool
	flagProviders    []string
	flagRules        string
	flagPolicies     string
	flagDisableRules []string
)

var rootCmd = &cobra.Command{
	Use:   "mcpready",
	Short: "Operational-readiness scanner for MCP tool definitions",
	Long:  `mcpready inspects MCP tool definitions for operational-readiness risks: missing timeouts, unbounded retries, silent failure paths, absent error schemas, and overloaded tool scopes. It scores each definition 0-100 and reports whether it is production ready.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "terminal", "Output format (terminal, json, sarif, markdown, html)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringSliceVar(&flagProviders, "providers", nil, "Provider subset to run (heuristic, pattern-rule, policy, semantic)")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Additional pattern rules directory")
	rootCmd.PersistentFlags().StringVar(&flagPolicies, "policies", "", "Additional policies directory")
	rootCmd.PersistentFlags().StringSliceVar(&flagDisableRules, "disable-rule", nil, "Rule IDs to disable (comma-separated, repeatable)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
