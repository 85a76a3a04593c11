package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mcpready "github.com/nik-kale/mcp-readiness-scanner"
)

var flagCategory string

var listRulesCmd = &cobra.Command{
	Use:   "list-rules",
	Short: "List every rule the configured providers can emit",
	RunE:  runListRules,
}

func init() {
	listRulesCmd.Flags().StringVar(&flagCategory, "category", "", "Filter by category")
	rootCmd.AddCommand(listRulesCmd)
}

func runListRules(cmd *cobra.Command, args []string) error {
	var opts []mcpready.Option
	if flagRules != "" {
		opts = append(opts, mcpready.WithCustomRules(flagRules))
	}
	if flagPolicies != "" {
		opts = append(opts, mcpready.WithCustomPolicies(flagPolicies))
	}
	if len(flagDisableRules) > 0 {
		opts = append(opts, mcpready.WithDisabledRules(flagDisableRules...))
	}
	if flagCategory != "" {
		opts = append(opts, mcpready.WithCategory(flagCategory))
	}

	infos, err := mcpready.ListRules(opts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tSEVERITY\tCATEGORY\tPROVIDER\n")
	fmt.Fprintf(tw, "--\t----\t--------\t--------\t--------\n")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.ID, info.Name, info.Severity, info.Category, info.Provider)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d rules loaded\n", len(infos))

	return nil
}
