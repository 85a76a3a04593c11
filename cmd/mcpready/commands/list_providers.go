package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mcpready "github.com/nik-kale/mcp-readiness-scanner"
)

var listProvidersCmd = &cobra.Command{
	Use:   "list-providers",
	Short: "List registered inspection providers and their availability",
	RunE:  runListProviders,
}

func init() {
	rootCmd.AddCommand(listProvidersCmd)
}

func runListProviders(cmd *cobra.Command, args []string) error {
	var opts []mcpready.Option
	if flagSemanticEndpoint != "" {
		opts = append(opts, mcpready.WithSemantic(mcpready.SemanticConfig{
			Endpoint:  flagSemanticEndpoint,
			Model:     flagSemanticModel,
			APIKeyEnv: flagSemanticKeyEnv,
		}))
	}

	infos, err := mcpready.ListProviders(opts...)
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
	fmt.Fprintf(tw, "NAME\tCAPABILITY\tAVAILABLE\tREASON\n")
	fmt.Fprintf(tw, "----\t----------\t---------\t------\n")
	for _, info := range infos {
		avail := "yes"
		if !info.Available {
			avail = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Capability, avail, info.Reason)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d providers registered\n", len(infos))

	return nil
}
