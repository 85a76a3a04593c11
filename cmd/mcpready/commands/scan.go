package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	mcpready "github.com/nik-kale/mcp-readiness-scanner"
	"github.com/nik-kale/mcp-readiness-scanner/internal/config"
	"github.com/nik-kale/mcp-readiness-scanner/internal/output"
	"github.com/nik-kale/mcp-readiness-scanner/internal/provider/semantic"
)

var (
	flagFailOn           string
	flagMinScore         int
	flagIgnore           []string
	flagCI               bool
	flagVerbose          bool
	flagConcurrency      int
	flagSemanticEndpoint string
	flagSemanticModel    string
	flagSemanticFlavor   string
	flagSemanticKeyEnv   string
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Scan a tool definition file (single or batch) for readiness issues",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Severity gate for production readiness (critical, high, medium, low, info; default high)")
	scanCmd.Flags().IntVar(&flagMinScore, "min-score", 0, "Score gate for production readiness (default 70)")
	scanCmd.Flags().StringSliceVar(&flagIgnore, "ignore", nil, "Rule IDs to suppress (comma-separated, repeatable)")
	scanCmd.Flags().BoolVar(&flagCI, "ci", false, "CI mode: equivalent to --format terminal --no-color")
	scanCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show remediation for every finding")
	scanCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Parallel tool scans in batch mode (default 4)")
	scanCmd.Flags().StringVar(&flagSemanticEndpoint, "semantic-endpoint", "", "Semantic provider API base URL")
	scanCmd.Flags().StringVar(&flagSemanticModel, "semantic-model", "", "Semantic provider model name")
	scanCmd.Flags().StringVar(&flagSemanticFlavor, "semantic-flavor", "", "Semantic provider API flavor (openai, anthropic)")
	scanCmd.Flags().StringVar(&flagSemanticKeyEnv, "semantic-api-key-env", "", "Environment variable holding the semantic API key")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	cfg := loadScanConfig(cmd, targetPath)
	applyCIDefaults()

	// An unsupported format is a configuration error; fail before any
	// provider runs.
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	opts, err := buildScanOptions(cmd, cfg, targetPath)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	batch, err := mcpready.ScanBatchFile(ctx, targetPath, opts...)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if err := writeOutput(formatter, batch); err != nil {
		return err
	}

	if !batch.AllProductionReady() {
		os.Exit(1)
	}
	return nil
}

// loadScanConfig reads .mcpready.yml next to the target. Flags override config
// only when explicitly set.
func loadScanConfig(cmd *cobra.Command, targetPath string) config.Config {
	cfg, err := config.Load(targetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		flagFormat = cfg.Format
	}
	if !cmd.Flags().Changed("fail-on") && cfg.FailOn != "" {
		flagFailOn = cfg.FailOn
	}
	if !cmd.Flags().Changed("providers") && len(cfg.Providers) > 0 {
		flagProviders = cfg.Providers
	}
	if !cmd.Flags().Changed("rules") && cfg.Rules != "" {
		flagRules = cfg.Rules
	}
	if !cmd.Flags().Changed("policies") && cfg.Policies != "" {
		flagPolicies = cfg.Policies
	}
	if !cmd.Flags().Changed("concurrency") && cfg.Concurrency > 0 {
		flagConcurrency = cfg.Concurrency
	}
	return cfg
}

func applyCIDefaults() {
	if flagCI && flagFormat == "terminal" {
		flagNoColor = true
	}
	if os.Getenv("NO_COLOR") != "" {
		flagNoColor = true
	}
}

func buildScanOptions(cmd *cobra.Command, cfg config.Config, targetPath string) ([]mcpready.Option, error) {
	var opts []mcpready.Option

	if len(flagProviders) > 0 {
		opts = append(opts, mcpready.WithProviders(flagProviders...))
	}

	// Suppressions merge from every source: config file, ignore file, flags.
	ignore := append([]string{}, cfg.IgnoreRules...)
	fileIgnores, err := config.LoadIgnoreFile(targetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	ignore = append(ignore, fileIgnores...)
	ignore = append(ignore, flagIgnore...)
	if len(ignore) > 0 {
		opts = append(opts, mcpready.WithIgnoreRules(ignore...))
	}

	switch {
	case cmd.Flags().Changed("min-score"):
		opts = append(opts, mcpready.WithMinScore(flagMinScore))
	case cfg.MinScore != nil:
		opts = append(opts, mcpready.WithMinScore(*cfg.MinScore))
	}

	if flagFailOn != "" {
		sev, err := mcpready.ParseSeverity(flagFailOn)
		if err != nil {
			return nil, fmt.Errorf("invalid --fail-on: %w", err)
		}
		opts = append(opts, mcpready.WithFailOn(sev))
	}

	if flagRules != "" {
		opts = append(opts, mcpready.WithCustomRules(flagRules))
	}
	if flagPolicies != "" {
		opts = append(opts, mcpready.WithCustomPolicies(flagPolicies))
	}
	if len(flagDisableRules) > 0 {
		opts = append(opts, mcpready.WithDisabledRules(flagDisableRules...))
	}
	if len(cfg.RuleOverrides) > 0 {
		overrides := make(map[string]mcpready.RuleOverride, len(cfg.RuleOverrides))
		for id, ovr := range cfg.RuleOverrides {
			overrides[id] = mcpready.RuleOverride{Severity: ovr.Severity, Disabled: ovr.Disabled}
		}
		opts = append(opts, mcpready.WithRuleOverrides(overrides))
	}
	if flagConcurrency > 0 {
		opts = append(opts, mcpready.WithConcurrency(flagConcurrency))
	}

	if sem := semanticConfig(cfg); sem != nil {
		opts = append(opts, mcpready.WithSemantic(*sem))
		if cfg.Semantic.TimeoutMS > 0 {
			opts = append(opts, mcpready.WithSemanticTimeout(time.Duration(cfg.Semantic.TimeoutMS)*time.Millisecond))
		}
	}

	return opts, nil
}

// semanticConfig merges the config file's semantic block with flag overrides.
// Returns nil when no endpoint is configured anywhere.
func semanticConfig(cfg config.Config) *mcpready.SemanticConfig {
	sem := mcpready.SemanticConfig{
		Endpoint:  cfg.Semantic.Endpoint,
		Path:      cfg.Semantic.Path,
		Model:     cfg.Semantic.Model,
		Flavor:    semantic.Flavor(cfg.Semantic.Flavor),
		APIKeyEnv: cfg.Semantic.APIKeyEnv,
	}
	if flagSemanticEndpoint != "" {
		sem.Endpoint = flagSemanticEndpoint
	}
	if flagSemanticModel != "" {
		sem.Model = flagSemanticModel
	}
	if flagSemanticFlavor != "" {
		sem.Flavor = semantic.Flavor(flagSemanticFlavor)
	}
	if flagSemanticKeyEnv != "" {
		sem.APIKeyEnv = flagSemanticKeyEnv
	}
	if sem.Endpoint == "" {
		return nil
	}
	return &sem
}

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func newFormatter() (output.Formatter, error) {
	formatter, err := output.New(strings.ToLower(flagFormat))
	if err != nil {
		return nil, err
	}
	if tf, ok := formatter.(*output.TerminalFormatter); ok {
		tf.NoColor = flagNoColor
		tf.Verbose = flagVerbose
	}
	return formatter, nil
}

func writeOutput(formatter output.Formatter, batch *mcpready.BatchResult) error {
	output.ToolVersion = Version

	w := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	// A single-definition document renders as a plain scan report.
	if len(batch.Results) == 1 {
		only := batch.Results[0]
		if only.Err != "" {
			return fmt.Errorf("scanning %s: %s", only.Tool, only.Err)
		}
		return formatter.Format(w, only.Result)
	}
	return formatter.FormatBatch(w, batch)
}
