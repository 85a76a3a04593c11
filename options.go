package mcpready

import (
	"time"

	"github.com/nik-kale/mcp-readiness-scanner/internal/provider/semantic"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// scanConfig holds the resolved configuration for a scan.
type scanConfig struct {
	providers       []string
	ignoreRules     []string
	minScore        *int
	failOn          *types.Severity
	customRulesDir  string
	customPolicyDir string
	disabledRules   []string
	ruleOverrides   map[string]RuleOverride
	semantic        *semantic.Config
	semanticClient  semantic.Client
	semanticTimeout time.Duration
	concurrency     int
	category        string // only for ListRules
}

// Option configures a scan operation.
type Option func(*scanConfig)

// WithProviders selects a provider subset by name. Unknown names surface as
// configuration errors at scan time.
func WithProviders(names ...string) Option {
	return func(c *scanConfig) {
		c.providers = append(c.providers, names...)
	}
}

// WithIgnoreRules suppresses findings for the given rule IDs. Matching is
// case-insensitive; suppressed findings remain visible but never score.
func WithIgnoreRules(ids ...string) Option {
	return func(c *scanConfig) {
		c.ignoreRules = append(c.ignoreRules, ids...)
	}
}

// WithMinScore sets the production-readiness score threshold (default 70).
func WithMinScore(n int) Option {
	return func(c *scanConfig) {
		c.minScore = &n
	}
}

// WithFailOn sets the severity gate for production readiness (default HIGH).
func WithFailOn(sev Severity) Option {
	return func(c *scanConfig) {
		c.failOn = &sev
	}
}

// WithCustomRules loads additional pattern rules from a directory.
func WithCustomRules(dir string) Option {
	return func(c *scanConfig) {
		c.customRulesDir = dir
	}
}

// WithCustomPolicies loads additional policy documents from a directory.
func WithCustomPolicies(dir string) Option {
	return func(c *scanConfig) {
		c.customPolicyDir = dir
	}
}

// WithDisabledRules removes pattern rules and policies by ID before scanning.
func WithDisabledRules(ids ...string) Option {
	return func(c *scanConfig) {
		c.disabledRules = append(c.disabledRules, ids...)
	}
}

// WithRuleOverrides applies severity overrides or disables to pattern rules
// and policies.
func WithRuleOverrides(overrides map[string]RuleOverride) Option {
	return func(c *scanConfig) {
		c.ruleOverrides = overrides
	}
}

// WithSemantic configures the LLM-backed semantic provider endpoint.
func WithSemantic(cfg SemanticConfig) Option {
	return func(c *scanConfig) {
		c.semantic = &cfg
	}
}

// WithSemanticClient supplies a custom semantic review client, replacing the
// HTTP transport entirely.
func WithSemanticClient(client SemanticClient) Option {
	return func(c *scanConfig) {
		c.semanticClient = client
	}
}

// WithSemanticTimeout bounds each semantic provider call (default 30s).
func WithSemanticTimeout(d time.Duration) Option {
	return func(c *scanConfig) {
		c.semanticTimeout = d
	}
}

// WithConcurrency bounds parallel tool scans in batch mode (default 4).
func WithConcurrency(n int) Option {
	return func(c *scanConfig) {
		c.concurrency = n
	}
}

// WithCategory filters rules by category (only applies to ListRules).
func WithCategory(cat string) Option {
	return func(c *scanConfig) {
		c.category = cat
	}
}

func applyOpts(opts []Option) *scanConfig {
	cfg := &scanConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}
