// Package mcpready provides a public API for operational-readiness scanning
// of MCP tool definitions.
//
// This is the library entry point. For the CLI tool, see cmd/mcpready/.
package mcpready

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nik-kale/mcp-readiness-scanner/internal/policy"
	policybuiltin "github.com/nik-kale/mcp-readiness-scanner/internal/policy/builtin"
	"github.com/nik-kale/mcp-readiness-scanner/internal/provider"
	"github.com/nik-kale/mcp-readiness-scanner/internal/provider/heuristic"
	"github.com/nik-kale/mcp-readiness-scanner/internal/provider/patternrule"
	policyprovider "github.com/nik-kale/mcp-readiness-scanner/internal/provider/policy"
	"github.com/nik-kale/mcp-readiness-scanner/internal/provider/semantic"
	"github.com/nik-kale/mcp-readiness-scanner/internal/rules"
	rulesbuiltin "github.com/nik-kale/mcp-readiness-scanner/internal/rules/builtin"
	"github.com/nik-kale/mcp-readiness-scanner/internal/scanner"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// Re-export core types from internal/types so consumers don't need to
// import internal packages.
type (
	Severity    = types.Severity
	Category    = types.Category
	Finding     = types.Finding
	ScanResult  = types.ScanResult
	ToolResult  = types.ToolResult
	BatchResult = types.BatchResult
)

const (
	SeverityInfo     = types.SeverityInfo
	SeverityLow      = types.SeverityLow
	SeverityMedium   = types.SeverityMedium
	SeverityHigh     = types.SeverityHigh
	SeverityCritical = types.SeverityCritical
)

// ParseSeverity converts a string to a Severity level.
func ParseSeverity(s string) (Severity, error) { return types.ParseSeverity(s) }

// SemanticConfig describes the semantic provider's review endpoint.
type SemanticConfig = semantic.Config

// SemanticClient submits a review prompt and returns the model's text reply.
type SemanticClient = semantic.Client

// ProviderInfo describes a registered provider and its availability.
type ProviderInfo = provider.Descriptor

// RuleOverride allows changing the severity of a rule or disabling it.
type RuleOverride struct {
	Severity string
	Disabled bool
}

// RuleInfo provides summary metadata about a rule or check.
type RuleInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Provider string `json:"provider"`
}

// RuleDetail provides full information about a rule, including patterns and
// examples where the rule type carries them.
type RuleDetail struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Severity       string   `json:"severity"`
	Category       string   `json:"category"`
	Provider       string   `json:"provider"`
	Description    string   `json:"description,omitempty"`
	Remediation    string   `json:"remediation,omitempty"`
	Patterns       []string `json:"patterns,omitempty"`
	TruePositives  []string `json:"true_positives,omitempty"`
	FalsePositives []string `json:"false_positives,omitempty"`
}

// Scan reads a single tool definition file and scans it.
func Scan(ctx context.Context, path string, opts ...Option) (*ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ScanDefinition(ctx, data, opts...)
}

// ScanDefinition scans one in-memory tool definition document.
func ScanDefinition(ctx context.Context, data []byte, opts ...Option) (*ScanResult, error) {
	cfg := applyOpts(opts)
	def, err := tooldef.Parse(data)
	if err != nil {
		return nil, err
	}
	s, err := buildScanner(cfg)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, def)
}

// ScanBatch scans every tool definition in a batch document: a top-level
// array or an object with a "tools" array. A single definition document
// yields a one-entry batch. Per-tool failures never abort siblings.
func ScanBatch(ctx context.Context, data []byte, opts ...Option) (*BatchResult, error) {
	cfg := applyOpts(opts)
	s, err := buildScanner(cfg)
	if err != nil {
		return nil, err
	}
	return s.ScanBatch(ctx, data)
}

// ScanBatchFile reads a batch document from disk and scans it.
func ScanBatchFile(ctx context.Context, path string, opts ...Option) (*BatchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ScanBatch(ctx, data, opts...)
}

// ListProviders describes all registered providers and whether each can run
// with the current configuration.
func ListProviders(opts ...Option) ([]ProviderInfo, error) {
	cfg := applyOpts(opts)
	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return reg.List(), nil
}

// ListRules returns every rule the configured providers can emit: heuristic
// checks, pattern rules, and policies, sorted by ID.
// Use WithCategory to filter by category.
func ListRules(opts ...Option) ([]RuleInfo, error) {
	cfg := applyOpts(opts)

	var infos []RuleInfo
	for _, info := range heuristic.Catalogue() {
		infos = append(infos, RuleInfo{
			ID:       info.ID,
			Name:     info.Name,
			Severity: info.Severity.String(),
			Category: string(info.Category),
			Provider: heuristic.ProviderName,
		})
	}

	compiledRules, compiledPolicies, err := loadAndCompile(cfg)
	if err != nil {
		return nil, err
	}
	for _, r := range compiledRules {
		infos = append(infos, RuleInfo{
			ID:       r.ID,
			Name:     r.Name,
			Severity: r.Severity.String(),
			Category: string(r.Category),
			Provider: patternrule.ProviderName,
		})
	}
	for _, p := range compiledPolicies {
		infos = append(infos, RuleInfo{
			ID:       p.ID,
			Name:     p.Name,
			Severity: p.Severity.String(),
			Category: string(p.Category),
			Provider: policyprovider.ProviderName,
		})
	}

	if cfg.category != "" {
		var filtered []RuleInfo
		for _, info := range infos {
			if strings.EqualFold(info.Category, cfg.category) {
				filtered = append(filtered, info)
			}
		}
		infos = filtered
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// ExplainRule returns detailed information about a specific rule.
func ExplainRule(id string, opts ...Option) (*RuleDetail, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	cfg := applyOpts(opts)

	for _, info := range heuristic.Catalogue() {
		if info.ID == id {
			return &RuleDetail{
				ID:       info.ID,
				Name:     info.Name,
				Severity: info.Severity.String(),
				Category: string(info.Category),
				Provider: heuristic.ProviderName,
			}, nil
		}
	}

	compiledRules, compiledPolicies, err := loadAndCompile(cfg)
	if err != nil {
		return nil, err
	}
	for _, r := range compiledRules {
		if r.ID != id {
			continue
		}
		patterns := make([]string, len(r.Patterns))
		for i, p := range r.Patterns {
			switch p.Type {
			case rules.PatternRegex:
				patterns[i] = fmt.Sprintf("[regex] %s", p.Regex.String())
			case rules.PatternContains:
				patterns[i] = fmt.Sprintf("[contains] %s", p.Value)
			}
		}
		return &RuleDetail{
			ID:             r.ID,
			Name:           r.Name,
			Severity:       r.Severity.String(),
			Category:       string(r.Category),
			Provider:       patternrule.ProviderName,
			Description:    r.Description,
			Remediation:    r.Remediation,
			Patterns:       patterns,
			TruePositives:  r.Examples.TruePositive,
			FalsePositives: r.Examples.FalsePositive,
		}, nil
	}
	for _, p := range compiledPolicies {
		if p.ID == id {
			return &RuleDetail{
				ID:          p.ID,
				Name:        p.Name,
				Severity:    p.Severity.String(),
				Category:    string(p.Category),
				Provider:    policyprovider.ProviderName,
				Description: p.Description,
				Remediation: p.Remediation,
			}, nil
		}
	}
	return nil, fmt.Errorf("rule %q not found", id)
}

// --- internal helpers ---

// loadAndCompile loads built-in (and optionally custom) pattern rules and
// policies, compiles them, and applies overrides/filters.
func loadAndCompile(cfg *scanConfig) ([]*rules.CompiledRule, []*policy.CompiledPolicy, error) {
	rawRules, err := rules.LoadFromFS(rulesbuiltin.FS())
	if err != nil {
		return nil, nil, fmt.Errorf("loading built-in rules: %w", err)
	}
	if cfg.customRulesDir != "" {
		custom, err := rules.LoadFromDir(cfg.customRulesDir)
		if err != nil {
			return nil, nil, fmt.Errorf("loading custom rules from %s: %w", cfg.customRulesDir, err)
		}
		rawRules = append(rawRules, custom...)
	}
	compiledRules, compileErrs := rules.CompileAll(rawRules)
	for _, e := range compileErrs {
		fmt.Fprintf(os.Stderr, "mcpready: warning: %v\n", e)
	}

	rawPolicies, err := policy.LoadFromFS(policybuiltin.FS())
	if err != nil {
		return nil, nil, fmt.Errorf("loading built-in policies: %w", err)
	}
	if cfg.customPolicyDir != "" {
		custom, err := policy.LoadFromDir(cfg.customPolicyDir)
		if err != nil {
			return nil, nil, fmt.Errorf("loading custom policies from %s: %w", cfg.customPolicyDir, err)
		}
		rawPolicies = append(rawPolicies, custom...)
	}
	compiledPolicies, policyErrs := policy.CompileAll(rawPolicies)
	for _, e := range policyErrs {
		fmt.Fprintf(os.Stderr, "mcpready: warning: %v\n", e)
	}

	if len(cfg.ruleOverrides) > 0 {
		overrides := make(map[string]rules.RuleOverride, len(cfg.ruleOverrides))
		for id, ovr := range cfg.ruleOverrides {
			overrides[id] = rules.RuleOverride{Severity: ovr.Severity, Disabled: ovr.Disabled}
		}
		var errs []error
		compiledRules, errs = rules.ApplyOverrides(compiledRules, overrides)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "mcpready: warning: %v\n", e)
		}
		compiledPolicies, errs = policy.ApplyOverrides(compiledPolicies, overrides)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "mcpready: warning: %v\n", e)
		}
	}

	if len(cfg.disabledRules) > 0 {
		disabled := make(map[string]bool, len(cfg.disabledRules))
		for _, id := range cfg.disabledRules {
			disabled[strings.ToUpper(strings.TrimSpace(id))] = true
		}
		compiledRules = rules.FilterByIDs(compiledRules, disabled)
		var kept []*policy.CompiledPolicy
		for _, p := range compiledPolicies {
			if !disabled[p.ID] {
				kept = append(kept, p)
			}
		}
		compiledPolicies = kept
	}

	return compiledRules, compiledPolicies, nil
}

// buildRegistry wires every provider in registration order.
func buildRegistry(cfg *scanConfig) (*provider.Registry, error) {
	compiledRules, compiledPolicies, err := loadAndCompile(cfg)
	if err != nil {
		return nil, err
	}

	var sem provider.Provider
	switch {
	case cfg.semanticClient != nil:
		sem = semantic.NewWithClient(cfg.semanticClient)
	case cfg.semantic != nil:
		sem = semantic.New(*cfg.semantic)
	default:
		sem = semantic.New(semantic.Config{})
	}

	return provider.NewRegistry(
		heuristic.New(),
		patternrule.New(compiledRules),
		policyprovider.New(compiledPolicies),
		sem,
	), nil
}

// buildScanner creates a fully wired Scanner.
func buildScanner(cfg *scanConfig) (*scanner.Scanner, error) {
	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	s := scanner.New(reg)
	s.SetProviders(cfg.providers)
	s.SetIgnoreRules(cfg.ignoreRules)
	if cfg.minScore != nil {
		s.SetMinScore(*cfg.minScore)
	}
	if cfg.failOn != nil {
		s.SetFailOn(*cfg.failOn)
	}
	s.SetSemanticTimeout(cfg.semanticTimeout)
	s.SetConcurrency(cfg.concurrency)
	return s, nil
}
