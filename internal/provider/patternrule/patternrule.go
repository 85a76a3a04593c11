// Package patternrule runs compiled YAML pattern rules against the canonical
// serialized form of a tool definition.
package patternrule

import (
	"context"
	"fmt"

	"github.com/nik-kale/mcp-readiness-scanner/internal/provider"
	"github.com/nik-kale/mcp-readiness-scanner/internal/rules"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// ProviderName identifies this provider in registry lookups and findings.
const ProviderName = "pattern-rule"

// Provider evaluates pattern rules over serialized tool definitions.
type Provider struct {
	rules []*rules.CompiledRule
}

// New creates a pattern-rule provider over the given compiled rules.
func New(compiled []*rules.CompiledRule) *Provider {
	return &Provider{rules: compiled}
}

func (p *Provider) Name() string                    { return ProviderName }
func (p *Provider) Capability() provider.Capability { return provider.CapabilityRuleEngine }

func (p *Provider) Available() (bool, string) {
	if len(p.rules) == 0 {
		return false, "no pattern rules loaded"
	}
	return true, ""
}

// Rules returns the compiled rules this provider evaluates, in load order.
func (p *Provider) Rules() []*rules.CompiledRule {
	return p.rules
}

func (p *Provider) Inspect(ctx context.Context, def *tooldef.Definition) ([]types.Finding, error) {
	text := string(def.Canonical())
	location := "tool." + def.Name()

	var findings []types.Finding
	for _, rule := range p.rules {
		if err := ctx.Err(); err != nil {
			return findings, err
		}
		m := rule.Evaluate(text)
		if !m.Matched {
			continue
		}
		findings = append(findings, types.Finding{
			RuleID:      rule.ID,
			RuleName:    rule.Name,
			Severity:    rule.Severity,
			Category:    rule.Category,
			Message:     fmt.Sprintf("%s: matched %q", rule.Description, m.Text),
			Remediation: rule.Remediation,
			Provider:    ProviderName,
			Location:    location,
		})
	}
	return findings, nil
}
