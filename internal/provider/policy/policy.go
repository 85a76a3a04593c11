// Package policy adapts compiled policy documents to the provider contract.
package policy

import (
	"context"
	"fmt"

	"github.com/nik-kale/mcp-readiness-scanner/internal/policy"
	"github.com/nik-kale/mcp-readiness-scanner/internal/provider"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// ProviderName identifies this provider in registry lookups and findings.
const ProviderName = "policy"

// Provider evaluates declarative policies against tool definitions.
type Provider struct {
	policies []*policy.CompiledPolicy
}

// New creates a policy provider over the given compiled policies.
func New(compiled []*policy.CompiledPolicy) *Provider {
	return &Provider{policies: compiled}
}

func (p *Provider) Name() string                    { return ProviderName }
func (p *Provider) Capability() provider.Capability { return provider.CapabilityPolicy }

func (p *Provider) Available() (bool, string) {
	if len(p.policies) == 0 {
		return false, "no policies loaded"
	}
	return true, ""
}

// Policies returns the compiled policies this provider evaluates, in load order.
func (p *Provider) Policies() []*policy.CompiledPolicy {
	return p.policies
}

func (p *Provider) Inspect(ctx context.Context, def *tooldef.Definition) ([]types.Finding, error) {
	location := "tool." + def.Name()

	var findings []types.Finding
	for _, pol := range p.policies {
		if err := ctx.Err(); err != nil {
			return findings, err
		}
		detail, violated := pol.Violated(def)
		if !violated {
			continue
		}
		msg := pol.Description
		if detail != "" {
			msg = fmt.Sprintf("%s (%s)", pol.Description, detail)
		}
		findings = append(findings, types.Finding{
			RuleID:      pol.ID,
			RuleName:    pol.Name,
			Severity:    pol.Severity,
			Category:    pol.Category,
			Message:     msg,
			Remediation: pol.Remediation,
			Provider:    ProviderName,
			Location:    location,
		})
	}
	return findings, nil
}
