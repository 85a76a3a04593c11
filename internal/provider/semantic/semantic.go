// Package semantic delegates readiness judgment to a remote language model
// speaking the OpenAI chat-completions or Anthropic messages protocol.
package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nik-kale/mcp-readiness-scanner/internal/provider"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// ProviderName identifies this provider in registry lookups and findings.
const ProviderName = "semantic"

const systemPrompt = `You review declarative tool definitions for operational readiness.
Reply with a JSON array only. Each element must have the fields
"severity" (CRITICAL, HIGH, MEDIUM, LOW or INFO), "category" (one of:
%s), "message", and optionally "remediation" and "location".
Report only operational-readiness risks; an empty array means the
definition looks ready.`

// Provider submits tool definitions to a remote reviewer and converts its
// reply into findings.
type Provider struct {
	client Client
	ready  bool
	reason string
}

// New creates a semantic provider over an HTTP client for cfg. Availability
// reflects whether the endpoint and credentials are configured.
func New(cfg Config) *Provider {
	p := &Provider{client: NewHTTPClient(cfg), ready: true}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		p.ready, p.reason = false, "no endpoint configured"
	} else if cfg.key() == "" {
		p.ready, p.reason = false, "no API key configured"
	}
	return p
}

// NewWithClient creates a semantic provider over a caller-supplied client.
func NewWithClient(client Client) *Provider {
	return &Provider{client: client, ready: true}
}

func (p *Provider) Name() string                    { return ProviderName }
func (p *Provider) Capability() provider.Capability { return provider.CapabilitySemantic }

func (p *Provider) Available() (bool, string) { return p.ready, p.reason }

func (p *Provider) Inspect(ctx context.Context, def *tooldef.Definition) ([]types.Finding, error) {
	system := fmt.Sprintf(systemPrompt, strings.Join(categoryNames(), ", "))
	user := "Review this tool definition:\n\n" + string(def.Canonical())

	reply, err := p.client.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}
	return parseReply(reply, def.Name()), nil
}

func categoryNames() []string {
	cats := types.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

type rawFinding struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	Remediation string `json:"remediation"`
	Location    string `json:"location"`
}

// parseReply extracts the JSON array from the model reply and converts valid
// entries into findings. Entries with an unknown severity or category are
// dropped; model output is untrusted and must not widen the taxonomy.
func parseReply(reply, toolName string) []types.Finding {
	body := extractJSONArray(reply)
	if body == "" {
		return nil
	}

	var raw []rawFinding
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil
	}

	var findings []types.Finding
	for _, rf := range raw {
		sev, err := types.ParseSeverity(rf.Severity)
		if err != nil {
			continue
		}
		cat, err := types.ParseCategory(rf.Category)
		if err != nil {
			continue
		}
		if strings.TrimSpace(rf.Message) == "" {
			continue
		}
		location := rf.Location
		if location == "" {
			location = "tool." + toolName
		}
		findings = append(findings, types.Finding{
			RuleID:      fmt.Sprintf("SEM-%03d", len(findings)+1),
			RuleName:    "Semantic Review",
			Severity:    sev,
			Category:    cat,
			Message:     rf.Message,
			Remediation: rf.Remediation,
			Provider:    ProviderName,
			Location:    location,
		})
	}
	return findings
}

// extractJSONArray returns the first top-level JSON array in text, tolerating
// markdown code fences around the reply.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
