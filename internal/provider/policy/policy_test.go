package policy_test

import (
	"context"
	"testing"

	policyengine "github.com/nik-kale/mcp-readiness-scanner/internal/policy"
	"github.com/nik-kale/mcp-readiness-scanner/internal/policy/builtin"
	policyprovider "github.com/nik-kale/mcp-readiness-scanner/internal/provider/policy"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
	"github.com/stretchr/testify/require"
)

func builtinProvider(t *testing.T) *policyprovider.Provider {
	t.Helper()
	raw, err := policyengine.LoadFromFS(builtin.FS())
	require.NoError(t, err)
	compiled, errs := policyengine.CompileAll(raw)
	require.Empty(t, errs)
	return policyprovider.New(compiled)
}

func TestUnavailableWithoutPolicies(t *testing.T) {
	ok, reason := policyprovider.New(nil).Available()
	require.False(t, ok)
	require.Contains(t, reason, "no policies")
}

func TestViolationsBecomeFindings(t *testing.T) {
	p := builtinProvider(t)
	def, err := tooldef.Parse([]byte(`{
		"name": "purge_index",
		"description": "Deletes documents from an external search index",
		"timeout": 120000
	}`))
	require.NoError(t, err)

	findings, err := p.Inspect(context.Background(), def)
	require.NoError(t, err)

	byID := map[string]types.Finding{}
	for _, f := range findings {
		byID[f.RuleID] = f
	}

	require.Contains(t, byID, "POL-001")
	require.Contains(t, byID, "POL-005")
	require.Contains(t, byID, "POL-006")

	f := byID["POL-005"]
	require.Equal(t, types.SeverityHigh, f.Severity)
	require.Equal(t, policyprovider.ProviderName, f.Provider)
	require.Equal(t, "tool.purge_index", f.Location)
	require.NotEmpty(t, f.Remediation)
}

func TestCompliantDefinition(t *testing.T) {
	p := builtinProvider(t)
	def, err := tooldef.Parse([]byte(`{
		"name": "get_weather",
		"description": "Fetches the forecast for a city",
		"timeout": 5000,
		"maxRetries": 2
	}`))
	require.NoError(t, err)

	findings, err := p.Inspect(context.Background(), def)
	require.NoError(t, err)
	require.Empty(t, findings)
}
