package mcpready_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcpready "github.com/nik-kale/mcp-readiness-scanner"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	reply string
}

func (s *scriptedClient) Complete(ctx context.Context, system, user string) (string, error) {
	return s.reply, nil
}

const bareDefinition = `{"name":"x","description":"Tool"}`

func TestScanDefinitionDefaults(t *testing.T) {
	result, err := mcpready.ScanDefinition(context.Background(), []byte(bareDefinition))
	require.NoError(t, err)

	require.Equal(t, "x", result.Tool)
	require.Contains(t, result.ProvidersRun, "heuristic")
	require.Contains(t, result.ProvidersRun, "pattern-rule")
	require.Contains(t, result.ProvidersRun, "policy")
	require.Contains(t, result.ProvidersSkipped, "semantic")

	ids := map[string]bool{}
	for _, f := range result.Findings {
		ids[f.RuleID] = true
	}
	require.True(t, ids["HEUR-001"])
	require.True(t, ids["HEUR-009"])
	require.True(t, ids["HEUR-008"])
	require.Less(t, result.Score, 70)
	require.False(t, result.ProductionReady)
}

func TestScanReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.json")
	require.NoError(t, os.WriteFile(path, []byte(bareDefinition), 0644))

	result, err := mcpready.Scan(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "x", result.Tool)
}

func TestScanRejectsMalformedDefinition(t *testing.T) {
	_, err := mcpready.ScanDefinition(context.Background(), []byte(`{"description":"no name"}`))
	require.Error(t, err)
}

func TestScanWithProviderSubset(t *testing.T) {
	result, err := mcpready.ScanDefinition(context.Background(), []byte(bareDefinition),
		mcpready.WithProviders("heuristic"))
	require.NoError(t, err)
	require.Equal(t, []string{"heuristic"}, result.ProvidersRun)

	_, err = mcpready.ScanDefinition(context.Background(), []byte(bareDefinition),
		mcpready.WithProviders("heuristic", "osquery"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "osquery")
}

func TestScanWithIgnoreRules(t *testing.T) {
	baseline, err := mcpready.ScanDefinition(context.Background(), []byte(bareDefinition),
		mcpready.WithProviders("heuristic"))
	require.NoError(t, err)

	suppressed, err := mcpready.ScanDefinition(context.Background(), []byte(bareDefinition),
		mcpready.WithProviders("heuristic"),
		mcpready.WithIgnoreRules("heur-001"))
	require.NoError(t, err)

	require.Len(t, suppressed.Findings, len(baseline.Findings))
	require.Len(t, suppressed.Active(), len(baseline.Active())-1)
	require.Greater(t, suppressed.Score, baseline.Score)
}

func TestScanWithSemanticClient(t *testing.T) {
	reply := `[{"severity": "MEDIUM", "category": "no_fallback_contract", "message": "No degraded mode described"}]`
	result, err := mcpready.ScanDefinition(context.Background(), []byte(bareDefinition),
		mcpready.WithProviders("semantic"),
		mcpready.WithSemanticClient(&scriptedClient{reply: reply}))
	require.NoError(t, err)

	require.Equal(t, []string{"semantic"}, result.ProvidersRun)
	require.Len(t, result.Findings, 1)
	require.Equal(t, "SEM-001", result.Findings[0].RuleID)
}

func TestScanBatch(t *testing.T) {
	batch := []byte(`{"tools":[
		{"name":"a","description":"Reads rows from a warehouse table"},
		{"bad":"entry"}
	]}`)
	result, err := mcpready.ScanBatch(context.Background(), batch,
		mcpready.WithProviders("heuristic"))
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	require.Equal(t, 1, result.Failed())
}

func TestListProviders(t *testing.T) {
	infos, err := mcpready.ListProviders()
	require.NoError(t, err)
	require.Len(t, infos, 4)

	byName := map[string]mcpready.ProviderInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	require.True(t, byName["heuristic"].Available)
	require.True(t, byName["pattern-rule"].Available)
	require.True(t, byName["policy"].Available)
	require.False(t, byName["semantic"].Available)
	require.NotEmpty(t, byName["semantic"].Reason)
}

func TestListRulesCoversAllProviders(t *testing.T) {
	infos, err := mcpready.ListRules()
	require.NoError(t, err)

	providers := map[string]int{}
	for _, info := range infos {
		providers[info.Provider]++
	}
	require.Equal(t, 20, providers["heuristic"])
	require.GreaterOrEqual(t, providers["pattern-rule"], 9)
	require.Equal(t, 6, providers["policy"])

	// Sorted by ID.
	for i := 1; i < len(infos); i++ {
		require.LessOrEqual(t, infos[i-1].ID, infos[i].ID)
	}
}

func TestListRulesFilterByCategory(t *testing.T) {
	infos, err := mcpready.ListRules(mcpready.WithCategory("missing_timeout_guard"))
	require.NoError(t, err)
	require.NotEmpty(t, infos)
	for _, info := range infos {
		require.Equal(t, "missing_timeout_guard", info.Category)
	}
}

func TestExplainRule(t *testing.T) {
	detail, err := mcpready.ExplainRule("heur-001")
	require.NoError(t, err)
	require.Equal(t, "HEUR-001", detail.ID)
	require.Equal(t, "heuristic", detail.Provider)

	detail, err = mcpready.ExplainRule("PAT-001")
	require.NoError(t, err)
	require.NotEmpty(t, detail.Patterns)
	require.NotEmpty(t, detail.TruePositives)

	detail, err = mcpready.ExplainRule("POL-006")
	require.NoError(t, err)
	require.Equal(t, "policy", detail.Provider)
	require.NotEmpty(t, detail.Remediation)

	_, err = mcpready.ExplainRule("NOPE-999")
	require.Error(t, err)
}
