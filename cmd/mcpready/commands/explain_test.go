package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	mcpready "github.com/nik-kale/mcp-readiness-scanner"
)

func TestExplainPatternRule(t *testing.T) {
	resetFlags()
	flagNoColor = true
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"explain", "PAT-001"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	require.Contains(t, out, "PAT-001")
	require.Contains(t, out, "Patterns:")
	require.Contains(t, out, "True Positives:")
}

func TestExplainJSON(t *testing.T) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"explain", "pol-005", "--format", "json"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	require.NoError(t, rootCmd.Execute())

	var detail mcpready.RuleDetail
	require.NoError(t, json.Unmarshal(buf.Bytes(), &detail))
	require.Equal(t, "POL-005", detail.ID)
	require.Equal(t, "policy", detail.Provider)
	require.NotEmpty(t, detail.Remediation)
}

func TestExplainUnknownRule(t *testing.T) {
	resetFlags()
	rootCmd.SetArgs([]string{"explain", "NOPE-001"})
	defer rootCmd.SetArgs(nil)
	rootCmd.SilenceErrors = true
	defer func() { rootCmd.SilenceErrors = false }()

	require.Error(t, rootCmd.Execute())
}
