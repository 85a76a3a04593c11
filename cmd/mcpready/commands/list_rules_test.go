package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	mcpready "github.com/nik-kale/mcp-readiness-scanner"
)

func TestListRulesTable(t *testing.T) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list-rules"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	require.Contains(t, out, "ID")
	require.Contains(t, out, "PROVIDER")
	require.Contains(t, out, "HEUR-001")
	require.Contains(t, out, "POL-001")
	require.Contains(t, out, "rules loaded")
}

func TestListRulesJSON(t *testing.T) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list-rules", "--format", "json"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	require.NoError(t, rootCmd.Execute())

	var infos []mcpready.RuleInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	require.GreaterOrEqual(t, len(infos), 35)
	require.NotEmpty(t, infos[0].ID)
	require.NotEmpty(t, infos[0].Provider)
}

func TestListRulesCategoryFilter(t *testing.T) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"list-rules", "--format", "json", "--category", "unsafe_retry_loop"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	require.NoError(t, rootCmd.Execute())

	var infos []mcpready.RuleInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	require.NotEmpty(t, infos)
	for _, info := range infos {
		require.Equal(t, "unsafe_retry_loop", info.Category)
	}
}
