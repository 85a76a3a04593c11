package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const readyDefinition = `{
	"name": "fetch_quote",
	"description": "Fetches currency quotes from an external API",
	"timeout": 30000,
	"maxRetries": 3,
	"backoffMs": 1000,
	"rateLimit": {"perMinute": 60},
	"auth": {"type": "bearer"},
	"fallback": "Returns the last cached quote",
	"outputSchema": {},
	"errorSchema": {"properties": {"code": {"enum": ["TIMEOUT", "UPSTREAM_DOWN"]}}},
	"version": "1.0.0",
	"observability": {"logging": {}}
}`

func resetFlags() {
	flagFormat = "terminal"
	flagOutput = ""
	flagNoColor = false
	flagProviders = nil
	flagRules = ""
	flagPolicies = ""
	flagDisableRules = nil
	flagFailOn = ""
	flagMinScore = 0
	flagIgnore = nil
	flagCI = false
	flagVerbose = false
	flagConcurrency = 0
	flagSemanticEndpoint = ""
	flagCategory = ""

	// Cobra keeps Changed state across Execute calls; clear it so config
	// precedence behaves as it would in a fresh process.
	for _, name := range []string{"format", "output", "no-color", "providers", "rules", "policies", "disable-rule"} {
		if f := rootCmd.PersistentFlags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
	for _, name := range []string{"fail-on", "min-score", "ignore", "concurrency"} {
		if f := scanCmd.Flags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
}

func TestScanReadyDefinitionJSON(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	defPath := filepath.Join(dir, "tool.json")
	outPath := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(defPath, []byte(readyDefinition), 0644))

	rootCmd.SetArgs([]string{"scan", defPath, "--format", "json", "-o", outPath})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var report struct {
		Tool            string `json:"tool"`
		Score           int    `json:"score"`
		ProductionReady bool   `json:"production_ready"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	require.Equal(t, "fetch_quote", report.Tool)
	require.Equal(t, 100, report.Score)
	require.True(t, report.ProductionReady)
}

func TestScanPicksUpConfigFile(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	defPath := filepath.Join(dir, "tool.json")
	outPath := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(defPath, []byte(readyDefinition), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mcpready.yml"), []byte("format: json\n"), 0644))

	rootCmd.SetArgs([]string{"scan", defPath, "-o", outPath})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.True(t, json.Valid(data))
}

func TestScanUnknownFormatFailsBeforeScanning(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	defPath := filepath.Join(dir, "tool.json")
	// A definition this bare is far from production ready; if the scan ran
	// before format validation, the command would exit the process instead
	// of returning an error.
	require.NoError(t, os.WriteFile(defPath, []byte(`{"name":"x","description":"Tool"}`), 0644))

	rootCmd.SetArgs([]string{"scan", defPath, "--format", "xml"})
	defer rootCmd.SetArgs(nil)
	rootCmd.SilenceErrors = true
	defer func() { rootCmd.SilenceErrors = false }()

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "xml")
}

func TestScanInvalidFailOn(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	defPath := filepath.Join(dir, "tool.json")
	require.NoError(t, os.WriteFile(defPath, []byte(readyDefinition), 0644))

	rootCmd.SetArgs([]string{"scan", defPath, "--fail-on", "catastrophic"})
	defer rootCmd.SetArgs(nil)
	rootCmd.SilenceErrors = true
	defer func() { rootCmd.SilenceErrors = false }()

	require.Error(t, rootCmd.Execute())
}

func TestScanMissingFile(t *testing.T) {
	resetFlags()
	rootCmd.SetArgs([]string{"scan", filepath.Join(t.TempDir(), "absent.json")})
	defer rootCmd.SetArgs(nil)
	rootCmd.SilenceErrors = true
	defer func() { rootCmd.SilenceErrors = false }()

	require.Error(t, rootCmd.Execute())
}
