package tooldef_test

import (
	"testing"

	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/stretchr/testify/require"
)

func TestParseRequiresName(t *testing.T) {
	_, err := tooldef.Parse([]byte(`{"description":"no name here"}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "name")

	_, err = tooldef.Parse([]byte(`{"name":"   "}`))
	require.Error(t, err)

	_, err = tooldef.Parse([]byte(`not json`))
	require.Error(t, err)

	_, err = tooldef.Parse([]byte(`[1,2,3]`))
	require.Error(t, err)
}

func TestLookupDottedPath(t *testing.T) {
	def, err := tooldef.Parse([]byte(`{
		"name": "fetch",
		"config": {"timeout": 30000, "retryPolicy": {"maxRetries": 3}}
	}`))
	require.NoError(t, err)

	v, ok := def.Lookup("config.timeout")
	require.True(t, ok)
	require.Equal(t, float64(30000), v)

	_, ok = def.Lookup("config.missing")
	require.False(t, ok)

	// Traversing through a scalar is "absent", not an error.
	_, ok = def.Lookup("name.nested")
	require.False(t, ok)
}

func TestAliasProbing(t *testing.T) {
	def, err := tooldef.Parse([]byte(`{"name":"t","timeout_ms": 5000}`))
	require.NoError(t, err)

	path, val, ok := def.Number("timeout", "timeoutMs", "timeout_ms")
	require.True(t, ok)
	require.Equal(t, "timeout_ms", path)
	require.Equal(t, float64(5000), val)

	require.True(t, def.Has("timeout", "timeout_ms"))
	require.False(t, def.Has("retries", "maxRetries"))
}

func TestObjectTreatsScalarAsAbsent(t *testing.T) {
	def, err := tooldef.Parse([]byte(`{"name":"t","errorSchema":"oops","errors":{"properties":{}}}`))
	require.NoError(t, err)

	path, m, ok := def.Object("errorSchema", "errors")
	require.True(t, ok)
	require.Equal(t, "errors", path)
	require.Contains(t, m, "properties")
}

func TestInlineIgnoreRules(t *testing.T) {
	def, err := tooldef.Parse([]byte(`{"name":"t","x-readiness-ignore":["HEUR-013"," HEUR-014 ",42]}`))
	require.NoError(t, err)
	require.Equal(t, []string{"HEUR-013", "HEUR-014"}, def.IgnoreRules())
}

func TestCanonicalIsStable(t *testing.T) {
	def, err := tooldef.Parse([]byte(`{"name":"t","b":1,"a":2}`))
	require.NoError(t, err)
	require.Equal(t, string(def.Canonical()), string(def.Canonical()))
	require.Contains(t, string(def.Canonical()), `"name": "t"`)
}

func TestSplitBatch(t *testing.T) {
	docs, err := tooldef.Split([]byte(`{"tools":[{"name":"a"},{"name":"b"}]}`))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	single, err := tooldef.Split([]byte(`{"name":"solo"}`))
	require.NoError(t, err)
	require.Len(t, single, 1)

	list, err := tooldef.Split([]byte(`[{"name":"a"},{"name":"b"},{"name":"c"}]`))
	require.NoError(t, err)
	require.Len(t, list, 3)

	_, err = tooldef.Split([]byte(`{`))
	require.Error(t, err)
}
