package policy_test

import (
	"testing"

	"github.com/nik-kale/mcp-readiness-scanner/internal/policy"
	"github.com/nik-kale/mcp-readiness-scanner/internal/policy/builtin"
	"github.com/nik-kale/mcp-readiness-scanner/internal/rules"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
	"github.com/stretchr/testify/require"
)

func def(t *testing.T, doc string) *tooldef.Definition {
	t.Helper()
	d, err := tooldef.Parse([]byte(doc))
	require.NoError(t, err)
	return d
}

func compiledBuiltins(t *testing.T) map[string]*policy.CompiledPolicy {
	t.Helper()
	raw, err := policy.LoadFromFS(builtin.FS())
	require.NoError(t, err)
	compiled, errs := policy.CompileAll(raw)
	require.Empty(t, errs, "all built-in policies should compile")
	byID := make(map[string]*policy.CompiledPolicy, len(compiled))
	for _, p := range compiled {
		byID[p.ID] = p
	}
	return byID
}

func TestBuiltinPoliciesCompile(t *testing.T) {
	byID := compiledBuiltins(t)
	require.Len(t, byID, 6)
	require.Contains(t, byID, "POL-001")
	require.Contains(t, byID, "POL-006")
}

func TestTimeoutCeiling(t *testing.T) {
	p := compiledBuiltins(t)["POL-001"]

	detail, violated := p.Violated(def(t, `{"name":"t","timeout":120000}`))
	require.True(t, violated)
	require.Contains(t, detail, "timeout")

	_, violated = p.Violated(def(t, `{"name":"t","timeout":30000}`))
	require.False(t, violated)

	// Absent timeout is the heuristic provider's concern, not this ceiling.
	_, violated = p.Violated(def(t, `{"name":"t"}`))
	require.False(t, violated)
}

func TestRetryCeilingNestedAlias(t *testing.T) {
	p := compiledBuiltins(t)["POL-002"]

	_, violated := p.Violated(def(t, `{"name":"t","retryPolicy":{"maxRetries":10}}`))
	require.True(t, violated)

	_, violated = p.Violated(def(t, `{"name":"t","retryPolicy":{"maxRetries":3}}`))
	require.False(t, violated)
}

func TestSamplingTemperature(t *testing.T) {
	p := compiledBuiltins(t)["POL-003"]

	_, violated := p.Violated(def(t, `{"name":"t","temperature":0.9}`))
	require.True(t, violated)

	_, violated = p.Violated(def(t, `{"name":"t","temperature":0.2}`))
	require.False(t, violated)
}

func TestErrorCodeEnumeration(t *testing.T) {
	p := compiledBuiltins(t)["POL-004"]

	// Schema present, no enum.
	_, violated := p.Violated(def(t, `{"name":"t","errorSchema":{"properties":{"code":{"type":"string"}}}}`))
	require.True(t, violated)

	// Enumerated codes satisfy the policy.
	_, violated = p.Violated(def(t, `{"name":"t","errorSchema":{"properties":{"code":{"enum":["E1","E2"]}}}}`))
	require.False(t, violated)

	// No schema at all: out of scope here.
	_, violated = p.Violated(def(t, `{"name":"t"}`))
	require.False(t, violated)
}

func TestDestructiveConfirmation(t *testing.T) {
	p := compiledBuiltins(t)["POL-005"]

	_, violated := p.Violated(def(t, `{"name":"t","description":"Deletes stale records"}`))
	require.True(t, violated)

	_, violated = p.Violated(def(t, `{"name":"t","description":"Deletes stale records","requiresConfirmation":true}`))
	require.False(t, violated)

	_, violated = p.Violated(def(t, `{"name":"t","description":"Lists stale records"}`))
	require.False(t, violated)
}

func TestFallbackContract(t *testing.T) {
	p := compiledBuiltins(t)["POL-006"]
	require.Equal(t, types.CategoryNoFallbackContract, p.Category)

	_, violated := p.Violated(def(t, `{"name":"t","description":"Queries an external pricing service"}`))
	require.True(t, violated)

	_, violated = p.Violated(def(t, `{"name":"t","description":"Queries an external pricing service","fallback":"serve cached prices"}`))
	require.False(t, violated)
}

func TestCompileRejectsUnknownOperator(t *testing.T) {
	_, err := policy.Compile(policy.RawPolicy{
		ID:       "X-001",
		Severity: "LOW",
		Category: "missing_timeout_guard",
		Conditions: []policy.RawCondition{
			{Paths: []string{"timeout"}, Op: "matches"},
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown operator")
}

func TestCompileRejectsNonNumericOperand(t *testing.T) {
	_, err := policy.Compile(policy.RawPolicy{
		ID:       "X-002",
		Severity: "LOW",
		Category: "missing_timeout_guard",
		Conditions: []policy.RawCondition{
			{Paths: []string{"timeout"}, Op: "gt", Value: "sixty"},
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "numeric")
}

func TestWhenAnySemantics(t *testing.T) {
	p, err := policy.Compile(policy.RawPolicy{
		ID:       "X-003",
		Severity: "LOW",
		Category: "missing_timeout_guard",
		When:     "any",
		Conditions: []policy.RawCondition{
			{Paths: []string{"timeout"}, Op: "absent"},
			{Paths: []string{"timeout"}, Op: "gt", Value: 60000},
		},
	})
	require.NoError(t, err)

	_, violated := p.Violated(def(t, `{"name":"t"}`))
	require.True(t, violated)

	_, violated = p.Violated(def(t, `{"name":"t","timeout":120000}`))
	require.True(t, violated)

	_, violated = p.Violated(def(t, `{"name":"t","timeout":30000}`))
	require.False(t, violated)
}

func TestApplyOverrides(t *testing.T) {
	byID := compiledBuiltins(t)
	var compiled []*policy.CompiledPolicy
	for _, id := range []string{"POL-001", "POL-002"} {
		compiled = append(compiled, byID[id])
	}

	result, errs := policy.ApplyOverrides(compiled, map[string]rules.RuleOverride{
		"POL-001": {Disabled: true},
		"POL-002": {Severity: "HIGH"},
	})
	require.Empty(t, errs)
	require.Len(t, result, 1)
	require.Equal(t, "POL-002", result[0].ID)
	require.Equal(t, types.SeverityHigh, result[0].Severity)
}
