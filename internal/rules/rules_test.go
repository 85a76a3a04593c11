package rules_test

import (
	"testing"

	"github.com/nik-kale/mcp-readiness-scanner/internal/rules"
	"github.com/nik-kale/mcp-readiness-scanner/internal/rules/builtin"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
	"github.com/stretchr/testify/require"
)

func TestCompileValidRule(t *testing.T) {
	raw := rules.RawRule{
		ID:        "TEST-001",
		Name:      "Test Rule",
		Severity:  "HIGH",
		Category:  "silent_failure_path",
		MatchMode: "any",
		Patterns: []rules.RawPattern{
			{Type: rules.PatternRegex, Value: "(?i)test\\s+pattern"},
			{Type: rules.PatternContains, Value: "Hello World"},
		},
	}

	compiled, err := rules.Compile(raw)
	require.NoError(t, err)
	require.Equal(t, "TEST-001", compiled.ID)
	require.Equal(t, types.SeverityHigh, compiled.Severity)
	require.Equal(t, types.CategorySilentFailurePath, compiled.Category)
	require.Equal(t, rules.MatchAny, compiled.MatchMode)
	require.Len(t, compiled.Patterns, 2)
	require.NotNil(t, compiled.Patterns[0].Regex)
	require.Equal(t, "hello world", compiled.Patterns[1].Value) // lowercased
}

func TestCompileMatchAll(t *testing.T) {
	raw := rules.RawRule{
		ID:        "TEST-002",
		Name:      "Match All",
		Severity:  "MEDIUM",
		Category:  "unsafe_retry_loop",
		MatchMode: "all",
		Patterns: []rules.RawPattern{
			{Type: rules.PatternContains, Value: "pattern1"},
			{Type: rules.PatternContains, Value: "pattern2"},
		},
	}

	compiled, err := rules.Compile(raw)
	require.NoError(t, err)
	require.Equal(t, rules.MatchAll, compiled.MatchMode)
}

func TestCompileInvalidRegex(t *testing.T) {
	raw := rules.RawRule{
		ID:       "TEST-003",
		Name:     "Bad Regex",
		Severity: "LOW",
		Category: "silent_failure_path",
		Patterns: []rules.RawPattern{
			{Type: rules.PatternRegex, Value: "[invalid"},
		},
	}

	_, err := rules.Compile(raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid regex")
}

func TestCompileMissingID(t *testing.T) {
	raw := rules.RawRule{
		Severity: "LOW",
		Category: "silent_failure_path",
		Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "x"}},
	}
	_, err := rules.Compile(raw)
	require.Error(t, err)
}

func TestCompileUnknownCategory(t *testing.T) {
	raw := rules.RawRule{
		ID:       "TEST-004",
		Severity: "LOW",
		Category: "made_up_category",
		Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "x"}},
	}
	_, err := rules.Compile(raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "made_up_category")
}

func TestLoadBuiltinRules(t *testing.T) {
	rawRules, err := rules.LoadFromFS(builtin.FS())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rawRules), 9, "expected at least 9 built-in rules")

	compiled, errs := rules.CompileAll(rawRules)
	require.Empty(t, errs, "all built-in rules should compile without errors")
	require.GreaterOrEqual(t, len(compiled), 9)
}

func TestRuleSelfTest(t *testing.T) {
	rawRules, err := rules.LoadFromFS(builtin.FS())
	require.NoError(t, err)

	compiled, errs := rules.CompileAll(rawRules)
	require.Empty(t, errs)

	for _, rule := range compiled {
		t.Run(rule.ID, func(t *testing.T) {
			for _, tp := range rule.Examples.TruePositive {
				require.Truef(t, rule.Evaluate(tp).Matched,
					"rule %s: true_positive not matched: %q", rule.ID, tp)
			}
			for _, fp := range rule.Examples.FalsePositive {
				require.Falsef(t, rule.Evaluate(fp).Matched,
					"rule %s: false_positive incorrectly matched: %q", rule.ID, fp)
			}
		})
	}
}

func TestEvaluateMatchAll(t *testing.T) {
	compiled, err := rules.Compile(rules.RawRule{
		ID:        "TEST-005",
		Severity:  "MEDIUM",
		Category:  "unsafe_retry_loop",
		MatchMode: "all",
		Patterns: []rules.RawPattern{
			{Type: rules.PatternContains, Value: "retry"},
			{Type: rules.PatternContains, Value: "forever"},
		},
	})
	require.NoError(t, err)

	require.True(t, compiled.Evaluate("will retry forever").Matched)
	require.False(t, compiled.Evaluate("will retry three times").Matched)
}

func TestEvaluateExcludePatterns(t *testing.T) {
	compiled, err := rules.Compile(rules.RawRule{
		ID:       "TEST-006",
		Severity: "MEDIUM",
		Category: "non_deterministic_response",
		Patterns: []rules.RawPattern{
			{Type: rules.PatternContains, Value: "random"},
		},
		ExcludePatterns: []rules.RawPattern{
			{Type: rules.PatternContains, Value: "seeded random"},
		},
	})
	require.NoError(t, err)

	require.True(t, compiled.Evaluate("returns a random sample").Matched)
	require.False(t, compiled.Evaluate("returns a seeded random sample").Matched)
}

func TestApplyOverridesDisabled(t *testing.T) {
	compiled := makeTestRules("R1", "R2", "R3")
	overrides := map[string]rules.RuleOverride{
		"R2": {Disabled: true},
	}
	result, errs := rules.ApplyOverrides(compiled, overrides)
	require.Empty(t, errs)
	require.Len(t, result, 2)
	require.Equal(t, "R1", result[0].ID)
	require.Equal(t, "R3", result[1].ID)
}

func TestApplyOverridesSeverity(t *testing.T) {
	compiled := makeTestRules("R1")
	compiled[0].Severity = types.SeverityHigh
	overrides := map[string]rules.RuleOverride{
		"R1": {Severity: "LOW"},
	}
	result, errs := rules.ApplyOverrides(compiled, overrides)
	require.Empty(t, errs)
	require.Len(t, result, 1)
	require.Equal(t, types.SeverityLow, result[0].Severity)
}

func TestApplyOverridesInvalidSeverity(t *testing.T) {
	compiled := makeTestRules("R1")
	compiled[0].Severity = types.SeverityHigh
	overrides := map[string]rules.RuleOverride{
		"R1": {Severity: "BANANA"},
	}
	result, errs := rules.ApplyOverrides(compiled, overrides)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "BANANA")
	require.Len(t, result, 1)
	require.Equal(t, types.SeverityHigh, result[0].Severity) // original kept
}

func TestFilterByIDs(t *testing.T) {
	compiled := makeTestRules("R1", "R2", "R3")
	disabled := map[string]bool{"R2": true}
	result := rules.FilterByIDs(compiled, disabled)
	require.Len(t, result, 2)
	require.Equal(t, "R1", result[0].ID)
	require.Equal(t, "R3", result[1].ID)
}

func makeTestRules(ids ...string) []*rules.CompiledRule {
	var result []*rules.CompiledRule
	for _, id := range ids {
		result = append(result, &rules.CompiledRule{
			ID:       id,
			Name:     "Test " + id,
			Severity: types.SeverityMedium,
			Category: types.CategoryUnsafeRetryLoop,
		})
	}
	return result
}
