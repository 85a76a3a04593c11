// Package policy implements declarative readiness policies: YAML documents of
// typed conditions evaluated against tool definition fields.
package policy

import (
	"fmt"
	"strings"

	"github.com/nik-kale/mcp-readiness-scanner/internal/rules"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// Op is a condition operator.
type Op string

const (
	OpAbsent   Op = "absent"   // every listed path is missing
	OpPresent  Op = "present"  // at least one listed path exists
	OpEq       Op = "eq"       // numeric equality on the first present path
	OpNe       Op = "ne"       // numeric inequality
	OpGt       Op = "gt"       // numeric greater-than
	OpGte      Op = "gte"      // numeric greater-or-equal
	OpLt       Op = "lt"       // numeric less-than
	OpLte      Op = "lte"      // numeric less-or-equal
	OpContains Op = "contains" // case-insensitive substring on the string value
)

// RawCondition is one condition as written in YAML. Paths are dotted field
// paths; the first present path supplies the value for comparison operators.
type RawCondition struct {
	Paths []string `yaml:"paths"`
	Op    string   `yaml:"op"`
	Value any      `yaml:"value"`
}

// RawPolicy is the YAML representation of a policy document.
type RawPolicy struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Severity    string         `yaml:"severity"`
	Category    string         `yaml:"category"`
	Remediation string         `yaml:"remediation"`
	When        string         `yaml:"when"` // "all" (default) or "any"
	Conditions  []RawCondition `yaml:"conditions"`
}

// CompiledCondition is a condition ready for evaluation.
type CompiledCondition struct {
	Paths   []string
	Op      Op
	Number  float64 // comparison operand for numeric ops
	Text    string  // lowercased operand for contains
}

// CompiledPolicy is a policy ready for evaluation.
type CompiledPolicy struct {
	ID          string
	Name        string
	Description string
	Severity    types.Severity
	Category    types.Category
	Remediation string
	MatchAll    bool
	Conditions  []CompiledCondition
}

// Compile validates a raw policy and prepares it for evaluation.
func Compile(raw RawPolicy) (*CompiledPolicy, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("policy missing ID")
	}
	if len(raw.Conditions) == 0 {
		return nil, fmt.Errorf("policy %s: no conditions defined", raw.ID)
	}

	sev, err := types.ParseSeverity(raw.Severity)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", raw.ID, err)
	}
	cat, err := types.ParseCategory(raw.Category)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", raw.ID, err)
	}

	compiled := &CompiledPolicy{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Severity:    sev,
		Category:    cat,
		Remediation: raw.Remediation,
		MatchAll:    strings.ToLower(raw.When) != "any",
	}

	for i, rc := range raw.Conditions {
		cc, err := compileCondition(rc)
		if err != nil {
			return nil, fmt.Errorf("policy %s condition %d: %w", raw.ID, i, err)
		}
		compiled.Conditions = append(compiled.Conditions, cc)
	}
	return compiled, nil
}

func compileCondition(rc RawCondition) (CompiledCondition, error) {
	cc := CompiledCondition{Paths: rc.Paths, Op: Op(strings.ToLower(rc.Op))}
	if len(rc.Paths) == 0 {
		return cc, fmt.Errorf("no paths listed")
	}
	switch cc.Op {
	case OpAbsent, OpPresent:
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		n, ok := toNumber(rc.Value)
		if !ok {
			return cc, fmt.Errorf("operator %q requires a numeric value", cc.Op)
		}
		cc.Number = n
	case OpContains:
		s, ok := rc.Value.(string)
		if !ok || s == "" {
			return cc, fmt.Errorf("operator %q requires a string value", cc.Op)
		}
		cc.Text = strings.ToLower(s)
	default:
		return cc, fmt.Errorf("unknown operator %q", rc.Op)
	}
	return cc, nil
}

// CompileAll compiles raw policies, returning compiled policies and any errors.
func CompileAll(raws []RawPolicy) ([]*CompiledPolicy, []error) {
	var policies []*CompiledPolicy
	var errs []error
	for _, raw := range raws {
		cp, err := Compile(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		policies = append(policies, cp)
	}
	return policies, errs
}

// Violated evaluates the policy against a definition. On violation it returns
// a detail string naming the deciding condition.
func (p *CompiledPolicy) Violated(def *tooldef.Definition) (string, bool) {
	var firstDetail string
	for _, c := range p.Conditions {
		detail, ok := c.holds(def)
		if p.MatchAll {
			if !ok {
				return "", false
			}
			if firstDetail == "" {
				firstDetail = detail
			}
		} else if ok {
			return detail, true
		}
	}
	if p.MatchAll {
		return firstDetail, true
	}
	return "", false
}

func (c CompiledCondition) holds(def *tooldef.Definition) (string, bool) {
	switch c.Op {
	case OpAbsent:
		if def.Has(c.Paths...) {
			return "", false
		}
		return fmt.Sprintf("%s not declared", strings.Join(c.Paths, "/")), true
	case OpPresent:
		path, _, ok := def.First(c.Paths...)
		if !ok {
			return "", false
		}
		return path + " declared", true
	case OpContains:
		path, v, ok := def.First(c.Paths...)
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		if !ok || !strings.Contains(strings.ToLower(s), c.Text) {
			return "", false
		}
		return fmt.Sprintf("%s mentions %q", path, c.Text), true
	default:
		path, n, ok := def.Number(c.Paths...)
		if !ok {
			return "", false
		}
		if !compare(c.Op, n, c.Number) {
			return "", false
		}
		return fmt.Sprintf("%s is %v (%s %v)", path, n, c.Op, c.Number), true
	}
}

func compare(op Op, got, want float64) bool {
	switch op {
	case OpEq:
		return got == want
	case OpNe:
		return got != want
	case OpGt:
		return got > want
	case OpGte:
		return got >= want
	case OpLt:
		return got < want
	case OpLte:
		return got <= want
	}
	return false
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ApplyOverrides applies config rule overrides to compiled policies, sharing
// the override shape used for pattern rules.
func ApplyOverrides(compiled []*CompiledPolicy, overrides map[string]rules.RuleOverride) ([]*CompiledPolicy, []error) {
	var result []*CompiledPolicy
	var errs []error
	for _, p := range compiled {
		ovr, ok := overrides[p.ID]
		if !ok {
			result = append(result, p)
			continue
		}
		if ovr.Disabled {
			continue
		}
		if ovr.Severity != "" {
			sev, err := types.ParseSeverity(ovr.Severity)
			if err != nil {
				errs = append(errs, fmt.Errorf("policy %s override: %w", p.ID, err))
				result = append(result, p)
				continue
			}
			p.Severity = sev
		}
		result = append(result, p)
	}
	return result, errs
}
