// Package scanner orchestrates provider execution over tool definitions and
// assembles the merged, scored result.
package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nik-kale/mcp-readiness-scanner/internal/meta"
	"github.com/nik-kale/mcp-readiness-scanner/internal/provider"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// Scanner runs a resolved provider set against tool definitions.
type Scanner struct {
	registry        *provider.Registry
	providers       []string
	ignoreRules     []string
	minScore        int
	failOn          types.Severity
	semanticTimeout time.Duration
	concurrency     int
}

// New creates a Scanner over the given registry with default gates.
func New(registry *provider.Registry) *Scanner {
	return &Scanner{
		registry:        registry,
		minScore:        meta.DefaultMinScore,
		failOn:          meta.DefaultFailOn,
		semanticTimeout: 30 * time.Second,
		concurrency:     4,
	}
}

// SetProviders selects a provider subset by name; empty means all registered.
func (s *Scanner) SetProviders(names []string) {
	s.providers = names
}

// SetIgnoreRules sets the rule IDs to suppress, matched case-insensitively.
func (s *Scanner) SetIgnoreRules(ids []string) {
	s.ignoreRules = ids
}

// SetMinScore sets the production-readiness score threshold.
func (s *Scanner) SetMinScore(min int) {
	s.minScore = min
}

// SetFailOn sets the severity gate for production readiness.
func (s *Scanner) SetFailOn(sev types.Severity) {
	s.failOn = sev
}

// SetSemanticTimeout bounds each semantic provider call.
func (s *Scanner) SetSemanticTimeout(d time.Duration) {
	if d > 0 {
		s.semanticTimeout = d
	}
}

// SetConcurrency bounds parallel tool scans in batch mode.
func (s *Scanner) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// Scan runs the selected providers against one definition. Unknown provider
// names are a configuration error; unavailable or failing providers are
// recorded as skipped and never abort the scan.
func (s *Scanner) Scan(ctx context.Context, def *tooldef.Definition) (*types.ScanResult, error) {
	start := time.Now()

	resolved, unknown := s.registry.Resolve(s.providers)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown providers: %s", strings.Join(unknown, ", "))
	}

	skipped := map[string]string{}
	var runnable []provider.Provider
	for _, p := range resolved {
		if ok, reason := p.Available(); !ok {
			skipped[p.Name()] = reason
			continue
		}
		runnable = append(runnable, p)
	}

	var (
		mu       sync.Mutex
		findings []types.Finding
		ran      []string
		wg       sync.WaitGroup
	)

	for _, p := range runnable {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := s.runProvider(ctx, p, def)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				skipped[p.Name()] = err.Error()
				return
			}
			ran = append(ran, p.Name())
			findings = append(findings, results...)
		}()
	}
	wg.Wait()

	// Stable providers_run order: registration order, not completion order.
	ordered := make([]string, 0, len(ran))
	for _, p := range runnable {
		for _, name := range ran {
			if name == p.Name() {
				ordered = append(ordered, name)
				break
			}
		}
	}

	findings = meta.Deduplicate(findings)
	s.markIgnored(findings, def)
	meta.Sort(findings)

	result := &types.ScanResult{
		Tool:             def.Name(),
		Findings:         findings,
		ProvidersRun:     ordered,
		ProvidersSkipped: skipped,
		StartedAt:        start,
		Duration:         time.Since(start),
	}
	result.Score, result.Grade = meta.Score(result.Active())
	result.ProductionReady = meta.ProductionReady(result.Score, result.Active(), s.minScore, s.failOn)
	return result, nil
}

// runProvider executes one provider with panic recovery and, for semantic
// providers, a bounded timeout. Every failure mode becomes a skip reason.
func (s *Scanner) runProvider(ctx context.Context, p provider.Provider, def *tooldef.Definition) (findings []types.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	if p.Capability() == provider.CapabilitySemantic {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.semanticTimeout)
		defer cancel()
	}

	findings, err = p.Inspect(ctx, def)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("timeout after %s", s.semanticTimeout)
		}
		return nil, err
	}
	return findings, nil
}

// markIgnored flags findings suppressed by configured ignore rules or the
// definition's inline x-readiness-ignore list. Flagged findings stay in the
// slice; scoring reads only active ones.
func (s *Scanner) markIgnored(findings []types.Finding, def *tooldef.Definition) {
	suppress := map[string]bool{}
	for _, id := range s.ignoreRules {
		suppress[strings.ToLower(strings.TrimSpace(id))] = true
	}
	for _, id := range def.IgnoreRules() {
		suppress[strings.ToLower(strings.TrimSpace(id))] = true
	}
	if len(suppress) == 0 {
		return
	}
	for i := range findings {
		if suppress[strings.ToLower(findings[i].RuleID)] {
			findings[i].Ignored = true
		}
	}
}
