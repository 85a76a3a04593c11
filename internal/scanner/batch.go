package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// ScanBatch scans every tool definition in a batch document concurrently,
// bounded by the configured concurrency. A malformed or failing tool yields a
// per-tool error in its slot; siblings are unaffected and input order is kept.
func (s *Scanner) ScanBatch(ctx context.Context, data []byte) (*types.BatchResult, error) {
	start := time.Now()

	docs, err := tooldef.Split(data)
	if err != nil {
		return nil, err
	}

	results := make([]types.ToolResult, len(docs))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, doc := range docs {
		i, doc := i, doc
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.scanOne(ctx, doc)
		}()
	}
	wg.Wait()

	return &types.BatchResult{Results: results, Duration: time.Since(start)}, nil
}

func (s *Scanner) scanOne(ctx context.Context, doc []byte) types.ToolResult {
	def, err := tooldef.Parse(doc)
	if err != nil {
		return types.ToolResult{Err: err.Error()}
	}
	result, err := s.Scan(ctx, def)
	if err != nil {
		return types.ToolResult{Tool: def.Name(), Err: err.Error()}
	}
	return types.ToolResult{Tool: def.Name(), Result: result}
}
