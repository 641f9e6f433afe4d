package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gohrm/domain/melt"
	"gohrm/ports"
)

// BatchInput pairs a display name (usually the file name) with its source
type BatchInput struct {
	Name   string
	Source ports.ReadingSource
}

// BatchResult holds one completed run from a batch
type BatchResult struct {
	Name   string
	Result *melt.AnalysisResult
}

// BatchAnalyze analyzes independent inputs concurrently. Every input gets
// its own service instance, preserving the single-writer rule inside each
// run. The first failure cancels the remaining work.
func BatchAnalyze(ctx context.Context, inputs []BatchInput, settings melt.AnalysisSettings) ([]BatchResult, error) {
	results := make([]BatchResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reading, err := input.Source.Read()
			if err != nil {
				return fmt.Errorf("%s: %w", input.Name, err)
			}
			result, err := NewAnalysisService().Analyze(reading, settings)
			if err != nil {
				return fmt.Errorf("%s: %w", input.Name, err)
			}
			results[i] = BatchResult{Name: input.Name, Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
