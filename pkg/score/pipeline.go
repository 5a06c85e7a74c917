package score

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Pipeline runs the fixed stage order over a batch of candidates:
//
//  1. per-candidate probability prediction (parallel)
//  2. per-candidate weighted scoring (parallel, fused with 1)
//  3. sort descending by weighted score
//  4. author-diversity pass (sequential by contract)
//  5. out-of-network pass
//  6. final sort descending by score
//
// The order is part of the observable contract; changing it changes results.
type Pipeline struct {
	predictor Predictor
	weighted  *WeightedScorer
	diversity *AuthorDiversityScorer
	oon       *OonScorer
	workers   int
}

// PipelineOption tweaks pipeline construction.
type PipelineOption func(*Pipeline)

// WithWorkers caps the prediction fan-out. Defaults to GOMAXPROCS.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func NewPipeline(predictor Predictor, weighted *WeightedScorer, diversity *AuthorDiversityScorer, oon *OonScorer, opts ...PipelineOption) (*Pipeline, error) {
	if predictor == nil {
		return nil, fmt.Errorf("%w: predictor is required", ErrInvalidConfig)
	}
	if weighted == nil || diversity == nil || oon == nil {
		return nil, fmt.Errorf("%w: all pipeline stages are required", ErrInvalidConfig)
	}

	p := &Pipeline{
		predictor: predictor,
		weighted:  weighted,
		diversity: diversity,
		oon:       oon,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Score populates every score field of the batch in place and leaves the
// slice sorted by descending final score. Prediction honors ctx cancellation;
// a single failed candidate fails the batch.
func (p *Pipeline) Score(ctx context.Context, candidates []*Candidate, history *History) error {
	if len(candidates) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, c := range candidates {
		c := c
		g.Go(func() error {
			pred, err := p.predictor.Predict(gctx, c.Features, history)
			if err != nil {
				return fmt.Errorf("predicting candidate %q: %w", c.ID, err)
			}
			c.Probs = pred.Probs
			c.Signals = pred.Signals
			c.Warnings = pred.Warnings
			c.WeightedScore = p.weighted.Score(c.Probs, c.Features.VideoDuration)
			c.Score = c.WeightedScore
			c.DiversityMultiplier = 1.0
			c.OonMultiplier = 1.0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Candidate ID breaks score ties to keep the batch order reproducible.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].WeightedScore != candidates[j].WeightedScore {
			return candidates[i].WeightedScore > candidates[j].WeightedScore
		}
		return candidates[i].ID < candidates[j].ID
	})

	if err := p.diversity.Apply(candidates); err != nil {
		return err
	}

	for _, c := range candidates {
		p.oon.Apply(c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ID < candidates[j].ID
	})

	return nil
}
