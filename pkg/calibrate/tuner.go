package calibrate

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/mchmarny/vctl/pkg/score"
)

const (
	// TunerIterationsDefault bounds the search.
	TunerIterationsDefault = 200

	// TunerStepDefault is the relative perturbation applied per iteration.
	TunerStepDefault = 0.2

	// TunerSeedDefault keeps tuning runs reproducible.
	TunerSeedDefault = 42
)

// Tuner searches the action-weight space for a set that minimizes the
// root-mean-squared error between predicted and observed engagement rates.
// The search is gradient-free (repeated random perturbation with
// accept-if-improved) since the pipeline contains non-differentiable steps,
// and it never returns a weight set worse than its input.
type Tuner struct {
	samples      []Sample
	predictor    score.Predictor
	vqvThreshold float64
	scoreOffset  float64
	iterations   int
	step         float64
	rng          *rand.Rand
}

// TunerOption tweaks tuner construction.
type TunerOption func(*Tuner)

func WithIterations(n int) TunerOption {
	return func(t *Tuner) {
		if n > 0 {
			t.iterations = n
		}
	}
}

func WithStep(s float64) TunerOption {
	return func(t *Tuner) {
		if s > 0 {
			t.step = s
		}
	}
}

func WithSeed(seed int64) TunerOption {
	return func(t *Tuner) {
		t.rng = rand.New(rand.NewSource(seed))
	}
}

// WithScorerConfig overrides the weighted-scorer parameters used when
// evaluating candidate weight sets.
func WithScorerConfig(vqvThreshold, scoreOffset float64) TunerOption {
	return func(t *Tuner) {
		t.vqvThreshold = vqvThreshold
		t.scoreOffset = scoreOffset
	}
}

func NewTuner(predictor score.Predictor, samples []Sample, opts ...TunerOption) (*Tuner, error) {
	if predictor == nil {
		return nil, fmt.Errorf("%w: predictor is required", score.ErrInvalidConfig)
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	t := &Tuner{
		samples:      samples,
		predictor:    predictor,
		vqvThreshold: score.VQVDurationThresholdDefault,
		scoreOffset:  score.ScoreOffsetDefault,
		iterations:   TunerIterationsDefault,
		step:         TunerStepDefault,
		rng:          rand.New(rand.NewSource(TunerSeedDefault)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Tune returns the best weight set observed within the iteration budget.
// Monotonic improvement: the result never scores worse than initial on the
// same sample set. Cancellation returns the best set found so far.
func (t *Tuner) Tune(ctx context.Context, initial score.ActionWeights) (score.ActionWeights, error) {
	best := initial
	bestErr, err := t.Evaluate(ctx, best)
	if err != nil {
		return initial, err
	}

	for i := 0; i < t.iterations; i++ {
		select {
		case <-ctx.Done():
			return best, ctx.Err()
		default:
		}

		candidate := t.perturb(best)
		candErr, err := t.Evaluate(ctx, candidate)
		if err != nil {
			return best, err
		}
		if candErr < bestErr {
			best = candidate
			bestErr = candErr
		}
	}

	return best, nil
}

// Evaluate computes the RMSE of the weight set against the sample set.
func (t *Tuner) Evaluate(ctx context.Context, weights score.ActionWeights) (float64, error) {
	scorer, err := score.NewWeightedScorer(weights, t.vqvThreshold, t.scoreOffset)
	if err != nil {
		return 0, err
	}

	var total float64
	for i := range t.samples {
		s := &t.samples[i]
		pred, err := t.predictor.Predict(ctx, s.Features, nil)
		if err != nil {
			return 0, fmt.Errorf("scoring sample %q: %w", s.PostID, err)
		}
		weighted := scorer.Score(pred.Probs, s.Features.VideoDuration)
		diff := scoreToRate(weighted) - s.EngagementRate()
		total += diff * diff
	}

	return math.Sqrt(total / float64(len(t.samples))), nil
}

// scoreToRate squashes a weighted score into engagement-rate space so weight
// sets can be compared against observed per-impression rates.
func scoreToRate(weighted float64) float64 {
	return score.Sigmoid(weighted - 3.0)
}

// perturb applies a relative random adjustment to every coefficient, walking
// the action list in canonical order to keep seeded runs reproducible.
func (t *Tuner) perturb(w score.ActionWeights) score.ActionWeights {
	m := w.ToMap()
	for _, name := range score.ActionNames {
		m[name] *= 1.0 + (t.rng.Float64()*2.0-1.0)*t.step
	}
	out, err := score.WeightsFromMap(m)
	if err != nil {
		// ToMap always yields a complete set.
		return w
	}
	return out
}
