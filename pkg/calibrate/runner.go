package calibrate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/vctl/pkg/score"
)

// ErrNoSamples indicates a calibration run was asked to operate on an empty
// sample set. Fatal for the run, not for the process.
var ErrNoSamples = errors.New("calibration requires at least one sample")

// Runner replays historical samples through the scoring pipeline and
// aggregates accuracy metrics against the recorded outcomes.
type Runner struct {
	predictor score.Predictor
	weighted  *score.WeightedScorer
	workers   int
}

// RunnerOption tweaks runner construction.
type RunnerOption func(*Runner)

// WithRunnerWorkers caps the per-sample scoring fan-out.
func WithRunnerWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

func NewRunner(predictor score.Predictor, weighted *score.WeightedScorer, opts ...RunnerOption) (*Runner, error) {
	if predictor == nil || weighted == nil {
		return nil, fmt.Errorf("%w: predictor and weighted scorer are required", score.ErrInvalidConfig)
	}
	r := &Runner{
		predictor: predictor,
		weighted:  weighted,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// sampleResult holds the per-sample values the metrics aggregate over.
// Results land in an index-addressed slice so parallel execution reproduces
// the exact metrics of a sequential run.
type sampleResult struct {
	predImpressions   float64
	actualImpressions float64
	predRate          float64
	predScore         float64
	actualRate        float64
	likeErr           float64
	replyErr          float64
	repostErr         float64
	hasRates          bool
}

// Run scores every sample and returns the aggregate metrics. An empty sample
// set is an error, reported to the caller without crashing the process.
func (r *Runner) Run(ctx context.Context, samples []Sample) (*Metrics, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	results := make([]sampleResult, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range samples {
		i := i
		g.Go(func() error {
			res, err := r.scoreSample(gctx, &samples[i])
			if err != nil {
				return fmt.Errorf("scoring sample %q: %w", samples[i].PostID, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate(results), nil
}

func (r *Runner) scoreSample(ctx context.Context, s *Sample) (*sampleResult, error) {
	pred, err := r.predictor.Predict(ctx, s.Features, nil)
	if err != nil {
		return nil, err
	}

	weighted := r.weighted.Score(pred.Probs, s.Features.VideoDuration)
	reach := score.EstimateImpressions(s.Features, pred.Signals, weighted)

	res := &sampleResult{
		predImpressions:   reach.Total,
		actualImpressions: float64(s.ActualImpressions),
		predRate:          pred.Probs.UniqueEngagementRate(),
		predScore:         weighted,
		actualRate:        s.EngagementRate(),
	}

	if s.ActualImpressions > 0 {
		impressions := float64(s.ActualImpressions)
		res.likeErr = math.Abs(pred.Probs.Like - float64(s.ActualLikes)/impressions)
		res.replyErr = math.Abs(pred.Probs.Reply - float64(s.ActualReplies)/impressions)
		res.repostErr = math.Abs(pred.Probs.Repost - float64(s.ActualReposts)/impressions)
		res.hasRates = true
	}

	return res, nil
}

func aggregate(results []sampleResult) *Metrics {
	n := len(results)

	predImpLog := make([]float64, 0, n)
	actualImpLog := make([]float64, 0, n)
	predRates := make([]float64, 0, n)
	actualRates := make([]float64, 0, n)
	predScores := make([]float64, 0, n)
	var likeErrs, replyErrs, repostErrs []float64

	for i := range results {
		res := &results[i]
		predImpLog = append(predImpLog, score.Log10Safe(res.predImpressions+1))
		actualImpLog = append(actualImpLog, score.Log10Safe(res.actualImpressions+1))
		predRates = append(predRates, res.predRate)
		predScores = append(predScores, res.predScore)
		actualRates = append(actualRates, res.actualRate)
		if res.hasRates {
			likeErrs = append(likeErrs, res.likeErr)
			replyErrs = append(replyErrs, res.replyErr)
			repostErrs = append(repostErrs, res.repostErr)
		}
	}

	return &Metrics{
		ImpressionCorrelation:     pearson(predImpLog, actualImpLog),
		EngagementRateCorrelation: pearson(predRates, actualRates),
		LikeRateMAE:               mean(likeErrs),
		ReplyRateMAE:              mean(replyErrs),
		RepostRateMAE:             mean(repostErrs),
		PairwiseRankingAccuracy:   pairwiseAccuracy(predScores, actualRates),
		SampleCount:               n,
	}
}
