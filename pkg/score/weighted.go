package score

import "fmt"

const (
	// VQVDurationThresholdDefault is the minimum video length in seconds that
	// earns the video-quality-view credit. Short clips complete trivially and
	// must not be rewarded for it.
	VQVDurationThresholdDefault = 6.0

	// ScoreOffsetDefault is added once to net-negative sums to shift heavily
	// penalized candidates into a comparable range without clipping.
	ScoreOffsetDefault = 1.0
)

// WeightedScorer reduces an ActionProbs vector to a single scalar using the
// configured per-action coefficients. Score is a pure function: identical
// inputs produce bit-identical output, and the summation order is fixed.
type WeightedScorer struct {
	weights      ActionWeights
	vqvThreshold float64
	scoreOffset  float64
}

func NewWeightedScorer(weights ActionWeights, vqvThreshold, scoreOffset float64) (*WeightedScorer, error) {
	if vqvThreshold < 0 {
		return nil, fmt.Errorf("%w: vqv duration threshold must be >= 0, got %f", ErrInvalidConfig, vqvThreshold)
	}
	return &WeightedScorer{
		weights:      weights,
		vqvThreshold: vqvThreshold,
		scoreOffset:  scoreOffset,
	}, nil
}

// Weights returns the coefficients the scorer was built with.
func (s *WeightedScorer) Weights() ActionWeights {
	return s.weights
}

// Score sums probability*weight over all actions plus the dwell-time term.
// The video-view term is included only when a video duration is present and
// meets the threshold. A net-negative sum gets the score offset added once.
func (s *WeightedScorer) Score(p ActionProbs, videoDuration *float64) float64 {
	var total float64

	total += p.Like * s.weights.Favorite
	total += p.Reply * s.weights.Reply
	total += p.Repost * s.weights.Repost
	total += p.PhotoExpand * s.weights.PhotoExpand
	total += p.Click * s.weights.Click
	total += p.ProfileClick * s.weights.ProfileClick
	total += p.Share * s.weights.Share
	total += p.ShareDM * s.weights.ShareDM
	total += p.ShareLink * s.weights.ShareLink
	total += p.Dwell * s.weights.Dwell
	total += p.Quote * s.weights.Quote
	total += p.QuotedClick * s.weights.QuotedClick
	total += p.FollowAuthor * s.weights.FollowAuthor

	if videoDuration != nil && *videoDuration >= s.vqvThreshold {
		total += p.VideoView * s.weights.VQV
	}

	total += p.NotInterested * s.weights.NotInterested
	total += p.Block * s.weights.Block
	total += p.Mute * s.weights.Mute
	total += p.Report * s.weights.Report

	total += p.DwellTime * s.weights.DwellTime

	if total < 0 {
		total += s.scoreOffset
	}

	return total
}
