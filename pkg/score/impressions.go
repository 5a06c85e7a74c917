package score

import "math"

// ReachEstimate is the predicted impression split for a candidate.
type ReachEstimate struct {
	InNetwork    float64 `json:"impressions_in" yaml:"impressionsIn"`
	OutOfNetwork float64 `json:"impressions_oon" yaml:"impressionsOon"`
	Total        float64 `json:"impressions_total" yaml:"impressionsTotal"`
}

// TimeOfDayScore is a bimodal activity curve peaking near the morning and
// evening engagement windows (9:00 and 20:00).
func TimeOfDayScore(hour int) float64 {
	if hour > 23 {
		hour = 23
	}
	if hour < 0 {
		hour = 0
	}
	h := float64(hour)
	morning := Gaussian(h, 9.0, 3.5)
	evening := Gaussian(h, 20.0, 3.5)
	return math.Max(morning, evening)
}

// EstimateImpressions predicts in-network and out-of-network reach from the
// author/audience features, the derived signals, and the pipeline's weighted
// score. Both estimates are clamped to finite non-negative values so
// degenerate inputs (zero followers, NaN scalars) cannot propagate.
func EstimateImpressions(f Features, s Signals, weightedScore float64) ReachEstimate {
	activeFraction := 0.015 + 0.08*TimeOfDayScore(f.HourOfDay)
	in := float64(f.Followers) * activeFraction * (0.6 + 0.4*s.AudienceAlignment)

	seed := 300.0 + 1400.0*s.PositiveSignal
	reachMultiplier := 1.0 + Clamp01((weightedScore-1.0)/3.0)*4.0
	oon := seed *
		reachMultiplier *
		(0.5 + 0.5*s.ContentQuality) *
		(1.0 - 0.7*Clamp01(f.TopicSaturation)) *
		(1.0 - 0.5*s.NegativeRisk)

	in = clampReach(in)
	oon = clampReach(oon)

	return ReachEstimate{
		InNetwork:    in,
		OutOfNetwork: oon,
		Total:        in + oon,
	}
}

func clampReach(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
