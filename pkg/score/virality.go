package score

// Tier buckets the 0-100 virality score into a reportable label.
type Tier string

const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
	TierVeryHigh Tier = "Very High"
	TierBreakout Tier = "Breakout"
)

// TierFromScore maps a 0-100 virality score to its tier.
func TierFromScore(v float64) Tier {
	switch {
	case v < 35:
		return TierLow
	case v < 55:
		return TierModerate
	case v < 75:
		return TierHigh
	case v < 90:
		return TierVeryHigh
	default:
		return TierBreakout
	}
}

// ViralityScore combines the final pipeline score and the predicted total
// reach into a single 0-100 headline number.
func ViralityScore(finalScore, totalImpressions float64) float64 {
	raw := (finalScore-1.0)*0.8 + (Log10Safe(totalImpressions+1.0)-3.0)*0.4
	return 100.0 * Sigmoid(raw)
}

// EngagementEstimate is the expected engagement volume for a reach estimate.
type EngagementEstimate struct {
	UniqueEngagementRate float64 `json:"unique_engagement_rate" yaml:"uniqueEngagementRate"`
	ActionVolumeRate     float64 `json:"action_volume_rate" yaml:"actionVolumeRate"`
	ExpectedUnique       float64 `json:"expected_unique_engagements" yaml:"expectedUniqueEngagements"`
	ExpectedVolume       float64 `json:"expected_action_volume" yaml:"expectedActionVolume"`
}

// EstimateEngagements scales the per-impression engagement rates by the
// predicted total reach.
func EstimateEngagements(p ActionProbs, reach ReachEstimate) EngagementEstimate {
	uer := p.UniqueEngagementRate()
	avr := p.ActionVolumeRate()
	return EngagementEstimate{
		UniqueEngagementRate: uer,
		ActionVolumeRate:     avr,
		ExpectedUnique:       reach.Total * uer,
		ExpectedVolume:       reach.Total * avr,
	}
}
