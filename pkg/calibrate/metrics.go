package calibrate

import "math"

// Metrics are the aggregate statistics of one calibration run. Correlations
// are Pearson; impression correlation is computed on log10(x+1) since reach
// spans orders of magnitude. Pairwise ranking accuracy is the fraction of
// sample pairs whose predicted ordering agrees with the observed ordering,
// with tied pairs excluded from the denominator; it measures whether the
// model ranks content correctly even when absolute magnitudes are off.
type Metrics struct {
	ImpressionCorrelation     float64 `json:"impression_correlation" yaml:"impressionCorrelation"`
	EngagementRateCorrelation float64 `json:"engagement_rate_correlation" yaml:"engagementRateCorrelation"`
	LikeRateMAE               float64 `json:"like_rate_mae" yaml:"likeRateMAE"`
	ReplyRateMAE              float64 `json:"reply_rate_mae" yaml:"replyRateMAE"`
	RepostRateMAE             float64 `json:"repost_rate_mae" yaml:"repostRateMAE"`
	PairwiseRankingAccuracy   float64 `json:"pairwise_ranking_accuracy" yaml:"pairwiseRankingAccuracy"`
	SampleCount               int     `json:"sample_count" yaml:"sampleCount"`
}

func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0
	}

	meanX := mean(xs)
	meanY := mean(ys)

	var num, denX, denY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}

	if denX <= 0 || denY <= 0 {
		return 0
	}
	return num / (math.Sqrt(denX) * math.Sqrt(denY))
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var total float64
	for _, v := range vs {
		total += v
	}
	return total / float64(len(vs))
}

// pairwiseAccuracy compares predicted and observed orderings over all sample
// pairs. Pairs tied on either side carry no ordering information and are
// excluded from the denominator.
func pairwiseAccuracy(predicted, actual []float64) float64 {
	var correct, total int
	for i := 0; i < len(predicted); i++ {
		for j := i + 1; j < len(predicted); j++ {
			if predicted[i] == predicted[j] || actual[i] == actual[j] {
				continue
			}
			if (predicted[i] > predicted[j]) == (actual[i] > actual[j]) {
				correct++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
