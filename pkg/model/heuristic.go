package model

import (
	"context"
	"math"

	"github.com/mchmarny/vctl/pkg/score"
)

// SourceHeuristic labels predictions produced by the closed-form model.
const SourceHeuristic = "heuristic"

// Heuristic is the closed-form action-probability model. It composes derived
// intermediate signals (content quality, hook strength, author quality,
// audience alignment, negative risk, shareability) from the feature scalars
// via weighted sums and saturating transforms, then maps a shared base
// linear combination plus per-action adjustments through a sigmoid.
//
// Predict is pure, synchronous, and side-effect-free: one candidate in, one
// probability vector out, with no dependence on sibling candidates.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (m *Heuristic) Predict(_ context.Context, f score.Features, _ *score.History) (*score.Prediction, error) {
	s := deriveSignals(f)
	return &score.Prediction{
		Probs:   deriveProbs(f, s),
		Signals: s,
		Source:  SourceHeuristic,
	}, nil
}

// deriveSignals computes the intermediate signal set shared by all model
// variants. Out-of-range inputs are clamped rather than rejected.
func deriveSignals(f score.Features) score.Signals {
	hook := score.Clamp01(f.Hook)
	clarity := score.Clamp01(f.Clarity)
	novelty := score.Clamp01(f.Novelty)
	timeliness := score.Clamp01(f.Timeliness)
	controversy := score.Clamp01(f.Controversy)
	spamminess := score.Clamp01(f.Spamminess)
	sentiment := clampSentiment(f.Sentiment)

	lengthScore := score.Gaussian(float64(f.TextLength), 140.0, 70.0)
	mediaScore := f.Media.Score()

	shareability := score.Clamp01(0.4*hook + 0.3*novelty + 0.2*clarity + 0.1*boolVal(f.CTAShare))
	contentQuality := score.Clamp01(0.45*clarity + 0.25*hook + 0.2*novelty + 0.1*timeliness)

	followersLog := score.Log10Safe(float64(f.Followers) + 1.0)
	authorStrength := score.Clamp01((followersLog - 2.0) / 3.0)

	ratio := 1.0
	if f.Following > 0 {
		ratio = float64(f.Followers) / float64(f.Following)
	}
	ratioScore := score.Clamp01(score.Log10Safe(ratio+1.0) / 2.0)

	ageScore := score.Clamp01(float64(f.AccountAgeDays) / 365.0 / 5.0)
	engScore := score.Clamp01(f.AvgEngagementRate / 0.06)
	cadenceScore := score.Gaussian(f.PostsPerDay, 2.0, 2.5)

	verifiedBonus := 0.0
	if f.Verified {
		verifiedBonus = 0.1
	}

	authorQuality := score.Clamp01(
		0.35*authorStrength +
			0.2*ageScore +
			0.2*engScore +
			0.15*ratioScore +
			0.1*cadenceScore +
			verifiedBonus)

	topicSaturation := score.Clamp01(f.TopicSaturation)
	audienceFit := score.Clamp01(f.AudienceFit)
	audienceAlignment := score.Clamp01(0.6*audienceFit + 0.2*(1.0-topicSaturation) + 0.2*ratioScore)

	negativeSentiment := math.Max(-sentiment, 0)
	negativeRisk := score.Clamp01(
		0.4*controversy +
			0.3*spamminess +
			0.15*negativeSentiment +
			0.1*topicSaturation)

	positiveSignal := score.Clamp01(0.4*contentQuality + 0.35*authorQuality + 0.25*audienceAlignment)

	return score.Signals{
		LengthScore:       lengthScore,
		Clarity:           clarity,
		Hook:              hook,
		Novelty:           novelty,
		Timeliness:        timeliness,
		Shareability:      shareability,
		ContentQuality:    contentQuality,
		AuthorQuality:     authorQuality,
		AudienceAlignment: audienceAlignment,
		NegativeRisk:      negativeRisk,
		PositiveSignal:    positiveSignal,
		MediaScore:        mediaScore,
		TimeScore:         score.TimeOfDayScore(f.HourOfDay),
	}
}

// deriveProbs maps the derived signals to per-action probabilities. Every
// positive action shares the same base combination of positive signal, viral
// lift, and negative risk; the negative actions carry their own intercepts.
func deriveProbs(f score.Features, s score.Signals) score.ActionProbs {
	sentiment := clampSentiment(f.Sentiment)
	controversy := score.Clamp01(f.Controversy)
	topicSaturation := score.Clamp01(f.TopicSaturation)

	viralLift := score.Clamp01(0.5*s.Hook + 0.3*s.Novelty + 0.2*s.MediaScore)
	base := -2.0 + 3.2*s.PositiveSignal + 1.4*viralLift - 2.2*s.NegativeRisk

	hasQuestion := boolVal(f.HasQuestion)
	ctaReply := boolVal(f.CTAReply)
	ctaShare := boolVal(f.CTAShare)
	linkFlag := boolVal(f.HasLink)
	isVideo := boolVal(f.Media.IsVideo())
	isImage := boolVal(f.Media.IsImage())

	dwell := score.Sigmoid(base + 0.2*s.LengthScore + 0.4*s.MediaScore - 0.2*linkFlag)

	return score.ActionProbs{
		Like:         score.Sigmoid(base + 0.6*s.MediaScore + 0.2*math.Max(sentiment, 0)),
		Reply:        score.Sigmoid(base - 0.2*s.MediaScore + 0.6*hasQuestion + 0.3*controversy + 0.2*ctaReply),
		Repost:       score.Sigmoid(base + 0.6*s.Shareability + 0.3*s.Novelty - 0.3*linkFlag + 0.1*ctaShare),
		Quote:        score.Sigmoid(base + 0.4*controversy + 0.2*s.Novelty),
		Click:        score.Sigmoid(base + 0.9*linkFlag + 0.2*s.Hook),
		ProfileClick: score.Sigmoid(base + 0.5*s.AuthorQuality + 0.2*s.Novelty),
		VideoView:    score.Sigmoid(base + 1.2*isVideo + 0.2*s.Hook),
		PhotoExpand:  score.Sigmoid(base + 1.0*isImage + 0.1*s.Hook),
		Share:        score.Sigmoid(base + 0.5*s.Shareability + 0.2*s.Novelty),
		ShareDM:      score.Sigmoid(base + 0.35*s.Shareability + 0.1*s.Novelty - 0.1*linkFlag),
		ShareLink:    score.Sigmoid(base + 0.25*s.Shareability + 0.2*linkFlag),
		Dwell:        dwell,
		FollowAuthor: score.Sigmoid(base + 0.6*s.AuthorQuality + 0.2*s.Hook),
		QuotedClick:  score.Sigmoid(base + 0.4*controversy + 0.2*s.Hook + 0.1*s.Novelty),

		NotInterested: score.Sigmoid(-1.0 + 2.2*s.NegativeRisk + 0.6*topicSaturation - 0.8*s.AudienceAlignment),
		Block:         score.Sigmoid(-2.0 + 2.6*s.NegativeRisk + 0.6*controversy),
		Mute:          score.Sigmoid(-1.8 + 2.3*s.NegativeRisk + 0.8*topicSaturation),
		Report:        score.Sigmoid(-2.4 + 2.8*s.NegativeRisk + 0.6*controversy),

		DwellTime: estimateDwellTime(f.TextLength, s.MediaScore, dwell),
	}
}

// estimateDwellTime is the expected seconds spent on the candidate, bounded
// to [0,60].
func estimateDwellTime(textLength int, mediaScore, dwellProb float64) float64 {
	estimate := 1.5 + float64(textLength)/80.0 + 6.0*mediaScore + 10.0*dwellProb
	return math.Min(math.Max(estimate, 0), 60)
}

func clampSentiment(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, -1), 1)
}

func boolVal(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
