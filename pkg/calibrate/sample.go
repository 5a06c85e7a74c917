package calibrate

import "github.com/mchmarny/vctl/pkg/score"

// Sample pairs the recorded inputs of one historical post with its observed
// outcome counts. Samples are read-only once loaded.
type Sample struct {
	PostID   string         `json:"post_id" yaml:"postId"`
	Features score.Features `json:"features" yaml:"features"`

	ActualImpressions int64  `json:"actual_impressions" yaml:"actualImpressions"`
	ActualLikes       int64  `json:"actual_likes" yaml:"actualLikes"`
	ActualReplies     int64  `json:"actual_replies" yaml:"actualReplies"`
	ActualReposts     int64  `json:"actual_reposts" yaml:"actualReposts"`
	ActualQuotes      *int64 `json:"actual_quotes,omitempty" yaml:"actualQuotes,omitempty"`
	ActualShares      *int64 `json:"actual_shares,omitempty" yaml:"actualShares,omitempty"`
}

// EngagementRate is the observed aggregate engagement per impression:
// (likes + replies + reposts [+ quotes] [+ shares]) / impressions.
// Returns 0 when no impressions were recorded.
func (s *Sample) EngagementRate() float64 {
	if s.ActualImpressions <= 0 {
		return 0
	}
	total := s.ActualLikes + s.ActualReplies + s.ActualReposts
	if s.ActualQuotes != nil {
		total += *s.ActualQuotes
	}
	if s.ActualShares != nil {
		total += *s.ActualShares
	}
	return float64(total) / float64(s.ActualImpressions)
}
