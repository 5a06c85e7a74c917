package score

import "context"

// Candidate is one content item moving through the scoring pipeline. The
// identity fields and Features are set by the caller; the score fields are
// populated stage by stage. Candidates within a batch share no state.
type Candidate struct {
	ID           string   `json:"id" yaml:"id"`
	AuthorID     string   `json:"author_id" yaml:"authorId"`
	OutOfNetwork bool     `json:"out_of_network" yaml:"outOfNetwork"`
	Features     Features `json:"features" yaml:"features"`

	Probs               ActionProbs `json:"probs" yaml:"probs"`
	Signals             Signals     `json:"signals" yaml:"signals"`
	WeightedScore       float64     `json:"weighted_score" yaml:"weightedScore"`
	DiversityMultiplier float64     `json:"diversity_multiplier" yaml:"diversityMultiplier"`
	OonMultiplier       float64     `json:"oon_multiplier" yaml:"oonMultiplier"`
	Score               float64     `json:"score" yaml:"score"`

	// Warnings carries non-fatal degradations surfaced during prediction,
	// e.g. a remote backend falling back to the heuristic model.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HistoryPost is one prior post in the requesting user's engagement history.
type HistoryPost struct {
	PostID        string   `json:"post_id" yaml:"postId"`
	AuthorID      string   `json:"author_id" yaml:"authorId"`
	VideoDuration *float64 `json:"video_duration_seconds,omitempty" yaml:"videoDurationSeconds,omitempty"`
}

// History is the optional per-request user context forwarded to prediction
// backends that condition on engagement history.
type History struct {
	UserID    string        `json:"user_id" yaml:"userId"`
	Embedding []float32     `json:"embedding,omitempty" yaml:"embedding,omitempty"`
	Posts     []HistoryPost `json:"posts,omitempty" yaml:"posts,omitempty"`
}

// Prediction is the result of one model call for one candidate.
type Prediction struct {
	Probs   ActionProbs
	Signals Signals
	// Source labels the model that produced the probabilities
	// (heuristic, phoenix, hybrid).
	Source   string
	Warnings []string
}

// Predictor maps a candidate's features to per-action engagement
// probabilities. Implementations must honor candidate isolation: the result
// for one candidate may not depend on any sibling candidate in the batch.
type Predictor interface {
	Predict(ctx context.Context, f Features, h *History) (*Prediction, error)
}
