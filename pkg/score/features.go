package score

import "strings"

// MediaType classifies the attached media of a candidate post.
type MediaType string

const (
	MediaNone  MediaType = "none"
	MediaImage MediaType = "image"
	MediaGif   MediaType = "gif"
	MediaVideo MediaType = "video"
)

// ParseMediaType maps common aliases to a MediaType.
func ParseMediaType(v string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "text":
		return MediaNone, true
	case "image", "photo", "pic":
		return MediaImage, true
	case "gif":
		return MediaGif, true
	case "video", "vid":
		return MediaVideo, true
	default:
		return MediaNone, false
	}
}

// Score is the engagement lift attributed to the media kind.
func (m MediaType) Score() float64 {
	switch m {
	case MediaImage:
		return 0.4
	case MediaGif:
		return 0.6
	case MediaVideo:
		return 0.8
	default:
		return 0.0
	}
}

func (m MediaType) IsVideo() bool {
	return m == MediaVideo
}

func (m MediaType) IsImage() bool {
	return m == MediaImage || m == MediaGif
}

// Features is the immutable per-candidate snapshot of content, author, and
// context signals. It is produced upstream (text analysis is not this
// package's concern) and never mutated by the scoring pipeline. Scalar
// fields are expected in [0,1] unless noted.
type Features struct {
	// Content signals.
	Hook        float64 `json:"hook" yaml:"hook"`
	Clarity     float64 `json:"clarity" yaml:"clarity"`
	Novelty     float64 `json:"novelty" yaml:"novelty"`
	Timeliness  float64 `json:"timeliness" yaml:"timeliness"`
	Controversy float64 `json:"controversy" yaml:"controversy"`
	Sentiment   float64 `json:"sentiment" yaml:"sentiment"` // [-1,1]
	Spamminess  float64 `json:"spamminess" yaml:"spamminess"`
	HasQuestion bool    `json:"has_question" yaml:"hasQuestion"`
	HasLink     bool    `json:"has_link" yaml:"hasLink"`
	CTAShare    bool    `json:"cta_share" yaml:"ctaShare"`
	CTAReply    bool    `json:"cta_reply" yaml:"ctaReply"`
	TextLength  int     `json:"text_length" yaml:"textLength"`

	Media         MediaType `json:"media" yaml:"media"`
	VideoDuration *float64  `json:"video_duration_seconds,omitempty" yaml:"videoDurationSeconds,omitempty"`

	// Author signals.
	Followers         int64   `json:"followers" yaml:"followers"`
	Following         int64   `json:"following" yaml:"following"`
	AccountAgeDays    int     `json:"account_age_days" yaml:"accountAgeDays"`
	AvgEngagementRate float64 `json:"avg_engagement_rate" yaml:"avgEngagementRate"`
	PostsPerDay       float64 `json:"posts_per_day" yaml:"postsPerDay"`
	Verified          bool    `json:"verified" yaml:"verified"`

	// Context signals.
	HourOfDay       int     `json:"hour_of_day" yaml:"hourOfDay"`
	TopicSaturation float64 `json:"topic_saturation" yaml:"topicSaturation"`
	AudienceFit     float64 `json:"audience_fit" yaml:"audienceFit"`
}

// DefaultFeatures returns a neutral baseline snapshot, useful when a
// calibration sample does not carry every author signal.
func DefaultFeatures() Features {
	return Features{
		Hook:              0.4,
		Clarity:           0.5,
		Novelty:           0.5,
		Timeliness:        0.5,
		Controversy:       0.3,
		Sentiment:         0.1,
		Media:             MediaNone,
		Followers:         1000,
		Following:         500,
		AccountAgeDays:    365,
		AvgEngagementRate: 0.02,
		PostsPerDay:       2.0,
		HourOfDay:         12,
		TopicSaturation:   0.5,
		AudienceFit:       0.6,
	}
}

// Signals are the intermediate quantities derived from Features during
// probability prediction. They are surfaced for explainability and feed the
// impression estimator.
type Signals struct {
	LengthScore       float64 `json:"length_score" yaml:"lengthScore"`
	Clarity           float64 `json:"clarity" yaml:"clarity"`
	Hook              float64 `json:"hook" yaml:"hook"`
	Novelty           float64 `json:"novelty" yaml:"novelty"`
	Timeliness        float64 `json:"timeliness" yaml:"timeliness"`
	Shareability      float64 `json:"shareability" yaml:"shareability"`
	ContentQuality    float64 `json:"content_quality" yaml:"contentQuality"`
	AuthorQuality     float64 `json:"author_quality" yaml:"authorQuality"`
	AudienceAlignment float64 `json:"audience_alignment" yaml:"audienceAlignment"`
	NegativeRisk      float64 `json:"negative_risk" yaml:"negativeRisk"`
	PositiveSignal    float64 `json:"positive_signal" yaml:"positiveSignal"`
	MediaScore        float64 `json:"media_score" yaml:"mediaScore"`
	TimeScore         float64 `json:"time_score" yaml:"timeScore"`
}
