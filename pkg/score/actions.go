package score

// Action names recognized by the scoring pipeline. The weight configuration
// must define a coefficient for every one of them.
const (
	ActionFavorite      = "favorite"
	ActionReply         = "reply"
	ActionRepost        = "repost"
	ActionQuote         = "quote"
	ActionClick         = "click"
	ActionProfileClick  = "profile_click"
	ActionVQV           = "vqv"
	ActionPhotoExpand   = "photo_expand"
	ActionShare         = "share"
	ActionShareDM       = "share_dm"
	ActionShareLink     = "share_link"
	ActionDwell         = "dwell"
	ActionFollowAuthor  = "follow_author"
	ActionQuotedClick   = "quoted_click"
	ActionNotInterested = "not_interested"
	ActionBlock         = "block"
	ActionMute          = "mute"
	ActionReport        = "report"
	ActionDwellTime     = "dwell_time"
)

// ActionNames is the canonical action order. Weighted scoring iterates it in
// this fixed order so floating-point results are reproducible across runs.
var ActionNames = []string{
	ActionFavorite,
	ActionReply,
	ActionRepost,
	ActionQuote,
	ActionClick,
	ActionProfileClick,
	ActionVQV,
	ActionPhotoExpand,
	ActionShare,
	ActionShareDM,
	ActionShareLink,
	ActionDwell,
	ActionFollowAuthor,
	ActionQuotedClick,
	ActionNotInterested,
	ActionBlock,
	ActionMute,
	ActionReport,
	ActionDwellTime,
}

// ActionProbs holds one predicted probability per engagement action, plus the
// expected dwell time in seconds. All probabilities are in [0,1]; DwellTime
// is unbounded but non-negative. A value is produced exactly once per
// candidate and is immutable afterward.
type ActionProbs struct {
	Like          float64 `json:"like" yaml:"like"`
	Reply         float64 `json:"reply" yaml:"reply"`
	Repost        float64 `json:"repost" yaml:"repost"`
	Quote         float64 `json:"quote" yaml:"quote"`
	Click         float64 `json:"click" yaml:"click"`
	ProfileClick  float64 `json:"profile_click" yaml:"profileClick"`
	VideoView     float64 `json:"video_view" yaml:"videoView"`
	PhotoExpand   float64 `json:"photo_expand" yaml:"photoExpand"`
	Share         float64 `json:"share" yaml:"share"`
	ShareDM       float64 `json:"share_dm" yaml:"shareDM"`
	ShareLink     float64 `json:"share_link" yaml:"shareLink"`
	Dwell         float64 `json:"dwell" yaml:"dwell"`
	FollowAuthor  float64 `json:"follow_author" yaml:"followAuthor"`
	QuotedClick   float64 `json:"quoted_click" yaml:"quotedClick"`
	NotInterested float64 `json:"not_interested" yaml:"notInterested"`
	Block         float64 `json:"block" yaml:"block"`
	Mute          float64 `json:"mute" yaml:"mute"`
	Report        float64 `json:"report" yaml:"report"`
	DwellTime     float64 `json:"dwell_time" yaml:"dwellTime"`
}

// positive returns the probabilities of the positive engagement actions in
// canonical order.
func (p ActionProbs) positive() []float64 {
	return []float64{
		p.Like,
		p.Reply,
		p.Repost,
		p.Quote,
		p.Share,
		p.ShareDM,
		p.ShareLink,
		p.Click,
		p.ProfileClick,
		p.FollowAuthor,
		p.VideoView,
		p.PhotoExpand,
		p.QuotedClick,
	}
}

// ActionVolumeRate is the expected number of engagement actions per
// impression (sum of positive action probabilities).
func (p ActionProbs) ActionVolumeRate() float64 {
	var total float64
	for _, v := range p.positive() {
		total += v
	}
	return total
}

// UniqueEngagementRate is the probability that a viewer takes at least one
// positive action: 1 - product(1 - p) over the positive actions.
func (p ActionProbs) UniqueEngagementRate() float64 {
	none := 1.0
	for _, v := range p.positive() {
		none *= 1.0 - Clamp01(v)
	}
	return Clamp01(1.0 - none)
}

// Blend interpolates per action between p and other: p*(1-w) + other*w.
// Probabilities are clamped back to [0,1]; DwellTime is interpolated without
// clamping since it is not a probability.
func (p ActionProbs) Blend(other ActionProbs, w float64) ActionProbs {
	bp := func(a, b float64) float64 { return Clamp01(a*(1.0-w) + b*w) }
	return ActionProbs{
		Like:          bp(p.Like, other.Like),
		Reply:         bp(p.Reply, other.Reply),
		Repost:        bp(p.Repost, other.Repost),
		Quote:         bp(p.Quote, other.Quote),
		Click:         bp(p.Click, other.Click),
		ProfileClick:  bp(p.ProfileClick, other.ProfileClick),
		VideoView:     bp(p.VideoView, other.VideoView),
		PhotoExpand:   bp(p.PhotoExpand, other.PhotoExpand),
		Share:         bp(p.Share, other.Share),
		ShareDM:       bp(p.ShareDM, other.ShareDM),
		ShareLink:     bp(p.ShareLink, other.ShareLink),
		Dwell:         bp(p.Dwell, other.Dwell),
		FollowAuthor:  bp(p.FollowAuthor, other.FollowAuthor),
		QuotedClick:   bp(p.QuotedClick, other.QuotedClick),
		NotInterested: bp(p.NotInterested, other.NotInterested),
		Block:         bp(p.Block, other.Block),
		Mute:          bp(p.Mute, other.Mute),
		Report:        bp(p.Report, other.Report),
		DwellTime:     p.DwellTime*(1.0-w) + other.DwellTime*w,
	}
}
