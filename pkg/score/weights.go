package score

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates the scoring configuration cannot produce a
// working pipeline. It is fatal at construction and never recovered.
var ErrInvalidConfig = errors.New("invalid scoring configuration")

// ActionWeights are the signed coefficients applied to each action
// probability when reducing ActionProbs to a single weighted score.
type ActionWeights struct {
	Favorite      float64 `json:"favorite" yaml:"favorite"`
	Reply         float64 `json:"reply" yaml:"reply"`
	Repost        float64 `json:"repost" yaml:"repost"`
	Quote         float64 `json:"quote" yaml:"quote"`
	Click         float64 `json:"click" yaml:"click"`
	ProfileClick  float64 `json:"profile_click" yaml:"profile_click"`
	VQV           float64 `json:"vqv" yaml:"vqv"`
	PhotoExpand   float64 `json:"photo_expand" yaml:"photo_expand"`
	Share         float64 `json:"share" yaml:"share"`
	ShareDM       float64 `json:"share_dm" yaml:"share_dm"`
	ShareLink     float64 `json:"share_link" yaml:"share_link"`
	Dwell         float64 `json:"dwell" yaml:"dwell"`
	FollowAuthor  float64 `json:"follow_author" yaml:"follow_author"`
	QuotedClick   float64 `json:"quoted_click" yaml:"quoted_click"`
	NotInterested float64 `json:"not_interested" yaml:"not_interested"`
	Block         float64 `json:"block" yaml:"block"`
	Mute          float64 `json:"mute" yaml:"mute"`
	Report        float64 `json:"report" yaml:"report"`
	DwellTime     float64 `json:"dwell_time" yaml:"dwell_time"`
}

// DefaultWeights returns the production baseline coefficients.
func DefaultWeights() ActionWeights {
	return ActionWeights{
		Favorite:      1.0,
		Reply:         1.6,
		Repost:        2.0,
		Quote:         1.7,
		Click:         0.4,
		ProfileClick:  0.3,
		VQV:           0.5,
		PhotoExpand:   0.3,
		Share:         1.4,
		ShareDM:       0.8,
		ShareLink:     0.6,
		Dwell:         0.2,
		FollowAuthor:  1.2,
		QuotedClick:   0.5,
		NotInterested: -2.5,
		Block:         -5.0,
		Mute:          -3.0,
		Report:        -6.0,
		DwellTime:     0.1,
	}
}

// WeightsFromMap builds ActionWeights from a named key/value mapping as
// supplied by the configuration source. Every action must be present; a
// missing action is a configuration error, not a zero default.
func WeightsFromMap(m map[string]float64) (ActionWeights, error) {
	var w ActionWeights
	if m == nil {
		return w, fmt.Errorf("%w: weights not provided", ErrInvalidConfig)
	}

	fields := w.fields()
	for _, name := range ActionNames {
		v, ok := m[name]
		if !ok {
			return ActionWeights{}, fmt.Errorf("%w: missing weight for action %q", ErrInvalidConfig, name)
		}
		*fields[name] = v
	}
	return w, nil
}

// ToMap is the inverse of WeightsFromMap.
func (w ActionWeights) ToMap() map[string]float64 {
	fields := w.fields()
	m := make(map[string]float64, len(ActionNames))
	for _, name := range ActionNames {
		m[name] = *fields[name]
	}
	return m
}

func (w *ActionWeights) fields() map[string]*float64 {
	return map[string]*float64{
		ActionFavorite:      &w.Favorite,
		ActionReply:         &w.Reply,
		ActionRepost:        &w.Repost,
		ActionQuote:         &w.Quote,
		ActionClick:         &w.Click,
		ActionProfileClick:  &w.ProfileClick,
		ActionVQV:           &w.VQV,
		ActionPhotoExpand:   &w.PhotoExpand,
		ActionShare:         &w.Share,
		ActionShareDM:       &w.ShareDM,
		ActionShareLink:     &w.ShareLink,
		ActionDwell:         &w.Dwell,
		ActionFollowAuthor:  &w.FollowAuthor,
		ActionQuotedClick:   &w.QuotedClick,
		ActionNotInterested: &w.NotInterested,
		ActionBlock:         &w.Block,
		ActionMute:          &w.Mute,
		ActionReport:        &w.Report,
		ActionDwellTime:     &w.DwellTime,
	}
}
