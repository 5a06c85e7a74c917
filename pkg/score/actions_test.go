package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueEngagementRate(t *testing.T) {
	assert.Equal(t, 0.0, ActionProbs{}.UniqueEngagementRate())

	// single action degenerates to that probability
	p := ActionProbs{Like: 0.3}
	assert.InDelta(t, 0.3, p.UniqueEngagementRate(), 1e-12)

	// two independent actions: 1 - 0.7*0.9 = 0.37
	p = ActionProbs{Like: 0.3, Click: 0.1}
	assert.InDelta(t, 0.37, p.UniqueEngagementRate(), 1e-12)

	// a certain action saturates the rate
	p = ActionProbs{Like: 1.0, Reply: 0.5}
	assert.Equal(t, 1.0, p.UniqueEngagementRate())

	// negative actions do not contribute
	p = ActionProbs{Block: 0.9, Report: 0.9}
	assert.Equal(t, 0.0, p.UniqueEngagementRate())
}

func TestActionVolumeRate(t *testing.T) {
	p := ActionProbs{Like: 0.3, Reply: 0.1, Click: 0.2, Mute: 0.5, DwellTime: 10}
	assert.InDelta(t, 0.6, p.ActionVolumeRate(), 1e-12)
}

func TestBlend(t *testing.T) {
	a := ActionProbs{Like: 0.2, Reply: 0.1, DwellTime: 10}
	b := ActionProbs{Like: 0.8, Reply: 0.3, DwellTime: 30}

	assert.Equal(t, a, a.Blend(b, 0.0))
	assert.Equal(t, b, a.Blend(b, 1.0))

	half := a.Blend(b, 0.5)
	assert.InDelta(t, 0.5, half.Like, 1e-12)
	assert.InDelta(t, 0.2, half.Reply, 1e-12)
	assert.InDelta(t, 20.0, half.DwellTime, 1e-12)
}

func TestBlend_ClampsProbabilities(t *testing.T) {
	a := ActionProbs{Like: 0.9}
	b := ActionProbs{Like: 1.4}
	got := a.Blend(b, 1.0)
	assert.Equal(t, 1.0, got.Like)
}
