package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOonScorer_InvalidMultiplier(t *testing.T) {
	for _, m := range []float64{0.0, -0.5, 1.5} {
		_, err := NewOonScorer(m)
		assert.ErrorIs(t, err, ErrInvalidConfig, "multiplier=%f", m)
	}

	_, err := NewOonScorer(1.0)
	assert.NoError(t, err)
}

func TestOonApply(t *testing.T) {
	s, err := NewOonScorer(OonMultiplierDefault)
	require.NoError(t, err)

	in := &Candidate{ID: "p1", Score: 2.0}
	s.Apply(in)
	assert.Equal(t, 1.0, in.OonMultiplier)
	assert.Equal(t, 2.0, in.Score)

	out := &Candidate{ID: "p2", OutOfNetwork: true, Score: 2.0}
	s.Apply(out)
	assert.Equal(t, OonMultiplierDefault, out.OonMultiplier)
	assert.InDelta(t, 1.6, out.Score, 1e-9)
}

func TestOonApply_NeverIncreasesPositiveScores(t *testing.T) {
	s, err := NewOonScorer(OonMultiplierDefault)
	require.NoError(t, err)

	for _, v := range []float64{0.0, 0.5, 2.0, 10.0} {
		c := &Candidate{OutOfNetwork: true, Score: v}
		s.Apply(c)
		assert.LessOrEqual(t, c.Score, v)
	}
}
