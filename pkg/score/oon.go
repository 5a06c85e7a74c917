package score

import "fmt"

// OonMultiplierDefault is the flat penalty for out-of-network content.
const OonMultiplierDefault = 0.8

// OonScorer discounts candidates sourced outside the user's direct graph.
// At equal predicted quality, unfamiliar-author content ranks below
// in-network content. Stateless.
type OonScorer struct {
	multiplier float64
}

func NewOonScorer(multiplier float64) (*OonScorer, error) {
	if multiplier <= 0 || multiplier > 1 {
		return nil, fmt.Errorf("%w: oon multiplier must be in (0,1], got %f", ErrInvalidConfig, multiplier)
	}
	return &OonScorer{multiplier: multiplier}, nil
}

// Apply multiplies the candidate's score by the configured factor when the
// candidate is out-of-network, and records the multiplier either way.
func (s *OonScorer) Apply(c *Candidate) {
	if c.OutOfNetwork {
		c.OonMultiplier = s.multiplier
		c.Score *= s.multiplier
		return
	}
	c.OonMultiplier = 1.0
}
