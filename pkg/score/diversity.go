package score

import (
	"errors"
	"fmt"
	"math"
)

const (
	DiversityDecayDefault = 0.7
	DiversityFloorDefault = 0.1
)

// ErrUnsorted is returned when the diversity scorer receives a batch that is
// not in descending weighted-score order.
var ErrUnsorted = errors.New("candidates not sorted by descending weighted score")

// AuthorDiversityScorer applies an order-dependent decay penalty to repeated
// authors within one batch. The n-th occurrence of an author (0-based) is
// multiplied by (1-floor)*decay^n + floor, so the first occurrence always
// passes through at 1.0 and later ones never drop below the floor.
type AuthorDiversityScorer struct {
	decay float64
	floor float64
}

func NewAuthorDiversityScorer(decay, floor float64) (*AuthorDiversityScorer, error) {
	if decay <= 0 || decay >= 1 {
		return nil, fmt.Errorf("%w: diversity decay must be in (0,1), got %f", ErrInvalidConfig, decay)
	}
	if floor < 0 || floor >= 1 {
		return nil, fmt.Errorf("%w: diversity floor must be in [0,1), got %f", ErrInvalidConfig, floor)
	}
	return &AuthorDiversityScorer{decay: decay, floor: floor}, nil
}

// Multiplier returns the penalty for the given 0-based author occurrence.
func (s *AuthorDiversityScorer) Multiplier(occurrence int) float64 {
	return (1.0-s.floor)*math.Pow(s.decay, float64(occurrence)) + s.floor
}

// Apply scores the batch in place. The input must already be sorted by
// descending weighted score; the penalty each candidate receives depends on
// how many higher-ranked candidates share its author, so an unsorted batch
// would silently produce wrong penalties. Rather than trust the caller, the
// precondition is verified and violations are rejected.
//
// The author occurrence map is scoped to this call and discarded on return,
// so concurrent batches cannot interfere.
func (s *AuthorDiversityScorer) Apply(candidates []*Candidate) error {
	for i := 1; i < len(candidates); i++ {
		if candidates[i].WeightedScore > candidates[i-1].WeightedScore {
			return fmt.Errorf("%w: candidate %q outranks its predecessor", ErrUnsorted, candidates[i].ID)
		}
	}

	seen := make(map[string]int, len(candidates))
	for _, c := range candidates {
		n := seen[c.AuthorID]
		m := s.Multiplier(n)
		c.DiversityMultiplier = m
		c.Score = c.WeightedScore * m
		seen[c.AuthorID] = n + 1
	}
	return nil
}
