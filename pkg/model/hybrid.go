package model

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/vctl/pkg/score"
)

// SourceHybrid labels blended predictions.
const SourceHybrid = "hybrid"

// PhoenixWeightDefault is the remote share of a hybrid prediction.
const PhoenixWeightDefault = 0.7

// Hybrid blends the heuristic and remote models per action:
// heuristic*(1-w) + remote*w. When the remote call fails the result degrades
// to heuristic-only with a warning attached; it is never silently zeroed.
type Hybrid struct {
	heuristic *Heuristic
	remote    score.Predictor
	weight    float64
}

func NewHybrid(heuristic *Heuristic, remote score.Predictor, weight float64) (*Hybrid, error) {
	if heuristic == nil {
		return nil, fmt.Errorf("%w: heuristic model is required", score.ErrInvalidConfig)
	}
	if remote == nil {
		return nil, fmt.Errorf("%w: remote model is required", score.ErrInvalidConfig)
	}
	if weight < 0 || weight > 1 {
		return nil, fmt.Errorf("%w: blend weight must be in [0,1], got %f", score.ErrInvalidConfig, weight)
	}
	return &Hybrid{heuristic: heuristic, remote: remote, weight: weight}, nil
}

func (m *Hybrid) Predict(ctx context.Context, f score.Features, h *score.History) (*score.Prediction, error) {
	hp, err := m.heuristic.Predict(ctx, f, h)
	if err != nil {
		return nil, err
	}

	rp, err := m.remote.Predict(ctx, f, h)
	if err != nil {
		slog.Warn("remote model unavailable, falling back to heuristic", "error", err)
		hp.Source = SourceHybrid
		hp.Warnings = append(hp.Warnings, fmt.Sprintf("remote model unavailable, heuristic probabilities used: %v", err))
		return hp, nil
	}

	return &score.Prediction{
		Probs:    hp.Probs.Blend(rp.Probs, m.weight),
		Signals:  hp.Signals,
		Source:   SourceHybrid,
		Warnings: append(hp.Warnings, rp.Warnings...),
	}, nil
}

// Scoring modes selecting the predictor implementation.
const (
	ModeHeuristic = "heuristic"
	ModePhoenix   = "phoenix"
	ModeHybrid    = "hybrid"
)

// ForMode wires the predictor for the configured scoring mode. The phoenix
// client may be nil only in heuristic mode.
func ForMode(mode string, phoenix *Phoenix, blendWeight float64) (score.Predictor, error) {
	switch mode {
	case "", ModeHeuristic:
		return NewHeuristic(), nil
	case ModePhoenix:
		if phoenix == nil {
			return nil, fmt.Errorf("%w: phoenix mode requires a backend client", score.ErrInvalidConfig)
		}
		return phoenix, nil
	case ModeHybrid:
		if phoenix == nil {
			return nil, fmt.Errorf("%w: hybrid mode requires a backend client", score.ErrInvalidConfig)
		}
		return NewHybrid(NewHeuristic(), phoenix, blendWeight)
	default:
		return nil, fmt.Errorf("%w: unknown scoring mode %q", score.ErrInvalidConfig, mode)
	}
}
