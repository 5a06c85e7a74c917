package cli

import (
	"encoding/json"
	"fmt"
	"os"

	urfave "github.com/urfave/cli/v2"

	"github.com/mchmarny/vctl/pkg/score"
)

var (
	fileFlag = &urfave.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to the candidate batch file (JSON)",
		Required: true,
	}

	historyFlag = &urfave.StringFlag{
		Name:  "history",
		Usage: "Path to the user engagement history file (JSON, optional)",
	}

	modeFlag = &urfave.StringFlag{
		Name:  "mode",
		Usage: "Scoring mode override [heuristic, phoenix, hybrid]",
	}

	scoreCmd = &urfave.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Score a batch of post candidates",
		Flags: []urfave.Flag{
			fileFlag,
			historyFlag,
			modeFlag,
		},
		Action: cmdScore,
	}
)

// scoredCandidate is the per-candidate report: the ranked candidate plus the
// derived reach, engagement, and virality estimates.
type scoredCandidate struct {
	score.Candidate `yaml:",inline"`

	Reach         score.ReachEstimate      `json:"reach" yaml:"reach"`
	Engagement    score.EngagementEstimate `json:"engagement" yaml:"engagement"`
	ViralityScore float64                  `json:"virality_score" yaml:"viralityScore"`
	ViralityTier  score.Tier               `json:"virality_tier" yaml:"viralityTier"`
}

func cmdScore(c *urfave.Context) error {
	cfg := getConfig(c)

	conf := cfg.Conf
	if mode := c.String(modeFlag.Name); mode != "" {
		conf.Scoring.Mode = mode
	}

	candidates, err := loadCandidatesFile(c.String(fileFlag.Name))
	if err != nil {
		return err
	}

	var history *score.History
	if path := c.String(historyFlag.Name); path != "" {
		history, err = loadHistoryFile(path)
		if err != nil {
			return err
		}
	}

	pipeline, _, err := newPipeline(conf)
	if err != nil {
		return err
	}

	if err := pipeline.Score(c.Context, candidates, history); err != nil {
		return err
	}

	out := make([]scoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		reach := score.EstimateImpressions(cand.Features, cand.Signals, cand.WeightedScore)
		virality := score.ViralityScore(cand.Score, reach.Total)
		out = append(out, scoredCandidate{
			Candidate:     *cand,
			Reach:         reach,
			Engagement:    score.EstimateEngagements(cand.Probs, reach),
			ViralityScore: virality,
			ViralityTier:  score.TierFromScore(virality),
		})
	}

	return encode(c, out)
}

// loadCandidatesFile reads a JSON array of candidates. Feature fields absent
// from the file fall back to the neutral defaults.
func loadCandidatesFile(path string) ([]*score.Candidate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidate file %s: %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parsing candidate file %s: %w", path, err)
	}

	list := make([]*score.Candidate, 0, len(raw))
	for i, item := range raw {
		cand := &score.Candidate{Features: score.DefaultFeatures()}
		if err := json.Unmarshal(item, cand); err != nil {
			return nil, fmt.Errorf("parsing candidate %d in %s: %w", i, path, err)
		}
		if cand.ID == "" {
			return nil, fmt.Errorf("candidate %d in %s has no id", i, path)
		}
		list = append(list, cand)
	}
	return list, nil
}

func loadHistoryFile(path string) (*score.History, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading history file %s: %w", path, err)
	}

	var h score.History
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("parsing history file %s: %w", path, err)
	}
	return &h, nil
}
