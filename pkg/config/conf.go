package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mchmarny/vctl/pkg/model"
	"github.com/mchmarny/vctl/pkg/score"
)

const (
	ConfigFileName = "config.yaml"

	dirMode  = 0700
	fileMode = 0600

	envScoringMode         = "VCTL_SCORING_MODE"
	envPhoenixWeight       = "VCTL_PHOENIX_WEIGHT"
	envPhoenixEndpoint     = "VCTL_PHOENIX_ENDPOINT"
	envPhoenixTimeoutMS    = "VCTL_PHOENIX_TIMEOUT_MS"
	envPhoenixHistoryLimit = "VCTL_PHOENIX_HISTORY_LIMIT"
)

// Scoring selects the probability model and its blend factor.
type Scoring struct {
	Mode          string  `yaml:"mode" json:"mode"`
	PhoenixWeight float64 `yaml:"phoenix_weight" json:"phoenix_weight"`
}

// Weighted holds the weighted-scorer parameters.
type Weighted struct {
	VQVDurationThreshold float64 `yaml:"vqv_duration_threshold" json:"vqv_duration_threshold"`
	ScoreOffset          float64 `yaml:"score_offset" json:"score_offset"`
}

// Diversity holds the author-diversity decay parameters.
type Diversity struct {
	Decay float64 `yaml:"decay" json:"decay"`
	Floor float64 `yaml:"floor" json:"floor"`
}

// Oon holds the out-of-network penalty.
type Oon struct {
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// Phoenix holds the remote ranking backend settings.
type Phoenix struct {
	Endpoint     string `yaml:"endpoint" json:"endpoint"`
	TimeoutMS    int64  `yaml:"timeout_ms" json:"timeout_ms"`
	HistoryLimit int    `yaml:"history_limit" json:"history_limit"`
}

// Config is the full scoring configuration. The weight map is validated for
// completeness by score.WeightsFromMap when the pipeline is constructed, not
// here: this package only reads and writes the source format.
type Config struct {
	Scoring   Scoring            `yaml:"scoring" json:"scoring"`
	Weights   map[string]float64 `yaml:"weights" json:"weights"`
	Weighted  Weighted           `yaml:"weighted" json:"weighted"`
	Diversity Diversity          `yaml:"diversity" json:"diversity"`
	Oon       Oon                `yaml:"oon" json:"oon"`
	Phoenix   Phoenix            `yaml:"phoenix" json:"phoenix"`
}

// Default returns the production baseline configuration.
func Default() *Config {
	return &Config{
		Scoring: Scoring{
			Mode:          model.ModeHeuristic,
			PhoenixWeight: model.PhoenixWeightDefault,
		},
		Weights: score.DefaultWeights().ToMap(),
		Weighted: Weighted{
			VQVDurationThreshold: score.VQVDurationThresholdDefault,
			ScoreOffset:          score.ScoreOffsetDefault,
		},
		Diversity: Diversity{
			Decay: score.DiversityDecayDefault,
			Floor: score.DiversityFloorDefault,
		},
		Oon: Oon{
			Multiplier: score.OonMultiplierDefault,
		},
		Phoenix: Phoenix{
			Endpoint:     "http://localhost:8000",
			TimeoutMS:    model.PhoenixTimeoutDefault.Milliseconds(),
			HistoryLimit: model.PhoenixHistoryLimitDefault,
		},
	}
}

// Save writes the config to the given path, creating parent dirs as needed.
func Save(path string, c *Config) error {
	if path == "" {
		return errors.New("config path required")
	}
	if c == nil {
		return errors.New("config required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return errors.Wrapf(err, "failed to create config dir: %s", dir)
		}
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", path)
	}
	return nil
}

// ReadOrCreate reads the config file, creating it with defaults when absent.
// Environment overrides are applied after the file is read.
func ReadOrCreate(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(path, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}

	c.applyEnvOverrides()
	return &c, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envScoringMode); v != "" {
		c.Scoring.Mode = v
	}
	if v := os.Getenv(envPhoenixWeight); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scoring.PhoenixWeight = f
		}
	}
	if v := os.Getenv(envPhoenixEndpoint); v != "" {
		c.Phoenix.Endpoint = v
	}
	if v := os.Getenv(envPhoenixTimeoutMS); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Phoenix.TimeoutMS = ms
		}
	}
	if v := os.Getenv(envPhoenixHistoryLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Phoenix.HistoryLimit = n
		}
	}
}
