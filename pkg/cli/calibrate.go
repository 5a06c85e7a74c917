package cli

import (
	"log/slog"

	urfave "github.com/urfave/cli/v2"

	"github.com/mchmarny/vctl/pkg/calibrate"
	"github.com/mchmarny/vctl/pkg/config"
	"github.com/mchmarny/vctl/pkg/data"
	"github.com/mchmarny/vctl/pkg/model"
	"github.com/mchmarny/vctl/pkg/score"
)

var (
	sampleFileFlag = &urfave.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Read samples from a JSON or CSV file instead of the store",
	}

	limitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Max number of stored samples to load",
	}

	iterationsFlag = &urfave.IntFlag{
		Name:  "iterations",
		Usage: "Tuning iteration budget",
		Value: calibrate.TunerIterationsDefault,
	}

	stepFlag = &urfave.Float64Flag{
		Name:  "step",
		Usage: "Relative weight perturbation per iteration",
		Value: calibrate.TunerStepDefault,
	}

	seedFlag = &urfave.Int64Flag{
		Name:  "seed",
		Usage: "Random seed for the tuning search",
		Value: calibrate.TunerSeedDefault,
	}

	saveFlag = &urfave.BoolFlag{
		Name:  "save",
		Usage: "Write the tuned weights back to the config file",
	}

	calibrateCmd = &urfave.Command{
		Name:    "calibrate",
		Aliases: []string{"c"},
		Usage:   "Evaluate and tune the scorer against observed outcomes",
		Subcommands: []*urfave.Command{
			{
				Name:  "run",
				Usage: "Score stored samples and report accuracy metrics",
				Flags: []urfave.Flag{
					sampleFileFlag,
					limitFlag,
				},
				Action: cmdCalibrateRun,
			},
			{
				Name:  "tune",
				Usage: "Search for action weights that better fit observed engagement",
				Flags: []urfave.Flag{
					sampleFileFlag,
					limitFlag,
					iterationsFlag,
					stepFlag,
					seedFlag,
					saveFlag,
				},
				Action: cmdCalibrateTune,
			},
		},
	}
)

// loadSamples reads the calibration set from --file when given, otherwise
// from the sample store.
func loadSamples(c *urfave.Context, cfg *appConfig) ([]calibrate.Sample, error) {
	if path := c.String(sampleFileFlag.Name); path != "" {
		return data.LoadSamplesFile(path)
	}
	return cfg.Store.GetSamples(c.Int(limitFlag.Name))
}

func cmdCalibrateRun(c *urfave.Context) error {
	cfg := getConfig(c)

	samples, err := loadSamples(c, cfg)
	if err != nil {
		return err
	}

	predictor, err := newPredictor(cfg.Conf)
	if err != nil {
		return err
	}

	weights, err := score.WeightsFromMap(cfg.Conf.Weights)
	if err != nil {
		return err
	}
	weighted, err := score.NewWeightedScorer(weights, cfg.Conf.Weighted.VQVDurationThreshold, cfg.Conf.Weighted.ScoreOffset)
	if err != nil {
		return err
	}

	runner, err := calibrate.NewRunner(predictor, weighted)
	if err != nil {
		return err
	}

	metrics, err := runner.Run(c.Context, samples)
	if err != nil {
		return err
	}

	return encode(c, metrics)
}

// tuneResult reports the weight search outcome: the error before and after,
// and the tuned weight set.
type tuneResult struct {
	InitialRMSE float64            `json:"initial_rmse" yaml:"initialRmse"`
	TunedRMSE   float64            `json:"tuned_rmse" yaml:"tunedRmse"`
	Iterations  int                `json:"iterations" yaml:"iterations"`
	SampleCount int                `json:"sample_count" yaml:"sampleCount"`
	Weights     map[string]float64 `json:"weights" yaml:"weights"`
}

func cmdCalibrateTune(c *urfave.Context) error {
	cfg := getConfig(c)

	samples, err := loadSamples(c, cfg)
	if err != nil {
		return err
	}

	initial, err := score.WeightsFromMap(cfg.Conf.Weights)
	if err != nil {
		return err
	}

	// Tuning replays samples many times over, so the search always runs the
	// local heuristic model regardless of the configured scoring mode.
	tuner, err := calibrate.NewTuner(model.NewHeuristic(), samples,
		calibrate.WithIterations(c.Int(iterationsFlag.Name)),
		calibrate.WithStep(c.Float64(stepFlag.Name)),
		calibrate.WithSeed(c.Int64(seedFlag.Name)),
		calibrate.WithScorerConfig(cfg.Conf.Weighted.VQVDurationThreshold, cfg.Conf.Weighted.ScoreOffset),
	)
	if err != nil {
		return err
	}

	initialRMSE, err := tuner.Evaluate(c.Context, initial)
	if err != nil {
		return err
	}

	tuned, err := tuner.Tune(c.Context, initial)
	if err != nil {
		return err
	}

	tunedRMSE, err := tuner.Evaluate(c.Context, tuned)
	if err != nil {
		return err
	}

	if c.Bool(saveFlag.Name) {
		cfg.Conf.Weights = tuned.ToMap()
		if err := config.Save(cfg.ConfigPath, cfg.Conf); err != nil {
			return err
		}
		slog.Info("tuned weights saved", "path", cfg.ConfigPath)
	}

	return encode(c, tuneResult{
		InitialRMSE: initialRMSE,
		TunedRMSE:   tunedRMSE,
		Iterations:  c.Int(iterationsFlag.Name),
		SampleCount: len(samples),
		Weights:     tuned.ToMap(),
	})
}
