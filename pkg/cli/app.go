package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mchmarny/vctl/pkg/auth"
	"github.com/mchmarny/vctl/pkg/config"
	"github.com/mchmarny/vctl/pkg/data"
	"github.com/mchmarny/vctl/pkg/logging"
	"github.com/mchmarny/vctl/pkg/model"
	"github.com/mchmarny/vctl/pkg/net"
	"github.com/mchmarny/vctl/pkg/score"
)

const (
	dirMode      = 0700
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFlag = &urfave.StringFlag{
		Name:  "db",
		Usage: "Calibration sample store: Sqlite file path or postgres:// DSN",
	}

	configFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: "Path to the scoring config file",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	ConfigPath string
	DBPath     string
	Conf       *config.Config
	Store      *data.Store
	Format     string
	Debug      bool
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "vctl",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for content virality scoring and calibration",
		Flags: []urfave.Flag{
			debugFlag,
			dbFlag,
			configFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			scoreCmd,
			calibrateCmd,
			importCmd,
			configCmd,
			authCmd,
		},
		Before: func(c *urfave.Context) error {
			if c.Bool(debugFlag.Name) {
				logging.SetDefaultCLILogger("debug")
			}

			format := formatJSON
			if f := c.String(formatFlag.Name); f == formatYAML || f == "yml" {
				format = formatYAML
			}

			configPath := c.String(configFlag.Name)
			if configPath == "" {
				configPath = path.Join(getHomeDir(), config.ConfigFileName)
			}

			conf, err := config.ReadOrCreate(configPath)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}

			dbPath := c.String(dbFlag.Name)
			if dbPath == "" {
				dbPath = path.Join(getHomeDir(), data.DataFileName)
			}

			store, err := data.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening sample store: %w", err)
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				ConfigPath: configPath,
				DBPath:     dbPath,
				Conf:       conf,
				Store:      store,
				Format:     format,
				Debug:      c.Bool(debugFlag.Name),
			}
			return nil
		},
		After: func(c *urfave.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.Store != nil {
				cfg.Store.Close()
			}
			return nil
		},
	}
}

// newPredictor wires the probability model for the configured scoring mode,
// including the remote backend client when one is needed.
func newPredictor(conf *config.Config) (score.Predictor, error) {
	mode := conf.Scoring.Mode
	if mode == "" || mode == model.ModeHeuristic {
		return model.NewHeuristic(), nil
	}

	timeout := time.Duration(conf.Phoenix.TimeoutMS) * time.Millisecond
	opts := []model.PhoenixOption{
		model.WithHistoryLimit(conf.Phoenix.HistoryLimit),
	}

	token, err := auth.GetToken()
	if err != nil {
		slog.Debug("no backend token available", "error", err)
	}

	var phoenix *model.Phoenix
	if token != "" {
		opts = append(opts, model.WithHTTPClient(net.GetOAuthClient(context.Background(), token, timeout)))
	}
	phoenix, err = model.NewPhoenix(conf.Phoenix.Endpoint, timeout, opts...)
	if err != nil {
		return nil, err
	}

	return model.ForMode(mode, phoenix, conf.Scoring.PhoenixWeight)
}

// newPipeline assembles the full scoring pipeline from configuration.
// Incomplete weights or out-of-range stage parameters fail here, before any
// candidate is scored.
func newPipeline(conf *config.Config) (*score.Pipeline, *score.WeightedScorer, error) {
	predictor, err := newPredictor(conf)
	if err != nil {
		return nil, nil, err
	}

	weights, err := score.WeightsFromMap(conf.Weights)
	if err != nil {
		return nil, nil, err
	}

	weighted, err := score.NewWeightedScorer(weights, conf.Weighted.VQVDurationThreshold, conf.Weighted.ScoreOffset)
	if err != nil {
		return nil, nil, err
	}

	diversity, err := score.NewAuthorDiversityScorer(conf.Diversity.Decay, conf.Diversity.Floor)
	if err != nil {
		return nil, nil, err
	}

	oon, err := score.NewOonScorer(conf.Oon.Multiplier)
	if err != nil {
		return nil, nil, err
	}

	pipeline, err := score.NewPipeline(predictor, weighted, diversity, oon)
	if err != nil {
		return nil, nil, err
	}
	return pipeline, weighted, nil
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}

	dirName := ".vctl"
	dirPath := filepath.Join(home, dirName)
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dirPath)
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			slog.Debug("error creating dir", "path", dirPath, "error", err)
			return home
		}
	}
	return dirPath
}

func encode(c *urfave.Context, v any) error {
	return encodeTo(os.Stdout, getConfig(c).Format, v)
}

func encodeTo(w io.Writer, format string, v any) error {
	if format == formatYAML {
		return yaml.NewEncoder(w).Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
