package cli

import (
	"log/slog"

	urfave "github.com/urfave/cli/v2"

	"github.com/mchmarny/vctl/pkg/data"
)

var (
	importFileFlag = &urfave.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to the sample file (JSON or CSV)",
		Required: true,
	}

	importCmd = &urfave.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import data into the local store",
		Subcommands: []*urfave.Command{
			{
				Name:  "samples",
				Usage: "Import calibration samples from a file",
				Flags: []urfave.Flag{
					importFileFlag,
				},
				Action: cmdImportSamples,
			},
		},
	}
)

type importResult struct {
	Imported int   `json:"imported" yaml:"imported"`
	Total    int64 `json:"total" yaml:"total"`
}

func cmdImportSamples(c *urfave.Context) error {
	cfg := getConfig(c)
	path := c.String(importFileFlag.Name)

	samples, err := data.LoadSamplesFile(path)
	if err != nil {
		return err
	}

	if err := cfg.Store.SaveSamples(samples); err != nil {
		return err
	}

	total, err := cfg.Store.CountSamples()
	if err != nil {
		return err
	}

	slog.Debug("samples imported", "file", path, "count", len(samples))
	return encode(c, importResult{
		Imported: len(samples),
		Total:    total,
	})
}
