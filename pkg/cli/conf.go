package cli

import (
	"log/slog"
	"os"

	urfave "github.com/urfave/cli/v2"

	"github.com/mchmarny/vctl/pkg/config"
)

var (
	forceFlag = &urfave.BoolFlag{
		Name:  "force",
		Usage: "Overwrite an existing config file",
	}

	configCmd = &urfave.Command{
		Name:  "config",
		Usage: "Manage the scoring configuration",
		Subcommands: []*urfave.Command{
			{
				Name:  "init",
				Usage: "Write the default config file",
				Flags: []urfave.Flag{
					forceFlag,
				},
				Action: cmdConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Action: cmdConfigShow,
			},
		},
	}
)

func cmdConfigInit(c *urfave.Context) error {
	cfg := getConfig(c)

	if _, err := os.Stat(cfg.ConfigPath); err == nil && !c.Bool(forceFlag.Name) {
		slog.Warn("config already exists, use --force to overwrite", "path", cfg.ConfigPath)
		return nil
	}

	if err := config.Save(cfg.ConfigPath, config.Default()); err != nil {
		return err
	}
	slog.Info("config written", "path", cfg.ConfigPath)
	return nil
}

func cmdConfigShow(c *urfave.Context) error {
	return encode(c, getConfig(c).Conf)
}
