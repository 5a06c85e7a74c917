package cli

import (
	"log/slog"

	urfave "github.com/urfave/cli/v2"

	"github.com/mchmarny/vctl/pkg/auth"
)

var (
	tokenFlag = &urfave.StringFlag{
		Name:     "token",
		Usage:    "Ranking backend API token",
		Required: true,
	}

	authCmd = &urfave.Command{
		Name:  "auth",
		Usage: "Manage the ranking backend credentials",
		Subcommands: []*urfave.Command{
			{
				Name:  "set",
				Usage: "Store the backend token in the OS keyring",
				Flags: []urfave.Flag{
					tokenFlag,
				},
				Action: cmdAuthSet,
			},
			{
				Name:   "clear",
				Usage:  "Remove the backend token from the OS keyring",
				Action: cmdAuthClear,
			},
		},
	}
)

func cmdAuthSet(c *urfave.Context) error {
	if err := auth.SaveToken(c.String(tokenFlag.Name)); err != nil {
		return err
	}
	slog.Info("token saved")
	return nil
}

func cmdAuthClear(c *urfave.Context) error {
	if err := auth.DeleteToken(); err != nil {
		return err
	}
	slog.Info("token cleared")
	return nil
}
