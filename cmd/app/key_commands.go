package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vault/cmd/app/commands"
	"github.com/allisson/vault/internal/app"
	"github.com/allisson/vault/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-root-secret",
			Usage: "Generate a new base64-encoded 32-byte ROOT_SECRET",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateRootSecret(rand.Reader, os.Stdout, cmd.String("format"))
			},
		},
		{
			Name:  "rotate-check",
			Usage: "Derive keys from ROOT_SECRET, rotate them and verify the retention window",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "rotations",
					Aliases: []string{"r"},
					Value:   2,
					Usage:   "Number of rotations to perform",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				cfg.MetricsEnabled = false

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(context.Background()) }()

				vault, err := container.VaultUseCase()
				if err != nil {
					return fmt.Errorf("failed to initialize vault: %w", err)
				}

				return commands.RunRotateCheck(
					ctx,
					vault,
					container.Logger(),
					os.Stdout,
					int(cmd.Int("rotations")),
					cmd.String("format"),
				)
			},
		},
	}
}
