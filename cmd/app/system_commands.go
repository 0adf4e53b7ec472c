package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vault/cmd/app/commands"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API, the metrics server and the key rotation scheduler",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
	}
}
