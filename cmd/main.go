package main

import (
	"context"
	"os"

	"dominicbreuker/wshub/cmd/connect"
	"dominicbreuker/wshub/cmd/version"
	"dominicbreuker/wshub/pkg/log"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "wshub",
		Usage: "interactive client for websocket message hubs",
		Commands: []*cli.Command{
			connect.GetCommand(),
			version.GetCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.ErrorMsg("%s\n", err)
		os.Exit(1)
	}
}
