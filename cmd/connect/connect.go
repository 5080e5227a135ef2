// Package connect implements the connect command, which opens an
// interactive session with a hub.
package connect

import (
	"context"
	"fmt"
	"os"
	"strings"

	"dominicbreuker/wshub/cmd/shared"
	"dominicbreuker/wshub/pkg/config"
	"dominicbreuker/wshub/pkg/entrypoint"
	"dominicbreuker/wshub/pkg/log"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// GetCommand returns the CLI command for connect mode.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "connect",
		Usage:       "Connect to a hub and exchange messages over stdin/stdout",
		Description: shared.GetBaseDescription(),
		ArgsUsage:   shared.GetArgsUsage(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return fmt.Errorf("must provide exactly one argument, got %d (%s)", args.Len(), strings.Join(args.Slice(), ", "))
			}

			url := args.Get(0)
			if _, _, err := config.ParseURL(url); err != nil {
				return fmt.Errorf("parsing url: %s", err)
			}

			cfg, err := shared.BuildClientConfig(cmd)
			if err != nil {
				return fmt.Errorf("loading configuration: %s", err)
			}

			if errors := config.Validate(cfg); len(errors) > 0 {
				log.ErrorMsg("Argument validation errors:\n")
				for _, err := range errors {
					log.ErrorMsg(" - %s\n", err)
				}
				return fmt.Errorf("exiting")
			}

			logger := log.NewLogger(cfg.Level(), nil)

			if term.IsTerminal(int(os.Stdin.Fd())) {
				log.InfoMsg("Type a message and press enter to send it, Ctrl+C to quit\n")
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			shared.SetupSignalHandling(cancel)

			return entrypoint.Connect(ctx, url, cfg, logger, nil)
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetConnectFlags()...)

	return flags
}
