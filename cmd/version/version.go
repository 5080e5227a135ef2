// Package version provides the version command.
package version

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// Version is stamped at build time:
//
//	go build -ldflags "-X dominicbreuker/wshub/cmd/version.Version=v1.2.3" ./cmd
//
// Without it, the module version recorded by `go install` is used.
var Version = "unknown"

// String renders the version line of the wshub binary.
func String() string {
	return fmt.Sprintf("wshub %s (%s %s/%s)", resolve(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func resolve() string {
	if Version != "unknown" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "unknown"
}

// GetCommand returns the CLI command printing the wshub version.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the wshub version and the Go runtime it was built with",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var w io.Writer = os.Stdout
			if cmd.Writer != nil {
				w = cmd.Writer
			}
			_, err := fmt.Fprintln(w, String())
			return err
		},
		Flags: []cli.Flag{},
	}
}
