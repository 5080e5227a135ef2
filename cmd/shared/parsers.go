package shared

import (
	"fmt"
	"time"

	"dominicbreuker/wshub/pkg/config"
	"dominicbreuker/wshub/pkg/log"

	"github.com/urfave/cli/v3"
)

// ParseHeaders parses repeated "Name: value" specs. Later specs for the same
// name win.
func ParseHeaders(specs []string) (map[string]string, error) {
	headers := map[string]string{}
	for _, spec := range specs {
		name, value, err := config.ParseHeader(spec)
		if err != nil {
			return nil, fmt.Errorf("parsing header: %w", err)
		}
		headers[name] = value
	}
	return headers, nil
}

// BuildClientConfig returns the client settings for cmd: the --config file
// (or the defaults) with every explicitly set flag applied on top.
func BuildClientConfig(cmd *cli.Command) (*config.Client, error) {
	cfg := config.NewClient()
	if path := cmd.String(ConfigFlag); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet(HeaderFlag) {
		headers, err := ParseHeaders(cmd.StringSlice(HeaderFlag))
		if err != nil {
			return nil, err
		}
		for name, value := range headers {
			cfg.Headers[name] = value
		}
	}
	if cmd.IsSet(SubprotocolFlag) {
		cfg.Subprotocols = cmd.StringSlice(SubprotocolFlag)
	}
	if cmd.IsSet(TimeoutFlag) {
		cfg.HandshakeTimeout = time.Duration(cmd.Int(TimeoutFlag)) * time.Millisecond
	}
	if cmd.IsSet(ReadLimitFlag) {
		cfg.ReadLimit = int64(cmd.Int(ReadLimitFlag))
	}
	if cmd.IsSet(InsecureFlag) {
		cfg.Insecure = cmd.Bool(InsecureFlag)
	}
	if cmd.IsSet(CompressionFlag) {
		cfg.Compression = cmd.Bool(CompressionFlag)
	}
	if cmd.IsSet(LogFileFlag) {
		cfg.LogFile = cmd.String(LogFileFlag)
	}
	if cmd.IsSet(TraceLevelFlag) {
		cfg.TraceLevel = cmd.String(TraceLevelFlag)
	}
	if cmd.Bool(VerboseFlag) {
		cfg.TraceLevel = log.LevelVerbose.String()
	}

	return cfg, nil
}
