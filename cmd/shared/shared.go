// Package shared provides common CLI flag definitions and utility functions
// used across wshub's command-line interface.
package shared

import (
	"strings"

	"github.com/urfave/cli/v3"
)

const categoryCommon = "common"

// VerboseFlag is the name of the flag to enable verbose logging.
const VerboseFlag = "verbose"

// TraceLevelFlag is the name of the flag to set the log level.
const TraceLevelFlag = "trace-level"

// ConfigFlag is the name of the flag to load client settings from a YAML file.
const ConfigFlag = "config"

// TimeoutFlag is the name of the flag to specify the handshake timeout in milliseconds.
const TimeoutFlag = "timeout"

// GetBaseDescription returns the base description text for hub URLs
// used in CLI commands.
func GetBaseDescription() string {
	return strings.Join([]string{
		"Specify the hub like this: wss://example.com/hub (supports ws|wss)",
		"Flags override values loaded with --config.",
	}, "\n")
}

// GetArgsUsage returns the arguments usage string for CLI commands.
func GetArgsUsage() string {
	return "url"
}

// GetCommonFlags returns the flags shared by all commands talking to a hub.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     ConfigFlag,
			Aliases:  []string{"c"},
			Usage:    "YAML file with client settings",
			Category: categoryCommon,
			Value:    "",
			Required: false,
		},
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose logging, same as --trace-level verbose",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
		&cli.StringFlag{
			Name:     TraceLevelFlag,
			Aliases:  []string{},
			Usage:    "Log level: verbose|debug|info|warning|error|critical|none",
			Category: categoryCommon,
			Value:    "info",
			Required: false,
		},
		&cli.IntFlag{
			Name:     TimeoutFlag,
			Aliases:  []string{"t"},
			Usage:    "Opening handshake timeout in milliseconds",
			Category: categoryCommon,
			Value:    10000, // 10 seconds default
			Required: false,
		},
	}
}

const categoryConnect = "connect"

// HeaderFlag is the name of the flag to add a handshake header.
const HeaderFlag = "header"

// SubprotocolFlag is the name of the flag to offer a websocket subprotocol.
const SubprotocolFlag = "subprotocol"

// InsecureFlag is the name of the flag to skip TLS certificate verification.
const InsecureFlag = "insecure"

// CompressionFlag is the name of the flag to negotiate permessage-deflate.
const CompressionFlag = "compression"

// ReadLimitFlag is the name of the flag to cap inbound message size.
const ReadLimitFlag = "read-limit"

// LogFileFlag is the name of the flag to record all traffic to a file.
const LogFileFlag = "log"

// GetConnectFlags returns the CLI flags specific to connect mode.
func GetConnectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     HeaderFlag,
			Aliases:  []string{"H"},
			Usage:    "Handshake header, format: -H 'Name: value'. Repeatable",
			Category: categoryConnect,
			Value:    []string{},
			Required: false,
		},
		&cli.StringSliceFlag{
			Name:     SubprotocolFlag,
			Aliases:  []string{},
			Usage:    "Websocket subprotocol to offer. Repeatable",
			Category: categoryConnect,
			Value:    []string{},
			Required: false,
		},
		&cli.BoolFlag{
			Name:     InsecureFlag,
			Aliases:  []string{"k"},
			Usage:    "Skip TLS certificate verification for wss",
			Category: categoryConnect,
			Value:    false,
			Required: false,
		},
		&cli.BoolFlag{
			Name:     CompressionFlag,
			Aliases:  []string{},
			Usage:    "Negotiate permessage-deflate compression",
			Category: categoryConnect,
			Value:    false,
			Required: false,
		},
		&cli.IntFlag{
			Name:     ReadLimitFlag,
			Aliases:  []string{},
			Usage:    "Maximum inbound message size in bytes, -1 for no limit",
			Category: categoryConnect,
			Value:    1 << 20,
			Required: false,
		},
		&cli.StringFlag{
			Name:     LogFileFlag,
			Aliases:  []string{"l"},
			Usage:    "Log file recording all messages sent and received",
			Category: categoryConnect,
			Value:    "",
			Required: false,
		},
	}
}
