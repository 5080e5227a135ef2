package config

import (
	"io"
	"os"

	"dominicbreuker/wshub/pkg/transport"
)

// Dependencies contains injectable dependencies for testing and customization.
// All fields are optional and will use default implementations if nil.
type Dependencies struct {
	WebsocketClient WebsocketClientFunc
	Stdin           StdinFunc
	Stdout          StdoutFunc
}

// WebsocketClientFunc creates the raw socket for one transport generation.
// The default lives in the ws package, which depends on this one.
type WebsocketClientFunc func(cfg *Client) transport.WebsocketClient

// StdinFunc is a function that returns a reader for stdin.
// It returns an io.Reader to allow for mock implementations.
type StdinFunc func() io.Reader

// StdoutFunc is a function that returns a writer for stdout.
// It returns an io.Writer to allow for mock implementations.
type StdoutFunc func() io.Writer

// GetWebsocketClientFunc returns the websocket client function from dependencies,
// or fallback if deps is nil or deps.WebsocketClient is nil.
func GetWebsocketClientFunc(deps *Dependencies, fallback WebsocketClientFunc) WebsocketClientFunc {
	if deps != nil && deps.WebsocketClient != nil {
		return deps.WebsocketClient
	}
	return fallback
}

// GetStdinFunc returns the stdin function from dependencies, or a default implementation.
// If deps is nil or deps.Stdin is nil, returns a function that uses os.Stdin.
func GetStdinFunc(deps *Dependencies) StdinFunc {
	if deps != nil && deps.Stdin != nil {
		return deps.Stdin
	}
	return func() io.Reader {
		return os.Stdin
	}
}

// GetStdoutFunc returns the stdout function from dependencies, or a default implementation.
// If deps is nil or deps.Stdout is nil, returns a function that uses os.Stdout.
func GetStdoutFunc(deps *Dependencies) StdoutFunc {
	if deps != nil && deps.Stdout != nil {
		return deps.Stdout
	}
	return func() io.Writer {
		return os.Stdout
	}
}
