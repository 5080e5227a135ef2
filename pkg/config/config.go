// Package config holds the client configuration shared by transports and the
// CLI, its validation, and the injectable dependencies used in tests.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"dominicbreuker/wshub/pkg/log"
)

// Protocol is the URL scheme of a hub endpoint.
type Protocol int

const (
	ProtoWS Protocol = iota + 1
	ProtoWSS
)

func (p Protocol) String() string {
	switch p {
	case ProtoWS:
		return "ws"
	case ProtoWSS:
		return "wss"
	default:
		return ""
	}
}

// ParseURL parses a hub url and returns its protocol. Only ws and wss
// schemes with a host are accepted.
func ParseURL(rawURL string) (Protocol, *url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil, fmt.Errorf("url.Parse(%s): %w", rawURL, err)
	}

	var proto Protocol
	switch strings.ToLower(u.Scheme) {
	case "ws":
		proto = ProtoWS
	case "wss":
		proto = ProtoWSS
	default:
		return 0, nil, fmt.Errorf("parsing %s: scheme must be ws or wss", rawURL)
	}

	if u.Host == "" {
		return 0, nil, fmt.Errorf("parsing %s: specify a host", rawURL)
	}

	return proto, u, nil
}

// Client configures a hub client and the sockets it opens.
type Client struct {
	// Headers are sent with the websocket handshake request.
	Headers map[string]string `yaml:"headers"`

	Subprotocols []string `yaml:"subprotocols"`

	// HandshakeTimeout bounds the opening handshake. It does not limit
	// how long a connected socket waits for messages.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`

	// ReadLimit is the maximum message size in bytes, -1 disables the limit.
	ReadLimit int64 `yaml:"read_limit"`

	Compression bool `yaml:"compression"`

	// Insecure skips TLS certificate verification for wss.
	Insecure bool `yaml:"insecure"`

	TraceLevel string `yaml:"trace_level"`

	// LogFile, if set, records every message sent and received.
	LogFile string `yaml:"log_file"`
}

// Default values of a Client.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultReadLimit        = 1 << 20
	DefaultTraceLevel       = "info"
)

// NewClient returns a Client with default values.
func NewClient() *Client {
	return &Client{
		Headers:          map[string]string{},
		HandshakeTimeout: DefaultHandshakeTimeout,
		ReadLimit:        DefaultReadLimit,
		TraceLevel:       DefaultTraceLevel,
	}
}

// Validate ...
func (c *Client) Validate() []error {
	var errors []error

	if c.HandshakeTimeout <= 0 {
		errors = append(errors, fmt.Errorf("'--timeout' must be positive"))
	}

	if c.ReadLimit < -1 || c.ReadLimit == 0 {
		errors = append(errors, fmt.Errorf("'read_limit' must be -1 or positive, got %d", c.ReadLimit))
	}

	if _, err := log.ParseLevel(c.TraceLevel); err != nil {
		errors = append(errors, fmt.Errorf("'--trace-level': %s", err))
	}

	for name := range c.Headers {
		if strings.TrimSpace(name) == "" {
			errors = append(errors, fmt.Errorf("'--header' names must not be empty"))
			break
		}
	}

	return errors
}

// Level returns the parsed trace level, falling back to info.
func (c *Client) Level() log.Level {
	level, err := log.ParseLevel(c.TraceLevel)
	if err != nil {
		return log.LevelInfo
	}
	return level
}

// ParseHeader splits a "Name: value" header specification.
func ParseHeader(spec string) (name, value string, err error) {
	name, value, ok := strings.Cut(spec, ":")
	if !ok {
		return "", "", fmt.Errorf("parsing header %q: format should be 'Name: value'", spec)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("parsing header %q: empty name", spec)
	}

	return name, strings.TrimSpace(value), nil
}
