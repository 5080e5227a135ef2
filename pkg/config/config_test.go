package config

import (
	"strings"
	"testing"
	"time"
)

func TestProtocol_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		protocol Protocol
		want     string
	}{
		{"WebSocket", ProtoWS, "ws"},
		{"WebSocket Secure", ProtoWSS, "wss"},
		{"Invalid", Protocol(999), ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.protocol.String(); got != tc.want {
				t.Errorf("Protocol.String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		url       string
		wantProto Protocol
		wantErr   bool
	}{
		{"ws", "ws://localhost:8080/hub", ProtoWS, false},
		{"wss", "wss://h/hub", ProtoWSS, false},
		{"upper case scheme", "WSS://h/hub", ProtoWSS, false},
		{"http scheme", "http://h/hub", 0, true},
		{"no scheme", "h/hub", 0, true},
		{"no host", "ws:///hub", 0, true},
		{"unparsable", "ws://%zz", 0, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			proto, u, err := ParseURL(tc.url)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseURL(%q) error = %v, wantErr %v", tc.url, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if proto != tc.wantProto {
				t.Errorf("ParseURL(%q) proto = %v, want %v", tc.url, proto, tc.wantProto)
			}
			if u == nil || u.Host == "" {
				t.Errorf("ParseURL(%q) returned url without host", tc.url)
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	cfg := NewClient()
	if cfg.HandshakeTimeout != DefaultHandshakeTimeout {
		t.Errorf("HandshakeTimeout = %v; want %v", cfg.HandshakeTimeout, DefaultHandshakeTimeout)
	}
	if cfg.ReadLimit != DefaultReadLimit {
		t.Errorf("ReadLimit = %d; want %d", cfg.ReadLimit, DefaultReadLimit)
	}
	if cfg.Headers == nil {
		t.Error("Headers should be initialized")
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default config has validation errors: %v", errs)
	}
}

func TestClient_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		modify   func(*Client)
		wantErrs int
	}{
		{"defaults", func(c *Client) {}, 0},
		{"unlimited read", func(c *Client) { c.ReadLimit = -1 }, 0},
		{"zero timeout", func(c *Client) { c.HandshakeTimeout = 0 }, 1},
		{"negative timeout", func(c *Client) { c.HandshakeTimeout = -time.Second }, 1},
		{"zero read limit", func(c *Client) { c.ReadLimit = 0 }, 1},
		{"read limit below -1", func(c *Client) { c.ReadLimit = -2 }, 1},
		{"bad trace level", func(c *Client) { c.TraceLevel = "loud" }, 1},
		{"empty header name", func(c *Client) { c.Headers[" "] = "x" }, 1},
		{"everything wrong", func(c *Client) {
			c.HandshakeTimeout = 0
			c.ReadLimit = 0
			c.TraceLevel = "loud"
		}, 3},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewClient()
			tc.modify(cfg)

			if errs := cfg.Validate(); len(errs) != tc.wantErrs {
				t.Errorf("Validate() returned %d errors (%v); want %d", len(errs), errs, tc.wantErrs)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	bad := NewClient()
	bad.HandshakeTimeout = 0

	tests := []struct {
		name     string
		cfgs     []ValidatableConfig
		wantErrs int
	}{
		{"no configs", []ValidatableConfig{}, 0},
		{"one valid config", []ValidatableConfig{NewClient()}, 0},
		{"one invalid config", []ValidatableConfig{bad}, 1},
		{"mixed configs", []ValidatableConfig{NewClient(), bad, bad}, 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if errs := Validate(tc.cfgs...); len(errs) != tc.wantErrs {
				t.Errorf("Validate() returned %d errors; want %d", len(errs), tc.wantErrs)
			}
		})
	}
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec      string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{"Authorization: Bearer abc", "Authorization", "Bearer abc", false},
		{"X-Empty:", "X-Empty", "", false},
		{"X-Colon: a:b", "X-Colon", "a:b", false},
		{"no-colon", "", "", true},
		{" : value", "", "", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.spec, func(t *testing.T) {
			t.Parallel()

			name, value, err := ParseHeader(tc.spec)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseHeader(%q) error = %v, wantErr %v", tc.spec, err, tc.wantErr)
			}
			if name != tc.wantName || value != tc.wantValue {
				t.Errorf("ParseHeader(%q) = (%q, %q); want (%q, %q)", tc.spec, name, value, tc.wantName, tc.wantValue)
			}
		})
	}
}

func TestClient_Level(t *testing.T) {
	t.Parallel()

	cfg := NewClient()
	cfg.TraceLevel = "Debug"
	if got := cfg.Level().String(); got != "debug" {
		t.Errorf("Level() = %q; want debug", got)
	}

	cfg.TraceLevel = "nonsense"
	if got := cfg.Level().String(); !strings.EqualFold(got, "info") {
		t.Errorf("Level() with invalid name = %q; want info", got)
	}
}
