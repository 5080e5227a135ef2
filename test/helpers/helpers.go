// Package helpers provides common utilities for integration and end-to-end tests.
package helpers

import (
	"io"

	"dominicbreuker/wshub/mocks"
	"dominicbreuker/wshub/pkg/config"
)

// Setup bundles an in-process hub with a mock terminal wired into
// config.Dependencies. Sockets are real.
type Setup struct {
	Hub   *mocks.MockHub
	Stdio *mocks.MockStdio
	Deps  *config.Dependencies
}

// SetupHubAndStdio starts a hub and prepares dependencies that read from
// and write to a mock terminal. Call Close when done.
func SetupHubAndStdio() *Setup {
	hub := mocks.NewMockHub()
	stdio := mocks.NewMockStdio()

	return &Setup{
		Hub:   hub,
		Stdio: stdio,
		Deps: &config.Dependencies{
			Stdin:  func() io.Reader { return stdio.GetStdin() },
			Stdout: func() io.Writer { return stdio.GetStdout() },
		},
	}
}

// Close shuts down the hub and the mock terminal.
func (s *Setup) Close() {
	s.Stdio.Close()
	s.Hub.Close()
}
