package mocks

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MockStdio stands in for the terminal of the interactive client. Input is
// fed through a pipe, output is collected in memory.
type MockStdio struct {
	stdinReader *io.PipeReader
	stdinWriter *io.PipeWriter

	mu     sync.Mutex
	output bytes.Buffer
}

// NewMockStdio creates a mock terminal with an open stdin.
func NewMockStdio() *MockStdio {
	r, w := io.Pipe()
	return &MockStdio{stdinReader: r, stdinWriter: w}
}

// WriteToStdin simulates the user typing data. It blocks until the data is read.
func (m *MockStdio) WriteToStdin(data []byte) (int, error) {
	return m.stdinWriter.Write(data)
}

// CloseStdin makes the next stdin read return io.EOF.
func (m *MockStdio) CloseStdin() error {
	return m.stdinWriter.Close()
}

// GetStdin returns the reader side of stdin.
func (m *MockStdio) GetStdin() io.Reader {
	return m.stdinReader
}

// GetStdout returns a writer whose output is collected by the mock.
func (m *MockStdio) GetStdout() io.Writer {
	return stdoutWriter{m}
}

// ReadFromStdout returns everything written to stdout so far.
func (m *MockStdio) ReadFromStdout() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.output.String()
}

// WaitForOutput polls stdout until it contains expected or timeoutMs passed.
func (m *MockStdio) WaitForOutput(expected string, timeoutMs int) error {
	deadline := time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)

	for {
		out := m.ReadFromStdout()
		if strings.Contains(out, expected) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for output %q, got: %q", expected, out)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Close closes stdin.
func (m *MockStdio) Close() error {
	m.stdinWriter.Close()
	return nil
}

type stdoutWriter struct {
	m *MockStdio
}

func (w stdoutWriter) Write(p []byte) (int, error) {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	return w.m.output.Write(p)
}
