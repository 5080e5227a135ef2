package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"dominicbreuker/wshub/pkg/transport"
)

// loggedClient wraps a transport.WebsocketClient and appends every message
// sent or received to a file, one line per message.
type loggedClient struct {
	client transport.WebsocketClient

	mu     sync.Mutex
	out    io.WriteCloser
	closed bool
}

func (lc *loggedClient) record(direction, payload string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.closed {
		return
	}
	_, _ = fmt.Fprintf(lc.out, "%s %s\n", direction, payload) // best effort
}

func (lc *loggedClient) Start(url string, callback func(error)) {
	lc.client.Start(url, func(err error) {
		if err != nil {
			_ = lc.Close()
		}
		callback(err)
	})
}

func (lc *loggedClient) Send(payload string, format transport.TransferFormat, callback func(error)) {
	lc.client.Send(payload, format, func(err error) {
		if err == nil {
			lc.record(">", payload)
		}
		callback(err)
	})
}

func (lc *loggedClient) Receive(callback func(message string, err error)) {
	lc.client.Receive(func(message string, err error) {
		if err == nil {
			lc.record("<", message)
		}
		callback(message, err)
	})
}

// Stop stops the wrapped client, then closes the log file.
func (lc *loggedClient) Stop(callback func(error)) {
	lc.client.Stop(func(err error) {
		_ = lc.Close()
		callback(err)
	})
}

// Close closes the log file. The wrapped client is not affected.
// Messages recorded afterwards are dropped.
func (lc *loggedClient) Close() error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.closed {
		return nil
	}
	lc.closed = true
	return lc.out.Close()
}

// NewLoggedClient wraps a websocket client to log all messages sent and received on it.
// The log file is created or appended to at the specified path.
func NewLoggedClient(client transport.WebsocketClient, logFilePath string) (transport.WebsocketClient, error) {
	logFile, err := os.OpenFile(logFilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &loggedClient{client: client, out: logFile}, nil
}
