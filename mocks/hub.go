package mocks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// MockHub is an in-process websocket server. It echoes every message back to
// its sender and lets tests push messages or drop connections.
type MockHub struct {
	server *httptest.Server

	mu         sync.Mutex
	conns      []*websocket.Conn
	lastHeader http.Header
	connected  chan struct{}
}

// NewMockHub starts a hub on a random local port. Close it when done.
func NewMockHub() *MockHub {
	h := &MockHub{connected: make(chan struct{}, 100)}
	h.server = httptest.NewServer(http.HandlerFunc(h.handle))
	return h
}

// URL returns the ws:// address of the hub.
func (h *MockHub) URL() string {
	return "ws" + strings.TrimPrefix(h.server.URL, "http") + "/hub"
}

// Close drops all connections and shuts the server down.
func (h *MockHub) Close() {
	h.Drop()
	h.server.Close()
}

// handle upgrades the request and echoes messages until the peer goes away.
func (h *MockHub) handle(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{"json"},
	})
	if err != nil {
		return
	}
	defer func() { _ = c.CloseNow() }()

	h.mu.Lock()
	h.conns = append(h.conns, c)
	h.lastHeader = r.Header.Clone()
	h.mu.Unlock()

	select {
	case h.connected <- struct{}{}:
	default:
	}

	ctx := r.Context()
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		if err := c.Write(ctx, typ, data); err != nil {
			return
		}
	}
}

// WaitConnected blocks until a client connected or the timeout expired.
func (h *MockHub) WaitConnected(timeout time.Duration) error {
	select {
	case <-h.connected:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("no connection within %v", timeout)
	}
}

// Broadcast writes a text message to every connected client.
func (h *MockHub) Broadcast(message string) error {
	h.mu.Lock()
	conns := append([]*websocket.Conn(nil), h.conns...)
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, []byte(message)); err != nil {
			return fmt.Errorf("websocket.Write(): %w", err)
		}
	}
	return nil
}

// Drop closes every connection without a closing handshake.
func (h *MockHub) Drop() {
	h.mu.Lock()
	conns := h.conns
	h.conns = nil
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.CloseNow()
	}
}

// LastHeader returns the headers of the most recent handshake request.
func (h *MockHub) LastHeader() http.Header {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastHeader
}
