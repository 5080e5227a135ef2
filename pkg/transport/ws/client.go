package ws

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"dominicbreuker/wshub/pkg/config"
	"dominicbreuker/wshub/pkg/transport"

	"github.com/coder/websocket"
)

// ErrClientStopped is reported by operations on a stopped Client.
var ErrClientStopped = errors.New("websocket client stopped")

// Client is the default transport.WebsocketClient, built on coder/websocket.
// Every operation runs on its own goroutine and reports through its callback.
type Client struct {
	cfg *config.Client

	// ctx lives until Stop and bounds every read and write.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	conn    *websocket.Conn
	stopped bool
}

// NewClient creates an unconnected client. It satisfies config.WebsocketClientFunc.
func NewClient(cfg *config.Client) transport.WebsocketClient {
	if cfg == nil {
		cfg = config.NewClient()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{cfg: cfg, ctx: ctx, cancel: cancel}
}

func (c *Client) dialOptions() *websocket.DialOptions {
	header := http.Header{}
	for name, value := range c.cfg.Headers {
		header.Set(name, value)
	}

	opts := &websocket.DialOptions{
		HTTPHeader:      header,
		Subprotocols:    c.cfg.Subprotocols,
		CompressionMode: websocket.CompressionDisabled,
	}
	if c.cfg.Compression {
		opts.CompressionMode = websocket.CompressionContextTakeover
	}
	if c.cfg.Insecure {
		opts.HTTPClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	return opts
}

// Start dials url and completes the opening handshake.
func (c *Client) Start(url string, callback func(error)) {
	go func() {
		ctx, cancel := context.WithTimeout(c.ctx, c.cfg.HandshakeTimeout)
		defer cancel()

		conn, _, err := websocket.Dial(ctx, url, c.dialOptions())
		if err != nil {
			callback(fmt.Errorf("websocket.Dial(%s): %w", url, err))
			return
		}
		conn.SetReadLimit(c.cfg.ReadLimit)

		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			_ = conn.CloseNow()
			callback(ErrClientStopped)
			return
		}
		c.conn = conn
		c.mu.Unlock()

		callback(nil)
	}()
}

func (c *Client) getConn() (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil, ErrClientStopped
	}
	if c.conn == nil {
		return nil, transport.ErrNotConnected
	}
	return c.conn, nil
}

// Send writes payload as a single text or binary message.
func (c *Client) Send(payload string, format transport.TransferFormat, callback func(error)) {
	conn, err := c.getConn()
	if err != nil {
		go callback(err)
		return
	}

	typ := websocket.MessageText
	if format == transport.FormatBinary {
		typ = websocket.MessageBinary
	}

	go func() {
		if err := conn.Write(c.ctx, typ, []byte(payload)); err != nil {
			callback(fmt.Errorf("websocket.Write(): %w", err))
			return
		}
		callback(nil)
	}()
}

// Receive reads exactly one message.
func (c *Client) Receive(callback func(message string, err error)) {
	conn, err := c.getConn()
	if err != nil {
		go callback("", err)
		return
	}

	go func() {
		_, data, err := conn.Read(c.ctx)
		if err != nil {
			callback("", fmt.Errorf("websocket.Read(): %w", err))
			return
		}
		callback(string(data), nil)
	}()
}

// Stop performs the closing handshake and unblocks outstanding reads.
// Stopping a client that never connected succeeds.
func (c *Client) Stop(callback func(error)) {
	c.mu.Lock()
	conn := c.conn
	c.stopped = true
	c.mu.Unlock()

	go func() {
		defer c.cancel()

		if conn == nil {
			callback(nil)
			return
		}

		err := conn.Close(websocket.StatusNormalClosure, "")
		if err != nil && !isClosed(err) {
			callback(fmt.Errorf("websocket.Close(): %w", err))
			return
		}
		callback(nil)
	}()
}

// isClosed reports whether err only says the connection was already closed.
func isClosed(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
