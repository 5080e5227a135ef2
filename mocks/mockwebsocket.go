// Package mocks provides mock implementations for testing.
package mocks

import (
	"errors"
	"sync"

	"dominicbreuker/wshub/pkg/config"
	"dominicbreuker/wshub/pkg/transport"

	"github.com/eapache/queue"
)

// ErrMockClosed is delivered to receives and sends on a stopped mock client.
var ErrMockClosed = errors.New("mock websocket closed")

// ErrMockNotStarted is delivered to sends and receives before Start succeeded.
var ErrMockNotStarted = errors.New("mock websocket not started")

type receiveResult struct {
	message string
	err     error
}

// MockWebsocketClient is a scriptable transport.WebsocketClient. Inbound
// messages and errors are queued with Push and Fail and handed out one per
// Receive call. All callbacks fire on fresh goroutines, like a real socket.
type MockWebsocketClient struct {
	// StartErr, SendErr and StopErr are reported by the respective calls.
	StartErr error
	SendErr  error
	StopErr  error

	// Echo makes every successful Send also arrive as an inbound message.
	Echo bool

	// StartGate, if set, holds the Start callback until it is closed.
	StartGate chan struct{}

	mu       sync.Mutex
	url      string
	started  bool
	stopped  bool
	inbound  *queue.Queue
	pending  func(string, error)
	sent     []string
	starts   int
	receives int
	stops    int
}

// NewMockWebsocketClient creates a mock client with an empty inbound queue.
func NewMockWebsocketClient() *MockWebsocketClient {
	return &MockWebsocketClient{inbound: queue.New()}
}

// Start records the url and reports StartErr.
func (m *MockWebsocketClient) Start(url string, callback func(error)) {
	m.mu.Lock()
	m.url = url
	m.starts++
	err := m.StartErr
	if err == nil && !m.stopped {
		m.started = true
	}
	gate := m.StartGate
	m.mu.Unlock()

	go func() {
		if gate != nil {
			<-gate
		}
		callback(err)
	}()
}

// Send records the payload and reports SendErr.
func (m *MockWebsocketClient) Send(payload string, format transport.TransferFormat, callback func(error)) {
	m.mu.Lock()
	var err error
	switch {
	case m.stopped:
		err = ErrMockClosed
	case !m.started:
		err = ErrMockNotStarted
	case m.SendErr != nil:
		err = m.SendErr
	default:
		m.sent = append(m.sent, payload)
	}
	echo := err == nil && m.Echo
	m.mu.Unlock()

	if echo {
		m.Push(payload)
	}
	go callback(err)
}

// Receive hands out the next queued result, or parks the callback until
// Push, Fail or Stop provides one.
func (m *MockWebsocketClient) Receive(callback func(message string, err error)) {
	m.mu.Lock()
	m.receives++

	if m.stopped {
		m.mu.Unlock()
		go callback("", ErrMockClosed)
		return
	}
	if !m.started {
		m.mu.Unlock()
		go callback("", ErrMockNotStarted)
		return
	}
	if m.pending != nil {
		m.mu.Unlock()
		go callback("", errors.New("mock websocket: receive already outstanding"))
		return
	}
	if m.inbound.Length() > 0 {
		r := m.inbound.Remove().(receiveResult)
		m.mu.Unlock()
		go callback(r.message, r.err)
		return
	}

	m.pending = callback
	m.mu.Unlock()
}

// Push queues an inbound message.
func (m *MockWebsocketClient) Push(message string) {
	m.deliver(receiveResult{message: message})
}

// Fail queues an inbound receive error.
func (m *MockWebsocketClient) Fail(err error) {
	m.deliver(receiveResult{err: err})
}

func (m *MockWebsocketClient) deliver(r receiveResult) {
	m.mu.Lock()
	if m.pending != nil {
		callback := m.pending
		m.pending = nil
		m.mu.Unlock()
		go callback(r.message, r.err)
		return
	}
	m.inbound.Add(r)
	m.mu.Unlock()
}

// Stop fails an outstanding receive with ErrMockClosed and reports StopErr.
func (m *MockWebsocketClient) Stop(callback func(error)) {
	m.mu.Lock()
	m.stops++
	m.stopped = true
	pending := m.pending
	m.pending = nil
	err := m.StopErr
	m.mu.Unlock()

	if pending != nil {
		go pending("", ErrMockClosed)
	}
	go callback(err)
}

// URL returns the url passed to the last Start.
func (m *MockWebsocketClient) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

// Sent returns the payloads of all successful sends.
func (m *MockWebsocketClient) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

// Starts returns the number of Start calls.
func (m *MockWebsocketClient) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Receives returns the number of Receive calls.
func (m *MockWebsocketClient) Receives() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receives
}

// Stops returns the number of Stop calls.
func (m *MockWebsocketClient) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// HasPendingReceive reports whether a Receive callback is parked.
func (m *MockWebsocketClient) HasPendingReceive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// MockWebsocketFactory creates MockWebsocketClients and remembers them.
type MockWebsocketFactory struct {
	// Configure, if set, is applied to every new client before it is returned.
	Configure func(*MockWebsocketClient)

	mu      sync.Mutex
	clients []*MockWebsocketClient
}

// New implements config.WebsocketClientFunc.
func (f *MockWebsocketFactory) New(cfg *config.Client) transport.WebsocketClient {
	c := NewMockWebsocketClient()
	if f.Configure != nil {
		f.Configure(c)
	}

	f.mu.Lock()
	f.clients = append(f.clients, c)
	f.mu.Unlock()

	return c
}

// Clients returns all clients created so far, oldest first.
func (f *MockWebsocketFactory) Clients() []*MockWebsocketClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*MockWebsocketClient(nil), f.clients...)
}

// Last returns the most recently created client, or nil.
func (f *MockWebsocketFactory) Last() *MockWebsocketClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clients) == 0 {
		return nil
	}
	return f.clients[len(f.clients)-1]
}

// Dependencies returns config.Dependencies that create clients through f.
func (f *MockWebsocketFactory) Dependencies() *config.Dependencies {
	return &config.Dependencies{WebsocketClient: f.New}
}

var _ transport.WebsocketClient = (*MockWebsocketClient)(nil)
