package integration

import (
	"errors"
	"sync"
	"testing"
	"time"

	"dominicbreuker/wshub/mocks"
	"dominicbreuker/wshub/pkg/config"
	"dominicbreuker/wshub/pkg/transport"
	"dominicbreuker/wshub/pkg/transport/ws"
)

type events struct {
	mu       sync.Mutex
	messages []string
	closes   []error
	received chan struct{}
	closed   chan struct{}
}

func newEvents() *events {
	return &events{received: make(chan struct{}, 100), closed: make(chan struct{}, 10)}
}

func (e *events) attach(tr *ws.Transport) {
	tr.OnReceive(func(message string, _ error) {
		e.mu.Lock()
		e.messages = append(e.messages, message)
		e.mu.Unlock()
		e.received <- struct{}{}
	})
	tr.OnClose(func(err error) {
		e.mu.Lock()
		e.closes = append(e.closes, err)
		e.mu.Unlock()
		e.closed <- struct{}{}
	})
}

func (e *events) snapshot() ([]string, []error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.messages...), append([]error(nil), e.closes...)
}

func wait(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func call(t *testing.T, op func(func(error))) error {
	t.Helper()
	done := make(chan error, 1)
	op(func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-time.After(8 * time.Second):
		t.Fatal("callback did not fire")
		return nil
	}
}

// TestTransport_RealSocket runs a full generation over a real websocket:
// three echoed messages in order, then a clean stop reporting nil once.
func TestTransport_RealSocket(t *testing.T) {
	hub := mocks.NewMockHub()
	defer hub.Close()

	tr := ws.New(config.NewClient(), nil, nil)
	ev := newEvents()
	ev.attach(tr)

	if err := call(t, func(cb func(error)) { tr.Start(hub.URL(), cb) }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for _, msg := range []string{"one", "two", "three"} {
		if err := call(t, func(cb func(error)) { tr.Send(msg, transport.FormatText, cb) }); err != nil {
			t.Fatalf("Send(%q) error = %v", msg, err)
		}
		wait(t, ev.received, "echo of "+msg)
	}

	if err := call(t, tr.Stop); err != nil {
		t.Errorf("Stop() error = %v", err)
	}

	messages, closes := ev.snapshot()
	if len(messages) != 3 || messages[0] != "one" || messages[1] != "two" || messages[2] != "three" {
		t.Errorf("messages = %q, want [one two three]", messages)
	}
	if len(closes) != 1 || closes[0] != nil {
		t.Errorf("closes = %v, want exactly one nil", closes)
	}

	// a second stop is a no-op
	if err := call(t, tr.Stop); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
	if _, closes := ev.snapshot(); len(closes) != 1 {
		t.Errorf("close handler ran %d times, want 1", len(closes))
	}
}

// TestTransport_RealSocketDropped checks that a hub-side drop ends the
// generation with a receive error and that the transport can start again.
func TestTransport_RealSocketDropped(t *testing.T) {
	hub := mocks.NewMockHub()
	defer hub.Close()

	tr := ws.New(config.NewClient(), nil, nil)
	defer tr.Close()
	ev := newEvents()
	ev.attach(tr)

	if err := call(t, func(cb func(error)) { tr.Start(hub.URL(), cb) }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := hub.WaitConnected(2 * time.Second); err != nil {
		t.Fatal(err)
	}

	hub.Drop()
	wait(t, ev.closed, "close after drop")

	_, closes := ev.snapshot()
	var te *transport.Error
	if len(closes) != 1 || !errors.As(closes[0], &te) || te.Op != "receive" {
		t.Fatalf("closes = %v, want one receive error", closes)
	}

	if err := call(t, func(cb func(error)) { tr.Start(hub.URL(), cb) }); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	if err := hub.WaitConnected(2 * time.Second); err != nil {
		t.Fatal(err)
	}
	if err := hub.Broadcast("back again"); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	wait(t, ev.received, "broadcast after restart")

	if messages, _ := ev.snapshot(); len(messages) != 1 || messages[0] != "back again" {
		t.Errorf("messages = %q, want [back again]", messages)
	}
}

// TestTransport_HubUnreachable checks that a failed dial is reported by Start
// and leaves the transport stopped.
func TestTransport_HubUnreachable(t *testing.T) {
	hub := mocks.NewMockHub()
	url := hub.URL()
	hub.Close()

	cfg := config.NewClient()
	cfg.HandshakeTimeout = 2 * time.Second
	tr := ws.New(cfg, nil, nil)
	ev := newEvents()
	ev.attach(tr)

	err := call(t, func(cb func(error)) { tr.Start(url, cb) })
	var te *transport.Error
	if !errors.As(err, &te) || te.Op != "connect" {
		t.Fatalf("Start() error = %v, want connect failure", err)
	}

	if err := call(t, tr.Stop); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if _, closes := ev.snapshot(); len(closes) != 0 {
		t.Errorf("closes = %v, want none", closes)
	}
}
