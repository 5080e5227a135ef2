// Package transport defines the contract between a hub connection and the
// pluggable mechanisms that carry its messages (websockets, and in principle
// long polling or server-sent events).
//
// Transports are callback driven. None of the operations block or return
// errors directly:
//   - Start(url, cb) connects and begins receiving; cb(nil) means running
//   - Stop(cb) tears down; calling it on a stopped transport succeeds at once
//   - Send(payload, format, cb) forwards one message to the socket
//   - OnReceive/OnClose register single-slot handlers and must be called
//     before Start
//
// A transport is a sequence of generations: each successful Start begins one,
// and it ends either through Stop or through a receive failure. OnClose fires
// exactly once per generation that got running.
//
// Transports in turn consume a WebsocketClient, the raw socket. Its callbacks
// each fire exactly once on goroutines owned by the client, and it must
// tolerate Stop while a Receive is outstanding.
package transport

import (
	"errors"
	"fmt"
)

// Type identifies a concrete transport.
type Type int

const (
	TypeWebSockets Type = iota
	TypeLongPolling
	TypeServerSentEvents
)

func (t Type) String() string {
	switch t {
	case TypeWebSockets:
		return "websockets"
	case TypeLongPolling:
		return "longpolling"
	case TypeServerSentEvents:
		return "serversentevents"
	default:
		return fmt.Sprintf("transport(%d)", int(t))
	}
}

// TransferFormat is the framing of a message on the wire.
type TransferFormat int

const (
	FormatText TransferFormat = iota
	FormatBinary
)

func (f TransferFormat) String() string {
	if f == FormatBinary {
		return "binary"
	}
	return "text"
}

// ReceiveFunc handles one inbound message.
type ReceiveFunc func(message string, err error)

// CloseFunc handles the end of a transport generation. err is nil for a
// requested stop that completed cleanly.
type CloseFunc func(err error)

// Transport is implemented by every concrete transport.
type Transport interface {
	Start(url string, callback func(error))
	Stop(callback func(error))
	Send(payload string, format TransferFormat, callback func(error))
	OnReceive(callback ReceiveFunc)
	OnClose(callback CloseFunc)
	Type() Type
}

// WebsocketClient is the raw socket a websocket transport drives. Receive
// delivers one message per call and is re-armed by the caller.
type WebsocketClient interface {
	Start(url string, callback func(error))
	Send(payload string, format TransferFormat, callback func(error))
	Receive(callback func(message string, err error))
	Stop(callback func(error))
}

var (
	// ErrAlreadyConnected is reported by Start on a running transport.
	ErrAlreadyConnected = errors.New("transport already connected")

	// ErrNotConnected is reported by Send before any socket exists.
	ErrNotConnected = errors.New("transport not connected")

	// ErrStartAborted is reported by Start when Stop ran before the socket
	// finished connecting.
	ErrStartAborted = errors.New("transport stopped before the connection was established")
)

// Error is the stable error type transports report for socket failures.
// Op names the failed step: start, connect, receive or stop.
type Error struct {
	Transport Type
	Op        string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s transport: %s: %s", e.Transport, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *Error for the given transport and step. Errors
// that already carry an *Error are returned unchanged.
func Wrap(t Type, op string, err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return &Error{Transport: t, Op: op, Err: err}
}
