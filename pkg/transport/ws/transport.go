// Package ws implements the websocket transport and the default raw
// websocket client it drives.
package ws

import (
	"sync"
	"weak"

	"dominicbreuker/wshub/pkg/cancellation"
	"dominicbreuker/wshub/pkg/config"
	"dominicbreuker/wshub/pkg/log"
	"dominicbreuker/wshub/pkg/transport"

	"github.com/google/uuid"
)

// Transport carries hub messages over a websocket.
//
// Register OnReceive and OnClose before Start; the handlers are not guarded
// against concurrent reconfiguration. Call Close before dropping the last
// reference: the receive loop only holds a weak pointer, so an abandoned
// transport stops delivering once collected, but its socket stays open.
type Transport struct {
	cfg       *config.Client
	logger    *log.Logger
	newClient config.WebsocketClientFunc

	onReceive transport.ReceiveFunc
	onClose   transport.CloseFunc

	// startStopMu serializes Start and Stop and guards gen.
	// gen.cts is canceled whenever no receive loop is running.
	startStopMu sync.Mutex
	gen         *generation

	// clientMu guards client only. It is never held across a socket call.
	clientMu sync.Mutex
	client   transport.WebsocketClient
}

// generation is the state of one Start. Whoever wins gen.cts.Cancel owns
// the teardown and closes done once the close handler has run.
type generation struct {
	id   string
	cts  *cancellation.Source
	done chan struct{}
}

func newGeneration() *generation {
	return &generation{
		id:   uuid.NewString(),
		cts:  cancellation.New(),
		done: make(chan struct{}),
	}
}

// stoppedGeneration is the sentinel for a transport that never started.
func stoppedGeneration() *generation {
	done := make(chan struct{})
	close(done)
	return &generation{cts: cancellation.NewCanceled(), done: done}
}

// New creates a stopped transport. deps may be nil.
func New(cfg *config.Client, logger *log.Logger, deps *config.Dependencies) *Transport {
	if cfg == nil {
		cfg = config.NewClient()
	}

	return &Transport{
		cfg:       cfg,
		logger:    logger,
		newClient: config.GetWebsocketClientFunc(deps, NewClient),
		onReceive: func(string, error) {},
		onClose:   func(error) {},
		gen:       stoppedGeneration(),
	}
}

// Type implements transport.Transport.
func (t *Transport) Type() transport.Type {
	return transport.TypeWebSockets
}

// OnReceive implements transport.Transport.
func (t *Transport) OnReceive(callback transport.ReceiveFunc) {
	if callback == nil {
		callback = func(string, error) {}
	}
	t.onReceive = callback
}

// OnClose implements transport.Transport.
func (t *Transport) OnClose(callback transport.CloseFunc) {
	if callback == nil {
		callback = func(error) {}
	}
	t.onClose = callback
}

func (t *Transport) getClient() transport.WebsocketClient {
	t.clientMu.Lock()
	defer t.clientMu.Unlock()

	return t.client
}

func (t *Transport) setClient(client transport.WebsocketClient) {
	t.clientMu.Lock()
	defer t.clientMu.Unlock()

	t.client = client
}

// Start implements transport.Transport. A new socket is created for every
// start; the receive loop begins once it reports connected.
//
// The raw socket's Start is called with the start/stop lock held, so a
// socket that completes synchronously must not call back into Start or Stop
// on the same goroutine.
func (t *Transport) Start(url string, callback func(error)) {
	if _, _, err := config.ParseURL(url); err != nil {
		callback(transport.Wrap(transport.TypeWebSockets, "start", err))
		return
	}

	t.startStopMu.Lock()
	if !t.gen.cts.IsCanceled() {
		t.startStopMu.Unlock()
		callback(transport.ErrAlreadyConnected)
		return
	}
	defer t.startStopMu.Unlock()

	gen := newGeneration()
	t.logger.InfoMsg("[websocket transport] connecting to: %s (generation %s)", url, gen.id)

	client := t.newClient(t.cfg)
	t.setClient(client)
	t.gen = gen

	logger := t.logger
	client.Start(url, func(err error) {
		switch {
		case err != nil:
			err = transport.Wrap(transport.TypeWebSockets, "connect", err)
		case gen.cts.IsCanceled():
			err = transport.ErrStartAborted
		}

		if err != nil {
			logger.ErrorMsg("[websocket transport] exception when connecting to the server: %s", err)
			// nothing to close if the connect failed; Stop closes done otherwise
			if gen.cts.Cancel() {
				close(gen.done)
			}
			callback(err)
			return
		}

		logger.VerboseMsg("[websocket transport] receive loop %s started", gen.id)
		receiveLoop(weak.Make(t), client, gen, logger)
		callback(nil)
	})
}

// receiveLoop issues one receive on client and re-arms itself from the
// callback until gen is canceled or the receive fails. It only holds a weak
// pointer to the transport so the loop cannot keep it alive.
func receiveLoop(self weak.Pointer[Transport], client transport.WebsocketClient, gen *generation, logger *log.Logger) {
	client.Receive(func(message string, err error) {
		if err != nil {
			receiveFailed(self, client, gen, logger, err)
			return
		}

		t := self.Value()
		if t == nil || gen.cts.IsCanceled() {
			return
		}

		t.onReceive(message, nil)

		if !gen.cts.IsCanceled() {
			receiveLoop(self, client, gen, logger)
		}
	})
}

// receiveFailed ends a generation after a receive error: it cancels gen,
// stops the socket and reports err through the close handler. If Stop
// canceled gen first, Stop owns the teardown and nothing is reported here.
func receiveFailed(self weak.Pointer[Transport], client transport.WebsocketClient, gen *generation, logger *log.Logger, err error) {
	err = transport.Wrap(transport.TypeWebSockets, "receive", err)

	if !gen.cts.Cancel() {
		logger.VerboseMsg("[websocket transport] receive loop %s ended after stop: %s", gen.id, err)
		return
	}

	logger.ErrorMsg("[websocket transport] error receiving response from websocket: %s", err)

	client.Stop(func(stopErr error) {
		// the receive error is the one reported
		if stopErr != nil {
			logger.WarnMsg("[websocket transport] error stopping websocket after receive failure: %s", stopErr)
		}

		if t := self.Value(); t != nil {
			t.onClose(err)
		}
		close(gen.done)
	})
}

// Stop implements transport.Transport. The close handler receives the
// socket's close error before callback does. On a stopped transport
// callback reports nil once any teardown still in flight has finished,
// including the close handler of a failed receive.
func (t *Transport) Stop(callback func(error)) {
	t.startStopMu.Lock()
	gen := t.gen
	if !gen.cts.Cancel() {
		t.startStopMu.Unlock()

		select {
		case <-gen.done:
			callback(nil)
		default:
			go func() {
				<-gen.done
				callback(nil)
			}()
		}
		return
	}
	client := t.getClient()
	t.startStopMu.Unlock()

	t.logger.InfoMsg("[websocket transport] stopping (generation %s)", gen.id)

	logger := t.logger
	onClose := t.onClose
	client.Stop(func(err error) {
		err = transport.Wrap(transport.TypeWebSockets, "stop", err)
		if err != nil {
			logger.ErrorMsg("[websocket transport] exception when closing websocket: %s", err)
		}

		onClose(err)
		close(gen.done)
		callback(err)
	})
}

// Send implements transport.Transport. Sending before the first Start
// reports transport.ErrNotConnected.
func (t *Transport) Send(payload string, format transport.TransferFormat, callback func(error)) {
	client := t.getClient()
	if client == nil {
		callback(transport.ErrNotConnected)
		return
	}

	client.Send(payload, format, func(err error) {
		if err != nil {
			callback(err)
			return
		}
		callback(nil)
	})
}

// Close stops the transport and blocks until the stop has completed: the
// socket is closed, the close handler has run and the receive loop will not
// re-arm. This holds when a receive failure is already tearing the socket
// down. Errors are discarded and Close always returns nil. Close must not be
// called from the receive or close handler.
func (t *Transport) Close() error {
	defer func() { _ = recover() }()

	done := make(chan struct{})
	t.Stop(func(error) { close(done) })
	<-done

	return nil
}

var _ transport.Transport = (*Transport)(nil)
