// Package entrypoint runs the interactive hub client behind the CLI.
package entrypoint

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"dominicbreuker/wshub/pkg/config"
	"dominicbreuker/wshub/pkg/log"
	"dominicbreuker/wshub/pkg/pipeio"
	"dominicbreuker/wshub/pkg/transport"

	"github.com/muesli/cancelreader"
)

// uses interfaces/factories from internal.go (DI for testing)

// Connect opens a transport to url, prints every received message on stdout
// and sends every non-empty stdin line as a text message. It returns nil when
// ctx is canceled and the close error when the hub ends the connection.
// End of stdin only stops sending.
func Connect(ctx context.Context, url string, cfg *config.Client, logger *log.Logger, deps *config.Dependencies) error {
	return connect(ctx, url, cfg, logger, deps, realTransportFactory())
}

func connect(
	parent context.Context,
	url string,
	cfg *config.Client,
	logger *log.Logger,
	deps *config.Dependencies,
	newTransport transportFactory,
) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	stdio := pipeio.NewStdio(config.GetStdinFunc(deps)(), config.GetStdoutFunc(deps)())
	defer stdio.Close()

	t := newTransport(cfg, logger, deps)
	defer t.Close()

	// deliveries are sequential, stdout needs no lock
	t.OnReceive(func(message string, _ error) {
		if _, err := fmt.Fprintln(stdio, message); err != nil {
			logger.WarnMsg("Writing message to stdout: %s", err)
		}
	})

	closed := make(chan error, 1)
	t.OnClose(func(err error) {
		select {
		case closed <- err:
		default:
		}
	})

	started := make(chan error, 1)
	t.Start(url, func(err error) { started <- err })

	select {
	case err := <-started:
		if err != nil {
			return fmt.Errorf("connecting: %w", err)
		}
	case <-ctx.Done():
		logger.VerboseMsg("Connect: context cancelled while connecting")
		return nil
	}

	logger.InfoMsg("Connected to %s", url)

	go sendLines(ctx, t, stdio, logger)

	select {
	case <-ctx.Done():
		logger.VerboseMsg("Connect: context cancelled, closing transport")
		return nil
	case err := <-closed:
		if err != nil {
			return fmt.Errorf("connection closed: %w", err)
		}
		return nil
	}
}

// sendLines sends each non-empty line read from in and waits for the send to
// complete before reading the next one.
func sendLines(ctx context.Context, t transport.Transport, in io.Reader, logger *log.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		done := make(chan error, 1)
		t.Send(line, transport.FormatText, func(err error) { done <- err })

		select {
		case err := <-done:
			if err != nil {
				logger.ErrorMsg("Sending message: %s", err)
			}
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, cancelreader.ErrCanceled) {
		logger.WarnMsg("Reading stdin: %s", err)
		return
	}
	logger.VerboseMsg("Connect: end of input, no more messages will be sent")
}
