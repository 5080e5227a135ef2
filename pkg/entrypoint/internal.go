package entrypoint

import (
	"dominicbreuker/wshub/pkg/config"
	"dominicbreuker/wshub/pkg/log"
	"dominicbreuker/wshub/pkg/transport"
	"dominicbreuker/wshub/pkg/transport/ws"
)

// transportInterface is a hub transport that can be torn down synchronously.
type transportInterface interface {
	transport.Transport
	Close() error
}

// transportFactory is a function type for creating transports.
type transportFactory func(cfg *config.Client, logger *log.Logger, deps *config.Dependencies) transportInterface

// realTransportFactory returns the websocket transport used in production.
func realTransportFactory() transportFactory {
	return func(cfg *config.Client, logger *log.Logger, deps *config.Dependencies) transportInterface {
		return ws.New(cfg, logger, withMessageLog(cfg, logger, deps))
	}
}

// withMessageLog returns deps with a client factory that records all traffic
// to cfg.LogFile. deps is returned unchanged if no log file is configured.
func withMessageLog(cfg *config.Client, logger *log.Logger, deps *config.Dependencies) *config.Dependencies {
	if cfg == nil || cfg.LogFile == "" {
		return deps
	}

	out := &config.Dependencies{}
	if deps != nil {
		*out = *deps
	}

	newClient := config.GetWebsocketClientFunc(deps, ws.NewClient)
	out.WebsocketClient = func(c *config.Client) transport.WebsocketClient {
		client := newClient(c)

		logged, err := log.NewLoggedClient(client, c.LogFile)
		if err != nil {
			logger.ErrorMsg("Opening message log %s: %s", c.LogFile, err)
			return client
		}
		return logged
	}

	return out
}
