package lgtv

import (
	"context"

	"github.com/rs/zerolog"
	"lgremote/internal"
	"lgremote/internal/logger"
)

// Transport is the set of UDAP calls a Connection needs
type Transport interface {
	RequestPairingKey(ctx context.Context) bool
	SendPairingKey(ctx context.Context) bool
	SendKey(ctx context.Context, key Key) bool
}

// Connection tracks the pairing state of one TV.
//
// It is not safe for concurrent use: Connect and SendKey must be serialised
// by the owner.
type Connection struct {
	config    Config
	transport Transport
	status    Status
	logger    zerolog.Logger
}

// NewConnection creates a connection backed by an HTTP client, or by a
// simulated TV when test mode is enabled
func NewConnection(config Config, options *internal.FnModeOptions) *Connection {
	var transport Transport
	if options != nil && options.Test {
		transport = &simulatedTransport{logger: logger.With("udap_simulator")}
	} else {
		transport = NewClient(config, options)
	}
	return NewConnectionWithTransport(config, transport)
}

// NewConnectionWithTransport creates a connection on top of an existing transport
func NewConnectionWithTransport(config Config, transport Transport) *Connection {
	return &Connection{
		config:    config,
		transport: transport,
		status:    StatusUnknown,
		logger:    logger.With("lgtv_connection").With().Str("host", config.Hostname).Logger(),
	}
}

// Status returns the current pairing status
func (c *Connection) Status() Status {
	return c.status
}

// SetStatus overrides the pairing status without any validation
func (c *Connection) SetStatus(status Status) {
	c.status = status
}

// Config returns the configuration the connection was built with
func (c *Connection) Config() Config {
	return c.config
}

// Connect performs a single pairing handshake step. Without a pairing key it
// asks the TV to display one; with a key it submits it. It never loops: the
// owner calls Connect again once the user has configured the displayed key.
func (c *Connection) Connect(ctx context.Context) Status {
	if !c.config.HasPairingKey() {
		requested := c.transport.RequestPairingKey(ctx)
		if requested {
			c.SetStatus(StatusWaitingForPairingKey)
		} else {
			c.SetStatus(StatusNotPaired)
		}
		c.logger.Debug().
			Bool("requested", requested).
			Stringer("status", c.status).
			Msg("Pairing key requested")
		return c.status
	}

	paired := c.transport.SendPairingKey(ctx)
	if paired {
		c.SetStatus(StatusPaired)
	} else {
		c.SetStatus(StatusNotPaired)
	}
	c.logger.Debug().
		Bool("paired", paired).
		Stringer("status", c.status).
		Msg("Pairing key submitted")
	return c.status
}

// SendKey forwards a key press to the TV. The status is left untouched.
func (c *Connection) SendKey(ctx context.Context, key Key) bool {
	return c.transport.SendKey(ctx, key)
}

// simulatedTransport accepts every call without touching the network
type simulatedTransport struct {
	logger zerolog.Logger
}

func (s *simulatedTransport) RequestPairingKey(ctx context.Context) bool {
	s.logger.Info().Msg("Simulated showKey request")
	return true
}

func (s *simulatedTransport) SendPairingKey(ctx context.Context) bool {
	s.logger.Info().Msg("Simulated hello request")
	return true
}

func (s *simulatedTransport) SendKey(ctx context.Context, key Key) bool {
	s.logger.Info().
		Str("key", key.Name).
		Int("code", key.Code).
		Msg("Simulated HandleKeyInput request")
	return true
}
