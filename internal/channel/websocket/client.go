package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/ecocare/spoof-core/internal/channel"
	"github.com/ecocare/spoof-core/internal/infrastructure/config"
)

// envelope is the JSON frame carrying one event on the wire.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Client implements channel.Channel over a websocket session.
//
// Events are framed as JSON envelopes {"event": name, "data": payload}.
// A single read goroutine per session dispatches inbound envelopes to the
// registered handlers; writes are serialised internally because the
// underlying connection supports one concurrent writer.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	cfg config.WebSocketConfig

	// conn and writes are guarded by connMu.
	conn   *gorilla.Conn
	connMu sync.Mutex

	// connected tracks current session state.
	connected bool
	stateMu   sync.RWMutex

	// handlers maps inbound event names to callbacks.
	handlers  map[string]channel.Handler
	handlerMu sync.RWMutex

	// onDisconnect is invoked when the transport drops the session
	// (not on deliberate Disconnect).
	onDisconnect func(err error)
	callbackMu   sync.RWMutex

	logger   Logger
	loggerMu sync.RWMutex
}

// New creates a websocket channel client. The client is disconnected until
// Connect is called.
func New(cfg config.WebSocketConfig) *Client {
	return &Client{
		cfg:      cfg,
		handlers: make(map[string]channel.Handler),
	}
}

// Connect dials the EcoCare server and starts the receive loop.
//
// A failed dial leaves the channel disconnected with no other side effects;
// the caller may retry. Connecting an already connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if c.IsConnected() {
		return nil
	}

	wsURL, err := toWebsocketURL(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", channel.ErrConnectionFailed, err)
	}

	dialer := gorilla.Dialer{
		HandshakeTimeout: c.cfg.GetHandshakeTimeout(),
	}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", channel.ErrConnectionFailed, err)
	}
	if c.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(c.cfg.MaxMessageSize)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.stateMu.Lock()
	c.connected = true
	c.stateMu.Unlock()

	go c.readLoop(conn)

	return nil
}

// Disconnect closes the session. Disconnecting an already disconnected
// client is a no-op.
func (c *Client) Disconnect() error {
	c.stateMu.Lock()
	if !c.connected {
		c.stateMu.Unlock()
		return nil
	}
	c.connected = false
	c.stateMu.Unlock()

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return nil
	}

	// Best-effort close handshake before tearing the connection down.
	deadline := time.Now().Add(c.cfg.GetWriteTimeout())
	_ = c.conn.WriteControl(gorilla.CloseMessage,
		gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""), deadline)

	err := c.conn.Close()
	c.conn = nil
	return err
}

// IsConnected returns the current session state.
func (c *Client) IsConnected() bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.connected
}

// Emit publishes an event with a JSON-marshalled payload.
// Returns channel.ErrNotConnected when the session is down.
func (c *Client) Emit(event string, payload any) error {
	if event == "" {
		return channel.ErrInvalidEvent
	}
	if !c.IsConnected() {
		return channel.ErrNotConnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshalling payload: %w", channel.ErrEmitFailed, err)
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return channel.ErrNotConnected
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.GetWriteTimeout())); err != nil {
		return fmt.Errorf("%w: %w", channel.ErrEmitFailed, err)
	}
	if err := c.conn.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		return fmt.Errorf("%w: %w", channel.ErrEmitFailed, err)
	}

	return nil
}

// On registers a handler for an inbound event name.
// Registration must happen before Connect.
func (c *Client) On(event string, handler channel.Handler) {
	c.handlerMu.Lock()
	c.handlers[event] = handler
	c.handlerMu.Unlock()
}

// SetOnDisconnect sets a callback invoked when the transport drops the
// session. Deliberate Disconnect calls do not trigger it.
func (c *Client) SetOnDisconnect(callback func(err error)) {
	c.callbackMu.Lock()
	c.onDisconnect = callback
	c.callbackMu.Unlock()
}

// SetLogger sets a logger for handler errors and transport events.
// If not set, they are silently ignored.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (c *Client) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

// readLoop receives envelopes until the connection fails or is closed.
func (c *Client) readLoop(conn *gorilla.Conn) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.handleTransportLoss(err)
			return
		}
		c.dispatch(env)
	}
}

// handleTransportLoss marks the session down and fires the disconnect
// callback, unless the loss was a deliberate Disconnect.
func (c *Client) handleTransportLoss(err error) {
	c.stateMu.Lock()
	wasConnected := c.connected
	c.connected = false
	c.stateMu.Unlock()

	if !wasConnected {
		// Disconnect() already tore the session down.
		return
	}

	c.connMu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	if logger := c.getLogger(); logger != nil {
		logger.Warn("websocket session lost", "error", err)
	}

	c.callbackMu.RLock()
	callback := c.onDisconnect
	c.callbackMu.RUnlock()
	if callback != nil {
		callback(err)
	}
}

// dispatch delivers one inbound envelope to its handler, with panic recovery.
func (c *Client) dispatch(env envelope) {
	c.handlerMu.RLock()
	handler, ok := c.handlers[env.Event]
	c.handlerMu.RUnlock()

	if !ok {
		if logger := c.getLogger(); logger != nil {
			logger.Debug("unhandled event ignored", "event", env.Event)
		}
		return
	}

	defer func() {
		if r := recover(); r != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Error("event handler panic recovered",
					"event", env.Event,
					"panic", r,
				)
			}
		}
	}()

	handler(env.Data)
}

// toWebsocketURL rewrites http/https schemes to ws/wss.
func toWebsocketURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String(), nil
}
