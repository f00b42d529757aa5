package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ecocare/spoof-core/internal/channel"
	"github.com/ecocare/spoof-core/internal/infrastructure/config"
)

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Client implements channel.Channel over an MQTT broker.
//
// Each channel event maps to one topic (see Topics); Emit publishes the
// JSON payload to the event's topic and On registers a subscription that is
// established at connect time and restored on reconnect by the paho library.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	cfg    config.MQTTConfig
	topics Topics

	client pahomqtt.Client

	// handlers maps event names to channel handlers. Subscriptions are
	// established from this map on every (re)connect.
	handlers  map[string]channel.Handler
	handlerMu sync.RWMutex

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex

	// onDisconnect is invoked when the broker connection is lost.
	onDisconnect func(err error)
	callbackMu   sync.RWMutex

	logger   Logger
	loggerMu sync.RWMutex
}

// New creates an MQTT channel client. The client is disconnected until
// Connect is called.
func New(cfg config.MQTTConfig) *Client {
	return &Client{
		cfg:      cfg,
		topics:   Topics{Prefix: cfg.TopicPrefix},
		handlers: make(map[string]channel.Handler),
	}
}

// Connect establishes a session with the MQTT broker and subscribes to all
// registered inbound events.
//
// A failed connect leaves the client disconnected with no other side
// effects; the caller may retry.
func (c *Client) Connect(ctx context.Context) error {
	if c.IsConnected() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", channel.ErrConnectionFailed, err)
	}

	opts := buildClientOptions(c.cfg)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return fmt.Errorf("%w: timeout after %v", channel.ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", channel.ErrConnectionFailed, err)
	}

	// Set connected state immediately after successful connection.
	// The OnConnectHandler callback runs asynchronously and may not have
	// executed yet, so we set it here to ensure IsConnected() returns true.
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return nil
}

// handleConnect is called when the broker connection is established.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	c.subscribeAll()
}

// handleDisconnect is called when the broker connection is lost.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.callbackMu.RLock()
	callback := c.onDisconnect
	c.callbackMu.RUnlock()
	if callback != nil {
		callback(err)
	}
}

// subscribeAll subscribes to the topics of all registered events.
func (c *Client) subscribeAll() {
	c.handlerMu.RLock()
	defer c.handlerMu.RUnlock()

	for event, handler := range c.handlers {
		topic := c.topics.Event(event)
		token := c.client.Subscribe(topic, byte(c.cfg.QoS), c.wrapHandler(event, handler))
		if token.WaitTimeout(defaultPublishTimeout) && token.Error() != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Error("subscribe failed", "topic", topic, "error", token.Error())
			}
		}
	}
}

// Disconnect closes the broker session. Disconnecting an already
// disconnected client is a no-op.
func (c *Client) Disconnect() error {
	c.connMu.Lock()
	if !c.connected {
		c.connMu.Unlock()
		return nil
	}
	c.connected = false
	c.connMu.Unlock()

	if c.client != nil {
		c.client.Disconnect(defaultDisconnectQuiesce)
	}
	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

// Emit publishes an event with a JSON-marshalled payload to the event's
// topic. Returns channel.ErrNotConnected when the session is down.
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

	token := c.client.Publish(c.topics.Event(event), byte(c.cfg.QoS), false, data)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", channel.ErrEmitFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", channel.ErrEmitFailed, err)
	}

	return nil
}

// On registers a handler for an inbound event name.
// Registration must happen before Connect; the subscription is established
// during the connect handshake.
func (c *Client) On(event string, handler channel.Handler) {
	c.handlerMu.Lock()
	c.handlers[event] = handler
	c.handlerMu.Unlock()
}

// SetOnDisconnect sets a callback invoked when the broker connection is
// lost. The error parameter describes why.
func (c *Client) SetOnDisconnect(callback func(err error)) {
	c.callbackMu.Lock()
	c.onDisconnect = callback
	c.callbackMu.Unlock()
}

// SetLogger sets a logger for error and panic logging.
// If not set, errors in handlers are silently ignored.
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

// wrapHandler adapts a channel handler to paho's callback shape, with panic
// recovery.
func (c *Client) wrapHandler(event string, handler channel.Handler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if logger := c.getLogger(); logger != nil {
					logger.Error("event handler panic recovered",
						"event", event,
						"topic", msg.Topic(),
						"panic", r,
					)
				}
			}
		}()

		handler(json.RawMessage(msg.Payload()))
	}
}
