package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/config"
)

// Client is the assistant's connection to the Gray Logic bus. It carries
// variable state into the variable bridge, variable commands out of the
// device type handlers, apply requests and execution events.
//
// Methods are safe for concurrent use. Subscriptions survive reconnects.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	subscriptions map[string]subscription
	subMu         sync.RWMutex

	// mu guards the fields below.
	mu           sync.RWMutex
	connected    bool
	onConnect    func()
	onDisconnect func(err error)
	logger       Logger
}

// Logger is satisfied by logging.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

type subscription struct {
	qos     byte
	handler MessageHandler
}

// MessageHandler receives one message. topic is the concrete topic, with
// wildcards expanded. A returned error is logged and the message is still
// acknowledged; a panic is recovered and logged.
type MessageHandler func(topic string, payload []byte) error

// Connect dials the broker described by cfg and waits for the first
// session, bounded by ctx and defaultConnectTimeout. Once connected the
// client reconnects on its own, and every new session replays the
// subscriptions and announces the assistant online.
func Connect(ctx context.Context, cfg config.MQTTConfig) (*Client, error) {
	c := &Client{
		cfg:           cfg,
		subscriptions: make(map[string]subscription),
		logger:        noopLogger{},
	}

	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg.Broker.ClientID)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.sessionUp() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.sessionDown(err) })
	opts.SetReconnectingHandler(func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		c.log().Warn("MQTT reconnecting", "client_id", cfg.Broker.ClientID)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()

	timer := time.NewTimer(defaultConnectTimeout)
	defer timer.Stop()
	select {
	case <-token.Done():
	case <-timer.C:
		c.client.Disconnect(0)
		return nil, fmt.Errorf("%w: no session within %v", ErrConnectionFailed, defaultConnectTimeout)
	case <-ctx.Done():
		c.client.Disconnect(0)
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The connect handler runs on its own goroutine and may not have run yet.
	c.setConnected(true)
	return c, nil
}

func (c *Client) sessionUp() {
	c.setConnected(true)
	c.resubscribe()
	if err := c.announce(statusOnline, ""); err != nil {
		c.log().Warn("MQTT online status not published", "error", err)
	}

	c.mu.RLock()
	fn := c.onConnect
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) sessionDown(err error) {
	c.setConnected(false)

	c.mu.RLock()
	fn := c.onDisconnect
	c.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// Close announces a graceful shutdown, which the bridge can tell apart from
// the will, and disconnects. Closing a client that never connected is a no-op.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	if c.IsConnected() {
		if err := c.announce(statusOffline, reasonShutdown); err != nil {
			c.log().Warn("MQTT offline status not published", "error", err)
		}
	}
	c.client.Disconnect(defaultDisconnectQuiesce)
	c.setConnected(false)
	return nil
}

// HealthCheck backs the "mqtt" entry of /api/v1/health.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports whether a session is up, as last seen by paho.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

// SetOnConnect sets a callback run after every new session, the first
// included.
func (c *Client) SetOnConnect(fn func()) {
	c.mu.Lock()
	c.onConnect = fn
	c.mu.Unlock()
}

// SetOnDisconnect sets a callback run when a session is lost.
func (c *Client) SetOnDisconnect(fn func(err error)) {
	c.mu.Lock()
	c.onDisconnect = fn
	c.mu.Unlock()
}

// SetLogger sets the logger for handler failures and status publishes.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

func (c *Client) log() Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.logger == nil {
		return noopLogger{}
	}
	return c.logger
}

// dispatch adapts handler to paho, logging returned errors and panics.
func (c *Client) dispatch(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				c.log().Error("MQTT handler panicked", "topic", msg.Topic(), "panic", r)
			}
		}()
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.log().Warn("MQTT handler failed", "topic", msg.Topic(), "error", err)
		}
	}
}
