package variable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/mqtt"
)

// bridgeQoS is the QoS used for variable state and command topics.
const bridgeQoS = 1

// handlerTimeout bounds a single store update from an MQTT message.
const handlerTimeout = 5 * time.Second

// Subscriber is the part of the MQTT client the Bridge needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Publisher is the part of the MQTT client the PublishingStore needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Logger defines the logging interface used by the Bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Message is the payload of variable state and command topics.
type Message struct {
	Value any `json:"value"`
}

// Bridge keeps a Store current from graylogic/state/variable/{id} messages.
type Bridge struct {
	store    Store
	sub      Subscriber
	onChange func(id string, value any)
	logger   Logger
}

// NewBridge creates a bridge writing into store.
func NewBridge(store Store, sub Subscriber) *Bridge {
	return &Bridge{store: store, sub: sub, logger: noopLogger{}}
}

// SetLogger sets the logger for the bridge.
func (b *Bridge) SetLogger(logger Logger) {
	b.logger = logger
}

// OnChange sets a callback invoked after each successful update.
func (b *Bridge) OnChange(fn func(id string, value any)) {
	b.onChange = fn
}

// Start subscribes to all variable state topics.
func (b *Bridge) Start() error {
	topic := mqtt.Topics{}.AllVariableStates()
	if err := b.sub.Subscribe(topic, bridgeQoS, b.handleMessage); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	b.logger.Info("variable bridge started", "topic", topic)
	return nil
}

// handleMessage applies one state message to the store.
func (b *Bridge) handleMessage(topic string, payload []byte) error {
	id, ok := strings.CutPrefix(topic, mqtt.Topics{}.VariableState(""))
	if !ok || id == "" || strings.Contains(id, "/") {
		return fmt.Errorf("unexpected variable topic %q", topic)
	}

	msg, err := decodeMessage(payload)
	if err != nil {
		return fmt.Errorf("variable %s: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := b.store.Set(ctx, id, msg.Value); err != nil {
		return err
	}
	b.logger.Debug("variable updated", "id", id, "value", msg.Value)

	if b.onChange != nil {
		b.onChange(id, msg.Value)
	}
	return nil
}

// decodeMessage parses {"value": ...} keeping numbers exact.
func decodeMessage(payload []byte) (Message, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var msg Message
	if err := dec.Decode(&msg); err != nil {
		return Message{}, fmt.Errorf("decoding payload: %w", err)
	}
	if msg.Value == nil {
		return Message{}, fmt.Errorf("payload has no value")
	}
	return msg, nil
}

// PublishingStore writes to a Store and announces each write as a command on
// graylogic/command/variable/{id}, so bridges can act on it.
type PublishingStore struct {
	Store
	pub Publisher
}

// NewPublishingStore wraps store.
func NewPublishingStore(store Store, pub Publisher) *PublishingStore {
	return &PublishingStore{Store: store, pub: pub}
}

// Set stores value and publishes the coerced value. When publishing fails
// the previous value is restored, so the store never reports a state the bus
// did not receive.
func (p *PublishingStore) Set(ctx context.Context, id string, value any) error {
	prev, err := p.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := p.Store.Set(ctx, id, value); err != nil {
		return err
	}
	v, err := p.Store.Get(ctx, id)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(Message{Value: v.Value})
	if err == nil {
		err = p.pub.Publish(mqtt.Topics{}.VariableCommand(id), payload, bridgeQoS, false)
	}
	if err != nil {
		if rerr := p.Store.Set(ctx, id, prev.Value); rerr != nil {
			return fmt.Errorf("publishing variable %s: %w (restoring previous value: %v)", id, err, rerr)
		}
		return fmt.Errorf("publishing variable %s: %w", id, err)
	}
	return nil
}
