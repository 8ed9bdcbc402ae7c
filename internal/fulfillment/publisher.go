package fulfillment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
)

// Publisher sends a payload to a bus topic.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// ExecutionEvent is the bus message announcing an executed command.
type ExecutionEvent struct {
	ID        string                  `json:"id"`
	Command   string                  `json:"command"`
	Status    assistant.ExecuteStatus `json:"status"`
	ErrorCode string                  `json:"error_code,omitempty"`
	States    map[string]any          `json:"states,omitempty"`
	Timestamp string                  `json:"timestamp"`
}

// BusRecorder announces executions on a bus topic.
type BusRecorder struct {
	pub    Publisher
	topic  string
	logger Logger
	now    func() time.Time
}

// NewBusRecorder creates a recorder publishing to topic.
func NewBusRecorder(pub Publisher, topic string) *BusRecorder {
	return &BusRecorder{pub: pub, topic: topic, logger: noopLogger{}, now: time.Now}
}

// SetLogger sets the logger for publish failures.
func (b *BusRecorder) SetLogger(logger Logger) {
	b.logger = logger
}

// RecordExecution publishes one ExecutionEvent. Failures are logged, not returned.
func (b *BusRecorder) RecordExecution(_ context.Context, id, command string, result assistant.ExecuteResult) {
	payload, err := json.Marshal(ExecutionEvent{
		ID:        id,
		Command:   command,
		Status:    result.Status,
		ErrorCode: result.ErrorCode,
		States:    result.States,
		Timestamp: b.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		b.logger.Error("encoding execution event", "id", id, "error", err)
		return
	}
	if err := b.pub.Publish(b.topic, payload, 1, false); err != nil {
		b.logger.Warn("publishing execution event", "id", id, "topic", b.topic, "error", err)
	}
}
