package influxdb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
)

// Measurement names.
const (
	measurementExecutions = "assistant_executions"
	measurementVariables  = "assistant_variables"
)

// RecordExecution writes one executed command and its outcome.
func (c *Client) RecordExecution(_ context.Context, id, command string, result assistant.ExecuteResult) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(executionPoint(id, command, result, time.Now()))
}

// RecordVariable writes a variable change. Non-numeric values other than
// booleans are dropped.
func (c *Client) RecordVariable(id string, value any) {
	if !c.IsConnected() {
		return
	}
	if p := variablePoint(id, value, time.Now()); p != nil {
		c.writeAPI.WritePoint(p)
	}
}

// WritePoint writes a custom point at the current time.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

func executionPoint(id, command string, result assistant.ExecuteResult, ts time.Time) *write.Point {
	tags := map[string]string{
		"device_id": id,
		"command":   command,
		"status":    string(result.Status),
	}
	if result.ErrorCode != "" {
		tags["error_code"] = result.ErrorCode
	}

	fields := map[string]interface{}{
		"success": result.Status == assistant.StatusSuccess,
	}
	for key, v := range result.States {
		if f, ok := numericField(v); ok {
			fields["state_"+key] = f
		}
	}
	return write.NewPoint(measurementExecutions, tags, fields, ts)
}

func variablePoint(id string, value any, ts time.Time) *write.Point {
	f, ok := numericField(value)
	if !ok {
		return nil
	}
	return write.NewPoint(measurementVariables,
		map[string]string{"variable_id": id},
		map[string]interface{}{"value": f},
		ts,
	)
}

// numericField maps a state value to a float field. Booleans become 0 or 1.
func numericField(v any) (float64, bool) {
	switch n := v.(type) {
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
