package fulfillment

import (
	"encoding/json"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
)

// Intents.
const (
	IntentSync       = "action.devices.SYNC"
	IntentQuery      = "action.devices.QUERY"
	IntentExecute    = "action.devices.EXECUTE"
	IntentDisconnect = "action.devices.DISCONNECT"
)

// ErrorCodeNotSupported is the payload error for unknown intents.
const ErrorCodeNotSupported = "notSupported"

// Request is an incoming fulfillment request.
type Request struct {
	RequestID string  `json:"requestId"`
	Inputs    []Input `json:"inputs"`
}

// Input is one intent with its raw payload.
type Input struct {
	Intent  string          `json:"intent"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the reply to a Request.
type Response struct {
	RequestID string `json:"requestId"`
	Payload   any    `json:"payload"`
}

// SyncPayload answers action.devices.SYNC.
type SyncPayload struct {
	AgentUserID string                 `json:"agentUserId"`
	Devices     []assistant.SyncDevice `json:"devices"`
}

// QueryPayload answers action.devices.QUERY.
type QueryPayload struct {
	Devices map[string]assistant.QueryState `json:"devices"`
}

// ExecutePayload answers action.devices.EXECUTE.
type ExecutePayload struct {
	Commands []assistant.ExecuteResult `json:"commands"`
}

// ErrorPayload answers a request that cannot be served.
type ErrorPayload struct {
	ErrorCode string `json:"errorCode"`
}

// queryRequest is the payload of action.devices.QUERY.
type queryRequest struct {
	Devices []deviceRef `json:"devices"`
}

// executeRequest is the payload of action.devices.EXECUTE.
type executeRequest struct {
	Commands []struct {
		Devices   []deviceRef `json:"devices"`
		Execution []struct {
			Command string         `json:"command"`
			Params  map[string]any `json:"params"`
		} `json:"execution"`
	} `json:"commands"`
}

type deviceRef struct {
	ID string `json:"id"`
}
