// Package fulfillment translates smart-home intents into registry calls.
//
// A request carries a request id and one input naming the intent:
//
//	{"requestId": "ff36a3cc", "inputs": [{"intent": "action.devices.QUERY",
//	  "payload": {"devices": [{"id": "1"}]}}]}
//
// Supported intents:
//
//   - action.devices.SYNC        → {agentUserId, devices: [...]}
//   - action.devices.QUERY       → {devices: {id: state}}
//   - action.devices.EXECUTE     → {commands: [{ids, status, states, errorCode}]}
//   - action.devices.DISCONNECT  → {}
//
// Unknown intents answer {errorCode: "notSupported"}. Execute results that
// agree on status, states and error code are merged into one entry.
//
// The agent user id is a name-based UUID of the site id, so it is stable
// across restarts and reinstalls of the same site.
//
// Every executed command is passed to the registered ExecutionRecorders.
// BusRecorder announces them on the MQTT bus as ExecutionEvent JSON.
package fulfillment
