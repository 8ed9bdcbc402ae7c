// Package mqtt connects the assistant to the Gray Logic bus.
//
// Protocol bridges report variable values on the bus and receive the
// values the assistant's device type handlers set:
//
//	graylogic/state/variable/{id}            bridge -> assistant  {"value": ...}
//	graylogic/command/variable/{id}          assistant -> bridge  {"value": ...}
//	graylogic/assistant/{instance}/apply     tooling -> assistant, runs ApplyChanges
//	graylogic/assistant/{instance}/execution assistant -> listeners, one event per command
//	graylogic/system/status                  retained online/offline status
//
// The client reconnects on its own with clean sessions and replays its
// subscriptions on every new session. The status topic carries a will, so
// an unexpected drop reads "offline" with reason "unexpected_disconnect"
// while Close publishes reason "graceful_shutdown".
//
// Production brokers should use TLS (mqtt.broker.tls) and ACL-checked
// credentials.
package mqtt
