// Package variable provides the live values device records point at.
//
// A device record references a variable by id (e.g. "OnOffID": "12"). The
// device type handlers read the variable on query and write it on execute.
// Variables are typed: bool, int, float or string. Writes are coerced to the
// variable's kind and rejected with ErrTypeMismatch when that is impossible.
//
// # Architecture
//
//	 protocol bridges
//	        │  graylogic/state/variable/{id}     {"value": ...}
//	        ▼
//	┌──────────────┐    Set     ┌──────────────────┐
//	│    Bridge    │──────────▶ │ Store (SQLite or │
//	└──────────────┘            │ memory)          │
//	                            └──────────────────┘
//	                                     ▲ Get / Set
//	┌─────────────────┐   Set            │
//	│ PublishingStore │──────────────────┘
//	└───────┬─────────┘
//	        │  graylogic/command/variable/{id}   {"value": ...}
//	        ▼
//	 protocol bridges
//
// Device handlers are given a PublishingStore when MQTT is configured, so
// executed commands reach the bridges, and the plain store otherwise.
package variable
