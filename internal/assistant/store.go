package assistant

import "context"

// PropertyPrefix is prepended to a device type name to form its property key.
const PropertyPrefix = "Device"

// EmptyConfiguration is the default value of every device list property.
const EmptyConfiguration = "[]"

// PropertyKey returns the configuration property holding a type's records.
func PropertyKey(deviceType string) string {
	return PropertyPrefix + deviceType
}

// PropertyReader reads raw property values (JSON lists of records).
type PropertyReader interface {
	Property(ctx context.Context, owner, key string) ([]byte, error)
}

// PropertyStore reads and writes raw property values.
// SetProperty must be atomic for a single key.
type PropertyStore interface {
	PropertyReader
	SetProperty(ctx context.Context, owner, key string, value []byte) error
}

// ConfigStore is the configuration store the registry runs against.
type ConfigStore interface {
	PropertyStore

	// RegisterProperty declares key with a default value; existing values are kept.
	RegisterProperty(ctx context.Context, owner, key, defaultValue string) error

	// ApplyChanges commits the owner's configuration and runs its validation hooks.
	ApplyChanges(ctx context.Context, owner string) error
}

// Logger defines the logging interface used by the Registry and Allocator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
