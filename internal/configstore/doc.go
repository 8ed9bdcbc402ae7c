// Package configstore provides the instance property store the assistant
// registry reads its device lists from.
//
// Properties are raw JSON values keyed by (owner, key). An owner is a module
// instance, e.g. the assistant instance id from config.yaml.
//
// # Apply hooks
//
// ApplyChanges commits an owner's configuration by running the registered
// hooks in registration order. The assistant registry registers its
// HandleApply hook here so every apply runs the identifier repair:
//
//	store := configstore.NewSQLiteStore(db.DB)
//	store.OnApply(registry.HandleApply)
//
//	// After the installer edited a device list
//	if err := store.ApplyChanges(ctx, "assistant"); err != nil {
//	    return err // e.g. duplicate identifiers
//	}
//
// Hooks must not call ApplyChanges themselves.
//
// # Implementations
//
//   - SQLiteStore: persistent, table instance_properties
//   - MemoryStore: in-memory with per-key write counters, for tests and tooling
package configstore
