// Package assistant provides the device-type dispatch registry behind the
// Gray Logic voice assistant integration.
//
// The registry holds one handler per device type (light switch, dimmer,
// colour light, scene, ...). Each handler owns a list property in the
// configuration store, keyed "Device" + type name, holding one record per
// configured device. Every record carries an ID that is unique across the
// whole catalogue and a display Name; the remaining keys belong to the
// handler (usually references to live variables).
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                        Registry                               │
//	│                                                               │
//	│  Register ──▶ handler list (registration order, name index)   │
//	│                                                               │
//	│  SyncAll / QueryOne / ExecuteOne ──▶ catalogue ──▶ DeviceType │
//	│  BuildForm / BuildTranslations   ──▶ per-type contributions   │
//	│  RepairIdentifiers ──▶ Allocator (bounded fixed-point loop)   │
//	└──────────────────────────────┬───────────────────────────────┘
//	                               │ Property / SetProperty
//	                               ▼
//	                      ConfigStore (external)
//
// # Usage
//
//	registry := assistant.NewRegistry(store, "assistant")
//	registry.SetLogger(log)
//	if err := registry.Register(devicetypes.NewLightSwitch(vars)); err != nil {
//	    return err
//	}
//
//	// After a configuration change
//	if _, err := registry.RepairIdentifiers(ctx); err != nil {
//	    return err
//	}
//
//	devices, err := registry.SyncAll(ctx)
//	state, err := registry.QueryOne(ctx, "1")
//
// # Lifecycle
//
// Handlers are registered once at start-up. The first operation that reads
// the handler set freezes the registry; later Register calls fail with
// ErrRegistryFrozen. Nothing is cached between calls: every operation
// re-reads the configuration store.
package assistant
