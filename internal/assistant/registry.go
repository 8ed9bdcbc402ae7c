package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Registry owns the registered device types and routes sync, query and
// execute requests to them.
//
// Registration happens once at startup. The first call that reads the handler
// set (dispatch, form, translations, repair) freezes the registry; further
// Register calls fail with ErrRegistryFrozen.
//
// Every operation re-reads the configuration store. Nothing is cached.
//
// All public methods are thread-safe.
type Registry struct {
	store     ConfigStore
	owner     string
	allocator *Allocator

	mu     sync.RWMutex
	types  []DeviceType          // Registration order
	byName map[string]DeviceType // Direct lookup by type name
	frozen bool

	logger Logger
}

// NewRegistry creates a registry reading device records of ownerID from store.
func NewRegistry(store ConfigStore, ownerID string) *Registry {
	return &Registry{
		store:     store,
		owner:     ownerID,
		allocator: NewAllocator(store, ownerID),
		byName:    make(map[string]DeviceType),
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the registry and its allocator.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
	r.allocator.SetLogger(logger)
}

// SetMaxRepairPasses bounds the identifier repair loop.
func (r *Registry) SetMaxRepairPasses(n int) {
	r.allocator.SetMaxPasses(n)
}

// Owner returns the configuration owner the registry reads from.
func (r *Registry) Owner() string {
	return r.owner
}

// Register adds a device type. Registration order is kept and breaks ties
// between equal display positions.
//
// Returns ErrInvalidDeviceType for a nil handler or empty name,
// ErrDeviceTypeExists for a duplicate name and ErrRegistryFrozen once
// the registry has been used.
func (r *Registry) Register(dt DeviceType) error {
	if dt == nil {
		return fmt.Errorf("%w: nil handler", ErrInvalidDeviceType)
	}
	name := dt.Name()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDeviceType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %s", ErrRegistryFrozen, name)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDeviceTypeExists, name)
	}

	r.types = append(r.types, dt)
	r.byName[name] = dt

	r.logger.Debug("device type registered", "type", name, "position", dt.Position())
	return nil
}

// DeviceTypes returns the registered device types in registration order.
func (r *Registry) DeviceTypes() []DeviceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]DeviceType, len(r.types))
	copy(out, r.types)
	return out
}

// DeviceType returns the handler registered under name.
func (r *Registry) DeviceType(name string) (DeviceType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dt, ok := r.byName[name]
	return dt, ok
}

// snapshot freezes the registry and returns the handler list.
func (r *Registry) snapshot() []DeviceType {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.frozen {
		r.frozen = true
		r.logger.Info("device type registry frozen", "types", len(r.types))
	}
	out := make([]DeviceType, len(r.types))
	copy(out, r.types)
	return out
}

// names returns the type names of handlers, in order.
func names(types []DeviceType) []string {
	out := make([]string, len(types))
	for i, dt := range types {
		out[i] = dt.Name()
	}
	return out
}

// load reads the current records of every handler and checks identifier
// uniqueness. Dispatch never proceeds on a catalogue that fails the check.
func (r *Registry) load(ctx context.Context, types []DeviceType) (catalogue, error) {
	cat, err := loadCatalogue(ctx, r.store, r.owner, names(types))
	if err != nil {
		return nil, err
	}
	if _, err := cat.identifiers(); err != nil {
		r.logger.Error("device configuration rejected", "error", err)
		return nil, err
	}
	return cat, nil
}

// RegisterProperties declares one list property per registered device type,
// defaulting to an empty list.
func (r *Registry) RegisterProperties(ctx context.Context) error {
	for _, dt := range r.snapshot() {
		key := PropertyKey(dt.Name())
		if err := r.store.RegisterProperty(ctx, r.owner, key, EmptyConfiguration); err != nil {
			return fmt.Errorf("registering %s: %w", key, err)
		}
	}
	return nil
}

// SyncAll returns the descriptor of every configured device: registration
// order outer, stored record order inner. No devices yields an empty list.
func (r *Registry) SyncAll(ctx context.Context) ([]SyncDevice, error) {
	types := r.snapshot()
	cat, err := r.load(ctx, types)
	if err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}

	devices := make([]SyncDevice, 0, cat.count())
	for i, t := range cat {
		for _, rec := range t.records {
			devices = append(devices, types[i].Sync(ctx, rec))
		}
	}
	return devices, nil
}

// QueryOne returns the state of the device with identifier id.
// An unknown id is not an error: the result is Offline().
func (r *Registry) QueryOne(ctx context.Context, id string) (QueryState, error) {
	types := r.snapshot()
	cat, err := r.load(ctx, types)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", id, err)
	}

	i, rec, ok := cat.find(id)
	if !ok {
		r.logger.Debug("query for unknown device", "id", id)
		return Offline(), nil
	}
	return types[i].Query(ctx, rec), nil
}

// ExecuteOne runs command on the device with identifier id.
// An unknown id is not an error: the result is NotFound(id).
func (r *Registry) ExecuteOne(ctx context.Context, id, command string, params map[string]any) (ExecuteResult, error) {
	types := r.snapshot()
	cat, err := r.load(ctx, types)
	if err != nil {
		return ExecuteResult{}, fmt.Errorf("execute %s: %w", id, err)
	}

	i, rec, ok := cat.find(id)
	if !ok {
		r.logger.Debug("execute for unknown device", "id", id, "command", command)
		return NotFound(id), nil
	}

	result := types[i].Execute(ctx, rec, command, params)
	r.logger.Debug("command executed",
		"id", id,
		"type", types[i].Name(),
		"command", command,
		"status", result.Status,
	)
	return result, nil
}

// Records returns the stored records of one device type.
func (r *Registry) Records(ctx context.Context, deviceType string) ([]Record, error) {
	if _, ok := r.DeviceType(deviceType); !ok {
		return nil, fmt.Errorf("%w: unknown type %s", ErrInvalidDeviceType, deviceType)
	}
	cat, err := loadCatalogue(ctx, r.store, r.owner, []string{deviceType})
	if err != nil {
		return nil, err
	}
	return cat[0].records, nil
}

// SetRecords replaces the stored records of one device type. The change
// takes effect for validation on the next ApplyChanges. A running identifier
// repair finishes before the write, so neither overwrites the other.
func (r *Registry) SetRecords(ctx context.Context, deviceType string, records []Record) error {
	if _, ok := r.DeviceType(deviceType); !ok {
		return fmt.Errorf("%w: unknown type %s", ErrInvalidDeviceType, deviceType)
	}
	for i, rec := range records {
		if rec == nil {
			return fmt.Errorf("%w: record %d is null", ErrInvalidConfiguration, i)
		}
	}
	return r.allocator.Replace(ctx, deviceType, records)
}

// RepairIdentifiers assigns identifiers to every record lacking one.
// See Allocator.Repair.
func (r *Registry) RepairIdentifiers(ctx context.Context) (RepairResult, error) {
	return r.allocator.Repair(ctx, names(r.snapshot()))
}

// HandleApply is the apply hook for the configuration store. It ignores
// other owners and repairs identifiers for this one.
func (r *Registry) HandleApply(ctx context.Context, owner string) error {
	if owner != r.owner {
		return nil
	}
	result, err := r.RepairIdentifiers(ctx)
	if err != nil {
		return err
	}
	if result.Writes > 0 {
		r.logger.Info("device identifiers assigned",
			"assigned", len(result.Assigned),
			"writes", result.Writes,
			"passes", result.Passes,
		)
	}
	return nil
}
