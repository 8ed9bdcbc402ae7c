package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

// memStore is an in-memory ConfigStore that counts writes per key.
type memStore struct {
	mu       sync.Mutex
	values   map[string][]byte
	writes   map[string]int
	hooks    []func(context.Context, string) error
	readErr  error
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{
		values: make(map[string][]byte),
		writes: make(map[string]int),
	}
}

func (m *memStore) Property(_ context.Context, owner, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	v, ok := m.values[owner+"/"+key]
	if !ok {
		return nil, errors.New("property not found")
	}
	return append([]byte(nil), v...), nil
}

func (m *memStore) SetProperty(_ context.Context, owner, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.values[owner+"/"+key] = append([]byte(nil), value...)
	m.writes[key]++
	return nil
}

func (m *memStore) RegisterProperty(_ context.Context, owner, key, def string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[owner+"/"+key]; !ok {
		m.values[owner+"/"+key] = []byte(def)
	}
	return nil
}

func (m *memStore) ApplyChanges(ctx context.Context, owner string) error {
	for _, hook := range m.hooks {
		if err := hook(ctx, owner); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) totalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, w := range m.writes {
		n += w
	}
	return n
}

// put stores records for a device type without counting a write.
func (m *memStore) put(t *testing.T, owner, deviceType string, records ...Record) {
	t.Helper()
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal records: %v", err)
	}
	m.mu.Lock()
	m.values[owner+"/"+PropertyKey(deviceType)] = data
	m.mu.Unlock()
}

// get decodes the stored records of a device type.
func (m *memStore) get(t *testing.T, owner, deviceType string) []Record {
	t.Helper()
	m.mu.Lock()
	raw := m.values[owner+"/"+PropertyKey(deviceType)]
	m.mu.Unlock()
	records, err := decodeRecords(raw)
	if err != nil {
		t.Fatalf("decode records: %v", err)
	}
	return records
}

// fakeType is a configurable DeviceType. Query and Execute read live values
// from the live map keyed by the record's "Ref" entry.
type fakeType struct {
	name         string
	position     int
	columns      []Column
	translations Translations
	live         map[string]any

	mu       sync.Mutex
	queried  []string
	executed []string
}

func (f *fakeType) Name() string { return f.name }

func (f *fakeType) Sync(_ context.Context, rec Record) SyncDevice {
	return SyncDevice{
		ID:     rec.ID(),
		Type:   TypeLight,
		Traits: []string{TraitOnOff},
		Name:   DeviceName{Name: rec.Name()},
	}
}

func (f *fakeType) Query(_ context.Context, rec Record) QueryState {
	f.mu.Lock()
	f.queried = append(f.queried, rec.ID())
	f.mu.Unlock()

	v, ok := f.live[rec.Ref("Ref")]
	if !ok {
		return Offline()
	}
	return QueryState{"online": true, "on": v}
}

func (f *fakeType) Execute(_ context.Context, rec Record, command string, params map[string]any) ExecuteResult {
	f.mu.Lock()
	f.executed = append(f.executed, rec.ID()+":"+command)
	f.mu.Unlock()

	if command != CommandOnOff {
		return Failure(rec.ID(), ErrorCodeNotSupported)
	}
	return Success(rec.ID(), map[string]any{"online": true, "on": params["on"]})
}

func (f *fakeType) Columns() []Column { return f.columns }

func (f *fakeType) Status(_ context.Context, rec Record) string {
	if rec.Ref("Ref") == "" {
		return "Variable missing"
	}
	return "OK"
}

func (f *fakeType) Caption() string { return f.name + " devices" }

func (f *fakeType) Position() int { return f.position }

func (f *fakeType) Translations() Translations { return f.translations }

const testOwner = "assistant"
