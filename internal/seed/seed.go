package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
	"github.com/nerrad567/gray-logic-assistant/internal/variable"
)

// ErrInvalidSeed is returned when a seed file cannot be used.
var ErrInvalidSeed = errors.New("seed: invalid seed file")

// File is the parsed content of a seed file.
type File struct {
	Variables []VariableSeed              `yaml:"variables"`
	Devices   map[string][]map[string]any `yaml:"devices"`
}

// VariableSeed defines one variable and its initial value.
type VariableSeed struct {
	ID    string `yaml:"id"`
	Kind  string `yaml:"kind"`
	Value any    `yaml:"value"`
}

// Result reports what Apply wrote.
type Result struct {
	DeviceTypes []string
	Variables   int
}

// Records is the registry surface used for seeding devices.
type Records interface {
	Records(ctx context.Context, deviceType string) ([]assistant.Record, error)
	SetRecords(ctx context.Context, deviceType string, records []assistant.Record) error
}

// Definer creates variables that do not exist yet.
type Definer interface {
	Define(ctx context.Context, id string, kind variable.Kind, value any) (bool, error)
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse parses seed YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	for i, v := range f.Variables {
		if v.ID == "" {
			return nil, fmt.Errorf("%w: variable %d has no id", ErrInvalidSeed, i)
		}
		if !variable.Kind(v.Kind).Valid() {
			return nil, fmt.Errorf("%w: variable %s has kind %q", ErrInvalidSeed, v.ID, v.Kind)
		}
	}
	for name, records := range f.Devices {
		for i, rec := range records {
			if rec == nil {
				return nil, fmt.Errorf("%w: %s record %d is empty", ErrInvalidSeed, name, i)
			}
		}
	}
	return &f, nil
}

// Apply writes the seed into empty device lists and missing variables.
// Variables are defined first so seeded devices resolve immediately.
func Apply(ctx context.Context, f *File, devices Records, vars Definer, logger *slog.Logger) (Result, error) {
	var res Result

	for _, v := range f.Variables {
		created, err := vars.Define(ctx, v.ID, variable.Kind(v.Kind), v.Value)
		if err != nil {
			return res, fmt.Errorf("seeding variable %s: %w", v.ID, err)
		}
		if created {
			res.Variables++
		}
	}

	names := make([]string, 0, len(f.Devices))
	for name := range f.Devices {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		existing, err := devices.Records(ctx, name)
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", name, err)
		}
		if len(existing) > 0 {
			logger.Debug("device type already configured, skipping seed", "device_type", name)
			continue
		}

		records := make([]assistant.Record, 0, len(f.Devices[name]))
		for _, rec := range f.Devices[name] {
			records = append(records, assistant.Record(rec))
		}
		if err := devices.SetRecords(ctx, name, records); err != nil {
			return res, fmt.Errorf("seeding %s: %w", name, err)
		}
		res.DeviceTypes = append(res.DeviceTypes, name)
	}

	logger.Info("seed applied",
		"device_types", len(res.DeviceTypes),
		"variables", res.Variables,
	)
	return res, nil
}
