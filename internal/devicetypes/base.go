package devicetypes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
	"github.com/nerrad567/gray-logic-assistant/internal/variable"
)

// Status strings shown in the configuration list.
const (
	StatusOK              = "OK"
	StatusVariableMissing = "Variable missing"
)

// ErrUnknownDeviceType is returned by New for a name no handler carries.
var ErrUnknownDeviceType = errors.New("devicetypes: unknown device type")

// base holds what every handler shares: the variable store and the record
// key naming the variable.
type base struct {
	vars  variable.Store
	key   string
	kinds []variable.Kind // accepted kinds, first is shown in "<Kind> required"
	label string          // column label
}

// resolve returns the record's variable. ok is false when it is not wired,
// missing or of the wrong kind.
func (b base) resolve(ctx context.Context, rec assistant.Record) (variable.Variable, bool) {
	ref := rec.Ref(b.key)
	if ref == "" {
		return variable.Variable{}, false
	}
	v, err := b.vars.Get(ctx, ref)
	if err != nil {
		return variable.Variable{}, false
	}
	if !slices.Contains(b.kinds, v.Kind) {
		return variable.Variable{}, false
	}
	return v, true
}

// status reports whether the record's variable is usable.
func (b base) status(ctx context.Context, rec assistant.Record) string {
	ref := rec.Ref(b.key)
	if ref == "" {
		return StatusVariableMissing
	}
	v, err := b.vars.Get(ctx, ref)
	if err != nil {
		return StatusVariableMissing
	}
	if !slices.Contains(b.kinds, v.Kind) {
		return requiredStatus(b.kinds[0])
	}
	return StatusOK
}

// set writes value into the record's variable and maps failures to error codes.
func (b base) set(ctx context.Context, rec assistant.Record, value any) string {
	if _, ok := b.resolve(ctx, rec); !ok {
		return assistant.ErrorCodeDeviceOffline
	}
	if err := b.vars.Set(ctx, rec.Ref(b.key), value); err != nil {
		if errors.Is(err, variable.ErrTypeMismatch) {
			return assistant.ErrorCodeValueOutOfRange
		}
		return assistant.ErrorCodeDeviceOffline
	}
	return ""
}

// columns returns the single variable column of a handler.
func (b base) columns() []assistant.Column {
	return []assistant.Column{{
		Label: b.label,
		Name:  b.key,
		Width: "250px",
		Add:   0,
		Edit:  map[string]any{"type": "SelectVariable"},
	}}
}

// requiredStatus is the status for a variable of the wrong kind.
func requiredStatus(kind variable.Kind) string {
	return kind.Label() + " required"
}

// syncDevice builds the common part of a sync descriptor.
func syncDevice(rec assistant.Record, deviceType string, traits ...string) assistant.SyncDevice {
	return assistant.SyncDevice{
		ID:              rec.ID(),
		Type:            deviceType,
		Traits:          traits,
		Name:            assistant.DeviceName{Name: rec.Name()},
		WillReportState: false,
	}
}

// boolParam reads a boolean command parameter.
func boolParam(params map[string]any, key string) (bool, bool) {
	v, ok := params[key].(bool)
	return v, ok
}

// numberParam reads a numeric command parameter.
func numberParam(params map[string]any, key string) (float64, bool) {
	switch n := params[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// commonTranslations holds the phrases every handler uses, so merged tables
// never disagree on them.
func commonTranslations() map[string]string {
	return map[string]string{
		StatusOK:                            "OK",
		StatusVariableMissing:               "Variable fehlt",
		requiredStatus(variable.KindBool):   "Boolean benötigt",
		requiredStatus(variable.KindInt):    "Integer benötigt",
		requiredStatus(variable.KindFloat):  "Float benötigt",
		requiredStatus(variable.KindString): "String benötigt",
	}
}

// translations merges the common phrases with handler phrases.
func translations(extra map[string]string) assistant.Translations {
	de := commonTranslations()
	for phrase, translated := range extra {
		de[phrase] = translated
	}
	return assistant.Translations{"de": de}
}

// constructors lists every handler in default registration order.
var constructors = []struct {
	name string
	new  func(vars variable.Store) assistant.DeviceType
}{
	{LightSwitchName, func(v variable.Store) assistant.DeviceType { return NewLightSwitch(v) }},
	{LightDimmerName, func(v variable.Store) assistant.DeviceType { return NewLightDimmer(v) }},
	{LightColorName, func(v variable.Store) assistant.DeviceType { return NewLightColor(v) }},
	{SceneSimpleName, func(v variable.Store) assistant.DeviceType { return NewSceneSimple(v) }},
}

// Names returns the names of all available handlers in default registration order.
func Names() []string {
	names := make([]string, len(constructors))
	for i, c := range constructors {
		names[i] = c.name
	}
	return names
}

// New returns the handler called name.
func New(name string, vars variable.Store) (assistant.DeviceType, error) {
	for _, c := range constructors {
		if c.name == name {
			return c.new(vars), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDeviceType, name)
}

// RegisterAll registers the named handlers in order. An empty list registers all.
func RegisterAll(r *assistant.Registry, vars variable.Store, names []string) error {
	if len(names) == 0 {
		names = Names()
	}
	for _, name := range names {
		dt, err := New(name, vars)
		if err != nil {
			return err
		}
		if err := r.Register(dt); err != nil {
			return err
		}
	}
	return nil
}
