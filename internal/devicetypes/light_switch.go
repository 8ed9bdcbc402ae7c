package devicetypes

import (
	"context"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
	"github.com/nerrad567/gray-logic-assistant/internal/variable"
)

// LightSwitchName is the type name of LightSwitch.
const LightSwitchName = "LightSwitch"

// LightSwitch is an on/off light backed by a bool variable.
type LightSwitch struct {
	base
}

// NewLightSwitch creates the handler.
func NewLightSwitch(vars variable.Store) *LightSwitch {
	return &LightSwitch{base{
		vars:  vars,
		key:   "OnOffID",
		kinds: []variable.Kind{variable.KindBool},
		label: "Switch variable",
	}}
}

// Name returns "LightSwitch".
func (*LightSwitch) Name() string { return LightSwitchName }

// Caption returns the form section heading.
func (*LightSwitch) Caption() string { return "Light switches" }

// Position places switches first in the form.
func (*LightSwitch) Position() int { return 1 }

// Columns returns the switch variable column.
func (l *LightSwitch) Columns() []assistant.Column { return l.columns() }

// Status reports whether the OnOffID variable exists and is a bool.
func (l *LightSwitch) Status(ctx context.Context, rec assistant.Record) string {
	return l.status(ctx, rec)
}

// Sync describes the record as a LIGHT with the OnOff trait.
func (*LightSwitch) Sync(_ context.Context, rec assistant.Record) assistant.SyncDevice {
	return syncDevice(rec, assistant.TypeLight, assistant.TraitOnOff)
}

// Query reports the switch variable as "on". An unusable variable reads as offline.
func (l *LightSwitch) Query(ctx context.Context, rec assistant.Record) assistant.QueryState {
	v, ok := l.resolve(ctx, rec)
	if !ok {
		return assistant.Offline()
	}
	on, _ := v.Bool()
	return assistant.QueryState{"online": true, "on": on}
}

// Execute handles OnOff by writing the switch variable.
func (l *LightSwitch) Execute(ctx context.Context, rec assistant.Record, command string, params map[string]any) assistant.ExecuteResult {
	if command != assistant.CommandOnOff {
		return assistant.Failure(rec.ID(), assistant.ErrorCodeNotSupported)
	}
	on, ok := boolParam(params, "on")
	if !ok {
		return assistant.Failure(rec.ID(), assistant.ErrorCodeValueOutOfRange)
	}
	if code := l.set(ctx, rec, on); code != "" {
		return assistant.Failure(rec.ID(), code)
	}
	return assistant.Success(rec.ID(), map[string]any{"online": true, "on": on})
}

// Translations returns the German phrases of the section.
func (*LightSwitch) Translations() assistant.Translations {
	return translations(map[string]string{
		"Light switches":  "Lichtschalter",
		"Switch variable": "Schaltvariable",
	})
}
