package devicetypes

import (
	"context"
	"math"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
	"github.com/nerrad567/gray-logic-assistant/internal/variable"
)

// LightDimmerName is the type name of LightDimmer.
const LightDimmerName = "LightDimmer"

// Brightness bounds in percent.
const (
	minBrightness = 0
	maxBrightness = 100
)

// LightDimmer is a dimmable light backed by a 0-100 int or float variable.
// Switching on sets full brightness, switching off sets zero.
type LightDimmer struct {
	base
}

// NewLightDimmer creates the handler.
func NewLightDimmer(vars variable.Store) *LightDimmer {
	return &LightDimmer{base{
		vars:  vars,
		key:   "BrightnessID",
		kinds: []variable.Kind{variable.KindInt, variable.KindFloat},
		label: "Brightness variable",
	}}
}

// Name returns "LightDimmer".
func (*LightDimmer) Name() string { return LightDimmerName }

// Caption returns the form section heading.
func (*LightDimmer) Caption() string { return "Dimmers" }

// Position places dimmers after switches.
func (*LightDimmer) Position() int { return 2 }

// Columns returns the brightness variable column.
func (d *LightDimmer) Columns() []assistant.Column { return d.columns() }

// Status reports whether the BrightnessID variable exists and is numeric.
func (d *LightDimmer) Status(ctx context.Context, rec assistant.Record) string {
	return d.status(ctx, rec)
}

// Sync describes the record as a LIGHT with OnOff and Brightness.
func (*LightDimmer) Sync(_ context.Context, rec assistant.Record) assistant.SyncDevice {
	return syncDevice(rec, assistant.TypeLight, assistant.TraitOnOff, assistant.TraitBrightness)
}

// Query reports brightness 0-100 and "on" when it is above zero.
func (d *LightDimmer) Query(ctx context.Context, rec assistant.Record) assistant.QueryState {
	v, ok := d.resolve(ctx, rec)
	if !ok {
		return assistant.Offline()
	}
	level, _ := v.Float()
	brightness := clampBrightness(level)
	return assistant.QueryState{"online": true, "on": brightness > 0, "brightness": brightness}
}

// Execute handles OnOff and BrightnessAbsolute.
func (d *LightDimmer) Execute(ctx context.Context, rec assistant.Record, command string, params map[string]any) assistant.ExecuteResult {
	var brightness int
	switch command {
	case assistant.CommandOnOff:
		on, ok := boolParam(params, "on")
		if !ok {
			return assistant.Failure(rec.ID(), assistant.ErrorCodeValueOutOfRange)
		}
		if on {
			brightness = maxBrightness
		}
	case assistant.CommandBrightnessAbsolute:
		level, ok := numberParam(params, "brightness")
		if !ok || level < minBrightness || level > maxBrightness {
			return assistant.Failure(rec.ID(), assistant.ErrorCodeValueOutOfRange)
		}
		brightness = int(math.Round(level))
	default:
		return assistant.Failure(rec.ID(), assistant.ErrorCodeNotSupported)
	}

	if code := d.set(ctx, rec, brightness); code != "" {
		return assistant.Failure(rec.ID(), code)
	}
	return assistant.Success(rec.ID(), map[string]any{
		"online":     true,
		"on":         brightness > 0,
		"brightness": brightness,
	})
}

// Translations returns the German phrases of the section.
func (*LightDimmer) Translations() assistant.Translations {
	return translations(map[string]string{
		"Dimmers":             "Dimmer",
		"Brightness variable": "Helligkeitsvariable",
	})
}

// clampBrightness rounds level into the 0-100 range.
func clampBrightness(level float64) int {
	n := int(math.Round(level))
	if n < minBrightness {
		return minBrightness
	}
	if n > maxBrightness {
		return maxBrightness
	}
	return n
}
