package devicetypes

import (
	"context"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
	"github.com/nerrad567/gray-logic-assistant/internal/variable"
)

// LightColorName is the type name of LightColor.
const LightColorName = "LightColor"

// RGB limits of a packed 0xRRGGBB value.
const (
	rgbBlack = 0x000000
	rgbWhite = 0xFFFFFF
)

// LightColor is an RGB light backed by an int variable holding 0xRRGGBB.
// Black is off; brightness is the HSV value of the colour.
type LightColor struct {
	base
}

// NewLightColor creates the handler.
func NewLightColor(vars variable.Store) *LightColor {
	return &LightColor{base{
		vars:  vars,
		key:   "ColorID",
		kinds: []variable.Kind{variable.KindInt},
		label: "Color variable",
	}}
}

// Name returns "LightColor".
func (*LightColor) Name() string { return LightColorName }

// Caption returns the form section heading.
func (*LightColor) Caption() string { return "Color lights" }

// Position places colour lights after dimmers.
func (*LightColor) Position() int { return 3 }

// Columns returns the colour variable column.
func (c *LightColor) Columns() []assistant.Column { return c.columns() }

// Status reports whether the ColorID variable exists and is an int.
func (c *LightColor) Status(ctx context.Context, rec assistant.Record) string {
	return c.status(ctx, rec)
}

// Sync describes the record as an RGB LIGHT.
func (*LightColor) Sync(_ context.Context, rec assistant.Record) assistant.SyncDevice {
	dev := syncDevice(rec, assistant.TypeLight,
		assistant.TraitOnOff, assistant.TraitBrightness, assistant.TraitColorSetting)
	dev.Attributes = map[string]any{"colorModel": "rgb"}
	return dev
}

// Query reports on, brightness and spectrumRGB of the stored colour.
func (c *LightColor) Query(ctx context.Context, rec assistant.Record) assistant.QueryState {
	v, ok := c.resolve(ctx, rec)
	if !ok {
		return assistant.Offline()
	}
	rgb, _ := v.Int()
	return colorState(clampRGB(rgb))
}

// Execute handles OnOff, BrightnessAbsolute and ColorAbsolute.
// Brightness keeps the hue and saturation of the current colour.
func (c *LightColor) Execute(ctx context.Context, rec assistant.Record, command string, params map[string]any) assistant.ExecuteResult {
	switch command {
	case assistant.CommandOnOff, assistant.CommandBrightnessAbsolute, assistant.CommandColorAbsolute:
	default:
		return assistant.Failure(rec.ID(), assistant.ErrorCodeNotSupported)
	}

	v, ok := c.resolve(ctx, rec)
	if !ok {
		return assistant.Failure(rec.ID(), assistant.ErrorCodeDeviceOffline)
	}
	current, _ := v.Int()
	current = clampRGB(current)

	var next int64
	switch command {
	case assistant.CommandOnOff:
		on, ok := boolParam(params, "on")
		if !ok {
			return assistant.Failure(rec.ID(), assistant.ErrorCodeValueOutOfRange)
		}
		next = rgbBlack
		if on {
			next = rgbWhite
		}
	case assistant.CommandBrightnessAbsolute:
		level, ok := numberParam(params, "brightness")
		if !ok || level < minBrightness || level > maxBrightness {
			return assistant.Failure(rec.ID(), assistant.ErrorCodeValueOutOfRange)
		}
		next = withBrightness(current, level/maxBrightness)
	case assistant.CommandColorAbsolute:
		color, _ := params["color"].(map[string]any)
		rgb, ok := numberParam(color, "spectrumRGB")
		if !ok || rgb < rgbBlack || rgb > rgbWhite || rgb != math.Trunc(rgb) {
			return assistant.Failure(rec.ID(), assistant.ErrorCodeValueOutOfRange)
		}
		next = int64(rgb)
	}

	if code := c.set(ctx, rec, next); code != "" {
		return assistant.Failure(rec.ID(), code)
	}
	return assistant.Success(rec.ID(), colorState(next))
}

// Translations returns the German phrases of the section.
func (*LightColor) Translations() assistant.Translations {
	return translations(map[string]string{
		"Color lights":   "Farblichter",
		"Color variable": "Farbvariable",
	})
}

// colorState reports a packed colour as on, brightness and spectrum.
func colorState(rgb int64) assistant.QueryState {
	_, _, value := unpack(rgb).Hsv()
	return assistant.QueryState{
		"online":     true,
		"on":         rgb != rgbBlack,
		"brightness": clampBrightness(value * maxBrightness),
		"color":      map[string]any{"spectrumRGB": rgb},
	}
}

// withBrightness keeps hue and saturation and sets the HSV value.
// A black light is brightened as white.
func withBrightness(rgb int64, value float64) int64 {
	h, s := 0.0, 0.0
	if rgb != rgbBlack {
		h, s, _ = unpack(rgb).Hsv()
	}
	return pack(colorful.Hsv(h, s, value))
}

func unpack(rgb int64) colorful.Color {
	return colorful.Color{
		R: float64((rgb>>16)&0xFF) / 255,
		G: float64((rgb>>8)&0xFF) / 255,
		B: float64(rgb&0xFF) / 255,
	}
}

func pack(c colorful.Color) int64 {
	r, g, b := c.Clamped().RGB255()
	return int64(r)<<16 | int64(g)<<8 | int64(b)
}

func clampRGB(rgb int64) int64 {
	if rgb < rgbBlack {
		return rgbBlack
	}
	if rgb > rgbWhite {
		return rgbWhite
	}
	return rgb
}
