package devicetypes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
	"github.com/nerrad567/gray-logic-assistant/internal/configstore"
	"github.com/nerrad567/gray-logic-assistant/internal/variable"
)

const owner = "assistant"

// fixture wires a registry with every handler over in-memory stores.
type fixture struct {
	registry *assistant.Registry
	store    *configstore.MemoryStore
	vars     *variable.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: configstore.NewMemoryStore(),
		vars:  variable.NewMemoryStore(),
	}
	f.registry = assistant.NewRegistry(f.store, owner)
	require.NoError(t, RegisterAll(f.registry, f.vars, nil))
	require.NoError(t, f.registry.RegisterProperties(context.Background()))
	return f
}

func (f *fixture) define(t *testing.T, id string, kind variable.Kind, value any) {
	t.Helper()
	_, err := f.vars.Define(context.Background(), id, kind, value)
	require.NoError(t, err)
}

func (f *fixture) records(t *testing.T, deviceType string, records ...assistant.Record) {
	t.Helper()
	require.NoError(t, f.registry.SetRecords(context.Background(), deviceType, records))
}

func TestHandlerIdentity(t *testing.T) {
	tests := []struct {
		name     string
		caption  string
		position int
	}{
		{LightSwitchName, "Light switches", 1},
		{LightDimmerName, "Dimmers", 2},
		{LightColorName, "Color lights", 3},
		{SceneSimpleName, "Scenes", 10},
	}
	vars := variable.NewMemoryStore()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.name, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.name, h.Name())
			assert.Equal(t, tt.caption, h.Caption())
			assert.Equal(t, tt.position, h.Position())
		})
	}
}

func TestLightSwitchScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.define(t, "10", variable.KindBool, true)
	f.records(t, LightSwitchName, assistant.Record{"ID": "1", "Name": "Hall Light", "OnOffID": "10"})

	devices, err := f.registry.SyncAll(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "1", devices[0].ID)
	assert.Equal(t, "Hall Light", devices[0].Name.Name)
	assert.Equal(t, assistant.TypeLight, devices[0].Type)
	assert.Equal(t, []string{assistant.TraitOnOff}, devices[0].Traits)
	assert.False(t, devices[0].WillReportState)

	state, err := f.registry.QueryOne(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, assistant.QueryState{"online": true, "on": true}, state)

	result, err := f.registry.ExecuteOne(ctx, "1", assistant.CommandOnOff, map[string]any{"on": false})
	require.NoError(t, err)
	assert.Equal(t, assistant.StatusSuccess, result.Status)
	assert.Equal(t, map[string]any{"online": true, "on": false}, result.States)

	v, err := f.vars.Get(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, false, v.Value)
}

func TestLightSwitchFailures(t *testing.T) {
	ctx := context.Background()
	vars := variable.NewMemoryStore()
	_, err := vars.Define(ctx, "10", variable.KindBool, true)
	require.NoError(t, err)
	_, err = vars.Define(ctx, "11", variable.KindInt, 1)
	require.NoError(t, err)
	sw := NewLightSwitch(vars)

	wired := assistant.Record{"ID": "1", "OnOffID": json.Number("10")}
	unwired := assistant.Record{"ID": "2", "OnOffID": json.Number("0")}
	wrongKind := assistant.Record{"ID": "3", "OnOffID": "11"}
	dangling := assistant.Record{"ID": "4", "OnOffID": "99"}

	tests := []struct {
		name    string
		rec     assistant.Record
		command string
		params  map[string]any
		code    string
	}{
		{"unknown command", wired, assistant.CommandActivateScene, nil, assistant.ErrorCodeNotSupported},
		{"missing param", wired, assistant.CommandOnOff, nil, assistant.ErrorCodeValueOutOfRange},
		{"unwired", unwired, assistant.CommandOnOff, map[string]any{"on": true}, assistant.ErrorCodeDeviceOffline},
		{"wrong kind", wrongKind, assistant.CommandOnOff, map[string]any{"on": true}, assistant.ErrorCodeDeviceOffline},
		{"dangling", dangling, assistant.CommandOnOff, map[string]any{"on": true}, assistant.ErrorCodeDeviceOffline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sw.Execute(ctx, tt.rec, tt.command, tt.params)
			assert.Equal(t, assistant.Failure(tt.rec.ID(), tt.code), got)
		})
	}

	assert.Equal(t, assistant.Offline(), sw.Query(ctx, unwired))
	assert.Equal(t, assistant.Offline(), sw.Query(ctx, dangling))

	assert.Equal(t, StatusOK, sw.Status(ctx, wired))
	assert.Equal(t, StatusVariableMissing, sw.Status(ctx, unwired))
	assert.Equal(t, StatusVariableMissing, sw.Status(ctx, dangling))
	assert.Equal(t, "Boolean required", sw.Status(ctx, wrongKind))
}

// downBus fails every publish.
type downBus struct{}

func (downBus) Publish(string, []byte, byte, bool) error {
	return errors.New("broker unavailable")
}

func TestLightSwitchPublishFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	vars := variable.NewMemoryStore()
	_, err := vars.Define(ctx, "10", variable.KindBool, false)
	require.NoError(t, err)
	sw := NewLightSwitch(variable.NewPublishingStore(vars, downBus{}))
	rec := assistant.Record{"ID": "1", "OnOffID": "10"}

	got := sw.Execute(ctx, rec, assistant.CommandOnOff, map[string]any{"on": true})
	assert.Equal(t, assistant.Failure("1", assistant.ErrorCodeDeviceOffline), got)
	assert.Equal(t, assistant.QueryState{"online": true, "on": false}, sw.Query(ctx, rec))
}

func TestLightDimmer(t *testing.T) {
	ctx := context.Background()
	vars := variable.NewMemoryStore()
	_, err := vars.Define(ctx, "20", variable.KindInt, 40)
	require.NoError(t, err)
	_, err = vars.Define(ctx, "21", variable.KindFloat, 12.6)
	require.NoError(t, err)
	d := NewLightDimmer(vars)
	rec := assistant.Record{"ID": "5", "Name": "Lounge", "BrightnessID": "20"}

	dev := d.Sync(ctx, rec)
	assert.Equal(t, []string{assistant.TraitOnOff, assistant.TraitBrightness}, dev.Traits)

	assert.Equal(t, assistant.QueryState{"online": true, "on": true, "brightness": 40}, d.Query(ctx, rec))
	assert.Equal(t, assistant.QueryState{"online": true, "on": true, "brightness": 13},
		d.Query(ctx, assistant.Record{"ID": "6", "BrightnessID": "21"}))

	res := d.Execute(ctx, rec, assistant.CommandBrightnessAbsolute, map[string]any{"brightness": json.Number("65")})
	assert.Equal(t, assistant.StatusSuccess, res.Status)
	assert.Equal(t, 65, res.States["brightness"])

	res = d.Execute(ctx, rec, assistant.CommandOnOff, map[string]any{"on": false})
	assert.Equal(t, false, res.States["on"])
	v, _ := vars.Get(ctx, "20")
	assert.Equal(t, int64(0), v.Value)

	res = d.Execute(ctx, rec, assistant.CommandOnOff, map[string]any{"on": true})
	assert.Equal(t, 100, res.States["brightness"])

	res = d.Execute(ctx, rec, assistant.CommandBrightnessAbsolute, map[string]any{"brightness": 120.0})
	assert.Equal(t, assistant.ErrorCodeValueOutOfRange, res.ErrorCode)

	res = d.Execute(ctx, rec, assistant.CommandColorAbsolute, nil)
	assert.Equal(t, assistant.ErrorCodeNotSupported, res.ErrorCode)
}

func TestLightColor(t *testing.T) {
	ctx := context.Background()
	vars := variable.NewMemoryStore()
	_, err := vars.Define(ctx, "30", variable.KindInt, 0xFF0000)
	require.NoError(t, err)
	c := NewLightColor(vars)
	rec := assistant.Record{"ID": "7", "Name": "Strip", "ColorID": "30"}

	dev := c.Sync(ctx, rec)
	assert.Equal(t, map[string]any{"colorModel": "rgb"}, dev.Attributes)
	assert.Len(t, dev.Traits, 3)

	state := c.Query(ctx, rec)
	assert.Equal(t, true, state["on"])
	assert.Equal(t, 100, state["brightness"])
	assert.Equal(t, map[string]any{"spectrumRGB": int64(0xFF0000)}, state["color"])

	res := c.Execute(ctx, rec, assistant.CommandBrightnessAbsolute, map[string]any{"brightness": 50.0})
	require.Equal(t, assistant.StatusSuccess, res.Status)
	v, _ := vars.Get(ctx, "30")
	rgb, _ := v.Int()
	assert.Equal(t, int64(0x800000), rgb)
	assert.Equal(t, 50, res.States["brightness"])

	res = c.Execute(ctx, rec, assistant.CommandColorAbsolute,
		map[string]any{"color": map[string]any{"spectrumRGB": json.Number("65280")}})
	require.Equal(t, assistant.StatusSuccess, res.Status)
	v, _ = vars.Get(ctx, "30")
	assert.Equal(t, int64(0x00FF00), v.Value)

	res = c.Execute(ctx, rec, assistant.CommandOnOff, map[string]any{"on": false})
	assert.Equal(t, false, res.States["on"])

	// Brightening a black light gives white at that level.
	res = c.Execute(ctx, rec, assistant.CommandBrightnessAbsolute, map[string]any{"brightness": 100.0})
	assert.Equal(t, map[string]any{"spectrumRGB": int64(0xFFFFFF)}, res.States["color"])

	res = c.Execute(ctx, rec, assistant.CommandColorAbsolute,
		map[string]any{"color": map[string]any{"spectrumRGB": 0x1000000}})
	assert.Equal(t, assistant.ErrorCodeValueOutOfRange, res.ErrorCode)
}

func TestSceneSimple(t *testing.T) {
	ctx := context.Background()
	vars := variable.NewMemoryStore()
	_, err := vars.Define(ctx, "40", variable.KindBool, false)
	require.NoError(t, err)
	s := NewSceneSimple(vars)
	rec := assistant.Record{"ID": "8", "Name": "Movie night", "SceneID": "40"}

	dev := s.Sync(ctx, rec)
	assert.Equal(t, assistant.TypeScene, dev.Type)
	assert.Equal(t, map[string]any{"sceneReversible": false}, dev.Attributes)

	res := s.Execute(ctx, rec, assistant.CommandActivateScene, map[string]any{"deactivate": false})
	assert.Equal(t, assistant.StatusSuccess, res.Status)
	v, _ := vars.Get(ctx, "40")
	assert.Equal(t, true, v.Value)

	res = s.Execute(ctx, rec, assistant.CommandActivateScene, map[string]any{"deactivate": true})
	assert.Equal(t, assistant.ErrorCodeNotSupported, res.ErrorCode)
}

func TestFormAndTranslations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.define(t, "10", variable.KindBool, true)
	f.records(t, LightSwitchName,
		assistant.Record{"ID": "1", "Name": "Hall", "OnOffID": "10"},
		assistant.Record{"ID": "2", "Name": "Porch", "OnOffID": 0},
	)

	sections, err := f.registry.BuildForm(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 4)

	var captions []string
	for _, s := range sections {
		captions = append(captions, s.Caption)
	}
	assert.Equal(t, []string{"Light switches", "Dimmers", "Color lights", "Scenes"}, captions)
	assert.Equal(t, []map[string]any{{"Status": "OK"}, {"Status": "Variable missing"}}, sections[0].Items[0].Values)

	tr, err := f.registry.BuildTranslations()
	require.NoError(t, err)
	for _, s := range sections {
		assert.Contains(t, tr["de"], s.Caption)
		for _, col := range s.Items[0].Columns {
			assert.Contains(t, tr["de"], col.Label)
		}
	}
	assert.Equal(t, "Variable fehlt", tr["de"][StatusVariableMissing])
}

func TestRepairThroughApply(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.OnApply(f.registry.HandleApply)
	f.records(t, LightSwitchName, assistant.Record{"ID": "", "Name": "a"})
	f.records(t, LightDimmerName, assistant.Record{"ID": "", "Name": "b"})

	require.NoError(t, f.store.ApplyChanges(ctx, owner))

	sw, err := f.registry.Records(ctx, LightSwitchName)
	require.NoError(t, err)
	dim, err := f.registry.Records(ctx, LightDimmerName)
	require.NoError(t, err)
	assert.Equal(t, "1", sw[0].ID())
	assert.Equal(t, "2", dim[0].ID())
	assert.Equal(t, 2, f.store.Writes(owner, assistant.PropertyKey(LightSwitchName)))
	assert.Equal(t, 0, f.store.Writes(owner, assistant.PropertyKey(LightColorName)))
}

func TestNew(t *testing.T) {
	_, err := New("Toaster", variable.NewMemoryStore())
	assert.ErrorIs(t, err, ErrUnknownDeviceType)
	assert.Equal(t, []string{LightSwitchName, LightDimmerName, LightColorName, SceneSimpleName}, Names())

	r := assistant.NewRegistry(configstore.NewMemoryStore(), owner)
	require.NoError(t, RegisterAll(r, variable.NewMemoryStore(), []string{SceneSimpleName, LightSwitchName}))
	assert.Len(t, r.DeviceTypes(), 2)
}
