package devicetypes

import (
	"context"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
	"github.com/nerrad567/gray-logic-assistant/internal/variable"
)

// SceneSimpleName is the type name of SceneSimple.
const SceneSimpleName = "SceneSimple"

// SceneSimple is a non-reversible scene triggered by writing true to a bool variable.
type SceneSimple struct {
	base
}

// NewSceneSimple creates the handler.
func NewSceneSimple(vars variable.Store) *SceneSimple {
	return &SceneSimple{base{
		vars:  vars,
		key:   "SceneID",
		kinds: []variable.Kind{variable.KindBool},
		label: "Scene variable",
	}}
}

// Name returns "SceneSimple".
func (*SceneSimple) Name() string { return SceneSimpleName }

// Caption returns the form section heading.
func (*SceneSimple) Caption() string { return "Scenes" }

// Position places scenes after all lights.
func (*SceneSimple) Position() int { return 10 }

// Columns returns the scene variable column.
func (s *SceneSimple) Columns() []assistant.Column { return s.columns() }

// Status reports whether the SceneID variable exists and is a bool.
func (s *SceneSimple) Status(ctx context.Context, rec assistant.Record) string {
	return s.status(ctx, rec)
}

// Sync describes the record as a non-reversible SCENE.
func (*SceneSimple) Sync(_ context.Context, rec assistant.Record) assistant.SyncDevice {
	dev := syncDevice(rec, assistant.TypeScene, assistant.TraitScene)
	dev.Attributes = map[string]any{"sceneReversible": false}
	return dev
}

// Query reports a scene as online while its variable is usable.
func (s *SceneSimple) Query(ctx context.Context, rec assistant.Record) assistant.QueryState {
	if _, ok := s.resolve(ctx, rec); !ok {
		return assistant.Offline()
	}
	return assistant.QueryState{"online": true}
}

// Execute handles ActivateScene by setting the scene variable.
func (s *SceneSimple) Execute(ctx context.Context, rec assistant.Record, command string, params map[string]any) assistant.ExecuteResult {
	if command != assistant.CommandActivateScene {
		return assistant.Failure(rec.ID(), assistant.ErrorCodeNotSupported)
	}
	if deactivate, _ := boolParam(params, "deactivate"); deactivate {
		return assistant.Failure(rec.ID(), assistant.ErrorCodeNotSupported)
	}
	if code := s.set(ctx, rec, true); code != "" {
		return assistant.Failure(rec.ID(), code)
	}
	return assistant.Success(rec.ID(), map[string]any{"online": true})
}

// Translations returns the German phrases of the section.
func (*SceneSimple) Translations() assistant.Translations {
	return translations(map[string]string{
		"Scenes":         "Szenen",
		"Scene variable": "Szenenvariable",
	})
}
