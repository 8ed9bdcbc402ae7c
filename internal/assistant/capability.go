package assistant

import "context"

// DeviceType is the contract every device-type handler implements.
//
// Handlers are stateless with respect to the registry: every method works
// from the record it is given and whatever live values the record references.
// Query and Execute never fail; unreachable sources and unknown commands are
// reported inside the returned result.
type DeviceType interface {
	// Name is the unique device type token, e.g. "LightSwitch".
	Name() string

	// Sync returns the static descriptor of the device configured by rec.
	Sync(ctx context.Context, rec Record) SyncDevice

	// Query returns the current state. Offline() when the live source is unreachable.
	Query(ctx context.Context, rec Record) QueryState

	// Execute runs command with params against the device configured by rec.
	Execute(ctx context.Context, rec Record, command string, params map[string]any) ExecuteResult

	// Columns returns the extra configuration columns for this type, in display order.
	Columns() []Column

	// Status returns a short status string for the configuration list.
	Status(ctx context.Context, rec Record) string

	// Caption returns the title of this type's configuration section.
	Caption() string

	// Position orders configuration sections; lower comes first.
	Position() int

	// Translations returns language → phrase → translated phrase.
	Translations() Translations
}

// Device types reported in sync descriptors.
const (
	TypeLight = "action.devices.types.LIGHT"
	TypeScene = "action.devices.types.SCENE"
)

// Traits reported in sync descriptors.
const (
	TraitOnOff        = "action.devices.traits.OnOff"
	TraitBrightness   = "action.devices.traits.Brightness"
	TraitColorSetting = "action.devices.traits.ColorSetting"
	TraitScene        = "action.devices.traits.Scene"
)

// Commands accepted by Execute.
const (
	CommandOnOff              = "action.devices.commands.OnOff"
	CommandBrightnessAbsolute = "action.devices.commands.BrightnessAbsolute"
	CommandColorAbsolute      = "action.devices.commands.ColorAbsolute"
	CommandActivateScene      = "action.devices.commands.ActivateScene"
)

// ExecuteStatus is the per-device outcome of an execution.
type ExecuteStatus string

// Execution outcomes.
const (
	StatusSuccess ExecuteStatus = "SUCCESS"
	StatusError   ExecuteStatus = "ERROR"
	StatusPending ExecuteStatus = "PENDING"
)

// Error codes carried by failed executions.
const (
	ErrorCodeDeviceNotFound   = "deviceNotFound"
	ErrorCodeNotSupported     = "notSupported"
	ErrorCodeDeviceOffline    = "deviceOffline"
	ErrorCodeValueOutOfRange  = "valueOutOfRange"
	ErrorCodeTransientFailure = "transientError"
)

// SyncDevice describes one device in a sync response.
type SyncDevice struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Traits          []string       `json:"traits"`
	Name            DeviceName     `json:"name"`
	WillReportState bool           `json:"willReportState"`
	Attributes      map[string]any `json:"attributes,omitempty"`
}

// DeviceName is the naming block of a sync descriptor.
type DeviceName struct {
	Name         string   `json:"name"`
	DefaultNames []string `json:"defaultNames,omitempty"`
	Nicknames    []string `json:"nicknames,omitempty"`
}

// QueryState is the live state of one device. It always holds "online".
type QueryState map[string]any

// Offline returns the canonical state for an unreachable or unknown device.
func Offline() QueryState {
	return QueryState{"online": false}
}

// Online reports the "online" flag.
func (q QueryState) Online() bool {
	online, _ := q["online"].(bool) //nolint:errcheck // missing flag means offline
	return online
}

// ExecuteResult is the outcome of one command on one device.
type ExecuteResult struct {
	IDs       []string       `json:"ids"`
	Status    ExecuteStatus  `json:"status"`
	States    map[string]any `json:"states,omitempty"`
	ErrorCode string         `json:"errorCode,omitempty"`
}

// Success builds a successful result carrying the new device state.
func Success(id string, states map[string]any) ExecuteResult {
	return ExecuteResult{IDs: []string{id}, Status: StatusSuccess, States: states}
}

// Failure builds an error result with the given code.
func Failure(id, code string) ExecuteResult {
	return ExecuteResult{IDs: []string{id}, Status: StatusError, ErrorCode: code}
}

// NotFound is returned by ExecuteOne when no record carries id.
func NotFound(id string) ExecuteResult {
	return Failure(id, ErrorCodeDeviceNotFound)
}

// Column describes one column of a configuration list.
type Column struct {
	Label string         `json:"label"`
	Name  string         `json:"name"`
	Width string         `json:"width"`
	Add   any            `json:"add"`
	Save  bool           `json:"save,omitempty"`
	Edit  map[string]any `json:"edit,omitempty"`
}
