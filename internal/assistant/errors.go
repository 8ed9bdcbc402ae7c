package assistant

import "errors"

// Domain errors for the assistant package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, assistant.ErrDuplicateIdentifier) {
//	    // configuration must be fixed by the installer
//	}
var (
	// ErrInvalidDeviceType is returned when registering a nil handler or one without a name.
	ErrInvalidDeviceType = errors.New("assistant: invalid device type")

	// ErrDeviceTypeExists is returned when a device type name is registered twice.
	ErrDeviceTypeExists = errors.New("assistant: device type already registered")

	// ErrRegistryFrozen is returned when registering after the first dispatch.
	ErrRegistryFrozen = errors.New("assistant: registry frozen after first use")

	// ErrDuplicateIdentifier is returned when two records share a non-empty ID.
	ErrDuplicateIdentifier = errors.New("assistant: device identifier is not unique")

	// ErrInvalidConfiguration is returned when a stored property is not a JSON list of records.
	ErrInvalidConfiguration = errors.New("assistant: invalid device configuration")

	// ErrTranslationConflict is returned when two sources translate the same phrase differently.
	ErrTranslationConflict = errors.New("assistant: conflicting translations")

	// ErrNilTranslations is returned when merging into a nil translation table.
	ErrNilTranslations = errors.New("assistant: nil translation table")

	// ErrRepairNotConverged is returned when identifier repair still writes after the pass limit.
	ErrRepairNotConverged = errors.New("assistant: identifier repair did not converge")
)
