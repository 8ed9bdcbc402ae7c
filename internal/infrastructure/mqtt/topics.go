package mqtt

import "fmt"

// Topic prefixes for the Gray Logic bus.
//
// Variable topics use the flat scheme: graylogic/{category}/variable/{id}
// so protocol bridges publish variable state the same way they publish
// device state.
const (
	// TopicPrefix is the base for all Gray Logic topics.
	TopicPrefix = "graylogic"

	// TopicPrefixAssistant is the base for assistant instance topics.
	TopicPrefixAssistant = "graylogic/assistant"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "graylogic/system"
)

// Topics provides builders for Gray Logic MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.VariableState("12")
//	// Returns: "graylogic/state/variable/12"
type Topics struct{}

// =============================================================================
// Variable Topics
// =============================================================================

// VariableState returns the topic on which bridges report a variable's value.
//
// Example: graylogic/state/variable/12
func (Topics) VariableState(id string) string {
	return fmt.Sprintf("%s/state/variable/%s", TopicPrefix, id)
}

// VariableCommand returns the topic on which new values are sent to bridges.
//
// Example: graylogic/command/variable/12
func (Topics) VariableCommand(id string) string {
	return fmt.Sprintf("%s/command/variable/%s", TopicPrefix, id)
}

// AllVariableStates returns a pattern matching all variable state updates.
//
// Pattern: graylogic/state/variable/+
func (Topics) AllVariableStates() string {
	return fmt.Sprintf("%s/state/variable/+", TopicPrefix)
}

// =============================================================================
// Assistant Topics
// =============================================================================

// AssistantApply returns the topic that triggers ApplyChanges for an instance.
//
// Example: graylogic/assistant/assistant/apply
func (Topics) AssistantApply(instanceID string) string {
	return fmt.Sprintf("%s/%s/apply", TopicPrefixAssistant, instanceID)
}

// AssistantExecution returns the topic on which executed commands are announced.
//
// Example: graylogic/assistant/assistant/execution
func (Topics) AssistantExecution(instanceID string) string {
	return fmt.Sprintf("%s/%s/execution", TopicPrefixAssistant, instanceID)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the system status topic.
//
// Example: graylogic/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllTopics returns a pattern matching all Gray Logic topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: graylogic/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
