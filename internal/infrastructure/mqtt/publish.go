package mqtt

import (
	"fmt"
	"strings"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// maxPayloadSize caps a single message. Variable values and execution
// events are small JSON documents.
const maxPayloadSize = 1 << 20

// Publish sends payload on topic and waits until paho reports it delivered
// at the requested QoS.
//
// Variable commands and execution events go out with retained=false. The
// only retained message is the assistant status, see announce.
//
//	err := client.Publish(mqtt.Topics{}.VariableCommand("12"), []byte(`{"value":true}`), 1, false)
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if err := checkPublish(topic, qos, len(payload)); err != nil {
		return err
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return waitToken(c.client.Publish(topic, qos, retained, payload), ErrPublishFailed)
}

// checkPublish rejects a publish before it reaches paho.
func checkPublish(topic string, qos byte, size int) error {
	switch {
	case topic == "":
		return ErrInvalidTopic
	case strings.ContainsAny(topic, "+#"):
		return fmt.Errorf("%w: %q", ErrWildcardTopic, topic)
	case qos > maxQoS:
		return ErrInvalidQoS
	case size > maxPayloadSize:
		return fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, size, maxPayloadSize)
	}
	return nil
}

// waitToken waits for a paho token and wraps a failure in kind.
func waitToken(token pahomqtt.Token, kind error) error {
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: no reply within %v", kind, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return nil
}

// announce replaces the retained assistant status on graylogic/system/status.
// The broker's will carries the same message shape for unexpected drops.
func (c *Client) announce(status, reason string) error {
	payload := statusPayload(c.cfg.Broker.ClientID, status, reason)
	return c.Publish(Topics{}.SystemStatus(), payload, byte(c.cfg.QoS), true)
}
