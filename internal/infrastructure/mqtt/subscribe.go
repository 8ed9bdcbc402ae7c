package mqtt

import "fmt"

// Subscribe registers handler for topic, which may contain + and #
// wildcards. The bridge subscribes once to graylogic/state/variable/+ and
// the apply trigger to its instance topic.
//
// The subscription is remembered and replayed after every reconnect, since
// the client uses clean sessions. A failed subscribe is not remembered.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	switch {
	case topic == "":
		return ErrInvalidTopic
	case qos > maxQoS:
		return ErrInvalidQoS
	case handler == nil:
		return fmt.Errorf("%w: nil handler for %s", ErrSubscribeFailed, topic)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	sub := subscription{qos: qos, handler: handler}
	c.subMu.Lock()
	c.subscriptions[topic] = sub
	c.subMu.Unlock()

	if err := waitToken(c.client.Subscribe(topic, qos, c.dispatch(handler)), ErrSubscribeFailed); err != nil {
		c.forget(topic)
		return err
	}
	return nil
}

// Unsubscribe drops topic. Messages already in flight may still reach the
// handler.
func (c *Client) Unsubscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	c.forget(topic)
	return waitToken(c.client.Unsubscribe(topic), ErrUnsubscribeFailed)
}

func (c *Client) forget(topic string) {
	c.subMu.Lock()
	delete(c.subscriptions, topic)
	c.subMu.Unlock()
}

// resubscribe replays remembered subscriptions on a new session.
// It runs on paho's connect goroutine and does not wait for acknowledgement.
func (c *Client) resubscribe() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	for topic, sub := range c.subscriptions {
		c.client.Subscribe(topic, sub.qos, c.dispatch(sub.handler))
	}
}
