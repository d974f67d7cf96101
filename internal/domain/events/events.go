// Package events carries pipeline notifications between the assistant
// loop and observers such as the status API. The bus is injected, never
// global, so tests can run isolated instances.
package events

import (
	evbus "github.com/asaskevich/EventBus"
)

// Topics published by the assistant pipeline.
const (
	TopicState       = "assistant.state"
	TopicWakeDetect  = "wake.detected"
	TopicTranscribed = "command.transcribed"
	TopicVerified    = "speaker.verified"
	TopicReply       = "reply.spoken"
)

// Bus is a thin wrapper over the underlying event bus. Handlers
// subscribed asynchronously run on their own goroutine per event.
type Bus struct {
	bus evbus.Bus
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{bus: evbus.New()}
}

// Publish delivers an event to all subscribers of the topic.
func (b *Bus) Publish(topic string, args ...interface{}) {
	b.bus.Publish(topic, args...)
}

// Subscribe registers a synchronous handler.
func (b *Bus) Subscribe(topic string, fn interface{}) error {
	return b.bus.Subscribe(topic, fn)
}

// SubscribeAsync registers a handler that runs concurrently with the
// publisher. Events for one handler preserve publish order.
func (b *Bus) SubscribeAsync(topic string, fn interface{}) error {
	return b.bus.SubscribeAsync(topic, fn, false)
}

// Unsubscribe removes a handler from a topic.
func (b *Bus) Unsubscribe(topic string, fn interface{}) error {
	return b.bus.Unsubscribe(topic, fn)
}

// WaitAsync blocks until all async handlers have drained.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
