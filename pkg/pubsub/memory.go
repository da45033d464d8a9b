package pubsub

import (
	"context"
	"sync"
)

// MemoryBroker is an in-process Publisher/Subscriber used in tests and for
// single-node dev runs without Redis.
type MemoryBroker struct {
	mu       sync.Mutex
	handlers map[string][]func(Envelope)
	events   []Envelope
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{handlers: map[string][]func(Envelope){}}
}

func (b *MemoryBroker) Publish(_ context.Context, topic string, payload any) error {
	env, _, err := newEnvelope(topic, payload)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.events = append(b.events, env)
	handlers := append([]func(Envelope){}, b.handlers[topic]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(env)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string, handler func(Envelope)) error {
	b.mu.Lock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	b.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

// Events returns a copy of everything published so far.
func (b *MemoryBroker) Events() []Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Envelope{}, b.events...)
}

// EventsForTopic filters published events by topic.
func (b *MemoryBroker) EventsForTopic(topic string) []Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Envelope
	for _, env := range b.events {
		if env.Topic == topic {
			out = append(out, env)
		}
	}
	return out
}

var _ Publisher = (*MemoryBroker)(nil)
var _ Subscriber = (*MemoryBroker)(nil)
