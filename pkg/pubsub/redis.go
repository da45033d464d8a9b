package pubsub

import (
	"context"
	"encoding/json"
	"errors"

	redisclient "github.com/digifund/digifund-backend/pkg/redis"
)

// RedisBroker publishes and subscribes through Redis channels. Delivery is
// at-most-once: events published while no subscriber is attached are lost,
// which is acceptable for the notification-style events we emit.
type RedisBroker struct {
	client *redisclient.Client
}

// NewRedisBroker wires a broker over an established redis client.
func NewRedisBroker(client *redisclient.Client) (*RedisBroker, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisBroker{client: client}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, payload any) error {
	_, data, err := newEnvelope(topic, payload)
	if err != nil {
		return err
	}
	return b.client.Raw().Publish(ctx, b.client.TopicKey(topic), data).Err()
}

// Subscribe blocks and invokes handler for each event until ctx is cancelled.
func (b *RedisBroker) Subscribe(ctx context.Context, topic string, handler func(Envelope)) error {
	sub := b.client.Raw().Subscribe(ctx, b.client.TopicKey(topic))
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			handler(env)
		}
	}
}

var _ Publisher = (*RedisBroker)(nil)
var _ Subscriber = (*RedisBroker)(nil)
