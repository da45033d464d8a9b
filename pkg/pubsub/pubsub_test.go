package pubsub

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMemoryBrokerPublishRecords(t *testing.T) {
	broker := NewMemoryBroker()

	payload := map[string]string{"invoice_id": "abc"}
	if err := broker.Publish(context.Background(), "invoice.created", payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	events := broker.EventsForTopic("invoice.created")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	env := events[0]
	if env.ID == "" {
		t.Fatal("expected envelope id")
	}
	if env.OccurredAt.IsZero() {
		t.Fatal("expected occurred_at to be set")
	}

	var decoded map[string]string
	if err := json.Unmarshal(env.Payload, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded["invoice_id"] != "abc" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestMemoryBrokerSubscriberReceives(t *testing.T) {
	broker := NewMemoryBroker()

	received := make(chan Envelope, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = broker.Subscribe(ctx, "invoice.status_changed", func(env Envelope) {
			received <- env
		})
	}()

	// Handler registration happens under the broker lock; publish after a
	// successful registration is observable through the recorded handler list.
	for {
		broker.mu.Lock()
		ready := len(broker.handlers["invoice.status_changed"]) == 1
		broker.mu.Unlock()
		if ready {
			break
		}
	}

	if err := broker.Publish(context.Background(), "invoice.status_changed", map[string]string{"status": "paid"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	env := <-received
	if env.Topic != "invoice.status_changed" {
		t.Fatalf("unexpected topic %q", env.Topic)
	}
}

func TestPublishRejectsUnmarshalablePayload(t *testing.T) {
	broker := NewMemoryBroker()
	if err := broker.Publish(context.Background(), "bad", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
