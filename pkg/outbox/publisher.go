package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmehra2102/order-inventory-service/pkg/tracing"
)

type Appender interface {
	Append(ctx context.Context, e Event) (int64, error)
}

// Publisher serialises domain events into the outbox. The relay delivers
// them later, so Publish never waits on the broker.
type Publisher struct {
	store Appender
}

func NewPublisher(store Appender) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Publish(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	_, err = p.store.Append(ctx, Event{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Type:          eventType,
		Payload:       b,
		Traceparent:   tracing.Traceparent(ctx),
	})
	if err != nil {
		return fmt.Errorf("append %s: %w", eventType, err)
	}
	return nil
}
