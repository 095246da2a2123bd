package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/dmehra2102/order-inventory-service/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewDispatcher(log *slog.Logger, producer Producer, topic string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, topic: topic}
}

// Dispatch writes one event keyed by its aggregate so events of the same
// order land on the same partition.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(event.Type)},
		{Key: "aggregate_type", Value: []byte(event.AggregateType)},
	}
	if event.Traceparent != "" {
		headers = append(headers, kafka.Header{Key: tracing.TraceparentHeader, Value: []byte(event.Traceparent)})
	} else {
		headers = tracing.InjectKafkaHeaders(ctx, headers)
	}

	msg := kafka.Message{
		Topic:   d.topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
		Time:    event.CreatedAt,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("outbox dispatch failed", "event_id", event.ID, "err", err)
		if errors.Is(err, kafka.MessageSizeTooLarge) {
			return fmt.Errorf("%w: %w", ErrPermanent, err)
		}
		return err
	}
	d.log.Debug("outbox dispatched", "event_id", event.ID, "type", event.Type)
	return nil
}

// ErrPermanent marks a dispatch error that retrying cannot fix.
var ErrPermanent = errors.New("permanent")

// LogProducer stands in for a broker when none is configured. Each event is
// logged under the trace it was published in.
type LogProducer struct {
	Log *slog.Logger
}

func (p LogProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		attrs := []any{"topic", m.Topic, "key", string(m.Key), "value", string(m.Value)}
		for _, h := range m.Headers {
			if h.Key == tracing.TraceparentHeader {
				continue
			}
			attrs = append(attrs, h.Key, string(h.Value))
		}
		if id := tracing.TraceID(m.Headers); id != "" {
			attrs = append(attrs, "trace_id", id)
		}
		p.Log.InfoContext(tracing.ExtractKafkaHeaders(ctx, m.Headers), "event", attrs...)
	}
	return nil
}
