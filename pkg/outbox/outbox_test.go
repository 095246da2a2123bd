package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeProducer struct {
	mu   sync.Mutex
	msgs []kafka.Message
	errs []error
}

func (p *fakeProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.errs) > 0 {
		err := p.errs[0]
		p.errs = p.errs[1:]
		if err != nil {
			return err
		}
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func (p *fakeProducer) sent() []kafka.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.Message(nil), p.msgs...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisher_Publish(t *testing.T) {
	store := NewMemoryStore(0)
	pub := NewPublisher(store)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	require.NoError(t, pub.Publish(ctx, "order", "o-1", "OrderCreated", map[string]int{"qty": 2}))

	backlog := store.Backlog()
	require.Len(t, backlog, 1)
	assert.Equal(t, int64(1), backlog[0].ID)
	assert.Equal(t, StatusPending, backlog[0].Status)
	assert.JSONEq(t, `{"qty":2}`, string(backlog[0].Payload))
	assert.Contains(t, backlog[0].Traceparent, span.SpanContext().TraceID().String())
	assert.False(t, backlog[0].CreatedAt.IsZero())
}

func TestPublisher_RejectsUnmarshalablePayload(t *testing.T) {
	store := NewMemoryStore(0)

	err := NewPublisher(store).Publish(context.Background(), "order", "o-1", "OrderCreated", func() {})

	assert.Error(t, err)
	assert.Empty(t, store.Backlog())
}

func TestMemoryStore_LockBatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	for i := range 3 {
		_, err := store.Append(ctx, Event{AggregateID: fmt.Sprint(i)})
		require.NoError(t, err)
	}

	first, err := store.LockBatch(ctx, "r1", 2, time.Minute)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, []int64{1, 2}, []int64{first[0].ID, first[1].ID})

	second, err := store.LockBatch(ctx, "r2", 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, int64(3), second[0].ID)
}

func TestMemoryStore_ReclaimsExpiredLease(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(0)
	store.now = func() time.Time { return now }
	_, _ = store.Append(ctx, Event{})

	locked, _ := store.LockBatch(ctx, "r1", 10, time.Second)
	require.Len(t, locked, 1)

	none, _ := store.LockBatch(ctx, "r2", 10, time.Second)
	assert.Empty(t, none)

	require.NoError(t, store.ExtendLease(ctx, "r1", []int64{1}, 5*time.Second))
	now = now.Add(2 * time.Second)
	none, _ = store.LockBatch(ctx, "r2", 10, time.Second)
	assert.Empty(t, none)

	now = now.Add(5 * time.Second)
	reclaimed, _ := store.LockBatch(ctx, "r2", 10, time.Second)
	assert.Len(t, reclaimed, 1)
}

func TestMemoryStore_MarkFailed(t *testing.T) {
	cases := map[string]struct {
		maxRetries     int
		failures       []error
		expectedStatus Status
	}{
		"should return transient failure to backlog": {
			maxRetries:     3,
			failures:       []error{errors.New("broker down")},
			expectedStatus: StatusPending,
		},
		"should give up after max retries": {
			maxRetries:     2,
			failures:       []error{errors.New("a"), errors.New("b")},
			expectedStatus: StatusFailed,
		},
		"should give up on permanent failure": {
			maxRetries:     5,
			failures:       []error{fmt.Errorf("%w: too large", ErrPermanent)},
			expectedStatus: StatusFailed,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore(tc.maxRetries)
			id, _ := store.Append(ctx, Event{})

			for _, cause := range tc.failures {
				_, _ = store.LockBatch(ctx, "r1", 1, time.Minute)
				require.NoError(t, store.MarkFailed(ctx, id, cause))
			}

			backlog := store.Backlog()
			require.Len(t, backlog, 1)
			assert.Equal(t, tc.expectedStatus, backlog[0].Status)
			assert.Equal(t, len(tc.failures), backlog[0].RetryCount)
			assert.Equal(t, tc.failures[len(tc.failures)-1].Error(), backlog[0].LastError)
		})
	}
}

func TestRelay_Flush(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	producer := &fakeProducer{errs: []error{nil, errors.New("broker down")}}
	relay := NewRelay(discardLogger(), store, NewDispatcher(discardLogger(), producer, "orders.events"), "r1")

	pub := NewPublisher(store)
	require.NoError(t, pub.Publish(ctx, "order", "o-1", "OrderCreated", struct{}{}))
	require.NoError(t, pub.Publish(ctx, "order", "o-2", "OrderCreated", struct{}{}))

	sent, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	msgs := producer.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "orders.events", msgs[0].Topic)
	assert.Equal(t, "o-1", string(msgs[0].Key))
	assert.Equal(t, "OrderCreated", header(msgs[0], "event_type"))
	assert.Equal(t, "order", header(msgs[0], "aggregate_type"))

	backlog := store.Backlog()
	require.Len(t, backlog, 1)
	assert.Equal(t, StatusPending, backlog[0].Status)

	sent, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Empty(t, store.Backlog())
}

func TestDispatcher_MarksOversizedMessagePermanent(t *testing.T) {
	producer := &fakeProducer{errs: []error{kafka.MessageSizeTooLarge}}
	d := NewDispatcher(discardLogger(), producer, "orders.events")

	err := d.Dispatch(context.Background(), Event{ID: 1})

	assert.ErrorIs(t, err, ErrPermanent)
}

func TestRelay_Run(t *testing.T) {
	store := NewMemoryStore(0)
	producer := &fakeProducer{}
	relay := NewRelay(discardLogger(), store, NewDispatcher(discardLogger(), producer, "t"), "r1",
		WithInterval(5*time.Millisecond))

	_, err := store.Append(context.Background(), Event{AggregateID: "o-1", Type: "OrderCreated"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	assert.Eventually(t, func() bool { return len(producer.sent()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestLogProducer_LogsUnderPublishedTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	var buf bytes.Buffer
	p := LogProducer{Log: slog.New(slog.NewJSONHandler(&buf, nil))}

	msg := kafka.Message{
		Topic: "orders.events",
		Key:   []byte("o-1"),
		Value: []byte(`{"qty":2}`),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("OrderCreated")},
			{Key: "traceparent", Value: []byte("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")},
		},
	}
	require.NoError(t, p.WriteMessages(context.Background(), msg))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "OrderCreated", line["event_type"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", line["trace_id"])
	assert.NotContains(t, line, "traceparent")
}

func TestLogProducer_OmitsTraceIDWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	p := LogProducer{Log: slog.New(slog.NewJSONHandler(&buf, nil))}

	require.NoError(t, p.WriteMessages(context.Background(), kafka.Message{Topic: "t", Key: []byte("k")}))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "trace_id")
}
