// Package platform assembles the infrastructure shared by the service binaries.
package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/order-inventory-service/internal/config"
	orderkafka "github.com/dmehra2102/order-inventory-service/internal/order/infrastructure/kafka"
	orderpg "github.com/dmehra2102/order-inventory-service/internal/order/infrastructure/postgres"
	"github.com/dmehra2102/order-inventory-service/pkg/outbox"
)

// Events is the outbox a service writes to and the relay that drains it.
type Events struct {
	Publisher *outbox.Publisher
	Relay     *outbox.Relay

	closers []func()
}

// NewEvents stores events in Postgres when OUTBOX_PG_URL is set and in memory
// otherwise. They are relayed to Kafka, or to the log without brokers.
func NewEvents(ctx context.Context, log *slog.Logger, cfg *config.Config) (*Events, error) {
	ev := &Events{}

	var store interface {
		outbox.Store
		outbox.Appender
	}
	if cfg.OutboxPGURL != "" {
		pool, err := pgxpool.New(ctx, cfg.OutboxPGURL)
		if err != nil {
			return nil, fmt.Errorf("outbox pg connect: %w", err)
		}
		ev.closers = append(ev.closers, pool.Close)
		pg := orderpg.NewOutboxStore(log, pool, outbox.DefaultMaxRetries)
		if err := pg.EnsureSchema(ctx); err != nil {
			ev.Close()
			return nil, err
		}
		store = pg
		log.Info("outbox store", "kind", "postgres")
	} else {
		store = outbox.NewMemoryStore(outbox.DefaultMaxRetries)
		log.Info("outbox store", "kind", "memory")
	}

	var producer outbox.Producer = outbox.LogProducer{Log: log}
	if len(cfg.KafkaBrokers) > 0 {
		w := orderkafka.NewWriter(cfg.KafkaBrokers)
		ev.closers = append(ev.closers, func() { _ = w.Close() })
		producer = w
		log.Info("outbox producer", "kind", "kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.OutboxTopic)
	}

	ev.Publisher = outbox.NewPublisher(store)
	ev.Relay = outbox.NewRelay(log, store, outbox.NewDispatcher(log, producer, cfg.OutboxTopic), cfg.ServiceName+"-relay")
	return ev, nil
}

// Close releases connections in reverse order of acquisition.
func (e *Events) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}
