package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/order-inventory-service/pkg/outbox"
)

const schema = `CREATE TABLE IF NOT EXISTS outbox (
	id             BIGSERIAL PRIMARY KEY,
	aggregate_type TEXT        NOT NULL,
	aggregate_id   TEXT        NOT NULL,
	type           TEXT        NOT NULL,
	payload        JSONB       NOT NULL,
	traceparent    TEXT        NOT NULL DEFAULT '',
	status         TEXT        NOT NULL DEFAULT 'pending',
	relay_id       TEXT,
	lease_until    TIMESTAMPTZ,
	retry_count    INT         NOT NULL DEFAULT 0,
	last_error     TEXT        NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// OutboxStore keeps domain events in Postgres so they survive a restart of
// the relay. Only events are stored here; orders and stock stay in memory.
type OutboxStore struct {
	log        *slog.Logger
	pool       *pgxpool.Pool
	maxRetries int
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool, maxRetries int) *OutboxStore {
	if maxRetries <= 0 {
		maxRetries = outbox.DefaultMaxRetries
	}
	return &OutboxStore{log: log, pool: pool, maxRetries: maxRetries}
}

func (s *OutboxStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create outbox table: %w", err)
	}
	return nil
}

func (s *OutboxStore) Append(ctx context.Context, e outbox.Event) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,'pending')
		RETURNING id`,
		e.AggregateType, e.AggregateID, e.Type, e.Payload, e.Traceparent,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert outbox event: %w", err)
	}
	return id, nil
}

// LockBatch leases pending rows, and in-progress rows whose lease expired,
// skipping rows another relay holds.
func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, type, payload, traceparent, retry_count, created_at
		FROM outbox
		WHERE status = 'pending'
		   OR (status = 'in_progress' AND lease_until < now())
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, err
	}

	var events []outbox.Event
	for rows.Next() {
		var e outbox.Event
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.Type, &e.Payload, &e.Traceparent, &e.RetryCount, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		e.Status = outbox.StatusInProgress
		events = append(events, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE outbox SET status='in_progress', relay_id=$1, lease_until=now() + make_interval(secs => $2)
		WHERE id = ANY($3)`, relayID, lease.Seconds(), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	ct, err := s.pool.Exec(ctx, `UPDATE outbox SET status='sent', lease_until=NULL WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("no rows updated")
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, cause error) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE outbox SET
			status = CASE WHEN $3 OR retry_count + 1 >= $4 THEN 'failed' ELSE 'pending' END,
			last_error = $2,
			retry_count = retry_count + 1,
			relay_id = NULL,
			lease_until = NULL
		WHERE id=$1`,
		id, cause.Error(), errors.Is(cause, outbox.ErrPermanent), s.maxRetries)
	return err
}

func (s *OutboxStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE outbox SET lease_until=now() + make_interval(secs => $1)
		WHERE id = ANY($2) AND relay_id=$3 AND status='in_progress'`, lease.Seconds(), ids, relayID)
	return err
}

// Status reports the stored status and retry count of one event. It exists
// for inspection and is not used by the relay.
func (s *OutboxStore) Status(ctx context.Context, id int64) (outbox.Status, int, error) {
	var status string
	var retries int
	err := s.pool.QueryRow(ctx, `SELECT status, retry_count FROM outbox WHERE id=$1`, id).Scan(&status, &retries)
	if err != nil {
		return "", 0, err
	}
	return outbox.Status(status), retries, nil
}
