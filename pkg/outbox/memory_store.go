package outbox

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

const DefaultMaxRetries = 5

type leasedEvent struct {
	Event
	relayID    string
	leaseUntil time.Time
}

// MemoryStore keeps unsent events in process. Sent events are dropped so the
// backlog only holds what still needs delivery or inspection.
type MemoryStore struct {
	mu         sync.Mutex
	events     []*leasedEvent
	nextID     int64
	maxRetries int
	now        func() time.Time
}

func NewMemoryStore(maxRetries int) *MemoryStore {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &MemoryStore{maxRetries: maxRetries, now: time.Now}
}

func (s *MemoryStore) Append(ctx context.Context, e Event) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e.ID = s.nextID
	e.Status = StatusPending
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	s.events = append(s.events, &leasedEvent{Event: e})
	return e.ID, nil
}

// LockBatch leases pending events, and in-progress events whose lease ran out,
// in append order.
func (s *MemoryStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []Event
	for _, e := range s.events {
		if len(out) == batchSize {
			break
		}
		expired := e.Status == StatusInProgress && now.After(e.leaseUntil)
		if e.Status != StatusPending && !expired {
			continue
		}
		e.Status = StatusInProgress
		e.relayID = relayID
		e.leaseUntil = now.Add(lease)
		out = append(out, e.Event)
	}
	return out, nil
}

func (s *MemoryStore) MarkSent(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.events)
	s.events = slices.DeleteFunc(s.events, func(e *leasedEvent) bool {
		return slices.Contains(ids, e.ID)
	})
	if before == len(s.events) {
		return errors.New("no rows updated")
	}
	return nil
}

// MarkFailed returns the event to the backlog until it runs out of retries or
// the cause is permanent.
func (s *MemoryStore) MarkFailed(ctx context.Context, id int64, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.find(id)
	if e == nil {
		return errors.New("no rows updated")
	}
	e.RetryCount++
	e.LastError = cause.Error()
	e.relayID = ""
	if errors.Is(cause, ErrPermanent) || e.RetryCount >= s.maxRetries {
		e.Status = StatusFailed
		return nil
	}
	e.Status = StatusPending
	return nil
}

func (s *MemoryStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	until := s.now().Add(lease)
	for _, id := range ids {
		if e := s.find(id); e != nil && e.relayID == relayID && e.Status == StatusInProgress {
			e.leaseUntil = until
		}
	}
	return nil
}

// Backlog returns copies of every event not yet sent. It exists for
// inspection and is not used by the relay.
func (s *MemoryStore) Backlog() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Event)
	}
	return out
}

func (s *MemoryStore) find(id int64) *leasedEvent {
	for _, e := range s.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}
