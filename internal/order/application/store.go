package application

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	invdomain "github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	"github.com/dmehra2102/order-inventory-service/internal/order/domain"
	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
)

// Store keeps orders in submission order and a FIFO queue of ids awaiting
// processing. Orders are never removed; cancellation is a status change.
type Store struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
	ids    []uuid.UUID
	queue  []uuid.UUID

	now   func() time.Time
	newID func() uuid.UUID
}

func NewStore() *Store {
	return &Store{
		orders: make(map[uuid.UUID]*domain.Order),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.New,
	}
}

// Create records a pending order and queues it. Availability is the caller's concern.
func (s *Store) Create(customerInfo map[string]any, products []invdomain.Item) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := &domain.Order{
		ID:           s.newID(),
		CustomerInfo: maps.Clone(customerInfo),
		Products:     invdomain.CloneItems(products),
		Status:       domain.StatusPending,
		CreatedAt:    s.now(),
	}
	s.orders[o.ID] = o
	s.ids = append(s.ids, o.ID)
	s.queue = append(s.queue, o.ID)
	return o.Clone()
}

func (s *Store) Get(id uuid.UUID) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	return o.Clone(), true
}

// List pages through orders in submission order, optionally filtered by status.
// page and limit must already be validated (page >= 1, limit >= 1).
func (s *Store) List(page, limit int, status domain.OrderStatus) domain.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]*domain.Order, 0, len(s.ids))
	for _, id := range s.ids {
		o := s.orders[id]
		if status != "" && o.Status != status {
			continue
		}
		filtered = append(filtered, o)
	}

	total := len(filtered)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	start, end := total, total
	// page-1 is compared before multiplying so huge pages cannot overflow.
	if page-1 < pages {
		start = (page - 1) * limit
		end = min(start+limit, total)
	}

	out := make([]domain.Order, 0, end-start)
	for _, o := range filtered[start:end] {
		out = append(out, o.Clone())
	}

	return domain.Page{
		Orders: out,
		Pagination: domain.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: pages,
		},
	}
}

// Cancel reports false when the order does not exist. Orders that were already
// processed or cancelled cannot be cancelled.
func (s *Store) Cancel(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	if o.Status.Terminal() {
		return true, apperr.Validation("Cannot cancel order %s with status %s", id, o.Status)
	}
	o.Status = domain.StatusCancelled
	now := s.now()
	o.UpdatedAt = &now
	return true, nil
}

// DequeueNext consumes exactly one queue entry. The entry is dropped without
// retrying the next one when its order is missing or no longer pending.
func (s *Store) DequeueNext() (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return domain.Order{}, false
	}
	id := s.queue[0]
	s.queue[0] = uuid.Nil
	s.queue = s.queue[1:]

	o, ok := s.orders[id]
	if !ok || o.Status != domain.StatusPending {
		return domain.Order{}, false
	}
	o.Status = domain.StatusProcessed
	now := s.now()
	o.UpdatedAt = &now
	return o.Clone(), true
}

// QueueLen returns the number of entries still waiting to be dequeued.
// It exists for inspection; nothing in the request path reads it.
func (s *Store) QueueLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queue)
}

func (s *Store) Update(id uuid.UUID, u domain.Updates) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, apperr.NotFound("Order %s not found", id)
	}
	if o.Status != domain.StatusPending {
		return domain.Order{}, apperr.Validation("Cannot update non-pending orders")
	}

	if u.CustomerInfo != nil {
		merged := maps.Clone(o.CustomerInfo)
		if merged == nil {
			merged = make(map[string]any, len(u.CustomerInfo))
		}
		maps.Copy(merged, u.CustomerInfo)
		o.CustomerInfo = merged
	}
	if u.Products != nil {
		o.Products = invdomain.CloneItems(u.Products)
	}
	// processed and cancelled are reachable only through DequeueNext and Cancel.
	if u.Status != "" && !u.Status.Terminal() {
		o.Status = u.Status
	}
	now := s.now()
	o.UpdatedAt = &now

	return o.Clone(), nil
}
