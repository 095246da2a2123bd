package application

import (
	"math"
	"sync"

	"github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
)

// Store owns product quantities. Every batch operation validates the whole
// batch against a scratch copy before committing, so a failing batch leaves
// no quantity changed. Repeated product ids in one batch apply cumulatively.
type Store struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
}

func NewStore(catalog []domain.Product) *Store {
	s := &Store{
		products: make(map[string]*domain.Product, len(catalog)),
		order:    make([]string, 0, len(catalog)),
	}
	for _, p := range catalog {
		if _, dup := s.products[p.ID]; dup {
			continue
		}
		s.products[p.ID] = &p
		s.order = append(s.order, p.ID)
	}
	return s
}

// Products returns every product in catalog order.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.products[id])
	}
	return out
}

func (s *Store) Product(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, apperr.NotFound("Product %s not found", id)
	}
	return *p, nil
}

// CheckAvailability reports whether Reserve(items) would succeed. It never mutates.
func (s *Store) CheckAvailability(items []domain.Item) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.plan(nil, items)
	return err
}

func (s *Store) Reserve(items []domain.Item) error {
	return s.Exchange(nil, items)
}

func (s *Store) Restock(items []domain.Item) error {
	return s.Exchange(items, nil)
}

// Exchange returns release to stock and then takes reserve from it, as one step.
func (s *Store) Exchange(release, reserve []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.plan(release, reserve)
	if err != nil {
		return err
	}
	for id, qty := range next {
		s.products[id].Quantity = qty
	}
	return nil
}

// plan computes the quantities that would result from the batch. Caller holds mu.
func (s *Store) plan(release, reserve []domain.Item) (map[string]int, error) {
	next := make(map[string]int, len(release)+len(reserve))
	live := func(p *domain.Product) int {
		if q, ok := next[p.ID]; ok {
			return q
		}
		return p.Quantity
	}

	for _, item := range release {
		p, ok := s.products[item.ProductID]
		if !ok {
			return nil, apperr.NotFound("Product %s not found", item.ProductID)
		}
		if item.Quantity < 0 {
			return nil, apperr.Validation("Invalid restock quantity for product %s", p.Name)
		}
		current := live(p)
		if item.Quantity > math.MaxInt-current {
			return nil, apperr.Validation("Restock quantity for product %s exceeds the maximum stock", p.Name)
		}
		next[p.ID] = current + item.Quantity
	}

	for _, item := range reserve {
		p, ok := s.products[item.ProductID]
		if !ok {
			return nil, apperr.NotFound("Product %s not found", item.ProductID)
		}
		if item.Quantity < 0 {
			return nil, apperr.Validation("Invalid quantity for product %s", p.Name)
		}
		available := live(p)
		if available < item.Quantity {
			return nil, apperr.InsufficientStock(
				"Insufficient quantity for product %s. Available: %d, Requested: %d",
				p.Name, available, item.Quantity,
			)
		}
		next[p.ID] = available - item.Quantity
	}

	return next, nil
}
