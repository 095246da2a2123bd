package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	invapp "github.com/dmehra2102/order-inventory-service/internal/inventory/application"
	invdomain "github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	"github.com/dmehra2102/order-inventory-service/internal/order/domain"
	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
)

const (
	aggregateType = "order"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Service struct {
	log       *slog.Logger
	store     *Store
	inv       Inventory
	publisher EventPublisher

	// mu serialises workflows that span the order store and inventory.
	mu sync.Mutex
}

func NewService(log *slog.Logger, store *Store, inv Inventory, publisher EventPublisher) *Service {
	return &Service{log: log, store: store, inv: inv, publisher: publisher}
}

// PlaceOrder reserves stock and records the order. Nothing is recorded when
// the reservation fails.
func (s *Service) PlaceOrder(ctx context.Context, customerInfo map[string]any, products []invdomain.Item) (domain.Order, error) {
	if customerInfo == nil || len(products) == 0 {
		return domain.Order{}, apperr.Validation("Invalid order data")
	}
	if err := invapp.ValidateItems(products); err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inv.Reserve(ctx, products); err != nil {
		return domain.Order{}, err
	}
	o := s.store.Create(customerInfo, products)

	s.log.Info("order created", "order_id", o.ID, "items", len(o.Products))
	s.publish(ctx, o.ID, domain.EventOrderCreated, domain.OrderCreated{OrderID: o.ID.String(), Products: o.Products})
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, apperr.NotFound("Order %s not found", id)
	}
	o, ok := s.store.Get(oid)
	if !ok {
		return domain.Order{}, apperr.NotFound("Order %s not found", id)
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, page, limit int, status string) (domain.Page, error) {
	if page < 1 || limit < 1 || limit > MaxLimit {
		return domain.Page{}, apperr.Validation("Invalid pagination parameters")
	}
	return s.store.List(page, limit, domain.OrderStatus(status)), nil
}

// CancelOrder cancels a non-terminal order and returns its products to stock.
func (s *Service) CancelOrder(ctx context.Context, id string) error {
	oid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("Order %s not found", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.store.Get(oid)
	if !ok {
		return apperr.NotFound("Order %s not found", id)
	}
	if _, err := s.store.Cancel(oid); err != nil {
		return err
	}

	if err := s.inv.Restock(ctx, o.Products); err != nil {
		// The order stays cancelled; the stock mismatch needs an operator.
		s.log.Error("restock after cancel failed", "order_id", oid, "err", err)
	}

	s.log.Info("order cancelled", "order_id", oid)
	s.publish(ctx, oid, domain.EventOrderCancelled, domain.OrderCancelled{OrderID: oid.String(), Released: o.Products})
	return nil
}

// ProcessNext takes one entry off the queue.
func (s *Service) ProcessNext(ctx context.Context) (domain.Order, error) {
	o, ok := s.store.DequeueNext()
	if !ok {
		return domain.Order{}, apperr.NotFound("No orders in queue")
	}

	s.log.Info("order processed", "order_id", o.ID)
	s.publish(ctx, o.ID, domain.EventOrderProcessed, domain.OrderProcessed{OrderID: o.ID.String()})
	return o, nil
}

// UpdateOrder applies u to a pending order. Replacing products swaps the old
// reservation for the new one in a single inventory step.
func (s *Service) UpdateOrder(ctx context.Context, id string, u domain.Updates) (domain.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return domain.Order{}, apperr.NotFound("Order %s not found", id)
	}
	if u.Products != nil {
		if len(u.Products) == 0 {
			return domain.Order{}, apperr.Validation("Invalid products data")
		}
		if err := invapp.ValidateItems(u.Products); err != nil {
			return domain.Order{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.store.Get(oid)
	if !ok {
		return domain.Order{}, apperr.NotFound("Order %s not found", id)
	}
	if current.Status != domain.StatusPending {
		return domain.Order{}, apperr.Validation("Cannot update non-pending orders")
	}

	if u.Products != nil {
		if err := s.inv.Exchange(ctx, current.Products, u.Products); err != nil {
			return domain.Order{}, err
		}
	}

	updated, err := s.store.Update(oid, u)
	if err != nil {
		if u.Products != nil {
			if rbErr := s.inv.Exchange(ctx, u.Products, current.Products); rbErr != nil {
				s.log.Error("stock rollback failed", "order_id", oid, "err", rbErr)
			}
		}
		return domain.Order{}, err
	}

	s.log.Info("order updated", "order_id", oid, "status", updated.Status)
	s.publish(ctx, oid, domain.EventOrderUpdated, domain.OrderUpdated{
		OrderID:  oid.String(),
		Status:   updated.Status,
		Products: updated.Products,
	})
	return updated, nil
}

func (s *Service) publish(ctx context.Context, id uuid.UUID, eventType string, payload any) {
	if err := s.publisher.Publish(ctx, aggregateType, id.String(), eventType, payload); err != nil {
		s.log.Error("event publish failed", "order_id", id, "type", eventType, "err", err)
	}
}
