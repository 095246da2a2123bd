package application

import (
	"context"
	"log/slog"

	"github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
)

const aggregateType = "inventory"

type Service struct {
	log       *slog.Logger
	store     *Store
	publisher EventPublisher
}

func NewService(log *slog.Logger, store *Store, publisher EventPublisher) *Service {
	return &Service{log: log, store: store, publisher: publisher}
}

func (s *Service) Products(ctx context.Context) []domain.Product {
	return s.store.Products()
}

func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	return s.store.Product(id)
}

func (s *Service) CheckAvailability(ctx context.Context, items []domain.Item) error {
	if err := ValidateItems(items); err != nil {
		return err
	}
	return s.store.CheckAvailability(items)
}

func (s *Service) Reserve(ctx context.Context, items []domain.Item) error {
	if err := ValidateItems(items); err != nil {
		return err
	}
	if err := s.store.Reserve(items); err != nil {
		return err
	}
	s.log.Info("stock reserved", "items", len(items))
	s.publish(ctx, domain.EventStockReserved, domain.StockReserved{Items: items})
	return nil
}

func (s *Service) Restock(ctx context.Context, items []domain.Item) error {
	if err := ValidateItems(items); err != nil {
		return err
	}
	if err := s.store.Restock(items); err != nil {
		return err
	}
	s.log.Info("stock restocked", "items", len(items))
	s.publish(ctx, domain.EventStockRestocked, domain.StockRestocked{Items: items})
	return nil
}

// Exchange releases one reservation and takes another atomically.
func (s *Service) Exchange(ctx context.Context, release, reserve []domain.Item) error {
	if err := ValidateItems(reserve); err != nil {
		return err
	}
	if err := s.store.Exchange(release, reserve); err != nil {
		return err
	}
	s.log.Info("stock exchanged", "released", len(release), "reserved", len(reserve))
	s.publish(ctx, domain.EventStockExchanged, domain.StockExchanged{Released: release, Reserved: reserve})
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, payload any) {
	if err := s.publisher.Publish(ctx, aggregateType, "stock", eventType, payload); err != nil {
		s.log.Error("event publish failed", "type", eventType, "err", err)
	}
}

// ValidateItems applies the request-shape rules shared by every batch operation.
func ValidateItems(items []domain.Item) error {
	if items == nil {
		return apperr.Validation("Products must be an array")
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity == 0 {
			return apperr.Validation("Invalid product format")
		}
		if item.Quantity < 0 {
			return apperr.Validation("Quantity must be a positive number")
		}
	}
	return nil
}
