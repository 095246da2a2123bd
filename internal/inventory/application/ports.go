package application

import (
	"context"

	"github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
)

// EventPublisher records domain events for asynchronous delivery.
type EventPublisher interface {
	Publish(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) error
}

// CatalogSource supplies the seed products at startup.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) ([]domain.Product, error)
}

// SeedCatalog returns the products src supplies, or the built-in catalog when
// src is nil or holds no products.
func SeedCatalog(ctx context.Context, src CatalogSource) ([]domain.Product, error) {
	if src == nil {
		return domain.DefaultCatalog(), nil
	}
	products, err := src.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return domain.DefaultCatalog(), nil
	}
	return products, nil
}
