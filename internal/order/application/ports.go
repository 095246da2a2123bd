package application

import (
	"context"

	invdomain "github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
)

// Inventory is the stock side of order workflows. Each call is atomic on its own.
type Inventory interface {
	Reserve(ctx context.Context, items []invdomain.Item) error
	Restock(ctx context.Context, items []invdomain.Item) error
	Exchange(ctx context.Context, release, reserve []invdomain.Item) error
}

type EventPublisher interface {
	Publish(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) error
}
