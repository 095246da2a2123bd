package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	invapp "github.com/dmehra2102/order-inventory-service/internal/inventory/application"
	"github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	invpg "github.com/dmehra2102/order-inventory-service/internal/inventory/infrastructure/postgres"
)

// LoadCatalog reads seed products from Postgres when url is set, seeding an
// empty table with the built-in catalog first.
func LoadCatalog(ctx context.Context, log *slog.Logger, url string) ([]domain.Product, error) {
	if url == "" {
		return invapp.SeedCatalog(ctx, nil)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("catalog pg connect: %w", err)
	}
	defer pool.Close()

	cat := invpg.NewCatalog(log, pool)
	if err := cat.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := cat.SeedIfEmpty(ctx, domain.DefaultCatalog()); err != nil {
		return nil, err
	}
	return invapp.SeedCatalog(ctx, cat)
}
