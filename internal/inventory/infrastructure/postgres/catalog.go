package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
)

// Catalog reads the seed product list from Postgres. It is consulted once at
// startup; live quantities are never written back.
type Catalog struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewCatalog(log *slog.Logger, pool *pgxpool.Pool) *Catalog {
	return &Catalog{log: log, pool: pool}
}

func (c *Catalog) EnsureSchema(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS products (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		quantity   INT  NOT NULL CHECK (quantity >= 0),
		price      NUMERIC(12,2) NOT NULL,
		position   SERIAL
	)`)
	if err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts products only into an empty table, so an operator's
// edits to the catalog are never overwritten.
func (c *Catalog) SeedIfEmpty(ctx context.Context, products []domain.Product) error {
	var n int
	if err := c.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`INSERT INTO products (id, name, quantity, price) VALUES ($1,$2,$3,$4)
			ON CONFLICT (id) DO NOTHING`, p.ID, p.Name, p.Quantity, p.Price)
	}
	if err := c.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	c.log.Info("catalog seeded", "products", len(products))
	return nil
}

func (c *Catalog) LoadCatalog(ctx context.Context) ([]domain.Product, error) {
	rows, err := c.pool.Query(ctx, `SELECT id, name, quantity, price::float8 FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		var p domain.Product
		err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	c.log.Info("catalog loaded", "products", len(products))
	return products, nil
}
