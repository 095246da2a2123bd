package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/order-inventory-service/internal/config"
	invapp "github.com/dmehra2102/order-inventory-service/internal/inventory/application"
	invgrpc "github.com/dmehra2102/order-inventory-service/internal/inventory/infrastructure/grpc"
	invhttp "github.com/dmehra2102/order-inventory-service/internal/inventory/infrastructure/http"
	"github.com/dmehra2102/order-inventory-service/internal/order/application"
	ordergrpc "github.com/dmehra2102/order-inventory-service/internal/order/infrastructure/grpc"
	orderhttp "github.com/dmehra2102/order-inventory-service/internal/order/infrastructure/http"
	"github.com/dmehra2102/order-inventory-service/internal/platform"
	"github.com/dmehra2102/order-inventory-service/pkg/listener"
	"github.com/dmehra2102/order-inventory-service/pkg/logging"
	"github.com/dmehra2102/order-inventory-service/pkg/shutdown"
	"github.com/dmehra2102/order-inventory-service/pkg/tracing"
)

func main() {
	cfg, err := config.Load("order-service")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	if err := run(log, cfg); err != nil {
		log.Error("order-service stopped", "err", err)
		os.Exit(1)
	}
	log.Info("order-service shutdown complete")
}

func run(log *slog.Logger, cfg *config.Config) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, cfg.ServiceName, log)
	if err != nil {
		return fmt.Errorf("otel init: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = tp.Shutdown(flushCtx)
	}()

	events, err := platform.NewEvents(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer events.Close()

	r, cleanup := platform.NewRouter(log, cfg)
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)

	// Inventory is either served in process or reached over gRPC.
	var inventory application.Inventory
	if cfg.InventoryGRPCAddr != "" {
		client, err := ordergrpc.NewInventoryClient(log, cfg.InventoryGRPCAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		inventory = client
		log.Info("using remote inventory", "addr", cfg.InventoryGRPCAddr)
	} else {
		products, err := platform.LoadCatalog(ctx, log, cfg.CatalogPGURL)
		if err != nil {
			return err
		}
		invSvc := invapp.NewService(log, invapp.NewStore(products), events.Publisher)
		inventory = invSvc

		invRoutes := invhttp.NewHandler(log, invSvc).Routes()
		r.Mount("/inventory", invRoutes)
		r.Mount("/api/inventory", invRoutes)

		if cfg.GRPCAddr != "" {
			gs, err := invgrpc.Run(cfg.GRPCAddr, invgrpc.NewServer(log, invSvc))
			if err != nil {
				return fmt.Errorf("grpc listen: %w", err)
			}
			log.Info("grpc listening", "addr", cfg.GRPCAddr)
			g.Go(func() error {
				<-gctx.Done()
				gs.GracefulStop()
				return nil
			})
		}
	}

	orderSvc := application.NewService(log, application.NewStore(), inventory, events.Publisher)
	orderRoutes := orderhttp.NewHandler(log, orderSvc).Routes()
	r.Mount("/orders", orderRoutes)
	r.Mount("/api/orders", orderRoutes)

	lis, err := listener.Listen("", cfg.Port, cfg.PortScanAttempts)
	if err != nil {
		return err
	}
	if p := listener.Port(lis); p != cfg.Port {
		log.Warn("preferred port busy", "preferred", cfg.Port, "port", p)
	}
	srv := &http.Server{
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g.Go(func() error { return platform.Serve(gctx, log, srv, lis, cfg.ShutdownTimeout) })
	g.Go(func() error { return events.Relay.Run(gctx) })

	return g.Wait()
}
