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
	"github.com/dmehra2102/order-inventory-service/internal/inventory/application"
	invgrpc "github.com/dmehra2102/order-inventory-service/internal/inventory/infrastructure/grpc"
	invhttp "github.com/dmehra2102/order-inventory-service/internal/inventory/infrastructure/http"
	"github.com/dmehra2102/order-inventory-service/internal/platform"
	"github.com/dmehra2102/order-inventory-service/pkg/listener"
	"github.com/dmehra2102/order-inventory-service/pkg/logging"
	"github.com/dmehra2102/order-inventory-service/pkg/shutdown"
	"github.com/dmehra2102/order-inventory-service/pkg/tracing"
)

func main() {
	cfg, err := config.Load("inventory-service")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.GRPCAddr == "" {
		cfg.GRPCAddr = ":50051"
	}
	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	if err := run(log, cfg); err != nil {
		log.Error("inventory-service stopped", "err", err)
		os.Exit(1)
	}
	log.Info("inventory-service shutdown complete")
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

	products, err := platform.LoadCatalog(ctx, log, cfg.CatalogPGURL)
	if err != nil {
		return err
	}
	svc := application.NewService(log, application.NewStore(products), events.Publisher)

	gs, err := invgrpc.Run(cfg.GRPCAddr, invgrpc.NewServer(log, svc))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	log.Info("grpc listening", "addr", cfg.GRPCAddr)

	r, cleanup := platform.NewRouter(log, cfg)
	defer cleanup()
	routes := invhttp.NewHandler(log, svc).Routes()
	r.Mount("/inventory", routes)
	r.Mount("/api/inventory", routes)

	lis, err := listener.Listen("", cfg.Port, cfg.PortScanAttempts)
	if err != nil {
		gs.Stop()
		return err
	}
	srv := &http.Server{
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return platform.Serve(gctx, log, srv, lis, cfg.ShutdownTimeout) })
	g.Go(func() error { return events.Relay.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		gs.GracefulStop()
		return nil
	})

	return g.Wait()
}
