package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/order-inventory-service/internal/config"
	"github.com/dmehra2102/order-inventory-service/pkg/idempotency"
	"github.com/dmehra2102/order-inventory-service/pkg/metrics"
	"github.com/dmehra2102/order-inventory-service/pkg/respond"
)

// NewRouter returns a router with the common middleware stack, /healthz and
// /metrics. API routes are mounted by the caller.
func NewRouter(log *slog.Logger, cfg *config.Config) (*chi.Mux, func()) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	srvMetrics := metrics.NewServerMetrics(reg, metricName(cfg.ServiceName))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(srvMetrics.Middleware)

	cleanup := func() {}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		r.Use(idempotency.Middleware(log, idempotency.NewStore(rdb, cfg.IdempotencyTTL)))
		cleanup = func() { _ = rdb.Close() }
		log.Info("idempotency enabled", "redis", cfg.RedisAddr, "ttl", cfg.IdempotencyTTL)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler(reg))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.ErrorWithStatus(w, http.StatusNotFound, "NotFoundError", fmt.Sprintf("Route %s not found", r.URL.Path))
	})
	return r, cleanup
}

// Serve runs srv on lis until ctx is done, then drains within timeout.
func Serve(ctx context.Context, log *slog.Logger, srv *http.Server, lis net.Listener, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func metricName(service string) string {
	out := []byte(service)
	for i, c := range out {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			out[i] = '_'
		}
	}
	return string(out)
}
