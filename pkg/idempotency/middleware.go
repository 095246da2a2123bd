package idempotency

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmehra2102/order-inventory-service/pkg/respond"
)

const Header = "Idempotency-Key"

type Checker interface {
	Key(method, path, idempotencyKey string) string
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

// Middleware answers 409 to a repeated key. A request that fails releases its
// key. When the checker is unavailable requests pass through unchecked.
func Middleware(log *slog.Logger, checker Checker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(Header)
			if header == "" || !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := checker.Key(r.Method, r.URL.Path, header)
			seen, err := checker.Seen(ctx, key)
			if err != nil {
				log.Warn("idempotency check failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				log.Info("duplicate request rejected", "key", key)
				respond.ErrorWithStatus(w, http.StatusConflict, "ConflictError", "Duplicate request")
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if ww.Status() >= http.StatusBadRequest {
				if err := checker.Forget(context.WithoutCancel(ctx), key); err != nil {
					log.Warn("idempotency release failed", "key", key, "err", err)
				}
			}
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}
