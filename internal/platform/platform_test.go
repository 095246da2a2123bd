package platform

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/order-inventory-service/internal/config"
	"github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRouter(t *testing.T) {
	r, cleanup := NewRouter(discardLogger(), &config.Config{ServiceName: "order-service"})
	defer cleanup()
	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := map[string]struct {
		path           string
		expectedStatus int
		expectedBody   string
	}{
		"should report health":          {path: "/healthz", expectedStatus: http.StatusOK, expectedBody: `"status":"ok"`},
		"should serve mounted route":     {path: "/api/ping", expectedStatus: http.StatusNoContent},
		"should answer unknown route":    {path: "/nope", expectedStatus: http.StatusNotFound, expectedBody: `"name":"NotFoundError"`},
		"should expose request counters": {path: "/metrics", expectedStatus: http.StatusOK, expectedBody: "order_service_http_requests_total"},
	}

	// Prime the counter so /metrics has a sample to expose.
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.expectedBody)
		})
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, discardLogger(), srv, lis, time.Second) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + lis.Addr().String())
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestLoadCatalog_WithoutDatabase(t *testing.T) {
	products, err := LoadCatalog(context.Background(), discardLogger(), "")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog(), products)
}

func TestNewEvents_InMemory(t *testing.T) {
	ev, err := NewEvents(context.Background(), discardLogger(), &config.Config{ServiceName: "order-service", OutboxTopic: "t"})
	require.NoError(t, err)
	defer ev.Close()

	require.NoError(t, ev.Publisher.Publish(context.Background(), "order", "o-1", "OrderCreated", struct{}{}))

	sent, err := ev.Relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}
