package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memChecker struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func newMemChecker() *memChecker { return &memChecker{keys: map[string]bool{}} }

func (c *memChecker) Key(method, path, key string) string { return method + " " + path + " " + key }

func (c *memChecker) Seen(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	seen := c.keys[key]
	c.keys[key] = true
	return seen, nil
}

func (c *memChecker) Forget(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, key)
	return nil
}

func TestMiddleware(t *testing.T) {
	cases := map[string]struct {
		method           string
		key              string
		checkerErr       error
		handlerStatus    int
		expectedStatuses []int
		expectedCalls    int
	}{
		"should reject repeated key": {
			method:           http.MethodPost,
			key:              "k1",
			handlerStatus:    http.StatusCreated,
			expectedStatuses: []int{http.StatusCreated, http.StatusConflict},
			expectedCalls:    1,
		},
		"should let failed request be retried": {
			method:           http.MethodPost,
			key:              "k1",
			handlerStatus:    http.StatusBadRequest,
			expectedStatuses: []int{http.StatusBadRequest, http.StatusBadRequest},
			expectedCalls:    2,
		},
		"should ignore requests without key": {
			method:           http.MethodPost,
			handlerStatus:    http.StatusCreated,
			expectedStatuses: []int{http.StatusCreated, http.StatusCreated},
			expectedCalls:    2,
		},
		"should ignore safe methods": {
			method:           http.MethodGet,
			key:              "k1",
			handlerStatus:    http.StatusOK,
			expectedStatuses: []int{http.StatusOK, http.StatusOK},
			expectedCalls:    2,
		},
		"should fail open when checker is down": {
			method:           http.MethodPost,
			key:              "k1",
			checkerErr:       errors.New("redis: connection refused"),
			handlerStatus:    http.StatusCreated,
			expectedStatuses: []int{http.StatusCreated, http.StatusCreated},
			expectedCalls:    2,
		},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			checker := newMemChecker()
			checker.err = tc.checkerErr
			calls := 0
			h := Middleware(log, checker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tc.handlerStatus)
			}))

			for _, expected := range tc.expectedStatuses {
				req := httptest.NewRequest(tc.method, "/orders", nil)
				if tc.key != "" {
					req.Header.Set(Header, tc.key)
				}
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)
				assert.Equal(t, expected, w.Code)
			}
			assert.Equal(t, tc.expectedCalls, calls)
		})
	}
}

func TestStore_Key(t *testing.T) {
	s := NewStore(nil, 0)
	assert.Equal(t, "idem:POST:/orders:abc", s.Key(http.MethodPost, "/orders", "abc"))
}
