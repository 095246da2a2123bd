package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
)

func TestError(t *testing.T) {
	cases := map[string]struct {
		err             error
		expectedStatus  int
		expectedName    string
		expectedMessage string
	}{
		"should map validation error to 400": {
			err:             apperr.Validation("Products must be an array"),
			expectedStatus:  http.StatusBadRequest,
			expectedName:    "ValidationError",
			expectedMessage: "Products must be an array",
		},
		"should map not found error to 404": {
			err:             apperr.NotFound("Product P9 not found"),
			expectedStatus:  http.StatusNotFound,
			expectedName:    "NotFoundError",
			expectedMessage: "Product P9 not found",
		},
		"should map insufficient stock error to 400": {
			err:             apperr.InsufficientStock("Insufficient quantity for product Laptop"),
			expectedStatus:  http.StatusBadRequest,
			expectedName:    "InsufficientStockError",
			expectedMessage: "Insufficient quantity for product Laptop",
		},
		"should hide detail of unexpected error": {
			err:             errors.New("pq: connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedName:    "InternalServerError",
			expectedMessage: "An unexpected error occurred",
		},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()

			Error(w, log, tc.err)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.expectedName, body.Error.Name)
			assert.Equal(t, tc.expectedMessage, body.Error.Message)
		})
	}
}
