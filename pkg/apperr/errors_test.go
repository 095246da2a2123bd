package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := map[string]struct {
		err          error
		expectedKind Kind
		expectedOK   bool
	}{
		"should classify validation error": {
			err:          Validation("Products must be an array"),
			expectedKind: KindValidation,
			expectedOK:   true,
		},
		"should classify wrapped not found error": {
			err:          fmt.Errorf("lookup: %w", NotFound("Product %s not found", "P9")),
			expectedKind: KindNotFound,
			expectedOK:   true,
		},
		"should classify insufficient stock error": {
			err:          InsufficientStock("not enough"),
			expectedKind: KindInsufficientStock,
			expectedOK:   true,
		},
		"should not classify plain error": {
			err:        errors.New("boom"),
			expectedOK: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			kind, ok := KindOf(tc.err)
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedKind, kind)
		})
	}
}

func TestKind_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, KindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, KindInsufficientStock.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Kind(0).HTTPStatus())
}

func TestError_Message(t *testing.T) {
	err := NotFound("Product %s not found", "P7")

	assert.Equal(t, "Product P7 not found", err.Error())
	assert.Equal(t, "NotFoundError", err.Kind.String())
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindValidation))
}
