// Package respond writes JSON bodies and maps errors to HTTP responses.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
)

const (
	internalName    = "InternalServerError"
	internalMessage = "An unexpected error occurred"
)

type ErrorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorWithStatus writes an error body without consulting the error taxonomy.
func ErrorWithStatus(w http.ResponseWriter, status int, name, message string) {
	JSON(w, status, ErrorResponse{Error: ErrorBody{Name: name, Message: message}})
}

// Error maps err to its status. Unclassified errors become a generic 500 and
// their detail only reaches the log.
func Error(w http.ResponseWriter, log *slog.Logger, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		log.Error("unexpected error", "err", err)
		ErrorWithStatus(w, http.StatusInternalServerError, internalName, internalMessage)
		return
	}

	log.Warn("request rejected", "kind", kind.String(), "err", err)
	ErrorWithStatus(w, kind.HTTPStatus(), kind.String(), err.Error())
}
