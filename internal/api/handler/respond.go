// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fortinat-shop/internal/util"
)

// DefaultTimeout bounds every request handled by the router.
const DefaultTimeout = 60 * time.Second

// responder writes JSON payloads and maps service errors to status codes.
type responder struct {
	logger *slog.Logger
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error() // Use the error message directly for invalid input
	case util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "User not found"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrAlreadyExists):
		statusCode = http.StatusConflict
		message = "User already exists"
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Invalid credentials"
	case util.IsError(err, util.ErrAlreadyOwned):
		statusCode = http.StatusConflict
		message = "Item already owned"
	case util.IsError(err, util.ErrNotOwned):
		statusCode = http.StatusConflict
		message = "Item not owned"
	case util.IsError(err, util.ErrInsufficientBalance):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient balance"
	case util.IsError(err, util.ErrCatalogUnavailable):
		statusCode = http.StatusBadGateway
		message = "Catalog provider unavailable"
		h.logger.Warn("Catalog provider error", "error", err)
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, ErrorResponse{Message: message})
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return util.ErrInvalidInput
	}
	return nil
}
