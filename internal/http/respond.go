package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/abelprasad/SathikaBoutique/internal/service"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Status         string      `json:"status"`
	Data           interface{} `json:"data,omitempty"`
	Message        string      `json:"message,omitempty"`
	AvailableStock *int        `json:"availableStock,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.S().Errorw("failed to encode response", "error", err)
	}
}

func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, Envelope{Status: "success", Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Status: "error", Message: message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// not-found → 404, validation and stock failures → 400, everything
// else → 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		respondError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		available := stockErr.Available
		respondJSON(w, http.StatusBadRequest, Envelope{
			Status:         "error",
			Message:        stockErr.Error(),
			AvailableStock: &available,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSlugTaken):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBadCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
