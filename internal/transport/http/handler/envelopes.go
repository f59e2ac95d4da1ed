package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nano-banana/admin-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ListEnvelope wraps cursor-paginated list responses.
type ListEnvelope struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// LoginEnvelope wraps the login response. Limit is set only when the device
// account limit blocked the login.
type LoginEnvelope struct {
	User    *domain.User                   `json:"user,omitempty"`
	Session *domain.Session                `json:"session,omitempty"`
	Limit   *domain.DeviceLimitCheckResult `json:"limit,omitempty"`
	Error   string                         `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps domain sentinel errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAccountDisabled), errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrDeviceLimitExceeded):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	case errors.Is(err, domain.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
