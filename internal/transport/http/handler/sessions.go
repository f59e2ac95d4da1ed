package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nano-banana/admin-api/internal/application/auth"
	"github.com/nano-banana/admin-api/internal/config"
	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/validate"
	"github.com/nano-banana/admin-api/internal/transport/http/middleware"
)

// SessionHandler handles login, logout and current-session endpoints.
type SessionHandler struct {
	svc auth.Service
	cfg *config.Config
}

func NewSessionHandler(svc auth.Service, cfg *config.Config) *SessionHandler {
	return &SessionHandler{svc: svc, cfg: cfg}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceLimitExceeded) && result != nil {
			writeJSON(w, http.StatusForbidden, LoginEnvelope{
				Error: "device account limit reached",
				Limit: result.Limit,
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	h.setCookie(w, middleware.TokenCookie, result.Issued.Token, int(h.cfg.SessionTTL.Seconds()), true)
	h.setCookie(w, middleware.MarkerCookie, result.Issued.Marker, int(h.cfg.MarkerTTL.Seconds()), false)

	writeJSON(w, http.StatusOK, LoginEnvelope{
		User:    result.User,
		Session: result.Issued.Session,
	})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	h.setCookie(w, middleware.TokenCookie, "", -1, true)
	h.setCookie(w, middleware.MarkerCookie, "", -1, false)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{Session: sess})
}

func (h *SessionHandler) setCookie(w http.ResponseWriter, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   maxAge,
		Secure:   h.cfg.CookieSecure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}
