package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nano-banana/admin-api/internal/application/devicebind"
)

// DeviceHandler exposes the device/account binding records to the dashboard.
// Binding itself happens during login; these endpoints are read and purge only.
type DeviceHandler struct {
	svc devicebind.Service
}

func NewDeviceHandler(svc devicebind.Service) *DeviceHandler { return &DeviceHandler{svc: svc} }

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, cursor := parsePage(r)
	items, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: items, NextCursor: next})
}

func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Purge removes a device record entirely, freeing all its account slots.
func (h *DeviceHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Purge(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "device purged"})
}
