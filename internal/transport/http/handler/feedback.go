package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nano-banana/admin-api/internal/application/feedback"
	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/validate"
)

// FeedbackHandler handles user feedback endpoints.
type FeedbackHandler struct {
	svc feedback.Service
}

func NewFeedbackHandler(svc feedback.Service) *FeedbackHandler { return &FeedbackHandler{svc: svc} }

// Create accepts feedback from the mobile app. It is the only unauthenticated
// write endpoint besides login.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.FeedbackInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: items})
}

func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FeedbackHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "feedback deleted"})
}
