package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nano-banana/admin-api/internal/application/prompt"
	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/validate"
)

// PromptHandler handles prompt content endpoints.
type PromptHandler struct {
	svc prompt.Service
}

func NewPromptHandler(svc prompt.Service) *PromptHandler { return &PromptHandler{svc: svc} }

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		items, err := h.svc.ListByCategory(r.Context(), categoryID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ListEnvelope{Data: items})
		return
	}
	limit, cursor := parsePage(r)
	items, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Data: items, NextCursor: next})
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.PromptInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "prompt deleted"})
}
