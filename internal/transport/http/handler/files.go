package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nano-banana/admin-api/internal/application/file"
	"github.com/nano-banana/admin-api/internal/pkg/validate"
	"github.com/nano-banana/admin-api/internal/transport/http/middleware"
)

// FileHandler handles image upload/download endpoints backed by S3.
type FileHandler struct {
	svc file.Service
}

func NewFileHandler(svc file.Service) *FileHandler { return &FileHandler{svc: svc} }

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req file.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		req.UserID = sess.UserID
	}
	f, err := h.svc.Upload(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "file deleted"})
}
