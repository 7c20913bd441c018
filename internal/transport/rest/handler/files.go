package handler

import (
	"net/http"
	"path"

	"github.com/gorilla/mux"

	"inducthub/internal/storage"
)

// FileHandler serves stored upload content.
type FileHandler struct {
	store *storage.GridFSStore
}

// NewFileHandler creates a new file handler
func NewFileHandler(store *storage.GridFSStore) *FileHandler {
	return &FileHandler{store: store}
}

// Download handles GET /v1/files/{ref:.*}
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	if ref == "" {
		writeError(w, http.StatusBadRequest, "missing file reference")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+path.Base(ref)+"\"")
	if err := h.store.Download(r.Context(), ref, w); err != nil {
		// If streaming already began the status is committed and this is a no-op.
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
}
