package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"roomdrop/internal/blob"
	"roomdrop/internal/store"
)

// downloadHandler handles GET /api/files/{ref}. The reference is the
// stored filename under the disk strategy and the content id under the
// inline and object-storage ones; ContentByFileRef resolves both, so the
// URL shape is the same regardless of deployment.
func (cfg Config) downloadHandler(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	item, err := cfg.Store.ContentByFileRef(r.Context(), ref)
	if err != nil {
		if errors.Is(err, store.ErrContentNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		cfg.Log.WithError(err).Error("file lookup failed")
		writeError(w, http.StatusInternalServerError, "Failed to download file")
		return
	}

	rc, size, err := cfg.Blobs.Open(r.Context(), item.Data)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		cfg.Log.WithError(err).Error("blob open failed")
		writeError(w, http.StatusInternalServerError, "Failed to download file")
		return
	}
	defer func() { _ = rc.Close() }()

	contentType := "application/octet-stream"
	if item.MimeType != nil && *item.MimeType != "" {
		contentType = *item.MimeType
	}
	w.Header().Set("Content-Type", contentType)

	if size <= 0 && item.FileSize != nil {
		size = *item.FileSize
	}
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}

	name := ref
	if item.FileName != nil && *item.FileName != "" {
		name = *item.FileName
	}
	// Encourage safe download behavior in browsers.
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))

	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
