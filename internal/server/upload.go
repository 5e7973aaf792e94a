package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"roomdrop/internal/store"
)

// uploadHandler handles POST /api/rooms/{roomId}/upload. It streams the
// multipart "file" field into the configured blob backend and records the
// resulting reference as a file content item. The part is never buffered
// whole in the handler; size limits are enforced by MaxBytesReader on the
// request body.
func (cfg Config) uploadHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	if cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	var filePart io.Reader
	var fileName, contentType string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer func() { _ = part.Close() }()

		if part.FormName() != "file" {
			continue
		}

		filePart = part
		fileName = sanitizeFilename(part.FileName())
		contentType = part.Header.Get("Content-Type")
		break
	}

	if filePart == nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(fileName)); byExt != "" {
			contentType = byExt
		}
	}
	if !allowedMimeType(contentType) {
		writeError(w, http.StatusBadRequest, "File type not allowed")
		return
	}

	ref, size, err := cfg.Blobs.Save(r.Context(), fileName, contentType, filePart)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, "File too large")
			return
		}
		cfg.Log.WithError(err).Error("blob save failed")
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	created, err := cfg.Store.CreateContent(r.Context(), store.InsertContent{
		RoomID:   roomID,
		Type:     store.TypeFile,
		Title:    &fileName,
		Data:     ref,
		FileName: &fileName,
		FileSize: &size,
		MimeType: &contentType,
	})
	if err != nil {
		// The blob is already written; drop it rather than leak it.
		_ = cfg.Blobs.Remove(r.Context(), ref)

		if errors.Is(err, store.ErrRoomNotFound) {
			writeError(w, http.StatusBadRequest, "Room does not exist")
			return
		}
		cfg.Log.WithError(err).Error("file content insert failed")
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
