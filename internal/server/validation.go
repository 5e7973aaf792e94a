// validation.go - Content classification and upload validation.
package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"roomdrop/internal/store"
)

// allowedMimeTypes defines file types permitted for upload.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// createContentReq is the JSON payload for adding text or link content.
type createContentReq struct {
	Type  string  `json:"type"`
	Title *string `json:"title,omitempty"`
	Data  string  `json:"data"`
}

// validateContent checks a submission and classifies it. Text submissions
// whose payload is syntactically a URL are stored as links so every client
// gets the same classification; explicit link and file choices are kept
// as-is.
func validateContent(roomID string, req createContentReq) (store.InsertContent, error) {
	t := store.ContentType(strings.TrimSpace(req.Type))
	if !t.Valid() {
		return store.InsertContent{}, fmt.Errorf("invalid content type: %q", req.Type)
	}

	data := strings.TrimSpace(req.Data)
	if data == "" {
		return store.InsertContent{}, fmt.Errorf("data is required")
	}

	if t == store.TypeText && looksLikeURL(data) {
		t = store.TypeLink
	}

	var title *string
	if req.Title != nil {
		if s := strings.TrimSpace(*req.Title); s != "" {
			title = &s
		}
	}

	return store.InsertContent{
		RoomID: roomID,
		Type:   t,
		Title:  title,
		Data:   data,
	}, nil
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// allowedMimeType checks an upload's MIME type against the allow-list,
// ignoring parameters such as charset.
func allowedMimeType(contentType string) bool {
	mt := strings.TrimSpace(strings.ToLower(contentType))
	if idx := strings.Index(mt, ";"); idx > 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	return allowedMimeTypes[mt]
}

// sanitizeFilename strips path separators and control bytes from a
// client-supplied filename before it is echoed back in headers or stored.
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "\x00", "")
	filename = strings.ReplaceAll(filename, `"`, "_")
	filename = strings.Trim(filename, " .")

	if len(filename) > 255 {
		ext := filepath.Ext(filename)
		filename = filename[:255-len(ext)] + ext
	}
	if filename == "" {
		filename = "unnamed"
	}
	return filename
}
