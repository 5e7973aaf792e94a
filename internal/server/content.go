package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"roomdrop/internal/store"
)

// listContentHandler handles GET /api/rooms/{roomId}/content. Items come
// back newest first. An unknown room yields an empty array, matching the
// lenient reference behavior.
func (cfg Config) listContentHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	items, err := cfg.Store.ContentByRoom(r.Context(), roomID)
	if err != nil {
		cfg.Log.WithError(err).Error("content listing failed")
		writeError(w, http.StatusInternalServerError, "Failed to get content")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// createContentHandler handles POST /api/rooms/{roomId}/content for text
// and link submissions. The room id comes from the path, never the body.
func (cfg Config) createContentHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	var req createContentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid content data")
		return
	}

	in, err := validateContent(roomID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid content data")
		return
	}

	created, err := cfg.Store.CreateContent(r.Context(), in)
	if err != nil {
		// Only the Postgres backend can report this; the memory backend
		// stores orphans, which are unreachable and therefore benign.
		if errors.Is(err, store.ErrRoomNotFound) {
			writeError(w, http.StatusBadRequest, "Room does not exist")
			return
		}
		cfg.Log.WithError(err).Error("content insert failed")
		writeError(w, http.StatusInternalServerError, "Failed to create content")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// deleteContentHandler handles DELETE /api/rooms/{roomId}/content/{contentId}.
// Deletion is scoped to the owning room: a mismatched roomId behaves like a
// missing item, so knowing a foreign content id grants nothing.
func (cfg Config) deleteContentHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	contentID := chi.URLParam(r, "contentId")

	// Fetch first so a deleted file's blob can be cleaned up after.
	item, err := cfg.Store.ContentByID(r.Context(), contentID)
	if err != nil && !errors.Is(err, store.ErrContentNotFound) {
		cfg.Log.WithError(err).Error("content lookup failed")
		writeError(w, http.StatusInternalServerError, "Failed to delete content")
		return
	}

	deleted, err := cfg.Store.DeleteContent(r.Context(), contentID, roomID)
	if err != nil {
		cfg.Log.WithError(err).Error("content delete failed")
		writeError(w, http.StatusInternalServerError, "Failed to delete content")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Content not found")
		return
	}

	if item != nil && item.Type == store.TypeFile {
		if err := cfg.Blobs.Remove(r.Context(), item.Data); err != nil {
			cfg.Log.WithError(err).WithField("content_id", item.ID).
				Warn("blob cleanup failed")
		}
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
