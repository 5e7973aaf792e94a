package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"roomdrop/internal/store"
)

// createRoomHandler handles POST /api/rooms. It draws a fresh unique code
// and stores the room. There is nothing to validate: any holder of the
// returned code can use the room.
func (cfg Config) createRoomHandler(w http.ResponseWriter, r *http.Request) {
	room, err := createRoomWithFreshCode(r.Context(), cfg.Store)
	if err != nil {
		cfg.Log.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).
			Error("room creation failed")
		writeError(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

// getRoomHandler handles GET /api/rooms/{code}. Codes are case-insensitive
// on the wire and normalised to upper case before lookup.
func (cfg Config) getRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	room, err := cfg.Store.RoomByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			writeError(w, http.StatusNotFound, "Room not found")
			return
		}
		cfg.Log.WithError(err).Error("room lookup failed")
		writeError(w, http.StatusInternalServerError, "Failed to get room")
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// deleteRoomHandler handles DELETE /api/rooms/{roomId}. The room and every
// content item it owns go together; backing blobs are removed best-effort
// afterwards.
func (cfg Config) deleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	// Collect file references before the cascade erases them.
	items, err := cfg.Store.ContentByRoom(r.Context(), roomID)
	if err != nil {
		cfg.Log.WithError(err).Error("content listing before room delete failed")
		writeError(w, http.StatusInternalServerError, "Failed to delete room")
		return
	}

	deleted, err := cfg.Store.DeleteRoom(r.Context(), roomID)
	if err != nil {
		cfg.Log.WithError(err).Error("room delete failed")
		writeError(w, http.StatusInternalServerError, "Failed to delete room")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Room not found")
		return
	}

	for _, c := range items {
		if c.Type != store.TypeFile {
			continue
		}
		if err := cfg.Blobs.Remove(r.Context(), c.Data); err != nil {
			cfg.Log.WithError(err).WithField("content_id", c.ID).
				Warn("blob cleanup failed")
		}
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
