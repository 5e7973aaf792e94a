package server

import (
	"encoding/json"
	"net/http"
)

// All error responses carry a single human-readable message. Handlers map
// errors at the boundary: not-found -> 404, validation -> 400, storage ->
// 500. No retries anywhere; a failed request never takes the process down.
type errorResponse struct {
	Message string `json:"message"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
