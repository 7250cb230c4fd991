package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/manraj-ms/accounts-api/internal/services"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message, Data: []any{}})
}

// writeServiceError maps a service failure onto the error envelope.
// Anything that is not a typed service error is an internal failure.
func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		writeError(w, svcErr.Status, svcErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
