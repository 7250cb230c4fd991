package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/manraj-ms/accounts-api/internal/services"
)

// UsersHandler provides the user lookup endpoints.
type UsersHandler struct {
	accounts *services.AccountService
}

// NewUsersHandler constructs a handler with the provided service.
func NewUsersHandler(accounts *services.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// UsersRouter registers user lookup routes on the given router.
func UsersRouter(r chi.Router, accounts *services.AccountService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUsersHandler(accounts)

	r.Post("/users", handler.ListByMobileNumber)
	r.With(authMiddleware).Get("/all-users", handler.ListAll)
}

// ListByMobileNumber returns the names of users whose mobile number
// matches exactly.
func (h *UsersHandler) ListByMobileNumber(w http.ResponseWriter, r *http.Request) {
	var req ListByMobileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	names, err := h.accounts.ListByMobileNumber(r.Context(), req.MobileNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Users fetched successfully", names)
}

// ListAll returns every registered user, projected onto the API-safe
// summary fields. The route sits behind the session gate.
func (h *UsersHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	if _, ok := userFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Authentication token is required")
		return
	}

	users, err := h.accounts.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Users fetched successfully", users)
}

type ListByMobileRequest struct {
	MobileNumber string `json:"mobile_number"`
}

// TestConnection is the plain-text liveness check.
func TestConnection(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Connected successfully"))
}

// Healthz reports process health for orchestration probes.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
