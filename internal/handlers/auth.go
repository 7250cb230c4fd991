package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/manraj-ms/accounts-api/internal/services"
	"github.com/manraj-ms/accounts-api/internal/store"
	"github.com/manraj-ms/accounts-api/types"
)

const tokenCookieName = "token"

type contextKey string

const (
	contextUserKey  contextKey = "user"
	contextTokenKey contextKey = "session_token"
)

// AuthHandler provides the registration, login, and logout endpoints
// plus the session-gate middleware for protected routes.
type AuthHandler struct {
	accounts *services.AccountService
	sessions *services.SessionService
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(accounts *services.AccountService, sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, accounts *services.AccountService, sessions *services.SessionService) {
	handler := NewAuthHandler(accounts, sessions)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/logout", handler.Logout)
}

// RequireSession is the auth gate for protected routes. It resolves the
// presented token, verifies it, loads the owning user, checks the
// token against the user's session ledger, and attaches both to the
// request context. Every failure along the way is a 401.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Authentication token is required")
			return
		}

		email, err := h.sessions.TokenEmail(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := h.accounts.FindByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		// Covers tokens invalidated by logout: the signature may still
		// verify, but the ledger no longer lists the token.
		if !h.sessions.Authorize(user, token) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), contextUserKey, user)
		ctx = context.WithValue(ctx, contextTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.accounts.Register(r.Context(), services.RegisterParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Address:      strings.TrimSpace(req.Address),
		Password:     req.Password,
		MobileNumber: strings.TrimSpace(req.MobileNumber),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User registered successfully", struct{}{})
}

// Login verifies credentials, issues a session token, and mirrors it
// into an HTTP-only cookie whose expiry matches the token's own.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.accounts.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
	})
	writeSuccess(w, http.StatusOK, "Login successful", LoginResponse{
		Token: session.Token,
		Email: session.Email,
	})
}

// Logout revokes the presented session token. The token is taken from
// the cookie, the request body, or the query string, in that order.
// The cookie is cleared regardless of the backend outcome.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := logoutToken(r)

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})

	email, err := h.accounts.Logout(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Logout successful", LogoutResponse{Email: email})
}

type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Password     string `json:"password"`
	MobileNumber string `json:"mobile_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type LogoutResponse struct {
	Email string `json:"email"`
}

// sessionToken resolves the token presented on a protected request:
// the session cookie first, then a bearer Authorization header.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(tokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// logoutToken additionally accepts the token in the request body or
// query string, so clients without cookies can still end a session.
func logoutToken(r *http.Request) string {
	if token := sessionToken(r); token != "" {
		return token
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Token != "" {
		return body.Token
	}
	return r.URL.Query().Get(tokenCookieName)
}

func userFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}
