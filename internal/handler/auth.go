package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Pvayush/TexasInterns/internal/auth"
	"github.com/Pvayush/TexasInterns/internal/model"
	"github.com/Pvayush/TexasInterns/internal/service"
)

// AuthHandler exposes registration and login.
//
// Both endpoints are unauthenticated; everything else in the API sits behind
// the RequireAuth middleware.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the payload for both register and login. AccessToken is
// only present on login — it is the short-lived token issued alongside the
// session token.
type authResponse struct {
	User        *model.User `json:"user"`
	Token       string      `json:"token"`
	AccessToken string      `json:"accessToken,omitempty"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/v1/auth/register
// Body: {"name": "...", "email": "...", "password": "..."}
// Success: 201 {user, token}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		User:  result.User,
		Token: result.Token,
	})
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /api/v1/auth/login
// Success: 200 {user, token, accessToken}
// Failure: 401 with one generic message — never reveals whether the email
// or the password was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:        result.User,
		Token:       result.Token,
		AccessToken: result.AccessToken,
	})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/v1/auth/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}
