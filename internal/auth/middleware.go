package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Pvayush/TexasInterns/internal/apperror"
	"github.com/Pvayush/TexasInterns/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// context.WithValue uses any as the key type. Using a package-private type
// prevents collisions: only this package can create a key of type contextKey,
// so only this package can read or write the userID value in the context.
type contextKey string

const userIDKey contextKey = "userID"

// UserResolver is the slice of the user repository the middleware needs:
// just enough to confirm the account behind a token still exists.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// RequireAuth is the middleware that guards every protected route.
//
// It reads the bearer token from the Authorization header, validates it, and
// resolves the embedded user ID against the store. The resolved ID is placed
// in the request context and is the sole source of truth for ownership
// checks downstream — request bodies are never trusted to name an owner.
//
// Failure behaviour:
//   - missing/malformed header, or invalid/expired/tampered token → 401,
//     with one generic message regardless of cause
//   - valid token whose account no longer exists → 404
func RequireAuth(tokens *TokenService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				// Expired, tampered, malformed — all the same to the caller.
				unauthorized(w)
				return
			}

			if _, err := users.GetUserByID(r.Context(), userID); err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					errorJSON(w, http.StatusNotFound, "not_found", "account no longer exists")
					return
				}
				errorJSON(w, http.StatusInternalServerError, "internal_error", "an internal error occurred")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if no valid token was presented — on a
// RequireAuth-protected route that should never happen.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	errorJSON(w, http.StatusUnauthorized, "unauthenticated", "valid authentication required")
}

// errorJSON writes an error body in the same {error, message} shape the
// handler layer uses, without importing it (handler already depends on this
// package).
func errorJSON(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errType,
		"message": message,
	})
}
