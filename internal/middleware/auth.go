package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/model"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const UserContextKey = contextKey("user")

// UserFromContext returns the authenticated user stored by AuthMiddleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*model.User)
	return u, ok
}

// AuthMiddleware verifies the bearer token against the identity
// provider and syncs the returned profile into the local users table,
// so every authenticated request observes an up-to-date profile row.
func AuthMiddleware(auth service.AuthClient, users service.UserService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "missing_bearer_token")
				return
			}

			profile, err := auth.GetUser(r.Context(), parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}

			user, err := users.SyncProfile(r.Context(), profile.ID, profile.DisplayName())
			if err != nil {
				logger.Error().Err(err).Str("user_id", profile.ID).Msg("Failed to sync user profile")
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind})
}
