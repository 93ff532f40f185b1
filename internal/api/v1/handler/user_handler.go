package handler

import (
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	userService service.UserService
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes mounts user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/me", authMw(http.HandlerFunc(h.getMe)))
	mux.Handle("/users", authMw(http.HandlerFunc(h.listUsers)))
}

// getMe godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Router /me [get]
func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorKind(w, http.StatusNotFound, "not_found")
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErrorKind(w, http.StatusUnauthorized, "missing_bearer_token")
		return
	}
	writeJSON(w, http.StatusOK, dto.UserResponseDTO{ID: user.ID, Name: user.Name})
}

// listUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {array} dto.UserResponseDTO
// @Router /users [get]
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorKind(w, http.StatusNotFound, "not_found")
		return
	}
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list users")
		writeErrorKind(w, http.StatusInternalServerError, "internal_error")
		return
	}
	out := make([]dto.UserResponseDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponseDTO{ID: u.ID, Name: u.Name})
	}
	writeJSON(w, http.StatusOK, out)
}
