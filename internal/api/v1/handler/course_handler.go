package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, validate *validator.Validate, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, validate: validate, logger: logger}
}

// RegisterRoutes mounts course routes
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses/generate", authMw(http.HandlerFunc(h.generateCourse)))
	mux.Handle("/courses/owned", authMw(http.HandlerFunc(h.listOwnedCourses)))
	mux.Handle("/courses/enrolled", authMw(http.HandlerFunc(h.listEnrolledCourses)))
	mux.Handle("/courses/", authMw(http.HandlerFunc(h.handleCourse)))
}

// generateCourse godoc
// @Summary Generate a course from a chat transcript
// @Description Delegates to the generation service, validates the output and persists the course atomically.
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.GenerateCourseRequestDTO true "Chat transcript"
// @Success 201 {object} dto.GenerateCourseResponseDTO
// @Failure 400 {object} map[string]string "invalid_json"
// @Failure 500 {object} map[string]string "missing_api_key"
// @Failure 502 {object} map[string]string "ai_unavailable or ai_invalid_output"
// @Router /courses/generate [post]
func (h *CourseHandler) generateCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorKind(w, http.StatusNotFound, "not_found")
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErrorKind(w, http.StatusUnauthorized, "missing_bearer_token")
		return
	}

	var req dto.GenerateCourseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid_json")
		return
	}
	messages := make([]model.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, model.ChatMessage{Role: m.Role, Content: m.Content})
	}

	course, modules, err := h.courseService.GenerateFromChat(r.Context(), user.ID, messages)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	resp := dto.GenerateCourseResponseDTO{
		Course:  toCourseDTO(*course),
		Modules: toModuleDTOs(modules),
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *CourseHandler) writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingAPIKey):
		writeErrorKind(w, http.StatusInternalServerError, "missing_api_key")
	case errors.Is(err, service.ErrAIUnavailable):
		writeErrorKind(w, http.StatusBadGateway, "ai_unavailable")
	case errors.Is(err, service.ErrAIInvalidOutput):
		writeErrorKind(w, http.StatusBadGateway, "ai_invalid_output")
	default:
		h.logger.Error().Err(err).Msg("Course generation failed")
		writeErrorKind(w, http.StatusInternalServerError, "internal_error")
	}
}

// listOwnedCourses godoc
// @Summary List courses owned by the authenticated user
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponseDTO
// @Router /courses/owned [get]
func (h *CourseHandler) listOwnedCourses(w http.ResponseWriter, r *http.Request) {
	h.listCourses(w, r, h.courseService.GetOwnedCourses)
}

// listEnrolledCourses godoc
// @Summary List courses the authenticated user is enrolled in
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponseDTO
// @Router /courses/enrolled [get]
func (h *CourseHandler) listEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	h.listCourses(w, r, h.courseService.GetEnrolledCourses)
}

func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID string) ([]model.Course, error)) {
	if r.Method != http.MethodGet {
		writeErrorKind(w, http.StatusNotFound, "not_found")
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErrorKind(w, http.StatusUnauthorized, "missing_bearer_token")
		return
	}
	courses, err := list(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list courses")
		writeErrorKind(w, http.StatusInternalServerError, "internal_error")
		return
	}
	out := make([]dto.CourseResponseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCourse dispatches /courses/{courseId}/learners and
// /courses/{courseId}/modules.
func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeErrorKind(w, http.StatusUnauthorized, "missing_bearer_token")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/courses/"), "/")
	if len(parts) != 2 {
		writeErrorKind(w, http.StatusNotFound, "not_found")
		return
	}
	courseID := parts[0]
	if uuid.Validate(courseID) != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid_course_id")
		return
	}

	switch {
	case parts[1] == "learners" && r.Method == http.MethodPost:
		h.enrollLearner(w, r, user, courseID)
	case parts[1] == "modules" && r.Method == http.MethodGet:
		h.listModules(w, r, user, courseID)
	default:
		writeErrorKind(w, http.StatusNotFound, "not_found")
	}
}

// enrollLearner godoc
// @Summary Enroll a learner into a course
// @Description Grants a user read access to a course. Owner only.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param request body dto.EnrollLearnerRequestDTO true "Learner to enroll"
// @Success 201 {object} dto.EnrollLearnerResponseDTO
// @Failure 400 {object} map[string]string "invalid_user_id"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "course_not_found"
// @Router /courses/{courseId}/learners [post]
func (h *CourseHandler) enrollLearner(w http.ResponseWriter, r *http.Request, user *model.User, courseID string) {
	var req dto.EnrollLearnerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, "invalid_user_id")
		return
	}

	if err := h.courseService.EnrollLearner(r.Context(), courseID, user.ID, req.UserID); err != nil {
		h.writeAccessError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.EnrollLearnerResponseDTO{OK: true})
}

// listModules godoc
// @Summary List course modules
// @Description Returns the course modules in creation order. Owner or enrolled learner only.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} dto.ModuleResponseDTO
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "course_not_found"
// @Router /courses/{courseId}/modules [get]
func (h *CourseHandler) listModules(w http.ResponseWriter, r *http.Request, user *model.User, courseID string) {
	modules, err := h.courseService.GetModules(r.Context(), courseID, user.ID)
	if err != nil {
		h.writeAccessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toModuleDTOs(modules))
}

func (h *CourseHandler) writeAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		writeErrorKind(w, http.StatusNotFound, "course_not_found")
	case errors.Is(err, service.ErrForbidden):
		writeErrorKind(w, http.StatusForbidden, "forbidden")
	default:
		h.logger.Error().Err(err).Msg("Course access failed")
		writeErrorKind(w, http.StatusInternalServerError, "internal_error")
	}
}

func toCourseDTO(c model.Course) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{ID: c.ID, OwnerID: c.OwnerID, Name: c.Name}
}

func toModuleDTOs(modules []model.Module) []dto.ModuleResponseDTO {
	out := make([]dto.ModuleResponseDTO, 0, len(modules))
	for _, m := range modules {
		out = append(out, dto.ModuleResponseDTO{
			ID:       m.ID,
			CourseID: m.CourseID,
			Type:     m.Type,
			Content:  m.Content,
		})
	}
	return out
}
