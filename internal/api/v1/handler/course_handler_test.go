package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type stubCourseService struct {
	generateFn func(ctx context.Context, ownerID string, messages []model.ChatMessage) (*model.Course, []model.Module, error)
	enrollFn   func(ctx context.Context, courseID, ownerID, learnerID string) error
	modulesFn  func(ctx context.Context, courseID, userID string) ([]model.Module, error)
}

func (s *stubCourseService) GenerateFromChat(ctx context.Context, ownerID string, messages []model.ChatMessage) (*model.Course, []model.Module, error) {
	return s.generateFn(ctx, ownerID, messages)
}

func (s *stubCourseService) GetOwnedCourses(ctx context.Context, userID string) ([]model.Course, error) {
	return []model.Course{}, nil
}

func (s *stubCourseService) GetEnrolledCourses(ctx context.Context, userID string) ([]model.Course, error) {
	return []model.Course{}, nil
}

func (s *stubCourseService) EnrollLearner(ctx context.Context, courseID, ownerID, learnerID string) error {
	return s.enrollFn(ctx, courseID, ownerID, learnerID)
}

func (s *stubCourseService) GetModules(ctx context.Context, courseID, userID string) ([]model.Module, error) {
	return s.modulesFn(ctx, courseID, userID)
}

// injectUser stands in for the auth middleware in handler tests.
func injectUser(user *model.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestMux(t *testing.T, svc service.CourseService) *http.ServeMux {
	t.Helper()
	h := NewCourseHandler(svc, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, injectUser(&model.User{ID: "owner-1", Name: "Owner"}))
	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body["error"]
}

func TestGenerateCourseInvalidJSON(t *testing.T) {
	mux := newTestMux(t, &stubCourseService{})
	rec := doRequest(mux, http.MethodPost, "/courses/generate", "{not json")
	if rec.Code != http.StatusBadRequest || errorKind(t, rec) != "invalid_json" {
		t.Fatalf("expected 400 invalid_json, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateCourseErrorKinds(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		wantKind string
	}{
		{service.ErrMissingAPIKey, http.StatusInternalServerError, "missing_api_key"},
		{service.ErrAIUnavailable, http.StatusBadGateway, "ai_unavailable"},
		{service.ErrAIInvalidOutput, http.StatusBadGateway, "ai_invalid_output"},
	}
	for _, tt := range tests {
		svc := &stubCourseService{
			generateFn: func(ctx context.Context, ownerID string, messages []model.ChatMessage) (*model.Course, []model.Module, error) {
				return nil, nil, tt.err
			},
		}
		rec := doRequest(newTestMux(t, svc), http.MethodPost, "/courses/generate", `{"messages": []}`)
		if rec.Code != tt.status || errorKind(t, rec) != tt.wantKind {
			t.Fatalf("%v: expected %d %s, got %d %s", tt.err, tt.status, tt.wantKind, rec.Code, rec.Body.String())
		}
	}
}

func TestGenerateCourseSuccess(t *testing.T) {
	svc := &stubCourseService{
		generateFn: func(ctx context.Context, ownerID string, messages []model.ChatMessage) (*model.Course, []model.Module, error) {
			if ownerID != "owner-1" {
				t.Errorf("expected owner from context, got %q", ownerID)
			}
			if len(messages) != 1 || messages[0].Content != "hi" {
				t.Errorf("unexpected messages: %+v", messages)
			}
			course := &model.Course{ID: "c1", OwnerID: ownerID, Name: "Intro"}
			modules := []model.Module{
				{ID: "m1", CourseID: "c1", Type: "info", Content: json.RawMessage(`{"markdown":"# A"}`)},
			}
			return course, modules, nil
		},
	}
	rec := doRequest(newTestMux(t, svc), http.MethodPost, "/courses/generate", `{"messages": [{"role": "user", "content": "hi"}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Course struct {
			ID      string `json:"id"`
			OwnerID string `json:"ownerId"`
			Name    string `json:"name"`
		} `json:"course"`
		Modules []struct {
			Type    string          `json:"type"`
			Content json.RawMessage `json:"content"`
		} `json:"modules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Course.ID != "c1" || resp.Course.OwnerID != "owner-1" || resp.Course.Name != "Intro" {
		t.Fatalf("unexpected course: %+v", resp.Course)
	}
	// Content must come back as a structured object, not an encoded string.
	if string(resp.Modules[0].Content) != `{"markdown":"# A"}` {
		t.Fatalf("unexpected module content: %s", resp.Modules[0].Content)
	}
}

func TestCourseRoutesValidateID(t *testing.T) {
	mux := newTestMux(t, &stubCourseService{})
	rec := doRequest(mux, http.MethodGet, "/courses/not-a-uuid/modules", "")
	if rec.Code != http.StatusBadRequest || errorKind(t, rec) != "invalid_course_id" {
		t.Fatalf("expected 400 invalid_course_id, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestEnrollLearner(t *testing.T) {
	courseID := "0190a3a1-7c2e-7d8a-b7a4-4e8f12345678"

	svc := &stubCourseService{
		enrollFn: func(ctx context.Context, cID, ownerID, learnerID string) error {
			return service.ErrForbidden
		},
	}
	rec := doRequest(newTestMux(t, svc), http.MethodPost, "/courses/"+courseID+"/learners",
		`{"userId": "0190a3a1-7c2e-7d8a-b7a4-4e8f87654321"}`)
	if rec.Code != http.StatusForbidden || errorKind(t, rec) != "forbidden" {
		t.Fatalf("expected 403 forbidden, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(newTestMux(t, svc), http.MethodPost, "/courses/"+courseID+"/learners", `{"userId": "nope"}`)
	if rec.Code != http.StatusBadRequest || errorKind(t, rec) != "invalid_user_id" {
		t.Fatalf("expected 400 invalid_user_id, got %d %s", rec.Code, rec.Body.String())
	}

	svc = &stubCourseService{
		enrollFn: func(ctx context.Context, cID, ownerID, learnerID string) error {
			return nil
		},
	}
	rec = doRequest(newTestMux(t, svc), http.MethodPost, "/courses/"+courseID+"/learners",
		`{"userId": "0190a3a1-7c2e-7d8a-b7a4-4e8f87654321"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestListModulesNotFound(t *testing.T) {
	courseID := "0190a3a1-7c2e-7d8a-b7a4-4e8f12345678"
	svc := &stubCourseService{
		modulesFn: func(ctx context.Context, cID, userID string) ([]model.Module, error) {
			return nil, service.ErrCourseNotFound
		},
	}
	rec := doRequest(newTestMux(t, svc), http.MethodGet, "/courses/"+courseID+"/modules", "")
	if rec.Code != http.StatusNotFound || errorKind(t, rec) != "course_not_found" {
		t.Fatalf("expected 404 course_not_found, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownCourseSubroute(t *testing.T) {
	courseID := "0190a3a1-7c2e-7d8a-b7a4-4e8f12345678"
	mux := newTestMux(t, &stubCourseService{})
	rec := doRequest(mux, http.MethodGet, "/courses/"+courseID+"/grades", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
