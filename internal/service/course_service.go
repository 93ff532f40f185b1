package service

import (
	"context"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// CourseService owns course lifecycle and access rules: courses are
// writable by their owner only, readable by the owner and enrolled
// learners.
type CourseService interface {
	// GenerateFromChat runs the generation pipeline on the transcript
	// and atomically persists the validated course under ownerID. The
	// persistence transaction is never begun when generation fails.
	GenerateFromChat(ctx context.Context, ownerID string, messages []model.ChatMessage) (*model.Course, []model.Module, error)
	GetOwnedCourses(ctx context.Context, userID string) ([]model.Course, error)
	GetEnrolledCourses(ctx context.Context, userID string) ([]model.Course, error)
	// EnrollLearner grants learnerID read access. Only the course owner
	// may enroll learners.
	EnrollLearner(ctx context.Context, courseID, ownerID, learnerID string) error
	// GetModules returns the course modules in creation order for the
	// owner or an enrolled learner.
	GetModules(ctx context.Context, courseID, userID string) ([]model.Module, error)
}

type courseService struct {
	generator   GenerationService
	courseRepo  repository.CourseRepository
	learnerRepo repository.LearnerRepository
	logger      zerolog.Logger
}

func NewCourseService(
	generator GenerationService,
	courseRepo repository.CourseRepository,
	learnerRepo repository.LearnerRepository,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		generator:   generator,
		courseRepo:  courseRepo,
		learnerRepo: learnerRepo,
		logger:      logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) GenerateFromChat(ctx context.Context, ownerID string, messages []model.ChatMessage) (*model.Course, []model.Module, error) {
	generated, err := s.generator.GenerateCourse(ctx, messages)
	if err != nil {
		return nil, nil, err
	}

	course, modules, err := s.courseRepo.CreateCourseWithModules(ctx, ownerID, generated)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("Failed to persist generated course")
		return nil, nil, err
	}
	return course, modules, nil
}

func (s *courseService) GetOwnedCourses(ctx context.Context, userID string) ([]model.Course, error) {
	return s.courseRepo.GetCoursesByOwner(ctx, userID)
}

func (s *courseService) GetEnrolledCourses(ctx context.Context, userID string) ([]model.Course, error) {
	return s.courseRepo.GetEnrolledCourses(ctx, userID)
}

func (s *courseService) EnrollLearner(ctx context.Context, courseID, ownerID, learnerID string) error {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrCourseNotFound
	}
	if course.OwnerID != ownerID {
		return ErrForbidden
	}
	return s.learnerRepo.AddLearner(ctx, learnerID, courseID)
}

func (s *courseService) GetModules(ctx context.Context, courseID, userID string) ([]model.Module, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.OwnerID != userID {
		enrolled, err := s.learnerRepo.IsLearner(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, ErrForbidden
		}
	}
	return s.courseRepo.GetModulesByCourseID(ctx, courseID)
}
