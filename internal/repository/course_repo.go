package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type CourseRepository interface {
	// CreateCourseWithModules persists a generated course and all of its
	// modules inside one transaction. On any failure the whole graph is
	// rolled back; no partial course is ever observable.
	CreateCourseWithModules(ctx context.Context, ownerID string, generated *model.GeneratedCourse) (*model.Course, []model.Module, error)
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	GetCoursesByOwner(ctx context.Context, ownerID string) ([]model.Course, error)
	GetEnrolledCourses(ctx context.Context, userID string) ([]model.Course, error)
	GetModulesByCourseID(ctx context.Context, courseID string) ([]model.Module, error)
}

type courseRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewCourseRepo(pool *pgxpool.Pool, logger zerolog.Logger) CourseRepository {
	return &courseRepo{
		pool:   pool,
		logger: logger.With().Str("repository", "CourseRepository").Logger(),
	}
}

func (r *courseRepo) CreateCourseWithModules(ctx context.Context, ownerID string, generated *model.GeneratedCourse) (*model.Course, []model.Module, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	// Rollback is a no-op once the transaction has been committed, so it
	// is safe to defer unconditionally and covers every failure path.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	courseID, err := uuid.NewV7()
	if err != nil {
		return nil, nil, fmt.Errorf("generating course id: %w", err)
	}
	var course model.Course
	courseQuery := `
		INSERT INTO courses (id, owner_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, name
	`
	err = tx.QueryRow(ctx, courseQuery, courseID.String(), ownerID, generated.CourseName).
		Scan(&course.ID, &course.OwnerID, &course.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("inserting course: %w", err)
	}

	moduleQuery := `
		INSERT INTO modules (id, course_id, type, content)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING id, course_id, type, content
	`
	modules := make([]model.Module, 0, len(generated.Modules))
	for _, gm := range generated.Modules {
		content, err := gm.ContentJSON()
		if err != nil {
			return nil, nil, fmt.Errorf("serializing module content: %w", err)
		}
		// V7 ids are monotonic, so ordering by id on read preserves the
		// generated module order.
		moduleID, err := uuid.NewV7()
		if err != nil {
			return nil, nil, fmt.Errorf("generating module id: %w", err)
		}
		var m model.Module
		var stored []byte
		err = tx.QueryRow(ctx, moduleQuery, moduleID.String(), course.ID, gm.Type, string(content)).
			Scan(&m.ID, &m.CourseID, &m.Type, &stored)
		if err != nil {
			return nil, nil, fmt.Errorf("inserting module: %w", err)
		}
		m.Content = json.RawMessage(stored)
		modules = append(modules, m)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("committing course: %w", err)
	}

	r.logger.Info().Str("course_id", course.ID).Int("modules", len(modules)).Msg("Course persisted")
	return &course, modules, nil
}

func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `SELECT id, owner_id, name FROM courses WHERE id = $1`
	var c model.Course
	err := r.pool.QueryRow(ctx, query, courseID).Scan(&c.ID, &c.OwnerID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting course: %w", err)
	}
	return &c, nil
}

func (r *courseRepo) GetCoursesByOwner(ctx context.Context, ownerID string) ([]model.Course, error) {
	query := `
		SELECT id, owner_id, name
		FROM courses
		WHERE owner_id = $1
		ORDER BY name
	`
	return r.queryCourses(ctx, query, ownerID)
}

func (r *courseRepo) GetEnrolledCourses(ctx context.Context, userID string) ([]model.Course, error) {
	query := `
		SELECT c.id, c.owner_id, c.name
		FROM courses c
		JOIN learners l ON l.course_id = c.id
		WHERE l.user_id = $1
		ORDER BY c.name
	`
	return r.queryCourses(ctx, query, userID)
}

func (r *courseRepo) queryCourses(ctx context.Context, query string, arg any) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

func (r *courseRepo) GetModulesByCourseID(ctx context.Context, courseID string) ([]model.Module, error) {
	// Module identities are assigned in insertion order, so ordering by
	// id preserves the generated order.
	query := `
		SELECT id, course_id, type, content
		FROM modules
		WHERE course_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	modules := []model.Module{}
	for rows.Next() {
		var m model.Module
		var content []byte
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Type, &content); err != nil {
			return nil, fmt.Errorf("scanning module: %w", err)
		}
		m.Content = json.RawMessage(content)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	return modules, nil
}
