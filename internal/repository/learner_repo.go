package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LearnerRepository interface {
	// AddLearner grants a user read access to a course. Idempotent.
	AddLearner(ctx context.Context, userID, courseID string) error
	IsLearner(ctx context.Context, userID, courseID string) (bool, error)
}

type learnerRepo struct {
	pool *pgxpool.Pool
}

func NewLearnerRepo(pool *pgxpool.Pool) LearnerRepository {
	return &learnerRepo{pool: pool}
}

func (r *learnerRepo) AddLearner(ctx context.Context, userID, courseID string) error {
	query := `
		INSERT INTO learners (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, userID, courseID); err != nil {
		return fmt.Errorf("adding learner: %w", err)
	}
	return nil
}

func (r *learnerRepo) IsLearner(ctx context.Context, userID, courseID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM learners WHERE user_id = $1 AND course_id = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking learner: %w", err)
	}
	return exists, nil
}
