package repository

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	// UpsertUser creates the user or refreshes its name from the
	// identity provider profile.
	UpsertUser(ctx context.Context, u *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) UpsertUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name
		RETURNING id, name
	`
	if err := r.pool.QueryRow(ctx, query, u.ID, u.Name).Scan(&u.ID, &u.Name); err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

func (r *userRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, name FROM users ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
