package service

import (
	"context"

	"app/internal/model"
	"app/internal/repository"
)

type UserService interface {
	// SyncProfile upserts the profile returned by the identity provider
	// and returns the stored user.
	SyncProfile(ctx context.Context, id, name string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) SyncProfile(ctx context.Context, id, name string) (*model.User, error) {
	u := &model.User{ID: id, Name: name}
	if err := s.userRepo.UpsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListUsers(ctx)
}
