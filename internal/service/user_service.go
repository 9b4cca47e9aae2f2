package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"account-service/internal/model"
	"account-service/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UpdateProfileInput lists the mutable profile fields. Nil means "do
// not touch"; updates merge into the stored record, they never replace
// it wholesale.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
	Bio   *string
}

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.User, error) {
	fields := repository.UpdateFields{
		Name:  input.Name,
		Phone: input.Phone,
		Bio:   input.Bio,
	}

	if err := s.userRepo.Update(ctx, userID, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}
