package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"account-service/internal/events"
	"account-service/internal/model"
	"account-service/internal/repository"
	"account-service/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Phone    *string
	Bio      *string
}

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (string, *model.User, error)
	SignIn(ctx context.Context, email, password string) (string, *model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokens    *token.Manager
	publisher events.Publisher
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager, publisher events.Publisher) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
	}
}

// NormalizeEmail is applied before every lookup and insert so that
// casing differences never produce two accounts for one address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, input SignUpInput) (string, *model.User, error) {
	email := NormalizeEmail(input.Email)

	// Early exit for the common case. The unique constraint in the
	// repository still decides the winner when two sign-ups race.
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return "", nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(input.Name),
		Phone:        input.Phone,
		Bio:          input.Bio,
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, err
	}
	user.ID = newID

	signedToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	if err := s.publisher.PublishUserRegistered(user); err != nil {
		slog.WarnContext(ctx, "failed to publish user.registered event", "error", err, "user_id", user.ID)
	}

	return signedToken, user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same error as a wrong password, so responses never reveal
			// whether the address is registered.
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	signedToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	return signedToken, user, nil
}
