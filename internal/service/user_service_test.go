package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"account-service/internal/model"
	"account-service/internal/service"
)

func strPtr(s string) *string { return &s }

func TestUserService_GetProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo)
	ctx := context.Background()

	id, err := repo.Create(ctx, &model.User{Email: "a@x.com", PasswordHash: "x", Name: "A"})
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
	require.False(t, user.CreatedAt.IsZero())
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	svc := service.NewUserService(newFakeUserRepo())

	_, err := svc.GetProfile(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_UpdateProfile_PartialMerge(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo)
	ctx := context.Background()

	id, err := repo.Create(ctx, &model.User{
		Email:        "a@x.com",
		PasswordHash: "x",
		Name:         "A",
		Phone:        strPtr("+15551234567"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, id, service.UpdateProfileInput{Bio: strPtr("hello")})
	require.NoError(t, err)

	require.Equal(t, "A", updated.Name, "name must survive a bio-only update")
	require.NotNil(t, updated.Phone)
	require.Equal(t, "+15551234567", *updated.Phone)
	require.NotNil(t, updated.Bio)
	require.Equal(t, "hello", *updated.Bio)
}

func TestUserService_UpdateProfile_NoFieldsIsNoop(t *testing.T) {
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo)
	ctx := context.Background()

	id, err := repo.Create(ctx, &model.User{Email: "a@x.com", PasswordHash: "x", Name: "A"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, id, service.UpdateProfileInput{})
	require.NoError(t, err)
	require.Equal(t, "A", updated.Name)
}

func TestUserService_UpdateProfile_NotFound(t *testing.T) {
	svc := service.NewUserService(newFakeUserRepo())

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), service.UpdateProfileInput{Name: strPtr("B")})
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
