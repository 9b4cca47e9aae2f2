package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"account-service/internal/events"
	"account-service/internal/model"
	"account-service/internal/repository"
	"account-service/internal/service"
	"account-service/internal/token"
)

// fakeUserRepo is an in-memory UserRepository with the same error
// contract as the Postgres implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return uuid.Nil, repository.ErrDuplicateEmail
		}
	}

	stored := *user
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.users[stored.ID] = &stored

	return stored.ID, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id uuid.UUID, fields repository.UpdateFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}

	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Phone != nil {
		user.Phone = fields.Phone
	}
	if fields.Bio != nil {
		user.Bio = fields.Bio
	}
	user.UpdatedAt = time.Now()

	return nil
}

func newTestAuthService(t *testing.T) (service.AuthService, *fakeUserRepo, *token.Manager) {
	t.Helper()

	tokens, err := token.NewManager("auth-service-test-secret", token.DefaultTTL)
	require.NoError(t, err)

	repo := newFakeUserRepo()
	return service.NewAuthService(repo, tokens, events.NoopPublisher{}), repo, tokens
}

func TestAuthService_SignUp(t *testing.T) {
	svc, repo, tokens := newTestAuthService(t)
	ctx := context.Background()

	signedToken, user, err := svc.SignUp(ctx, service.SignUpInput{
		Email:    "A@X.com",
		Password: "secret1",
		Name:     "A",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.Equal(t, "a@x.com", user.Email, "email must be stored normalized")

	resolved, err := tokens.Verify(signedToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved, "token must resolve to the new user")

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, user.PasswordHash)
	require.NotEqual(t, "secret1", user.PasswordHash)
	require.True(t, service.CheckPassword("secret1", stored.PasswordHash))
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, service.SignUpInput{Email: "a@x.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	// Casing differences must still collide after normalization.
	_, _, err = svc.SignUp(ctx, service.SignUpInput{Email: "A@X.COM", Password: "other1", Name: "B"})
	require.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAuthService_SignUp_RacingInsertReportsConflict(t *testing.T) {
	// When the early existence check misses, the duplicate surfaces
	// from the insert itself and must map to the same conflict error.
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.User{Email: "a@x.com", PasswordHash: "x", Name: "A"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.SignUp(ctx, service.SignUpInput{Email: "a@x.com", Password: "secret1", Name: "A"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.ErrorIs(t, err, service.ErrEmailTaken)
	}
}

func TestAuthService_SignIn(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	_, user, err := svc.SignUp(ctx, service.SignUpInput{Email: "a@x.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	signedToken, signedIn, err := svc.SignIn(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, user.ID, signedIn.ID)

	resolved, err := tokens.Verify(signedToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved)
}

func TestAuthService_SignIn_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, service.SignUpInput{Email: "a@x.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	_, _, wrongPassword := svc.SignIn(ctx, "a@x.com", "wrong")
	_, _, unknownEmail := svc.SignIn(ctx, "nobody@x.com", "secret1")

	require.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, service.ErrInvalidCredentials)
	require.Equal(t, wrongPassword, unknownEmail, "failure modes must be indistinguishable")
}
