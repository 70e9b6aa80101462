package auth

import (
	"context"
	"testing"
	"time"

	"tourism/internal/domain"
	"tourism/internal/pkg/jwt"
	"tourism/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	u.ID = 42
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindConflict(ctx context.Context, excludeID int64, username, email string) (*domain.User, error) {
	args := m.Called(ctx, excludeID, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *mockUserRepo) TouchActivity(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func newTestService(repo *mockUserRepo) *Service {
	return NewService(repo, jwt.New("test-secret", time.Hour))
}

func TestService_Register_Success(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindConflict", mock.Anything, int64(0), "amina", "amina@example.so").Return(nil, repository.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(repo)

	res, err := svc.Register(context.Background(), RegisterRequest{
		Username: "amina",
		Email:    "Amina@Example.so",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), res.User.ID)
	assert.Equal(t, domain.RoleTourist, res.User.Role)
	assert.NotEmpty(t, res.Token)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("secret123")))
}

func TestService_Register_Duplicate(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindConflict", mock.Anything, int64(0), "amina", "new@example.so").
		Return(&domain.User{ID: 3, Username: "amina", Email: "old@example.so"}, nil)
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "amina",
		Email:    "new@example.so",
		Password: "secret123",
	})

	require.ErrorIs(t, err, ErrAccountExists)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_ShortPassword(t *testing.T) {
	svc := newTestService(new(mockUserRepo))

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "amina", Email: "a@example.so", Password: "123"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
}

func TestService_Login(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	user := &domain.User{ID: 7, Username: "amina", Email: "amina@example.so", PasswordHash: hash, Role: domain.RoleTourist, LoginCount: 2}

	repo := new(mockUserRepo)
	repo.On("GetByLogin", mock.Anything, "amina").Return(user, nil)
	repo.On("RecordLogin", mock.Anything, int64(7), mock.Anything).Return(nil)
	svc := newTestService(repo)

	res, err := svc.Login(context.Background(), LoginRequest{Username: "amina", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.User.LoginCount)
	assert.True(t, res.User.IsActive)
	require.NotNil(t, res.User.LastLoginAt)

	verified, err := svc.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), verified.UserID)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "amina", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownAccount(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("GetByLogin", mock.Anything, "ghost@example.so").Return(nil, repository.ErrNotFound)
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.so", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertNotCalled(t, "RecordLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Refresh_UsesCurrentRole(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleCoWorker}, nil)
	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(repo, tokens)

	old, err := tokens.GenerateToken(7, string(domain.RoleTourist))
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), old)
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(fresh)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleCoWorker), claims.Role)

	_, err = svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_UpdateProfile_EmailTaken(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, Username: "amina", Email: "amina@example.so"}, nil)
	repo.On("FindConflict", mock.Anything, int64(7), "amina", "taken@example.so").
		Return(&domain.User{ID: 8, Username: "other", Email: "taken@example.so"}, nil)
	svc := newTestService(repo)

	email := "taken@example.so"
	_, err := svc.UpdateProfile(context.Background(), 7, UpdateProfileRequest{Email: &email})

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
