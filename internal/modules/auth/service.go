package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourism/internal/domain"
	"tourism/internal/pkg/validator"
	"tourism/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service contains the registration, login and session logic.
type Service struct {
	users  UserRepository
	tokens TokenService
	now    func() time.Time
}

func NewService(users UserRepository, tokens TokenService) *Service {
	return &Service{users: users, tokens: tokens, now: time.Now}
}

// Register creates a tourist account and signs a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.ensureUnique(ctx, 0, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         domain.RoleTourist,
		IsActive:     true,
		LastActiveAt: &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &DuplicateError{Field: "email"}
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	login := strings.TrimSpace(req.Login())
	if login == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.IsActive = true
	user.LoginCount++
	user.LastLoginAt = &now
	user.LastActiveAt = &now

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *Service) Verify(token string) (*VerifyResponse, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return &VerifyResponse{Valid: true, UserID: claims.UserID, Role: claims.Role}, nil
}

// Refresh exchanges a still valid token for a fresh one. The role is reread
// from the account so role changes take effect.
func (s *Service) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	return s.tokens.GenerateToken(user.ID, string(user.Role))
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if fields := validator.Validate(user); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.ensureUnique(ctx, user.ID, user.Username, user.Email); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &DuplicateError{Field: "email"}
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) TouchActivity(ctx context.Context, userID int64) (time.Time, error) {
	now := s.now()
	if err := s.users.TouchActivity(ctx, userID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return time.Time{}, ErrUnauthorized
		}
		return time.Time{}, err
	}
	return now, nil
}

func (s *Service) ensureUnique(ctx context.Context, excludeID int64, username, email string) error {
	other, err := s.users.FindConflict(ctx, excludeID, username, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if strings.EqualFold(other.Email, email) {
		return &DuplicateError{Field: "email"}
	}
	return &DuplicateError{Field: "username"}
}

// HashPassword is shared with the account directory and the seeder.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
