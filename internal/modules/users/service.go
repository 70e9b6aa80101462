package users

import (
	"context"
	"errors"
	"strings"

	"tourism/internal/access"
	"tourism/internal/domain"
	"tourism/internal/pkg/validator"
	"tourism/internal/repository"
)

// Service is the account directory used by admins and co-workers.
type Service struct {
	users UserRepository
	hash  PasswordHasher
}

func NewService(users UserRepository, hash PasswordHasher) *Service {
	return &Service{users: users, hash: hash}
}

// ListUsers returns every account for admins and only tourists for co-workers.
func (s *Service) ListUsers(ctx context.Context, p access.Principal) ([]domain.User, error) {
	if !access.CanAccess(p, access.Collection(access.KindAccount), access.ActionRead) {
		return nil, ErrForbidden
	}

	var role domain.UserRole
	if p.Role != domain.RoleAdmin {
		role = domain.RoleTourist
	}
	out, err := s.users.List(ctx, role)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

func (s *Service) GetUser(ctx context.Context, p access.Principal, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !access.CanAccess(p, access.Account(u.ID, u.Role), access.ActionRead) {
		return nil, ErrForbidden
	}
	return u, nil
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = domain.RoleTourist
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.ensureUnique(ctx, 0, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &DuplicateError{Field: "email"}
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if req.Username != nil {
		u.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, ErrInvalidRole
		}
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, &ValidationError{Fields: map[string]string{"password": "min"}}
		}
		if u.PasswordHash, err = s.hash(*req.Password); err != nil {
			return nil, err
		}
	}

	if fields := validator.Validate(u); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.ensureUnique(ctx, u.ID, u.Username, u.Email); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &DuplicateError{Field: "email"}
		}
		return nil, mapNotFound(err)
	}
	return u, nil
}

// DeleteUser removes the account. Bookings that reference it stay and show
// the account as deleted.
func (s *Service) DeleteUser(ctx context.Context, p access.Principal, id int64) error {
	if p.AccountID == id {
		return ErrSelfDelete
	}
	return mapNotFound(s.users.Delete(ctx, id))
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

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
