package users

import (
	"context"

	"tourism/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	FindConflict(ctx context.Context, excludeID int64, username, email string) (*domain.User, error)
	List(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
}

type PasswordHasher func(password string) (string, error)
