package auth

import (
	"context"
	"time"

	"tourism/internal/domain"
	"tourism/internal/pkg/jwt"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	FindConflict(ctx context.Context, excludeID int64, username, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	RecordLogin(ctx context.Context, id int64, at time.Time) error
	TouchActivity(ctx context.Context, id int64, at time.Time) error
}

type TokenService interface {
	GenerateToken(userID int64, role string) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}
