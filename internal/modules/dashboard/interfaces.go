package dashboard

import (
	"context"

	"tourism/internal/domain"
)

type PlaceLister interface {
	ListAll(ctx context.Context) ([]domain.Place, error)
}

type BookingLister interface {
	ListAll(ctx context.Context) ([]domain.Booking, error)
}

type UserLister interface {
	List(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}
