package booking

import (
	"context"

	"tourism/internal/domain"
	"tourism/internal/repository"
)

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status *domain.BookingStatus, payment *domain.PaymentStatus) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// PlaceReader is the read-only view of the catalog the workflow needs
type PlaceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Place, error)
	GetByIDsUnscoped(ctx context.Context, ids []int64) (map[int64]*domain.Place, error)
}

type AccountReader interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}

type PaymentRecorder interface {
	Create(ctx context.Context, p *domain.Payment) error
}

// EventPublisher receives booking state changes. Publish must not block.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.BookingEvent)
}
