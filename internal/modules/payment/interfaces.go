package payment

import (
	"context"

	"tourism/internal/domain"
)

type paymentRepo interface {
	List(ctx context.Context) ([]domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
}
