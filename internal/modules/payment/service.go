package payment

import (
	"context"

	"tourism/internal/domain"
)

// Service exposes the payment audit trail. Records are written by the booking
// workflow only.
type Service struct {
	payments paymentRepo
}

func NewService(payments paymentRepo) *Service {
	return &Service{payments: payments}
}

func (s *Service) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	out, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Payment{}
	}
	return out, nil
}

func (s *Service) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	out, err := s.payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Payment{}
	}
	return out, nil
}
