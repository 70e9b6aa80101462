package dashboard

import (
	"context"
	"fmt"
	"time"

	"tourism/internal/domain"
)

type Service struct {
	places   PlaceLister
	bookings BookingLister
	users    UserLister
	now      func() time.Time
}

func NewService(places PlaceLister, bookings BookingLister, users UserLister) *Service {
	return &Service{places: places, bookings: bookings, users: users, now: time.Now}
}

type snapshot struct {
	places   []domain.Place
	bookings []domain.Booking
	users    []domain.User
}

// load scans all three collections. No caching happens server side.
func (s *Service) load(ctx context.Context) (*snapshot, error) {
	places, err := s.places.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	users, err := s.users.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &snapshot{places: places, bookings: bookings, users: users}, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	stats := Aggregate(snap.places, snap.bookings, snap.users, s.now())
	return &stats, nil
}
