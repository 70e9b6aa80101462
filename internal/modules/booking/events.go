package booking

import (
	"context"

	"tourism/internal/domain"
)

// Fanout publishes every event to each publisher in order.
type Fanout []EventPublisher

func (f Fanout) Publish(ctx context.Context, ev domain.BookingEvent) {
	for _, p := range f {
		if p != nil {
			p.Publish(ctx, ev)
		}
	}
}
