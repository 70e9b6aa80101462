package booking

import (
	"context"
	"fmt"

	"tourism/internal/access"

	qrcode "github.com/skip2/go-qrcode"
)

const ticketSize = 256

// TicketPayload is the text encoded in a booking's QR ticket.
func TicketPayload(v *BookingView) string {
	return fmt.Sprintf("TOURISM-BOOKING:%d:%s:%s", v.ID, v.Status, v.PaymentStatus)
}

// Ticket renders the booking's QR ticket as PNG for anyone allowed to read it.
func (s *Service) Ticket(ctx context.Context, id int64, p access.Principal) ([]byte, error) {
	v, err := s.GetBooking(ctx, id, p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(TicketPayload(v), qrcode.Medium, ticketSize)
}
