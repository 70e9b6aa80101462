package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingEventType string

const (
	EventBookingCreated   BookingEventType = "booking.created"
	EventBookingConfirmed BookingEventType = "booking.confirmed"
	EventPaymentFailed    BookingEventType = "booking.payment_failed"
	EventBookingUpdated   BookingEventType = "booking.updated"
	EventBookingCancelled BookingEventType = "booking.cancelled"
	EventBookingDeleted   BookingEventType = "booking.deleted"
)

// BookingEvent describes a booking state change for dashboards and notifiers.
type BookingEvent struct {
	Type           BookingEventType `json:"type"`
	BookingID      int64            `json:"bookingId"`
	UserID         int64            `json:"userId"`
	PlaceID        int64            `json:"placeId"`
	NumberOfPeople int              `json:"numberOfPeople"`
	TotalPrice     decimal.Decimal  `json:"totalPrice"`
	Status         BookingStatus    `json:"status"`
	PaymentStatus  PaymentStatus    `json:"paymentStatus"`
	Message        string           `json:"message,omitempty"`
	At             time.Time        `json:"at"`
}

func NewBookingEvent(t BookingEventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:           t,
		BookingID:      b.ID,
		UserID:         b.UserID,
		PlaceID:        b.PlaceID,
		NumberOfPeople: b.NumberOfPeople,
		TotalPrice:     b.TotalPrice,
		Status:         b.Status,
		PaymentStatus:  b.PaymentStatus,
		At:             at,
	}
}
