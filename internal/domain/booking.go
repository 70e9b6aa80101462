package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Booking is a reservation of a place by an account. TotalPrice is written on
// insert only; gorm never includes it in updates.
type Booking struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	UserID         int64           `json:"userId" gorm:"column:user_id;index;not null"`
	PlaceID        int64           `json:"placeId" gorm:"column:place_id;index;not null"`
	BookingDate    time.Time       `json:"bookingDate" gorm:"column:booking_date;not null"`
	NumberOfPeople int             `json:"numberOfPeople" gorm:"column:number_of_people;not null"`
	TotalPrice     decimal.Decimal `json:"totalPrice" gorm:"column:total_price;type:numeric(12,2);not null;<-:create"`
	Status         BookingStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus" gorm:"column:payment_status;type:varchar(20);default:'pending';index"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (Booking) TableName() string { return "bookings" }
