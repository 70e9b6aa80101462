package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentOutcome mirrors the booking state a payment attempt produced.
type PaymentOutcome string

const (
	PaymentOutcomeConfirmed PaymentOutcome = "confirmed"
	PaymentOutcomeFailed    PaymentOutcome = "failed"
)

// Payment is the audit record of one gateway charge attempt. It is inserted
// once by the booking workflow and never updated.
type Payment struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	BookingID        int64           `json:"bookingId" gorm:"column:booking_id;index;not null"`
	UserID           int64           `json:"userId" gorm:"column:user_id;index;not null"`
	PlaceID          int64           `json:"placeId" gorm:"column:place_id;index;not null"`
	PlaceName        string          `json:"placeName" gorm:"column:place_name"`
	PayerName        string          `json:"userFullName" gorm:"column:payer_name"`
	PayerAccountNo   string          `json:"userAccountNo" gorm:"column:payer_account_no"`
	TimeSlot         string          `json:"timeSlot" gorm:"column:time_slot"`
	BookingDate      time.Time       `json:"bookingDate" gorm:"column:booking_date"`
	VisitorCount     int             `json:"visitorCount" gorm:"column:visitor_count"`
	PricePerPerson   decimal.Decimal `json:"pricePerPerson" gorm:"column:price_per_person;type:numeric(12,2)"`
	TotalAmount      decimal.Decimal `json:"totalAmount" gorm:"column:total_amount;type:numeric(12,2);not null"`
	ActualPaidAmount decimal.Decimal `json:"actualPaidAmount" gorm:"column:actual_paid_amount;type:numeric(12,2);not null"`
	TransactionID    string          `json:"transactionId,omitempty" gorm:"column:transaction_id;index"`
	GatewayResponse  string          `json:"gatewayResponse" gorm:"column:gateway_response;type:text"`
	BookingStatus    PaymentOutcome  `json:"bookingStatus" gorm:"column:booking_status;type:varchar(20)"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }
