package booking

import (
	"strings"
	"time"

	"tourism/internal/domain"
	"tourism/internal/modules/payment"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	PlaceID        int64  `json:"placeId" binding:"required,gt=0"`
	BookingDate    string `json:"bookingDate" binding:"required"`
	NumberOfPeople int    `json:"numberOfPeople"`
	UserFullName   string `json:"userFullName"`
	UserAccountNo  string `json:"userAccountNo"`
	TimeSlot       string `json:"timeSlot"`
}

// PaymentDetails returns nil unless all three payer fields are present.
func (r CreateBookingRequest) PaymentDetails() *PaymentDetails {
	pd := PaymentDetails{
		PayerName:      strings.TrimSpace(r.UserFullName),
		PayerAccountNo: strings.TrimSpace(r.UserAccountNo),
		TimeSlot:       strings.TrimSpace(r.TimeSlot),
	}
	if pd.PayerName == "" || pd.PayerAccountNo == "" || pd.TimeSlot == "" {
		return nil
	}
	return &pd
}

type UpdateStatusRequest struct {
	Status        *domain.BookingStatus `json:"status"`
	PaymentStatus *domain.PaymentStatus `json:"paymentStatus"`
}

type PaymentCallbackRequest struct {
	BookingID     int64  `json:"bookingId" binding:"required,gt=0"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status" binding:"required"`
}

type PaymentDetails struct {
	PayerName      string
	PayerAccountNo string
	TimeSlot       string
}

type CreateBookingInput struct {
	AccountID      int64
	PlaceID        int64
	BookingDate    time.Time
	NumberOfPeople int
	Payment        *PaymentDetails
}

// PaymentOutcome is the normalized result of a Branch B settlement.
type PaymentOutcome struct {
	Success          bool                  `json:"success"`
	PaymentID        int64                 `json:"paymentId,omitempty"`
	TotalAmount      decimal.Decimal       `json:"totalAmount"`
	ActualPaidAmount decimal.Decimal       `json:"actualPaidAmount"`
	BookingStatus    domain.PaymentOutcome `json:"bookingStatus"`
	Gateway          *payment.ChargeData   `json:"waafiResponse,omitempty"`
	Error            *payment.ChargeError  `json:"paymentError,omitempty"`
}

// Message is what the caller sees for a failed payment.
func (o *PaymentOutcome) Message() string {
	if o.Error != nil && o.Error.ResponseMsg != "" {
		return o.Error.ResponseMsg
	}
	return "payment processing failed"
}

type CreateResult struct {
	Booking *domain.Booking `json:"booking"`
	Payment *PaymentOutcome `json:"payment,omitempty"`
}

type PlaceSnapshot struct {
	ID             int64                `json:"id"`
	NameEng        string               `json:"name_eng"`
	NameSom        string               `json:"name_som"`
	Category       domain.PlaceCategory `json:"category"`
	Location       string               `json:"location"`
	PricePerPerson decimal.Decimal      `json:"pricePerPerson"`
	ImagePath      string               `json:"image_path"`
}

type AccountSnapshot struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name,omitempty"`
	Role     domain.UserRole `json:"role"`
}

// BookingView is a booking joined with its place and account. A place removed
// from the catalog still resolves; a deleted account yields a nil User.
type BookingView struct {
	domain.Booking
	Place          *PlaceSnapshot   `json:"place"`
	User           *AccountSnapshot `json:"user"`
	PlaceDeleted   bool             `json:"place_deleted,omitempty"`
	AccountDeleted bool             `json:"account_deleted,omitempty"`
}

type BookingListResponse struct {
	Bookings []BookingView `json:"bookings"`
	Count    int           `json:"count"`
}

const bookingDateLayout = "2006-01-02"

func parseBookingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(bookingDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
