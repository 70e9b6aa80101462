package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tourism/internal/access"
	"tourism/internal/domain"
	"tourism/internal/modules/payment"
	"tourism/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// TestChargeCap bounds the amount sent to the gateway. nil charges the full total.
	TestChargeCap *decimal.Decimal
	Now           func() time.Time
}

type Service struct {
	bookings  BookingRepository
	places    PlaceReader
	accounts  AccountReader
	payments  PaymentRecorder
	gateway   payment.Gateway
	publisher EventPublisher
	log       logrus.FieldLogger

	chargeCap *decimal.Decimal
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	places PlaceReader,
	accounts AccountReader,
	payments PaymentRecorder,
	gateway payment.Gateway,
	publisher EventPublisher,
	log logrus.FieldLogger,
	opts Options,
) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		bookings:  bookings,
		places:    places,
		accounts:  accounts,
		payments:  payments,
		gateway:   gateway,
		publisher: publisher,
		log:       log,
		chargeCap: opts.TestChargeCap,
		now:       opts.Now,
	}
}

// CreateBooking prices and stores a booking and, when payment details are
// given, settles it with the gateway before returning.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateResult, error) {
	if in.NumberOfPeople < 1 || in.AccountID <= 0 || in.BookingDate.IsZero() {
		return nil, ErrValidation
	}

	place, err := s.places.GetByID(ctx, in.PlaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}

	if in.NumberOfPeople > place.MaxCapacity {
		return nil, &CapacityError{Max: place.MaxCapacity}
	}

	b := &domain.Booking{
		UserID:         in.AccountID,
		PlaceID:        place.ID,
		BookingDate:    in.BookingDate,
		NumberOfPeople: in.NumberOfPeople,
		TotalPrice:     domain.BookingTotal(place.PricePerPerson, in.NumberOfPeople),
		Status:         domain.BookingPending,
		PaymentStatus:  domain.PaymentPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{"booking_id": b.ID, "user_id": b.UserID, "place_id": b.PlaceID})
	log.WithField("total_price", b.TotalPrice.StringFixed(2)).Info("booking created")
	s.publish(ctx, domain.EventBookingCreated, b)

	if in.Payment == nil {
		return &CreateResult{Booking: b}, nil
	}

	outcome, err := s.settle(ctx, b, place, *in.Payment)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Booking: b, Payment: outcome}, nil
}

// settle charges the payer once and reconciles the booking with the outcome.
// A failed charge leaves the booking pending so the tourist can retry.
func (s *Service) settle(ctx context.Context, b *domain.Booking, place *domain.Place, pd PaymentDetails) (*PaymentOutcome, error) {
	amount := domain.ChargeAmount(b.TotalPrice, s.chargeCap)
	res := s.charge(ctx, payment.ChargeRequest{
		Amount:         amount,
		PayerAccountNo: pd.PayerAccountNo,
		Description:    fmt.Sprintf("Tourism booking for %s - %d visitors", place.NameEng, b.NumberOfPeople),
		ReferenceID:    strconv.FormatInt(b.ID, 10),
	})

	status, paymentStatus := domain.BookingPending, domain.PaymentFailed
	outcome := &PaymentOutcome{
		Success:          res.Success,
		TotalAmount:      b.TotalPrice,
		ActualPaidAmount: amount,
		BookingStatus:    domain.PaymentOutcomeFailed,
		Gateway:          res.Data,
		Error:            res.Error,
	}
	var gatewayPayload any = res.Error
	if res.Success {
		status, paymentStatus = domain.BookingConfirmed, domain.PaymentPaid
		outcome.BookingStatus = domain.PaymentOutcomeConfirmed
		gatewayPayload = res.Data
	}

	// the charge already happened, so the audit row is written even if this fails
	updated, reconcileErr := s.bookings.UpdateStatus(ctx, b.ID, &status, &paymentStatus)
	if reconcileErr == nil {
		*b = *updated
	}

	raw, _ := json.Marshal(gatewayPayload)
	record := &domain.Payment{
		BookingID:        b.ID,
		UserID:           b.UserID,
		PlaceID:          place.ID,
		PlaceName:        place.NameEng,
		PayerName:        pd.PayerName,
		PayerAccountNo:   pd.PayerAccountNo,
		TimeSlot:         pd.TimeSlot,
		BookingDate:      b.BookingDate,
		VisitorCount:     b.NumberOfPeople,
		PricePerPerson:   place.PricePerPerson,
		TotalAmount:      b.TotalPrice,
		ActualPaidAmount: amount,
		GatewayResponse:  string(raw),
		BookingStatus:    outcome.BookingStatus,
	}
	if res.Data != nil {
		record.TransactionID = res.Data.TransactionID
	}

	log := s.log.WithFields(logrus.Fields{"booking_id": b.ID, "amount": amount.StringFixed(2)})
	// the charge already happened; losing the audit row must not hide that from the caller
	if err := s.payments.Create(ctx, record); err != nil {
		log.WithError(err).Error("payment record not saved")
	} else {
		outcome.PaymentID = record.ID
	}

	if res.Success {
		log.WithField("transaction_id", record.TransactionID).Info("payment settled")
		s.publish(ctx, domain.EventBookingConfirmed, b)
	} else {
		log.WithField("response_code", res.Error.ResponseCode).Warn("payment failed")
		s.publish(ctx, domain.EventPaymentFailed, b)
	}

	if reconcileErr != nil {
		log.WithError(reconcileErr).Error("booking not reconciled with payment outcome")
		return outcome, fmt.Errorf("reconcile booking %d after payment: %w", b.ID, reconcileErr)
	}
	return outcome, nil
}

// charge calls the gateway and folds every failure, panics included, into a
// failed ChargeResult.
func (s *Service) charge(ctx context.Context, req payment.ChargeRequest) (res payment.ChargeResult) {
	if s.gateway == nil {
		return payment.Failure(payment.CodeProcessingError, "payment gateway is not configured")
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("payment gateway panicked")
			res = payment.Failure(payment.CodeProcessingError, fmt.Sprint(r))
		}
	}()

	res = s.gateway.Charge(ctx, req)
	switch {
	case res.Success && res.Data == nil:
		res.Data = &payment.ChargeData{}
	case !res.Success && res.Error == nil:
		res = payment.Failure(payment.CodeProcessingError, "payment processing failed")
	}
	if res.Success {
		res.Error = nil
	} else {
		res.Data = nil
	}
	return res
}

// UpdateBookingStatus overrides either axis. Any combination is allowed.
func (s *Service) UpdateBookingStatus(ctx context.Context, id int64, status *domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if paymentStatus != nil && !paymentStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.bookings.UpdateStatus(ctx, id, status, paymentStatus)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.publish(ctx, domain.EventBookingUpdated, b)
	return b, nil
}

// CancelBooking is only available to the booking's own account.
func (s *Service) CancelBooking(ctx context.Context, id int64, p access.Principal) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !access.CanAccess(p, access.Owned(access.KindBooking, b.UserID), access.ActionCancel) {
		return nil, ErrForbidden
	}

	cancelled := domain.BookingCancelled
	b, err = s.bookings.UpdateStatus(ctx, id, &cancelled, nil)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.publish(ctx, domain.EventBookingCancelled, b)
	return b, nil
}

func (s *Service) DeleteBooking(ctx context.Context, id int64) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.publish(ctx, domain.EventBookingDeleted, b)
	return nil
}

type RemoveAction string

const (
	RemoveDeleted   RemoveAction = "deleted"
	RemoveCancelled RemoveAction = "cancelled"
)

// RemoveBooking backs DELETE /bookings/:id: admins hard delete, everyone
// else may only cancel their own booking.
func (s *Service) RemoveBooking(ctx context.Context, id int64, p access.Principal) (RemoveAction, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return "", mapNotFound(err)
	}
	if access.CanAccess(p, access.Owned(access.KindBooking, b.UserID), access.ActionDelete) {
		return RemoveDeleted, s.DeleteBooking(ctx, id)
	}
	if _, err := s.CancelBooking(ctx, id, p); err != nil {
		return "", err
	}
	return RemoveCancelled, nil
}

// HandlePaymentCallback applies an asynchronous gateway outcome. The latest
// write wins over whatever the synchronous path recorded.
func (s *Service) HandlePaymentCallback(ctx context.Context, bookingID int64, transactionID, status string) (*domain.Booking, bool, error) {
	log := s.log.WithFields(logrus.Fields{"booking_id": bookingID, "transaction_id": transactionID, "status": status})

	var (
		b   *domain.Booking
		err error
	)
	paid := status == "success"
	if paid {
		confirmed, ps := domain.BookingConfirmed, domain.PaymentPaid
		b, err = s.bookings.UpdateStatus(ctx, bookingID, &confirmed, &ps)
	} else {
		failed := domain.PaymentFailed
		b, err = s.bookings.UpdateStatus(ctx, bookingID, nil, &failed)
	}
	if err != nil {
		return nil, false, mapNotFound(err)
	}

	if paid {
		log.Info("payment callback confirmed booking")
		s.publish(ctx, domain.EventBookingConfirmed, b)
	} else {
		log.Warn("payment callback reported failure")
		s.publish(ctx, domain.EventPaymentFailed, b)
	}
	return b, paid, nil
}

func (s *Service) GetBooking(ctx context.Context, id int64, p access.Principal) (*BookingView, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !access.CanAccess(p, access.Owned(access.KindBooking, b.UserID), access.ActionRead) {
		return nil, ErrForbidden
	}

	views, err := s.views(ctx, []domain.Booking{*b})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) ListBookings(ctx context.Context, f repository.BookingFilter) ([]BookingView, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	rows, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, rows)
}

func (s *Service) ListUserBookings(ctx context.Context, userID int64, p access.Principal) ([]BookingView, error) {
	if !access.CanAccess(p, access.Owned(access.KindBooking, userID), access.ActionRead) {
		return nil, ErrForbidden
	}
	rows, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, rows)
}

// views joins bookings with their places and accounts.
func (s *Service) views(ctx context.Context, rows []domain.Booking) ([]BookingView, error) {
	placeIDs := make([]int64, 0, len(rows))
	userIDs := make([]int64, 0, len(rows))
	for _, b := range rows {
		placeIDs = append(placeIDs, b.PlaceID)
		userIDs = append(userIDs, b.UserID)
	}

	places, err := s.places.GetByIDsUnscoped(ctx, uniqueIDs(placeIDs))
	if err != nil {
		return nil, err
	}
	users, err := s.accounts.GetByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}

	out := make([]BookingView, 0, len(rows))
	for _, b := range rows {
		v := BookingView{Booking: b}
		if pl, ok := places[b.PlaceID]; ok {
			v.Place = &PlaceSnapshot{
				ID:             pl.ID,
				NameEng:        pl.NameEng,
				NameSom:        pl.NameSom,
				Category:       pl.Category,
				Location:       pl.Location,
				PricePerPerson: pl.PricePerPerson,
				ImagePath:      pl.ImagePath,
			}
			v.PlaceDeleted = pl.IsDeleted()
		} else {
			v.PlaceDeleted = true
		}
		if u, ok := users[b.UserID]; ok {
			v.User = &AccountSnapshot{
				ID:       u.ID,
				Username: u.Username,
				Email:    u.Email,
				FullName: u.FullName,
				Role:     u.Role,
			}
		} else {
			v.AccountDeleted = true
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, t domain.BookingEventType, b *domain.Booking) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, domain.NewBookingEvent(t, b, s.now()))
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookingNotFound
	}
	return err
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
