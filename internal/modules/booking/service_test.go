package booking

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"tourism/internal/access"
	"tourism/internal/domain"
	"tourism/internal/modules/payment"
	"tourism/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock repositories
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status *domain.BookingStatus, ps *domain.PaymentStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status, ps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockPlaceReader struct {
	mock.Mock
}

func (m *MockPlaceReader) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceReader) GetByIDsUnscoped(ctx context.Context, ids []int64) (map[int64]*domain.Place, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64]*domain.Place), args.Error(1)
}

type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64]*domain.User), args.Error(1)
}

type MockPaymentRecorder struct {
	mock.Mock
}

func (m *MockPaymentRecorder) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	p.ID = 501
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, req payment.ChargeRequest) payment.ChargeResult {
	args := m.Called(ctx, req)
	return args.Get(0).(payment.ChargeResult)
}

type panickingGateway struct{}

func (panickingGateway) Charge(context.Context, payment.ChargeRequest) payment.ChargeResult {
	panic("gateway client exploded")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []domain.BookingEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.BookingEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	bookings  *MockBookingRepository
	places    *MockPlaceReader
	accounts  *MockAccountReader
	payments  *MockPaymentRecorder
	gateway   *MockGateway
	publisher *recordingPublisher
	service   *Service
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(chargeCap *decimal.Decimal) *fixture {
	f := &fixture{
		bookings:  new(MockBookingRepository),
		places:    new(MockPlaceReader),
		accounts:  new(MockAccountReader),
		payments:  new(MockPaymentRecorder),
		gateway:   new(MockGateway),
		publisher: &recordingPublisher{},
	}
	f.service = NewService(f.bookings, f.places, f.accounts, f.payments, f.gateway, f.publisher, quietLogger(), Options{
		TestChargeCap: chargeCap,
		Now:           func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) },
	})
	return f
}

func lidoBeach() *domain.Place {
	return &domain.Place{
		ID:             10,
		NameEng:        "Lido Beach",
		NameSom:        "Xeebta Liido",
		Category:       domain.CategoryBeach,
		Location:       "Mogadishu",
		PricePerPerson: decimal.NewFromInt(5),
		MaxCapacity:    10,
	}
}

var visitDate = time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)

func statusIs(s domain.BookingStatus) interface{} {
	return mock.MatchedBy(func(v *domain.BookingStatus) bool { return v != nil && *v == s })
}

func paymentIs(s domain.PaymentStatus) interface{} {
	return mock.MatchedBy(func(v *domain.PaymentStatus) bool { return v != nil && *v == s })
}

func TestService_CreateBooking_CapacityExceeded(t *testing.T) {
	f := newFixture(nil)
	f.places.On("GetByID", mock.Anything, int64(10)).Return(lidoBeach(), nil)

	_, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 12,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 10, capErr.Max)
	assert.Contains(t, err.Error(), "10")
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_PlaceNotFound(t *testing.T) {
	f := newFixture(nil)
	f.places.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	_, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 404, BookingDate: visitDate, NumberOfPeople: 1,
	})

	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestService_CreateBooking_RejectsNonPositivePeople(t *testing.T) {
	f := newFixture(nil)

	_, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 0,
	})

	assert.ErrorIs(t, err, ErrValidation)
	f.places.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_WithoutPayment(t *testing.T) {
	f := newFixture(nil)
	f.places.On("GetByID", mock.Anything, int64(10)).Return(lidoBeach(), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 3,
	})

	require.NoError(t, err)
	assert.Nil(t, res.Payment)
	assert.Equal(t, int64(999), res.Booking.ID)
	assert.True(t, res.Booking.TotalPrice.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, domain.BookingPending, res.Booking.Status)
	assert.Equal(t, domain.PaymentPending, res.Booking.PaymentStatus)

	f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.bookings.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, []domain.BookingEventType{domain.EventBookingCreated}, f.publisher.types())
}

func TestService_CreateBooking_DecimalTotal(t *testing.T) {
	f := newFixture(nil)
	place := lidoBeach()
	place.PricePerPerson = decimal.RequireFromString("0.10")
	f.places.On("GetByID", mock.Anything, int64(10)).Return(place, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, "0.30", res.Booking.TotalPrice.StringFixed(2))
	assert.True(t, res.Booking.TotalPrice.Equal(decimal.RequireFromString("0.3")))
}

func paidDetails() *PaymentDetails {
	return &PaymentDetails{PayerName: "Amina Yusuf", PayerAccountNo: "252615000000", TimeSlot: "morning"}
}

func TestService_CreateBooking_PaymentSuccess(t *testing.T) {
	testCap := decimal.RequireFromString("0.01")
	f := newFixture(&testCap)
	f.places.On("GetByID", mock.Anything, int64(10)).Return(lidoBeach(), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	f.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(r payment.ChargeRequest) bool {
		return r.Amount.Equal(testCap) &&
			r.ReferenceID == "999" &&
			r.PayerAccountNo == "252615000000" &&
			r.Description == "Tourism booking for Lido Beach - 3 visitors"
	})).Return(payment.ChargeResult{
		Success: true,
		Data:    &payment.ChargeData{TransactionID: "TX-1", ResponseCode: "2001"},
	})

	confirmed := &domain.Booking{
		ID: 999, UserID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 3,
		TotalPrice: decimal.NewFromInt(15), Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid,
	}
	f.bookings.On("UpdateStatus", mock.Anything, int64(999), statusIs(domain.BookingConfirmed), paymentIs(domain.PaymentPaid)).
		Return(confirmed, nil)

	var saved *domain.Payment
	f.payments.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.Payment)
	}).Return(nil)

	res, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 3, Payment: paidDetails(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, res.Booking.Status)
	assert.Equal(t, domain.PaymentPaid, res.Booking.PaymentStatus)
	require.NotNil(t, res.Payment)
	assert.True(t, res.Payment.Success)
	assert.Equal(t, int64(501), res.Payment.PaymentID)
	assert.Equal(t, domain.PaymentOutcomeConfirmed, res.Payment.BookingStatus)

	f.payments.AssertNumberOfCalls(t, "Create", 1)
	require.NotNil(t, saved)
	assert.Equal(t, "TX-1", saved.TransactionID)
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(15)))
	assert.True(t, saved.ActualPaidAmount.Equal(testCap))
	assert.True(t, saved.ActualPaidAmount.LessThanOrEqual(saved.TotalAmount))
	assert.Equal(t, "Amina Yusuf", saved.PayerName)
	assert.Equal(t, "Lido Beach", saved.PlaceName)
	assert.Contains(t, saved.GatewayResponse, "TX-1")

	assert.Equal(t, []domain.BookingEventType{domain.EventBookingCreated, domain.EventBookingConfirmed}, f.publisher.types())
}

func TestService_CreateBooking_ChargeRecordedWhenReconcileFails(t *testing.T) {
	f := newFixture(nil)
	f.places.On("GetByID", mock.Anything, int64(10)).Return(lidoBeach(), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("Charge", mock.Anything, mock.Anything).Return(payment.ChargeResult{
		Success: true,
		Data:    &payment.ChargeData{TransactionID: "TX-9", ResponseCode: "2001"},
	})
	dbDown := errors.New("db down")
	f.bookings.On("UpdateStatus", mock.Anything, int64(999), mock.Anything, mock.Anything).Return(nil, dbDown)

	var saved *domain.Payment
	f.payments.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.Payment)
	}).Return(nil)

	res, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 3, Payment: paidDetails(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, dbDown)
	assert.Nil(t, res)

	f.gateway.AssertNumberOfCalls(t, "Charge", 1)
	f.payments.AssertNumberOfCalls(t, "Create", 1)
	require.NotNil(t, saved)
	assert.Equal(t, int64(999), saved.BookingID)
	assert.Equal(t, "TX-9", saved.TransactionID)
	assert.Equal(t, domain.PaymentOutcomeConfirmed, saved.BookingStatus)
	assert.Contains(t, saved.GatewayResponse, "TX-9")

	assert.Equal(t, []domain.BookingEventType{domain.EventBookingCreated, domain.EventBookingConfirmed}, f.publisher.types())
}

func TestService_CreateBooking_NoCapChargesFullPrice(t *testing.T) {
	f := newFixture(nil)
	f.places.On("GetByID", mock.Anything, int64(10)).Return(lidoBeach(), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(r payment.ChargeRequest) bool {
		return r.Amount.Equal(decimal.NewFromInt(15))
	})).Return(payment.ChargeResult{Success: true, Data: &payment.ChargeData{TransactionID: "TX-2"}})
	f.bookings.On("UpdateStatus", mock.Anything, int64(999), mock.Anything, mock.Anything).
		Return(&domain.Booking{ID: 999, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid, TotalPrice: decimal.NewFromInt(15)}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 3, Payment: paidDetails(),
	})

	require.NoError(t, err)
	assert.True(t, res.Payment.ActualPaidAmount.Equal(decimal.NewFromInt(15)))
	f.gateway.AssertExpectations(t)
}

func TestService_CreateBooking_PaymentDeclined(t *testing.T) {
	f := newFixture(nil)
	f.places.On("GetByID", mock.Anything, int64(10)).Return(lidoBeach(), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("Charge", mock.Anything, mock.Anything).
		Return(payment.Failure("5310", "RCS_USER_REJECTED"))

	failed := &domain.Booking{
		ID: 999, UserID: 3, PlaceID: 10, NumberOfPeople: 3, TotalPrice: decimal.NewFromInt(15),
		Status: domain.BookingPending, PaymentStatus: domain.PaymentFailed,
	}
	f.bookings.On("UpdateStatus", mock.Anything, int64(999), statusIs(domain.BookingPending), paymentIs(domain.PaymentFailed)).
		Return(failed, nil)

	var saved *domain.Payment
	f.payments.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.Payment)
	}).Return(nil)

	res, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 3, Payment: paidDetails(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, res.Booking.Status)
	assert.NotEqual(t, domain.BookingCancelled, res.Booking.Status)
	assert.Equal(t, domain.PaymentFailed, res.Booking.PaymentStatus)
	assert.False(t, res.Payment.Success)
	assert.Equal(t, "RCS_USER_REJECTED", res.Payment.Message())

	f.payments.AssertNumberOfCalls(t, "Create", 1)
	require.NotNil(t, saved)
	assert.Empty(t, saved.TransactionID)
	assert.Equal(t, domain.PaymentOutcomeFailed, saved.BookingStatus)
	assert.Contains(t, saved.GatewayResponse, "5310")
	assert.Equal(t, []domain.BookingEventType{domain.EventBookingCreated, domain.EventPaymentFailed}, f.publisher.types())
}

func TestService_CreateBooking_GatewayPanicIsFailure(t *testing.T) {
	f := newFixture(nil)
	f.service.gateway = panickingGateway{}
	f.places.On("GetByID", mock.Anything, int64(10)).Return(lidoBeach(), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.bookings.On("UpdateStatus", mock.Anything, int64(999), statusIs(domain.BookingPending), paymentIs(domain.PaymentFailed)).
		Return(&domain.Booking{ID: 999, Status: domain.BookingPending, PaymentStatus: domain.PaymentFailed}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 2, Payment: paidDetails(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, res.Booking.PaymentStatus)
	require.NotNil(t, res.Payment.Error)
	assert.Equal(t, payment.CodeProcessingError, res.Payment.Error.ResponseCode)
}

func TestService_CreateBooking_PaymentRecordFailureStillReportsOutcome(t *testing.T) {
	f := newFixture(nil)
	f.places.On("GetByID", mock.Anything, int64(10)).Return(lidoBeach(), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("Charge", mock.Anything, mock.Anything).
		Return(payment.ChargeResult{Success: true, Data: &payment.ChargeData{TransactionID: "TX-9"}})
	f.bookings.On("UpdateStatus", mock.Anything, int64(999), mock.Anything, mock.Anything).
		Return(&domain.Booking{ID: 999, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	res, err := f.service.CreateBooking(context.Background(), CreateBookingInput{
		AccountID: 3, PlaceID: 10, BookingDate: visitDate, NumberOfPeople: 2, Payment: paidDetails(),
	})

	require.NoError(t, err)
	assert.True(t, res.Payment.Success)
	assert.Zero(t, res.Payment.PaymentID)
}

func TestService_CancelBooking_OwnerOnly(t *testing.T) {
	f := newFixture(nil)
	owned := &domain.Booking{ID: 7, UserID: 3, Status: domain.BookingPending}
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(owned, nil)

	other := access.Principal{AccountID: 4, Role: domain.RoleTourist}
	_, err := f.service.CancelBooking(context.Background(), 7, other)
	assert.ErrorIs(t, err, ErrForbidden)

	coworker := access.Principal{AccountID: 2, Role: domain.RoleCoWorker}
	_, err = f.service.CancelBooking(context.Background(), 7, coworker)
	assert.ErrorIs(t, err, ErrForbidden)
	f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	f.bookings.On("UpdateStatus", mock.Anything, int64(7), statusIs(domain.BookingCancelled), (*domain.PaymentStatus)(nil)).
		Return(&domain.Booking{ID: 7, UserID: 3, Status: domain.BookingCancelled}, nil)

	owner := access.Principal{AccountID: 3, Role: domain.RoleTourist}
	b, err := f.service.CancelBooking(context.Background(), 7, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
}

func TestService_RemoveBooking_AdminDeletesRegardlessOfOwner(t *testing.T) {
	f := newFixture(nil)
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(&domain.Booking{ID: 7, UserID: 3}, nil)
	f.bookings.On("Delete", mock.Anything, int64(7)).Return(nil)

	admin := access.Principal{AccountID: 1, Role: domain.RoleAdmin}
	action, err := f.service.RemoveBooking(context.Background(), 7, admin)

	require.NoError(t, err)
	assert.Equal(t, RemoveDeleted, action)
	f.bookings.AssertCalled(t, "Delete", mock.Anything, int64(7))
	assert.Contains(t, f.publisher.types(), domain.EventBookingDeleted)
}

func TestService_RemoveBooking_TouristCancelsOwn(t *testing.T) {
	f := newFixture(nil)
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(&domain.Booking{ID: 7, UserID: 3}, nil)
	f.bookings.On("UpdateStatus", mock.Anything, int64(7), statusIs(domain.BookingCancelled), (*domain.PaymentStatus)(nil)).
		Return(&domain.Booking{ID: 7, UserID: 3, Status: domain.BookingCancelled}, nil)

	action, err := f.service.RemoveBooking(context.Background(), 7, access.Principal{AccountID: 3, Role: domain.RoleTourist})

	require.NoError(t, err)
	assert.Equal(t, RemoveCancelled, action)
	f.bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_RemoveBooking_NotFound(t *testing.T) {
	f := newFixture(nil)
	f.bookings.On("GetByID", mock.Anything, int64(8)).Return(nil, repository.ErrNotFound)

	_, err := f.service.RemoveBooking(context.Background(), 8, access.Principal{AccountID: 1, Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_UpdateBookingStatus(t *testing.T) {
	f := newFixture(nil)

	bad := domain.BookingStatus("archived")
	_, err := f.service.UpdateBookingStatus(context.Background(), 7, &bad, nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	badPay := domain.PaymentStatus("refunded")
	_, err = f.service.UpdateBookingStatus(context.Background(), 7, nil, &badPay)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// any pair is allowed, including completed + failed
	completed, failed := domain.BookingCompleted, domain.PaymentFailed
	f.bookings.On("UpdateStatus", mock.Anything, int64(7), statusIs(completed), paymentIs(failed)).
		Return(&domain.Booking{ID: 7, Status: completed, PaymentStatus: failed}, nil)
	b, err := f.service.UpdateBookingStatus(context.Background(), 7, &completed, &failed)
	require.NoError(t, err)
	assert.Equal(t, completed, b.Status)
	assert.Equal(t, failed, b.PaymentStatus)

	f.bookings.On("UpdateStatus", mock.Anything, int64(8), mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
	_, err = f.service.UpdateBookingStatus(context.Background(), 8, &completed, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_HandlePaymentCallback(t *testing.T) {
	f := newFixture(nil)
	f.bookings.On("UpdateStatus", mock.Anything, int64(7), statusIs(domain.BookingConfirmed), paymentIs(domain.PaymentPaid)).
		Return(&domain.Booking{ID: 7, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid}, nil)
	f.bookings.On("UpdateStatus", mock.Anything, int64(8), (*domain.BookingStatus)(nil), paymentIs(domain.PaymentFailed)).
		Return(&domain.Booking{ID: 8, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentFailed}, nil)

	b, paid, err := f.service.HandlePaymentCallback(context.Background(), 7, "TX-7", "success")
	require.NoError(t, err)
	assert.True(t, paid)
	assert.Equal(t, domain.BookingConfirmed, b.Status)

	// failure leaves status alone
	b, paid, err = f.service.HandlePaymentCallback(context.Background(), 8, "TX-8", "declined")
	require.NoError(t, err)
	assert.False(t, paid)
	assert.Equal(t, domain.PaymentFailed, b.PaymentStatus)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestService_GetBooking_JoinsAndDeletedAccount(t *testing.T) {
	f := newFixture(nil)
	f.bookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, UserID: 3, PlaceID: 10, Status: domain.BookingPending}, nil)
	f.places.On("GetByIDsUnscoped", mock.Anything, []int64{10}).
		Return(map[int64]*domain.Place{10: lidoBeach()}, nil)
	f.accounts.On("GetByIDs", mock.Anything, []int64{3}).
		Return(map[int64]*domain.User{}, nil)

	admin := access.Principal{AccountID: 1, Role: domain.RoleAdmin}
	v, err := f.service.GetBooking(context.Background(), 7, admin)

	require.NoError(t, err)
	require.NotNil(t, v.Place)
	assert.Equal(t, "Lido Beach", v.Place.NameEng)
	assert.False(t, v.PlaceDeleted)
	assert.Nil(t, v.User)
	assert.True(t, v.AccountDeleted)
}

func TestService_GetBooking_ForbiddenForOtherTourist(t *testing.T) {
	f := newFixture(nil)
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(&domain.Booking{ID: 7, UserID: 3}, nil)

	_, err := f.service.GetBooking(context.Background(), 7, access.Principal{AccountID: 4, Role: domain.RoleTourist})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_ListUserBookings_SelfOnlyForTourists(t *testing.T) {
	f := newFixture(nil)
	tourist := access.Principal{AccountID: 3, Role: domain.RoleTourist}

	_, err := f.service.ListUserBookings(context.Background(), 4, tourist)
	assert.ErrorIs(t, err, ErrForbidden)

	f.bookings.On("ListByUser", mock.Anything, int64(3)).Return([]domain.Booking{}, nil)
	f.places.On("GetByIDsUnscoped", mock.Anything, []int64{}).Return(map[int64]*domain.Place{}, nil)
	f.accounts.On("GetByIDs", mock.Anything, []int64{}).Return(map[int64]*domain.User{}, nil)

	views, err := f.service.ListUserBookings(context.Background(), 3, tourist)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestService_ListBookings_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(nil)
	_, err := f.service.ListBookings(context.Background(), repository.BookingFilter{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTicketPayload(t *testing.T) {
	v := &BookingView{Booking: domain.Booking{ID: 42, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid}}
	assert.Equal(t, "TOURISM-BOOKING:42:confirmed:paid", TicketPayload(v))
}

func TestService_Ticket_RendersPNG(t *testing.T) {
	f := newFixture(nil)
	f.bookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, UserID: 3, PlaceID: 10, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid}, nil)
	f.places.On("GetByIDsUnscoped", mock.Anything, []int64{10}).Return(map[int64]*domain.Place{10: lidoBeach()}, nil)
	f.accounts.On("GetByIDs", mock.Anything, []int64{3}).Return(map[int64]*domain.User{3: {ID: 3, Username: "amina"}}, nil)

	png, err := f.service.Ticket(context.Background(), 7, access.Principal{AccountID: 3, Role: domain.RoleTourist})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))
}
