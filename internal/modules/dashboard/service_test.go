package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"tourism/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockPlaces struct{ mock.Mock }

func (m *mockPlaces) ListAll(ctx context.Context) ([]domain.Place, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Place), args.Error(1)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) ListAll(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) List(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	places, bookings, users := fixture(now)

	p := new(mockPlaces)
	p.On("ListAll", mock.Anything).Return(places, nil)
	b := new(mockBookings)
	b.On("ListAll", mock.Anything).Return(bookings, nil)
	u := new(mockUsers)
	u.On("List", mock.Anything, domain.UserRole("")).Return(users, nil)

	svc := NewService(p, b, u)
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_Stats(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalBookings)
	assert.True(t, stats.TotalRevenue.Equal(dec("135.50")))
}

func TestService_Stats_PropagatesErrors(t *testing.T) {
	p := new(mockPlaces)
	p.On("ListAll", mock.Anything).Return(nil, errors.New("db down"))
	svc := NewService(p, new(mockBookings), new(mockUsers))

	_, err := svc.Stats(context.Background())

	assert.ErrorContains(t, err, "db down")
}

func TestService_Export(t *testing.T) {
	svc := newTestService(t)

	data, err := svc.Export(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetBookings, sheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(sheetBookings)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "Place", rows[0][1])
	assert.Equal(t, "Lido Beach", rows[1][1])

	total, err := f.GetCellValue(sheetSummary, "B9")
	require.NoError(t, err)
	assert.Equal(t, "135.5", total)
}
