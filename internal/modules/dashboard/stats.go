package dashboard

import (
	"sort"
	"time"

	"tourism/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	monthsInRollup   = 6
	topDestinations  = 5
	recentBookingCap = 5
)

type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Destination struct {
	Place        domain.Place    `json:"place"`
	BookingCount int             `json:"bookingCount"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type Stats struct {
	TotalPlaces          int                          `json:"totalPlaces"`
	TotalUsers           int                          `json:"totalUsers"`
	TotalBookings        int                          `json:"totalBookings"`
	TotalRevenue         decimal.Decimal              `json:"totalRevenue"`
	PendingBookings      int                          `json:"pendingBookings"`
	ConfirmedBookings    int                          `json:"confirmedBookings"`
	CancelledBookings    int                          `json:"cancelledBookings"`
	CompletedBookings    int                          `json:"completedBookings"`
	PaidBookings         int                          `json:"paidBookings"`
	UsersByRole          map[domain.UserRole]int      `json:"usersByRole"`
	CategoryDistribution map[domain.PlaceCategory]int `json:"categoryDistribution"`
	MonthlyRevenue       []MonthlyRevenue             `json:"monthlyRevenue"`
	TopDestinations      []Destination                `json:"topDestinations"`
	RecentBookings       []domain.Booking             `json:"recentBookings"`
	GeneratedAt          time.Time                    `json:"generatedAt"`
}

// Aggregate projects the full collections into dashboard statistics. Revenue
// only counts bookings whose payment status is paid. Inputs are not modified.
func Aggregate(places []domain.Place, bookings []domain.Booking, users []domain.User, now time.Time) Stats {
	s := Stats{
		TotalPlaces:          len(places),
		TotalUsers:           len(users),
		TotalBookings:        len(bookings),
		TotalRevenue:         decimal.Zero,
		UsersByRole:          make(map[domain.UserRole]int),
		CategoryDistribution: make(map[domain.PlaceCategory]int),
		GeneratedAt:          now,
	}

	for _, u := range users {
		s.UsersByRole[u.Role]++
	}
	for _, p := range places {
		s.CategoryDistribution[p.Category]++
	}

	months, index := monthBuckets(now)
	perPlace := make(map[int64]*Destination)

	for _, b := range bookings {
		switch b.Status {
		case domain.BookingPending:
			s.PendingBookings++
		case domain.BookingConfirmed:
			s.ConfirmedBookings++
		case domain.BookingCancelled:
			s.CancelledBookings++
		case domain.BookingCompleted:
			s.CompletedBookings++
		}

		d, ok := perPlace[b.PlaceID]
		if !ok {
			d = &Destination{Revenue: decimal.Zero}
			perPlace[b.PlaceID] = d
		}
		d.BookingCount++

		if b.PaymentStatus != domain.PaymentPaid {
			continue
		}
		s.PaidBookings++
		s.TotalRevenue = s.TotalRevenue.Add(b.TotalPrice)
		d.Revenue = d.Revenue.Add(b.TotalPrice)
		if i, ok := index[monthKey(b.CreatedAt.In(now.Location()))]; ok {
			months[i].Revenue = months[i].Revenue.Add(b.TotalPrice)
		}
	}
	s.MonthlyRevenue = months

	s.TopDestinations = make([]Destination, 0, topDestinations)
	for _, p := range places {
		d, ok := perPlace[p.ID]
		if !ok {
			continue
		}
		d.Place = p
		s.TopDestinations = append(s.TopDestinations, *d)
	}
	sort.SliceStable(s.TopDestinations, func(i, j int) bool {
		return s.TopDestinations[i].BookingCount > s.TopDestinations[j].BookingCount
	})
	if len(s.TopDestinations) > topDestinations {
		s.TopDestinations = s.TopDestinations[:topDestinations]
	}

	recent := make([]domain.Booking, len(bookings))
	copy(recent, bookings)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentBookingCap {
		recent = recent[:recentBookingCap]
	}
	s.RecentBookings = recent

	return s
}

// monthBuckets returns the last six calendar months, oldest first, ending
// with the month of now.
func monthBuckets(now time.Time) ([]MonthlyRevenue, map[string]int) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthlyRevenue, 0, monthsInRollup)
	index := make(map[string]int, monthsInRollup)
	for i := monthsInRollup - 1; i >= 0; i-- {
		key := monthKey(first.AddDate(0, -i, 0))
		index[key] = len(out)
		out = append(out, MonthlyRevenue{Month: key, Revenue: decimal.Zero})
	}
	return out, index
}

func monthKey(t time.Time) string {
	return t.Format("Jan 2006")
}
