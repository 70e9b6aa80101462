package dashboard

import (
	"bytes"
	"context"
	"fmt"

	"tourism/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	sheetBookings = "Bookings"
	sheetSummary  = "Summary"
)

var bookingHeaders = []string{
	"ID", "Place", "Category", "User", "Booking Date", "People",
	"Total Price", "Status", "Payment Status", "Created At",
}

// Export renders every booking and the aggregate figures as an xlsx workbook.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	stats := Aggregate(snap.places, snap.bookings, snap.users, s.now())

	places := make(map[int64]domain.Place, len(snap.places))
	for _, p := range snap.places {
		places[p.ID] = p
	}
	users := make(map[int64]domain.User, len(snap.users))
	for _, u := range snap.users {
		users[u.ID] = u
	}

	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes the bookings sheet
	if err := f.SetSheetName("Sheet1", sheetBookings); err != nil {
		return nil, err
	}
	for i, h := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetBookings, cell, h); err != nil {
			return nil, err
		}
	}

	for i, b := range snap.bookings {
		placeName, category := "(deleted place)", ""
		if p, ok := places[b.PlaceID]; ok {
			placeName, category = p.NameEng, string(p.Category)
		}
		userName := "(deleted account)"
		if u, ok := users[b.UserID]; ok {
			userName = u.Username
		}

		price, _ := b.TotalPrice.Float64()
		row := []interface{}{
			b.ID, placeName, category, userName, b.BookingDate.Format("2006-01-02"), b.NumberOfPeople,
			price, string(b.Status), string(b.PaymentStatus), b.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetBookings, cell, &row); err != nil {
			return nil, fmt.Errorf("write booking row: %w", err)
		}
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	revenue, _ := stats.TotalRevenue.Float64()
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Total places", stats.TotalPlaces},
		{"Total users", stats.TotalUsers},
		{"Total bookings", stats.TotalBookings},
		{"Pending bookings", stats.PendingBookings},
		{"Confirmed bookings", stats.ConfirmedBookings},
		{"Cancelled bookings", stats.CancelledBookings},
		{"Completed bookings", stats.CompletedBookings},
		{"Total revenue", revenue},
		{},
		{"Month", "Revenue"},
	}
	for _, m := range stats.MonthlyRevenue {
		v, _ := m.Revenue.Float64()
		summary = append(summary, []interface{}{m.Month, v})
	}
	for i := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &summary[i]); err != nil {
			return nil, fmt.Errorf("write summary row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
