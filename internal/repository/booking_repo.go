package repository

import (
	"context"
	"strings"

	"tourism/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type BookingFilter struct {
	Query         string
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// List returns bookings newest first. Query matches the account's username,
// email or full name and the place's English name.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("bookings.payment_status = ?", f.PaymentStatus)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.
			Joins("LEFT JOIN users ON users.id = bookings.user_id").
			Joins("LEFT JOIN places ON places.id = bookings.place_id").
			Where(
				"LOWER(users.username) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(users.full_name) LIKE ? OR LOWER(places.name_eng) LIKE ?",
				like, like, like, like,
			)
	}

	var out []domain.Booking
	if err := q.Select("bookings.*").Order("bookings.created_at DESC, bookings.id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus writes only the non-nil axes and returns the fresh row.
// The row is locked for the duration of the write on databases that support it.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status *domain.BookingStatus, payment *domain.PaymentStatus) (*domain.Booking, error) {
	var out domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, id).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if status != nil {
			updates["status"] = *status
		}
		if payment != nil {
			updates["payment_status"] = *payment
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&out).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
