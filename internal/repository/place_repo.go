package repository

import (
	"context"
	"strings"

	"tourism/internal/domain"

	"gorm.io/gorm"
)

type PlaceRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

type PlaceFilter struct {
	Query    string
	Category domain.PlaceCategory
}

func (r *PlaceRepository) Create(ctx context.Context, p *domain.Place) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PlaceRepository) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	var p domain.Place
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// GetByIDsUnscoped resolves places including soft deleted ones, keyed by id.
func (r *PlaceRepository) GetByIDsUnscoped(ctx context.Context, ids []int64) (map[int64]*domain.Place, error) {
	out := make(map[int64]*domain.Place, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Place
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (r *PlaceRepository) List(ctx context.Context, f PlaceFilter) ([]domain.Place, error) {
	q := r.db.WithContext(ctx).Model(&domain.Place{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(name_eng) LIKE ? OR LOWER(name_som) LIKE ? OR LOWER(location) LIKE ?",
			like, like, like,
		)
	}

	var out []domain.Place
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every live place. Used by dashboard scans.
func (r *PlaceRepository) ListAll(ctx context.Context) ([]domain.Place, error) {
	var out []domain.Place
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PlaceRepository) Update(ctx context.Context, p *domain.Place) error {
	res := r.db.WithContext(ctx).Model(p).Select(
		"name_eng", "name_som", "desc_eng", "desc_som", "category",
		"location", "price_per_person", "max_capacity", "image_path",
	).Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft deletes the place.
func (r *PlaceRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Place{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
