package catalog

import (
	"context"

	"tourism/internal/domain"
	"tourism/internal/repository"
)

type PlaceRepository interface {
	Create(ctx context.Context, p *domain.Place) error
	GetByID(ctx context.Context, id int64) (*domain.Place, error)
	List(ctx context.Context, f repository.PlaceFilter) ([]domain.Place, error)
	Update(ctx context.Context, p *domain.Place) error
	Delete(ctx context.Context, id int64) error
}
