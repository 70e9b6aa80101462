package catalog

import (
	"context"
	"errors"
	"strings"

	"tourism/internal/domain"
	"tourism/internal/pkg/validator"
	"tourism/internal/repository"
)

type Service struct {
	places PlaceRepository
}

func NewService(places PlaceRepository) *Service {
	return &Service{places: places}
}

func (s *Service) CreatePlace(ctx context.Context, req CreatePlaceRequest) (*domain.Place, error) {
	p := &domain.Place{
		NameEng:        strings.TrimSpace(req.NameEng),
		NameSom:        strings.TrimSpace(req.NameSom),
		DescEng:        req.DescEng,
		DescSom:        req.DescSom,
		Category:       domain.PlaceCategory(strings.ToLower(strings.TrimSpace(string(req.Category)))),
		Location:       strings.TrimSpace(req.Location),
		PricePerPerson: req.PricePerPerson.Round(domain.CurrencyPlaces),
		MaxCapacity:    req.MaxCapacity,
		ImagePath:      req.ImagePath,
	}
	if err := validatePlace(p); err != nil {
		return nil, err
	}
	if err := s.places.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPlace(ctx context.Context, id int64) (*domain.Place, error) {
	p, err := s.places.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (s *Service) ListPlaces(ctx context.Context, query string, category string) ([]domain.Place, error) {
	f := repository.PlaceFilter{Query: query}
	if category = strings.TrimSpace(category); category != "" {
		c := domain.PlaceCategory(strings.ToLower(category))
		if !c.Valid() {
			return nil, ErrInvalidCategory
		}
		f.Category = c
	}

	out, err := s.places.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Place{}
	}
	return out, nil
}

// UpdatePlace applies a partial edit and re-checks every invariant.
func (s *Service) UpdatePlace(ctx context.Context, id int64, req UpdatePlaceRequest) (*domain.Place, error) {
	p, err := s.places.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if req.NameEng != nil {
		p.NameEng = strings.TrimSpace(*req.NameEng)
	}
	if req.NameSom != nil {
		p.NameSom = strings.TrimSpace(*req.NameSom)
	}
	if req.DescEng != nil {
		p.DescEng = *req.DescEng
	}
	if req.DescSom != nil {
		p.DescSom = *req.DescSom
	}
	if req.Category != nil {
		p.Category = domain.PlaceCategory(strings.ToLower(strings.TrimSpace(string(*req.Category))))
	}
	if req.Location != nil {
		p.Location = strings.TrimSpace(*req.Location)
	}
	if req.PricePerPerson != nil {
		p.PricePerPerson = req.PricePerPerson.Round(domain.CurrencyPlaces)
	}
	if req.MaxCapacity != nil {
		p.MaxCapacity = *req.MaxCapacity
	}
	if req.ImagePath != nil {
		p.ImagePath = *req.ImagePath
	}

	if err := validatePlace(p); err != nil {
		return nil, err
	}
	if err := s.places.Update(ctx, p); err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

// DeletePlace removes the place from the catalog. Existing bookings keep
// their reference.
func (s *Service) DeletePlace(ctx context.Context, id int64) error {
	return mapNotFound(s.places.Delete(ctx, id))
}

func validatePlace(p *domain.Place) error {
	if fields := validator.Validate(p); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlaceNotFound
	}
	return err
}
