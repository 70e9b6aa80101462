package catalog

import (
	"tourism/internal/domain"

	"github.com/shopspring/decimal"
)

type CreatePlaceRequest struct {
	NameEng        string               `json:"name_eng" binding:"required"`
	NameSom        string               `json:"name_som" binding:"required"`
	DescEng        string               `json:"desc_eng"`
	DescSom        string               `json:"desc_som"`
	Category       domain.PlaceCategory `json:"category" binding:"required"`
	Location       string               `json:"location" binding:"required"`
	PricePerPerson decimal.Decimal      `json:"pricePerPerson"`
	MaxCapacity    int                  `json:"maxCapacity"`
	ImagePath      string               `json:"image_path"`
}

// UpdatePlaceRequest is a partial update; nil fields are left unchanged.
type UpdatePlaceRequest struct {
	NameEng        *string               `json:"name_eng"`
	NameSom        *string               `json:"name_som"`
	DescEng        *string               `json:"desc_eng"`
	DescSom        *string               `json:"desc_som"`
	Category       *domain.PlaceCategory `json:"category"`
	Location       *string               `json:"location"`
	PricePerPerson *decimal.Decimal      `json:"pricePerPerson"`
	MaxCapacity    *int                  `json:"maxCapacity"`
	ImagePath      *string               `json:"image_path"`
}

type PlaceListResponse struct {
	Places []domain.Place `json:"places"`
	Count  int            `json:"count"`
}
