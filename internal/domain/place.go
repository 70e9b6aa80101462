package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PlaceCategory string

const (
	CategoryBeach      PlaceCategory = "beach"
	CategoryHistorical PlaceCategory = "historical"
	CategoryCultural   PlaceCategory = "cultural"
	CategoryReligious  PlaceCategory = "religious"
	CategorySuburb     PlaceCategory = "suburb"
	CategoryUrbanPark  PlaceCategory = "urban park"
)

// PlaceCategories lists the closed set of categories in display order.
var PlaceCategories = []PlaceCategory{
	CategoryBeach,
	CategoryHistorical,
	CategoryCultural,
	CategoryReligious,
	CategorySuburb,
	CategoryUrbanPark,
}

func (c PlaceCategory) Valid() bool {
	for _, v := range PlaceCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Place is a bookable destination. Names and descriptions are stored side by
// side in English and Somali.
type Place struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	NameEng        string          `json:"name_eng" gorm:"column:name_eng;not null" validate:"required"`
	NameSom        string          `json:"name_som" gorm:"column:name_som;not null" validate:"required"`
	DescEng        string          `json:"desc_eng" gorm:"column:desc_eng;type:text"`
	DescSom        string          `json:"desc_som" gorm:"column:desc_som;type:text"`
	Category       PlaceCategory   `json:"category" gorm:"type:varchar(32);index;not null" validate:"required,oneof=beach historical cultural religious suburb 'urban park'"`
	Location       string          `json:"location" validate:"required"`
	PricePerPerson decimal.Decimal `json:"pricePerPerson" gorm:"column:price_per_person;type:numeric(12,2);not null" validate:"gte=0"`
	MaxCapacity    int             `json:"maxCapacity" gorm:"column:max_capacity;not null" validate:"min=1"`
	ImagePath      string          `json:"image_path" gorm:"column:image_path"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Place) TableName() string { return "places" }

// IsDeleted reports whether the place was removed from the catalog.
// Bookings keep resolving deleted places through unscoped reads.
func (p *Place) IsDeleted() bool { return p.DeletedAt.Valid }
