package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(63);index" validate:"required,max=63"`
	Description string          `json:"description" gorm:"type:varchar(256)" validate:"omitempty,max=256"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// ProductInput is the payload for create and update requests. Price is a
// pointer so a missing field can be told apart from an explicit zero.
type ProductInput struct {
	Name        string           `json:"name" validate:"required,max=63"`
	Description string           `json:"description" validate:"omitempty,max=256"`
	Price       *decimal.Decimal `json:"price"`
}

// DiscountInput is the payload for the discount action.
type DiscountInput struct {
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
}

// ProductFilter narrows a product listing. All present filters are ANDed;
// a nil or empty field means no constraint. Name matches as a
// case-insensitive substring, price bounds are inclusive.
type ProductFilter struct {
	Name     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
