package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryEarring  Category = "earring"
	CategoryRing     Category = "ring"
	CategoryBracelet Category = "bracelet"
	CategoryNecklace Category = "necklace"
)

// Categories lists every catalog category in display order.
var Categories = []Category{CategoryEarring, CategoryRing, CategoryBracelet, CategoryNecklace}

func (c Category) Valid() bool {
	switch c {
	case CategoryEarring, CategoryRing, CategoryBracelet, CategoryNecklace:
		return true
	}
	return false
}

type ProductStatus string

const (
	ProductActive  ProductStatus = "active"
	ProductRemoved ProductStatus = "removed"
)

type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Photo     string          `json:"photo,omitempty"`
	Status    ProductStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductRequest is the body for both product create and update (full overwrite)
type ProductRequest struct {
	Name     string           `json:"name" validate:"required"`
	Category Category         `json:"category" validate:"required,oneof=earring ring bracelet necklace"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Photo    string           `json:"photo"`
}
