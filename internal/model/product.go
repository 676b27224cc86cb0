package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a tea (or accessory) in the catalogue.
type Product struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Slug         string          `json:"slug" db:"slug"`
	Description  string          `json:"description" db:"description"`
	Category     string          `json:"category" db:"category"`
	PricePer100g decimal.Decimal `json:"pricePer100g" db:"price_per_100g"`
	ImageURL     string          `json:"imageUrl" db:"image_url"`
	StockGrams   int             `json:"stockGrams" db:"stock_grams"`
	Active       bool            `json:"active" db:"active"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProductSize represents a sellable package size of a product.
type ProductSize struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	SizeGrams int             `json:"sizeGrams" db:"size_grams"`
	Price     decimal.Decimal `json:"price" db:"price"`
	InStock   bool            `json:"inStock" db:"in_stock"`
}

// ProductDetail is a product together with its package sizes.
type ProductDetail struct {
	Product
	Sizes []ProductSize `json:"sizes"`
}

// ProductRequest is the admin payload for creating or updating a product.
type ProductRequest struct {
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	PricePer100g decimal.Decimal `json:"pricePer100g"`
	ImageURL     string          `json:"imageUrl"`
	StockGrams   int             `json:"stockGrams"`
	Active       bool            `json:"active"`
}

// ProductSizeRequest is the admin payload for adding a package size.
type ProductSizeRequest struct {
	SizeGrams int             `json:"sizeGrams"`
	Price     decimal.Decimal `json:"price"`
	InStock   bool            `json:"inStock"`
}
