package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem represents a row in a user's cart.
type CartItem struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"-" db:"user_id"`
	ProductID    uuid.UUID  `json:"productId" db:"product_id"`
	SizeID       *uuid.UUID `json:"sizeId,omitempty" db:"size_id"`
	GramsOrdered int        `json:"gramsOrdered" db:"grams_ordered"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItemDetail is a cart item joined with product and size information.
type CartItemDetail struct {
	CartItem
	ProductName string          `json:"productName"`
	SizeGrams   int             `json:"sizeGrams"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// CartResponse is a user's cart with its running total.
type CartResponse struct {
	Items []CartItemDetail `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

// AddCartItemRequest is the payload for adding an item to the cart.
type AddCartItemRequest struct {
	ProductID    uuid.UUID  `json:"productId"`
	SizeID       *uuid.UUID `json:"sizeId,omitempty"`
	GramsOrdered int        `json:"gramsOrdered"`
}

// UpdateCartItemRequest is the payload for changing an item's quantity.
type UpdateCartItemRequest struct {
	GramsOrdered int `json:"gramsOrdered"`
}
