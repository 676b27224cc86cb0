package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the lifecycle states of an order.
// The expected progression is pending -> paid -> shipped -> delivered, with
// cancelled reachable from any pre-delivered state. Nothing enforces this:
// any writer may set any status.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a member of the status enum.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a customer order.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"userId" db:"user_id"`
	TotalAmount   decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status        OrderStatus     `json:"status" db:"status"`
	RecipientName string          `json:"recipientName" db:"recipient_name"`
	Phone         string          `json:"phone" db:"phone"`
	County        string          `json:"county" db:"county"`
	Town          string          `json:"town" db:"town"`
	StreetAddress string          `json:"streetAddress" db:"street_address"`
	MpesaReceipt  *string         `json:"mpesaReceipt,omitempty" db:"mpesa_receipt"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	PaidAt        *time.Time      `json:"paidAt,omitempty" db:"paid_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Created once at order
// placement, immutable afterward.
type OrderItem struct {
	ID           uuid.UUID       `json:"-" db:"id"`
	OrderID      uuid.UUID       `json:"-" db:"order_id"`
	ProductID    uuid.UUID       `json:"productId" db:"product_id"`
	SizeID       *uuid.UUID      `json:"sizeId,omitempty" db:"size_id"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice" db:"unit_price"`
	GramsOrdered int             `json:"gramsOrdered" db:"grams_ordered"`
}

// CheckoutRequest represents the checkout form payload.
type CheckoutRequest struct {
	PhoneNumber   string  `json:"phoneNumber"`
	RecipientName string  `json:"recipientName"`
	County        string  `json:"county"`
	Town          string  `json:"town"`
	StreetAddress string  `json:"streetAddress"`
	PromoCode     *string `json:"promoCode,omitempty"`
}

// CheckoutResponse is returned once the order is written and the push-payment
// request has been issued.
type CheckoutResponse struct {
	OrderID           uuid.UUID       `json:"orderId"`
	CheckoutRequestID string          `json:"checkoutRequestId"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
}

// OrderResponse is an order together with its line items.
type OrderResponse struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// OrderStatusRequest is the admin payload for setting an order's status.
type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
