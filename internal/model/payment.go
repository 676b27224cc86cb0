package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates the states of a push-payment request.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusTimeout PaymentStatus = "timeout"
)

// Payment represents a push-payment request and its eventual outcome.
// A row is created when the STK push is issued and updated exactly once by
// the callback receiver (or by the status poller on a definitive result).
type Payment struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	CheckoutRequestID string          `json:"checkoutRequestId" db:"checkout_request_id"`
	OrderID           uuid.UUID       `json:"orderId" db:"order_id"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	PhoneNumber       string          `json:"phoneNumber" db:"phone_number"`
	MpesaReceipt      *string         `json:"mpesaReceipt,omitempty" db:"mpesa_receipt"`
	Status            PaymentStatus   `json:"status" db:"status"`
	ResultCode        *int            `json:"resultCode,omitempty" db:"result_code"`
	ResultDesc        *string         `json:"resultDesc,omitempty" db:"result_desc"`
	RawCallback       []byte          `json:"-" db:"raw_callback"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`
}

// PaymentStatusResponse is returned by the checkout status endpoint.
type PaymentStatusResponse struct {
	CheckoutRequestID string        `json:"checkoutRequestId"`
	Status            PaymentStatus `json:"status"`
	ResultDesc        string        `json:"resultDesc,omitempty"`
	MpesaReceipt      string        `json:"mpesaReceipt,omitempty"`
}
