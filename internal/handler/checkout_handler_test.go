package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chai-duka/internal/middleware"
	"chai-duka/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

func (m *MockCheckoutService) Status(ctx context.Context, checkoutRequestID string) (*model.PaymentStatusResponse, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentStatusResponse), args.Error(1)
}

func checkoutBody() string {
	return `{
		"phoneNumber": "0712345678",
		"recipientName": "Wanjiku Kamau",
		"county": "Nairobi",
		"town": "Westlands",
		"streetAddress": "Waiyaki Way 12"
	}`
}

func TestCheckoutHandler_Checkout(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	svc := new(MockCheckoutService)
	svc.On("Checkout", mock.Anything, userID, mock.MatchedBy(func(req *model.CheckoutRequest) bool {
		return req.PhoneNumber == "0712345678" && req.RecipientName == "Wanjiku Kamau"
	})).Return(&model.CheckoutResponse{
		OrderID:           orderID,
		CheckoutRequestID: "ws_CO_1",
		TotalAmount:       decimal.NewFromInt(1500),
	}, nil)

	h := NewCheckoutHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody()))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()

	h.Checkout(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "ws_CO_1")
	svc.AssertExpectations(t)
}

func TestCheckoutHandler_Checkout_RequiresUser(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody()))
	rec := httptest.NewRecorder()

	h.Checkout(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutHandler_Checkout_DomainErrorsMapToStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid phone", model.ErrInvalidPhone, http.StatusBadRequest},
		{"empty cart", model.ErrEmptyCart, http.StatusBadRequest},
		{"gateway rejected", model.NewDomainError(model.ErrCodeGatewayRejected, "System busy"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCheckoutService)
			svc.On("Checkout", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			h := NewCheckoutHandler(svc, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody()))
			req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
			rec := httptest.NewRecorder()

			h.Checkout(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCheckoutHandler_Status(t *testing.T) {
	svc := new(MockCheckoutService)
	svc.On("Status", mock.Anything, "ws_CO_1").Return(&model.PaymentStatusResponse{
		CheckoutRequestID: "ws_CO_1",
		Status:            model.PaymentStatusSuccess,
		MpesaReceipt:      "SFC123XYZ",
	}, nil)

	h := NewCheckoutHandler(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/checkout/status/{checkoutRequestId}", h.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/checkout/status/ws_CO_1", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "success")
	assert.Contains(t, rec.Body.String(), "SFC123XYZ")
}

func TestCheckoutHandler_Status_UnknownPayment(t *testing.T) {
	svc := new(MockCheckoutService)
	svc.On("Status", mock.Anything, "ws_CO_nope").Return(nil, model.ErrPaymentNotFound)

	h := NewCheckoutHandler(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/checkout/status/{checkoutRequestId}", h.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/checkout/status/ws_CO_nope", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
