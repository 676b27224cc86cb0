package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chai-duka/internal/model"
	"chai-duka/internal/mpesa"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func successCallback(amount int64, receipt string) *mpesa.Callback {
	a := decimal.NewFromInt(amount)
	return &mpesa.Callback{
		MerchantRequestID: "merchant-1",
		CheckoutRequestID: "ws_CO_1",
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		Amount:            &a,
		Receipt:           receipt,
		Phone:             "254712345678",
	}
}

func TestCallbackService_Process_SuccessMarksMatchedOrderPaid(t *testing.T) {
	orderID := uuid.New()
	raw := []byte(`{"Body":{}}`)
	cb := successCallback(1500, "SFC123XYZ")

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("RecordCallback", mock.Anything, "ws_CO_1",
		model.PaymentStatusSuccess, mock.MatchedBy(func(r *string) bool {
			return r != nil && *r == "SFC123XYZ"
		}), 0, cb.ResultDesc, raw).Return(nil)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("LatestPendingByAmount", mock.Anything, mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(decimal.NewFromInt(1500))
	})).Return(&model.Order{ID: orderID, Status: model.OrderStatusPending}, nil)
	orderRepo.On("MarkPaid", mock.Anything, orderID, "SFC123XYZ", mock.AnythingOfType("time.Time")).Return(nil)

	svc := NewCallbackService(orderRepo, paymentRepo, zerolog.Nop())

	err := svc.Process(context.Background(), cb, raw)

	require.NoError(t, err)
	paymentRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestCallbackService_Process_FailureRecordsWithoutOrderMatch(t *testing.T) {
	raw := []byte(`{"Body":{}}`)
	cb := &mpesa.Callback{
		CheckoutRequestID: "ws_CO_1",
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user",
	}

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("RecordCallback", mock.Anything, "ws_CO_1",
		model.PaymentStatusFailed, (*string)(nil), 1032, "Request cancelled by user", raw).Return(nil)

	orderRepo := new(MockOrderRepository)

	svc := NewCallbackService(orderRepo, paymentRepo, zerolog.Nop())

	err := svc.Process(context.Background(), cb, raw)

	require.NoError(t, err)
	paymentRepo.AssertExpectations(t)
	orderRepo.AssertNotCalled(t, "LatestPendingByAmount", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackService_Process_SuccessWithoutMetadataMarksPaymentFailed(t *testing.T) {
	raw := []byte(`{"Body":{}}`)
	cb := &mpesa.Callback{
		CheckoutRequestID: "ws_CO_1",
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
	}

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("RecordCallback", mock.Anything, "ws_CO_1",
		model.PaymentStatusFailed, (*string)(nil), 0, mock.AnythingOfType("string"), raw).Return(nil)

	orderRepo := new(MockOrderRepository)

	svc := NewCallbackService(orderRepo, paymentRepo, zerolog.Nop())

	err := svc.Process(context.Background(), cb, raw)

	require.NoError(t, err)
	paymentRepo.AssertExpectations(t)
	orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackService_Process_UnknownPaymentStillMatchesOrder(t *testing.T) {
	orderID := uuid.New()
	raw := []byte(`{"Body":{}}`)
	cb := successCallback(2640, "SFC777AAA")

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("RecordCallback", mock.Anything, "ws_CO_1",
		model.PaymentStatusSuccess, mock.Anything, 0, cb.ResultDesc, raw).
		Return(model.ErrPaymentNotFound)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("LatestPendingByAmount", mock.Anything, mock.Anything).
		Return(&model.Order{ID: orderID, Status: model.OrderStatusPending}, nil)
	orderRepo.On("MarkPaid", mock.Anything, orderID, "SFC777AAA", mock.AnythingOfType("time.Time")).Return(nil)

	svc := NewCallbackService(orderRepo, paymentRepo, zerolog.Nop())

	err := svc.Process(context.Background(), cb, raw)

	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestCallbackService_Process_NoMatchingOrderIsNotAnError(t *testing.T) {
	raw := []byte(`{"Body":{}}`)
	cb := successCallback(999, "SFC000BBB")

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("RecordCallback", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("LatestPendingByAmount", mock.Anything, mock.Anything).Return(nil, nil)

	svc := NewCallbackService(orderRepo, paymentRepo, zerolog.Nop())

	err := svc.Process(context.Background(), cb, raw)

	require.NoError(t, err)
	orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackService_Process_DatabaseFailureSurfaces(t *testing.T) {
	raw := []byte(`{"Body":{}}`)
	cb := successCallback(1500, "SFC123XYZ")

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("RecordCallback", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	orderRepo := new(MockOrderRepository)

	svc := NewCallbackService(orderRepo, paymentRepo, zerolog.Nop())

	err := svc.Process(context.Background(), cb, raw)

	require.Error(t, err)
	orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCallbackService_Process_MarkPaidFailureSurfaces(t *testing.T) {
	orderID := uuid.New()
	raw := []byte(`{"Body":{}}`)
	cb := successCallback(1500, "SFC123XYZ")

	paymentRepo := new(MockPaymentRepository)
	paymentRepo.On("RecordCallback", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("LatestPendingByAmount", mock.Anything, mock.Anything).
		Return(&model.Order{ID: orderID, CreatedAt: time.Now()}, nil)
	orderRepo.On("MarkPaid", mock.Anything, orderID, "SFC123XYZ", mock.AnythingOfType("time.Time")).
		Return(errors.New("connection reset"))

	svc := NewCallbackService(orderRepo, paymentRepo, zerolog.Nop())

	err := svc.Process(context.Background(), cb, raw)

	assert.Error(t, err)
}
