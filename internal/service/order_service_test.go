package service

import (
	"context"
	"testing"

	"chai-duka/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_Get_OwnOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByID", ctx, orderID).Return(&model.Order{
		ID:          orderID,
		UserID:      userID,
		TotalAmount: decimal.NewFromInt(1500),
		Status:      model.OrderStatusPending,
	}, []model.OrderItem{{OrderID: orderID, Quantity: 2}}, nil)

	svc := NewOrderService(orderRepo, zerolog.Nop())
	resp, err := svc.Get(ctx, orderID, userID, false)

	require.NoError(t, err)
	assert.Equal(t, orderID, resp.Order.ID)
	assert.Len(t, resp.Items, 1)
}

func TestOrderService_Get_ForeignOrderReadsAsNotFound(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByID", ctx, orderID).Return(&model.Order{
		ID:     orderID,
		UserID: uuid.New(),
	}, []model.OrderItem{}, nil)

	svc := NewOrderService(orderRepo, zerolog.Nop())
	_, err := svc.Get(ctx, orderID, uuid.New(), false)

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_Get_AdminSeesAnyOrder(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByID", ctx, orderID).Return(&model.Order{
		ID:     orderID,
		UserID: uuid.New(),
	}, []model.OrderItem{}, nil)

	svc := NewOrderService(orderRepo, zerolog.Nop())
	resp, err := svc.Get(ctx, orderID, uuid.New(), true)

	require.NoError(t, err)
	assert.Equal(t, orderID, resp.Order.ID)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("UpdateStatus", ctx, orderID, model.OrderStatusShipped).Return(nil)

	svc := NewOrderService(orderRepo, zerolog.Nop())

	require.NoError(t, svc.UpdateStatus(ctx, orderID, model.OrderStatusShipped))

	err := svc.UpdateStatus(ctx, orderID, model.OrderStatus("misplaced"))
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
	orderRepo.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestOrderService_List_RejectsUnknownStatusFilter(t *testing.T) {
	orderRepo := new(MockOrderRepository)

	svc := NewOrderService(orderRepo, zerolog.Nop())

	bogus := model.OrderStatus("bogus")
	_, err := svc.List(context.Background(), &bogus, 10, 0)

	assert.ErrorIs(t, err, model.ErrInvalidStatus)
	orderRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
