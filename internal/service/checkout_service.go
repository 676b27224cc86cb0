package service

import (
	"context"
	"fmt"
	"time"

	"chai-duka/internal/model"
	"chai-duka/internal/mpesa"
	"chai-duka/internal/promo"
	"chai-duka/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// promoDiscount is the fraction of the total kept after a valid promo code
// is applied (10% off).
var promoDiscount = decimal.RequireFromString("0.9")

// checkoutService implements CheckoutService.
type checkoutService struct {
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	gateway     mpesa.Gateway
	poller      *mpesa.Poller
	validator   promo.Validator
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	gateway mpesa.Gateway,
	poller *mpesa.Poller,
	validator promo.Validator,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		poller:      poller,
		validator:   validator,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout validates the payer's phone, prices the cart, writes the order
// and its items in one transaction, issues the push-payment request, records
// the payment row and clears the cart.
//
// The steps after the transaction commits are not compensated: a failed push
// leaves the order pending with no payment row, and a failed cart clear
// leaves the cart populated. Stuck pending orders surface in the admin order
// list.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Checkout payload is required")
	}

	// Phone validation happens before anything touches the network or the
	// database.
	phone, err := mpesa.NormalizePhone(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	if req.RecipientName == "" || req.County == "" || req.Town == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Recipient name, county and town are required")
	}

	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}

	total := decimal.Zero
	orderID := uuid.New()
	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		if item.SizeGrams <= 0 || item.GramsOrdered%item.SizeGrams != 0 {
			s.logger.Warn().
				Str("cart_item_id", item.ID.String()).
				Int("grams", item.GramsOrdered).
				Int("size_grams", item.SizeGrams).
				Msg("cart line grams not divisible by package size")
			return nil, model.ErrInvalidGrams
		}

		quantity := item.GramsOrdered / item.SizeGrams
		orderItems[i] = model.OrderItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			ProductID:    item.ProductID,
			SizeID:       item.SizeID,
			Quantity:     quantity,
			UnitPrice:    item.UnitPrice,
			GramsOrdered: item.GramsOrdered,
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	}

	if req.PromoCode != nil && *req.PromoCode != "" {
		if err := s.validator.Validate(ctx, *req.PromoCode); err != nil {
			s.logger.Warn().Str("promo_code", *req.PromoCode).Err(err).Msg("promo code rejected")
			return nil, err
		}
		total = total.Mul(promoDiscount)
		s.logger.Debug().Str("promo_code", *req.PromoCode).Msg("promo discount applied")
	}

	// The gateway charges whole shillings; the order total must match the
	// amount the callback will later report.
	total = total.Round(0)

	now := time.Now()
	order := &model.Order{
		ID:            orderID,
		UserID:        userID,
		TotalAmount:   total,
		Status:        model.OrderStatusPending,
		RecipientName: req.RecipientName,
		Phone:         phone,
		County:        req.County,
		Town:          req.Town,
		StreetAddress: req.StreetAddress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The transaction is committed; the order stays pending if anything
	// below fails.
	pushResp, pushErr := s.gateway.STKPush(ctx, phone, total, orderID.String()[:8])
	if pushErr != nil {
		s.logger.Error().Err(pushErr).Str("order_id", orderID.String()).Msg("push-payment request failed")
		return nil, pushErr
	}

	payment := &model.Payment{
		ID:                uuid.New(),
		CheckoutRequestID: pushResp.CheckoutRequestID,
		OrderID:           orderID,
		Amount:            total,
		PhoneNumber:       phone,
		Status:            model.PaymentStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.logger.Error().
			Err(err).
			Str("checkout_request_id", pushResp.CheckoutRequestID).
			Msg("failed to record payment")
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if err := s.cartRepo.ClearByUser(ctx, userID); err != nil {
		// The order and payment already exist; log and carry on.
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart after checkout")
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("checkout_request_id", pushResp.CheckoutRequestID).
		Str("amount", total.String()).
		Msg("checkout completed, awaiting payment")

	return &model.CheckoutResponse{
		OrderID:           orderID,
		CheckoutRequestID: pushResp.CheckoutRequestID,
		TotalAmount:       total,
	}, nil
}

// Status resolves the outcome of a push-payment request. A payment that is
// still pending is polled against the gateway; whatever the poll resolves is
// persisted before it is returned, so a later call sees the same answer
// without polling again.
func (s *checkoutService) Status(ctx context.Context, checkoutRequestID string) (*model.PaymentStatusResponse, error) {
	payment, err := s.paymentRepo.GetByCheckoutRequestID(ctx, checkoutRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, model.ErrPaymentNotFound
	}

	if payment.Status != model.PaymentStatusPending {
		return paymentStatusResponse(payment), nil
	}

	result, err := s.poller.Poll(ctx, checkoutRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to poll payment status: %w", err)
	}

	switch result.Status {
	case model.PaymentStatusSuccess:
		if err := s.paymentRepo.UpdateStatus(ctx, checkoutRequestID,
			model.PaymentStatusSuccess, &result.ResultCode, &result.ResultDesc); err != nil {
			return nil, err
		}
		// The query endpoint carries no receipt; the callback fills it in
		// when it arrives.
		if err := s.orderRepo.MarkPaid(ctx, payment.OrderID, "", time.Now()); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_id", payment.OrderID.String()).
				Msg("failed to mark order paid")
			return nil, err
		}
	case model.PaymentStatusFailed:
		if err := s.paymentRepo.UpdateStatus(ctx, checkoutRequestID,
			model.PaymentStatusFailed, &result.ResultCode, &result.ResultDesc); err != nil {
			return nil, err
		}
	case model.PaymentStatusTimeout:
		if err := s.paymentRepo.UpdateStatus(ctx, checkoutRequestID,
			model.PaymentStatusTimeout, nil, &result.ResultDesc); err != nil {
			return nil, err
		}
	}

	payment.Status = result.Status
	payment.ResultDesc = &result.ResultDesc

	return paymentStatusResponse(payment), nil
}

// paymentStatusResponse shapes a payment row for the status endpoint.
func paymentStatusResponse(p *model.Payment) *model.PaymentStatusResponse {
	resp := &model.PaymentStatusResponse{
		CheckoutRequestID: p.CheckoutRequestID,
		Status:            p.Status,
	}
	if p.ResultDesc != nil {
		resp.ResultDesc = *p.ResultDesc
	}
	if p.MpesaReceipt != nil {
		resp.MpesaReceipt = *p.MpesaReceipt
	}
	return resp
}
