package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chai-duka/internal/model"
	"chai-duka/internal/mpesa"
	"chai-duka/internal/repository"

	"github.com/rs/zerolog"
)

// CallbackService applies asynchronous payment results from the gateway.
type CallbackService interface {
	// Process records the callback outcome and, on success, marks the
	// matching order paid.
	Process(ctx context.Context, cb *mpesa.Callback, raw []byte) error
}

// callbackService implements CallbackService.
type callbackService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	logger      zerolog.Logger
}

// NewCallbackService creates a new callback service.
func NewCallbackService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	logger zerolog.Logger,
) CallbackService {
	return &callbackService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		logger:      logger.With().Str("service", "callback").Logger(),
	}
}

// Process records the callback outcome against the payment row and, on a
// successful payment, marks an order paid.
//
// Orders are matched by amount and recency, not by a stored order reference:
// the most recently created pending order whose total equals the paid amount
// receives the receipt. Two concurrently pending orders of the same amount
// are indistinguishable here and the newer one wins.
func (s *callbackService) Process(ctx context.Context, cb *mpesa.Callback, raw []byte) error {
	if !cb.Success() {
		err := s.paymentRepo.RecordCallback(ctx, cb.CheckoutRequestID,
			model.PaymentStatusFailed, nil, cb.ResultCode, cb.ResultDesc, raw)
		if err != nil && !errors.Is(err, model.ErrPaymentNotFound) {
			return fmt.Errorf("failed to record callback: %w", err)
		}

		s.logger.Info().
			Str("checkout_request_id", cb.CheckoutRequestID).
			Int("result_code", cb.ResultCode).
			Str("result_desc", cb.ResultDesc).
			Msg("payment failed")

		return nil
	}

	// A success result without metadata carries neither amount nor receipt,
	// so there is nothing to match an order against. Record the payment as
	// failed rather than leaving it pending forever.
	if cb.Amount == nil {
		s.logger.Warn().
			Str("checkout_request_id", cb.CheckoutRequestID).
			Msg("success callback without payment metadata")
		err := s.paymentRepo.RecordCallback(ctx, cb.CheckoutRequestID,
			model.PaymentStatusFailed, nil, cb.ResultCode, "success callback without metadata", raw)
		if err != nil && !errors.Is(err, model.ErrPaymentNotFound) {
			return fmt.Errorf("failed to record callback: %w", err)
		}
		return nil
	}

	var receipt *string
	if cb.Receipt != "" {
		receipt = &cb.Receipt
	}

	err := s.paymentRepo.RecordCallback(ctx, cb.CheckoutRequestID,
		model.PaymentStatusSuccess, receipt, cb.ResultCode, cb.ResultDesc, raw)
	if err != nil {
		if !errors.Is(err, model.ErrPaymentNotFound) {
			return fmt.Errorf("failed to record callback: %w", err)
		}
		// No payment row for this push request; the order match below can
		// still succeed.
		s.logger.Warn().
			Str("checkout_request_id", cb.CheckoutRequestID).
			Msg("callback for unknown push request")
	}

	order, err := s.orderRepo.LatestPendingByAmount(ctx, *cb.Amount)
	if err != nil {
		return fmt.Errorf("failed to match order: %w", err)
	}
	if order == nil {
		s.logger.Warn().
			Str("checkout_request_id", cb.CheckoutRequestID).
			Str("amount", cb.Amount.String()).
			Msg("no pending order matches the paid amount")
		return nil
	}

	if err := s.orderRepo.MarkPaid(ctx, order.ID, cb.Receipt, time.Now()); err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("checkout_request_id", cb.CheckoutRequestID).
		Str("receipt", cb.Receipt).
		Str("amount", cb.Amount.String()).
		Msg("order paid")

	return nil
}
