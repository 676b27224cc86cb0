package repository

import (
	"context"
	"fmt"

	"chai-duka/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// paymentRepository implements PaymentRepository using PostgreSQL.
type paymentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentRepository {
	return &paymentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment").Logger(),
	}
}

// Create inserts a payment row when the push request is issued.
func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (id, checkout_request_id, order_id, amount,
			phone_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query, p.ID, p.CheckoutRequestID, p.OrderID,
		p.Amount, p.PhoneNumber, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("checkout_request_id", p.CheckoutRequestID).
			Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	r.logger.Debug().
		Str("checkout_request_id", p.CheckoutRequestID).
		Str("order_id", p.OrderID.String()).
		Msg("payment created")

	return nil
}

// GetByCheckoutRequestID retrieves a payment by its correlation key.
func (r *paymentRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.Payment, error) {
	query := `
		SELECT id, checkout_request_id, order_id, amount, phone_number,
			mpesa_receipt, status, result_code, result_desc, raw_callback,
			created_at, updated_at
		FROM payments
		WHERE checkout_request_id = $1
	`

	var p model.Payment
	err := r.pool.QueryRow(ctx, query, checkoutRequestID).Scan(
		&p.ID, &p.CheckoutRequestID, &p.OrderID, &p.Amount, &p.PhoneNumber,
		&p.MpesaReceipt, &p.Status, &p.ResultCode, &p.ResultDesc,
		&p.RawCallback, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().
				Str("checkout_request_id", checkoutRequestID).
				Msg("payment not found")
			return nil, nil
		}
		r.logger.Error().Err(err).
			Str("checkout_request_id", checkoutRequestID).
			Msg("failed to query payment")
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}

	return &p, nil
}

// UpdateStatus records a status observed by the poller.
func (r *paymentRepository) UpdateStatus(ctx context.Context, checkoutRequestID string, status model.PaymentStatus, resultCode *int, resultDesc *string) error {
	query := `
		UPDATE payments
		SET status = $2, result_code = $3, result_desc = $4, updated_at = NOW()
		WHERE checkout_request_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, checkoutRequestID, status, resultCode, resultDesc)
	if err != nil {
		r.logger.Error().Err(err).
			Str("checkout_request_id", checkoutRequestID).
			Str("status", string(status)).
			Msg("failed to update payment status")
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}

	return nil
}

// RecordCallback stores the definitive result delivered by the gateway
// callback, including the raw payload.
func (r *paymentRepository) RecordCallback(ctx context.Context, checkoutRequestID string, status model.PaymentStatus, receipt *string, resultCode int, resultDesc string, raw []byte) error {
	query := `
		UPDATE payments
		SET status = $2, mpesa_receipt = $3, result_code = $4,
			result_desc = $5, raw_callback = $6, updated_at = NOW()
		WHERE checkout_request_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, checkoutRequestID, status, receipt,
		resultCode, resultDesc, raw)
	if err != nil {
		r.logger.Error().Err(err).
			Str("checkout_request_id", checkoutRequestID).
			Msg("failed to record callback")
		return fmt.Errorf("failed to record callback: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}

	r.logger.Info().
		Str("checkout_request_id", checkoutRequestID).
		Str("status", string(status)).
		Msg("callback recorded on payment")

	return nil
}
