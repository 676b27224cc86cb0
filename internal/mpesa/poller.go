package mpesa

import (
	"context"
	"errors"
	"strconv"
	"time"

	"chai-duka/internal/model"

	"github.com/rs/zerolog"
)

// PollResult is the outcome of polling a checkout-request identifier.
type PollResult struct {
	Status     model.PaymentStatus
	ResultCode int
	ResultDesc string
	Attempts   int
}

// Poller repeatedly queries the gateway for the result of a push request.
// It is a bounded loop: a fixed interval between attempts, a hard attempt
// ceiling, and a locally scoped attempt counter. Nothing is persisted here;
// callers own durability.
type Poller struct {
	gateway  Gateway
	interval time.Duration
	attempts int
	logger   zerolog.Logger
}

// NewPoller creates a poller with the given interval and attempt ceiling.
func NewPoller(gateway Gateway, interval time.Duration, attempts int, logger zerolog.Logger) *Poller {
	return &Poller{
		gateway:  gateway,
		interval: interval,
		attempts: attempts,
		logger:   logger.With().Str("component", "mpesa-poller").Logger(),
	}
}

// Poll queries the gateway once per interval until a definitive result
// arrives or the attempt ceiling is reached. A definitive success result
// code stops with success; any other definitive result code stops with the
// failure reason; the transient "still processing" error continues; after
// exhausting all attempts without a definitive result the outcome is a
// timeout. Cancelling the context aborts the loop.
func (p *Poller) Poll(ctx context.Context, checkoutRequestID string) (*PollResult, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= p.attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		resp, err := p.gateway.STKQuery(ctx, checkoutRequestID)
		if err != nil {
			if errors.Is(err, ErrStillProcessing) {
				p.logger.Debug().
					Str("checkout_request_id", checkoutRequestID).
					Int("attempt", attempt).
					Msg("transaction still processing")
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Transport or gateway hiccups are not definitive results;
			// keep polling within the attempt ceiling.
			p.logger.Warn().
				Err(err).
				Str("checkout_request_id", checkoutRequestID).
				Int("attempt", attempt).
				Msg("status query failed")
			continue
		}

		resultCode, convErr := strconv.Atoi(resp.ResultCode)
		if convErr != nil {
			p.logger.Warn().
				Str("result_code", resp.ResultCode).
				Msg("unparseable result code from gateway")
			continue
		}

		result := &PollResult{
			ResultCode: resultCode,
			ResultDesc: resp.ResultDesc,
			Attempts:   attempt,
		}
		if resultCode == ResultCodeSuccess {
			result.Status = model.PaymentStatusSuccess
		} else {
			result.Status = model.PaymentStatusFailed
		}

		p.logger.Info().
			Str("checkout_request_id", checkoutRequestID).
			Str("status", string(result.Status)).
			Int("result_code", resultCode).
			Int("attempts", attempt).
			Msg("poll resolved")

		return result, nil
	}

	p.logger.Info().
		Str("checkout_request_id", checkoutRequestID).
		Int("attempts", p.attempts).
		Msg("poll exhausted without definitive result")

	return &PollResult{
		Status:     model.PaymentStatusTimeout,
		ResultDesc: "no definitive result from gateway",
		Attempts:   p.attempts,
	}, nil
}
