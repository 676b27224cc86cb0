package mpesa

import (
	"context"
	"errors"
	"testing"
	"time"

	"chai-duka/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGateway returns canned query results in sequence; once the script
// is exhausted the last entry repeats.
type scriptedGateway struct {
	script []func() (*STKQueryResponse, error)
	calls  int
}

func (g *scriptedGateway) STKPush(ctx context.Context, phone string, amount decimal.Decimal, accountRef string) (*STKPushResponse, error) {
	panic("STKPush not used by poller")
}

func (g *scriptedGateway) STKQuery(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error) {
	idx := g.calls
	if idx >= len(g.script) {
		idx = len(g.script) - 1
	}
	g.calls++
	return g.script[idx]()
}

func stillProcessing() (*STKQueryResponse, error) {
	return nil, ErrStillProcessing
}

func definitive(code, desc string) func() (*STKQueryResponse, error) {
	return func() (*STKQueryResponse, error) {
		return &STKQueryResponse{ResponseCode: "0", ResultCode: code, ResultDesc: desc}, nil
	}
}

func TestPoller_TimeoutAfterExactAttempts(t *testing.T) {
	gateway := &scriptedGateway{script: []func() (*STKQueryResponse, error){stillProcessing}}
	interval := 10 * time.Millisecond
	poller := NewPoller(gateway, interval, 15, zerolog.Nop())

	start := time.Now()
	result, err := poller.Poll(context.Background(), "ws_CO_never")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusTimeout, result.Status)
	assert.Equal(t, 15, result.Attempts)
	assert.Equal(t, 15, gateway.calls, "gateway must be queried exactly once per attempt")
	assert.GreaterOrEqual(t, elapsed, 15*interval, "attempts must be spaced by the fixed interval")
}

func TestPoller_SuccessStopsEarly(t *testing.T) {
	gateway := &scriptedGateway{script: []func() (*STKQueryResponse, error){
		stillProcessing,
		stillProcessing,
		definitive("0", "The service request is processed successfully."),
	}}
	poller := NewPoller(gateway, time.Millisecond, 15, zerolog.Nop())

	result, err := poller.Poll(context.Background(), "ws_CO_ok")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccess, result.Status)
	assert.Equal(t, 0, result.ResultCode)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, gateway.calls)
}

func TestPoller_DefinitiveFailureStops(t *testing.T) {
	gateway := &scriptedGateway{script: []func() (*STKQueryResponse, error){
		definitive("1032", "Request cancelled by user"),
	}}
	poller := NewPoller(gateway, time.Millisecond, 15, zerolog.Nop())

	result, err := poller.Poll(context.Background(), "ws_CO_cancel")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, result.Status)
	assert.Equal(t, ResultCodeCancelled, result.ResultCode)
	assert.Equal(t, "Request cancelled by user", result.ResultDesc)
	assert.Equal(t, 1, gateway.calls)
}

func TestPoller_TransportErrorsKeepPolling(t *testing.T) {
	gateway := &scriptedGateway{script: []func() (*STKQueryResponse, error){
		func() (*STKQueryResponse, error) { return nil, errors.New("connection reset") },
		definitive("0", "ok"),
	}}
	poller := NewPoller(gateway, time.Millisecond, 15, zerolog.Nop())

	result, err := poller.Poll(context.Background(), "ws_CO_flaky")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
}

func TestPoller_ContextCancellation(t *testing.T) {
	gateway := &scriptedGateway{script: []func() (*STKQueryResponse, error){stillProcessing}}
	poller := NewPoller(gateway, 50*time.Millisecond, 15, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result, err := poller.Poll(ctx, "ws_CO_abandoned")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}
