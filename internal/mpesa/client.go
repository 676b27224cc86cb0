package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"chai-duka/internal/config"
	"chai-duka/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Result codes the gateway reports on a completed STK push.
const (
	ResultCodeSuccess   = 0
	ResultCodeCancelled = 1032
)

// errorCodeProcessing is the transient "still processing" error the query
// endpoint returns while the customer has not yet completed the prompt.
const errorCodeProcessing = "500.001.1001"

// ErrStillProcessing indicates the gateway has no definitive result yet.
var ErrStillProcessing = errors.New("transaction is still being processed")

// Gateway is the subset of the Daraja API this service depends on.
type Gateway interface {
	// STKPush issues a push-payment request that prompts the payer's device.
	// Amount must be whole shillings.
	STKPush(ctx context.Context, phone string, amount decimal.Decimal, accountRef string) (*STKPushResponse, error)

	// STKQuery asks for the final result of a previously issued push request.
	// Returns ErrStillProcessing while no definitive result exists.
	STKQuery(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error)
}

// STKPushResponse is the gateway's acknowledgement of a push request.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// STKQueryResponse is the definitive result of a push request.
type STKQueryResponse struct {
	ResponseCode      string `json:"ResponseCode"`
	ResultCode        string `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// gatewayError is the error body Daraja returns on failed requests.
type gatewayError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// client implements Gateway against the Daraja HTTP API.
type client struct {
	httpClient *http.Client
	cfg        config.MpesaConfig
	logger     zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Daraja gateway client.
func NewClient(cfg config.MpesaConfig, logger zerolog.Logger) Gateway {
	return &client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
		logger:     logger.With().Str("component", "mpesa-client").Logger(),
	}
}

// token returns a cached OAuth access token, fetching a fresh one when the
// cached token is missing or within a minute of expiry.
func (c *client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	url := c.cfg.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("token request failed")
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("token request rejected")
		return "", fmt.Errorf("token request rejected with status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	ttl := 3600 * time.Second
	if secs, err := time.ParseDuration(tokenResp.ExpiresIn + "s"); err == nil && secs > 0 {
		ttl = secs
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)

	c.logger.Debug().Msg("obtained gateway access token")

	return c.accessToken, nil
}

// password derives the Lipa Na M-Pesa password for the given timestamp.
func (c *client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))
}

// STKPush issues a push-payment request to the gateway.
func (c *client) STKPush(ctx context.Context, phone string, amount decimal.Decimal, accountRef string) (*STKPushResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	payload := map[string]any{
		"BusinessShortCode": c.cfg.ShortCode,
		"Password":          c.password(timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            amount.Round(0).IntPart(),
		"PartyA":            phone,
		"PartyB":            c.cfg.ShortCode,
		"PhoneNumber":       phone,
		"CallBackURL":       c.cfg.CallbackBaseURL + "/api/payments/callback/" + c.cfg.CallbackSecret,
		"AccountReference":  accountRef,
		"TransactionDesc":   "Chai Duka order",
	}

	var pushResp STKPushResponse
	if err := c.post(ctx, token, "/mpesa/stkpush/v1/processrequest", payload, &pushResp); err != nil {
		return nil, err
	}

	if pushResp.ResponseCode != "0" {
		c.logger.Warn().
			Str("response_code", pushResp.ResponseCode).
			Str("description", pushResp.ResponseDescription).
			Msg("push request rejected by gateway")
		return nil, model.NewDomainError(model.ErrCodeGatewayRejected, pushResp.ResponseDescription)
	}

	c.logger.Info().
		Str("checkout_request_id", pushResp.CheckoutRequestID).
		Str("phone", phone).
		Msg("push-payment request accepted")

	return &pushResp, nil
}

// STKQuery queries the final result of a push request.
func (c *client) STKQuery(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	payload := map[string]any{
		"BusinessShortCode": c.cfg.ShortCode,
		"Password":          c.password(timestamp),
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	var queryResp STKQueryResponse
	if err := c.post(ctx, token, "/mpesa/stkpushquery/v1/query", payload, &queryResp); err != nil {
		return nil, err
	}

	return &queryResp, nil
}

// post sends an authenticated JSON request and decodes the response,
// translating the gateway's error body into Go errors.
func (c *client) post(ctx context.Context, token, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("gateway request failed")
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var gwErr gatewayError
		if json.Unmarshal(raw, &gwErr) == nil && gwErr.ErrorCode == errorCodeProcessing {
			return ErrStillProcessing
		}
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("body", string(raw)).
			Msg("gateway returned error")
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return nil
}
