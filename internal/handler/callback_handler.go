package handler

import (
	"crypto/subtle"
	"io"
	"net/http"

	"chai-duka/internal/mpesa"
	"chai-duka/internal/service"

	"github.com/rs/zerolog"
)

// callbackAck is the fixed acknowledgement body the gateway expects on a
// successfully processed payment. It is also returned for requests with a
// wrong path secret or an unreadable body, so those responses never reveal
// whether the secret matched.
var callbackAck = map[string]any{"ResultCode": 0, "ResultDesc": "Accepted"}

// callbackFailureAck acknowledges a processed callback that did not describe
// a completed payment (failure result code, or a success result with no
// metadata to match against). Still HTTP 200: the gateway must not retry.
var callbackFailureAck = map[string]any{"ResultCode": 0, "ResultDesc": "Payment failure recorded"}

// maxCallbackBody bounds the callback payload size.
const maxCallbackBody = 1 << 20

// CallbackHandler receives asynchronous payment results from the gateway.
type CallbackHandler struct {
	callbacks service.CallbackService
	secret    string
	logger    zerolog.Logger
}

// NewCallbackHandler creates a new callback handler.
func NewCallbackHandler(callbacks service.CallbackService, secret string, logger zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{
		callbacks: callbacks,
		secret:    secret,
		logger:    logger.With().Str("handler", "callback").Logger(),
	}
}

// Receive handles POST /api/payments/callback/{secret}.
func (h *CallbackHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if subtle.ConstantTimeCompare([]byte(r.PathValue("secret")), []byte(h.secret)) != 1 {
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("callback with wrong path secret")
		writeJSON(w, http.StatusOK, callbackAck)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read callback body")
		writeJSON(w, http.StatusOK, callbackAck)
		return
	}

	cb, err := mpesa.ParseCallback(raw)
	if err != nil {
		h.logger.Warn().Err(err).Msg("unparseable callback payload")
		writeJSON(w, http.StatusOK, callbackAck)
		return
	}

	if err := h.callbacks.Process(r.Context(), cb, raw); err != nil {
		// A processing failure must surface as a 5xx so the gateway retries.
		h.logger.Error().
			Err(err).
			Str("checkout_request_id", cb.CheckoutRequestID).
			Msg("failed to process callback")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ResultCode": 1,
			"ResultDesc": "Internal error",
		})
		return
	}

	if !cb.Success() || cb.Amount == nil {
		writeJSON(w, http.StatusOK, callbackFailureAck)
		return
	}

	writeJSON(w, http.StatusOK, callbackAck)
}
