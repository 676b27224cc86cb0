package handler

import (
	"net/http"

	"chai-duka/internal/middleware"
	"chai-duka/internal/model"
	"chai-duka/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler serves checkout and payment status requests.
type CheckoutHandler struct {
	checkout service.CheckoutService
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger.With().Str("handler", "checkout").Logger(),
	}
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.checkout.Checkout(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Status handles GET /api/checkout/status/{checkoutRequestId}. The call
// blocks while the gateway is polled, up to the configured attempt ceiling.
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	checkoutRequestID := r.PathValue("checkoutRequestId")
	if checkoutRequestID == "" {
		writeError(w, model.ErrPaymentNotFound, h.logger)
		return
	}

	resp, err := h.checkout.Status(r.Context(), checkoutRequestID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
