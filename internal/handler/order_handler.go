package handler

import (
	"net/http"

	"chai-duka/internal/middleware"
	"chai-duka/internal/model"
	"chai-duka/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler serves the authenticated user's orders.
type OrderHandler struct {
	orders service.OrderService
	logger zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	limit, offset := pagination(r)
	orders, err := h.orders.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	resp, err := h.orders.Get(r.Context(), orderID, userID, false)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
