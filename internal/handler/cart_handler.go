package handler

import (
	"net/http"

	"chai-duka/internal/middleware"
	"chai-duka/internal/model"
	"chai-duka/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler serves the authenticated user's shopping cart.
type CartHandler struct {
	cart   service.CartService
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:   cart,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	cart, err := h.cart.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	var req model.AddCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.cart.Add(r.Context(), userID, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// UpdateItem handles PATCH /api/cart/items/{id}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrCartItemNotFound, h.logger)
		return
	}

	var req model.UpdateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.cart.UpdateGrams(r.Context(), userID, itemID, req.GramsOrdered); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrCartItemNotFound, h.logger)
		return
	}

	if err := h.cart.Remove(r.Context(), userID, itemID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
