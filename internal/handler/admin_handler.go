package handler

import (
	"net/http"

	"chai-duka/internal/middleware"
	"chai-duka/internal/model"
	"chai-duka/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminHandler serves the admin surface: catalogue management, order
// fulfilment and blog authoring. Route-level middleware guarantees every
// caller is an authenticated admin.
type AdminHandler struct {
	catalog service.CatalogService
	orders  service.OrderService
	blog    service.BlogService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	catalog service.CatalogService,
	orders service.OrderService,
	blog service.BlogService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalog: catalog,
		orders:  orders,
		blog:    blog,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// CreateProduct handles POST /api/admin/products.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	product, err := h.catalog.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/admin/products/{id}.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrProductNotFound, h.logger)
		return
	}

	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	product, err := h.catalog.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeactivateProduct handles DELETE /api/admin/products/{id}.
func (h *AdminHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrProductNotFound, h.logger)
		return
	}

	if err := h.catalog.Deactivate(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// AddProductSize handles POST /api/admin/products/{id}/sizes.
func (h *AdminHandler) AddProductSize(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrProductNotFound, h.logger)
		return
	}

	var req model.ProductSizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	size, err := h.catalog.AddSize(r.Context(), productID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, size)
}

// ListOrders handles GET /api/admin/orders. An optional status query
// parameter filters the list; stuck pending orders show up here.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	var status *model.OrderStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := model.OrderStatus(v)
		status = &s
	}

	orders, err := h.orders.List(r.Context(), status, limit, offset)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/admin/orders/{id}.
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	userID, _ := middleware.UserID(r.Context())
	resp, err := h.orders.Get(r.Context(), orderID, userID, true)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateOrderStatus handles PATCH /api/admin/orders/{id}/status.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	var req model.OrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// CreatePost handles POST /api/admin/posts.
func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "Not signed in"), h.logger)
		return
	}

	var req model.PostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	post, err := h.blog.Create(r.Context(), authorID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /api/admin/posts/{id}.
func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrPostNotFound, h.logger)
		return
	}

	var req model.PostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	post, err := h.blog.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/admin/posts/{id}.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrPostNotFound, h.logger)
		return
	}

	if err := h.blog.Delete(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
