package router

import (
	"net/http"

	"chai-duka/internal/handler"
	"chai-duka/internal/middleware"
	"chai-duka/internal/repository"

	"github.com/rs/zerolog"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Callback *handler.CallbackHandler
	Order    *handler.OrderHandler
	Blog     *handler.BlogHandler
	Contact  *handler.ContactHandler
	Admin    *handler.AdminHandler
}

// New creates the HTTP router with all routes and middleware configured.
func New(h Handlers, profileRepo repository.ProfileRepository, jwtSecret string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(jwtSecret, logger)
	admin := func(next http.HandlerFunc) http.Handler {
		return auth(middleware.RequireAdmin(profileRepo, logger)(next))
	}
	callbackGuard := middleware.IPAllowlist(middleware.SafaricomCallbackIPs, logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public catalogue and blog
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.Get)
	mux.HandleFunc("GET /api/posts", h.Blog.List)
	mux.HandleFunc("GET /api/posts/{slug}", h.Blog.Get)
	mux.HandleFunc("POST /api/contact", h.Contact.Submit)

	// Payment gateway callback, guarded by the address allow-list
	mux.Handle("POST /api/payments/callback/{secret}",
		callbackGuard(http.HandlerFunc(h.Callback.Receive)))

	// Authenticated shopping
	mux.Handle("GET /api/cart", auth(http.HandlerFunc(h.Cart.Get)))
	mux.Handle("DELETE /api/cart", auth(http.HandlerFunc(h.Cart.Clear)))
	mux.Handle("POST /api/cart/items", auth(http.HandlerFunc(h.Cart.AddItem)))
	mux.Handle("PATCH /api/cart/items/{id}", auth(http.HandlerFunc(h.Cart.UpdateItem)))
	mux.Handle("DELETE /api/cart/items/{id}", auth(http.HandlerFunc(h.Cart.RemoveItem)))
	mux.Handle("POST /api/checkout", auth(http.HandlerFunc(h.Checkout.Checkout)))
	mux.Handle("GET /api/checkout/status/{checkoutRequestId}", auth(http.HandlerFunc(h.Checkout.Status)))
	mux.Handle("GET /api/orders", auth(http.HandlerFunc(h.Order.List)))
	mux.Handle("GET /api/orders/{id}", auth(http.HandlerFunc(h.Order.Get)))

	// Admin surface
	mux.Handle("POST /api/admin/products", admin(h.Admin.CreateProduct))
	mux.Handle("PUT /api/admin/products/{id}", admin(h.Admin.UpdateProduct))
	mux.Handle("DELETE /api/admin/products/{id}", admin(h.Admin.DeactivateProduct))
	mux.Handle("POST /api/admin/products/{id}/sizes", admin(h.Admin.AddProductSize))
	mux.Handle("GET /api/admin/orders", admin(h.Admin.ListOrders))
	mux.Handle("GET /api/admin/orders/{id}", admin(h.Admin.GetOrder))
	mux.Handle("PATCH /api/admin/orders/{id}/status", admin(h.Admin.UpdateOrderStatus))
	mux.Handle("POST /api/admin/posts", admin(h.Admin.CreatePost))
	mux.Handle("PUT /api/admin/posts/{id}", admin(h.Admin.UpdatePost))
	mux.Handle("DELETE /api/admin/posts/{id}", admin(h.Admin.DeletePost))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
