package service

import (
	"context"

	"chai-duka/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines operations for the product catalogue.
type CatalogService interface {
	// List retrieves active products with pagination, optionally filtered
	// by category.
	List(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// Get retrieves a single product with its package sizes.
	Get(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error)

	// Create inserts a new product. Admin only.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update rewrites a product's fields. Admin only.
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// Deactivate soft-deletes a product. Admin only.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// AddSize adds a package size to a product. Admin only.
	AddSize(ctx context.Context, productID uuid.UUID, req *model.ProductSizeRequest) (*model.ProductSize, error)
}

// CartService defines operations on a user's shopping cart.
type CartService interface {
	// Get retrieves the user's cart with line and running totals.
	Get(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)

	// Add puts an item in the cart; repeated adds of the same product and
	// size accumulate grams.
	Add(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) error

	// UpdateGrams changes the ordered grams of a cart item.
	UpdateGrams(ctx context.Context, userID, itemID uuid.UUID, grams int) error

	// Remove deletes a single cart item.
	Remove(ctx context.Context, userID, itemID uuid.UUID) error

	// Clear empties the user's cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CheckoutService turns a cart into an order and drives the push payment.
type CheckoutService interface {
	// Checkout validates the payer's phone, prices the cart, writes the
	// order, issues the push-payment request and clears the cart.
	Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// Status resolves the outcome of a push-payment request, polling the
	// gateway while the payment is still pending.
	Status(ctx context.Context, checkoutRequestID string) (*model.PaymentStatusResponse, error)
}

// OrderService defines operations for order retrieval and fulfilment.
type OrderService interface {
	// ListByUser retrieves the user's own orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// Get retrieves an order with its items. Non-admin callers may only
	// read their own orders.
	Get(ctx context.Context, id, userID uuid.UUID, admin bool) (*model.OrderResponse, error)

	// List retrieves all orders, optionally filtered by status. Admin only.
	List(ctx context.Context, status *model.OrderStatus, limit, offset int) ([]model.Order, error)

	// UpdateStatus sets an order's fulfilment status. Admin only.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
}

// BlogService defines operations for blog posts.
type BlogService interface {
	// ListPublished retrieves published posts, newest first.
	ListPublished(ctx context.Context, limit, offset int) ([]model.Post, error)

	// GetBySlug retrieves a single published post.
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)

	// Create inserts a new post. Admin only.
	Create(ctx context.Context, authorID uuid.UUID, req *model.PostRequest) (*model.Post, error)

	// Update rewrites a post. Admin only.
	Update(ctx context.Context, id uuid.UUID, req *model.PostRequest) (*model.Post, error)

	// Delete removes a post. Admin only.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactService handles contact form submissions.
type ContactService interface {
	// Submit validates and forwards a contact form submission.
	Submit(ctx context.Context, req *model.ContactRequest) error
}
