package repository

import (
	"context"
	"time"

	"chai-duka/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// List retrieves products with pagination, optionally filtered by
	// category. When activeOnly is set, inactive products are excluded.
	List(ctx context.Context, category string, activeOnly bool, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetSizes retrieves the package sizes of a product.
	GetSizes(ctx context.Context, productID uuid.UUID) ([]model.ProductSize, error)

	// GetSizeByID retrieves a single package size.
	GetSizeByID(ctx context.Context, id uuid.UUID) (*model.ProductSize, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update rewrites a product's mutable fields.
	Update(ctx context.Context, p *model.Product) error

	// Deactivate soft-deletes a product by clearing its active flag.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// CreateSize inserts a new package size for a product.
	CreateSize(ctx context.Context, s *model.ProductSize) error
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// ListByUser retrieves a user's cart items joined with product and
	// size detail.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItemDetail, error)

	// Upsert adds a cart item; an existing row for the same product and
	// size accumulates the ordered grams instead.
	Upsert(ctx context.Context, item *model.CartItem) error

	// UpdateGrams changes the ordered grams of a user's cart item.
	UpdateGrams(ctx context.Context, id, userID uuid.UUID, grams int) error

	// Delete removes a single cart item owned by the user.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// ClearByUser deletes all of a user's cart rows.
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// List retrieves all orders, newest first, optionally filtered by
	// status. Stuck pending orders are expected output here.
	List(ctx context.Context, status *model.OrderStatus, limit, offset int) ([]model.Order, error)

	// UpdateStatus sets an order's status. Any status value from the enum
	// is accepted; transitions are not enforced.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error

	// LatestPendingByAmount finds the most recently created pending order
	// whose total equals amount. This amount/recency heuristic is how
	// callbacks are matched to orders: two concurrently pending orders of
	// the same amount are indistinguishable, and the most recent one wins.
	LatestPendingByAmount(ctx context.Context, amount decimal.Decimal) (*model.Order, error)

	// MarkPaid sets an order to paid, stamping the receipt code and the
	// payment completion time.
	MarkPaid(ctx context.Context, id uuid.UUID, receipt string, paidAt time.Time) error
}

// PaymentRepository defines the interface for payment record data access.
type PaymentRepository interface {
	// Create inserts a payment row when the push request is issued.
	Create(ctx context.Context, p *model.Payment) error

	// GetByCheckoutRequestID retrieves a payment by its correlation key.
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.Payment, error)

	// UpdateStatus records a status observed by the poller.
	UpdateStatus(ctx context.Context, checkoutRequestID string, status model.PaymentStatus, resultCode *int, resultDesc *string) error

	// RecordCallback stores the definitive result delivered by the
	// gateway callback, including the raw payload.
	RecordCallback(ctx context.Context, checkoutRequestID string, status model.PaymentStatus, receipt *string, resultCode int, resultDesc string, raw []byte) error
}

// PostRepository defines the interface for blog post data access.
type PostRepository interface {
	// ListPublished retrieves published posts, newest first.
	ListPublished(ctx context.Context, limit, offset int) ([]model.Post, error)

	// GetBySlug retrieves a single published post.
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)

	// GetByID retrieves a post regardless of publication state.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)

	// Create inserts a new post.
	Create(ctx context.Context, p *model.Post) error

	// Update rewrites a post's mutable fields.
	Update(ctx context.Context, p *model.Post) error

	// Delete removes a post.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository defines the interface for user profile data access.
type ProfileRepository interface {
	// GetByID retrieves a user profile.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}
