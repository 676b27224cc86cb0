package repository

import (
	"context"
	"testing"
	"time"

	"chai-duka/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	createSchema(t, pool)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the full database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'customer',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			price_per_100g DECIMAL(12,2) NOT NULL CHECK (price_per_100g >= 0),
			image_url TEXT NOT NULL DEFAULT '',
			stock_grams INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

		CREATE TABLE IF NOT EXISTS product_sizes (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			size_grams INTEGER NOT NULL CHECK (size_grams > 0),
			price DECIMAL(12,2) NOT NULL CHECK (price >= 0),
			in_stock BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			size_id UUID REFERENCES product_sizes(id),
			grams_ordered INTEGER NOT NULL CHECK (grams_ordered > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE NULLS NOT DISTINCT (user_id, product_id, size_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES profiles(id),
			total_amount DECIMAL(12,2) NOT NULL CHECK (total_amount >= 0),
			status TEXT NOT NULL DEFAULT 'pending',
			recipient_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			county TEXT NOT NULL DEFAULT '',
			town TEXT NOT NULL DEFAULT '',
			street_address TEXT NOT NULL DEFAULT '',
			mpesa_receipt TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			paid_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_orders_status_amount ON orders(status, total_amount, created_at DESC);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			size_id UUID REFERENCES product_sizes(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(12,2) NOT NULL,
			grams_ordered INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			checkout_request_id TEXT NOT NULL UNIQUE,
			order_id UUID NOT NULL REFERENCES orders(id),
			amount DECIMAL(12,2) NOT NULL,
			phone_number TEXT NOT NULL,
			mpesa_receipt TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			result_code INTEGER,
			result_desc TEXT,
			raw_callback JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			excerpt TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			cover_image_url TEXT NOT NULL DEFAULT '',
			author_id UUID NOT NULL REFERENCES profiles(id),
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// seedProfile inserts a test user and returns its ID.
func seedProfile(t *testing.T, pool *pgxpool.Pool, email, role string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO profiles (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
	`, id, email, "Test User", role)
	require.NoError(t, err)

	return id
}

// seedProduct inserts a test product and returns it.
func seedProduct(t *testing.T, pool *pgxpool.Pool, name string, price decimal.Decimal) model.Product {
	t.Helper()

	p := model.Product{
		ID:           uuid.New(),
		Name:         name,
		Slug:         name + "-" + uuid.NewString()[:8],
		Category:     "black",
		PricePer100g: price,
		StockGrams:   10_000,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, slug, description, category,
			price_per_100g, image_url, stock_grams, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.Name, p.Slug, p.Description, p.Category, p.PricePer100g,
		p.ImageURL, p.StockGrams, p.Active, p.CreatedAt, p.UpdatedAt)
	require.NoError(t, err)

	return p
}

// seedSize inserts a package size for a product and returns it.
func seedSize(t *testing.T, pool *pgxpool.Pool, productID uuid.UUID, grams int, price decimal.Decimal) model.ProductSize {
	t.Helper()

	s := model.ProductSize{
		ID:        uuid.New(),
		ProductID: productID,
		SizeGrams: grams,
		Price:     price,
		InStock:   true,
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO product_sizes (id, product_id, size_grams, price, in_stock)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.ProductID, s.SizeGrams, s.Price, s.InStock)
	require.NoError(t, err)

	return s
}

// seedOrder inserts an order directly, bypassing the transactional path.
func seedOrder(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, amount decimal.Decimal, status model.OrderStatus, createdAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO orders (id, user_id, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, id, userID, amount, status, createdAt)
	require.NoError(t, err)

	return id
}
