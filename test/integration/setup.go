package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"chai-duka/internal/config"
	"chai-duka/internal/handler"
	"chai-duka/internal/mailer"
	"chai-duka/internal/model"
	"chai-duka/internal/mpesa"
	"chai-duka/internal/promo"
	"chai-duka/internal/repository"
	"chai-duka/internal/router"
	"chai-duka/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// jwtSecret signs session tokens for integration tests.
const jwtSecret = "integration-test-secret"

// callbackSecret is the pre-shared path segment for the payment callback.
const callbackSecret = "itest-callback-secret"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

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
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProfile inserts a user and returns its ID.
func SeedProfile(t *testing.T, pool *pgxpool.Pool, email, role string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO profiles (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
	`, id, email, "Integration Tester", role)
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	return id
}

// SeedProductWithSize inserts a product and one package size.
func SeedProductWithSize(t *testing.T, pool *pgxpool.Pool, name string, sizeGrams int, price decimal.Decimal) (uuid.UUID, uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	productID := uuid.New()
	sizeID := uuid.New()

	_, err := pool.Exec(ctx, `
		INSERT INTO products (id, name, slug, category, price_per_100g, stock_grams, active)
		VALUES ($1, $2, $3, 'black', $4, 100000, TRUE)
	`, productID, name, name+"-"+productID.String()[:8], price)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO product_sizes (id, product_id, size_grams, price, in_stock)
		VALUES ($1, $2, $3, $4, TRUE)
	`, sizeID, productID, sizeGrams, price)
	if err != nil {
		t.Fatalf("failed to seed product size: %v", err)
	}

	return productID, sizeID
}

// SignToken issues a signed session token for the given user.
func SignToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	return signed
}

// SetupTestServer wires the full application stack against the test
// database and the given payment gateway base URL.
func SetupTestServer(t *testing.T, testDB *TestDB, gatewayURL string) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	ctx := context.Background()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	paymentRepo := repository.NewPaymentRepository(testDB.Pool, logger)
	postRepo := repository.NewPostRepository(testDB.Pool, logger)
	profileRepo := repository.NewProfileRepository(testDB.Pool, logger)

	mpesaCfg := config.MpesaConfig{
		BaseURL:         gatewayURL,
		ConsumerKey:     "itest-key",
		ConsumerSecret:  "itest-secret",
		ShortCode:       "174379",
		Passkey:         "itest-passkey",
		CallbackBaseURL: "https://shop.example.com",
		CallbackSecret:  callbackSecret,
		PollInterval:    10 * time.Millisecond,
		PollAttempts:    2,
	}

	gateway := mpesa.NewClient(mpesaCfg, logger)
	poller := mpesa.NewPoller(gateway, mpesaCfg.PollInterval, mpesaCfg.PollAttempts, logger)

	validatorConfig := &promo.ValidatorConfig{
		FilePaths:     []string{},
		MinMatchCount: 1,
	}
	validator, err := promo.NewValidator(ctx, validatorConfig, promo.NewFileLoader(logger), logger)
	if err != nil {
		t.Fatalf("failed to create promo validator: %v", err)
	}
	t.Cleanup(func() {
		validator.Close()
	})

	mail := mailer.NewClient(config.MailConfig{}, logger)

	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, paymentRepo, gateway, poller, validator, logger)
	callbackService := service.NewCallbackService(orderRepo, paymentRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	blogService := service.NewBlogService(postRepo, logger)
	contactService := service.NewContactService(mail, logger)

	handlers := router.Handlers{
		Product:  handler.NewProductHandler(catalogService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Callback: handler.NewCallbackHandler(callbackService, callbackSecret, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Blog:     handler.NewBlogHandler(blogService, logger),
		Contact:  handler.NewContactHandler(contactService, logger),
		Admin:    handler.NewAdminHandler(catalogService, orderService, blogService, logger),
	}

	return router.New(handlers, profileRepo, jwtSecret, logger)
}

// OrderRow reads back the relevant columns of an order for assertions.
func OrderRow(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) (model.OrderStatus, decimal.Decimal, *string) {
	t.Helper()

	var status model.OrderStatus
	var amount decimal.Decimal
	var receipt *string
	err := pool.QueryRow(context.Background(), `
		SELECT status, total_amount, mpesa_receipt FROM orders WHERE id = $1
	`, id).Scan(&status, &amount, &receipt)
	if err != nil {
		t.Fatalf("failed to read order: %v", err)
	}

	return status, amount, receipt
}
