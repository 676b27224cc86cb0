package repository

import (
	"context"
	"fmt"

	"chai-duka/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, slug, description, category, price_per_100g,
	image_url, stock_grams, active, created_at, updated_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Category,
		&p.PricePer100g, &p.ImageURL, &p.StockGrams, &p.Active,
		&p.CreatedAt, &p.UpdatedAt)
}

// List retrieves products with pagination, optionally filtered by category.
func (r *productRepository) List(ctx context.Context, category string, activeOnly bool, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR category = $1)
		  AND (NOT $2 OR active)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, category, activeOnly, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", category).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetSizes retrieves the package sizes of a product.
func (r *productRepository) GetSizes(ctx context.Context, productID uuid.UUID) ([]model.ProductSize, error) {
	query := `
		SELECT id, product_id, size_grams, price, in_stock
		FROM product_sizes
		WHERE product_id = $1
		ORDER BY size_grams
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query product sizes")
		return nil, fmt.Errorf("failed to query product sizes: %w", err)
	}
	defer rows.Close()

	var sizes []model.ProductSize
	for rows.Next() {
		var s model.ProductSize
		if err := rows.Scan(&s.ID, &s.ProductID, &s.SizeGrams, &s.Price, &s.InStock); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product size row")
			return nil, fmt.Errorf("failed to scan product size: %w", err)
		}
		sizes = append(sizes, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product size rows")
		return nil, fmt.Errorf("error iterating product sizes: %w", err)
	}

	return sizes, nil
}

// GetSizeByID retrieves a single package size.
func (r *productRepository) GetSizeByID(ctx context.Context, id uuid.UUID) (*model.ProductSize, error) {
	query := `
		SELECT id, product_id, size_grams, price, in_stock
		FROM product_sizes
		WHERE id = $1
	`

	var s model.ProductSize
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.ProductID, &s.SizeGrams, &s.Price, &s.InStock)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("size_id", id.String()).Msg("product size not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("size_id", id.String()).Msg("failed to query product size")
		return nil, fmt.Errorf("failed to query product size: %w", err)
	}

	return &s, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, category,
			price_per_100g, image_url, stock_grams, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Slug, p.Description,
		p.Category, p.PricePer100g, p.ImageURL, p.StockGrams, p.Active,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID.String()).Msg("product created")

	return nil
}

// Update rewrites a product's mutable fields.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, category = $5,
			price_per_100g = $6, image_url = $7, stock_grams = $8,
			active = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Slug, p.Description,
		p.Category, p.PricePer100g, p.ImageURL, p.StockGrams, p.Active, p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Deactivate soft-deletes a product by clearing its active flag.
func (r *productRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE products
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to deactivate product")
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Debug().Str("product_id", id.String()).Msg("product deactivated")

	return nil
}

// CreateSize inserts a new package size for a product.
func (r *productRepository) CreateSize(ctx context.Context, s *model.ProductSize) error {
	query := `
		INSERT INTO product_sizes (id, product_id, size_grams, price, in_stock)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, s.ID, s.ProductID, s.SizeGrams, s.Price, s.InStock)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", s.ProductID.String()).
			Int("size_grams", s.SizeGrams).
			Msg("failed to create product size")
		return fmt.Errorf("failed to create product size: %w", err)
	}

	return nil
}
