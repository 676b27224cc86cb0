package repository

import (
	"context"
	"fmt"

	"chai-duka/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// ListByUser retrieves a user's cart items joined with product and size
// detail. The unit price comes from the chosen package size when one is set,
// otherwise from the product's per-100g price.
func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItemDetail, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.size_id, ci.grams_ordered,
			ci.created_at, ci.updated_at,
			p.name,
			COALESCE(ps.size_grams, 100),
			COALESCE(ps.price, p.price_per_100g)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN product_sizes ps ON ps.id = ci.size_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItemDetail
	for rows.Next() {
		var item model.CartItemDetail
		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.SizeID,
			&item.GramsOrdered, &item.CreatedAt, &item.UpdatedAt,
			&item.ProductName, &item.SizeGrams, &item.UnitPrice)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// Upsert adds a cart item; an existing row for the same product and size
// accumulates the ordered grams instead.
func (r *cartRepository) Upsert(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, size_id, grams_ordered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, product_id, size_id)
		DO UPDATE SET
			grams_ordered = cart_items.grams_ordered + EXCLUDED.grams_ordered,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, item.ID, item.UserID, item.ProductID,
		item.SizeID, item.GramsOrdered, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", item.UserID.String()).
			Str("product_id", item.ProductID.String()).
			Msg("failed to upsert cart item")
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	r.logger.Debug().
		Str("user_id", item.UserID.String()).
		Str("product_id", item.ProductID.String()).
		Int("grams", item.GramsOrdered).
		Msg("cart item upserted")

	return nil
}

// UpdateGrams changes the ordered grams of a user's cart item.
func (r *cartRepository) UpdateGrams(ctx context.Context, id, userID uuid.UUID, grams int) error {
	query := `
		UPDATE cart_items
		SET grams_ordered = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID, grams)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_item_id", id.String()).Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// Delete removes a single cart item owned by the user.
func (r *cartRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_item_id", id.String()).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// ClearByUser deletes all of a user's cart rows.
func (r *cartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID.String()).
		Int64("rows", tag.RowsAffected()).
		Msg("cart cleared")

	return nil
}
