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

// postRepository implements PostRepository using PostgreSQL.
type postRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostRepository creates a new PostgreSQL-backed post repository.
func NewPostRepository(pool *pgxpool.Pool, logger zerolog.Logger) PostRepository {
	return &postRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "post").Logger(),
	}
}

const postColumns = `id, title, slug, excerpt, body, cover_image_url,
	author_id, published, created_at, updated_at`

func scanPost(row pgx.Row, p *model.Post) error {
	return row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body,
		&p.CoverImageURL, &p.AuthorID, &p.Published, &p.CreatedAt, &p.UpdatedAt)
}

// ListPublished retrieves published posts, newest first.
func (r *postRepository) ListPublished(ctx context.Context, limit, offset int) ([]model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE published
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query posts")
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := scanPost(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan post row")
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating post rows")
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// GetBySlug retrieves a single published post.
func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE slug = $1 AND published
	`

	var p model.Post
	err := scanPost(r.pool.QueryRow(ctx, query, slug), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("slug", slug).Msg("post not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to query post")
		return nil, fmt.Errorf("failed to query post: %w", err)
	}

	return &p, nil
}

// GetByID retrieves a post regardless of publication state.
func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1
	`

	var p model.Post
	err := scanPost(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("post_id", id.String()).Msg("failed to query post")
		return nil, fmt.Errorf("failed to query post: %w", err)
	}

	return &p, nil
}

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (id, title, slug, excerpt, body, cover_image_url,
			author_id, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Title, p.Slug, p.Excerpt, p.Body,
		p.CoverImageURL, p.AuthorID, p.Published, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("slug", p.Slug).Msg("failed to create post")
		return fmt.Errorf("failed to create post: %w", err)
	}

	r.logger.Debug().Str("post_id", p.ID.String()).Msg("post created")

	return nil
}

// Update rewrites a post's mutable fields.
func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	query := `
		UPDATE posts
		SET title = $2, slug = $3, excerpt = $4, body = $5,
			cover_image_url = $6, published = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.Title, p.Slug, p.Excerpt,
		p.Body, p.CoverImageURL, p.Published, p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("post_id", p.ID.String()).Msg("failed to update post")
		return fmt.Errorf("failed to update post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}

	return nil
}

// Delete removes a post.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM posts
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("post_id", id.String()).Msg("failed to delete post")
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}

	return nil
}
