package service

import (
	"context"
	"fmt"
	"time"

	"chai-duka/internal/model"
	"chai-duka/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// blogService implements BlogService.
type blogService struct {
	postRepo repository.PostRepository
	logger   zerolog.Logger
}

// NewBlogService creates a new blog service.
func NewBlogService(postRepo repository.PostRepository, logger zerolog.Logger) BlogService {
	return &blogService{
		postRepo: postRepo,
		logger:   logger.With().Str("service", "blog").Logger(),
	}
}

// ListPublished retrieves published posts, newest first.
func (s *blogService) ListPublished(ctx context.Context, limit, offset int) ([]model.Post, error) {
	posts, err := s.postRepo.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetBySlug retrieves a single published post.
func (s *blogService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, model.ErrPostNotFound
	}
	return post, nil
}

// Create inserts a new post.
func (s *blogService) Create(ctx context.Context, authorID uuid.UUID, req *model.PostRequest) (*model.Post, error) {
	if err := validatePostRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	post := &model.Post{
		ID:            uuid.New(),
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Body:          req.Body,
		CoverImageURL: req.CoverImageURL,
		AuthorID:      authorID,
		Published:     req.Published,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("slug", req.Slug).Msg("failed to create post")
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info().Str("post_id", post.ID.String()).Str("slug", post.Slug).Msg("post created")

	return post, nil
}

// Update rewrites a post.
func (s *blogService) Update(ctx context.Context, id uuid.UUID, req *model.PostRequest) (*model.Post, error) {
	if err := validatePostRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if existing == nil {
		return nil, model.ErrPostNotFound
	}

	existing.Title = req.Title
	existing.Slug = req.Slug
	existing.Excerpt = req.Excerpt
	existing.Body = req.Body
	existing.CoverImageURL = req.CoverImageURL
	existing.Published = req.Published
	existing.UpdatedAt = time.Now()

	if err := s.postRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", id.String()).Msg("post updated")

	return existing, nil
}

// Delete removes a post.
func (s *blogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("post_id", id.String()).Msg("post deleted")

	return nil
}

// validatePostRequest checks the required post fields.
func validatePostRequest(req *model.PostRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Post payload is required")
	}
	if req.Title == "" || req.Slug == "" || req.Body == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Title, slug and body are required")
	}
	return nil
}
