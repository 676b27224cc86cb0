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

// catalogService implements CatalogService.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(productRepo repository.ProductRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// List retrieves active products with pagination.
func (s *catalogService) List(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx, category, true, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// Get retrieves a single product with its package sizes.
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	sizes, err := s.productRepo.GetSizes(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product sizes")
		return nil, fmt.Errorf("failed to get product sizes: %w", err)
	}

	return &model.ProductDetail{Product: *product, Sizes: sizes}, nil
}

// Create inserts a new product.
func (s *catalogService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:           uuid.New(),
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Category:     req.Category,
		PricePer100g: req.PricePer100g,
		ImageURL:     req.ImageURL,
		StockGrams:   req.StockGrams,
		Active:       req.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("slug", req.Slug).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID.String()).Str("slug", product.Slug).Msg("product created")

	return product, nil
}

// Update rewrites a product's fields.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:           id,
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Category:     req.Category,
		PricePer100g: req.PricePer100g,
		ImageURL:     req.ImageURL,
		StockGrams:   req.StockGrams,
		Active:       req.Active,
		UpdatedAt:    time.Now(),
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")

	return product, nil
}

// Deactivate soft-deletes a product.
func (s *catalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deactivated")

	return nil
}

// AddSize adds a package size to a product.
func (s *catalogService) AddSize(ctx context.Context, productID uuid.UUID, req *model.ProductSizeRequest) (*model.ProductSize, error) {
	if req.SizeGrams <= 0 {
		return nil, model.ErrInvalidGrams
	}
	if req.Price.IsNegative() {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Price must not be negative")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	size := &model.ProductSize{
		ID:        uuid.New(),
		ProductID: productID,
		SizeGrams: req.SizeGrams,
		Price:     req.Price,
		InStock:   req.InStock,
	}

	if err := s.productRepo.CreateSize(ctx, size); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to create product size")
		return nil, fmt.Errorf("failed to create product size: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Int("size_grams", req.SizeGrams).
		Msg("product size added")

	return size, nil
}

// validateProductRequest checks the required product fields.
func validateProductRequest(req *model.ProductRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Product payload is required")
	}
	if req.Name == "" || req.Slug == "" || req.Category == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Name, slug and category are required")
	}
	if req.PricePer100g.IsNegative() {
		return model.NewDomainError(model.ErrCodeMissingField, "Price must not be negative")
	}
	return nil
}
