package service

import (
	"context"
	"fmt"
	"time"

	"chai-duka/internal/model"
	"chai-duka/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// looseLeafGrams is the pricing unit for products bought without a package
// size: the per-100g price applies per 100 grams ordered.
const looseLeafGrams = 100

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get retrieves the user's cart with line and running totals.
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	total := decimal.Zero
	for i := range items {
		items[i].LineTotal = lineTotal(items[i])
		total = total.Add(items[i].LineTotal)
	}

	return &model.CartResponse{Items: items, Total: total}, nil
}

// Add puts an item in the cart after checking the product, the chosen size
// and the gram amount.
func (s *cartService) Add(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) error {
	if req == nil || req.GramsOrdered <= 0 {
		return model.ErrInvalidGrams
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil || !product.Active {
		return model.ErrProductNotFound
	}

	sizeGrams := looseLeafGrams
	if req.SizeID != nil {
		size, err := s.productRepo.GetSizeByID(ctx, *req.SizeID)
		if err != nil {
			return fmt.Errorf("failed to get product size: %w", err)
		}
		if size == nil || size.ProductID != req.ProductID {
			return model.ErrProductNotFound
		}
		sizeGrams = size.SizeGrams
	}

	if req.GramsOrdered%sizeGrams != 0 {
		s.logger.Warn().
			Str("product_id", req.ProductID.String()).
			Int("grams", req.GramsOrdered).
			Int("size_grams", sizeGrams).
			Msg("grams not a multiple of the package size")
		return model.ErrInvalidGrams
	}

	now := time.Now()
	return s.cartRepo.Upsert(ctx, &model.CartItem{
		ID:           uuid.New(),
		UserID:       userID,
		ProductID:    req.ProductID,
		SizeID:       req.SizeID,
		GramsOrdered: req.GramsOrdered,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// UpdateGrams changes the ordered grams of a cart item.
func (s *cartService) UpdateGrams(ctx context.Context, userID, itemID uuid.UUID, grams int) error {
	if grams <= 0 {
		return model.ErrInvalidGrams
	}
	return s.cartRepo.UpdateGrams(ctx, itemID, userID, grams)
}

// Remove deletes a single cart item.
func (s *cartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, itemID, userID)
}

// Clear empties the user's cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.ClearByUser(ctx, userID)
}

// lineTotal prices a cart line: the unit price applies once per package
// size's worth of grams.
func lineTotal(item model.CartItemDetail) decimal.Decimal {
	units := item.GramsOrdered / item.SizeGrams
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(units)))
}
