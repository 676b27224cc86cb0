package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"chai-duka/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, id uuid.UUID) (*model.ProductDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductDetail), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) AddSize(ctx context.Context, productID uuid.UUID, req *model.ProductSizeRequest) (*model.ProductSize, error) {
	args := m.Called(ctx, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductSize), args.Error(1)
}

func TestProductHandler_List(t *testing.T) {
	svc := new(MockCatalogService)
	svc.On("List", mock.Anything, "green", 20, 0).Return([]model.Product{
		{ID: uuid.New(), Name: "Loose Green", Category: "green", PricePer100g: decimal.NewFromInt(380)},
	}, nil)

	h := NewProductHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=green", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loose Green")
	svc.AssertExpectations(t)
}

func TestProductHandler_List_EmptyIsArray(t *testing.T) {
	svc := new(MockCatalogService)
	svc.On("List", mock.Anything, "", 20, 0).Return(nil, nil)

	h := NewProductHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProductHandler_Get(t *testing.T) {
	productID := uuid.New()

	svc := new(MockCatalogService)
	svc.On("Get", mock.Anything, productID).Return(&model.ProductDetail{
		Product: model.Product{ID: productID, Name: "Kericho Gold"},
		Sizes:   []model.ProductSize{{SizeGrams: 250, Price: decimal.NewFromInt(700)}},
	}, nil)

	h := NewProductHandler(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+productID.String(), nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kericho Gold")
}

func TestProductHandler_Get_BadID(t *testing.T) {
	svc := new(MockCatalogService)

	h := NewProductHandler(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	productID := uuid.New()

	svc := new(MockCatalogService)
	svc.On("Get", mock.Anything, productID).Return(nil, model.ErrProductNotFound)

	h := NewProductHandler(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+productID.String(), nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
