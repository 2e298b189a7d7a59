package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/momtazchem/backend/internal/application/catalog"
	"github.com/momtazchem/backend/internal/domain/catalog"
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/domain/shared"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindSyncEnabled(ctx context.Context, tenantID uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

type MockShopProductRepository struct {
	mock.Mock
}

func (m *MockShopProductRepository) Create(ctx context.Context, s *catalog.ShopProduct) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShopProductRepository) Save(ctx context.Context, s *catalog.ShopProduct) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShopProductRepository) FindByShowcaseID(ctx context.Context, tenantID, showcaseProductID uuid.UUID) (*catalog.ShopProduct, error) {
	args := m.Called(ctx, tenantID, showcaseProductID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ShopProduct), args.Error(1)
}

func (m *MockShopProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.ShopProduct, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.ShopProduct), args.Get(1).(int64), args.Error(2)
}

type productHandlerFixture struct {
	products *MockProductRepository
	shop     *MockShopProductRepository
	tenantID uuid.UUID
}

func newProductRouter(t *testing.T, role identity.Role) (*gin.Engine, *productHandlerFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := &productHandlerFixture{
		products: new(MockProductRepository),
		shop:     new(MockShopProductRepository),
		tenantID: uuid.New(),
	}
	clock := fixedClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
	h := NewProductHandler(
		catalogapp.NewProductService(fx.products, fx.shop, zap.NewNop()),
		catalogapp.NewSyncService(fx.products, fx.shop, clock, zap.NewNop()),
	)

	r := gin.New()
	api := r.Group("/api/v1", authInjector(fx.tenantID, uuid.New(), role))
	h.RegisterRoutes(api)
	return r, fx
}

func showcaseProduct(t *testing.T, tenantID uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, "Sodium Hypochlorite 12%", "NAOCL-12", "water-treatment", decimal.NewFromInt(24))
	require.NoError(t, err)
	return p
}

func TestProductHandler_Create(t *testing.T) {
	r, fx := newProductRouter(t, identity.RoleWarehouse)

	fx.products.On("FindBySKU", mock.Anything, fx.tenantID, "NAOCL-12").Return(nil, shared.ErrNotFound)
	fx.products.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	body := bytes.NewBufferString(`{"name":"Sodium Hypochlorite 12%","sku":"NAOCL-12","category":"water-treatment","unit_price":"24"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"sku":"NAOCL-12"`)
	fx.products.AssertExpectations(t)
}

func TestProductHandler_CreateRequiresWarehouseRole(t *testing.T) {
	r, _ := newProductRouter(t, identity.RoleFinancial)

	body := bytes.NewBufferString(`{"name":"X","sku":"X-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductHandler_AdjustStockRejectsNegativeResult(t *testing.T) {
	r, fx := newProductRouter(t, identity.RoleWarehouse)
	p := showcaseProduct(t, fx.tenantID)

	fx.products.On("FindByID", mock.Anything, fx.tenantID, p.ID).Return(p, nil)

	body := bytes.NewBufferString(`{"delta":"-5"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+p.ID.String()+"/stock", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fx.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductHandler_SyncOneCreatesMirror(t *testing.T) {
	r, fx := newProductRouter(t, identity.RoleWarehouse)
	p := showcaseProduct(t, fx.tenantID)

	fx.products.On("FindByID", mock.Anything, fx.tenantID, p.ID).Return(p, nil)
	fx.shop.On("FindByShowcaseID", mock.Anything, fx.tenantID, p.ID).Return(nil, shared.ErrNotFound).Once()
	fx.shop.On("Create", mock.Anything, mock.AnythingOfType("*catalog.ShopProduct")).Return(nil)
	fx.shop.On("FindByShowcaseID", mock.Anything, fx.tenantID, p.ID).Return(catalog.NewShopProduct(p), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+p.ID.String()+"/sync", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sku":"NAOCL-12"`)
	fx.shop.AssertExpectations(t)
}

func TestProductHandler_ListIsOpenToCustomers(t *testing.T) {
	r, fx := newProductRouter(t, identity.RoleCustomer)
	p := showcaseProduct(t, fx.tenantID)

	fx.products.On("FindAll", mock.Anything, fx.tenantID, mock.AnythingOfType("shared.Filter")).
		Return([]*catalog.Product{p}, int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
