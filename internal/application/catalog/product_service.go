package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/catalog"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// ProductService handles showcase product operations
type ProductService struct {
	productRepo catalog.ProductRepository
	shopRepo    catalog.ShopProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	shopRepo catalog.ShopProductRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		logger:      logger,
	}
}

// Create creates a new showcase product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindBySKU(ctx, tenantID, req.SKU)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.SKU, req.Category, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.MinStockLevel = req.MinStockLevel
	if req.SyncWithShop != nil {
		product.SyncWithShop = *req.SyncWithShop
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Get returns a showcase product by id
func (s *ProductService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns showcase products for a tenant
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ProductResponse, int64, error) {
	products, total, err := s.productRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out, total, nil
}

// AdjustStock applies a stock delta to the showcase record
func (s *ProductService) AdjustStock(ctx context.Context, tenantID, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := product.AdjustStock(req.Delta); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if product.IsLowStock() {
		s.logger.Warn("product stock at or below minimum level",
			zap.String("product_id", product.ID.String()),
			zap.String("sku", product.SKU),
			zap.String("stock", product.StockQuantity.String()))
	}
	return ToProductResponse(product), nil
}

// SetActive toggles whether the product is sellable
func (s *ProductService) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	product.IsActive = active
	product.IncrementVersion()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}
