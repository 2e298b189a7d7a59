package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// Product is the showcase ("kardex") master record. It is the source of
// truth for stock quantity; the shop record mirrors it.
type Product struct {
	shared.TenantAggregateRoot
	Name          string
	SKU           string
	Category      string
	Description   string
	UnitPrice     decimal.Decimal
	StockQuantity decimal.Decimal
	MinStockLevel decimal.Decimal
	SyncWithShop  bool
	IsActive      bool
}

// NewProduct creates a showcase product
func NewProduct(tenantID uuid.UUID, name, sku, category string, unitPrice decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		SKU:                 sku,
		Category:            category,
		UnitPrice:           unitPrice,
		StockQuantity:       decimal.Zero,
		MinStockLevel:       decimal.Zero,
		SyncWithShop:        true,
		IsActive:            true,
	}, nil
}

// AdjustStock applies a signed stock delta; the result may not go negative.
func (p *Product) AdjustStock(delta decimal.Decimal) error {
	next := p.StockQuantity.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Stock quantity cannot go negative")
	}
	p.StockQuantity = next
	p.UpdatedAt = time.Now()
	return nil
}

// IsLowStock reports whether the stock fell to or below the minimum level.
func (p *Product) IsLowStock() bool {
	return p.MinStockLevel.IsPositive() && p.StockQuantity.LessThanOrEqual(p.MinStockLevel)
}

// ShopProduct is the sellable record in the shop store, mirrored from the
// showcase record for products flagged SyncWithShop.
type ShopProduct struct {
	shared.TenantAggregateRoot
	ShowcaseProductID uuid.UUID
	Name              string
	SKU               string
	Price             decimal.Decimal
	StockQuantity     decimal.Decimal
	Visible           bool
	LastSyncedAt      *time.Time
}

// MirrorFrom overwrites the sellable fields from the showcase record.
// The showcase side is authoritative.
func (s *ShopProduct) MirrorFrom(p *Product, now time.Time) {
	s.Name = p.Name
	s.SKU = p.SKU
	s.Price = p.UnitPrice
	s.StockQuantity = p.StockQuantity
	s.Visible = p.IsActive && p.StockQuantity.IsPositive()
	s.LastSyncedAt = &now
	s.UpdatedAt = now
}

// NewShopProduct creates the shop mirror of a showcase product
func NewShopProduct(p *Product) *ShopProduct {
	s := &ShopProduct{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(p.TenantID),
		ShowcaseProductID:   p.ID,
	}
	s.MirrorFrom(p, time.Now())
	return s
}

// ProductRepository persists showcase products
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Product, int64, error)
	FindSyncEnabled(ctx context.Context, tenantID uuid.UUID) ([]*Product, error)
}

// ShopProductRepository persists shop mirrors
type ShopProductRepository interface {
	Create(ctx context.Context, s *ShopProduct) error
	Save(ctx context.Context, s *ShopProduct) error
	FindByShowcaseID(ctx context.Context, tenantID, showcaseProductID uuid.UUID) (*ShopProduct, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ShopProduct, int64, error)
}
