package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/catalog"
)

// CreateProductRequest carries input for creating a showcase product
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	SKU           string          `json:"sku" binding:"required"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	SyncWithShop  *bool           `json:"sync_with_shop"`
}

// AdjustStockRequest carries a signed stock delta
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

// ProductResponse is the showcase product representation returned to callers
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	SyncWithShop  bool            `json:"sync_with_shop"`
	IsActive      bool            `json:"is_active"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ShopProductResponse is the shop mirror representation
type ShopProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	ShowcaseProductID uuid.UUID       `json:"showcase_product_id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
	Visible           bool            `json:"visible"`
	LastSyncedAt      *time.Time      `json:"last_synced_at,omitempty"`
}

// ToProductResponse converts a showcase product to its response form
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Category:      p.Category,
		Description:   p.Description,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		SyncWithShop:  p.SyncWithShop,
		IsActive:      p.IsActive,
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToShopProductResponse converts a shop mirror to its response form
func ToShopProductResponse(s *catalog.ShopProduct) *ShopProductResponse {
	return &ShopProductResponse{
		ID:                s.ID,
		ShowcaseProductID: s.ShowcaseProductID,
		Name:              s.Name,
		SKU:               s.SKU,
		Price:             s.Price,
		StockQuantity:     s.StockQuantity,
		Visible:           s.Visible,
		LastSyncedAt:      s.LastSyncedAt,
	}
}
