package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/catalog"
)

// ShowcaseProductModel is the persistence model for the kardex master record
type ShowcaseProductModel struct {
	TenantAggregateModel
	Name          string          `gorm:"type:varchar(200);not null"`
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_showcase_products_tenant_sku,priority:2"`
	Category      string          `gorm:"type:varchar(100);index"`
	Description   string          `gorm:"type:text"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStockLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SyncWithShop  bool            `gorm:"not null;default:true"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ShowcaseProductModel) TableName() string {
	return "showcase_products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ShowcaseProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		Name:          m.Name,
		SKU:           m.SKU,
		Category:      m.Category,
		Description:   m.Description,
		UnitPrice:     m.UnitPrice,
		StockQuantity: m.StockQuantity,
		MinStockLevel: m.MinStockLevel,
		SyncWithShop:  m.SyncWithShop,
		IsActive:      m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// ShowcaseProductModelFromDomain creates a persistence model from a domain Product
func ShowcaseProductModelFromDomain(p *catalog.Product) *ShowcaseProductModel {
	m := &ShowcaseProductModel{}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Category = p.Category
	m.Description = p.Description
	m.UnitPrice = p.UnitPrice
	m.StockQuantity = p.StockQuantity
	m.MinStockLevel = p.MinStockLevel
	m.SyncWithShop = p.SyncWithShop
	m.IsActive = p.IsActive
	return m
}

// ShopProductModel is the persistence model for the shop mirror
type ShopProductModel struct {
	TenantAggregateModel
	ShowcaseProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_shop_products_tenant_showcase,priority:2"`
	Name              string          `gorm:"type:varchar(200);not null"`
	SKU               string          `gorm:"type:varchar(50);not null;index"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Visible           bool            `gorm:"not null;default:false;index"`
	LastSyncedAt      *time.Time
}

// TableName returns the table name for GORM
func (ShopProductModel) TableName() string {
	return "shop_products"
}

// ToDomain converts the persistence model to a domain ShopProduct
func (m *ShopProductModel) ToDomain() *catalog.ShopProduct {
	s := &catalog.ShopProduct{
		ShowcaseProductID: m.ShowcaseProductID,
		Name:              m.Name,
		SKU:               m.SKU,
		Price:             m.Price,
		StockQuantity:     m.StockQuantity,
		Visible:           m.Visible,
		LastSyncedAt:      m.LastSyncedAt,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// ShopProductModelFromDomain creates a persistence model from a domain ShopProduct
func ShopProductModelFromDomain(s *catalog.ShopProduct) *ShopProductModel {
	m := &ShopProductModel{}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.ShowcaseProductID = s.ShowcaseProductID
	m.Name = s.Name
	m.SKU = s.SKU
	m.Price = s.Price
	m.StockQuantity = s.StockQuantity
	m.Visible = s.Visible
	m.LastSyncedAt = s.LastSyncedAt
	return m
}
