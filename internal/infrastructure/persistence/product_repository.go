package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/momtazchem/backend/internal/domain/catalog"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts a showcase product
func (r *GormProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return r.db.WithContext(ctx).Create(models.ShowcaseProductModelFromDomain(p)).Error
}

// Save updates a showcase product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	m := models.ShowcaseProductModelFromDomain(p)
	return r.db.WithContext(ctx).Model(&models.ShowcaseProductModel{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(m).Error
}

// FindByID finds a showcase product within a tenant
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var m models.ShowcaseProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindBySKU finds a showcase product by SKU within a tenant
func (r *GormProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	var m models.ShowcaseProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists a tenant's showcase products with paging and search
func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShowcaseProductModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ShowcaseProductModel
	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir))).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*catalog.Product, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

// FindSyncEnabled lists a tenant's sync-flagged showcase products
func (r *GormProductRepository) FindSyncEnabled(ctx context.Context, tenantID uuid.UUID) ([]*catalog.Product, error) {
	var rows []models.ShowcaseProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sync_with_shop = ?", tenantID, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*catalog.Product, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormShopProductRepository implements catalog.ShopProductRepository using GORM
type GormShopProductRepository struct {
	db *gorm.DB
}

// NewGormShopProductRepository creates a new GormShopProductRepository
func NewGormShopProductRepository(db *gorm.DB) *GormShopProductRepository {
	return &GormShopProductRepository{db: db}
}

// Create inserts a shop mirror row
func (r *GormShopProductRepository) Create(ctx context.Context, s *catalog.ShopProduct) error {
	return r.db.WithContext(ctx).Create(models.ShopProductModelFromDomain(s)).Error
}

// Save updates a shop mirror row
func (r *GormShopProductRepository) Save(ctx context.Context, s *catalog.ShopProduct) error {
	m := models.ShopProductModelFromDomain(s)
	return r.db.WithContext(ctx).Model(&models.ShopProductModel{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(m).Error
}

// FindByShowcaseID finds the mirror of a showcase product
func (r *GormShopProductRepository) FindByShowcaseID(ctx context.Context, tenantID, showcaseProductID uuid.UUID) (*catalog.ShopProduct, error) {
	var m models.ShopProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND showcase_product_id = ?", tenantID, showcaseProductID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists a tenant's shop mirrors
func (r *GormShopProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.ShopProduct, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShopProductModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ShopProductModel
	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir))).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*catalog.ShopProduct, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

var _ catalog.ShopProductRepository = (*GormShopProductRepository)(nil)
