package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/catalog"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// SyncService mirrors showcase products into the shop store. The showcase
// record is authoritative; the shop record is overwritten on every pass.
type SyncService struct {
	productRepo catalog.ProductRepository
	shopRepo    catalog.ShopProductRepository
	clock       shared.Clock
	logger      *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	productRepo catalog.ProductRepository,
	shopRepo catalog.ShopProductRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		clock:       clock,
		logger:      logger,
	}
}

// SyncStats summarizes one mirror pass
type SyncStats struct {
	Total       int       `json:"total"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// SyncAll mirrors every sync-enabled showcase product for a tenant.
// A failure on one product does not stop the pass.
func (s *SyncService) SyncAll(ctx context.Context, tenantID uuid.UUID) (*SyncStats, error) {
	products, err := s.productRepo.FindSyncEnabled(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	stats := &SyncStats{Total: len(products)}
	for _, p := range products {
		created, err := s.syncOne(ctx, p)
		if err != nil {
			stats.Failed++
			s.logger.Error("failed to mirror product to shop",
				zap.String("product_id", p.ID.String()),
				zap.String("sku", p.SKU),
				zap.Error(err))
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
	stats.ProcessedAt = s.clock.Now()

	s.logger.Info("shop mirror pass completed",
		zap.Int("total", stats.Total),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// SyncOne mirrors a single showcase product immediately, regardless of a
// scheduled pass. Used after stock adjustments that must reach the shop now.
func (s *SyncService) SyncOne(ctx context.Context, tenantID, productID uuid.UUID) (*ShopProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if !product.SyncWithShop {
		return nil, shared.NewDomainError("SYNC_DISABLED", "Product is not flagged for shop sync")
	}
	if _, err := s.syncOne(ctx, product); err != nil {
		return nil, err
	}
	mirror, err := s.shopRepo.FindByShowcaseID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return ToShopProductResponse(mirror), nil
}

func (s *SyncService) syncOne(ctx context.Context, p *catalog.Product) (created bool, err error) {
	mirror, err := s.shopRepo.FindByShowcaseID(ctx, p.TenantID, p.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return false, err
		}
		mirror = catalog.NewShopProduct(p)
		mirror.MirrorFrom(p, s.clock.Now())
		return true, s.shopRepo.Create(ctx, mirror)
	}
	mirror.MirrorFrom(p, s.clock.Now())
	return false, s.shopRepo.Save(ctx, mirror)
}
