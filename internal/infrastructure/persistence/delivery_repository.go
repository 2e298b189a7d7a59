package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/momtazchem/backend/internal/domain/delivery"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/persistence/models"
)

// GormVerificationRepository implements delivery.VerificationRepository.
// Confirmation rows are append-only.
type GormVerificationRepository struct {
	db *gorm.DB
}

// NewGormVerificationRepository creates a new GormVerificationRepository
func NewGormVerificationRepository(db *gorm.DB) *GormVerificationRepository {
	return &GormVerificationRepository{db: db}
}

// Create inserts a confirmation row
func (r *GormVerificationRepository) Create(ctx context.Context, v *delivery.Verification) error {
	return r.db.WithContext(ctx).Create(models.DeliveryVerificationModelFromDomain(v)).Error
}

// FindByOrder lists an order's confirmation attempts, oldest first
func (r *GormVerificationRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*delivery.Verification, error) {
	var rows []models.DeliveryVerificationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("verified_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*delivery.Verification, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

var _ delivery.VerificationRepository = (*GormVerificationRepository)(nil)

// GormDropPointRepository stores and resolves delivery destinations captured
// at checkout. It satisfies the delivery application's DropPointResolver.
type GormDropPointRepository struct {
	db *gorm.DB
}

// NewGormDropPointRepository creates a new GormDropPointRepository
func NewGormDropPointRepository(db *gorm.DB) *GormDropPointRepository {
	return &GormDropPointRepository{db: db}
}

// SaveDropPoint records or replaces the destination for an order
func (r *GormDropPointRepository) SaveDropPoint(ctx context.Context, tenantID, orderID uuid.UUID, loc delivery.Location, address string) error {
	m := &models.DropPointModel{
		TenantID:  tenantID,
		OrderID:   orderID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Address:   address,
	}
	m.FromDomainBaseEntity(shared.NewBaseEntity())
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Assign(map[string]interface{}{
			"latitude":  loc.Latitude,
			"longitude": loc.Longitude,
			"address":   address,
		}).
		FirstOrCreate(m).Error
}

// FindDropPoint returns the recorded destination for an order
func (r *GormDropPointRepository) FindDropPoint(ctx context.Context, tenantID, orderID uuid.UUID) (*delivery.Location, error) {
	var m models.DropPointModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery.Location{Latitude: m.Latitude, Longitude: m.Longitude}, nil
}
