package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/momtazchem/backend/internal/domain/crm"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/persistence/models"
)

// GormContactRepository implements crm.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Create inserts a contact
func (r *GormContactRepository) Create(ctx context.Context, c *crm.Contact) error {
	return r.db.WithContext(ctx).Create(models.ContactModelFromDomain(c)).Error
}

// Save updates a contact
func (r *GormContactRepository) Save(ctx context.Context, c *crm.Contact) error {
	m := models.ContactModelFromDomain(c)
	return r.db.WithContext(ctx).Model(&models.ContactModel{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(m).Error
}

// FindByID finds a contact within a tenant
func (r *GormContactRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Contact, error) {
	var m models.ContactModel
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

// FindByEmail finds a contact by email within a tenant
func (r *GormContactRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*crm.Contact, error) {
	var m models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByCustomerID finds the contact linked to a shop customer
func (r *GormContactRepository) FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) (*crm.Contact, error) {
	var m models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists a tenant's contacts with paging and search
func (r *GormContactRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*crm.Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("company_name ILIKE ? OR contact_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	if stage, ok := filter.Filters["stage"]; ok {
		query = query.Where("stage = ?", stage)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ContactModel
	orderBy := ValidateSortField(filter.OrderBy, ContactSortFields, "created_at")
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir))).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*crm.Contact, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

var _ crm.ContactRepository = (*GormContactRepository)(nil)
