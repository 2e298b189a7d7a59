package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/persistence/models"
)

// customerFacingCaseSQL renders the canonical management→customer mapping as
// a SQL expression. It must stay in lockstep with ManagementStatus.CustomerFacing.
const customerFacingCaseSQL = `CASE om.current_status
	WHEN 'pending' THEN 'pending'
	WHEN 'pending_payment' THEN 'pending'
	WHEN 'financial_reviewing' THEN 'payment_uploaded'
	WHEN 'payment_grace_period' THEN 'payment_uploaded'
	WHEN 'warehouse_pending' THEN 'confirmed'
	WHEN 'warehouse_processing' THEN 'confirmed'
	WHEN 'warehouse_approved' THEN 'confirmed'
	WHEN 'logistics_dispatched' THEN 'dispatched'
	WHEN 'delivered' THEN 'delivered'
	WHEN 'financial_rejected' THEN 'cancelled'
	END`

// GormOrderRepository implements order.Repository using GORM. Every write
// touches both rows of the pair inside one transaction.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// CreateOrder inserts both rows atomically
func (r *GormOrderRepository) CreateOrder(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.CustomerOrderModelFromDomain(o.Customer)).Error; err != nil {
			return fmt.Errorf("failed to insert customer order: %w", err)
		}
		if err := tx.Create(models.OrderManagementModelFromDomain(o.Management)).Error; err != nil {
			return fmt.Errorf("failed to insert management record: %w", err)
		}
		return nil
	})
}

// SaveOrder updates both rows atomically
func (r *GormOrderRepository) SaveOrder(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cm := models.CustomerOrderModelFromDomain(o.Customer)
		// The version check is the optimistic lock; the row version advances
		// here, not in the domain object.
		current := cm.Version
		cm.Version = current + 1
		res := tx.Model(&models.CustomerOrderModel{}).
			Where("id = ? AND version = ?", cm.ID, current).
			Select("*").Omit("id", "created_at").
			Updates(cm)
		if res.Error != nil {
			return fmt.Errorf("failed to update customer order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		o.Customer.Version = cm.Version

		mm := models.OrderManagementModelFromDomain(o.Management)
		if err := tx.Model(&models.OrderManagementModel{}).
			Where("id = ?", mm.ID).
			Select("*").Omit("id", "created_at").
			Updates(mm).Error; err != nil {
			return fmt.Errorf("failed to update management record: %w", err)
		}
		return nil
	})
}

// FindByID loads an order pair by customer order ID
func (r *GormOrderRepository) FindByID(ctx context.Context, tenantID, customerOrderID uuid.UUID) (*order.Order, error) {
	var cm models.CustomerOrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, customerOrderID).
		First(&cm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.attachManagement(ctx, &cm)
}

// FindByOrderNumber loads an order pair by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, number string) (*order.Order, error) {
	var cm models.CustomerOrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_number = ?", tenantID, number).
		First(&cm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.attachManagement(ctx, &cm)
}

// FindByCustomer lists a customer's orders, newest first
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerOrderModel{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CustomerOrderModel
	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, ValidateSortOrder(filter.OrderDir))).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*order.Order, 0, len(rows))
	for i := range rows {
		o, err := r.attachManagement(ctx, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, nil
}

// FindAutoApprovalDue returns orders whose timer has fired and has not been
// executed, across all tenants, oldest schedule first.
func (r *GormOrderRepository) FindAutoApprovalDue(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	var mgmts []models.OrderManagementModel
	if err := r.db.WithContext(ctx).
		Where("is_auto_approval_enabled = ? AND current_status = ? AND auto_approval_scheduled_at <= ? AND auto_approval_executed_at IS NULL",
			true, string(order.ManagementStatusFinancialReviewing), now).
		Order("auto_approval_scheduled_at asc").
		Limit(limit).
		Find(&mgmts).Error; err != nil {
		return nil, err
	}

	out := make([]*order.Order, 0, len(mgmts))
	for i := range mgmts {
		var cm models.CustomerOrderModel
		if err := r.db.WithContext(ctx).
			Where("id = ?", mgmts[i].CustomerOrderID).
			First(&cm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, &order.Order{Customer: cm.ToDomain(), Management: mgmts[i].ToDomain()})
	}
	return out, nil
}

// FindMismatched returns all order pairs outside the canonical mapping
func (r *GormOrderRepository) FindMismatched(ctx context.Context) ([]*order.Order, error) {
	var rows []models.CustomerOrderModel
	if err := r.db.WithContext(ctx).
		Table("customer_orders AS co").
		Select("co.*").
		Joins("JOIN order_management om ON om.customer_order_id = co.id").
		Where("co.status IS DISTINCT FROM " + customerFacingCaseSQL).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*order.Order, 0, len(rows))
	for i := range rows {
		o, err := r.attachManagement(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// ScanSync counts total and synced orders with a single aggregate query
func (r *GormOrderRepository) ScanSync(ctx context.Context) (order.SyncScan, error) {
	var scan order.SyncScan
	row := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE co.status = ` + customerFacingCaseSQL + `) AS synced
		FROM customer_orders co
		JOIN order_management om ON om.customer_order_id = co.id`).Row()
	if err := row.Scan(&scan.Total, &scan.Synced); err != nil {
		return order.SyncScan{}, err
	}
	return scan, nil
}

// UpdateCustomerStatus corrects only the customer projection; repair path only
func (r *GormOrderRepository) UpdateCustomerStatus(ctx context.Context, customerOrderID uuid.UUID, to order.CustomerStatus) error {
	res := r.db.WithContext(ctx).Model(&models.CustomerOrderModel{}).
		Where("id = ?", customerOrderID).
		Updates(map[string]interface{}{"status": string(to), "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) attachManagement(ctx context.Context, cm *models.CustomerOrderModel) (*order.Order, error) {
	var mm models.OrderManagementModel
	if err := r.db.WithContext(ctx).
		Where("customer_order_id = ?", cm.ID).
		First(&mm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrStatusMismatch
		}
		return nil, err
	}
	return &order.Order{Customer: cm.ToDomain(), Management: mm.ToDomain()}, nil
}

var _ order.Repository = (*GormOrderRepository)(nil)
