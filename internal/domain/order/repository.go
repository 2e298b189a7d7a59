package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// Order couples the customer projection with its management record. The two
// rows describe one logical order and are always loaded and written together.
type Order struct {
	Customer   *CustomerOrder
	Management *Management
}

// IsSynced reports whether the pair is a member of the canonical mapping.
func (o *Order) IsSynced() bool {
	return IsSynced(o.Customer.Status, o.Management.CurrentStatus)
}

// SyncScan is the result of a full drift scan.
type SyncScan struct {
	Total  int64
	Synced int64
}

// Percentage returns the synced share in percent, rounded down; 100 for an
// empty table.
func (s SyncScan) Percentage() int {
	if s.Total == 0 {
		return 100
	}
	return int(s.Synced * 100 / s.Total)
}

// Repository persists the dual-table order model. Implementations must write
// both rows of an Order in a single database transaction; no method may
// update only one side of the pair except UpdateCustomerStatus, which exists
// solely for the drift-repair path.
type Repository interface {
	// CreateOrder inserts both rows atomically.
	CreateOrder(ctx context.Context, o *Order) error

	// SaveOrder updates both rows atomically.
	SaveOrder(ctx context.Context, o *Order) error

	// FindByID loads an order pair by customer order ID.
	FindByID(ctx context.Context, tenantID, customerOrderID uuid.UUID) (*Order, error)

	// FindByOrderNumber loads an order pair by its order number.
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Order, error)

	// FindByCustomer lists a customer's orders, newest first.
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*Order, int64, error)

	// FindAutoApprovalDue returns orders whose auto-approval timer has fired
	// and has not been executed yet, across all tenants.
	FindAutoApprovalDue(ctx context.Context, now time.Time, limit int) ([]*Order, error)

	// FindMismatched returns all order pairs outside the canonical mapping.
	FindMismatched(ctx context.Context) ([]*Order, error)

	// ScanSync counts total and synced orders with a single aggregate query.
	ScanSync(ctx context.Context) (SyncScan, error)

	// UpdateCustomerStatus corrects only the customer projection. Reserved
	// for the repair path, where the management status is authoritative.
	UpdateCustomerStatus(ctx context.Context, customerOrderID uuid.UUID, to CustomerStatus) error
}

// NumberRepository reserves order number sequence values. Reserve must be a
// single atomic increment-and-read; concurrent callers must never observe the
// same value for the same year.
type NumberRepository interface {
	Reserve(ctx context.Context, year int) (int, error)
}
