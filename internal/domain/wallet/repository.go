package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// TransactionRepository persists the append-only wallet ledger.
type TransactionRepository interface {
	// Create appends a ledger entry.
	Create(ctx context.Context, tx *Transaction) error

	// FindByCustomer lists a customer's ledger entries, newest first.
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*Transaction, int64, error)

	// FindByOrder returns entries linked to an order, by explicit order ID or
	// by the order number embedded in the description.
	FindByOrder(ctx context.Context, tenantID, customerID, orderID uuid.UUID, orderNumber string) ([]*Transaction, error)

	// Balance returns the customer's current balance, taken from the latest
	// ledger entry; zero for a customer with no entries.
	Balance(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error)
}
