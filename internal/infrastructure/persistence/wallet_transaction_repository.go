package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/domain/wallet"
	"github.com/momtazchem/backend/internal/infrastructure/persistence/models"
)

// GormWalletTransactionRepository implements wallet.TransactionRepository.
// The ledger is append-only; there is no update or delete path.
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

// NewGormWalletTransactionRepository creates a new GormWalletTransactionRepository
func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *GormWalletTransactionRepository) Create(ctx context.Context, tx *wallet.Transaction) error {
	return r.db.WithContext(ctx).Create(models.WalletTransactionModelFromDomain(tx)).Error
}

// FindByCustomer lists a customer's ledger entries, newest first
func (r *GormWalletTransactionRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*wallet.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WalletTransactionModel
	if err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*wallet.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

// FindByOrder returns entries linked to an order, by explicit order ID or by
// the order number embedded in the description of rows written before the
// column existed.
func (r *GormWalletTransactionRepository) FindByOrder(ctx context.Context, tenantID, customerID, orderID uuid.UUID, orderNumber string) ([]*wallet.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)

	if orderNumber != "" {
		query = query.Where("related_order_id = ? OR (related_order_id IS NULL AND description LIKE ?)",
			orderID, "%"+orderNumber+"%")
	} else {
		query = query.Where("related_order_id = ?", orderID)
	}

	var rows []models.WalletTransactionModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*wallet.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// Balance returns the customer's current balance from the latest ledger
// entry; zero for a customer with no entries.
func (r *GormWalletTransactionRepository) Balance(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error) {
	var raw string
	err := r.db.WithContext(ctx).Raw(
		`SELECT balance_after FROM wallet_transactions
		 WHERE tenant_id = ? AND customer_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		tenantID, customerID,
	).Row().Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt balance value %q: %w", raw, err)
	}
	return balance, nil
}

var _ wallet.TransactionRepository = (*GormWalletTransactionRepository)(nil)
