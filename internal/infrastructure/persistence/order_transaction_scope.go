package persistence

import (
	"context"

	"gorm.io/gorm"

	apporder "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/wallet"
)

// GormTransactionScope implements the order workflow's TransactionScope using
// GORM transactions. It provides atomic execution across the order, wallet
// and number repositories.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. If the
// function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() order.Repository {
	return NewGormOrderRepository(r.tx)
}

// WalletRepo returns the wallet ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) WalletRepo() wallet.TransactionRepository {
	return NewGormWalletTransactionRepository(r.tx)
}

// NumberRepo returns the number counter repository scoped to the current transaction
func (r *gormTransactionalRepositories) NumberRepo() order.NumberRepository {
	return NewGormOrderNumberRepository(r.tx)
}

var _ apporder.TransactionScope = (*GormTransactionScope)(nil)
var _ apporder.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
