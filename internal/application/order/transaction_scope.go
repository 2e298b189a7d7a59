package order

import (
	"context"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/wallet"
)

// TransactionScope provides transactional access to the order repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories that take
// part in order workflows within one transaction. The wallet ledger write
// and the order status write for the same order go through the same scope,
// which is what keeps the dual-table pair and the ledger consistent.
type TransactionalRepositories interface {
	// OrderRepo returns the dual-table order repository scoped to the current transaction
	OrderRepo() order.Repository
	// WalletRepo returns the wallet ledger repository scoped to the current transaction
	WalletRepo() wallet.TransactionRepository
	// NumberRepo returns the order number sequence repository scoped to the current transaction
	NumberRepo() order.NumberRepository
}

// NoOpTransactionScope runs the function against fixed repositories without
// a real transaction. Useful for tests.
type NoOpTransactionScope struct {
	orderRepo  order.Repository
	walletRepo wallet.TransactionRepository
	numberRepo order.NumberRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo order.Repository,
	walletRepo wallet.TransactionRepository,
	numberRepo order.NumberRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:  orderRepo,
		walletRepo: walletRepo,
		numberRepo: numberRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

// WalletRepo returns the wallet ledger repository.
func (s *NoOpTransactionScope) WalletRepo() wallet.TransactionRepository {
	return s.walletRepo
}

// NumberRepo returns the number sequence repository.
func (s *NoOpTransactionScope) NumberRepo() order.NumberRepository {
	return s.numberRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
