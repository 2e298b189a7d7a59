package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/domain/wallet"
)

// sweepBatchSize caps how many due orders one sweep pass loads
const sweepBatchSize = 200

// AutoApprovalService moves wallet-paid orders out of financial review once
// their scheduled delay has elapsed and the ledger actually covers the order
// total. Each order is processed in its own transaction so one failure never
// blocks the rest of the batch, and the AutoApprovalExecutedAt stamp makes
// overlapping sweeps a no-op per order.
type AutoApprovalService struct {
	scope  TransactionScope
	clock  shared.Clock
	logger *zap.Logger
}

// NewAutoApprovalService creates an AutoApprovalService
func NewAutoApprovalService(scope TransactionScope, clock shared.Clock, logger *zap.Logger) *AutoApprovalService {
	return &AutoApprovalService{scope: scope, clock: clock, logger: logger}
}

// SweepStats reports one sweep pass
type SweepStats struct {
	TotalDue    int       `json:"total_due"`
	Approved    int       `json:"approved"`
	HeldBack    int       `json:"held_back"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Sweep finds every order whose auto-approval timer has fired and approves
// the ones whose wallet coverage permits it. Orders whose ledger does not
// cover the total are stamped and left in review for manual handling, so the
// sweep never revisits them.
func (s *AutoApprovalService) Sweep(ctx context.Context) (*SweepStats, error) {
	now := s.clock.Now()
	stats := &SweepStats{ProcessedAt: now}

	var due []*order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		due, err = repos.OrderRepo().FindAutoApprovalDue(ctx, now, sweepBatchSize)
		return err
	})
	if err != nil {
		s.logger.Error("Auto-approval sweep query failed", zap.Error(err))
		return nil, err
	}

	stats.TotalDue = len(due)
	if stats.TotalDue == 0 {
		return stats, nil
	}

	s.logger.Info("Auto-approval sweep found due orders", zap.Int("count", stats.TotalDue))

	for _, o := range due {
		approved, err := s.processOrder(ctx, o, now)
		switch {
		case err != nil:
			stats.Failed++
			s.logger.Error("Auto-approval failed for order",
				zap.String("order_id", o.Customer.ID.String()),
				zap.String("order_number", o.Customer.OrderNumber),
				zap.Error(err),
			)
		case approved:
			stats.Approved++
		default:
			stats.HeldBack++
		}
	}
	return stats, nil
}

// processOrder re-reads the order inside its own transaction, re-checks the
// due condition (another sweep may have won the race), verifies coverage,
// and writes the approval.
func (s *AutoApprovalService) processOrder(ctx context.Context, stale *order.Order, now time.Time) (bool, error) {
	approved := false
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, stale.Customer.TenantID, stale.Customer.ID)
		if err != nil {
			return err
		}
		if !o.Management.IsAutoApprovalDue(now) {
			// already handled by a concurrent sweep
			return nil
		}

		debits, err := repos.WalletRepo().FindByOrder(ctx, o.Customer.TenantID, o.Customer.CustomerID, o.Customer.ID, o.Customer.OrderNumber)
		if err != nil {
			return err
		}
		coverage := wallet.ComputeCoverage(debits, o.Customer.TotalAmount)

		if err := o.Management.MarkAutoApprovalExecuted(now); err != nil {
			return err
		}

		if !coverage.Covered() {
			s.logger.Warn("Order held back from auto-approval, wallet coverage insufficient",
				zap.String("order_id", o.Customer.ID.String()),
				zap.String("order_number", o.Customer.OrderNumber),
				zap.String("coverage_ratio", coverage.Ratio.String()),
			)
			return repos.OrderRepo().SaveOrder(ctx, o)
		}

		o.Customer.Status = order.CustomerStatusConfirmed
		o.Customer.UpdatedAt = now
		o.Management.CurrentStatus = order.ManagementStatusWarehousePending
		if err := repos.OrderRepo().SaveOrder(ctx, o); err != nil {
			return err
		}

		s.logger.Info("Order auto-approved",
			zap.String("order_id", o.Customer.ID.String()),
			zap.String("order_number", o.Customer.OrderNumber),
			zap.String("eligibility", coverage.Eligibility.String()),
		)
		approved = true
		return nil
	})
	return approved, err
}
