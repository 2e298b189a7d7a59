package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	apporder "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/infrastructure/config"
	"github.com/momtazchem/backend/internal/infrastructure/telemetry"
)

// WorkflowScheduler owns the two background loops of the order workflow:
// the auto-approval sweep and the status drift monitor.
type WorkflowScheduler struct {
	approvalPoller *Poller
	driftPoller    *Poller
	logger         *zap.Logger
}

// NewWorkflowScheduler wires the pollers from workflow config.
// When drift auto-repair is disabled the monitor only reports sync health.
// metrics may be nil when telemetry is off.
func NewWorkflowScheduler(
	cfg config.WorkflowConfig,
	approvals *apporder.AutoApprovalService,
	statuses *apporder.StatusSyncService,
	metrics *telemetry.WorkflowMetrics,
	logger *zap.Logger,
) *WorkflowScheduler {
	sweep := func(ctx context.Context) error {
		stats, err := approvals.Sweep(ctx)
		if err != nil {
			return fmt.Errorf("auto-approval sweep: %w", err)
		}
		if metrics != nil {
			metrics.RecordAutoApprovals(ctx, stats.Approved)
		}
		if stats.TotalDue > 0 {
			logger.Info("auto-approval sweep completed",
				zap.Int("due", stats.TotalDue),
				zap.Int("approved", stats.Approved),
				zap.Int("held_back", stats.HeldBack),
				zap.Int("failed", stats.Failed))
		}
		return nil
	}

	drift := func(ctx context.Context) error {
		health, err := statuses.CheckSyncHealth(ctx)
		if err != nil {
			return fmt.Errorf("sync health scan: %w", err)
		}
		if metrics != nil {
			metrics.RecordSyncPercentage(ctx, health.Percentage)
		}
		if len(health.Mismatches) == 0 {
			return nil
		}
		logger.Warn("order status drift detected",
			zap.Int("mismatches", len(health.Mismatches)),
			zap.Int("percentage", health.Percentage))
		if !cfg.DriftAutoRepair {
			return nil
		}
		stats, err := statuses.AutoFixStatusMismatches(ctx)
		if err != nil {
			return fmt.Errorf("drift repair: %w", err)
		}
		if metrics != nil {
			metrics.RecordDriftRepairs(ctx, stats.Fixed)
		}
		logger.Info("drift repair completed",
			zap.Int("fixed", stats.Fixed),
			zap.Int("unresolved", len(stats.Issues)))
		return nil
	}

	return &WorkflowScheduler{
		approvalPoller: NewPoller("auto_approval_sweep", cfg.SweepInterval, sweep, logger),
		driftPoller:    NewPoller("status_drift_monitor", cfg.DriftMonitorInterval, drift, logger),
		logger:         logger,
	}
}

// Start launches both loops
func (s *WorkflowScheduler) Start(ctx context.Context) error {
	if err := s.approvalPoller.Start(ctx); err != nil {
		return err
	}
	return s.driftPoller.Start(ctx)
}

// Stop halts both loops
func (s *WorkflowScheduler) Stop(ctx context.Context) error {
	if err := s.approvalPoller.Stop(ctx); err != nil {
		return err
	}
	return s.driftPoller.Stop(ctx)
}
