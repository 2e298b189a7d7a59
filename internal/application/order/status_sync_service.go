package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// StatusSyncService is the only code path that changes order statuses. Every
// department action writes the customer projection and the management record
// together in one transaction, so a sanctioned update can never produce
// drift. Drift that arrives some other way (manual database edits, partial
// failures of out-of-band writers) is found and repaired by the health scan.
type StatusSyncService struct {
	scope    TransactionScope
	clock    shared.Clock
	eventBus shared.EventBus
	logger   *zap.Logger
}

// NewStatusSyncService creates a StatusSyncService
func NewStatusSyncService(scope TransactionScope, clock shared.Clock, logger *zap.Logger) *StatusSyncService {
	return &StatusSyncService{scope: scope, clock: clock, logger: logger}
}

// SetEventBus sets the event bus for publishing status change events
func (s *StatusSyncService) SetEventBus(bus shared.EventBus) {
	s.eventBus = bus
}

// Apply performs a department action on an order. The action carries its own
// fixed target pair; callers cannot choose arbitrary statuses.
func (s *StatusSyncService) Apply(ctx context.Context, tenantID uuid.UUID, action order.DepartmentAction, req DepartmentActionRequest, actorID uuid.UUID) (*ActionResponse, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Unknown department action")
	}

	var o *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		o, err = repos.OrderRepo().FindByOrderNumber(ctx, tenantID, req.OrderNumber)
		if err != nil {
			return err
		}
		return s.applyAction(ctx, repos, o, action, actorID, req.Notes)
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, o, action, actorID)

	return &ActionResponse{
		Success: true,
		Message: fmt.Sprintf("Order %s moved to %s", req.OrderNumber, o.Management.CurrentStatus),
	}, nil
}

// applyAction validates the transition and writes both rows plus the audit
// stamp in the caller's transaction.
func (s *StatusSyncService) applyAction(ctx context.Context, repos TransactionalRepositories, o *order.Order, action order.DepartmentAction, actorID uuid.UUID, notes string) error {
	from := o.Management.CurrentStatus
	if !action.CanApply(from) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Action %s is not allowed from status %s", action, from))
	}

	customerStatus, managementStatus := action.TargetPair()
	now := s.clock.Now()
	o.Customer.Status = customerStatus
	o.Customer.Touch(now)
	o.Management.CurrentStatus = managementStatus
	o.Management.ApplyAudit(action, actorID, notes, now)

	o.Customer.AddDomainEvent(order.NewOrderStatusChangedEvent(o.Customer, action, from, actorID))

	if err := repos.OrderRepo().SaveOrder(ctx, o); err != nil {
		return err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", o.Customer.ID.String()),
		zap.String("order_number", o.Customer.OrderNumber),
		zap.String("action", action.String()),
		zap.String("from", from.String()),
		zap.String("to", managementStatus.String()),
		zap.String("actor_id", actorID.String()),
	)
	return nil
}

// CheckSyncHealth scans all order pairs and reports how many sit inside the
// canonical mapping, along with the concrete mismatches.
func (s *StatusSyncService) CheckSyncHealth(ctx context.Context) (*SyncHealthResponse, error) {
	var resp *SyncHealthResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		scan, err := repos.OrderRepo().ScanSync(ctx)
		if err != nil {
			return err
		}

		mismatched, err := repos.OrderRepo().FindMismatched(ctx)
		if err != nil {
			return err
		}

		details := make([]MismatchDetail, 0, len(mismatched))
		for _, o := range mismatched {
			details = append(details, MismatchDetail{
				OrderID:          o.Customer.ID,
				OrderNumber:      o.Customer.OrderNumber,
				CustomerStatus:   o.Customer.Status,
				ManagementStatus: o.Management.CurrentStatus,
			})
		}

		resp = &SyncHealthResponse{
			TotalOrders:  scan.Total,
			SyncedOrders: scan.Synced,
			Percentage:   scan.Percentage(),
			Mismatches:   details,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AutoFixStatusMismatches repairs every drifted order pair it can. The
// management status is authoritative: it is written by authenticated staff
// performing deliberate actions, while the customer projection can be
// stale. Only corrections from the closed repair table are applied;
// unrecognized patterns are reported, never guessed. One failing order does
// not stop the pass.
func (s *StatusSyncService) AutoFixStatusMismatches(ctx context.Context) (*RepairStats, error) {
	stats := &RepairStats{Issues: make([]RepairIssue, 0)}

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		mismatched, err := repos.OrderRepo().FindMismatched(ctx)
		if err != nil {
			return err
		}
		stats.ProcessedAt = s.clock.Now()

		for _, o := range mismatched {
			target, ok := order.ResolveRepair(o.Customer.Status, o.Management.CurrentStatus)
			if !ok {
				s.logger.Warn("Unresolved status mismatch",
					zap.String("order_id", o.Customer.ID.String()),
					zap.String("customer_status", o.Customer.Status.String()),
					zap.String("management_status", o.Management.CurrentStatus.String()),
				)
				stats.Issues = append(stats.Issues, RepairIssue{
					OrderID:          o.Customer.ID,
					CustomerStatus:   o.Customer.Status,
					ManagementStatus: o.Management.CurrentStatus,
					Reason:           "no repair rule for this status pair",
				})
				continue
			}

			if err := repos.OrderRepo().UpdateCustomerStatus(ctx, o.Customer.ID, target); err != nil {
				s.logger.Error("Failed to repair order status",
					zap.String("order_id", o.Customer.ID.String()),
					zap.Error(err),
				)
				stats.Issues = append(stats.Issues, RepairIssue{
					OrderID:          o.Customer.ID,
					CustomerStatus:   o.Customer.Status,
					ManagementStatus: o.Management.CurrentStatus,
					Reason:           err.Error(),
				})
				continue
			}

			s.logger.Info("Repaired order status",
				zap.String("order_id", o.Customer.ID.String()),
				zap.String("from", o.Customer.Status.String()),
				zap.String("to", target.String()),
				zap.String("management_status", o.Management.CurrentStatus.String()),
			)
			stats.Fixed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatusSyncService) publishStatusChange(ctx context.Context, o *order.Order, action order.DepartmentAction, actorID uuid.UUID) {
	if s.eventBus == nil {
		return
	}
	for _, event := range o.Customer.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish order event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	o.Customer.ClearDomainEvents()
}
