package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// WorkflowMetrics tracks the order workflow: checkouts, department
// actions, auto-approvals, drift repairs and delivery verifications.
type WorkflowMetrics struct {
	logger *zap.Logger

	orderCreatedTotal        *Counter
	departmentActionTotal    *Counter
	autoApprovalTotal        *Counter
	driftRepairedTotal       *Counter
	deliveryVerifiedTotal    *Counter
	syncPercentageGauge      *Gauge
	departmentActionDuration *Histogram
}

// NewWorkflowMetrics registers the workflow instruments on the meter
func NewWorkflowMetrics(meter metric.Meter, logger *zap.Logger) (*WorkflowMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	wm := &WorkflowMetrics{logger: logger}

	var err error
	wm.orderCreatedTotal, err = NewCounter(meter,
		"momtaz_order_created_total",
		"Orders created at checkout",
		"{orders}")
	if err != nil {
		return nil, err
	}
	wm.departmentActionTotal, err = NewCounter(meter,
		"momtaz_department_action_total",
		"Department actions applied to orders",
		"{actions}")
	if err != nil {
		return nil, err
	}
	wm.autoApprovalTotal, err = NewCounter(meter,
		"momtaz_auto_approval_total",
		"Wallet orders auto-approved by the sweep",
		"{orders}")
	if err != nil {
		return nil, err
	}
	wm.driftRepairedTotal, err = NewCounter(meter,
		"momtaz_status_drift_repaired_total",
		"Mismatched status pairs repaired by the monitor",
		"{orders}")
	if err != nil {
		return nil, err
	}
	wm.deliveryVerifiedTotal, err = NewCounter(meter,
		"momtaz_delivery_verification_total",
		"GPS delivery verification attempts",
		"{attempts}")
	if err != nil {
		return nil, err
	}
	wm.syncPercentageGauge, err = NewGauge(meter,
		"momtaz_order_sync_percentage",
		"Share of orders whose status pair is in sync",
		"%")
	if err != nil {
		return nil, err
	}
	wm.departmentActionDuration, err = NewHistogram(meter,
		"momtaz_department_action_duration_seconds",
		"Latency of department action processing",
		"s")
	if err != nil {
		return nil, err
	}

	return wm, nil
}

// RecordOrderCreated counts a checkout by payment method
func (wm *WorkflowMetrics) RecordOrderCreated(ctx context.Context, paymentMethod string) {
	wm.orderCreatedTotal.Inc(ctx, AttrPaymentMethod.String(paymentMethod))
}

// RecordDepartmentAction counts an applied action
func (wm *WorkflowMetrics) RecordDepartmentAction(ctx context.Context, action string) {
	wm.departmentActionTotal.Inc(ctx, AttrAction.String(action))
}

// RecordAutoApprovals counts the orders approved by one sweep
func (wm *WorkflowMetrics) RecordAutoApprovals(ctx context.Context, approved int) {
	if approved > 0 {
		wm.autoApprovalTotal.Add(ctx, int64(approved))
	}
}

// RecordDriftRepairs counts the orders fixed by one monitor pass
func (wm *WorkflowMetrics) RecordDriftRepairs(ctx context.Context, fixed int) {
	if fixed > 0 {
		wm.driftRepairedTotal.Add(ctx, int64(fixed))
	}
}

// RecordDeliveryVerification counts a GPS verification by result
func (wm *WorkflowMetrics) RecordDeliveryVerification(ctx context.Context, result string) {
	wm.deliveryVerifiedTotal.Inc(ctx, AttrResult.String(result))
}

// RecordSyncPercentage stores the latest sync health scan result
func (wm *WorkflowMetrics) RecordSyncPercentage(ctx context.Context, percentage int) {
	wm.syncPercentageGauge.Record(ctx, int64(percentage))
}
