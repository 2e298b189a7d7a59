package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/cache"
	"github.com/momtazchem/backend/internal/infrastructure/persistence"
)

type orderServices struct {
	repo      order.Repository
	checkout  *orderapp.CheckoutService
	statuses  *orderapp.StatusSyncService
	callbacks *orderapp.PaymentCallbackService
}

func newOrderServices(t *testing.T, tdb *TestDB) *orderServices {
	t.Helper()

	log := zap.NewNop()
	clock := shared.SystemClock{}
	scope := persistence.NewGormTransactionScope(tdb.DB)
	numbers := orderapp.NewNumberService(clock, log)

	return &orderServices{
		repo:      persistence.NewGormOrderRepository(tdb.DB),
		checkout:  orderapp.NewCheckoutService(scope, numbers, clock, log),
		statuses:  orderapp.NewStatusSyncService(scope, clock, log),
		callbacks: orderapp.NewPaymentCallbackService(scope, numbers, cache.NewInMemoryIdempotencyStore(), clock, log),
	}
}

// TestOrderWorkflow_GracePeriodToDelivered walks a grace-period order through
// every department gate and checks the dual-table pair stays synced after
// each step.
func TestOrderWorkflow_GracePeriodToDelivered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newOrderServices(t, tdb)
	ctx := context.Background()

	tenantID := uuid.New()
	customerID := uuid.New()

	resp, err := svc.checkout.Checkout(ctx, tenantID, orderapp.CheckoutRequest{
		CustomerID:    customerID,
		TotalAmount:   decimal.NewFromInt(275000),
		PaymentMethod: order.PaymentMethodGracePeriod,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.OrderNumber)
	assert.Equal(t, order.ManagementStatusPaymentGracePeriod, resp.ManagementStatus)

	actor := uuid.New()
	steps := []struct {
		action     order.DepartmentAction
		customer   order.CustomerStatus
		management order.ManagementStatus
	}{
		{order.ActionFinancialApprove, order.CustomerStatusConfirmed, order.ManagementStatusWarehousePending},
		{order.ActionWarehouseProcess, order.CustomerStatusConfirmed, order.ManagementStatusWarehouseProcessing},
		{order.ActionWarehouseApprove, order.CustomerStatusConfirmed, order.ManagementStatusWarehouseApproved},
		{order.ActionLogisticsDispatch, order.CustomerStatusDispatched, order.ManagementStatusLogisticsDispatched},
		{order.ActionLogisticsDeliver, order.CustomerStatusDelivered, order.ManagementStatusDelivered},
	}

	req := orderapp.DepartmentActionRequest{OrderNumber: resp.OrderNumber}
	for _, step := range steps {
		_, err := svc.statuses.Apply(ctx, tenantID, step.action, req, actor)
		require.NoError(t, err, "action %s", step.action)

		o, err := svc.repo.FindByOrderNumber(ctx, tenantID, resp.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, step.customer, o.Customer.Status, "after %s", step.action)
		assert.Equal(t, step.management, o.Management.CurrentStatus, "after %s", step.action)
		assert.True(t, o.IsSynced(), "pair drifted after %s", step.action)
	}

	health, err := svc.statuses.CheckSyncHealth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, health.Percentage)
	assert.Empty(t, health.Mismatches)
}

// TestOrderWorkflow_ActionGateRejectsOutOfOrderSteps verifies the management
// status gate: a grace-period order cannot jump straight to the warehouse.
func TestOrderWorkflow_ActionGateRejectsOutOfOrderSteps(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newOrderServices(t, tdb)
	ctx := context.Background()

	tenantID := uuid.New()
	resp, err := svc.checkout.Checkout(ctx, tenantID, orderapp.CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   decimal.NewFromInt(42000),
		PaymentMethod: order.PaymentMethodGracePeriod,
	})
	require.NoError(t, err)

	_, err = svc.statuses.Apply(ctx, tenantID, order.ActionWarehouseProcess,
		orderapp.DepartmentActionRequest{OrderNumber: resp.OrderNumber}, uuid.New())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)

	o, err := svc.repo.FindByOrderNumber(ctx, tenantID, resp.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ManagementStatusPaymentGracePeriod, o.Management.CurrentStatus)
}

// TestOrderWorkflow_BankGatewayCallbackAssignsNumber checks that a
// bank-gateway order is created without a number, receives one from the paid
// callback and lands in the warehouse queue, and that a replayed callback is
// rejected without a second state change.
func TestOrderWorkflow_BankGatewayCallbackAssignsNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newOrderServices(t, tdb)
	ctx := context.Background()

	tenantID := uuid.New()
	amount := decimal.NewFromInt(180000)

	resp, err := svc.checkout.Checkout(ctx, tenantID, orderapp.CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   amount,
		PaymentMethod: order.PaymentMethodBankGateway,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.OrderNumber)
	assert.Equal(t, order.ManagementStatusPendingPayment, resp.ManagementStatus)

	cb := orderapp.PaymentCallback{
		OrderID:              resp.ID,
		GatewayTransactionID: "fib-tx-0001",
		Succeeded:            true,
		Amount:               amount,
	}
	paid, err := svc.callbacks.Handle(ctx, tenantID, cb)
	require.NoError(t, err)
	require.NotEmpty(t, paid.OrderNumber)
	assert.Equal(t, order.ManagementStatusWarehousePending, paid.ManagementStatus)

	_, err = svc.callbacks.Handle(ctx, tenantID, cb)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "DUPLICATE_CALLBACK", domainErr.Code)

	o, err := svc.repo.FindByOrderNumber(ctx, tenantID, paid.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ManagementStatusWarehousePending, o.Management.CurrentStatus)
}

// TestOrderWorkflow_TenantIsolation checks that one tenant's order is
// invisible through another tenant's scope.
func TestOrderWorkflow_TenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newOrderServices(t, tdb)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()

	resp, err := svc.checkout.Checkout(ctx, tenantA, orderapp.CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   decimal.NewFromInt(9900),
		PaymentMethod: order.PaymentMethodGracePeriod,
	})
	require.NoError(t, err)

	_, err = svc.repo.FindByOrderNumber(ctx, tenantB, resp.OrderNumber)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	o, err := svc.repo.FindByOrderNumber(ctx, tenantA, resp.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, tenantA, o.Customer.TenantID)
}
