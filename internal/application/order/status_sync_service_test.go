package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
)

// buildOrder creates an order pair at the given management status with the
// matching customer projection.
func buildOrder(t *testing.T, method order.PaymentMethod, status order.ManagementStatus) *order.Order {
	t.Helper()

	number := "MOM2512345"
	if method == order.PaymentMethodBankGateway && status == order.ManagementStatusPendingPayment {
		number = ""
	}
	customerOrder, err := order.NewCustomerOrder(uuid.New(), uuid.New(), decimal.NewFromInt(100000), method, number)
	require.NoError(t, err)

	management, err := order.NewManagement(customerOrder, status, "test")
	require.NoError(t, err)
	if facing, ok := status.CustomerFacing(); ok {
		customerOrder.Status = facing
	}
	return &order.Order{Customer: customerOrder, Management: management}
}

func newStatusSyncService(repos *testRepos, clock *fakeClock) *StatusSyncService {
	return NewStatusSyncService(repos.scope, clock, zap.NewNop())
}

func TestStatusSyncService_Apply(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}

	t.Run("financial approve writes both rows", func(t *testing.T) {
		repos := newTestRepos()
		svc := newStatusSyncService(repos, clock)

		o := buildOrder(t, order.PaymentMethodGracePeriod, order.ManagementStatusPaymentGracePeriod)
		actorID := uuid.New()

		repos.orders.On("FindByOrderNumber", mock.Anything, o.Customer.TenantID, o.Customer.OrderNumber).Return(o, nil)
		repos.orders.On("SaveOrder", mock.Anything, o).Return(nil)

		resp, err := svc.Apply(context.Background(), o.Customer.TenantID, order.ActionFinancialApprove,
			DepartmentActionRequest{OrderNumber: o.Customer.OrderNumber, Notes: "proof verified"}, actorID)
		require.NoError(t, err)
		assert.True(t, resp.Success)

		assert.Equal(t, order.CustomerStatusConfirmed, o.Customer.Status)
		assert.Equal(t, order.ManagementStatusWarehousePending, o.Management.CurrentStatus)
		assert.True(t, o.IsSynced())

		require.NotNil(t, o.Management.FinancialReviewerID)
		assert.Equal(t, actorID, *o.Management.FinancialReviewerID)
		assert.Equal(t, "proof verified", o.Management.FinancialNotes)
		require.NotNil(t, o.Management.FinancialReviewedAt)
	})

	t.Run("every action lands inside the canonical mapping", func(t *testing.T) {
		cases := []struct {
			action order.DepartmentAction
			from   order.ManagementStatus
		}{
			{order.ActionFinancialApprove, order.ManagementStatusFinancialReviewing},
			{order.ActionFinancialReject, order.ManagementStatusFinancialReviewing},
			{order.ActionWarehouseProcess, order.ManagementStatusWarehousePending},
			{order.ActionWarehouseApprove, order.ManagementStatusWarehouseProcessing},
			{order.ActionLogisticsDispatch, order.ManagementStatusWarehouseApproved},
			{order.ActionLogisticsDeliver, order.ManagementStatusLogisticsDispatched},
		}
		for _, tc := range cases {
			t.Run(tc.action.String(), func(t *testing.T) {
				repos := newTestRepos()
				svc := newStatusSyncService(repos, clock)

				o := buildOrder(t, order.PaymentMethodWallet, tc.from)
				repos.orders.On("FindByOrderNumber", mock.Anything, o.Customer.TenantID, o.Customer.OrderNumber).Return(o, nil)
				repos.orders.On("SaveOrder", mock.Anything, o).Return(nil)

				_, err := svc.Apply(context.Background(), o.Customer.TenantID, tc.action,
					DepartmentActionRequest{OrderNumber: o.Customer.OrderNumber}, uuid.New())
				require.NoError(t, err)
				assert.True(t, o.IsSynced())
			})
		}
	})

	t.Run("disallowed transition rejected without write", func(t *testing.T) {
		repos := newTestRepos()
		svc := newStatusSyncService(repos, clock)

		o := buildOrder(t, order.PaymentMethodWallet, order.ManagementStatusDelivered)
		repos.orders.On("FindByOrderNumber", mock.Anything, o.Customer.TenantID, o.Customer.OrderNumber).Return(o, nil)

		_, err := svc.Apply(context.Background(), o.Customer.TenantID, order.ActionFinancialApprove,
			DepartmentActionRequest{OrderNumber: o.Customer.OrderNumber}, uuid.New())
		assert.Error(t, err)
		repos.orders.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything)
	})

	t.Run("unknown action rejected", func(t *testing.T) {
		repos := newTestRepos()
		svc := newStatusSyncService(repos, clock)

		_, err := svc.Apply(context.Background(), uuid.New(), order.DepartmentAction("promote"),
			DepartmentActionRequest{OrderNumber: "MOM2500001"}, uuid.New())
		assert.Error(t, err)
	})
}

func TestStatusSyncService_CheckSyncHealth(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	repos := newTestRepos()
	svc := newStatusSyncService(repos, clock)

	drifted := buildOrder(t, order.PaymentMethodWallet, order.ManagementStatusWarehousePending)
	drifted.Customer.Status = order.CustomerStatusPending

	repos.orders.On("ScanSync", mock.Anything).Return(order.SyncScan{Total: 10, Synced: 8}, nil)
	repos.orders.On("FindMismatched", mock.Anything).Return([]*order.Order{drifted}, nil)

	resp, err := svc.CheckSyncHealth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.TotalOrders)
	assert.Equal(t, int64(8), resp.SyncedOrders)
	assert.Equal(t, 80, resp.Percentage)
	require.Len(t, resp.Mismatches, 1)
	assert.Equal(t, order.CustomerStatusPending, resp.Mismatches[0].CustomerStatus)
	assert.Equal(t, order.ManagementStatusWarehousePending, resp.Mismatches[0].ManagementStatus)
}

func TestStatusSyncService_AutoFixStatusMismatches(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}

	t.Run("repairs known drift patterns", func(t *testing.T) {
		repos := newTestRepos()
		svc := newStatusSyncService(repos, clock)

		behind := buildOrder(t, order.PaymentMethodWallet, order.ManagementStatusWarehousePending)
		behind.Customer.Status = order.CustomerStatusPending

		ahead := buildOrder(t, order.PaymentMethodWallet, order.ManagementStatusPending)
		ahead.Customer.Status = order.CustomerStatusConfirmed

		repos.orders.On("FindMismatched", mock.Anything).Return([]*order.Order{behind, ahead}, nil)
		repos.orders.On("UpdateCustomerStatus", mock.Anything, behind.Customer.ID, order.CustomerStatusConfirmed).Return(nil)
		repos.orders.On("UpdateCustomerStatus", mock.Anything, ahead.Customer.ID, order.CustomerStatusPaymentUploaded).Return(nil)

		stats, err := svc.AutoFixStatusMismatches(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Fixed)
		assert.Empty(t, stats.Issues)
		repos.orders.AssertExpectations(t)
	})

	t.Run("unrecognized pattern reported not guessed", func(t *testing.T) {
		repos := newTestRepos()
		svc := newStatusSyncService(repos, clock)

		odd := buildOrder(t, order.PaymentMethodWallet, order.ManagementStatusWarehouseProcessing)
		odd.Customer.Status = order.CustomerStatusDelivered

		repos.orders.On("FindMismatched", mock.Anything).Return([]*order.Order{odd}, nil)

		stats, err := svc.AutoFixStatusMismatches(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.Fixed)
		require.Len(t, stats.Issues, 1)
		assert.Equal(t, odd.Customer.ID, stats.Issues[0].OrderID)
		repos.orders.AssertNotCalled(t, "UpdateCustomerStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("one failing order does not stop the pass", func(t *testing.T) {
		repos := newTestRepos()
		svc := newStatusSyncService(repos, clock)

		first := buildOrder(t, order.PaymentMethodWallet, order.ManagementStatusWarehousePending)
		first.Customer.Status = order.CustomerStatusPending
		second := buildOrder(t, order.PaymentMethodWallet, order.ManagementStatusDelivered)
		second.Customer.Status = order.CustomerStatusDispatched

		repos.orders.On("FindMismatched", mock.Anything).Return([]*order.Order{first, second}, nil)
		repos.orders.On("UpdateCustomerStatus", mock.Anything, first.Customer.ID, order.CustomerStatusConfirmed).
			Return(errors.New("row deadlock"))
		repos.orders.On("UpdateCustomerStatus", mock.Anything, second.Customer.ID, order.CustomerStatusDelivered).Return(nil)

		stats, err := svc.AutoFixStatusMismatches(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Fixed)
		require.Len(t, stats.Issues, 1)
		assert.Equal(t, first.Customer.ID, stats.Issues[0].OrderID)
	})
}
