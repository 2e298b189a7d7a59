package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
)

type callbackFixture struct {
	orders      *MockOrderRepository
	numbers     *MockNumberRepository
	idempotency *MockIdempotencyStore
	tenantID    uuid.UUID
}

func newCallbackRouter(t *testing.T) (*gin.Engine, *callbackFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := &callbackFixture{
		orders:      new(MockOrderRepository),
		numbers:     new(MockNumberRepository),
		idempotency: new(MockIdempotencyStore),
		tenantID:    uuid.New(),
	}
	scope := orderapp.NewNoOpTransactionScope(fx.orders, new(MockWalletRepository), fx.numbers)
	clock := fixedClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
	svc := orderapp.NewPaymentCallbackService(scope, orderapp.NewNumberService(clock, zap.NewNop()), fx.idempotency, clock, zap.NewNop())

	h := NewPaymentCallbackHandler(svc, zap.NewNop())
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, fx
}

func gatewayOrder(t *testing.T, tenantID uuid.UUID) *order.Order {
	t.Helper()
	co, err := order.NewCustomerOrder(tenantID, uuid.New(), decimal.NewFromInt(125000), order.PaymentMethodBankGateway, "")
	require.NoError(t, err)
	mgmt, err := order.NewManagement(co, order.ManagementStatusPendingPayment, "Bank gateway")
	require.NoError(t, err)
	return &order.Order{Customer: co, Management: mgmt}
}

func postCallback(r *gin.Engine, tenantID uuid.UUID, body map[string]any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	url := fmt.Sprintf("/api/v1/payments/fib/callback?tenant_id=%s", tenantID)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFIBCallback_PaidAssignsNumberAndQueuesWarehouse(t *testing.T) {
	r, fx := newCallbackRouter(t)
	o := gatewayOrder(t, fx.tenantID)

	fx.idempotency.On("Claim", mock.Anything, "payment:callback:txn-1001", mock.Anything).Return(true, nil)
	fx.orders.On("FindByID", mock.Anything, fx.tenantID, o.Customer.ID).Return(o, nil)
	fx.numbers.On("Reserve", mock.Anything, 2025).Return(7, nil)
	fx.orders.On("SaveOrder", mock.Anything, o).Return(nil)

	w := postCallback(r, fx.tenantID, map[string]any{
		"id":        "txn-1001",
		"status":    "PAID",
		"extraData": o.Customer.ID.String(),
		"amount":    "125000",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "MOM2500007")
	assert.Equal(t, order.ManagementStatusWarehousePending, o.Management.CurrentStatus)
	assert.Equal(t, order.PaymentStatusPaid, o.Customer.PaymentStatus)
	fx.orders.AssertExpectations(t)
}

func TestFIBCallback_DeclinedCancelsOrder(t *testing.T) {
	r, fx := newCallbackRouter(t)
	o := gatewayOrder(t, fx.tenantID)

	fx.idempotency.On("Claim", mock.Anything, "payment:callback:txn-1002", mock.Anything).Return(true, nil)
	fx.orders.On("FindByID", mock.Anything, fx.tenantID, o.Customer.ID).Return(o, nil)
	fx.orders.On("SaveOrder", mock.Anything, o).Return(nil)

	w := postCallback(r, fx.tenantID, map[string]any{
		"id":        "txn-1002",
		"status":    "DECLINED",
		"extraData": o.Customer.ID.String(),
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, order.CustomerStatusCancelled, o.Customer.Status)
	assert.Equal(t, order.ManagementStatusFinancialRejected, o.Management.CurrentStatus)
}

func TestFIBCallback_ReplayIsAcknowledged(t *testing.T) {
	r, fx := newCallbackRouter(t)

	fx.idempotency.On("Claim", mock.Anything, "payment:callback:txn-1003", mock.Anything).Return(false, nil)

	w := postCallback(r, fx.tenantID, map[string]any{
		"id":        "txn-1003",
		"status":    "PAID",
		"extraData": uuid.New().String(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already_processed")
	fx.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestFIBCallback_UnpaidStatusIsIgnored(t *testing.T) {
	r, fx := newCallbackRouter(t)

	w := postCallback(r, fx.tenantID, map[string]any{
		"id":        "txn-1004",
		"status":    "UNPAID",
		"extraData": uuid.New().String(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"processed":false`)
	fx.idempotency.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything)
}

func TestFIBCallback_MissingTenant(t *testing.T) {
	r, _ := newCallbackRouter(t)

	raw, _ := json.Marshal(map[string]any{"id": "x", "status": "PAID", "extraData": uuid.New().String()})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/fib/callback", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFIBCallback_FailureReleasesClaim(t *testing.T) {
	r, fx := newCallbackRouter(t)
	orderID := uuid.New()

	fx.idempotency.On("Claim", mock.Anything, "payment:callback:txn-1005", mock.Anything).Return(true, nil)
	fx.orders.On("FindByID", mock.Anything, fx.tenantID, orderID).Return(nil, shared.ErrNotFound)
	fx.idempotency.On("Release", mock.Anything, "payment:callback:txn-1005").Return(nil)

	w := postCallback(r, fx.tenantID, map[string]any{
		"id":        "txn-1005",
		"status":    "PAID",
		"extraData": orderID.String(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	fx.idempotency.AssertExpectations(t)
}
