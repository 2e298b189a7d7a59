package handler

import (
	"bytes"
	"encoding/json"
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
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/interfaces/http/dto"
	"github.com/momtazchem/backend/internal/interfaces/http/i18n"
)

type orderHandlerFixture struct {
	orders   *MockOrderRepository
	wallets  *MockWalletRepository
	numbers  *MockNumberRepository
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newOrderRouter(t *testing.T, role identity.Role) (*gin.Engine, *orderHandlerFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := &orderHandlerFixture{
		orders:   new(MockOrderRepository),
		wallets:  new(MockWalletRepository),
		numbers:  new(MockNumberRepository),
		tenantID: uuid.New(),
		userID:   uuid.New(),
	}
	scope := orderapp.NewNoOpTransactionScope(fx.orders, fx.wallets, fx.numbers)

	clock := fixedClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
	checkout := orderapp.NewCheckoutService(scope, orderapp.NewNumberService(clock, zap.NewNop()), clock, zap.NewNop())
	statuses := orderapp.NewStatusSyncService(scope, clock, zap.NewNop())

	h := NewOrderHandler(checkout, statuses, i18n.New(), nil)

	r := gin.New()
	api := r.Group("/api/v1", authInjector(fx.tenantID, fx.userID, role))
	h.RegisterRoutes(api)
	return r, fx
}

func reviewingOrder(t *testing.T, tenantID uuid.UUID, number string) *order.Order {
	t.Helper()
	co, err := order.NewCustomerOrder(tenantID, uuid.New(), decimal.NewFromInt(500), order.PaymentMethodWallet, number)
	require.NoError(t, err)
	mgmt, err := order.NewManagement(co, order.ManagementStatusFinancialReviewing, "Customer wallet")
	require.NoError(t, err)
	return &order.Order{Customer: co, Management: mgmt}
}

func TestOrderHandler_FinancialApprove(t *testing.T) {
	r, fx := newOrderRouter(t, identity.RoleFinancial)
	o := reviewingOrder(t, fx.tenantID, "MOM2500042")

	fx.orders.On("FindByOrderNumber", mock.Anything, fx.tenantID, "MOM2500042").Return(o, nil)
	fx.orders.On("SaveOrder", mock.Anything, o).Return(nil)

	body := bytes.NewBufferString(`{"notes":"checked against invoice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/MOM2500042/financial/approve", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "approved by finance")
	assert.Equal(t, order.ManagementStatusWarehousePending, o.Management.CurrentStatus)
	assert.Equal(t, order.CustomerStatusConfirmed, o.Customer.Status)
	fx.orders.AssertExpectations(t)
}

func TestOrderHandler_ActionMessageLocalized(t *testing.T) {
	r, fx := newOrderRouter(t, identity.RoleFinancial)
	o := reviewingOrder(t, fx.tenantID, "MOM2500042")

	fx.orders.On("FindByOrderNumber", mock.Anything, fx.tenantID, "MOM2500042").Return(o, nil)
	fx.orders.On("SaveOrder", mock.Anything, o).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/MOM2500042/financial/approve", nil)
	req.Header.Set("Accept-Language", "ar")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "تمت الموافقة المالية")
	assert.Contains(t, w.Body.String(), "MOM2500042")
}

func TestOrderHandler_ActionRejectedForWrongRole(t *testing.T) {
	r, _ := newOrderRouter(t, identity.RoleWarehouse)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/MOM2500042/financial/approve", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestOrderHandler_AdminPassesEveryGate(t *testing.T) {
	r, fx := newOrderRouter(t, identity.RoleAdmin)
	o := reviewingOrder(t, fx.tenantID, "MOM2500042")

	fx.orders.On("FindByOrderNumber", mock.Anything, fx.tenantID, "MOM2500042").Return(o, nil)
	fx.orders.On("SaveOrder", mock.Anything, o).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/MOM2500042/financial/approve", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderHandler_InvalidTransition(t *testing.T) {
	r, fx := newOrderRouter(t, identity.RoleLogistics)
	o := reviewingOrder(t, fx.tenantID, "MOM2500042")

	fx.orders.On("FindByOrderNumber", mock.Anything, fx.tenantID, "MOM2500042").Return(o, nil)

	// delivering an order still in financial review
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/MOM2500042/logistics/deliver", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TRANSITION")
	assert.Contains(t, w.Body.String(), "not allowed in the current order state")
	fx.orders.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything)
}

func TestOrderHandler_CheckoutWallet(t *testing.T) {
	r, fx := newOrderRouter(t, identity.RoleCustomer)

	fx.numbers.On("Reserve", mock.Anything, 2025).Return(42, nil)
	fx.wallets.On("Balance", mock.Anything, fx.tenantID, fx.userID).Return(decimal.NewFromInt(1000), nil)
	fx.wallets.On("Create", mock.Anything, mock.Anything).Return(nil)
	fx.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)

	payload := map[string]any{
		"total_amount":   "250",
		"payment_method": "wallet",
	}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "MOM2500042", data["order_number"])
	assert.Equal(t, "paid", data["payment_status"])
	fx.orders.AssertExpectations(t)
	fx.wallets.AssertExpectations(t)
}

func TestOrderHandler_CheckoutRejectsUnknownMethod(t *testing.T) {
	r, _ := newOrderRouter(t, identity.RoleCustomer)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		bytes.NewBufferString(`{"total_amount":"250","payment_method":"cash"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_PAYMENT_METHOD")
}

func TestOrderHandler_GetNotFoundIsLocalized(t *testing.T) {
	r, fx := newOrderRouter(t, identity.RoleCustomer)

	fx.orders.On("FindByOrderNumber", mock.Anything, fx.tenantID, "MOM2599999").
		Return(nil, shared.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/MOM2599999", nil)
	req.Header.Set("Accept-Language", "ckb")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "نەدۆزرایەوە")
}

func TestOrderHandler_SyncHealth(t *testing.T) {
	r, fx := newOrderRouter(t, identity.RoleAdmin)

	fx.orders.On("ScanSync", mock.Anything).Return(order.SyncScan{Total: 10, Synced: 8}, nil)
	mismatched := reviewingOrder(t, fx.tenantID, "MOM2500001")
	mismatched.Customer.Status = order.CustomerStatusDelivered
	fx.orders.On("FindMismatched", mock.Anything).Return([]*order.Order{mismatched}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/sync/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.EqualValues(t, 10, data["total_orders"])
	assert.EqualValues(t, 80, data["percentage"])
	assert.Len(t, data["mismatches"], 1)
}

func TestOrderHandler_SyncEndpointsAreAdminOnly(t *testing.T) {
	r, _ := newOrderRouter(t, identity.RoleFinancial)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/sync/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
