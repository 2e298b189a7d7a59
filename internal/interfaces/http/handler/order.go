package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderapp "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/telemetry"
	"github.com/momtazchem/backend/internal/interfaces/http/dto"
	"github.com/momtazchem/backend/internal/interfaces/http/i18n"
	"github.com/momtazchem/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order checkout, retrieval, the department workflow
// actions and the synchronization maintenance endpoints
type OrderHandler struct {
	BaseHandler
	checkout  *orderapp.CheckoutService
	statuses  *orderapp.StatusSyncService
	localizer *i18n.Localizer
	metrics   *telemetry.WorkflowMetrics
}

// NewOrderHandler creates a new OrderHandler. metrics may be nil.
func NewOrderHandler(
	checkout *orderapp.CheckoutService,
	statuses *orderapp.StatusSyncService,
	localizer *i18n.Localizer,
	metrics *telemetry.WorkflowMetrics,
) *OrderHandler {
	return &OrderHandler{
		checkout:  checkout,
		statuses:  statuses,
		localizer: localizer,
		metrics:   metrics,
	}
}

// RegisterRoutes mounts the order endpoints. Department actions are gated
// on the matching role; admins pass every gate.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")

	orders.POST("", h.Checkout)
	orders.GET("", h.ListMine)

	orders.GET("/sync/health", middleware.RequireRole(), h.SyncHealth)
	orders.POST("/sync/repair", middleware.RequireRole(), h.SyncRepair)

	orders.GET("/:orderNumber", h.Get)

	financial := middleware.RequireRole(identity.RoleFinancial)
	orders.POST("/:orderNumber/financial/approve", financial, h.departmentAction(order.ActionFinancialApprove))
	orders.POST("/:orderNumber/financial/reject", financial, h.departmentAction(order.ActionFinancialReject))

	warehouse := middleware.RequireRole(identity.RoleWarehouse)
	orders.POST("/:orderNumber/warehouse/process", warehouse, h.departmentAction(order.ActionWarehouseProcess))
	orders.POST("/:orderNumber/warehouse/approve", warehouse, h.departmentAction(order.ActionWarehouseApprove))

	logistics := middleware.RequireRole(identity.RoleLogistics)
	orders.POST("/:orderNumber/logistics/dispatch", logistics, h.departmentAction(order.ActionLogisticsDispatch))
	orders.POST("/:orderNumber/logistics/deliver", logistics, h.departmentAction(order.ActionLogisticsDeliver))
}

// CheckoutRequest is the HTTP request for placing an order. customer_id is
// optional for customers ordering for themselves.
type CheckoutRequest struct {
	CustomerID    *string         `json:"customer_id" binding:"omitempty,uuid"`
	TotalAmount   decimal.Decimal `json:"total_amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	WalletAmount  decimal.Decimal `json:"wallet_amount"`
}

// ActionNotesRequest is the optional body of a department action
type ActionNotesRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// Checkout places a new order
func (h *OrderHandler) Checkout(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if req.CustomerID != nil {
		customerID, err = uuid.Parse(*req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
	}

	resp, err := h.checkout.Checkout(c.Request.Context(), tenantID, orderapp.CheckoutRequest{
		CustomerID:    customerID,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
		WalletAmount:  req.WalletAmount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordOrderCreated(c.Request.Context(), req.PaymentMethod)
	}

	h.Created(c, resp)
}

// Get returns one order by its order number
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.checkout.GetByNumber(c.Request.Context(), tenantID, c.Param("orderNumber"))
	if err != nil {
		h.handleWorkflowError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListMine returns the authenticated customer's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := listReq.ToFilter()

	orders, total, err := h.checkout.ListByCustomer(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// departmentAction builds the handler for one workflow action
func (h *OrderHandler) departmentAction(action order.DepartmentAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := getTenantID(c)
		if err != nil {
			h.Unauthorized(c, "Authentication required")
			return
		}
		actorID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Authentication required")
			return
		}

		var req ActionNotesRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				h.BadRequest(c, err.Error())
				return
			}
		}

		orderNumber := c.Param("orderNumber")
		_, err = h.statuses.Apply(c.Request.Context(), tenantID, action, orderapp.DepartmentActionRequest{
			OrderNumber: orderNumber,
			Notes:       req.Notes,
		}, actorID)
		if err != nil {
			h.handleWorkflowError(c, err)
			return
		}

		if h.metrics != nil {
			h.metrics.RecordDepartmentAction(c.Request.Context(), action.String())
		}

		h.Success(c, orderapp.ActionResponse{
			Success: true,
			Message: h.localizer.ActionMessage(c.GetHeader("Accept-Language"), action, orderNumber),
		})
	}
}

// SyncHealth reports how well the customer and management tables agree
func (h *OrderHandler) SyncHealth(c *gin.Context) {
	resp, err := h.statuses.CheckSyncHealth(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SyncRepair re-derives the customer status for every drifted order pair
func (h *OrderHandler) SyncRepair(c *gin.Context) {
	stats, err := h.statuses.AutoFixStatusMismatches(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// handleWorkflowError localizes workflow failures before responding
func (h *OrderHandler) handleWorkflowError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		message := h.localizer.ErrorMessage(c.GetHeader("Accept-Language"), domainErr.Code, domainErr.Message)
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, message)
		return
	}
	h.InternalError(c, "An unexpected error occurred")
}
