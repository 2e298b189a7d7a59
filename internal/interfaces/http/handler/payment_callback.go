package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	orderapp "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/payment"
)

// PaymentCallbackHandler receives FIB gateway notifications. The endpoint
// is unauthenticated; replay protection comes from the idempotency claim
// inside the callback service, and the tenant is carried in the callback
// URL registered with the gateway.
type PaymentCallbackHandler struct {
	BaseHandler
	callbacks *orderapp.PaymentCallbackService
	logger    *zap.Logger
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(callbacks *orderapp.PaymentCallbackService, logger *zap.Logger) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		callbacks: callbacks,
		logger:    logger,
	}
}

// RegisterRoutes mounts the gateway callback endpoint
func (h *PaymentCallbackHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/fib/callback", h.HandleFIBCallback)
}

// FIBCallbackRequest is the gateway's payment-result notification. The
// extraData field echoes the order ID we attached when creating the
// payment session.
type FIBCallbackRequest struct {
	ID        string          `json:"id" binding:"required"`
	Status    string          `json:"status" binding:"required"`
	ExtraData string          `json:"extraData" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
}

// HandleFIBCallback applies one gateway payment result to its order
func (h *PaymentCallbackHandler) HandleFIBCallback(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		h.BadRequest(c, "Missing or invalid tenant_id")
		return
	}

	var req FIBCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderID, err := uuid.Parse(req.ExtraData)
	if err != nil {
		h.BadRequest(c, "Invalid order reference in extraData")
		return
	}

	switch req.Status {
	case payment.FIBStatusPaid, payment.FIBStatusDeclined:
	default:
		// UNPAID and REFUNDED notifications carry no workflow transition;
		// acknowledge so the gateway stops retrying.
		h.logger.Info("Ignoring FIB callback status",
			zap.String("payment_id", req.ID),
			zap.String("status", req.Status),
		)
		h.Success(c, gin.H{"processed": false})
		return
	}

	resp, err := h.callbacks.Handle(c.Request.Context(), tenantID, orderapp.PaymentCallback{
		OrderID:              orderID,
		GatewayTransactionID: req.ID,
		Succeeded:            req.Status == payment.FIBStatusPaid,
		Amount:               req.Amount,
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "DUPLICATE_CALLBACK" {
			// Replay: acknowledge so the gateway stops retrying
			h.Success(c, gin.H{"processed": false, "already_processed": true})
			return
		}
		h.logger.Error("FIB callback processing failed",
			zap.String("payment_id", req.ID),
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
