package handler

import (
	"github.com/gin-gonic/gin"

	deliveryapp "github.com/momtazchem/backend/internal/application/delivery"
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/infrastructure/telemetry"
	"github.com/momtazchem/backend/internal/interfaces/http/middleware"
)

// DeliveryHandler handles courier GPS delivery confirmations
type DeliveryHandler struct {
	BaseHandler
	verifications *deliveryapp.VerificationService
	metrics       *telemetry.WorkflowMetrics
}

// NewDeliveryHandler creates a new DeliveryHandler. metrics may be nil.
func NewDeliveryHandler(verifications *deliveryapp.VerificationService, metrics *telemetry.WorkflowMetrics) *DeliveryHandler {
	return &DeliveryHandler{
		verifications: verifications,
		metrics:       metrics,
	}
}

// RegisterRoutes mounts the delivery endpoints
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveries := rg.Group("/deliveries")
	courier := middleware.RequireRole(identity.RoleCourier, identity.RoleLogistics)
	deliveries.POST("/:orderNumber/verify", courier, h.Verify)
}

// VerifyRequest is the courier's GPS confirmation body
type VerifyRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// Verify checks the courier's position against the order's drop point and
// completes the delivery when in range
func (h *DeliveryHandler) Verify(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	courierID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.verifications.VerifyDelivery(c.Request.Context(), tenantID, courierID, deliveryapp.VerifyRequest{
		OrderNumber: c.Param("orderNumber"),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordDeliveryVerification(c.Request.Context(), resp.Result)
	}

	h.Success(c, resp)
}
