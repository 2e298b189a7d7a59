package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/infrastructure/storage"
	"github.com/momtazchem/backend/internal/interfaces/http/dto"
	"github.com/momtazchem/backend/internal/interfaces/http/middleware"
)

const proofURLExpiry = 15 * time.Minute

// UploadHandler issues presigned URLs for payment-proof documents. Customers
// on grace-period terms upload bank receipts here; finance reviews them
// before approving the order.
type UploadHandler struct {
	BaseHandler
	store storage.ObjectStorage
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store storage.ObjectStorage) *UploadHandler {
	return &UploadHandler{store: store}
}

// RegisterRoutes mounts the payment-proof endpoints
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("/:orderNumber/payment-proof/upload-url", h.UploadURL)
	orders.GET("/:orderNumber/payment-proof/download-url",
		middleware.RequireRole(identity.RoleFinancial), h.DownloadURL)
}

// UploadURLRequest names the content type the client will upload
type UploadURLRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURL returns a presigned PUT URL for the order's payment proof
func (h *UploadHandler) UploadURL(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	key := proofStorageKey(tenantID.String(), c.Param("orderNumber"))
	uploadURL, expiresAt, err := h.store.GenerateUploadURL(c.Request.Context(), key, req.ContentType, proofURLExpiry)
	if err != nil {
		h.InternalError(c, "Failed to generate upload URL")
		return
	}

	h.Success(c, gin.H{
		"upload_url":  uploadURL,
		"storage_key": key,
		"expires_at":  expiresAt,
	})
}

// DownloadURL returns a presigned GET URL for an uploaded payment proof
func (h *UploadHandler) DownloadURL(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	key := proofStorageKey(tenantID.String(), c.Param("orderNumber"))
	exists, err := h.store.ObjectExists(c.Request.Context(), key)
	if err != nil {
		h.InternalError(c, "Failed to check payment proof")
		return
	}
	if !exists {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "No payment proof uploaded for this order")
		return
	}

	downloadURL, expiresAt, err := h.store.GenerateDownloadURL(c.Request.Context(), key, proofURLExpiry)
	if err != nil {
		h.InternalError(c, "Failed to generate download URL")
		return
	}

	h.Success(c, gin.H{
		"download_url": downloadURL,
		"expires_at":   expiresAt,
	})
}

func proofStorageKey(tenantID, orderNumber string) string {
	return fmt.Sprintf("tenants/%s/orders/%s/payment-proof", tenantID, orderNumber)
}
