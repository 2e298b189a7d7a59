package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/momtazchem/backend/internal/application/catalog"
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/interfaces/http/dto"
	"github.com/momtazchem/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles the showcase catalog and its shop mirror
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
	sync     *catalogapp.SyncService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService, sync *catalogapp.SyncService) *ProductHandler {
	return &ProductHandler{
		products: products,
		sync:     sync,
	}
}

// RegisterRoutes mounts the catalog endpoints. Mutations are limited to
// warehouse staff; reads are open to any authenticated user.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.GET("/:id", h.Get)

	warehouse := middleware.RequireRole(identity.RoleWarehouse)
	products.POST("", warehouse, h.Create)
	products.POST("/:id/stock", warehouse, h.AdjustStock)
	products.POST("/:id/activate", warehouse, h.setActive(true))
	products.POST("/:id/deactivate", warehouse, h.setActive(false))
	products.POST("/sync", warehouse, h.SyncAll)
	products.POST("/:id/sync", warehouse, h.SyncOne)
}

// Create adds a showcase product
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.products.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one showcase product
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	resp, err := h.products.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns showcase products with pagination
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
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

	items, total, err := h.products.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// AdjustStock applies a signed stock delta
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	var req catalogapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.products.AdjustStock(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *ProductHandler) setActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, id, ok := h.tenantAndID(c)
		if !ok {
			return
		}

		resp, err := h.products.SetActive(c.Request.Context(), tenantID, id, active)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
	}
}

// SyncAll pushes every sync-enabled showcase product to the shop mirror
func (h *ProductHandler) SyncAll(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.sync.SyncAll(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// SyncOne pushes a single showcase product to the shop mirror
func (h *ProductHandler) SyncOne(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	resp, err := h.sync.SyncOne(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *ProductHandler) tenantAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}
