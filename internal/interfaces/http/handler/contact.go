package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	crmapp "github.com/momtazchem/backend/internal/application/crm"
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/interfaces/http/dto"
	"github.com/momtazchem/backend/internal/interfaces/http/middleware"
)

// ContactHandler handles CRM contact endpoints
type ContactHandler struct {
	BaseHandler
	contacts *crmapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts *crmapp.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// RegisterRoutes mounts the CRM endpoints for sales staff
func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	crm := rg.Group("/crm", middleware.RequireRole(identity.RoleFinancial, identity.RoleLogistics, identity.RoleWarehouse))
	crm.POST("/contacts", h.Create)
	crm.GET("/contacts", h.List)
	crm.GET("/contacts/:id", h.Get)
	crm.POST("/contacts/:id/qualify", h.Qualify)
	crm.POST("/contacts/:id/assign", h.Assign)
}

// AssignContactRequest names the staff user a contact is assigned to
type AssignContactRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// Create adds a CRM contact
func (h *ContactHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req crmapp.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contacts.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one contact
func (h *ContactHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	resp, err := h.contacts.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns contacts with pagination
func (h *ContactHandler) List(c *gin.Context) {
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

	items, total, err := h.contacts.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Qualify moves a contact from lead to qualified
func (h *ContactHandler) Qualify(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	resp, err := h.contacts.Qualify(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Assign sets the responsible staff user for a contact
func (h *ContactHandler) Assign(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	var req AssignContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	resp, err := h.contacts.Assign(c.Request.Context(), tenantID, id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *ContactHandler) tenantAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}
