package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	chatapp "github.com/momtazchem/backend/internal/application/chat"
	"github.com/momtazchem/backend/internal/domain/chat"
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/interfaces/http/dto"
	"github.com/momtazchem/backend/internal/interfaces/http/middleware"
)

// ChatHandler handles customer support conversations
type ChatHandler struct {
	BaseHandler
	chats *chatapp.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chats *chatapp.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// RegisterRoutes mounts the chat endpoints
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	conversations := rg.Group("/chat/conversations")
	conversations.POST("", h.Open)
	conversations.GET("", h.ListMine)
	conversations.GET("/:id/messages", h.Messages)
	conversations.POST("/:id/messages", h.Post)
	conversations.POST("/:id/close", h.Close)
}

// Open starts a new support conversation for the authenticated customer
func (h *ChatHandler) Open(c *gin.Context) {
	tenantID, customerID, ok := h.identify(c)
	if !ok {
		return
	}

	var req chatapp.OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.chats.Open(c.Request.Context(), tenantID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListMine returns the authenticated customer's conversations
func (h *ChatHandler) ListMine(c *gin.Context) {
	tenantID, customerID, ok := h.identify(c)
	if !ok {
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := listReq.ToFilter()

	items, total, err := h.chats.ListByCustomer(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Messages returns one conversation's thread
func (h *ChatHandler) Messages(c *gin.Context) {
	tenantID, conversationID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := listReq.ToFilter()

	items, total, err := h.chats.Messages(c.Request.Context(), tenantID, conversationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Post appends a message to a conversation. Customers post as themselves,
// staff post as agents.
func (h *ChatHandler) Post(c *gin.Context) {
	tenantID, conversationID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	senderID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req chatapp.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	role := chat.SenderAgent
	if middleware.GetJWTRole(c) == identity.RoleCustomer {
		role = chat.SenderCustomer
	}

	resp, err := h.chats.Post(c.Request.Context(), tenantID, conversationID, role, &senderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Close ends a conversation
func (h *ChatHandler) Close(c *gin.Context) {
	tenantID, conversationID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	resp, err := h.chats.Close(c.Request.Context(), tenantID, conversationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *ChatHandler) identify(c *gin.Context) (tenantID, customerID uuid.UUID, ok bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	customerID, err = getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, customerID, true
}

func (h *ChatHandler) tenantAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}
