package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	walletapp "github.com/momtazchem/backend/internal/application/wallet"
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/interfaces/http/dto"
	"github.com/momtazchem/backend/internal/interfaces/http/middleware"
)

// WalletHandler handles wallet balance, ledger history and credits.
// Customers see their own wallet; finance staff address any customer.
type WalletHandler struct {
	BaseHandler
	wallets *walletapp.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(wallets *walletapp.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// RegisterRoutes mounts the wallet endpoints
func (h *WalletHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wallet := rg.Group("/wallet")
	wallet.GET("/balance", h.Balance)
	wallet.GET("/transactions", h.Transactions)

	financial := middleware.RequireRole(identity.RoleFinancial)
	wallet.GET("/customers/:id/balance", financial, h.CustomerBalance)
	wallet.GET("/customers/:id/transactions", financial, h.CustomerTransactions)
	wallet.POST("/customers/:id/credit", financial, h.Credit)
}

// Balance returns the authenticated customer's wallet balance
func (h *WalletHandler) Balance(c *gin.Context) {
	tenantID, customerID, ok := h.identify(c)
	if !ok {
		return
	}

	resp, err := h.wallets.Balance(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Transactions returns the authenticated customer's ledger history
func (h *WalletHandler) Transactions(c *gin.Context) {
	tenantID, customerID, ok := h.identify(c)
	if !ok {
		return
	}
	h.listTransactions(c, tenantID, customerID)
}

// CustomerBalance returns any customer's balance, for finance staff
func (h *WalletHandler) CustomerBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	customerID, ok := h.pathCustomerID(c)
	if !ok {
		return
	}

	resp, err := h.wallets.Balance(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CustomerTransactions returns any customer's ledger, for finance staff
func (h *WalletHandler) CustomerTransactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	customerID, ok := h.pathCustomerID(c)
	if !ok {
		return
	}
	h.listTransactions(c, tenantID, customerID)
}

// Credit records a manual wallet top-up
func (h *WalletHandler) Credit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	customerID, ok := h.pathCustomerID(c)
	if !ok {
		return
	}

	var req walletapp.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.wallets.Credit(c.Request.Context(), tenantID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *WalletHandler) listTransactions(c *gin.Context, tenantID, customerID uuid.UUID) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := listReq.ToFilter()

	txs, total, err := h.wallets.History(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, txs, total, filter.Page, filter.PageSize)
}

func (h *WalletHandler) identify(c *gin.Context) (tenantID, customerID uuid.UUID, ok bool) {
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

func (h *WalletHandler) pathCustomerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return uuid.Nil, false
	}
	return id, true
}
