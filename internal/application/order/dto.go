package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/order"
)

// CheckoutRequest represents a request to place an order
type CheckoutRequest struct {
	CustomerID    uuid.UUID           `json:"customer_id" binding:"required"`
	TotalAmount   decimal.Decimal     `json:"total_amount" binding:"required"`
	PaymentMethod order.PaymentMethod `json:"payment_method" binding:"required"`
	// WalletAmount is the wallet-covered portion for wallet_partial orders;
	// ignored for other methods.
	WalletAmount decimal.Decimal `json:"wallet_amount"`
}

// DepartmentActionRequest represents a department acting on an order
type DepartmentActionRequest struct {
	OrderNumber string `json:"order_number" binding:"required"`
	Notes       string `json:"notes" binding:"max=2000"`
}

// OrderResponse represents an order pair in API responses
type OrderResponse struct {
	ID               uuid.UUID              `json:"id"`
	OrderNumber      string                 `json:"order_number,omitempty"`
	CustomerID       uuid.UUID              `json:"customer_id"`
	TotalAmount      decimal.Decimal        `json:"total_amount"`
	PaymentMethod    order.PaymentMethod    `json:"payment_method"`
	PaymentStatus    order.PaymentStatus    `json:"payment_status"`
	Status           order.CustomerStatus   `json:"status"`
	ManagementStatus order.ManagementStatus `json:"management_status"`
	PaymentLink      string                 `json:"payment_link,omitempty"`
	WalletAmountUsed decimal.Decimal        `json:"wallet_amount_used"`
	BankAmountPaid   decimal.Decimal        `json:"bank_amount_paid"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// ActionResponse is the result of a department action
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MismatchDetail describes one drifted order pair
type MismatchDetail struct {
	OrderID          uuid.UUID              `json:"order_id"`
	OrderNumber      string                 `json:"order_number,omitempty"`
	CustomerStatus   order.CustomerStatus   `json:"customer_status"`
	ManagementStatus order.ManagementStatus `json:"management_status"`
}

// SyncHealthResponse reports the outcome of a drift scan
type SyncHealthResponse struct {
	TotalOrders  int64            `json:"total_orders"`
	SyncedOrders int64            `json:"synced_orders"`
	Percentage   int              `json:"percentage"`
	Mismatches   []MismatchDetail `json:"mismatches"`
}

// RepairIssue describes a mismatch the repair pass could not fix
type RepairIssue struct {
	OrderID          uuid.UUID              `json:"order_id"`
	CustomerStatus   order.CustomerStatus   `json:"customer_status"`
	ManagementStatus order.ManagementStatus `json:"management_status"`
	Reason           string                 `json:"reason"`
}

// RepairStats is the result of a repair pass over all drifted orders
type RepairStats struct {
	Fixed       int           `json:"fixed"`
	Issues      []RepairIssue `json:"issues"`
	ProcessedAt time.Time     `json:"processed_at"`
}

// ToOrderResponse converts an order pair to its response form
func ToOrderResponse(o *order.Order) *OrderResponse {
	return &OrderResponse{
		ID:               o.Customer.ID,
		OrderNumber:      o.Customer.OrderNumber,
		CustomerID:       o.Customer.CustomerID,
		TotalAmount:      o.Customer.TotalAmount,
		PaymentMethod:    o.Customer.PaymentMethod,
		PaymentStatus:    o.Customer.PaymentStatus,
		Status:           o.Customer.Status,
		ManagementStatus: o.Management.CurrentStatus,
		WalletAmountUsed: o.Management.WalletAmountUsed,
		BankAmountPaid:   o.Management.BankAmountPaid,
		CreatedAt:        o.Customer.CreatedAt,
		UpdatedAt:        o.Customer.UpdatedAt,
	}
}
