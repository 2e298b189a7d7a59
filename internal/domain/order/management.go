package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// Management is the department-workflow record, one-to-one with a
// CustomerOrder. Its CurrentStatus reflects department ground truth and is
// treated as authoritative when the customer projection drifts.
type Management struct {
	shared.BaseEntity
	CustomerOrderID    uuid.UUID // unique
	TenantID           uuid.UUID
	CurrentStatus      ManagementStatus
	PaymentMethod      PaymentMethod
	PaymentSourceLabel string // human-readable payment origin

	AutoApprovalScheduledAt *time.Time
	AutoApprovalExecutedAt  *time.Time
	IsAutoApprovalEnabled   bool

	FinancialReviewerID *uuid.UUID
	FinancialReviewedAt *time.Time
	FinancialNotes      string

	WarehouseAssigneeID  *uuid.UUID
	WarehouseProcessedAt *time.Time

	LogisticsAssigneeID  *uuid.UUID
	LogisticsProcessedAt *time.Time

	WalletAmountUsed decimal.Decimal
	BankAmountPaid   decimal.Decimal
}

// NewManagement creates the workflow record for a newly checked-out order.
func NewManagement(o *CustomerOrder, initial ManagementStatus, sourceLabel string) (*Management, error) {
	if o == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Customer order is required")
	}
	if !initial.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown management status")
	}

	return &Management{
		BaseEntity:         shared.NewBaseEntity(),
		CustomerOrderID:    o.ID,
		TenantID:           o.TenantID,
		CurrentStatus:      initial,
		PaymentMethod:      o.PaymentMethod,
		PaymentSourceLabel: sourceLabel,
		WalletAmountUsed:   decimal.Zero,
		BankAmountPaid:     decimal.Zero,
	}, nil
}

// ScheduleAutoApproval arms the auto-approval timer.
func (m *Management) ScheduleAutoApproval(at, now time.Time) {
	m.AutoApprovalScheduledAt = &at
	m.IsAutoApprovalEnabled = true
	m.UpdatedAt = now
}

// IsAutoApprovalDue reports whether the order is eligible for the
// auto-approval sweep at the given instant.
func (m *Management) IsAutoApprovalDue(now time.Time) bool {
	return m.CurrentStatus == ManagementStatusFinancialReviewing &&
		m.IsAutoApprovalEnabled &&
		m.AutoApprovalScheduledAt != nil &&
		!m.AutoApprovalScheduledAt.After(now) &&
		m.AutoApprovalExecutedAt == nil
}

// MarkAutoApprovalExecuted stamps the at-most-once guard. A second sweep that
// finds the stamp already set must skip the order silently.
func (m *Management) MarkAutoApprovalExecuted(now time.Time) error {
	if m.AutoApprovalExecutedAt != nil {
		return shared.NewDomainError("AUTO_APPROVAL_DONE", "Auto approval already executed for this order")
	}
	m.AutoApprovalExecutedAt = &now
	m.UpdatedAt = now
	return nil
}

// RecordWalletUsage records the wallet-covered portion of the payment.
func (m *Management) RecordWalletUsage(amount decimal.Decimal, now time.Time) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Wallet amount cannot be negative")
	}
	m.WalletAmountUsed = amount
	m.UpdatedAt = now
	return nil
}

// RecordBankPayment records the bank-paid portion of the payment.
func (m *Management) RecordBankPayment(amount decimal.Decimal, now time.Time) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Bank amount cannot be negative")
	}
	m.BankAmountPaid = amount
	m.UpdatedAt = now
	return nil
}

// ApplyAudit stamps the department-specific audit fields for an action.
// Called inside the same transaction that writes the status pair.
func (m *Management) ApplyAudit(action DepartmentAction, actorID uuid.UUID, notes string, now time.Time) {
	switch action.Department() {
	case "financial":
		m.FinancialReviewerID = &actorID
		m.FinancialReviewedAt = &now
		m.FinancialNotes = notes
	case "warehouse":
		m.WarehouseAssigneeID = &actorID
		m.WarehouseProcessedAt = &now
	case "logistics":
		m.LogisticsAssigneeID = &actorID
		m.LogisticsProcessedAt = &now
	}
	m.UpdatedAt = now
}
