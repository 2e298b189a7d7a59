package wallet

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// TransactionType represents the direction of a wallet ledger entry
type TransactionType string

const (
	// TransactionTypeDebit decreases the wallet balance (order payment)
	TransactionTypeDebit TransactionType = "debit"
	// TransactionTypeCredit increases the wallet balance (top-up, refund)
	TransactionTypeCredit TransactionType = "credit"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDebit || t == TransactionTypeCredit
}

// TransactionStatus represents the settlement state of a ledger entry
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusReversed  TransactionStatus = "reversed"
)

// Transaction is an immutable wallet ledger entry. Corrections are made with
// new entries, never by editing existing ones. RelatedOrderID is the explicit
// order link; Description still embeds the order number for operators and for
// rows written before the column existed.
type Transaction struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	CustomerID     uuid.UUID
	Type           TransactionType
	Amount         decimal.Decimal // always positive, direction from Type
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	Description    string
	RelatedOrderID *uuid.UUID
	Status         TransactionStatus
}

// NewTransaction creates a wallet ledger entry
func NewTransaction(tenantID, customerID uuid.UUID, txType TransactionType, amount, balanceBefore decimal.Decimal) (*Transaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid wallet transaction type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if balanceBefore.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance before cannot be negative")
	}

	var balanceAfter decimal.Decimal
	switch txType {
	case TransactionTypeDebit:
		if balanceBefore.LessThan(amount) {
			return nil, shared.ErrInsufficientBalance
		}
		balanceAfter = balanceBefore.Sub(amount)
	case TransactionTypeCredit:
		balanceAfter = balanceBefore.Add(amount)
	}

	return &Transaction{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		CustomerID:    customerID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Status:        TransactionStatusCompleted,
	}, nil
}

// NewOrderDebit creates a debit entry covering (part of) an order payment.
func NewOrderDebit(tenantID, customerID uuid.UUID, amount, balanceBefore decimal.Decimal, orderID uuid.UUID, orderNumber string) (*Transaction, error) {
	tx, err := NewTransaction(tenantID, customerID, TransactionTypeDebit, amount, balanceBefore)
	if err != nil {
		return nil, err
	}
	tx.RelatedOrderID = &orderID
	tx.Description = fmt.Sprintf("Payment for order %s", orderNumber)
	return tx, nil
}

// SignedAmount returns the amount with sign: negative for debits.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ReferencesOrder reports whether the entry is tied to the given order,
// preferring the explicit column and falling back to the embedded number.
func (t *Transaction) ReferencesOrder(orderID uuid.UUID, orderNumber string) bool {
	if t.RelatedOrderID != nil {
		return *t.RelatedOrderID == orderID
	}
	return orderNumber != "" && strings.Contains(t.Description, orderNumber)
}

// Age returns how long ago the entry was written.
func (t *Transaction) Age() time.Duration {
	return time.Since(t.CreatedAt)
}
