package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/wallet"
)

// WalletTransactionModel is the persistence model for the append-only wallet
// ledger. Rows are never updated after insert.
type WalletTransactionModel struct {
	BaseModel
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_wallet_tx_tenant_customer,priority:1"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_wallet_tx_tenant_customer,priority:2"`
	Type           string          `gorm:"type:varchar(10);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description    string          `gorm:"type:text"`
	RelatedOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	Status         string          `gorm:"type:varchar(20);not null;default:'completed'"`
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *WalletTransactionModel) ToDomain() *wallet.Transaction {
	return &wallet.Transaction{
		BaseEntity:     m.BaseModel.ToDomain(),
		TenantID:       m.TenantID,
		CustomerID:     m.CustomerID,
		Type:           wallet.TransactionType(m.Type),
		Amount:         m.Amount,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		Description:    m.Description,
		RelatedOrderID: m.RelatedOrderID,
		Status:         wallet.TransactionStatus(m.Status),
	}
}

// WalletTransactionModelFromDomain creates a persistence model from a domain Transaction
func WalletTransactionModelFromDomain(tx *wallet.Transaction) *WalletTransactionModel {
	m := &WalletTransactionModel{}
	m.FromDomainBaseEntity(tx.BaseEntity)
	m.TenantID = tx.TenantID
	m.CustomerID = tx.CustomerID
	m.Type = string(tx.Type)
	m.Amount = tx.Amount
	m.BalanceBefore = tx.BalanceBefore
	m.BalanceAfter = tx.BalanceAfter
	m.Description = tx.Description
	m.RelatedOrderID = tx.RelatedOrderID
	m.Status = string(tx.Status)
	return m
}
