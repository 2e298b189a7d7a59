package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/domain/wallet"
)

// CreditRequest carries input for a wallet top-up or refund credit
type CreditRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Description    string          `json:"description"`
	RelatedOrderID *uuid.UUID      `json:"related_order_id,omitempty"`
}

// TransactionResponse is the ledger entry representation returned to callers
type TransactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	SignedAmount   decimal.Decimal `json:"signed_amount"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	Description    string          `json:"description"`
	RelatedOrderID *uuid.UUID      `json:"related_order_id,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// BalanceResponse reports a customer's current wallet balance
type BalanceResponse struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}

func toTransactionResponse(tx *wallet.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:             tx.ID,
		Type:           tx.Type.String(),
		Amount:         tx.Amount,
		SignedAmount:   tx.SignedAmount(),
		BalanceAfter:   tx.BalanceAfter,
		Description:    tx.Description,
		RelatedOrderID: tx.RelatedOrderID,
		Status:         string(tx.Status),
		CreatedAt:      tx.CreatedAt,
	}
}

// WalletService exposes the customer wallet ledger: balance lookup, history
// and credits. Debits are only written by the checkout flow.
type WalletService struct {
	txRepo wallet.TransactionRepository
	logger *zap.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(txRepo wallet.TransactionRepository, logger *zap.Logger) *WalletService {
	return &WalletService{txRepo: txRepo, logger: logger}
}

// Balance returns the customer's current wallet balance
func (s *WalletService) Balance(ctx context.Context, tenantID, customerID uuid.UUID) (*BalanceResponse, error) {
	balance, err := s.txRepo.Balance(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{CustomerID: customerID, Balance: balance}, nil
}

// History lists the customer's ledger entries, newest first
func (s *WalletService) History(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*TransactionResponse, int64, error) {
	entries, total, err := s.txRepo.FindByCustomer(ctx, tenantID, customerID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*TransactionResponse, 0, len(entries))
	for _, tx := range entries {
		out = append(out, toTransactionResponse(tx))
	}
	return out, total, nil
}

// Credit appends a credit entry to the customer's ledger
func (s *WalletService) Credit(ctx context.Context, tenantID, customerID uuid.UUID, req CreditRequest) (*TransactionResponse, error) {
	balance, err := s.txRepo.Balance(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	tx, err := wallet.NewTransaction(tenantID, customerID, wallet.TransactionTypeCredit, req.Amount, balance)
	if err != nil {
		return nil, err
	}
	tx.Description = req.Description
	if tx.Description == "" {
		tx.Description = "Wallet credit"
	}
	tx.RelatedOrderID = req.RelatedOrderID

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("wallet credited",
		zap.String("customer_id", customerID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("balance_after", tx.BalanceAfter.String()))
	return toTransactionResponse(tx), nil
}

// RefundOrder credits back a cancelled order's wallet payments. It sums the
// completed debits linked to the order and writes one offsetting credit.
func (s *WalletService) RefundOrder(ctx context.Context, tenantID, customerID, orderID uuid.UUID, orderNumber string) (*TransactionResponse, error) {
	debits, err := s.txRepo.FindByOrder(ctx, tenantID, customerID, orderID, orderNumber)
	if err != nil {
		return nil, err
	}

	refund := decimal.Zero
	for _, tx := range debits {
		if tx.Type == wallet.TransactionTypeDebit && tx.Status == wallet.TransactionStatusCompleted {
			refund = refund.Add(tx.Amount)
		}
	}
	if refund.IsZero() {
		return nil, shared.NewDomainError("NOTHING_TO_REFUND", "Order has no completed wallet debits")
	}

	return s.Credit(ctx, tenantID, customerID, CreditRequest{
		Amount:         refund,
		Description:    fmt.Sprintf("Refund for order %s", orderNumber),
		RelatedOrderID: &orderID,
	})
}
