package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// callbackClaimTTL is how long a processed callback's idempotency claim is
// retained. Gateways retry callbacks for at most a few hours.
const callbackClaimTTL = 24 * time.Hour

// IdempotencyStore claims callback identifiers so a retried gateway callback
// is processed at most once. Claim returns false when the key was already
// claimed.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// PaymentCallback is the gateway's payment-result notification
type PaymentCallback struct {
	OrderID              uuid.UUID       `json:"order_id" binding:"required"`
	GatewayTransactionID string          `json:"gateway_transaction_id" binding:"required"`
	Succeeded            bool            `json:"succeeded"`
	Amount               decimal.Decimal `json:"amount"`
}

// PaymentCallbackService applies gateway payment results to orders. A
// confirmed bank-gateway payment assigns the order number and moves the
// order straight to the warehouse queue in one transaction; bank-paid orders
// skip financial review as a business rule. The bank leg of a partial-wallet
// order is recorded and left for the auto-approval sweep.
type PaymentCallbackService struct {
	scope       TransactionScope
	numbers     *NumberService
	idempotency IdempotencyStore
	clock       shared.Clock
	logger      *zap.Logger
}

// NewPaymentCallbackService creates a PaymentCallbackService
func NewPaymentCallbackService(scope TransactionScope, numbers *NumberService, idempotency IdempotencyStore, clock shared.Clock, logger *zap.Logger) *PaymentCallbackService {
	return &PaymentCallbackService{
		scope:       scope,
		numbers:     numbers,
		idempotency: idempotency,
		clock:       clock,
		logger:      logger,
	}
}

// Handle processes one gateway callback. Replays of the same gateway
// transaction are acknowledged without effect.
func (s *PaymentCallbackService) Handle(ctx context.Context, tenantID uuid.UUID, cb PaymentCallback) (*OrderResponse, error) {
	key := fmt.Sprintf("payment:callback:%s", cb.GatewayTransactionID)
	claimed, err := s.idempotency.Claim(ctx, key, callbackClaimTTL)
	if err != nil {
		return nil, err
	}
	if !claimed {
		s.logger.Info("Duplicate payment callback ignored",
			zap.String("gateway_transaction_id", cb.GatewayTransactionID),
			zap.String("order_id", cb.OrderID.String()),
		)
		return nil, shared.NewDomainError("DUPLICATE_CALLBACK", "Callback already processed")
	}

	var resp *OrderResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, tenantID, cb.OrderID)
		if err != nil {
			return err
		}

		if !cb.Succeeded {
			return s.applyDeclined(ctx, repos, o)
		}
		return s.applyConfirmed(ctx, repos, o, cb.Amount)
	})
	if err != nil {
		// the claim must not eat a future legitimate retry
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Warn("Failed to release callback claim",
				zap.String("key", key),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, tenantID, cb.OrderID)
		if err != nil {
			return err
		}
		resp = ToOrderResponse(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *PaymentCallbackService) applyConfirmed(ctx context.Context, repos TransactionalRepositories, o *order.Order, amount decimal.Decimal) error {
	now := s.clock.Now()

	switch o.Customer.PaymentMethod {
	case order.PaymentMethodBankGateway:
		if o.Management.CurrentStatus != order.ManagementStatusPendingPayment {
			return shared.NewDomainError("INVALID_STATE", "Order is not awaiting gateway payment")
		}

		// number reservation and status write share the callback transaction
		number := s.numbers.Generate(ctx, repos.NumberRepo())
		if err := o.Customer.AssignNumber(number); err != nil {
			return err
		}
		o.Customer.MarkPaid()
		o.Customer.Status = order.CustomerStatusConfirmed
		o.Customer.UpdatedAt = now
		o.Management.CurrentStatus = order.ManagementStatusWarehousePending
		if err := o.Management.RecordBankPayment(amount, now); err != nil {
			return err
		}
		o.Customer.AddDomainEvent(order.NewOrderNumberAssignedEvent(o.Customer))

	case order.PaymentMethodWalletPartial:
		o.Customer.MarkPaid()
		if err := o.Management.RecordBankPayment(amount, now); err != nil {
			return err
		}

	default:
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Order does not expect a gateway callback")
	}

	if err := repos.OrderRepo().SaveOrder(ctx, o); err != nil {
		return err
	}

	s.logger.Info("Payment confirmed",
		zap.String("order_id", o.Customer.ID.String()),
		zap.String("order_number", o.Customer.OrderNumber),
		zap.String("payment_method", o.Customer.PaymentMethod.String()),
		zap.String("amount", amount.String()),
	)
	return nil
}

func (s *PaymentCallbackService) applyDeclined(ctx context.Context, repos TransactionalRepositories, o *order.Order) error {
	if o.Customer.IsTerminal() {
		return nil
	}
	o.Customer.Status = order.CustomerStatusCancelled
	o.Customer.UpdatedAt = s.clock.Now()
	o.Management.CurrentStatus = order.ManagementStatusFinancialRejected
	if err := repos.OrderRepo().SaveOrder(ctx, o); err != nil {
		return err
	}

	s.logger.Info("Payment declined, order cancelled",
		zap.String("order_id", o.Customer.ID.String()),
		zap.String("payment_method", o.Customer.PaymentMethod.String()),
	)
	return nil
}
