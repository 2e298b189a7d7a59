package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/domain/wallet"
)

// DefaultAutoApprovalDelay is how long a wallet-paid order waits in financial
// review before the sweep may approve it automatically.
const DefaultAutoApprovalDelay = 5 * time.Minute

// PaymentInitiator opens a payment session at the external gateway for a
// bank-gateway checkout and returns the link the customer pays through.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, o *order.CustomerOrder) (string, error)
}

// CheckoutService places orders. The payment method decides the initial
// workflow status, whether an order number is issued immediately, and whether
// the wallet ledger is debited. All writes for one checkout happen in a
// single transaction.
type CheckoutService struct {
	scope             TransactionScope
	numbers           *NumberService
	clock             shared.Clock
	autoApprovalDelay time.Duration
	gracePeriodDays   int
	payments          PaymentInitiator
	reminders         GraceReminder
	logger            *zap.Logger
}

// NewCheckoutService creates a CheckoutService
func NewCheckoutService(scope TransactionScope, numbers *NumberService, clock shared.Clock, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		scope:             scope,
		numbers:           numbers,
		clock:             clock,
		autoApprovalDelay: DefaultAutoApprovalDelay,
		gracePeriodDays:   DefaultGracePeriodDays,
		logger:            logger,
	}
}

// SetAutoApprovalDelay overrides the review delay for wallet-paid orders
func (s *CheckoutService) SetAutoApprovalDelay(d time.Duration) {
	if d > 0 {
		s.autoApprovalDelay = d
	}
}

// SetPaymentInitiator enables gateway payment sessions for bank-gateway
// checkouts. Without one, bank-gateway orders are still created and wait in
// pending_payment for an out-of-band payment.
func (s *CheckoutService) SetPaymentInitiator(pi PaymentInitiator) {
	s.payments = pi
}

// SetGraceReminder enables payment reminders for grace-period orders
func (s *CheckoutService) SetGraceReminder(r GraceReminder) {
	s.reminders = r
}

// SetGracePeriodDays overrides the grace-period length
func (s *CheckoutService) SetGracePeriodDays(days int) {
	if days > 0 {
		s.gracePeriodDays = days
	}
}

// Checkout places an order for the customer.
//
// bank_gateway orders are created without an order number and wait in
// pending_payment until the gateway callback confirms. Wallet-backed orders
// are numbered immediately, debit the ledger in the same transaction, and
// enter financial review with the auto-approval timer armed. Grace-period
// orders are numbered immediately and wait for manual financial review.
func (s *CheckoutService) Checkout(ctx context.Context, tenantID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	var (
		resp   *OrderResponse
		placed *order.CustomerOrder
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orderNumber := ""
		if req.PaymentMethod != order.PaymentMethodBankGateway {
			orderNumber = s.numbers.Generate(ctx, repos.NumberRepo())
		}

		customerOrder, err := order.NewCustomerOrder(tenantID, req.CustomerID, req.TotalAmount, req.PaymentMethod, orderNumber)
		if err != nil {
			return err
		}

		initial := initialManagementStatus(req.PaymentMethod)
		management, err := order.NewManagement(customerOrder, initial, paymentSourceLabel(req.PaymentMethod))
		if err != nil {
			return err
		}
		if facing, ok := initial.CustomerFacing(); ok {
			customerOrder.Status = facing
		}

		if req.PaymentMethod.UsesWallet() {
			walletAmount := req.TotalAmount
			if req.PaymentMethod == order.PaymentMethodWalletPartial {
				walletAmount = req.WalletAmount
				if walletAmount.LessThanOrEqual(decimal.Zero) || walletAmount.GreaterThanOrEqual(req.TotalAmount) {
					return shared.NewDomainError("INVALID_AMOUNT", "Partial wallet amount must be positive and below the order total")
				}
			}

			if err := s.debitWallet(ctx, repos, customerOrder, walletAmount); err != nil {
				return err
			}
			now := s.clock.Now()
			if err := management.RecordWalletUsage(walletAmount, now); err != nil {
				return err
			}
			management.ScheduleAutoApproval(now.Add(s.autoApprovalDelay), now)

			if req.PaymentMethod == order.PaymentMethodWallet {
				customerOrder.MarkPaid()
			} else {
				customerOrder.MarkPaymentProcessing()
			}
		}

		if err := repos.OrderRepo().CreateOrder(ctx, &order.Order{Customer: customerOrder, Management: management}); err != nil {
			return err
		}

		s.logger.Info("Order placed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_id", customerOrder.ID.String()),
			zap.String("order_number", customerOrder.OrderNumber),
			zap.String("payment_method", req.PaymentMethod.String()),
			zap.String("management_status", initial.String()),
		)

		resp = ToOrderResponse(&order.Order{Customer: customerOrder, Management: management})
		placed = customerOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.PaymentMethod == order.PaymentMethodBankGateway && s.payments != nil {
		link, err := s.payments.InitiatePayment(ctx, placed)
		if err != nil {
			// the order stays in pending_payment; the customer can retry
			// payment for it, so checkout itself does not fail
			s.logger.Error("Failed to open gateway payment session",
				zap.String("order_id", placed.ID.String()),
				zap.Error(err))
		} else {
			resp.PaymentLink = link
		}
	}

	if req.PaymentMethod == order.PaymentMethodGracePeriod && s.reminders != nil {
		dueAt := s.clock.Now().AddDate(0, 0, s.gracePeriodDays)
		if err := s.reminders.ScheduleReminder(ctx, placed, dueAt); err != nil {
			s.logger.Warn("Failed to schedule grace-period reminder",
				zap.String("order_id", placed.ID.String()),
				zap.Error(err))
		}
	}
	return resp, nil
}

// debitWallet appends the order debit to the ledger after checking the
// current balance, all inside the checkout transaction.
func (s *CheckoutService) debitWallet(ctx context.Context, repos TransactionalRepositories, o *order.CustomerOrder, amount decimal.Decimal) error {
	balance, err := repos.WalletRepo().Balance(ctx, o.TenantID, o.CustomerID)
	if err != nil {
		return err
	}

	debit, err := wallet.NewOrderDebit(o.TenantID, o.CustomerID, amount, balance, o.ID, o.OrderNumber)
	if err != nil {
		return err
	}
	return repos.WalletRepo().Create(ctx, debit)
}

// GetByNumber loads an order pair for display
func (s *CheckoutService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*OrderResponse, error) {
	var resp *OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByOrderNumber(ctx, tenantID, number)
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

// ListByCustomer lists a customer's orders
func (s *CheckoutService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*OrderResponse, int64, error) {
	var (
		out   []*OrderResponse
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, n, err := repos.OrderRepo().FindByCustomer(ctx, tenantID, customerID, filter)
		if err != nil {
			return err
		}
		total = n
		out = make([]*OrderResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, ToOrderResponse(o))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func initialManagementStatus(method order.PaymentMethod) order.ManagementStatus {
	switch method {
	case order.PaymentMethodBankGateway:
		return order.ManagementStatusPendingPayment
	case order.PaymentMethodWallet, order.PaymentMethodWalletPartial:
		return order.ManagementStatusFinancialReviewing
	case order.PaymentMethodGracePeriod:
		return order.ManagementStatusPaymentGracePeriod
	}
	return order.ManagementStatusPending
}

func paymentSourceLabel(method order.PaymentMethod) string {
	switch method {
	case order.PaymentMethodBankGateway:
		return "Bank gateway"
	case order.PaymentMethodWallet:
		return "Customer wallet"
	case order.PaymentMethodWalletPartial:
		return "Customer wallet + bank"
	case order.PaymentMethodGracePeriod:
		return "Bank transfer (grace period)"
	}
	return ""
}
