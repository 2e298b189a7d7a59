package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/wallet"
)

func newCheckoutService(repos *testRepos, clock *fakeClock) *CheckoutService {
	logger := zap.NewNop()
	return NewCheckoutService(repos.scope, NewNumberService(clock, logger), clock, logger)
}

func TestCheckoutService_WalletOrder(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)

	tenantID, customerID := uuid.New(), uuid.New()
	total := decimal.NewFromInt(100000)

	repos.numbers.On("Reserve", mock.Anything, 2025).Return(11111, nil)
	repos.wallets.On("Balance", mock.Anything, tenantID, customerID).Return(total, nil)

	var debit *wallet.Transaction
	repos.wallets.On("Create", mock.Anything, mock.AnythingOfType("*wallet.Transaction")).
		Run(func(args mock.Arguments) { debit = args.Get(1).(*wallet.Transaction) }).
		Return(nil)

	var created *order.Order
	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*order.Order) }).
		Return(nil)

	resp, err := svc.Checkout(context.Background(), tenantID, CheckoutRequest{
		CustomerID:    customerID,
		TotalAmount:   total,
		PaymentMethod: order.PaymentMethodWallet,
	})
	require.NoError(t, err)

	assert.Equal(t, "MOM2511111", resp.OrderNumber)
	assert.Equal(t, order.ManagementStatusFinancialReviewing, resp.ManagementStatus)
	assert.Equal(t, order.CustomerStatusPaymentUploaded, resp.Status)
	assert.Equal(t, order.PaymentStatusPaid, resp.PaymentStatus)
	assert.True(t, resp.WalletAmountUsed.Equal(total))

	require.NotNil(t, debit)
	assert.Equal(t, wallet.TransactionTypeDebit, debit.Type)
	assert.True(t, debit.Amount.Equal(total))
	require.NotNil(t, debit.RelatedOrderID)
	assert.Equal(t, created.Customer.ID, *debit.RelatedOrderID)

	require.NotNil(t, created.Management.AutoApprovalScheduledAt)
	assert.Equal(t, clock.Now().Add(5*time.Minute), *created.Management.AutoApprovalScheduledAt)
	assert.True(t, created.Management.IsAutoApprovalEnabled)
	assert.Nil(t, created.Management.AutoApprovalExecutedAt)
	assert.True(t, created.IsSynced())
}

func TestCheckoutService_BankGatewayOrder(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)

	var created *order.Order
	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*order.Order) }).
		Return(nil)

	resp, err := svc.Checkout(context.Background(), uuid.New(), CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   decimal.NewFromInt(75000),
		PaymentMethod: order.PaymentMethodBankGateway,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.OrderNumber, "gateway orders are numbered on payment confirmation")
	assert.Equal(t, order.ManagementStatusPendingPayment, resp.ManagementStatus)
	assert.Equal(t, order.CustomerStatusPending, resp.Status)
	assert.Equal(t, order.PaymentStatusPending, resp.PaymentStatus)
	assert.Nil(t, created.Management.AutoApprovalScheduledAt)
	assert.True(t, created.IsSynced())

	repos.numbers.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	repos.wallets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutService_GracePeriodOrder(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)

	repos.numbers.On("Reserve", mock.Anything, 2025).Return(11112, nil)

	var created *order.Order
	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*order.Order) }).
		Return(nil)

	resp, err := svc.Checkout(context.Background(), uuid.New(), CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   decimal.NewFromInt(50000),
		PaymentMethod: order.PaymentMethodGracePeriod,
	})
	require.NoError(t, err)

	assert.Equal(t, "MOM2511112", resp.OrderNumber)
	assert.Equal(t, order.ManagementStatusPaymentGracePeriod, resp.ManagementStatus)
	assert.Equal(t, order.CustomerStatusPaymentUploaded, resp.Status)
	assert.Nil(t, created.Management.AutoApprovalScheduledAt, "grace-period orders are approved manually")
	repos.wallets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutService_PartialWallet(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)

	tenantID, customerID := uuid.New(), uuid.New()
	total := decimal.NewFromInt(100000)
	walletPart := decimal.NewFromInt(60000)

	repos.numbers.On("Reserve", mock.Anything, 2025).Return(11113, nil)
	repos.wallets.On("Balance", mock.Anything, tenantID, customerID).Return(walletPart, nil)

	var debit *wallet.Transaction
	repos.wallets.On("Create", mock.Anything, mock.AnythingOfType("*wallet.Transaction")).
		Run(func(args mock.Arguments) { debit = args.Get(1).(*wallet.Transaction) }).
		Return(nil)
	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	resp, err := svc.Checkout(context.Background(), tenantID, CheckoutRequest{
		CustomerID:    customerID,
		TotalAmount:   total,
		PaymentMethod: order.PaymentMethodWalletPartial,
		WalletAmount:  walletPart,
	})
	require.NoError(t, err)

	assert.True(t, resp.WalletAmountUsed.Equal(walletPart))
	assert.Equal(t, order.PaymentStatusProcessing, resp.PaymentStatus, "bank leg still outstanding")
	assert.True(t, debit.Amount.Equal(walletPart))
}

func TestCheckoutService_PartialWalletAmountBounds(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)

	repos.numbers.On("Reserve", mock.Anything, 2025).Return(11114, nil)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(100000), decimal.NewFromInt(150000)} {
		_, err := svc.Checkout(context.Background(), uuid.New(), CheckoutRequest{
			CustomerID:    uuid.New(),
			TotalAmount:   decimal.NewFromInt(100000),
			PaymentMethod: order.PaymentMethodWalletPartial,
			WalletAmount:  amount,
		})
		assert.Error(t, err)
	}
	repos.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckoutService_InsufficientWalletBalance(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)

	tenantID, customerID := uuid.New(), uuid.New()
	repos.numbers.On("Reserve", mock.Anything, 2025).Return(11115, nil)
	repos.wallets.On("Balance", mock.Anything, tenantID, customerID).Return(decimal.NewFromInt(10), nil)

	_, err := svc.Checkout(context.Background(), tenantID, CheckoutRequest{
		CustomerID:    customerID,
		TotalAmount:   decimal.NewFromInt(100000),
		PaymentMethod: order.PaymentMethodWallet,
	})
	assert.Error(t, err)
	repos.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckoutService_NumberFallbackOnReserveFailure(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)

	repos.numbers.On("Reserve", mock.Anything, 2025).Return(0, errors.New("sequence row locked"))
	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	resp, err := svc.Checkout(context.Background(), uuid.New(), CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   decimal.NewFromInt(50000),
		PaymentMethod: order.PaymentMethodGracePeriod,
	})
	require.NoError(t, err, "checkout must not fail on counter trouble")
	assert.True(t, strings.HasPrefix(resp.OrderNumber, "MOM25"))
}

type fakePaymentInitiator struct {
	link string
	err  error
	seen *order.CustomerOrder
}

func (f *fakePaymentInitiator) InitiatePayment(_ context.Context, o *order.CustomerOrder) (string, error) {
	f.seen = o
	return f.link, f.err
}

func TestCheckoutService_BankGatewayPaymentLink(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)
	initiator := &fakePaymentInitiator{link: "https://fib.example.com/pay/abc123"}
	svc.SetPaymentInitiator(initiator)

	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	resp, err := svc.Checkout(context.Background(), uuid.New(), CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   decimal.NewFromInt(75000),
		PaymentMethod: order.PaymentMethodBankGateway,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://fib.example.com/pay/abc123", resp.PaymentLink)
	require.NotNil(t, initiator.seen)
	assert.Equal(t, resp.ID, initiator.seen.ID)
}

func TestCheckoutService_GatewayFailureKeepsOrder(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)
	svc.SetPaymentInitiator(&fakePaymentInitiator{err: errors.New("gateway unreachable")})

	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	resp, err := svc.Checkout(context.Background(), uuid.New(), CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   decimal.NewFromInt(75000),
		PaymentMethod: order.PaymentMethodBankGateway,
	})
	require.NoError(t, err, "a gateway outage must not lose the order")
	assert.Empty(t, resp.PaymentLink)
	assert.Equal(t, order.ManagementStatusPendingPayment, resp.ManagementStatus)
}

func TestCheckoutService_WalletOrderSkipsGateway(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)
	initiator := &fakePaymentInitiator{link: "https://fib.example.com/pay/abc123"}
	svc.SetPaymentInitiator(initiator)

	tenantID, customerID := uuid.New(), uuid.New()
	total := decimal.NewFromInt(20000)
	repos.numbers.On("Reserve", mock.Anything, 2025).Return(11200, nil)
	repos.wallets.On("Balance", mock.Anything, tenantID, customerID).Return(total, nil)
	repos.wallets.On("Create", mock.Anything, mock.AnythingOfType("*wallet.Transaction")).Return(nil)
	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	resp, err := svc.Checkout(context.Background(), tenantID, CheckoutRequest{
		CustomerID:    customerID,
		TotalAmount:   total,
		PaymentMethod: order.PaymentMethodWallet,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.PaymentLink)
	assert.Nil(t, initiator.seen)
}

type fakeGraceReminder struct {
	seen  *order.CustomerOrder
	dueAt time.Time
}

func (f *fakeGraceReminder) ScheduleReminder(_ context.Context, o *order.CustomerOrder, dueAt time.Time) error {
	f.seen = o
	f.dueAt = dueAt
	return nil
}

func TestCheckoutService_GracePeriodSchedulesReminder(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)
	reminder := &fakeGraceReminder{}
	svc.SetGraceReminder(reminder)
	svc.SetGracePeriodDays(5)

	repos.numbers.On("Reserve", mock.Anything, 2025).Return(11300, nil)
	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	resp, err := svc.Checkout(context.Background(), uuid.New(), CheckoutRequest{
		CustomerID:    uuid.New(),
		TotalAmount:   decimal.NewFromInt(50000),
		PaymentMethod: order.PaymentMethodGracePeriod,
	})
	require.NoError(t, err)
	require.NotNil(t, reminder.seen)
	assert.Equal(t, resp.ID, reminder.seen.ID)
	assert.Equal(t, clock.now.AddDate(0, 0, 5), reminder.dueAt)
}

func TestCheckoutService_WalletOrderSkipsReminder(t *testing.T) {
	repos := newTestRepos()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := newCheckoutService(repos, clock)
	reminder := &fakeGraceReminder{}
	svc.SetGraceReminder(reminder)

	tenantID, customerID := uuid.New(), uuid.New()
	total := decimal.NewFromInt(30000)
	repos.numbers.On("Reserve", mock.Anything, 2025).Return(11400, nil)
	repos.wallets.On("Balance", mock.Anything, tenantID, customerID).Return(total, nil)
	repos.wallets.On("Create", mock.Anything, mock.AnythingOfType("*wallet.Transaction")).Return(nil)
	repos.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	_, err := svc.Checkout(context.Background(), tenantID, CheckoutRequest{
		CustomerID:    customerID,
		TotalAmount:   total,
		PaymentMethod: order.PaymentMethodWallet,
	})
	require.NoError(t, err)
	assert.Nil(t, reminder.seen)
}
