package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// CustomerOrder is the customer-visible order projection. Its Status is
// driven exclusively by department actions through the synchronization
// service, never written ad hoc.
type CustomerOrder struct {
	shared.TenantAggregateRoot
	OrderNumber   string // empty for bank-gateway orders until payment confirms
	CustomerID    uuid.UUID
	TotalAmount   decimal.Decimal // IQD
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Status        CustomerStatus
}

// NewCustomerOrder creates a new customer order at checkout.
// Bank-gateway orders are created without an order number; the number is
// assigned atomically when the payment callback confirms.
func NewCustomerOrder(tenantID, customerID uuid.UUID, total decimal.Decimal, method PaymentMethod, orderNumber string) (*CustomerOrder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if method == PaymentMethodBankGateway && orderNumber != "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Bank gateway orders receive their number on payment confirmation")
	}
	if method != PaymentMethodBankGateway && orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number is required for this payment method")
	}

	o := &CustomerOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		TotalAmount:         total,
		PaymentMethod:       method,
		PaymentStatus:       PaymentStatusPending,
		Status:              CustomerStatusPending,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AssignNumber sets the order number once payment is confirmed. It may only
// happen once, and only for orders created without a number.
func (o *CustomerOrder) AssignNumber(number string) error {
	if o.OrderNumber != "" {
		return shared.NewDomainError("NUMBER_ALREADY_ASSIGNED", "Order already has a number")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	o.OrderNumber = number
	o.AddDomainEvent(NewOrderNumberAssignedEvent(o))
	return nil
}

// MarkPaymentProcessing marks the payment as in-flight at the gateway.
func (o *CustomerOrder) MarkPaymentProcessing() {
	o.PaymentStatus = PaymentStatusProcessing
}

// MarkPaid marks the payment as settled.
func (o *CustomerOrder) MarkPaid() {
	o.PaymentStatus = PaymentStatusPaid
}

// IsTerminal returns true if the order reached a terminal customer status
func (o *CustomerOrder) IsTerminal() bool {
	return o.Status == CustomerStatusDelivered || o.Status == CustomerStatusCancelled
}
