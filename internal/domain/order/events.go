package order

import (
	"github.com/google/uuid"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeOrderCreated        = "order.created"
	EventTypeOrderNumberAssigned = "order.number_assigned"
	EventTypeOrderStatusChanged  = "order.status_changed"
	EventTypeOrderRepaired       = "order.status_repaired"
)

// AggregateTypeCustomerOrder is the aggregate type for order events
const AggregateTypeCustomerOrder = "CustomerOrder"

// OrderCreatedEvent is published when a customer order is created at checkout
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string        `json:"order_number,omitempty"`
	CustomerID    uuid.UUID     `json:"customer_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalAmount   string        `json:"total_amount"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *CustomerOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeCustomerOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		PaymentMethod:   o.PaymentMethod,
		TotalAmount:     o.TotalAmount.String(),
	}
}

// OrderNumberAssignedEvent is published when a bank-gateway order receives
// its number on payment confirmation
type OrderNumberAssignedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderNumberAssignedEvent creates an OrderNumberAssignedEvent
func NewOrderNumberAssignedEvent(o *CustomerOrder) *OrderNumberAssignedEvent {
	return &OrderNumberAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderNumberAssigned, AggregateTypeCustomerOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
	}
}

// OrderStatusChangedEvent is published after a sanctioned department action
// writes a new status pair
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string           `json:"order_number"`
	Action         DepartmentAction `json:"action"`
	FromManagement ManagementStatus `json:"from_management"`
	ToManagement   ManagementStatus `json:"to_management"`
	ToCustomer     CustomerStatus   `json:"to_customer"`
	ActorID        uuid.UUID        `json:"actor_id"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *CustomerOrder, action DepartmentAction, from ManagementStatus, actorID uuid.UUID) *OrderStatusChangedEvent {
	toCustomer, toManagement := action.TargetPair()
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeCustomerOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		Action:          action,
		FromManagement:  from,
		ToManagement:    toManagement,
		ToCustomer:      toCustomer,
		ActorID:         actorID,
	}
}

// OrderRepairedEvent is published when the drift monitor corrects a
// mismatched status pair
type OrderRepairedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string           `json:"order_number"`
	Management   ManagementStatus `json:"management_status"`
	FromCustomer CustomerStatus   `json:"from_customer"`
	ToCustomer   CustomerStatus   `json:"to_customer"`
}

// NewOrderRepairedEvent creates an OrderRepairedEvent
func NewOrderRepairedEvent(o *CustomerOrder, management ManagementStatus, from, to CustomerStatus) *OrderRepairedEvent {
	return &OrderRepairedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRepaired, AggregateTypeCustomerOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		Management:      management,
		FromCustomer:    from,
		ToCustomer:      to,
	}
}
