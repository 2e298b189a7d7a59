package crm

import (
	"context"

	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// OrderDeliveredHandler listens for status changes and records a CRM
// activity when an order reaches delivered. Customers without a CRM
// contact are skipped.
type OrderDeliveredHandler struct {
	orderRepo order.Repository
	contacts  *ContactService
	logger    *zap.Logger
}

// NewOrderDeliveredHandler creates the handler
func NewOrderDeliveredHandler(orderRepo order.Repository, contacts *ContactService, logger *zap.Logger) *OrderDeliveredHandler {
	return &OrderDeliveredHandler{
		orderRepo: orderRepo,
		contacts:  contacts,
		logger:    logger,
	}
}

// EventTypes implements shared.EventHandler
func (h *OrderDeliveredHandler) EventTypes() []string {
	return []string{order.EventTypeOrderStatusChanged}
}

// Handle implements shared.EventHandler
func (h *OrderDeliveredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*order.OrderStatusChangedEvent)
	if !ok || changed.ToCustomer != order.CustomerStatusDelivered {
		return nil
	}

	o, err := h.orderRepo.FindByID(ctx, changed.TenantID(), changed.AggregateID())
	if err != nil {
		return err
	}

	if err := h.contacts.RecordOrderActivity(ctx, o.Customer.TenantID, o.Customer.CustomerID, o.Customer.TotalAmount, changed.OccurredAt()); err != nil {
		return err
	}
	h.logger.Debug("recorded delivered-order activity",
		zap.String("order_number", changed.OrderNumber),
		zap.String("customer_id", o.Customer.CustomerID.String()),
	)
	return nil
}

var _ shared.EventHandler = (*OrderDeliveredHandler)(nil)
