package payment

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	apporder "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/infrastructure/config"
)

// CheckoutInitiator adapts the FIB gateway client to the checkout flow.
// The callback URL it registers carries the tenant in the query string so
// the unauthenticated callback endpoint can route the notification.
type CheckoutInitiator struct {
	gateway     *FIBAdapter
	callbackURL string
	logger      *zap.Logger
}

var _ apporder.PaymentInitiator = (*CheckoutInitiator)(nil)

// NewCheckoutInitiator creates a CheckoutInitiator
func NewCheckoutInitiator(gateway *FIBAdapter, cfg config.GatewayConfig, logger *zap.Logger) *CheckoutInitiator {
	return &CheckoutInitiator{
		gateway:     gateway,
		callbackURL: cfg.CallbackURL,
		logger:      logger,
	}
}

// InitiatePayment opens a gateway session for the order and returns the
// personal app link the customer pays through.
func (i *CheckoutInitiator) InitiatePayment(ctx context.Context, o *order.CustomerOrder) (string, error) {
	session, err := i.gateway.CreatePayment(ctx, CreatePaymentRequest{
		OrderID:     o.ID.String(),
		Amount:      o.TotalAmount,
		Description: fmt.Sprintf("Momtaz order %s", o.ID),
		CallbackURL: i.tenantCallbackURL(o.TenantID.String()),
	})
	if err != nil {
		return "", err
	}
	i.logger.Info("Gateway payment session opened",
		zap.String("order_id", o.ID.String()),
		zap.String("payment_id", session.PaymentID))
	return session.PersonalAppLink, nil
}

func (i *CheckoutInitiator) tenantCallbackURL(tenantID string) string {
	u, err := url.Parse(i.callbackURL)
	if err != nil {
		return i.callbackURL
	}
	q := u.Query()
	q.Set("tenant_id", tenantID)
	u.RawQuery = q.Encode()
	return u.String()
}
