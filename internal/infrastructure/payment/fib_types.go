package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// FIB payment lifecycle statuses as reported by the gateway
const (
	FIBStatusUnpaid   = "UNPAID"
	FIBStatusPaid     = "PAID"
	FIBStatusDeclined = "DECLINED"
	FIBStatusRefunded = "REFUNDED"
)

// CreatePaymentRequest is the order-side input for starting a gateway payment
type CreatePaymentRequest struct {
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Description string
	// CallbackURL overrides the configured status callback, used to carry
	// tenant routing in the query string. Empty means use the configured one.
	CallbackURL string
}

// PaymentSession is the gateway's handle for an in-flight payment. The
// customer is redirected to one of the app links or shown the QR code.
type PaymentSession struct {
	PaymentID        string    `json:"paymentId"`
	ReadableCode     string    `json:"readableCode"`
	QRCodeDataURL    string    `json:"qrCode"`
	PersonalAppLink  string    `json:"personalAppLink"`
	BusinessAppLink  string    `json:"businessAppLink"`
	CorporateAppLink string    `json:"corporateAppLink"`
	ValidUntil       time.Time `json:"validUntil"`
}

// PaymentStatus is the result of a status query
type PaymentStatus struct {
	PaymentID string          `json:"paymentId"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    *time.Time      `json:"paidAt"`
}

// Paid reports whether the gateway has confirmed the money
func (s *PaymentStatus) Paid() bool {
	return s.Status == FIBStatusPaid
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type createPaymentBody struct {
	MonetaryValue     monetaryValue `json:"monetaryValue"`
	StatusCallbackURL string        `json:"statusCallbackUrl"`
	Description       string        `json:"description"`
	ExternalID        string        `json:"extraData"`
}

type monetaryValue struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type gatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type gatewayErrorResponse struct {
	Errors []gatewayError `json:"errors"`
}
