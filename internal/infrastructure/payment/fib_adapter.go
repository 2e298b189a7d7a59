package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/infrastructure/config"
)

const (
	fibTokenPath         = "/auth/realms/fib-online-shop/protocol/openid-connect/token"
	fibCreatePaymentPath = "/protocol/v1/payments"
	fibPaymentStatusPath = "/protocol/v1/payments/%s/status"
	fibCancelPaymentPath = "/protocol/v1/payments/%s/cancel"

	// refresh the token a little before the gateway expires it
	tokenExpirySlack = 30 * time.Second
)

// Configuration validation errors
var (
	ErrFIBMissingBaseURL      = errors.New("fib: missing base URL")
	ErrFIBMissingClientID     = errors.New("fib: missing client ID")
	ErrFIBMissingClientSecret = errors.New("fib: missing client secret")
	ErrFIBMissingCallbackURL  = errors.New("fib: missing callback URL")
)

// ErrPaymentNotFound is returned when the gateway does not know the payment
var ErrPaymentNotFound = errors.New("fib: payment not found")

// FIBAdapter is a REST client for the FIB online-payment gateway. It
// authenticates with OAuth client credentials and caches the bearer token
// until shortly before expiry.
type FIBAdapter struct {
	cfg        config.GatewayConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewFIBAdapter validates the gateway config and builds the client
func NewFIBAdapter(cfg config.GatewayConfig, logger *zap.Logger) (*FIBAdapter, error) {
	if err := validateGatewayConfig(cfg); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FIBAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func validateGatewayConfig(cfg config.GatewayConfig) error {
	if cfg.BaseURL == "" {
		return ErrFIBMissingBaseURL
	}
	if cfg.ClientID == "" {
		return ErrFIBMissingClientID
	}
	if cfg.ClientSecret == "" {
		return ErrFIBMissingClientSecret
	}
	if cfg.CallbackURL == "" {
		return ErrFIBMissingCallbackURL
	}
	return nil
}

// CreatePayment opens a payment session at the gateway for the given order
func (a *FIBAdapter) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentSession, error) {
	currency := req.Currency
	if currency == "" {
		currency = "IQD"
	}
	callbackURL := req.CallbackURL
	if callbackURL == "" {
		callbackURL = a.cfg.CallbackURL
	}
	body := createPaymentBody{
		MonetaryValue: monetaryValue{
			Amount:   req.Amount.StringFixed(2),
			Currency: currency,
		},
		StatusCallbackURL: callbackURL,
		Description:       req.Description,
		ExternalID:        req.OrderID,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("fib: failed to marshal payment request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, fibCreatePaymentPath, payload)
	if err != nil {
		return nil, err
	}

	var session PaymentSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("fib: failed to parse payment response: %w", err)
	}
	a.logger.Info("FIB payment session created",
		zap.String("payment_id", session.PaymentID),
		zap.String("order_id", req.OrderID))
	return &session, nil
}

// QueryStatus asks the gateway for the current state of a payment
func (a *FIBAdapter) QueryStatus(ctx context.Context, paymentID string) (*PaymentStatus, error) {
	path := fmt.Sprintf(fibPaymentStatusPath, url.PathEscape(paymentID))
	respBody, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var status PaymentStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("fib: failed to parse status response: %w", err)
	}
	if status.PaymentID == "" {
		status.PaymentID = paymentID
	}
	return &status, nil
}

// CancelPayment voids an unpaid session at the gateway
func (a *FIBAdapter) CancelPayment(ctx context.Context, paymentID string) error {
	path := fmt.Sprintf(fibCancelPaymentPath, url.PathEscape(paymentID))
	_, err := a.doRequest(ctx, http.MethodPost, path, nil)
	return err
}

// doRequest performs one authenticated call, refreshing the token when
// needed and retrying exactly once on a 401 in case the cached token was
// revoked server-side.
func (a *FIBAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	respBody, status, err := a.attempt(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		a.invalidateToken()
		respBody, status, err = a.attempt(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
	}
	switch {
	case status >= 200 && status < 300:
		return respBody, nil
	case status == http.StatusNotFound:
		return nil, ErrPaymentNotFound
	default:
		return nil, decodeGatewayError(status, respBody)
	}
}

func (a *FIBAdapter) attempt(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("fib: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fib: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("fib: failed to read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

// token returns a cached bearer token, fetching a fresh one when the cached
// token is absent or about to expire.
func (a *FIBAdapter) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.cfg.ClientID)
	form.Set("client_secret", a.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+fibTokenPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("fib: failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fib: token request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fib: failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fib: token endpoint returned %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return "", fmt.Errorf("fib: failed to parse token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("fib: token response missing access_token")
	}

	a.accessToken = tok.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySlack)
	return a.accessToken, nil
}

func (a *FIBAdapter) invalidateToken() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accessToken = ""
	a.tokenExpiry = time.Time{}
}

func decodeGatewayError(status int, body []byte) error {
	var parsed gatewayErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		return fmt.Errorf("fib: gateway returned %d: %s (%s)",
			status, parsed.Errors[0].Message, parsed.Errors[0].Code)
	}
	return fmt.Errorf("fib: gateway returned %d", status)
}
