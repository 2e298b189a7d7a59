package dto

import "net/http"

// Error codes shared between the HTTP layer and domain errors. Domain
// services return shared.DomainError values carrying these codes; the
// handlers translate them to HTTP statuses through GetHTTPStatus.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeRateLimited  = "RATE_LIMITED"

	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeStatusMismatch      = "STATUS_MISMATCH"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeSyncDisabled        = "SYNC_DISABLED"
	ErrCodeDuplicateCallback   = "DUPLICATE_CALLBACK"
	ErrCodeConversationClosed  = "CONVERSATION_CLOSED"
	ErrCodeInvalidAction       = "INVALID_ACTION"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeInvalidPayment      = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeAccountLocked       = "ACCOUNT_LOCKED"
	ErrCodeAccountInactive     = "ACCOUNT_INACTIVE"
	ErrCodeTokenExpired        = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid        = "TOKEN_INVALID"
	ErrCodeTokenMaxRefresh     = "TOKEN_MAX_REFRESH"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance: http.StatusUnprocessableEntity,
	ErrCodeStatusMismatch:      http.StatusConflict,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeSyncDisabled:        http.StatusUnprocessableEntity,
	ErrCodeDuplicateCallback:   http.StatusConflict,
	ErrCodeConversationClosed:  http.StatusUnprocessableEntity,
	ErrCodeInvalidAction:       http.StatusBadRequest,
	ErrCodeInvalidTransition:   http.StatusUnprocessableEntity,
	ErrCodeInvalidPayment:      http.StatusBadRequest,
	ErrCodeInvalidCredentials:  http.StatusUnauthorized,
	ErrCodeAccountLocked:       http.StatusForbidden,
	ErrCodeAccountInactive:     http.StatusForbidden,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeTokenInvalid:        http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:     http.StatusUnauthorized,
	ErrCodeUserNotFound:        http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for codes the map does not know
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
