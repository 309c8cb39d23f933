package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrPreconditionFailed indicates a well-formed request that the current ledger state does not allow.
var ErrPreconditionFailed = errors.New("precondition failed")

// ErrStorageUnavailable indicates the backing store could not serve the request.
// It must never be used for a business-rule rejection.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// Specific ledger errors. Each wraps one of the categories above so handlers can
// switch on the category while callers can still match the exact reason.
var (
	ErrInvalidAmount       = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidAddress      = fmt.Errorf("%w: invalid payout address", ErrValidation)
	ErrInvalidEvent        = fmt.Errorf("%w: unknown earning event", ErrValidation)
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", ErrPreconditionFailed)
	ErrTaskNotEligible     = fmt.Errorf("%w: task not eligible", ErrPreconditionFailed)
	ErrAlreadyClaimedToday = fmt.Errorf("%w: daily bonus already claimed today", ErrPreconditionFailed)
	ErrAlreadyResolved     = fmt.Errorf("%w: withdrawal already resolved", ErrPreconditionFailed)
	ErrAdSessionInvalid    = fmt.Errorf("%w: ad session invalid, expired or already used", ErrPreconditionFailed)
	ErrIdempotencyConflict = fmt.Errorf("%w: idempotency key reused with a different request", ErrPreconditionFailed)
	ErrAccountSuspended    = fmt.Errorf("%w: account suspended", ErrForbidden)
)

// Reason returns a stable machine-readable code for the most specific known error in err's chain.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrInvalidAddress):
		return "INVALID_ADDRESS"
	case errors.Is(err, ErrInvalidEvent):
		return "INVALID_EVENT"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrTaskNotEligible):
		return "TASK_NOT_ELIGIBLE"
	case errors.Is(err, ErrAlreadyClaimedToday):
		return "ALREADY_CLAIMED_TODAY"
	case errors.Is(err, ErrAlreadyResolved):
		return "ALREADY_RESOLVED"
	case errors.Is(err, ErrAdSessionInvalid):
		return "AD_SESSION_INVALID"
	case errors.Is(err, ErrIdempotencyConflict):
		return "IDEMPOTENCY_CONFLICT"
	case errors.Is(err, ErrAccountSuspended):
		return "ACCOUNT_SUSPENDED"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrPreconditionFailed):
		return "PRECONDITION_FAILED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrStorageUnavailable):
		return "STORAGE_UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

// AppError carries an HTTP-oriented status code alongside a message and an optional cause.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewBadRequestError creates a 400 AppError wrapping ErrValidation.
func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewUnauthorizedError creates a 401 AppError wrapping ErrUnauthorized.
func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

// NewInternalServerError creates a 500 AppError.
func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}

// NewGatewayTimeoutError creates a 504 AppError for failed upstream calls.
func NewGatewayTimeoutError(message string) *AppError {
	return NewAppError(http.StatusGatewayTimeout, message, nil)
}
