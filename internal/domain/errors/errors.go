package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrBadRequest           = errors.New("bad request")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrStateMismatch        = errors.New("oauth state mismatch")
	ErrMerchantNotConnected = errors.New("merchant not connected")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrDecryptFailed        = errors.New("token decryption failed")
)

// Error codes rendered in JSON responses
const (
	CodeNotFound        = "ERR_NOT_FOUND"
	CodeInvalidInput    = "ERR_INVALID_INPUT"
	CodeBadRequest      = "ERR_BAD_REQUEST"
	CodeUnauthorized    = "ERR_UNAUTHORIZED"
	CodeNotConnected    = "ERR_MERCHANT_NOT_CONNECTED"
	CodeGatewayError    = "ERR_GATEWAY"
	CodeInternalError   = "ERR_INTERNAL"
	CodeIdempotencyBusy = "ERR_IDEMPOTENCY_CONFLICT"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func NotConnected(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeNotConnected, message, ErrMerchantNotConnected)
}

func GatewayError(err error) *AppError {
	return NewAppError(http.StatusBadGateway, CodeGatewayError, "payment gateway error", err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// FromError maps sentinel errors to their AppError form
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, "merchant not found", err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, err.Error(), err)
	case errors.Is(err, ErrMerchantNotConnected):
		return NewAppError(http.StatusConflict, CodeNotConnected, "merchant has not connected a gateway account", err)
	case errors.Is(err, ErrGatewayUnavailable):
		return GatewayError(err)
	default:
		return InternalError(err)
	}
}
