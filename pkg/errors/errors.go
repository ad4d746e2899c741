package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
	ErrConflict        = errors.New("conflict")
	ErrLoadFailed      = errors.New("catalog load failed")
	ErrItemUnavailable = errors.New("item unavailable")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCheckoutFailed  = errors.New("checkout failed")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidArgument creates a 400 error for a malformed command value.
func InvalidArgument(message string) *AppError {
	return &AppError{
		Code:    "INVALID_ARGUMENT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// LoadFailed creates a 502 error for a failed catalog load. The catalog
// stays empty; the caller may retry by re-issuing the load command.
func LoadFailed(err error) *AppError {
	return &AppError{
		Code:    "LOAD_FAILED",
		Message: "catalog could not be loaded from the product provider",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrLoadFailed, err),
	}
}

// ItemUnavailable creates a 409 error for adding an out-of-stock product.
func ItemUnavailable(productID string) *AppError {
	return &AppError{
		Code:    "ITEM_UNAVAILABLE",
		Message: fmt.Sprintf("product %s is out of stock", productID),
		Status:  http.StatusConflict,
		Err:     ErrItemUnavailable,
	}
}

// EmptyCart creates a 422 error for checkout on an empty cart.
func EmptyCart() *AppError {
	return &AppError{
		Code:    "EMPTY_CART",
		Message: "cannot check out an empty cart",
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrEmptyCart,
	}
}

// CheckoutFailed creates a 422 error for a failed payment step. The cart is
// left intact and the checkout returns to awaiting confirmation.
func CheckoutFailed(message string) *AppError {
	return &AppError{
		Code:    "CHECKOUT_FAILED",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrCheckoutFailed,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict), errors.Is(err, ErrItemUnavailable):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrCheckoutFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrLoadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
