package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     nil,
	}
}

// Domain failures. Each maps to a stable machine-readable code so clients can
// branch on business-rule rejections without parsing messages.

func InvalidTransition(message string) *AppError {
	return &AppError{
		Code:    "INVALID_TRANSITION",
		Message: message,
		Status:  http.StatusConflict,
	}
}

func ProductUnavailable(message string) *AppError {
	return &AppError{
		Code:    "PRODUCT_UNAVAILABLE",
		Message: message,
		Status:  http.StatusConflict,
	}
}

func SelfPurchase() *AppError {
	return &AppError{
		Code:    "SELF_PURCHASE",
		Message: "You cannot buy your own product",
		Status:  http.StatusBadRequest,
	}
}

func MissingImages() *AppError {
	return &AppError{
		Code:    "MISSING_IMAGES",
		Message: "Product needs at least one image before it can be published",
		Status:  http.StatusBadRequest,
	}
}

func AlreadyCompleted() *AppError {
	return &AppError{
		Code:    "ALREADY_COMPLETED",
		Message: "A completed purchase cannot be cancelled",
		Status:  http.StatusConflict,
	}
}

func DuplicateRating() *AppError {
	return &AppError{
		Code:    "DUPLICATE_RATING",
		Message: "This purchase has already been rated in this direction",
		Status:  http.StatusConflict,
	}
}

func PurchaseNotCompleted() *AppError {
	return &AppError{
		Code:    "PURCHASE_NOT_COMPLETED",
		Message: "Ratings are only allowed once the purchase is completed",
		Status:  http.StatusBadRequest,
	}
}

func ScoreOutOfRange() *AppError {
	return &AppError{
		Code:    "SCORE_OUT_OF_RANGE",
		Message: "Rating score must be between 1 and 5",
		Status:  http.StatusBadRequest,
	}
}

func CrossThreadReference() *AppError {
	return &AppError{
		Code:    "CROSS_THREAD_REFERENCE",
		Message: "An offer response must reference a message in the same thread",
		Status:  http.StatusBadRequest,
	}
}

func ReasonTooShort() *AppError {
	return &AppError{
		Code:    "REASON_TOO_SHORT",
		Message: "Report reason must be at least 10 characters",
		Status:  http.StatusBadRequest,
	}
}

func InvalidTarget() *AppError {
	return &AppError{
		Code:    "INVALID_TARGET",
		Message: "A report must have exactly one target",
		Status:  http.StatusBadRequest,
	}
}

func TooManyRequests(message string, waitTime interface{}) *AppError {
	return &AppError{
		Code:    "TOO_MANY_REQUESTS",
		Message: message,
		Status:  http.StatusTooManyRequests,
		Err:     nil,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
