package utils

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound   = "NOT_FOUND"
	ErrValidation = "VALIDATION_ERROR"
	ErrDuplicate  = "DUPLICATE"

	// Store errors (document/blob store call failed: network, permission, quota)
	ErrStore = "STORE_ERROR"

	// Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"
	ErrInvalidToken = "INVALID_TOKEN"

	// Domain-specific errors
	ErrPostNotFound     = "POST_NOT_FOUND"
	ErrCommentNotFound  = "COMMENT_NOT_FOUND"
	ErrReplyDepth       = "REPLY_DEPTH_EXCEEDED"
	ErrUnknownCurrency  = "UNKNOWN_CURRENCY"
	ErrRatingOutOfRange = "RATING_OUT_OF_RANGE"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewValidationError(field string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: "Missing or invalid field: " + field,
	}
}

func NewNotFoundError(what string, id string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: what + " not found: " + id,
	}
}

func NewStoreError(op string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrStore,
		Message: "Store operation failed: " + op,
		Origin:  originalErr,
	}
}

func NewRatingOutOfRangeError(value float64) *AppError {
	return &AppError{
		Code:    ErrRatingOutOfRange,
		Message: fmt.Sprintf("Rating must be an integer between 1 and 5, got %v", value),
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound matches both the generic and the entity-specific not-found codes.
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrNotFound ||
			appErr.Code == ErrPostNotFound ||
			appErr.Code == ErrCommentNotFound
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrPostNotFound, ErrCommentNotFound:
		return 404 // http.StatusNotFound
	case ErrValidation, ErrReplyDepth, ErrRatingOutOfRange, ErrUnknownCurrency:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrDuplicate:
		return 409 // http.StatusConflict
	case ErrStore:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
