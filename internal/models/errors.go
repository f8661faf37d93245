package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies an AppError for transport mapping.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindConflict            ErrorKind = "conflict"
	KindInvalidState        ErrorKind = "invalid_state"
	KindValidation          ErrorKind = "validation"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindInternal            ErrorKind = "internal"
	KindInconsistentCascade ErrorKind = "inconsistent_cascade"
)

// Error codes surfaced to clients.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeFriendshipNotFound  = "FRIENDSHIP_NOT_FOUND"
	CodeRequestNotFound     = "REQUEST_NOT_FOUND"
	CodeAlreadyFriends      = "ALREADY_FRIENDS"
	CodeAlreadyPending      = "ALREADY_PENDING"
	CodeAlreadyArchived     = "ALREADY_ARCHIVED"
	CodeAccountPrivate      = "ACCOUNT_PRIVATE"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeInconsistentCascade = "INCONSISTENT_CASCADE"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewFriendshipNotFoundError(userID, friendID string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    CodeFriendshipNotFound,
		Message: fmt.Sprintf("no friendship between %s and %s", userID, friendID),
	}
}

func NewInvalidStateError(code, message string) *AppError {
	return &AppError{
		Kind:    KindInvalidState,
		Code:    code,
		Message: message,
	}
}

func NewRequestNotFoundError(requesterID, targetID string) *AppError {
	return NewInvalidStateError(CodeRequestNotFound,
		fmt.Sprintf("no pending friend request from %s to %s", requesterID, targetID))
}

func NewConflictError(code, message string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Code:    code,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: message,
	}
}

// NewAccountPrivateError rejects a profile listing of a private account.
func NewAccountPrivateError(userID string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    CodeAccountPrivate,
		Message: fmt.Sprintf("account %s is private", userID),
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthorized,
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewInconsistentCascadeError reports a primary write that succeeded while its
// follow-up cascade did not.
func NewInconsistentCascadeError(operation string, err error) *AppError {
	return &AppError{
		Kind:    KindInconsistentCascade,
		Code:    CodeInconsistentCascade,
		Message: fmt.Sprintf("%s succeeded but its cascade did not complete", operation),
		Err:     err,
	}
}

// IsCode reports whether err carries an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to the HTTP status used by handlers.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound, KindInvalidState:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil && appErr.Kind != KindInternal {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
