package errors

import (
	"fmt"
	"net/http"
)

// ErrorType classifies application errors.
type ErrorType int

const (
	TypeValidation ErrorType = iota
	TypeExtraction
	TypeNotFound
	TypePermission
	TypeStorage
	TypeSystem
)

// AppError is a structured application error. Message is for logs,
// UserMsg is what the API returns to the operator or registrant.
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	UserMsg  string
	Internal error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// GetUserMessage returns the message to show the caller.
func (e *AppError) GetUserMessage() string {
	if e.UserMsg != "" {
		return e.UserMsg
	}
	return e.Message
}

// HTTPStatus maps the error type to a response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case TypeValidation, TypeExtraction:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypePermission:
		return http.StatusForbidden
	case TypeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Constructors

// NewValidationError reports rejected input.
func NewValidationError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypeValidation,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewExtractionError reports a failed bank-statement extraction. These
// are always surfaced distinctly from "zero matches".
func NewExtractionError(code, message, userMsg string, err error) *AppError {
	return &AppError{
		Type:     TypeExtraction,
		Code:     code,
		Message:  message,
		UserMsg:  userMsg,
		Internal: err,
	}
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypeNotFound,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewPermissionError reports a failed authorization check.
func NewPermissionError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypePermission,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewStorageError reports a failed registration-store operation.
func NewStorageError(code, message string, err error) *AppError {
	return &AppError{
		Type:     TypeStorage,
		Code:     code,
		Message:  message,
		UserMsg:  "The registration store is unavailable. Please try again shortly.",
		Internal: err,
	}
}

// NewSystemError reports an internal failure.
func NewSystemError(code, message string, err error) *AppError {
	return &AppError{
		Type:     TypeSystem,
		Code:     code,
		Message:  message,
		UserMsg:  "Something went wrong. Please try again.",
		Internal: err,
	}
}

// AsAppError unwraps err into an *AppError, or wraps it as a system
// error so every failure leaving a handler has a type and a code.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewSystemError("UNEXPECTED", "unexpected error", err)
}
