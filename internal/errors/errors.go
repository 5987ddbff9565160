package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypePersistence  ErrorType = "persistence"
	ErrorTypeInvalidRange ErrorType = "invalid_range"
	ErrorTypeDelivery     ErrorType = "delivery"
	ErrorTypeInternal     ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	source := fmt.Sprintf("%s:%d", file, line)

	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  source,
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	source := fmt.Sprintf("%s:%d", file, line)

	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   source,
		Context:  make(map[string]interface{}),
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errorType
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.handleGenericError(ctx, err)
	}
}

// handleAppError handles AppError instances
func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeNotFound:
		// Stale ids come from benign UI races.
		h.logger.DebugContext(ctx, "Stale reference ignored", err.LogFields()...)
	case ErrorTypeValidation, ErrorTypeInvalidRange:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypePersistence, ErrorTypeDelivery, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// handleGenericError handles generic errors
func (h *Handler) handleGenericError(ctx context.Context, err error) {
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

// Predefined errors
var (
	ErrEmptyName     = New(ErrorTypeValidation, "EMPTY_NAME", "Name must not be empty")
	ErrEmptyTitle    = New(ErrorTypeValidation, "EMPTY_TITLE", "Title must not be empty")
	ErrInvalidStatus = New(ErrorTypeValidation, "INVALID_STATUS", "Unknown supplement status")
	ErrInvalidInput  = New(ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrNotFound      = New(ErrorTypeNotFound, "NOT_FOUND", "Referenced item no longer exists")
	ErrPersistence   = New(ErrorTypePersistence, "STORAGE", "Storage operation failed")
	ErrInvalidRange  = New(ErrorTypeInvalidRange, "INVALID_RANGE", "Date range is inverted or incomplete")
)

// Convenience functions for common errors
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewNotFoundError(kind, id string) *AppError {
	return New(ErrorTypeNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", kind)).
		WithContext("kind", kind).
		WithContext("id", id)
}

func NewPersistenceError(err error, key string) *AppError {
	return Wrap(err, ErrorTypePersistence, "STORAGE", "Storage operation failed").
		WithContext("key", key)
}

func NewInvalidRangeError(id string) *AppError {
	return New(ErrorTypeInvalidRange, "INVALID_RANGE", "Date range is inverted or incomplete").
		WithContext("id", id)
}

func NewDeliveryError(err error, notificationID string) *AppError {
	return Wrap(err, ErrorTypeDelivery, "DELIVERY", "Notification delivery failed").
		WithContext("notification_id", notificationID)
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}
