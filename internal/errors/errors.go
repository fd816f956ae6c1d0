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
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeExport     ErrorType = "export"
	ErrorTypeInternal   ErrorType = "internal"
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
	return build(nil, errorType, code, message)
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return build(err, errorType, code, message)
}

// build must be called directly by an exported constructor so that Source
// names the constructor's caller.
func build(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(3),
		Context:  make(map[string]interface{}),
	}
}

func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", file, line)
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

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypeStorage:
		if err.Code == CodeDecodeFailed || err.Code == CodeLoadFailed {
			h.logger.WarnContext(ctx, "Stored value discarded", err.LogFields()...)
			return
		}
		h.logger.ErrorContext(ctx, "Storage error", err.LogFields()...)
	case ErrorTypeExport, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

func (h *Handler) handleGenericError(ctx context.Context, err error) {
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Error codes
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeProfileNotFound   = "PROFILE_NOT_FOUND"
	CodeNoReadings        = "NO_READINGS"
	CodeLoadFailed        = "LOAD_FAILED"
	CodeDecodeFailed      = "DECODE_FAILED"
	CodeCommitFailed      = "COMMIT_FAILED"
	CodeCapacityExceeded  = "CAPACITY_EXCEEDED"
	CodeExportFailed      = "EXPORT_FAILED"
	CodeInternal          = "INTERNAL"
)

// Predefined errors
var (
	ErrInvalidTransition = New(ErrorTypeValidation, CodeInvalidTransition, "Invalid workflow transition")
	ErrProfileNotFound   = New(ErrorTypeValidation, CodeProfileNotFound, "Profile not found")
	ErrNoReadings        = New(ErrorTypeValidation, CodeNoReadings, "Profile has no readings to export")
	ErrCapacityExceeded  = New(ErrorTypeStorage, CodeCapacityExceeded, "Storage capacity exceeded")
	ErrExportFailed      = New(ErrorTypeExport, CodeExportFailed, "Report export failed")
)

// Convenience functions for common errors
func NewValidationError(message string) *AppError {
	return build(nil, ErrorTypeValidation, CodeValidation, message)
}

func NewFieldError(field, message string) *AppError {
	return build(nil, ErrorTypeValidation, CodeValidation, message).WithContext("field", field)
}

func NewTransitionError(from, event string) *AppError {
	return build(nil, ErrorTypeValidation, CodeInvalidTransition, fmt.Sprintf("cannot %s while %s", event, from)).
		WithContext("state", from).
		WithContext("event", event)
}

func NewNoReadingsError(profileID string) *AppError {
	return build(nil, ErrorTypeValidation, CodeNoReadings, "Profile has no readings to export").
		WithContext("profile_id", profileID)
}

func NewLoadError(err error, key string) *AppError {
	return build(err, ErrorTypeStorage, CodeLoadFailed, "Failed to read stored value").
		WithContext("key", key)
}

func NewDecodeError(err error, key string) *AppError {
	return build(err, ErrorTypeStorage, CodeDecodeFailed, "Stored value is not well-formed").
		WithContext("key", key)
}

func NewStorageError(err error, key string) *AppError {
	return build(err, ErrorTypeStorage, CodeCommitFailed, "Failed to persist value").
		WithContext("key", key)
}

func NewExportError(err error, profileID string) *AppError {
	return build(err, ErrorTypeExport, CodeExportFailed, "Report export failed").
		WithContext("profile_id", profileID)
}

func NewInternalError(err error) *AppError {
	return build(err, ErrorTypeInternal, CodeInternal, "Internal error")
}
