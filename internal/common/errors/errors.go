package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	// Generic errors
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"

	// User errors
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserBanned       ErrorCode = "USER_BANNED"
	ErrCodeUserInactive     ErrorCode = "USER_INACTIVE"
	ErrCodeEmailTaken       ErrorCode = "EMAIL_TAKEN"
	ErrCodeLastAdmin        ErrorCode = "LAST_ADMIN"
	ErrCodeInvalidUserData  ErrorCode = "INVALID_USER_DATA"
	ErrCodeBadCredentials   ErrorCode = "BAD_CREDENTIALS"
	ErrCodeTokenExpired     ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid     ErrorCode = "TOKEN_INVALID"
	ErrCodeTelegramNotBound ErrorCode = "TELEGRAM_NOT_BOUND"

	// Stream control errors
	ErrCodeStreamConflict      ErrorCode = "STREAM_STATE_CONFLICT"
	ErrCodeStreamBusy          ErrorCode = "STREAM_CONTROL_BUSY"
	ErrCodeStreamerUnavailable ErrorCode = "STREAMER_UNAVAILABLE"

	// Playlist errors
	ErrCodePlaylistIO       ErrorCode = "PLAYLIST_IO_ERROR"
	ErrCodePlaylistFull     ErrorCode = "PLAYLIST_FULL"
	ErrCodeTrackNotFound    ErrorCode = "TRACK_NOT_FOUND"
	ErrCodeInvalidTrackURL  ErrorCode = "INVALID_TRACK_URL"
	ErrCodeInvalidPosition  ErrorCode = "INVALID_POSITION"

	// Storage errors
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	ErrCodeTransactionFailed ErrorCode = "TRANSACTION_FAILED"
	ErrCodeConnectionFailed  ErrorCode = "CONNECTION_FAILED"
	ErrCodeCacheError        ErrorCode = "CACHE_ERROR"

	// External API errors
	ErrCodeTelegramAPI ErrorCode = "TELEGRAM_API_ERROR"
	ErrCodeExternalAPI ErrorCode = "EXTERNAL_API_ERROR"
	ErrCodeRateLimit   ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// AppError is the typed application error carried through handlers and
// rendered by the error-handler middleware.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"stack,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	UserID    int64                  `json:"user_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a "not found" class error.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeUserNotFound ||
		e.Code == ErrCodeTrackNotFound
}

// IsValidation reports whether the error is a validation error.
func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation ||
		e.Code == ErrCodeInvalidUserData ||
		e.Code == ErrCodeInvalidTrackURL ||
		e.Code == ErrCodeInvalidPosition
}

// IsUnauthorized reports whether the error is an auth error.
func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden ||
		e.Code == ErrCodeBadCredentials || e.Code == ErrCodeTokenExpired ||
		e.Code == ErrCodeTokenInvalid
}

// IsConflict reports whether the error is a state conflict.
func (e *AppError) IsConflict() bool {
	return e.Code == ErrCodeConflict || e.Code == ErrCodeStreamConflict ||
		e.Code == ErrCodeStreamBusy || e.Code == ErrCodeEmailTaken ||
		e.Code == ErrCodeLastAdmin
}

// IsInternal reports whether the error is an internal failure.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeDatabaseError ||
		e.Code == ErrCodeCacheError ||
		e.Code == ErrCodePlaylistIO ||
		e.Code == ErrCodeTelegramAPI
}

// WithContext attaches request context to the error.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetail attaches detail payload to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID attaches the request ID to the error.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// WithUserID attaches the acting user ID to the error.
func (e *AppError) WithUserID(userID int64) *AppError {
	e.UserID = userID
	return e
}

// WithStack captures the call stack.
func (e *AppError) WithStack() *AppError {
	e.Stack = getStackTrace()
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap wraps an existing error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		// Skip frames inside this package
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// Constructors for the frequent cases

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewNotFoundError creates a "not found" error.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// NewUserNotFoundError creates a "user not found" error.
func NewUserNotFoundError(userID int64) *AppError {
	return New(ErrCodeUserNotFound, fmt.Sprintf("User not found: %d", userID)).
		WithDetail("user_id", userID)
}

// NewUnauthorizedError creates an authentication error.
func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

// NewForbiddenError creates an authorization error.
func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason)).
		WithDetail("reason", reason)
}

// NewStreamConflictError creates a stream state conflict error.
func NewStreamConflictError(command, state string) *AppError {
	return New(ErrCodeStreamConflict, fmt.Sprintf("Cannot %s stream while %s", command, state)).
		WithDetail("command", command).
		WithDetail("state", state)
}

// NewStreamBusyError reports a concurrent control operation in progress.
func NewStreamBusyError() *AppError {
	return New(ErrCodeStreamBusy, "Another stream control operation is in progress")
}

// NewStreamerUnavailableError reports that the streamer is not reachable.
func NewStreamerUnavailableError(err error) *AppError {
	return Wrap(err, ErrCodeStreamerUnavailable, "Streamer service unavailable")
}

// NewPlaylistIOError creates a playlist file I/O error.
func NewPlaylistIOError(operation string, err error) *AppError {
	return Wrap(err, ErrCodePlaylistIO, fmt.Sprintf("Playlist operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewDatabaseError creates a database error.
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewCacheError creates a Redis error.
func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewTelegramAPIError creates a Telegram API error.
func NewTelegramAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeTelegramAPI, fmt.Sprintf("Telegram API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewConflictError creates a generic conflict error.
func NewConflictError(resource, reason string) *AppError {
	return New(ErrCodeConflict, fmt.Sprintf("Conflict with %s: %s", resource, reason)).
		WithDetail("resource", resource).
		WithDetail("reason", reason)
}

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts err to an AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
