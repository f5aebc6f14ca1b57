package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes. The HTTP layer maps each to a status.
const (
	EINVALID      = "invalid"         // 400
	EUNAUTHORIZED = "unauthorized"    // 401
	EFORBIDDEN    = "forbidden"       // 403
	ENOTFOUND     = "not_found"       // 404
	ECONFLICT     = "conflict"        // 409 duplicate email, stock race, bad transition
	ETOOLARGE     = "too_large"       // 413
	ERATELIMIT    = "rate_limit"      // 429
	EINTERNAL     = "internal"        // 500, details never reach the client
	ENOTIMPL      = "not_implemented" // 501
	EUNAVAILABLE  = "unavailable"     // 503, safe to retry
)

const internalMessage = "An internal error occurred. Please try again later."

// Error is the error type every service returns. Message is safe to show a
// customer; Op and Err are for logs.
type Error struct {
	Code    string
	Message string
	Op      string // e.g. "cart.add"
	Err     error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	parts = append(parts, e.Message)
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// ErrorCode returns the code carried by err. Validation errors are
// EINVALID, anything unrecognised is EINTERNAL, nil is "".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	if IsValidationError(err) {
		return EINVALID
	}
	return EINTERNAL
}

// ErrorMessage returns the text a client may see. Internal and foreign
// errors collapse to a generic message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok && e.Code != EINTERNAL {
		return e.Message
	}
	return internalMessage
}

// ErrorOp returns the operation recorded on err, if any.
func ErrorOp(err error) string {
	if e, ok := asError(err); ok {
		return e.Op
	}
	return ""
}

// IsCode reports whether err carries code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// IsRetryable reports whether the failed operation may be tried again.
func IsRetryable(err error) bool {
	return IsCode(err, EUNAVAILABLE)
}

// Errorf builds an error with a formatted message.
func Errorf(code, op, format string, args ...any) error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches code, op and message to err. A nil err stays nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

func NotFound(op, resource, identifier string) error {
	return Errorf(ENOTFOUND, op, "%s not found: %s", resource, identifier)
}

func Unauthorized(op, message string) error {
	return &Error{Code: EUNAUTHORIZED, Op: op, Message: message}
}

func Forbidden(op, message string) error {
	return &Error{Code: EFORBIDDEN, Op: op, Message: message}
}

func Invalid(op, message string) error {
	return &Error{Code: EINVALID, Op: op, Message: message}
}

func Conflict(op, message string) error {
	return &Error{Code: ECONFLICT, Op: op, Message: message}
}

// Internal wraps err for logging; the client sees only the generic message.
func Internal(err error, op, message string) error {
	return &Error{Code: EINTERNAL, Op: op, Message: message, Err: err}
}

// Unavailable wraps a timeout or outage of a backing system.
func Unavailable(err error, op string) error {
	return &Error{
		Code:    EUNAVAILABLE,
		Op:      op,
		Message: "Service temporarily unavailable. Please try again.",
		Err:     err,
	}
}

// ValidationError collects per-field messages from request validation.
type ValidationError struct {
	Fields map[string]string
	Op     string
}

func (e *ValidationError) Error() string {
	var msg string
	if len(e.Fields) == 1 {
		for field, m := range e.Fields {
			msg = field + ": " + m
		}
	} else {
		msg = fmt.Sprintf("validation failed for %d fields", len(e.Fields))
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// NewValidationError reports a single bad field.
func NewValidationError(op, field, message string) error {
	return &ValidationError{Op: op, Fields: map[string]string{field: message}}
}

// AddFieldError adds field to the ValidationError in err, or starts a new
// one when err is nil or some other error.
func AddFieldError(err error, field, message string) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Fields == nil {
			ve.Fields = make(map[string]string)
		}
		ve.Fields[field] = message
		return ve
	}
	return &ValidationError{Fields: map[string]string{field: message}}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationFields returns the field messages, or nil.
func GetValidationFields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
