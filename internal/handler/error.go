// Package handler holds the shared HTTP plumbing for the API handlers:
// error envelopes, JSON responses and request decoding.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/middleware"
	"github.com/dukerupert/bookworld/internal/telemetry"
)

// codedError is implemented by the storage, shipping and email error types,
// which cannot import domain.
type codedError interface {
	error
	ErrorCode() string
	ErrorMessage() string
}

const internalMessage = "An internal error occurred. Please try again later."

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	return middleware.HTTPStatus(code)
}

// resolve returns the code and user-facing message for err.
func resolve(err error) (string, string) {
	var de *domain.Error
	if errors.As(err, &de) {
		return domain.ErrorCode(err), domain.ErrorMessage(err)
	}

	var ce codedError
	if errors.As(err, &ce) {
		code := ce.ErrorCode()
		if code == domain.EINTERNAL {
			return code, internalMessage
		}
		return code, ce.ErrorMessage()
	}

	return domain.EINTERNAL, internalMessage
}

// ErrorResponse logs err with the request logger and writes the error
// envelope. Validation errors carry their field map. Server errors are
// reported to Sentry.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsValidationError(err) {
		ValidationErrorResponse(w, r, err)
		return
	}

	code, message := resolve(err)
	status := ErrorCodeToHTTPStatus(code)
	logError(r, err, code, status)

	if status >= 500 && code != domain.EUNAVAILABLE && code != domain.ENOTIMPL {
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
			"op":         domain.ErrorOp(err),
			"request_id": middleware.GetRequestID(r.Context()),
		})
	}

	writeError(w, r, status, map[string]any{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// ValidationErrorResponse writes a 400 with the field errors. Other errors
// fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	fields := domain.GetValidationFields(err)
	if fields == nil {
		ErrorResponse(w, r, err)
		return
	}

	logError(r, err, domain.EINVALID, http.StatusBadRequest)

	writeError(w, r, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   firstFieldMessage(fields),
		"code":    domain.EINVALID,
		"fields":  fields,
	})
}

// NotFoundResponse writes a 404 for an unknown route or resource.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "Route %s not found", r.URL.Path))
}

// MethodNotAllowedResponse writes a 405 listing the methods the path accepts.
func MethodNotAllowedResponse(w http.ResponseWriter, r *http.Request, allowed []string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, map[string]any{
		"success": false,
		"error":   fmt.Sprintf("Method %s not allowed", r.Method),
		"code":    "method_not_allowed",
	})
}

// UnauthorizedResponse writes a 401.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.ErrAuthRequired)
}

// ForbiddenResponse writes a 403.
func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.ErrAdminRequired)
}

// InternalErrorResponse writes a 500 without exposing err.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "unexpected error"))
}

func logError(r *http.Request, err error, code string, status int) {
	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, body map[string]any) {
	if !acceptsJSON(r) {
		http.Error(w, body["error"].(string), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		middleware.GetLogger(r.Context()).Debug("failed to write error body", "error", err)
	}
}

// firstFieldMessage picks a stable headline message for a validation error.
func firstFieldMessage(fields map[string]string) string {
	if len(fields) == 1 {
		for _, msg := range fields {
			return msg
		}
	}
	return "Validation failed"
}

// acceptsJSON reports whether the client wants JSON. API clients that send
// no Accept header get JSON too; only an explicit HTML request gets text.
func acceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(contentType, "application/json") {
		return true
	}
	if strings.HasSuffix(r.URL.Path, ".json") {
		return true
	}
	if strings.Contains(accept, "text/html") {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
