package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/bookworld/internal/domain"
)

// Middleware cannot import handler (handler imports middleware for
// GetLogger), so the error envelope is written here as well. Keep both in
// step.

var statusByCode = map[string]int{
	domain.EINVALID:      http.StatusBadRequest,
	domain.EUNAUTHORIZED: http.StatusUnauthorized,
	domain.EFORBIDDEN:    http.StatusForbidden,
	domain.ENOTFOUND:     http.StatusNotFound,
	domain.ECONFLICT:     http.StatusConflict,
	domain.ETOOLARGE:     http.StatusRequestEntityTooLarge,
	domain.ERATELIMIT:    http.StatusTooManyRequests,
	domain.ENOTIMPL:      http.StatusNotImplemented,
	domain.EUNAVAILABLE:  http.StatusServiceUnavailable,
}

// HTTPStatus maps an error code to its response status. Unknown codes are
// 500.
func HTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondWithError writes {"success":false,"error":...,"code":...}.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := HTTPStatus(code)

	logger := GetLogger(r.Context()).With("code", code, "status", status)
	if status >= http.StatusInternalServerError {
		logger.Error("request rejected", "error", err)
	} else {
		logger.Info("request rejected", "reason", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   domain.ErrorMessage(err),
		"code":    code,
	}); err != nil {
		logger.Debug("failed to write error body", "error", err)
	}
}

func respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	respondWithError(w, r, domain.Unauthorized("", message))
}

func respondForbidden(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.ErrAdminRequired)
}

func respondTooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.ERATELIMIT, "", "Too many requests from this IP, please try again later."))
}

func respondTooLarge(w http.ResponseWriter, r *http.Request, message string) {
	respondWithError(w, r, domain.Errorf(domain.ETOOLARGE, "", "%s", message))
}
