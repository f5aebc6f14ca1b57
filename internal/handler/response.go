package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/bookworld/internal/middleware"
)

// M is a JSON object payload.
type M map[string]any

// JSON writes payload with "success": true added.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload M) {
	body := make(M, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	write(w, r, status, body)
}

// Declined writes a request that was understood but had no effect, such as
// adding a book that is already in the wishlist. It is not an error response:
// the status is chosen by the caller and nothing is logged.
func Declined(w http.ResponseWriter, r *http.Request, status int, message string, payload M) {
	body := make(M, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = false
	body["error"] = message
	write(w, r, status, body)
}

func write(w http.ResponseWriter, r *http.Request, status int, body M) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		middleware.GetLogger(r.Context()).Warn("failed to write response", "error", err)
	}
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, r *http.Request, payload M) {
	JSON(w, r, http.StatusOK, payload)
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, r *http.Request, payload M) {
	JSON(w, r, http.StatusCreated, payload)
}
