// Package api holds the customer-facing JSON handlers.
package api

import (
	"net/http"

	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/dukerupert/bookworld/internal/middleware"
	"github.com/google/uuid"
)

// currentUser returns the signed-in user's id, writing a 401 when the
// request carries no principal.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	p := middleware.GetPrincipal(r.Context())
	if p == nil {
		handler.UnauthorizedResponse(w, r)
		return uuid.Nil, false
	}
	return p.UserID, true
}
