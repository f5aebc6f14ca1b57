package admin

import (
	"net/http"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/handler"
)

// StatsHandler serves dashboard statistics.
type StatsHandler struct {
	stats domain.StatsService
}

func NewStatsHandler(stats domain.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Books handles GET /api/admin/stats/books
func (h *StatsHandler) Books(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.BookStats(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"stats": stats})
}

// Users handles GET /api/admin/stats/users
func (h *StatsHandler) Users(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.UserStats(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"stats": stats})
}

// Orders handles GET /api/admin/stats/orders
func (h *StatsHandler) Orders(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.OrderStats(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"stats": stats})
}

// ListUsers handles GET /api/admin/users?limit=
func (h *StatsHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := handler.QueryInt32(r, "limit", 0)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	users, err := h.stats.ListUsers(r.Context(), limit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"users": users, "count": len(users)})
}

// ListBooks handles GET /api/admin/books?limit=
func (h *StatsHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	limit, err := handler.QueryInt32(r, "limit", 0)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	books, err := h.stats.ListBooks(r.Context(), limit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"books": books, "count": len(books)})
}
