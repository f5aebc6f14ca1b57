package admin

import (
	"net/http"
	"strings"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/dukerupert/bookworld/internal/middleware"
)

const recentOrdersLimit = 5

// OrderHandler lists orders and moves them through their lifecycle.
type OrderHandler struct {
	orders domain.OrderService
}

func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type statusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"trackingNumber" validate:"max=100"`
}

// List handles GET /api/admin/orders?status=&limit=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var status domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, err := domain.ParseOrderStatus(raw)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		status = s
	}
	limit, err := handler.QueryInt32(r, "limit", 0)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	orders, err := h.orders.ListAllOrders(r.Context(), status, limit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"orders": orders, "count": len(orders)})
}

// Recent handles GET /api/admin/orders/recent
func (h *OrderHandler) Recent(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.RecentOrders(r.Context(), recentOrdersLimit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"orders": orders})
}

// Get handles GET /api/admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.GetOrderAdmin(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"order": order})
}

// UpdateStatus handles PATCH /api/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req statusRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), domain.UpdateStatusParams{
		OrderID:        id,
		Status:         status,
		TrackingNumber: strings.TrimSpace(req.TrackingNumber),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("order status updated",
		"order_id", id,
		"status", order.Status,
	)
	handler.OK(w, r, handler.M{"message": "Order status updated successfully", "order": order})
}
