package api

import (
	"net/http"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/dukerupert/bookworld/internal/middleware"
)

// OrderHandler handles checkout and the customer's order history.
type OrderHandler struct {
	orders domain.OrderService
}

func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type placeOrderRequest struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Notes           string                 `json:"notes" validate:"max=1000"`
}

// Place handles POST /api/orders
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), domain.PlaceOrderParams{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("order placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"total", order.TotalCents,
	)
	handler.Created(w, r, handler.M{
		"message": "Order placed successfully",
		"orderId": order.ID,
		"order":   order,
	})
}

// List handles GET /api/orders?limit=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, err := handler.QueryInt32(r, "limit", 0)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), userID, limit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"orders": orders, "count": len(orders)})
}

// Stats handles GET /api/orders/stats
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.orders.OrderStats(r.Context(), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"stats": stats})
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	orderID, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"order": order})
}

// Cancel handles POST /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	orderID, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.CancelOrder(r.Context(), userID, orderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Order cancelled successfully", "order": order})
}
