package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/events"
	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/dukerupert/bookworld/internal/middleware"
	"github.com/google/uuid"
)

// CartStream is where cart change notifications come from.
type CartStream interface {
	Subscribe(buffer int, match events.Match) *events.Subscription
}

// CartHandler handles the signed-in user's cart.
type CartHandler struct {
	cart      domain.CartService
	stream    CartStream
	heartbeat time.Duration
}

func NewCartHandler(cart domain.CartService, stream CartStream) *CartHandler {
	return &CartHandler{
		cart:      cart,
		stream:    stream,
		heartbeat: 25 * time.Second,
	}
}

type addToCartRequest struct {
	BookID   uuid.UUID `json:"bookId" validate:"required"`
	Quantity *int32    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type updateCartRequest struct {
	Quantity *int32 `json:"quantity" validate:"required,max=99"`
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.cart.GetCart(r.Context(), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"cart": summary})
}

// Add handles POST /api/cart/add
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	qty := int32(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	summary, err := h.cart.AddLine(r.Context(), userID, req.BookID, qty)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Item added to cart", "cart": summary})
}

// Update handles PUT /api/cart/items/{bookId}. A quantity of zero or less
// removes the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookID, err := handler.PathUUID(r, "bookId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateCartRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cart.UpdateLineQuantity(r.Context(), userID, bookID, *req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Cart updated", "cart": summary})
}

// Remove handles DELETE /api/cart/items/{bookId}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookID, err := handler.PathUUID(r, "bookId")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cart.RemoveLine(r.Context(), userID, bookID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Item removed from cart", "cart": summary})
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Cart cleared"})
}

// Events handles GET /api/cart/events. It streams the caller's cart as
// server-sent events: the current cart first, then every change until the
// client disconnects.
func (h *CartHandler) Events(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	summary, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	sub := h.stream.Subscribe(events.DefaultBuffer, events.MatchUser(userID, events.TypeCartUpdated))
	defer sub.Close()

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	initial := events.CartUpdated{
		Lines:         make([]domain.CartLine, 0, len(summary.Items)),
		ItemCount:     summary.ItemCount,
		SubtotalCents: summary.SubtotalCents,
	}
	for _, item := range summary.Items {
		initial.Lines = append(initial.Lines, item.CartLine)
	}
	if err := writeSSE(w, "", "cart", initial); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		logger.Warn("cart stream not flushable", "error", err)
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e, open := <-sub.C():
			if !open {
				return
			}
			if err := writeSSE(w, e.ID.String(), "cart", e.Payload); err != nil {
				logger.Debug("cart stream closed", "error", err)
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeSSE(w http.ResponseWriter, id, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if id != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", id); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
