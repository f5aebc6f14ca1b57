// Package events carries domain notifications from the services to
// subscribers: the cart stream, the background worker and external brokers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/google/uuid"
)

// Type names an event kind.
type Type string

const (
	TypeCartUpdated        Type = "cart.updated"
	TypeWishlistUpdated    Type = "wishlist.updated"
	TypeOrderPlaced        Type = "order.placed"
	TypeOrderStatusChanged Type = "order.status_changed"
	TypeUserSignedIn       Type = "user.signed_in"
)

// Event is a published notification. Payload holds one of the payload
// structs below, matching Type.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	UserID     uuid.UUID `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Marshal encodes e for an external broker.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func newEvent(t Type, userID uuid.UUID, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// CartUpdated carries the full line list after a cart mutation.
type CartUpdated struct {
	Lines         []domain.CartLine `json:"lines"`
	ItemCount     int64             `json:"itemCount"`
	SubtotalCents int64             `json:"subtotal"`
}

// NewCartUpdated snapshots cart.
func NewCartUpdated(cart *domain.Cart) Event {
	lines := make([]domain.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	return newEvent(TypeCartUpdated, cart.UserID, CartUpdated{
		Lines:         lines,
		ItemCount:     cart.ItemCount(),
		SubtotalCents: cart.Subtotal(),
	})
}

// Wishlist actions.
const (
	WishlistAdded   = "added"
	WishlistRemoved = "removed"
	WishlistCleared = "cleared"
	WishlistMoved   = "moved_to_cart"
)

// WishlistUpdated describes a wishlist mutation.
type WishlistUpdated struct {
	Action string    `json:"action"`
	BookID uuid.UUID `json:"bookId,omitempty"`
}

// NewWishlistUpdated builds a wishlist event.
func NewWishlistUpdated(userID uuid.UUID, action string, bookID uuid.UUID) Event {
	return newEvent(TypeWishlistUpdated, userID, WishlistUpdated{Action: action, BookID: bookID})
}

// OrderPlaced carries the created order.
type OrderPlaced struct {
	Order domain.OrderDetail `json:"order"`
}

// NewOrderPlaced builds an order placement event.
func NewOrderPlaced(order *domain.OrderDetail) Event {
	return newEvent(TypeOrderPlaced, order.UserID, OrderPlaced{Order: *order})
}

// Actors that change order status.
const (
	ActorCustomer = "customer"
	ActorAdmin    = "admin"
)

// OrderStatusChanged describes a lifecycle transition.
type OrderStatusChanged struct {
	OrderID        uuid.UUID          `json:"orderId"`
	OrderNumber    string             `json:"orderNumber"`
	From           domain.OrderStatus `json:"from"`
	To             domain.OrderStatus `json:"to"`
	TrackingNumber string             `json:"trackingNumber,omitempty"`
	TotalCents     int64              `json:"total"`
	Actor          string             `json:"actor"`
}

// NewOrderStatusChanged builds a transition event for order.
func NewOrderStatusChanged(order *domain.Order, from domain.OrderStatus, actor string) Event {
	return newEvent(TypeOrderStatusChanged, order.UserID, OrderStatusChanged{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		From:           from,
		To:             order.Status,
		TrackingNumber: order.TrackingNumber,
		TotalCents:     order.TotalCents,
		Actor:          actor,
	})
}

// UserSignedIn records a successful sign-in.
type UserSignedIn struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
	New      bool   `json:"new"`
}

// NewUserSignedIn builds a sign-in event.
func NewUserSignedIn(user *domain.User, isNew bool) Event {
	return newEvent(TypeUserSignedIn, user.ID, UserSignedIn{
		Email:    user.Email,
		Provider: user.AuthProvider,
		New:      isNew,
	})
}

// Publisher accepts events. Publish never blocks on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event)

func (f PublisherFunc) Publish(ctx context.Context, e Event) { f(ctx, e) }

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Event) {})
